package kimicheck

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Driver obtains a credential and runs every check against it, in order.
type Driver struct {
	// BaseURL of the API, DefaultBaseURL if empty.
	BaseURL string

	// Model used by the chat checks, DefaultModel if empty.
	Model string

	// HTTPClient used for requests, http.DefaultClient if nil.
	HTTPClient *http.Client

	In  io.Reader
	Out io.Writer

	// ReadSecret, if set, is used to prompt for the credential instead of
	// reading a line from In. It should not echo what is typed.
	ReadSecret func() (string, error)

	// Render, if set, formats reply previews.
	Render func(string) string

	// Per-request deadlines, ListTimeout and ChatTimeout if zero.
	ListTimeout time.Duration
	ChatTimeout time.Duration

	Logger *slog.Logger
}

// ExitCode maps the error returned by Run onto a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}

// Run reads the credential from args, or prompts for it, and runs all checks.
//
// It returns ErrEmptyCredential or ErrAborted without issuing any request
// when no usable key was given, ErrChecksFailed when at least one check
// failed, and nil when all of them passed.
func (d *Driver) Run(ctx context.Context, args []string) error {
	in := bufio.NewReader(d.input())

	fmt.Fprintln(d.Out, rule)
	fmt.Fprintln(d.Out, styleBold.Render("Kimi API check"))
	fmt.Fprintln(d.Out, rule)

	cred, err := d.credential(in, args)
	if err != nil {
		fmt.Fprintln(d.Out, styleFailure.Render("❌ "+err.Error()))
		return err
	}

	if !cred.HasKnownPrefix() {
		if !d.confirm(in) {
			return ErrAborted
		}
	}

	report := d.RunChecks(ctx, cred)
	report.Print(d.Out)

	if !report.Passed() {
		return ErrChecksFailed
	}

	fmt.Fprintln(d.Out, "\nEnter this API key in the app:")
	fmt.Fprintf(d.Out, "   %s\n", cred.Masked())

	return nil
}

// RunChecks runs every check against the API with the given credential.
// Failures are recorded in the report, never returned.
func (d *Driver) RunChecks(ctx context.Context, cred Credential) *Report {
	report := NewReport()
	logger := d.logger().With("run_id", report.RunID.String())

	checker := &Checker{
		Client: NewClient(cred, WithBaseURL(d.BaseURL), WithHTTPClient(d.HTTPClient)),
		Model:  d.Model,
		Out:    d.Out,
		Render: d.Render,
		Logger: logger,

		ListTimeout: d.ListTimeout,
		ChatTimeout: d.ChatTimeout,
	}

	for _, check := range checker.Checks() {
		start := time.Now()
		err := check.Run(ctx)
		elapsed := time.Since(start)

		if err != nil {
			logger.DebugContext(ctx, "check failed", "check", check.Name, "elapsed", elapsed, "error", err)
		} else {
			logger.DebugContext(ctx, "check passed", "check", check.Name, "elapsed", elapsed)
		}

		report.Add(CheckResult{Name: check.Name, Err: err, Elapsed: elapsed})
	}

	return report
}

func (d *Driver) credential(in *bufio.Reader, args []string) (Credential, error) {
	if len(args) > 0 {
		return NewCredential(args[0])
	}

	fmt.Fprint(d.Out, "\nEnter your Kimi API key: ")

	if d.ReadSecret != nil {
		raw, err := d.ReadSecret()
		fmt.Fprintln(d.Out)
		if err != nil {
			return Credential{}, fmt.Errorf("failed to read API key: %w", err)
		}
		return NewCredential(raw)
	}

	raw, err := in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return Credential{}, fmt.Errorf("failed to read API key: %w", err)
	}
	return NewCredential(raw)
}

// confirm warns about an unexpected key format and asks whether to
// continue anyway. Only "y" or "Y" continues.
func (d *Driver) confirm(in *bufio.Reader) bool {
	fmt.Fprintln(d.Out, styleWarning.Render(fmt.Sprintf("\n⚠️  Warning: %v, which is usually wrong", ErrUnexpectedPrefix)))
	fmt.Fprintf(d.Out, "   Kimi API keys look like: %sxxxxxxxxxxxxxxxx\n", CredentialPrefix)
	fmt.Fprint(d.Out, "   Continue anyway? (y/n): ")

	answer, err := in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false
	}

	return strings.EqualFold(strings.TrimSpace(answer), "y")
}

func (d *Driver) input() io.Reader {
	if d.In == nil {
		return strings.NewReader("")
	}
	return d.In
}

func (d *Driver) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return d.Logger
}
