package main

import (
	"log/slog"
	"os"

	"github.com/picatz/kimicheck"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// exitCode is the status the process exits with once the command ran.
var exitCode int

var rootCmd = &cobra.Command{
	Use:   "kimicheck [api-key]",
	Short: "Check that a Kimi API key works",
	Long: `kimicheck validates a Kimi (Moonshot) API key by listing the available
models, sending a short chat and probing structured JSON output.

If no key is given as an argument it is read from the terminal.`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		baseURL := cmd.Flag("base-url").Value.String()
		model := cmd.Flag("model").Value.String()
		verbose, err := cmd.Flags().GetBool("verbose")
		if err != nil {
			return err
		}

		d := &kimicheck.Driver{
			BaseURL: baseURL,
			Model:   model,
			In:      cmd.InOrStdin(),
			Out:     cmd.OutOrStdout(),
			Logger:  newLogger(verbose),
		}

		if stdin, ok := d.In.(*os.File); ok && term.IsTerminal(int(stdin.Fd())) {
			d.ReadSecret = func() (string, error) {
				b, err := term.ReadPassword(int(stdin.Fd()))
				return string(b), err
			}
		}

		if stdout, ok := d.Out.(*os.File); ok && term.IsTerminal(int(stdout.Fd())) {
			width, _, err := term.GetSize(int(stdout.Fd()))
			if err != nil {
				width = 80
			}
			d.Render = kimicheck.MarkdownRenderer(width)
		}

		// The driver reports every failure itself, only the status is left.
		exitCode = kimicheck.ExitCode(d.Run(cmd.Context(), args))
		return nil
	},
}

func newLogger(verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func init() {
	rootCmd.Flags().String("base-url", kimicheck.DefaultBaseURL, "base URL of the API")
	rootCmd.Flags().String("model", kimicheck.DefaultModel, "model used by the chat checks")
	rootCmd.Flags().BoolP("verbose", "v", false, "log requests to stderr")
}
