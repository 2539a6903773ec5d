package kimicheck

import (
	"fmt"
	"io"
	"time"

	"github.com/segmentio/ksuid"
)

// CheckResult is the outcome of a single check.
type CheckResult struct {
	Name    string
	Err     error
	Elapsed time.Duration
}

// Passed reports whether the check succeeded.
func (r CheckResult) Passed() bool {
	return r.Err == nil
}

// Report collects the results of one run of the checks.
type Report struct {
	RunID   ksuid.KSUID
	Results []CheckResult
}

// NewReport returns an empty report with a fresh run ID.
func NewReport() *Report {
	return &Report{RunID: ksuid.New()}
}

// Add appends a result to the report.
func (r *Report) Add(res CheckResult) {
	r.Results = append(r.Results, res)
}

// Passed reports whether every check passed. A report without any
// results has not passed.
func (r *Report) Passed() bool {
	if len(r.Results) == 0 {
		return false
	}
	for _, res := range r.Results {
		if !res.Passed() {
			return false
		}
	}
	return true
}

// Print writes the summary table and the overall verdict to w.
func (r *Report) Print(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, styleBold.Render("Summary")+" "+styleFaint.Render(r.RunID.String()))
	fmt.Fprintln(w, rule)

	for _, res := range r.Results {
		status := styleSuccess.Render("✅ passed")
		if !res.Passed() {
			status = styleFailure.Render("❌ failed")
		}
		fmt.Fprintf(w, "%s: %s %s\n", res.Name, status, styleFaint.Render(res.Elapsed.Round(time.Millisecond).String()))
	}

	fmt.Fprintln(w)
	if r.Passed() {
		fmt.Fprintln(w, styleSuccess.Render("🎉 All checks passed! Your API key is ready to use."))
	} else {
		fmt.Fprintln(w, styleWarning.Render("⚠️  Some checks failed, see the errors above."))
	}
}
