package ui

import (
	"fmt"
	"io"

	"github.com/desertthunder/ytgrab/internal/tasks"
)

// RenderSummary writes the end-of-run totals followed by each failed track and its error.
func RenderSummary(w io.Writer, result *tasks.RunResult) {
	fmt.Fprintln(w, styles.title.Render("Run "+result.RunID))
	fmt.Fprintf(w, "%s %d  %s %d  %s %d\n",
		styles.ok.Render("completed"), result.Completed,
		styles.label.Render("skipped"), result.Skipped,
		styles.err.Render("failed"), result.Failed,
	)
	if result.Ignored > 0 || result.Declined > 0 {
		fmt.Fprintln(w, styles.help.Render(fmt.Sprintf("%d ignored, %d declined of %d records", result.Ignored, result.Declined, result.Total)))
	}

	for _, res := range result.Failures() {
		fmt.Fprintf(w, "  %s %s: %s\n", styles.err.Render("✗"), res.Record.Label(), res.Error())
	}
}
