package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/naka-gawa/pr-stats/internal/usecase"
)

// ConsoleSummary prints the condensed digest shown after a report run:
// the two headline winners and where the full report was written.
func ConsoleSummary(w io.Writer, result *usecase.Result, reportPath string) {
	color.New(color.FgGreen, color.Bold).Fprintln(w, "Report complete")

	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)

	if login, count := result.Overall.MostPRs(); login != "" {
		tbl.AppendRow(table.Row{"Most PRs", fmt.Sprintf("%s (%d)", login, count)})
	}
	if login, count := result.Overall.MostReviews(); login != "" {
		tbl.AppendRow(table.Row{"Most reviews", fmt.Sprintf("%s (%d)", login, count)})
	}
	tbl.AppendRow(table.Row{"Report", reportPath})
	tbl.Render()
}
