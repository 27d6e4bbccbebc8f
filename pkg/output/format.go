// Package output provides utilities for formatting and displaying solver results.
package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/iwvelando/max-defense/internal/armor"
	"github.com/iwvelando/max-defense/internal/optimizer"
	"github.com/iwvelando/max-defense/pkg/constants"
	"github.com/iwvelando/max-defense/pkg/optimization"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat outputs a human-readable rather than machine-readable listing.
func PrettyFormat(result *optimizer.Result) {
	writePretty(os.Stdout, result)
}

func writePretty(w io.Writer, result *optimizer.Result) {
	p := message.NewPrinter(language.English)
	for i, report := range result.Reports {
		_, _ = p.Fprintf(w, "--- Results for %s solver (budget %d gold, %d of %d items considered) ---\n",
			report.Solver, result.Budget, result.FilteredSize, result.CatalogSize)
		writeSolution(w, p, report.Solution)
		_, _ = fmt.Fprintf(w, "> Elapsed: %s\n", report.Duration)
		if i < len(result.Reports)-1 {
			_, _ = fmt.Fprintf(w, "\n")
		}
	}
}

// writeSolution writes each chosen item followed by the grand totals.
func writeSolution(w io.Writer, p *message.Printer, solution armor.Solution) {
	_, _ = fmt.Fprintf(w, "*** Armor Vector ***\n")
	if solution.Empty() {
		_, _ = fmt.Fprintf(w, "[empty armor list]\n")
		return
	}

	for _, item := range solution.Items {
		_, _ = p.Fprintf(w, "Ye olde %s ==> Cost of %d gold; Defense points = %s\n",
			item.Description(), item.Cost(), formatDefense(item.Defense()))
	}
	totals := solution.Totals()
	_, _ = p.Fprintf(w, "> Grand total cost: %d gold\n", totals.Cost)
	_, _ = p.Fprintf(w, "> Grand total defense: %s\n", formatDefense(totals.Defense))
}

func formatDefense(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(result *optimizer.Result) {
	fmt.Print(CsvString(result))
}

// CsvString renders the CSV representation of the result: one row per chosen
// item, followed by one total row per solver.
func CsvString(result *optimizer.Result) string {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	_ = writer.Write([]string{"solver", "description", "cost", "defense"})
	for _, report := range result.Reports {
		for _, item := range report.Solution.Items {
			_ = writer.Write([]string{
				report.Solver,
				item.Description(),
				strconv.Itoa(item.Cost()),
				formatDefense(item.Defense()),
			})
		}
		_ = writer.Write([]string{
			report.Solver,
			"TOTAL",
			strconv.Itoa(report.Totals.Cost),
			formatDefense(report.Totals.Defense),
		})
	}
	writer.Flush()

	return buf.String()
}

// JSONDocument is the machine-readable form of a run.
type JSONDocument struct {
	Budget       int                    `json:"budget"`
	CatalogSize  int                    `json:"catalogSize"`
	FilteredSize int                    `json:"filteredSize"`
	Results      []optimization.Summary `json:"results"`
}

// JSONFormat outputs the result as indented JSON.
func JSONFormat(result *optimizer.Result) error {
	return writeJSON(os.Stdout, result)
}

func writeJSON(w io.Writer, result *optimizer.Result) error {
	doc := JSONDocument{
		Budget:       result.Budget,
		CatalogSize:  result.CatalogSize,
		FilteredSize: result.FilteredSize,
		Results:      result.Summaries(),
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}

// FormatTable writes the dynamic-programming table one row per line. Tables
// wider or taller than constants.MaxTablePrintSize are not rendered.
func FormatTable(w io.Writer, table *armor.Table) {
	_, _ = fmt.Fprintf(w, "*** DP Table ***\n")

	if table == nil || table.Rows() == 0 {
		_, _ = fmt.Fprintf(w, "[empty]\n")
		return
	}
	if table.Rows() > constants.MaxTablePrintSize || table.Cols() > constants.MaxTablePrintSize {
		_, _ = fmt.Fprintf(w, "[too large]\n")
		return
	}

	for i := 0; i < table.Rows(); i++ {
		for j := 0; j < table.Cols(); j++ {
			_, _ = fmt.Fprintf(w, "%5v", table.At(i, j))
		}
		_, _ = fmt.Fprintf(w, "\n")
	}
}
