// Package render turns a computed balance report into the text users see: a summary
// line pair and the rows as CSV or an HTML table.
package render

import (
	"encoding/csv"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"time"

	"github.com/hirosato/ledger-balance/backend/internal/domain/balance"
	"github.com/hirosato/ledger-balance/backend/internal/domain/errors"
)

// Header is the column order shared by every format.
var Header = []string{"ACCOUNT", "DESCRIPTION", "DEBIT", "CREDIT", "BALANCE"}

// Summary returns the totals line and the range line. Bounds that were not set print
// as "*".
func Summary(sel balance.Selection, report balance.Report) string {
	return fmt.Sprintf("Total Debit: %s Total Credit: %s\nBalance from account %s to %s from period %s to %s",
		report.TotalDebit.String(),
		report.TotalCredit.String(),
		accountText(sel.StartAccount),
		accountText(sel.EndAccount),
		periodText(sel.StartPeriod),
		periodText(sel.EndPeriod),
	)
}

func accountText(b balance.Bound[int]) string {
	if v, ok := b.Get(); ok {
		return strconv.Itoa(v)
	}
	return "*"
}

func periodText(b balance.Bound[time.Time]) string {
	if v, ok := b.Get(); ok {
		return v.UTC().Format(time.DateOnly)
	}
	return "*"
}

func record(row balance.Row) []string {
	return []string{
		strconv.Itoa(row.Account),
		row.Description,
		row.Debit.String(),
		row.Credit.String(),
		row.Balance.String(),
	}
}

// CSV writes the header and one record per row.
func CSV(w io.Writer, rows []balance.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(record(row)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

var tableTemplate = template.Must(template.New("balance").Parse(`<table class="table">
<thead>
<tr>{{range .Header}}<th>{{.}}</th>{{end}}</tr>
</thead>
<tbody>
{{- range .Rows}}
<tr><th scope="row">{{index . 0}}</th><td>{{index . 1}}</td><td>{{index . 2}}</td><td>{{index . 3}}</td><td>{{index . 4}}</td></tr>
{{- end}}
</tbody>
</table>
`))

// HTML writes the rows as a table. Descriptions are escaped.
func HTML(w io.Writer, rows []balance.Row) error {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, record(row))
	}
	return tableTemplate.Execute(w, struct {
		Header []string
		Rows   [][]string
	}{Header, records})
}

// ContentType returns the media type of a rendered format.
func ContentType(format balance.Format) string {
	switch format {
	case balance.FormatCSV:
		return "text/csv; charset=utf-8"
	case balance.FormatHTML:
		return "text/html; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}

// Render writes the rows in the selection's format. Nothing is written when no format
// was requested.
func Render(w io.Writer, sel balance.Selection, report balance.Report) error {
	switch sel.Format {
	case balance.FormatNone:
		return nil
	case balance.FormatCSV:
		return CSV(w, report.Rows)
	case balance.FormatHTML:
		return HTML(w, report.Rows)
	}
	return errors.NewUnsupportedFormatError(string(sel.Format))
}

// Document writes the summary followed by the rendered rows, the way the CLI and the
// MCP tool present a report.
func Document(w io.Writer, sel balance.Selection, report balance.Report) error {
	if sel.Format == balance.FormatNone {
		return nil
	}
	if _, err := fmt.Fprintf(w, "%s\n\n", Summary(sel, report)); err != nil {
		return err
	}
	return Render(w, sel, report)
}
