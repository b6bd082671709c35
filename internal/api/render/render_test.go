package render

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirosato/ledger-balance/backend/internal/domain/balance"
	"github.com/hirosato/ledger-balance/backend/internal/domain/errors"
)

func sampleReport() balance.Report {
	return balance.Report{
		Rows: []balance.Row{
			{Account: 1000, Description: "Cash", Debit: decimal.RequireFromString("100"), Credit: decimal.RequireFromString("40"), Balance: decimal.RequireFromString("60")},
			{Account: 2000, Description: "Fees & <charges>", Debit: decimal.Zero, Credit: decimal.RequireFromString("10.5"), Balance: decimal.RequireFromString("-10.5")},
		},
		TotalDebit:  decimal.RequireFromString("100"),
		TotalCredit: decimal.RequireFromString("50.5"),
	}
}

func TestSummary(t *testing.T) {
	t.Run("set bounds", func(t *testing.T) {
		sel := balance.Selection{
			StartAccount: balance.Value(1000),
			EndAccount:   balance.Value(2000),
			StartPeriod:  balance.Value(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
			EndPeriod:    balance.Value(time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)),
			Format:       balance.FormatCSV,
		}
		assert.Equal(t,
			"Total Debit: 100 Total Credit: 50.5\nBalance from account 1000 to 2000 from period 2024-01-01 to 2024-12-31",
			Summary(sel, sampleReport()))
	})

	t.Run("unset bounds print as stars", func(t *testing.T) {
		sel := balance.Selection{
			StartAccount: balance.Unresolved[int](),
			Format:       balance.FormatCSV,
		}
		assert.Equal(t,
			"Total Debit: 0 Total Credit: 0\nBalance from account * to * from period * to *",
			Summary(sel, balance.Empty()))
	})
}

func TestCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CSV(&buf, sampleReport().Rows))
	assert.Equal(t,
		"ACCOUNT,DESCRIPTION,DEBIT,CREDIT,BALANCE\n"+
			"1000,Cash,100,40,60\n"+
			"2000,Fees & <charges>,0,10.5,-10.5\n",
		buf.String())

	buf.Reset()
	require.NoError(t, CSV(&buf, nil))
	assert.Equal(t, "ACCOUNT,DESCRIPTION,DEBIT,CREDIT,BALANCE\n", buf.String())
}

func TestHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, HTML(&buf, sampleReport().Rows))

	out := buf.String()
	assert.Contains(t, out, `<table class="table">`)
	assert.Contains(t, out, "<tr><th>ACCOUNT</th><th>DESCRIPTION</th><th>DEBIT</th><th>CREDIT</th><th>BALANCE</th></tr>")
	assert.Contains(t, out, `<tr><th scope="row">1000</th><td>Cash</td><td>100</td><td>40</td><td>60</td></tr>`)
	assert.Contains(t, out, "<td>Fees &amp; &lt;charges&gt;</td>")
	assert.NotContains(t, out, "<charges>")
}

func TestRender(t *testing.T) {
	report := sampleReport()

	t.Run("no format writes nothing", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Render(&buf, balance.Selection{}, report))
		assert.Empty(t, buf.String())
	})

	t.Run("dispatches on format", func(t *testing.T) {
		var csvOut, htmlOut bytes.Buffer
		require.NoError(t, Render(&csvOut, balance.Selection{Format: balance.FormatCSV}, report))
		require.NoError(t, Render(&htmlOut, balance.Selection{Format: balance.FormatHTML}, report))
		assert.Contains(t, csvOut.String(), "1000,Cash,100,40,60")
		assert.Contains(t, htmlOut.String(), "<tbody>")
	})

	t.Run("unknown format", func(t *testing.T) {
		var buf bytes.Buffer
		err := Render(&buf, balance.Selection{Format: "XML"}, report)
		assert.ErrorIs(t, err, errors.NewUnsupportedFormatError(""))
	})

	t.Run("document", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Document(&buf, balance.Selection{Format: balance.FormatCSV}, report))
		assert.Contains(t, buf.String(), "Total Debit: 100 Total Credit: 50.5\nBalance from account * to * from period * to *\n\nACCOUNT,")
	})
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "text/csv; charset=utf-8", ContentType(balance.FormatCSV))
	assert.Equal(t, "text/html; charset=utf-8", ContentType(balance.FormatHTML))
}
