package balance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a catalog entry: an integer ledger code and its label.
type Account struct {
	ID    int    `json:"account"`
	Label string `json:"label"`
}

// JournalEntry is a single posting against one account.
type JournalEntry struct {
	Account int             `json:"account"`
	Period  time.Time       `json:"period"`
	Debit   decimal.Decimal `json:"debit"`
	Credit  decimal.Decimal `json:"credit"`
}

// Row is one line of a balance report.
type Row struct {
	Account     int             `json:"account"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
}

// Range holds the four resolved bounds of a computation. All bounds are inclusive.
type Range struct {
	StartAccount int       `json:"startAccount"`
	EndAccount   int       `json:"endAccount"`
	StartPeriod  time.Time `json:"startPeriod"`
	EndPeriod    time.Time `json:"endPeriod"`
}

// Report is the result of a balance computation. Rows are ordered by ascending account id.
type Report struct {
	Rows        []Row           `json:"balance"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
	Range       *Range          `json:"range,omitempty"`
}

// Empty returns a report with no rows and zero totals.
func Empty() Report {
	return Report{
		Rows:        []Row{},
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}
}
