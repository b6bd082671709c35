package balance

import (
	"github.com/shopspring/decimal"
)

// Compute produces the balance report for a selection. Nothing is computed when no
// format was requested or when any of the four bound keys is missing; an empty
// catalog or an empty entry list leaves the bounds unresolvable and also yields an
// empty report.
func Compute(sel Selection, accounts []Account, entries []JournalEntry) Report {
	if sel.Format == FormatNone || !sel.Complete() {
		return Empty()
	}

	descriptions := DescriptionsByAccount(accounts)

	startAccount, okStartAccount := ResolveAccount(sel.StartAccount, descriptions, Start)
	endAccount, okEndAccount := ResolveAccount(sel.EndAccount, descriptions, End)
	startPeriod, okStartPeriod := ResolvePeriod(sel.StartPeriod, entries, Start)
	endPeriod, okEndPeriod := ResolvePeriod(sel.EndPeriod, entries, End)
	if !okStartAccount || !okEndAccount || !okStartPeriod || !okEndPeriod {
		return Empty()
	}

	return Aggregate(entries, accounts, Range{
		StartAccount: startAccount,
		EndAccount:   endAccount,
		StartPeriod:  startPeriod,
		EndPeriod:    endPeriod,
	})
}

// Aggregate filters entries against the inclusive range, groups them per catalog
// account and returns the rows in ascending account order together with their totals.
func Aggregate(entries []JournalEntry, accounts []Account, r Range) Report {
	descriptions := DescriptionsByAccount(accounts)

	grouped := make(map[int]*Row)
	for _, entry := range entries {
		if !r.includes(entry, descriptions) {
			continue
		}

		row, ok := grouped[entry.Account]
		if !ok {
			row = &Row{
				Account:     entry.Account,
				Description: descriptions[entry.Account],
				Debit:       decimal.Zero,
				Credit:      decimal.Zero,
				Balance:     decimal.Zero,
			}
			grouped[entry.Account] = row
		}
		row.Debit = row.Debit.Add(entry.Debit)
		row.Credit = row.Credit.Add(entry.Credit)
		row.Balance = row.Debit.Sub(row.Credit)
	}

	report := Empty()
	report.Range = &r
	for _, id := range sortedIDs(grouped) {
		row := *grouped[id]
		report.Rows = append(report.Rows, row)
		report.TotalDebit = report.TotalDebit.Add(row.Debit)
		report.TotalCredit = report.TotalCredit.Add(row.Credit)
	}
	return report
}

func (r Range) includes(entry JournalEntry, descriptions map[int]string) bool {
	if _, ok := descriptions[entry.Account]; !ok {
		return false
	}
	if entry.Account < r.StartAccount || entry.Account > r.EndAccount {
		return false
	}
	return !entry.Period.Before(r.StartPeriod) && !entry.Period.After(r.EndPeriod)
}
