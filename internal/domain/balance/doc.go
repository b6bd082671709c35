// Package balance computes trial-balance reports from an account catalog and a list
// of journal postings.
//
// A report is driven by a Selection. Each of its four bounds may be absent, unresolved
// or set; unresolved bounds are defaulted from the catalog (account ids) or from the
// postings (periods) before the inclusive filter is applied.
package balance
