package models

import "github.com/shopspring/decimal"

// HistoryEntry is one row of the full match-history listing.
type HistoryEntry struct {
	ID          string          `json:"id"`
	Sport       string          `json:"sport"` // display label
	SportKey    string          `json:"sport_key"`
	League      string          `json:"league"`
	Date        string          `json:"date"`
	Time        string          `json:"time"`
	Match       string          `json:"match"`
	Strategy    string          `json:"strategy"`
	Pick        string          `json:"pick"`
	Probability float64         `json:"probability"`
	Odds        decimal.Decimal `json:"odds"`
	Status      string          `json:"status"` // display vocabulary
}

// HistoryFilters lists the distinct values present in the full record set,
// the options the history view offers for narrowing.
type HistoryFilters struct {
	Sports     []string `json:"sports"` // sport keys
	Leagues    []string `json:"leagues"`
	Strategies []string `json:"strategies"`
	Statuses   []string `json:"statuses"` // display vocabulary
}

// HistoryPage is one page of the filtered match history, newest first.
type HistoryPage struct {
	Entries      []HistoryEntry `json:"entries"`
	Page         int            `json:"page"`
	PerPage      int            `json:"per_page"`
	TotalPages   int            `json:"total_pages"`
	TotalEntries int            `json:"total_entries"`
	Filters      HistoryFilters `json:"filters"`
}
