package models

import "github.com/shopspring/decimal"

// SportStat is the all-time win-rate entry for one sport, computed over
// completed records only.
type SportStat struct {
	Sport string `json:"sport"` // display label
	Total int    `json:"total"` // completed bets
	Rate  int    `json:"rate"`  // win rate, rounded percent
}

// ProfitMatch is the per-match line of a profitability simulation.
type ProfitMatch struct {
	Sport        string          `json:"sport"`
	Match        string          `json:"match"`
	Strategy     string          `json:"strategy"`
	Odds         decimal.Decimal `json:"odds"`
	Result       string          `json:"result"` // display vocabulary
	Investment   decimal.Decimal `json:"investment"`
	ReturnAmount decimal.Decimal `json:"return_amount"`
	Profit       decimal.Decimal `json:"profit"`
}

// ProfitTotals aggregates a set of simulated fixed-stake bets.
type ProfitTotals struct {
	TotalBets    int             `json:"total_bets"`
	TotalWagered decimal.Decimal `json:"total_wagered"`
	TotalReturn  decimal.Decimal `json:"total_return"`
	NetProfit    decimal.Decimal `json:"net_profit"`
	Yield        decimal.Decimal `json:"yield"` // percent, 2 decimals
}

// ProfitabilitySnapshot is the fixed-stake simulation for the latest
// completed day strictly before today.
type ProfitabilitySnapshot struct {
	Date    string        `json:"date"`
	Totals  ProfitTotals  `json:"totals"`
	Matches []ProfitMatch `json:"matches"`
}

// SportProfitability is the trailing-window breakdown for one sport.
type SportProfitability struct {
	Sport        string          `json:"sport"` // display label
	TotalBets    int             `json:"total_bets"`
	TotalWagered decimal.Decimal `json:"total_wagered"`
	TotalReturn  decimal.Decimal `json:"total_return"`
	NetProfit    decimal.Decimal `json:"net_profit"`
	Yield        decimal.Decimal `json:"yield"`
	Wins         int             `json:"wins"`
	Losses       int             `json:"losses"`
}

// MonthlyProfitability is the trailing 30-day profitability report. Start
// and end dates are the first and last dates actually present in the
// window, not the nominal window bounds.
type MonthlyProfitability struct {
	StartDate    string               `json:"start_date"`
	EndDate      string               `json:"end_date"`
	DaysWithData int                  `json:"days_with_data"`
	Sports       []SportProfitability `json:"sports"`
	Totals       ProfitTotals         `json:"totals"`
}

// TransparencyEntry is one row of the verifiable-results views.
type TransparencyEntry struct {
	Sport       string  `json:"sport"` // display label
	SportKey    string  `json:"sport_key"`
	League      string  `json:"league"`
	Date        string  `json:"date"`
	Time        string  `json:"time"`
	Match       string  `json:"match"`
	Pick        string  `json:"pick"`
	Probability float64 `json:"probability"`
	Status      string  `json:"status"` // display vocabulary
}

// TransparencySnapshot carries both variants of the latest completed day:
// the results table keeps at most one entry per sport, the ticker shows
// every completed entry for that date.
type TransparencySnapshot struct {
	Date    string              `json:"date"`
	Results []TransparencyEntry `json:"results"`
	Ticker  []TransparencyEntry `json:"ticker"`
}

// Prediction is a pending pick surfaced to the display layer.
type Prediction struct {
	ID          string          `json:"id"`
	Sport       string          `json:"sport"` // display label
	League      string          `json:"league"`
	Date        string          `json:"date"`
	Time        string          `json:"time"`
	Match       string          `json:"match"`
	Pick        string          `json:"pick"`
	Probability float64         `json:"probability"`
	Odds        decimal.Decimal `json:"odds"`
	Strategy    string          `json:"strategy"`
}
