package models

import "github.com/shopspring/decimal"

// AggregatorAccount is the account metadata the bank-link aggregator
// returns for a linked item. The raw account id never leaves the server.
type AggregatorAccount struct {
	AccountID        string  `json:"-"`
	Name             string  `json:"name"`
	OfficialName     string  `json:"official_name"`
	Mask             string  `json:"mask"`
	Type             string  `json:"type"`
	Subtype          string  `json:"subtype"`
	CurrentBalance   float64 `json:"current_balance"`
	AvailableBalance float64 `json:"available_balance"`
}

type BalanceSummary struct {
	TotalBanks          int             `json:"total_banks"`
	TotalCurrentBalance decimal.Decimal `json:"total_current_balance"`
}
