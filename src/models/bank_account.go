package models

type BankAccount struct {
	ID               string `json:"id"`
	UserID           string `json:"user_id"`
	BankID           string `json:"bank_id"`
	AccountID        string `json:"-"`
	AccessToken      string `json:"-"`
	FundingSourceURL string `json:"funding_source_url"`
	SharableID       string `json:"sharable_id"`
	CreatedAt        string `json:"created_at"`
}
