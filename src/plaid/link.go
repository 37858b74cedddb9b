package plaid

import (
	"context"

	"horizon-server/src/models"

	"github.com/plaid/plaid-go/v41/plaid"
)

// LinkClient exposes the aggregator operations the bank-link workflow
// uses: link token issuance, public token exchange, account metadata,
// and processor token creation.
type LinkClient struct {
	api *plaid.APIClient
}

func NewLinkClient(api *plaid.APIClient) *LinkClient {
	return &LinkClient{api: api}
}

func (c *LinkClient) CreateLinkToken(ctx context.Context, clientUserID, clientName string) (string, error) {
	user := plaid.LinkTokenCreateRequestUser{
		ClientUserId: clientUserID,
	}
	request := plaid.NewLinkTokenCreateRequest(
		clientName,
		"en",
		[]plaid.CountryCode{plaid.COUNTRYCODE_US},
		user,
	)
	request.SetProducts([]plaid.Products{plaid.PRODUCTS_AUTH})

	resp, _, err := c.api.PlaidApi.LinkTokenCreate(ctx).LinkTokenCreateRequest(*request).Execute()
	if err != nil {
		return "", err
	}
	return resp.GetLinkToken(), nil
}

func (c *LinkClient) ExchangePublicToken(ctx context.Context, publicToken string) (accessToken, itemID string, err error) {
	request := plaid.NewItemPublicTokenExchangeRequest(publicToken)
	resp, _, err := c.api.PlaidApi.ItemPublicTokenExchange(ctx).ItemPublicTokenExchangeRequest(*request).Execute()
	if err != nil {
		return "", "", err
	}
	return resp.GetAccessToken(), resp.GetItemId(), nil
}

func (c *LinkClient) GetAccounts(ctx context.Context, accessToken string) ([]models.AggregatorAccount, error) {
	request := plaid.NewAccountsGetRequest(accessToken)
	resp, _, err := c.api.PlaidApi.AccountsGet(ctx).AccountsGetRequest(*request).Execute()
	if err != nil {
		return nil, err
	}

	var accounts []models.AggregatorAccount
	for _, acc := range resp.GetAccounts() {
		balances := acc.GetBalances()
		accounts = append(accounts, models.AggregatorAccount{
			AccountID:        acc.GetAccountId(),
			Name:             acc.GetName(),
			OfficialName:     acc.GetOfficialName(),
			Mask:             acc.GetMask(),
			Type:             string(acc.GetType()),
			Subtype:          string(acc.GetSubtype()),
			CurrentBalance:   balances.GetCurrent(),
			AvailableBalance: balances.GetAvailable(),
		})
	}
	return accounts, nil
}

func (c *LinkClient) CreateProcessorToken(ctx context.Context, accessToken, accountID string) (string, error) {
	request := plaid.NewProcessorTokenCreateRequest(accessToken, accountID, "dwolla")
	resp, _, err := c.api.PlaidApi.ProcessorTokenCreate(ctx).ProcessorTokenCreateRequest(*request).Execute()
	if err != nil {
		return "", err
	}
	return resp.GetProcessorToken(), nil
}
