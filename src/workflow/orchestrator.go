// Package workflow sequences the multi-step account provisioning and
// bank-link pipeline across the identity backend, the payment-rail
// processor, the bank-link aggregator, and local persistence.
package workflow

import (
	"context"
	"fmt"
	"log"
	"time"

	"horizon-server/src/db"
	"horizon-server/src/identity"
	"horizon-server/src/models"
	"horizon-server/src/processor"
	"horizon-server/src/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const minimumAge = 18

type IdentityClient interface {
	CreateAccount(ctx context.Context, accountID, email, password, name string) (*identity.Account, error)
	CreateEmailPasswordSession(ctx context.Context, email, password string) (*identity.Session, error)
	GetAccount(ctx context.Context, sessionSecret string) (*identity.Account, error)
	DeleteSession(ctx context.Context, sessionSecret string) error
}

type ProcessorClient interface {
	CreateCustomer(ctx context.Context, params processor.CustomerParams) (string, error)
	CreateFundingSource(ctx context.Context, customerID, processorToken, bankName string) (string, error)
}

type BankLinkClient interface {
	CreateLinkToken(ctx context.Context, clientUserID, clientName string) (string, error)
	ExchangePublicToken(ctx context.Context, publicToken string) (accessToken, itemID string, err error)
	GetAccounts(ctx context.Context, accessToken string) ([]models.AggregatorAccount, error)
	CreateProcessorToken(ctx context.Context, accessToken, accountID string) (string, error)
}

type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByIdentityID(ctx context.Context, identityID string) (*models.User, error)
	CreateBankAccount(ctx context.Context, bank *models.BankAccount) error
	GetBankAccountsForUser(ctx context.Context, userID string) ([]models.BankAccount, error)
}

type Orchestrator struct {
	identity  IdentityClient
	processor ProcessorClient
	bankLink  BankLinkClient
	store     Store

	sharableIDSecret string
	recordSealKey    string

	now func() time.Time
}

func NewOrchestrator(identityClient IdentityClient, processorClient ProcessorClient, bankLink BankLinkClient, store Store, sharableIDSecret, recordSealKey string) *Orchestrator {
	return &Orchestrator{
		identity:         identityClient,
		processor:        processorClient,
		bankLink:         bankLink,
		store:            store,
		sharableIDSecret: sharableIDSecret,
		recordSealKey:    recordSealKey,
		now:              time.Now,
	}
}

// SignUp runs the full registration pipeline: identity account,
// processor customer, local user record, then a fresh session for the
// cookie. Steps are not compensated: a failure after identity creation
// leaves the identity account in place, and the caller must treat any
// error as possibly-partial upstream state.
func (o *Orchestrator) SignUp(ctx context.Context, req models.SignUpRequest) (*models.User, *identity.Session, error) {
	birthDate, err := util.ParseDateOfBirth(req.DateOfBirth)
	if err != nil {
		return nil, nil, models.NewWorkflowError(models.ErrAgeRequirementNotMet, "date of birth must be YYYY-MM-DD", err)
	}
	if util.AgeAt(birthDate, o.now()) < minimumAge {
		return nil, nil, models.NewWorkflowError(models.ErrAgeRequirementNotMet,
			fmt.Sprintf("user must be at least %d years old", minimumAge), nil)
	}

	fullName := req.FirstName + " " + req.LastName

	account, err := o.identity.CreateAccount(ctx, uuid.NewString(), req.Email, req.Password, fullName)
	if err != nil {
		return nil, nil, models.NewWorkflowError(models.ErrIdentityCreationFailed, "failed to create identity account", err)
	}

	customerURL, err := o.processor.CreateCustomer(ctx, processor.CustomerParams{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Type:        "personal",
		Address1:    req.Address1,
		City:        req.City,
		State:       req.State,
		PostalCode:  req.PostalCode,
		DateOfBirth: req.DateOfBirth,
		SSN:         req.SSN,
	})
	if err != nil {
		// The identity account created above is NOT rolled back here;
		// re-running sign-up for the same email will fail at the
		// identity backend.
		return nil, nil, models.NewWorkflowError(models.ErrProcessorCustomerCreationFailed, "failed to create processor customer", err)
	}
	customerID := util.ExtractCustomerIDFromURL(customerURL)

	sealedSSN, err := util.SealSecret(o.recordSealKey, req.SSN)
	if err != nil {
		return nil, nil, models.NewWorkflowError(models.ErrPersistenceFailed, "failed to protect record", err)
	}

	user := &models.User{
		ID:                   uuid.NewString(),
		IdentityID:           account.ID,
		Email:                req.Email,
		FirstName:            req.FirstName,
		LastName:             req.LastName,
		DateOfBirth:          req.DateOfBirth,
		Address1:             req.Address1,
		City:                 req.City,
		State:                req.State,
		PostalCode:           req.PostalCode,
		SSNSealed:            sealedSSN,
		ProcessorCustomerID:  &customerID,
		ProcessorCustomerURL: &customerURL,
	}
	if err := o.store.CreateUser(ctx, user); err != nil {
		return nil, nil, models.NewWorkflowError(models.ErrPersistenceFailed, "failed to persist user record", err)
	}

	session, err := o.identity.CreateEmailPasswordSession(ctx, req.Email, req.Password)
	if err != nil {
		return nil, nil, models.NewWorkflowError(models.ErrAuthenticationFailed, "failed to create session", err)
	}

	log.Printf("INFO: Successful sign-up - user %s, identity %s", user.ID, user.IdentityID)
	return user, session, nil
}

// SignIn delegates credential verification to the identity backend. The
// error never says whether the email or the password was wrong.
func (o *Orchestrator) SignIn(ctx context.Context, email, password string) (*identity.Session, error) {
	session, err := o.identity.CreateEmailPasswordSession(ctx, email, password)
	if err != nil {
		log.Printf("ERROR: Sign-in failed for %s: %v", email, err)
		return nil, models.NewWorkflowError(models.ErrAuthenticationFailed, "invalid credentials", err)
	}
	return session, nil
}

// GetCurrentUser resolves a session secret to the local user record.
// It returns nil on any failure so callers can use it as an
// is-logged-in probe.
func (o *Orchestrator) GetCurrentUser(ctx context.Context, sessionSecret string) *models.User {
	if sessionSecret == "" {
		return nil
	}

	account, err := o.identity.GetAccount(ctx, sessionSecret)
	if err != nil {
		return nil
	}

	user, err := o.store.GetUserByIdentityID(ctx, account.ID)
	if err != nil {
		return nil
	}
	return user
}

// Logout invalidates the backend session. Best-effort: failures are
// logged and swallowed so the caller always proceeds to clear the
// cookie.
func (o *Orchestrator) Logout(ctx context.Context, sessionSecret string) {
	if sessionSecret == "" {
		return
	}
	if err := o.identity.DeleteSession(ctx, sessionSecret); err != nil {
		log.Printf("ERROR: Backend session invalidation failed: %v", err)
	}
}

// CreateLinkToken issues a short-lived aggregator link token for the
// user's link flow.
func (o *Orchestrator) CreateLinkToken(ctx context.Context, user *models.User) (string, error) {
	token, err := o.bankLink.CreateLinkToken(ctx, user.ID, user.FirstName+" "+user.LastName)
	if err != nil {
		return "", models.NewWorkflowError(models.ErrTokenExchangeFailed, "failed to create link token", err)
	}
	return token, nil
}

// CompleteBankLink exchanges the aggregator public token, provisions a
// funding source on the payment rail, and persists the linked bank. A
// bank record is only written once a non-empty funding source URL
// exists; failures before that point leave no local state. Tokens
// already issued by earlier steps are simply discarded on failure.
func (o *Orchestrator) CompleteBankLink(ctx context.Context, publicToken string, user *models.User) error {
	accessToken, itemID, err := o.bankLink.ExchangePublicToken(ctx, publicToken)
	if err != nil {
		return models.NewWorkflowError(models.ErrTokenExchangeFailed, "failed to exchange public token", err)
	}

	accounts, err := o.bankLink.GetAccounts(ctx, accessToken)
	if err != nil {
		return models.NewWorkflowError(models.ErrTokenExchangeFailed, "failed to fetch account metadata", err)
	}
	if len(accounts) == 0 {
		return models.NewWorkflowError(models.ErrTokenExchangeFailed, "aggregator returned no accounts", nil)
	}
	// Single-account auto-select: the first account on the item.
	account := accounts[0]

	processorToken, err := o.bankLink.CreateProcessorToken(ctx, accessToken, account.AccountID)
	if err != nil {
		return models.NewWorkflowError(models.ErrTokenExchangeFailed, "failed to create processor token", err)
	}

	if user.ProcessorCustomerID == nil || *user.ProcessorCustomerID == "" {
		return models.NewWorkflowError(models.ErrFundingSourceCreationFailed, "user has no processor customer", nil)
	}

	fundingSourceURL, err := o.processor.CreateFundingSource(ctx, *user.ProcessorCustomerID, processorToken, account.Name)
	if err != nil {
		return models.NewWorkflowError(models.ErrFundingSourceCreationFailed, "failed to create funding source", err)
	}
	if fundingSourceURL == "" {
		return models.NewWorkflowError(models.ErrFundingSourceCreationFailed, "payment rail returned empty funding source URL", nil)
	}

	bank := &models.BankAccount{
		ID:               uuid.NewString(),
		UserID:           user.ID,
		BankID:           itemID,
		AccountID:        account.AccountID,
		AccessToken:      accessToken,
		FundingSourceURL: fundingSourceURL,
		SharableID:       util.SharableAccountID(o.sharableIDSecret, account.AccountID),
	}
	if err := o.store.CreateBankAccount(ctx, bank); err != nil {
		return models.NewWorkflowError(models.ErrPersistenceFailed, "failed to persist bank account", err)
	}

	db.InvalidateBankViews(user.ID)

	log.Printf("INFO: Linked bank %s for user %s", bank.ID, user.ID)
	return nil
}

// ListBanks returns the user's linked bank accounts. JSON tags on the
// model keep access tokens and raw account ids out of responses.
func (o *Orchestrator) ListBanks(ctx context.Context, user *models.User) ([]models.BankAccount, error) {
	banks, err := o.store.GetBankAccountsForUser(ctx, user.ID)
	if err != nil {
		return nil, models.NewWorkflowError(models.ErrPersistenceFailed, "failed to load bank accounts", err)
	}
	return banks, nil
}

// Balances aggregates current balances across every linked bank using
// exact decimal arithmetic. Results are cached per user until the next
// bank link invalidates them.
func (o *Orchestrator) Balances(ctx context.Context, user *models.User) (*models.BalanceSummary, error) {
	cacheKey := "bank_balances:" + user.ID
	if cached, ok := db.GetBankViewCache(cacheKey); ok {
		if summary, ok := cached.(*models.BalanceSummary); ok {
			return summary, nil
		}
	}

	banks, err := o.store.GetBankAccountsForUser(ctx, user.ID)
	if err != nil {
		return nil, models.NewWorkflowError(models.ErrPersistenceFailed, "failed to load bank accounts", err)
	}

	total := decimal.Zero
	for _, bank := range banks {
		accounts, err := o.bankLink.GetAccounts(ctx, bank.AccessToken)
		if err != nil {
			return nil, models.NewWorkflowError(models.ErrTokenExchangeFailed, "failed to fetch balances", err)
		}
		for _, acc := range accounts {
			total = total.Add(decimal.NewFromFloat(acc.CurrentBalance))
		}
	}

	summary := &models.BalanceSummary{
		TotalBanks:          len(banks),
		TotalCurrentBalance: total,
	}
	db.SetBankViewCache(user.ID, cacheKey, summary)
	return summary, nil
}
