package db

import (
	"context"

	"horizon-server/src/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store adapts the package-level SQL functions to the interfaces the
// provisioning workflow consumes.
type Store struct {
	Pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{Pool: pool}
}

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	return CreateUser(ctx, s.Pool, user)
}

func (s *Store) GetUserByIdentityID(ctx context.Context, identityID string) (*models.User, error) {
	return GetUserByIdentityID(ctx, s.Pool, identityID)
}

func (s *Store) CreateBankAccount(ctx context.Context, bank *models.BankAccount) error {
	return CreateBankAccount(ctx, s.Pool, bank)
}

func (s *Store) GetBankAccountsForUser(ctx context.Context, userID string) ([]models.BankAccount, error) {
	return GetBankAccountsForUser(ctx, s.Pool, userID)
}
