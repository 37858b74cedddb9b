package db

import (
	"context"
	"errors"
	"fmt"

	"horizon-server/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func CreateBankAccount(ctx context.Context, pool *pgxpool.Pool, bank *models.BankAccount) error {
	query := `
		INSERT INTO bank_accounts (id, user_id, bank_id, account_id, access_token, funding_source_url, sharable_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at::text
	`

	err := pool.QueryRow(ctx, query,
		bank.ID,
		bank.UserID,
		bank.BankID,
		bank.AccountID,
		bank.AccessToken,
		bank.FundingSourceURL,
		bank.SharableID,
	).Scan(&bank.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create bank account: %w", err)
	}

	return nil
}

func GetUserIDForBankItem(ctx context.Context, pool *pgxpool.Pool, bankID string) (string, error) {
	query := `SELECT user_id FROM bank_accounts WHERE bank_id = $1 LIMIT 1`
	var userID string
	err := pool.QueryRow(ctx, query, bankID).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return userID, nil
}

func GetBankAccountsForUser(ctx context.Context, pool *pgxpool.Pool, userID string) ([]models.BankAccount, error) {
	query := `
		SELECT id, user_id, bank_id, account_id, access_token, funding_source_url, sharable_id, created_at::text
		FROM bank_accounts
		WHERE user_id = $1
		ORDER BY created_at
	`

	rows, err := pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var banks []models.BankAccount
	for rows.Next() {
		var bank models.BankAccount
		err := rows.Scan(&bank.ID, &bank.UserID, &bank.BankID, &bank.AccountID, &bank.AccessToken, &bank.FundingSourceURL, &bank.SharableID, &bank.CreatedAt)
		if err != nil {
			return nil, err
		}
		banks = append(banks, bank)
	}

	return banks, rows.Err()
}
