package db

import (
	"context"
	"errors"
	"fmt"

	"horizon-server/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func CreateUser(ctx context.Context, pool *pgxpool.Pool, user *models.User) error {
	query := `
		INSERT INTO users (id, identity_id, email, first_name, last_name, date_of_birth,
			address1, city, state, postal_code, ssn_sealed, processor_customer_id, processor_customer_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at::text
	`

	err := pool.QueryRow(ctx, query,
		user.ID,
		user.IdentityID,
		user.Email,
		user.FirstName,
		user.LastName,
		user.DateOfBirth,
		user.Address1,
		user.City,
		user.State,
		user.PostalCode,
		user.SSNSealed,
		user.ProcessorCustomerID,
		user.ProcessorCustomerURL,
	).Scan(&user.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func GetUserByIdentityID(ctx context.Context, pool *pgxpool.Pool, identityID string) (*models.User, error) {
	var user models.User
	query := `
		SELECT id, identity_id, email, first_name, last_name, date_of_birth::text,
			address1, city, state, postal_code, ssn_sealed, processor_customer_id, processor_customer_url, created_at::text
		FROM users
		WHERE identity_id = $1
	`
	err := pool.QueryRow(ctx, query, identityID).Scan(
		&user.ID,
		&user.IdentityID,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.DateOfBirth,
		&user.Address1,
		&user.City,
		&user.State,
		&user.PostalCode,
		&user.SSNSealed,
		&user.ProcessorCustomerID,
		&user.ProcessorCustomerURL,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.New("user not found")
		}
		return nil, fmt.Errorf("query error: %w", err)
	}
	return &user, nil
}

func GetUserByID(ctx context.Context, pool *pgxpool.Pool, id string) (*models.User, error) {
	var user models.User
	query := `
		SELECT id, identity_id, email, first_name, last_name, date_of_birth::text,
			address1, city, state, postal_code, ssn_sealed, processor_customer_id, processor_customer_url, created_at::text
		FROM users
		WHERE id = $1
	`
	err := pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.IdentityID,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.DateOfBirth,
		&user.Address1,
		&user.City,
		&user.State,
		&user.PostalCode,
		&user.SSNSealed,
		&user.ProcessorCustomerID,
		&user.ProcessorCustomerURL,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.New("user not found")
		}
		return nil, fmt.Errorf("query error: %w", err)
	}
	return &user, nil
}
