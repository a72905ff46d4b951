package store

import (
	"context"
	"database/sql"
	"fmt"

	"rokthona/internal/funding/models"
)

// PostgresStore persists the ledger in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, fund *models.Fund) error {
	query := `
		INSERT INTO funds (id, name, email, amount, transaction_id, date)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		fund.ID, fund.Name, fund.Email, fund.Amount, fund.TransactionID, fund.Date,
	)
	if err != nil {
		return fmt.Errorf("append fund: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, page, limit int) ([]*models.Fund, int64, error) {
	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM funds`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count funds: %w", err)
	}

	query := `
		SELECT id, name, email, amount, transaction_id, date
		FROM funds
		ORDER BY date DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := s.db.QueryContext(ctx, query, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("query funds: %w", err)
	}
	defer rows.Close()

	funds := make([]*models.Fund, 0)
	for rows.Next() {
		var fund models.Fund
		if err := rows.Scan(&fund.ID, &fund.Name, &fund.Email, &fund.Amount, &fund.TransactionID, &fund.Date); err != nil {
			return nil, 0, fmt.Errorf("scan fund: %w", err)
		}
		funds = append(funds, &fund)
	}
	return funds, total, rows.Err()
}

func (s *PostgresStore) Total(ctx context.Context) (float64, error) {
	var total float64
	if err := s.db.QueryRowContext(ctx, `SELECT coalesce(sum(amount), 0) FROM funds`).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum funds: %w", err)
	}
	return total, nil
}
