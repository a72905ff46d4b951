package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"rokthona/internal/user/models"
	"rokthona/pkg/platform/sentinel"
)

// uniqueViolation is the Postgres error code for unique constraint hits.
const uniqueViolation = "23505"

// PostgresStore persists the user directory in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const userColumns = `id, email, name, role, status, blood_group, district, upazila, avatar_url, created_at`

func (s *PostgresStore) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, name, role, status, blood_group, district, upazila, avatar_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(ctx, query,
		user.ID, user.Email, user.Name, user.Role, user.Status,
		user.BloodGroup, user.District, user.Upazila, user.AvatarURL, user.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (s *PostgresStore) UpdateProfile(ctx context.Context, email string, profile models.Profile) error {
	query := `
		UPDATE users
		SET name = $2, blood_group = $3, district = $4, upazila = $5, avatar_url = $6
		WHERE email = $1
	`
	res, err := s.db.ExecContext(ctx, query,
		email, profile.Name, profile.BloodGroup, profile.District, profile.Upazila, profile.AvatarURL,
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return requireMatch(res)
}

func (s *PostgresStore) UpdateRole(ctx context.Context, email string, role models.Role) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET role = $2 WHERE email = $1`, email, role)
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	return requireMatch(res)
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, id uuid.UUID, status models.AccountStatus) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	return requireMatch(res)
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.User, error) {
	return s.query(ctx, `SELECT `+userColumns+` FROM users ORDER BY email`)
}

func (s *PostgresStore) ListByRole(ctx context.Context, role models.Role) ([]*models.User, error) {
	return s.query(ctx, `SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY email`, role)
}

func (s *PostgresStore) SearchDonors(ctx context.Context, filter models.DonorFilter) ([]*models.User, error) {
	// Empty filter fields match anything; blood group compares case-insensitively.
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE role = 'donor'
		  AND ($1 = '' OR lower(blood_group) = lower($1))
		  AND ($2 = '' OR district = $2)
		  AND ($3 = '' OR upazila = $3)
		ORDER BY email
	`
	return s.query(ctx, query, filter.BloodGroup, filter.District, filter.Upazila)
}

func (s *PostgresStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) query(ctx context.Context, query string, args ...any) ([]*models.User, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Email, &user.Name, &user.Role, &user.Status,
		&user.BloodGroup, &user.District, &user.Upazila, &user.AvatarURL, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &user, nil
}

func requireMatch(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
