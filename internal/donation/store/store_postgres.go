package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"rokthona/internal/donation/models"
	"rokthona/pkg/platform/sentinel"
)

// PostgresStore persists donation requests in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const requestColumns = `id, requester_email, requester_name, recipient_name, blood_group,
	district, upazila, hospital, address, message, donation_date, status,
	donor_name, donor_email, donor_uid, confirmed_at, created_at`

func (s *PostgresStore) Create(ctx context.Context, request *models.DonationRequest) error {
	query := `
		INSERT INTO donation_requests (id, requester_email, requester_name, recipient_name,
			blood_group, district, upazila, hospital, address, message, donation_date,
			status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := s.db.ExecContext(ctx, query,
		request.ID, request.RequesterEmail, request.RequesterName, request.RecipientName,
		request.BloodGroup, request.District, request.Upazila, request.Hospital,
		request.Address, request.Message, request.DonationDate,
		request.Status, request.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create donation request: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*models.DonationRequest, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+requestColumns+` FROM donation_requests WHERE id = $1`, id)
	return scanRequest(row)
}

// Confirm performs the guarded pending→inprogress transition as a single
// conditional update. A zero row count means the request was not pending at
// the time of the write, whether because it never existed or because another
// donor got there first.
func (s *PostgresStore) Confirm(ctx context.Context, id uuid.UUID, donor models.Donor, confirmedAt time.Time) error {
	query := `
		UPDATE donation_requests
		SET status = $2, donor_name = $3, donor_email = $4, donor_uid = $5, confirmed_at = $6
		WHERE id = $1 AND status = $7
	`
	res, err := s.db.ExecContext(ctx, query,
		id, models.StatusInProgress, donor.Name, donor.Email, donor.UID, confirmedAt,
		models.StatusPending,
	)
	if err != nil {
		return fmt.Errorf("confirm donation request: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrInvalidState
	}
	return nil
}

func (s *PostgresStore) SetStatus(ctx context.Context, id uuid.UUID, status models.Status) error {
	res, err := s.db.ExecContext(ctx, `UPDATE donation_requests SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("set donation status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListByRequester(ctx context.Context, email string, filter models.ListFilter) ([]*models.DonationRequest, int64, error) {
	where := `WHERE requester_email = $1 AND ($2 = '' OR status = $2)`

	var total int64
	countQuery := `SELECT count(*) FROM donation_requests ` + where
	if err := s.db.QueryRowContext(ctx, countQuery, email, string(filter.Status)).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count requester donations: %w", err)
	}

	query := `
		SELECT ` + requestColumns + `
		FROM donation_requests ` + where + `
		ORDER BY donation_date DESC
		LIMIT $3 OFFSET $4
	`
	requests, err := s.query(ctx, query, email, string(filter.Status), filter.Limit, (filter.Page-1)*filter.Limit)
	if err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

func (s *PostgresStore) ListByDonor(ctx context.Context, email string) ([]*models.DonationRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM donation_requests WHERE donor_email = $1 ORDER BY donation_date DESC`
	return s.query(ctx, query, email)
}

func (s *PostgresStore) ListPending(ctx context.Context) ([]*models.DonationRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM donation_requests WHERE status = $1 ORDER BY donation_date DESC`
	return s.query(ctx, query, models.StatusPending)
}

func (s *PostgresStore) List(ctx context.Context, filter models.ListFilter) ([]*models.DonationRequest, int64, error) {
	where := `WHERE ($1 = '' OR status = $1)`

	var total int64
	countQuery := `SELECT count(*) FROM donation_requests ` + where
	if err := s.db.QueryRowContext(ctx, countQuery, string(filter.Status)).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count donation requests: %w", err)
	}

	query := `
		SELECT ` + requestColumns + `
		FROM donation_requests ` + where + `
		ORDER BY donation_date DESC
		LIMIT $2 OFFSET $3
	`
	requests, err := s.query(ctx, query, string(filter.Status), filter.Limit, (filter.Page-1)*filter.Limit)
	if err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

func (s *PostgresStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM donation_requests`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count donation requests: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) query(ctx context.Context, query string, args ...any) ([]*models.DonationRequest, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query donation requests: %w", err)
	}
	defer rows.Close()

	requests := make([]*models.DonationRequest, 0)
	for rows.Next() {
		request, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	return requests, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRequest(row scanner) (*models.DonationRequest, error) {
	var (
		request     models.DonationRequest
		donorName   sql.NullString
		donorEmail  sql.NullString
		donorUID    sql.NullString
		confirmedAt sql.NullTime
	)
	err := row.Scan(
		&request.ID, &request.RequesterEmail, &request.RequesterName, &request.RecipientName,
		&request.BloodGroup, &request.District, &request.Upazila, &request.Hospital,
		&request.Address, &request.Message, &request.DonationDate, &request.Status,
		&donorName, &donorEmail, &donorUID, &confirmedAt, &request.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan donation request: %w", err)
	}
	request.DonorName = donorName.String
	request.DonorEmail = donorEmail.String
	request.DonorUID = donorUID.String
	if confirmedAt.Valid {
		request.ConfirmedAt = &confirmedAt.Time
	}
	return &request, nil
}
