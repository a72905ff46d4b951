package store

import (
	"context"
	"database/sql"
	"fmt"

	"rokthona/internal/geo/models"
	"rokthona/pkg/platform/sentinel"
)

// PostgresStore persists the reference data in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Seed inserts the full dataset in one transaction. The emptiness check and
// the inserts share the transaction, so concurrent seeds cannot interleave.
func (s *PostgresStore) Seed(ctx context.Context, districts []models.District, upazilas []models.Upazila) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	var count int64
	if err := tx.QueryRowContext(ctx, `SELECT count(*) FROM districts`).Scan(&count); err != nil {
		return fmt.Errorf("count districts: %w", err)
	}
	if count > 0 {
		return sentinel.ErrConflict
	}

	for _, d := range districts {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO districts (id, name, bn_name) VALUES ($1, $2, $3)`,
			d.ID, d.Name, d.BnName,
		)
		if err != nil {
			return fmt.Errorf("insert district %s: %w", d.ID, err)
		}
	}
	for _, u := range upazilas {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO upazilas (id, district_id, name, bn_name) VALUES ($1, $2, $3, $4)`,
			u.ID, u.DistrictID, u.Name, u.BnName,
		)
		if err != nil {
			return fmt.Errorf("insert upazila %s: %w", u.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListDistricts(ctx context.Context) ([]models.District, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, bn_name FROM districts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query districts: %w", err)
	}
	defer rows.Close()

	districts := make([]models.District, 0)
	for rows.Next() {
		var d models.District
		if err := rows.Scan(&d.ID, &d.Name, &d.BnName); err != nil {
			return nil, fmt.Errorf("scan district: %w", err)
		}
		districts = append(districts, d)
	}
	return districts, rows.Err()
}

func (s *PostgresStore) ListUpazilas(ctx context.Context) ([]models.Upazila, error) {
	return s.queryUpazilas(ctx, `SELECT id, district_id, name, bn_name FROM upazilas ORDER BY id`)
}

func (s *PostgresStore) ListUpazilasByDistrict(ctx context.Context, districtID string) ([]models.Upazila, error) {
	return s.queryUpazilas(ctx,
		`SELECT id, district_id, name, bn_name FROM upazilas WHERE district_id = $1 ORDER BY id`,
		districtID,
	)
}

func (s *PostgresStore) queryUpazilas(ctx context.Context, query string, args ...any) ([]models.Upazila, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query upazilas: %w", err)
	}
	defer rows.Close()

	upazilas := make([]models.Upazila, 0)
	for rows.Next() {
		var u models.Upazila
		if err := rows.Scan(&u.ID, &u.DistrictID, &u.Name, &u.BnName); err != nil {
			return nil, fmt.Errorf("scan upazila: %w", err)
		}
		upazilas = append(upazilas, u)
	}
	return upazilas, rows.Err()
}
