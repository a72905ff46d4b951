package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"rokthona/internal/blog/models"
	"rokthona/pkg/platform/sentinel"
)

// PostgresStore persists blog posts in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const blogColumns = `id, title, content, thumbnail_url, author_email, author_name, status, created_at`

func (s *PostgresStore) Create(ctx context.Context, blog *models.Blog) error {
	query := `
		INSERT INTO blogs (id, title, content, thumbnail_url, author_email, author_name, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		blog.ID, blog.Title, blog.Content, blog.ThumbnailURL,
		blog.AuthorEmail, blog.AuthorName, blog.Status, blog.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create blog: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Blog, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+blogColumns+` FROM blogs WHERE id = $1`, id)
	blog, err := scanBlog(row)
	if err != nil {
		return nil, err
	}
	return blog, nil
}

func (s *PostgresStore) List(ctx context.Context, status models.Status) ([]*models.Blog, error) {
	query := `
		SELECT ` + blogColumns + `
		FROM blogs
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, string(status))
	if err != nil {
		return nil, fmt.Errorf("query blogs: %w", err)
	}
	defer rows.Close()

	blogs := make([]*models.Blog, 0)
	for rows.Next() {
		blog, err := scanBlog(rows)
		if err != nil {
			return nil, err
		}
		blogs = append(blogs, blog)
	}
	return blogs, rows.Err()
}

func (s *PostgresStore) SetStatus(ctx context.Context, id uuid.UUID, status models.Status) error {
	res, err := s.db.ExecContext(ctx, `UPDATE blogs SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("set blog status: %w", err)
	}
	return requireMatch(res)
}

func (s *PostgresStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete blog: %w", err)
	}
	return requireMatch(res)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBlog(row scanner) (*models.Blog, error) {
	var blog models.Blog
	err := row.Scan(
		&blog.ID, &blog.Title, &blog.Content, &blog.ThumbnailURL,
		&blog.AuthorEmail, &blog.AuthorName, &blog.Status, &blog.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan blog: %w", err)
	}
	return &blog, nil
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
