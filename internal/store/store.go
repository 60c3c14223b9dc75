package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"marketplace-service/internal/apperr"
	"marketplace-service/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// GetIndustryByID retrieves an industry by ID
func (s *Store) GetIndustryByID(ctx context.Context, id int64) (*models.Industry, error) {
	var industry models.Industry
	err := s.db.GetContext(ctx, &industry, "SELECT * FROM industries WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("industry", id)
	}
	if err != nil {
		return nil, err
	}
	return &industry, nil
}

// GetIndustryBySlug retrieves an industry by its URL slug
func (s *Store) GetIndustryBySlug(ctx context.Context, slug string) (*models.Industry, error) {
	var industry models.Industry
	err := s.db.GetContext(ctx, &industry, "SELECT * FROM industries WHERE slug = $1", slug)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("industry", slug)
	}
	if err != nil {
		return nil, err
	}
	return &industry, nil
}

// DeleteIndustry removes an industry. Industries with existing listings are
// referenced and must not be deleted.
func (s *Store) DeleteIndustry(ctx context.Context, id int64) error {
	var hasListings bool
	err := s.db.GetContext(ctx, &hasListings,
		"SELECT EXISTS(SELECT 1 FROM listings WHERE industry_id = $1)", id)
	if err != nil {
		return err
	}
	if hasListings {
		return apperr.Validation("industry %d has listings and cannot be deleted", id)
	}

	res, err := s.db.ExecContext(ctx, "DELETE FROM industries WHERE id = $1", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("industry", id)
	}
	return nil
}
