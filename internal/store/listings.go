package store

import (
	"context"
	"database/sql"
	"fmt"

	"marketplace-service/internal/apperr"
	"marketplace-service/internal/models"
)

// Stock adjustment operations
const (
	StockOpAdd      = "add"
	StockOpSubtract = "subtract"
	StockOpSet      = "set"
)

// CreateListing persists a new listing. The code is assigned by the caller
// and immutable afterwards.
func (s *Store) CreateListing(ctx context.Context, listing *models.Listing) error {
	query := `
		INSERT INTO listings (code, kind, industry_id, name, description, company_name,
			available_quantity, minimum_order_quantity, attributes, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`

	return s.db.QueryRowxContext(ctx, query,
		listing.Code, listing.Kind, listing.IndustryID, listing.Name, listing.Description,
		listing.CompanyName, listing.AvailableQuantity, listing.MinimumOrderQuantity,
		listing.Attributes, listing.IsActive,
	).Scan(&listing.ID, &listing.CreatedAt, &listing.UpdatedAt)
}

// GetListingByID retrieves a listing regardless of active flag (historical
// requests keep referencing soft-deleted listings).
func (s *Store) GetListingByID(ctx context.Context, id int64) (*models.Listing, error) {
	var listing models.Listing
	err := s.db.GetContext(ctx, &listing, "SELECT * FROM listings WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("listing", id)
	}
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// GetActiveListingByID retrieves a listing visible to buyers.
func (s *Store) GetActiveListingByID(ctx context.Context, id int64) (*models.Listing, error) {
	var listing models.Listing
	err := s.db.GetContext(ctx, &listing,
		"SELECT * FROM listings WHERE id = $1 AND is_active = TRUE", id)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("listing", id)
	}
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// GetActiveListingsByIndustry retrieves all active listings of one industry,
// ordered by ID for stable downstream derivation.
func (s *Store) GetActiveListingsByIndustry(ctx context.Context, industryID int64) ([]models.Listing, error) {
	var listings []models.Listing
	err := s.db.SelectContext(ctx, &listings,
		"SELECT * FROM listings WHERE industry_id = $1 AND is_active = TRUE ORDER BY id", industryID)
	return listings, err
}

// SearchActiveListings retrieves active listings matched by a case-insensitive
// substring over name, code, description and company name, optionally scoped
// to an industry. Attribute constraints are applied by the caller.
func (s *Store) SearchActiveListings(ctx context.Context, industryID int64, search string) ([]models.Listing, error) {
	query := "SELECT * FROM listings WHERE is_active = TRUE"
	args := []interface{}{}

	if industryID > 0 {
		args = append(args, industryID)
		query += fmt.Sprintf(" AND industry_id = $%d", len(args))
	}
	if search != "" {
		args = append(args, "%"+search+"%")
		n := len(args)
		query += fmt.Sprintf(
			" AND (name ILIKE $%d OR code ILIKE $%d OR description ILIKE $%d OR company_name ILIKE $%d)",
			n, n, n, n)
	}
	query += " ORDER BY id"

	var listings []models.Listing
	err := s.db.SelectContext(ctx, &listings, query, args...)
	return listings, err
}

// AdjustStock applies an unconditional administrative stock override and
// returns the new quantity. subtract and set clamp at zero; add is unbounded.
func (s *Store) AdjustStock(ctx context.Context, listingID int64, op string, amount int) (int, error) {
	var query string
	switch op {
	case StockOpAdd:
		query = `UPDATE listings SET available_quantity = available_quantity + $1,
			updated_at = NOW() WHERE id = $2 RETURNING available_quantity`
	case StockOpSubtract:
		query = `UPDATE listings SET available_quantity = GREATEST(available_quantity - $1, 0),
			updated_at = NOW() WHERE id = $2 RETURNING available_quantity`
	case StockOpSet:
		query = `UPDATE listings SET available_quantity = GREATEST($1, 0),
			updated_at = NOW() WHERE id = $2 RETURNING available_quantity`
	default:
		return 0, apperr.Validation("invalid stock operation: %q", op)
	}

	var newQty int
	err := s.db.GetContext(ctx, &newQty, query, amount, listingID)
	if err == sql.ErrNoRows {
		return 0, apperr.NotFound("listing", listingID)
	}
	if err != nil {
		return 0, err
	}
	return newQty, nil
}

// deductStockQuery is the single atomic check-and-decrement. The guard lives
// in the UPDATE itself so two concurrent confirmations can never both pass a
// stale application-side comparison.
const deductStockQuery = `
	UPDATE listings
	SET available_quantity = available_quantity - $1, updated_at = NOW()
	WHERE id = $2 AND available_quantity >= $1
	RETURNING available_quantity`

// DeductStock atomically deducts stock from a listing. On success it returns
// the new quantity and true; when the guard fails it returns the currently
// available quantity and false without modifying anything.
func (s *Store) DeductStock(ctx context.Context, listingID int64, amount int) (int, bool, error) {
	return deductStock(ctx, s.db, listingID, amount)
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func deductStock(ctx context.Context, q queryer, listingID int64, amount int) (int, bool, error) {
	var newQty int
	err := q.QueryRowContext(ctx, deductStockQuery, amount, listingID).Scan(&newQty)
	if err == nil {
		return newQty, true, nil
	}
	if err != sql.ErrNoRows {
		return 0, false, fmt.Errorf("failed to deduct stock: %w", err)
	}

	// Guard failed: either the listing is gone or stock is short.
	var available int
	err = q.QueryRowContext(ctx,
		"SELECT available_quantity FROM listings WHERE id = $1", listingID).Scan(&available)
	if err == sql.ErrNoRows {
		return 0, false, apperr.NotFound("listing", listingID)
	}
	if err != nil {
		return 0, false, err
	}
	return available, false, nil
}
