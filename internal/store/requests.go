package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"marketplace-service/internal/apperr"
	"marketplace-service/internal/models"
)

// CreateRequest persists a new buyer request in its initial state.
func (s *Store) CreateRequest(ctx context.Context, req *models.Request) error {
	query := `
		INSERT INTO requests (request_id, listing_id, industry_id, buyer_name, buyer_email,
			buyer_mobile, country_code, company_name, requested_quantity, specifications, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`

	return s.db.QueryRowxContext(ctx, query,
		req.RequestID, req.ListingID, req.IndustryID, req.BuyerName, req.BuyerEmail,
		req.BuyerMobile, req.CountryCode, req.CompanyName, req.RequestedQuantity,
		req.Specifications, req.Status,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
}

// GetRequestByID retrieves a request by its numeric ID.
func (s *Store) GetRequestByID(ctx context.Context, id int64) (*models.Request, error) {
	var req models.Request
	err := s.db.GetContext(ctx, &req, "SELECT * FROM requests WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("request", id)
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// GetRequestByCode retrieves a request by its human request code.
func (s *Store) GetRequestByCode(ctx context.Context, code string) (*models.Request, error) {
	var req models.Request
	err := s.db.GetContext(ctx, &req, "SELECT * FROM requests WHERE request_id = $1", code)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("request", code)
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// SetRequestStatus updates the status of a request with no inventory side
// effect. First entry into Dispatched or Completed stamps the corresponding
// timestamp; a re-issued status never overwrites an already-set stamp.
func (s *Store) SetRequestStatus(ctx context.Context, id int64, status models.Status) (*models.Request, error) {
	var stamp string
	switch status {
	case models.StatusDispatched:
		stamp = ", dispatched_at = COALESCE(dispatched_at, NOW())"
	case models.StatusCompleted:
		stamp = ", completed_at = COALESCE(completed_at, NOW())"
	}

	query := fmt.Sprintf(
		"UPDATE requests SET status = $1, updated_at = NOW()%s WHERE id = $2 RETURNING *", stamp)

	var req models.Request
	err := s.db.GetContext(ctx, &req, query, status, id)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("request", id)
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// ConfirmRequestTx performs the one stock-deducting transition. The request
// row is locked for the duration of the transaction so a racing confirmation
// of the same request observes stock_deducted and becomes a no-op; the
// listing decrement itself is guarded in the UPDATE, so confirmations of
// different requests against the same listing cannot overspend the counter.
// The bool reports whether this call deducted stock; a repeated confirm or a
// request without a quantity returns false.
func (s *Store) ConfirmRequestTx(ctx context.Context, id int64) (*models.Request, bool, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback()

	var req models.Request
	err = tx.GetContext(ctx, &req, "SELECT * FROM requests WHERE id = $1 FOR UPDATE", id)
	if err == sql.ErrNoRows {
		return nil, false, apperr.NotFound("request", id)
	}
	if err != nil {
		return nil, false, err
	}

	if req.StockDeducted {
		// Already confirmed and deducted; repeated confirms are inventory no-ops.
		if err := tx.Commit(); err != nil {
			return nil, false, err
		}
		return &req, false, nil
	}

	fulfilled := 0
	deducted := false
	if req.HasQuantity() {
		available, ok, err := deductStock(ctx, tx, req.ListingID, req.RequestedQuantity)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			return nil, false, &apperr.InsufficientStockError{
				Available: available,
				Requested: req.RequestedQuantity,
			}
		}
		fulfilled = req.RequestedQuantity
		deducted = true
	}

	err = tx.GetContext(ctx, &req, `
		UPDATE requests
		SET status = $1, stock_deducted = $2, quantity_fulfilled = $3,
			confirmed_at = COALESCE(confirmed_at, NOW()), updated_at = NOW()
		WHERE id = $4
		RETURNING *`,
		models.StatusConfirmed, deducted, fulfilled, id)
	if err != nil {
		return nil, false, err
	}

	if err := tx.Commit(); err != nil {
		return nil, false, err
	}
	return &req, deducted, nil
}

// AppendAdminNote appends one entry to a request's note log. Notes are never
// edited or removed.
func (s *Store) AppendAdminNote(ctx context.Context, note *models.AdminNote) error {
	query := `
		INSERT INTO admin_notes (request_id, note, author_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	return s.db.QueryRowxContext(ctx, query,
		note.RequestID, note.Note, note.AuthorID,
	).Scan(&note.ID, &note.CreatedAt)
}

// GetAdminNotes retrieves a request's note log in append order.
func (s *Store) GetAdminNotes(ctx context.Context, requestID int64) ([]models.AdminNote, error) {
	var notes []models.AdminNote
	err := s.db.SelectContext(ctx, &notes,
		"SELECT * FROM admin_notes WHERE request_id = $1 ORDER BY id", requestID)
	return notes, err
}

// RequestFilter is the admin-side request search criteria.
type RequestFilter struct {
	Search     string
	IndustryID int64
	ListingID  int64
	Status     models.Status
	From       time.Time
	To         time.Time
	Limit      int
	Offset     int
}

func (f *RequestFilter) whereClause() (string, []interface{}) {
	conds := []string{}
	args := []interface{}{}

	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(buyer_name ILIKE $%d OR company_name ILIKE $%d OR request_id ILIKE $%d OR buyer_email ILIKE $%d)",
			n, n, n, n))
	}
	if f.IndustryID > 0 {
		args = append(args, f.IndustryID)
		conds = append(conds, fmt.Sprintf("industry_id = $%d", len(args)))
	}
	if f.ListingID > 0 {
		args = append(args, f.ListingID)
		conds = append(conds, fmt.Sprintf("listing_id = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if !f.From.IsZero() {
		args = append(args, f.From)
		conds = append(conds, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if !f.To.IsZero() {
		args = append(args, f.To)
		conds = append(conds, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// SearchRequests retrieves a page of requests matching the filter, newest
// first, along with the total match count.
func (s *Store) SearchRequests(ctx context.Context, f *RequestFilter) ([]models.Request, int, error) {
	where, args := f.whereClause()

	var total int
	if err := s.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM requests"+where, args...); err != nil {
		return nil, 0, err
	}

	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf("SELECT * FROM requests%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		where, len(args)-1, len(args))

	var requests []models.Request
	if err := s.db.SelectContext(ctx, &requests, query, args...); err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}
