package service

import (
	"context"
	"fmt"
	"time"

	"marketplace-service/internal/apperr"
	"marketplace-service/internal/broker"
	"marketplace-service/internal/catalog"
	"marketplace-service/internal/models"
	"marketplace-service/internal/redisclient"
	"marketplace-service/internal/store"
	"marketplace-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestService owns the buyer-request lifecycle: creation with its
// validation gate, the state machine, the note log and the admin search path.
type RequestService struct {
	store  *store.Store
	ledger *InventoryLedger
	cache  *redisclient.Client
	events *broker.EventPublisher
	logger *zap.Logger

	verifyTTL time.Duration
}

// NewRequestService creates a new request service
func NewRequestService(
	st *store.Store,
	ledger *InventoryLedger,
	cache *redisclient.Client,
	events *broker.EventPublisher,
	verifyTTL time.Duration,
) *RequestService {
	return &RequestService{
		store:     st,
		ledger:    ledger,
		cache:     cache,
		events:    events,
		logger:    util.GetLogger(),
		verifyTTL: verifyTTL,
	}
}

// CreateRequestInput carries the public request-creation body. Field names
// are part of the wire contract.
type CreateRequestInput struct {
	BuyerName         string `json:"buyerName"`
	BuyerEmail        string `json:"buyerEmail"`
	BuyerMobile       string `json:"buyerMobile"`
	CountryCode       string `json:"countryCode"`
	CompanyName       string `json:"companyName"`
	MaterialID        int64  `json:"materialId"`
	RequestedQuantity int    `json:"requestedQuantity"`
	Specifications    string `json:"specifications"`
}

// validateCreateInput checks the field-level invariants that do not require
// a listing lookup.
func validateCreateInput(input *CreateRequestInput) error {
	if input.BuyerName == "" {
		return apperr.Validation("buyerName is required")
	}
	if input.CompanyName == "" {
		return apperr.Validation("companyName is required")
	}
	if input.MaterialID == 0 {
		return apperr.Validation("materialId is required")
	}
	if input.BuyerEmail == "" && input.BuyerMobile == "" {
		return apperr.Validation("at least one contact method (buyerEmail or buyerMobile) is required")
	}
	return nil
}

// validateQuantity checks a material request's quantity against the listing's
// minimum order quantity and currently available stock. The availability
// check here is advisory: the authoritative gate is the atomic deduction at
// confirmation time.
func validateQuantity(input *CreateRequestInput, listing *models.Listing) error {
	if listing.Kind != models.ListingKindMaterial {
		return nil
	}
	if input.RequestedQuantity < listing.MinimumOrderQuantity {
		return apperr.Validation("requested quantity %d is below the minimum order quantity %d",
			input.RequestedQuantity, listing.MinimumOrderQuantity)
	}
	if input.RequestedQuantity > listing.AvailableQuantity {
		return apperr.Validation("requested quantity %d exceeds available stock %d",
			input.RequestedQuantity, listing.AvailableQuantity)
	}
	return nil
}

// CreateRequest validates and persists a new buyer request in state New.
func (s *RequestService) CreateRequest(ctx context.Context, input *CreateRequestInput) (*models.Request, error) {
	ctx, span := util.StartSpan(ctx, "RequestService.CreateRequest")
	defer span.End()

	if err := validateCreateInput(input); err != nil {
		util.RequestsRejectedTotal.WithLabelValues("validation").Inc()
		return nil, err
	}

	listing, err := s.store.GetActiveListingByID(ctx, input.MaterialID)
	if err != nil {
		util.RequestsRejectedTotal.WithLabelValues("listing_not_found").Inc()
		return nil, err
	}

	if err := validateQuantity(input, listing); err != nil {
		util.RequestsRejectedTotal.WithLabelValues("quantity").Inc()
		return nil, err
	}

	quantity := 0
	if listing.Kind == models.ListingKindMaterial {
		quantity = input.RequestedQuantity
	}

	req := &models.Request{
		RequestID:         GenerateRequestCode(),
		ListingID:         listing.ID,
		IndustryID:        listing.IndustryID,
		BuyerName:         input.BuyerName,
		BuyerEmail:        input.BuyerEmail,
		BuyerMobile:       input.BuyerMobile,
		CountryCode:       input.CountryCode,
		CompanyName:       input.CompanyName,
		RequestedQuantity: quantity,
		Specifications:    input.Specifications,
		Status:            models.StatusNew,
	}

	if err := s.store.CreateRequest(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	util.RequestsCreatedTotal.Inc()
	s.logger.Info("Request created",
		zap.Int64("request_id", req.ID),
		zap.String("request_code", req.RequestID),
		zap.Int64("listing_id", listing.ID))

	event := &models.RequestCreatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeRequestCreated,
			Timestamp: time.Now(),
		},
		RequestID:         req.ID,
		RequestCode:       req.RequestID,
		ListingID:         req.ListingID,
		BuyerName:         req.BuyerName,
		BuyerEmail:        req.BuyerEmail,
		RequestedQuantity: req.RequestedQuantity,
	}
	if err := s.events.PublishRequestCreated(ctx, event); err != nil {
		s.logger.Error("Failed to publish RequestCreated event", zap.Error(err))
	}

	return req, nil
}

// UpdateStatus advances a request through the lifecycle. Confirmed is the
// only transition with an inventory side effect; re-issuing the current
// status is a no-op aside from an optional note.
func (s *RequestService) UpdateStatus(ctx context.Context, id int64, rawStatus, note, authorID string) (*models.Request, error) {
	ctx, span := util.StartSpan(ctx, "RequestService.UpdateStatus")
	defer span.End()

	target, err := models.ParseStatus(rawStatus)
	if err != nil {
		util.RequestTransitionsRejected.WithLabelValues("invalid_status").Inc()
		return nil, &apperr.InvalidTransitionError{To: rawStatus}
	}

	req, err := s.store.GetRequestByID(ctx, id)
	if err != nil {
		return nil, err
	}
	from := req.Status

	if from != target && !models.CanTransition(from, target) {
		util.RequestTransitionsRejected.WithLabelValues("illegal_transition").Inc()
		return nil, &apperr.InvalidTransitionError{From: string(from), To: string(target)}
	}

	switch {
	case from == target && target != models.StatusConfirmed:
		// No state change; fall through to the optional note append.

	case target == models.StatusConfirmed:
		// The confirm transaction is idempotent per request: a repeat confirm
		// finds stock_deducted set and touches no inventory.
		req, err = s.ledger.ConfirmDeduct(ctx, id)
		if err != nil {
			if stockErr, ok := apperr.AsInsufficientStock(err); ok {
				s.logger.Warn("Confirm rejected on insufficient stock",
					zap.Int64("request_id", id),
					zap.Int("available", stockErr.Available),
					zap.Int("requested", stockErr.Requested))
			}
			return nil, err
		}

	default:
		req, err = s.store.SetRequestStatus(ctx, id, target)
		if err != nil {
			return nil, err
		}
	}

	if note != "" {
		adminNote := &models.AdminNote{RequestID: id, Note: note, AuthorID: authorID}
		if err := s.store.AppendAdminNote(ctx, adminNote); err != nil {
			// Known gap carried over from the status write not being
			// transactional with the note append.
			s.logger.Error("Failed to append admin note", zap.Int64("request_id", id), zap.Error(err))
		}
	}

	if from != target {
		util.RequestTransitionsTotal.WithLabelValues(string(target)).Inc()
		s.logger.Info("Request transitioned",
			zap.Int64("request_id", id),
			zap.String("from", string(from)),
			zap.String("to", string(target)))

		s.invalidateVerify(ctx, req.RequestID)

		event := &models.RequestStatusChangedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeRequestStatusChanged,
				Timestamp: time.Now(),
			},
			RequestID:     req.ID,
			RequestCode:   req.RequestID,
			ListingID:     req.ListingID,
			FromStatus:    from,
			ToStatus:      target,
			StockDeducted: req.StockDeducted,
		}
		if err := s.events.PublishRequestStatusChanged(ctx, event); err != nil {
			s.logger.Error("Failed to publish RequestStatusChanged event", zap.Error(err))
		}
	}

	return req, nil
}

// AddNote appends an admin note without changing status.
func (s *RequestService) AddNote(ctx context.Context, id int64, note, authorID string) (*models.AdminNote, error) {
	if note == "" {
		return nil, apperr.Validation("note is required")
	}
	if _, err := s.store.GetRequestByID(ctx, id); err != nil {
		return nil, err
	}

	adminNote := &models.AdminNote{RequestID: id, Note: note, AuthorID: authorID}
	if err := s.store.AppendAdminNote(ctx, adminNote); err != nil {
		return nil, fmt.Errorf("failed to append admin note: %w", err)
	}
	return adminNote, nil
}

// RequestDetail is the admin-side full view of one request.
type RequestDetail struct {
	Request  *models.Request    `json:"request"`
	Listing  *models.Listing    `json:"listing,omitempty"`
	Industry *models.Industry   `json:"industry,omitempty"`
	Notes    []models.AdminNote `json:"admin_notes"`
}

// GetRequestDetail retrieves a request with its listing, industry and note log.
func (s *RequestService) GetRequestDetail(ctx context.Context, id int64) (*RequestDetail, error) {
	req, err := s.store.GetRequestByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &RequestDetail{Request: req}

	if listing, err := s.store.GetListingByID(ctx, req.ListingID); err == nil {
		detail.Listing = listing
	}
	if industry, err := s.store.GetIndustryByID(ctx, req.IndustryID); err == nil {
		detail.Industry = industry
	}

	notes, err := s.store.GetAdminNotes(ctx, id)
	if err != nil {
		return nil, err
	}
	detail.Notes = notes

	return detail, nil
}

// VerifyResult is the public view of a request's progress.
type VerifyResult struct {
	RequestID string        `json:"requestId"`
	Status    models.Status `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}

// VerifyRequest looks up a request's status by its human code, cache-first.
func (s *RequestService) VerifyRequest(ctx context.Context, code string) (*VerifyResult, error) {
	ctx, span := util.StartSpan(ctx, "RequestService.VerifyRequest")
	defer span.End()

	key := redisclient.VerifyKey(code)
	if s.cache != nil {
		var cached VerifyResult
		if err := s.cache.GetJSON(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	req, err := s.store.GetRequestByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	result := &VerifyResult{RequestID: req.RequestID, Status: req.Status, CreatedAt: req.CreatedAt}
	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, result, s.verifyTTL); err != nil {
			s.logger.Warn("Failed to cache verify result", zap.Error(err))
		}
	}
	return result, nil
}

func (s *RequestService) invalidateVerify(ctx context.Context, code string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, redisclient.VerifyKey(code)); err != nil {
		s.logger.Warn("Failed to invalidate verify cache", zap.String("request_code", code), zap.Error(err))
	}
}

// SearchParams carries the admin request-search criteria.
type SearchParams struct {
	Search     string
	IndustryID int64
	ListingID  int64
	Status     string
	From       time.Time
	To         time.Time
	Page       int
	PageSize   int
}

// RequestPage is one page of the admin request search.
type RequestPage struct {
	Requests   []models.Request   `json:"requests"`
	Pagination catalog.Pagination `json:"pagination"`
}

// SearchRequests retrieves a filtered, paginated page of requests.
func (s *RequestService) SearchRequests(ctx context.Context, params *SearchParams) (*RequestPage, error) {
	ctx, span := util.StartSpan(ctx, "RequestService.SearchRequests")
	defer span.End()

	var status models.Status
	if params.Status != "" {
		parsed, err := models.ParseStatus(params.Status)
		if err != nil {
			return nil, apperr.Validation("invalid status filter: %q", params.Status)
		}
		status = parsed
	}

	page := catalog.NewPagination(0, params.Page, params.PageSize)
	filter := &store.RequestFilter{
		Search:     params.Search,
		IndustryID: params.IndustryID,
		ListingID:  params.ListingID,
		Status:     status,
		From:       params.From,
		To:         params.To,
		Limit:      page.PageSize,
		Offset:     page.Offset(),
	}

	requests, total, err := s.store.SearchRequests(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search requests: %w", err)
	}

	if requests == nil {
		requests = []models.Request{}
	}
	return &RequestPage{
		Requests:   requests,
		Pagination: catalog.NewPagination(total, params.Page, params.PageSize),
	}, nil
}
