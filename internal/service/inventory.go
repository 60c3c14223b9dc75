package service

import (
	"context"
	"time"

	"marketplace-service/internal/apperr"
	"marketplace-service/internal/broker"
	"marketplace-service/internal/models"
	"marketplace-service/internal/redisclient"
	"marketplace-service/internal/store"
	"marketplace-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InventoryLedger owns the single stock counter per listing. All mutation of
// available_quantity goes through here (or through the confirm transaction,
// which reuses the same guarded statement); no caller may cache a previously
// read quantity and write it back.
type InventoryLedger struct {
	store  *store.Store
	cache  *redisclient.Client
	events *broker.EventPublisher
	logger *zap.Logger
}

// NewInventoryLedger creates a new inventory ledger
func NewInventoryLedger(st *store.Store, cache *redisclient.Client, events *broker.EventPublisher) *InventoryLedger {
	return &InventoryLedger{
		store:  st,
		cache:  cache,
		events: events,
		logger: util.GetLogger(),
	}
}

// Adjust applies an unconditional administrative stock override and returns
// the new quantity. It does not check consistency against open requests.
func (l *InventoryLedger) Adjust(ctx context.Context, listingID int64, op string, amount int) (int, error) {
	ctx, span := util.StartSpan(ctx, "InventoryLedger.Adjust")
	defer span.End()

	if amount < 0 {
		return 0, apperr.Validation("quantity must be non-negative")
	}

	listing, err := l.store.GetListingByID(ctx, listingID)
	if err != nil {
		return 0, err
	}

	newQty, err := l.store.AdjustStock(ctx, listingID, op, amount)
	if err != nil {
		return 0, err
	}

	util.StockAdjustmentsTotal.WithLabelValues(op).Inc()
	l.logger.Info("Stock adjusted",
		zap.Int64("listing_id", listingID),
		zap.String("operation", op),
		zap.Int("amount", amount),
		zap.Int("new_quantity", newQty))

	l.invalidateIndustry(ctx, listing.IndustryID)

	event := &models.StockAdjustedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeStockAdjusted,
			Timestamp: time.Now(),
		},
		ListingID:   listingID,
		Operation:   op,
		Amount:      amount,
		NewQuantity: newQty,
	}
	if err := l.events.PublishStockAdjusted(ctx, event); err != nil {
		l.logger.Error("Failed to publish StockAdjusted event", zap.Error(err))
	}

	return newQty, nil
}

// Deduct atomically deducts stock from a listing. It returns the new
// quantity and true on success; the currently available quantity and false
// when stock is short. A failed deduct is never retried here.
//
// This is the standalone form of the guarded decrement; request confirmation
// runs the same statement inside its transaction via ConfirmDeduct.
func (l *InventoryLedger) Deduct(ctx context.Context, listingID int64, amount int) (int, bool, error) {
	ctx, span := util.StartSpan(ctx, "InventoryLedger.Deduct")
	defer span.End()

	start := time.Now()
	defer func() {
		util.StockDeductLatency.Observe(time.Since(start).Seconds())
	}()

	qty, ok, err := l.store.DeductStock(ctx, listingID, amount)
	if err != nil {
		return 0, false, err
	}
	if !ok {
		util.StockDeductionsFailed.Inc()
		return qty, false, nil
	}

	util.StockDeductionsTotal.Inc()
	return qty, true, nil
}

// ConfirmDeduct is the request-coupled form of Deduct used by the Confirmed
// transition: the request row and the listing counter move in one
// transaction, and a request that already deducted is a no-op.
func (l *InventoryLedger) ConfirmDeduct(ctx context.Context, requestID int64) (*models.Request, error) {
	ctx, span := util.StartSpan(ctx, "InventoryLedger.ConfirmDeduct")
	defer span.End()

	start := time.Now()
	defer func() {
		util.StockDeductLatency.Observe(time.Since(start).Seconds())
	}()

	req, deducted, err := l.store.ConfirmRequestTx(ctx, requestID)
	if err != nil {
		if _, ok := apperr.AsInsufficientStock(err); ok {
			util.StockDeductionsFailed.Inc()
		}
		return nil, err
	}
	if deducted {
		util.StockDeductionsTotal.Inc()
	}
	return req, nil
}

// invalidateIndustry drops the cached filter schema derived from this
// industry's listings. Best effort.
func (l *InventoryLedger) invalidateIndustry(ctx context.Context, industryID int64) {
	if l.cache == nil {
		return
	}
	if err := l.cache.Delete(ctx, redisclient.FilterSchemaKey(industryID)); err != nil {
		l.logger.Warn("Failed to invalidate filter cache",
			zap.Int64("industry_id", industryID),
			zap.Error(err))
	}
}
