package models

import "time"

// Event types
const (
	EventTypeRequestCreated       = "REQUEST_CREATED"
	EventTypeRequestStatusChanged = "REQUEST_STATUS_CHANGED"
	EventTypeStockAdjusted        = "STOCK_ADJUSTED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// RequestCreatedEvent published when a buyer request is created
type RequestCreatedEvent struct {
	BaseEvent
	RequestID         int64  `json:"request_id"`
	RequestCode       string `json:"request_code"`
	ListingID         int64  `json:"listing_id"`
	BuyerName         string `json:"buyer_name"`
	BuyerEmail        string `json:"buyer_email,omitempty"`
	RequestedQuantity int    `json:"requested_quantity,omitempty"`
}

// RequestStatusChangedEvent published on every lifecycle transition
type RequestStatusChangedEvent struct {
	BaseEvent
	RequestID     int64  `json:"request_id"`
	RequestCode   string `json:"request_code"`
	ListingID     int64  `json:"listing_id"`
	FromStatus    Status `json:"from_status"`
	ToStatus      Status `json:"to_status"`
	StockDeducted bool   `json:"stock_deducted"`
}

// StockAdjustedEvent published on administrative stock adjustments
type StockAdjustedEvent struct {
	BaseEvent
	ListingID   int64  `json:"listing_id"`
	Operation   string `json:"operation"`
	Amount      int    `json:"amount"`
	NewQuantity int    `json:"new_quantity"`
}
