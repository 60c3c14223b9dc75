package models

import "time"

// Listing kinds
const (
	ListingKindMaterial = "material"
	ListingKindMachine  = "machine"
	ListingKindSoftware = "software"
)

// Industry owns listings and scopes filter derivation
type Industry struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Slug      string    `db:"slug" json:"slug"`
	Prefix    string    `db:"prefix" json:"prefix"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Listing is a catalog entry (material, machine or software) owned by an
// industry. Only material listings carry a stock counter and a minimum order
// quantity; for the other kinds both are zero and ignored.
type Listing struct {
	ID                   int64        `db:"id" json:"id"`
	Code                 string       `db:"code" json:"code"`
	Kind                 string       `db:"kind" json:"kind"`
	IndustryID           int64        `db:"industry_id" json:"industry_id"`
	Name                 string       `db:"name" json:"name"`
	Description          string       `db:"description" json:"description"`
	CompanyName          string       `db:"company_name" json:"company_name"`
	AvailableQuantity    int          `db:"available_quantity" json:"available_quantity"`
	MinimumOrderQuantity int          `db:"minimum_order_quantity" json:"minimum_order_quantity"`
	Attributes           AttributeMap `db:"attributes" json:"attributes"`
	IsActive             bool         `db:"is_active" json:"is_active"`
	CreatedAt            time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time    `db:"updated_at" json:"updated_at"`
}

// Request is a buyer inquiry against one listing. IndustryID is snapshotted
// from the listing at creation and never re-derived.
type Request struct {
	ID                int64      `db:"id" json:"id"`
	RequestID         string     `db:"request_id" json:"requestId"`
	ListingID         int64      `db:"listing_id" json:"listing_id"`
	IndustryID        int64      `db:"industry_id" json:"industry_id"`
	BuyerName         string     `db:"buyer_name" json:"buyerName"`
	BuyerEmail        string     `db:"buyer_email" json:"buyerEmail,omitempty"`
	BuyerMobile       string     `db:"buyer_mobile" json:"buyerMobile,omitempty"`
	CountryCode       string     `db:"country_code" json:"countryCode,omitempty"`
	CompanyName       string     `db:"company_name" json:"companyName"`
	RequestedQuantity int        `db:"requested_quantity" json:"requestedQuantity,omitempty"`
	Specifications    string     `db:"specifications" json:"specifications,omitempty"`
	Status            Status     `db:"status" json:"status"`
	StockDeducted     bool       `db:"stock_deducted" json:"stockDeducted"`
	QuantityFulfilled int        `db:"quantity_fulfilled" json:"quantityFulfilled"`
	ConfirmedAt       *time.Time `db:"confirmed_at" json:"confirmedAt,omitempty"`
	DispatchedAt      *time.Time `db:"dispatched_at" json:"dispatchedAt,omitempty"`
	CompletedAt       *time.Time `db:"completed_at" json:"completedAt,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}

// HasQuantity reports whether the request carries a quantity concept
// (material requests only).
func (r *Request) HasQuantity() bool {
	return r.RequestedQuantity > 0
}

// AdminNote is one entry of a request's append-only note log.
type AdminNote struct {
	ID        int64     `db:"id" json:"id"`
	RequestID int64     `db:"request_id" json:"request_id"`
	Note      string    `db:"note" json:"note"`
	AuthorID  string    `db:"author_id" json:"author_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
