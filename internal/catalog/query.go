package catalog

import (
	"encoding/json"
	"fmt"

	"marketplace-service/internal/apperr"
	"marketplace-service/internal/models"
)

// AttributeConstraint is one decoded filter constraint against a listing's
// attribute key: an option membership set, an inclusive numeric range, or a
// boolean toggle.
type AttributeConstraint struct {
	Values []string
	Min    *float64
	Max    *float64
	Flag   *bool
}

type rangeConstraint struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

// ParseAttributeFilters decodes the filters query parameter, a JSON object of
// {attributeKey: selectedValues | {min,max} | scalar}.
func ParseAttributeFilters(raw string) (map[string]AttributeConstraint, error) {
	if raw == "" {
		return nil, nil
	}

	var decoded map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, apperr.Validation("invalid filters parameter: %v", err)
	}

	out := make(map[string]AttributeConstraint, len(decoded))
	for key, value := range decoded {
		constraint, err := parseConstraint(value)
		if err != nil {
			return nil, apperr.Validation("invalid filter for %q: %v", key, err)
		}
		out[key] = constraint
	}
	return out, nil
}

func parseConstraint(raw json.RawMessage) (AttributeConstraint, error) {
	var values []string
	if err := json.Unmarshal(raw, &values); err == nil {
		return AttributeConstraint{Values: values}, nil
	}

	var rc rangeConstraint
	if err := json.Unmarshal(raw, &rc); err == nil && (rc.Min != nil || rc.Max != nil) {
		return AttributeConstraint{Min: rc.Min, Max: rc.Max}, nil
	}

	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return AttributeConstraint{Values: []string{str}}, nil
	}

	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		return AttributeConstraint{Min: &num, Max: &num}, nil
	}

	var flag bool
	if err := json.Unmarshal(raw, &flag); err == nil {
		return AttributeConstraint{Flag: &flag}, nil
	}

	return AttributeConstraint{}, fmt.Errorf("unsupported constraint shape: %s", string(raw))
}

// MatchListing reports whether a listing satisfies every supplied constraint.
// Constraints AND across keys; within a membership constraint the listing
// matches if its value intersects the selected set.
func MatchListing(listing *models.Listing, constraints map[string]AttributeConstraint) bool {
	for key, constraint := range constraints {
		attr, ok := listing.Attributes[key]
		if !ok {
			return false
		}
		if !matchAttribute(attr, constraint) {
			return false
		}
	}
	return true
}

func matchAttribute(attr models.Attribute, c AttributeConstraint) bool {
	switch attr.Kind {
	case models.KindText, models.KindSelect:
		if len(c.Values) == 0 {
			return false
		}
		return contains(c.Values, attr.Text)

	case models.KindMultiSelect:
		for _, v := range attr.Options {
			if contains(c.Values, v) {
				return true
			}
		}
		return false

	case models.KindNumber, models.KindRange:
		if c.Min != nil && attr.Number < *c.Min {
			return false
		}
		if c.Max != nil && attr.Number > *c.Max {
			return false
		}
		return c.Min != nil || c.Max != nil

	case models.KindBoolean:
		return c.Flag != nil && attr.Flag == *c.Flag
	}
	return false
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

// FilterListings applies attribute constraints to a listing set, preserving
// input order.
func FilterListings(listings []models.Listing, constraints map[string]AttributeConstraint) []models.Listing {
	if len(constraints) == 0 {
		return listings
	}
	out := make([]models.Listing, 0, len(listings))
	for i := range listings {
		if MatchListing(&listings[i], constraints) {
			out = append(out, listings[i])
		}
	}
	return out
}

// Pagination describes one 1-indexed page of a result set.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPagination normalizes the page number and computes page counts.
// Out-of-range pages yield an empty slice from Bounds, never an error.
func NewPagination(total, page, pageSize int) Pagination {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	totalPages := 0
	if total > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return Pagination{Page: page, PageSize: pageSize, Total: total, TotalPages: totalPages}
}

// Bounds returns the slice bounds of this page over a result of length Total.
func (p Pagination) Bounds() (int, int) {
	start := (p.Page - 1) * p.PageSize
	if start >= p.Total {
		return 0, 0
	}
	end := start + p.PageSize
	if end > p.Total {
		end = p.Total
	}
	return start, end
}

// Offset returns the SQL offset of this page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}
