package catalog

import (
	"testing"

	"marketplace-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAttributeFilters(t *testing.T) {
	constraints, err := ParseAttributeFilters(`{
		"grade": ["HDPE", "LDPE"],
		"density": {"min": 0.9, "max": 1.2},
		"color": "blue",
		"thickness": 2.5,
		"washed": true
	}`)
	require.NoError(t, err)

	assert.Equal(t, []string{"HDPE", "LDPE"}, constraints["grade"].Values)
	assert.Equal(t, 0.9, *constraints["density"].Min)
	assert.Equal(t, 1.2, *constraints["density"].Max)
	assert.Equal(t, []string{"blue"}, constraints["color"].Values)
	assert.Equal(t, 2.5, *constraints["thickness"].Min)
	assert.Equal(t, 2.5, *constraints["thickness"].Max)
	assert.True(t, *constraints["washed"].Flag)
}

func TestParseAttributeFiltersEmptyAndInvalid(t *testing.T) {
	constraints, err := ParseAttributeFilters("")
	assert.NoError(t, err)
	assert.Nil(t, constraints)

	_, err = ParseAttributeFilters("{not json")
	assert.Error(t, err)
}

func filterListing(attrs models.AttributeMap) *models.Listing {
	return &models.Listing{ID: 1, Attributes: attrs}
}

func TestMatchListingAllConstraintsMustHold(t *testing.T) {
	listing := filterListing(models.AttributeMap{
		"grade":   {Kind: models.KindSelect, Text: "HDPE"},
		"density": {Kind: models.KindNumber, Number: 0.95},
	})

	min, max := 0.9, 1.0
	matching := map[string]AttributeConstraint{
		"grade":   {Values: []string{"HDPE", "LDPE"}},
		"density": {Min: &min, Max: &max},
	}
	assert.True(t, MatchListing(listing, matching))

	// one failing constraint fails the whole listing
	failing := map[string]AttributeConstraint{
		"grade":   {Values: []string{"PET"}},
		"density": {Min: &min, Max: &max},
	}
	assert.False(t, MatchListing(listing, failing))

	// a constraint on an absent key never matches
	absent := map[string]AttributeConstraint{
		"color": {Values: []string{"blue"}},
	}
	assert.False(t, MatchListing(listing, absent))
}

func TestMatchListingMultiselectIntersects(t *testing.T) {
	listing := filterListing(models.AttributeMap{
		"certs": {Kind: models.KindMultiSelect, Options: []string{"ISO", "RoHS"}},
	})

	assert.True(t, MatchListing(listing, map[string]AttributeConstraint{
		"certs": {Values: []string{"RoHS", "CE"}},
	}))
	assert.False(t, MatchListing(listing, map[string]AttributeConstraint{
		"certs": {Values: []string{"CE"}},
	}))
}

func TestMatchListingRangeIsInclusive(t *testing.T) {
	listing := filterListing(models.AttributeMap{
		"density": {Kind: models.KindNumber, Number: 0.9},
	})

	min, max := 0.9, 0.9
	assert.True(t, MatchListing(listing, map[string]AttributeConstraint{
		"density": {Min: &min, Max: &max},
	}))

	above := 0.91
	assert.False(t, MatchListing(listing, map[string]AttributeConstraint{
		"density": {Min: &above},
	}))
}

func TestMatchListingBooleanToggle(t *testing.T) {
	listing := filterListing(models.AttributeMap{
		"washed": {Kind: models.KindBoolean, Flag: true},
	})

	yes, no := true, false
	assert.True(t, MatchListing(listing, map[string]AttributeConstraint{"washed": {Flag: &yes}}))
	assert.False(t, MatchListing(listing, map[string]AttributeConstraint{"washed": {Flag: &no}}))
}

func TestFilterListingsPreservesOrder(t *testing.T) {
	listings := []models.Listing{
		{ID: 1, Attributes: models.AttributeMap{"grade": {Kind: models.KindSelect, Text: "HDPE"}}},
		{ID: 2, Attributes: models.AttributeMap{"grade": {Kind: models.KindSelect, Text: "PET"}}},
		{ID: 3, Attributes: models.AttributeMap{"grade": {Kind: models.KindSelect, Text: "HDPE"}}},
	}

	out := FilterListings(listings, map[string]AttributeConstraint{
		"grade": {Values: []string{"HDPE"}},
	})
	require.Len(t, out, 2)
	assert.Equal(t, int64(1), out[0].ID)
	assert.Equal(t, int64(3), out[1].ID)
}

func TestPagination(t *testing.T) {
	p := NewPagination(25, 1, 10)
	assert.Equal(t, 3, p.TotalPages)
	start, end := p.Bounds()
	assert.Equal(t, 0, start)
	assert.Equal(t, 10, end)

	p = NewPagination(25, 3, 10)
	start, end = p.Bounds()
	assert.Equal(t, 20, start)
	assert.Equal(t, 25, end)
}

func TestPaginationOutOfRangeIsEmpty(t *testing.T) {
	p := NewPagination(25, 9, 10)
	start, end := p.Bounds()
	assert.Equal(t, 0, start)
	assert.Equal(t, 0, end)
	assert.Equal(t, 3, p.TotalPages)
}

func TestPaginationNormalizesPageSize(t *testing.T) {
	p := NewPagination(5, 1, 0)
	assert.Equal(t, 1, p.PageSize)
	assert.Equal(t, 5, p.TotalPages)
	start, end := p.Bounds()
	assert.Equal(t, 0, start)
	assert.Equal(t, 1, end)

	p = NewPagination(5, 1, -3)
	assert.Equal(t, 1, p.PageSize)
}

func TestPaginationNormalizesPage(t *testing.T) {
	p := NewPagination(5, 0, 10)
	assert.Equal(t, 1, p.Page)

	p = NewPagination(0, 1, 10)
	assert.Equal(t, 0, p.TotalPages)
	start, end := p.Bounds()
	assert.Equal(t, 0, start)
	assert.Equal(t, 0, end)
}
