package catalog

import (
	"testing"

	"marketplace-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func materialListing(id int64, attrs models.AttributeMap) models.Listing {
	return models.Listing{
		ID:         id,
		Kind:       models.ListingKindMaterial,
		IndustryID: 1,
		IsActive:   true,
		Attributes: attrs,
	}
}

func TestDeriveFiltersAccumulatesOptions(t *testing.T) {
	listings := []models.Listing{
		materialListing(1, models.AttributeMap{
			"grade": {Label: "Grade", Kind: models.KindSelect, Text: "HDPE", FilterEnabled: true},
		}),
		materialListing(2, models.AttributeMap{
			"grade": {Label: "Grade", Kind: models.KindSelect, Text: "LDPE", FilterEnabled: true},
		}),
		materialListing(3, models.AttributeMap{
			"grade": {Label: "Grade", Kind: models.KindMultiSelect, Options: []string{"PET", "HDPE"}, FilterEnabled: true},
		}),
	}

	filters := DeriveFilters(listings)
	require.Len(t, filters, 1)
	assert.Equal(t, "grade", filters[0].Key)
	// options are sorted lexicographically and deduplicated
	assert.Equal(t, []string{"HDPE", "LDPE", "PET"}, filters[0].Options)
}

func TestDeriveFiltersWidensNumericBounds(t *testing.T) {
	listings := []models.Listing{
		materialListing(1, models.AttributeMap{
			"density": {Label: "Density", Kind: models.KindNumber, Number: 0.95, Unit: "g/cm3", FilterEnabled: true},
		}),
		materialListing(2, models.AttributeMap{
			"density": {Label: "Density", Kind: models.KindNumber, Number: 0.89, FilterEnabled: true},
		}),
		materialListing(3, models.AttributeMap{
			"density": {Label: "Density", Kind: models.KindNumber, Number: 1.40, FilterEnabled: true},
		}),
	}

	filters := DeriveFilters(listings)
	require.Len(t, filters, 1)
	require.NotNil(t, filters[0].Min)
	require.NotNil(t, filters[0].Max)
	assert.Equal(t, 0.89, *filters[0].Min)
	assert.Equal(t, 1.40, *filters[0].Max)
	assert.Equal(t, "g/cm3", filters[0].Unit)
}

func TestDeriveFiltersSingleObservationSeedsBothBounds(t *testing.T) {
	listings := []models.Listing{
		materialListing(1, models.AttributeMap{
			"thickness": {Label: "Thickness", Kind: models.KindRange, Number: 2.5, FilterEnabled: true},
		}),
	}

	filters := DeriveFilters(listings)
	require.Len(t, filters, 1)
	assert.Equal(t, 2.5, *filters[0].Min)
	assert.Equal(t, 2.5, *filters[0].Max)
}

func TestDeriveFiltersSkipsDisabledAndPresenceKinds(t *testing.T) {
	listings := []models.Listing{
		materialListing(1, models.AttributeMap{
			"internal": {Label: "Internal", Kind: models.KindSelect, Text: "x", FilterEnabled: false},
			"washed":   {Label: "Washed", Kind: models.KindBoolean, Flag: true, FilterEnabled: true},
			"origin":   {Label: "Origin", Kind: models.KindText, Text: "DE", FilterEnabled: true},
		}),
	}

	filters := DeriveFilters(listings)
	require.Len(t, filters, 2)

	byKey := map[string]FilterDescriptor{}
	for _, f := range filters {
		byKey[f.Key] = f
	}
	assert.NotContains(t, byKey, "internal")
	// boolean and text facets carry no option set and no bounds; the
	// consumer renders them as presence toggles
	assert.Empty(t, byKey["washed"].Options)
	assert.Nil(t, byKey["washed"].Min)
	assert.Empty(t, byKey["origin"].Options)
}

func TestDeriveFiltersDeterministicUnderReordering(t *testing.T) {
	a := materialListing(1, models.AttributeMap{
		"grade":   {Label: "Grade", Kind: models.KindSelect, Text: "HDPE", FilterEnabled: true},
		"density": {Label: "Density", Kind: models.KindNumber, Number: 0.95, FilterEnabled: true},
	})
	b := materialListing(2, models.AttributeMap{
		"grade": {Label: "Grade", Kind: models.KindSelect, Text: "LDPE", FilterEnabled: true},
	})
	c := materialListing(3, models.AttributeMap{
		"density": {Label: "Density", Kind: models.KindNumber, Number: 0.89, FilterEnabled: true},
		"certs":   {Label: "Certs", Kind: models.KindMultiSelect, Options: []string{"ISO"}, FilterEnabled: true},
	})

	orderings := [][]models.Listing{
		{a, b, c},
		{c, b, a},
		{b, c, a},
	}

	reference := DeriveFilters(orderings[0])
	for _, ordering := range orderings[1:] {
		assert.Equal(t, reference, DeriveFilters(ordering))
	}
}

func TestDeriveFiltersEmptyInput(t *testing.T) {
	assert.Empty(t, DeriveFilters(nil))
	assert.Empty(t, DeriveFilters([]models.Listing{}))
}
