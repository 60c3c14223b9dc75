package service

import (
	"strings"
	"testing"

	"marketplace-service/internal/apperr"
	"marketplace-service/internal/models"

	"github.com/stretchr/testify/assert"
)

func validInput() *CreateRequestInput {
	return &CreateRequestInput{
		BuyerName:         "Jordan Smith",
		BuyerEmail:        "jordan@example.com",
		CompanyName:       "Acme Recycling",
		MaterialID:        1,
		RequestedQuantity: 50,
	}
}

func TestValidateCreateInputRequiredFields(t *testing.T) {
	input := validInput()
	assert.NoError(t, validateCreateInput(input))

	missing := validInput()
	missing.BuyerName = ""
	assert.True(t, apperr.IsValidation(validateCreateInput(missing)))

	missing = validInput()
	missing.CompanyName = ""
	assert.True(t, apperr.IsValidation(validateCreateInput(missing)))

	missing = validInput()
	missing.MaterialID = 0
	assert.True(t, apperr.IsValidation(validateCreateInput(missing)))
}

func TestValidateCreateInputContactMethod(t *testing.T) {
	// mobile alone is enough
	input := validInput()
	input.BuyerEmail = ""
	input.BuyerMobile = "+4915112345678"
	assert.NoError(t, validateCreateInput(input))

	// both absent is always rejected
	input = validInput()
	input.BuyerEmail = ""
	input.BuyerMobile = ""
	err := validateCreateInput(input)
	assert.True(t, apperr.IsValidation(err))
	assert.Contains(t, err.Error(), "contact method")
}

func TestValidateQuantityMOQ(t *testing.T) {
	listing := &models.Listing{
		Kind:                 models.ListingKindMaterial,
		AvailableQuantity:    100,
		MinimumOrderQuantity: 10,
	}

	input := validInput()
	input.RequestedQuantity = 9
	assert.True(t, apperr.IsValidation(validateQuantity(input, listing)))

	input.RequestedQuantity = 10
	assert.NoError(t, validateQuantity(input, listing))
}

func TestValidateQuantityAgainstAvailableStock(t *testing.T) {
	listing := &models.Listing{
		Kind:                 models.ListingKindMaterial,
		AvailableQuantity:    40,
		MinimumOrderQuantity: 10,
	}

	input := validInput()
	input.RequestedQuantity = 41
	assert.True(t, apperr.IsValidation(validateQuantity(input, listing)))

	input.RequestedQuantity = 40
	assert.NoError(t, validateQuantity(input, listing))
}

func TestValidateQuantitySkippedForNonMaterial(t *testing.T) {
	listing := &models.Listing{Kind: models.ListingKindMachine}

	input := validInput()
	input.RequestedQuantity = 0
	assert.NoError(t, validateQuantity(input, listing))
}

func TestGenerateCodes(t *testing.T) {
	code := GenerateListingCode("plastics")
	assert.True(t, strings.HasPrefix(code, "PLASTICS-"))

	code = GenerateListingCode("")
	assert.True(t, strings.HasPrefix(code, "LST-"))

	reqCode := GenerateRequestCode()
	assert.True(t, strings.HasPrefix(reqCode, "REQ-"))
	assert.Len(t, strings.Split(reqCode, "-"), 3)
}
