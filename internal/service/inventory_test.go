package service

import (
	"context"
	"testing"

	"marketplace-service/internal/apperr"

	"github.com/stretchr/testify/assert"
)

func TestAdjustRejectsNegativeAmount(t *testing.T) {
	ledger := NewInventoryLedger(nil, nil, nil)

	_, err := ledger.Adjust(context.Background(), 1, "add", -5)

	assert.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
}

func TestDeductNeverClampsShortStock(t *testing.T) {
	t.Skip("Integration test - requires database")

	// With 10 available, a deduct of 12 must fail and leave the counter at
	// 10; a partial deduct to zero would corrupt the ledger.
}
