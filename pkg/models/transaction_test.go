package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignedQuantityAt(t *testing.T) {
	a := "A-01-1층"
	b := "B-02-1층"

	tests := []struct {
		name     string
		entry    Transaction
		location string
		expected int
	}{
		{
			name:     "Inbound credits its target",
			entry:    Transaction{Type: TransactionInbound, Quantity: 10, ToLocation: &a},
			location: a,
			expected: 10,
		},
		{
			name:     "Inbound elsewhere contributes nothing",
			entry:    Transaction{Type: TransactionInbound, Quantity: 10, ToLocation: &a},
			location: b,
			expected: 0,
		},
		{
			name:     "Outbound debits its source",
			entry:    Transaction{Type: TransactionOutbound, Quantity: 4, FromLocation: &a},
			location: a,
			expected: -4,
		},
		{
			name:     "Move debits the source side",
			entry:    Transaction{Type: TransactionMove, Quantity: 7, FromLocation: &a, ToLocation: &b},
			location: a,
			expected: -7,
		},
		{
			name:     "Move credits the target side",
			entry:    Transaction{Type: TransactionMove, Quantity: 7, FromLocation: &a, ToLocation: &b},
			location: b,
			expected: 7,
		},
		{
			name:     "Adjustment up",
			entry:    Transaction{Type: TransactionAdjustment, Quantity: 5, ToLocation: &a},
			location: a,
			expected: 5,
		},
		{
			name:     "Adjustment down",
			entry:    Transaction{Type: TransactionAdjustment, Quantity: 5, FromLocation: &a},
			location: a,
			expected: -5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.entry.SignedQuantityAt(tt.location))
		})
	}
}

func TestLocationHelpers(t *testing.T) {
	assert.Equal(t, "", LocationValue(nil))
	assert.Equal(t, "A-01-1층", LocationValue(LocationPtr("A-01-1층")))
	assert.Nil(t, LocationPtr(""))

	item := InventoryItem{Stock: 3, MinStock: 5}
	assert.True(t, item.IsShortage())
	item.Stock = 5
	assert.False(t, item.IsShortage())
	item.Stock = -1
	assert.True(t, item.IsShortage())
}
