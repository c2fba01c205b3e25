package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"ASC", "ASC"},
		{"asc", "ASC"},
		{" Asc ", "ASC"},
		{"DESC", "DESC"},
		{"desc", "DESC"},
		{"", "DESC"},
		{"bogus", "DESC"},
		{"ASC; DROP TABLE divisions", "DESC"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ValidateSortOrder(tt.input), "input %q", tt.input)
	}
}

func TestValidateSortField(t *testing.T) {
	t.Run("allowed field passes", func(t *testing.T) {
		got := ValidateSortField("code", DivisionSortFields, "sort_order")
		assert.Equal(t, "code", got)
	})

	t.Run("empty falls back to default", func(t *testing.T) {
		got := ValidateSortField("", DivisionSortFields, "sort_order")
		assert.Equal(t, "sort_order", got)
	})

	t.Run("unknown field falls back to default", func(t *testing.T) {
		got := ValidateSortField("secret_column", OrderSortFields, "created_at")
		assert.Equal(t, "created_at", got)
	})

	t.Run("injection attempt falls back to default", func(t *testing.T) {
		got := ValidateSortField("created_at; DELETE FROM orders", TransferSortFields, "created_at")
		assert.Equal(t, "created_at", got)
	})

	t.Run("holding fields are whitelisted", func(t *testing.T) {
		got := ValidateSortField("identifier", HoldingSortFields, "item_type")
		assert.Equal(t, "identifier", got)

		got = ValidateSortField("identifier; DELETE FROM item_holdings", HoldingSortFields, "item_type")
		assert.Equal(t, "item_type", got)
	})
}
