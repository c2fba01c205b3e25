package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed
// fields. Sort expressions are interpolated into SQL, so everything coming
// from a request must pass through here first.
// Returns the defaultField if the input is invalid, empty, or not whitelisted.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// DivisionSortFields contains allowed sort fields for divisions
var DivisionSortFields = map[string]bool{
	"id":         true,
	"code":       true,
	"name":       true,
	"sort_order": true,
	"status":     true,
	"created_at": true,
	"updated_at": true,
}

// TransferSortFields contains allowed sort fields for transfers
var TransferSortFields = map[string]bool{
	"id":             true,
	"type":           true,
	"status":         true,
	"effective_date": true,
	"due_date":       true,
	"completed_at":   true,
	"created_at":     true,
	"updated_at":     true,
}

// HoldingSortFields contains allowed sort fields for item holdings
var HoldingSortFields = map[string]bool{
	"item_type":   true,
	"identifier":  true,
	"division_id": true,
	"updated_at":  true,
}

// OrderSortFields contains allowed sort fields for orders
var OrderSortFields = map[string]bool{
	"id":           true,
	"order_number": true,
	"type":         true,
	"priority":     true,
	"status":       true,
	"issued_at":    true,
	"completed_at": true,
	"created_at":   true,
	"updated_at":   true,
}
