package persistence

import (
	"strings"

	"github.com/crm/backend/internal/domain/shared"
	"gorm.io/gorm"
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

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
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

// CommonSortFields contains fields common to every table
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// ContactSortFields contains allowed sort fields for contacts
var ContactSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"email":          true,
	"first_name":     true,
	"last_name":      true,
	"company_name":   true,
	"partner_code":   true,
	"billing_status": true,
}

// PartnerSortFields contains allowed sort fields for partners
var PartnerSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
	"email":      true,
	"is_active":  true,
}

// QuoteRequestSortFields contains allowed sort fields for quote requests
var QuoteRequestSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"status":     true,
	"contact_id": true,
}

// OfferSortFields contains allowed sort fields for offers
var OfferSortFields = map[string]bool{
	"id":                  true,
	"created_at":          true,
	"updated_at":          true,
	"title":               true,
	"status":              true,
	"billing_status":      true,
	"valid_until":         true,
	"ledger_quote_number": true,
}

// paginate applies the validated ordering and the page window of filter.
// An unset page size lists everything.
func paginate(query *gorm.DB, filter shared.Filter, allowed map[string]bool) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, allowed, "created_at")
	query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))

	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

// likePattern builds a case-insensitive LIKE pattern portable across postgres and sqlite
func likePattern(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}
