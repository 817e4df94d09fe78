package valueobject

import (
	"strings"

	"github.com/crm/backend/internal/domain/shared"
	"golang.org/x/text/currency"
)

// DefaultCurrency is the currency offers fall back to
const DefaultCurrency = "EUR"

// NormalizeCurrency validates an ISO 4217 currency code.
// An empty code falls back to DefaultCurrency.
func NormalizeCurrency(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return DefaultCurrency, nil
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return "", shared.NewDomainError(shared.CodeInvalidInput, "Invalid currency code: "+code)
	}
	return unit.String(), nil
}
