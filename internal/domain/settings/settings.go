// Package settings holds the singleton admin settings.
package settings

import (
	"context"
	"strings"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Defaults used when nothing is stored yet
const (
	DefaultOfferValidityDays = 30
)

// DefaultTaxRatePercentage is the tax rate suggested for new line items
var DefaultTaxRatePercentage = decimal.NewFromInt(19)

// AdminSettings are the global settings edited by administrators
type AdminSettings struct {
	DefaultUnitPrice         decimal.Decimal
	DefaultTaxRatePercentage decimal.Decimal
	DefaultOfferValidityDays int
	LedgerAPIKey             string
	PrivacyPolicyURL         string
	TermsURL                 string
	DataProcessingURL        string
	ImprintURL               string
	UpdatedAt                time.Time
}

// Defaults returns the settings used before an administrator saved any
func Defaults() *AdminSettings {
	return &AdminSettings{
		DefaultUnitPrice:         decimal.Zero,
		DefaultTaxRatePercentage: DefaultTaxRatePercentage,
		DefaultOfferValidityDays: DefaultOfferValidityDays,
	}
}

// Changes is an update request for the settings
type Changes struct {
	DefaultUnitPrice         decimal.Decimal
	DefaultTaxRatePercentage decimal.Decimal
	DefaultOfferValidityDays int
	LedgerAPIKey             string
	PrivacyPolicyURL         string
	TermsURL                 string
	DataProcessingURL        string
	ImprintURL               string
}

// Apply overwrites the settings. The ledger API key is only replaced when a
// non-blank value is supplied.
// It reports whether the API key changed.
func (s *AdminSettings) Apply(c Changes) (bool, error) {
	if c.DefaultUnitPrice.IsNegative() {
		return false, shared.NewDomainError(shared.CodeInvalidInput, "Default unit price cannot be negative")
	}
	if c.DefaultTaxRatePercentage.IsNegative() || c.DefaultTaxRatePercentage.GreaterThan(decimal.NewFromInt(100)) {
		return false, shared.NewDomainError(shared.CodeInvalidInput, "Default tax rate must be between 0 and 100")
	}
	if c.DefaultOfferValidityDays < 0 {
		return false, shared.NewDomainError(shared.CodeInvalidInput, "Offer validity cannot be negative")
	}

	s.DefaultUnitPrice = c.DefaultUnitPrice
	s.DefaultTaxRatePercentage = c.DefaultTaxRatePercentage
	s.DefaultOfferValidityDays = c.DefaultOfferValidityDays
	if s.DefaultOfferValidityDays == 0 {
		s.DefaultOfferValidityDays = DefaultOfferValidityDays
	}
	s.PrivacyPolicyURL = strings.TrimSpace(c.PrivacyPolicyURL)
	s.TermsURL = strings.TrimSpace(c.TermsURL)
	s.DataProcessingURL = strings.TrimSpace(c.DataProcessingURL)
	s.ImprintURL = strings.TrimSpace(c.ImprintURL)
	s.UpdatedAt = time.Now()

	key := strings.TrimSpace(c.LedgerAPIKey)
	if key == "" || key == s.LedgerAPIKey {
		return false, nil
	}
	s.LedgerAPIKey = key
	return true, nil
}

// HasLedgerAPIKey reports whether an API key is stored
func (s *AdminSettings) HasLedgerAPIKey() bool {
	return s.LedgerAPIKey != ""
}

// Repository stores the settings singleton
type Repository interface {
	// Get returns the stored settings, or Defaults when none exist
	Get(ctx context.Context) (*AdminSettings, error)
	Save(ctx context.Context, settings *AdminSettings) error
}
