package settings

import (
	"time"

	"github.com/crm/backend/internal/domain/settings"
	"github.com/shopspring/decimal"
)

// UpdateSettingsRequest replaces the admin settings.
// A blank LedgerAPIKey keeps the stored key.
type UpdateSettingsRequest struct {
	DefaultUnitPrice         decimal.Decimal `json:"default_unit_price" binding:"gte=0"`
	DefaultTaxRatePercentage decimal.Decimal `json:"default_tax_rate_percentage" binding:"gte=0,lte=100"`
	DefaultOfferValidityDays int             `json:"default_offer_validity_days" binding:"min=0,max=3650"`
	LedgerAPIKey             string          `json:"ledger_api_key"`
	PrivacyPolicyURL         string          `json:"privacy_policy_url" binding:"omitempty,url"`
	TermsURL                 string          `json:"terms_url" binding:"omitempty,url"`
	DataProcessingURL        string          `json:"data_processing_url" binding:"omitempty,url"`
	ImprintURL               string          `json:"imprint_url" binding:"omitempty,url"`
}

func (r UpdateSettingsRequest) toChanges() settings.Changes {
	return settings.Changes(r)
}

// SettingsResponse represents the admin settings. The API key itself is never returned.
type SettingsResponse struct {
	DefaultUnitPrice         decimal.Decimal `json:"default_unit_price"`
	DefaultTaxRatePercentage decimal.Decimal `json:"default_tax_rate_percentage"`
	DefaultOfferValidityDays int             `json:"default_offer_validity_days"`
	LedgerConfigured         bool            `json:"ledger_configured"`
	LedgerAPIKeyHint         string          `json:"ledger_api_key_hint,omitempty"`
	PrivacyPolicyURL         string          `json:"privacy_policy_url,omitempty"`
	TermsURL                 string          `json:"terms_url,omitempty"`
	DataProcessingURL        string          `json:"data_processing_url,omitempty"`
	ImprintURL               string          `json:"imprint_url,omitempty"`
	UpdatedAt                *time.Time      `json:"updated_at,omitempty"`
}

// LegalLinksResponse holds the public legal URLs shown by intake forms
type LegalLinksResponse struct {
	PrivacyPolicyURL  string `json:"privacy_policy_url,omitempty"`
	TermsURL          string `json:"terms_url,omitempty"`
	DataProcessingURL string `json:"data_processing_url,omitempty"`
	ImprintURL        string `json:"imprint_url,omitempty"`
}

// ToSettingsResponse converts AdminSettings
func ToSettingsResponse(s *settings.AdminSettings) SettingsResponse {
	resp := SettingsResponse{
		DefaultUnitPrice:         s.DefaultUnitPrice,
		DefaultTaxRatePercentage: s.DefaultTaxRatePercentage,
		DefaultOfferValidityDays: s.DefaultOfferValidityDays,
		LedgerConfigured:         s.HasLedgerAPIKey(),
		LedgerAPIKeyHint:         keyHint(s.LedgerAPIKey),
		PrivacyPolicyURL:         s.PrivacyPolicyURL,
		TermsURL:                 s.TermsURL,
		DataProcessingURL:        s.DataProcessingURL,
		ImprintURL:               s.ImprintURL,
	}
	if !s.UpdatedAt.IsZero() {
		updated := s.UpdatedAt
		resp.UpdatedAt = &updated
	}
	return resp
}

// keyHint shows the last four characters of a key
func keyHint(key string) string {
	if len(key) <= 4 {
		return ""
	}
	return "****" + key[len(key)-4:]
}
