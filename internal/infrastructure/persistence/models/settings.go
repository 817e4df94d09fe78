package models

import (
	"time"

	"github.com/crm/backend/internal/domain/settings"
	"github.com/shopspring/decimal"
)

// SettingsRowID is the primary key of the single settings row
const SettingsRowID = 1

// AdminSettingsModel is the persistence model for the settings singleton
type AdminSettingsModel struct {
	ID                       int             `gorm:"primaryKey;autoIncrement:false"`
	DefaultUnitPrice         decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	DefaultTaxRatePercentage decimal.Decimal `gorm:"type:decimal(5,2);not null;default:19"`
	DefaultOfferValidityDays int             `gorm:"not null;default:30"`
	LedgerAPIKey             string          `gorm:"type:text"`
	PrivacyPolicyURL         string          `gorm:"type:text"`
	TermsURL                 string          `gorm:"type:text"`
	DataProcessingURL        string          `gorm:"type:text"`
	ImprintURL               string          `gorm:"type:text"`
	UpdatedAt                time.Time
}

// TableName returns the table name for GORM
func (AdminSettingsModel) TableName() string {
	return "admin_settings"
}

// ToDomain converts the model to domain AdminSettings
func (m *AdminSettingsModel) ToDomain() *settings.AdminSettings {
	return &settings.AdminSettings{
		DefaultUnitPrice:         m.DefaultUnitPrice,
		DefaultTaxRatePercentage: m.DefaultTaxRatePercentage,
		DefaultOfferValidityDays: m.DefaultOfferValidityDays,
		LedgerAPIKey:             m.LedgerAPIKey,
		PrivacyPolicyURL:         m.PrivacyPolicyURL,
		TermsURL:                 m.TermsURL,
		DataProcessingURL:        m.DataProcessingURL,
		ImprintURL:               m.ImprintURL,
		UpdatedAt:                m.UpdatedAt,
	}
}

// AdminSettingsModelFromDomain creates the singleton row from domain settings
func AdminSettingsModelFromDomain(s *settings.AdminSettings) *AdminSettingsModel {
	return &AdminSettingsModel{
		ID:                       SettingsRowID,
		DefaultUnitPrice:         s.DefaultUnitPrice,
		DefaultTaxRatePercentage: s.DefaultTaxRatePercentage,
		DefaultOfferValidityDays: s.DefaultOfferValidityDays,
		LedgerAPIKey:             s.LedgerAPIKey,
		PrivacyPolicyURL:         s.PrivacyPolicyURL,
		TermsURL:                 s.TermsURL,
		DataProcessingURL:        s.DataProcessingURL,
		ImprintURL:               s.ImprintURL,
		UpdatedAt:                s.UpdatedAt,
	}
}
