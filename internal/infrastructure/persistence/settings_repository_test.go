package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crm/backend/internal/domain/settings"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormSettingsRepository_Get(t *testing.T) {
	t.Run("missing row yields defaults", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormSettingsRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "admin_settings" WHERE id = \$1`).
			WithArgs(1, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		s, err := repo.Get(context.Background())

		require.NoError(t, err)
		assert.Equal(t, settings.DefaultOfferValidityDays, s.DefaultOfferValidityDays)
		assert.True(t, s.DefaultTaxRatePercentage.Equal(decimal.NewFromInt(19)))
		assert.False(t, s.HasLedgerAPIKey())
	})

	t.Run("stored row", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormSettingsRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "admin_settings" WHERE id = \$1`).
			WithArgs(1, 1).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "default_unit_price", "default_tax_rate_percentage", "default_offer_validity_days",
				"ledger_api_key", "imprint_url", "updated_at",
			}).AddRow(1, "85.50", "7", 14, "secret-key", "https://example.com/imprint", time.Now()))

		s, err := repo.Get(context.Background())

		require.NoError(t, err)
		assert.True(t, s.DefaultUnitPrice.Equal(decimal.RequireFromString("85.50")))
		assert.Equal(t, 14, s.DefaultOfferValidityDays)
		assert.Equal(t, "secret-key", s.LedgerAPIKey)
		assert.Equal(t, "https://example.com/imprint", s.ImprintURL)
	})
}

func TestGormSettingsRepository_Save(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()
	repo := NewGormSettingsRepository(db)

	mock.ExpectExec(`UPDATE "admin_settings" SET .* WHERE "id" = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Save(context.Background(), settings.Defaults()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
