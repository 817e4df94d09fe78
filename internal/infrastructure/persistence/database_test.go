package persistence

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/crm/backend/internal/domain/contact"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/crm/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestDialectorFor(t *testing.T) {
	tests := []struct {
		name    string
		driver  string
		want    string
		wantErr bool
	}{
		{"empty driver means postgres", "", "postgres", false},
		{"postgres", config.DriverPostgres, "postgres", false},
		{"sqlite", config.DriverSQLite, "sqlite", false},
		{"unsupported", "mysql", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := dialectorFor(&config.DatabaseConfig{Driver: tt.driver, SQLitePath: "crm.db"})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Name())
		})
	}
}

func TestNewDatabase_SQLite(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Driver:          config.DriverSQLite,
		SQLitePath:      filepath.Join(t.TempDir(), "crm.db"),
		ConnMaxLifetime: 5,
	}

	db, err := NewDatabase(cfg)
	require.NoError(t, err)
	defer db.Close()

	assert.NoError(t, db.Ping(context.Background()))
	assert.Equal(t, 1, db.SQL().Stats().MaxOpenConnections)

	require.NoError(t, db.AutoMigrate())
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Exec("INSERT INTO application_types (id, created_at, updated_at, version, name) VALUES ('00000000-0000-0000-0000-000000000001', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP, 1, 'Web App')").Error
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.DB.Model(&models.ApplicationTypeModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestNewDatabase_SQLiteContactEmailUnique(t *testing.T) {
	db, err := NewDatabase(&config.DatabaseConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "crm.db"),
	})
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.AutoMigrate())

	ctx := context.Background()
	repo := NewGormContactRepository(db.DB)
	first, err := contact.NewContact(contact.Details{FirstName: "Erika", LastName: "Muster", Email: "erika@example.com"})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, first))

	second, err := contact.NewContact(contact.Details{FirstName: "Erika", LastName: "Muster", Email: "Erika@Example.com"})
	require.NoError(t, err)
	err = repo.Save(ctx, second)

	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	found, err := repo.FindByEmail(ctx, "ERIKA@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)
}
