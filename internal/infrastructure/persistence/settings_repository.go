package persistence

import (
	"context"
	"errors"

	"github.com/crm/backend/internal/domain/settings"
	"github.com/crm/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSettingsRepository stores the settings singleton row
type GormSettingsRepository struct {
	db *gorm.DB
}

// NewGormSettingsRepository creates a new GormSettingsRepository
func NewGormSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db}
}

// Get returns the stored settings, or the defaults when the row does not exist yet
func (r *GormSettingsRepository) Get(ctx context.Context) (*settings.AdminSettings, error) {
	var model models.AdminSettingsModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", models.SettingsRowID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return settings.Defaults(), nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save upserts the singleton row
func (r *GormSettingsRepository) Save(ctx context.Context, s *settings.AdminSettings) error {
	return r.db.WithContext(ctx).Save(models.AdminSettingsModelFromDomain(s)).Error
}

var _ settings.Repository = (*GormSettingsRepository)(nil)
