package persistence

import (
	"context"
	"errors"

	"github.com/crm/backend/internal/domain/quote"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormApplicationTypeRepository implements ApplicationTypeRepository using GORM
type GormApplicationTypeRepository struct {
	db *gorm.DB
}

// NewGormApplicationTypeRepository creates a new GormApplicationTypeRepository
func NewGormApplicationTypeRepository(db *gorm.DB) *GormApplicationTypeRepository {
	return &GormApplicationTypeRepository{db: db}
}

// FindByID finds an application type by its ID
func (r *GormApplicationTypeRepository) FindByID(ctx context.Context, id uuid.UUID) (*quote.ApplicationType, error) {
	var model models.ApplicationTypeModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Application type")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists application types sorted by name
func (r *GormApplicationTypeRepository) FindAll(ctx context.Context) ([]quote.ApplicationType, error) {
	var typeModels []models.ApplicationTypeModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&typeModels).Error; err != nil {
		return nil, err
	}
	types := make([]quote.ApplicationType, len(typeModels))
	for i, model := range typeModels {
		types[i] = *model.ToDomain()
	}
	return types, nil
}

// Save creates or updates an application type
func (r *GormApplicationTypeRepository) Save(ctx context.Context, applicationType *quote.ApplicationType) error {
	return r.db.WithContext(ctx).Save(models.ApplicationTypeModelFromDomain(applicationType)).Error
}

// Delete deletes an application type
func (r *GormApplicationTypeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ApplicationTypeModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Application type")
	}
	return nil
}

var _ quote.ApplicationTypeRepository = (*GormApplicationTypeRepository)(nil)
