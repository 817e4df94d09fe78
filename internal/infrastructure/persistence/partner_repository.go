package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/crm/backend/internal/domain/partner"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPartnerRepository implements PartnerRepository using GORM
type GormPartnerRepository struct {
	db *gorm.DB
}

// NewGormPartnerRepository creates a new GormPartnerRepository
func NewGormPartnerRepository(db *gorm.DB) *GormPartnerRepository {
	return &GormPartnerRepository{db: db}
}

// FindByID finds a partner by its ID
func (r *GormPartnerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Partner, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByCode finds a partner by its unique code
func (r *GormPartnerRepository) FindByCode(ctx context.Context, code string) (*partner.Partner, error) {
	return r.findOne(ctx, "code = ?", strings.TrimSpace(code))
}

// FindBySubject finds the partner bound to an identity-provider subject
func (r *GormPartnerRepository) FindBySubject(ctx context.Context, subject string) (*partner.Partner, error) {
	return r.findOne(ctx, "identity_subject = ?", subject)
}

func (r *GormPartnerRepository) findOne(ctx context.Context, query string, arg any) (*partner.Partner, error) {
	var model models.PartnerModel
	if err := r.db.WithContext(ctx).First(&model, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Partner")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all partners matching the filter
func (r *GormPartnerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Partner, error) {
	var partnerModels []models.PartnerModel
	query := r.db.WithContext(ctx).Model(&models.PartnerModel{})
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(code) LIKE ? OR LOWER(name) LIKE ?", pattern, pattern)
	}
	if active, ok := filter.Filters["is_active"]; ok {
		query = query.Where("is_active = ?", active)
	}
	if err := paginate(query, filter, PartnerSortFields).Find(&partnerModels).Error; err != nil {
		return nil, err
	}

	partners := make([]partner.Partner, len(partnerModels))
	for i, model := range partnerModels {
		partners[i] = *model.ToDomain()
	}
	return partners, nil
}

// ExistsByCode checks whether a partner code is taken
func (r *GormPartnerRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.PartnerModel{}).
		Where("code = ?", strings.TrimSpace(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a partner
func (r *GormPartnerRepository) Save(ctx context.Context, p *partner.Partner) error {
	return r.db.WithContext(ctx).Save(models.PartnerModelFromDomain(p)).Error
}

// Delete deletes a partner
func (r *GormPartnerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.PartnerModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Partner")
	}
	return nil
}

var _ partner.PartnerRepository = (*GormPartnerRepository)(nil)
