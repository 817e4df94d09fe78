package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/crm/backend/internal/domain/contact"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormContactRepository implements ContactRepository using GORM
type GormContactRepository struct {
	db *gorm.DB
}

// NewGormContactRepository creates a new GormContactRepository
func NewGormContactRepository(db *gorm.DB) *GormContactRepository {
	return &GormContactRepository{db: db}
}

// FindByID finds a contact by its ID
func (r *GormContactRepository) FindByID(ctx context.Context, id uuid.UUID) (*contact.Contact, error) {
	var model models.ContactModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Contact")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByEmail finds a contact by e-mail, case-insensitively
func (r *GormContactRepository) FindByEmail(ctx context.Context, email string) (*contact.Contact, error) {
	var model models.ContactModel
	if err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		Order("created_at ASC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Contact")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByPartnerCode finds all contacts referred by a partner
func (r *GormContactRepository) FindByPartnerCode(ctx context.Context, partnerCode string) ([]contact.Contact, error) {
	var contactModels []models.ContactModel
	if err := r.db.WithContext(ctx).
		Where("partner_code = ?", strings.TrimSpace(partnerCode)).
		Order("created_at ASC").
		Find(&contactModels).Error; err != nil {
		return nil, err
	}
	return toContacts(contactModels), nil
}

// FindAll finds all contacts matching the filter
func (r *GormContactRepository) FindAll(ctx context.Context, filter shared.Filter) ([]contact.Contact, error) {
	var contactModels []models.ContactModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ContactModel{}), filter)
	if err := paginate(query, filter, ContactSortFields).Find(&contactModels).Error; err != nil {
		return nil, err
	}
	return toContacts(contactModels), nil
}

// Count counts contacts matching the filter
func (r *GormContactRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ContactModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a contact. A unique index violation, such as a taken
// e-mail address, is reported as ALREADY_EXISTS.
func (r *GormContactRepository) Save(ctx context.Context, c *contact.Contact) error {
	err := r.db.WithContext(ctx).Save(models.ContactModelFromDomain(c)).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.WrapDomainError(shared.CodeAlreadyExists, "Contact already exists", err)
	}
	return err
}

// Delete deletes a contact
func (r *GormContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ContactModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Contact")
	}
	return nil
}

// applyFilter applies search and field filters without pagination
func (r *GormContactRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where(
			"LOWER(email) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(company_name) LIKE ?",
			pattern, pattern, pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "billing_status":
			query = query.Where("billing_status = ?", value)
		case "partner_code":
			query = query.Where("partner_code = ?", value)
		}
	}
	return query
}

func toContacts(contactModels []models.ContactModel) []contact.Contact {
	contacts := make([]contact.Contact, len(contactModels))
	for i, model := range contactModels {
		contacts[i] = *model.ToDomain()
	}
	return contacts
}

var _ contact.ContactRepository = (*GormContactRepository)(nil)
