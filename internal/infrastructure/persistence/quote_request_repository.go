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

// GormQuoteRequestRepository implements QuoteRequestRepository using GORM
type GormQuoteRequestRepository struct {
	db *gorm.DB
}

// NewGormQuoteRequestRepository creates a new GormQuoteRequestRepository
func NewGormQuoteRequestRepository(db *gorm.DB) *GormQuoteRequestRepository {
	return &GormQuoteRequestRepository{db: db}
}

// FindByID finds a quote request by its ID
func (r *GormQuoteRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*quote.QuoteRequest, error) {
	var model models.QuoteRequestModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Quote request")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByContactID lists a contact's requests, oldest first
func (r *GormQuoteRequestRepository) FindByContactID(ctx context.Context, contactID uuid.UUID) ([]quote.QuoteRequest, error) {
	var requestModels []models.QuoteRequestModel
	if err := r.db.WithContext(ctx).
		Where("contact_id = ?", contactID).
		Order("created_at ASC").
		Find(&requestModels).Error; err != nil {
		return nil, err
	}
	return toQuoteRequests(requestModels), nil
}

// FindAll finds all quote requests matching the filter
func (r *GormQuoteRequestRepository) FindAll(ctx context.Context, filter shared.Filter) ([]quote.QuoteRequest, error) {
	var requestModels []models.QuoteRequestModel
	query := r.db.WithContext(ctx).Model(&models.QuoteRequestModel{})
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if err := paginate(query, filter, QuoteRequestSortFields).Find(&requestModels).Error; err != nil {
		return nil, err
	}
	return toQuoteRequests(requestModels), nil
}

// Save creates or updates a quote request
func (r *GormQuoteRequestRepository) Save(ctx context.Context, request *quote.QuoteRequest) error {
	return r.db.WithContext(ctx).Save(models.QuoteRequestModelFromDomain(request)).Error
}

// Delete deletes a quote request
func (r *GormQuoteRequestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.QuoteRequestModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Quote request")
	}
	return nil
}

func toQuoteRequests(requestModels []models.QuoteRequestModel) []quote.QuoteRequest {
	requests := make([]quote.QuoteRequest, len(requestModels))
	for i, model := range requestModels {
		requests[i] = *model.ToDomain()
	}
	return requests
}

var _ quote.QuoteRequestRepository = (*GormQuoteRequestRepository)(nil)
