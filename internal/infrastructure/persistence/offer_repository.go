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

// GormOfferRepository implements OfferRepository using GORM
type GormOfferRepository struct {
	db *gorm.DB
}

// NewGormOfferRepository creates a new GormOfferRepository
func NewGormOfferRepository(db *gorm.DB) *GormOfferRepository {
	return &GormOfferRepository{db: db}
}

// FindByID finds an offer by its ID
func (r *GormOfferRepository) FindByID(ctx context.Context, id uuid.UUID) (*quote.Offer, error) {
	var model models.OfferModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Offer")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all offers matching the filter
func (r *GormOfferRepository) FindAll(ctx context.Context, filter shared.Filter) ([]quote.Offer, error) {
	var offerModels []models.OfferModel
	query := r.db.WithContext(ctx).Model(&models.OfferModel{})
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "billing_status":
			query = query.Where("billing_status = ?", value)
		case "application_type_id":
			query = query.Where("application_type_id = ?", value)
		}
	}
	if err := paginate(query, filter, OfferSortFields).Find(&offerModels).Error; err != nil {
		return nil, err
	}
	return toOffers(offerModels), nil
}

// FindByQuoteRequestID lists the offers anchored on a request
func (r *GormOfferRepository) FindByQuoteRequestID(ctx context.Context, quoteRequestID uuid.UUID) ([]quote.Offer, error) {
	var offerModels []models.OfferModel
	if err := r.db.WithContext(ctx).
		Where("quote_request_id = ?", quoteRequestID).
		Order("created_at ASC").
		Find(&offerModels).Error; err != nil {
		return nil, err
	}
	return toOffers(offerModels), nil
}

// FindByLedgerQuoteID finds the offer mirroring a remote quotation
func (r *GormOfferRepository) FindByLedgerQuoteID(ctx context.Context, ledgerQuoteID string) (*quote.Offer, error) {
	var model models.OfferModel
	if err := r.db.WithContext(ctx).First(&model, "ledger_quote_id = ?", ledgerQuoteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Offer")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindWithLedgerQuote lists every offer that currently carries a remote quotation id
func (r *GormOfferRepository) FindWithLedgerQuote(ctx context.Context) ([]quote.Offer, error) {
	var offerModels []models.OfferModel
	if err := r.db.WithContext(ctx).
		Where("ledger_quote_id IS NOT NULL AND ledger_quote_id <> ''").
		Order("created_at ASC").
		Find(&offerModels).Error; err != nil {
		return nil, err
	}
	return toOffers(offerModels), nil
}

// CountByApplicationType counts offers referencing an application type
func (r *GormOfferRepository) CountByApplicationType(ctx context.Context, applicationTypeID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.OfferModel{}).
		Where("application_type_id = ?", applicationTypeID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an offer
func (r *GormOfferRepository) Save(ctx context.Context, offer *quote.Offer) error {
	return r.db.WithContext(ctx).Save(models.OfferModelFromDomain(offer)).Error
}

// Delete deletes an offer
func (r *GormOfferRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.OfferModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Offer")
	}
	return nil
}

func toOffers(offerModels []models.OfferModel) []quote.Offer {
	offers := make([]quote.Offer, len(offerModels))
	for i, model := range offerModels {
		offers[i] = *model.ToDomain()
	}
	return offers
}

var _ quote.OfferRepository = (*GormOfferRepository)(nil)
