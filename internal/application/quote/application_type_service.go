package quote

import (
	"context"

	"github.com/crm/backend/internal/domain/quote"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ApplicationTypeService manages the application types offers are categorised by
type ApplicationTypeService struct {
	appTypeRepo quote.ApplicationTypeRepository
	offerRepo   quote.OfferRepository
	logger      *zap.Logger
}

// NewApplicationTypeService creates a new ApplicationTypeService
func NewApplicationTypeService(appTypeRepo quote.ApplicationTypeRepository, offerRepo quote.OfferRepository, logger *zap.Logger) *ApplicationTypeService {
	return &ApplicationTypeService{
		appTypeRepo: appTypeRepo,
		offerRepo:   offerRepo,
		logger:      logger,
	}
}

// Create creates an application type
func (s *ApplicationTypeService) Create(ctx context.Context, req ApplicationTypeRequest) (*ApplicationTypeResponse, error) {
	appType, err := quote.NewApplicationType(req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.appTypeRepo.Save(ctx, appType); err != nil {
		return nil, err
	}
	s.logger.Info("Application type created",
		zap.String("application_type_id", appType.ID.String()),
		zap.String("name", appType.Name))
	resp := ToApplicationTypeResponse(appType)
	return &resp, nil
}

// GetByID returns an application type
func (s *ApplicationTypeService) GetByID(ctx context.Context, id uuid.UUID) (*ApplicationTypeResponse, error) {
	appType, err := s.appTypeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToApplicationTypeResponse(appType)
	return &resp, nil
}

// List returns all application types ordered by name
func (s *ApplicationTypeService) List(ctx context.Context) ([]ApplicationTypeResponse, error) {
	appTypes, err := s.appTypeRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]ApplicationTypeResponse, len(appTypes))
	for i := range appTypes {
		responses[i] = ToApplicationTypeResponse(&appTypes[i])
	}
	return responses, nil
}

// Update renames or redescribes an application type
func (s *ApplicationTypeService) Update(ctx context.Context, id uuid.UUID, req ApplicationTypeRequest) (*ApplicationTypeResponse, error) {
	appType, err := s.appTypeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := appType.Update(req.Name, req.Description); err != nil {
		return nil, err
	}
	if err := s.appTypeRepo.Save(ctx, appType); err != nil {
		return nil, err
	}
	resp := ToApplicationTypeResponse(appType)
	return &resp, nil
}

// Delete removes an application type that no offer references
func (s *ApplicationTypeService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.appTypeRepo.FindByID(ctx, id); err != nil {
		return err
	}
	inUse, err := s.offerRepo.CountByApplicationType(ctx, id)
	if err != nil {
		return err
	}
	if inUse > 0 {
		return shared.NewInvalidOperationError("Application type is used by existing offers and cannot be deleted")
	}
	return s.appTypeRepo.Delete(ctx, id)
}
