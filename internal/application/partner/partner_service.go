package partner

import (
	"context"
	"errors"
	"strings"

	"github.com/crm/backend/internal/domain/partner"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PartnerService handles partner onboarding and maintenance
type PartnerService struct {
	partnerRepo    partner.PartnerRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewPartnerService creates a new PartnerService
func NewPartnerService(partnerRepo partner.PartnerRepository, logger *zap.Logger) *PartnerService {
	return &PartnerService{
		partnerRepo: partnerRepo,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PartnerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateOrGet returns the partner bound to the identity subject, creating it otherwise
func (s *PartnerService) CreateOrGet(ctx context.Context, req CreatePartnerRequest) (*PartnerResponse, error) {
	subject := strings.TrimSpace(req.IdentitySubject)
	if subject != "" {
		existing, err := s.partnerRepo.FindBySubject(ctx, subject)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		if existing != nil {
			resp := ToPartnerResponse(existing)
			return &resp, nil
		}
	}

	exists, err := s.partnerRepo.ExistsByCode(ctx, strings.TrimSpace(req.Code))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewInvalidOperationError("Partner code is already taken")
	}

	p, err := partner.NewPartner(req.Code, req.Name, req.Email)
	if err != nil {
		return nil, err
	}
	if subject != "" {
		p.BindIdentity(subject)
	}

	if err := s.partnerRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	s.publish(ctx, p)

	s.logger.Info("Partner created", zap.String("partner_id", p.ID.String()), zap.String("code", p.Code))
	resp := ToPartnerResponse(p)
	return &resp, nil
}

// GetByID retrieves a partner by ID
func (s *PartnerService) GetByID(ctx context.Context, id uuid.UUID) (*PartnerResponse, error) {
	p, err := s.partnerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToPartnerResponse(p)
	return &resp, nil
}

// GetByCode retrieves a partner by its code
func (s *PartnerService) GetByCode(ctx context.Context, code string) (*PartnerResponse, error) {
	p, err := s.partnerRepo.FindByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, err
	}
	resp := ToPartnerResponse(p)
	return &resp, nil
}

// List returns all partners
func (s *PartnerService) List(ctx context.Context) ([]PartnerResponse, error) {
	partners, err := s.partnerRepo.FindAll(ctx, shared.Unpaged())
	if err != nil {
		return nil, err
	}
	return ToPartnerResponses(partners), nil
}

// Update replaces a partner's fields; a changed code must still be unique
func (s *PartnerService) Update(ctx context.Context, id uuid.UUID, req UpdatePartnerRequest) (*PartnerResponse, error) {
	p, err := s.partnerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	code := strings.TrimSpace(req.Code)
	if code != p.Code {
		exists, err := s.partnerRepo.ExistsByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewInvalidOperationError("Partner code is already taken")
		}
	}

	if err := p.Update(code, req.Name, req.Email, req.IsActive); err != nil {
		return nil, err
	}
	if err := s.partnerRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	s.publish(ctx, p)

	resp := ToPartnerResponse(p)
	return &resp, nil
}

// Delete removes a partner. Contacts keep their partner code.
func (s *PartnerService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.partnerRepo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.partnerRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Partner deleted", zap.String("partner_id", id.String()))
	return nil
}

func (s *PartnerService) publish(ctx context.Context, p *partner.Partner) {
	if err := shared.PublishPending(ctx, s.eventPublisher, p); err != nil {
		s.logger.Warn("Failed to publish partner events", zap.String("partner_id", p.ID.String()), zap.Error(err))
	}
}
