package quote

import (
	"context"
	"errors"

	"github.com/crm/backend/internal/domain/contact"
	"github.com/crm/backend/internal/domain/quote"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// QuoteRequestService handles quote request creation and status transitions
type QuoteRequestService struct {
	requestRepo    quote.QuoteRequestRepository
	offerRepo      quote.OfferRepository
	contactRepo    contact.ContactRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewQuoteRequestService creates a new QuoteRequestService
func NewQuoteRequestService(
	requestRepo quote.QuoteRequestRepository,
	offerRepo quote.OfferRepository,
	contactRepo contact.ContactRepository,
	logger *zap.Logger,
) *QuoteRequestService {
	return &QuoteRequestService{
		requestRepo: requestRepo,
		offerRepo:   offerRepo,
		contactRepo: contactRepo,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *QuoteRequestService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create stores a new quote request for an existing contact
func (s *QuoteRequestService) Create(ctx context.Context, req CreateQuoteRequestRequest) (*QuoteRequestResponse, error) {
	c, err := s.contactRepo.FindByID(ctx, req.ContactID)
	if err != nil {
		return nil, err
	}

	r, err := quote.NewQuoteRequest(c.ID, req.Requirements)
	if err != nil {
		return nil, err
	}
	if err := s.requestRepo.Save(ctx, r); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.eventPublisher, s.logger, r)

	s.logger.Info("Quote request created",
		zap.String("quote_request_id", r.ID.String()),
		zap.String("contact_id", c.ID.String()))
	resp := ToQuoteRequestResponse(r, c, nil)
	return &resp, nil
}

// GetByID returns a quote request with its contact and offers
func (s *QuoteRequestService) GetByID(ctx context.Context, id uuid.UUID) (*QuoteRequestResponse, error) {
	r, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.project(ctx, r)
}

// List returns all quote requests
func (s *QuoteRequestService) List(ctx context.Context) ([]QuoteRequestResponse, error) {
	requests, err := s.requestRepo.FindAll(ctx, shared.Unpaged())
	if err != nil {
		return nil, err
	}
	return s.projectAll(ctx, requests)
}

// ListByContact returns the quote requests of a contact
func (s *QuoteRequestService) ListByContact(ctx context.Context, contactID uuid.UUID) ([]QuoteRequestResponse, error) {
	if _, err := s.contactRepo.FindByID(ctx, contactID); err != nil {
		return nil, err
	}
	requests, err := s.requestRepo.FindByContactID(ctx, contactID)
	if err != nil {
		return nil, err
	}
	return s.projectAll(ctx, requests)
}

// UpdateStatus applies the request status rule. QuoteCreated needs an existing
// offer of this request; every other status clears the selection.
func (s *QuoteRequestService) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateRequestStatusRequest) (*QuoteRequestResponse, error) {
	status, err := quote.ParseRequestStatus(req.Status)
	if err != nil {
		return nil, err
	}
	r, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var selected *quote.Offer
	if status == quote.RequestStatusQuoteCreated && req.SelectedOfferID != nil {
		selected, err = s.offerRepo.FindByID(ctx, *req.SelectedOfferID)
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewInvalidOperationError("The selected offer does not exist")
		}
		if err != nil {
			return nil, err
		}
	}

	if err := r.ChangeStatus(status, selected); err != nil {
		return nil, err
	}
	if err := s.requestRepo.Save(ctx, r); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.eventPublisher, s.logger, r)

	reloaded, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.project(ctx, reloaded)
}

// Delete removes a quote request
func (s *QuoteRequestService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.requestRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.requestRepo.Delete(ctx, id)
}

func (s *QuoteRequestService) project(ctx context.Context, r *quote.QuoteRequest) (*QuoteRequestResponse, error) {
	c, err := s.contactRepo.FindByID(ctx, r.ContactID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	offers, err := s.offerRepo.FindByQuoteRequestID(ctx, r.ID)
	if err != nil {
		return nil, err
	}
	resp := ToQuoteRequestResponse(r, c, offers)
	return &resp, nil
}

func (s *QuoteRequestService) projectAll(ctx context.Context, requests []quote.QuoteRequest) ([]QuoteRequestResponse, error) {
	responses := make([]QuoteRequestResponse, 0, len(requests))
	for i := range requests {
		resp, err := s.project(ctx, &requests[i])
		if err != nil {
			return nil, err
		}
		responses = append(responses, *resp)
	}
	return responses, nil
}

// publishEvents publishes an aggregate's pending events, logging failures
func publishEvents(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger, aggregate shared.AggregateRoot) {
	if err := shared.PublishPending(ctx, publisher, aggregate); err != nil {
		logger.Warn("Failed to publish domain events",
			zap.String("aggregate_id", aggregate.GetID().String()),
			zap.Error(err))
	}
}
