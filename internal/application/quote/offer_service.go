package quote

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/crm/backend/internal/domain/billing"
	"github.com/crm/backend/internal/domain/contact"
	"github.com/crm/backend/internal/domain/integration"
	"github.com/crm/backend/internal/domain/quote"
	"github.com/crm/backend/internal/domain/settings"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreationLock serializes offer creation per quote request.
// Acquire returns false when another creation holds the request.
type CreationLock interface {
	Acquire(ctx context.Context, quoteRequestID uuid.UUID) (bool, error)
	Release(ctx context.Context, quoteRequestID uuid.UUID) error
}

// OfferService owns offers: creation in the ledger, edits, status changes and reconciliation
type OfferService struct {
	offerRepo      quote.OfferRepository
	requestRepo    quote.QuoteRequestRepository
	contactRepo    contact.ContactRepository
	appTypeRepo    quote.ApplicationTypeRepository
	ledger         integration.LedgerClient
	lock           CreationLock
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewOfferService creates a new OfferService. lock may be nil.
func NewOfferService(
	offerRepo quote.OfferRepository,
	requestRepo quote.QuoteRequestRepository,
	contactRepo contact.ContactRepository,
	appTypeRepo quote.ApplicationTypeRepository,
	ledger integration.LedgerClient,
	lock CreationLock,
	logger *zap.Logger,
) *OfferService {
	return &OfferService{
		offerRepo:   offerRepo,
		requestRepo: requestRepo,
		contactRepo: contactRepo,
		appTypeRepo: appTypeRepo,
		ledger:      ledger,
		lock:        lock,
		logger:      logger,
		now:         time.Now,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *OfferService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates an offer and its quotation in the ledger.
//
// All quote requests must belong to one contact that already exists in the ledger.
// The local draft is stored before the ledger call and removed again if the call
// fails, so a failed create leaves no offer behind.
func (s *OfferService) Create(ctx context.Context, req CreateOfferRequest) (*OfferResponse, error) {
	ids := uniqueIDs(req.QuoteRequestIDs)
	if len(ids) == 0 {
		return nil, shared.NewInvalidOperationError("At least one quote request is required")
	}

	release, err := s.acquire(ctx, ids)
	if err != nil {
		return nil, err
	}
	defer release()

	requests := make([]*quote.QuoteRequest, 0, len(ids))
	for _, id := range ids {
		r, err := s.requestRepo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if len(requests) > 0 && r.ContactID != requests[0].ContactID {
			return nil, shared.NewInvalidOperationError("All quote requests must belong to the same contact")
		}
		requests = append(requests, r)
	}

	c, err := s.contactRepo.FindByID(ctx, requests[0].ContactID)
	if err != nil {
		return nil, err
	}
	if !c.HasLedgerLink() {
		return nil, shared.NewInvalidOperationError("Contact must exist in the ledger system before a quote can be created")
	}
	for _, r := range requests {
		if r.HasSelection() {
			s.logger.Warn("Quote request already has a selected offer",
				zap.String("quote_request_id", r.ID.String()),
				zap.String("selected_offer_id", r.SelectedOfferID.String()))
		}
	}

	var appTypeName string
	if req.ApplicationTypeID != nil {
		appType, err := s.appTypeRepo.FindByID(ctx, *req.ApplicationTypeID)
		if err != nil {
			return nil, err
		}
		appTypeName = appType.Name
	}

	items := make([]quote.LineItem, 0, len(req.LineItems))
	for _, in := range req.LineItems {
		item, err := in.toLineItem().Normalize()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	now := s.now()
	validUntil := now.AddDate(0, 0, settings.DefaultOfferValidityDays)
	if req.ValidUntil != nil {
		validUntil = *req.ValidUntil
	}

	offer, err := quote.NewOffer(quote.Draft{
		QuoteRequestID:    requests[0].ID,
		ApplicationTypeID: req.ApplicationTypeID,
		Title:             quote.DeriveTitle(appTypeName, items, req.Title),
		Description:       req.Description,
		Currency:          req.Currency,
		ValidUntil:        validUntil,
		Days:              quote.TotalDays(items),
	})
	if err != nil {
		return nil, err
	}
	if err := s.offerRepo.Save(ctx, offer); err != nil {
		return nil, err
	}

	ledgerQuoteID, err := s.createRemoteQuote(ctx, *c.LedgerContactID, offer, items)
	if err != nil {
		s.discardDraft(ctx, offer, err)
		return nil, shared.WrapDomainError(shared.CodeInvalidOperation,
			fmt.Sprintf("Failed to create quote in the ledger system: %v", err), err)
	}

	if err := offer.AttachQuotation(ledgerQuoteID, now); err != nil {
		return nil, err
	}
	s.fillQuotationDetails(ctx, offer)
	if err := s.saveAttached(ctx, offer); err != nil {
		// the orphaned quotation comes back through LoadFromLedger for the contact
		s.logger.Error("Ledger quotation created but offer could not be saved",
			zap.String("offer_id", offer.ID.String()),
			zap.String("contact_id", c.ID.String()),
			zap.String("ledger_quote_id", ledgerQuoteID),
			zap.Error(err))
		s.discardDraft(ctx, offer, err)
		return nil, fmt.Errorf("save offer for ledger quotation %s: %w", ledgerQuoteID, err)
	}
	publishEvents(ctx, s.eventPublisher, s.logger, offer)

	for _, r := range requests {
		if !r.MarkQuoteCreated(offer.ID) {
			continue
		}
		if err := s.requestRepo.Save(ctx, r); err != nil {
			s.logger.Error("Failed to advance quote request after offer creation",
				zap.String("quote_request_id", r.ID.String()),
				zap.String("offer_id", offer.ID.String()),
				zap.Error(err))
			continue
		}
		publishEvents(ctx, s.eventPublisher, s.logger, r)
	}

	s.logger.Info("Offer created",
		zap.String("offer_id", offer.ID.String()),
		zap.String("ledger_quote_id", ledgerQuoteID),
		zap.String("ledger_quote_number", offer.Ledger.Number))
	resp := s.toResponse(ctx, offer)
	return &resp, nil
}

func (s *OfferService) createRemoteQuote(ctx context.Context, ledgerContactID string, offer *quote.Offer, items []quote.LineItem) (string, error) {
	if s.ledger == nil || s.ledger.APIKey(ctx) == "" {
		return "", integration.ErrLedgerNotConfigured
	}
	draft := integration.QuoteDraft{
		ContactID:  ledgerContactID,
		Currency:   offer.Currency,
		ValidUntil: offer.ValidUntil,
		Title:      offer.Title,
		LineItems:  make([]integration.QuoteLineItem, len(items)),
	}
	for i, item := range items {
		draft.LineItems[i] = integration.QuoteLineItem{
			ArticleID:         item.ArticleID,
			Type:              item.Type,
			Name:              item.Name,
			Description:       item.Description,
			Quantity:          item.Quantity,
			UnitName:          item.UnitName,
			UnitPrice:         item.UnitPrice,
			TaxRatePercentage: item.TaxRatePercentage,
		}
	}

	id, err := s.ledger.CreateQuote(ctx, draft)
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", fmt.Errorf("%w: no quotation id returned", integration.ErrLedgerInvalidResponse)
	}
	return id, nil
}

// fillQuotationDetails reads number and link of a fresh quotation, best effort
func (s *OfferService) fillQuotationDetails(ctx context.Context, offer *quote.Offer) {
	remote, err := s.ledger.GetQuote(ctx, offer.Ledger.ID)
	if err != nil {
		s.logger.Warn("Failed to read created ledger quotation",
			zap.String("offer_id", offer.ID.String()),
			zap.String("ledger_quote_id", offer.Ledger.ID),
			zap.Error(err))
	}
	if remote != nil {
		offer.SetQuotationDetails(remote.Number, remote.Link)
		if remote.Link != "" {
			return
		}
	}
	link, err := s.ledger.GetQuoteLink(ctx, offer.Ledger.ID)
	if err != nil {
		s.logger.Warn("Failed to read ledger quotation link",
			zap.String("ledger_quote_id", offer.Ledger.ID),
			zap.Error(err))
		return
	}
	offer.SetQuotationDetails("", link)
}

// saveAttached stores the offer once its quotation exists, retrying a failed write once
func (s *OfferService) saveAttached(ctx context.Context, offer *quote.Offer) error {
	err := s.offerRepo.Save(ctx, offer)
	if err == nil || ctx.Err() != nil {
		return err
	}
	s.logger.Warn("Failed to save offer with ledger quotation, retrying",
		zap.String("offer_id", offer.ID.String()),
		zap.Error(err))
	return s.offerRepo.Save(ctx, offer)
}

func (s *OfferService) discardDraft(ctx context.Context, offer *quote.Offer, cause error) {
	s.logger.Error("Discarding draft offer",
		zap.String("offer_id", offer.ID.String()),
		zap.Error(cause))
	if err := s.offerRepo.Delete(ctx, offer.ID); err != nil {
		s.logger.Error("Failed to delete draft offer",
			zap.String("offer_id", offer.ID.String()),
			zap.Error(err))
	}
}

// acquire locks every quote request; the returned func releases them
func (s *OfferService) acquire(ctx context.Context, ids []uuid.UUID) (func(), error) {
	if s.lock == nil {
		return func() {}, nil
	}
	held := make([]uuid.UUID, 0, len(ids))
	release := func() {
		for _, id := range held {
			if err := s.lock.Release(context.WithoutCancel(ctx), id); err != nil {
				s.logger.Warn("Failed to release offer creation lock",
					zap.String("quote_request_id", id.String()),
					zap.Error(err))
			}
		}
	}
	for _, id := range lockOrder(ids) {
		ok, err := s.lock.Acquire(ctx, id)
		if err != nil {
			release()
			return nil, err
		}
		if !ok {
			release()
			return nil, shared.NewInvalidOperationError(
				fmt.Sprintf("An offer is already being created for quote request %s", id))
		}
		held = append(held, id)
	}
	return release, nil
}

// GetByID returns an offer with its line items read live from the ledger
func (s *OfferService) GetByID(ctx context.Context, id uuid.UUID) (*OfferResponse, error) {
	offer, err := s.offerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := s.toResponse(ctx, offer)

	if offer.Ledger.IsLinked() && s.ledgerConfigured(ctx) {
		remote, err := s.ledger.GetQuote(ctx, offer.Ledger.ID)
		if err != nil {
			s.logger.Warn("Failed to load ledger line items",
				zap.String("offer_id", offer.ID.String()),
				zap.Error(err))
		} else if remote != nil {
			resp.LineItems = toLineItemResponses(remote.LineItems)
		}
	}
	return &resp, nil
}

// List returns all offers
func (s *OfferService) List(ctx context.Context) ([]OfferResponse, error) {
	offers, err := s.offerRepo.FindAll(ctx, shared.Unpaged())
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, offers), nil
}

// ListByQuoteRequest returns the offers created from a quote request
func (s *OfferService) ListByQuoteRequest(ctx context.Context, quoteRequestID uuid.UUID) ([]OfferResponse, error) {
	offers, err := s.offerRepo.FindByQuoteRequestID(ctx, quoteRequestID)
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, offers), nil
}

// Update edits title, description, currency and validity
func (s *OfferService) Update(ctx context.Context, id uuid.UUID, req UpdateOfferRequest) (*OfferResponse, error) {
	offer, err := s.offerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := offer.Update(req.Title, req.Description, req.Currency, req.ValidUntil); err != nil {
		return nil, err
	}
	return s.save(ctx, offer)
}

// UpdateStatus sets the local offer status
func (s *OfferService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*OfferResponse, error) {
	parsed, err := quote.ParseOfferStatus(status)
	if err != nil {
		return nil, err
	}
	offer, err := s.offerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	offer.ChangeStatus(parsed)
	return s.save(ctx, offer)
}

// UpdateBillingStatus applies the offer billing status rules
func (s *OfferService) UpdateBillingStatus(ctx context.Context, id uuid.UUID, status string, isAdmin bool) (*OfferResponse, error) {
	parsed, err := billing.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	offer, err := s.offerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := offer.ChangeBillingStatus(parsed, isAdmin); err != nil {
		return nil, err
	}
	return s.save(ctx, offer)
}

// Delete removes an offer. The remote quotation is left untouched.
func (s *OfferService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.offerRepo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.offerRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Offer deleted", zap.String("offer_id", id.String()))
	return nil
}

// ListArticles returns the ledger catalogue, empty when the ledger is unconfigured
func (s *OfferService) ListArticles(ctx context.Context) ([]ArticleResponse, error) {
	if !s.ledgerConfigured(ctx) {
		return []ArticleResponse{}, nil
	}
	articles, err := s.ledger.GetArticles(ctx)
	if err != nil {
		return nil, err
	}
	return toArticleResponses(articles), nil
}

func (s *OfferService) save(ctx context.Context, offer *quote.Offer) (*OfferResponse, error) {
	if err := s.offerRepo.Save(ctx, offer); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.eventPublisher, s.logger, offer)
	resp := s.toResponse(ctx, offer)
	return &resp, nil
}

func (s *OfferService) toResponse(ctx context.Context, offer *quote.Offer) OfferResponse {
	resp := ToOfferResponse(offer, s.now())
	if offer.ApplicationTypeID != nil && s.appTypeRepo != nil {
		if appType, err := s.appTypeRepo.FindByID(ctx, *offer.ApplicationTypeID); err == nil {
			resp.ApplicationTypeName = appType.Name
		}
	}
	return resp
}

func (s *OfferService) toResponses(ctx context.Context, offers []quote.Offer) []OfferResponse {
	responses := make([]OfferResponse, len(offers))
	for i := range offers {
		responses[i] = s.toResponse(ctx, &offers[i])
	}
	return responses
}

func (s *OfferService) ledgerConfigured(ctx context.Context) bool {
	return s.ledger != nil && s.ledger.APIKey(ctx) != ""
}

// uniqueIDs drops duplicates and nil ids while keeping order
func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// lockOrder sorts ids so concurrent creations acquire locks in the same order
func lockOrder(ids []uuid.UUID) []uuid.UUID {
	sorted := append([]uuid.UUID(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].String() < sorted[j].String() })
	return sorted
}
