package quote

import (
	"context"
	"errors"
	"fmt"

	"github.com/crm/backend/internal/domain/integration"
	"github.com/crm/backend/internal/domain/quote"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Sync reconciles one offer with its remote quotation.
//
// A quotation that no longer exists remotely clears the cached link. Syncing an
// offer whose quotation was already cleared that way succeeds without changes.
func (s *OfferService) Sync(ctx context.Context, id uuid.UUID) (*SyncOfferResponse, error) {
	offer, err := s.offerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !offer.Ledger.IsLinked() {
		if offer.WasRemovedFromLedger() {
			return &SyncOfferResponse{Offer: s.toResponse(ctx, offer), LedgerQuoteRemoved: true}, nil
		}
		return nil, shared.NewInvalidOperationError("Offer has no ledger quotation to sync")
	}
	if !s.ledgerConfigured(ctx) {
		return nil, shared.WrapDomainError(shared.CodeInvalidOperation,
			"Ledger system is not configured", integration.ErrLedgerNotConfigured)
	}

	removed, err := s.reconcile(ctx, offer)
	if err != nil {
		return nil, err
	}
	return &SyncOfferResponse{Offer: s.toResponse(ctx, offer), LedgerQuoteRemoved: removed}, nil
}

// reconcile pulls the remote state into a linked offer and saves it.
// It reports whether the remote quotation was gone.
func (s *OfferService) reconcile(ctx context.Context, offer *quote.Offer) (bool, error) {
	ledgerQuoteID := offer.Ledger.ID
	remote, err := s.ledger.GetQuote(ctx, ledgerQuoteID)
	if err != nil && !errors.Is(err, integration.ErrLedgerNotFound) {
		return false, err
	}

	if remote == nil {
		offer.ClearLedgerLink()
		if err := s.offerRepo.Save(ctx, offer); err != nil {
			return false, err
		}
		publishEvents(ctx, s.eventPublisher, s.logger, offer)
		s.logger.Info("Ledger quotation removed, cleared offer link",
			zap.String("offer_id", offer.ID.String()),
			zap.String("ledger_quote_id", ledgerQuoteID))
		return true, nil
	}

	offer.ApplyRemote(toRemoteState(*remote), s.now())
	if err := s.offerRepo.Save(ctx, offer); err != nil {
		return false, err
	}
	publishEvents(ctx, s.eventPublisher, s.logger, offer)
	s.logger.Debug("Offer reconciled",
		zap.String("offer_id", offer.ID.String()),
		zap.String("voucher_status", remote.VoucherStatus),
		zap.String("status", string(offer.Status)))
	return false, nil
}

// SyncAll reconciles every offer with a remote quotation.
// A failing offer is recorded and the run continues with the next one.
func (s *OfferService) SyncAll(ctx context.Context) (*BatchSyncResponse, error) {
	if !s.ledgerConfigured(ctx) {
		return nil, shared.WrapDomainError(shared.CodeInvalidOperation,
			"Ledger system is not configured", integration.ErrLedgerNotConfigured)
	}
	offers, err := s.offerRepo.FindWithLedgerQuote(ctx)
	if err != nil {
		return nil, err
	}

	result := &BatchSyncResponse{Total: len(offers), Failures: []SyncFailure{}}
	for i := range offers {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		offer := &offers[i]
		removed, err := s.reconcile(ctx, offer)
		if err != nil {
			s.logger.Error("Failed to sync offer",
				zap.String("offer_id", offer.ID.String()),
				zap.String("ledger_quote_id", offer.Ledger.ID),
				zap.Error(err))
			result.Failures = append(result.Failures, SyncFailure{OfferID: offer.ID, Error: err.Error()})
			continue
		}
		result.Synced++
		if removed {
			result.Deleted++
		}
	}

	s.logger.Info("Offer sync completed",
		zap.Int("total", result.Total),
		zap.Int("synced", result.Synced),
		zap.Int("deleted", result.Deleted),
		zap.Int("failed", len(result.Failures)))
	return result, nil
}

// LoadFromLedger imports the contact's remote quotations as offers.
//
// Known quotations refresh their offer. Unknown ones become new offers attached to
// the contact's first open quote request, or to its first request, or to a new
// placeholder request when the contact has none.
func (s *OfferService) LoadFromLedger(ctx context.Context, contactID uuid.UUID) ([]OfferResponse, error) {
	c, err := s.contactRepo.FindByID(ctx, contactID)
	if err != nil {
		return nil, err
	}
	if !c.HasLedgerLink() {
		return nil, shared.NewInvalidOperationError("Contact is not linked to the ledger system")
	}
	if !s.ledgerConfigured(ctx) {
		return nil, shared.WrapDomainError(shared.CodeInvalidOperation,
			"Ledger system is not configured", integration.ErrLedgerNotConfigured)
	}

	remotes, err := s.ledger.GetQuotesByContactID(ctx, *c.LedgerContactID)
	if err != nil {
		return nil, err
	}

	loaded := make([]OfferResponse, 0, len(remotes))
	for _, remote := range remotes {
		if remote.ID == "" {
			continue
		}
		offer, err := s.loadOne(ctx, contactID, remote)
		if err != nil {
			return nil, fmt.Errorf("load ledger quotation %s: %w", remote.ID, err)
		}
		loaded = append(loaded, s.toResponse(ctx, offer))
	}

	s.logger.Info("Offers loaded from ledger",
		zap.String("contact_id", contactID.String()),
		zap.Int("count", len(loaded)))
	return loaded, nil
}

func (s *OfferService) loadOne(ctx context.Context, contactID uuid.UUID, remote integration.RemoteQuote) (*quote.Offer, error) {
	state := toRemoteState(remote)

	existing, err := s.offerRepo.FindByLedgerQuoteID(ctx, remote.ID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		existing.RefreshFromListing(state)
		if err := s.offerRepo.Save(ctx, existing); err != nil {
			return nil, err
		}
		publishEvents(ctx, s.eventPublisher, s.logger, existing)
		return existing, nil
	}

	request, placeholder, err := s.anchorRequest(ctx, contactID, remote.Number)
	if err != nil {
		return nil, err
	}

	offer, err := quote.NewOfferFromLedger(request.ID, state)
	if err != nil {
		return nil, err
	}
	if err := s.offerRepo.Save(ctx, offer); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.eventPublisher, s.logger, offer)

	if placeholder && request.MarkQuoteCreated(offer.ID) {
		if err := s.requestRepo.Save(ctx, request); err != nil {
			return nil, err
		}
		publishEvents(ctx, s.eventPublisher, s.logger, request)
	}
	return offer, nil
}

// anchorRequest picks the quote request an imported offer belongs to
func (s *OfferService) anchorRequest(ctx context.Context, contactID uuid.UUID, quoteNumber string) (*quote.QuoteRequest, bool, error) {
	requests, err := s.requestRepo.FindByContactID(ctx, contactID)
	if err != nil {
		return nil, false, err
	}
	for i := range requests {
		if requests[i].Status == quote.RequestStatusNew {
			return &requests[i], false, nil
		}
	}
	if len(requests) > 0 {
		return &requests[0], false, nil
	}

	placeholder, err := quote.NewPlaceholderQuoteRequest(contactID, quoteNumber)
	if err != nil {
		return nil, false, err
	}
	if err := s.requestRepo.Save(ctx, placeholder); err != nil {
		return nil, false, err
	}
	s.logger.Info("Created placeholder quote request for ledger quotation",
		zap.String("contact_id", contactID.String()),
		zap.String("quote_request_id", placeholder.ID.String()),
		zap.String("ledger_quote_number", quoteNumber))
	return placeholder, true, nil
}

func toRemoteState(r integration.RemoteQuote) quote.RemoteState {
	return quote.RemoteState{
		ID:            r.ID,
		Number:        r.Number,
		Link:          r.Link,
		Status:        r.Status,
		VoucherStatus: r.VoucherStatus,
		CreatedAt:     r.CreatedAt,
		ValidUntil:    r.ValidUntil,
	}
}
