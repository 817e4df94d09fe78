package contact

import (
	"context"
	"errors"
	"strings"

	"github.com/crm/backend/internal/domain/billing"
	"github.com/crm/backend/internal/domain/contact"
	"github.com/crm/backend/internal/domain/integration"
	"github.com/crm/backend/internal/domain/partner"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ContactService owns contact creation, deduplication and the ledger mirror.
// Mirroring is best effort: ledger failures are logged and never fail the local operation.
type ContactService struct {
	contactRepo    contact.ContactRepository
	partnerRepo    partner.PartnerRepository
	ledger         integration.LedgerClient
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewContactService creates a new ContactService
func NewContactService(
	contactRepo contact.ContactRepository,
	partnerRepo partner.PartnerRepository,
	ledger integration.LedgerClient,
	logger *zap.Logger,
) *ContactService {
	return &ContactService{
		contactRepo: contactRepo,
		partnerRepo: partnerRepo,
		ledger:      ledger,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ContactService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create stores a new contact, or updates the existing contact with the same e-mail
func (s *ContactService) Create(ctx context.Context, req ContactRequest) (*ContactResponse, error) {
	if err := s.checkPartner(ctx, req.PartnerCode); err != nil {
		return nil, err
	}

	existing, err := s.contactRepo.FindByEmail(ctx, contact.NormalizeEmail(req.Email))
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		s.logger.Info("Contact with this e-mail exists, updating instead",
			zap.String("contact_id", existing.ID.String()))
		return s.update(ctx, existing, req)
	}

	c, err := contact.NewContact(req.toDetails())
	if err != nil {
		return nil, err
	}
	if err := s.contactRepo.Save(ctx, c); err != nil {
		if !errors.Is(err, shared.ErrAlreadyExists) {
			return nil, err
		}
		// a concurrent create took the e-mail between lookup and insert
		existing, findErr := s.contactRepo.FindByEmail(ctx, contact.NormalizeEmail(req.Email))
		if findErr != nil {
			return nil, err
		}
		s.logger.Info("Contact with this e-mail was created concurrently, updating instead",
			zap.String("contact_id", existing.ID.String()))
		return s.update(ctx, existing, req)
	}

	if err := s.mirrorCreate(ctx, c); err != nil {
		return nil, err
	}
	s.publish(ctx, c)

	s.logger.Info("Contact created", zap.String("contact_id", c.ID.String()))
	resp := ToContactResponse(c)
	return &resp, nil
}

// Update overwrites all mutable fields and synchronizes the ledger mirror
func (s *ContactService) Update(ctx context.Context, id uuid.UUID, req ContactRequest) (*ContactResponse, error) {
	c, err := s.contactRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkPartner(ctx, req.PartnerCode); err != nil {
		return nil, err
	}
	return s.update(ctx, c, req)
}

func (s *ContactService) update(ctx context.Context, c *contact.Contact, req ContactRequest) (*ContactResponse, error) {
	if err := s.checkEmailFree(ctx, c.ID, req.Email); err != nil {
		return nil, err
	}
	if err := c.Update(req.toDetails()); err != nil {
		return nil, err
	}
	if err := s.contactRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	if c.HasLedgerLink() {
		s.mirrorUpdate(ctx, c)
	} else if err := s.mirrorCreate(ctx, c); err != nil {
		return nil, err
	}
	s.publish(ctx, c)

	resp := ToContactResponse(c)
	return &resp, nil
}

// GetByID returns a contact. A ledger id whose remote record is gone is cleared.
func (s *ContactService) GetByID(ctx context.Context, id uuid.UUID) (*ContactResponse, error) {
	c, err := s.contactRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if c.HasLedgerLink() && s.ledgerConfigured(ctx) {
		remote, err := s.ledger.GetContact(ctx, *c.LedgerContactID)
		switch {
		case err != nil && !errors.Is(err, integration.ErrLedgerNotFound):
			s.logger.Warn("Ledger contact lookup failed",
				zap.String("contact_id", c.ID.String()),
				zap.String("ledger_contact_id", *c.LedgerContactID),
				zap.Error(err))
		case remote == nil:
			s.logger.Info("Ledger contact no longer exists, clearing link",
				zap.String("contact_id", c.ID.String()),
				zap.String("ledger_contact_id", *c.LedgerContactID))
			c.UnlinkLedger()
			if err := s.contactRepo.Save(ctx, c); err != nil {
				s.logger.Warn("Failed to save cleared ledger link",
					zap.String("contact_id", c.ID.String()),
					zap.Error(err))
			} else {
				s.publish(ctx, c)
			}
		}
	}

	resp := ToContactResponse(c)
	return &resp, nil
}

// List returns a page of contacts
func (s *ContactService) List(ctx context.Context, filter ListContactsFilter) (*ContactListResponse, error) {
	f := shared.DefaultFilter()
	f.Search = strings.TrimSpace(filter.Search)
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}

	contacts, err := s.contactRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	total, err := s.contactRepo.Count(ctx, f)
	if err != nil {
		return nil, err
	}
	return &ContactListResponse{
		Items:    ToContactResponses(contacts),
		Total:    total,
		Page:     f.Page,
		PageSize: f.PageSize,
	}, nil
}

// ListByPartner returns all contacts referred by a partner code
func (s *ContactService) ListByPartner(ctx context.Context, partnerCode string) ([]ContactResponse, error) {
	contacts, err := s.contactRepo.FindByPartnerCode(ctx, strings.TrimSpace(partnerCode))
	if err != nil {
		return nil, err
	}
	return ToContactResponses(contacts), nil
}

// Delete archives the ledger mirror, then removes the local contact.
// A failed archive does not stop the local deletion.
func (s *ContactService) Delete(ctx context.Context, id uuid.UUID) error {
	c, err := s.contactRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if c.HasLedgerLink() && s.ledgerConfigured(ctx) {
		ok, err := s.ledger.ArchiveContact(ctx, *c.LedgerContactID)
		if err != nil || !ok {
			s.logger.Warn("Failed to archive ledger contact",
				zap.String("contact_id", c.ID.String()),
				zap.String("ledger_contact_id", *c.LedgerContactID),
				zap.Error(err))
		}
	}

	if err := s.contactRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Contact deleted", zap.String("contact_id", id.String()))
	return nil
}

// UpdateBillingStatus applies the contact billing status rules
func (s *ContactService) UpdateBillingStatus(ctx context.Context, id uuid.UUID, status string, isAdmin bool) (*ContactResponse, error) {
	requested, err := billing.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	c, err := s.contactRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.ChangeBillingStatus(requested, isAdmin); err != nil {
		return nil, err
	}
	if err := s.contactRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	s.publish(ctx, c)

	resp := ToContactResponse(c)
	return &resp, nil
}

// PushToLedger creates the ledger mirror on explicit request. Unlike the
// automatic mirror, ledger errors are returned to the caller.
func (s *ContactService) PushToLedger(ctx context.Context, id uuid.UUID) (*ContactResponse, error) {
	c, err := s.contactRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.HasLedgerLink() {
		return nil, shared.NewInvalidOperationError("Contact already exists in the ledger system")
	}
	if !s.ledgerConfigured(ctx) {
		return nil, shared.WrapDomainError(shared.CodeInvalidOperation, "Ledger system is not configured", integration.ErrLedgerNotConfigured)
	}

	ledgerID, err := s.ledger.CreateContact(ctx, toLedgerContact(c))
	if err != nil {
		return nil, err
	}
	if ledgerID == "" {
		return nil, shared.NewInvalidOperationError("Ledger system returned no contact id")
	}
	if err := c.LinkLedger(ledgerID); err != nil {
		return nil, err
	}
	if err := s.contactRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	s.publish(ctx, c)

	resp := ToContactResponse(c)
	return &resp, nil
}

// ProcessWebhookLead takes a lead from the public intake. It goes through Create,
// so a known e-mail updates the existing contact.
func (s *ContactService) ProcessWebhookLead(ctx context.Context, lead WebhookLeadRequest) (*ContactResponse, error) {
	return s.Create(ctx, lead.toContactRequest())
}

// mirrorCreate creates the ledger record and stores the returned id.
// Only a local save failure is returned.
func (s *ContactService) mirrorCreate(ctx context.Context, c *contact.Contact) error {
	if !s.ledgerConfigured(ctx) {
		return nil
	}
	ledgerID, err := s.ledger.CreateContact(ctx, toLedgerContact(c))
	if err != nil {
		s.logger.Warn("Failed to create ledger contact",
			zap.String("contact_id", c.ID.String()),
			zap.Error(err))
		return nil
	}
	if ledgerID == "" {
		return nil
	}
	if err := c.LinkLedger(ledgerID); err != nil {
		s.logger.Warn("Failed to link ledger contact",
			zap.String("contact_id", c.ID.String()),
			zap.String("ledger_contact_id", ledgerID),
			zap.Error(err))
		return nil
	}
	return s.contactRepo.Save(ctx, c)
}

func (s *ContactService) mirrorUpdate(ctx context.Context, c *contact.Contact) {
	if !s.ledgerConfigured(ctx) {
		return
	}
	ok, err := s.ledger.UpdateContact(ctx, *c.LedgerContactID, toLedgerContact(c))
	if err != nil || !ok {
		s.logger.Warn("Failed to update ledger contact",
			zap.String("contact_id", c.ID.String()),
			zap.String("ledger_contact_id", *c.LedgerContactID),
			zap.Error(err))
	}
}

// checkEmailFree rejects an e-mail address that belongs to another contact
func (s *ContactService) checkEmailFree(ctx context.Context, id uuid.UUID, email string) error {
	other, err := s.contactRepo.FindByEmail(ctx, contact.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}
	if other.ID != id {
		return shared.NewDomainError(shared.CodeAlreadyExists, "A contact with this e-mail already exists")
	}
	return nil
}

func (s *ContactService) ledgerConfigured(ctx context.Context) bool {
	return s.ledger != nil && s.ledger.APIKey(ctx) != ""
}

func (s *ContactService) checkPartner(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)
	if code == "" || s.partnerRepo == nil {
		return nil
	}
	_, err := s.partnerRepo.FindByCode(ctx, code)
	return err
}

func (s *ContactService) publish(ctx context.Context, c *contact.Contact) {
	if err := shared.PublishPending(ctx, s.eventPublisher, c); err != nil {
		s.logger.Warn("Failed to publish contact events", zap.String("contact_id", c.ID.String()), zap.Error(err))
	}
}
