package quote

import (
	"context"
	"sync"

	"github.com/crm/backend/internal/domain/contact"
	"github.com/crm/backend/internal/domain/quote"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockQuoteRequestRepository is a mock implementation of QuoteRequestRepository
type MockQuoteRequestRepository struct {
	mock.Mock
}

func (m *MockQuoteRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*quote.QuoteRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quote.QuoteRequest), args.Error(1)
}

func (m *MockQuoteRequestRepository) FindByContactID(ctx context.Context, contactID uuid.UUID) ([]quote.QuoteRequest, error) {
	args := m.Called(ctx, contactID)
	return args.Get(0).([]quote.QuoteRequest), args.Error(1)
}

func (m *MockQuoteRequestRepository) FindAll(ctx context.Context, filter shared.Filter) ([]quote.QuoteRequest, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]quote.QuoteRequest), args.Error(1)
}

func (m *MockQuoteRequestRepository) Save(ctx context.Context, r *quote.QuoteRequest) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockQuoteRequestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockOfferRepository is a mock implementation of OfferRepository
type MockOfferRepository struct {
	mock.Mock
}

func (m *MockOfferRepository) FindByID(ctx context.Context, id uuid.UUID) (*quote.Offer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quote.Offer), args.Error(1)
}

func (m *MockOfferRepository) FindAll(ctx context.Context, filter shared.Filter) ([]quote.Offer, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]quote.Offer), args.Error(1)
}

func (m *MockOfferRepository) FindByQuoteRequestID(ctx context.Context, id uuid.UUID) ([]quote.Offer, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]quote.Offer), args.Error(1)
}

func (m *MockOfferRepository) FindByLedgerQuoteID(ctx context.Context, id string) (*quote.Offer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quote.Offer), args.Error(1)
}

func (m *MockOfferRepository) FindWithLedgerQuote(ctx context.Context) ([]quote.Offer, error) {
	args := m.Called(ctx)
	return args.Get(0).([]quote.Offer), args.Error(1)
}

func (m *MockOfferRepository) CountByApplicationType(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOfferRepository) Save(ctx context.Context, o *quote.Offer) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOfferRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockApplicationTypeRepository is a mock implementation of ApplicationTypeRepository
type MockApplicationTypeRepository struct {
	mock.Mock
}

func (m *MockApplicationTypeRepository) FindByID(ctx context.Context, id uuid.UUID) (*quote.ApplicationType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quote.ApplicationType), args.Error(1)
}

func (m *MockApplicationTypeRepository) FindAll(ctx context.Context) ([]quote.ApplicationType, error) {
	args := m.Called(ctx)
	return args.Get(0).([]quote.ApplicationType), args.Error(1)
}

func (m *MockApplicationTypeRepository) Save(ctx context.Context, a *quote.ApplicationType) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockApplicationTypeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockContactRepository only answers id lookups
type MockContactRepository struct {
	mock.Mock
	contact.ContactRepository
}

func (m *MockContactRepository) FindByID(ctx context.Context, id uuid.UUID) (*contact.Contact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contact.Contact), args.Error(1)
}

// memoryLock is a CreationLock backed by a map
type memoryLock struct {
	mu   sync.Mutex
	held map[uuid.UUID]bool
}

func newMemoryLock() *memoryLock {
	return &memoryLock{held: make(map[uuid.UUID]bool)}
}

func (l *memoryLock) Acquire(_ context.Context, id uuid.UUID) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[id] {
		return false, nil
	}
	l.held[id] = true
	return true, nil
}

func (l *memoryLock) Release(_ context.Context, id uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, id)
	return nil
}

func newTestContact(ledgerID string) *contact.Contact {
	c, err := contact.NewContact(contact.Details{
		FirstName: "Erika",
		LastName:  "Muster",
		Email:     "erika@example.com",
	})
	if err != nil {
		panic(err)
	}
	if ledgerID != "" {
		if err := c.LinkLedger(ledgerID); err != nil {
			panic(err)
		}
	}
	c.ClearDomainEvents()
	return c
}

func newTestRequest(contactID uuid.UUID) *quote.QuoteRequest {
	r, err := quote.NewQuoteRequest(contactID, "Need a web app")
	if err != nil {
		panic(err)
	}
	r.ClearDomainEvents()
	return r
}
