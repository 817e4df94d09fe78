package testutil

import (
	"context"

	"github.com/crm/backend/internal/domain/integration"
	"github.com/stretchr/testify/mock"
)

// MockLedgerClient is a testify mock of integration.LedgerClient.
// APIKey returns Key without recording a call, so tests only set
// expectations for the ledger operations they care about.
type MockLedgerClient struct {
	mock.Mock
	Key string
}

// NewMockLedgerClient creates a configured mock ledger
func NewMockLedgerClient() *MockLedgerClient {
	return &MockLedgerClient{Key: "test-key"}
}

// APIKey returns the configured key
func (m *MockLedgerClient) APIKey(_ context.Context) string {
	return m.Key
}

func (m *MockLedgerClient) CreateContact(ctx context.Context, contact integration.LedgerContact) (string, error) {
	args := m.Called(ctx, contact)
	return args.String(0), args.Error(1)
}

func (m *MockLedgerClient) UpdateContact(ctx context.Context, id string, contact integration.LedgerContact) (bool, error) {
	args := m.Called(ctx, id, contact)
	return args.Bool(0), args.Error(1)
}

func (m *MockLedgerClient) ArchiveContact(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockLedgerClient) GetContact(ctx context.Context, id string) (*integration.RemoteContact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.RemoteContact), args.Error(1)
}

func (m *MockLedgerClient) CreateQuote(ctx context.Context, draft integration.QuoteDraft) (string, error) {
	args := m.Called(ctx, draft)
	return args.String(0), args.Error(1)
}

func (m *MockLedgerClient) GetQuote(ctx context.Context, id string) (*integration.RemoteQuote, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.RemoteQuote), args.Error(1)
}

func (m *MockLedgerClient) GetQuoteLink(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *MockLedgerClient) GetQuotesByContactID(ctx context.Context, contactID string) ([]integration.RemoteQuote, error) {
	args := m.Called(ctx, contactID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]integration.RemoteQuote), args.Error(1)
}

func (m *MockLedgerClient) GetArticles(ctx context.Context) ([]integration.Article, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]integration.Article), args.Error(1)
}
