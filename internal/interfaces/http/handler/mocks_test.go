package handler

import (
	"context"

	contactapp "github.com/crm/backend/internal/application/contact"
	partnerapp "github.com/crm/backend/internal/application/partner"
	quoteapp "github.com/crm/backend/internal/application/quote"
	settingsapp "github.com/crm/backend/internal/application/settings"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// resultOf returns args.Get(0) as *T, tolerating a nil interface
func resultOf[T any](args mock.Arguments) *T {
	if v := args.Get(0); v != nil {
		return v.(*T)
	}
	return nil
}

func sliceOf[T any](args mock.Arguments) []T {
	if v := args.Get(0); v != nil {
		return v.([]T)
	}
	return nil
}

type MockContactService struct {
	mock.Mock
}

func (m *MockContactService) Create(ctx context.Context, req contactapp.ContactRequest) (*contactapp.ContactResponse, error) {
	args := m.Called(ctx, req)
	return resultOf[contactapp.ContactResponse](args), args.Error(1)
}

func (m *MockContactService) Update(ctx context.Context, id uuid.UUID, req contactapp.ContactRequest) (*contactapp.ContactResponse, error) {
	args := m.Called(ctx, id, req)
	return resultOf[contactapp.ContactResponse](args), args.Error(1)
}

func (m *MockContactService) GetByID(ctx context.Context, id uuid.UUID) (*contactapp.ContactResponse, error) {
	args := m.Called(ctx, id)
	return resultOf[contactapp.ContactResponse](args), args.Error(1)
}

func (m *MockContactService) List(ctx context.Context, filter contactapp.ListContactsFilter) (*contactapp.ContactListResponse, error) {
	args := m.Called(ctx, filter)
	return resultOf[contactapp.ContactListResponse](args), args.Error(1)
}

func (m *MockContactService) ListByPartner(ctx context.Context, partnerCode string) ([]contactapp.ContactResponse, error) {
	args := m.Called(ctx, partnerCode)
	return sliceOf[contactapp.ContactResponse](args), args.Error(1)
}

func (m *MockContactService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockContactService) UpdateBillingStatus(ctx context.Context, id uuid.UUID, status string, isAdmin bool) (*contactapp.ContactResponse, error) {
	args := m.Called(ctx, id, status, isAdmin)
	return resultOf[contactapp.ContactResponse](args), args.Error(1)
}

func (m *MockContactService) PushToLedger(ctx context.Context, id uuid.UUID) (*contactapp.ContactResponse, error) {
	args := m.Called(ctx, id)
	return resultOf[contactapp.ContactResponse](args), args.Error(1)
}

func (m *MockContactService) ProcessWebhookLead(ctx context.Context, lead contactapp.WebhookLeadRequest) (*contactapp.ContactResponse, error) {
	args := m.Called(ctx, lead)
	return resultOf[contactapp.ContactResponse](args), args.Error(1)
}

type MockPartnerService struct {
	mock.Mock
}

func (m *MockPartnerService) CreateOrGet(ctx context.Context, req partnerapp.CreatePartnerRequest) (*partnerapp.PartnerResponse, error) {
	args := m.Called(ctx, req)
	return resultOf[partnerapp.PartnerResponse](args), args.Error(1)
}

func (m *MockPartnerService) GetByID(ctx context.Context, id uuid.UUID) (*partnerapp.PartnerResponse, error) {
	args := m.Called(ctx, id)
	return resultOf[partnerapp.PartnerResponse](args), args.Error(1)
}

func (m *MockPartnerService) GetByCode(ctx context.Context, code string) (*partnerapp.PartnerResponse, error) {
	args := m.Called(ctx, code)
	return resultOf[partnerapp.PartnerResponse](args), args.Error(1)
}

func (m *MockPartnerService) List(ctx context.Context) ([]partnerapp.PartnerResponse, error) {
	args := m.Called(ctx)
	return sliceOf[partnerapp.PartnerResponse](args), args.Error(1)
}

func (m *MockPartnerService) Update(ctx context.Context, id uuid.UUID, req partnerapp.UpdatePartnerRequest) (*partnerapp.PartnerResponse, error) {
	args := m.Called(ctx, id, req)
	return resultOf[partnerapp.PartnerResponse](args), args.Error(1)
}

func (m *MockPartnerService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockQuoteRequestService struct {
	mock.Mock
}

func (m *MockQuoteRequestService) Create(ctx context.Context, req quoteapp.CreateQuoteRequestRequest) (*quoteapp.QuoteRequestResponse, error) {
	args := m.Called(ctx, req)
	return resultOf[quoteapp.QuoteRequestResponse](args), args.Error(1)
}

func (m *MockQuoteRequestService) GetByID(ctx context.Context, id uuid.UUID) (*quoteapp.QuoteRequestResponse, error) {
	args := m.Called(ctx, id)
	return resultOf[quoteapp.QuoteRequestResponse](args), args.Error(1)
}

func (m *MockQuoteRequestService) List(ctx context.Context) ([]quoteapp.QuoteRequestResponse, error) {
	args := m.Called(ctx)
	return sliceOf[quoteapp.QuoteRequestResponse](args), args.Error(1)
}

func (m *MockQuoteRequestService) ListByContact(ctx context.Context, contactID uuid.UUID) ([]quoteapp.QuoteRequestResponse, error) {
	args := m.Called(ctx, contactID)
	return sliceOf[quoteapp.QuoteRequestResponse](args), args.Error(1)
}

func (m *MockQuoteRequestService) UpdateStatus(ctx context.Context, id uuid.UUID, req quoteapp.UpdateRequestStatusRequest) (*quoteapp.QuoteRequestResponse, error) {
	args := m.Called(ctx, id, req)
	return resultOf[quoteapp.QuoteRequestResponse](args), args.Error(1)
}

func (m *MockQuoteRequestService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockOfferService struct {
	mock.Mock
}

func (m *MockOfferService) Create(ctx context.Context, req quoteapp.CreateOfferRequest) (*quoteapp.OfferResponse, error) {
	args := m.Called(ctx, req)
	return resultOf[quoteapp.OfferResponse](args), args.Error(1)
}

func (m *MockOfferService) GetByID(ctx context.Context, id uuid.UUID) (*quoteapp.OfferResponse, error) {
	args := m.Called(ctx, id)
	return resultOf[quoteapp.OfferResponse](args), args.Error(1)
}

func (m *MockOfferService) List(ctx context.Context) ([]quoteapp.OfferResponse, error) {
	args := m.Called(ctx)
	return sliceOf[quoteapp.OfferResponse](args), args.Error(1)
}

func (m *MockOfferService) ListByQuoteRequest(ctx context.Context, quoteRequestID uuid.UUID) ([]quoteapp.OfferResponse, error) {
	args := m.Called(ctx, quoteRequestID)
	return sliceOf[quoteapp.OfferResponse](args), args.Error(1)
}

func (m *MockOfferService) Update(ctx context.Context, id uuid.UUID, req quoteapp.UpdateOfferRequest) (*quoteapp.OfferResponse, error) {
	args := m.Called(ctx, id, req)
	return resultOf[quoteapp.OfferResponse](args), args.Error(1)
}

func (m *MockOfferService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*quoteapp.OfferResponse, error) {
	args := m.Called(ctx, id, status)
	return resultOf[quoteapp.OfferResponse](args), args.Error(1)
}

func (m *MockOfferService) UpdateBillingStatus(ctx context.Context, id uuid.UUID, status string, isAdmin bool) (*quoteapp.OfferResponse, error) {
	args := m.Called(ctx, id, status, isAdmin)
	return resultOf[quoteapp.OfferResponse](args), args.Error(1)
}

func (m *MockOfferService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockOfferService) ListArticles(ctx context.Context) ([]quoteapp.ArticleResponse, error) {
	args := m.Called(ctx)
	return sliceOf[quoteapp.ArticleResponse](args), args.Error(1)
}

func (m *MockOfferService) Sync(ctx context.Context, id uuid.UUID) (*quoteapp.SyncOfferResponse, error) {
	args := m.Called(ctx, id)
	return resultOf[quoteapp.SyncOfferResponse](args), args.Error(1)
}

func (m *MockOfferService) SyncAll(ctx context.Context) (*quoteapp.BatchSyncResponse, error) {
	args := m.Called(ctx)
	return resultOf[quoteapp.BatchSyncResponse](args), args.Error(1)
}

func (m *MockOfferService) LoadFromLedger(ctx context.Context, contactID uuid.UUID) ([]quoteapp.OfferResponse, error) {
	args := m.Called(ctx, contactID)
	return sliceOf[quoteapp.OfferResponse](args), args.Error(1)
}

type MockApplicationTypeService struct {
	mock.Mock
}

func (m *MockApplicationTypeService) Create(ctx context.Context, req quoteapp.ApplicationTypeRequest) (*quoteapp.ApplicationTypeResponse, error) {
	args := m.Called(ctx, req)
	return resultOf[quoteapp.ApplicationTypeResponse](args), args.Error(1)
}

func (m *MockApplicationTypeService) GetByID(ctx context.Context, id uuid.UUID) (*quoteapp.ApplicationTypeResponse, error) {
	args := m.Called(ctx, id)
	return resultOf[quoteapp.ApplicationTypeResponse](args), args.Error(1)
}

func (m *MockApplicationTypeService) List(ctx context.Context) ([]quoteapp.ApplicationTypeResponse, error) {
	args := m.Called(ctx)
	return sliceOf[quoteapp.ApplicationTypeResponse](args), args.Error(1)
}

func (m *MockApplicationTypeService) Update(ctx context.Context, id uuid.UUID, req quoteapp.ApplicationTypeRequest) (*quoteapp.ApplicationTypeResponse, error) {
	args := m.Called(ctx, id, req)
	return resultOf[quoteapp.ApplicationTypeResponse](args), args.Error(1)
}

func (m *MockApplicationTypeService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) Get(ctx context.Context) (*settingsapp.SettingsResponse, error) {
	args := m.Called(ctx)
	return resultOf[settingsapp.SettingsResponse](args), args.Error(1)
}

func (m *MockSettingsService) LegalLinks(ctx context.Context) (*settingsapp.LegalLinksResponse, error) {
	args := m.Called(ctx)
	return resultOf[settingsapp.LegalLinksResponse](args), args.Error(1)
}

func (m *MockSettingsService) Update(ctx context.Context, req settingsapp.UpdateSettingsRequest) (*settingsapp.SettingsResponse, error) {
	args := m.Called(ctx, req)
	return resultOf[settingsapp.SettingsResponse](args), args.Error(1)
}

var (
	_ ContactService         = (*MockContactService)(nil)
	_ PartnerService         = (*MockPartnerService)(nil)
	_ QuoteRequestService    = (*MockQuoteRequestService)(nil)
	_ OfferService           = (*MockOfferService)(nil)
	_ ApplicationTypeService = (*MockApplicationTypeService)(nil)
	_ SettingsService        = (*MockSettingsService)(nil)
)
