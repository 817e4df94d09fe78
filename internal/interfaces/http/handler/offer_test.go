package handler

import (
	"net/http"
	"testing"
	"time"

	quoteapp "github.com/crm/backend/internal/application/quote"
	"github.com/crm/backend/internal/domain/integration"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupOfferRouter(caller auth.Caller) (*gin.Engine, *MockOfferService) {
	svc := new(MockOfferService)
	h := NewOfferHandler(svc, nil)

	r := newTestEngine(caller)
	r.GET("/offers", h.List)
	r.POST("/offers", h.Create)
	r.POST("/offers/sync", h.SyncAll)
	r.GET("/offers/:id", h.GetByID)
	r.PUT("/offers/:id", h.Update)
	r.DELETE("/offers/:id", h.Delete)
	r.PATCH("/offers/:id/status", h.UpdateStatus)
	r.PATCH("/offers/:id/billing-status", h.UpdateBillingStatus)
	r.POST("/offers/:id/sync", h.Sync)
	r.GET("/quote-requests/:id/offers", h.ListByQuoteRequest)
	r.POST("/contacts/:id/ledger-offers", h.LoadFromLedger)
	r.GET("/articles", h.ListArticles)
	return r, svc
}

func TestOfferHandler_Create(t *testing.T) {
	r, svc := setupOfferRouter(userCaller)
	requestA, requestB := uuid.New(), uuid.New()

	svc.On("Create", mock.Anything, mock.MatchedBy(func(req quoteapp.CreateOfferRequest) bool {
		return len(req.QuoteRequestIDs) == 2 &&
			len(req.LineItems) == 1 &&
			req.LineItems[0].Name == "Workshop"
	})).Return(&quoteapp.OfferResponse{ID: uuid.New(), Title: "Workshop", Status: "Draft"}, nil)

	w := doRequest(r, http.MethodPost, "/offers", map[string]any{
		"quote_request_ids": []uuid.UUID{requestA, requestB},
		"line_items": []map[string]any{
			{"name": "Workshop", "quantity": "2", "unit_price": "950.00", "days": 2},
		},
	})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var got quoteapp.OfferResponse
	decodeEnvelope(t, w, &got)
	assert.Equal(t, "Workshop", got.Title)
	svc.AssertExpectations(t)
}

func TestOfferHandler_Create_Validation(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
	}{
		{name: "no quote requests", body: map[string]any{"quote_request_ids": []uuid.UUID{}}},
		{name: "line item without name", body: map[string]any{
			"quote_request_ids": []uuid.UUID{uuid.New()},
			"line_items":        []map[string]any{{"quantity": "1"}},
		}},
		{name: "bad currency", body: map[string]any{
			"quote_request_ids": []uuid.UUID{uuid.New()},
			"currency":          "EURO",
		}},
		{name: "negative unit price", body: map[string]any{
			"quote_request_ids": []uuid.UUID{uuid.New()},
			"line_items":        []map[string]any{{"name": "Workshop", "unit_price": "-5"}},
		}},
		{name: "tax rate over 100", body: map[string]any{
			"quote_request_ids": []uuid.UUID{uuid.New()},
			"line_items":        []map[string]any{{"name": "Workshop", "unit_price": "10", "tax_rate_percentage": "150"}},
		}},
		{name: "zero quantity", body: map[string]any{
			"quote_request_ids": []uuid.UUID{uuid.New()},
			"line_items":        []map[string]any{{"name": "Workshop", "quantity": "0"}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, svc := setupOfferRouter(userCaller)

			w := doRequest(r, http.MethodPost, "/offers", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestOfferHandler_Create_LedgerFailure(t *testing.T) {
	r, svc := setupOfferRouter(userCaller)
	svc.On("Create", mock.Anything, mock.Anything).
		Return(nil, shared.WrapDomainError(shared.CodeLedgerUnavailable, "Could not create ledger quotation", integration.ErrLedgerUnavailable))

	w := doRequest(r, http.MethodPost, "/offers", map[string]any{"quote_request_ids": []uuid.UUID{uuid.New()}})

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "LEDGER_UNAVAILABLE", decodeEnvelope(t, w, nil).Error.Code)
}

func TestOfferHandler_Update(t *testing.T) {
	r, svc := setupOfferRouter(userCaller)
	id := uuid.New()
	validUntil := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)

	svc.On("Update", mock.Anything, id, mock.MatchedBy(func(req quoteapp.UpdateOfferRequest) bool {
		return req.Title == "Revised" && req.ValidUntil.Equal(validUntil)
	})).Return(&quoteapp.OfferResponse{ID: id, Title: "Revised"}, nil)

	w := doRequest(r, http.MethodPut, "/offers/"+id.String(), map[string]any{
		"title":       "Revised",
		"valid_until": validUntil,
	})

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestOfferHandler_StatusUpdates(t *testing.T) {
	r, svc := setupOfferRouter(userCaller)
	id := uuid.New()

	svc.On("UpdateStatus", mock.Anything, id, "Lost").Return(&quoteapp.OfferResponse{ID: id, Status: "Lost"}, nil)
	svc.On("UpdateBillingStatus", mock.Anything, id, "Billed", false).
		Return(&quoteapp.OfferResponse{ID: id, BillingStatus: "Billed"}, nil)

	assert.Equal(t, http.StatusOK,
		doRequest(r, http.MethodPatch, "/offers/"+id.String()+"/status", map[string]string{"status": "Lost"}).Code)
	assert.Equal(t, http.StatusOK,
		doRequest(r, http.MethodPatch, "/offers/"+id.String()+"/billing-status", map[string]string{"status": "Billed"}).Code)
	assert.Equal(t, http.StatusBadRequest,
		doRequest(r, http.MethodPatch, "/offers/"+id.String()+"/status", map[string]string{}).Code)
	svc.AssertExpectations(t)
}

func TestOfferHandler_Sync(t *testing.T) {
	r, svc := setupOfferRouter(userCaller)
	id := uuid.New()

	svc.On("Sync", mock.Anything, id).Return(&quoteapp.SyncOfferResponse{
		Offer:              quoteapp.OfferResponse{ID: id},
		LedgerQuoteRemoved: true,
	}, nil)

	w := doRequest(r, http.MethodPost, "/offers/"+id.String()+"/sync", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var got quoteapp.SyncOfferResponse
	decodeEnvelope(t, w, &got)
	assert.True(t, got.LedgerQuoteRemoved)
}

func TestOfferHandler_SyncAll(t *testing.T) {
	tests := []struct {
		name       string
		resp       *quoteapp.BatchSyncResponse
		err        error
		wantStatus int
	}{
		{
			name: "partial failure still answers 200",
			resp: &quoteapp.BatchSyncResponse{
				Total:    3,
				Synced:   1,
				Deleted:  1,
				Failures: []quoteapp.SyncFailure{{OfferID: uuid.New(), Error: "ledger request failed"}},
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "ledger not configured",
			err:        shared.WrapDomainError(shared.CodeInvalidOperation, "Ledger system is not configured", integration.ErrLedgerNotConfigured),
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, svc := setupOfferRouter(adminCaller)
			svc.On("SyncAll", mock.Anything).Return(tt.resp, tt.err)

			w := doRequest(r, http.MethodPost, "/offers/sync", nil)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.resp != nil {
				var got quoteapp.BatchSyncResponse
				decodeEnvelope(t, w, &got)
				assert.Equal(t, *tt.resp, got)
			}
		})
	}
}

func TestOfferHandler_LoadFromLedger(t *testing.T) {
	r, svc := setupOfferRouter(userCaller)
	contactID := uuid.New()

	svc.On("LoadFromLedger", mock.Anything, contactID).
		Return([]quoteapp.OfferResponse{{ID: uuid.New(), LedgerQuoteNumber: "AN-1001"}}, nil)

	w := doRequest(r, http.MethodPost, "/contacts/"+contactID.String()+"/ledger-offers", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var got []quoteapp.OfferResponse
	decodeEnvelope(t, w, &got)
	require.Len(t, got, 1)
	assert.Equal(t, "AN-1001", got[0].LedgerQuoteNumber)
}

func TestOfferHandler_ListArticles(t *testing.T) {
	r, svc := setupOfferRouter(userCaller)
	price := decimal.RequireFromString("120.50")

	svc.On("ListArticles", mock.Anything).
		Return([]quoteapp.ArticleResponse{{ID: "a-1", Name: "Consulting day", UnitPrice: &price}}, nil)

	w := doRequest(r, http.MethodGet, "/articles", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var got []quoteapp.ArticleResponse
	decodeEnvelope(t, w, &got)
	require.Len(t, got, 1)
	assert.True(t, price.Equal(*got[0].UnitPrice))
}

func TestOfferHandler_ReadsAndDelete(t *testing.T) {
	r, svc := setupOfferRouter(adminCaller)
	id := uuid.New()
	requestID := uuid.New()

	svc.On("List", mock.Anything).Return([]quoteapp.OfferResponse{}, nil)
	svc.On("GetByID", mock.Anything, id).Return(&quoteapp.OfferResponse{ID: id}, nil)
	svc.On("ListByQuoteRequest", mock.Anything, requestID).Return([]quoteapp.OfferResponse{{ID: id}}, nil)
	svc.On("Delete", mock.Anything, id).Return(nil)

	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/offers", nil).Code)
	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/offers/"+id.String(), nil).Code)
	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/quote-requests/"+requestID.String()+"/offers", nil).Code)
	assert.Equal(t, http.StatusNoContent, doRequest(r, http.MethodDelete, "/offers/"+id.String(), nil).Code)
	svc.AssertExpectations(t)
}
