package quote

import (
	"testing"
	"time"

	"github.com/crm/backend/internal/domain/billing"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linkedOffer(t *testing.T, createdAt time.Time) *Offer {
	t.Helper()
	o := newTestOffer(t, uuid.New())
	require.NoError(t, o.AttachQuotation("q-1", createdAt))
	o.SetQuotationDetails("AG0001", "https://ledger.example/q-1")
	return o
}

func TestNewOffer(t *testing.T) {
	o, err := NewOffer(Draft{QuoteRequestID: uuid.New(), Title: " Web App ", Currency: "usd", Days: 3})

	require.NoError(t, err)
	assert.Equal(t, "Web App", o.Title)
	assert.Equal(t, "USD", o.Currency)
	assert.Equal(t, OfferStatusCreated, o.Status)
	assert.Equal(t, billing.StatusNew, o.BillingStatus)
	assert.False(t, o.Ledger.IsLinked())

	o, err = NewOffer(Draft{QuoteRequestID: uuid.New(), Title: "x"})
	require.NoError(t, err)
	assert.Equal(t, "EUR", o.Currency)

	_, err = NewOffer(Draft{QuoteRequestID: uuid.New()})
	assert.Error(t, err)

	_, err = NewOffer(Draft{QuoteRequestID: uuid.New(), Title: "x", Currency: "XYZW"})
	assert.Error(t, err)
}

func TestOffer_AttachQuotation(t *testing.T) {
	o := linkedOffer(t, time.Now())
	assert.Equal(t, "q-1", o.Ledger.ID)
	assert.Equal(t, "AG0001", o.Ledger.Number)

	assert.Error(t, o.AttachQuotation("q-2", time.Now()))
}

func TestOffer_ApplyRemote(t *testing.T) {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	now := created.Add(5 * 24 * time.Hour)

	t.Run("accepted moves to InProgress", func(t *testing.T) {
		o := linkedOffer(t, created)
		o.ApplyRemote(RemoteState{VoucherStatus: "accepted"}, now)

		assert.Equal(t, OfferStatusInProgress, o.Status)
		require.NotNil(t, o.ClientAcceptedAt)
		assert.Equal(t, now, *o.ClientAcceptedAt)
		require.NotNil(t, o.DaysUntilAcceptance)
		assert.Equal(t, 5, *o.DaysUntilAcceptance)
	})

	t.Run("archived counts as accepted and keeps first acceptance", func(t *testing.T) {
		o := linkedOffer(t, created)
		o.ApplyRemote(RemoteState{VoucherStatus: "accepted"}, now)
		o.ApplyRemote(RemoteState{VoucherStatus: "ARCHIVED"}, now.Add(48*time.Hour))

		assert.Equal(t, OfferStatusInProgress, o.Status)
		assert.Equal(t, now, *o.ClientAcceptedAt)
		assert.Equal(t, 7, *o.DaysUntilAcceptance, "recomputed at the latest accepted sync")
		assert.Equal(t, 5, *o.DaysUntilAcceptanceAt(now.Add(72*time.Hour)), "projection keeps the first acceptance")
	})

	t.Run("rejected moves to Rejected", func(t *testing.T) {
		o := linkedOffer(t, created)
		o.ApplyRemote(RemoteState{VoucherStatus: "rejected"}, now)
		assert.Equal(t, OfferStatusRejected, o.Status)
		assert.Nil(t, o.ClientAcceptedAt)
	})

	t.Run("other status only refreshes cache", func(t *testing.T) {
		o := linkedOffer(t, created)
		o.ApplyRemote(RemoteState{VoucherStatus: "open", Number: "AG0002", Link: "https://ledger.example/new"}, now)

		assert.Equal(t, OfferStatusCreated, o.Status)
		assert.Equal(t, "AG0002", o.Ledger.Number)
		assert.Equal(t, "https://ledger.example/new", o.Ledger.Link)
		assert.Equal(t, "open", o.Ledger.VoucherStatus)
	})
}

func TestOffer_ClearLedgerLinkIsIdempotent(t *testing.T) {
	o := linkedOffer(t, time.Now())
	o.ApplyRemote(RemoteState{VoucherStatus: "open"}, time.Now())

	assert.True(t, o.ClearLedgerLink())
	first := o.Ledger
	version := o.GetVersion()

	assert.False(t, o.ClearLedgerLink())
	assert.Equal(t, first, o.Ledger)
	assert.Equal(t, version, o.GetVersion())
	assert.False(t, o.Ledger.IsLinked())
	assert.Empty(t, o.Ledger.Number)
	assert.Empty(t, o.Ledger.Link)
	assert.Empty(t, o.Ledger.VoucherStatus)
}

func TestOffer_ChangeBillingStatus(t *testing.T) {
	t.Run("billing needs accepted voucher", func(t *testing.T) {
		o := linkedOffer(t, time.Now())
		o.ApplyRemote(RemoteState{VoucherStatus: "open"}, time.Now())

		err := o.ChangeBillingStatus(billing.StatusBilled, true)
		var te *shared.TransitionError
		assert.ErrorAs(t, err, &te)
		assert.Equal(t, billing.StatusNew, o.BillingStatus)
	})

	t.Run("archived voucher is not enough for billing", func(t *testing.T) {
		o := linkedOffer(t, time.Now())
		o.ApplyRemote(RemoteState{VoucherStatus: "archived"}, time.Now())
		assert.Error(t, o.ChangeBillingStatus(billing.StatusBilled, true))
	})

	t.Run("admin can correct paid back to billed", func(t *testing.T) {
		o := linkedOffer(t, time.Now())
		o.ApplyRemote(RemoteState{VoucherStatus: "Accepted"}, time.Now())

		require.NoError(t, o.ChangeBillingStatus(billing.StatusBilled, false))
		require.NoError(t, o.ChangeBillingStatus(billing.StatusPaid, true))
		assert.Error(t, o.ChangeBillingStatus(billing.StatusBilled, false))
		require.NoError(t, o.ChangeBillingStatus(billing.StatusBilled, true))
		assert.Equal(t, billing.StatusBilled, o.BillingStatus)
	})
}

func TestOffer_DaysUntilAcceptanceAt(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	o := newTestOffer(t, uuid.New())
	assert.Nil(t, o.DaysUntilAcceptanceAt(created))

	o = linkedOffer(t, created)
	assert.Equal(t, 10, *o.DaysUntilAcceptanceAt(created.AddDate(0, 0, 10)))

	o.ApplyRemote(RemoteState{VoucherStatus: "accepted"}, created.AddDate(0, 0, 3))
	assert.Equal(t, 3, *o.DaysUntilAcceptanceAt(created.AddDate(0, 0, 40)))
}

func TestDaysBetween(t *testing.T) {
	from := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

	assert.Nil(t, daysBetween(nil, from))
	assert.Equal(t, 2, *daysBetween(&from, from.Add(71*time.Hour)))
	assert.Equal(t, 0, *daysBetween(&from, from.Add(-23*time.Hour)), "partial negative days truncate toward zero")
	assert.Equal(t, -1, *daysBetween(&from, from.Add(-36*time.Hour)))
}

func TestDeriveTitle(t *testing.T) {
	items := []LineItem{{Name: "Consulting"}, {Name: "Hosting"}}

	assert.Equal(t, "Web App - Consulting", DeriveTitle("Web App", items, "ignored"))
	assert.Equal(t, "Consulting", DeriveTitle("", items, "ignored"))
	assert.Equal(t, "Manual", DeriveTitle("Web App", nil, " Manual "))
}

func TestTotalDays(t *testing.T) {
	assert.Equal(t, 0, TotalDays(nil))
	assert.Equal(t, 7, TotalDays([]LineItem{{Days: 2}, {Days: 5}}))
}

func TestLineItem_Normalize(t *testing.T) {
	li, err := LineItem{Name: " Consulting ", UnitPrice: decimal.NewFromInt(800)}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, "Consulting", li.Name)
	assert.Equal(t, DefaultLineItemType, li.Type)
	assert.Equal(t, DefaultUnitName, li.UnitName)
	assert.True(t, li.Quantity.Equal(decimal.NewFromInt(1)))
	assert.True(t, li.NetAmount().Equal(decimal.NewFromInt(800)))

	_, err = LineItem{}.Normalize()
	assert.Error(t, err)

	_, err = LineItem{Name: "x", Days: -1}.Normalize()
	assert.Error(t, err)
}

func TestClassifyVoucherStatus(t *testing.T) {
	tests := map[string]VoucherOutcome{
		"accepted": VoucherAccepted,
		"Archived": VoucherAccepted,
		"rejected": VoucherRejected,
		"open":     VoucherOther,
		"draft":    VoucherOther,
		"":         VoucherOther,
	}
	for input, want := range tests {
		assert.Equal(t, want, ClassifyVoucherStatus(input), input)
	}
	assert.True(t, IsVoucherAccepted(" ACCEPTED"))
	assert.False(t, IsVoucherAccepted("archived"))
}

func TestApplicationType(t *testing.T) {
	a, err := NewApplicationType(" Web App ", "apps")
	require.NoError(t, err)
	assert.Equal(t, "Web App", a.Name)

	require.NoError(t, a.Update("Mobile", ""))
	assert.Equal(t, "Mobile", a.Name)
	assert.Equal(t, 2, a.GetVersion())

	_, err = NewApplicationType("", "")
	assert.Error(t, err)
}

func TestOffer_SyncStatusFallsBackToVoucherStatus(t *testing.T) {
	o := linkedOffer(t, time.Now())
	o.ApplyRemote(RemoteState{Status: "archived", VoucherStatus: "open"}, time.Now())
	assert.Equal(t, OfferStatusInProgress, o.Status)
	assert.Equal(t, "open", o.Ledger.VoucherStatus)
}

func TestOffer_WasRemovedFromLedger(t *testing.T) {
	o := newTestOffer(t, uuid.New())
	assert.False(t, o.WasRemovedFromLedger())

	require.NoError(t, o.AttachQuotation("q-1", time.Now()))
	assert.False(t, o.WasRemovedFromLedger())

	o.ClearLedgerLink()
	assert.True(t, o.WasRemovedFromLedger())

	require.NoError(t, o.AttachQuotation("q-2", time.Now()))
	assert.False(t, o.WasRemovedFromLedger())
}

func TestOffer_RefreshFromListing(t *testing.T) {
	valid := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	o := linkedOffer(t, time.Now())
	o.RefreshFromListing(RemoteState{Number: "AG0009", Status: "archived", ValidUntil: &valid})
	assert.Equal(t, OfferStatusInProgress, o.Status)
	assert.Equal(t, "AG0009", o.Ledger.Number)
	assert.Equal(t, valid, o.ValidUntil)

	o.RefreshFromListing(RemoteState{Status: "rejected"})
	assert.Equal(t, OfferStatusRejected, o.Status)

	o = linkedOffer(t, time.Now())
	o.RefreshFromListing(RemoteState{Status: "accepted"})
	assert.Equal(t, OfferStatusCreated, o.Status)
}

func TestNewOfferFromLedger(t *testing.T) {
	created := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	requestID := uuid.New()

	o, err := NewOfferFromLedger(requestID, RemoteState{ID: "q-7", Number: "AG0007", Status: "archived", CreatedAt: &created})
	require.NoError(t, err)
	assert.Equal(t, "AG0007", o.Title)
	assert.Equal(t, "EUR", o.Currency)
	assert.Equal(t, OfferStatusInProgress, o.Status)
	assert.Equal(t, "q-7", o.Ledger.ID)
	assert.Equal(t, created, o.CreatedAt)

	o, err = NewOfferFromLedger(requestID, RemoteState{ID: "q-8", Status: "open"})
	require.NoError(t, err)
	assert.Equal(t, ImportedOfferTitle, o.Title)
	assert.Equal(t, OfferStatusCreated, o.Status)

	_, err = NewOfferFromLedger(requestID, RemoteState{})
	assert.Error(t, err)
}
