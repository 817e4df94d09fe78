package contact

import (
	"errors"
	"testing"

	"github.com/crm/backend/internal/domain/billing"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDetails() Details {
	return Details{
		FirstName: "Erika",
		LastName:  "Mustermann",
		Email:     "erika@example.com",
		Phone:     "+49 30 1234",
	}
}

func TestNewContact(t *testing.T) {
	t.Run("creates contact with defaults", func(t *testing.T) {
		c, err := NewContact(validDetails())

		require.NoError(t, err)
		assert.Equal(t, "Erika Mustermann", c.FullName())
		assert.Equal(t, billing.StatusNew, c.BillingStatus)
		assert.Equal(t, "DE", c.Billing.CountryCode)
		assert.Equal(t, "DE", c.Shipping.CountryCode)
		assert.Equal(t, "erika@example.com", c.Emails.Business)
		assert.Equal(t, "+49 30 1234", c.Phones.Business)
		assert.Nil(t, c.PartnerCode)
		assert.False(t, c.HasLedgerLink())
		assert.Len(t, c.GetDomainEvents(), 1)
	})

	t.Run("stamps accepted consents", func(t *testing.T) {
		d := validDetails()
		d.Consents = Consents{PrivacyPolicy: true, DataProcessing: true}

		c, err := NewContact(d)

		require.NoError(t, err)
		assert.True(t, c.PrivacyPolicy.Accepted)
		require.NotNil(t, c.PrivacyPolicy.AcceptedAt)
		assert.False(t, c.Terms.Accepted)
		assert.Nil(t, c.Terms.AcceptedAt)
		assert.NotNil(t, c.DataProcessing.AcceptedAt)
	})

	t.Run("keeps explicit country", func(t *testing.T) {
		d := validDetails()
		d.Billing = valueobject.PostalAddress{Street: "Main 1", City: "Zurich", CountryCode: "ch"}

		c, err := NewContact(d)

		require.NoError(t, err)
		assert.Equal(t, "CH", c.Billing.CountryCode)
	})

	t.Run("fails without email", func(t *testing.T) {
		d := validDetails()
		d.Email = ""
		_, err := NewContact(d)
		assert.Contains(t, err.Error(), "Email cannot be empty")
	})

	t.Run("fails without any name", func(t *testing.T) {
		_, err := NewContact(Details{Email: "x@example.com"})
		assert.Error(t, err)
	})

	t.Run("company alone is enough", func(t *testing.T) {
		_, err := NewContact(Details{Email: "x@example.com", Company: Company{Name: "ACME"}})
		assert.NoError(t, err)
	})
}

func TestContact_UpdateKeepsConsentTimestamp(t *testing.T) {
	d := validDetails()
	d.Consents.PrivacyPolicy = true
	c, err := NewContact(d)
	require.NoError(t, err)
	first := *c.PrivacyPolicy.AcceptedAt

	d.Notes = "called back"
	require.NoError(t, c.Update(d))

	assert.Equal(t, first, *c.PrivacyPolicy.AcceptedAt)
	assert.Equal(t, "called back", c.Notes)
	assert.Equal(t, 2, c.GetVersion())

	d.Consents.PrivacyPolicy = false
	require.NoError(t, c.Update(d))
	assert.False(t, c.PrivacyPolicy.Accepted)
	assert.Nil(t, c.PrivacyPolicy.AcceptedAt)
}

func TestContact_LedgerLink(t *testing.T) {
	c, err := NewContact(validDetails())
	require.NoError(t, err)

	require.NoError(t, c.LinkLedger("lx-1"))
	assert.True(t, c.HasLedgerLink())
	assert.NoError(t, c.LinkLedger("lx-1"))

	err = c.LinkLedger("lx-2")
	assert.True(t, errors.Is(err, shared.ErrInvalidOperation))

	c.UnlinkLedger()
	assert.False(t, c.HasLedgerLink())
	c.UnlinkLedger()

	assert.Error(t, c.LinkLedger(" "))
}

func TestContact_ChangeBillingStatus(t *testing.T) {
	c, err := NewContact(validDetails())
	require.NoError(t, err)

	require.NoError(t, c.ChangeBillingStatus(billing.StatusBilled, false))

	err = c.ChangeBillingStatus(billing.StatusPaid, false)
	var te *shared.TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "Billed", te.Current)
	assert.Equal(t, "Paid", te.Requested)
	assert.Equal(t, shared.RoleUser, te.Role)

	require.NoError(t, c.ChangeBillingStatus(billing.StatusPaid, true))

	err = c.ChangeBillingStatus(billing.StatusBilled, true)
	assert.ErrorAs(t, err, &te)
	assert.Equal(t, billing.StatusPaid, c.BillingStatus)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "erika@example.com", NormalizeEmail("  Erika@Example.COM "))
}
