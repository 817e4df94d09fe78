package billing

import (
	"strings"

	"github.com/crm/backend/internal/domain/shared"
)

// Status is the local billing status of a contact or an offer
type Status string

const (
	StatusNew    Status = "New"
	StatusBilled Status = "Billed"
	StatusPaid   Status = "Paid"
)

// AllStatuses lists the valid billing statuses in lattice order
var AllStatuses = []Status{StatusNew, StatusBilled, StatusPaid}

// IsValid reports whether s is one of the known statuses
func (s Status) IsValid() bool {
	switch s {
	case StatusNew, StatusBilled, StatusPaid:
		return true
	}
	return false
}

// String implements fmt.Stringer
func (s Status) String() string {
	return string(s)
}

// ParseStatus parses a status name case-insensitively
func ParseStatus(value string) (Status, error) {
	for _, s := range AllStatuses {
		if strings.EqualFold(string(s), strings.TrimSpace(value)) {
			return s, nil
		}
	}
	return "", shared.NewInvalidOperationError("Invalid billing status: " + value)
}

// CanChangeContactStatus decides a contact billing status change.
// Non-admins may only bill a new contact; admins may also mark billed contacts paid.
// Paid is final for contacts.
func CanChangeContactStatus(current, requested Status, isAdmin bool) bool {
	if current == requested || !current.IsValid() || !requested.IsValid() {
		return false
	}
	switch current {
	case StatusNew:
		return requested == StatusBilled
	case StatusBilled:
		return isAdmin && requested == StatusPaid
	default:
		return false
	}
}

// CanChangeOfferStatus decides an offer billing status change.
// It matches the contact rules except that an admin may correct Paid → Billed.
// The voucher acceptance precondition for Billed is checked by the offer itself.
func CanChangeOfferStatus(current, requested Status, isAdmin bool) bool {
	if current == StatusPaid && requested == StatusBilled {
		return isAdmin
	}
	return CanChangeContactStatus(current, requested, isAdmin)
}
