package quote

import "strings"

// VoucherOutcome classifies the ledger's free-text voucher status
type VoucherOutcome int

const (
	VoucherOther VoucherOutcome = iota
	VoucherAccepted
	VoucherRejected
)

// String implements fmt.Stringer
func (o VoucherOutcome) String() string {
	switch o {
	case VoucherAccepted:
		return "accepted"
	case VoucherRejected:
		return "rejected"
	default:
		return "other"
	}
}

// ClassifyVoucherStatus maps a remote voucher status onto an outcome.
// An archived quotation counts as accepted.
func ClassifyVoucherStatus(status string) VoucherOutcome {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "accepted", "archived":
		return VoucherAccepted
	case "rejected":
		return VoucherRejected
	default:
		return VoucherOther
	}
}

// IsVoucherAccepted reports the strict "accepted" status required before billing
func IsVoucherAccepted(status string) bool {
	return strings.EqualFold(strings.TrimSpace(status), "accepted")
}
