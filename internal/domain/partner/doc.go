// Package partner contains the Partner bounded context: referral and reseller
// identities that contacts point at through a partner code.
package partner
