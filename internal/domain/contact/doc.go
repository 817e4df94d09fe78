// Package contact contains the Contact bounded context.
//
// A Contact is a prospective or existing customer. It may be mirrored into the
// ledger system; the mirror is an optional foreign key (LedgerContactID) that is
// only ever assigned after a successful remote create.
package contact
