// Package quote contains the quote bounded context.
//
// Key aggregates:
//   - QuoteRequest: one contact's ask for pricing, optionally selecting a winning Offer
//   - Offer: a quotation mirrored into the ledger system and reconciled against it
//   - ApplicationType: a label attached to offers
//
// The ledger owns the authoritative quotation document. An Offer keeps a cached copy
// (LedgerQuote) that sync operations refresh or clear.
package quote
