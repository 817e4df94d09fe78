// Package billing holds the local billing status shared by contacts and offers
// and the transition rules that gate changes to it.
//
// Billing status is tracked locally only and is distinct from the ledger voucher status.
// Contacts and offers share the New → Billed → Paid lattice but differ on one admin correction:
//   - Offer: an admin may move Paid back to Billed
//   - Contact: nobody may leave Paid
package billing
