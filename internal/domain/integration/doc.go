// Package integration contains the port to the external ledger system.
//
// The ledger is the cloud invoicing service that becomes the system of record for
// contacts and quotations once they are created there. The domain only sees the
// LedgerClient capability defined here; adapters live in the infrastructure layer.
package integration
