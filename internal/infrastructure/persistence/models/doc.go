// Package models contains GORM persistence models that map to database tables.
// Domain entities stay free of ORM tags; each model converts with ToDomain and
// a <Name>ModelFromDomain constructor.
//
// Files:
//   - base.go: BaseModel and AggregateModel shared columns
//   - partner.go: partners
//   - contact.go: contacts with embedded address, channel and consent columns
//   - quote.go: quote_requests, offers, application_types
//   - settings.go: the admin_settings singleton row
package models
