package partner

import (
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/crm/backend/internal/domain/shared"
)

var partnerCodePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Partner is a referral or reseller identity.
// Contacts reference a partner by its code, never by ID.
type Partner struct {
	shared.BaseAggregateRoot
	Code            string
	Name            string
	Email           string
	IdentitySubject *string // subject id from the identity provider
	IsActive        bool
}

// NewPartner creates an active partner
func NewPartner(code, name, email string) (*Partner, error) {
	code = strings.TrimSpace(code)
	if err := validatePartnerCode(code); err != nil {
		return nil, err
	}
	if err := validatePartnerName(name); err != nil {
		return nil, err
	}
	if err := validatePartnerEmail(email); err != nil {
		return nil, err
	}

	p := &Partner{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              strings.TrimSpace(name),
		Email:             strings.TrimSpace(email),
		IsActive:          true,
	}
	p.AddDomainEvent(NewPartnerCreatedEvent(p))
	return p, nil
}

// BindIdentity links the partner to an identity-provider subject
func (p *Partner) BindIdentity(subject string) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		p.IdentitySubject = nil
	} else {
		p.IdentitySubject = &subject
	}
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Update replaces the partner's mutable fields
func (p *Partner) Update(code, name, email string, active bool) error {
	code = strings.TrimSpace(code)
	if err := validatePartnerCode(code); err != nil {
		return err
	}
	if err := validatePartnerName(name); err != nil {
		return err
	}
	if err := validatePartnerEmail(email); err != nil {
		return err
	}

	p.Code = code
	p.Name = strings.TrimSpace(name)
	p.Email = strings.TrimSpace(email)
	p.IsActive = active
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewPartnerUpdatedEvent(p))
	return nil
}

func validatePartnerCode(code string) error {
	if code == "" {
		return shared.NewDomainError(shared.CodeInvalidInput, "Partner code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Partner code cannot exceed 50 characters")
	}
	if !partnerCodePattern.MatchString(code) {
		return shared.NewDomainError(shared.CodeInvalidInput, "Partner code can only contain letters, digits, underscores and hyphens")
	}
	return nil
}

func validatePartnerName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError(shared.CodeInvalidInput, "Partner name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Partner name cannot exceed 200 characters")
	}
	return nil
}

func validatePartnerEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return shared.NewDomainError(shared.CodeInvalidInput, "Invalid partner email")
	}
	return nil
}
