package partner

import (
	"time"

	"github.com/crm/backend/internal/domain/partner"
	"github.com/google/uuid"
)

// CreatePartnerRequest onboards a partner, optionally bound to an identity subject
type CreatePartnerRequest struct {
	IdentitySubject string `json:"identity_subject" binding:"max=200"`
	Code            string `json:"code" binding:"required,min=1,max=50"`
	Name            string `json:"name" binding:"required,min=1,max=200"`
	Email           string `json:"email" binding:"omitempty,email,max=200"`
}

// UpdatePartnerRequest replaces a partner's fields
type UpdatePartnerRequest struct {
	Code     string `json:"code" binding:"required,min=1,max=50"`
	Name     string `json:"name" binding:"required,min=1,max=200"`
	Email    string `json:"email" binding:"omitempty,email,max=200"`
	IsActive bool   `json:"is_active"`
}

// PartnerResponse represents a partner in API responses
type PartnerResponse struct {
	ID              uuid.UUID `json:"id"`
	Code            string    `json:"code"`
	Name            string    `json:"name"`
	Email           string    `json:"email,omitempty"`
	IdentitySubject *string   `json:"identity_subject,omitempty"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ToPartnerResponse converts a domain Partner to PartnerResponse
func ToPartnerResponse(p *partner.Partner) PartnerResponse {
	return PartnerResponse{
		ID:              p.ID,
		Code:            p.Code,
		Name:            p.Name,
		Email:           p.Email,
		IdentitySubject: p.IdentitySubject,
		IsActive:        p.IsActive,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// ToPartnerResponses converts a slice of partners
func ToPartnerResponses(partners []partner.Partner) []PartnerResponse {
	responses := make([]PartnerResponse, len(partners))
	for i := range partners {
		responses[i] = ToPartnerResponse(&partners[i])
	}
	return responses
}
