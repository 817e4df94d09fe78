package models

import (
	"github.com/crm/backend/internal/domain/partner"
)

// PartnerModel is the persistence model for the Partner aggregate
type PartnerModel struct {
	AggregateModel
	Code            string  `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name            string  `gorm:"type:varchar(200);not null"`
	Email           string  `gorm:"type:varchar(320)"`
	IdentitySubject *string `gorm:"type:varchar(200);uniqueIndex"`
	IsActive        bool    `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (PartnerModel) TableName() string {
	return "partners"
}

// ToDomain converts the model to a domain Partner
func (m *PartnerModel) ToDomain() *partner.Partner {
	return &partner.Partner{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Code:              m.Code,
		Name:              m.Name,
		Email:             m.Email,
		IdentitySubject:   m.IdentitySubject,
		IsActive:          m.IsActive,
	}
}

// PartnerModelFromDomain creates a persistence model from a domain Partner
func PartnerModelFromDomain(p *partner.Partner) *PartnerModel {
	m := &PartnerModel{
		Code:            p.Code,
		Name:            p.Name,
		Email:           p.Email,
		IdentitySubject: p.IdentitySubject,
		IsActive:        p.IsActive,
	}
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	return m
}
