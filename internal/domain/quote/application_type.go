package quote

import (
	"strings"
	"time"

	"github.com/crm/backend/internal/domain/shared"
)

// ApplicationType labels offers, e.g. by product line
type ApplicationType struct {
	shared.BaseAggregateRoot
	Name        string
	Description string
}

// NewApplicationType creates a new application type
func NewApplicationType(name, description string) (*ApplicationType, error) {
	name, err := validateApplicationTypeName(name)
	if err != nil {
		return nil, err
	}
	return &ApplicationType{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Description:       strings.TrimSpace(description),
	}, nil
}

// Update renames the application type
func (a *ApplicationType) Update(name, description string) error {
	name, err := validateApplicationTypeName(name)
	if err != nil {
		return err
	}
	a.Name = name
	a.Description = strings.TrimSpace(description)
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}

func validateApplicationTypeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", shared.NewDomainError(shared.CodeInvalidInput, "Application type name cannot be empty")
	}
	if len(name) > 100 {
		return "", shared.NewDomainError(shared.CodeInvalidInput, "Application type name cannot exceed 100 characters")
	}
	return name, nil
}
