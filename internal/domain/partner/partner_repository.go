package partner

import (
	"context"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PartnerRepository defines the interface for partner persistence
type PartnerRepository interface {
	// FindByID finds a partner by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Partner, error)

	// FindByCode finds a partner by its unique code
	FindByCode(ctx context.Context, code string) (*Partner, error)

	// FindBySubject finds the partner bound to an identity-provider subject
	FindBySubject(ctx context.Context, subject string) (*Partner, error)

	// FindAll finds all partners matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Partner, error)

	// ExistsByCode checks whether a partner code is taken
	ExistsByCode(ctx context.Context, code string) (bool, error)

	// Save creates or updates a partner
	Save(ctx context.Context, partner *Partner) error

	// Delete deletes a partner
	Delete(ctx context.Context, id uuid.UUID) error
}
