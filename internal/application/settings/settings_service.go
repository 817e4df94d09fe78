package settings

import (
	"context"

	"github.com/crm/backend/internal/domain/integration"
	"github.com/crm/backend/internal/domain/settings"
	"go.uber.org/zap"
)

// SettingsService reads and updates the admin settings
type SettingsService struct {
	repo        settings.Repository
	keyProvider integration.APIKeyProvider
	logger      *zap.Logger
}

// NewSettingsService creates a new SettingsService. keyProvider may be nil.
func NewSettingsService(repo settings.Repository, keyProvider integration.APIKeyProvider, logger *zap.Logger) *SettingsService {
	return &SettingsService{
		repo:        repo,
		keyProvider: keyProvider,
		logger:      logger,
	}
}

// Get returns the stored settings or the defaults
func (s *SettingsService) Get(ctx context.Context) (*SettingsResponse, error) {
	current, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	resp := ToSettingsResponse(current)
	return &resp, nil
}

// LegalLinks returns the public legal URLs
func (s *SettingsService) LegalLinks(ctx context.Context) (*LegalLinksResponse, error) {
	current, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	return &LegalLinksResponse{
		PrivacyPolicyURL:  current.PrivacyPolicyURL,
		TermsURL:          current.TermsURL,
		DataProcessingURL: current.DataProcessingURL,
		ImprintURL:        current.ImprintURL,
	}, nil
}

// Update stores new settings and refreshes the ledger key when it changed
func (s *SettingsService) Update(ctx context.Context, req UpdateSettingsRequest) (*SettingsResponse, error) {
	current, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	keyChanged, err := current.Apply(req.toChanges())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, current); err != nil {
		return nil, err
	}

	if keyChanged && s.keyProvider != nil {
		if err := s.keyProvider.Refresh(ctx); err != nil {
			s.logger.Warn("Failed to refresh ledger API key", zap.Error(err))
		}
	}
	s.logger.Info("Admin settings updated", zap.Bool("ledger_key_changed", keyChanged))

	resp := ToSettingsResponse(current)
	return &resp, nil
}
