package services

import (
	"context"
	"crypto/cipher"
	"errors"
	"fmt"
	"strings"
	"time"

	"chatbot-admin/internal/crypto"
	"chatbot-admin/internal/id"
	"chatbot-admin/internal/integrations"
	"chatbot-admin/internal/logging"
	"chatbot-admin/internal/models"
	integration_models "chatbot-admin/internal/models/integrations"
	"chatbot-admin/internal/monitoring"
	"chatbot-admin/internal/store"
	"chatbot-admin/internal/validation"

	"github.com/rs/zerolog"
)

const (
	ActionTest       = "test"
	ActionDisconnect = "disconnect"
)

var saveIntegrationMessages = map[string]string{
	"chatbot_config_id.required": "Chatbot configuration is required.",
}

var integrationActionMessages = map[string]string{
	"action.required": "Action is required.",
	"action.oneof":    "Action must be either test or disconnect.",
}

// TesterRegistry resolves the connection tester for a service name.
type TesterRegistry interface {
	Get(serviceName string) (integrations.Integration, error)
}

// IntegrationService manages integration settings and their connection lifecycle.
type IntegrationService struct {
	store    store.Store
	aead     cipher.AEAD
	registry TesterRegistry
	now      func() time.Time
	logger   zerolog.Logger
}

// NewIntegrationService creates a new IntegrationService.
func NewIntegrationService(s store.Store, aead cipher.AEAD, registry TesterRegistry) *IntegrationService {
	return &IntegrationService{
		store:    s,
		aead:     aead,
		registry: registry,
		now:      time.Now,
		logger:   logging.NewLogger("integration-service"),
	}
}

// DeriveStatus is the save-time status: connected only when enabled with at least one credential.
func DeriveStatus(isEnabled bool, credentials map[string]string) models.IntegrationStatus {
	if isEnabled && len(credentials) > 0 {
		return models.IntegrationStatusConnected
	}
	return models.IntegrationStatusDisconnected
}

// ListIntegrations returns the config summary and its integration settings, latest first.
func (s *IntegrationService) ListIntegrations(ctx context.Context, configID int64) (*models.IntegrationListResponse, error) {
	c, err := getChatbotConfig(ctx, s.store, configID)
	if err != nil {
		return nil, err
	}
	settings, err := s.store.ListIntegrationsByConfig(ctx, configID)
	if err != nil {
		return nil, fmt.Errorf("failed to list integrations: %w", err)
	}
	return &models.IntegrationListResponse{
		ChatbotConfig: mapChatbotConfigToResponse(*c),
		Integrations:  mapIntegrationsToResponse(s.aead, settings),
	}, nil
}

// SaveIntegration upserts a setting keyed by (chatbot_config_id, service_name).
// Credentials are sealed before storage; an empty map clears them.
func (s *IntegrationService) SaveIntegration(ctx context.Context, req models.SaveIntegrationRequest) (*models.IntegrationListResponse, error) {
	req.ServiceName = strings.TrimSpace(req.ServiceName)
	req.DisplayName = strings.TrimSpace(req.DisplayName)

	errs := validation.Errors{}
	if err := validation.Struct(req, saveIntegrationMessages); err != nil {
		verrs, ok := validation.AsErrors(err)
		if !ok {
			return nil, err
		}
		errs = verrs
	}

	settings, ok := normalizeConfiguration(req.Settings)
	if !ok {
		errs.Add("settings", "The settings field must be an object.")
	}

	if req.ChatbotConfigID != 0 {
		if _, err := getChatbotConfig(ctx, s.store, req.ChatbotConfigID); err != nil {
			if !errors.Is(err, ErrChatbotNotFound) {
				return nil, err
			}
			errs.Add("chatbot_config_id", msgConfigExists)
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}

	var sealed []byte
	if len(req.Credentials) > 0 {
		var err error
		sealed, err = crypto.SealJSON(s.aead, integration_models.DecryptedCredentials(req.Credentials))
		if err != nil {
			s.logger.Error().Err(err).Str("service", req.ServiceName).Msg("sealing credentials")
			return nil, ErrCredentialEncryption
		}
	}

	status := DeriveStatus(*req.IsEnabled, req.Credentials)
	saved, err := s.store.UpsertIntegration(ctx, store.UpsertIntegrationParams{
		ID:                   id.New(),
		ChatbotConfigID:      req.ChatbotConfigID,
		ServiceName:          req.ServiceName,
		DisplayName:          req.DisplayName,
		IsEnabled:            *req.IsEnabled,
		EncryptedCredentials: sealed,
		Settings:             settings,
		Status:               status,
	})
	if err != nil {
		if errors.Is(err, store.ErrForeignKey) {
			return nil, validation.Field("chatbot_config_id", msgConfigExists)
		}
		return nil, fmt.Errorf("failed to save integration: %w", err)
	}
	monitoring.RecordIntegrationAction(saved.ServiceName, "save", string(saved.Status))

	s.logger.Info().
		Int64("integration_id", saved.ID).
		Int64("chatbot_config_id", saved.ChatbotConfigID).
		Str("service", saved.ServiceName).
		Str("status", string(saved.Status)).
		Msg("integration saved")

	return s.ListIntegrations(ctx, saved.ChatbotConfigID)
}

// RunAction applies a lifecycle action to one integration and returns its config's integrations.
func (s *IntegrationService) RunAction(ctx context.Context, integrationID int64, req models.IntegrationActionRequest) (*models.IntegrationListResponse, error) {
	if err := validation.Struct(req, integrationActionMessages); err != nil {
		return nil, err
	}

	setting, err := s.store.GetIntegration(ctx, integrationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrIntegrationNotFound
		}
		return nil, fmt.Errorf("failed to get integration: %w", err)
	}

	var params store.UpdateIntegrationStateParams
	switch req.Action {
	case ActionTest:
		params = s.testConnection(ctx, setting)
	case ActionDisconnect:
		disabled := false
		params = store.UpdateIntegrationStateParams{
			ID:        setting.ID,
			IsEnabled: &disabled,
			Status:    models.IntegrationStatusDisconnected,
		}
	}

	updated, err := s.store.UpdateIntegrationState(ctx, params)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrIntegrationNotFound
		}
		return nil, fmt.Errorf("failed to update integration state: %w", err)
	}
	monitoring.RecordIntegrationAction(updated.ServiceName, req.Action, string(updated.Status))

	s.logger.Info().
		Int64("integration_id", updated.ID).
		Str("service", updated.ServiceName).
		Str("action", req.Action).
		Str("status", string(updated.Status)).
		Msg("integration action applied")

	return s.ListIntegrations(ctx, updated.ChatbotConfigID)
}

// testConnection runs the service's tester and turns the outcome into a state update.
// Tester failures are recorded on the setting rather than returned.
func (s *IntegrationService) testConnection(ctx context.Context, setting *models.IntegrationSetting) store.UpdateIntegrationStateParams {
	failed := func(message string) store.UpdateIntegrationStateParams {
		return store.UpdateIntegrationStateParams{
			ID:           setting.ID,
			Status:       models.IntegrationStatusError,
			ErrorMessage: &message,
		}
	}

	creds := integration_models.DecryptedCredentials{}
	if len(setting.EncryptedCredentials) > 0 {
		if err := crypto.OpenJSON(s.aead, setting.EncryptedCredentials, &creds); err != nil {
			s.logger.Error().Err(err).Int64("integration_id", setting.ID).Msg("opening stored credentials")
			return failed("Connection failed: stored credentials could not be decrypted")
		}
	}

	tester, err := s.registry.Get(setting.ServiceName)
	if err != nil {
		return failed(fmt.Sprintf("Connection failed: %v", err))
	}

	result, err := tester.TestConnection(ctx, creds)
	if err != nil {
		s.logger.Error().Err(err).Str("service", setting.ServiceName).Msg("testing connection")
		return failed(fmt.Sprintf("Connection failed: %v", err))
	}
	if !result.Success {
		return failed(result.Message)
	}

	now := s.now().UTC()
	return store.UpdateIntegrationStateParams{
		ID:         setting.ID,
		Status:     models.IntegrationStatusConnected,
		LastSyncAt: &now,
	}
}
