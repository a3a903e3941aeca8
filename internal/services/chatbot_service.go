package services

import (
	"context"
	"crypto/cipher"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"chatbot-admin/internal/id"
	"chatbot-admin/internal/integrations"
	"chatbot-admin/internal/logging"
	"chatbot-admin/internal/models"
	"chatbot-admin/internal/monitoring"
	"chatbot-admin/internal/store"
	"chatbot-admin/internal/validation"

	"github.com/rs/zerolog"
)

var chatbotMessages = map[string]string{
	"name.required":            "Chatbot name is required.",
	"name.max":                 "Chatbot name cannot exceed 255 characters.",
	"description.max":          "Description cannot exceed 1000 characters.",
	"avatar_url.url":           "Avatar URL must be a valid URL.",
	"greeting_message.max":     "Greeting message cannot exceed 500 characters.",
	"fallback_message.max":     "Fallback message cannot exceed 500 characters.",
	"status.required":          "Status is required.",
	"status.oneof":             "Status must be either active or inactive.",
	"personality_traits.*.max": "Each personality trait cannot exceed 50 characters.",
}

// DirRemover deletes every stored file under a key prefix.
type DirRemover interface {
	DeleteDir(prefix string) error
}

// ChatbotService handles business logic related to chatbot configurations.
type ChatbotService struct {
	store  store.Store
	files  DirRemover
	aead   cipher.AEAD
	logger zerolog.Logger
}

// NewChatbotService creates a new ChatbotService.
func NewChatbotService(s store.Store, files DirRemover, aead cipher.AEAD) *ChatbotService {
	return &ChatbotService{
		store:  s,
		files:  files,
		aead:   aead,
		logger: logging.NewLogger("chatbot-service"),
	}
}

// documentDir is the storage prefix holding a config's uploaded files.
func documentDir(configID int64) string {
	return "knowledge-base/" + strconv.FormatInt(configID, 10)
}

// getChatbotConfig loads a config, translating a missing row into ErrChatbotNotFound.
func getChatbotConfig(ctx context.Context, s store.Store, configID int64) (*models.ChatbotConfig, error) {
	c, err := s.GetChatbotConfig(ctx, configID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrChatbotNotFound
		}
		return nil, fmt.Errorf("failed to get chatbot config: %w", err)
	}
	return c, nil
}

// emptyToNil drops blank optional strings so they are stored as NULL.
func emptyToNil(v *string) *string {
	if v == nil || *v == "" {
		return nil
	}
	return v
}

// trimChatbotRequest trims the name and every optional string, so whitespace-only values count as blank.
func trimChatbotRequest(req *models.ChatbotConfigRequest) {
	req.Name = strings.TrimSpace(req.Name)
	req.Status = strings.TrimSpace(req.Status)
	for _, v := range []**string{&req.Description, &req.AvatarURL, &req.GreetingMessage, &req.FallbackMessage} {
		if *v != nil {
			trimmed := strings.TrimSpace(**v)
			*v = &trimmed
		}
	}
}

// validateChatbotRequest treats blank optional strings as absent, so "" passes the url rule.
func validateChatbotRequest(req models.ChatbotConfigRequest) error {
	req.Description = emptyToNil(req.Description)
	req.AvatarURL = emptyToNil(req.AvatarURL)
	req.GreetingMessage = emptyToNil(req.GreetingMessage)
	req.FallbackMessage = emptyToNil(req.FallbackMessage)
	return validation.Struct(req, chatbotMessages)
}

// ListChatbotConfigs returns all configs latest first, each with its documents, tool configs and integrations.
func (s *ChatbotService) ListChatbotConfigs(ctx context.Context) ([]models.ChatbotConfigResponse, error) {
	configs, err := s.store.ListChatbotConfigs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list chatbot configs: %w", err)
	}
	return s.withChildren(ctx, configs)
}

// withChildren eager-loads children for all configs with one query per child table.
func (s *ChatbotService) withChildren(ctx context.Context, configs []models.ChatbotConfig) ([]models.ChatbotConfigResponse, error) {
	resp := make([]models.ChatbotConfigResponse, len(configs))
	if len(configs) == 0 {
		return resp, nil
	}

	ids := make([]int64, len(configs))
	for i, c := range configs {
		ids[i] = c.ID
	}

	docs, err := s.store.ListDocumentsByConfig(ctx, ids...)
	if err != nil {
		return nil, fmt.Errorf("failed to load documents: %w", err)
	}
	toolConfigs, err := s.store.ListToolConfigsByConfig(ctx, ids...)
	if err != nil {
		return nil, fmt.Errorf("failed to load tool configs: %w", err)
	}
	settings, err := s.store.ListIntegrationsByConfig(ctx, ids...)
	if err != nil {
		return nil, fmt.Errorf("failed to load integrations: %w", err)
	}
	tools, err := s.store.ListTools(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to load tools: %w", err)
	}

	toolsByID := make(map[int64]*models.ChatbotTool, len(tools))
	for i := range tools {
		toolsByID[tools[i].ID] = &tools[i]
	}

	index := make(map[int64]int, len(configs))
	for i, c := range configs {
		r := mapChatbotConfigToResponse(c)
		r.Documents = []models.DocumentResponse{}
		r.ToolConfigs = []models.ToolConfigResponse{}
		r.IntegrationSettings = []models.IntegrationSettingResponse{}
		resp[i] = r
		index[c.ID] = i
	}
	for _, d := range docs {
		if i, ok := index[d.ChatbotConfigID]; ok {
			resp[i].Documents = append(resp[i].Documents, mapDocumentToResponse(d))
		}
	}
	for _, tc := range toolConfigs {
		if i, ok := index[tc.ChatbotConfigID]; ok {
			resp[i].ToolConfigs = append(resp[i].ToolConfigs, mapToolConfigToResponse(tc, toolsByID[tc.ChatbotToolID]))
		}
	}
	for _, is := range settings {
		if i, ok := index[is.ChatbotConfigID]; ok {
			resp[i].IntegrationSettings = append(resp[i].IntegrationSettings, mapIntegrationToResponse(s.aead, is))
		}
	}
	return resp, nil
}

// CreateChatbotConfig validates req and creates the config together with its default integrations.
func (s *ChatbotService) CreateChatbotConfig(ctx context.Context, req models.ChatbotConfigRequest) (*models.ChatbotConfigResponse, error) {
	trimChatbotRequest(&req)
	if err := validateChatbotRequest(req); err != nil {
		return nil, err
	}

	status := models.ChatbotStatus(req.Status)
	params := store.ChatbotConfigParams{
		ID:                id.New(),
		Name:              &req.Name,
		Description:       emptyToNil(req.Description),
		AvatarURL:         emptyToNil(req.AvatarURL),
		GreetingMessage:   emptyToNil(req.GreetingMessage),
		FallbackMessage:   emptyToNil(req.FallbackMessage),
		PersonalityTraits: req.PersonalityTraits,
		Status:            &status,
	}

	defaults := make([]store.DefaultIntegrationParams, len(integrations.DefaultServices))
	for i, d := range integrations.DefaultServices {
		defaults[i] = store.DefaultIntegrationParams{
			ID:          id.New(),
			ServiceName: d.ServiceName,
			DisplayName: d.DisplayName,
		}
	}

	created, err := s.store.CreateChatbotConfig(ctx, params, defaults)
	if err != nil {
		return nil, fmt.Errorf("failed to create chatbot config: %w", err)
	}
	monitoring.RecordChatbotCreated()

	s.logger.Info().Int64("chatbot_config_id", created.ID).Str("name", created.Name).Msg("chatbot config created")
	resp := mapChatbotConfigToResponse(*created)
	return &resp, nil
}

// GetChatbotConfig returns one config with all children plus the catalog of available tools.
func (s *ChatbotService) GetChatbotConfig(ctx context.Context, configID int64) (*models.ChatbotConfigDetailResponse, error) {
	c, err := getChatbotConfig(ctx, s.store, configID)
	if err != nil {
		return nil, err
	}

	loaded, err := s.withChildren(ctx, []models.ChatbotConfig{*c})
	if err != nil {
		return nil, err
	}

	available, err := s.store.ListTools(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list available tools: %w", err)
	}
	tools := make([]models.ToolResponse, len(available))
	for i, t := range available {
		tools[i] = mapToolToResponse(t)
	}

	return &models.ChatbotConfigDetailResponse{
		ChatbotConfig:  loaded[0],
		AvailableTools: tools,
	}, nil
}

// UpdateChatbotConfig writes the mutable fields of req. Absent optional fields keep their value.
func (s *ChatbotService) UpdateChatbotConfig(ctx context.Context, configID int64, req models.ChatbotConfigRequest) (*models.ChatbotConfigResponse, error) {
	trimChatbotRequest(&req)
	if err := validateChatbotRequest(req); err != nil {
		return nil, err
	}

	status := models.ChatbotStatus(req.Status)
	updated, err := s.store.UpdateChatbotConfig(ctx, store.ChatbotConfigParams{
		ID:                configID,
		Name:              &req.Name,
		Description:       req.Description,
		AvatarURL:         req.AvatarURL,
		GreetingMessage:   req.GreetingMessage,
		FallbackMessage:   req.FallbackMessage,
		PersonalityTraits: req.PersonalityTraits,
		Status:            &status,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrChatbotNotFound
		}
		return nil, fmt.Errorf("failed to update chatbot config: %w", err)
	}

	s.logger.Info().Int64("chatbot_config_id", updated.ID).Msg("chatbot config updated")
	resp := mapChatbotConfigToResponse(*updated)
	return &resp, nil
}

// DeleteChatbotConfig removes the config, its child rows (by cascade) and its stored files.
func (s *ChatbotService) DeleteChatbotConfig(ctx context.Context, configID int64) error {
	if err := s.store.DeleteChatbotConfig(ctx, configID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrChatbotNotFound
		}
		return fmt.Errorf("failed to delete chatbot config: %w", err)
	}
	monitoring.RecordChatbotDeleted()

	if s.files != nil {
		if err := s.files.DeleteDir(documentDir(configID)); err != nil {
			s.logger.Warn().Err(err).Int64("chatbot_config_id", configID).Msg("removing stored documents")
		}
	}

	s.logger.Info().Int64("chatbot_config_id", configID).Msg("chatbot config deleted")
	return nil
}

// SampleChatbot is the demo configuration written by the seed command.
var SampleChatbot = models.ChatbotConfigRequest{
	Name:              "AI Assistant",
	Description:       strPtr("A helpful AI assistant with access to various tools and integrations."),
	GreetingMessage:   strPtr("Hello! I'm your AI assistant. I can help you with calendar management, data analysis, sending messages, and much more. How can I assist you today?"),
	FallbackMessage:   strPtr("I'm sorry, I don't understand that request. Could you please rephrase it or ask me something else?"),
	PersonalityTraits: []string{"helpful", "professional", "efficient", "friendly"},
	Status:            string(models.ChatbotStatusActive),
}

func strPtr(s string) *string { return &s }

// SeedSampleChatbot creates SampleChatbot unless a config with its name exists.
func (s *ChatbotService) SeedSampleChatbot(ctx context.Context) (bool, error) {
	configs, err := s.store.ListChatbotConfigs(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to list chatbot configs: %w", err)
	}
	for _, c := range configs {
		if c.Name == SampleChatbot.Name {
			return false, nil
		}
	}
	if _, err := s.CreateChatbotConfig(ctx, SampleChatbot); err != nil {
		return false, err
	}
	return true, nil
}
