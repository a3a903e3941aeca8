package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"chatbot-admin/internal/id"
	"chatbot-admin/internal/logging"
	"chatbot-admin/internal/models"
	"chatbot-admin/internal/monitoring"
	"chatbot-admin/internal/store"
	"chatbot-admin/internal/validation"

	"github.com/rs/zerolog"
)

var toggleToolMessages = map[string]string{
	"chatbot_config_id.required": "Chatbot configuration is required.",
	"chatbot_tool_id.required":   "Tool is required.",
	"is_enabled.required":        "The is enabled field is required.",
}

// ToolService manages the tool catalog and per-chatbot tool configuration.
type ToolService struct {
	store  store.Store
	logger zerolog.Logger
}

// NewToolService creates a new ToolService.
func NewToolService(s store.Store) *ToolService {
	return &ToolService{
		store:  s,
		logger: logging.NewLogger("tool-service"),
	}
}

// ListToolsForConfig returns every available tool, each with the config's ToolConfig if one exists.
func (s *ToolService) ListToolsForConfig(ctx context.Context, configID int64) (*models.ToolListResponse, error) {
	c, err := getChatbotConfig(ctx, s.store, configID)
	if err != nil {
		return nil, err
	}

	tools, err := s.store.ListTools(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}
	configs, err := s.store.ListToolConfigsByConfig(ctx, configID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tool configs: %w", err)
	}

	byTool := make(map[int64]models.ChatbotToolConfig, len(configs))
	for _, tc := range configs {
		byTool[tc.ChatbotToolID] = tc
	}

	resp := &models.ToolListResponse{
		ChatbotConfig: mapChatbotConfigToResponse(*c),
		Tools:         make([]models.ToolWithConfigResponse, len(tools)),
	}
	for i, t := range tools {
		item := models.ToolWithConfigResponse{ToolResponse: mapToolToResponse(t)}
		if tc, ok := byTool[t.ID]; ok {
			tcResp := mapToolConfigToResponse(tc, nil)
			item.ToolConfig = &tcResp
		}
		resp.Tools[i] = item
	}
	return resp, nil
}

// ToggleTool upserts the (config, tool) pair. Configuration is stored verbatim and defaults to {}.
func (s *ToolService) ToggleTool(ctx context.Context, req models.ToggleToolRequest) (*models.ToolListResponse, error) {
	errs := validation.Errors{}
	if err := validation.Struct(req, toggleToolMessages); err != nil {
		verrs, ok := validation.AsErrors(err)
		if !ok {
			return nil, err
		}
		errs = verrs
	}

	configuration, ok := normalizeConfiguration(req.Configuration)
	if !ok {
		errs.Add("configuration", "The configuration field must be an object.")
	}

	if req.ChatbotConfigID != 0 {
		if _, err := getChatbotConfig(ctx, s.store, req.ChatbotConfigID); err != nil {
			if !errors.Is(err, ErrChatbotNotFound) {
				return nil, err
			}
			errs.Add("chatbot_config_id", msgConfigExists)
		}
	}

	var tool *models.ChatbotTool
	if req.ChatbotToolID != 0 {
		t, err := s.store.GetTool(ctx, req.ChatbotToolID)
		switch {
		case errors.Is(err, store.ErrNotFound):
			errs.Add("chatbot_tool_id", "Selected tool does not exist.")
		case err != nil:
			return nil, fmt.Errorf("failed to get tool: %w", err)
		default:
			tool = t
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}

	tc, err := s.store.UpsertToolConfig(ctx, store.UpsertToolConfigParams{
		ID:              id.New(),
		ChatbotConfigID: req.ChatbotConfigID,
		ChatbotToolID:   req.ChatbotToolID,
		IsEnabled:       *req.IsEnabled,
		Configuration:   configuration,
	})
	if err != nil {
		if errors.Is(err, store.ErrForeignKey) {
			return nil, validation.Field("chatbot_config_id", msgConfigExists)
		}
		return nil, fmt.Errorf("failed to save tool config: %w", err)
	}
	monitoring.RecordToolToggle(tool.Name, tc.IsEnabled)

	s.logger.Info().
		Int64("chatbot_config_id", tc.ChatbotConfigID).
		Str("tool", tool.Name).
		Bool("enabled", tc.IsEnabled).
		Msg("tool toggled")

	return s.ListToolsForConfig(ctx, req.ChatbotConfigID)
}

// normalizeConfiguration maps an absent or null configuration to {} and rejects anything but an object.
func normalizeConfiguration(raw json.RawMessage) (json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return emptyObject, true
	}
	var obj map[string]any
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, false
	}
	return trimmed, true
}

// SeedCatalog upserts the built-in tool catalog by name.
func (s *ToolService) SeedCatalog(ctx context.Context) (int, error) {
	for _, t := range ToolCatalog {
		params := t
		params.ID = id.New()
		if _, err := s.store.UpsertTool(ctx, params); err != nil {
			return 0, fmt.Errorf("seeding tool %s: %w", t.Name, err)
		}
	}
	s.logger.Info().Int("tools", len(ToolCatalog)).Msg("tool catalog seeded")
	return len(ToolCatalog), nil
}
