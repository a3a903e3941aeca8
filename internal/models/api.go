package models

import (
	"encoding/json"
	"time"
)

// --- Request Structs ---

// SignupRequest defines the expected body for the signup endpoint.
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest defines the expected body for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// VerifyEmailRequest carries the token issued at signup.
type VerifyEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

// ChatbotConfigRequest is used for both create and update of a chatbot configuration.
// Only these fields are mutable.
type ChatbotConfigRequest struct {
	Name              string   `json:"name" validate:"required,max=255"`
	Description       *string  `json:"description" validate:"omitempty,max=1000"`
	AvatarURL         *string  `json:"avatar_url" validate:"omitempty,url,max=255"`
	GreetingMessage   *string  `json:"greeting_message" validate:"omitempty,max=500"`
	FallbackMessage   *string  `json:"fallback_message" validate:"omitempty,max=500"`
	PersonalityTraits []string `json:"personality_traits" validate:"omitempty,dive,max=50"`
	Status            string   `json:"status" validate:"required,oneof=active inactive"`
}

// UploadDocumentRequest holds the non-file form fields of a document upload.
// The config id stays a string so a malformed value is reported as a field error.
type UploadDocumentRequest struct {
	ChatbotConfigID string `json:"chatbot_config_id" validate:"required"`
	Title           string `json:"title" validate:"required,max=255"`
}

// ToggleToolRequest enables or disables a catalog tool for a chatbot.
type ToggleToolRequest struct {
	ChatbotConfigID int64           `json:"chatbot_config_id,string" validate:"required"`
	ChatbotToolID   int64           `json:"chatbot_tool_id,string" validate:"required"`
	IsEnabled       *bool           `json:"is_enabled" validate:"required"`
	Configuration   json.RawMessage `json:"configuration,omitempty"`
}

// SaveIntegrationRequest creates or updates an integration setting.
// Credentials are only accepted here and never returned.
type SaveIntegrationRequest struct {
	ChatbotConfigID int64             `json:"chatbot_config_id,string" validate:"required"`
	ServiceName     string            `json:"service_name" validate:"required,max=255"`
	DisplayName     string            `json:"display_name" validate:"required,max=255"`
	IsEnabled       *bool             `json:"is_enabled" validate:"required"`
	Credentials     map[string]string `json:"credentials,omitempty"`
	Settings        json.RawMessage   `json:"settings,omitempty"`
}

// IntegrationActionRequest triggers a lifecycle action on an integration setting.
type IntegrationActionRequest struct {
	Action string `json:"action" validate:"required,oneof=test disconnect"`
}

// --- Response Structs ---

// UserResponse defines the user information returned by the API.
type UserResponse struct {
	ID              int64      `json:"id,string"`
	Email           string     `json:"email"`
	EmailVerifiedAt *time.Time `json:"email_verified_at"`
	CreatedAt       time.Time  `json:"created_at"`
}

// AuthResponse defines the response body for successful authentication.
type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	User        UserResponse `json:"user"`
}

// SignupResponse is returned after account creation.
type SignupResponse struct {
	User                 UserResponse `json:"user"`
	VerificationRequired bool         `json:"verification_required"`
}

// ErrorResponse defines the standard structure for API errors.
type ErrorResponse struct {
	Error  string              `json:"error"`
	Fields map[string][]string `json:"fields,omitempty"`
}

// HealthResponse is returned by the liveness probe.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// WelcomeResponse is the public landing document.
type WelcomeResponse struct {
	Name        string `json:"name"`
	CanLogin    bool   `json:"can_login"`
	CanRegister bool   `json:"can_register"`
}

// ChatbotConfigResponse is a chatbot configuration with optional eager-loaded children.
type ChatbotConfigResponse struct {
	ID                  int64                        `json:"id,string"`
	Name                string                       `json:"name"`
	Description         *string                      `json:"description"`
	AvatarURL           *string                      `json:"avatar_url"`
	GreetingMessage     *string                      `json:"greeting_message"`
	FallbackMessage     *string                      `json:"fallback_message"`
	PersonalityTraits   []string                     `json:"personality_traits"`
	Status              ChatbotStatus                `json:"status"`
	CreatedAt           time.Time                    `json:"created_at"`
	UpdatedAt           time.Time                    `json:"updated_at"`
	Documents           []DocumentResponse           `json:"knowledge_base_documents,omitempty"`
	ToolConfigs         []ToolConfigResponse         `json:"tool_configs,omitempty"`
	IntegrationSettings []IntegrationSettingResponse `json:"integration_settings,omitempty"`
}

// ChatbotConfigDetailResponse is the single-config view, including the tool catalog.
type ChatbotConfigDetailResponse struct {
	ChatbotConfig  ChatbotConfigResponse `json:"chatbot_config"`
	AvailableTools []ToolResponse        `json:"available_tools"`
}

// DocumentResponse describes a knowledge base document.
type DocumentResponse struct {
	ID              int64           `json:"id,string"`
	ChatbotConfigID int64           `json:"chatbot_config_id,string"`
	Title           string          `json:"title"`
	Filename        string          `json:"filename"`
	FileType        string          `json:"file_type"`
	FileSize        int64           `json:"file_size"`
	Content         *string         `json:"content"`
	Metadata        json.RawMessage `json:"metadata,omitempty"`
	Status          DocumentStatus  `json:"status"`
	ErrorMessage    *string         `json:"error_message"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// DocumentListResponse is the knowledge base view of one chatbot.
type DocumentListResponse struct {
	ChatbotConfig ChatbotConfigResponse `json:"chatbot_config"`
	Documents     []DocumentResponse    `json:"documents"`
}

// ToolResponse describes a catalog tool.
type ToolResponse struct {
	ID             int64     `json:"id,string"`
	Name           string    `json:"name"`
	DisplayName    string    `json:"display_name"`
	Description    *string   `json:"description"`
	Icon           *string   `json:"icon"`
	Category       string    `json:"category"`
	RequiredConfig []string  `json:"required_config"`
	OptionalConfig []string  `json:"optional_config"`
	IsAvailable    bool      `json:"is_available"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ToolConfigResponse describes one chatbot's configuration of a tool.
type ToolConfigResponse struct {
	ID              int64           `json:"id,string"`
	ChatbotConfigID int64           `json:"chatbot_config_id,string"`
	ChatbotToolID   int64           `json:"chatbot_tool_id,string"`
	IsEnabled       bool            `json:"is_enabled"`
	Configuration   json.RawMessage `json:"configuration"`
	Tool            *ToolResponse   `json:"tool,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ToolWithConfigResponse is a catalog tool paired with a chatbot's configuration of it, if any.
type ToolWithConfigResponse struct {
	ToolResponse
	ToolConfig *ToolConfigResponse `json:"tool_config"`
}

// ToolListResponse is the tools view of one chatbot.
type ToolListResponse struct {
	ChatbotConfig ChatbotConfigResponse    `json:"chatbot_config"`
	Tools         []ToolWithConfigResponse `json:"tools"`
}

// IntegrationSettingResponse describes an integration. Secrets are reduced to their key names.
type IntegrationSettingResponse struct {
	ID              int64             `json:"id,string"`
	ChatbotConfigID int64             `json:"chatbot_config_id,string"`
	ServiceName     string            `json:"service_name"`
	DisplayName     string            `json:"display_name"`
	IsEnabled       bool              `json:"is_enabled"`
	CredentialKeys  []string          `json:"credential_keys"`
	Settings        json.RawMessage   `json:"settings"`
	LastSyncAt      *time.Time        `json:"last_sync_at"`
	Status          IntegrationStatus `json:"status"`
	ErrorMessage    *string           `json:"error_message"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// IntegrationListResponse is the integrations view of one chatbot.
type IntegrationListResponse struct {
	ChatbotConfig ChatbotConfigResponse        `json:"chatbot_config"`
	Integrations  []IntegrationSettingResponse `json:"integrations"`
}

// DashboardStats are the counters shown on the dashboard.
type DashboardStats struct {
	TotalChatbots         int64 `json:"total_chatbots"`
	ActiveChatbots        int64 `json:"active_chatbots"`
	TotalDocuments        int64 `json:"total_documents"`
	ReadyDocuments        int64 `json:"ready_documents"`
	AvailableTools        int64 `json:"available_tools"`
	ConnectedIntegrations int64 `json:"connected_integrations"`
}

// RecentChatbotResponse is a dashboard row for a recent chatbot.
type RecentChatbotResponse struct {
	ChatbotConfigResponse
	DocumentCount    int64 `json:"knowledge_base_documents_count"`
	IntegrationCount int64 `json:"integration_settings_count"`
}

// RecentDocumentResponse is a dashboard row for a recent document.
type RecentDocumentResponse struct {
	DocumentResponse
	ChatbotName string `json:"chatbot_name"`
}

// DashboardResponse is the dashboard rollup.
type DashboardResponse struct {
	Stats           DashboardStats           `json:"stats"`
	RecentChatbots  []RecentChatbotResponse  `json:"recent_chatbots"`
	RecentDocuments []RecentDocumentResponse `json:"recent_documents"`
}
