package models

import (
	"encoding/json"
	"time"
)

// ChatbotStatus is the lifecycle flag of a chatbot configuration.
type ChatbotStatus string

const (
	ChatbotStatusActive   ChatbotStatus = "active"
	ChatbotStatusInactive ChatbotStatus = "inactive"
)

// DocumentStatus tracks a knowledge base document through extraction.
type DocumentStatus string

const (
	DocumentStatusProcessing DocumentStatus = "processing"
	DocumentStatusReady      DocumentStatus = "ready"
	DocumentStatusError      DocumentStatus = "error"
)

// IntegrationStatus is the connection state of an integration setting.
type IntegrationStatus string

const (
	IntegrationStatusConnected    IntegrationStatus = "connected"
	IntegrationStatusDisconnected IntegrationStatus = "disconnected"
	IntegrationStatusError        IntegrationStatus = "error"
)

// User represents an operator account.
type User struct {
	ID              int64      `db:"id"`
	Email           string     `db:"email"`
	HashedPassword  string     `db:"hashed_password"`
	EmailVerifiedAt *time.Time `db:"email_verified_at"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
}

// IsVerified reports whether the user's email address has been confirmed.
func (u *User) IsVerified() bool {
	return u.EmailVerifiedAt != nil
}

// ChatbotConfig is the root settings record for one chatbot instance.
type ChatbotConfig struct {
	ID                int64         `db:"id"`
	Name              string        `db:"name"`
	Description       *string       `db:"description"`
	AvatarURL         *string       `db:"avatar_url"`
	GreetingMessage   *string       `db:"greeting_message"`
	FallbackMessage   *string       `db:"fallback_message"`
	PersonalityTraits []string      `db:"personality_traits"` // Stored as JSONB
	Status            ChatbotStatus `db:"status"`
	CreatedAt         time.Time     `db:"created_at"`
	UpdatedAt         time.Time     `db:"updated_at"`
}

// KnowledgeBaseDocument is an uploaded file owned by a chatbot configuration.
type KnowledgeBaseDocument struct {
	ID              int64           `db:"id"`
	ChatbotConfigID int64           `db:"chatbot_config_id"`
	Title           string          `db:"title"`
	Filename        string          `db:"filename"`
	FilePath        string          `db:"file_path"`
	FileType        string          `db:"file_type"`
	FileSize        int64           `db:"file_size"`
	Content         *string         `db:"content"`
	Metadata        json.RawMessage `db:"metadata"`
	Status          DocumentStatus  `db:"status"`
	ErrorMessage    *string         `db:"error_message"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
}

// ChatbotTool is a global catalog entry for a capability a chatbot can be granted.
type ChatbotTool struct {
	ID             int64     `db:"id"`
	Name           string    `db:"name"`
	DisplayName    string    `db:"display_name"`
	Description    *string   `db:"description"`
	Icon           *string   `db:"icon"`
	Category       string    `db:"category"`
	RequiredConfig []string  `db:"required_config"`
	OptionalConfig []string  `db:"optional_config"`
	IsAvailable    bool      `db:"is_available"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// ChatbotToolConfig binds a catalog tool to one chatbot configuration.
type ChatbotToolConfig struct {
	ID              int64           `db:"id"`
	ChatbotConfigID int64           `db:"chatbot_config_id"`
	ChatbotToolID   int64           `db:"chatbot_tool_id"`
	IsEnabled       bool            `db:"is_enabled"`
	Configuration   json.RawMessage `db:"configuration"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
}

// IntegrationSetting holds connection state for one external service of a chatbot.
type IntegrationSetting struct {
	ID                   int64             `db:"id"`
	ChatbotConfigID      int64             `db:"chatbot_config_id"`
	ServiceName          string            `db:"service_name"`
	DisplayName          string            `db:"display_name"`
	IsEnabled            bool              `db:"is_enabled"`
	EncryptedCredentials []byte            `db:"credentials"` // {"encrypted": "<base64>"} wrapper or nil
	Settings             json.RawMessage   `db:"settings"`
	LastSyncAt           *time.Time        `db:"last_sync_at"`
	Status               IntegrationStatus `db:"status"`
	ErrorMessage         *string           `db:"error_message"`
	CreatedAt            time.Time         `db:"created_at"`
	UpdatedAt            time.Time         `db:"updated_at"`
}

// DashboardCounts is the aggregate rollup shown on the dashboard.
type DashboardCounts struct {
	TotalChatbots         int64
	ActiveChatbots        int64
	TotalDocuments        int64
	ReadyDocuments        int64
	AvailableTools        int64
	ConnectedIntegrations int64
}

// RecentChatbot is a recently created config with child counts.
type RecentChatbot struct {
	ChatbotConfig
	DocumentCount    int64
	IntegrationCount int64
}

// RecentDocument is a recently uploaded document with its owner's name.
type RecentDocument struct {
	KnowledgeBaseDocument
	ChatbotName string
}
