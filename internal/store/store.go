package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"chatbot-admin/internal/models"
)

var (
	// ErrNotFound is returned when a specific record is not found.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a unique constraint is violated.
	ErrConflict = errors.New("record already exists")
	// ErrForeignKey is returned when a referenced record does not exist.
	ErrForeignKey = errors.New("referenced record does not exist")
)

// CreateUserParams contains parameters for creating a user.
type CreateUserParams struct {
	ID             int64
	Email          string
	HashedPassword string
}

// ChatbotConfigParams contains the writable columns of a chatbot configuration.
// Pointer fields are only written when non-nil on update.
type ChatbotConfigParams struct {
	ID                int64
	Name              *string
	Description       *string
	AvatarURL         *string
	GreetingMessage   *string
	FallbackMessage   *string
	PersonalityTraits []string // nil leaves the column untouched on update
	Status            *models.ChatbotStatus
}

// DefaultIntegrationParams describes an integration row seeded with a new chatbot.
type DefaultIntegrationParams struct {
	ID          int64
	ServiceName string
	DisplayName string
}

// CreateDocumentParams contains parameters for inserting a knowledge base document.
type CreateDocumentParams struct {
	ID              int64
	ChatbotConfigID int64
	Title           string
	Filename        string
	FilePath        string
	FileType        string
	FileSize        int64
	Content         *string
	Metadata        json.RawMessage
	Status          models.DocumentStatus
}

// CompleteDocumentParams resolves a processing document to a terminal state.
type CompleteDocumentParams struct {
	ID           int64
	Status       models.DocumentStatus
	Content      *string
	ErrorMessage *string
	Metadata     json.RawMessage // merged into existing metadata when non-nil
}

// UpsertToolParams describes a catalog tool keyed by name.
type UpsertToolParams struct {
	ID             int64
	Name           string
	DisplayName    string
	Description    string
	Icon           string
	Category       string
	RequiredConfig []string
	OptionalConfig []string
	IsAvailable    bool
}

// UpsertToolConfigParams contains parameters for enabling or configuring a tool for a chatbot.
type UpsertToolConfigParams struct {
	ID              int64 // used only when a new row is inserted
	ChatbotConfigID int64
	ChatbotToolID   int64
	IsEnabled       bool
	Configuration   json.RawMessage
}

// UpsertIntegrationParams contains parameters for saving an integration setting.
type UpsertIntegrationParams struct {
	ID                   int64 // used only when a new row is inserted
	ChatbotConfigID      int64
	ServiceName          string
	DisplayName          string
	IsEnabled            bool
	EncryptedCredentials []byte // nil stores SQL NULL
	Settings             json.RawMessage
	Status               models.IntegrationStatus
}

// UpdateIntegrationStateParams sets the connection state of an integration.
type UpdateIntegrationStateParams struct {
	ID           int64
	IsEnabled    *bool // nil leaves is_enabled unchanged
	Status       models.IntegrationStatus
	ErrorMessage *string
	LastSyncAt   *time.Time
}

// Store defines the interface for database operations.
type Store interface {
	// User operations
	CreateUser(ctx context.Context, arg CreateUserParams) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	MarkUserVerified(ctx context.Context, id int64, at time.Time) (*models.User, error)

	// Chatbot configuration operations
	CreateChatbotConfig(ctx context.Context, arg ChatbotConfigParams, defaults []DefaultIntegrationParams) (*models.ChatbotConfig, error)
	GetChatbotConfig(ctx context.Context, id int64) (*models.ChatbotConfig, error)
	ListChatbotConfigs(ctx context.Context) ([]models.ChatbotConfig, error)
	UpdateChatbotConfig(ctx context.Context, arg ChatbotConfigParams) (*models.ChatbotConfig, error)
	DeleteChatbotConfig(ctx context.Context, id int64) error

	// Knowledge base document operations
	CreateDocument(ctx context.Context, arg CreateDocumentParams) (*models.KnowledgeBaseDocument, error)
	GetDocument(ctx context.Context, id int64) (*models.KnowledgeBaseDocument, error)
	ListDocumentsByConfig(ctx context.Context, configIDs ...int64) ([]models.KnowledgeBaseDocument, error)
	ListDocumentsByStatus(ctx context.Context, status models.DocumentStatus, limit int) ([]models.KnowledgeBaseDocument, error)
	CompleteDocument(ctx context.Context, arg CompleteDocumentParams) (*models.KnowledgeBaseDocument, error)
	DeleteDocument(ctx context.Context, id int64) error

	// Tool catalog operations
	UpsertTool(ctx context.Context, arg UpsertToolParams) (*models.ChatbotTool, error)
	GetTool(ctx context.Context, id int64) (*models.ChatbotTool, error)
	ListTools(ctx context.Context, onlyAvailable bool) ([]models.ChatbotTool, error)

	// Tool configuration operations
	UpsertToolConfig(ctx context.Context, arg UpsertToolConfigParams) (*models.ChatbotToolConfig, error)
	ListToolConfigsByConfig(ctx context.Context, configIDs ...int64) ([]models.ChatbotToolConfig, error)

	// Integration setting operations
	UpsertIntegration(ctx context.Context, arg UpsertIntegrationParams) (*models.IntegrationSetting, error)
	GetIntegration(ctx context.Context, id int64) (*models.IntegrationSetting, error)
	ListIntegrationsByConfig(ctx context.Context, configIDs ...int64) ([]models.IntegrationSetting, error)
	UpdateIntegrationState(ctx context.Context, arg UpdateIntegrationStateParams) (*models.IntegrationSetting, error)

	// Dashboard
	GetDashboardCounts(ctx context.Context) (*models.DashboardCounts, error)
	ListRecentChatbots(ctx context.Context, limit int) ([]models.RecentChatbot, error)
	ListRecentDocuments(ctx context.Context, limit int) ([]models.RecentDocument, error)
}
