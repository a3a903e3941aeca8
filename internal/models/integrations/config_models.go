package integrations

// Defines the expected structure for Notion API credentials (stored encrypted).
type NotionCredentials struct {
	IntegrationToken  string `json:"integration_token"`
	DefaultDatabaseID string `json:"default_database_id,omitempty"`
}

// Defines the expected structure for Slack API credentials (stored encrypted).
type SlackCredentials struct {
	BotToken       string `json:"bot_token"`                 // xoxb-... token
	DefaultChannel string `json:"default_channel,omitempty"` // Optional
}

// TestConnectionResult is the outcome of checking an integration's credentials.
type TestConnectionResult struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"` // e.g. {"bot_name": "..."}
}

// Helper type for decrypted credentials map
type DecryptedCredentials map[string]string
