package services

import "chatbot-admin/internal/store"

// ToolCatalog is the built-in set of tools written by the seed command.
var ToolCatalog = []store.UpsertToolParams{
	{
		Name:           "google_calendar",
		DisplayName:    "Google Calendar",
		Description:    "Access and manage Google Calendar events. Schedule meetings, check availability, and create calendar entries.",
		Icon:           "calendar",
		Category:       "productivity",
		RequiredConfig: []string{"client_id", "client_secret"},
		OptionalConfig: []string{"default_calendar_id", "timezone"},
		IsAvailable:    true,
	},
	{
		Name:           "google_sheets",
		DisplayName:    "Google Sheets",
		Description:    "Read and write data to Google Sheets. Perfect for data analysis and reporting.",
		Icon:           "table",
		Category:       "productivity",
		RequiredConfig: []string{"service_account_key"},
		OptionalConfig: []string{"default_spreadsheet_id"},
		IsAvailable:    true,
	},
	{
		Name:           "whatsapp",
		DisplayName:    "WhatsApp Business",
		Description:    "Send and receive WhatsApp messages through the Business API.",
		Icon:           "message-circle",
		Category:       "communication",
		RequiredConfig: []string{"phone_number_id", "access_token"},
		OptionalConfig: []string{"webhook_verify_token"},
		IsAvailable:    true,
	},
	{
		Name:           "email_sender",
		DisplayName:    "Email Sender",
		Description:    "Send emails via SMTP. Great for notifications and automated responses.",
		Icon:           "mail",
		Category:       "communication",
		RequiredConfig: []string{"smtp_host", "smtp_port", "username", "password"},
		OptionalConfig: []string{"from_name", "encryption"},
		IsAvailable:    true,
	},
	{
		Name:           "slack",
		DisplayName:    "Slack",
		Description:    "Post messages and interact with Slack channels and users.",
		Icon:           "slack",
		Category:       "communication",
		RequiredConfig: []string{"bot_token"},
		OptionalConfig: []string{"default_channel"},
		IsAvailable:    true,
	},
	{
		Name:           "notion",
		DisplayName:    "Notion",
		Description:    "Create and update Notion pages and databases.",
		Icon:           "file-text",
		Category:       "productivity",
		RequiredConfig: []string{"integration_token"},
		OptionalConfig: []string{"default_database_id"},
		IsAvailable:    true,
	},
}
