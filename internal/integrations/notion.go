package integrations

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	integration_models "chatbot-admin/internal/models/integrations"

	"github.com/jomei/notionapi"
)

// Ensure NotionIntegration implements the Integration interface.
var _ Integration = (*NotionIntegration)(nil)

// NotionIntegration verifies an integration token by fetching the bot user.
type NotionIntegration struct {
	options []notionapi.ClientOption
}

// NewNotionIntegration creates a Notion tester. Options are passed to notionapi.NewClient.
func NewNotionIntegration(options ...notionapi.ClientOption) *NotionIntegration {
	return &NotionIntegration{options: options}
}

func (n *NotionIntegration) TestConnection(ctx context.Context, decryptedCreds integration_models.DecryptedCredentials) (*integration_models.TestConnectionResult, error) {
	token := decryptedCreds["integration_token"]
	if token == "" {
		return &integration_models.TestConnectionResult{
			Success: false,
			Message: "Missing or empty 'integration_token' in Notion credentials",
		}, nil
	}

	client := notionapi.NewClient(notionapi.Token(token), n.options...)
	botUser, err := client.User.Me(ctx)
	if err != nil {
		var notionErr *notionapi.Error
		if errors.As(err, &notionErr) {
			message := fmt.Sprintf("Notion API error (%s): %s", notionErr.Code, notionErr.Message)
			if notionErr.Status == http.StatusUnauthorized {
				message = "Notion API Error: Invalid API key (Unauthorized)."
			}
			return &integration_models.TestConnectionResult{Success: false, Message: message}, nil
		}
		return nil, fmt.Errorf("notion users.me: %w", err)
	}

	var botName string
	if botUser != nil {
		botName = botUser.Name
	}
	return &integration_models.TestConnectionResult{
		Success: true,
		Message: fmt.Sprintf("Connected to Notion as '%s'", botName),
		Details: map[string]interface{}{"bot_name": botName},
	}, nil
}
