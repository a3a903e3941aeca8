package integrations

import (
	"context"
	"fmt"
	"strings"

	integration_models "chatbot-admin/internal/models/integrations"

	"github.com/slack-go/slack"
)

// Ensure SlackIntegration implements the Integration interface.
var _ Integration = (*SlackIntegration)(nil)

// SlackIntegration verifies a bot token with auth.test.
type SlackIntegration struct {
	options []slack.Option
}

// NewSlackIntegration creates a Slack tester. Options are passed to slack.New,
// e.g. slack.OptionAPIURL to point at a test server.
func NewSlackIntegration(options ...slack.Option) *SlackIntegration {
	return &SlackIntegration{options: options}
}

func (s *SlackIntegration) TestConnection(ctx context.Context, decryptedCreds integration_models.DecryptedCredentials) (*integration_models.TestConnectionResult, error) {
	botToken := decryptedCreds["bot_token"]
	if botToken == "" {
		return &integration_models.TestConnectionResult{
			Success: false,
			Message: "Missing or empty 'bot_token' in Slack credentials",
		}, nil
	}

	client := slack.New(botToken, s.options...)
	resp, err := client.AuthTestContext(ctx)
	if err != nil {
		errStr := err.Error()
		switch {
		case strings.Contains(errStr, "invalid_auth"):
			return &integration_models.TestConnectionResult{
				Success: false,
				Message: "Slack API Error: Invalid authentication token (bot_token).",
			}, nil
		case strings.Contains(errStr, "not_authed"), strings.Contains(errStr, "account_inactive"), strings.Contains(errStr, "token_revoked"):
			return &integration_models.TestConnectionResult{
				Success: false,
				Message: fmt.Sprintf("Slack API Error: %s", errStr),
			}, nil
		}
		return nil, fmt.Errorf("slack auth.test: %w", err)
	}

	return &integration_models.TestConnectionResult{
		Success: true,
		Message: fmt.Sprintf("Connected to Slack workspace '%s' as '%s'", resp.Team, resp.User),
		Details: map[string]interface{}{
			"bot_name":    resp.User,
			"bot_user_id": resp.UserID,
			"team_id":     resp.TeamID,
		},
	}, nil
}
