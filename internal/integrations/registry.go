package integrations

import (
	"context"
	"fmt"
	"sort"

	"chatbot-admin/internal/logging"
	integration_models "chatbot-admin/internal/models/integrations"

	"github.com/rs/zerolog"
)

// Integration checks connectivity to one external service.
type Integration interface {
	// TestConnection verifies the decrypted credentials. A failed check is reported
	// through the result; the error is reserved for system failures.
	TestConnection(ctx context.Context, decryptedCreds integration_models.DecryptedCredentials) (*integration_models.TestConnectionResult, error)
}

// Registry maps service names to their Integration. Services without an entry use the fallback.
type Registry struct {
	integrations map[string]Integration
	fallback     Integration
	logger       zerolog.Logger
}

// NewRegistry creates a registry whose unregistered services resolve to fallback (may be nil).
func NewRegistry(fallback Integration) *Registry {
	return &Registry{
		integrations: make(map[string]Integration),
		fallback:     fallback,
		logger:       logging.NewLogger("integration-registry"),
	}
}

// Register adds an integration implementation to the registry.
func (r *Registry) Register(serviceName string, integration Integration) {
	if _, exists := r.integrations[serviceName]; exists {
		r.logger.Warn().Str("service", serviceName).Msg("service already registered, overwriting")
	}
	r.integrations[serviceName] = integration
	r.logger.Debug().Str("service", serviceName).Msg("registered integration")
}

// Get retrieves the integration for serviceName, falling back when none is registered.
func (r *Registry) Get(serviceName string) (Integration, error) {
	if integration, exists := r.integrations[serviceName]; exists {
		return integration, nil
	}
	if r.fallback != nil {
		return r.fallback, nil
	}
	return nil, fmt.Errorf("no integration registered for service: %s", serviceName)
}

// Services lists the explicitly registered service names.
func (r *Registry) Services() []string {
	names := make([]string, 0, len(r.integrations))
	for name := range r.integrations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Options controls which testers NewDefaultRegistry wires.
type Options struct {
	LiveChecks  bool
	SuccessRate float64
}

// NewDefaultRegistry returns the simulated tester for every service, plus live
// Slack and Notion checks when opts.LiveChecks is set.
func NewDefaultRegistry(opts Options) *Registry {
	r := NewRegistry(NewSimulatedIntegration(opts.SuccessRate, nil))
	if opts.LiveChecks {
		r.Register(ServiceSlack, NewSlackIntegration())
		r.Register(ServiceNotion, NewNotionIntegration())
	}
	return r
}
