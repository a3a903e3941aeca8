package integrations

import (
	"context"
	"math/rand"
	"sync"
	"time"

	integration_models "chatbot-admin/internal/models/integrations"
)

// SimulatedFailureMessage is recorded when a simulated test fails.
const SimulatedFailureMessage = "Connection failed: Invalid credentials"

// Ensure SimulatedIntegration implements the Integration interface.
var _ Integration = (*SimulatedIntegration)(nil)

// SimulatedIntegration succeeds with a fixed probability and contacts nothing.
type SimulatedIntegration struct {
	successRate float64

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewSimulatedIntegration creates a tester that succeeds with probability successRate.
// A nil rnd seeds one from the clock.
func NewSimulatedIntegration(successRate float64, rnd *rand.Rand) *SimulatedIntegration {
	if successRate < 0 || successRate > 1 {
		successRate = 0.8
	}
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &SimulatedIntegration{successRate: successRate, rnd: rnd}
}

func (s *SimulatedIntegration) TestConnection(ctx context.Context, _ integration_models.DecryptedCredentials) (*integration_models.TestConnectionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	roll := s.rnd.Float64()
	s.mu.Unlock()

	if roll < s.successRate {
		return &integration_models.TestConnectionResult{Success: true, Message: "Connection successful"}, nil
	}
	return &integration_models.TestConnectionResult{Success: false, Message: SimulatedFailureMessage}, nil
}
