package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MockProvider approves every intent with a synthetic transaction id. Used
// in development and tests.
type MockProvider struct{}

func (MockProvider) Name() string { return "mock" }

func (MockProvider) Process(ctx context.Context, intent Intent) (Result, error) {
	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	default:
	}
	return Result{
		Success:       true,
		TransactionID: fmt.Sprintf("mock_%s_%d", uuid.New().String()[:8], time.Now().Unix()),
	}, nil
}

// ProviderForName selects a configured provider, defaulting to mock.
func ProviderForName(name string) Provider {
	switch name {
	default:
		return MockProvider{}
	}
}
