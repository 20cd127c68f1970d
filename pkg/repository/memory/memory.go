package memory

import (
	"github.com/flowoffice/flowbridge/pkg/domain/interfaces"
)

// Memory is an in-memory repository for development and tests
type Memory struct {
	subscription *subscriptionRepository
}

var _ interfaces.Repository = &Memory{}

// New creates a new in-memory repository
func New() *Memory {
	return &Memory{
		subscription: newSubscriptionRepository(),
	}
}

// Subscription returns the subscription repository
func (m *Memory) Subscription() interfaces.SubscriptionRepository {
	return m.subscription
}

// Close releases nothing; it exists to satisfy the repository interface
func (m *Memory) Close() error {
	return nil
}
