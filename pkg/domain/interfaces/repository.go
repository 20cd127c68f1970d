package interfaces

import (
	"context"
	"errors"

	"github.com/flowoffice/flowbridge/pkg/domain/model"
	"github.com/flowoffice/flowbridge/pkg/domain/types"
)

// ErrRecordNotFound is returned by repositories when no record exists for
// the given key, regardless of backend.
var ErrRecordNotFound = errors.New("record not found")

// Repository defines the interface for durable adapter state
type Repository interface {
	Subscription() SubscriptionRepository
	Close() error
}

// SubscriptionRepository persists one webhook subscription record per
// trigger scope. The host grants no mutual exclusion across concurrent
// activations of the same scope, so writes are last-writer-wins.
type SubscriptionRepository interface {
	Put(ctx context.Context, scope types.TriggerScope, record *model.SubscriptionRecord) error
	Get(ctx context.Context, scope types.TriggerScope) (*model.SubscriptionRecord, error)
	Delete(ctx context.Context, scope types.TriggerScope) error
}
