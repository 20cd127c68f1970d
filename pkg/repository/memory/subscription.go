package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"github.com/flowoffice/flowbridge/pkg/domain/interfaces"
	"github.com/flowoffice/flowbridge/pkg/domain/model"
	"github.com/flowoffice/flowbridge/pkg/domain/types"
)

type subscriptionRepository struct {
	mu      sync.RWMutex
	records map[types.TriggerScope]*model.SubscriptionRecord
}

func newSubscriptionRepository() *subscriptionRepository {
	return &subscriptionRepository{
		records: make(map[types.TriggerScope]*model.SubscriptionRecord),
	}
}

func copyRecord(rec *model.SubscriptionRecord) *model.SubscriptionRecord {
	copied := *rec
	return &copied
}

func (r *subscriptionRepository) Put(ctx context.Context, scope types.TriggerScope, record *model.SubscriptionRecord) error {
	if err := scope.Validate(); err != nil {
		return goerr.Wrap(err, "invalid trigger scope")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.records[scope] = copyRecord(record)
	return nil
}

func (r *subscriptionRepository) Get(ctx context.Context, scope types.TriggerScope) (*model.SubscriptionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, exists := r.records[scope]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrRecordNotFound, "subscription record not found", goerr.V("scope", scope))
	}
	return copyRecord(rec), nil
}

func (r *subscriptionRepository) Delete(ctx context.Context, scope types.TriggerScope) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[scope]; !exists {
		return goerr.Wrap(interfaces.ErrRecordNotFound, "subscription record not found", goerr.V("scope", scope))
	}
	delete(r.records, scope)
	return nil
}
