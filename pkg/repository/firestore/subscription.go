package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/flowoffice/flowbridge/pkg/domain/interfaces"
	"github.com/flowoffice/flowbridge/pkg/domain/model"
	"github.com/flowoffice/flowbridge/pkg/domain/types"
)

const subscriptionsCollection = "webhook_subscriptions"

type subscriptionRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newSubscriptionRepository(client *firestore.Client) *subscriptionRepository {
	return &subscriptionRepository{client: client}
}

func (r *subscriptionRepository) doc(scope types.TriggerScope) *firestore.DocumentRef {
	return r.client.Collection(r.collectionPrefix + subscriptionsCollection).Doc(scope.String())
}

func (r *subscriptionRepository) Put(ctx context.Context, scope types.TriggerScope, record *model.SubscriptionRecord) error {
	if err := scope.Validate(); err != nil {
		return goerr.Wrap(err, "invalid trigger scope")
	}

	if _, err := r.doc(scope).Set(ctx, record); err != nil {
		return goerr.Wrap(err, "failed to put subscription record", goerr.V("scope", scope))
	}
	return nil
}

func (r *subscriptionRepository) Get(ctx context.Context, scope types.TriggerScope) (*model.SubscriptionRecord, error) {
	doc, err := r.doc(scope).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrRecordNotFound, "subscription record not found", goerr.V("scope", scope))
		}
		return nil, goerr.Wrap(err, "failed to get subscription record", goerr.V("scope", scope))
	}

	var record model.SubscriptionRecord
	if err := doc.DataTo(&record); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal subscription record", goerr.V("scope", scope))
	}
	return &record, nil
}

func (r *subscriptionRepository) Delete(ctx context.Context, scope types.TriggerScope) error {
	if _, err := r.doc(scope).Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(interfaces.ErrRecordNotFound, "subscription record not found", goerr.V("scope", scope))
		}
		return goerr.Wrap(err, "failed to get subscription record", goerr.V("scope", scope))
	}

	if _, err := r.doc(scope).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete subscription record", goerr.V("scope", scope))
	}
	return nil
}
