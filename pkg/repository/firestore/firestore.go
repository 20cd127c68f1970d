package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"

	"github.com/flowoffice/flowbridge/pkg/domain/interfaces"
)

// Firestore is the durable repository backend
type Firestore struct {
	client       *firestore.Client
	subscription *subscriptionRepository
}

var _ interfaces.Repository = &Firestore{}

// Option configures the repository
type Option func(*Firestore)

// WithCollectionPrefix prefixes all collection names, so multiple adapter
// deployments can share one database
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.subscription.collectionPrefix = prefix
	}
}

// New creates a new Firestore repository
func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client", goerr.V("projectID", projectID))
	}

	f := &Firestore{
		client:       client,
		subscription: newSubscriptionRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

// Subscription returns the subscription repository
func (f *Firestore) Subscription() interfaces.SubscriptionRepository {
	return f.subscription
}

// Close releases the underlying client
func (f *Firestore) Close() error {
	return f.client.Close()
}
