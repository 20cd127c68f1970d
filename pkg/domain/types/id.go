package types

import (
	"encoding/base64"
	"fmt"

	"github.com/google/uuid"
)

// TriggerScope identifies one configured trigger instance. It keys the
// durable subscription record.
type TriggerScope string

// Validate checks if the trigger scope is usable as a storage key
func (s TriggerScope) Validate() error {
	if s == "" {
		return fmt.Errorf("trigger scope is empty")
	}
	return nil
}

// String returns the string representation of the trigger scope
func (s TriggerScope) String() string {
	return string(s)
}

// ClientSubscriptionID is the locally generated identity of a webhook
// subscription, used as the idempotency key of the remote upsert.
type ClientSubscriptionID string

// String returns the string representation of the client subscription ID
func (id ClientSubscriptionID) String() string {
	return string(id)
}

// NewClientSubscriptionID generates a new client subscription ID for the
// given trigger scope. The scope prefix keeps remote subscriptions
// attributable to their trigger instance.
func NewClientSubscriptionID(scope TriggerScope) ClientSubscriptionID {
	return ClientSubscriptionID(fmt.Sprintf("flowbridge:%s:%s", scope, uuid.NewString()))
}

// NewSigningSecret generates a webhook signing secret. Generated once per
// subscription identity and reused across upserts.
func NewSigningSecret() string {
	a := uuid.New()
	b := uuid.New()
	raw := append(a[:], b[:]...)
	return base64.RawURLEncoding.EncodeToString(raw)
}
