package usecase

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/m-mizutani/goerr/v2"

	"github.com/flowoffice/flowbridge/pkg/domain/interfaces"
	"github.com/flowoffice/flowbridge/pkg/domain/model"
	"github.com/flowoffice/flowbridge/pkg/domain/types"
	"github.com/flowoffice/flowbridge/pkg/service/flowoffice"
	"github.com/flowoffice/flowbridge/pkg/utils/errutil"
	"github.com/flowoffice/flowbridge/pkg/utils/logging"
)

// SubscriptionState is the lifecycle state of one trigger's subscription
type SubscriptionState string

const (
	// SubscriptionAbsent means no usable durable record exists
	SubscriptionAbsent SubscriptionState = "absent"
	// SubscriptionProvisioned means the record matches the live filters
	// and the remote side confirms an active subscription
	SubscriptionProvisioned SubscriptionState = "provisioned"
	// SubscriptionStale means a record exists but its fingerprint
	// mismatches or the remote side does not confirm it
	SubscriptionStale SubscriptionState = "stale"
)

// WebhookUseCase maintains one status-change subscription per trigger
// scope. Durable records are validated on read and treated as absent when
// unusable; the store grants no mutual exclusion across activations, so
// writes are last-writer-wins.
type WebhookUseCase struct {
	svc       flowoffice.Service
	repo      interfaces.Repository
	matchMode types.MatchMode
}

// NewWebhookUseCase creates a new webhook use case
func NewWebhookUseCase(svc flowoffice.Service, repo interfaces.Repository) *WebhookUseCase {
	return &WebhookUseCase{
		svc:       svc,
		repo:      repo,
		matchMode: types.MatchModeAll,
	}
}

// MatchMode returns how FROM and TO filters combine for this trigger
func (u *WebhookUseCase) MatchMode() types.MatchMode {
	return u.matchMode
}

// record loads and validates the durable record. A missing or invalid
// record is (nil, nil): the store is a loose key/value bag and is never
// trusted blindly.
func (u *WebhookUseCase) record(ctx context.Context, scope types.TriggerScope) (*model.SubscriptionRecord, error) {
	rec, err := u.repo.Subscription().Get(ctx, scope)
	if err != nil {
		if errors.Is(err, interfaces.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to load subscription record", goerr.V("scope", scope))
	}

	if err := rec.Validate(); err != nil {
		logging.From(ctx).Warn("ignoring invalid subscription record",
			"scope", scope, "error", err)
		return nil, nil
	}

	return rec, nil
}

// Verify decides whether an existing subscription can be relied on. It
// compares the stored fingerprint against the live filters and asks the
// remote side to confirm the subscription is active.
func (u *WebhookUseCase) Verify(ctx context.Context, scope types.TriggerScope, filter *model.SubscriptionFilter) (SubscriptionState, error) {
	logger := logging.From(ctx)

	rec, err := u.record(ctx, scope)
	if err != nil {
		return SubscriptionAbsent, err
	}
	if rec == nil {
		return SubscriptionAbsent, nil
	}

	if rec.ConfigHash != filter.Fingerprint() {
		logger.Info("subscription filters changed, recreate needed", "scope", scope)
		return SubscriptionStale, nil
	}

	sub, err := u.svc.GetSubscription(ctx, rec.ClientSubscriptionID)
	if err != nil {
		logger.Warn("remote subscription check failed", "scope", scope, "error", err)
		return SubscriptionStale, nil
	}
	if !sub.Active {
		logger.Info("remote subscription inactive, recreate needed", "scope", scope)
		return SubscriptionStale, nil
	}

	return SubscriptionProvisioned, nil
}

// Ensure creates or updates the subscription so it matches the live
// filters. Idempotent: a provisioned subscription is a no-op, and the
// subscription identity and signing secret are reused across filter edits
// so the remote side is upserted by the same key. Nothing is persisted when
// the upsert fails.
func (u *WebhookUseCase) Ensure(ctx context.Context, scope types.TriggerScope, filter *model.SubscriptionFilter) (*model.SubscriptionRecord, error) {
	if err := filter.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid subscription filter", goerr.V("scope", scope))
	}

	state, err := u.Verify(ctx, scope, filter)
	if err != nil {
		return nil, err
	}
	if state == SubscriptionProvisioned {
		return u.record(ctx, scope)
	}

	rec, err := u.record(ctx, scope)
	if err != nil {
		return nil, err
	}

	clientID := types.NewClientSubscriptionID(scope)
	secret := types.NewSigningSecret()
	if rec != nil {
		clientID = rec.ClientSubscriptionID
		secret = rec.SigningSecret
	}

	hash := filter.Fingerprint()
	resp, err := u.svc.UpsertSubscription(ctx, clientID, &flowoffice.UpsertSubscriptionRequest{
		CallbackURL:         filter.CallbackURL,
		BoardID:             filter.BoardID,
		StatusColumnKey:     filter.StatusColumnKey,
		SubBoardID:          filter.SubBoardID,
		FromStatusLabelKeys: filter.FromLabelKeys,
		ToStatusLabelKeys:   filter.ToLabelKeys,
		SigningSecret:       secret,
		ConfigHash:          hash,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to upsert subscription", goerr.V("scope", scope))
	}

	newRec := &model.SubscriptionRecord{
		SubscriptionID:       resp.ID,
		ClientSubscriptionID: clientID,
		SigningSecret:        secret,
		ConfigHash:           hash,
	}
	if err := u.repo.Subscription().Put(ctx, scope, newRec); err != nil {
		return nil, goerr.Wrap(err, "failed to persist subscription record", goerr.V("scope", scope))
	}

	logging.From(ctx).Info("subscription provisioned",
		"scope", scope, "subscriptionId", resp.ID)
	return newRec, nil
}

// Teardown removes the subscription on trigger deactivation. Remote "not
// found" is success, and any other remote failure is logged without
// blocking deactivation: the local record is dropped either way.
func (u *WebhookUseCase) Teardown(ctx context.Context, scope types.TriggerScope) error {
	rec, err := u.record(ctx, scope)
	if err != nil {
		return err
	}
	if rec == nil {
		// Already absent.
		return nil
	}

	if err := u.svc.DeleteSubscription(ctx, rec.ClientSubscriptionID); err != nil {
		_ = errutil.Handle(ctx, err, "failed to delete remote subscription")
	}

	if err := u.repo.Subscription().Delete(ctx, scope); err != nil && !errors.Is(err, interfaces.ErrRecordNotFound) {
		return goerr.Wrap(err, "failed to drop subscription record", goerr.V("scope", scope))
	}

	return nil
}

// HandleDelivery processes one inbound webhook body. A health-check probe
// is acknowledged without emitting an event. The returned bool reports
// whether the event passes the trigger's filters and should be emitted.
func (u *WebhookUseCase) HandleDelivery(ctx context.Context, body []byte, filter *model.SubscriptionFilter) (*model.StatusChangeEvent, bool, error) {
	if model.IsPingDelivery(body) {
		logging.From(ctx).Debug("acknowledged ping delivery")
		return nil, false, nil
	}

	var event model.StatusChangeEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, false, goerr.Wrap(err, "undecodable webhook delivery", goerr.T(model.ErrTagContract))
	}

	if filter != nil && !event.Matches(filter, u.matchMode) {
		return &event, false, nil
	}

	return &event, true, nil
}
