package http

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"

	"github.com/m-mizutani/goerr/v2"

	"github.com/flowoffice/flowbridge/pkg/domain/interfaces"
	"github.com/flowoffice/flowbridge/pkg/utils/async"
	"github.com/flowoffice/flowbridge/pkg/utils/errutil"
	"github.com/flowoffice/flowbridge/pkg/utils/logging"
	"github.com/flowoffice/flowbridge/pkg/utils/safe"
)

const signatureHeader = "X-FlowOffice-Signature"

// verifyDeliverySignature verifies the HMAC-SHA256 signature of an inbound
// delivery against the subscription's signing secret. Pure function so it
// can be tested independently.
func verifyDeliverySignature(signingSecret, signature string, body []byte) error {
	if signature == "" {
		return goerr.New("missing signature")
	}

	mac := hmac.New(sha256.New, []byte(signingSecret))
	if _, err := mac.Write(body); err != nil {
		return goerr.Wrap(err, "failed to compute HMAC")
	}
	expected := "v1=" + hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return goerr.New("signature mismatch")
	}

	return nil
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.From(ctx)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to read delivery body"), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if s.triggerScope == "" {
		errutil.HandleHTTP(ctx, w, goerr.New("no trigger configured"), http.StatusNotFound)
		return
	}

	// A delivery is only trusted when it is signed with the secret of the
	// provisioned subscription.
	rec, err := s.repo.Subscription().Get(ctx, s.triggerScope)
	if err != nil {
		if errors.Is(err, interfaces.ErrRecordNotFound) {
			errutil.HandleHTTP(ctx, w, goerr.New("no subscription for trigger"), http.StatusNotFound)
			return
		}
		errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
		return
	}

	if err := verifyDeliverySignature(rec.SigningSecret, r.Header.Get(signatureHeader), body); err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusUnauthorized)
		return
	}

	event, emit, err := s.uc.Webhook.HandleDelivery(ctx, body, s.triggerFilter)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
		return
	}

	if event == nil {
		// Health-check probe: acknowledge and stop.
		w.WriteHeader(http.StatusOK)
		safe.Write(ctx, w, []byte("OK"))
		return
	}

	if emit && s.sink != nil {
		// The delivery is acknowledged before the sink runs: retries from
		// the sender would not help a failing downstream.
		async.Dispatch(ctx, func(ctx context.Context) error {
			if err := s.sink(ctx, event); err != nil {
				return goerr.Wrap(err, "event sink failed", goerr.V("deliveryId", event.DeliveryID))
			}
			return nil
		})
	}

	logger.Info("delivery processed",
		"deliveryId", event.DeliveryID, "emitted", emit)
	respondJSON(w, http.StatusOK, map[string]any{"ok": true, "emitted": emit})
}
