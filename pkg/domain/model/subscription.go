package model

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"slices"

	"github.com/m-mizutani/goerr/v2"

	"github.com/flowoffice/flowbridge/pkg/domain/types"
)

// SubscriptionRecord is the durable state of one webhook subscription, kept
// per trigger scope. ClientSubscriptionID and SigningSecret are generated
// once and survive filter edits, so the remote side can be upserted by the
// same key.
type SubscriptionRecord struct {
	// SubscriptionID is assigned by the server; empty before the first
	// successful creation.
	SubscriptionID string `firestore:"subscriptionId" json:"subscriptionId"`

	ClientSubscriptionID types.ClientSubscriptionID `firestore:"clientSubscriptionId" json:"clientSubscriptionId"`
	SigningSecret        string                     `firestore:"signingSecret" json:"signingSecret" masq:"secret"`
	ConfigHash           string                     `firestore:"configHash" json:"configHash"`
}

// Validate checks if the record is complete enough to trust. The durable
// store is a loose key/value bag: a record that fails validation is treated
// as absent, never blindly reused.
func (r *SubscriptionRecord) Validate() error {
	if r.ClientSubscriptionID == "" {
		return goerr.New("client subscription ID is missing")
	}
	if r.SigningSecret == "" {
		return goerr.New("signing secret is missing")
	}
	if r.ConfigHash == "" {
		return goerr.New("config hash is missing")
	}
	return nil
}

// SubscriptionFilter is the full filter parameter set of a status-change
// subscription. Its fingerprint decides staleness of a durable record.
type SubscriptionFilter struct {
	CallbackURL     string   `json:"callbackUrl"`
	BoardID         int64    `json:"boardId"`
	StatusColumnKey string   `json:"statusColumnKey"`
	SubBoardID      *int64   `json:"subBoardId"`
	FromLabelKeys   []string `json:"fromStatusLabelKeys"`
	ToLabelKeys     []string `json:"toStatusLabelKeys"`
}

// Validate checks if the filter is valid
func (f *SubscriptionFilter) Validate() error {
	if f.CallbackURL == "" {
		return goerr.New("callback URL is required")
	}
	if f.BoardID == 0 {
		return goerr.New("board ID is required")
	}
	if f.StatusColumnKey == "" {
		return goerr.New("status column key is required")
	}
	return nil
}

// Fingerprint returns a deterministic digest of the filter. The from/to
// label-key sets are sorted first so that set membership, not order, decides
// the hash. Pure function of its inputs: stable across process restarts.
func (f *SubscriptionFilter) Fingerprint() string {
	fromKeys := slices.Clone(f.FromLabelKeys)
	toKeys := slices.Clone(f.ToLabelKeys)
	slices.Sort(fromKeys)
	slices.Sort(toKeys)
	if fromKeys == nil {
		fromKeys = []string{}
	}
	if toKeys == nil {
		toKeys = []string{}
	}

	payload := SubscriptionFilter{
		CallbackURL:     f.CallbackURL,
		BoardID:         f.BoardID,
		StatusColumnKey: f.StatusColumnKey,
		SubBoardID:      f.SubBoardID,
		FromLabelKeys:   fromKeys,
		ToLabelKeys:     toKeys,
	}

	// Struct field order is fixed, so encoding/json is a stable encoding.
	data, err := json.Marshal(&payload)
	if err != nil {
		// Marshal of a plain struct of strings and ints cannot fail.
		panic(err)
	}

	sum := sha256.Sum256(data)
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
