package model

import (
	"errors"

	"github.com/m-mizutani/goerr/v2"
)

// Error tags classify failures so callers can branch on the class without
// matching message strings.
var (
	// ErrTagTransport marks network or authentication failures from the
	// underlying HTTP call. Not retried locally.
	ErrTagTransport = goerr.NewTag("transport")

	// ErrTagContract marks responses that do not match the endpoint's
	// declared output contract.
	ErrTagContract = goerr.NewTag("contract_violation")

	// ErrTagMalformedConfig marks status-label payloads that cannot be
	// decoded. Distinct from an empty label list.
	ErrTagMalformedConfig = goerr.NewTag("malformed_column_config")

	// ErrTagNotFound marks lookups of boards, columns or subscriptions
	// that do not exist.
	ErrTagNotFound = goerr.NewTag("not_found")
)

// Sentinel errors for domain lookups
var (
	ErrBoardNotFound         = errors.New("board not found")
	ErrMalformedColumnConfig = errors.New("malformed column config")
)
