package model

import (
	"encoding/json"
	"slices"
	"time"

	"github.com/flowoffice/flowbridge/pkg/domain/types"
)

// LabelRef identifies one status label within a change event
type LabelRef struct {
	LabelKey  string `json:"labelKey"`
	LabelName string `json:"labelName"`
}

// StatusTransition describes which status column changed and how
type StatusTransition struct {
	ColumnKey   string    `json:"columnKey"`
	ColumnLabel string    `json:"columnLabel"`
	From        LabelRef  `json:"from"`
	To          LabelRef  `json:"to"`
	OccurredAt  time.Time `json:"occurredAt"`
}

// StatusChangeEvent is one inbound webhook delivery reporting a project
// status change
type StatusChangeEvent struct {
	Type       string           `json:"type"`
	DeliveryID string           `json:"deliveryId"`
	ProjectID  int64            `json:"projectId"`
	BoardID    int64            `json:"boardId"`
	SubBoardID *int64           `json:"subBoardId,omitempty"`
	Status     StatusTransition `json:"status"`
	Cells      map[string]any   `json:"cells,omitempty"`
}

// pingProbe is the shape of a health-check delivery: a probe identifier
// with no action payload. The origin system sends both key spellings.
type pingProbe struct {
	HookID      *string         `json:"hookId"`
	HookIDSnake *string         `json:"hook_id"`
	Action      json.RawMessage `json:"action"`
}

// IsPingDelivery reports whether the raw webhook body is a health-check
// probe. Probes must be acknowledged immediately without emitting an event.
func IsPingDelivery(body []byte) bool {
	var probe pingProbe
	if err := json.Unmarshal(body, &probe); err != nil {
		return false
	}
	return (probe.HookID != nil || probe.HookIDSnake != nil) && probe.Action == nil
}

// Matches reports whether the event passes the filter. An empty FROM or TO
// key set matches any label. When both sets are configured, mode decides
// whether both must match or either suffices.
func (e *StatusChangeEvent) Matches(f *SubscriptionFilter, mode types.MatchMode) bool {
	if e.BoardID != f.BoardID {
		return false
	}
	if e.Status.ColumnKey != f.StatusColumnKey {
		return false
	}
	if f.SubBoardID != nil {
		if e.SubBoardID == nil || *e.SubBoardID != *f.SubBoardID {
			return false
		}
	}

	fromMatch := slices.Contains(f.FromLabelKeys, e.Status.From.LabelKey)
	toMatch := slices.Contains(f.ToLabelKeys, e.Status.To.LabelKey)
	fromSet := len(f.FromLabelKeys) > 0
	toSet := len(f.ToLabelKeys) > 0

	switch {
	case !fromSet && !toSet:
		return true
	case fromSet && toSet && mode.Normalize() == types.MatchModeAny:
		return fromMatch || toMatch
	default:
		return (!fromSet || fromMatch) && (!toSet || toMatch)
	}
}
