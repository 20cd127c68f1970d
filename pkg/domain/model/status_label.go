package model

import (
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"
)

// StatusLabel is one selectable label of a status column. EnumKey is the
// stable key used as the wire value; Label is the display string.
type StatusLabel struct {
	Label           string `json:"label"`
	EnumKey         string `json:"enumKey"`
	BackgroundColor string `json:"backgroundColor"`
}

// extendedJSONEnvelope is the framing used by the origin system's
// superset-of-JSON serializer: the value lives under "json", with type
// metadata under "meta". The label payload itself stays within plain JSON,
// so decoding only needs to unwrap the envelope.
type extendedJSONEnvelope struct {
	JSON json.RawMessage `json:"json"`
	Meta json.RawMessage `json:"meta"`
}

type statusLabelEntry struct {
	Label           *string `json:"label"`
	EnumKey         *string `json:"enumKey"`
	BackgroundColor *string `json:"backgroundColor"`
}

// DecodeStatusLabels decodes a status column's configuration payload into
// its label list. It is a pure function of the column; labels are never
// persisted separately and are re-decoded on every lookup.
//
// An undecodable payload is ErrMalformedColumnConfig. Callers must not
// treat it as "no labels": an empty payload on a status column means the
// column definition is broken, which is distinct from an empty list.
func DecodeStatusLabels(col *Column) ([]StatusLabel, error) {
	raw := []byte(col.ColumnConfig)

	if len(raw) == 0 {
		return nil, goerr.Wrap(ErrMalformedColumnConfig, "column config is empty",
			goerr.V("columnKey", col.ColumnKey), goerr.T(ErrTagMalformedConfig))
	}

	payload := json.RawMessage(raw)
	var env extendedJSONEnvelope
	if err := json.Unmarshal(raw, &env); err == nil && env.JSON != nil {
		payload = env.JSON
	}

	var entries []statusLabelEntry
	if err := json.Unmarshal(payload, &entries); err != nil {
		return nil, goerr.Wrap(ErrMalformedColumnConfig, "column config is not a label array",
			goerr.V("columnKey", col.ColumnKey), goerr.V("cause", err.Error()), goerr.T(ErrTagMalformedConfig))
	}

	labels := make([]StatusLabel, 0, len(entries))
	for i, entry := range entries {
		if entry.Label == nil || entry.EnumKey == nil || entry.BackgroundColor == nil {
			return nil, goerr.Wrap(ErrMalformedColumnConfig, "label entry is missing required fields",
				goerr.V("columnKey", col.ColumnKey), goerr.V("index", i), goerr.T(ErrTagMalformedConfig))
		}
		labels = append(labels, StatusLabel{
			Label:           *entry.Label,
			EnumKey:         *entry.EnumKey,
			BackgroundColor: *entry.BackgroundColor,
		})
	}

	return labels, nil
}
