package model

import "github.com/flowoffice/flowbridge/pkg/domain/types"

// FieldDescriptor describes one board column as an input field of a generic
// field-mapping UI. Unsupported column types surface as read-only fields
// that take no user value; enumerated fields carry their option list.
type FieldDescriptor struct {
	ID          string
	DisplayName string
	Type        types.FieldType

	// The mandatory name column anchors record matching.
	Required         bool
	DefaultMatch     bool
	CanBeUsedToMatch bool

	ReadOnly bool
	Options  []StatusLabelOption
}
