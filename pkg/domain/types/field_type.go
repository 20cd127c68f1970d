package types

import "fmt"

// FieldType is the narrowed input type a column surfaces in a generic
// field-mapping UI.
type FieldType string

const (
	FieldTypeString     FieldType = "string"
	FieldTypeNumber     FieldType = "number"
	FieldTypeDateTime   FieldType = "dateTime"
	FieldTypeBoolean    FieldType = "boolean"
	FieldTypeURL        FieldType = "url"
	FieldTypeEnumerated FieldType = "enumerated"

	// FieldTypeUnsupported marks columns that cannot take a user-supplied
	// value; their field descriptors are rendered read-only.
	FieldTypeUnsupported FieldType = "unsupported"
)

// AllFieldTypes returns all valid field types
func AllFieldTypes() []FieldType {
	return []FieldType{
		FieldTypeString,
		FieldTypeNumber,
		FieldTypeDateTime,
		FieldTypeBoolean,
		FieldTypeURL,
		FieldTypeEnumerated,
		FieldTypeUnsupported,
	}
}

// IsValid checks if the field type is valid
func (t FieldType) IsValid() bool {
	switch t {
	case FieldTypeString,
		FieldTypeNumber,
		FieldTypeDateTime,
		FieldTypeBoolean,
		FieldTypeURL,
		FieldTypeEnumerated,
		FieldTypeUnsupported:
		return true
	default:
		return false
	}
}

// String returns the string representation of the field type
func (t FieldType) String() string {
	return string(t)
}

// ReadOnly reports whether a field of this type must reject user input
func (t FieldType) ReadOnly() bool {
	return t == FieldTypeUnsupported
}

// MapColumnType maps a column type to its field type. The mapping is total
// over ColumnType; an unhandled variant is a defect and panics.
func MapColumnType(t ColumnType) FieldType {
	switch t {
	case ColumnTypeStatus:
		return FieldTypeEnumerated

	case ColumnTypeNumber,
		ColumnTypeRatingStars,
		ColumnTypeInterval:
		return FieldTypeNumber

	case ColumnTypeDate,
		ColumnTypeReminderDate:
		return FieldTypeDateTime

	case ColumnTypeCheckbox:
		return FieldTypeBoolean

	case ColumnTypeName,
		ColumnTypeText,
		ColumnTypePhone,
		ColumnTypeEmail,
		ColumnTypeAddress,
		ColumnTypePersonName:
		return FieldTypeString

	case ColumnTypeLink:
		return FieldTypeURL

	case ColumnTypeTimeTracking,
		ColumnTypeFormula,
		ColumnTypeDocument,
		ColumnTypeCustomer,
		ColumnTypeTeamMember,
		ColumnTypeTasks,
		ColumnTypeCloud,
		ColumnTypeWarehouse:
		return FieldTypeUnsupported

	default:
		panic(fmt.Sprintf("unhandled column type: %q", string(t)))
	}
}
