package types

import "fmt"

// ColumnType represents the type of a board column. The set is closed:
// every mapping over it must handle all variants.
type ColumnType string

const (
	// mandatory column
	ColumnTypeName ColumnType = "name"

	// regular columns
	ColumnTypeText         ColumnType = "text"
	ColumnTypeNumber       ColumnType = "number"
	ColumnTypeDate         ColumnType = "date"
	ColumnTypeCheckbox     ColumnType = "checkbox"
	ColumnTypeInterval     ColumnType = "interval"
	ColumnTypePhone        ColumnType = "phone"
	ColumnTypeEmail        ColumnType = "email"
	ColumnTypeAddress      ColumnType = "address"
	ColumnTypeRatingStars  ColumnType = "rating-stars"
	ColumnTypeReminderDate ColumnType = "reminder-date"
	ColumnTypeLink         ColumnType = "link"
	ColumnTypePersonName   ColumnType = "personName"
	ColumnTypeTimeTracking ColumnType = "time-tracking"
	ColumnTypeFormula      ColumnType = "formula"

	// columns with options
	ColumnTypeStatus   ColumnType = "status"
	ColumnTypeDocument ColumnType = "document"

	// project special columns
	ColumnTypeCustomer   ColumnType = "customer"
	ColumnTypeTeamMember ColumnType = "teamMember"
	ColumnTypeTasks      ColumnType = "tasks"
	ColumnTypeCloud      ColumnType = "cloud"
	ColumnTypeWarehouse  ColumnType = "warehouse"
)

// AllColumnTypes returns all valid column types
func AllColumnTypes() []ColumnType {
	return []ColumnType{
		ColumnTypeName,
		ColumnTypeText,
		ColumnTypeNumber,
		ColumnTypeDate,
		ColumnTypeCheckbox,
		ColumnTypeInterval,
		ColumnTypePhone,
		ColumnTypeEmail,
		ColumnTypeAddress,
		ColumnTypeRatingStars,
		ColumnTypeReminderDate,
		ColumnTypeLink,
		ColumnTypePersonName,
		ColumnTypeTimeTracking,
		ColumnTypeFormula,
		ColumnTypeStatus,
		ColumnTypeDocument,
		ColumnTypeCustomer,
		ColumnTypeTeamMember,
		ColumnTypeTasks,
		ColumnTypeCloud,
		ColumnTypeWarehouse,
	}
}

// IsValid checks if the column type is valid
func (t ColumnType) IsValid() bool {
	switch t {
	case ColumnTypeName,
		ColumnTypeText,
		ColumnTypeNumber,
		ColumnTypeDate,
		ColumnTypeCheckbox,
		ColumnTypeInterval,
		ColumnTypePhone,
		ColumnTypeEmail,
		ColumnTypeAddress,
		ColumnTypeRatingStars,
		ColumnTypeReminderDate,
		ColumnTypeLink,
		ColumnTypePersonName,
		ColumnTypeTimeTracking,
		ColumnTypeFormula,
		ColumnTypeStatus,
		ColumnTypeDocument,
		ColumnTypeCustomer,
		ColumnTypeTeamMember,
		ColumnTypeTasks,
		ColumnTypeCloud,
		ColumnTypeWarehouse:
		return true
	default:
		return false
	}
}

// String returns the wire representation of the column type
func (t ColumnType) String() string {
	return string(t)
}

// DisplayName returns the human readable name shown in option lists
func (t ColumnType) DisplayName() string {
	switch t {
	case ColumnTypeName:
		return "Name"
	case ColumnTypeText:
		return "Text"
	case ColumnTypeNumber:
		return "Number"
	case ColumnTypeDate:
		return "Date"
	case ColumnTypeCheckbox:
		return "Checkbox"
	case ColumnTypeInterval:
		return "Interval"
	case ColumnTypePhone:
		return "Phone"
	case ColumnTypeEmail:
		return "Email"
	case ColumnTypeAddress:
		return "Address"
	case ColumnTypeRatingStars:
		return "Rating Stars"
	case ColumnTypeReminderDate:
		return "Contact Again At"
	case ColumnTypeLink:
		return "Link"
	case ColumnTypePersonName:
		return "Person Name"
	case ColumnTypeTimeTracking:
		return "Time Tracking"
	case ColumnTypeFormula:
		return "Formula"
	case ColumnTypeStatus:
		return "Status"
	case ColumnTypeDocument:
		return "Document"
	case ColumnTypeCustomer:
		return "Customer"
	case ColumnTypeTeamMember:
		return "Team Member"
	case ColumnTypeTasks:
		return "Tasks"
	case ColumnTypeCloud:
		return "Cloud"
	case ColumnTypeWarehouse:
		return "Warehouse"
	default:
		panic(fmt.Sprintf("unhandled column type: %q", string(t)))
	}
}

// ParseColumnType parses a string into a ColumnType
func ParseColumnType(s string) (ColumnType, error) {
	t := ColumnType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid column type: %s", s)
	}
	return t, nil
}
