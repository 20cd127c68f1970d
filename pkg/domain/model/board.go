package model

import (
	"github.com/m-mizutani/goerr/v2"

	"github.com/flowoffice/flowbridge/pkg/domain/types"
)

// Column is one typed field definition within a board's schema
type Column struct {
	ColumnKey  string           `json:"columnKey"`
	Label      string           `json:"label"`
	ColumnType types.ColumnType `json:"columnType"`

	// ColumnConfig carries additional column options as an opaque
	// serialized payload. Status label definitions live here.
	ColumnConfig string `json:"columnConfig,omitempty"`

	// Deactivated columns stay in the schema so historical data keeps
	// decoding, but are excluded from "current" UI enumeration.
	Deactivated    bool `json:"deactivated,omitempty"`
	DisableEditing bool `json:"disableEditing,omitempty"`
}

// Validate checks if the column is valid
func (c *Column) Validate() error {
	if c.ColumnKey == "" {
		return goerr.New("column key is required")
	}
	if !c.ColumnType.IsValid() {
		return goerr.New("invalid column type", goerr.V("columnType", c.ColumnType), goerr.V("columnKey", c.ColumnKey))
	}
	return nil
}

// Subboard is a named partition within a board
type Subboard struct {
	SubboardID int64  `json:"subboardId"`
	Name       string `json:"name"`
}

// Board is a named collection of typed columns representing one
// project-tracking table. ColumnSchema order is display order and must be
// preserved.
type Board struct {
	BoardID      int64      `json:"boardId"`
	Name         string     `json:"name"`
	ColumnSchema []Column   `json:"columnSchema"`
	Subboards    []Subboard `json:"subboards,omitempty"`
}

// Validate checks if the board is valid
func (b *Board) Validate() error {
	if b.BoardID == 0 {
		return goerr.New("board ID is required", goerr.V("name", b.Name))
	}
	seen := make(map[string]bool, len(b.ColumnSchema))
	for i := range b.ColumnSchema {
		col := &b.ColumnSchema[i]
		if err := col.Validate(); err != nil {
			return goerr.Wrap(err, "invalid column", goerr.V("boardId", b.BoardID))
		}
		if seen[col.ColumnKey] {
			return goerr.New("duplicate column key", goerr.V("boardId", b.BoardID), goerr.V("columnKey", col.ColumnKey))
		}
		seen[col.ColumnKey] = true
	}
	return nil
}

// Column returns the column with the given key, or nil if absent
func (b *Board) Column(columnKey string) *Column {
	for i := range b.ColumnSchema {
		if b.ColumnSchema[i].ColumnKey == columnKey {
			return &b.ColumnSchema[i]
		}
	}
	return nil
}

// Board entry discriminator values
const (
	BoardEntryTypeBoard = "board"
	BoardEntryTypeGroup = "group"
)

// BoardEntry is one member of a board group: either a board directly in the
// group or a named subgroup of boards. Type discriminates which branch is
// populated.
type BoardEntry struct {
	Type string `json:"type"`

	// populated when Type == "board"
	Board *Board `json:"board,omitempty"`

	// populated when Type == "group"
	GroupID   string  `json:"groupId,omitempty"`
	GroupName string  `json:"groupName,omitempty"`
	Boards    []Board `json:"boards,omitempty"`
}

// Validate checks if the board entry is valid
func (e *BoardEntry) Validate() error {
	switch e.Type {
	case BoardEntryTypeBoard:
		if e.Board == nil {
			return goerr.New("board entry has no board")
		}
		return e.Board.Validate()
	case BoardEntryTypeGroup:
		for i := range e.Boards {
			if err := e.Boards[i].Validate(); err != nil {
				return goerr.Wrap(err, "invalid board in subgroup", goerr.V("groupId", e.GroupID))
			}
		}
		return nil
	default:
		return goerr.New("unknown board entry type", goerr.V("type", e.Type))
	}
}

// BoardGroup is a top-level named group of boards and subgroups
type BoardGroup struct {
	GroupName string       `json:"groupName"`
	Boards    []BoardEntry `json:"boards"`
}

// BoardTree is the full nested board-group tree of a tenant, as returned by
// the list-boards endpoint. It is a read-only, request-scoped view: each
// configuration call fetches a fresh one.
type BoardTree struct {
	BoardGroups []BoardGroup `json:"boardGroups"`
}

// Validate checks if the board tree is valid
func (t *BoardTree) Validate() error {
	for gi := range t.BoardGroups {
		group := &t.BoardGroups[gi]
		for ei := range group.Boards {
			if err := group.Boards[ei].Validate(); err != nil {
				return goerr.Wrap(err, "invalid board entry", goerr.V("groupName", group.GroupName))
			}
		}
	}
	return nil
}
