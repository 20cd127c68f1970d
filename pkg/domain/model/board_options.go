package model

import (
	"fmt"

	"github.com/m-mizutani/goerr/v2"

	"github.com/flowoffice/flowbridge/pkg/domain/types"
)

// BoardOption is a selectable board in a configuration UI
type BoardOption struct {
	Name    string
	BoardID int64
}

// SubboardOption is a selectable subboard of a board
type SubboardOption struct {
	Name       string
	SubboardID int64
}

// ColumnOption is a selectable column of a board
type ColumnOption struct {
	Name        string
	ColumnKey   string
	Description string
}

// StatusLabelOption is a selectable label of a status column. Value is the
// label's stable key used on the wire.
type StatusLabelOption struct {
	Name  string
	Value string
}

// ColumnFilter partitions column options by type class
type ColumnFilter string

const (
	ColumnFilterAll        ColumnFilter = "all"
	ColumnFilterStatusOnly ColumnFilter = "status-only"
	ColumnFilterNonStatus  ColumnFilter = "non-status"
)

// ListBoardOptions flattens the two-level group nesting into board options.
// Source order is load-bearing for UI presentation and is preserved: groups,
// then entries within a group, then boards within a subgroup.
func (t *BoardTree) ListBoardOptions() []BoardOption {
	var options []BoardOption

	for gi := range t.BoardGroups {
		group := &t.BoardGroups[gi]
		for ei := range group.Boards {
			entry := &group.Boards[ei]
			switch entry.Type {
			case BoardEntryTypeBoard:
				options = append(options, BoardOption{
					Name:    fmt.Sprintf("%s / %s", group.GroupName, entry.Board.Name),
					BoardID: entry.Board.BoardID,
				})
			case BoardEntryTypeGroup:
				for bi := range entry.Boards {
					board := &entry.Boards[bi]
					options = append(options, BoardOption{
						Name:    fmt.Sprintf("%s / %s / %s", group.GroupName, entry.GroupName, board.Name),
						BoardID: board.BoardID,
					})
				}
			}
		}
	}

	return options
}

// ResolveBoard returns the board with the given ID. Board IDs are unique
// across the tenant, so the first match in flattened traversal order is the
// only match. Callers that only populate option lists should use the
// List*Options methods instead, which absorb not-found into empty lists.
func (t *BoardTree) ResolveBoard(boardID int64) (*Board, error) {
	for gi := range t.BoardGroups {
		group := &t.BoardGroups[gi]
		for ei := range group.Boards {
			entry := &group.Boards[ei]
			switch entry.Type {
			case BoardEntryTypeBoard:
				if entry.Board.BoardID == boardID {
					return entry.Board, nil
				}
			case BoardEntryTypeGroup:
				for bi := range entry.Boards {
					if entry.Boards[bi].BoardID == boardID {
						return &entry.Boards[bi], nil
					}
				}
			}
		}
	}

	return nil, goerr.Wrap(ErrBoardNotFound, "board not in tree",
		goerr.V("boardId", boardID), goerr.T(ErrTagNotFound))
}

// ListSubboardOptions returns the subboards of a board as options. Empty if
// the board is absent or has no subboards.
func (t *BoardTree) ListSubboardOptions(boardID int64) []SubboardOption {
	board, err := t.ResolveBoard(boardID)
	if err != nil {
		return nil
	}

	var options []SubboardOption
	for _, sb := range board.Subboards {
		options = append(options, SubboardOption{
			Name:       sb.Name,
			SubboardID: sb.SubboardID,
		})
	}
	return options
}

// ListColumnOptions returns a board's columns as options, filtered by type
// class. Deactivated columns are only dropped when includeDeactivated is
// false: some triggers must still resolve columns that were used
// historically, so the exclusion is the caller's explicit choice.
func (t *BoardTree) ListColumnOptions(boardID int64, filter ColumnFilter, includeDeactivated bool) []ColumnOption {
	board, err := t.ResolveBoard(boardID)
	if err != nil {
		return nil
	}

	var options []ColumnOption
	for i := range board.ColumnSchema {
		col := &board.ColumnSchema[i]
		if col.Deactivated && !includeDeactivated {
			continue
		}

		switch filter {
		case ColumnFilterStatusOnly:
			if col.ColumnType != types.ColumnTypeStatus {
				continue
			}
		case ColumnFilterNonStatus:
			if col.ColumnType == types.ColumnTypeStatus {
				continue
			}
		}

		options = append(options, ColumnOption{
			Name:        fmt.Sprintf("%s (%s)", col.Label, col.ColumnType),
			ColumnKey:   col.ColumnKey,
			Description: fmt.Sprintf("Column type: %s", col.ColumnType),
		})
	}
	return options
}

// ListStatusLabelOptions returns the labels of a status column as options.
// Empty if the board or column is absent, or the column is not a status
// column. A malformed label payload is an error, not an empty list.
func (t *BoardTree) ListStatusLabelOptions(boardID int64, columnKey string) ([]StatusLabelOption, error) {
	board, err := t.ResolveBoard(boardID)
	if err != nil {
		return nil, nil
	}

	col := board.Column(columnKey)
	if col == nil || col.ColumnType != types.ColumnTypeStatus {
		return nil, nil
	}

	labels, err := DecodeStatusLabels(col)
	if err != nil {
		return nil, err
	}

	options := make([]StatusLabelOption, 0, len(labels))
	for _, label := range labels {
		options = append(options, StatusLabelOption{
			Name:  label.Label,
			Value: label.EnumKey,
		})
	}
	return options, nil
}
