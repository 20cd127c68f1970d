package model_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/flowoffice/flowbridge/pkg/domain/model"
	"github.com/flowoffice/flowbridge/pkg/domain/types"
)

func testTree() *model.BoardTree {
	return &model.BoardTree{
		BoardGroups: []model.BoardGroup{
			{
				GroupName: "Sales",
				Boards: []model.BoardEntry{
					{
						Type: model.BoardEntryTypeBoard,
						Board: &model.Board{
							BoardID: 11,
							Name:    "Leads",
							ColumnSchema: []model.Column{
								{ColumnKey: "name", Label: "Name", ColumnType: types.ColumnTypeName},
								{ColumnKey: "stage", Label: "Stage", ColumnType: types.ColumnTypeStatus,
									ColumnConfig: `[{"label":"Open","enumKey":"open","backgroundColor":"#fff"}]`},
								{ColumnKey: "legacy", Label: "Legacy", ColumnType: types.ColumnTypeText, Deactivated: true},
							},
							Subboards: []model.Subboard{
								{SubboardID: 3, Name: "EMEA"},
							},
						},
					},
					{
						Type:      model.BoardEntryTypeGroup,
						GroupID:   "g-1",
						GroupName: "Archive",
						Boards: []model.Board{
							{BoardID: 12, Name: "Old Leads"},
						},
					},
				},
			},
			{
				GroupName: "Ops",
				Boards: []model.BoardEntry{
					{
						Type:  model.BoardEntryTypeBoard,
						Board: &model.Board{BoardID: 21, Name: "Tickets"},
					},
				},
			},
		},
	}
}

func TestListBoardOptions(t *testing.T) {
	options := testTree().ListBoardOptions()

	gt.Array(t, options).Length(3)

	// Source order preserved: group order, then entry order
	gt.Value(t, options[0].Name).Equal("Sales / Leads")
	gt.Value(t, options[0].BoardID).Equal(int64(11))
	gt.Value(t, options[1].Name).Equal("Sales / Archive / Old Leads")
	gt.Value(t, options[1].BoardID).Equal(int64(12))
	gt.Value(t, options[2].Name).Equal("Ops / Tickets")
}

func TestResolveBoard(t *testing.T) {
	tree := testTree()

	t.Run("direct board", func(t *testing.T) {
		board, err := tree.ResolveBoard(11)
		gt.NoError(t, err).Required()
		gt.Value(t, board.Name).Equal("Leads")
	})

	t.Run("board inside subgroup", func(t *testing.T) {
		board, err := tree.ResolveBoard(12)
		gt.NoError(t, err).Required()
		gt.Value(t, board.Name).Equal("Old Leads")
	})

	t.Run("unknown board", func(t *testing.T) {
		_, err := tree.ResolveBoard(999)
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, model.ErrBoardNotFound)).True()
	})
}

func TestListSubboardOptions(t *testing.T) {
	tree := testTree()

	options := tree.ListSubboardOptions(11)
	gt.Array(t, options).Length(1)
	gt.Value(t, options[0].Name).Equal("EMEA")
	gt.Value(t, options[0].SubboardID).Equal(int64(3))

	gt.Array(t, tree.ListSubboardOptions(999)).Length(0)
	gt.Array(t, tree.ListSubboardOptions(21)).Length(0)
}

func TestListColumnOptions(t *testing.T) {
	tree := testTree()

	t.Run("all active columns", func(t *testing.T) {
		options := tree.ListColumnOptions(11, model.ColumnFilterAll, false)
		gt.Array(t, options).Length(2)
		gt.Value(t, options[0].Name).Equal("Name (name)")
		gt.Value(t, options[1].Name).Equal("Stage (status)")
		gt.Value(t, options[1].Description).Equal("Column type: status")
	})

	t.Run("deactivated columns on request", func(t *testing.T) {
		options := tree.ListColumnOptions(11, model.ColumnFilterAll, true)
		gt.Array(t, options).Length(3)
	})

	t.Run("status-only and non-status partition the set", func(t *testing.T) {
		statusOnly := tree.ListColumnOptions(11, model.ColumnFilterStatusOnly, true)
		nonStatus := tree.ListColumnOptions(11, model.ColumnFilterNonStatus, true)
		all := tree.ListColumnOptions(11, model.ColumnFilterAll, true)

		gt.Array(t, statusOnly).Length(1)
		gt.Value(t, statusOnly[0].ColumnKey).Equal("stage")
		gt.Number(t, len(statusOnly)+len(nonStatus)).Equal(len(all))
	})

	t.Run("unknown board yields empty", func(t *testing.T) {
		gt.Array(t, tree.ListColumnOptions(999, model.ColumnFilterAll, false)).Length(0)
	})
}

func TestListStatusLabelOptions(t *testing.T) {
	tree := testTree()

	t.Run("status column labels", func(t *testing.T) {
		options, err := tree.ListStatusLabelOptions(11, "stage")
		gt.NoError(t, err).Required()
		gt.Array(t, options).Length(1)
		gt.Value(t, options[0].Name).Equal("Open")
		gt.Value(t, options[0].Value).Equal("open")
	})

	t.Run("non-status column yields empty without error", func(t *testing.T) {
		options, err := tree.ListStatusLabelOptions(11, "name")
		gt.NoError(t, err)
		gt.Array(t, options).Length(0)
	})

	t.Run("unknown board yields empty without error", func(t *testing.T) {
		options, err := tree.ListStatusLabelOptions(999, "stage")
		gt.NoError(t, err)
		gt.Array(t, options).Length(0)
	})
}
