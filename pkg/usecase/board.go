package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"

	"github.com/flowoffice/flowbridge/pkg/domain/model"
	"github.com/flowoffice/flowbridge/pkg/domain/types"
	"github.com/flowoffice/flowbridge/pkg/service/flowoffice"
	"github.com/flowoffice/flowbridge/pkg/utils/logging"
)

// BoardUseCase answers board-schema questions for configuration UIs. Every
// operation fetches a fresh board tree: metadata is request-scoped and
// never cached across calls.
type BoardUseCase struct {
	svc flowoffice.Service
}

// NewBoardUseCase creates a new board use case
func NewBoardUseCase(svc flowoffice.Service) *BoardUseCase {
	return &BoardUseCase{svc: svc}
}

func (u *BoardUseCase) tree(ctx context.Context) (*model.BoardTree, error) {
	tree, err := u.svc.ListBoards(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch board tree")
	}
	return tree, nil
}

// ListBoardOptions enumerates all boards of the tenant as options
func (u *BoardUseCase) ListBoardOptions(ctx context.Context) ([]model.BoardOption, error) {
	tree, err := u.tree(ctx)
	if err != nil {
		return nil, err
	}
	return tree.ListBoardOptions(), nil
}

// ResolveBoard fetches the board tree and resolves one board for
// execution. Unlike the option loaders, a vanished board is an explicit
// error here.
func (u *BoardUseCase) ResolveBoard(ctx context.Context, boardID int64) (*model.Board, error) {
	tree, err := u.tree(ctx)
	if err != nil {
		return nil, err
	}
	return tree.ResolveBoard(boardID)
}

// ListSubboardOptions enumerates a board's subboards as options
func (u *BoardUseCase) ListSubboardOptions(ctx context.Context, boardID int64) ([]model.SubboardOption, error) {
	tree, err := u.tree(ctx)
	if err != nil {
		return nil, err
	}
	return tree.ListSubboardOptions(boardID), nil
}

// ListColumnOptions enumerates a board's columns as options, filtered by
// type class
func (u *BoardUseCase) ListColumnOptions(ctx context.Context, boardID int64, filter model.ColumnFilter, includeDeactivated bool) ([]model.ColumnOption, error) {
	tree, err := u.tree(ctx)
	if err != nil {
		return nil, err
	}
	return tree.ListColumnOptions(boardID, filter, includeDeactivated), nil
}

// ListStatusLabelOptions enumerates the labels of a status column as options
func (u *BoardUseCase) ListStatusLabelOptions(ctx context.Context, boardID int64, columnKey string) ([]model.StatusLabelOption, error) {
	tree, err := u.tree(ctx)
	if err != nil {
		return nil, err
	}
	return tree.ListStatusLabelOptions(boardID, columnKey)
}

// FieldDescriptors builds the field-mapping descriptors for a board's
// columns. The mandatory name column anchors record matching; unsupported
// column types become read-only fields.
func (u *BoardUseCase) FieldDescriptors(ctx context.Context, boardID int64) ([]model.FieldDescriptor, error) {
	tree, err := u.tree(ctx)
	if err != nil {
		return nil, err
	}

	board, err := tree.ResolveBoard(boardID)
	if err != nil {
		return nil, err
	}

	logger := logging.From(ctx)

	fields := make([]model.FieldDescriptor, 0, len(board.ColumnSchema))
	for i := range board.ColumnSchema {
		col := &board.ColumnSchema[i]
		fieldType := types.MapColumnType(col.ColumnType)

		field := model.FieldDescriptor{
			ID:               col.ColumnKey,
			DisplayName:      col.Label + " (" + col.ColumnType.DisplayName() + ")",
			Type:             fieldType,
			Required:         col.ColumnType == types.ColumnTypeName,
			DefaultMatch:     col.ColumnType == types.ColumnTypeName,
			CanBeUsedToMatch: col.ColumnType == types.ColumnTypeName,
			ReadOnly:         fieldType.ReadOnly(),
		}

		if col.ColumnType == types.ColumnTypeStatus {
			labels, err := model.DecodeStatusLabels(col)
			if err != nil {
				return nil, err
			}
			for _, label := range labels {
				field.Options = append(field.Options, model.StatusLabelOption{
					Name:  label.Label,
					Value: label.EnumKey,
				})
			}
		} else if fieldType == types.FieldTypeEnumerated {
			// The mapper says this column takes enumerated values but no
			// component supplies its options: the two have drifted.
			logger.Warn("enumerated column type has no option supplier",
				"columnType", col.ColumnType, "columnKey", col.ColumnKey)
		}

		fields = append(fields, field)
	}

	return fields, nil
}
