package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/flowoffice/flowbridge/pkg/cli/config"
	"github.com/flowoffice/flowbridge/pkg/domain/model"
	"github.com/flowoffice/flowbridge/pkg/service/switchbuilder"
	"github.com/flowoffice/flowbridge/pkg/usecase"
	"github.com/flowoffice/flowbridge/pkg/utils/logging"
)

func cmdSwitch() *cli.Command {
	var boardID int64
	var columnKey string
	var valueExpression string
	var nodeName string
	var foCfg config.FlowOffice

	flags := []cli.Flag{
		&cli.Int64Flag{
			Name:        "board-id",
			Usage:       "Board the status column belongs to",
			Required:    true,
			Destination: &boardID,
		},
		&cli.StringFlag{
			Name:        "column-key",
			Usage:       "Status column to branch on",
			Required:    true,
			Destination: &columnKey,
		},
		&cli.StringFlag{
			Name:        "value-expression",
			Usage:       "Left-hand side expression of every branch predicate",
			Destination: &valueExpression,
		},
		&cli.StringFlag{
			Name:        "node-name",
			Usage:       "Name of the generated branching node",
			Destination: &nodeName,
		},
	}
	flags = append(flags, foCfg.Flags()...)

	return &cli.Command{
		Name:  "switch",
		Usage: "Generate a paste-ready branching node for a status column",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			svc, err := foCfg.Configure()
			if err != nil {
				return err
			}

			uc := usecase.NewBoardUseCase(svc)

			board, err := uc.ResolveBoard(ctx, boardID)
			if err != nil {
				return goerr.Wrap(err, "failed to resolve board", goerr.V("board_id", boardID))
			}

			col := board.Column(columnKey)
			if col == nil {
				return goerr.New("column not found on board",
					goerr.V("board_id", boardID),
					goerr.V("column_key", columnKey),
				)
			}

			labels, err := model.DecodeStatusLabels(col)
			if err != nil {
				if errors.Is(err, model.ErrMalformedColumnConfig) {
					return goerr.Wrap(err, "status column has no usable label configuration",
						goerr.V("column_key", columnKey))
				}
				return err
			}

			result, err := switchbuilder.Build(&switchbuilder.BuildInput{
				BoardID:         boardID,
				BoardName:       board.Name,
				ColumnKey:       columnKey,
				ColumnLabel:     col.Label,
				Labels:          labels,
				ValueExpression: valueExpression,
				NodeName:        nodeName,
			})
			if err != nil {
				return goerr.Wrap(err, "failed to build branching node")
			}

			logging.Default().Info("Generated branching node",
				"node_name", result.NodeName,
				"branches", result.BranchCount,
			)
			fmt.Println(result.JSON)
			return nil
		},
	}
}
