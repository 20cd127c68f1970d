package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/flowoffice/flowbridge/pkg/cli/config"
	"github.com/flowoffice/flowbridge/pkg/domain/model"
	"github.com/flowoffice/flowbridge/pkg/domain/types"
)

func cmdBoards() *cli.Command {
	var raw bool
	var showColumns bool
	var foCfg config.FlowOffice

	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "raw",
			Usage:       "Print the unvalidated API payload as-is (schema drift diagnosis)",
			Destination: &raw,
		},
		&cli.BoolFlag{
			Name:        "columns",
			Usage:       "Show the column schema of each board",
			Destination: &showColumns,
		},
	}
	flags = append(flags, foCfg.Flags()...)

	return &cli.Command{
		Name:  "boards",
		Usage: "Inspect the tenant's board tree",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			svc, err := foCfg.Configure()
			if err != nil {
				return err
			}

			if raw {
				payload, err := svc.ListBoardsRaw(ctx)
				if err != nil {
					return goerr.Wrap(err, "failed to fetch board tree")
				}

				var buf map[string]any
				if err := json.Unmarshal(payload, &buf); err != nil {
					// Not even JSON: dump the bytes so the drift is visible
					fmt.Println(string(payload))
					return nil
				}
				pretty, err := json.MarshalIndent(buf, "", "  ")
				if err != nil {
					return goerr.Wrap(err, "failed to render board tree")
				}
				fmt.Println(string(pretty))
				return nil
			}

			tree, err := svc.ListBoards(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to fetch board tree")
			}

			printBoardTree(tree, showColumns)
			return nil
		},
	}
}

func printBoardTree(tree *model.BoardTree, showColumns bool) {
	groupColor := color.New(color.FgCyan, color.Bold)
	boardColor := color.New(color.FgWhite)
	subColor := color.New(color.FgHiBlack)
	statusColor := color.New(color.FgGreen)
	deactivatedColor := color.New(color.FgHiBlack)

	for _, group := range tree.BoardGroups {
		groupColor.Printf("%s\n", group.GroupName)
		for _, entry := range group.Boards {
			switch entry.Type {
			case model.BoardEntryTypeBoard:
				printBoard(entry.Board, "  ", showColumns, boardColor, subColor, statusColor, deactivatedColor)
			case model.BoardEntryTypeGroup:
				subColor.Printf("  %s (subgroup %s)\n", entry.GroupName, entry.GroupID)
				for i := range entry.Boards {
					printBoard(&entry.Boards[i], "    ", showColumns, boardColor, subColor, statusColor, deactivatedColor)
				}
			}
		}
	}
}

func printBoard(board *model.Board, indent string, showColumns bool, boardColor, subColor, statusColor, deactivatedColor *color.Color) {
	boardColor.Printf("%s%s (board %d)\n", indent, board.Name, board.BoardID)

	for _, sub := range board.Subboards {
		subColor.Printf("%s  sub-board: %s (%d)\n", indent, sub.Name, sub.SubboardID)
	}

	if !showColumns {
		return
	}
	for _, col := range board.ColumnSchema {
		line := fmt.Sprintf("%s  %s [%s] key=%s", indent, col.Label, col.ColumnType, col.ColumnKey)
		switch {
		case col.Deactivated:
			deactivatedColor.Fprintln(os.Stdout, line+" (deactivated)")
		case col.ColumnType == types.ColumnTypeStatus:
			statusColor.Fprintln(os.Stdout, line)
		default:
			fmt.Println(line)
		}
	}
}
