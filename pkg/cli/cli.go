package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/flowoffice/flowbridge/pkg/cli/config"
	"github.com/flowoffice/flowbridge/pkg/utils/logging"
)

func Run(ctx context.Context, args []string, version string) error {
	var loggerCfg config.Logger
	var sentryCfg config.Sentry
	var closer func()

	flags := loggerCfg.Flags()
	flags = append(flags, sentryCfg.Flags()...)

	app := &cli.Command{
		Name:    "flowbridge",
		Usage:   "FlowOffice project management integration adapter",
		Version: version,
		Flags:   flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			if err := loggerCfg.Configure(); err != nil {
				return ctx, err
			}

			f, err := sentryCfg.Configure(version)
			if err != nil {
				return ctx, err
			}
			closer = f

			logging.Default().Info("Starting flowbridge", "logger", loggerCfg)
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if closer != nil {
				closer()
			}
			return nil
		},
		Commands: []*cli.Command{
			cmdServe(),
			cmdBoards(),
			cmdSwitch(),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		logging.Default().Error("failed to run app", "error", err)
		return err
	}

	return nil
}
