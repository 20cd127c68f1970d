package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/flowoffice/flowbridge/pkg/cli/config"
	httpctrl "github.com/flowoffice/flowbridge/pkg/controller/http"
	"github.com/flowoffice/flowbridge/pkg/domain/model"
	"github.com/flowoffice/flowbridge/pkg/usecase"
	"github.com/flowoffice/flowbridge/pkg/utils/logging"
	"github.com/flowoffice/flowbridge/pkg/utils/safe"
)

// forwardSink posts matched status-change events to a downstream URL as
// JSON. The serve process acts as a trigger: events that survive the
// filter leave through this sink.
func forwardSink(forwardURL string) httpctrl.EventSink {
	client := &http.Client{Timeout: 15 * time.Second}

	return func(ctx context.Context, event *model.StatusChangeEvent) error {
		body, err := json.Marshal(event)
		if err != nil {
			return goerr.Wrap(err, "failed to encode event for forwarding")
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, forwardURL, bytes.NewReader(body))
		if err != nil {
			return goerr.Wrap(err, "failed to build forward request", goerr.V("url", forwardURL))
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			return goerr.Wrap(err, "failed to forward event", goerr.V("url", forwardURL))
		}
		defer safe.Close(ctx, resp.Body)

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return goerr.New("event forwarding rejected",
				goerr.V("url", forwardURL),
				goerr.V("status", resp.StatusCode),
			)
		}
		return nil
	}
}

// logSink is the default sink: it only records matched events
func logSink(ctx context.Context, event *model.StatusChangeEvent) error {
	logging.From(ctx).Info("status change event",
		"project_id", event.ProjectID,
		"board_id", event.BoardID,
		"from", event.Status.From.LabelKey,
		"to", event.Status.To.LabelKey,
	)
	return nil
}

func cmdServe() *cli.Command {
	var addr string
	var forwardURL string
	var teardownOnExit bool
	var foCfg config.FlowOffice
	var repoCfg config.Repository
	var triggerCfg config.Trigger

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("FLOWBRIDGE_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "forward-url",
			Usage:       "Downstream URL matched events are POSTed to (logged when empty)",
			Sources:     cli.EnvVars("FLOWBRIDGE_FORWARD_URL"),
			Destination: &forwardURL,
		},
		&cli.BoolFlag{
			Name:        "teardown-on-exit",
			Usage:       "Delete the upstream subscription on shutdown (trigger deactivation)",
			Sources:     cli.EnvVars("FLOWBRIDGE_TEARDOWN_ON_EXIT"),
			Destination: &teardownOnExit,
		},
	}
	flags = append(flags, foCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, triggerCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start the HTTP server, activating the trigger if one is configured",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			svc, err := foCfg.Configure()
			if err != nil {
				return err
			}
			logging.Default().Info("FlowOffice client configured", "flowoffice", foCfg)

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			ucOpts := []usecase.Option{}

			httpOpts := []httpctrl.Option{}
			if forwardURL != "" {
				httpOpts = append(httpOpts, httpctrl.WithEventSink(forwardSink(forwardURL)))
				logging.Default().Info("Forwarding matched events", "url", forwardURL)
			} else {
				httpOpts = append(httpOpts, httpctrl.WithEventSink(logSink))
			}

			var teardown func(context.Context) error
			if triggerCfg.Enabled() {
				scope, filter, mode, err := triggerCfg.Configure()
				if err != nil {
					return goerr.Wrap(err, "failed to configure trigger")
				}
				ucOpts = append(ucOpts, usecase.WithMatchMode(mode))

				uc := usecase.New(svc, repo, ucOpts...)

				record, err := uc.Webhook.Ensure(ctx, scope, &filter)
				if err != nil {
					return goerr.Wrap(err, "failed to ensure webhook subscription")
				}
				logging.Default().Info("Webhook subscription active",
					"scope", scope,
					"client_subscription_id", record.ClientSubscriptionID,
					"config_hash", record.ConfigHash,
				)

				if teardownOnExit {
					teardown = func(ctx context.Context) error {
						return uc.Webhook.Teardown(ctx, scope)
					}
				}

				httpOpts = append(httpOpts, httpctrl.WithTrigger(scope, &filter))

				return runServer(ctx, addr, httpctrl.New(uc, repo, httpOpts...), teardown)
			}

			logging.Default().Info("No trigger configured, serving option loaders and actions only")
			uc := usecase.New(svc, repo, ucOpts...)
			return runServer(ctx, addr, httpctrl.New(uc, repo, httpOpts...), nil)
		},
	}
}

func runServer(ctx context.Context, addr string, handler http.Handler, teardown func(context.Context) error) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 30 * time.Second,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		logging.Default().Info("Starting HTTP server", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- goerr.Wrap(err, "failed to start server")
		}
	}()

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logging.Default().Info("Received shutdown signal", "signal", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if teardown != nil {
			if err := teardown(shutdownCtx); err != nil {
				logging.Default().Error("failed to tear down subscription", "error", err.Error())
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			return goerr.Wrap(err, "failed to shutdown server gracefully")
		}

		logging.Default().Info("Server shutdown completed")
		return nil
	}
}
