package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/flowoffice/flowbridge/pkg/service/flowoffice"
)

// FlowOffice holds CLI flags for the FlowOffice API credentials
type FlowOffice struct {
	baseURL string
	apiKey  string
}

// Flags returns CLI flags for FlowOffice configuration
func (x *FlowOffice) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "flowoffice-base-url",
			Usage:       "Base URL of the FlowOffice API (e.g. https://app.flow-office.eu)",
			Category:    "FlowOffice",
			Required:    true,
			Sources:     cli.EnvVars("FLOWBRIDGE_FLOWOFFICE_BASE_URL"),
			Destination: &x.baseURL,
		},
		&cli.StringFlag{
			Name:        "flowoffice-api-key",
			Usage:       "API key for the FlowOffice API",
			Category:    "FlowOffice",
			Required:    true,
			Sources:     cli.EnvVars("FLOWBRIDGE_FLOWOFFICE_API_KEY"),
			Destination: &x.apiKey,
		},
	}
}

// LogValue implements slog.LogValuer without leaking the API key
func (x FlowOffice) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("base-url", x.baseURL),
		slog.Int("api-key.len", len(x.apiKey)),
	)
}

// Configure creates the FlowOffice service client
func (x *FlowOffice) Configure() (flowoffice.Service, error) {
	svc, err := flowoffice.New(x.baseURL, x.apiKey)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create FlowOffice client")
	}
	return svc, nil
}
