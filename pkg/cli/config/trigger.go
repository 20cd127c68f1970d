package config

import (
	"context"
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"

	"github.com/flowoffice/flowbridge/pkg/domain/model"
	"github.com/flowoffice/flowbridge/pkg/domain/types"
	"github.com/flowoffice/flowbridge/pkg/utils/safe"
)

// Trigger holds CLI flags describing the status-change trigger: which
// board and status column to watch, the label transitions of interest,
// and the public URL FlowOffice should deliver events to. The trigger
// can alternatively be described in a TOML file, in which case the file
// takes precedence over individual flags.
type Trigger struct {
	configFile string

	scope           string
	callbackURL     string
	boardID         int64
	statusColumnKey string
	subBoardID      int64
	fromLabelKeys   []string
	toLabelKeys     []string
	matchMode       string
}

type triggerFile struct {
	Scope           string   `toml:"scope"`
	CallbackURL     string   `toml:"callback-url"`
	BoardID         int64    `toml:"board-id"`
	StatusColumnKey string   `toml:"status-column-key"`
	SubBoardID      *int64   `toml:"sub-board-id"`
	FromLabelKeys   []string `toml:"from-label-keys"`
	ToLabelKeys     []string `toml:"to-label-keys"`
	MatchMode       string   `toml:"match-mode"`
}

// Flags returns CLI flags for trigger configuration
func (x *Trigger) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "trigger-config",
			Usage:       "Path to a TOML file describing the trigger (overrides trigger flags)",
			Category:    "Trigger",
			Sources:     cli.EnvVars("FLOWBRIDGE_TRIGGER_CONFIG"),
			Destination: &x.configFile,
		},
		&cli.StringFlag{
			Name:        "trigger-scope",
			Usage:       "Stable identifier of this trigger installation",
			Category:    "Trigger",
			Sources:     cli.EnvVars("FLOWBRIDGE_TRIGGER_SCOPE"),
			Destination: &x.scope,
		},
		&cli.StringFlag{
			Name:        "callback-url",
			Usage:       "Public URL FlowOffice delivers status-change events to",
			Category:    "Trigger",
			Sources:     cli.EnvVars("FLOWBRIDGE_CALLBACK_URL"),
			Destination: &x.callbackURL,
		},
		&cli.Int64Flag{
			Name:        "board-id",
			Usage:       "Board to watch for status changes",
			Category:    "Trigger",
			Sources:     cli.EnvVars("FLOWBRIDGE_BOARD_ID"),
			Destination: &x.boardID,
		},
		&cli.StringFlag{
			Name:        "status-column-key",
			Usage:       "Status column to watch",
			Category:    "Trigger",
			Sources:     cli.EnvVars("FLOWBRIDGE_STATUS_COLUMN_KEY"),
			Destination: &x.statusColumnKey,
		},
		&cli.Int64Flag{
			Name:        "sub-board-id",
			Usage:       "Restrict the trigger to a single sub-board (0 means all)",
			Category:    "Trigger",
			Sources:     cli.EnvVars("FLOWBRIDGE_SUB_BOARD_ID"),
			Destination: &x.subBoardID,
		},
		&cli.StringSliceFlag{
			Name:        "from-label-key",
			Usage:       "Only match transitions leaving one of these status labels (repeatable)",
			Category:    "Trigger",
			Sources:     cli.EnvVars("FLOWBRIDGE_FROM_LABEL_KEYS"),
			Destination: &x.fromLabelKeys,
		},
		&cli.StringSliceFlag{
			Name:        "to-label-key",
			Usage:       "Only match transitions entering one of these status labels (repeatable)",
			Category:    "Trigger",
			Sources:     cli.EnvVars("FLOWBRIDGE_TO_LABEL_KEYS"),
			Destination: &x.toLabelKeys,
		},
		&cli.StringFlag{
			Name:        "match-mode",
			Usage:       "How FROM and TO label sets combine (all or any)",
			Category:    "Trigger",
			Value:       string(types.MatchModeAll),
			Sources:     cli.EnvVars("FLOWBRIDGE_MATCH_MODE"),
			Destination: &x.matchMode,
		},
	}
}

// LogValue implements slog.LogValuer
func (x Trigger) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("scope", x.scope),
		slog.Int64("board-id", x.boardID),
		slog.String("status-column-key", x.statusColumnKey),
		slog.Any("from-label-keys", x.fromLabelKeys),
		slog.Any("to-label-keys", x.toLabelKeys),
		slog.String("match-mode", x.matchMode),
	)
}

// Enabled reports whether a trigger was configured at all. A serve
// process without a trigger only exposes option loaders and actions.
func (x *Trigger) Enabled() bool {
	return x.configFile != "" || x.scope != ""
}

func (x *Trigger) loadFile() error {
	fd, err := os.Open(x.configFile)
	if err != nil {
		return goerr.Wrap(err, "failed to open trigger config", goerr.V("path", x.configFile))
	}
	defer safe.Close(context.Background(), fd)

	var f triggerFile
	if err := toml.NewDecoder(fd).Decode(&f); err != nil {
		return goerr.Wrap(err, "failed to parse trigger config", goerr.V("path", x.configFile))
	}

	x.scope = f.Scope
	x.callbackURL = f.CallbackURL
	x.boardID = f.BoardID
	x.statusColumnKey = f.StatusColumnKey
	if f.SubBoardID != nil {
		x.subBoardID = *f.SubBoardID
	}
	x.fromLabelKeys = f.FromLabelKeys
	x.toLabelKeys = f.ToLabelKeys
	if f.MatchMode != "" {
		x.matchMode = f.MatchMode
	}
	return nil
}

// Configure resolves the trigger scope, filter and match mode. The TOML
// file, when given, replaces the flag values wholesale.
func (x *Trigger) Configure() (types.TriggerScope, model.SubscriptionFilter, types.MatchMode, error) {
	if x.configFile != "" {
		if err := x.loadFile(); err != nil {
			return "", model.SubscriptionFilter{}, "", err
		}
	}

	scope := types.TriggerScope(x.scope)
	if err := scope.Validate(); err != nil {
		return "", model.SubscriptionFilter{}, "", err
	}

	mode := types.MatchMode(x.matchMode).Normalize()
	if !mode.IsValid() {
		return "", model.SubscriptionFilter{}, "", goerr.New("invalid match mode",
			goerr.V("match_mode", x.matchMode))
	}

	filter := model.SubscriptionFilter{
		CallbackURL:     x.callbackURL,
		BoardID:         x.boardID,
		StatusColumnKey: x.statusColumnKey,
		FromLabelKeys:   x.fromLabelKeys,
		ToLabelKeys:     x.toLabelKeys,
	}
	if x.subBoardID != 0 {
		filter.SubBoardID = &x.subBoardID
	}
	if err := filter.Validate(); err != nil {
		return "", model.SubscriptionFilter{}, "", err
	}

	return scope, filter, mode, nil
}
