package app

import (
	"context"
	"fmt"
	"log/slog"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/datamef/inverchat/internal/agent"
	"github.com/datamef/inverchat/internal/config"
	"github.com/datamef/inverchat/internal/db"
	"github.com/datamef/inverchat/internal/db/mssql"
	"github.com/datamef/inverchat/internal/db/mysql"
	"github.com/datamef/inverchat/internal/db/postgres"
	"github.com/datamef/inverchat/internal/db/sqlite"
	"github.com/datamef/inverchat/internal/plugin"
	"github.com/datamef/inverchat/internal/schema"
	"github.com/datamef/inverchat/internal/ui"
)

// central factory
func openBackend(cfg *config.Config) (db.Backend, error) {
	switch cfg.Driver {
	case config.DriverSqlite:
		return sqlite.Open(cfg.Path)
	case config.DriverPostgres:
		return postgres.Open(cfg.DSN())
	case config.DriverMssql:
		return mssql.Open(cfg.DSN())
	case config.DriverMysql:
		return mysql.Open(cfg.DSN())
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
}

func newBridge(log *slog.Logger, cfg *config.Config) (*plugin.Bridge, error) {
	return plugin.New(plugin.Config{
		Logger:  log,
		Engine:  cfg.Driver,
		Timeout: cfg.QueryTimeout,
		Open: func(context.Context) (db.Backend, error) {
			return openBackend(cfg)
		},
	})
}

// schemaInfo builds the schema description in the configured mode. The
// introspected mode needs a live connection; the static mode never touches
// the database.
func schemaInfo(ctx context.Context, cfg *config.Config, bridge *plugin.Bridge, backend db.Backend) (string, error) {
	if cfg.SchemaMode == config.SchemaIntrospect {
		if !bridge.Connected() {
			return "", fmt.Errorf("schema introspection requires a database connection")
		}
		return schema.Introspect(ctx, backend)
	}
	return schema.NewBuilder(cfg.TableName).BuildInfo(), nil
}

func newSession(ctx context.Context, log *slog.Logger, cfg *config.Config, bridge *plugin.Bridge, backend db.Backend, instructionsPath string) (*agent.Session, error) {
	if cfg.AnthropicAPIKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY is required")
	}

	instructions, err := agent.LoadInstructions(instructionsPath)
	if err != nil {
		return nil, err
	}

	info, err := schemaInfo(ctx, cfg, bridge, backend)
	if err != nil {
		return nil, err
	}

	return agent.NewSession(agent.Config{
		Logger: log,
		Client: anthropic.NewClient(option.WithAPIKey(cfg.AnthropicAPIKey)),
		Model:  anthropic.Model(cfg.Model),
		System: agent.BuildSystemPrompt(instructions, info),
		Tools: []agent.Tool{{
			Name:             plugin.ToolName,
			Description:      plugin.ToolDescription,
			ParamName:        plugin.ToolParamName,
			ParamDescription: plugin.ToolParamDescription,
			Call:             bridge.Call,
		}},
	})
}

// RunInteractive starts the chat TUI. A failed database connection does not
// abort the session: the assistant starts with data access disabled and
// every query comes back as an error payload the model can explain.
func RunInteractive(ctx context.Context, log *slog.Logger, cfg *config.Config, instructionsPath string) error {
	bridge, err := newBridge(log, cfg)
	if err != nil {
		return err
	}
	defer bridge.Close()

	var backend db.Backend
	if err := bridge.Connect(ctx); err != nil {
		log.Warn("continuing without data access", "error", err)
	} else {
		backend = bridge.Backend()
	}

	session, err := newSession(ctx, log, cfg, bridge, backend, instructionsPath)
	if err != nil {
		return err
	}

	return ui.Run(ctx, session, cfg.Driver)
}
