// Package plugin implements the query-execution bridge between the language
// model and the relational backend: it normalizes model-generated SQL,
// executes it, and serializes the outcome to one of three JSON shapes (a
// tabular frame, an informational empty-result string, or a structured
// error object). Nothing in here validates SQL; the query is a best-effort
// pass-through.
package plugin

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/datamef/inverchat/internal/db"
)

// Function-call surface advertised to the model.
const (
	ToolName        = "fetch_investment_data"
	ToolDescription = "Execute a SQL query against the public investment table and return the results as JSON."

	ToolParamName        = "query"
	ToolParamDescription = "A well-formed SQL query that extracts the information needed to answer the user's question. The result is returned as a JSON object."
)

// OpenFunc opens the configured backend. The bridge owns the returned
// handle until Close.
type OpenFunc func(ctx context.Context) (db.Backend, error)

type state int

const (
	stateUnconnected state = iota
	stateConnected
	stateClosed
)

type Config struct {
	Logger *slog.Logger
	Open   OpenFunc

	// Engine labels error payloads even when no connection was ever
	// established (disabled-plugin case).
	Engine string

	// Timeout bounds every backend call; connect, query and close each get
	// their own deadline.
	Timeout time.Duration
}

func (c *Config) Validate() error {
	if c.Logger == nil {
		return fmt.Errorf("logger is required")
	}
	if c.Open == nil {
		return fmt.Errorf("open func is required")
	}
	if c.Engine == "" {
		return fmt.Errorf("engine label is required")
	}
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
	return nil
}

// Bridge holds at most one backend connection and executes one query per
// invocation. Not safe for concurrent use; the hosting loop issues calls
// sequentially.
type Bridge struct {
	log     *slog.Logger
	open    OpenFunc
	engine  string
	timeout time.Duration

	backend db.Backend
	state   state
}

func New(cfg Config) (*Bridge, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate bridge config: %w", err)
	}
	return &Bridge{
		log:     cfg.Logger,
		open:    cfg.Open,
		engine:  cfg.Engine,
		timeout: cfg.Timeout,
	}, nil
}

// Connect opens the backend. On failure the bridge stays unconnected and
// the error is returned; the hosting layer decides whether to continue with
// a disabled bridge or abort. A closed bridge is never reopened.
func (b *Bridge) Connect(ctx context.Context) error {
	switch b.state {
	case stateConnected:
		return nil
	case stateClosed:
		return fmt.Errorf("bridge is closed")
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	backend, err := b.open(ctx)
	if err != nil {
		b.log.Error("database connection failed", "engine", b.engine, "error", err)
		return fmt.Errorf("connect %s: %w", b.engine, err)
	}

	b.backend = backend
	b.state = stateConnected
	b.log.Info("database connection opened", "engine", b.engine)
	return nil
}

// Connected reports whether a backend handle is held.
func (b *Bridge) Connected() bool {
	return b.state == stateConnected
}

// Backend exposes the underlying handle for catalog introspection; nil
// unless connected.
func (b *Bridge) Backend() db.Backend {
	if b.state != stateConnected {
		return nil
	}
	return b.backend
}

// Close releases the backend. Safe to call in any state, including after a
// failed Connect; it must run on session teardown regardless of prior
// errors.
func (b *Bridge) Close() error {
	if b.state != stateConnected || b.backend == nil {
		b.state = stateClosed
		return nil
	}
	err := b.backend.Close()
	b.backend = nil
	b.state = stateClosed
	b.log.Debug("database connection closed", "engine", b.engine)
	return err
}

// ExecuteQuery normalizes and runs one model-generated query and always
// returns a JSON string: a split-orientation frame for rows, a bare string
// for zero rows, or an error object. No fault escapes to the caller.
//
// The whole query is uppercased apart from the case-preservation
// exceptions, so case-sensitive string literals are uppercased too; that is
// an accepted limitation of the current design.
func (b *Bridge) ExecuteQuery(ctx context.Context, rawQuery string) string {
	query := Normalize(rawQuery)
	b.log.Info("executing query", "engine", b.engine, "sql", query)

	if b.state != stateConnected || b.backend == nil {
		return errorPayload(b.engine, "no database connection", query)
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	rows, err := b.backend.Query(ctx, query)
	if err != nil {
		b.log.Warn("query failed", "engine", b.engine, "error", err)
		return errorPayload(b.engine, err.Error(), query)
	}

	if len(rows.Data) == 0 {
		return emptyPayload()
	}

	payload, err := framePayload(rows)
	if err != nil {
		return errorPayload(b.engine, err.Error(), query)
	}
	return payload
}

// Call is the function-call entry point used by the agent loop: it decodes
// the single-parameter tool input and delegates to ExecuteQuery. The error
// return is always nil; failures travel inside the JSON payload so the
// model can revise its query.
func (b *Bridge) Call(ctx context.Context, input json.RawMessage) (string, error) {
	var args struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal(input, &args); err != nil {
		return errorPayload(b.engine, fmt.Sprintf("invalid tool input: %v", err), ""), nil
	}
	return b.ExecuteQuery(ctx, args.Query), nil
}
