package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/datamef/inverchat/internal/config"
	"github.com/datamef/inverchat/internal/print"
)

// RunSQL executes one raw SQL statement through the bridge and renders the
// payload for a terminal. Useful for checking what the model would see.
func RunSQL(ctx context.Context, log *slog.Logger, cfg *config.Config, sql string) error {
	bridge, err := newBridge(log, cfg)
	if err != nil {
		return err
	}
	defer bridge.Close()

	if err := bridge.Connect(ctx); err != nil {
		return err
	}

	renderPayload(os.Stdout, bridge.ExecuteQuery(ctx, sql))
	return nil
}

// RunQuestion answers one natural-language question and prints the answer.
func RunQuestion(ctx context.Context, log *slog.Logger, cfg *config.Config, instructionsPath, question string) error {
	bridge, err := newBridge(log, cfg)
	if err != nil {
		return err
	}
	defer bridge.Close()

	if err := bridge.Connect(ctx); err != nil {
		log.Warn("continuing without data access", "error", err)
	}

	session, err := newSession(ctx, log, cfg, bridge, bridge.Backend(), instructionsPath)
	if err != nil {
		return err
	}

	answer, err := session.Ask(ctx, question)
	if err != nil {
		return err
	}

	fmt.Println(answer)
	return nil
}

// renderPayload decodes one of the bridge's three JSON shapes and writes a
// human rendering: a table for frames, the message itself for the
// empty-result string, and key/value lines for error objects.
func renderPayload(w io.Writer, payload string) {
	var frame struct {
		Columns []string `json:"columns"`
		Index   []int    `json:"index"`
		Data    [][]any  `json:"data"`
	}
	if err := json.Unmarshal([]byte(payload), &frame); err == nil && len(frame.Columns) > 0 {
		print.RenderTable(w, frame.Columns, frame.Data, print.Options{MaxWidth: 60})
		return
	}

	var message string
	if err := json.Unmarshal([]byte(payload), &message); err == nil {
		fmt.Fprintln(w, message)
		return
	}

	var failure map[string]string
	if err := json.Unmarshal([]byte(payload), &failure); err == nil {
		for k, v := range failure {
			fmt.Fprintf(w, "%s: %s\n", k, v)
		}
		return
	}

	fmt.Fprintln(w, payload)
}
