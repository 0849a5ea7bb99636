package plugin

import (
	"encoding/json"

	"github.com/datamef/inverchat/internal/db"
)

// emptyResultMessage is returned (JSON-encoded, as a bare string) when a
// query legitimately matches zero rows. It is deliberately not an error
// object: the model should rephrase, not apologize for a failure.
const emptyResultMessage = "The query returned no results. Try a different question."

// Frame is the split-orientation tabular payload: column names, a 0-based
// row index, and row-major data. Field order here is the wire order.
type Frame struct {
	Columns []string `json:"columns"`
	Index   []int    `json:"index"`
	Data    [][]any  `json:"data"`
}

func frameFromRows(rows *db.Rows) *Frame {
	f := &Frame{
		Columns: make([]string, len(rows.Columns)),
		Index:   make([]int, len(rows.Data)),
		Data:    make([][]any, len(rows.Data)),
	}
	for i, c := range rows.Columns {
		f.Columns[i] = c.Name
	}
	for i, row := range rows.Data {
		f.Index[i] = i
		f.Data[i] = []any(row)
	}
	return f
}

// errorPayload wraps a failed execution into the structured JSON the model
// receives instead of an exception: the engine-labelled error message and
// the query that was actually attempted (post-normalization).
func errorPayload(engine, message, query string) string {
	out, err := json.Marshal(map[string]string{
		engine + " query failed with error": message,
		"query":                             query,
	})
	if err != nil {
		// Two string fields cannot fail to marshal; keep the compiler honest.
		return `{"query failed": "internal serialization error"}`
	}
	return string(out)
}

func emptyPayload() string {
	out, _ := json.Marshal(emptyResultMessage)
	return string(out)
}

func framePayload(rows *db.Rows) (string, error) {
	out, err := json.Marshal(frameFromRows(rows))
	if err != nil {
		return "", err
	}
	return string(out), nil
}
