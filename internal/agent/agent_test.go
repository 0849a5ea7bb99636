package agent

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBuildSystemPromptSplicesSchema(t *testing.T) {
	out := BuildSystemPrompt("before\n"+SchemaPlaceholder+"\nafter", "TABLA: total_inversiones")
	assert.Equal(t, "before\nTABLA: total_inversiones\nafter", out)
	assert.NotContains(t, out, SchemaPlaceholder)
}

func TestDefaultInstructionsCarryPlaceholder(t *testing.T) {
	assert.True(t, strings.Contains(DefaultInstructions, SchemaPlaceholder))
}

func TestLoadInstructionsFallsBackToDefault(t *testing.T) {
	text, err := LoadInstructions("")
	require.NoError(t, err)
	assert.Equal(t, DefaultInstructions, text)
}

func TestLoadInstructionsMissingFile(t *testing.T) {
	_, err := LoadInstructions("does/not/exist.txt")
	require.Error(t, err)
}

func TestToAnthropicToolsShape(t *testing.T) {
	tools := toAnthropicTools([]Tool{{
		Name:             "fetch_investment_data",
		Description:      "Execute a SQL query",
		ParamName:        "query",
		ParamDescription: "A well-formed SQL query",
	}})
	require.Len(t, tools, 1)

	tp := tools[0].OfTool
	require.NotNil(t, tp)
	assert.Equal(t, "fetch_investment_data", tp.Name)
	assert.Equal(t, []string{"query"}, tp.InputSchema.Required)

	props, ok := tp.InputSchema.Properties.(map[string]any)
	require.True(t, ok)
	require.Contains(t, props, "query")
}

func TestDispatchRoutesToRegisteredTool(t *testing.T) {
	var gotInput string
	s, err := NewSession(Config{
		Logger: testLogger(),
		System: "test",
		Tools: []Tool{{
			Name:             "fetch_investment_data",
			Description:      "d",
			ParamName:        "query",
			ParamDescription: "d",
			Call: func(_ context.Context, input json.RawMessage) (string, error) {
				gotInput = string(input)
				return `{"columns":[]}`, nil
			},
		}},
	})
	require.NoError(t, err)

	out, isErr := s.dispatch(context.Background(), toolUse{
		ID:    "toolu_1",
		Name:  "fetch_investment_data",
		Input: json.RawMessage(`{"query":"select 1"}`),
	})
	assert.False(t, isErr)
	assert.Equal(t, `{"columns":[]}`, out)
	assert.Equal(t, `{"query":"select 1"}`, gotInput)
}

func TestDispatchUnknownToolIsAnError(t *testing.T) {
	s, err := NewSession(Config{
		Logger: testLogger(),
		System: "test",
		Tools: []Tool{{
			Name: "fetch_investment_data", Description: "d",
			ParamName: "query", ParamDescription: "d",
			Call: func(context.Context, json.RawMessage) (string, error) { return "", nil },
		}},
	})
	require.NoError(t, err)

	out, isErr := s.dispatch(context.Background(), toolUse{ID: "x", Name: "nope"})
	assert.True(t, isErr)
	assert.Contains(t, out, "nope")
}

func TestConfigValidation(t *testing.T) {
	_, err := NewSession(Config{Logger: testLogger(), System: "x"})
	require.Error(t, err)

	_, err = NewSession(Config{Logger: testLogger()})
	require.Error(t, err)
}
