// Package agent runs the Anthropic tool-use loop that turns user questions
// into SQL via the registered data tools and synthesizes the answer.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
)

const (
	defaultMaxTokens = 2000
	defaultMaxRounds = 8
)

// Tool is one function-call surface exposed to the model. Every tool in
// this assistant takes a single string parameter; Call receives the raw
// tool input and returns the JSON payload handed back to the model.
type Tool struct {
	Name             string
	Description      string
	ParamName        string
	ParamDescription string

	Call func(ctx context.Context, input json.RawMessage) (string, error)
}

type Config struct {
	Logger    *slog.Logger
	Client    anthropic.Client
	Model     anthropic.Model
	MaxTokens int64
	MaxRounds int
	System    string
	Tools     []Tool
}

func (c *Config) Validate() error {
	if c.Logger == nil {
		return fmt.Errorf("logger is required")
	}
	if c.System == "" {
		return fmt.Errorf("system instructions are required")
	}
	if len(c.Tools) == 0 {
		return fmt.Errorf("at least one tool is required")
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = defaultMaxTokens
	}
	if c.MaxRounds == 0 {
		c.MaxRounds = defaultMaxRounds
	}
	return nil
}

// Session is one conversation: message history is kept so follow-up
// questions can refer to earlier answers.
type Session struct {
	cfg    Config
	log    *slog.Logger
	msgs   []anthropic.MessageParam
	tools  []anthropic.ToolUnionParam
	byName map[string]Tool
}

func NewSession(cfg Config) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate agent config: %w", err)
	}

	byName := make(map[string]Tool, len(cfg.Tools))
	for _, t := range cfg.Tools {
		byName[t.Name] = t
	}

	return &Session{
		cfg:    cfg,
		log:    cfg.Logger,
		tools:  toAnthropicTools(cfg.Tools),
		byName: byName,
	}, nil
}

// Ask appends the question to the conversation and runs rounds of the model
// until it answers without requesting a tool, or the round budget runs out.
func (s *Session) Ask(ctx context.Context, question string) (string, error) {
	s.msgs = append(s.msgs, anthropic.NewUserMessage(anthropic.NewTextBlock(question)))

	for round := 1; round <= s.cfg.MaxRounds; round++ {
		s.log.Debug("agent round", "round", round, "max_rounds", s.cfg.MaxRounds)

		params := anthropic.MessageNewParams{
			Model:     s.cfg.Model,
			MaxTokens: s.cfg.MaxTokens,
			Messages:  s.msgs,
			Tools:     s.tools,
			System: []anthropic.TextBlockParam{
				{Text: s.cfg.System},
			},
		}

		resp, err := s.cfg.Client.Messages.New(ctx, params)
		if err != nil {
			return "", fmt.Errorf("failed to get response: %w", err)
		}
		s.msgs = append(s.msgs, resp.ToParam())

		toolUses := extractToolUses(resp)
		if len(toolUses) == 0 {
			return collectText(resp), nil
		}

		results := make([]anthropic.ContentBlockParamUnion, 0, len(toolUses))
		for _, tu := range toolUses {
			out, isErr := s.dispatch(ctx, tu)
			results = append(results, anthropic.NewToolResultBlock(tu.ID, out, isErr))
		}
		s.msgs = append(s.msgs, anthropic.NewUserMessage(results...))
	}

	return "", fmt.Errorf("exceeded maximum rounds (%d)", s.cfg.MaxRounds)
}

type toolUse struct {
	ID    string
	Name  string
	Input json.RawMessage
}

func (s *Session) dispatch(ctx context.Context, tu toolUse) (string, bool) {
	tool, ok := s.byName[tu.Name]
	if !ok {
		s.log.Warn("model requested unknown tool", "name", tu.Name)
		return fmt.Sprintf("unknown tool %q", tu.Name), true
	}

	s.log.Info("function call", "tool", tu.Name)

	out, err := tool.Call(ctx, tu.Input)
	if err != nil {
		return fmt.Sprintf("%s\n(error: %v)", out, err), true
	}
	return out, false
}

func extractToolUses(resp *anthropic.Message) []toolUse {
	var out []toolUse
	for _, blk := range resp.Content {
		tu := blk.AsToolUse()
		if tu.ID == "" || tu.Name == "" {
			continue
		}
		out = append(out, toolUse{ID: tu.ID, Name: tu.Name, Input: tu.Input})
	}
	return out
}

func collectText(resp *anthropic.Message) string {
	var sb strings.Builder
	for _, blk := range resp.Content {
		text := blk.AsText()
		if text.Text != "" {
			sb.WriteString(text.Text)
		}
	}
	return strings.TrimSpace(sb.String())
}

// toAnthropicTools renders the tool table for the API: every tool is an
// object schema with one required string property.
func toAnthropicTools(tools []Tool) []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, 0, len(tools))
	for _, t := range tools {
		toolParam := anthropic.ToolParam{
			Name:        t.Name,
			Description: anthropic.Opt(t.Description),
			InputSchema: anthropic.ToolInputSchemaParam{
				Type: "object",
				Properties: map[string]any{
					t.ParamName: map[string]any{
						"type":        "string",
						"description": t.ParamDescription,
					},
				},
				Required: []string{t.ParamName},
			},
		}
		out = append(out, anthropic.ToolUnionParam{OfTool: &toolParam})
	}
	return out
}
