package print

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderTable(t *testing.T) {
	var sb strings.Builder
	RenderTable(&sb, []string{"CODIGO_UNICO", "ESTADO"}, [][]any{
		{"2345678", "ACTIVO"},
		{"9876543", nil},
	}, Options{})

	out := sb.String()
	assert.Contains(t, out, "| CODIGO_UNICO | ESTADO |")
	assert.Contains(t, out, "| 2345678      | ACTIVO |")
	assert.Contains(t, out, "NULL")
}

func TestRenderTableNoColumns(t *testing.T) {
	var sb strings.Builder
	RenderTable(&sb, nil, nil, Options{})
	assert.Equal(t, "(no columns)\n", sb.String())
}

func TestTruncateLongCells(t *testing.T) {
	var sb strings.Builder
	RenderTable(&sb, []string{"N"}, [][]any{
		{strings.Repeat("x", 100)},
	}, Options{MaxWidth: 10})
	assert.Contains(t, sb.String(), "xxxxxxx...")
}
