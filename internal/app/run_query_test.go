package app

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderPayloadFrame(t *testing.T) {
	var sb strings.Builder
	renderPayload(&sb, `{"columns":["A","B"],"index":[0,1],"data":[[1,"x"],[2,"y"]]}`)

	out := sb.String()
	assert.Contains(t, out, "| A")
	assert.Contains(t, out, "| 1")
	assert.Contains(t, out, "| y")
}

func TestRenderPayloadEmptyMessage(t *testing.T) {
	var sb strings.Builder
	renderPayload(&sb, `"The query returned no results. Try a different question."`)
	assert.Equal(t, "The query returned no results. Try a different question.\n", sb.String())
}

func TestRenderPayloadError(t *testing.T) {
	var sb strings.Builder
	renderPayload(&sb, `{"sqlite query failed with error":"no such table: T","query":"SELECT * FROM T"}`)

	out := sb.String()
	assert.Contains(t, out, "no such table: T")
	assert.Contains(t, out, "SELECT * FROM T")
}
