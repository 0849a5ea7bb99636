package schema

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datamef/inverchat/internal/db"
)

func TestColumnsAreUnique(t *testing.T) {
	seen := make(map[string]bool, len(Columns))
	for _, c := range Columns {
		assert.False(t, seen[c.Name], "duplicate column %s", c.Name)
		seen[c.Name] = true
		assert.NotEmpty(t, c.Description, "column %s has no description", c.Name)
	}
}

func TestColumnDescriptionsContainEveryColumnOnce(t *testing.T) {
	b := NewBuilder("total_inversiones")
	descriptions := b.ColumnDescriptions()
	info := b.BuildInfo()

	for _, c := range Columns {
		line := "- " + c.Name + ": "
		assert.Equalf(t, 1, strings.Count(descriptions, line),
			"column %s should appear exactly once as a description line", c.Name)
		assert.Contains(t, info, line)
	}
}

func TestBuildInfoStartsWithTableName(t *testing.T) {
	info := NewBuilder("total_inversiones").BuildInfo()
	assert.True(t, strings.HasPrefix(info, "TABLA: total_inversiones\n"))
}

func TestBuildInfoOrderFollowsDeclaration(t *testing.T) {
	info := NewBuilder("total_inversiones").ColumnDescriptions()

	last := -1
	for _, c := range Columns {
		idx := strings.Index(info, "- "+c.Name+": ")
		require.GreaterOrEqual(t, idx, 0)
		assert.Greater(t, idx, last, "column %s out of order", c.Name)
		last = idx
	}
}

func TestFilterFieldsCarryLocaleGuidance(t *testing.T) {
	text := NewBuilder("total_inversiones").FilterFields()
	assert.Contains(t, text, "Lima Metropolitana")
	assert.Contains(t, text, "'LIMA'")
	assert.Contains(t, text, "JUNIN")
}

type fakeBackend struct {
	tables map[string][]db.Column
	order  []string
}

func (f *fakeBackend) Engine() string { return "fake" }
func (f *fakeBackend) Close() error   { return nil }
func (f *fakeBackend) ListTables(context.Context) ([]string, error) {
	return f.order, nil
}
func (f *fakeBackend) DescribeTable(_ context.Context, table string) ([]db.Column, error) {
	return f.tables[table], nil
}
func (f *fakeBackend) Query(context.Context, string, ...any) (*db.Rows, error) {
	return &db.Rows{}, nil
}

func TestIntrospectRendersCatalogMetadata(t *testing.T) {
	backend := &fakeBackend{
		order: []string{"total_inversiones"},
		tables: map[string][]db.Column{
			"total_inversiones": {
				{Name: "CODIGO_UNICO", Type: "TEXT"},
				{Name: "BENEFICIARIOS", Type: "INTEGER"},
			},
		},
	}

	text, err := Introspect(context.Background(), backend)
	require.NoError(t, err)
	assert.Equal(t, "Table total_inversiones Schema: Columns: CODIGO_UNICO: TEXT, BENEFICIARIOS: INTEGER\n", text)
}
