package plugin

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datamef/inverchat/internal/db"
)

type fakeBackend struct {
	rows    *db.Rows
	queryFn func(ctx context.Context, sql string) (*db.Rows, error)

	lastQuery string
	closed    bool
}

func (f *fakeBackend) Engine() string { return "sqlite" }
func (f *fakeBackend) Close() error {
	f.closed = true
	return nil
}
func (f *fakeBackend) ListTables(context.Context) ([]string, error) { return nil, nil }
func (f *fakeBackend) DescribeTable(context.Context, string) ([]db.Column, error) {
	return nil, nil
}
func (f *fakeBackend) Query(ctx context.Context, sql string, _ ...any) (*db.Rows, error) {
	f.lastQuery = sql
	if f.queryFn != nil {
		return f.queryFn(ctx, sql)
	}
	return f.rows, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestBridge(t *testing.T, backend db.Backend, openErr error) *Bridge {
	t.Helper()
	b, err := New(Config{
		Logger:  testLogger(),
		Engine:  "sqlite",
		Timeout: 5 * time.Second,
		Open: func(context.Context) (db.Backend, error) {
			if openErr != nil {
				return nil, openErr
			}
			return backend, nil
		},
	})
	require.NoError(t, err)
	return b
}

func TestNewRequiresConfig(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
}

func TestExecuteQuerySerializesFrameInSplitOrientation(t *testing.T) {
	backend := &fakeBackend{rows: &db.Rows{
		Columns: []db.Column{{Name: "A"}, {Name: "B"}},
		Data: []db.Row{
			{1, "x"},
			{2, "y"},
		},
	}}
	b := newTestBridge(t, backend, nil)
	require.NoError(t, b.Connect(context.Background()))

	got := b.ExecuteQuery(context.Background(), "select a, b from t")
	assert.JSONEq(t, `{"columns":["A","B"],"index":[0,1],"data":[[1,"x"],[2,"y"]]}`, got)

	// Field order is part of the wire contract.
	assert.Equal(t, `{"columns":["A","B"],"index":[0,1],"data":[[1,"x"],[2,"y"]]}`, got)
}

func TestExecuteQueryPassesNormalizedSQLToBackend(t *testing.T) {
	backend := &fakeBackend{rows: &db.Rows{
		Columns: []db.Column{{Name: "PIM_Año_Actual"}},
		Data:    []db.Row{{42}},
	}}
	b := newTestBridge(t, backend, nil)
	require.NoError(t, b.Connect(context.Background()))

	b.ExecuteQuery(context.Background(), "select PIM_AÑO_ACTUAL from total_inversiones")
	assert.Equal(t, "SELECT PIM_Año_Actual FROM TOTAL_INVERSIONES", backend.lastQuery)
}

func TestExecuteQueryEmptyResultIsInformationalString(t *testing.T) {
	backend := &fakeBackend{rows: &db.Rows{
		Columns: []db.Column{{Name: "A"}},
	}}
	b := newTestBridge(t, backend, nil)
	require.NoError(t, b.Connect(context.Background()))

	got := b.ExecuteQuery(context.Background(), "select a from t where 1=0")

	var decoded string
	require.NoError(t, json.Unmarshal([]byte(got), &decoded))
	assert.Equal(t, "The query returned no results. Try a different question.", decoded)
}

func TestExecuteQueryErrorPayloadHasExactlyTwoKeys(t *testing.T) {
	backend := &fakeBackend{
		queryFn: func(context.Context, string) (*db.Rows, error) {
			return nil, errors.New("no such table: TOTAL_INVERSIONES")
		},
	}
	b := newTestBridge(t, backend, nil)
	require.NoError(t, b.Connect(context.Background()))

	got := b.ExecuteQuery(context.Background(), "select * from total_inversiones")

	var decoded map[string]string
	require.NoError(t, json.Unmarshal([]byte(got), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "no such table: TOTAL_INVERSIONES", decoded["sqlite query failed with error"])
	assert.Equal(t, "SELECT * FROM TOTAL_INVERSIONES", decoded["query"])
}

func TestExecuteQueryWhileUnconnectedReturnsErrorPayload(t *testing.T) {
	b := newTestBridge(t, nil, errors.New("unreachable"))

	got := b.ExecuteQuery(context.Background(), "select 1")

	var decoded map[string]string
	require.NoError(t, json.Unmarshal([]byte(got), &decoded))
	assert.Contains(t, decoded, "sqlite query failed with error")
}

func TestConnectFailureLeavesBridgeDisabled(t *testing.T) {
	b := newTestBridge(t, nil, errors.New("connection refused"))

	err := b.Connect(context.Background())
	require.Error(t, err)
	assert.False(t, b.Connected())

	// Close after a failed connect must not panic or error.
	require.NoError(t, b.Close())
}

func TestCloseIsIdempotentAndTerminal(t *testing.T) {
	backend := &fakeBackend{rows: &db.Rows{}}
	b := newTestBridge(t, backend, nil)
	require.NoError(t, b.Connect(context.Background()))

	require.NoError(t, b.Close())
	assert.True(t, backend.closed)
	require.NoError(t, b.Close())

	// Never reopened once closed.
	require.Error(t, b.Connect(context.Background()))
}

func TestConnectTwiceIsANoOp(t *testing.T) {
	backend := &fakeBackend{rows: &db.Rows{}}
	b := newTestBridge(t, backend, nil)
	require.NoError(t, b.Connect(context.Background()))
	require.NoError(t, b.Connect(context.Background()))
	assert.True(t, b.Connected())
}

func TestCallDecodesToolInput(t *testing.T) {
	backend := &fakeBackend{rows: &db.Rows{
		Columns: []db.Column{{Name: "N"}},
		Data:    []db.Row{{3}},
	}}
	b := newTestBridge(t, backend, nil)
	require.NoError(t, b.Connect(context.Background()))

	out, err := b.Call(context.Background(), json.RawMessage(`{"query":"select count(*) as n from t"}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"columns":["N"],"index":[0],"data":[[3]]}`, out)
	assert.Equal(t, "SELECT COUNT(*) AS N FROM T", backend.lastQuery)
}

func TestCallMalformedInputStaysInsidePayload(t *testing.T) {
	backend := &fakeBackend{rows: &db.Rows{}}
	b := newTestBridge(t, backend, nil)
	require.NoError(t, b.Connect(context.Background()))

	out, err := b.Call(context.Background(), json.RawMessage(`{`))
	require.NoError(t, err)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Contains(t, decoded, "sqlite query failed with error")
}
