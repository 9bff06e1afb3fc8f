package runs

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weaveai/weaveai-backend/internal/pipeline"
	"github.com/weaveai/weaveai-backend/pkg/config"
	"github.com/weaveai/weaveai-backend/pkg/db"
)

func memoryStore(t *testing.T) Service {
	t.Helper()
	client, err := db.New(context.Background(), config.DBConfig{DSN: ":memory:", Driver: "sqlite"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	svc, err := NewService(client, nil)
	require.NoError(t, err)
	return svc
}

func TestRecordAndRecent(t *testing.T) {
	store := memoryStore(t)
	ctx := context.Background()

	record := pipeline.RunRecord{
		Rows:     120,
		Duration: 1500 * time.Millisecond,
		Components: map[string]string{
			pipeline.ComponentClustering: "ok",
			pipeline.ComponentBasket:     "ok",
			pipeline.ComponentForecast:   "not enough history for a training window",
		},
	}
	require.NoError(t, store.Record(ctx, record))

	rows, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, 120, rows[0].Rows)
	assert.Equal(t, int64(1500), rows[0].DurationMS)
	assert.NotEmpty(t, rows[0].ID)

	var components map[string]string
	require.NoError(t, json.Unmarshal([]byte(rows[0].Components), &components))
	assert.Equal(t, "ok", components[pipeline.ComponentClustering])
}

func TestRecentOrdersNewestFirst(t *testing.T) {
	store := memoryStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, store.Record(ctx, pipeline.RunRecord{Rows: i}))
		time.Sleep(5 * time.Millisecond)
	}

	rows, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 2, rows[0].Rows, "newest run comes back first")
}

func TestNewServiceRequiresClient(t *testing.T) {
	_, err := NewService(nil, nil)
	require.Error(t, err)
}
