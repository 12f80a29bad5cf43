package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MimeLyc/subtitle-batch-translator/internal/persistence"
)

func TestPersistentBatchCheckpointStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mem := newMemCheckpoints()
	mem.data["job-1"] = []persistence.BatchCheckpoint{{BatchStart: 0, BatchEnd: 1, TranslatedLines: []string{"a", "b"}}}

	cp, err := newPersistentBatchCheckpointStore(ctx, mem, "job-1")
	require.NoError(t, err)

	got, ok := cp.Load(0, 1)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, got)
	got[0] = "mutated"
	again, _ := cp.Load(0, 1)
	assert.Equal(t, "a", again[0], "Load returns a copy")

	_, ok = cp.Load(2, 3)
	assert.False(t, ok)

	require.NoError(t, cp.Save(ctx, 2, 3, []string{"c", "d"}))
	got, ok = cp.Load(2, 3)
	require.True(t, ok)
	assert.Equal(t, []string{"c", "d"}, got)
	assert.Len(t, mem.data["job-1"], 2)

	_, err = newPersistentBatchCheckpointStore(ctx, mem, "")
	assert.Error(t, err)
	_, err = newPersistentBatchCheckpointStore(ctx, nil, "job-1")
	assert.Error(t, err)
}
