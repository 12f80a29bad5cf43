package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/MimeLyc/subtitle-batch-translator/internal/persistence"
)

// CheckpointStore persists completed batches per job.
type CheckpointStore interface {
	LoadBatchCheckpoints(ctx context.Context, jobID string) ([]persistence.BatchCheckpoint, error)
	SaveBatchCheckpoint(ctx context.Context, jobID string, batchStart int, batchEnd int, translatedLines []string) error
	DeleteJobData(ctx context.Context, jobID string) error
}

// persistentBatchCheckpointStore serves the checkpoints of one job to the
// orchestrator, caching what was loaded at start.
type persistentBatchCheckpointStore struct {
	store CheckpointStore
	jobID string

	mu     sync.RWMutex
	cached map[string][]string
}

func newPersistentBatchCheckpointStore(ctx context.Context, store CheckpointStore, jobID string) (*persistentBatchCheckpointStore, error) {
	if store == nil {
		return nil, fmt.Errorf("store is nil")
	}
	if jobID == "" {
		return nil, fmt.Errorf("job id is empty")
	}

	checkpoints, err := store.LoadBatchCheckpoints(ctx, jobID)
	if err != nil {
		return nil, err
	}

	cached := make(map[string][]string, len(checkpoints))
	for _, cp := range checkpoints {
		cached[batchKey(cp.BatchStart, cp.BatchEnd)] = append([]string(nil), cp.TranslatedLines...)
	}

	return &persistentBatchCheckpointStore{
		store:  store,
		jobID:  jobID,
		cached: cached,
	}, nil
}

func (s *persistentBatchCheckpointStore) Load(start, end int) ([]string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ret, ok := s.cached[batchKey(start, end)]
	if !ok {
		return nil, false
	}
	return append([]string(nil), ret...), true
}

func (s *persistentBatchCheckpointStore) Save(ctx context.Context, start, end int, translated []string) error {
	data := append([]string(nil), translated...)
	if err := s.store.SaveBatchCheckpoint(ctx, s.jobID, start, end, data); err != nil {
		return err
	}
	s.mu.Lock()
	s.cached[batchKey(start, end)] = data
	s.mu.Unlock()
	return nil
}

func batchKey(start, end int) string {
	return fmt.Sprintf("%d:%d", start, end)
}
