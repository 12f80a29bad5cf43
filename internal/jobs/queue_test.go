package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForStatus(t *testing.T, q *Queue, id string, want Status) {
	t.Helper()
	require.Eventually(t, func() bool {
		got, ok := q.Get(id)
		return ok && got.Status == want
	}, time.Second, 10*time.Millisecond)
}

func TestQueue_EnqueueSharesJobForSameSubtitleAndTarget(t *testing.T) {
	q := NewQueue(1, nil)

	manual, created := q.Enqueue(EnqueueRequest{
		Source:    "manual",
		DedupeKey: "/subs/ep1.srt|da",
		Payload:   JobPayload{SubtitleFile: "/subs/ep1.srt", TargetLanguage: "da"},
	})
	require.True(t, created)

	fromCron, created := q.Enqueue(EnqueueRequest{
		Source:    "cron",
		DedupeKey: "/subs/ep1.srt|da",
		Payload:   JobPayload{SubtitleFile: "/subs/ep1.srt", TargetLanguage: "da"},
	})
	assert.False(t, created)
	assert.Equal(t, manual.ID, fromCron.ID)
	assert.Equal(t, "manual", fromCron.Source)

	other, created := q.Enqueue(EnqueueRequest{
		Source:    "manual",
		DedupeKey: "/subs/ep1.srt|de",
		Payload:   JobPayload{SubtitleFile: "/subs/ep1.srt", TargetLanguage: "de"},
	})
	assert.True(t, created)
	assert.NotEqual(t, manual.ID, other.ID)
	assert.Equal(t, StatusPending, other.Status)
	assert.Equal(t, "de", other.Payload.TargetLanguage)
}

func TestQueue_CancelPendingVersusRunning(t *testing.T) {
	q := NewQueue(1, nil)

	// Nothing runs before Start, so the job stays pending.
	pending, _ := q.Enqueue(EnqueueRequest{Source: "manual", DedupeKey: "/subs/a.srt|da"})
	got, ok := q.Cancel(pending.ID)
	require.True(t, ok)
	assert.Equal(t, StatusCancelled, got.Status, "pending jobs are cancelled at once")

	_, ok = q.Cancel(pending.ID)
	assert.False(t, ok, "a finished job cannot be cancelled again")
	_, ok = q.Cancel("unknown")
	assert.False(t, ok)

	started := make(chan struct{})
	q.Start(func(ctx context.Context, _ *TranslationJob) error {
		close(started)
		<-CancelSignal(ctx)
		return ErrCancelled
	})
	defer q.Stop()

	running, _ := q.Enqueue(EnqueueRequest{Source: "manual", DedupeKey: "/subs/b.srt|da"})
	<-started

	got, ok = q.Cancel(running.ID)
	require.True(t, ok)
	assert.Equal(t, StatusRunning, got.Status, "running jobs settle when the executor returns")
	waitForStatus(t, q, running.ID, StatusCancelled)
}

func TestQueue_ReenqueueAfterCancelReleasesDedupeKey(t *testing.T) {
	q := NewQueue(1, nil)

	release := make(chan struct{})
	q.Start(func(ctx context.Context, _ *TranslationJob) error {
		select {
		case <-CancelSignal(ctx):
			return ErrCancelled
		case <-release:
			return nil
		}
	})
	defer q.Stop()

	first, _ := q.Enqueue(EnqueueRequest{Source: "manual", DedupeKey: "/subs/ep1.srt|da"})
	waitForStatus(t, q, first.ID, StatusRunning)

	same, created := q.Enqueue(EnqueueRequest{Source: "cron", DedupeKey: "/subs/ep1.srt|da"})
	require.False(t, created, "key is held while running")
	assert.Equal(t, first.ID, same.ID)

	_, ok := q.Cancel(first.ID)
	require.True(t, ok)
	waitForStatus(t, q, first.ID, StatusCancelled)

	second, created := q.Enqueue(EnqueueRequest{Source: "manual", DedupeKey: "/subs/ep1.srt|da"})
	require.True(t, created)
	assert.NotEqual(t, first.ID, second.ID)

	close(release)
	waitForStatus(t, q, second.ID, StatusSuccess)
}

func TestQueue_ReenqueueAfterFinish(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Status
	}{
		{name: "failed", err: assert.AnError, want: StatusFailed},
		{name: "success", want: StatusSuccess},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewQueue(1, nil)
			q.Start(func(context.Context, *TranslationJob) error { return tt.err })
			defer q.Stop()

			first, _ := q.Enqueue(EnqueueRequest{Source: "manual", DedupeKey: "/subs/ep2.srt|da"})
			waitForStatus(t, q, first.ID, tt.want)

			second, created := q.Enqueue(EnqueueRequest{Source: "manual", DedupeKey: "/subs/ep2.srt|da"})
			require.True(t, created)
			assert.NotEqual(t, first.ID, second.ID)
		})
	}
}

func TestQueue_UpdateProgressOnlyWhileRunning(t *testing.T) {
	q := NewQueue(1, nil)

	idle, _ := q.Enqueue(EnqueueRequest{Source: "manual", DedupeKey: "idle"})
	q.UpdateProgress(idle.ID, Progress{Done: 1, Total: 2})
	got, _ := q.Get(idle.ID)
	assert.Zero(t, got.Progress, "pending jobs ignore progress")
	q.UpdateProgress("unknown", Progress{Done: 1})

	release := make(chan struct{})
	q.Start(func(context.Context, *TranslationJob) error {
		<-release
		return nil
	})
	defer q.Stop()
	waitForStatus(t, q, idle.ID, StatusRunning)

	q.UpdateProgress(idle.ID, Progress{Done: 3, Total: 10, Batch: "[0,2]"})
	got, _ = q.Get(idle.ID)
	assert.Equal(t, Progress{Done: 3, Total: 10, Batch: "[0,2]"}, got.Progress)

	close(release)
	waitForStatus(t, q, idle.ID, StatusSuccess)
}
