package service

import (
	"path/filepath"

	"github.com/MimeLyc/subtitle-batch-translator/internal/jobs"
)

// Enqueuer accepts translation jobs.
type Enqueuer interface {
	Enqueue(req jobs.EnqueueRequest) (*jobs.TranslationJob, bool)
}

// DedupeKey identifies the work of a payload: one subtitle into one language.
func DedupeKey(p jobs.JobPayload) string {
	return filepath.Clean(p.SubtitleFile) + "|" + p.TargetLanguage
}

// EnqueueSubtitle queues payload under the shared dedupe key, so manual and
// scheduled requests for the same file and language collapse into one job.
func EnqueueSubtitle(q Enqueuer, source string, payload jobs.JobPayload) (*jobs.TranslationJob, bool) {
	return q.Enqueue(jobs.EnqueueRequest{
		Source:    source,
		DedupeKey: DedupeKey(payload),
		Payload:   payload,
	})
}
