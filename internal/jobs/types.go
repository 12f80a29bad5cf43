package jobs

import (
	"errors"
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusSuccess   Status = "success"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether a job in this status will not run again.
func (s Status) Terminal() bool {
	return s == StatusSuccess || s == StatusFailed || s == StatusCancelled
}

// ErrCancelled is returned by an Executor that stopped because the job was cancelled.
var ErrCancelled = errors.New("job cancelled")

type EnqueueRequest struct {
	Source    string
	DedupeKey string
	Payload   JobPayload
}

// JobPayload names the subtitle file to translate and where to put the result.
type JobPayload struct {
	SubtitleFile   string `json:"subtitle_file"`
	OutputFile     string `json:"output_file,omitempty"`
	SourceLanguage string `json:"source_language,omitempty"`
	TargetLanguage string `json:"target_language,omitempty"`
	Backend        string `json:"backend,omitempty"`
}

// Progress counts translated lines of a running job.
type Progress struct {
	Done  int    `json:"done"`
	Total int    `json:"total"`
	Batch string `json:"batch,omitempty"`
}

type TranslationJob struct {
	ID        string     `json:"id"`
	Source    string     `json:"source"`
	DedupeKey string     `json:"dedupe_key"`
	Payload   JobPayload `json:"payload"`
	Status    Status     `json:"status"`
	Error     string     `json:"error,omitempty"`
	Progress  Progress   `json:"progress"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
