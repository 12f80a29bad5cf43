package persistence

import "time"

// BatchCheckpoint holds the normalized texts of one completed batch of a job.
type BatchCheckpoint struct {
	JobID           string
	BatchStart      int
	BatchEnd        int
	TranslatedLines []string
	UpdatedAt       time.Time
}
