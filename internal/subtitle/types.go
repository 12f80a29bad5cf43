package subtitle

import (
	"time"

	"golang.org/x/text/language"
)

// Reader reads a subtitle file from disk.
type Reader interface {
	Read(path string) (*File, error)
}

// Writer writes a subtitle file to disk.
type Writer interface {
	Write(path string, subtitle *File) error
}

// Line is one subtitle paragraph with its timing.
type Line struct {
	Index          int           // sequence number from the file
	StartTime      time.Duration // start time
	EndTime        time.Duration // end time
	Text           string        // subtitle text, physical lines joined by "\n"
	TranslatedText string        // translated text
}

// File represents subtitle file
type File struct {
	Lines    []Line
	Language language.Tag
	Format   string // SRT
	Path     string
}
