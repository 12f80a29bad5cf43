package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// DefaultWriter is the default subtitle file writer
type DefaultWriter struct{}

func NewWriter() Writer {
	return &DefaultWriter{}
}

// Write stores subtitle as SRT at path, replacing any existing file atomically.
func (w *DefaultWriter) Write(path string, subtitle *File) error {
	if subtitle == nil {
		return fmt.Errorf("subtitle data is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	tmpPath := path + ".tmp"
	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := Encode(file, subtitle); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close output file: %w", err)
	}
	return os.Rename(tmpPath, path)
}

// Encode writes subtitle as SRT. Lines without a translation keep their
// original text.
func Encode(w io.Writer, subtitle *File) error {
	bw := bufio.NewWriter(w)
	for _, line := range subtitle.Lines {
		text := line.TranslatedText
		if text == "" {
			text = line.Text
		}
		fmt.Fprintf(bw, "%d\n%s --> %s\n%s\n\n",
			line.Index, formatDuration(line.StartTime), formatDuration(line.EndTime), text)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write subtitle: %w", err)
	}
	return nil
}

// formatDuration formats time.Duration to SRT time format
func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	milliseconds := int(d.Milliseconds()) % 1000

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, milliseconds)
}
