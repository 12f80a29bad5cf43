package subtitle

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/abadojack/whatlanggo"
	"golang.org/x/text/language"
)

var srtTime = regexp.MustCompile(`(\d{1,2}):(\d{2}):(\d{2})[,.](\d{3})\s*-->\s*(\d{1,2}):(\d{2}):(\d{2})[,.](\d{3})`)

type scanState int

const (
	seekIndex scanState = iota
	seekTime
	inText
)

// DefaultReader is the default subtitle file reader
type DefaultReader struct{}

func NewReader() Reader {
	return &DefaultReader{}
}

// Read parses an SRT file and detects its language.
func (r *DefaultReader) Read(path string) (*File, error) {
	if !strings.HasSuffix(strings.ToLower(path), ".srt") {
		return nil, fmt.Errorf("only SRT format subtitle files are supported: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("subtitle file does not exist: %s", path)
		}
		return nil, fmt.Errorf("failed to open subtitle file: %w", err)
	}
	return ReadSRTBytes(data, path)
}

// ReadSRTBytes parses SRT content. path is only recorded on the result.
func ReadSRTBytes(data []byte, path string) (*File, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	lines, err := parseSRT(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return &File{
		Lines:    lines,
		Language: detectLanguage(lines),
		Format:   "SRT",
		Path:     path,
	}, nil
}

func parseSRT(r io.Reader) ([]Line, error) {
	var (
		lines     []Line
		current   Line
		textLines []string
		state     = seekIndex
	)
	// A cue without text is kept so that the written file has every cue.
	flush := func() {
		current.Text = strings.Join(textLines, "\n")
		lines = append(lines, current)
		current = Line{}
		textLines = nil
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		raw := strings.TrimRightFunc(scanner.Text(), unicode.IsSpace)
		line := strings.TrimSpace(raw)

		switch state {
		case seekIndex:
			if line == "" {
				continue
			}
			index, err := strconv.Atoi(line)
			if err != nil {
				continue // skip non-index lines
			}
			current.Index = index
			state = seekTime

		case seekTime:
			if line == "" {
				continue
			}
			start, end, err := parseSRTTime(line)
			if err != nil {
				return nil, fmt.Errorf("subtitle %d: %w", current.Index, err)
			}
			current.StartTime = start
			current.EndTime = end
			state = inText

		case inText:
			if line == "" {
				flush()
				state = seekIndex
				continue
			}
			textLines = append(textLines, raw)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read subtitle file: %w", err)
	}
	if state == inText {
		flush()
	}
	return lines, nil
}

// parseSRTTime parses "00:02:16,612 --> 00:02:19,376".
func parseSRTTime(s string) (time.Duration, time.Duration, error) {
	m := srtTime.FindStringSubmatch(s)
	if len(m) != 9 {
		return 0, 0, fmt.Errorf("invalid time format: %s", s)
	}
	return toDuration(m[1:5]), toDuration(m[5:9]), nil
}

func toDuration(parts []string) time.Duration {
	h, _ := strconv.Atoi(parts[0])
	m, _ := strconv.Atoi(parts[1])
	s, _ := strconv.Atoi(parts[2])
	ms, _ := strconv.Atoi(parts[3])
	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(ms)*time.Millisecond
}

// detectLanguage returns the language detected for most lines.
func detectLanguage(lines []Line) language.Tag {
	if len(lines) == 0 {
		return language.Und
	}

	counts := make(map[string]int)
	for _, line := range lines {
		if code := whatlanggo.DetectLang(stripTags(line.Text)).Iso6391(); code != "" {
			counts[code]++
		}
	}

	var top string
	var topCount int
	for lang, count := range counts {
		if count > topCount || (count == topCount && lang < top) {
			top, topCount = lang, count
		}
	}
	if top == "" {
		return language.Und
	}
	return language.Make(top)
}

var markup = regexp.MustCompile(`<[^>]*>|\{[^}]*\}`)

func stripTags(s string) string {
	return markup.ReplaceAllString(s, "")
}
