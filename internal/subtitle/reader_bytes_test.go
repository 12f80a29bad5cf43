package subtitle

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadSRTBytes(t *testing.T) {
	tests := []struct {
		name  string
		data  string
		texts []string
		start time.Duration
	}{
		{
			name:  "byte order mark",
			data:  "\xef\xbb\xbf1\n00:00:01,000 --> 00:00:02,000\nHello\n",
			texts: []string{"Hello"},
			start: time.Second,
		},
		{
			name:  "crlf",
			data:  "1\r\n00:00:01,000 --> 00:00:02,000\r\nHello\r\nthere\r\n\r\n2\r\n00:00:03,000 --> 00:00:04,000\r\nWorld\r\n",
			texts: []string{"Hello\nthere", "World"},
			start: time.Second,
		},
		{
			name:  "dot millisecond separator",
			data:  "7\n00:01:02.345 --> 00:01:03.000\nHello\n",
			texts: []string{"Hello"},
			start: time.Minute + 2*time.Second + 345*time.Millisecond,
		},
		{
			name:  "leading spaces kept, trailing dropped",
			data:  "1\n00:00:01,000 --> 00:00:02,000\n  - Hello   \n   - Hi\t\n",
			texts: []string{"  - Hello\n   - Hi"},
			start: time.Second,
		},
		{
			name:  "empty cue kept",
			data:  "1\n00:00:01,000 --> 00:00:02,000\n\n2\n00:00:03,000 --> 00:00:04,000\nWorld\n",
			texts: []string{"", "World"},
			start: time.Second,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, err := ReadSRTBytes([]byte(tt.data), "embedded://sample")
			require.NoError(t, err)
			require.Len(t, file.Lines, len(tt.texts))
			for i, want := range tt.texts {
				assert.Equal(t, want, file.Lines[i].Text)
			}
			assert.Equal(t, tt.start, file.Lines[0].StartTime)
			assert.Equal(t, "SRT", file.Format)
			assert.Equal(t, "embedded://sample", file.Path)
		})
	}
}

func TestReadSRTBytes_UnparseableTimestamp(t *testing.T) {
	_, err := ReadSRTBytes([]byte("1\n00:00:01,000 --> 00:00:02,000\nOk\n\n12\n00:00:xx,000 --> 00:00:04,000\nBroken\n"), "x.srt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "subtitle 12")
	assert.Contains(t, err.Error(), "invalid time format")
}

func TestEncode_EmptyCueRoundTrip(t *testing.T) {
	in := &File{Lines: []Line{
		{Index: 1, StartTime: time.Second, EndTime: 2 * time.Second},
		{Index: 2, StartTime: 3 * time.Second, EndTime: 4 * time.Second, Text: " indented"},
	}}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, in))

	out, err := ReadSRTBytes(buf.Bytes(), "x.srt")
	require.NoError(t, err)
	require.Len(t, out.Lines, 2)
	assert.Equal(t, "", out.Lines[0].Text)
	assert.Equal(t, 2, out.Lines[1].Index)
	assert.Equal(t, " indented", out.Lines[1].Text)
}
