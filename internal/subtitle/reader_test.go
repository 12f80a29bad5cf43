package subtitle

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestDetectLanguage(t *testing.T) {
	lines := []Line{
		{Text: "Hello, world!"},
		{Text: "こんにちは、世界!"},
		{Text: "こんにちは、世界!"},
		{Text: "Привет, мир!"},
	}
	assert.Equal(t, language.Japanese, detectLanguage(lines))
	assert.Equal(t, language.Und, detectLanguage(nil))
}

func TestParseSRT_MultiLineAndCRLF(t *testing.T) {
	data := []byte("\xef\xbb\xbf1\r\n00:00:01,500 --> 00:00:03.250\r\n<i>Where are you going?</i>\r\nHome.\r\n\r\n\r\n2\r\n01:02:03,004 --> 01:02:05,000\r\nNowhere.\r\n")

	file, err := ReadSRTBytes(data, "x.srt")
	require.NoError(t, err)
	require.Len(t, file.Lines, 2)

	first := file.Lines[0]
	assert.Equal(t, 1, first.Index)
	assert.Equal(t, 1500*time.Millisecond, first.StartTime)
	assert.Equal(t, 3250*time.Millisecond, first.EndTime)
	assert.Equal(t, "<i>Where are you going?</i>\nHome.", first.Text)

	second := file.Lines[1]
	assert.Equal(t, 2, second.Index)
	assert.Equal(t, time.Hour+2*time.Minute+3*time.Second+4*time.Millisecond, second.StartTime)
	assert.Equal(t, "Nowhere.", second.Text)
}

func TestParseSRT_BadTime(t *testing.T) {
	_, err := ReadSRTBytes([]byte("1\nnot a time\nHello\n"), "x.srt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "subtitle 1")
}

func TestRead_RejectsOtherFormats(t *testing.T) {
	_, err := NewReader().Read("movie.ass")
	require.Error(t, err)

	_, err = NewReader().Read(filepath.Join(t.TempDir(), "missing.srt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestWriteThenRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "movie.da.srt")
	in := &File{
		Lines: []Line{
			{Index: 1, StartTime: time.Second, EndTime: 2 * time.Second, Text: "Hello", TranslatedText: "Hej"},
			{Index: 2, StartTime: 3 * time.Second, EndTime: 4*time.Second + 5*time.Millisecond, Text: "Good\nnight"},
		},
	}

	require.NoError(t, NewWriter().Write(path, in))
	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1\n00:00:01,000 --> 00:00:02,000\nHej\n\n2\n00:00:03,000 --> 00:00:04,005\nGood\nnight\n\n", string(raw))

	out, err := NewReader().Read(path)
	require.NoError(t, err)
	require.Len(t, out.Lines, 2)
	assert.Equal(t, "Hej", out.Lines[0].Text)
	assert.Equal(t, in.Lines[1].EndTime, out.Lines[1].EndTime)
}

func TestWrite_Nil(t *testing.T) {
	assert.Error(t, NewWriter().Write(filepath.Join(t.TempDir(), "x.srt"), nil))
}
