package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const episodeSRT = "1\n00:00:01,000 --> 00:00:02,000\nHello there\n\n2\n00:00:03,000 --> 00:00:04,000\nGood night\n"

// setupEnv points the configuration at a throwaway data dir and a fake
// keyless Google endpoint that upper-cases the query.
func setupEnv(t *testing.T) string {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		translated, _ := json.Marshal(strings.ToUpper(q))
		original, _ := json.Marshal(q)
		_, _ = w.Write([]byte(`[[[` + string(translated) + `,` + string(original) + `,null,null,1]],null,"en"]`))
	}))
	t.Cleanup(server.Close)

	dir := t.TempDir()
	t.Setenv("DATA_DIR", dir)
	t.Setenv("SETTINGS_FILE", filepath.Join(dir, "settings.json"))
	t.Setenv("TRANSLATE_BACKEND", "google")
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("GOOGLE_LEGACY_URL", server.URL)
	t.Setenv("TARGET_LANGUAGE", "da")
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	root := newRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestTranslateCommand(t *testing.T) {
	dir := setupEnv(t)
	input := filepath.Join(dir, "episode.srt")
	require.NoError(t, os.WriteFile(input, []byte(episodeSRT), 0o644))

	out, err := execute(t, "translate", input, "--from", "en", "--no-auto-split", "--log-level", "error")
	require.NoError(t, err)

	assert.Contains(t, out, "batch [0,1] 2/2 lines")
	assert.Contains(t, out, "done: en -> da via google")

	written, err := os.ReadFile(filepath.Join(dir, "episode.da.srt"))
	require.NoError(t, err)
	assert.Contains(t, string(written), "HELLO THERE")
	assert.Contains(t, string(written), "GOOD NIGHT")
}

func TestTranslateCommand_ExplicitOutput(t *testing.T) {
	dir := setupEnv(t)
	input := filepath.Join(dir, "episode.srt")
	output := filepath.Join(dir, "custom.srt")
	require.NoError(t, os.WriteFile(input, []byte(episodeSRT), 0o644))

	out, err := execute(t, "translate", input, "--from", "en", "--to", "de", "-o", output)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+output)
	assert.FileExists(t, output)
}

func TestTranslateCommand_MissingFile(t *testing.T) {
	dir := setupEnv(t)

	_, err := execute(t, "translate", filepath.Join(dir, "nope.srt"))
	require.Error(t, err)
}

func TestTranslateCommand_RequiresInput(t *testing.T) {
	setupEnv(t)

	_, err := execute(t, "translate")
	require.Error(t, err)
}

func TestLanguagesCommand(t *testing.T) {
	setupEnv(t)

	out, err := execute(t, "languages")
	require.NoError(t, err)
	assert.Contains(t, out, "google (")
	assert.Contains(t, out, "da")
	assert.Contains(t, out, "Danish")
}

func TestLanguagesCommand_UnknownBackend(t *testing.T) {
	setupEnv(t)

	_, err := execute(t, "languages", "--backend", "babel")
	require.Error(t, err)
}
