package translator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/MimeLyc/subtitle-batch-translator/internal/batch"
	"github.com/MimeLyc/subtitle-batch-translator/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Translate: config.TranslateConfig{
			Backend:        config.BackendGoogle,
			SourceLanguage: language.English,
			TargetLanguage: language.Danish,
			AutoSplit:      true,
		},
		Google:    config.GoogleConfig{SizeBudget: 100, Timeout: 5},
		Microsoft: config.MicrosoftConfig{APIKey: "k", SizeBudget: 10000, MaxLines: 100, Timeout: 5},
		LLM: config.LLMConfig{
			APIKey: "k", APIURL: "http://llm.test", Model: "m",
			MaxTokens: 100, Temperature: 0.3, Timeout: 5, SizeBudget: 4000,
		},
	}
}

func TestNewByName(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	tests := []struct {
		name   string
		budget int
		lines  int
		shape  batch.Shape
	}{
		{name: config.BackendGoogle, budget: 100, shape: batch.ShapeDelimited},
		{name: config.BackendMicrosoft, budget: 10000, lines: 100, shape: batch.ShapeSeparated},
		{name: config.BackendLLM, budget: 4000, shape: batch.ShapeDelimited},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewByName(tt.name, cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.name, b.Name)
			assert.Equal(t, tt.budget, b.SizeBudget)
			assert.Equal(t, tt.lines, b.MaxLines)
			assert.Equal(t, tt.shape, b.Shape())
			assert.NotEmpty(t, b.InfoURL())
			assert.NotEmpty(t, b.LanguagePairs())
		})
	}

	_, err := NewByName("babel", cfg)
	assert.Error(t, err)
}

func TestBackend_PackOptions(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	b, err := New(cfg)
	require.NoError(t, err)

	opts := b.PackOptions(cfg.Translate)
	assert.Equal(t, batch.PackOptions{SizeBudget: 100, AutoSplit: true, Source: language.English}, opts)
}

func TestLanguagePairs(t *testing.T) {
	t.Parallel()

	pairs := languagePairs([]string{"da", "de", "not a code"})
	require.Len(t, pairs, 2)
	assert.Equal(t, batch.LanguagePair{Name: "Danish", Code: "da"}, pairs[0])
	assert.Equal(t, batch.LanguagePair{Name: "German", Code: "de"}, pairs[1])
}
