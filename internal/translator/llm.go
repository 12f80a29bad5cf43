package translator

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"github.com/MimeLyc/subtitle-batch-translator/internal/batch"
	"github.com/MimeLyc/subtitle-batch-translator/internal/config"
	"github.com/MimeLyc/subtitle-batch-translator/internal/llm"
)

// chatClient is the part of llm.Client the backend needs.
type chatClient interface {
	SimpleChat(ctx context.Context, prompt string, systemPrompt string) (string, error)
}

// LLM translates delimited batches with a chat completion model. The model
// is told to keep the delimiter, so the splitter sees the same shape as
// from Google.
type LLM struct {
	client chatClient
}

func NewLLM(cfg config.LLMConfig) (*LLM, error) {
	client, err := llm.NewClient(&llm.Config{
		APIKey:      cfg.APIKey,
		APIURL:      cfg.APIURL,
		Model:       cfg.Model,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		Timeout:     cfg.Timeout,
		SiteURL:     cfg.SiteURL,
		AppName:     cfg.AppName,
	})
	if err != nil {
		return nil, err
	}
	return &LLM{client: client}, nil
}

func (t *LLM) Shape() batch.Shape { return batch.ShapeDelimited }

func (t *LLM) InfoURL() string { return "https://openrouter.ai/models" }

func (t *LLM) LanguagePairs() []batch.LanguagePair { return languagePairs(googleCodes) }

func (t *LLM) Translate(ctx context.Context, source, target language.Tag, texts []string, diag *batch.Diagnostics) ([]string, error) {
	ret := make([]string, 0, len(texts))
	for _, text := range texts {
		lines := strings.Count(text, batch.Delimiter) + 1
		out, err := t.client.SimpleChat(ctx, text, buildSystemPrompt(source, target, lines))
		if err != nil {
			return nil, fmt.Errorf("llm: %w", err)
		}
		out = stripCodeFence(out)
		if got := strings.Count(out, batch.Delimiter) + 1; got != lines {
			diag.Addf("llm: asked for %d lines, model returned %d", lines, got)
		}
		ret = append(ret, out)
	}
	return ret, nil
}

func buildSystemPrompt(source, target language.Tag, lines int) string {
	var prompt strings.Builder

	prompt.WriteString("You are a professional subtitle translator. Translate subtitles from " +
		languageName(source) + " to " + languageName(target) + ".\n\n")

	prompt.WriteString("=== INPUT FORMAT ===\n")
	prompt.WriteString(fmt.Sprintf("The user message holds %d subtitle line(s) separated by the marker %q.\n", lines, batch.Delimiter))
	prompt.WriteString("A line may contain line breaks and <i> tags.\n")

	prompt.WriteString("\n=== TRANSLATION GUIDELINES ===\n")
	prompt.WriteString("1. Translate each line on its own, keeping the order\n")
	prompt.WriteString("2. Keep every " + batch.Delimiter + " marker exactly where it is\n")
	prompt.WriteString("3. Keep line breaks and <i> tags\n")
	prompt.WriteString("4. Keep subtitle length appropriate for screen reading\n")

	prompt.WriteString("\n=== OUTPUT FORMAT ===\n")
	prompt.WriteString(fmt.Sprintf("Return ONLY the %d translated line(s) separated by %q.\n", lines, batch.Delimiter))
	prompt.WriteString("Do not include any explanations, notes, or additional text.\n")

	return prompt.String()
}

// stripCodeFence removes a markdown fence some models wrap output in.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "\n"); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
