package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/text/language"

	"github.com/MimeLyc/subtitle-batch-translator/internal/batch"
	"github.com/MimeLyc/subtitle-batch-translator/internal/config"
)

// Microsoft is the high-volume backend. Every line of a batch is sent as its
// own array element and comes back the same way.
type Microsoft struct {
	apiKey     string
	region     string
	apiURL     string
	httpClient *http.Client
}

func NewMicrosoft(cfg config.MicrosoftConfig) *Microsoft {
	return &Microsoft{
		apiKey:     cfg.APIKey,
		region:     cfg.Region,
		apiURL:     cfg.APIURL,
		httpClient: &http.Client{Timeout: time.Duration(cfg.Timeout) * time.Second},
	}
}

func (m *Microsoft) Shape() batch.Shape { return batch.ShapeSeparated }

func (m *Microsoft) InfoURL() string {
	return "https://www.microsoft.com/translator/business/"
}

func (m *Microsoft) LanguagePairs() []batch.LanguagePair { return languagePairs(microsoftCodes) }

type microsoftText struct {
	Text string `json:"Text"`
}

type microsoftResult struct {
	Translations []struct {
		Text string `json:"text"`
		To   string `json:"to"`
	} `json:"translations"`
}

type microsoftError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (m *Microsoft) Translate(ctx context.Context, source, target language.Tag, texts []string, diag *batch.Diagnostics) ([]string, error) {
	items := make([]microsoftText, len(texts))
	for i, text := range texts {
		items[i] = microsoftText{Text: text}
	}
	body, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	q := url.Values{}
	q.Set("api-version", "3.0")
	q.Set("to", target.String())
	if source != language.Und {
		q.Set("from", source.String())
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.apiURL+"?"+q.Encode(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Ocp-Apim-Subscription-Key", m.apiKey)
	if m.region != "" {
		req.Header.Set("Ocp-Apim-Subscription-Region", m.region)
	}

	raw, status, err := do(m.httpClient, req)
	if err != nil {
		return nil, err
	}
	if status >= 300 {
		var apiErr microsoftError
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("microsoft: %s (code %d)", apiErr.Error.Message, apiErr.Error.Code)
		}
		return nil, statusError("microsoft", status, raw)
	}

	var results []microsoftResult
	if err := json.Unmarshal(raw, &results); err != nil {
		return nil, fmt.Errorf("microsoft: parse response: %w", err)
	}

	ret := make([]string, 0, len(results))
	for i, r := range results {
		if len(r.Translations) == 0 {
			diag.Addf("microsoft: no translation for item %d", i)
			ret = append(ret, "")
			continue
		}
		ret = append(ret, r.Translations[0].Text)
	}
	return ret, nil
}
