package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/text/language"

	"github.com/MimeLyc/subtitle-batch-translator/internal/batch"
	"github.com/MimeLyc/subtitle-batch-translator/internal/config"
)

// Google is the low-volume backend. With an API key it uses the Cloud
// Translation v2 endpoint; without one it falls back to the keyless gtx
// endpoint, whose nested array body is decoded before splitting.
type Google struct {
	apiKey     string
	apiURL     string
	legacyURL  string
	httpClient *http.Client
}

func NewGoogle(cfg config.GoogleConfig) *Google {
	return &Google{
		apiKey:     cfg.APIKey,
		apiURL:     cfg.APIURL,
		legacyURL:  cfg.LegacyURL,
		httpClient: &http.Client{Timeout: time.Duration(cfg.Timeout) * time.Second},
	}
}

func (g *Google) Shape() batch.Shape { return batch.ShapeDelimited }

func (g *Google) InfoURL() string { return "https://translate.google.com/" }

func (g *Google) LanguagePairs() []batch.LanguagePair { return languagePairs(googleCodes) }

func (g *Google) Translate(ctx context.Context, source, target language.Tag, texts []string, diag *batch.Diagnostics) ([]string, error) {
	if g.apiKey != "" {
		return g.translateV2(ctx, source, target, texts)
	}

	ret := make([]string, 0, len(texts))
	for _, text := range texts {
		out, err := g.translateLegacy(ctx, source, target, text)
		if err != nil {
			return nil, err
		}
		if out == "" && text != "" {
			diag.Addf("google: empty translation for %q", truncate(text, 40))
		}
		ret = append(ret, out)
	}
	return ret, nil
}

type googleV2Request struct {
	Q      []string `json:"q"`
	Source string   `json:"source,omitempty"`
	Target string   `json:"target"`
	Format string   `json:"format"`
}

type googleV2Response struct {
	Data struct {
		Translations []struct {
			TranslatedText string `json:"translatedText"`
		} `json:"translations"`
	} `json:"data"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (g *Google) translateV2(ctx context.Context, source, target language.Tag, texts []string) ([]string, error) {
	req := googleV2Request{Q: texts, Target: googleCode(target), Format: "text"}
	if source != language.Und {
		req.Source = googleCode(source)
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := g.apiURL + "?key=" + url.QueryEscape(g.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	raw, status, err := do(g.httpClient, httpReq)
	if err != nil {
		return nil, err
	}

	var resp googleV2Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		if status >= 300 {
			return nil, statusError("google", status, raw)
		}
		return nil, fmt.Errorf("google: parse response: %w", err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("google: %s (code %d)", resp.Error.Message, resp.Error.Code)
	}
	if status >= 300 {
		return nil, statusError("google", status, raw)
	}

	ret := make([]string, 0, len(resp.Data.Translations))
	for _, t := range resp.Data.Translations {
		ret = append(ret, t.TranslatedText)
	}
	return ret, nil
}

func (g *Google) translateLegacy(ctx context.Context, source, target language.Tag, text string) (string, error) {
	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", googleCode(source))
	q.Set("tl", googleCode(target))
	q.Set("dt", "t")
	q.Set("ie", "UTF-8")
	q.Set("oe", "UTF-8")
	q.Set("q", text)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, g.legacyURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	raw, status, err := do(g.httpClient, httpReq)
	if err != nil {
		return "", err
	}
	if status >= 300 {
		return "", statusError("google", status, raw)
	}
	return batch.DecodeNestedResponse(string(raw)), nil
}

// googleCode maps a tag to the code the Google endpoints expect.
func googleCode(tag language.Tag) string {
	if tag == language.Und {
		return "auto"
	}
	base, _ := tag.Base()
	if base.String() != "zh" {
		return base.String()
	}
	if script, _ := tag.Script(); script.String() == "Hant" {
		return "zh-TW"
	}
	return "zh-CN"
}

func do(client *http.Client, req *http.Request) ([]byte, int, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response body: %w", err)
	}
	return raw, resp.StatusCode, nil
}

func statusError(backend string, status int, body []byte) error {
	return fmt.Errorf("%s: request failed with status %d: %s", backend, status, truncate(string(body), 200))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
