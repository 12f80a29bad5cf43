package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/MimeLyc/subtitle-batch-translator/pkg/log"
	"golang.org/x/text/language"
)

// Backend names accepted by TRANSLATE_BACKEND.
const (
	BackendGoogle    = "google"
	BackendMicrosoft = "microsoft"
	BackendLLM       = "llm"
)

// Backends lists every supported backend name.
var Backends = []string{BackendGoogle, BackendMicrosoft, BackendLLM}

// Config holds all application configuration.
//
// Environment Variables:
// Translation:
// - TRANSLATE_BACKEND: google, microsoft or llm (default: google)
// - SOURCE_LANGUAGE: BCP 47 tag of the subtitles, detected when empty
// - TARGET_LANGUAGE: BCP 47 tag to translate into (default: da)
// - AUTO_SPLIT: join two-line paragraphs before translation (default: true)
// - EXPAND_CONTRACTIONS: expand English contractions first (default: false)
// - HTTP_TIMEOUT: request timeout of the google and microsoft backends in seconds (default: 30)
//
// Backends:
// - GOOGLE_API_KEY, GOOGLE_API_URL, GOOGLE_LEGACY_URL, GOOGLE_SIZE_BUDGET (default: 100)
// - MICROSOFT_API_KEY, MICROSOFT_REGION, MICROSOFT_API_URL,
//   MICROSOFT_SIZE_BUDGET (default: 10000), MICROSOFT_MAX_LINES (default: 100)
// - LLM_API_KEY, LLM_API_URL, LLM_MODEL, LLM_MAX_TOKENS, LLM_TEMPERATURE,
//   LLM_TIMEOUT, LLM_SITE_URL, LLM_APP_NAME, LLM_SIZE_BUDGET (default: 4000)
//
// Service:
// - WATCH_DIRS: comma separated directories scanned for new subtitles
// - CRON_EXPR: scan schedule (default: 0 * * * *)
// - DATA_DIR: directory of the job database (default: /app/data)
// - WORKERS: job queue workers (default: 1)
// - LOG_LEVEL: debug, info, warn or error (default: info)
// - HTTP_ADDR: API listen address (default: :8080)
// - HTTP_JWT_SECRET: enables bearer token auth on the API when set
// - HTTP_CORS_ORIGINS: comma separated allowed origins (default: *)
type Config struct {
	Translate TranslateConfig `json:"translate"`

	Google    GoogleConfig    `json:"google"`
	Microsoft MicrosoftConfig `json:"microsoft"`
	LLM       LLMConfig       `json:"llm"`

	Watch  WatchConfig  `json:"watch"`
	System SystemConfig `json:"system"`
	HTTP   HTTPConfig   `json:"http"`
}

type TranslateConfig struct {
	Backend            string       `json:"backend"`
	SourceLanguage     language.Tag `json:"source_language"`
	TargetLanguage     language.Tag `json:"target_language"`
	AutoSplit          bool         `json:"auto_split"`
	ExpandContractions bool         `json:"expand_contractions"`
}

// GoogleConfig configures the low-volume backend. Without an API key the
// keyless legacy endpoint is used.
type GoogleConfig struct {
	APIKey     string `json:"-"`
	APIURL     string `json:"api_url"`
	LegacyURL  string `json:"legacy_url"`
	SizeBudget int    `json:"size_budget"`
	Timeout    int    `json:"timeout"`
}

// MicrosoftConfig configures the high-volume array backend.
type MicrosoftConfig struct {
	APIKey     string `json:"-"`
	Region     string `json:"region"`
	APIURL     string `json:"api_url"`
	SizeBudget int    `json:"size_budget"`
	MaxLines   int    `json:"max_lines"`
	Timeout    int    `json:"timeout"`
}

// LLMConfig configures an OpenAI-compatible chat completion backend
// (OpenRouter, OpenAI and similar).
type LLMConfig struct {
	APIKey      string  `json:"-"`
	APIURL      string  `json:"api_url"`
	Model       string  `json:"model"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
	Timeout     int     `json:"timeout"`
	SiteURL     string  `json:"site_url"`
	AppName     string  `json:"app_name"`
	SizeBudget  int     `json:"size_budget"`
}

type WatchConfig struct {
	Dirs     []string `json:"dirs"`
	CronExpr string   `json:"cron_expr"`
}

type SystemConfig struct {
	DataDir  string `json:"data_dir"`
	Workers  int    `json:"workers"`
	LogLevel string `json:"log_level"`
}

type HTTPConfig struct {
	Addr        string   `json:"addr"`
	JWTSecret   string   `json:"-"`
	CORSOrigins []string `json:"cors_origins"`
}

// Option is a function type for configuring Config
type Option func(*Config)

// New builds the configuration from the environment and overlays the runtime
// settings file when one exists.
func New() (*Config, error) {
	settings, err := LoadRuntimeSettingsFile(RuntimeSettingsFilePath())
	switch {
	case err == nil:
		return NewFromEnv(WithRuntimeSettings(settings))
	case errors.Is(err, os.ErrNotExist):
		return NewFromEnv()
	default:
		return nil, fmt.Errorf("load runtime settings: %w", err)
	}
}

// NewFromEnv creates a new Config instance with values from environment variables and options
func NewFromEnv(opts ...Option) (*Config, error) {
	source, err := getEnvLanguage("SOURCE_LANGUAGE", language.Und)
	if err != nil {
		return nil, err
	}
	target, err := getEnvLanguage("TARGET_LANGUAGE", language.Danish)
	if err != nil {
		return nil, err
	}
	httpTimeout := getEnvInt("HTTP_TIMEOUT", 30)

	config := &Config{
		Translate: TranslateConfig{
			Backend:            strings.ToLower(getEnvString("TRANSLATE_BACKEND", BackendGoogle)),
			SourceLanguage:     source,
			TargetLanguage:     target,
			AutoSplit:          getEnvBool("AUTO_SPLIT", true),
			ExpandContractions: getEnvBool("EXPAND_CONTRACTIONS", false),
		},
		Google: GoogleConfig{
			APIKey:     getEnvString("GOOGLE_API_KEY", ""),
			APIURL:     getEnvString("GOOGLE_API_URL", "https://translation.googleapis.com/language/translate/v2"),
			LegacyURL:  getEnvString("GOOGLE_LEGACY_URL", "https://translate.googleapis.com/translate_a/single"),
			SizeBudget: getEnvInt("GOOGLE_SIZE_BUDGET", 100),
			Timeout:    httpTimeout,
		},
		Microsoft: MicrosoftConfig{
			APIKey:     getEnvString("MICROSOFT_API_KEY", ""),
			Region:     getEnvString("MICROSOFT_REGION", ""),
			APIURL:     getEnvString("MICROSOFT_API_URL", "https://api.cognitive.microsofttranslator.com/translate"),
			SizeBudget: getEnvInt("MICROSOFT_SIZE_BUDGET", 10000),
			MaxLines:   getEnvInt("MICROSOFT_MAX_LINES", 100),
			Timeout:    httpTimeout,
		},
		LLM: LLMConfig{
			APIKey:      getEnvString("LLM_API_KEY", ""),
			APIURL:      getEnvString("LLM_API_URL", "https://openrouter.ai/api/v1"),
			Model:       getEnvString("LLM_MODEL", "openai/gpt-3.5-turbo"),
			MaxTokens:   getEnvInt("LLM_MAX_TOKENS", 8000),
			Temperature: getEnvFloat("LLM_TEMPERATURE", 0.3),
			Timeout:     getEnvInt("LLM_TIMEOUT", 60),
			SiteURL:     getEnvString("LLM_SITE_URL", ""),
			AppName:     getEnvString("LLM_APP_NAME", ""),
			SizeBudget:  getEnvInt("LLM_SIZE_BUDGET", 4000),
		},
		Watch: WatchConfig{
			Dirs:     getEnvList("WATCH_DIRS", nil),
			CronExpr: getEnvString("CRON_EXPR", "0 * * * *"),
		},
		System: SystemConfig{
			DataDir:  getEnvString("DATA_DIR", "/app/data"),
			Workers:  getEnvInt("WORKERS", 1),
			LogLevel: getEnvString("LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Addr:        getEnvString("HTTP_ADDR", ":8080"),
			JWTSecret:   getEnvString("HTTP_JWT_SECRET", ""),
			CORSOrigins: getEnvList("HTTP_CORS_ORIGINS", []string{"*"}),
		},
	}

	for _, opt := range opts {
		opt(config)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	log.Debug("Config: backend=%s source=%s target=%s auto_split=%t",
		config.Translate.Backend, config.Translate.SourceLanguage,
		config.Translate.TargetLanguage, config.Translate.AutoSplit)
	return config, nil
}

// DBPath is the SQLite database inside the data directory.
func (c *Config) DBPath() string {
	return filepath.Join(c.System.DataDir, "subtrans.db")
}

// validate checks if all required configuration is properly set
func (c *Config) validate() error {
	if err := ValidateBackend(c.Translate.Backend); err != nil {
		return err
	}
	switch c.Translate.Backend {
	case BackendMicrosoft:
		if c.Microsoft.APIKey == "" {
			return fmt.Errorf("MICROSOFT_API_KEY is required for the microsoft backend")
		}
	case BackendLLM:
		if c.LLM.APIKey == "" {
			return fmt.Errorf("LLM_API_KEY is required for the llm backend")
		}
	}
	if c.Translate.TargetLanguage == language.Und {
		return fmt.Errorf("TARGET_LANGUAGE is required")
	}
	if c.System.Workers < 1 {
		return fmt.Errorf("WORKERS must be greater than 0")
	}
	return nil
}

// ValidateBackend reports whether name is a supported backend.
func ValidateBackend(name string) error {
	for _, b := range Backends {
		if name == b {
			return nil
		}
	}
	return fmt.Errorf("unknown backend %q, expected one of %s", name, strings.Join(Backends, ", "))
}

// getEnvString gets a string value from environment variables with default
func getEnvString(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer value from environment variables with default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat gets a float value from environment variables with default
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvList splits a comma separated value, dropping empty items.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return defaultValue
	}
	var ret []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			ret = append(ret, item)
		}
	}
	return ret
}

func getEnvLanguage(key string, defaultValue language.Tag) (language.Tag, error) {
	value := getEnvString(key, "")
	if value == "" {
		return defaultValue, nil
	}
	tag, err := language.Parse(value)
	if err != nil {
		return language.Und, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return tag, nil
}
