package translator

import (
	"fmt"

	"github.com/MimeLyc/subtitle-batch-translator/internal/batch"
	"github.com/MimeLyc/subtitle-batch-translator/internal/config"
)

// Backend is a configured translator together with its request limits.
type Backend struct {
	Name string
	batch.Translator
	SizeBudget int
	MaxLines   int
}

// PackOptions returns the packing limits of the backend merged with the
// translation settings of cfg.
func (b *Backend) PackOptions(cfg config.TranslateConfig) batch.PackOptions {
	return batch.PackOptions{
		SizeBudget:         b.SizeBudget,
		MaxLines:           b.MaxLines,
		AutoSplit:          cfg.AutoSplit,
		ExpandContractions: cfg.ExpandContractions,
		Source:             cfg.SourceLanguage,
	}
}

// New builds the backend selected by cfg.Translate.Backend.
func New(cfg *config.Config) (*Backend, error) {
	return NewByName(cfg.Translate.Backend, cfg)
}

// NewByName builds the named backend from cfg.
func NewByName(name string, cfg *config.Config) (*Backend, error) {
	switch name {
	case config.BackendGoogle:
		return &Backend{
			Name:       name,
			Translator: NewGoogle(cfg.Google),
			SizeBudget: cfg.Google.SizeBudget,
		}, nil
	case config.BackendMicrosoft:
		if cfg.Microsoft.APIKey == "" {
			return nil, fmt.Errorf("microsoft backend requires MICROSOFT_API_KEY")
		}
		return &Backend{
			Name:       name,
			Translator: NewMicrosoft(cfg.Microsoft),
			SizeBudget: cfg.Microsoft.SizeBudget,
			MaxLines:   cfg.Microsoft.MaxLines,
		}, nil
	case config.BackendLLM:
		t, err := NewLLM(cfg.LLM)
		if err != nil {
			return nil, fmt.Errorf("llm backend: %w", err)
		}
		return &Backend{
			Name:       name,
			Translator: t,
			SizeBudget: cfg.LLM.SizeBudget,
		}, nil
	default:
		return nil, config.ValidateBackend(name)
	}
}
