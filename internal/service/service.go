package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/language"

	"github.com/MimeLyc/subtitle-batch-translator/internal/batch"
	"github.com/MimeLyc/subtitle-batch-translator/internal/config"
	"github.com/MimeLyc/subtitle-batch-translator/internal/jobs"
	"github.com/MimeLyc/subtitle-batch-translator/internal/subtitle"
	"github.com/MimeLyc/subtitle-batch-translator/internal/translator"
	"github.com/MimeLyc/subtitle-batch-translator/pkg/file"
	"github.com/MimeLyc/subtitle-batch-translator/pkg/log"
)

// BackendFactory builds the named translation backend.
type BackendFactory func(name string, cfg *config.Config) (*translator.Backend, error)

// ProgressSink receives per-batch progress of queued jobs.
type ProgressSink interface {
	UpdateProgress(id string, p jobs.Progress)
}

// Request describes one subtitle translation. Empty fields fall back to the
// configuration; an empty Source is detected from the subtitle text.
type Request struct {
	JobID   string
	Input   string
	Output  string
	Source  string
	Target  string
	Backend string
}

// Result is the outcome of a finished or cancelled translation.
type Result struct {
	Output   string
	Source   language.Tag
	Target   language.Tag
	Backend  string
	Report   batch.Report
	Duration time.Duration
}

// Service runs translation jobs: read, translate in batches, write.
type Service struct {
	mu  sync.RWMutex
	cfg config.Config

	reader      subtitle.Reader
	writer      subtitle.Writer
	checkpoints CheckpointStore
	progress    ProgressSink
	newBackend  BackendFactory
}

type Option func(*Service)

func WithCheckpointStore(store CheckpointStore) Option {
	return func(s *Service) { s.checkpoints = store }
}

func WithProgressSink(sink ProgressSink) Option {
	return func(s *Service) { s.progress = sink }
}

func WithBackendFactory(f BackendFactory) Option {
	return func(s *Service) { s.newBackend = f }
}

func NewService(cfg config.Config, opts ...Option) *Service {
	s := &Service{
		cfg:        cfg,
		reader:     subtitle.NewReader(),
		writer:     subtitle.NewWriter(),
		newBackend: translator.NewByName,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Config returns a copy of the current configuration.
func (s *Service) Config() config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// ApplyRuntimeSettings overlays settings on the configuration used by later jobs.
func (s *Service) ApplyRuntimeSettings(settings config.RuntimeSettings) error {
	if err := settings.Validate(); err != nil {
		return WrapError(err, ErrValidation, "invalid runtime settings")
	}
	s.mu.Lock()
	config.WithRuntimeSettings(settings)(&s.cfg)
	s.mu.Unlock()
	return nil
}

// Execute runs a queued job. A job cancelled through the queue stops after
// its current batch, keeps the partial output and returns jobs.ErrCancelled.
func (s *Service) Execute(ctx context.Context, job *jobs.TranslationJob) error {
	signal := jobs.CancelSignal(ctx)
	ctl := &batch.Control{}
	ctl.OnProgress = func(p batch.Progress) {
		if s.progress != nil {
			s.progress.UpdateProgress(job.ID, jobs.Progress{Done: p.Done, Total: p.Total, Batch: p.Batch.String()})
		}
		select {
		case <-signal:
			ctl.Cancel()
		default:
		}
	}

	var res *Result
	err := SafeExecute(func() error {
		var err error
		res, err = s.Translate(ctx, Request{
			JobID:   job.ID,
			Input:   job.Payload.SubtitleFile,
			Output:  job.Payload.OutputFile,
			Source:  job.Payload.SourceLanguage,
			Target:  job.Payload.TargetLanguage,
			Backend: job.Payload.Backend,
		}, ctl)
		return err
	})
	if err != nil {
		return err
	}
	if res.Report.State == batch.StateCancelled {
		return jobs.ErrCancelled
	}
	return nil
}

// Translate translates one subtitle file. ctl may be nil.
func (s *Service) Translate(ctx context.Context, req Request, ctl *batch.Control) (*Result, error) {
	startTime := time.Now()
	cfg := s.Config()

	if strings.TrimSpace(req.Input) == "" {
		return nil, NewError(ErrValidation, "subtitle path is required")
	}
	sub, err := s.reader.Read(req.Input)
	if err != nil {
		errType := ErrFileRead
		if _, statErr := os.Stat(req.Input); errors.Is(statErr, os.ErrNotExist) {
			errType = ErrFileNotFound
		}
		return nil, WrapError(err, errType, "failed to read subtitle").WithContext("path", req.Input)
	}

	source, target, err := resolveLanguages(req, cfg.Translate, sub.Language)
	if err != nil {
		return nil, err
	}

	output := req.Output
	if output == "" {
		output = outputPath(req.Input, source, target)
	}
	if filepath.Clean(output) == filepath.Clean(req.Input) {
		return nil, NewError(ErrValidation, "output would overwrite the input subtitle").
			WithContext("path", req.Input).
			WithContext("target", target.String())
	}

	backendName := req.Backend
	if backendName == "" {
		backendName = cfg.Translate.Backend
	}
	backend, err := s.newBackend(backendName, &cfg)
	if err != nil {
		return nil, WrapError(err, ErrConfig, "failed to create backend").WithContext("backend", backendName)
	}

	packOpts := backend.PackOptions(cfg.Translate)
	packOpts.Source = source
	orchestrator := batch.NewOrchestrator(backend, batch.Options{PackOptions: packOpts, Target: target})

	if req.JobID != "" && s.checkpoints != nil {
		cp, err := newPersistentBatchCheckpointStore(ctx, s.checkpoints, req.JobID)
		if err != nil {
			log.Warn("Checkpoints of job %s unavailable, starting from the first batch: %v", req.JobID, err)
		} else {
			ctx = batch.WithCheckpointStore(ctx, cp)
		}
	}

	log.Info("Translating %s from %s to %s with %s (%d lines)", req.Input, source, target, backendName, len(sub.Lines))
	lines := subtitle.ToBatchLines(sub)
	report, err := orchestrator.Run(ctx, lines, ctl)
	if err != nil {
		var transportErr *batch.TransportError
		if errors.As(err, &transportErr) {
			return nil, WrapError(err, ErrNetwork, "backend request failed").
				WithContext("backend", backendName).
				WithContext("batch", transportErr.Batch.String())
		}
		return nil, WrapError(err, ErrTranslation, "translation failed")
	}

	translated := subtitle.ApplyTranslations(sub, lines)
	translated.Language = target
	if err := s.writer.Write(output, translated); err != nil {
		return nil, WrapError(err, ErrFileWrite, "failed to write translation").WithContext("path", output)
	}

	if report.State == batch.StateDone && req.JobID != "" && s.checkpoints != nil {
		if err := s.checkpoints.DeleteJobData(ctx, req.JobID); err != nil {
			log.Warn("Failed to clear checkpoints of job %s: %v", req.JobID, err)
		}
	}

	res := &Result{
		Output:   output,
		Source:   source,
		Target:   target,
		Backend:  backendName,
		Report:   report,
		Duration: time.Since(startTime),
	}
	log.Info("Wrote %s: %s, %d batches (%d replayed, %d mismatched) in %v",
		output, report.State, report.Batches, report.Replayed, report.Mismatches, res.Duration.Round(time.Millisecond))
	return res, nil
}

// resolveLanguages picks source and target from the request, then the
// configuration, then the language detected in the subtitle.
func resolveLanguages(req Request, cfg config.TranslateConfig, detected language.Tag) (language.Tag, language.Tag, error) {
	source := cfg.SourceLanguage
	if req.Source != "" {
		tag, err := language.Parse(req.Source)
		if err != nil {
			return language.Und, language.Und, WrapError(err, ErrValidation, "invalid source language").WithContext("source", req.Source)
		}
		source = tag
	}
	if source == language.Und {
		source = detected
	}

	target := cfg.TargetLanguage
	if req.Target != "" {
		tag, err := language.Parse(req.Target)
		if err != nil {
			return language.Und, language.Und, WrapError(err, ErrValidation, "invalid target language").WithContext("target", req.Target)
		}
		target = tag
	}
	if target == language.Und {
		return language.Und, language.Und, NewError(ErrValidation, "target language is required")
	}
	return source, target, nil
}

// outputPath names the translation next to input: movie.en.srt becomes movie.da.srt.
func outputPath(input string, source, target language.Tag) string {
	from := file.LanguageSuffix(input)
	if !sameLanguage(from, source) {
		from = ""
	}
	return file.LanguageSibling(input, from, target.String())
}

// sameLanguage reports whether the file name suffix code names tag.
func sameLanguage(code string, tag language.Tag) bool {
	if code == "" || tag == language.Und {
		return false
	}
	parsed, err := language.Parse(code)
	if err != nil {
		return false
	}
	if parsed == tag {
		return true
	}
	pb, _ := parsed.Base()
	tb, _ := tag.Base()
	return parsed == language.Make(pb.String()) && pb == tb
}
