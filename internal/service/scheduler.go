package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/language"

	"github.com/MimeLyc/subtitle-batch-translator/internal/config"
	"github.com/MimeLyc/subtitle-batch-translator/internal/jobs"
	"github.com/MimeLyc/subtitle-batch-translator/pkg/file"
	"github.com/MimeLyc/subtitle-batch-translator/pkg/icron"
	"github.com/MimeLyc/subtitle-batch-translator/pkg/log"
)

const (
	JobSourceCron   = "cron"
	JobSourceManual = "manual"
)

// Scheduler scans the watch directories on a cron schedule and queues the
// subtitles that have no translation yet.
type Scheduler struct {
	queue Enqueuer
	cron  *cron.Cron
	group singleflight.Group

	mu          sync.Mutex
	dirs        []string
	cronExpr    string
	target      language.Tag
	backend     string
	entryID     cron.EntryID
	scheduled   bool
	ctx         context.Context
	lastTrigger time.Time
	now         func() time.Time
}

func NewScheduler(cfg config.Config, queue Enqueuer, c *cron.Cron) *Scheduler {
	return &Scheduler{
		queue:    queue,
		cron:     c,
		dirs:     cfg.Watch.Dirs,
		cronExpr: cfg.Watch.CronExpr,
		target:   cfg.Translate.TargetLanguage,
		backend:  cfg.Translate.Backend,
		now:      time.Now,
	}
}

// Schedule registers the scan with the cron engine. Starting the engine is
// left to the caller.
func (s *Scheduler) Schedule(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ctx = ctx
	return s.scheduleLocked()
}

func (s *Scheduler) scheduleLocked() error {
	if len(s.dirs) == 0 {
		log.Info("No watch directories configured, scheduled scans disabled")
		return nil
	}
	ctx := s.ctx
	id, err := s.cron.AddFunc(s.cronExpr, func() {
		if _, err := s.Scan(ctx); err != nil {
			log.Error("Scheduled scan failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule %q: %w", s.cronExpr, err)
	}
	s.entryID = id
	s.scheduled = true
	log.Info("Watching %s on schedule %q", strings.Join(s.dirs, ", "), s.cronExpr)
	return nil
}

// ApplyRuntimeSettings updates the target and backend of later scans and
// reschedules when the cron expression changed.
func (s *Scheduler) ApplyRuntimeSettings(settings config.RuntimeSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if tag, err := language.Parse(settings.TargetLanguage); err == nil {
		s.target = tag
	}
	if settings.Backend != "" {
		s.backend = settings.Backend
	}
	if settings.CronExpr == s.cronExpr {
		return nil
	}

	s.cronExpr = settings.CronExpr
	if !s.scheduled {
		return nil
	}
	s.cron.Remove(s.entryID)
	s.scheduled = false
	return s.scheduleLocked()
}

// Scan queues every subtitle in the watch directories changed since the
// previous scan that lacks a translation. Concurrent calls share one scan.
func (s *Scheduler) Scan(ctx context.Context) (int, error) {
	v, err, _ := s.group.Do("scan", func() (any, error) {
		return s.scan(ctx)
	})
	n, _ := v.(int)
	return n, err
}

func (s *Scheduler) scan(ctx context.Context) (int, error) {
	s.mu.Lock()
	dirs := append([]string(nil), s.dirs...)
	target := s.target
	backend := s.backend
	s.mu.Unlock()

	now := s.now()
	since, err := s.startTime(now)
	if err != nil {
		return 0, err
	}

	var queued int
	var errs []string
	for _, dir := range dirs {
		if ctx.Err() != nil {
			return queued, ctx.Err()
		}
		if _, err := os.Stat(dir); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", dir, err))
			continue
		}
		log.Info("Scanning %s for subtitles changed after %v", dir, since.Format(time.RFC3339))
		found, err := file.FindRecentAfter(dir, since, ".srt")
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", dir, err))
			continue
		}
		for _, path := range found {
			if !needsTranslation(path, target) {
				continue
			}
			job, created := EnqueueSubtitle(s.queue, JobSourceCron, jobs.JobPayload{
				SubtitleFile:   path,
				TargetLanguage: target.String(),
				Backend:        backend,
			})
			if created {
				queued++
				log.Info("Queued %s as job %s", path, job.ID)
			}
		}
	}

	s.mu.Lock()
	s.lastTrigger = now
	s.mu.Unlock()

	if len(errs) > 0 {
		return queued, fmt.Errorf("scan: %s", strings.Join(errs, "; "))
	}
	return queued, nil
}

// needsTranslation is false for translations themselves and for subtitles
// whose translation into target already exists.
func needsTranslation(path string, target language.Tag) bool {
	suffix := file.LanguageSuffix(path)
	if sameLanguage(suffix, target) {
		return false
	}

	from := ""
	if _, err := language.Parse(suffix); err == nil && suffix != "" {
		from = suffix
	}
	_, err := os.Stat(file.LanguageSibling(path, from, target.String()))
	return os.IsNotExist(err)
}

// startTime returns the modification time after which files are considered.
// The first scan looks back a week unless the schedule fires less than daily.
func (s *Scheduler) startTime(now time.Time) (time.Time, error) {
	s.mu.Lock()
	last, expr := s.lastTrigger, s.cronExpr
	s.mu.Unlock()

	if !last.IsZero() {
		return last, nil
	}
	info, err := icron.GetTriggerInfo(expr, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get cron schedule: %w", err)
	}
	if info.Last.IsZero() || now.Add(-24*time.Hour).Before(info.Last) {
		return now.Add(-7 * 24 * time.Hour), nil
	}
	return info.Last, nil
}
