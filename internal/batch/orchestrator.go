package batch

import (
	"context"

	"golang.org/x/text/language"

	"github.com/MimeLyc/subtitle-batch-translator/pkg/log"
)

// Options configure one orchestrator.
type Options struct {
	PackOptions
	Target language.Tag
}

// CheckpointStore keeps the normalized texts of completed batches so an
// interrupted run can resume without calling the translator again.
type CheckpointStore interface {
	Load(start, end int) ([]string, bool)
	Save(ctx context.Context, start, end int, translated []string) error
}

type checkpointStoreContextKey struct{}

// WithCheckpointStore attaches store to ctx for Run to pick up.
func WithCheckpointStore(ctx context.Context, store CheckpointStore) context.Context {
	if store == nil {
		return ctx
	}
	return context.WithValue(ctx, checkpointStoreContextKey{}, store)
}

func checkpointStoreFromContext(ctx context.Context) CheckpointStore {
	store, _ := ctx.Value(checkpointStoreContextKey{}).(CheckpointStore)
	return store
}

// Report summarizes a finished run.
type Report struct {
	State       State
	Batches     int // batches completed
	Lines       int // lines covered by completed batches
	Replayed    int // batches restored from checkpoints
	Mismatches  int // batches whose segment count differed from their line count
	Diagnostics []string
}

// Orchestrator drives pack, send, split and normalize over a whole subtitle,
// one batch at a time.
type Orchestrator struct {
	translator Translator
	opts       Options
	normalizer Normalizer
}

func NewOrchestrator(t Translator, opts Options) *Orchestrator {
	return &Orchestrator{
		translator: t,
		opts:       opts,
		normalizer: NewNormalizer(opts.Target),
	}
}

// Run translates lines in place. Only a translator failure is returned as an
// error, wrapped in *TransportError, and it leaves the run in StateFailed;
// lines of earlier batches keep their results. Cancellation through ctl or
// ctx is checked after every batch and ends the run with StateCancelled and a
// nil error.
func (o *Orchestrator) Run(ctx context.Context, lines []Line, ctl *Control) (Report, error) {
	if ctl == nil {
		ctl = &Control{}
	}
	if o.translator == nil {
		ctl.set(StateFailed)
		return Report{State: StateFailed}, ErrNoTranslator
	}

	var (
		diag   = &Diagnostics{}
		store  = checkpointStoreFromContext(ctx)
		packer = NewPacker(lines, o.opts.PackOptions)
		shape  = o.translator.Shape()
		rep    Report
	)
	finish := func(s State) Report {
		ctl.set(s)
		rep.State = s
		rep.Diagnostics = diag.Entries()
		return rep
	}

	for {
		ctl.set(StatePacking)
		b, ok := packer.Next()
		if !ok {
			break
		}

		if cached, ok := loadCheckpoint(store, b); ok {
			o.write(lines, b, cached)
			rep.Replayed++
			log.Debug("Batch %s restored from checkpoint", b)
		} else {
			ctl.set(StateSending)
			out, err := o.translator.Translate(ctx, o.opts.Source, o.opts.Target, payload(shape, b), diag)
			if err != nil {
				if ctx.Err() != nil {
					return finish(StateCancelled), nil
				}
				return finish(StateFailed), &TransportError{Batch: b, Err: err}
			}

			ctl.set(StateSplitting)
			segments := SplitAll(shape, out, b.Len())
			if len(segments) != b.Len() {
				rep.Mismatches++
				diag.Addf("batch %s: expected %d segments, got %d", b, b.Len(), len(segments))
			}

			ctl.set(StateNormalizing)
			results := o.normalize(lines, b, segments)
			o.write(lines, b, results)
			if store != nil && len(results) == b.Len() {
				if err := store.Save(ctx, b.Start, b.End, results); err != nil {
					diag.Addf("batch %s: save checkpoint: %v", b, err)
				}
			}
		}

		rep.Batches++
		rep.Lines += b.Len()
		ctl.report(Progress{Done: rep.Lines, Total: len(lines), Batch: b})

		if ctl.Cancelled() || ctx.Err() != nil {
			log.Info("Translation cancelled after %d of %d lines", rep.Lines, len(lines))
			return finish(StateCancelled), nil
		}
	}

	return finish(StateDone), nil
}

// normalize cleans the segments that have a slot inside b. Surplus segments
// are dropped; missing ones leave their lines untouched.
func (o *Orchestrator) normalize(lines []Line, b Batch, segments []string) []string {
	n := min(len(segments), b.Len())
	ret := make([]string, n)
	for i := 0; i < n; i++ {
		ret[i] = o.normalizer.Normalize(segments[i], lines[b.Start+i])
	}
	return ret
}

func (o *Orchestrator) write(lines []Line, b Batch, results []string) {
	for i, text := range results {
		lines[b.Start+i].Translated = text
	}
}

func loadCheckpoint(store CheckpointStore, b Batch) ([]string, bool) {
	if store == nil {
		return nil, false
	}
	cached, ok := store.Load(b.Start, b.End)
	if !ok || len(cached) != b.Len() {
		return nil, false
	}
	return cached, true
}
