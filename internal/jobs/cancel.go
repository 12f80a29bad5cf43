package jobs

import "context"

type cancelSignalKey struct{}

func withCancelSignal(ctx context.Context, ch <-chan struct{}) context.Context {
	return context.WithValue(ctx, cancelSignalKey{}, ch)
}

// CancelSignal returns a channel closed when the job executing under ctx
// is cancelled through Queue.Cancel, or nil outside a queue worker.
// Executors should finish the unit of work in flight before stopping.
func CancelSignal(ctx context.Context) <-chan struct{} {
	ch, _ := ctx.Value(cancelSignalKey{}).(<-chan struct{})
	return ch
}
