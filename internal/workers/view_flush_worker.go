package workers

import (
	"context"
	"time"

	postPort "travelhub/internal/ports/post"

	"go.uber.org/zap"
)

// ViewFlushWorker moves buffered view counts into travel_posts.view_count.
type ViewFlushWorker struct {
	Counter   postPort.ViewCounter
	PostRepo  postPort.PostRepository
	BatchSize int
	Interval  time.Duration
	Logger    *zap.Logger
}

func NewViewFlushWorker(
	counter postPort.ViewCounter,
	postRepo postPort.PostRepository,
	batchSize int,
	interval time.Duration,
	logger *zap.Logger,
) *ViewFlushWorker {
	return &ViewFlushWorker{
		Counter:   counter,
		PostRepo:  postRepo,
		BatchSize: batchSize,
		Interval:  interval,
		Logger:    logger,
	}
}

// Run flushes until ctx is cancelled, with one final flush on the way out.
func (w *ViewFlushWorker) Run(ctx context.Context) {
	w.Logger.Info("ViewFlushWorker started", zap.Duration("interval", w.Interval), zap.Int("batch", w.BatchSize))
	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			w.FlushOnce(flushCtx)
			cancel()
			w.Logger.Info("ViewFlushWorker stopped")
			return
		case <-ticker.C:
			w.FlushOnce(ctx)
		}
	}
}

// FlushOnce drains batches until the dirty set is empty and returns the
// number of posts updated. Deltas of a failed batch are put back.
func (w *ViewFlushWorker) FlushOnce(ctx context.Context) int {
	flushed := 0
	for {
		deltas, popped, err := w.Counter.Drain(ctx, int64(w.BatchSize))
		if err != nil {
			w.Logger.Error("Error draining view counters", zap.Error(err))
			return flushed
		}
		if popped == 0 {
			return flushed
		}
		if len(deltas) == 0 {
			continue
		}

		if err := w.PostRepo.AddViews(ctx, deltas); err != nil {
			w.Logger.Error("Error applying view counts", zap.Int("posts", len(deltas)), zap.Error(err))
			if rerr := w.Counter.Restore(ctx, deltas); rerr != nil {
				w.Logger.Error("Lost view counts", zap.Any("deltas", deltas), zap.Error(rerr))
			}
			return flushed
		}

		flushed += len(deltas)
		w.Logger.Debug("Flushed view counts", zap.Int("posts", len(deltas)))
		if popped < w.BatchSize {
			return flushed
		}
	}
}
