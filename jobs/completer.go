package jobs

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"tutoring_back_end_go/models"
)

type LessonStore interface {
	CompletePastLessons(ctx context.Context, today, now string) (int64, error)
}

// LessonCompleter periodically moves lessons whose start has passed from
// upcoming to completed.
type LessonCompleter struct {
	store    LessonStore
	interval time.Duration
	now      func() time.Time
	logger   *zap.Logger

	stopChan chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

func NewLessonCompleter(store LessonStore, interval time.Duration, now func() time.Time, logger *zap.Logger) *LessonCompleter {
	return &LessonCompleter{
		store:    store,
		interval: interval,
		now:      now,
		logger:   logger,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start runs one pass immediately and then one per interval. A zero
// interval disables the job.
func (j *LessonCompleter) Start(ctx context.Context) {
	if j.interval <= 0 {
		j.logger.Info("Lesson completion job disabled")
		close(j.done)
		return
	}

	j.logger.Info("Starting lesson completion job", zap.Duration("interval", j.interval))
	go j.run(ctx)
}

// Stop halts the job and waits for the running pass to finish.
func (j *LessonCompleter) Stop() {
	j.stopOnce.Do(func() { close(j.stopChan) })
	<-j.done
}

func (j *LessonCompleter) run(ctx context.Context) {
	defer close(j.done)

	j.RunOnce(ctx)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.RunOnce(ctx)
		case <-j.stopChan:
			j.logger.Info("Lesson completion job stopped")
			return
		case <-ctx.Done():
			j.logger.Info("Lesson completion job cancelled")
			return
		}
	}
}

func (j *LessonCompleter) RunOnce(ctx context.Context) {
	now := j.now()

	n, err := j.store.CompletePastLessons(ctx, now.Format(models.DateLayout), now.Format("15:04:05"))
	if err != nil {
		j.logger.Error("Failed to complete past lessons", zap.Error(err))
		return
	}
	if n > 0 {
		j.logger.Info("Lessons completed", zap.Int64("count", n))
	}
}
