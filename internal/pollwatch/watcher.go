package pollwatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"slidesmith/internal/config"
	"slidesmith/internal/deck"
	"slidesmith/internal/logging"
	"slidesmith/internal/services"
	"slidesmith/internal/services/deckapi"
	"slidesmith/internal/slotstate"
)

const (
	defaultInterval      = 3 * time.Second
	defaultRetryInterval = 5 * time.Second
)

// StatusFetcher is the slice of the service client the watcher needs. The
// deckapi.Client satisfies it.
type StatusFetcher interface {
	JobStatus(ctx context.Context, documentID, jobID string) (deckapi.JobStatusResponse, error)
}

// Watcher polls one job until it resolves, folding responses into a store.
type Watcher struct {
	api    StatusFetcher
	store  *slotstate.Store
	logger *slog.Logger

	interval      time.Duration
	retryInterval time.Duration
	sleep         func(context.Context, time.Duration) error
	onNotice      func(string)
}

// Option customizes the watcher.
type Option func(*Watcher)

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		w.logger = logging.WithComponent(logger, "pollwatch")
	}
}

// WithIntervals overrides the poll cadence and the slowed-down cadence used
// after a failed poll.
func WithIntervals(interval, retryInterval time.Duration) Option {
	return func(w *Watcher) {
		if interval > 0 {
			w.interval = interval
		}
		if retryInterval > 0 {
			w.retryInterval = retryInterval
		}
	}
}

// WithSleeper overrides how waits between polls are performed (useful for
// tests).
func WithSleeper(sleep func(context.Context, time.Duration) error) Option {
	return func(w *Watcher) {
		if sleep != nil {
			w.sleep = sleep
		}
	}
}

// WithNotice registers a callback for user-visible job notices.
func WithNotice(notice func(string)) Option {
	return func(w *Watcher) {
		w.onNotice = notice
	}
}

// NewWatcher constructs a watcher bound to the given store.
func NewWatcher(api StatusFetcher, store *slotstate.Store, opts ...Option) *Watcher {
	watcher := &Watcher{
		api:           api,
		store:         store,
		logger:        logging.WithComponent(nil, "pollwatch"),
		interval:      defaultInterval,
		retryInterval: defaultRetryInterval,
		sleep:         sleepContext,
	}
	for _, opt := range opts {
		opt(watcher)
	}
	return watcher
}

// NewFromConfig constructs a watcher using the configured poll cadence.
func NewFromConfig(cfg *config.Config, api StatusFetcher, store *slotstate.Store, opts ...Option) *Watcher {
	base := []Option{
		WithIntervals(
			time.Duration(cfg.Tracking.PollInterval)*time.Second,
			time.Duration(cfg.Tracking.PollRetryInterval)*time.Second,
		),
	}
	return NewWatcher(api, store, append(base, opts...)...)
}

// Watch polls the job until it reaches a terminal status, the job disappears,
// or the context is canceled. Every response is folded into the store, so a
// renderer subscribed to the store sees the same progression the push channel
// would deliver. Transient poll failures stretch the interval and keep going.
func (w *Watcher) Watch(ctx context.Context, documentID, jobID string) (deckapi.JobStatusResponse, error) {
	logger := logging.WithContext(ctx, w.logger)
	for {
		if err := ctx.Err(); err != nil {
			return deckapi.JobStatusResponse{}, err
		}

		status, err := w.api.JobStatus(ctx, documentID, jobID)
		if err != nil {
			if errors.Is(err, deckapi.ErrNotFound) {
				w.store.SetActiveJob("")
				return deckapi.JobStatusResponse{}, fmt.Errorf("job %s no longer exists: %w", jobID, err)
			}
			if ctx.Err() != nil {
				return deckapi.JobStatusResponse{}, ctx.Err()
			}
			if !services.Retryable(err) {
				return deckapi.JobStatusResponse{}, fmt.Errorf("poll job %s: %w", jobID, err)
			}
			logger.Warn("status poll failed",
				slog.String("job_id", jobID),
				slog.String("error", err.Error()))
			if err := w.sleep(ctx, w.retryInterval); err != nil {
				return deckapi.JobStatusResponse{}, err
			}
			continue
		}

		w.fold(status)

		if status.Status.IsTerminal() {
			w.finish(status)
			return status, nil
		}

		if err := w.sleep(ctx, w.interval); err != nil {
			return deckapi.JobStatusResponse{}, err
		}
	}
}

// fold translates one poll response into store events. Per-slot results go
// through the same reducer the push channel uses; the progress snapshot is
// applied wholesale rather than recomputed from the slot statuses.
func (w *Watcher) fold(status deckapi.JobStatusResponse) {
	for slotID, result := range status.Result {
		parsed, ok := deck.ParseSlotStatus(result.Status)
		if !ok {
			w.logger.Debug("ignoring unknown slot status",
				slog.String("slot_id", slotID),
				slog.String("status", result.Status))
			continue
		}
		switch parsed {
		case deck.SlotGenerating:
			slotstate.Apply(w.store, slotstate.SlotStarted{SlotID: slotID})
		case deck.SlotCompleted, deck.SlotUploaded:
			slotstate.Apply(w.store, slotstate.SlotCompleted{SlotID: slotID, ImagePath: result.Path()})
		case deck.SlotFailed:
			slotstate.Apply(w.store, slotstate.SlotFailed{SlotID: slotID, Error: result.Error})
		}
	}
	// A zero Total means the response carried no progress field; applying it
	// would erase real counters.
	if status.Progress.Total > 0 {
		w.store.ApplyProgress(status.Progress)
	}
}

func (w *Watcher) finish(status deckapi.JobStatusResponse) {
	var progress *deck.TaskProgress
	if status.Progress.Total > 0 {
		progress = &status.Progress
	}
	switch status.Status {
	case deck.JobFailed:
		slotstate.Apply(w.store, slotstate.TaskFailed{Error: status.Error})
		if status.Error != "" {
			w.notice(fmt.Sprintf("Image generation failed: %s", status.Error))
		} else {
			w.notice("Image generation failed.")
		}
	case deck.JobPartial:
		slotstate.Apply(w.store, slotstate.TaskCompleted{Progress: progress})
		w.notice(fmt.Sprintf("Image generation finished with %d of %d slots failed.",
			status.Progress.Failed, status.Progress.Total))
	default:
		slotstate.Apply(w.store, slotstate.TaskCompleted{Progress: progress})
	}
	w.logger.Info("job resolved",
		slog.String("job_id", status.JobID),
		slog.String("status", string(status.Status)))
}

func (w *Watcher) notice(message string) {
	if w.onNotice != nil {
		w.onNotice(message)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
