package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"slidesmith/internal/deck"
	"slidesmith/internal/logging"
	"slidesmith/internal/pollwatch"
	"slidesmith/internal/pushchan"
	"slidesmith/internal/services"
	"slidesmith/internal/services/deckapi"
	"slidesmith/internal/slotstate"
)

// followJob tracks one launched job to resolution. The push channel is the
// primary delivery path; when its reconnect budget runs out the tracker
// switches to polling. Either way the slot status store converges on the
// same state, and the final server-reported status is returned.
func followJob(cmd *cobra.Command, cmdCtx *commandContext, store *slotstate.Store, documentID, jobID string, kind deck.JobKind) (deckapi.JobStatusResponse, error) {
	cfg, err := cmdCtx.ensureConfig()
	if err != nil {
		return deckapi.JobStatusResponse{}, err
	}
	client, err := cmdCtx.apiClient()
	if err != nil {
		return deckapi.JobStatusResponse{}, err
	}
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	trackCtx := services.WithDocumentID(cmd.Context(), documentID)
	trackCtx = services.WithJobID(trackCtx, jobID)
	ctx, cancel := context.WithCancel(trackCtx)
	defer cancel()
	logger := logging.WithContext(ctx, cmdCtx.ensureLogger())

	notice := func(msg string) {
		fmt.Fprintln(errOut, msg)
	}

	updates, unsubscribe := store.Subscribe()
	defer unsubscribe()

	push := pushchan.NewFromConfig(cfg, store,
		pushchan.WithLogger(logger),
		pushchan.WithNotice(notice),
	)
	if err := push.Subscribe(documentID, jobID); err != nil {
		return deckapi.JobStatusResponse{}, err
	}
	pushDone := make(chan error, 1)
	go func() { pushDone <- push.Run(ctx) }()

	render := newSnapshotRenderer(out)
	render.update(store.Snapshot())

	for {
		select {
		case <-ctx.Done():
			return deckapi.JobStatusResponse{}, ctx.Err()
		case err := <-pushDone:
			if ctx.Err() != nil {
				return deckapi.JobStatusResponse{}, ctx.Err()
			}
			logger.Warn("push channel unavailable, polling instead", "error", err.Error())
			return pollToResolution(ctx, cmd, cmdCtx, client, store, render, documentID, jobID)
		case <-updates:
			snapshot := store.Snapshot()
			render.update(snapshot)
			if snapshot.ActiveJob == "" {
				cancel()
				<-pushDone
				// The push channel reported resolution; one status fetch
				// yields the authoritative final record.
				final, err := client.JobStatus(trackCtx, documentID, jobID)
				if err != nil {
					return deckapi.JobStatusResponse{}, fmt.Errorf("fetch final status: %w", err)
				}
				return final, nil
			}
		}
	}
}

func pollToResolution(ctx context.Context, cmd *cobra.Command, cmdCtx *commandContext, client *deckapi.Client, store *slotstate.Store, render *snapshotRenderer, documentID, jobID string) (deckapi.JobStatusResponse, error) {
	cfg := cmdCtx.configValue()
	updates, unsubscribe := store.Subscribe()
	defer unsubscribe()

	stop := make(chan struct{})
	drawDone := make(chan struct{})
	go func() {
		defer close(drawDone)
		for {
			select {
			case <-ctx.Done():
				return
			case <-stop:
				return
			case <-updates:
				render.update(store.Snapshot())
			}
		}
	}()

	watcher := pollwatch.NewFromConfig(cfg, client, store,
		pollwatch.WithLogger(cmdCtx.ensureLogger()),
		pollwatch.WithNotice(func(msg string) { fmt.Fprintln(cmd.ErrOrStderr(), msg) }),
	)
	final, err := watcher.Watch(ctx, documentID, jobID)
	close(stop)
	<-drawDone
	if err != nil {
		return deckapi.JobStatusResponse{}, err
	}
	render.update(store.Snapshot())
	return final, nil
}

// finishJob journals and announces a resolved job.
func finishJob(cmd *cobra.Command, cmdCtx *commandContext, final deckapi.JobStatusResponse, kind deck.JobKind) error {
	if j, err := cmdCtx.openJournal(); err == nil {
		defer j.Close()
		_ = j.UpdateStatus(cmd.Context(), final.JobID, final.Status, final.Progress, final.Error)
	}

	notifier := cmdCtx.notifier()
	out := cmd.OutOrStdout()
	switch final.Status {
	case deck.JobCompleted:
		fmt.Fprintf(out, "Job %s completed: %s\n", final.JobID, progressLine(final.Progress))
		if notifier != nil {
			_ = notifier.NotifyJobCompleted(cmd.Context(), kind, final.Progress)
		}
	case deck.JobPartial:
		fmt.Fprintf(out, "Job %s finished with failures: %s\n", final.JobID, progressLine(final.Progress))
		if notifier != nil {
			_ = notifier.NotifyJobPartial(cmd.Context(), kind, final.Progress)
		}
	case deck.JobFailed:
		reason := strings.TrimSpace(final.Error)
		if reason == "" {
			reason = "unknown error"
		}
		if notifier != nil {
			_ = notifier.NotifyJobFailed(cmd.Context(), kind, reason)
		}
		return fmt.Errorf("job %s failed: %s", final.JobID, reason)
	default:
		fmt.Fprintf(out, "Job %s stopped at status %s\n", final.JobID, final.Status)
	}
	return nil
}

// snapshotRenderer writes slot tables to a terminal, redrawing in place when
// the output is a TTY and appending otherwise.
type snapshotRenderer struct {
	out   io.Writer
	tty   bool
	lines int
}

func newSnapshotRenderer(out io.Writer) *snapshotRenderer {
	tty := false
	if f, ok := out.(*os.File); ok {
		tty = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &snapshotRenderer{out: out, tty: tty}
}

func (r *snapshotRenderer) update(snapshot slotstate.Snapshot) {
	body := renderSnapshot(snapshot)
	if r.tty && r.lines > 0 {
		fmt.Fprintf(r.out, "\033[%dA\033[J", r.lines)
	}
	fmt.Fprint(r.out, body)
	r.lines = strings.Count(body, "\n")
}
