package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"slidesmith/internal/config"
	"slidesmith/internal/deck"
)

const userAgent = "Slidesmith/0.1.0"

// Service defines the notification surface exposed to job trackers.
type Service interface {
	NotifyJobCompleted(ctx context.Context, kind deck.JobKind, progress deck.TaskProgress) error
	NotifyJobPartial(ctx context.Context, kind deck.JobKind, progress deck.TaskProgress) error
	NotifyJobFailed(ctx context.Context, kind deck.JobKind, reason string) error
	NotifyConnectionLost(ctx context.Context) error
	NotifyExportReady(ctx context.Context, path string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func kindLabel(kind deck.JobKind) string {
	switch kind {
	case deck.JobKindOutline:
		return "Outline generation"
	case deck.JobKindDescriptions:
		return "Description generation"
	case deck.JobKindImages:
		return "Image generation"
	case deck.JobKindRegenerate:
		return "Slot regeneration"
	case deck.JobKindExport:
		return "Export"
	default:
		return "Generation"
	}
}

func (n *ntfyService) NotifyJobCompleted(ctx context.Context, kind deck.JobKind, progress deck.TaskProgress) error {
	message := fmt.Sprintf("%s complete", kindLabel(kind))
	if progress.Total > 0 {
		message = fmt.Sprintf("%s: %d of %d slots finished", message, progress.Completed, progress.Total)
	}
	data := payload{
		title:   "Slidesmith - Job Complete",
		message: message,
		tags:    []string{"slidesmith", string(kind), "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyJobPartial(ctx context.Context, kind deck.JobKind, progress deck.TaskProgress) error {
	data := payload{
		title: "Slidesmith - Job Complete (with failures)",
		message: fmt.Sprintf("%s finished with %d of %d slots failed",
			kindLabel(kind), progress.Failed, progress.Total),
		tags:     []string{"slidesmith", string(kind), "partial"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyJobFailed(ctx context.Context, kind deck.JobKind, reason string) error {
	message := fmt.Sprintf("%s failed", kindLabel(kind))
	if reason = strings.TrimSpace(reason); reason != "" {
		message = fmt.Sprintf("%s: %s", message, reason)
	}
	data := payload{
		title:    "Slidesmith - Job Failed",
		message:  message,
		tags:     []string{"slidesmith", string(kind), "failed"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyConnectionLost(ctx context.Context) error {
	data := payload{
		title:   "Slidesmith - Connection Lost",
		message: "Lost the push channel to the generation service; falling back to polling",
		tags:    []string{"slidesmith", "connection", "lost"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyExportReady(ctx context.Context, path string) error {
	message := "PPTX export ready"
	if path = strings.TrimSpace(path); path != "" {
		message = fmt.Sprintf("%s\nFile: %s", message, path)
	}
	data := payload{
		title:   "Slidesmith - Export Ready",
		message: message,
		tags:    []string{"slidesmith", "export", "ready"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Slidesmith - Test",
		message:  "Notification system test",
		tags:     []string{"slidesmith", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyJobCompleted(context.Context, deck.JobKind, deck.TaskProgress) error { return nil }
func (noopService) NotifyJobPartial(context.Context, deck.JobKind, deck.TaskProgress) error   { return nil }
func (noopService) NotifyJobFailed(context.Context, deck.JobKind, string) error               { return nil }
func (noopService) NotifyConnectionLost(context.Context) error                                { return nil }
func (noopService) NotifyExportReady(context.Context, string) error                           { return nil }
func (noopService) TestNotification(context.Context) error                                    { return nil }
