package pushchan

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"slidesmith/internal/config"
	"slidesmith/internal/deck"
	"slidesmith/internal/testsupport"
)

type fakeConn struct {
	mu       sync.Mutex
	messages chan []byte
	written  []controlMessage
	closed   bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{messages: make(chan []byte, 16)}
}

func (c *fakeConn) push(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	c.messages <- data
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	data, ok := <-c.messages
	if !ok {
		return 0, nil, io.ErrUnexpectedEOF
	}
	return 1, data, nil
}

func (c *fakeConn) WriteJSON(v any) error {
	msg, ok := v.(controlMessage)
	if !ok {
		return errors.New("unexpected write payload")
	}
	c.mu.Lock()
	c.written = append(c.written, msg)
	c.mu.Unlock()
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.messages)
	}
	return nil
}

func (c *fakeConn) sent() []controlMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]controlMessage, len(c.written))
	copy(out, c.written)
	return out
}

func noSleep(context.Context, time.Duration) error { return nil }

func TestRunAppliesEventsToStore(t *testing.T) {
	store := testsupport.SeedStore(t, 2)
	if err := store.BeginJob("job-1"); err != nil {
		t.Fatalf("BeginJob failed: %v", err)
	}
	conn := newFakeConn()
	conn.push(map[string]any{"type": "slot_started", "slot_id": "slot-1"})
	conn.push(map[string]any{
		"type": "slot_completed", "slot_id": "slot-1", "image_path": "/img/slot-1.png",
		"progress": map[string]int{"total": 2, "completed": 1, "failed": 0},
	})
	conn.push(map[string]any{"type": "mystery_event"})
	conn.push(map[string]any{
		"type":     "task_completed",
		"progress": map[string]int{"total": 2, "completed": 2, "failed": 0},
	})

	client := NewClient("ws://test", store,
		WithDialer(func(ctx context.Context, url string) (Conn, error) { return conn, nil }),
		WithSleeper(noSleep),
	)
	if err := client.Subscribe("doc-1", "job-1"); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- client.Run(ctx) }()

	deadline := time.After(2 * time.Second)
	for {
		snap := store.Snapshot()
		if snap.ActiveJob == "" && snap.HasProgress && snap.Progress.Completed == 2 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("store never converged: %+v", snap)
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	<-done

	slot, ok := store.Slot("slot-1")
	if !ok || slot.Status != deck.SlotCompleted || slot.ImagePath != "/img/slot-1.png" {
		t.Fatalf("slot s1 = %+v", slot)
	}

	sent := conn.sent()
	if len(sent) != 2 || sent[0].Type != "subscribe_task" || sent[0].DocumentID != "doc-1" || sent[0].JobID != "job-1" {
		t.Fatalf("control messages = %+v", sent)
	}
	if sent[1].Type != "unsubscribe_task" {
		t.Fatalf("cancellation should say goodbye, got %+v", sent[1])
	}
}

func TestRunStopsAfterReconnectBudget(t *testing.T) {
	store := testsupport.SeedStore(t, 2)
	dials := 0
	var sleeps []time.Duration
	var notices []string

	client := NewClient("ws://test", store,
		WithDialer(func(ctx context.Context, url string) (Conn, error) {
			dials++
			return nil, errors.New("connection refused")
		}),
		WithSleeper(func(_ context.Context, d time.Duration) error {
			sleeps = append(sleeps, d)
			return nil
		}),
		WithReconnectPolicy(500*time.Millisecond, 8*time.Second, 6),
		WithNotice(func(msg string) { notices = append(notices, msg) }),
	)

	err := client.Run(context.Background())
	if err == nil {
		t.Fatal("expected Run to fail once the attempt cap is reached")
	}
	if dials != 6 {
		t.Fatalf("dials = %d, want 6", dials)
	}
	if client.State() != StateFailed {
		t.Fatalf("state = %s, want %s", client.State(), StateFailed)
	}
	if len(notices) != 1 {
		t.Fatalf("notices = %v, want exactly one", notices)
	}
	want := []time.Duration{
		500 * time.Millisecond,
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
	}
	if len(sleeps) != len(want) {
		t.Fatalf("sleeps = %v", sleeps)
	}
	for i, d := range want {
		if sleeps[i] != d {
			t.Errorf("sleep %d = %s, want %s", i, sleeps[i], d)
		}
	}
}

func TestRunResetsAttemptCounterAfterConnect(t *testing.T) {
	store := testsupport.SeedStore(t, 2)
	dials := 0
	conns := make(chan *fakeConn, 2)

	client := NewClient("ws://test", store,
		WithDialer(func(ctx context.Context, url string) (Conn, error) {
			dials++
			// Fail twice, connect, drop, fail twice, connect again.
			switch dials {
			case 1, 2, 4, 5:
				return nil, errors.New("connection refused")
			default:
				conn := newFakeConn()
				conns <- conn
				return conn, nil
			}
		}),
		WithSleeper(noSleep),
		WithReconnectPolicy(time.Millisecond, time.Millisecond, 3),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- client.Run(ctx) }()

	first := <-conns
	first.Close()

	// A third consecutive failure would exceed the cap of 3; reaching a
	// second live connection proves the counter reset after the first one.
	var second *fakeConn
	select {
	case second = <-conns:
	case <-time.After(2 * time.Second):
		t.Fatal("never reconnected after the drop")
	}

	cancel()
	second.Close()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("Run returned %v, want context.Canceled", err)
	}
	if dials != 6 {
		t.Fatalf("dials = %d, want 6", dials)
	}
}

func TestConnectedFlagTracksConnection(t *testing.T) {
	store := testsupport.SeedStore(t, 2)
	conn := newFakeConn()
	dialed := make(chan struct{})

	client := NewClient("ws://test", store,
		WithDialer(func(ctx context.Context, url string) (Conn, error) {
			select {
			case <-dialed:
				<-ctx.Done()
				return nil, ctx.Err()
			default:
				close(dialed)
				return conn, nil
			}
		}),
		WithSleeper(noSleep),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- client.Run(ctx) }()

	waitFor(t, func() bool { return store.Snapshot().Connected })
	conn.Close()
	waitFor(t, func() bool { return !store.Snapshot().Connected })

	cancel()
	<-done
}

func TestUnsubscribeClearsSubscription(t *testing.T) {
	store := testsupport.SeedStore(t, 2)
	conn := newFakeConn()
	client := NewClient("ws://test", store,
		WithDialer(func(ctx context.Context, url string) (Conn, error) { return conn, nil }),
		WithSleeper(noSleep),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- client.Run(ctx) }()
	waitFor(t, func() bool { return client.State() == StateConnected })

	if err := client.Subscribe("doc-1", "job-9"); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	if err := client.Unsubscribe(); err != nil {
		t.Fatalf("Unsubscribe failed: %v", err)
	}

	cancel()
	conn.Close()
	<-done

	sent := conn.sent()
	if len(sent) != 2 || sent[0].Type != "subscribe_task" || sent[1].Type != "unsubscribe_task" {
		t.Fatalf("control messages = %+v", sent)
	}
	if sent[1].JobID != "job-9" {
		t.Fatalf("unsubscribe job = %q", sent[1].JobID)
	}
}

func TestNewFromConfigAppliesReconnectPolicy(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithTracking(config.Tracking{
		PollInterval:         1,
		PollRetryInterval:    2,
		ReconnectInitialMS:   250,
		ReconnectMaxMS:       1000,
		ReconnectMaxAttempts: 2,
	}))
	store := testsupport.SeedStore(t, 1)

	dials := 0
	var sleeps []time.Duration
	client := NewFromConfig(cfg, store,
		WithDialer(func(ctx context.Context, url string) (Conn, error) {
			dials++
			return nil, errors.New("connection refused")
		}),
		WithSleeper(func(_ context.Context, d time.Duration) error {
			sleeps = append(sleeps, d)
			return nil
		}),
	)

	if err := client.Run(context.Background()); err == nil {
		t.Fatal("expected Run to fail once the configured cap is reached")
	}
	if dials != 2 {
		t.Fatalf("dials = %d, want the configured cap of 2", dials)
	}
	if len(sleeps) != 1 || sleeps[0] != 250*time.Millisecond {
		t.Fatalf("sleeps = %v, want one configured initial delay", sleeps)
	}
}

func TestBackoffDelayCaps(t *testing.T) {
	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 500 * time.Millisecond},
		{2, time.Second},
		{3, 2 * time.Second},
		{5, 8 * time.Second},
		{9, 8 * time.Second},
	}
	for _, tc := range cases {
		if got := backoffDelay(500*time.Millisecond, 8*time.Second, tc.attempt); got != tc.want {
			t.Errorf("backoffDelay(attempt=%d) = %s, want %s", tc.attempt, got, tc.want)
		}
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for !cond() {
		select {
		case <-deadline:
			t.Fatal("condition never became true")
		case <-time.After(5 * time.Millisecond):
		}
	}
}
