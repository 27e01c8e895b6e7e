package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeService struct {
	name     string
	startErr error
	block    bool

	mu      sync.Mutex
	stopped bool
}

func (s *fakeService) Name() string { return s.name }

func (s *fakeService) Start(ctx context.Context) error {
	if s.startErr != nil {
		return s.startErr
	}
	if s.block {
		<-ctx.Done()
	}
	return nil
}

func (s *fakeService) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	return nil
}

func (s *fakeService) wasStopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

func TestRunnerStopsAllServicesOnFailure(t *testing.T) {
	failing := &fakeService{name: "failing", startErr: errors.New("listen failed")}
	blocking := &fakeService{name: "blocking", block: true}
	runner := NewRunner(failing, blocking)

	var cleaned []string
	runner.AddCleanup(func() { cleaned = append(cleaned, "first") })
	runner.AddCleanup(func() { cleaned = append(cleaned, "second") })

	err := runner.Run(context.Background(), time.Second, nil)
	if err == nil || err.Error() != "listen failed" {
		t.Fatalf("expected start error, got %v", err)
	}
	if !failing.wasStopped() || !blocking.wasStopped() {
		t.Fatalf("expected every service to be stopped")
	}
	if len(cleaned) != 2 || cleaned[0] != "second" || cleaned[1] != "first" {
		t.Fatalf("expected cleanups in reverse order, got %v", cleaned)
	}
}

func TestRunnerReturnsNilOnCancel(t *testing.T) {
	svc := &fakeService{name: "blocking", block: true}
	runner := NewRunner(svc)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := runner.Run(ctx, time.Second, nil); err != nil {
		t.Fatalf("expected nil on cancel, got %v", err)
	}
	if !svc.wasStopped() {
		t.Fatalf("expected service to be stopped")
	}
}

func TestRunnerRequiresServices(t *testing.T) {
	if err := NewRunner().Run(context.Background(), time.Second, nil); err == nil {
		t.Fatalf("expected error for empty runner")
	}
}

func TestParseMode(t *testing.T) {
	cases := map[string]Mode{
		"":       ModeAll,
		"ALL":    ModeAll,
		" api ":  ModeAPI,
		"worker": ModeWorker,
	}
	for raw, want := range cases {
		got, err := ParseMode(raw)
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q) = %q, %v; want %q", raw, got, err, want)
		}
	}
	if _, err := ParseMode("cron"); err == nil {
		t.Fatalf("expected unknown mode to fail")
	}
}
