package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeService struct {
	name    string
	startFn func(ctx context.Context) error

	mu      sync.Mutex
	stopped bool
}

func (s *fakeService) Name() string { return s.name }

func (s *fakeService) Start(ctx context.Context) error {
	if s.startFn != nil {
		return s.startFn(ctx)
	}
	<-ctx.Done()
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

func TestParseMode(t *testing.T) {
	cases := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{"", ModeAll, false},
		{" API ", ModeAPI, false},
		{"worker", ModeWorker, false},
		{"cron", "", true},
	}
	for _, tc := range cases {
		got, err := ParseMode(tc.raw)
		if (err != nil) != tc.wantErr {
			t.Fatalf("ParseMode(%q) err=%v wantErr=%v", tc.raw, err, tc.wantErr)
		}
		if got != tc.want {
			t.Fatalf("ParseMode(%q)=%q want %q", tc.raw, got, tc.want)
		}
	}
}

func TestRunnerStopsAllWhenOneServiceFails(t *testing.T) {
	boom := errors.New("listen failed")
	failing := &fakeService{name: "http", startFn: func(context.Context) error { return boom }}
	steady := &fakeService{name: "worker"}

	var order []string
	runner := NewRunner(failing, steady, nil)
	runner.OnClose("first", func() error { order = append(order, "first"); return nil })
	runner.OnClose("second", func() error { order = append(order, "second"); return errors.New("ignored") })

	err := runner.Run(context.Background(), time.Second, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("want %v got %v", boom, err)
	}
	if !failing.wasStopped() || !steady.wasStopped() {
		t.Fatalf("every service should be stopped")
	}
	if len(order) != 2 || order[0] != "second" || order[1] != "first" {
		t.Fatalf("closers should run in reverse order, got %v", order)
	}
	if names := runner.Names(); len(names) != 2 {
		t.Fatalf("nil services must be skipped, got %v", names)
	}
}

func TestRunnerCanceledContextIsCleanExit(t *testing.T) {
	svc := &fakeService{name: "http"}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := NewRunner(svc).Run(ctx, time.Second, nil); err != nil {
		t.Fatalf("canceled context should exit cleanly, got %v", err)
	}
	if !svc.wasStopped() {
		t.Fatalf("service should be stopped")
	}
}

func TestRunnerWithoutServices(t *testing.T) {
	if err := NewRunner().Run(context.Background(), time.Second, nil); err == nil {
		t.Fatalf("empty runner should fail")
	}
}
