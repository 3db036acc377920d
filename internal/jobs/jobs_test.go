package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"
)

type stubExpirer struct {
	mu    sync.Mutex
	calls int
	n     int
	err   error
	ctxOK bool
}

func (s *stubExpirer) ExpireLapsed(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	_, s.ctxOK = ctx.Deadline()
	return s.n, s.err
}

func (s *stubExpirer) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSubscriptionExpiryJobRun(t *testing.T) {
	tests := []struct {
		name string
		n    int
		err  error
	}{
		{"expires", 3, nil},
		{"nothing lapsed", 0, nil},
		{"store failure is logged", 0, errors.New("db down")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubExpirer{n: tt.n, err: tt.err}
			NewSubscriptionExpiryJob(stub, testLogger()).Run()
			if stub.Calls() != 1 {
				t.Errorf("ExpireLapsed called %d times, want 1", stub.Calls())
			}
			if !stub.ctxOK {
				t.Error("job context has no deadline")
			}
		})
	}
}

func TestSchedulerRegister(t *testing.T) {
	s := NewScheduler(testLogger())
	job := NewSubscriptionExpiryJob(&stubExpirer{}, testLogger())

	for _, spec := range []string{"@daily", "0 3 * * *", "@every 1h"} {
		if err := s.Register("expiry", spec, job); err != nil {
			t.Errorf("Register(%q) error = %v", spec, err)
		}
	}
	if err := s.Register("expiry", "not a spec", job); err == nil {
		t.Error("Register() accepted an invalid spec")
	}
	if got := len(s.cron.Entries()); got != 3 {
		t.Errorf("entries = %d, want 3", got)
	}
}

func TestSchedulerRunsJobs(t *testing.T) {
	s := NewScheduler(testLogger())
	stub := &stubExpirer{}
	if err := s.Register("expiry", "@every 1s", NewSubscriptionExpiryJob(stub, testLogger())); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	s.Start()

	deadline := time.Now().Add(3 * time.Second)
	for stub.Calls() == 0 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if stub.Calls() == 0 {
		t.Error("job never ran")
	}
}
