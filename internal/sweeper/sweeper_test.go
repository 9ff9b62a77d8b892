package sweeper

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/verdantech/greenhouse-core/internal/catalog"
)

type fakeRegistry struct {
	mu     sync.Mutex
	calls  int
	result catalog.SweepResult
	gotThr time.Duration
}

func (f *fakeRegistry) SweepInactive(threshold time.Duration, _ time.Time) (catalog.SweepResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.gotThr = threshold
	return f.result, nil
}

func (f *fakeRegistry) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeRegistry) threshold() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gotThr
}

type fakeMetrics struct {
	mu     sync.Mutex
	sweeps int
}

func (f *fakeMetrics) WriteSweep(_, _ int, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sweeps++
}

func (f *fakeMetrics) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sweeps
}

func TestSweeperRunsPeriodically(t *testing.T) {
	reg := &fakeRegistry{result: catalog.SweepResult{Devices: []int{1}}}
	m := &fakeMetrics{}
	s := New(reg, 10*time.Millisecond, 80*time.Second, nil, m)

	s.Start(context.Background())
	defer s.Close()

	deadline := time.Now().Add(2 * time.Second)
	for reg.callCount() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("sweeper ran %d times, want at least 3", reg.callCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
	if reg.threshold() != 80*time.Second {
		t.Errorf("threshold = %v, want 80s", reg.gotThr)
	}
	if m.count() == 0 {
		t.Error("metrics never recorded")
	}
}

func TestSweeperCloseStopsLoop(t *testing.T) {
	reg := &fakeRegistry{}
	s := New(reg, 5*time.Millisecond, time.Minute, nil, nil)
	s.Start(context.Background())

	time.Sleep(20 * time.Millisecond)
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	calls := reg.callCount()
	time.Sleep(30 * time.Millisecond)
	if reg.callCount() != calls {
		t.Error("sweeper kept running after Close")
	}

	// Close is idempotent.
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestSweeperStopsOnContextCancel(t *testing.T) {
	reg := &fakeRegistry{}
	s := New(reg, 5*time.Millisecond, time.Minute, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	cancel()

	time.Sleep(20 * time.Millisecond)
	calls := reg.callCount()
	time.Sleep(30 * time.Millisecond)
	if reg.callCount() != calls {
		t.Error("sweeper kept running after context cancel")
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
}
