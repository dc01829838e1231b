package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// hold takes n slots and returns a func that releases them.
func hold(t *testing.T, l *UploadLimiter, n int) func() {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := l.Acquire(context.Background()); err != nil {
			t.Fatalf("Acquire %d: %v", i, err)
		}
	}
	return func() {
		for i := 0; i < n; i++ {
			l.Release()
		}
	}
}

func TestUploadLimiterStatus(t *testing.T) {
	tests := []struct {
		name string
		max  int
		held int
		want LimiterStatus
	}{
		{"idle", 3, 0, LimiterStatus{Active: 0, Available: 3, MaxConcurrent: 3}},
		{"partly busy", 3, 2, LimiterStatus{Active: 2, Available: 1, MaxConcurrent: 3}},
		{"full", 2, 2, LimiterStatus{Active: 2, Available: 0, MaxConcurrent: 2}},
		{"default size", 0, 1, LimiterStatus{Active: 1, Available: defaultMaxConcurrent - 1, MaxConcurrent: defaultMaxConcurrent}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewUploadLimiter(tt.max, time.Second)
			release := hold(t, l, tt.held)
			if got := l.Status(); got != tt.want {
				t.Errorf("Status() = %+v, want %+v", got, tt.want)
			}
			release()
			if got := l.Status(); got.Active != 0 || got.Available != got.MaxConcurrent {
				t.Errorf("after release Status() = %+v", got)
			}
		})
	}
}

func TestUploadLimiterDefaultWait(t *testing.T) {
	if l := NewUploadLimiter(1, 0); l.maxWait != defaultMaxWait {
		t.Errorf("maxWait = %v, want %v", l.maxWait, defaultMaxWait)
	}
}

func TestUploadLimiterAcquireWhenFull(t *testing.T) {
	tests := []struct {
		name    string
		ctx     func() (context.Context, context.CancelFunc)
		wantErr error
	}{
		{
			name:    "wait expires",
			ctx:     func() (context.Context, context.CancelFunc) { return context.Background(), func() {} },
			wantErr: ErrTooManyUploads,
		},
		{
			name:    "caller cancelled",
			ctx:     func() (context.Context, context.CancelFunc) { return context.WithCancel(context.Background()) },
			wantErr: context.Canceled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewUploadLimiter(1, 50*time.Millisecond)
			defer hold(t, l, 1)()

			ctx, cancel := tt.ctx()
			if tt.wantErr == context.Canceled {
				cancel()
			}
			defer cancel()

			err := l.Acquire(ctx)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Acquire() = %v, want %v", err, tt.wantErr)
			}
			if got := l.Status().Active; got != 1 {
				t.Errorf("failed Acquire changed Active to %d", got)
			}
		})
	}
}

func TestUploadLimiterReleaseWakesWaiter(t *testing.T) {
	l := NewUploadLimiter(1, time.Second)
	release := hold(t, l, 1)

	got := make(chan error, 1)
	go func() { got <- l.Acquire(context.Background()) }()

	time.Sleep(20 * time.Millisecond)
	release()

	select {
	case err := <-got:
		if err != nil {
			t.Fatalf("waiting Acquire = %v", err)
		}
		l.Release()
	case <-time.After(500 * time.Millisecond):
		t.Fatal("waiter not woken by Release")
	}
}

func TestUploadLimiterNeverExceedsMax(t *testing.T) {
	const limit = 3
	l := NewUploadLimiter(limit, time.Second)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		peak int
	)
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := l.Acquire(context.Background()); err != nil {
				t.Errorf("Acquire: %v", err)
				return
			}
			defer l.Release()
			mu.Lock()
			peak = max(peak, l.Status().Active)
			mu.Unlock()
			time.Sleep(5 * time.Millisecond)
		}()
	}
	wg.Wait()

	if peak > limit {
		t.Errorf("peak Active = %d, limit %d", peak, limit)
	}
	if got := l.Status().Active; got != 0 {
		t.Errorf("Active after all released = %d", got)
	}
}

func TestUploadLimiterWaitForDrain(t *testing.T) {
	tests := []struct {
		name        string
		held        int
		cancelDrain bool
		releaseLate bool
		want        error
	}{
		{"idle returns even with dead context", 0, true, false, nil},
		{"waits for running batches", 2, false, true, nil},
		{"gives up when context ends", 1, true, false, context.Canceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewUploadLimiter(2, time.Second)
			release := hold(t, l, tt.held)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			if tt.cancelDrain {
				cancel()
			}

			done := make(chan error, 1)
			go func() { done <- l.WaitForDrain(ctx) }()

			if tt.releaseLate {
				select {
				case <-done:
					t.Fatal("WaitForDrain returned while batches were running")
				case <-time.After(3 * drainPollInterval):
				}
				release()
			}

			select {
			case err := <-done:
				if !errors.Is(err, tt.want) {
					t.Errorf("WaitForDrain() = %v, want %v", err, tt.want)
				}
			case <-time.After(time.Second):
				t.Fatal("WaitForDrain did not return")
			}
			if !tt.releaseLate {
				release()
			}
		})
	}
}
