package shutdown

import (
	"context"
	"errors"
	"sync"
	"syscall"
	"testing"
	"time"
)

func TestNewHandler(t *testing.T) {
	h := NewHandler(5 * time.Second)
	if h.timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", h.timeout)
	}

	select {
	case <-h.Done():
		t.Error("Done channel should not be closed initially")
	default:
	}
}

func TestHandler_ShutdownReverseOrder(t *testing.T) {
	h := NewHandler(time.Second)

	var (
		mu    sync.Mutex
		order []int
	)
	for i := 1; i <= 3; i++ {
		h.OnShutdown(func(ctx context.Context) error {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, i)
			return nil
		})
	}

	if err := h.Shutdown(); err != nil {
		t.Fatalf("Shutdown() error: %v", err)
	}

	if len(order) != 3 || order[0] != 3 || order[1] != 2 || order[2] != 1 {
		t.Errorf("hooks called in order %v, want [3 2 1]", order)
	}

	select {
	case <-h.Done():
	default:
		t.Error("Done channel should be closed after Shutdown")
	}
}

func TestHandler_ShutdownOnce(t *testing.T) {
	h := NewHandler(time.Second)
	calls := 0
	h.OnClose(func() error {
		calls++
		return nil
	})

	_ = h.Shutdown()
	_ = h.Shutdown()

	if calls != 1 {
		t.Errorf("hook called %d times, want 1", calls)
	}
}

func TestHandler_HookErrors(t *testing.T) {
	h := NewHandler(time.Second)
	errA := errors.New("a")
	errB := errors.New("b")

	h.OnClose(func() error { return errA })
	h.OnClose(func() error { return nil })
	h.OnClose(func() error { return errB })

	err := h.Shutdown()
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("Shutdown() error = %v, want both hook errors", err)
	}
}

func TestHandler_HookDeadline(t *testing.T) {
	h := NewHandler(50 * time.Millisecond)
	h.OnShutdown(func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); !ok {
			return errors.New("no deadline")
		}
		return nil
	})

	if err := h.Shutdown(); err != nil {
		t.Errorf("Shutdown() error: %v", err)
	}
}

func TestHandler_ContextCancelledBySignal(t *testing.T) {
	h := NewHandler(time.Second)
	ctx, stop := h.Context(context.Background())
	defer stop()

	if err := syscall.Kill(syscall.Getpid(), syscall.SIGINT); err != nil {
		t.Fatalf("kill: %v", err)
	}

	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("context was not cancelled by SIGINT")
	}
}

func TestHandler_ConcurrentOnShutdown(t *testing.T) {
	h := NewHandler(time.Second)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.OnShutdown(func(context.Context) error { return nil })
		}()
	}
	wg.Wait()

	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.hooks) != 10 {
		t.Errorf("expected 10 hooks, got %d", len(h.hooks))
	}
}
