package semaphore

import (
	"context"
	"testing"
	"time"
)

func TestSemaphoreBoundsConcurrency(t *testing.T) {
	sem := New(2)
	ctx := context.Background()

	if err := sem.P(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := sem.P(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx2, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	if err := sem.P(ctx2); err == nil {
		t.Fatal("expected P to block and time out once the slots are held")
	}

	sem.V()
	if err := sem.P(ctx); err != nil {
		t.Fatalf("unexpected error after release: %v", err)
	}
}

func TestSemaphoreUnboundedWhenSizeIsZero(t *testing.T) {
	sem := New(0)
	ctx := context.Background()
	for i := 0; i < 100; i++ {
		if err := sem.P(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	sem.V() // must not panic on an unbounded semaphore
}

func TestSemaphoreVWithoutPPanics(t *testing.T) {
	sem := New(1)
	defer func() {
		if recover() == nil {
			t.Fatal("expected V without a matching P to panic")
		}
	}()
	sem.V()
}
