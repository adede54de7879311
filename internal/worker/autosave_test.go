package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

type countingWriter struct {
	saves atomic.Int32
}

func (c *countingWriter) SaveSnapshot(context.Context) error {
	c.saves.Add(1)
	return nil
}

func TestAutosaveSavesOnCancel(t *testing.T) {
	writer := &countingWriter{}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		Autosave(ctx, writer, time.Hour)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("autosave did not stop after cancel")
	}

	if got := writer.saves.Load(); got != 1 {
		t.Fatalf("saves = %d, want final save only", got)
	}
}

func TestAutosaveTicks(t *testing.T) {
	writer := &countingWriter{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		Autosave(ctx, writer, 10*time.Millisecond)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for writer.saves.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-done

	if writer.saves.Load() < 2 {
		t.Fatalf("expected periodic saves, got %d", writer.saves.Load())
	}
}
