package fuse

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestHost_FlushCoalescesRenders(t *testing.T) {
	renders := 0
	host := NewHost(func() { renders++ })
	state := New[int](WithInitial(0), WithNotify[int](host.Invalidate))

	for i := 0; i < 5; i++ {
		if err := host.Dispatch(func() {
			state.Update(func(prev Maybe[int]) int { return prev.Or(0) + 1 })
		}); err != nil {
			t.Fatalf("Dispatch failed: %v", err)
		}
	}

	if ran := host.Flush(); ran != 5 {
		t.Errorf("expected 5 tasks, got %d", ran)
	}
	if renders != 1 {
		t.Errorf("expected 1 render, got %d", renders)
	}
	if host.Renders() != 1 {
		t.Errorf("expected Renders() 1, got %d", host.Renders())
	}
	if v := state.ValueOr(-1); v != 5 {
		t.Errorf("expected 5, got %d", v)
	}
}

func TestHost_NoRenderWithoutInvalidate(t *testing.T) {
	renders := 0
	host := NewHost(func() { renders++ })
	state := New[int](WithInitial(1), WithNotify[int](host.Invalidate))

	_ = host.Dispatch(func() { state.Set(1) })
	host.Flush()

	if renders != 0 {
		t.Errorf("expected no render for an equal write, got %d", renders)
	}
}

func TestHost_RenderInvalidatesAgain(t *testing.T) {
	var host *Host
	renders := 0
	host = NewHost(func() {
		renders++
		if renders < 3 {
			host.Invalidate()
		}
	})

	_ = host.Dispatch(host.Invalidate)
	host.Flush()

	if renders != 3 {
		t.Errorf("expected 3 passes, got %d", renders)
	}
}

func TestHost_RenderPassesBounded(t *testing.T) {
	var host *Host
	host = NewHost(func() { host.Invalidate() })

	_ = host.Dispatch(host.Invalidate)
	host.Flush()

	if host.Renders() != maxRenderPasses {
		t.Errorf("expected %d renders, got %d", maxRenderPasses, host.Renders())
	}
}

func TestHost_Metrics(t *testing.T) {
	metrics := &recordingMetrics{}
	host := NewHost(nil).Metrics(metrics)

	_ = host.Dispatch(func() {})
	_ = host.Dispatch(host.Invalidate)
	host.Flush()

	if len(metrics.renders) != 1 || metrics.renders[0] != 2 {
		t.Errorf("expected one render after 2 tasks, got %v", metrics.renders)
	}
}

func TestHost_Run(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var renders atomic.Int32
	host := NewHost(func() { renders.Add(1) })

	done := make(chan error, 1)
	go func() { done <- host.Run(ctx) }()

	result := make(chan int, 1)
	state := New[int](WithInitial(0), WithNotify[int](host.Invalidate))
	if err := host.Dispatch(func() { state.Set(3) }); err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if err := host.Dispatch(func() { result <- state.ValueOr(-1) }); err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}

	select {
	case v := <-result:
		if v != 3 {
			t.Errorf("expected 3, got %d", v)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for host")
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for Run to return")
	}

	if renders.Load() < 1 {
		t.Error("expected at least one render")
	}
	if err := host.Dispatch(func() {}); !errors.Is(err, ErrHostStopped) {
		t.Errorf("expected ErrHostStopped, got %v", err)
	}
}

func TestHost_RunTwice(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	host := NewHost(nil)

	done := make(chan error, 1)
	go func() { done <- host.Run(ctx) }()

	// Wait for the first Run to claim the host
	deadline := time.Now().Add(time.Second)
	var err error
	for time.Now().Before(deadline) {
		host.mu.Lock()
		started := host.started
		host.mu.Unlock()
		if started {
			err = host.Run(ctx)
			break
		}
		time.Sleep(time.Millisecond)
	}
	if !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("expected ErrAlreadyStarted, got %v", err)
	}

	cancel()
	<-done
}

func TestHost_QueueSize(t *testing.T) {
	host := NewHost(nil).QueueSize(2)
	if cap(host.tasks) != 2 {
		t.Errorf("expected capacity 2, got %d", cap(host.tasks))
	}
	host.QueueSize(0)
	if cap(host.tasks) != 2 {
		t.Errorf("expected non-positive size to be ignored, got %d", cap(host.tasks))
	}
}

func TestHost_DispatchContextGivesUpOnFullQueue(t *testing.T) {
	host := NewHost(nil).QueueSize(1)
	if err := host.Dispatch(func() {}); err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if host.Pending() != 1 {
		t.Fatalf("expected 1 pending task, got %d", host.Pending())
	}

	ctx, cancel := context.WithCancel(context.Background())
	result := make(chan error, 1)
	go func() { result <- host.DispatchContext(ctx, func() {}) }()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-result:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("DispatchContext did not return after cancel")
	}

	if ran := host.Flush(); ran != 1 {
		t.Errorf("expected only the first task queued, got %d", ran)
	}
}

func TestHost_DispatchContextAfterStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	host := NewHost(nil)
	done := make(chan error, 1)
	go func() { done <- host.Run(ctx) }()
	cancel()
	<-done

	if err := host.DispatchContext(context.Background(), func() {}); !errors.Is(err, ErrHostStopped) {
		t.Errorf("expected ErrHostStopped, got %v", err)
	}
}
