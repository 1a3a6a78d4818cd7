// synth_animator_test.go - Animation loop start/stop and event binding

package main

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for condition")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestAnimator_NoFramesAfterStop(t *testing.T) {
	s, _ := newTestSynth(&fakeBackend{})
	var frames atomic.Int64
	a := NewAnimator(s, time.Millisecond, func(VisualizationBuffer) { frames.Add(1) })

	a.Start()
	a.Start()
	waitFor(t, func() bool { return frames.Load() >= 3 })
	a.Stop()
	after := frames.Load()
	time.Sleep(20 * time.Millisecond)
	if got := frames.Load(); got != after {
		t.Fatalf("expected no frames after Stop, got %d more", got-after)
	}
	if a.Active() {
		t.Fatal("expected animator inactive")
	}
	a.Stop()
}

func TestBindAnimator_FollowsSessionState(t *testing.T) {
	s, _ := newTestSynth(&fakeBackend{})
	var frames atomic.Int64
	a := NewAnimator(s, time.Millisecond, func(VisualizationBuffer) { frames.Add(1) })
	unbind := BindAnimator(s, a)
	defer unbind()

	if a.Active() {
		t.Fatal("expected animator idle before start")
	}
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !a.Active() {
		t.Fatal("expected animator running after start")
	}
	waitFor(t, func() bool { return frames.Load() > 0 })

	s.Stop()
	if a.Active() {
		t.Fatal("expected animator stopped synchronously with the synth")
	}
	after := frames.Load()
	time.Sleep(10 * time.Millisecond)
	if frames.Load() != after {
		t.Fatal("expected no ticks after stop")
	}
}

// A failed restart's Idle transition that is still being delivered must not
// stop the animator after a later Start has succeeded.
func TestBindAnimator_FailedRestartThenStart(t *testing.T) {
	b := &fakeBackend{}
	s, sched := newTestSynth(b)

	held := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	s.Subscribe(func(ev SynthEvent) {
		if ev.Kind == EventStartFailed {
			once.Do(func() {
				close(held)
				<-release
			})
		}
	})

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	a := NewAnimator(s, time.Millisecond, nil)
	unbind := BindAnimator(s, a)
	defer unbind()

	b.mu.Lock()
	b.oscErr = errors.New("device lost")
	b.mu.Unlock()
	s.SetWaveform(WaveSawtooth)

	fired := make(chan struct{})
	go func() {
		sched.fire()
		close(fired)
	}()
	<-held

	b.mu.Lock()
	b.oscErr = nil
	b.mu.Unlock()
	started := make(chan error, 1)
	go func() { started <- s.Start(context.Background()) }()

	close(release)
	<-fired
	if err := <-started; err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !s.Running() {
		t.Fatal("expected Running after the second start")
	}
	if !a.Active() {
		t.Fatal("expected animator active while the synth is Running")
	}
}
