package main

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestRuntimeStatus_TracksEvents(t *testing.T) {
	b := &fakeBackend{}
	s, sched := newTestSynth(b)
	status := newRuntimeStatusStore(b.Name(), s.State())
	detach := status.attach(s)
	defer detach()

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	s.SetWaveform(WaveTriangle)
	sched.fire()
	s.SetFrequency(1)

	snap := status.snapshot()
	if snap.state != StateRunning || snap.params.Waveform != WaveTriangle {
		t.Fatalf("expected running triangle, got %v %v", snap.state, snap.params.Waveform)
	}
	if snap.restarts != 1 || snap.rejected != 1 {
		t.Fatalf("expected 1 restart and 1 rejection, got %d and %d", snap.restarts, snap.rejected)
	}
	line := snap.statusLine()
	for _, want := range []string{"fake", "running", "triangle", "440.0 Hz", "restarts 1", "rejected 1"} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in status line %q", want, line)
		}
	}

	status.Reset()
	snap = status.snapshot()
	if snap.restarts != 0 || snap.rejected != 0 || snap.params.Waveform != WaveTriangle {
		t.Fatal("expected counters cleared and parameters kept")
	}
}

func TestRuntimeStatus_RecordsStartFailure(t *testing.T) {
	b := &fakeBackend{oscErr: errors.New("no device")}
	s, _ := newTestSynth(b)
	status := newRuntimeStatusStore(b.Name(), s.State())
	status.attach(s)

	_ = s.Start(context.Background())
	snap := status.snapshot()
	if snap.startFailures != 1 || snap.lastErr == nil {
		t.Fatal("expected start failure recorded")
	}
	if !strings.Contains(snap.statusLine(), "no device") {
		t.Fatalf("expected error in status line, got %q", snap.statusLine())
	}
}

func TestRuntimeStatus_SynthResetClearsCounters(t *testing.T) {
	s, _ := newTestSynth(&fakeBackend{})
	status := newRuntimeStatusStore("fake", s.State())
	defer status.attach(s)()

	s.SetAmplitude(2)
	if status.snapshot().rejected != 1 {
		t.Fatal("expected rejection counted")
	}
	s.SetWaveform(WaveSquare)
	s.Reset()
	snap := status.snapshot()
	if snap.rejected != 0 {
		t.Fatalf("expected counters cleared by reset, got %d", snap.rejected)
	}
	if snap.params != DefaultParameters() {
		t.Fatalf("expected default parameters, got %+v", snap.params)
	}
}

func TestRuntimeStatus_IgnoresOlderEvents(t *testing.T) {
	status := newRuntimeStatusStore("fake", DefaultParameters())
	newer := DefaultParameters()
	newer.Frequency = 880
	older := DefaultParameters()

	status.observe(SynthEvent{Kind: EventParamsChanged, Seq: 5, To: StateRunning, New: newer})
	status.observe(SynthEvent{Kind: EventVoiceRestarted, Seq: 4, To: StateRunning, New: older})

	snap := status.snapshot()
	if snap.params.Frequency != 880 || snap.restarts != 0 {
		t.Fatalf("expected stale event ignored, got %v Hz and %d restarts", snap.params.Frequency, snap.restarts)
	}
}
