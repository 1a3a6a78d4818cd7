package main

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestApplyAction_TogglePlay(t *testing.T) {
	b := &fakeBackend{}
	s, _ := newTestSynth(b)
	ctx := context.Background()

	if err := applyAction(ctx, s, actionTogglePlay); err != nil {
		t.Fatalf("toggle on failed: %v", err)
	}
	if !s.Running() {
		t.Fatal("expected Running after first toggle")
	}
	if err := applyAction(ctx, s, actionTogglePlay); err != nil {
		t.Fatalf("toggle off failed: %v", err)
	}
	if s.Running() {
		t.Fatal("expected Idle after second toggle")
	}
}

func TestApplyAction_Parameters(t *testing.T) {
	s, _ := newTestSynth(&fakeBackend{})
	ctx := context.Background()

	steps := []controlAction{
		actionTriangle,
		actionAmplitudeUp,
		actionAttenuationDown,
		actionOctaveUp,
		actionSemitoneUp,
		actionSemitoneDown,
	}
	for _, a := range steps {
		if err := applyAction(ctx, s, a); err != nil {
			t.Fatalf("%s failed: %v", a, err)
		}
	}
	p := s.State()
	if p.Waveform != WaveTriangle {
		t.Errorf("expected triangle, got %v", p.Waveform)
	}
	if math.Abs(p.Amplitude-(DEFAULT_AMPLITUDE+PARAM_STEP)) > 1e-9 {
		t.Errorf("unexpected amplitude %v", p.Amplitude)
	}
	if math.Abs(p.Attenuation-(DEFAULT_ATTENUATION-PARAM_STEP)) > 1e-9 {
		t.Errorf("unexpected attenuation %v", p.Attenuation)
	}
	if math.Abs(p.Frequency-2*DEFAULT_FREQUENCY) > 1e-6 {
		t.Errorf("expected one octave up, got %v", p.Frequency)
	}

	if err := applyAction(ctx, s, actionReset); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if got := s.State(); got != DefaultParameters() {
		t.Errorf("expected defaults after reset, got %+v", got)
	}
}

func TestApplyAction_AmplitudeSaturates(t *testing.T) {
	s, _ := newTestSynth(&fakeBackend{})
	ctx := context.Background()
	for n := 0; n < 40; n++ {
		_ = applyAction(ctx, s, actionAmplitudeUp)
	}
	if a := s.State().Amplitude; a != 1 {
		t.Fatalf("expected amplitude to stop at 1, got %v", a)
	}
	for n := 0; n < 40; n++ {
		_ = applyAction(ctx, s, actionAmplitudeDown)
	}
	if a := s.State().Amplitude; a != 0 {
		t.Fatalf("expected amplitude to stop at 0, got %v", a)
	}
}

func TestApplyAction_ResumeFailureNotFatal(t *testing.T) {
	s, _ := newTestSynth(&fakeBackend{resumeErr: context.DeadlineExceeded, suspended: true})
	if err := applyAction(context.Background(), s, actionTogglePlay); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.VoiceActive() {
		t.Fatal("expected voice despite failed resume")
	}
}

func TestApplyAction_StartFailureReturned(t *testing.T) {
	s, _ := newTestSynth(&fakeBackend{gainErr: errors.New("no gain")})
	if err := applyAction(context.Background(), s, actionTogglePlay); err == nil {
		t.Fatal("expected start error")
	}
	if s.Running() {
		t.Fatal("expected Idle after failed start")
	}
}

func TestTerminalKeyAction(t *testing.T) {
	tests := []struct {
		key  byte
		want controlAction
	}{
		{' ', actionTogglePlay},
		{'\r', actionTogglePlay},
		{'1', actionSine},
		{'2', actionSquare},
		{'3', actionSawtooth},
		{'4', actionTriangle},
		{'+', actionAmplitudeUp},
		{'-', actionAmplitudeDown},
		{'.', actionSemitoneUp},
		{',', actionSemitoneDown},
		{'o', actionOctaveUp},
		{'O', actionOctaveDown},
		{']', actionAttenuationUp},
		{'[', actionAttenuationDown},
		{'r', actionReset},
		{'q', actionQuit},
		{0x03, actionQuit},
		{0x1b, actionNone},
		{'x', actionNone},
	}
	for _, tt := range tests {
		if got := terminalKeyAction(tt.key); got != tt.want {
			t.Errorf("key %q: got %s, want %s", tt.key, got, tt.want)
		}
	}
}

func TestControlActionString(t *testing.T) {
	if actionQuit.String() != "quit" {
		t.Fatalf("unexpected name %q", actionQuit.String())
	}
	if got := controlAction(99).String(); got != "controlAction(99)" {
		t.Fatalf("unexpected fallback %q", got)
	}
}
