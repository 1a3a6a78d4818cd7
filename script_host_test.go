// script_host_test.go - Lua bindings for scripted gestures

package main

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestScriptHost_DrivesSynth(t *testing.T) {
	b := &fakeBackend{}
	s, sched := newTestSynth(b)
	h := NewScriptHost(s, discardLogger())

	src := `
		assert(synth.start())
		assert(synth.frequency(880))
		assert(not synth.frequency(5))
		assert(synth.waveform("saw"))
		assert(synth.amplitude(0.5))
		assert(synth.attenuation(0.25))
		local st = synth.state()
		assert(st.frequency == 880, "frequency")
		assert(st.waveform == "sawtooth", "waveform")
		assert(st.playing == true, "playing")
		assert(st.voice == false, "voice pending restart")
		assert(#synth.buffer() == 1024, "buffer length")
	`
	if err := h.Exec(context.Background(), "drive", src); err != nil {
		t.Fatalf("script failed: %v", err)
	}
	sched.fire()
	if k := b.lastOscillator().Kind(); k != WaveSawtooth {
		t.Fatalf("expected sawtooth voice after restart, got %v", k)
	}
	p := s.State()
	if p.Amplitude != 0.5 || p.Attenuation != 0.25 {
		t.Fatalf("unexpected parameters: %+v", p)
	}
}

func TestScriptHost_Drag(t *testing.T) {
	s, _ := newTestSynth(&fakeBackend{})
	h := NewScriptHost(s, discardLogger())
	if err := h.Exec(context.Background(), "drag", `assert(synth.drag(0, 640))`); err != nil {
		t.Fatalf("script failed: %v", err)
	}
	if f := s.State().Frequency; f != MIN_FREQUENCY {
		t.Fatalf("expected left edge to map to 20 Hz, got %v", f)
	}
	if err := h.Exec(context.Background(), "drag", `assert(not synth.drag(10, 0))`); err != nil {
		t.Fatalf("script failed: %v", err)
	}
}

func TestScriptHost_ReportsStartFailure(t *testing.T) {
	s, _ := newTestSynth(&fakeBackend{oscErr: errors.New("no device")})
	h := NewScriptHost(s, discardLogger())
	src := `
		local ok, err = synth.start()
		assert(ok == false)
		assert(string.find(err, "no device"))
	`
	if err := h.Exec(context.Background(), "fail", src); err != nil {
		t.Fatalf("script failed: %v", err)
	}
}

func TestScriptHost_BadWaveformIsScriptError(t *testing.T) {
	s, _ := newTestSynth(&fakeBackend{})
	h := NewScriptHost(s, discardLogger())
	err := h.Exec(context.Background(), "bad", `synth.waveform("noise")`)
	if err == nil || !strings.Contains(err.Error(), "unknown waveform") {
		t.Fatalf("expected waveform argument error, got %v", err)
	}
}

func TestScriptHost_SleepHonoursCancel(t *testing.T) {
	s, _ := newTestSynth(&fakeBackend{})
	h := NewScriptHost(s, discardLogger())
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := h.Exec(ctx, "sleep", `synth.sleep(10000)`)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Fatal("expected sleep to be interrupted")
	}
}
