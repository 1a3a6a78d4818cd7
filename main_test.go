package main

import (
	"errors"
	"flag"
	"strings"
	"testing"
	"time"
)

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := parseConfig(nil)
	if err != nil {
		t.Fatalf("parseConfig failed: %v", err)
	}
	if cfg.Backend != BACKEND_AUTO || cfg.Frontend != FRONTEND_EBITEN {
		t.Fatalf("unexpected selection %s/%s", cfg.Backend, cfg.Frontend)
	}
	if cfg.Initial != DefaultParameters() {
		t.Fatalf("expected default parameters, got %+v", cfg.Initial)
	}
	if cfg.Display.Width != DEFAULT_WIDTH || cfg.Display.Height != DEFAULT_HEIGHT {
		t.Fatalf("unexpected window %dx%d", cfg.Display.Width, cfg.Display.Height)
	}
	if cfg.Debounce != RESTART_DEBOUNCE || cfg.SampleRate != SAMPLE_RATE {
		t.Fatalf("unexpected timing %v/%d", cfg.Debounce, cfg.SampleRate)
	}
}

func TestParseConfig_Initial(t *testing.T) {
	cfg, err := parseConfig([]string{
		"-waveform", "square", "-frequency", "1000",
		"-amplitude", "0.8", "-attenuation", "0", "-debounce", "50ms",
	})
	if err != nil {
		t.Fatalf("parseConfig failed: %v", err)
	}
	want := ParameterState{Frequency: 1000, Waveform: WaveSquare, Amplitude: 0.8}
	if cfg.Initial != want {
		t.Fatalf("got %+v, want %+v", cfg.Initial, want)
	}
	if cfg.Debounce != 50*time.Millisecond {
		t.Fatalf("unexpected debounce %v", cfg.Debounce)
	}

	opts := cfg.SynthOptions(discardLogger())
	if opts.Initial == nil || *opts.Initial != want {
		t.Fatalf("expected options to carry initial parameters, got %+v", opts.Initial)
	}
	if opts.Debounce != cfg.Debounce || opts.TapMinSamples != TAP_MIN_SAMPLES {
		t.Fatalf("unexpected options %+v", opts)
	}
}

func TestParseConfig_ScriptImpliesFrontend(t *testing.T) {
	cfg, err := parseConfig([]string{"-script", "sweep.lua"})
	if err != nil {
		t.Fatalf("parseConfig failed: %v", err)
	}
	if cfg.Frontend != FRONTEND_SCRIPT {
		t.Fatalf("expected script frontend, got %s", cfg.Frontend)
	}

	cfg, err = parseConfig([]string{"-script", "sweep.lua", "-frontend", "terminal"})
	if err != nil {
		t.Fatalf("parseConfig failed: %v", err)
	}
	if cfg.Frontend != FRONTEND_TERMINAL {
		t.Fatalf("expected explicit frontend to win, got %s", cfg.Frontend)
	}
}

func TestParseConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"backend", []string{"-backend", "alsa"}, "unknown backend"},
		{"frontend", []string{"-frontend", "gtk"}, "unknown frontend"},
		{"script missing", []string{"-frontend", "script"}, "requires -script"},
		{"log level", []string{"-log-level", "loud"}, "log level"},
		{"width alone", []string{"-width", "800"}, "given together"},
		{"short window", []string{"-width", "800", "-height", "10"}, "window size"},
		{"sample rate", []string{"-sample-rate", "0"}, "sample rate"},
		{"debounce", []string{"-debounce", "0s"}, "debounce"},
		{"tap threshold", []string{"-tap-threshold", "2000"}, "tap threshold"},
		{"waveform", []string{"-waveform", "noise"}, "unknown waveform"},
		{"frequency", []string{"-frequency", "19"}, "frequency"},
		{"amplitude", []string{"-amplitude", "1.5"}, "amplitude"},
		{"attenuation", []string{"-attenuation", "-1"}, "attenuation"},
		{"positional", []string{"extra"}, "unexpected argument"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseConfig(tt.args)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestParseConfig_Help(t *testing.T) {
	if _, err := parseConfig([]string{"-h"}); !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("expected flag.ErrHelp, got %v", err)
	}
}

func TestPrintUsage(t *testing.T) {
	var sb strings.Builder
	printUsage(&sb)
	for _, want := range []string{"Usage:", "-backend", "-waveform", "-debounce"} {
		if !strings.Contains(sb.String(), want) {
			t.Errorf("usage missing %q", want)
		}
	}
}

func TestSelectBackend_Offline(t *testing.T) {
	cfg, err := parseConfig([]string{"-backend", "offline"})
	if err != nil {
		t.Fatalf("parseConfig failed: %v", err)
	}
	b, err := selectBackend(cfg, discardLogger())
	if err != nil {
		t.Fatalf("selectBackend failed: %v", err)
	}
	defer b.Close()
	if b.Name() != "offline" {
		t.Fatalf("expected offline backend, got %s", b.Name())
	}
}

func TestNewFrontend_Unknown(t *testing.T) {
	_, err := NewFrontend(&Config{Frontend: "gtk"}, frontendDeps{})
	var verr *VideoError
	if !errors.As(err, &verr) {
		t.Fatalf("expected VideoError, got %v", err)
	}
}
