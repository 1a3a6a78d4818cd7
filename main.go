// main.go - Intuition Sweep entry point: flags, backend selection and wiring

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func boilerPlate() {
	fmt.Println("\n\033[38;2;255;20;147m ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████\033[0m\n\033[38;2;255;50;147m▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀\033[0m\n\033[38;2;255;80;147m▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███\033[0m\n\033[38;2;255;110;147m░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄\033[0m\n\033[38;2;255;140;147m░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒\033[0m\n\033[38;2;255;170;147m░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░\033[0m\n\033[38;2;255;200;147m ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░\033[0m\n\033[38;2;255;230;147m ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░\033[0m\n\033[38;2;255;255;147m ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░\033[0m")
	fmt.Println("\nIntuition Sweep: drag to sweep a single oscillator from 20 Hz to 20 kHz.")
	fmt.Println("(c) 2024 - 2026 Zayn Otley")
	fmt.Println("https://github.com/IntuitionAmiga/IntuitionSweep")
	fmt.Println("Buy me a coffee: https://ko-fi.com/intuition/tip")
	fmt.Println("License: GPLv3 or later")
}

// Audio backends accepted by -backend
const (
	BACKEND_AUTO    = "auto"
	BACKEND_OTO     = "oto"
	BACKEND_OFFLINE = "offline"
	BACKEND_ALSA    = "alsa"
)

type Config struct {
	Backend      string
	Frontend     string
	Script       string
	LogLevel     string
	Display      DisplayConfig
	SampleRate   int
	Debounce     time.Duration
	TapThreshold int
	TapSize      int
	Initial      ParameterState
	Autoplay     bool
	ShowFeatures bool
}

type configFlags struct {
	cfg         Config
	waveform    string
	frequency   float64
	amplitude   float64
	attenuation float64
}

func newFlagSet(name string, f *configFlags) *flag.FlagSet {
	def := DefaultParameters()
	disp := DefaultDisplayConfig()

	flagSet := flag.NewFlagSet(name, flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVar(&f.cfg.Backend, "backend", BACKEND_AUTO, "Audio backend: auto, oto, alsa or offline")
	flagSet.StringVar(&f.cfg.Frontend, "frontend", FRONTEND_EBITEN, "Frontend: ebiten, terminal or script")
	flagSet.StringVar(&f.cfg.Script, "script", "", "Lua script driving the synth (implies -frontend script)")
	flagSet.StringVar(&f.cfg.LogLevel, "log-level", "info", "Log level: debug, info, warn or error")
	flagSet.IntVar(&f.cfg.Display.Width, "width", disp.Width, "Window width in pixels")
	flagSet.IntVar(&f.cfg.Display.Height, "height", disp.Height, "Window height in pixels")
	flagSet.BoolVar(&f.cfg.Display.Fullscreen, "fullscreen", false, "Start fullscreen")
	flagSet.IntVar(&f.cfg.SampleRate, "sample-rate", SAMPLE_RATE, "Output sample rate in Hz")
	flagSet.DurationVar(&f.cfg.Debounce, "debounce", RESTART_DEBOUNCE, "Waveform restart debounce window")
	flagSet.IntVar(&f.cfg.TapThreshold, "tap-threshold", TAP_MIN_SAMPLES, "Live samples needed before the trace uses the tap")
	flagSet.IntVar(&f.cfg.TapSize, "tap-size", TAP_SIZE, "Live analysis window in samples")
	flagSet.Float64Var(&f.frequency, "frequency", def.Frequency, "Initial frequency in Hz")
	flagSet.StringVar(&f.waveform, "waveform", def.Waveform.String(), "Initial waveform: sine, square, sawtooth or triangle")
	flagSet.Float64Var(&f.amplitude, "amplitude", def.Amplitude, "Initial amplitude 0..1")
	flagSet.Float64Var(&f.attenuation, "attenuation", def.Attenuation, "Initial high-frequency attenuation 0..1")
	flagSet.BoolVar(&f.cfg.Autoplay, "autoplay", false, "Start the voice immediately")
	flagSet.BoolVar(&f.cfg.ShowFeatures, "features", false, "Print compiled features and exit")
	return flagSet
}

// parseConfig parses command-line arguments (without the program name).
// flag.ErrHelp is returned unchanged for -h.
func parseConfig(args []string) (*Config, error) {
	var f configFlags
	flagSet := newFlagSet("intuition_sweep", &f)
	if err := flagSet.Parse(args); err != nil {
		return nil, err
	}
	if flagSet.NArg() > 0 {
		return nil, fmt.Errorf("unexpected argument: %s", flagSet.Arg(0))
	}
	set := map[string]bool{}
	flagSet.Visit(func(fl *flag.Flag) { set[fl.Name] = true })

	cfg := f.cfg
	cfg.Display.Title = DefaultDisplayConfig().Title
	cfg.Display.ShowStatus = true

	switch cfg.Backend {
	case BACKEND_AUTO, BACKEND_OTO, BACKEND_ALSA, BACKEND_OFFLINE:
	default:
		return nil, fmt.Errorf("unknown backend: %q", cfg.Backend)
	}
	if cfg.Script != "" && !set["frontend"] {
		cfg.Frontend = FRONTEND_SCRIPT
	}
	switch cfg.Frontend {
	case FRONTEND_EBITEN, FRONTEND_TERMINAL:
	case FRONTEND_SCRIPT:
		if cfg.Script == "" {
			return nil, errors.New("-frontend script requires -script")
		}
	default:
		return nil, fmt.Errorf("unknown frontend: %q", cfg.Frontend)
	}
	if _, err := ResolveLogLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	if set["width"] != set["height"] {
		return nil, errors.New("-width and -height must be given together")
	}
	if cfg.Display.Width <= 0 || cfg.Display.Height <= MIN_DISPLAY_HEIGHT {
		return nil, fmt.Errorf("invalid window size %dx%d", cfg.Display.Width, cfg.Display.Height)
	}
	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate: %d", cfg.SampleRate)
	}
	if cfg.Debounce <= 0 {
		return nil, fmt.Errorf("invalid debounce: %v", cfg.Debounce)
	}
	if cfg.TapThreshold <= 0 || cfg.TapThreshold > VIS_BUFFER_LEN {
		return nil, fmt.Errorf("tap threshold must be in 1..%d, got %d", VIS_BUFFER_LEN, cfg.TapThreshold)
	}
	if cfg.TapSize <= 0 {
		return nil, fmt.Errorf("invalid tap size: %d", cfg.TapSize)
	}

	kind, err := ParseWaveformKind(f.waveform)
	if err != nil {
		return nil, err
	}
	if !validFrequency(f.frequency) {
		return nil, fmt.Errorf("%w: frequency %g outside %g..%g Hz", ErrInvalidParameter, f.frequency, MIN_FREQUENCY, MAX_FREQUENCY)
	}
	if !isFinite(f.amplitude) || f.amplitude < 0 || f.amplitude > 1 {
		return nil, fmt.Errorf("%w: amplitude %g outside 0..1", ErrInvalidParameter, f.amplitude)
	}
	if !isFinite(f.attenuation) || f.attenuation < 0 || f.attenuation > 1 {
		return nil, fmt.Errorf("%w: attenuation %g outside 0..1", ErrInvalidParameter, f.attenuation)
	}
	cfg.Initial = ParameterState{
		Frequency:   f.frequency,
		Waveform:    kind,
		Amplitude:   f.amplitude,
		Attenuation: f.attenuation,
	}
	return &cfg, nil
}

func printUsage(w io.Writer) {
	var f configFlags
	flagSet := newFlagSet("intuition_sweep", &f)
	flagSet.SetOutput(w)
	fmt.Fprintln(w, "Usage: ./intuition_sweep [-backend auto|oto|alsa|offline] [-frontend ebiten|terminal|script] [-script file.lua] [options]")
	flagSet.PrintDefaults()
}

func (c *Config) SynthOptions(log *slog.Logger) SynthOptions {
	initial := c.Initial
	return SynthOptions{
		Logger:        log,
		Debounce:      c.Debounce,
		GainRamp:      GAIN_RAMP,
		TapMinSamples: c.TapThreshold,
		TapSize:       c.TapSize,
		Initial:       &initial,
	}
}

// selectBackend picks the audio backend once at startup. auto falls back to
// the offline backend when no device can be opened.
func selectBackend(cfg *Config, log *slog.Logger) (AudioBackend, error) {
	switch cfg.Backend {
	case BACKEND_OFFLINE:
		return NewOfflineBackend(cfg.SampleRate), nil
	case BACKEND_OTO:
		return NewOtoBackend(cfg.SampleRate)
	case BACKEND_ALSA:
		return NewALSABackend(cfg.SampleRate)
	}
	backend, err := NewOtoBackend(cfg.SampleRate)
	if err != nil {
		log.Warn("audio device unavailable, using offline backend", "err", err)
		return NewOfflineBackend(cfg.SampleRate), nil
	}
	return backend, nil
}

func run(cfg *Config) error {
	log, err := NewLogger(cfg.LogLevel, os.Stderr)
	if err != nil {
		return err
	}
	slog.SetDefault(log)

	backend, err := selectBackend(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize audio: %w", err)
	}
	defer backend.Close()

	synth := NewSynth(backend, cfg.SynthOptions(log))
	defer synth.Close()

	status := newRuntimeStatusStore(backend.Name(), synth.State())
	detach := status.attach(synth)
	defer detach()
	unsub := synth.Subscribe(func(ev SynthEvent) {
		log.Debug("synth event", "event", ev.String())
	})
	defer unsub()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	frontend, err := NewFrontend(cfg, frontendDeps{synth: synth, status: status, log: log})
	if err != nil {
		return err
	}
	if cfg.Autoplay {
		if err := synth.Start(ctx); err != nil {
			log.Error("autoplay failed", "err", err)
		}
	}
	log.Info("ready", "backend", backend.Name(), "frontend", frontend.Name())
	return frontend.Run(ctx)
}

func main() {
	cfg, err := parseConfig(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		printUsage(os.Stdout)
		os.Exit(0)
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if cfg.ShowFeatures {
		printFeatures(os.Stdout)
		return
	}

	boilerPlate()
	if err := run(cfg); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
