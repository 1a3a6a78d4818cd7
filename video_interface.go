// video_interface.go - Frontend abstraction for the synth display and controls

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
	"fmt"
	"log/slog"
)

// VideoError provides detailed error context for display operations
type VideoError struct {
	Operation string // What operation was being attempted
	Details   string // Additional error context
	Err       error  // Underlying error if any
}

func (e *VideoError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("video %s failed: %s: %v", e.Operation, e.Details, e.Err)
	}
	return fmt.Sprintf("video %s failed: %s", e.Operation, e.Details)
}

func (e *VideoError) Unwrap() error { return e.Err }

// DisplayConfig contains backend-independent window configuration
type DisplayConfig struct {
	Width      int
	Height     int
	Fullscreen bool
	Title      string
	ShowStatus bool // Status bar under the trace
}

func DefaultDisplayConfig() DisplayConfig {
	return DisplayConfig{
		Width:      DEFAULT_WIDTH,
		Height:     DEFAULT_HEIGHT,
		Title:      "Intuition Sweep",
		ShowStatus: true,
	}
}

const (
	DEFAULT_WIDTH  = 1024
	DEFAULT_HEIGHT = 480

	MIN_DISPLAY_HEIGHT = 64 // Room for the trace above the status bar
)

// Frontend drives the synth from user input and presents its state. Run
// blocks until the user quits or ctx is cancelled.
type Frontend interface {
	Name() string
	Run(ctx context.Context) error
}

// Frontend kinds accepted by -frontend
const (
	FRONTEND_EBITEN   = "ebiten"
	FRONTEND_TERMINAL = "terminal"
	FRONTEND_SCRIPT   = "script"
)

type frontendDeps struct {
	synth  *Synth
	status *runtimeStatusStore
	log    *slog.Logger
}

// NewFrontend creates the frontend selected in cfg
func NewFrontend(cfg *Config, deps frontendDeps) (Frontend, error) {
	switch cfg.Frontend {
	case FRONTEND_EBITEN:
		return NewEbitenOutput(cfg.Display, deps)
	case FRONTEND_TERMINAL:
		return NewTerminalFrontend(deps), nil
	case FRONTEND_SCRIPT:
		return NewScriptFrontend(cfg.Script, deps), nil
	}
	return nil, &VideoError{
		Operation: "frontend creation",
		Details:   fmt.Sprintf("unknown frontend: %q", cfg.Frontend),
	}
}
