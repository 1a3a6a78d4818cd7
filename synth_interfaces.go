// synth_interfaces.go - Audio capability set consumed by the synth

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
	"fmt"
	"time"
)

var (
	ErrInvalidParameter   = errors.New("invalid parameter")
	ErrBackendUnavailable = errors.New("audio backend unavailable")
	ErrNoAnalyser         = errors.New("backend has no live analysis tap")
	ErrOscillatorStarted  = errors.New("oscillator already started")
	ErrOscillatorStopped  = errors.New("oscillator not running")
	ErrForeignNode        = errors.New("node belongs to a different backend")
	ErrClosed             = errors.New("closed")
)

// AudioError provides context for a failed audio operation
type AudioError struct {
	Operation string // What operation was being attempted
	Details   string // Additional error context
	Err       error  // Underlying error if any
}

func (e *AudioError) Error() string {
	switch {
	case e.Err != nil && e.Details != "":
		return fmt.Sprintf("audio %s failed: %s: %v", e.Operation, e.Details, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("audio %s failed: %v", e.Operation, e.Err)
	}
	return fmt.Sprintf("audio %s failed: %s", e.Operation, e.Details)
}

func (e *AudioError) Unwrap() error { return e.Err }

// AudioNode is one stage of a voice's signal chain.
type AudioNode interface {
	// Connect routes this node's output into dst
	Connect(dst AudioNode) error
	// Disconnect removes every outgoing connection
	Disconnect()
}

// Oscillator generates a periodic waveform. Its kind can only be changed
// before Start; a started oscillator cannot be restarted.
type Oscillator interface {
	AudioNode
	Kind() WaveformKind
	// SetKind fails with ErrOscillatorStarted once the oscillator runs
	SetKind(kind WaveformKind) error
	// SetFrequency moves to hz, reaching it after at (0 = immediately)
	SetFrequency(hz float64, at time.Duration)
	Frequency() float64
	Start() error
	// Stop fails with ErrOscillatorStopped if the oscillator is not running
	Stop() error
}

// GainNode scales the signal passing through it.
type GainNode interface {
	AudioNode
	// SetGain moves to value, reaching it after at (0 = immediately)
	SetGain(value float64, at time.Duration)
	// Gain returns the target gain
	Gain() float64
}

// Analyser is a pass-through tap exposing recent output for display.
type Analyser interface {
	AudioNode
	// Size is the tap's native window length
	Size() int
	// ReadTimeDomain copies the newest samples (0..255, 128 = silence) into dst
	// in chronological order and reports how many genuine samples were written
	ReadTimeDomain(dst []uint8) int
}

// AudioBackend is the platform audio capability set. The host picks one
// implementation at startup; the synth never inspects which.
type AudioBackend interface {
	Name() string
	// Suspended reports whether output is parked and needs Resume before sound
	Suspended() bool
	Resume(ctx context.Context) error
	NewOscillator() (Oscillator, error)
	NewGain() (GainNode, error)
	// NewAnalyser returns ErrNoAnalyser when live analysis is not supported
	NewAnalyser(size int) (Analyser, error)
	// Destination is the terminal node feeding the output device
	Destination() AudioNode
	Close() error
}
