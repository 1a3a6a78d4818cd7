// audio_backend_offline.go - Sampler-only backend for hosts without audio output

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
	"sync"
)

// OfflineBackend builds voice chains that are never rendered to a device.
// Lifecycle and parameters behave like the live backend, but there is no
// analyser, so the display always uses the synthetic trace.
type OfflineBackend struct {
	mu         sync.Mutex
	sampleRate int
	dest       *destinationNode
	closed     bool
}

func NewOfflineBackend(sampleRate int) *OfflineBackend {
	if sampleRate <= 0 {
		sampleRate = SAMPLE_RATE
	}
	return &OfflineBackend{sampleRate: sampleRate, dest: &destinationNode{}}
}

func (b *OfflineBackend) Name() string { return "offline" }

func (b *OfflineBackend) Suspended() bool { return false }

func (b *OfflineBackend) Resume(ctx context.Context) error { return ctx.Err() }

func (b *OfflineBackend) NewOscillator() (Oscillator, error) {
	if err := b.checkOpen(); err != nil {
		return nil, err
	}
	return newOscillatorNode(b.sampleRate), nil
}

func (b *OfflineBackend) NewGain() (GainNode, error) {
	if err := b.checkOpen(); err != nil {
		return nil, err
	}
	return newGainNode(b.sampleRate), nil
}

func (b *OfflineBackend) NewAnalyser(int) (Analyser, error) {
	return nil, ErrNoAnalyser
}

func (b *OfflineBackend) Destination() AudioNode { return b.dest }

func (b *OfflineBackend) Close() error {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	return nil
}

func (b *OfflineBackend) checkOpen() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return &AudioError{Operation: "create node", Details: b.Name(), Err: ErrClosed}
	}
	return nil
}

func init() {
	compiledFeatures = append(compiledFeatures, "audio:offline")
}
