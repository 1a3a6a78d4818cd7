//go:build !headless

// audio_backend_oto.go - OTO v3 live synthesis backend

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
	"time"

	"github.com/ebitengine/oto/v3"
)

const OTO_PLAYER_BUFFER = 20 * time.Millisecond

// OtoBackend renders each started oscillator through its own oto player.
// The device context is created suspended and woken by the first Start.
type OtoBackend struct {
	ctx        *oto.Context
	sampleRate int
	dest       *destinationNode

	mu        sync.Mutex
	players   map[*oscillatorNode]*oto.Player
	suspended bool
	closed    bool
}

func NewOtoBackend(sampleRate int) (AudioBackend, error) {
	if sampleRate <= 0 {
		sampleRate = SAMPLE_RATE
	}
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   OTO_PLAYER_BUFFER,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, &AudioError{Operation: "open device", Details: "oto", Err: err}
	}
	<-ready

	b := &OtoBackend{
		ctx:        ctx,
		sampleRate: sampleRate,
		dest:       &destinationNode{},
		players:    make(map[*oscillatorNode]*oto.Player),
	}
	// Stay silent until the user asks for sound.
	if err := ctx.Suspend(); err == nil {
		b.suspended = true
	}
	return b, nil
}

func (b *OtoBackend) Name() string { return "oto" }

func (b *OtoBackend) Suspended() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.suspended
}

func (b *OtoBackend) Resume(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return &AudioError{Operation: "resume", Details: "oto", Err: ErrClosed}
	}
	if err := b.ctx.Resume(); err != nil {
		return &AudioError{Operation: "resume", Details: "oto", Err: err}
	}
	b.suspended = false
	return nil
}

func (b *OtoBackend) NewOscillator() (Oscillator, error) {
	if err := b.checkOpen(); err != nil {
		return nil, err
	}
	osc := newOscillatorNode(b.sampleRate)
	osc.onStart = b.attach
	osc.onStop = b.detach
	return osc, nil
}

func (b *OtoBackend) NewGain() (GainNode, error) {
	if err := b.checkOpen(); err != nil {
		return nil, err
	}
	return newGainNode(b.sampleRate), nil
}

func (b *OtoBackend) NewAnalyser(size int) (Analyser, error) {
	if err := b.checkOpen(); err != nil {
		return nil, err
	}
	return newAnalyserNode(size), nil
}

func (b *OtoBackend) Destination() AudioNode { return b.dest }

// attach opens a player streaming the oscillator's chain.
func (b *OtoBackend) attach(osc *oscillatorNode) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return &AudioError{Operation: "play", Details: "oto", Err: ErrClosed}
	}
	if err := b.ctx.Err(); err != nil {
		return &AudioError{Operation: "play", Details: "oto", Err: err}
	}
	p := b.ctx.NewPlayer(newNodeReader(osc))
	p.SetBufferSize(durationToSamples(OTO_PLAYER_BUFFER, b.sampleRate) * 4)
	p.Play()
	b.players[osc] = p
	return nil
}

func (b *OtoBackend) detach(osc *oscillatorNode) error {
	b.mu.Lock()
	p := b.players[osc]
	delete(b.players, osc)
	b.mu.Unlock()
	if p == nil {
		return nil
	}
	p.Pause()
	return p.Close()
}

// Close stops every player and parks the device. oto contexts live for the
// whole process, so the backend cannot be reopened.
func (b *OtoBackend) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	players := b.players
	b.players = make(map[*oscillatorNode]*oto.Player)
	b.mu.Unlock()

	for _, p := range players {
		p.Pause()
		_ = p.Close()
	}
	return b.ctx.Suspend()
}

func (b *OtoBackend) checkOpen() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return &AudioError{Operation: "create node", Details: "oto", Err: ErrClosed}
	}
	return nil
}

func init() {
	compiledFeatures = append(compiledFeatures, "audio:oto")
}
