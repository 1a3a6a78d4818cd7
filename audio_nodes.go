// audio_nodes.go - Signal chain nodes rendered on the audio thread

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
	"math"
	"sync"
	"time"
)

// signalNode is a chain stage that transforms a block in place and returns
// the next stage, or nil at the end of the chain.
type signalNode interface {
	AudioNode
	process(buf []float32) signalNode
}

// rampedParam moves linearly from its current value to a target over a
// number of samples. Zero samples jumps immediately.
type rampedParam struct {
	current   float64
	target    float64
	step      float64
	remaining int
}

func (r *rampedParam) set(value float64, samples int) {
	r.target = value
	if samples <= 0 {
		r.current = value
		r.remaining = 0
		return
	}
	r.step = (value - r.current) / float64(samples)
	r.remaining = samples
}

func (r *rampedParam) next() float64 {
	if r.remaining > 0 {
		r.current += r.step
		r.remaining--
		if r.remaining == 0 {
			r.current = r.target
		}
	}
	return r.current
}

func durationToSamples(d time.Duration, sampleRate int) int {
	if d <= 0 {
		return 0
	}
	return int(d.Seconds() * float64(sampleRate))
}

// oscillatorNode is the head of a voice chain. The backend hooks start/stop
// to attach and detach an output stream.
type oscillatorNode struct {
	mu         sync.Mutex
	sampleRate int
	kind       WaveformKind
	freq       rampedParam
	phase      float32 // Normalized phase [0, 1)
	started    bool
	stopped    bool
	out        signalNode

	onStart func(*oscillatorNode) error
	onStop  func(*oscillatorNode) error
}

func newOscillatorNode(sampleRate int) *oscillatorNode {
	osc := &oscillatorNode{sampleRate: sampleRate}
	osc.freq.set(DEFAULT_FREQUENCY, 0)
	return osc
}

func (o *oscillatorNode) Connect(dst AudioNode) error {
	n, ok := dst.(signalNode)
	if !ok {
		return ErrForeignNode
	}
	o.mu.Lock()
	o.out = n
	o.mu.Unlock()
	return nil
}

func (o *oscillatorNode) Disconnect() {
	o.mu.Lock()
	o.out = nil
	o.mu.Unlock()
}

func (o *oscillatorNode) Kind() WaveformKind {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.kind
}

func (o *oscillatorNode) SetKind(kind WaveformKind) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.started {
		return ErrOscillatorStarted
	}
	if !kind.Valid() {
		return ErrInvalidParameter
	}
	o.kind = kind
	return nil
}

func (o *oscillatorNode) SetFrequency(hz float64, at time.Duration) {
	o.mu.Lock()
	o.freq.set(hz, durationToSamples(at, o.sampleRate))
	o.mu.Unlock()
}

func (o *oscillatorNode) Frequency() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.freq.target
}

func (o *oscillatorNode) Start() error {
	o.mu.Lock()
	if o.started {
		o.mu.Unlock()
		return ErrOscillatorStarted
	}
	o.started = true
	hook := o.onStart
	o.mu.Unlock()

	if hook != nil {
		if err := hook(o); err != nil {
			o.mu.Lock()
			o.stopped = true
			o.mu.Unlock()
			return err
		}
	}
	return nil
}

func (o *oscillatorNode) Stop() error {
	o.mu.Lock()
	if !o.started || o.stopped {
		o.mu.Unlock()
		return ErrOscillatorStopped
	}
	o.stopped = true
	hook := o.onStop
	o.mu.Unlock()

	if hook != nil {
		return hook(o)
	}
	return nil
}

func (o *oscillatorNode) running() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.started && !o.stopped
}

// render writes raw oscillator output into buf.
func (o *oscillatorNode) render(buf []float32) signalNode {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.started || o.stopped {
		clear(buf)
		return nil
	}

	sr := float32(o.sampleRate)
	for i := range buf {
		dt := float32(o.freq.next()) / sr
		p := o.phase
		var s float32
		switch o.kind {
		case WaveSquare:
			if p < 0.5 {
				s = 1
			} else {
				s = -1
			}
			s += polyBLEP32(p, dt)
			q := p + 0.5
			if q >= 1 {
				q -= 1
			}
			s -= polyBLEP32(q, dt)
		case WaveSawtooth:
			s = 2*p - 1 - polyBLEP32(p, dt)
		case WaveTriangle:
			if p < 0.5 {
				s = 4*p - 1
			} else {
				s = 3 - 4*p
			}
		default:
			s = fastSin(p * TWO_PI)
		}
		buf[i] = s

		o.phase += dt
		if o.phase >= 1 {
			o.phase -= float32(math.Floor(float64(o.phase)))
		}
	}
	return o.out
}

// fill renders one block through the whole chain. The block is silent unless
// the chain reaches a destination node.
func (o *oscillatorNode) fill(buf []float32) {
	next := o.render(buf)
	reached := false
	for next != nil {
		if _, ok := next.(*destinationNode); ok {
			reached = true
			break
		}
		next = next.process(buf)
	}
	if !reached {
		clear(buf)
		return
	}
	for i, s := range buf {
		buf[i] = max(-1, min(1, s))
	}
}

// oscillatorNode is never downstream of another node.
func (o *oscillatorNode) process(buf []float32) signalNode { return nil }

type gainNode struct {
	mu         sync.Mutex
	sampleRate int
	gain       rampedParam
	out        signalNode
}

func newGainNode(sampleRate int) *gainNode {
	g := &gainNode{sampleRate: sampleRate}
	g.gain.set(1, 0)
	return g
}

func (g *gainNode) Connect(dst AudioNode) error {
	n, ok := dst.(signalNode)
	if !ok {
		return ErrForeignNode
	}
	g.mu.Lock()
	g.out = n
	g.mu.Unlock()
	return nil
}

func (g *gainNode) Disconnect() {
	g.mu.Lock()
	g.out = nil
	g.mu.Unlock()
}

func (g *gainNode) SetGain(value float64, at time.Duration) {
	g.mu.Lock()
	g.gain.set(value, durationToSamples(at, g.sampleRate))
	g.mu.Unlock()
}

func (g *gainNode) Gain() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.gain.target
}

func (g *gainNode) process(buf []float32) signalNode {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := range buf {
		buf[i] *= float32(g.gain.next())
	}
	return g.out
}

// analyserNode keeps a ring of the most recent samples passing through it.
type analyserNode struct {
	mu     sync.Mutex
	ring   []float32
	pos    int
	filled int
	out    signalNode
}

func newAnalyserNode(size int) *analyserNode {
	if size <= 0 {
		size = TAP_SIZE
	}
	return &analyserNode{ring: make([]float32, size)}
}

func (a *analyserNode) Connect(dst AudioNode) error {
	n, ok := dst.(signalNode)
	if !ok {
		return ErrForeignNode
	}
	a.mu.Lock()
	a.out = n
	a.mu.Unlock()
	return nil
}

func (a *analyserNode) Disconnect() {
	a.mu.Lock()
	a.out = nil
	a.mu.Unlock()
}

func (a *analyserNode) Size() int { return len(a.ring) }

func (a *analyserNode) process(buf []float32) signalNode {
	a.mu.Lock()
	defer a.mu.Unlock()
	size := len(a.ring)
	for _, s := range buf {
		a.ring[a.pos] = s
		a.pos = (a.pos + 1) % size
	}
	a.filled = min(size, a.filled+len(buf))
	return a.out
}

func (a *analyserNode) ReadTimeDomain(dst []uint8) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	size := len(a.ring)
	n := min(len(dst), a.filled)
	start := (a.pos - n + size) % size
	for i := 0; i < n; i++ {
		v := 128 * (1 + a.ring[(start+i)%size])
		dst[i] = uint8(max(0, min(255, v)))
	}
	return n
}

// destinationNode terminates a chain at the output device.
type destinationNode struct{}

func (d *destinationNode) Connect(AudioNode) error { return ErrInvalidParameter }
func (d *destinationNode) Disconnect() {}
func (d *destinationNode) process(buf []float32) signalNode { return nil }
