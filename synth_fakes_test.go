// synth_fakes_test.go - Fake audio backend and manual scheduler for synth tests

package main

import (
	"context"
	"sync"
	"time"
)

type fakeNode struct {
	mu  sync.Mutex
	out AudioNode
}

func (n *fakeNode) Connect(dst AudioNode) error {
	n.mu.Lock()
	n.out = dst
	n.mu.Unlock()
	return nil
}

func (n *fakeNode) Disconnect() {
	n.mu.Lock()
	n.out = nil
	n.mu.Unlock()
}

func (n *fakeNode) connected() AudioNode {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.out
}

type fakeOscillator struct {
	fakeNode
	kind     WaveformKind
	freq     float64
	kinds    []WaveformKind // every kind ever set
	started  bool
	stopped  bool
	startErr error
}

func (o *fakeOscillator) Kind() WaveformKind {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.kind
}

func (o *fakeOscillator) SetKind(k WaveformKind) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.started {
		return ErrOscillatorStarted
	}
	o.kind = k
	o.kinds = append(o.kinds, k)
	return nil
}

func (o *fakeOscillator) SetFrequency(hz float64, _ time.Duration) {
	o.mu.Lock()
	o.freq = hz
	o.mu.Unlock()
}

func (o *fakeOscillator) Frequency() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.freq
}

func (o *fakeOscillator) Start() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.startErr != nil {
		return o.startErr
	}
	if o.started {
		return ErrOscillatorStarted
	}
	o.started = true
	return nil
}

func (o *fakeOscillator) Stop() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.started || o.stopped {
		return ErrOscillatorStopped
	}
	o.stopped = true
	return nil
}

func (o *fakeOscillator) live() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.started && !o.stopped
}

type fakeGain struct {
	fakeNode
	gain float64
}

func (g *fakeGain) SetGain(v float64, _ time.Duration) {
	g.mu.Lock()
	g.gain = v
	g.mu.Unlock()
}

func (g *fakeGain) Gain() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.gain
}

type fakeAnalyser struct {
	fakeNode
	size int
	data []uint8
}

func (a *fakeAnalyser) Size() int { return a.size }

func (a *fakeAnalyser) ReadTimeDomain(dst []uint8) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := min(len(dst), len(a.data))
	copy(dst, a.data[len(a.data)-n:])
	return n
}

type fakeBackend struct {
	mu        sync.Mutex
	suspended bool
	resumeErr error
	resumes   int
	oscErr    error
	gainErr   error
	startErr  error
	tapData   []uint8 // nil: no analyser support
	oscs      []*fakeOscillator
	gains     []*fakeGain
	analysers []*fakeAnalyser
	dest      fakeNode
}

func (b *fakeBackend) Name() string { return "fake" }

func (b *fakeBackend) Suspended() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.suspended
}

func (b *fakeBackend) Resume(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.resumes++
	if b.resumeErr != nil {
		return b.resumeErr
	}
	b.suspended = false
	return nil
}

func (b *fakeBackend) NewOscillator() (Oscillator, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.oscErr != nil {
		return nil, b.oscErr
	}
	o := &fakeOscillator{startErr: b.startErr}
	b.oscs = append(b.oscs, o)
	return o, nil
}

func (b *fakeBackend) NewGain() (GainNode, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.gainErr != nil {
		return nil, b.gainErr
	}
	g := &fakeGain{}
	b.gains = append(b.gains, g)
	return g, nil
}

func (b *fakeBackend) NewAnalyser(size int) (Analyser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.tapData == nil {
		return nil, ErrNoAnalyser
	}
	a := &fakeAnalyser{size: size, data: b.tapData}
	b.analysers = append(b.analysers, a)
	return a, nil
}

func (b *fakeBackend) Destination() AudioNode { return &b.dest }

func (b *fakeBackend) Close() error { return nil }

func (b *fakeBackend) oscillatorCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.oscs)
}

func (b *fakeBackend) lastOscillator() *fakeOscillator {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.oscs) == 0 {
		return nil
	}
	return b.oscs[len(b.oscs)-1]
}

func (b *fakeBackend) lastGain() *fakeGain {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.gains) == 0 {
		return nil
	}
	return b.gains[len(b.gains)-1]
}

// manualScheduler only runs callbacks when the test calls fire.
type manualScheduler struct {
	mu    sync.Mutex
	tasks []*manualTask
}

type manualTask struct {
	delay     time.Duration
	f         func()
	cancelled bool
	fired     bool
}

func (m *manualScheduler) AfterFunc(d time.Duration, f func()) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &manualTask{delay: d, f: f}
	m.tasks = append(m.tasks, t)
	return func() {
		m.mu.Lock()
		t.cancelled = true
		m.mu.Unlock()
	}
}

func (m *manualScheduler) pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.tasks {
		if !t.cancelled && !t.fired {
			n++
		}
	}
	return n
}

// fire runs every pending callback and reports how many ran.
func (m *manualScheduler) fire() int {
	m.mu.Lock()
	var run []func()
	for _, t := range m.tasks {
		if !t.cancelled && !t.fired {
			t.fired = true
			run = append(run, t.f)
		}
	}
	m.mu.Unlock()
	for _, f := range run {
		f()
	}
	return len(run)
}

// fireCancelled runs callbacks that were cancelled, as a timer that fired
// just before cancellation would.
func (m *manualScheduler) fireCancelled() int {
	m.mu.Lock()
	var run []func()
	for _, t := range m.tasks {
		if t.cancelled && !t.fired {
			t.fired = true
			run = append(run, t.f)
		}
	}
	m.mu.Unlock()
	for _, f := range run {
		f()
	}
	return len(run)
}

func newTestSynth(b AudioBackend) (*Synth, *manualScheduler) {
	sched := &manualScheduler{}
	s := NewSynth(b, SynthOptions{Scheduler: sched, Logger: discardLogger()})
	return s, sched
}
