// synth_controller.go - Voice lifecycle and parameter control

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
	"log/slog"
	"slices"
	"sync"
	"time"
)

// Scheduler runs f once after d unless the returned cancel func is called
// first. Cancel after the callback has started is a no-op.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) (cancel func())
}

type timerScheduler struct{}

func (timerScheduler) AfterFunc(d time.Duration, f func()) func() {
	t := time.AfterFunc(d, f)
	return func() { t.Stop() }
}

type SynthOptions struct {
	Logger    *slog.Logger
	Scheduler Scheduler

	Debounce      time.Duration // Window that coalesces waveform restarts
	GainRamp      time.Duration // Ramp applied to gain changes on a live voice
	TapMinSamples int           // Genuine tap points required before padding
	TapSize       int           // Analyser window requested from the backend

	// Initial parameters; nil means DefaultParameters. Invalid fields fall
	// back to their defaults and IsPlaying is ignored.
	Initial *ParameterState
}

// voiceHandle is one oscillator -> gain -> [analyser] -> destination chain.
type voiceHandle struct {
	osc      Oscillator
	gain     GainNode
	analyser Analyser
}

// release stops generation and disconnects every node. Stop errors on a
// voice that already ceased are expected.
func (v *voiceHandle) release(log *slog.Logger) {
	if v.osc != nil {
		if err := v.osc.Stop(); err != nil {
			log.Debug("voice stop", "err", err)
		}
		v.osc.Disconnect()
	}
	if v.gain != nil {
		v.gain.Disconnect()
	}
	if v.analyser != nil {
		v.analyser.Disconnect()
	}
}

// Synth owns the single voice and the authoritative ParameterState. All
// mutation goes through its setters; readers get consistent copies.
type Synth struct {
	mu      sync.Mutex
	backend AudioBackend
	log     *slog.Logger
	sched   Scheduler

	debounce time.Duration
	ramp     time.Duration
	tapSize  int
	tap      *LiveTap

	params ParameterState
	state  SynthState
	voice  *voiceHandle
	buffer VisualizationBuffer
	closed bool

	restartGen    uint64
	cancelRestart func()

	seq     uint64
	batches uint64
	pending []SynthEvent
	bus     eventBus

	pubMu     sync.Mutex
	pubTurn   *sync.Cond
	delivered uint64 // Last batch handed to subscribers
}

func NewSynth(backend AudioBackend, opts SynthOptions) *Synth {
	s := &Synth{
		backend:  backend,
		log:      opts.Logger,
		sched:    opts.Scheduler,
		debounce: opts.Debounce,
		ramp:     opts.GainRamp,
		tapSize:  opts.TapSize,
		tap:      NewLiveTap(opts.TapMinSamples),
		params:   DefaultParameters(),
	}
	s.pubTurn = sync.NewCond(&s.pubMu)
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.sched == nil {
		s.sched = timerScheduler{}
	}
	if s.debounce <= 0 {
		s.debounce = RESTART_DEBOUNCE
	}
	if s.ramp < 0 {
		s.ramp = 0
	}
	if s.tapSize <= 0 {
		s.tapSize = TAP_SIZE
	}
	if opts.Initial != nil {
		s.params = sanitizeParameters(*opts.Initial)
	}
	s.buffer = sampleParameters(s.params)
	return s
}

func sanitizeParameters(p ParameterState) ParameterState {
	def := DefaultParameters()
	if validFrequency(p.Frequency) {
		def.Frequency = p.Frequency
	}
	if p.Waveform.Valid() {
		def.Waveform = p.Waveform
	}
	if isFinite(p.Amplitude) && p.Amplitude <= 1 {
		def.Amplitude = clampUnit(p.Amplitude)
	}
	if isFinite(p.Attenuation) {
		def.Attenuation = clampUnit(p.Attenuation)
	}
	return def
}

// Subscribe registers fn for every event published after this call.
// Callbacks run on the goroutine that made the change, after the synth has
// released its lock, and see events in the order the changes were made.
// They may read the synth but must not change it.
func (s *Synth) Subscribe(fn func(SynthEvent)) (unsubscribe func()) {
	return s.bus.subscribe(fn)
}

// do runs fn under the synth lock and publishes the events it queued.
// Each batch takes a ticket while the lock is held and is delivered only
// after every earlier batch, so concurrent callers publish in change order.
func (s *Synth) do(fn func()) {
	s.mu.Lock()
	fn()
	events := s.pending
	s.pending = nil
	if len(events) == 0 {
		s.mu.Unlock()
		return
	}
	s.batches++
	ticket := s.batches
	s.mu.Unlock()

	s.pubMu.Lock()
	for s.delivered+1 != ticket {
		s.pubTurn.Wait()
	}
	s.pubMu.Unlock()
	defer func() {
		s.pubMu.Lock()
		s.delivered = ticket
		s.pubTurn.Broadcast()
		s.pubMu.Unlock()
	}()
	s.bus.publish(events)
}

func (s *Synth) emit(ev SynthEvent) {
	s.seq++
	ev.Seq = s.seq
	ev.Time = time.Now()
	s.pending = append(s.pending, ev)
}

func (s *Synth) emitParams(old ParameterState) {
	if old == s.params {
		return
	}
	s.emit(SynthEvent{Kind: EventParamsChanged, From: s.state, To: s.state, Old: old, New: s.params})
}

func (s *Synth) reject(param string, value float64) {
	s.log.Warn("rejected parameter", "param", param, "value", value)
	s.emit(SynthEvent{Kind: EventParamRejected, From: s.state, To: s.state, Old: s.params, New: s.params, Param: param, Value: value})
}

// Start moves Idle to Running. A suspended backend is resumed first; a
// resume failure is logged and generation is attempted anyway. On any
// failure building the voice the synth stays Idle with no voice retained and
// Start may be retried.
func (s *Synth) Start(ctx context.Context) error {
	s.mu.Lock()
	switch {
	case s.closed:
		s.mu.Unlock()
		return &AudioError{Operation: "start", Err: ErrClosed}
	case s.state == StateRunning:
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	if s.backend != nil && s.backend.Suspended() {
		if err := s.backend.Resume(ctx); err != nil {
			s.log.Warn("audio output resume failed, starting anyway", "backend", s.backend.Name(), "err", err)
		}
	}

	var err error
	s.do(func() {
		if s.closed {
			err = &AudioError{Operation: "start", Err: ErrClosed}
			return
		}
		if s.state == StateRunning {
			return
		}
		err = s.startLocked()
	})
	return err
}

func (s *Synth) startLocked() error {
	voice, err := s.openVoice()
	if err != nil {
		s.log.Error("voice start failed", "err", err)
		s.emit(SynthEvent{Kind: EventStartFailed, From: StateIdle, To: StateIdle, Old: s.params, New: s.params, Err: err})
		return err
	}
	old := s.params
	s.voice = voice
	s.state = StateRunning
	s.params.IsPlaying = true
	s.log.Debug("synth running", "frequency", s.params.Frequency, "waveform", s.params.Waveform, "gain", s.params.gain())
	s.emit(SynthEvent{Kind: EventStateChanged, From: StateIdle, To: StateRunning, Old: old, New: s.params})
	return nil
}

// openVoice builds and starts a chain for the current parameters. Nodes
// created before a failure are released.
func (s *Synth) openVoice() (*voiceHandle, error) {
	if s.backend == nil {
		return nil, &AudioError{Operation: "start", Err: ErrBackendUnavailable}
	}
	name := s.backend.Name()
	fail := func(v *voiceHandle, details string, err error) (*voiceHandle, error) {
		v.release(s.log)
		return nil, &AudioError{Operation: "start", Details: name + ": " + details, Err: err}
	}

	v := &voiceHandle{}
	var err error
	if v.osc, err = s.backend.NewOscillator(); err != nil {
		return fail(v, "create oscillator", err)
	}
	if err = v.osc.SetKind(s.params.Waveform); err != nil {
		return fail(v, "set waveform", err)
	}
	v.osc.SetFrequency(s.params.Frequency, 0)

	if v.gain, err = s.backend.NewGain(); err != nil {
		return fail(v, "create gain", err)
	}
	v.gain.SetGain(0, 0)
	if err = v.osc.Connect(v.gain); err != nil {
		return fail(v, "connect gain", err)
	}

	v.analyser, err = s.backend.NewAnalyser(s.tapSize)
	switch {
	case errors.Is(err, ErrNoAnalyser):
		v.analyser = nil
	case err != nil:
		return fail(v, "create analyser", err)
	}

	if v.analyser != nil {
		if err = v.gain.Connect(v.analyser); err != nil {
			return fail(v, "connect analyser", err)
		}
		err = v.analyser.Connect(s.backend.Destination())
	} else {
		err = v.gain.Connect(s.backend.Destination())
	}
	if err != nil {
		return fail(v, "connect destination", err)
	}

	if err = v.osc.Start(); err != nil {
		return fail(v, "start oscillator", err)
	}
	v.gain.SetGain(s.params.gain(), s.ramp)
	return v, nil
}

// Stop tears down the voice and cancels any pending restart. Calling it
// while Idle does nothing.
func (s *Synth) Stop() {
	s.do(s.stopLocked)
}

func (s *Synth) stopLocked() {
	s.cancelPendingRestart()
	if s.state == StateIdle {
		return
	}
	if s.voice != nil {
		s.voice.release(s.log)
		s.voice = nil
	}
	old := s.params
	s.state = StateIdle
	s.params.IsPlaying = false
	s.buffer = sampleParameters(s.params)
	s.log.Debug("synth idle")
	s.emit(SynthEvent{Kind: EventStateChanged, From: StateRunning, To: StateIdle, Old: old, New: s.params})
}

// SetFrequency retunes without restarting the voice. Values outside
// [MIN_FREQUENCY, MAX_FREQUENCY] or non-finite are rejected.
func (s *Synth) SetFrequency(hz float64) (ok bool) {
	s.do(func() { ok = s.setFrequencyLocked(hz) })
	return ok
}

func (s *Synth) setFrequencyLocked(hz float64) bool {
	if !validFrequency(hz) {
		s.reject("frequency", hz)
		return false
	}
	old := s.params
	s.params.Frequency = hz
	if s.voice != nil {
		s.voice.osc.SetFrequency(hz, 0)
		s.voice.gain.SetGain(s.params.gain(), s.ramp)
	}
	s.buffer = sampleParameters(s.params)
	s.emitParams(old)
	return true
}

// NudgeFrequency shifts the frequency by semitones, pinned to the audible
// range.
func (s *Synth) NudgeFrequency(semitones float64) (ok bool) {
	s.do(func() {
		if !isFinite(semitones) {
			s.reject("semitones", semitones)
			return
		}
		ok = s.setFrequencyLocked(shiftSemitones(s.params.Frequency, semitones))
	})
	return ok
}

// SetFrequencyFromPosition applies a horizontal drag at x over a surface of
// the given width.
func (s *Synth) SetFrequencyFromPosition(x, width float64) bool {
	freq, ok := FrequencyFromPosition(x, width)
	if !ok {
		s.do(func() { s.reject("position", x) })
		return false
	}
	return s.SetFrequency(freq)
}

// SetWaveform changes the waveform kind. The display updates immediately.
// A running voice cannot change kind, so it is torn down and rebuilt after
// the debounce window; further changes inside the window re-arm it and only
// the last kind is ever started.
func (s *Synth) SetWaveform(kind WaveformKind) (ok bool) {
	s.do(func() { ok = s.setWaveformLocked(kind) })
	return ok
}

func (s *Synth) setWaveformLocked(kind WaveformKind) bool {
	if !kind.Valid() {
		s.reject("waveform", float64(kind))
		return false
	}
	old := s.params
	s.params.Waveform = kind
	s.buffer = sampleParameters(s.params)
	s.emitParams(old)

	if s.state != StateRunning {
		return true
	}
	if s.voice != nil && s.voice.osc.Kind() == kind {
		return true
	}
	if s.voice != nil {
		s.voice.release(s.log)
		s.voice = nil
		s.emit(SynthEvent{Kind: EventVoiceStopped, From: s.state, To: s.state, Old: old, New: s.params})
	}
	s.scheduleRestart()
	return true
}

// SetAmplitude accepts values up to 1; negative values clamp to 0. Anything
// non-finite or above 1 is rejected.
func (s *Synth) SetAmplitude(a float64) (ok bool) {
	s.do(func() { ok = s.setAmplitudeLocked(a) })
	return ok
}

func (s *Synth) setAmplitudeLocked(a float64) bool {
	if !isFinite(a) || a > 1 {
		s.reject("amplitude", a)
		return false
	}
	old := s.params
	s.params.Amplitude = clampUnit(a)
	if s.voice != nil {
		s.voice.gain.SetGain(s.params.gain(), s.ramp)
	}
	s.buffer = sampleParameters(s.params)
	s.emitParams(old)
	return true
}

// SetAttenuation clamps finite values to [0,1].
func (s *Synth) SetAttenuation(v float64) (ok bool) {
	s.do(func() { ok = s.setAttenuationLocked(v) })
	return ok
}

func (s *Synth) setAttenuationLocked(v float64) bool {
	if !isFinite(v) {
		s.reject("attenuation", v)
		return false
	}
	old := s.params
	s.params.Attenuation = clampUnit(v)
	if s.state == StateRunning && s.voice != nil {
		s.voice.gain.SetGain(s.params.gain(), s.ramp)
	}
	s.buffer = sampleParameters(s.params)
	s.emitParams(old)
	return true
}

// scheduleRestart replaces any pending restart with a new one.
func (s *Synth) scheduleRestart() {
	s.cancelPendingRestart()
	gen := s.restartGen
	s.cancelRestart = s.sched.AfterFunc(s.debounce, func() { s.runRestart(gen) })
	s.emit(SynthEvent{Kind: EventRestartScheduled, From: s.state, To: s.state, Old: s.params, New: s.params})
}

// cancelPendingRestart invalidates the current generation, so a callback
// that already fired and is waiting on the lock becomes a no-op.
func (s *Synth) cancelPendingRestart() {
	if s.cancelRestart != nil {
		s.cancelRestart()
		s.cancelRestart = nil
	}
	s.restartGen++
}

func (s *Synth) runRestart(gen uint64) {
	s.do(func() {
		if gen != s.restartGen || s.closed || s.state != StateRunning || s.voice != nil {
			return
		}
		s.cancelRestart = nil

		voice, err := s.openVoice()
		if err != nil {
			s.log.Error("voice restart failed", "waveform", s.params.Waveform, "err", err)
			old := s.params
			s.state = StateIdle
			s.params.IsPlaying = false
			s.emit(SynthEvent{Kind: EventStartFailed, From: StateRunning, To: StateIdle, Old: old, New: s.params, Err: err})
			s.emit(SynthEvent{Kind: EventStateChanged, From: StateRunning, To: StateIdle, Old: old, New: s.params})
			return
		}
		s.voice = voice
		s.log.Debug("voice restarted", "waveform", s.params.Waveform)
		s.emit(SynthEvent{Kind: EventVoiceRestarted, From: s.state, To: s.state, Old: s.params, New: s.params})
	})
}

// State returns a copy of the current parameters.
func (s *Synth) State() ParameterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}

// Running reports the session state. It stays true while a waveform
// restart is pending even though no voice exists for that window.
func (s *Synth) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateRunning
}

// VoiceActive reports whether a live voice is generating right now.
func (s *Synth) VoiceActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.voice != nil
}

// Buffer returns a copy of the last visualization frame.
func (s *Synth) Buffer() VisualizationBuffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.buffer)
}

// Tick advances the display by one frame. A running voice with an analyser
// supplies the frame; otherwise, or when the tap has too little data, the
// synthetic trace is used.
func (s *Synth) Tick() VisualizationBuffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateRunning && s.voice != nil && s.voice.analyser != nil {
		if buf, ok := s.tap.Read(s.voice.analyser); ok {
			s.buffer = buf
			return slices.Clone(buf)
		}
	}
	s.buffer = sampleParameters(s.params)
	return slices.Clone(s.buffer)
}

func (s *Synth) BackendName() string {
	if s.backend == nil {
		return "none"
	}
	return s.backend.Name()
}

// Close cancels any pending restart and stops the voice. The synth cannot be
// started again afterwards. The backend belongs to the caller.
func (s *Synth) Close() error {
	s.do(func() {
		if s.closed {
			return
		}
		s.stopLocked()
		s.closed = true
		s.emit(SynthEvent{Kind: EventClosed, From: s.state, To: s.state, Old: s.params, New: s.params})
	})
	return nil
}
