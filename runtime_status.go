// runtime_status.go - Host-side snapshot of synth activity for status displays

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
	"fmt"
	"sync"
	"time"
)

type runtimeStatusSnapshot struct {
	backend string
	state   SynthState
	params  ParameterState

	restarts      int
	rejected      int
	startFailures int
	lastEvent     SynthEvent
	lastSeq       uint64
	lastErr       error
	updated       time.Time
}

type runtimeStatusStore struct {
	mu sync.RWMutex
	runtimeStatusSnapshot
}

func newRuntimeStatusStore(backend string, initial ParameterState) *runtimeStatusStore {
	s := &runtimeStatusStore{}
	s.backend = backend
	s.params = initial
	return s
}

// attach follows the synth's event stream until the returned func is called.
func (s *runtimeStatusStore) attach(synth *Synth) func() {
	return synth.Subscribe(s.observe)
}

func (s *runtimeStatusStore) observe(ev SynthEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ev.Seq != 0 && ev.Seq <= s.lastSeq {
		return
	}
	s.lastSeq = ev.Seq
	s.state = ev.To
	s.params = ev.New
	s.lastEvent = ev
	s.updated = ev.Time
	switch ev.Kind {
	case EventVoiceRestarted:
		s.restarts++
	case EventParamRejected:
		s.rejected++
	case EventStartFailed:
		s.startFailures++
		s.lastErr = ev.Err
	case EventReset:
		s.clearCounters()
	}
}

func (s *runtimeStatusStore) snapshot() runtimeStatusSnapshot {
	s.mu.RLock()
	snap := s.runtimeStatusSnapshot
	s.mu.RUnlock()
	return snap
}

// statusLine is the one-line summary shown by the frontends.
func (snap runtimeStatusSnapshot) statusLine() string {
	p := snap.params
	line := fmt.Sprintf("%s | %s | %s %.1f Hz | amp %.2f | atten %.2f | gain %.3f | restarts %d",
		snap.backend, snap.state, p.Waveform, p.Frequency, p.Amplitude, p.Attenuation, p.gain(), snap.restarts)
	if snap.rejected > 0 {
		line += fmt.Sprintf(" | rejected %d", snap.rejected)
	}
	if snap.lastErr != nil {
		line += " | error: " + snap.lastErr.Error()
	}
	return line
}
