// synth_events.go - Structured state-transition events published by the synth

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
	"slices"
	"sync"
	"time"
)

type SynthState int

const (
	StateIdle SynthState = iota
	StateRunning
)

func (s SynthState) String() string {
	if s == StateRunning {
		return "running"
	}
	return "idle"
}

type EventKind int

const (
	EventStateChanged     EventKind = iota // From/To carry the lifecycle transition
	EventParamsChanged                     // Old/New carry the parameter change
	EventParamRejected                     // Param/Value name the rejected input
	EventVoiceStopped                      // Voice torn down, session may continue
	EventVoiceRestarted                    // New voice built after a debounced retype
	EventRestartScheduled                  // Debounce armed or re-armed
	EventStartFailed                       // Err holds the cause; state stays Idle
	EventReset
	EventClosed
)

var eventKindNames = [...]string{
	EventStateChanged:     "state",
	EventParamsChanged:    "params",
	EventParamRejected:    "rejected",
	EventVoiceStopped:     "voice-stopped",
	EventVoiceRestarted:   "voice-restarted",
	EventRestartScheduled: "restart-scheduled",
	EventStartFailed:      "start-failed",
	EventReset:            "reset",
	EventClosed:           "closed",
}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventKindNames) {
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
	return eventKindNames[k]
}

// SynthEvent describes one observable change of the synth.
type SynthEvent struct {
	Kind     EventKind
	Seq      uint64 // Increases by one per event of a synth
	From, To SynthState
	Old, New ParameterState
	Param    string
	Value    float64
	Err      error
	Time     time.Time
}

func (e SynthEvent) String() string {
	switch e.Kind {
	case EventStateChanged:
		return fmt.Sprintf("%s %s->%s", e.Kind, e.From, e.To)
	case EventParamRejected:
		return fmt.Sprintf("%s %s=%g", e.Kind, e.Param, e.Value)
	case EventStartFailed:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	case EventVoiceRestarted:
		return fmt.Sprintf("%s %s", e.Kind, e.New.Waveform)
	}
	return e.Kind.String()
}

type eventBus struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(SynthEvent)
}

func (b *eventBus) subscribe(fn func(SynthEvent)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs == nil {
		b.subs = make(map[int]func(SynthEvent))
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// publish delivers events in order. Subscribers run outside the bus lock.
func (b *eventBus) publish(events []SynthEvent) {
	if len(events) == 0 {
		return
	}
	b.mu.Lock()
	ids := make([]int, 0, len(b.subs))
	for id := range b.subs {
		ids = append(ids, id)
	}
	fns := make([]func(SynthEvent), 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		fns = append(fns, b.subs[id])
	}
	b.mu.Unlock()

	for _, ev := range events {
		for _, fn := range fns {
			fn(ev)
		}
	}
}
