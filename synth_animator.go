// synth_animator.go - Ticker-driven animation loop for hosts without a frame clock

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
	"sync"
	"time"
)

const DEFAULT_FRAME_INTERVAL = time.Second / 60

// Animator pulls a frame from the synth on every tick and hands it to sink.
// Stop returns only after the loop has exited, so no frame is delivered
// after it. sink must not stop or restart the animator itself.
type Animator struct {
	synth    *Synth
	interval time.Duration
	sink     func(VisualizationBuffer)

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

func NewAnimator(synth *Synth, interval time.Duration, sink func(VisualizationBuffer)) *Animator {
	if interval <= 0 {
		interval = DEFAULT_FRAME_INTERVAL
	}
	return &Animator{synth: synth, interval: interval, sink: sink}
}

func (a *Animator) Start() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stop != nil {
		return
	}
	a.stop = make(chan struct{})
	a.done = make(chan struct{})
	go a.loop(a.stop, a.done)
}

func (a *Animator) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			// A tick racing with stop is dropped.
			select {
			case <-stop:
				return
			default:
			}
			buf := a.synth.Tick()
			if a.sink != nil {
				a.sink(buf)
			}
		}
	}
}

func (a *Animator) Stop() {
	a.mu.Lock()
	stop, done := a.stop, a.done
	a.stop, a.done = nil, nil
	a.mu.Unlock()
	if stop == nil {
		return
	}
	close(stop)
	<-done
}

func (a *Animator) Active() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stop != nil
}

// BindAnimator runs a while the synth session is Running.
func BindAnimator(s *Synth, a *Animator) (unbind func()) {
	unsub := s.Subscribe(func(ev SynthEvent) {
		if ev.Kind != EventStateChanged {
			return
		}
		if ev.To == StateRunning {
			a.Start()
		} else {
			a.Stop()
		}
	})
	if s.Running() {
		a.Start()
	}
	return func() {
		unsub()
		a.Stop()
	}
}
