// audio_stream.go - Byte stream adapter between a voice chain and the output device

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
	"slices"
	"sync"
	"unsafe"
)

// nodeReader renders a voice chain on demand as float32 LE mono frames.
type nodeReader struct {
	osc       *oscillatorNode
	sampleBuf []float32
}

func newNodeReader(osc *oscillatorNode) *nodeReader {
	// Typical device reads are 4096 bytes = 1024 float32 samples
	return &nodeReader{osc: osc, sampleBuf: make([]float32, 1024)}
}

func (r *nodeReader) Read(p []byte) (n int, err error) {
	numSamples := len(p) / 4
	if numSamples == 0 {
		clear(p)
		return len(p), nil
	}
	if len(r.sampleBuf) < numSamples {
		r.sampleBuf = make([]float32, numSamples)
	}
	samples := r.sampleBuf[:numSamples]
	r.osc.fill(samples)

	copy(p, unsafe.Slice((*byte)(unsafe.Pointer(&samples[0])), numSamples*4))
	clear(p[numSamples*4:])
	return len(p), nil
}

// voiceMixer sums every started oscillator chain into one output block for
// backends that drive a single device stream.
type voiceMixer struct {
	mu      sync.Mutex
	voices  []*oscillatorNode
	scratch []float32
}

func (m *voiceMixer) add(osc *oscillatorNode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !slices.Contains(m.voices, osc) {
		m.voices = append(m.voices, osc)
	}
	return nil
}

func (m *voiceMixer) remove(osc *oscillatorNode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.voices = slices.DeleteFunc(m.voices, func(v *oscillatorNode) bool { return v == osc })
	return nil
}

func (m *voiceMixer) active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.voices)
}

func (m *voiceMixer) fill(buf []float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(buf)
	if len(m.scratch) < len(buf) {
		m.scratch = make([]float32, len(buf))
	}
	tmp := m.scratch[:len(buf)]
	for _, osc := range m.voices {
		osc.fill(tmp)
		for i, s := range tmp {
			buf[i] += s
		}
	}
	for i, s := range buf {
		buf[i] = max(-1, min(1, s))
	}
}
