// synth_sampler.go - Synthetic waveform trace for the visualization buffer

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

import "math"

// VisualizationBuffer holds one frame of the waveform trace: VIS_BUFFER_LEN
// samples in 0..255 with VIS_CENTER as silence. It is rebuilt wholesale on
// every change and never patched in place.
type VisualizationBuffer []uint8

// SampleWaveform renders cycles periods of kind across length samples.
// The result is centered on VIS_CENTER and scaled by amplitude but is not
// clamped; with amplitude in [0,1] every sample falls within [1,255].
// frequency does not alter the trace, which always shows a fixed number of
// periods regardless of pitch.
//
// Callers must substitute safe values for non-finite input first.
func SampleWaveform(frequency float64, kind WaveformKind, amplitude float64, cycles, length int) []int {
	if length <= 0 {
		return nil
	}
	out := make([]int, length)
	scale := amplitude * 127
	for i := range out {
		t := float64(i) / float64(length) * float64(cycles) * 2 * math.Pi
		out[i] = int(math.Round(VIS_CENTER + waveShape(kind, t)*scale))
	}
	return out
}

// waveShape evaluates a unit-amplitude waveform at phase t radians.
func waveShape(kind WaveformKind, t float64) float64 {
	switch kind {
	case WaveSquare:
		s := math.Sin(t)
		switch {
		case s > 0:
			return 1
		case s < 0:
			return -1
		}
		return 0
	case WaveSawtooth:
		return 2*frac(t/(2*math.Pi)) - 1
	case WaveTriangle:
		p := frac(t / (2 * math.Pi))
		if p < 0.5 {
			return 4*p - 1
		}
		return 3 - 4*p
	default:
		return math.Sin(t)
	}
}

func frac(x float64) float64 {
	return x - math.Floor(x)
}

// toVisualizationBuffer clamps raw sampler output into byte range.
func toVisualizationBuffer(raw []int) VisualizationBuffer {
	buf := make(VisualizationBuffer, len(raw))
	for i, v := range raw {
		buf[i] = uint8(max(0, min(255, v)))
	}
	return buf
}

// sampleParameters renders the synthetic trace for p, replacing non-finite
// frequency or amplitude with the defaults.
func sampleParameters(p ParameterState) VisualizationBuffer {
	freq, amp := p.Frequency, p.Amplitude
	if !isFinite(freq) {
		freq = DEFAULT_FREQUENCY
	}
	if !isFinite(amp) {
		amp = DEFAULT_AMPLITUDE
	}
	return toVisualizationBuffer(SampleWaveform(freq, p.Waveform, amp, VIS_CYCLES, VIS_BUFFER_LEN))
}
