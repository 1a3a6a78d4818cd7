// synth_params.go - Parameter state, validation and gesture mapping

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
	"math"
	"strconv"
	"strings"
	"time"
)

// WaveformKind selects the periodic shape generated by the voice.
type WaveformKind int

const (
	WaveSine WaveformKind = iota
	WaveSquare
	WaveSawtooth
	WaveTriangle
)

var waveformNames = [...]string{
	WaveSine:     "sine",
	WaveSquare:   "square",
	WaveSawtooth: "sawtooth",
	WaveTriangle: "triangle",
}

func (k WaveformKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("WaveformKind(%d)", int(k))
	}
	return waveformNames[k]
}

func (k WaveformKind) Valid() bool {
	return k >= WaveSine && k <= WaveTriangle
}

// ParseWaveformKind accepts the canonical names plus the short forms "sin",
// "sq", "saw" and "tri".
func ParseWaveformKind(name string) (WaveformKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sine", "sin":
		return WaveSine, nil
	case "square", "sq":
		return WaveSquare, nil
	case "sawtooth", "saw":
		return WaveSawtooth, nil
	case "triangle", "tri":
		return WaveTriangle, nil
	}
	return WaveSine, fmt.Errorf("%w: unknown waveform %q", ErrInvalidParameter, name)
}

const (
	MIN_FREQUENCY       = 20.0
	MAX_FREQUENCY       = 20000.0
	DEFAULT_FREQUENCY   = 440.0
	DEFAULT_AMPLITUDE   = 0.3 // kept low: square and sawtooth are much louder than sine at equal amplitude
	DEFAULT_ATTENUATION = 0.5

	VIS_BUFFER_LEN = 1024 // Samples per visualization buffer
	VIS_CYCLES     = 4    // Periods drawn by the synthetic trace
	VIS_CENTER     = 128  // Zero amplitude in the 0..255 sample range

	OUTPUT_HEADROOM = 0.8 // Caps peak output below full scale

	SAMPLE_RATE = 44100

	RESTART_DEBOUNCE = 20 * time.Millisecond
	GAIN_RAMP        = 10 * time.Millisecond
	TAP_MIN_SAMPLES  = 512
	TAP_SIZE         = 2048

	PARAM_STEP = 0.05 // Keyboard step for amplitude and attenuation
)

// ParameterState is the authoritative synth state. Only Synth setters write it.
type ParameterState struct {
	Frequency   float64
	Waveform    WaveformKind
	Amplitude   float64
	Attenuation float64
	IsPlaying   bool
}

func DefaultParameters() ParameterState {
	return ParameterState{
		Frequency:   DEFAULT_FREQUENCY,
		Waveform:    WaveSine,
		Amplitude:   DEFAULT_AMPLITUDE,
		Attenuation: DEFAULT_ATTENUATION,
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func validFrequency(f float64) bool {
	return isFinite(f) && f >= MIN_FREQUENCY && f <= MAX_FREQUENCY
}

func clampUnit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func clampFrequency(f float64) float64 {
	return math.Max(MIN_FREQUENCY, math.Min(MAX_FREQUENCY, f))
}

var (
	logMinFrequency = math.Log(MIN_FREQUENCY)
	logFreqSpan     = math.Log(MAX_FREQUENCY) - math.Log(MIN_FREQUENCY)
)

// FrequencyFromPosition maps a horizontal position on a surface of the given
// width onto the audible range on a logarithmic scale: the left edge is 20 Hz,
// the right edge 20 kHz and the centre their geometric mean. Positions outside
// the surface are pinned to the nearest edge. ok is false for an unusable width
// or a non-finite position.
func FrequencyFromPosition(x, width float64) (freq float64, ok bool) {
	if !isFinite(x) || !isFinite(width) || width <= 0 {
		return 0, false
	}
	x = math.Max(0, math.Min(width, x))
	return clampFrequency(math.Exp(logMinFrequency + (x/width)*logFreqSpan)), true
}

// PositionFromFrequency is the inverse of FrequencyFromPosition.
func PositionFromFrequency(freq, width float64) float64 {
	if !isFinite(freq) || width <= 0 {
		return 0
	}
	freq = clampFrequency(freq)
	return (math.Log(freq) - logMinFrequency) / logFreqSpan * width
}

// shiftSemitones moves freq by a number of equal-tempered semitones and pins
// the result to the audible range.
func shiftSemitones(freq, semitones float64) float64 {
	return clampFrequency(freq * math.Pow(2, semitones/12))
}

// ParseFrequencyText reads a frequency typed or pasted by the user, such as
// "440", "440hz", "1.5k" or "2 kHz".
func ParseFrequencyText(text string) (float64, error) {
	s := strings.ToLower(strings.TrimSpace(text))
	s = strings.TrimSpace(strings.TrimSuffix(s, "hz"))
	scale := 1.0
	if strings.HasSuffix(s, "k") {
		scale = 1000
		s = strings.TrimSpace(strings.TrimSuffix(s, "k"))
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: frequency %q", ErrInvalidParameter, text)
	}
	v *= scale
	if !validFrequency(v) {
		return 0, fmt.Errorf("%w: frequency %g Hz outside %g..%g", ErrInvalidParameter, v, MIN_FREQUENCY, MAX_FREQUENCY)
	}
	return v, nil
}
