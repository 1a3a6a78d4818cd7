// synth_compensation.go - Perceptual loudness compensation

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

// Per-waveform loudness relative to a sine at equal peak amplitude.
// Richer harmonic content sounds louder, so those shapes are scaled down.
var waveformBaseFactor = [...]float64{
	WaveSine:     1.0,
	WaveSquare:   0.3,
	WaveSawtooth: 0.5,
	WaveTriangle: 0.7,
}

const (
	LOW_BAND_EDGE   = 200.0  // Hz, fixed boost at and below
	MID_BAND_EDGE   = 1000.0 // Hz, near-neutral band upper edge
	HIGH_BAND_EDGE  = 4000.0 // Hz, gentle rolloff upper edge
	LOW_BAND_BOOST  = 1.2
	MID_BAND_SLOPE  = 0.1
	HIGH_FIXED_EXP  = 0.2
	HIGH_USER_EXP   = 0.6
	UPPER_FIXED_EXP = 0.3
	UPPER_USER_EXP  = 0.8
)

// LoudnessCompensation returns the gain multiplier that keeps perceived
// loudness roughly level across waveform kinds and frequency bands.
// attenuation in [0,1] strengthens the rolloff above 200 Hz.
func LoudnessCompensation(kind WaveformKind, frequency, attenuation float64) float64 {
	base := 1.0
	if kind.Valid() {
		base = waveformBaseFactor[kind]
	}
	return base * bandFactor(frequency, attenuation)
}

func bandFactor(freq, attenuation float64) float64 {
	switch {
	case freq <= LOW_BAND_EDGE:
		// Low frequencies are harder to hear; the attenuation knob does not apply.
		return LOW_BAND_BOOST
	case freq <= MID_BAND_EDGE:
		return 1.0 - attenuation*MID_BAND_SLOPE
	case freq <= HIGH_BAND_EDGE:
		r := MID_BAND_EDGE / freq
		return math.Pow(r, HIGH_FIXED_EXP) * math.Pow(r, attenuation*HIGH_USER_EXP)
	default:
		r := MID_BAND_EDGE / freq
		return math.Pow(r, UPPER_FIXED_EXP) * math.Pow(r, attenuation*UPPER_USER_EXP)
	}
}

// EffectiveGain is the linear gain applied to the voice.
func EffectiveGain(amplitude float64, kind WaveformKind, frequency, attenuation float64) float64 {
	return clampUnit(amplitude) * OUTPUT_HEADROOM * LoudnessCompensation(kind, frequency, attenuation)
}

func (p ParameterState) gain() float64 {
	return EffectiveGain(p.Amplitude, p.Waveform, p.Frequency, p.Attenuation)
}
