// synth_compensation_test.go - Loudness compensation bands and effective gain

package main

import (
	"math"
	"testing"
)

func TestLoudnessCompensation_BaseFactors(t *testing.T) {
	want := map[WaveformKind]float64{
		WaveSine:     1.0 * 0.95,
		WaveTriangle: 0.7 * 0.95,
		WaveSawtooth: 0.5 * 0.95,
		WaveSquare:   0.3 * 0.95,
	}
	for kind, w := range want {
		if got := LoudnessCompensation(kind, 440, 0.5); math.Abs(got-w) > 1e-12 {
			t.Fatalf("%v: expected %v, got %v", kind, w, got)
		}
	}
}

func TestLoudnessCompensation_Bands(t *testing.T) {
	cases := []struct {
		freq, atten, want float64
	}{
		{20, 0, 1.2},
		{200, 1, 1.2},
		{500, 0, 1.0},
		{1000, 1, 0.9},
		{2000, 0.5, math.Pow(0.5, 0.2) * math.Pow(0.5, 0.3)},
		{4000, 0, math.Pow(0.25, 0.2)},
		{10000, 1, math.Pow(0.1, 0.3) * math.Pow(0.1, 0.8)},
	}
	for _, tc := range cases {
		if got := LoudnessCompensation(WaveSine, tc.freq, tc.atten); math.Abs(got-tc.want) > 1e-12 {
			t.Fatalf("f=%v a=%v: expected %v, got %v", tc.freq, tc.atten, tc.want, got)
		}
	}
}

func TestLoudnessCompensation_LowBandIgnoresAttenuation(t *testing.T) {
	for _, f := range []float64{20, 100, 200} {
		if LoudnessCompensation(WaveSine, f, 0) != LoudnessCompensation(WaveSine, f, 1) {
			t.Fatalf("f=%v: expected attenuation to have no effect", f)
		}
	}
}

func TestLoudnessCompensation_DecreasesWithAttenuation(t *testing.T) {
	for _, kind := range allWaveforms {
		for _, f := range []float64{201, 440, 1000, 1001, 3000, 4000, 4001, 12000, 20000} {
			prev := math.Inf(1)
			for a := 0.0; a <= 1.0001; a += 0.1 {
				got := LoudnessCompensation(kind, f, a)
				if got >= prev {
					t.Fatalf("%v f=%v: expected strictly decreasing at a=%.1f (%v >= %v)", kind, f, a, got, prev)
				}
				prev = got
			}
		}
	}
}

func TestLoudnessCompensation_SineAtLeastSquare(t *testing.T) {
	for _, f := range []float64{20, 200, 440, 1000, 2500, 4000, 9000, 20000} {
		for a := 0.0; a <= 1.0001; a += 0.25 {
			if LoudnessCompensation(WaveSine, f, a) < LoudnessCompensation(WaveSquare, f, a) {
				t.Fatalf("f=%v a=%v: expected sine >= square", f, a)
			}
		}
	}
}

func TestEffectiveGain_Defaults(t *testing.T) {
	got := DefaultParameters().gain()
	if math.Abs(got-0.228) > 1e-12 {
		t.Fatalf("expected default gain 0.228, got %v", got)
	}
}

func TestEffectiveGain_ClampsAmplitude(t *testing.T) {
	if got := EffectiveGain(-1, WaveSine, 440, 0); got != 0 {
		t.Fatalf("expected 0 for negative amplitude, got %v", got)
	}
	if got, want := EffectiveGain(3, WaveSine, 440, 0), OUTPUT_HEADROOM; math.Abs(got-want) > 1e-12 {
		t.Fatalf("expected amplitude clamped to 1 (gain %v), got %v", want, got)
	}
}
