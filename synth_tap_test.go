// synth_tap_test.go - Live tap downsampling, padding and fallback threshold

package main

import "testing"

func ramp(n int) []uint8 {
	out := make([]uint8, n)
	for i := range out {
		out[i] = uint8(i % 256)
	}
	return out
}

func TestLiveTap_DownsamplesByStride(t *testing.T) {
	tap := NewLiveTap(TAP_MIN_SAMPLES)
	buf, ok := tap.fromSamples(ramp(4096))
	if !ok {
		t.Fatal("expected full window to be accepted")
	}
	for i, v := range buf {
		if want := uint8((4 * i) % 256); v != want {
			t.Fatalf("sample %d: expected %d, got %d", i, want, v)
		}
	}
}

func TestLiveTap_ExactWindowPassesThrough(t *testing.T) {
	tap := NewLiveTap(TAP_MIN_SAMPLES)
	raw := ramp(VIS_BUFFER_LEN)
	buf, ok := tap.fromSamples(raw)
	if !ok {
		t.Fatal("expected exact window to be accepted")
	}
	for i := range buf {
		if buf[i] != raw[i] {
			t.Fatalf("sample %d: expected %d, got %d", i, raw[i], buf[i])
		}
	}
}

func TestLiveTap_PadsCyclically(t *testing.T) {
	tap := NewLiveTap(TAP_MIN_SAMPLES)
	raw := make([]uint8, 600)
	for i := range raw {
		raw[i] = uint8(i % 200)
	}
	buf, ok := tap.fromSamples(raw)
	if !ok {
		t.Fatal("expected 600 samples to be accepted")
	}
	if len(buf) != VIS_BUFFER_LEN {
		t.Fatalf("expected %d samples, got %d", VIS_BUFFER_LEN, len(buf))
	}
	for i := 0; i < 600; i++ {
		if buf[i] != raw[i] {
			t.Fatalf("genuine sample %d changed", i)
		}
	}
	for i := 600; i < VIS_BUFFER_LEN; i++ {
		if buf[i] != buf[i%TAP_MIN_SAMPLES] {
			t.Fatalf("padded sample %d: expected copy of %d", i, i%TAP_MIN_SAMPLES)
		}
	}
}

func TestLiveTap_ThresholdBoundary(t *testing.T) {
	tap := NewLiveTap(TAP_MIN_SAMPLES)
	if _, ok := tap.fromSamples(make([]uint8, TAP_MIN_SAMPLES-1)); ok {
		t.Fatal("expected 511 samples to fall back")
	}
	if _, ok := tap.fromSamples(make([]uint8, TAP_MIN_SAMPLES)); !ok {
		t.Fatal("expected 512 samples to be accepted")
	}
	if _, ok := tap.fromSamples(nil); ok {
		t.Fatal("expected empty read to fall back")
	}
}

func TestLiveTap_ConfigurableThreshold(t *testing.T) {
	tap := NewLiveTap(100)
	buf, ok := tap.fromSamples(ramp(150))
	if !ok {
		t.Fatal("expected 150 samples to pass a threshold of 100")
	}
	if buf[1000] != buf[0] {
		t.Fatalf("expected padding modulo 100, got %d vs %d", buf[1000], buf[0])
	}
	if NewLiveTap(5000).minSamples != VIS_BUFFER_LEN {
		t.Fatal("expected threshold capped at the buffer length")
	}
	if NewLiveTap(0).minSamples != TAP_MIN_SAMPLES {
		t.Fatal("expected default threshold for zero")
	}
}

func TestLiveTap_ReadsAnalyser(t *testing.T) {
	a := newAnalyserNode(2048)
	block := make([]float32, 2048)
	for i := range block {
		block[i] = 0.5
	}
	a.process(block)

	buf, ok := NewLiveTap(TAP_MIN_SAMPLES).Read(a)
	if !ok {
		t.Fatal("expected analyser window to be accepted")
	}
	for i, v := range buf {
		if v != 192 {
			t.Fatalf("sample %d: expected 192, got %d", i, v)
		}
	}
	if _, ok := NewLiveTap(TAP_MIN_SAMPLES).Read(newAnalyserNode(2048)); ok {
		t.Fatal("expected empty analyser to fall back")
	}
}
