// audio_nodes_test.go - Signal chain rendering, ramps and the byte stream

package main

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"
	"time"
)

func buildChain(t *testing.T, kind WaveformKind, freq, gain float64) (*oscillatorNode, *gainNode, *analyserNode) {
	t.Helper()
	osc := newOscillatorNode(SAMPLE_RATE)
	g := newGainNode(SAMPLE_RATE)
	a := newAnalyserNode(TAP_SIZE)
	if err := osc.SetKind(kind); err != nil {
		t.Fatalf("SetKind failed: %v", err)
	}
	osc.SetFrequency(freq, 0)
	g.SetGain(gain, 0)
	if err := osc.Connect(g); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if err := g.Connect(a); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if err := a.Connect(&destinationNode{}); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if err := osc.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	return osc, g, a
}

func TestOscillatorNode_KindFixedOnceStarted(t *testing.T) {
	osc := newOscillatorNode(SAMPLE_RATE)
	if err := osc.SetKind(WaveSquare); err != nil {
		t.Fatalf("SetKind before start failed: %v", err)
	}
	if err := osc.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := osc.SetKind(WaveSine); !errors.Is(err, ErrOscillatorStarted) {
		t.Fatalf("expected ErrOscillatorStarted, got %v", err)
	}
	if err := osc.Start(); !errors.Is(err, ErrOscillatorStarted) {
		t.Fatalf("expected restart to fail, got %v", err)
	}
	if err := osc.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if err := osc.Stop(); !errors.Is(err, ErrOscillatorStopped) {
		t.Fatalf("expected ErrOscillatorStopped on second stop, got %v", err)
	}
}

func TestOscillatorNode_SilentWithoutDestination(t *testing.T) {
	osc := newOscillatorNode(SAMPLE_RATE)
	g := newGainNode(SAMPLE_RATE)
	_ = osc.Connect(g)
	_ = osc.Start()

	buf := make([]float32, 256)
	osc.fill(buf)
	for i, s := range buf {
		if s != 0 {
			t.Fatalf("sample %d: expected silence for unterminated chain, got %v", i, s)
		}
	}
}

func TestOscillatorNode_PeakFollowsGain(t *testing.T) {
	for _, kind := range allWaveforms {
		osc, _, _ := buildChain(t, kind, 441, 0.5)
		buf := make([]float32, SAMPLE_RATE/10)
		osc.fill(buf)
		peak := float32(0)
		for _, s := range buf {
			peak = max(peak, float32(math.Abs(float64(s))))
		}
		// polyBLEP may overshoot slightly at the edges
		if peak < 0.45 || peak > 0.56 {
			t.Fatalf("%v: expected peak near 0.5, got %v", kind, peak)
		}
	}
}

func TestOscillatorNode_SineFrequency(t *testing.T) {
	osc, _, _ := buildChain(t, WaveSine, 1000, 1)
	buf := make([]float32, SAMPLE_RATE)
	osc.fill(buf)
	crossings := 0
	for i := 1; i < len(buf); i++ {
		if buf[i-1] < 0 && buf[i] >= 0 {
			crossings++
		}
	}
	if crossings < 998 || crossings > 1001 {
		t.Fatalf("expected ~1000 rising zero crossings in 1s, got %d", crossings)
	}
}

func TestRampedParam(t *testing.T) {
	var r rampedParam
	r.set(0, 0)
	r.set(1, 4)
	got := []float64{r.next(), r.next(), r.next(), r.next(), r.next()}
	want := []float64{0.25, 0.5, 0.75, 1, 1}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Fatalf("step %d: expected %v, got %v", i, want[i], got[i])
		}
	}
	r.set(0.3, 0)
	if r.next() != 0.3 {
		t.Fatal("expected immediate jump with zero samples")
	}
}

func TestGainNode_RampsOverDuration(t *testing.T) {
	g := newGainNode(1000)
	g.SetGain(0, 0)
	g.SetGain(1, 10*time.Millisecond)
	if g.Gain() != 1 {
		t.Fatalf("expected target 1, got %v", g.Gain())
	}
	buf := make([]float32, 20)
	for i := range buf {
		buf[i] = 1
	}
	g.process(buf)
	if buf[0] >= buf[5] || buf[5] >= buf[9] {
		t.Fatalf("expected rising ramp, got %v", buf[:10])
	}
	if buf[9] != 1 || buf[19] != 1 {
		t.Fatalf("expected ramp complete after 10 samples, got %v", buf[9])
	}
}

func TestAnalyserNode_ReadsNewestChronologically(t *testing.T) {
	a := newAnalyserNode(8)
	a.process([]float32{-1, -1, -1, -1, -1, -1})
	a.process([]float32{0, 0.5, 1, -0.5})

	dst := make([]uint8, 8)
	n := a.ReadTimeDomain(dst)
	if n != 8 {
		t.Fatalf("expected full ring, got %d", n)
	}
	want := []uint8{0, 0, 0, 0, 128, 192, 255, 64}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("index %d: expected %d, got %d (%v)", i, want[i], dst[i], dst)
		}
	}

	short := newAnalyserNode(8)
	short.process([]float32{0, 0})
	if n := short.ReadTimeDomain(dst); n != 2 {
		t.Fatalf("expected 2 genuine samples, got %d", n)
	}
}

func TestNodeReader_EncodesFloat32LE(t *testing.T) {
	osc, _, _ := buildChain(t, WaveSquare, 100, 0.25)
	r := newNodeReader(osc)
	p := make([]byte, 4*64)
	n, err := r.Read(p)
	if err != nil || n != len(p) {
		t.Fatalf("Read: expected %d bytes, got %d (%v)", len(p), n, err)
	}
	// Away from the edge the square sits at +gain.
	v := math.Float32frombits(binary.LittleEndian.Uint32(p[4*10:]))
	if math.Abs(float64(v)-0.25) > 1e-6 {
		t.Fatalf("expected +0.25 sample, got %v", v)
	}
}

func TestDestinationNode_IsTerminal(t *testing.T) {
	if err := (&destinationNode{}).Connect(newGainNode(SAMPLE_RATE)); err == nil {
		t.Fatal("expected destination to refuse outgoing connections")
	}
	if err := newGainNode(SAMPLE_RATE).Connect(&fakeGain{}); !errors.Is(err, ErrForeignNode) {
		t.Fatalf("expected ErrForeignNode, got %v", err)
	}
}

func TestVoiceMixer_SumsAndClamps(t *testing.T) {
	var m voiceMixer
	a, _, _ := buildChain(t, WaveSquare, 100, 0.25)
	b, _, _ := buildChain(t, WaveSquare, 100, 0.5)
	_ = m.add(a)
	_ = m.add(b)
	_ = m.add(b)
	if m.active() != 2 {
		t.Fatalf("expected 2 voices, got %d", m.active())
	}

	buf := make([]float32, 64)
	m.fill(buf)
	if math.Abs(float64(buf[10])-0.75) > 1e-6 {
		t.Fatalf("expected summed +0.75 sample, got %v", buf[10])
	}

	c, _, _ := buildChain(t, WaveSquare, 100, 0.5)
	_ = m.add(c)
	m.fill(buf)
	if buf[10] != 1 {
		t.Fatalf("expected mix clamped to 1, got %v", buf[10])
	}

	_ = m.remove(a)
	_ = m.remove(b)
	_ = m.remove(c)
	m.fill(buf)
	for i, s := range buf {
		if s != 0 {
			t.Fatalf("expected silence with no voices, sample %d = %v", i, s)
		}
	}
}

func TestVoiceMixer_FollowsOscillatorHooks(t *testing.T) {
	var m voiceMixer
	osc := newOscillatorNode(SAMPLE_RATE)
	osc.onStart = m.add
	osc.onStop = m.remove

	if err := osc.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if m.active() != 1 {
		t.Fatalf("expected voice attached on start, got %d", m.active())
	}
	if err := osc.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if m.active() != 0 {
		t.Fatalf("expected voice detached on stop, got %d", m.active())
	}
}
