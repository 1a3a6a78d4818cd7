// synth_tap.go - Converts live analyser output into visualization frames

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

// LiveTap reads the voice's analyser once per animation tick. Frames with
// fewer than minSamples genuine points are discarded so the caller can fall
// back to the synthetic trace.
type LiveTap struct {
	minSamples int
	scratch    []uint8
}

func NewLiveTap(minSamples int) *LiveTap {
	if minSamples <= 0 {
		minSamples = TAP_MIN_SAMPLES
	}
	return &LiveTap{minSamples: min(minSamples, VIS_BUFFER_LEN)}
}

// Read returns a full VIS_BUFFER_LEN frame built from the newest analyser
// window, or false when the tap has not produced enough data yet.
func (t *LiveTap) Read(a Analyser) (VisualizationBuffer, bool) {
	if a == nil {
		return nil, false
	}
	size := a.Size()
	if size <= 0 {
		return nil, false
	}
	if cap(t.scratch) < size {
		t.scratch = make([]uint8, size)
	}
	raw := t.scratch[:size]
	n := a.ReadTimeDomain(raw)
	return t.fromSamples(raw[:max(0, min(n, size))])
}

// fromSamples strides raw down to at most VIS_BUFFER_LEN points and pads the
// tail by repeating the first minSamples points.
func (t *LiveTap) fromSamples(raw []uint8) (VisualizationBuffer, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	stride := (len(raw) + VIS_BUFFER_LEN - 1) / VIS_BUFFER_LEN

	buf := make(VisualizationBuffer, VIS_BUFFER_LEN)
	genuine := 0
	for i := 0; i < len(raw) && genuine < VIS_BUFFER_LEN; i += stride {
		buf[genuine] = raw[i]
		genuine++
	}
	if genuine < t.minSamples {
		return nil, false
	}
	for i := genuine; i < VIS_BUFFER_LEN; i++ {
		buf[i] = buf[i%t.minSamples]
	}
	return buf, true
}
