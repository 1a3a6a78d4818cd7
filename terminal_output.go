// terminal_output.go - ASCII trace frontend for terminals and headless builds

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
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/term"
)

const (
	TERM_DEFAULT_COLS = 80
	TERM_DEFAULT_ROWS = 24
	TERM_CHROME_ROWS  = 3 // Status, help and a spare line under the trace
)

const terminalHelp = "space play/stop  1-4 wave  +/- amp  ,/. or arrows semitone  o/O octave  [/] atten  r reset  q quit"

// TerminalFrontend draws the trace with ASCII art and reads single-key
// commands from raw stdin.
type TerminalFrontend struct {
	synth  *Synth
	status *runtimeStatusStore
	out    io.Writer

	frame   atomic.Pointer[VisualizationBuffer]
	redraw  chan struct{}
	quit    chan struct{}
	quitted sync.Once
	decoder keyDecoder
}

func NewTerminalFrontend(deps frontendDeps) *TerminalFrontend {
	return &TerminalFrontend{
		synth:  deps.synth,
		status: deps.status,
		out:    os.Stdout,
		redraw: make(chan struct{}, 1),
		quit:   make(chan struct{}),
	}
}

func (t *TerminalFrontend) Name() string { return FRONTEND_TERMINAL }

func (t *TerminalFrontend) Run(ctx context.Context) error {
	host := NewTerminalHost(func(b byte) { t.handleKey(ctx, b) })
	if err := host.Start(); err != nil {
		return &VideoError{Operation: "terminal start", Details: "raw mode", Err: err}
	}
	defer host.Stop()

	anim := NewAnimator(t.synth, DEFAULT_FRAME_INTERVAL*2, func(buf VisualizationBuffer) {
		t.frame.Store(&buf)
		t.requestRedraw()
	})
	unbind := BindAnimator(t.synth, anim)
	defer unbind()
	unsub := t.synth.Subscribe(func(SynthEvent) { t.requestRedraw() })
	defer unsub()

	fmt.Fprint(t.out, "\x1b[?25l")
	defer fmt.Fprint(t.out, "\x1b[?25h\r\n")

	t.requestRedraw()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.quit:
			return nil
		case <-t.redraw:
			t.draw()
		}
	}
}

func (t *TerminalFrontend) requestRedraw() {
	select {
	case t.redraw <- struct{}{}:
	default:
	}
}

func (t *TerminalFrontend) handleKey(ctx context.Context, b byte) {
	a := t.decoder.feed(b)
	if a == actionQuit {
		t.quitted.Do(func() { close(t.quit) })
		return
	}
	if err := applyAction(ctx, t.synth, a); err != nil {
		t.requestRedraw()
	}
}

func (t *TerminalFrontend) draw() {
	cols, rows := TERM_DEFAULT_COLS, TERM_DEFAULT_ROWS
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 && h > 0 {
		cols, rows = w, h
	}
	buf := t.synth.Buffer()
	if t.synth.Running() {
		if p := t.frame.Load(); p != nil {
			buf = *p
		}
	}

	var sb strings.Builder
	sb.WriteString("\x1b[H\x1b[2J")
	for _, line := range renderASCIITrace(buf, cols, max(1, rows-TERM_CHROME_ROWS)) {
		sb.WriteString(line)
		sb.WriteString("\r\n")
	}
	sb.WriteString(truncateLine(t.status.snapshot().statusLine(), cols))
	sb.WriteString("\r\n")
	sb.WriteString(truncateLine(terminalHelp, cols))
	fmt.Fprint(t.out, sb.String())
}

func truncateLine(s string, cols int) string {
	if cols > 0 && len(s) > cols {
		return s[:cols]
	}
	return s
}

// renderASCIITrace plots buf across a cols x rows character grid. Sample 255
// maps to the top row, 0 to the bottom and the centre line is drawn where
// no sample lands.
func renderASCIITrace(buf VisualizationBuffer, cols, rows int) []string {
	if cols <= 0 || rows <= 0 {
		return nil
	}
	grid := make([][]byte, rows)
	centre := rowForSample(VIS_CENTER, rows)
	for r := range grid {
		fill := byte(' ')
		if r == centre {
			fill = '-'
		}
		grid[r] = []byte(strings.Repeat(string(fill), cols))
	}
	if len(buf) > 0 {
		prev := -1
		for c := 0; c < cols; c++ {
			row := rowForSample(buf[c*len(buf)/cols], rows)
			grid[row][c] = '*'
			// Join vertical jumps so square edges stay visible.
			if prev >= 0 && abs(row-prev) > 1 {
				lo, hi := min(row, prev), max(row, prev)
				for r := lo + 1; r < hi; r++ {
					grid[r][c] = '|'
				}
			}
			prev = row
		}
	}
	lines := make([]string, rows)
	for r := range grid {
		lines[r] = string(grid[r])
	}
	return lines
}

func rowForSample(v uint8, rows int) int {
	return (255 - int(v)) * (rows - 1) / 255
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// keyDecoder turns raw terminal bytes, including CSI (ESC [) and SS3 (ESC O)
// arrow sequences, into control actions.
type keyDecoder struct {
	state int // 0 plain, 1 after ESC, 2 inside a CSI or SS3 sequence
}

func (d *keyDecoder) feed(b byte) controlAction {
	switch d.state {
	case 1:
		if b == '[' || b == 'O' {
			d.state = 2
			return actionNone
		}
		d.state = 0
		return terminalKeyAction(b)
	case 2:
		// Parameter bytes such as "1;5" in modified arrows
		if b >= 0x30 && b <= 0x3f {
			return actionNone
		}
		d.state = 0
		switch b {
		case 'A':
			return actionAmplitudeUp
		case 'B':
			return actionAmplitudeDown
		case 'C':
			return actionSemitoneUp
		case 'D':
			return actionSemitoneDown
		}
		return actionNone
	}
	if b == 0x1b {
		d.state = 1
		return actionNone
	}
	return terminalKeyAction(b)
}

func init() {
	compiledFeatures = append(compiledFeatures, "frontend:terminal")
}
