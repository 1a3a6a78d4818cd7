//go:build !headless

// video_backend_ebiten.go - Ebiten window: drag-to-sweep surface and waveform trace

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
	"image/color"
	"log/slog"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.design/x/clipboard"
	"golang.org/x/image/font/basicfont"
)

const (
	STATUS_BAR_HEIGHT = 32
	PASTE_LIMIT       = 64 // Bytes of clipboard text considered for a frequency
)

var (
	backgroundColor = color.RGBA{12, 14, 20, 255}
	gridColor       = color.RGBA{40, 44, 56, 255}
	traceIdleColor  = color.RGBA{90, 120, 150, 255}
	traceLiveColor  = color.RGBA{0, 220, 90, 255}
	markerColor     = color.RGBA{230, 170, 40, 255}
	labelColor      = color.RGBA{190, 190, 190, 255}
	legendColor     = color.RGBA{160, 160, 160, 255}
)

// keyBindings lists the keys polled every tick. Order is the dispatch order
// when several keys go down on the same tick.
var keyBindings = []ebiten.Key{
	ebiten.KeySpace,
	ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4,
	ebiten.KeyArrowUp, ebiten.KeyArrowDown,
	ebiten.KeyArrowRight, ebiten.KeyArrowLeft,
	ebiten.KeyPageUp, ebiten.KeyPageDown,
	ebiten.KeyBracketRight, ebiten.KeyBracketLeft,
	ebiten.KeyEscape,
}

// keyAction maps a window key to a control action.
func keyAction(key ebiten.Key) controlAction {
	switch key {
	case ebiten.KeySpace:
		return actionTogglePlay
	case ebiten.KeyDigit1:
		return actionSine
	case ebiten.KeyDigit2:
		return actionSquare
	case ebiten.KeyDigit3:
		return actionSawtooth
	case ebiten.KeyDigit4:
		return actionTriangle
	case ebiten.KeyArrowUp:
		return actionAmplitudeUp
	case ebiten.KeyArrowDown:
		return actionAmplitudeDown
	case ebiten.KeyArrowRight:
		return actionSemitoneUp
	case ebiten.KeyArrowLeft:
		return actionSemitoneDown
	case ebiten.KeyPageUp:
		return actionOctaveUp
	case ebiten.KeyPageDown:
		return actionOctaveDown
	case ebiten.KeyBracketRight:
		return actionAttenuationUp
	case ebiten.KeyBracketLeft:
		return actionAttenuationDown
	case ebiten.KeyEscape:
		return actionQuit
	}
	return actionNone
}

type EbitenOutput struct {
	synth  *Synth
	status *runtimeStatusStore
	log    *slog.Logger
	ctx    context.Context

	title         string
	width         int
	height        int
	windowedW     int
	windowedH     int
	fullscreen    bool
	showStatusBar bool

	frame      VisualizationBuffer
	live       bool
	dragging   bool
	lastDragX  int
	frameCount uint64
	quit       bool

	clipboardOnce sync.Once
	clipboardOK   bool
}

func NewEbitenOutput(config DisplayConfig, deps frontendDeps) (Frontend, error) {
	if config.Width <= 0 || config.Height <= STATUS_BAR_HEIGHT {
		return nil, &VideoError{
			Operation: "window creation",
			Details:   fmt.Sprintf("invalid size %dx%d", config.Width, config.Height),
		}
	}
	return &EbitenOutput{
		synth:         deps.synth,
		status:        deps.status,
		log:           deps.log,
		title:         config.Title,
		width:         config.Width,
		height:        config.Height,
		windowedW:     config.Width,
		windowedH:     config.Height,
		fullscreen:    config.Fullscreen,
		showStatusBar: config.ShowStatus,
		lastDragX:     -1,
	}, nil
}

func (eo *EbitenOutput) Name() string { return FRONTEND_EBITEN }

// Run must be called from the main goroutine.
func (eo *EbitenOutput) Run(ctx context.Context) error {
	eo.ctx = ctx
	ebiten.SetWindowSize(eo.windowedW, eo.windowedH)
	ebiten.SetWindowTitle(eo.title)
	ebiten.SetWindowResizable(true)
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetVsyncEnabled(true)
	if eo.fullscreen {
		ebiten.SetFullscreen(true)
	}
	if err := ebiten.RunGame(eo); err != nil {
		return &VideoError{Operation: "run", Details: "ebiten", Err: err}
	}
	return nil
}

func (eo *EbitenOutput) Update() error {
	if ebiten.IsWindowBeingClosed() || eo.quit || (eo.ctx != nil && eo.ctx.Err() != nil) {
		return ebiten.Termination
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		eo.fullscreen = !eo.fullscreen
		ebiten.SetFullscreen(eo.fullscreen)
		if !eo.fullscreen {
			ebiten.SetWindowSize(eo.windowedW, eo.windowedH)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF10) {
		eo.synth.Reset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		eo.showStatusBar = !eo.showStatusBar
	}
	eo.handleKeyboardInput()
	eo.handlePointerInput()

	if eo.synth.Running() {
		eo.frame = eo.synth.Tick()
		eo.live = eo.synth.VoiceActive()
	} else {
		eo.frame = eo.synth.Buffer()
		eo.live = false
	}
	return nil
}

func (eo *EbitenOutput) handleKeyboardInput() {
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight)
	shift := ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight)

	// Clipboard paste: Ctrl+Shift+V
	if ctrl && shift && inpututil.IsKeyJustPressed(ebiten.KeyV) {
		eo.handleClipboardPaste()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) && !ctrl {
		eo.synth.Reset()
	}

	ctx := eo.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	for _, key := range keyBindings {
		if !inpututil.IsKeyJustPressed(key) {
			continue
		}
		a := keyAction(key)
		if a == actionQuit {
			eo.quit = true
			return
		}
		if err := applyAction(ctx, eo.synth, a); err != nil {
			eo.log.Warn("control action failed", "action", a, "err", err)
		}
	}
}

// handlePointerInput turns a mouse drag or the first touch into a frequency.
func (eo *EbitenOutput) handlePointerInput() {
	x, pressed := 0, false
	if ids := ebiten.AppendTouchIDs(nil); len(ids) > 0 {
		x, _ = ebiten.TouchPosition(ids[0])
		pressed = true
	} else if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		x, _ = ebiten.CursorPosition()
		pressed = true
	}
	if !pressed {
		eo.dragging = false
		eo.lastDragX = -1
		return
	}
	eo.dragging = true
	if x == eo.lastDragX {
		return
	}
	eo.lastDragX = x
	eo.synth.SetFrequencyFromPosition(float64(x), float64(eo.width))
}

func (eo *EbitenOutput) handleClipboardPaste() {
	eo.clipboardOnce.Do(func() {
		eo.clipboardOK = clipboard.Init() == nil
	})
	if !eo.clipboardOK {
		return
	}
	data := clipboard.Read(clipboard.FmtText)
	if len(data) == 0 {
		return
	}
	if len(data) > PASTE_LIMIT {
		data = data[:PASTE_LIMIT]
	}
	freq, err := ParseFrequencyText(string(data))
	if err != nil {
		eo.log.Warn("clipboard paste ignored", "err", err)
		return
	}
	eo.synth.SetFrequency(freq)
}

func (eo *EbitenOutput) traceHeight() int {
	if eo.showStatusBar {
		return eo.height - STATUS_BAR_HEIGHT
	}
	return eo.height
}

func (eo *EbitenOutput) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	h := float32(eo.traceHeight())
	w := float32(eo.width)

	vector.StrokeLine(screen, 0, h/2, w, h/2, 1, gridColor, false)

	p := eo.synth.State()
	mx := float32(PositionFromFrequency(p.Frequency, float64(eo.width)))
	vector.StrokeLine(screen, mx, 0, mx, h, 1, markerColor, false)

	if n := len(eo.frame); n > 1 {
		c := traceIdleColor
		if eo.live {
			c = traceLiveColor
		}
		sampleY := func(v uint8) float32 { return (255 - float32(v)) / 255 * (h - 1) }
		step := w / float32(n-1)
		for i := 1; i < n; i++ {
			vector.StrokeLine(screen,
				float32(i-1)*step, sampleY(eo.frame[i-1]),
				float32(i)*step, sampleY(eo.frame[i]),
				1.5, c, true)
		}
	}

	if eo.showStatusBar {
		eo.drawRuntimeStatusBar(screen)
	}
	eo.frameCount++
}

func (eo *EbitenOutput) Layout(_, _ int) (int, int) {
	return eo.width, eo.height
}

func (eo *EbitenOutput) drawRuntimeStatusBar(screen *ebiten.Image) {
	y := eo.height - STATUS_BAR_HEIGHT
	vector.DrawFilledRect(screen, 0, float32(y), float32(eo.width), STATUS_BAR_HEIGHT, color.RGBA{0, 0, 0, 180}, false)

	face := basicfont.Face7x13
	text.Draw(screen, eo.status.snapshot().statusLine(), face, 6, y+13, labelColor)

	legend := "Space Play  1-4 Wave  Up/Dn Amp  L/R Semitone  [ ] Atten  F10 Reset  F11 Fullscreen  F12 Status Bar"
	legendX := max(eo.width-text.BoundString(face, legend).Dx()-6, 6)
	text.Draw(screen, legend, face, legendX, y+27, legendColor)
}

func init() {
	compiledFeatures = append(compiledFeatures, "frontend:ebiten")
}
