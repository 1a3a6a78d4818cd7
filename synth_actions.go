// synth_actions.go - Control actions shared by the keyboard-driven frontends

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
)

type controlAction int

const (
	actionNone controlAction = iota
	actionTogglePlay
	actionSine
	actionSquare
	actionSawtooth
	actionTriangle
	actionAmplitudeUp
	actionAmplitudeDown
	actionSemitoneUp
	actionSemitoneDown
	actionOctaveUp
	actionOctaveDown
	actionAttenuationUp
	actionAttenuationDown
	actionReset
	actionQuit
)

var actionNames = [...]string{
	actionNone:            "none",
	actionTogglePlay:      "toggle-play",
	actionSine:            "sine",
	actionSquare:          "square",
	actionSawtooth:        "sawtooth",
	actionTriangle:        "triangle",
	actionAmplitudeUp:     "amplitude-up",
	actionAmplitudeDown:   "amplitude-down",
	actionSemitoneUp:      "semitone-up",
	actionSemitoneDown:    "semitone-down",
	actionOctaveUp:        "octave-up",
	actionOctaveDown:      "octave-down",
	actionAttenuationUp:   "attenuation-up",
	actionAttenuationDown: "attenuation-down",
	actionReset:           "reset",
	actionQuit:            "quit",
}

func (a controlAction) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return fmt.Sprintf("controlAction(%d)", int(a))
	}
	return actionNames[a]
}

// applyAction performs a on s. Only a failed start returns an error.
// actionQuit is left to the frontend.
func applyAction(ctx context.Context, s *Synth, a controlAction) error {
	switch a {
	case actionTogglePlay:
		if s.Running() {
			s.Stop()
			return nil
		}
		return s.Start(ctx)
	case actionSine:
		s.SetWaveform(WaveSine)
	case actionSquare:
		s.SetWaveform(WaveSquare)
	case actionSawtooth:
		s.SetWaveform(WaveSawtooth)
	case actionTriangle:
		s.SetWaveform(WaveTriangle)
	case actionAmplitudeUp:
		s.SetAmplitude(min(1, s.State().Amplitude+PARAM_STEP))
	case actionAmplitudeDown:
		s.SetAmplitude(s.State().Amplitude - PARAM_STEP)
	case actionSemitoneUp:
		s.NudgeFrequency(1)
	case actionSemitoneDown:
		s.NudgeFrequency(-1)
	case actionOctaveUp:
		s.NudgeFrequency(12)
	case actionOctaveDown:
		s.NudgeFrequency(-12)
	case actionAttenuationUp:
		s.SetAttenuation(s.State().Attenuation + PARAM_STEP)
	case actionAttenuationDown:
		s.SetAttenuation(s.State().Attenuation - PARAM_STEP)
	case actionReset:
		s.Reset()
	}
	return nil
}

// terminalKeyAction maps a raw-mode terminal byte to an action.
func terminalKeyAction(b byte) controlAction {
	switch b {
	case ' ', '\r', '\n':
		return actionTogglePlay
	case '1':
		return actionSine
	case '2':
		return actionSquare
	case '3':
		return actionSawtooth
	case '4':
		return actionTriangle
	case '+', '=':
		return actionAmplitudeUp
	case '-', '_':
		return actionAmplitudeDown
	case '.', '>':
		return actionSemitoneUp
	case ',', '<':
		return actionSemitoneDown
	case 'o':
		return actionOctaveUp
	case 'O':
		return actionOctaveDown
	case ']':
		return actionAttenuationUp
	case '[':
		return actionAttenuationDown
	case 'r', 'R':
		return actionReset
	case 'q', 'Q', 0x03: // Ctrl+C
		return actionQuit
	}
	return actionNone
}
