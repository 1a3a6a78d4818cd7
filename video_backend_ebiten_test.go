//go:build !headless

package main

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestKeyAction(t *testing.T) {
	tests := []struct {
		key  ebiten.Key
		want controlAction
	}{
		{ebiten.KeySpace, actionTogglePlay},
		{ebiten.KeyDigit1, actionSine},
		{ebiten.KeyDigit4, actionTriangle},
		{ebiten.KeyArrowUp, actionAmplitudeUp},
		{ebiten.KeyArrowLeft, actionSemitoneDown},
		{ebiten.KeyPageUp, actionOctaveUp},
		{ebiten.KeyBracketLeft, actionAttenuationDown},
		{ebiten.KeyEscape, actionQuit},
		{ebiten.KeyF1, actionNone},
	}
	for _, tt := range tests {
		if got := keyAction(tt.key); got != tt.want {
			t.Errorf("%v: got %s, want %s", tt.key, got, tt.want)
		}
	}
}

func TestKeyBindingsAllMapped(t *testing.T) {
	for _, key := range keyBindings {
		if keyAction(key) == actionNone {
			t.Errorf("polled key %v has no action", key)
		}
	}
}
