//go:build !(linux && !headless && alsa)

package main

import (
	"errors"
	"testing"
)

func TestALSABackend_UnavailableWithoutTag(t *testing.T) {
	b, err := NewALSABackend(SAMPLE_RATE)
	if b != nil || !errors.Is(err, ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v, %v", b, err)
	}

	cfg, err := parseConfig([]string{"-backend", "alsa"})
	if err != nil {
		t.Fatalf("parseConfig failed: %v", err)
	}
	if _, err := selectBackend(cfg, discardLogger()); !errors.Is(err, ErrBackendUnavailable) {
		t.Fatalf("expected explicit alsa selection to fail, got %v", err)
	}
}
