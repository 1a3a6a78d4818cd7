//go:build headless

package main

import (
	"context"
	"testing"
	"time"
)

func TestHeadlessOutput_CountsFramesWhileRunning(t *testing.T) {
	s, _ := newTestSynth(&fakeBackend{})
	out, err := NewEbitenOutput(DefaultDisplayConfig(), frontendDeps{synth: s, log: discardLogger()})
	if err != nil {
		t.Fatalf("NewEbitenOutput failed: %v", err)
	}
	h := out.(*HeadlessVideoOutput)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- out.Run(ctx) }()

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	waitFor(t, func() bool { return h.GetFrameCount() > 0 })
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
