//go:build linux && !headless && alsa

// audio_backend_alsa.go - ALSA output mixing every started voice into one PCM stream

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

/*
#cgo LDFLAGS: -lasound
#include <alsa/asoundlib.h>
#include <stdlib.h>

static snd_pcm_t* openPCM(const char* device, int* err) {
    snd_pcm_t* handle = NULL;
    *err = snd_pcm_open(&handle, device, SND_PCM_STREAM_PLAYBACK, 0);
    return handle;
}

static int setupPCM(snd_pcm_t* handle, unsigned int rate) {
    snd_pcm_hw_params_t* params;
    int err;

    snd_pcm_hw_params_alloca(&params);
    err = snd_pcm_hw_params_any(handle, params);
    if (err < 0) return err;

    err = snd_pcm_hw_params_set_access(handle, params, SND_PCM_ACCESS_RW_INTERLEAVED);
    if (err < 0) return err;

    err = snd_pcm_hw_params_set_format(handle, params, SND_PCM_FORMAT_FLOAT);
    if (err < 0) return err;

    err = snd_pcm_hw_params_set_channels(handle, params, 1);
    if (err < 0) return err;

    err = snd_pcm_hw_params_set_rate(handle, params, rate, 0);
    if (err < 0) return err;

    err = snd_pcm_hw_params(handle, params);
    if (err < 0) return err;

    return snd_pcm_prepare(handle);
}

static int writePCM(snd_pcm_t* handle, float* buffer, int frames) {
    return snd_pcm_writei(handle, buffer, frames);
}

static void closePCM(snd_pcm_t* handle) {
    if (handle != NULL) {
        snd_pcm_drop(handle);
        snd_pcm_close(handle);
    }
}
*/
import "C"
import (
	"context"
	"fmt"
	"sync"
	"unsafe"
)

const ALSA_PERIODS_PER_SECOND = 100 // 10 ms blocks

// ALSABackend renders all started oscillators through one PCM handle. The
// writer goroutine starts on the first Resume; until then the device is
// opened but silent.
type ALSABackend struct {
	handle     *C.snd_pcm_t
	sampleRate int
	dest       *destinationNode
	mixer      voiceMixer

	mu        sync.Mutex
	suspended bool
	closed    bool
	writeErr  error
	stop      chan struct{}
	done      chan struct{}
}

func NewALSABackend(sampleRate int) (AudioBackend, error) {
	if sampleRate <= 0 {
		sampleRate = SAMPLE_RATE
	}
	device := C.CString("default")
	defer C.free(unsafe.Pointer(device))

	var err C.int
	handle := C.openPCM(device, &err)
	if err < 0 {
		return nil, &AudioError{Operation: "open device", Details: "alsa", Err: alsaError(err)}
	}
	if err = C.setupPCM(handle, C.uint(sampleRate)); err < 0 {
		C.closePCM(handle)
		return nil, &AudioError{Operation: "configure device", Details: "alsa", Err: alsaError(err)}
	}
	return &ALSABackend{
		handle:     handle,
		sampleRate: sampleRate,
		dest:       &destinationNode{},
		suspended:  true,
	}, nil
}

func alsaError(code C.int) error {
	return fmt.Errorf("%s", C.GoString(C.snd_strerror(code)))
}

func (b *ALSABackend) Name() string { return "alsa" }

func (b *ALSABackend) Suspended() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.suspended
}

func (b *ALSABackend) Resume(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return &AudioError{Operation: "resume", Details: "alsa", Err: ErrClosed}
	}
	if b.writeErr != nil {
		return &AudioError{Operation: "resume", Details: "alsa", Err: b.writeErr}
	}
	if !b.suspended {
		return nil
	}
	b.stop = make(chan struct{})
	b.done = make(chan struct{})
	go b.writeLoop(b.stop, b.done)
	b.suspended = false
	return nil
}

// writeLoop blocks in snd_pcm_writei, so the device paces the render.
func (b *ALSABackend) writeLoop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	block := make([]float32, max(1, b.sampleRate/ALSA_PERIODS_PER_SECOND))
	for {
		select {
		case <-stop:
			return
		default:
		}
		b.mixer.fill(block)
		frames := C.writePCM(b.handle, (*C.float)(unsafe.Pointer(&block[0])), C.int(len(block)))
		if frames == -C.EPIPE {
			// Underrun: re-prepare and retry once
			C.snd_pcm_prepare(b.handle)
			frames = C.writePCM(b.handle, (*C.float)(unsafe.Pointer(&block[0])), C.int(len(block)))
		}
		if frames < 0 {
			b.mu.Lock()
			b.writeErr = alsaError(C.int(frames))
			b.suspended = true
			b.mu.Unlock()
			return
		}
	}
}

func (b *ALSABackend) NewOscillator() (Oscillator, error) {
	if err := b.checkOpen(); err != nil {
		return nil, err
	}
	osc := newOscillatorNode(b.sampleRate)
	osc.onStart = b.mixer.add
	osc.onStop = b.mixer.remove
	return osc, nil
}

func (b *ALSABackend) NewGain() (GainNode, error) {
	if err := b.checkOpen(); err != nil {
		return nil, err
	}
	return newGainNode(b.sampleRate), nil
}

func (b *ALSABackend) NewAnalyser(size int) (Analyser, error) {
	if err := b.checkOpen(); err != nil {
		return nil, err
	}
	return newAnalyserNode(size), nil
}

func (b *ALSABackend) Destination() AudioNode { return b.dest }

func (b *ALSABackend) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	stop, done := b.stop, b.done
	b.stop, b.done = nil, nil
	b.mu.Unlock()

	if stop != nil {
		close(stop)
		<-done
	}
	C.closePCM(b.handle)
	b.handle = nil
	return nil
}

func (b *ALSABackend) checkOpen() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return &AudioError{Operation: "create node", Details: "alsa", Err: ErrClosed}
	}
	return nil
}

func init() {
	compiledFeatures = append(compiledFeatures, "audio:alsa")
}
