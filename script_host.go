// script_host.go - Lua automation of synth gestures

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
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	lua "github.com/yuin/gopher-lua"
)

const SCRIPT_MAX_SLEEP = time.Minute

// ScriptHost exposes the synth to Lua as a global "synth" table:
//
//	synth.start()              -> ok, err
//	synth.stop()
//	synth.frequency(hz)        -> accepted
//	synth.drag(x, width)       -> accepted
//	synth.nudge(semitones)     -> accepted
//	synth.waveform(name)       -> accepted
//	synth.amplitude(a)         -> accepted
//	synth.attenuation(a)       -> accepted
//	synth.reset()
//	synth.sleep(ms)
//	synth.state()              -> {frequency, waveform, amplitude, attenuation, playing, voice, gain}
//	synth.buffer()             -> array of 1024 samples (1-based)
type ScriptHost struct {
	synth *Synth
	log   *slog.Logger
}

func NewScriptHost(synth *Synth, log *slog.Logger) *ScriptHost {
	if log == nil {
		log = slog.Default()
	}
	return &ScriptHost{synth: synth, log: log}
}

// Exec runs src to completion. Cancelling ctx aborts the script, including
// one blocked in synth.sleep.
func (h *ScriptHost) Exec(ctx context.Context, name, src string) error {
	L := lua.NewState()
	defer L.Close()
	L.SetContext(ctx)

	tbl := L.NewTable()
	L.SetFuncs(tbl, h.functions(ctx))
	L.SetGlobal("synth", tbl)

	if err := L.DoString(src); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("script %s: %w", name, err)
	}
	return nil
}

func (h *ScriptHost) functions(ctx context.Context) map[string]lua.LGFunction {
	return map[string]lua.LGFunction{
		"start": func(L *lua.LState) int {
			if err := h.synth.Start(ctx); err != nil {
				L.Push(lua.LFalse)
				L.Push(lua.LString(err.Error()))
				return 2
			}
			L.Push(lua.LTrue)
			return 1
		},
		"stop": func(L *lua.LState) int {
			h.synth.Stop()
			return 0
		},
		"reset": func(L *lua.LState) int {
			h.synth.Reset()
			return 0
		},
		"frequency": func(L *lua.LState) int {
			L.Push(lua.LBool(h.synth.SetFrequency(float64(L.CheckNumber(1)))))
			return 1
		},
		"drag": func(L *lua.LState) int {
			x, w := float64(L.CheckNumber(1)), float64(L.CheckNumber(2))
			L.Push(lua.LBool(h.synth.SetFrequencyFromPosition(x, w)))
			return 1
		},
		"nudge": func(L *lua.LState) int {
			L.Push(lua.LBool(h.synth.NudgeFrequency(float64(L.CheckNumber(1)))))
			return 1
		},
		"waveform": func(L *lua.LState) int {
			kind, err := ParseWaveformKind(L.CheckString(1))
			if err != nil {
				L.ArgError(1, err.Error())
				return 0
			}
			L.Push(lua.LBool(h.synth.SetWaveform(kind)))
			return 1
		},
		"amplitude": func(L *lua.LState) int {
			L.Push(lua.LBool(h.synth.SetAmplitude(float64(L.CheckNumber(1)))))
			return 1
		},
		"attenuation": func(L *lua.LState) int {
			L.Push(lua.LBool(h.synth.SetAttenuation(float64(L.CheckNumber(1)))))
			return 1
		},
		"sleep": func(L *lua.LState) int {
			d := time.Duration(float64(L.CheckNumber(1)) * float64(time.Millisecond))
			d = max(0, min(SCRIPT_MAX_SLEEP, d))
			timer := time.NewTimer(d)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				L.RaiseError("interrupted: %v", ctx.Err())
			case <-timer.C:
			}
			return 0
		},
		"state": func(L *lua.LState) int {
			p := h.synth.State()
			t := L.NewTable()
			L.SetField(t, "frequency", lua.LNumber(p.Frequency))
			L.SetField(t, "waveform", lua.LString(p.Waveform.String()))
			L.SetField(t, "amplitude", lua.LNumber(p.Amplitude))
			L.SetField(t, "attenuation", lua.LNumber(p.Attenuation))
			L.SetField(t, "playing", lua.LBool(p.IsPlaying))
			L.SetField(t, "voice", lua.LBool(h.synth.VoiceActive()))
			L.SetField(t, "gain", lua.LNumber(p.gain()))
			L.Push(t)
			return 1
		},
		"buffer": func(L *lua.LState) int {
			t := L.NewTable()
			for _, v := range h.synth.Tick() {
				t.Append(lua.LNumber(v))
			}
			L.Push(t)
			return 1
		},
		"log": func(L *lua.LState) int {
			h.log.Info(L.CheckString(1), "source", "script")
			return 0
		},
	}
}

// ScriptFrontend runs a Lua file against the synth and returns when it ends.
type ScriptFrontend struct {
	path string
	host *ScriptHost
}

func NewScriptFrontend(path string, deps frontendDeps) *ScriptFrontend {
	return &ScriptFrontend{path: path, host: NewScriptHost(deps.synth, deps.log)}
}

func (f *ScriptFrontend) Name() string { return FRONTEND_SCRIPT }

func (f *ScriptFrontend) Run(ctx context.Context) error {
	src, err := os.ReadFile(f.path)
	if err != nil {
		return fmt.Errorf("script: %w", err)
	}
	err = f.host.Exec(ctx, f.path, string(src))
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func init() {
	compiledFeatures = append(compiledFeatures, "frontend:script")
}
