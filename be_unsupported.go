//go:build !(amd64 || arm64 || 386 || arm || riscv64 || loong64 || mipsle || mips64le || ppc64le || wasm)

package main

// The audio stream reinterprets []float32 sample blocks as the device's
// float32 little-endian byte stream without conversion.
var _ = "Intuition Sweep requires a little-endian architecture" + 1
