//go:build race

package mpmcq

// RaceEnabled is true when the race detector is active. Stress tests
// that rely on acquire/release ordering the race detector cannot
// observe are skipped when this is true.
const RaceEnabled = true
