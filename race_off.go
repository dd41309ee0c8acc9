//go:build !race

package mpmcq

// RaceEnabled is false when the race detector is not active.
const RaceEnabled = false
