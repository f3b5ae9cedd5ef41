package apu

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownPolicy is returned by PolicyByName for unrecognized names
var ErrUnknownPolicy = errors.New("unknown clocking policy")

// ClockingPolicy captures everything that differs between the two
// historical conversion setups: how long a tick is, whether the frame
// sequencer mode gates length counter clocking, how length and linear
// counter values are scaled into ticks, and whether high pitches are dropped.
type ClockingPolicy struct {
	Name string

	// TickSamples is the tick length in source samples (44100 Hz)
	TickSamples int

	// FrameSequencer enables 4-step/5-step gating from the $4017 mode byte.
	// When false the mode byte is ignored and every tick clocks counters.
	FrameSequencer bool

	// Length scales a length table entry into ticks
	Length func(tableValue int) int

	// Linear scales a 7-bit linear counter reload value into ticks
	Linear func(reload int) int

	// PitchCeiling, when non-zero, silences any pitch at or above it
	PitchCeiling int
}

// TickRate samples the APU at ~240 Hz, the rate of the hardware frame
// sequencer. Length counters tick at 120 Hz on hardware, so table values
// are doubled; the linear counter already ticks at 240 Hz.
var TickRate = ClockingPolicy{
	Name:           "tick",
	TickSamples:    184, // 44100/240, rounded
	FrameSequencer: true,
	Length:         func(v int) int { return v * 2 },
	Linear:         func(v int) int { return v },
	PitchCeiling:   100,
}

// FrameRate samples the APU once per 60 Hz video frame. Length values
// (120 Hz units) are halved and linear values (240 Hz units) quartered,
// both rounding up so a loaded counter always lasts at least one tick.
var FrameRate = ClockingPolicy{
	Name:        "frame",
	TickSamples: 735, // 44100/60
	Length:      func(v int) int { return (v + 1) / 2 },
	Linear:      func(v int) int { return (v + 3) / 4 },
}

// PolicyByName looks up a policy by name. "a" and "b" are accepted as
// aliases for the tick and frame variants.
func PolicyByName(name string) (ClockingPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "tick", "a", "":
		return TickRate, nil
	case "frame", "b":
		return FrameRate, nil
	}
	return ClockingPolicy{}, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
}

// Validate checks that the policy can drive the tick scheduler
func (p ClockingPolicy) Validate() error {
	if p.TickSamples <= 0 {
		return fmt.Errorf("policy %q: tick length must be positive, got %d", p.Name, p.TickSamples)
	}
	if p.Length == nil || p.Linear == nil {
		return fmt.Errorf("policy %q: missing counter quantization", p.Name)
	}
	if p.PitchCeiling < 0 {
		return fmt.Errorf("policy %q: negative pitch ceiling", p.Name)
	}
	return nil
}

// Gate reports whether length counters are clocked on the given tick.
// In 5-step mode (mode bit 6) one tick out of every five is skipped.
func (p ClockingPolicy) Gate(tick int, mode uint8) bool {
	if !p.FrameSequencer {
		return true
	}
	if mode&frameModeFiveStep != 0 {
		return tick%5 != 4
	}
	return true
}

// limit applies the pitch ceiling
func (p ClockingPolicy) limit(pitch int) int {
	if p.PitchCeiling > 0 && pitch >= p.PitchCeiling {
		return 0
	}
	return pitch
}
