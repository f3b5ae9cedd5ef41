package apu

import (
	"math"
	"testing"
)

// TestPitch_KnownPeriods tests period to MIDI note conversion
func TestPitch_KnownPeriods(t *testing.T) {
	testCases := []struct {
		period int
		expect int
	}{
		{253, 69},  // ~440 Hz
		{0x054, 88},
		{43, 99},
		{42, 100},
		{0, 165},
		{2047, 33}, // ~54.6 Hz
	}

	for _, tc := range testCases {
		if got := PeriodToPitch(tc.period); got != tc.expect {
			t.Errorf("PeriodToPitch(%d): expected %d, got %d", tc.period, tc.expect, got)
		}
	}
}

// TestPitch_Formula cross-checks PeriodToPitch against the closed form
func TestPitch_Formula(t *testing.T) {
	for period := 0; period < 2048; period += 97 {
		hz := 1789773.0 / (16 * float64(period+1))
		want := int(math.RoundToEven(69 + 12*math.Log2(hz/440)))
		if got := PeriodToPitch(period); got != want {
			t.Errorf("PeriodToPitch(%d): expected %d, got %d", period, want, got)
		}
	}
}

// TestPitch_Monotonic tests that a longer period never gives a higher pitch
func TestPitch_Monotonic(t *testing.T) {
	prev := PeriodToPitch(0)
	for period := 1; period <= 2*2047; period++ {
		p := PeriodToPitch(period)
		if p > prev {
			t.Fatalf("PeriodToPitch(%d)=%d exceeds PeriodToPitch(%d)=%d", period, p, period-1, prev)
		}
		prev = p
	}
}

// TestPitch_Ceiling tests that only the tick policy drops high pitches
func TestPitch_Ceiling(t *testing.T) {
	regs := func(period int) [4]uint8 {
		return [4]uint8{0x0F, 0, uint8(period & 0xFF), uint8(period >> 8)}
	}

	testCases := []struct {
		period int
		tick   int
		frame  int
	}{
		{43, 99, 99},
		{42, 0, 100},
		{0, 0, 165},
		{253, 69, 69},
	}

	for _, tc := range testCases {
		if got := ResolvePitch(Pulse1, regs(tc.period), 1, TickRate); got != tc.tick {
			t.Errorf("tick period %d: expected %d, got %d", tc.period, tc.tick, got)
		}
		if got := ResolvePitch(Pulse1, regs(tc.period), 1, FrameRate); got != tc.frame {
			t.Errorf("frame period %d: expected %d, got %d", tc.period, tc.frame, got)
		}
	}
}

// TestPitch_TriangleOctave tests the triangle's doubled period
func TestPitch_TriangleOctave(t *testing.T) {
	regs := [4]uint8{0x00, 0, 126, 0} // volume nibble is ignored
	if got := ResolvePitch(Triangle, regs, 1, TickRate); got != PeriodToPitch(252) {
		t.Errorf("Triangle period 126: expected %d, got %d", PeriodToPitch(252), got)
	}
	if got := ResolvePitch(Triangle, regs, 1, TickRate); got != 69 {
		t.Errorf("Triangle period 126: expected 69, got %d", got)
	}
}

// TestPitch_Silence tests the volume and length counter mutes
func TestPitch_Silence(t *testing.T) {
	loud := [4]uint8{0x8F, 0, 253, 0}
	quiet := [4]uint8{0x80, 0, 253, 0}

	if got := ResolvePitch(Pulse1, quiet, 10, TickRate); got != 0 {
		t.Errorf("Zero volume: expected 0, got %d", got)
	}
	// Halt flag set but length 0 still mutes
	if got := ResolvePitch(Pulse2, loud, 0, TickRate); got != 0 {
		t.Errorf("Zero length: expected 0, got %d", got)
	}
	if got := ResolvePitch(Triangle, quiet, 0, TickRate); got != 0 {
		t.Errorf("Triangle zero length: expected 0, got %d", got)
	}
	if got := ResolvePitch(Noise, [4]uint8{0x00, 0, 0x05, 0}, 10, TickRate); got != 0 {
		t.Errorf("Noise zero volume: expected 0, got %d", got)
	}
}

// TestPitch_NoiseTable tests the noise bucket lookup
func TestPitch_NoiseTable(t *testing.T) {
	expected := []int{100, 100, 100, 100, 90, 90, 90, 90, 80, 80, 80, 80, 70, 70, 70, 70}
	for i, want := range expected {
		regs := [4]uint8{0x01, 0, uint8(0xF0 | i), 0}
		// Noise codes are not pitches and are never dropped by the ceiling
		if got := ResolvePitch(Noise, regs, 1, TickRate); got != want {
			t.Errorf("Noise period %d: expected %d, got %d", i, want, got)
		}
	}
}
