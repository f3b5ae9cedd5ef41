package apu

import "math"

// NTSC CPU clock driving the APU timers
const cpuClockHz = 1789773.0

// The triangle has no volume control; treat it as always at full volume
const triangleVolume = 15

// noiseTable maps the 4-bit noise period to a brightness bucket. These are
// codes understood by the playback engine, not MIDI note numbers.
var noiseTable = [16]int{100, 100, 100, 100, 90, 90, 90, 90, 80, 80, 80, 80, 70, 70, 70, 70}

// Pitch resolves the audible pitch of a channel from the current register
// and counter state. 0 means silent.
func (a *APU) Pitch(ch Channel) int {
	return ResolvePitch(ch, a.regs[ch], a.length[ch], a.policy)
}

// ResolvePitch turns a channel's registers and length counter into a pitch
// code: a MIDI note number for the melodic channels, a noiseTable bucket for
// the noise channel, or 0 for silence. A zero length counter always
// silences the channel, even when the halt flag is set.
func ResolvePitch(ch Channel, regs [4]uint8, length int, policy ClockingPolicy) int {
	vol := int(regs[0] & 0x0F)
	if ch == Triangle {
		vol = triangleVolume
	}
	if length == 0 {
		vol = 0
	}
	if vol == 0 {
		return 0
	}

	switch ch {
	case Noise:
		return noiseTable[regs[2]&0x0F]
	case Triangle:
		// The triangle's sequencer has 32 steps against the pulse's 16,
		// so the same period sounds an octave lower.
		return policy.limit(PeriodToPitch(2 * timerPeriod(regs)))
	default:
		return policy.limit(PeriodToPitch(timerPeriod(regs)))
	}
}

// timerPeriod assembles the 11-bit timer period from reg2 and reg3
func timerPeriod(regs [4]uint8) int {
	return int(regs[3]&0x07)<<8 | int(regs[2])
}

// PeriodToPitch converts a pulse-style timer period to the nearest MIDI
// note number. Period 0 is valid and gives the highest frequency.
func PeriodToPitch(period int) int {
	hz := cpuClockHz / (16 * float64(period+1))
	return int(math.RoundToEven(69 + 12*math.Log2(hz/440)))
}
