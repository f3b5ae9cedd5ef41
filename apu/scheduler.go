package apu

// Wait advances the emulation clock by a number of source samples and
// runs every tick that fits. Leftover samples carry over to the next call.
func (a *APU) Wait(samples int) {
	if a.ended || samples <= 0 {
		return
	}
	a.clock += samples
	for a.clock >= a.policy.TickSamples {
		a.tick()
		a.clock -= a.policy.TickSamples
	}
}

// tick samples every channel's pitch, then clocks the counters
func (a *APU) tick() {
	gate := a.policy.Gate(a.ticks, a.mode)
	for ch := range a.timelines {
		a.timelines[ch].Emit(a.Pitch(Channel(ch)))
	}
	a.clockCounters(gate)
	a.ticks++
}
