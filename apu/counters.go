package apu

// lengthTable maps the 5-bit length index in reg3 to a length in
// half-frames (120 Hz units)
var lengthTable = [32]int{
	10, 254, 20, 2, 40, 4, 80, 6, 160, 8, 60, 10, 14, 12, 26, 14,
	12, 16, 24, 18, 48, 20, 96, 22, 192, 24, 72, 26, 16, 28, 32, 30,
}

// loadLinear sets the triangle's linear counter reload from a reg0 write.
// The reload persists until the next reg0 write.
func (a *APU) loadLinear(value uint8) {
	if value == 0 {
		a.linearReload = 0
		return
	}
	a.linearReload = a.policy.Linear(int(value & 0x7F))
}

// loadLength reloads a channel's length counter from a reg3 write.
// The triangle is additionally bounded by its linear counter, which on
// hardware silences it independently of the length counter.
func (a *APU) loadLength(ch Channel, value uint8) {
	n := a.policy.Length(lengthTable[(value>>3)&0x1F])
	if ch == Triangle {
		n = min(n, a.linearReload)
	}
	a.length[ch] = max(n, 0)
}

// clockCounters decrements every non-halted length counter, flooring at 0.
// Nothing is clocked when gate is false.
func (a *APU) clockCounters(gate bool) {
	if !gate {
		return
	}
	for ch := range a.length {
		if a.regs[ch][0]&haltFlag != 0 {
			continue
		}
		if a.length[ch] > 0 {
			a.length[ch]--
		}
	}
}
