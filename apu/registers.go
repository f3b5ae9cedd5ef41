package apu

// Chip-wide registers, as offsets from $4000
const (
	RegStatus       = 0x15
	RegFrameCounter = 0x17
)

// Channel register blocks occupy $4000-$400F
const channelRegEnd = 0x10

const (
	haltFlag          = 0x80 // reg0 bit 7: length counter halt (triangle: linear control)
	frameModeFiveStep = 0x40 // $4017 bit 6
)

// WriteRegister stores a byte written to an APU register and applies the
// side effects the note extractor models. It returns false for registers
// outside the channel blocks, $4015 and $4017.
func (a *APU) WriteRegister(reg, value uint8) bool {
	switch {
	case reg < channelRegEnd:
		ch := Channel(reg / 4)
		slot := reg % 4
		a.regs[ch][slot] = value

		if ch == Triangle && slot == 0 {
			a.loadLinear(value)
		}
		if slot == 3 {
			a.loadLength(ch, value)
		}
		return true

	case reg == RegStatus:
		a.status = value
		return true

	case reg == RegFrameCounter:
		if a.policy.FrameSequencer {
			a.mode = value
		}
		return true
	}
	return false
}
