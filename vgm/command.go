package vgm

import "fmt"

// Command is one decoded entry of the VGM command stream: the opcode byte
// and its operand bytes, in file order.
type Command struct {
	Opcode  uint8
	Payload []byte
}

func (c Command) String() string {
	return fmt.Sprintf("0x%02X % X", c.Opcode, c.Payload)
}

// Opcodes the note extractor acts on
const (
	OpWaitSamples = 0x61 // wait nnnn samples (16-bit little endian)
	OpWaitNTSC    = 0x62 // wait one 60 Hz frame
	OpWaitPAL     = 0x63 // wait one 50 Hz frame
	OpEnd         = 0x66 // end of sound data
	OpDataBlock   = 0x67
	OpPCMRAMWrite = 0x68
	OpWaitShort   = 0x70 // 0x70-0x7F: short wait encoded in the low nibble
	OpNESAPUWrite = 0xB4 // aa dd: write dd to NES APU register $4000+aa
)

// Sample counts for the frame wait opcodes at 44100 Hz
const (
	SamplesNTSCFrame = 735
	SamplesPALFrame  = 882
)

// SampleRate is the fixed VGM sample clock
const SampleRate = 44100

// IsShortWait reports whether op is in the 0x70-0x7F short wait range
func IsShortWait(op uint8) bool {
	return op&0xF0 == OpWaitShort
}

// dacOperands gives operand sizes for the DAC stream control commands
var dacOperands = map[uint8]int{
	0x90: 4,
	0x91: 4,
	0x92: 5,
	0x93: 10,
	0x94: 1,
	0x95: 4,
}

// operandLength returns the number of operand bytes following the opcode
// at data[0]. Data blocks are variable length and need their size field.
func operandLength(data []byte) (int, error) {
	cmd := data[0]
	switch {
	case cmd == OpDataBlock:
		// 0x67 0x66 tt ss ss ss ss
		if len(data) < 7 {
			return 0, fmt.Errorf("%w: data block header", ErrTruncated)
		}
		if data[1] != OpEnd {
			return 0, fmt.Errorf("%w: data block missing 0x66 marker", ErrInvalidCommand)
		}
		size := int(uint32(data[3]) | uint32(data[4])<<8 | uint32(data[5])<<16 | uint32(data[6])<<24)
		return 6 + size, nil
	case cmd == OpPCMRAMWrite:
		return 11, nil
	case cmd == OpWaitSamples:
		return 2, nil
	case cmd == 0x64:
		// override wait length: cc nn nn
		return 3, nil
	case cmd == OpWaitNTSC || cmd == OpWaitPAL || cmd == OpEnd:
		return 0, nil
	case IsShortWait(cmd):
		return 0, nil
	case cmd >= 0x80 && cmd <= 0x8F:
		// YM2612 DAC write + short wait
		return 0, nil
	case cmd >= 0x90 && cmd <= 0x95:
		return dacOperands[cmd], nil
	case cmd >= 0x30 && cmd <= 0x3F, cmd == 0x4F, cmd == 0x50:
		return 1, nil
	case cmd >= 0x40 && cmd <= 0x5F:
		return 2, nil
	case cmd >= 0xA0 && cmd <= 0xBF:
		return 2, nil
	case cmd >= 0xC0 && cmd <= 0xDF:
		return 3, nil
	case cmd >= 0xE0:
		return 4, nil
	}
	// Reserved single byte commands
	return 0, nil
}
