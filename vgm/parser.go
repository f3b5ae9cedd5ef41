// Package vgm decodes VGM sound logs into header fields, GD3 metadata and
// an ordered list of commands.
//
// Only the structure of the stream is decoded here: every command is split
// off with its operand bytes whatever chip it targets, and interpreting the
// commands is left to the consumer.
package vgm

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	// ErrInvalidHeader is returned when the data is not a VGM file
	ErrInvalidHeader = errors.New("invalid vgm header")

	// ErrTruncated is returned when a command runs past the end of the data
	ErrTruncated = errors.New("vgm data truncated")

	// ErrInvalidCommand is returned for structurally invalid commands
	ErrInvalidCommand = errors.New("invalid vgm command")
)

var magic = []byte("Vgm ")

// Header offsets
const (
	offEOF          = 0x04
	offVersion      = 0x08
	offGD3          = 0x14
	offTotalSamples = 0x18
	offLoop         = 0x1C
	offLoopSamples  = 0x20
	offRate         = 0x24
	offDataOffset   = 0x34
	offNESAPUClock  = 0x84

	minHeaderSize   = 0x40
	defaultDataBase = 0x40
)

// Header holds the VGM header fields relevant to NES APU logs. Offsets are
// absolute file positions (0 when absent).
type Header struct {
	Version      uint32
	EOFOffset    uint32
	GD3Offset    uint32
	TotalSamples uint32
	LoopOffset   uint32
	LoopSamples  uint32
	Rate         uint32
	DataOffset   uint32
	NESAPUClock  uint32 // bit 31 set = dual chip
}

// VersionString formats the BCD version, e.g. "1.61"
func (h Header) VersionString() string {
	return fmt.Sprintf("%x.%02x", h.Version>>8, h.Version&0xFF)
}

// DualNESAPU reports whether the header declares two NES APUs
func (h Header) DualNESAPU() bool {
	return h.NESAPUClock&0x80000000 != 0
}

// File is a decoded VGM file
type File struct {
	Header   Header
	Commands []Command
	Tag      *Tag // nil when the file has no valid GD3 tag
}

// Parse decodes an uncompressed VGM file. The command list ends with the
// 0x66 end-of-data command when the file has one. Command payloads point
// into data.
func Parse(data []byte) (*File, error) {
	if len(data) < minHeaderSize || !bytes.Equal(data[0:4], magic) {
		return nil, ErrInvalidHeader
	}

	u32 := func(off int) uint32 {
		return binary.LittleEndian.Uint32(data[off : off+4])
	}
	// relative converts a relative offset field to an absolute position
	relative := func(off int) uint32 {
		v := u32(off)
		if v == 0 {
			return 0
		}
		return uint32(off) + v
	}

	h := Header{
		Version:      u32(offVersion),
		EOFOffset:    relative(offEOF),
		GD3Offset:    relative(offGD3),
		TotalSamples: u32(offTotalSamples),
		LoopOffset:   relative(offLoop),
		LoopSamples:  u32(offLoopSamples),
		Rate:         u32(offRate),
	}

	h.DataOffset = defaultDataBase
	if h.Version >= 0x150 {
		if off := relative(offDataOffset); off != 0 {
			h.DataOffset = off
		}
	}
	if int(h.DataOffset) > len(data) {
		return nil, fmt.Errorf("%w: data offset 0x%X beyond end of file", ErrInvalidHeader, h.DataOffset)
	}
	// Fields past 0x40 only exist if the header extends that far
	if h.DataOffset >= offNESAPUClock+4 && len(data) >= offNESAPUClock+4 {
		h.NESAPUClock = u32(offNESAPUClock)
	}

	end := len(data)
	for _, off := range []uint32{h.EOFOffset, h.GD3Offset} {
		// The tag normally follows the command data
		if off != 0 && int(off) < end && off >= h.DataOffset {
			end = int(off)
		}
	}

	cmds, err := parseCommands(data[h.DataOffset:end], int(h.DataOffset))
	if err != nil {
		return nil, err
	}

	f := &File{Header: h, Commands: cmds}
	if h.GD3Offset != 0 && int(h.GD3Offset) < len(data) {
		// A damaged tag doesn't affect the music data
		if tag, err := ParseGD3(data[h.GD3Offset:]); err == nil {
			f.Tag = tag
		}
	}
	return f, nil
}

// parseCommands splits the data area into commands. base is the file
// offset of data[0], used in error messages.
func parseCommands(data []byte, base int) ([]Command, error) {
	cmds := make([]Command, 0, len(data)/3)
	for i := 0; i < len(data); {
		n, err := operandLength(data[i:])
		if err != nil {
			return nil, fmt.Errorf("offset 0x%X: %w", base+i, err)
		}
		if i+1+n > len(data) {
			return nil, fmt.Errorf("%w: command 0x%02X at offset 0x%X", ErrTruncated, data[i], base+i)
		}
		cmds = append(cmds, Command{
			Opcode:  data[i],
			Payload: data[i+1 : i+1+n : i+1+n],
		})
		if data[i] == OpEnd {
			break
		}
		i += 1 + n
	}
	return cmds, nil
}
