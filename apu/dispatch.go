package apu

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/user-none/vgmnotes/vgm"
)

// ErrMalformedCommand is wrapped by every DecodeError
var ErrMalformedCommand = errors.New("malformed command")

// DecodeError reports a command whose payload does not have the size its
// opcode requires. It is fatal: there is no sensible way to continue.
type DecodeError struct {
	Opcode uint8
	Got    int
	Want   int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%v: opcode 0x%02X has %d payload bytes, want %d",
		ErrMalformedCommand, e.Opcode, e.Got, e.Want)
}

func (e *DecodeError) Unwrap() error { return ErrMalformedCommand }

// ActionKind classifies a command by what it does to the APU
type ActionKind int

const (
	ActionUnsupported ActionKind = iota
	ActionWait
	ActionRegisterWrite
	ActionEndOfStream
)

func (k ActionKind) String() string {
	switch k {
	case ActionWait:
		return "Wait"
	case ActionRegisterWrite:
		return "RegisterWrite"
	case ActionEndOfStream:
		return "EndOfStream"
	default:
		return "Unsupported"
	}
}

// Action is a classified command
type Action struct {
	Kind     ActionKind
	Samples  int   // Wait
	Register uint8 // RegisterWrite
	Value    uint8 // RegisterWrite
	Opcode   uint8
}

// Classify decodes a command into an Action. Only payload sizes are
// checked here; whether a register is modeled is decided at dispatch.
func Classify(cmd vgm.Command) (Action, error) {
	act := Action{Opcode: cmd.Opcode}
	switch {
	case cmd.Opcode == vgm.OpWaitSamples:
		if len(cmd.Payload) != 2 {
			return act, &DecodeError{Opcode: cmd.Opcode, Got: len(cmd.Payload), Want: 2}
		}
		act.Kind = ActionWait
		act.Samples = int(binary.LittleEndian.Uint16(cmd.Payload))
	case cmd.Opcode == vgm.OpWaitNTSC:
		act.Kind = ActionWait
		act.Samples = vgm.SamplesNTSCFrame
	case cmd.Opcode == vgm.OpWaitPAL:
		act.Kind = ActionWait
		act.Samples = vgm.SamplesPALFrame
	case vgm.IsShortWait(cmd.Opcode):
		act.Kind = ActionWait
		act.Samples = int(cmd.Opcode - vgm.OpWaitShort)
	case cmd.Opcode == vgm.OpNESAPUWrite:
		if len(cmd.Payload) != 2 {
			return act, &DecodeError{Opcode: cmd.Opcode, Got: len(cmd.Payload), Want: 2}
		}
		act.Kind = ActionRegisterWrite
		act.Register = cmd.Payload[0]
		act.Value = cmd.Payload[1]
	case cmd.Opcode == vgm.OpEnd:
		act.Kind = ActionEndOfStream
	default:
		act.Kind = ActionUnsupported
	}
	return act, nil
}

// Dispatch applies one command. It returns false once the stream has
// ended, after which further commands are ignored.
func (a *APU) Dispatch(cmd vgm.Command) (bool, error) {
	if a.ended {
		return false, nil
	}
	act, err := Classify(cmd)
	if err != nil {
		return false, err
	}

	switch act.Kind {
	case ActionWait:
		a.Wait(act.Samples)
	case ActionRegisterWrite:
		// Bit 7 of the register selects a second APU, which isn't modeled
		if act.Register&0x80 != 0 || !a.WriteRegister(act.Register, act.Value) {
			a.warn.Warnf("unsupported register write: 0x%02X", act.Register)
		}
	case ActionEndOfStream:
		// Any partial tick is dropped
		a.ended = true
		return false, nil
	default:
		a.warn.Warnf("unsupported command: 0x%02X", act.Opcode)
	}
	return true, nil
}

// Run dispatches commands in order until the list is exhausted or an
// end-of-stream command is seen, and returns the note timelines.
// On error no timelines are returned.
func (a *APU) Run(cmds []vgm.Command) (Timelines, error) {
	for i, cmd := range cmds {
		more, err := a.Dispatch(cmd)
		if err != nil {
			return Timelines{}, fmt.Errorf("command %d: %w", i, err)
		}
		if !more {
			break
		}
	}
	return a.Timelines(), nil
}

// Convert runs a command stream through a fresh APU. A nil Warner logs
// through the standard logger.
func Convert(cmds []vgm.Command, policy ClockingPolicy, w Warner) (Timelines, error) {
	a, err := New(policy)
	if err != nil {
		return Timelines{}, err
	}
	if w != nil {
		a.SetWarner(w)
	}
	return a.Run(cmds)
}
