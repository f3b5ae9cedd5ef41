package apu

import (
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/user-none/vgmnotes/vgm"
)

// write builds an NES APU register write command
func write(reg, value uint8) vgm.Command {
	return vgm.Command{Opcode: vgm.OpNESAPUWrite, Payload: []byte{reg, value}}
}

// wait builds a 16-bit wait command
func wait(samples uint16) vgm.Command {
	p := make([]byte, 2)
	binary.LittleEndian.PutUint16(p, samples)
	return vgm.Command{Opcode: vgm.OpWaitSamples, Payload: p}
}

// waitTicks builds wait commands covering n ticks of the given policy
func waitTicks(policy ClockingPolicy, n int) []vgm.Command {
	var cmds []vgm.Command
	total := n * policy.TickSamples
	for total > 0 {
		chunk := min(total, 0xFFFF)
		cmds = append(cmds, wait(uint16(chunk)))
		total -= chunk
	}
	return cmds
}

func end() vgm.Command {
	return vgm.Command{Opcode: vgm.OpEnd}
}

// recorder collects warnings
type recorder struct {
	msgs []string
}

func (r *recorder) Warnf(format string, args ...any) {
	r.msgs = append(r.msgs, fmt.Sprintf(format, args...))
}

// newTestAPU creates an APU with warnings captured
func newTestAPU(t *testing.T, policy ClockingPolicy) (*APU, *recorder) {
	t.Helper()
	a, err := New(policy)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	rec := &recorder{}
	a.SetWarner(rec)
	return a, rec
}

// run dispatches commands and fails the test on error
func run(t *testing.T, a *APU, cmds ...vgm.Command) Timelines {
	t.Helper()
	tl, err := a.Run(cmds)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	return tl
}

// expandPitches flattens a timeline into one pitch per tick
func expandPitches(tl Timeline) []int {
	var out []int
	for _, n := range tl {
		for i := 0; i < n.Duration; i++ {
			out = append(out, n.Pitch)
		}
	}
	return out
}

func equalNotes(a, b Timeline) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
