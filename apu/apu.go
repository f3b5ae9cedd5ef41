package apu

// APU holds the state of one conversion pass: the register bank, the
// counters, the sample clock and the per-channel note timelines.
// An APU is not safe for concurrent use and is meant to be used once;
// create a new one for every command stream.
type APU struct {
	policy ClockingPolicy
	warn   Warner

	// Register bank, four bytes per channel
	regs   [NumChannels][4]uint8
	status uint8 // $4015, stored but never consulted (all channels enabled)
	mode   uint8 // $4017, only written when the policy uses the frame sequencer

	// Counter state
	length       [NumChannels]int
	linearReload int

	// Tick scheduler
	clock int // accumulated source samples not yet consumed by a tick
	ticks int // ticks performed so far

	timelines Timelines
	ended     bool
}

// New creates an APU driven by the given clocking policy.
// Warnings go to the standard logger until SetWarner is called.
func New(policy ClockingPolicy) (*APU, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	a := &APU{
		policy: policy,
		warn:   LogWarner{},
	}
	for ch := range a.timelines {
		a.timelines[ch] = NewTimeline()
	}
	return a, nil
}

// SetWarner replaces the sink for non-fatal diagnostics. A nil warner
// discards them.
func (a *APU) SetWarner(w Warner) {
	if w == nil {
		w = discardWarner{}
	}
	a.warn = w
}

// Policy returns the clocking policy the APU was created with
func (a *APU) Policy() ClockingPolicy {
	return a.policy
}

// Registers returns the four register bytes of a channel
func (a *APU) Registers(ch Channel) [4]uint8 {
	return a.regs[ch]
}

// Length returns the current length counter of a channel
func (a *APU) Length(ch Channel) int {
	return a.length[ch]
}

// LinearReload returns the triangle channel's linear counter reload value
func (a *APU) LinearReload() int {
	return a.linearReload
}

// Mode returns the stored frame counter mode byte
func (a *APU) Mode() uint8 {
	return a.mode
}

// Status returns the stored channel enable byte
func (a *APU) Status() uint8 {
	return a.status
}

// Ticks returns the number of ticks performed
func (a *APU) Ticks() int {
	return a.ticks
}

// Pending returns the sample time accumulated towards the next tick
func (a *APU) Pending() int {
	return a.clock
}

// Ended reports whether an end-of-stream command has been seen
func (a *APU) Ended() bool {
	return a.ended
}

// Timelines returns a copy of the note timelines collected so far
func (a *APU) Timelines() Timelines {
	var out Timelines
	for ch, tl := range a.timelines {
		out[ch] = append(Timeline(nil), tl...)
	}
	return out
}
