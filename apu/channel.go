// Package apu models the register and counter state of the NES APU's four
// tone channels and turns a stream of register writes and waits into
// run-length encoded note timelines.
package apu

import "fmt"

// Channel identifies one of the four modeled channels. The numeric value
// matches the order of the hardware register blocks ($4000-$400F).
type Channel int

const (
	Pulse1 Channel = iota
	Pulse2
	Triangle
	Noise
)

// NumChannels is the number of channels modeled by the APU
const NumChannels = 4

var channelNames = [NumChannels]string{"Pulse1", "Pulse2", "Triangle", "Noise"}

// Output labels used by the playback engine's data files
var channelLabels = [NumChannels]string{"SQR0", "SQR1", "TRI0", "NSE0"}

func (c Channel) String() string {
	if c < 0 || c >= NumChannels {
		return fmt.Sprintf("Channel(%d)", int(c))
	}
	return channelNames[c]
}

// Label returns the short label written ahead of the channel's note data.
func (c Channel) Label() string {
	if c < 0 || c >= NumChannels {
		return ""
	}
	return channelLabels[c]
}

// Channels returns all channels in register order
func Channels() [NumChannels]Channel {
	return [NumChannels]Channel{Pulse1, Pulse2, Triangle, Noise}
}
