// Package textout renders note timelines as BASIC-style DATA listings: one
// block per channel with a label, an underline and the pitch/duration pairs
// terminated by "0 0".
package textout

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/user-none/vgmnotes/apu"
)

// ErrInvalidWidth is returned when the line width leaves no room after the prefix
var ErrInvalidWidth = errors.New("line width too small for prefix")

// Options control the listing layout
type Options struct {
	LineWidth int                     // maximum line width including the prefix
	Prefix    string                  // written at the start of every data line
	Labels    [apu.NumChannels]string // per-channel block labels
	Title     string                  // optional, written as a REM line
}

// DefaultOptions returns the layout expected by the playback engine
func DefaultOptions() Options {
	opts := Options{
		LineWidth: 24,
		Prefix:    "DATA ",
	}
	for _, ch := range apu.Channels() {
		opts.Labels[ch] = ch.Label()
	}
	return opts
}

// Write renders all timelines to w in channel order
func Write(w io.Writer, tl apu.Timelines, opts Options) error {
	if opts.LineWidth-textWidth(opts.Prefix) < 1 {
		return fmt.Errorf("%w: width %d, prefix %q", ErrInvalidWidth, opts.LineWidth, opts.Prefix)
	}

	bw := bufio.NewWriter(w)
	if opts.Title != "" {
		fmt.Fprintf(bw, "REM %s\n\n", opts.Title)
	}
	for ch, notes := range tl {
		bw.WriteString(opts.Labels[ch])
		bw.WriteString("\n====\n")
		for i, line := range wrap(channelWords(notes), opts.LineWidth, opts.Prefix) {
			if i > 0 {
				bw.WriteByte('\n')
			}
			bw.WriteString(line)
		}
		bw.WriteString("\n\n\n")
	}
	return bw.Flush()
}

// Format renders all timelines into a byte slice
func Format(tl apu.Timelines, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, tl, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// channelWords lists the pitch and duration of every note followed by the
// end-of-track terminator
func channelWords(notes apu.Timeline) []string {
	words := make([]string, 0, 2*len(notes)+2)
	for _, n := range notes {
		words = append(words, strconv.Itoa(n.Pitch), strconv.Itoa(n.Duration))
	}
	return append(words, "0", "0")
}
