package apu

// MaxNoteDuration caps a single note's duration. Longer runs of the same
// pitch continue in a new note.
const MaxNoteDuration = 9999

// Note is one run of identical pitch. Pitch 0 is silence; Duration counts ticks.
type Note struct {
	Pitch    int
	Duration int
}

// Timeline is the ordered list of notes produced for one channel
type Timeline []Note

// Timelines holds one timeline per channel, in channel order
type Timelines [NumChannels]Timeline

// NewTimeline returns a timeline seeded with the Note{0, 0} placeholder.
func NewTimeline() Timeline {
	return Timeline{{Pitch: 0, Duration: 0}}
}

// Emit records one tick of the given pitch, extending the last note when
// the pitch is unchanged and the note has room left.
func (t *Timeline) Emit(pitch int) {
	if n := len(*t); n > 0 {
		last := &(*t)[n-1]
		if last.Pitch == pitch && last.Duration < MaxNoteDuration {
			last.Duration++
			return
		}
	}
	*t = append(*t, Note{Pitch: pitch, Duration: 1})
}

// TotalDuration returns the sum of all note durations
func (t Timeline) TotalDuration() int {
	total := 0
	for _, n := range t {
		total += n.Duration
	}
	return total
}
