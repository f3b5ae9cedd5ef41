package textout

import (
	"strings"

	"github.com/rivo/uniseg"
)

// textWidth is the display width of s in columns
func textWidth(s string) int {
	return uniseg.StringWidth(s)
}

// wrap fills words into lines of at most width columns, every line starting
// with prefix. Words are separated by single spaces. Spaces at line breaks
// are dropped, and a word that can't fit on a line of its own is split,
// its first piece filling whatever room is left on the current line.
func wrap(words []string, width int, prefix string) []string {
	avail := width - textWidth(prefix)

	// Alternate word and space chunks, as they appear in the joined text
	chunks := make([]string, 0, 2*len(words))
	for i, w := range words {
		if i > 0 {
			chunks = append(chunks, " ")
		}
		chunks = append(chunks, w)
	}

	var lines []string
	for len(chunks) > 0 {
		var line []string
		used := 0

		// No leading space on continuation lines
		if chunks[0] == " " && len(lines) > 0 {
			chunks = chunks[1:]
		}

		for len(chunks) > 0 {
			w := textWidth(chunks[0])
			if used+w > avail {
				break
			}
			line = append(line, chunks[0])
			used += w
			chunks = chunks[1:]
		}

		if len(chunks) > 0 && textWidth(chunks[0]) > avail {
			// A full line gets an empty piece, which keeps its trailing space
			head, tail := splitColumns(chunks[0], avail-used)
			line = append(line, head)
			chunks[0] = tail
		}

		if n := len(line); n > 0 && line[n-1] == " " {
			line = line[:n-1]
		}
		if len(line) > 0 {
			lines = append(lines, prefix+strings.Join(line, ""))
		}
	}
	return lines
}

// splitColumns splits s after the first n columns' worth of grapheme clusters
func splitColumns(s string, n int) (string, string) {
	if n <= 0 {
		return "", s
	}
	used := 0
	rest := s
	state := -1
	var cluster string
	var w int
	for len(rest) > 0 {
		cluster, rest, w, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if used+w > n && used > 0 {
			return s[:len(s)-len(rest)-len(cluster)], cluster + rest
		}
		used += w
	}
	return s, ""
}
