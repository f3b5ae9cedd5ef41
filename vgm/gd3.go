package vgm

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"golang.org/x/text/encoding/unicode"
)

var gd3Magic = []byte("Gd3 ")

// Tag holds the GD3 metadata strings. The Japanese variants are kept
// alongside the English ones.
type Tag struct {
	Version      uint32
	TrackName    string
	TrackNameJP  string
	GameName     string
	GameNameJP   string
	SystemName   string
	SystemNameJP string
	Author       string
	AuthorJP     string
	ReleaseDate  string
	Creator      string // person who ripped the log
	Notes        string
}

// Title returns "Game - Track", falling back to whichever is present
func (t *Tag) Title() string {
	switch {
	case t == nil:
		return ""
	case t.GameName != "" && t.TrackName != "":
		return t.GameName + " - " + t.TrackName
	case t.TrackName != "":
		return t.TrackName
	}
	return t.GameName
}

// ParseGD3 decodes a GD3 tag starting at data[0]
func ParseGD3(data []byte) (*Tag, error) {
	if len(data) < 12 || !bytes.Equal(data[0:4], gd3Magic) {
		return nil, fmt.Errorf("%w: missing gd3 magic", ErrInvalidHeader)
	}
	version := binary.LittleEndian.Uint32(data[4:8])
	size := int(binary.LittleEndian.Uint32(data[8:12]))
	body := data[12:]
	if size > len(body) {
		return nil, fmt.Errorf("%w: gd3 tag", ErrTruncated)
	}
	body = body[:size]

	dec := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	var fields [11]string
	for i := range fields {
		end := utf16Terminator(body)
		if end < 0 {
			// Some rippers omit trailing empty strings
			break
		}
		s, err := dec.Bytes(body[:end])
		if err != nil {
			return nil, fmt.Errorf("gd3 field %d: %w", i, err)
		}
		fields[i] = string(s)
		body = body[end+2:]
	}

	return &Tag{
		Version:      version,
		TrackName:    fields[0],
		TrackNameJP:  fields[1],
		GameName:     fields[2],
		GameNameJP:   fields[3],
		SystemName:   fields[4],
		SystemNameJP: fields[5],
		Author:       fields[6],
		AuthorJP:     fields[7],
		ReleaseDate:  fields[8],
		Creator:      fields[9],
		Notes:        fields[10],
	}, nil
}

// utf16Terminator returns the byte index of the next 16-bit NUL, or -1
func utf16Terminator(b []byte) int {
	for i := 0; i+1 < len(b); i += 2 {
		if b[i] == 0 && b[i+1] == 0 {
			return i
		}
	}
	return -1
}
