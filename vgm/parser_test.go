package vgm

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
	"unicode/utf16"
)

// buildVGM assembles a minimal version 1.61 file with a header long enough
// to carry the NES APU clock, followed by the given command bytes and an
// optional GD3 tag
func buildVGM(t *testing.T, body []byte, gd3 []byte) []byte {
	t.Helper()
	const headerSize = 0x100
	data := make([]byte, headerSize)
	copy(data, "Vgm ")
	binary.LittleEndian.PutUint32(data[0x08:], 0x161)
	binary.LittleEndian.PutUint32(data[0x18:], 44100)
	binary.LittleEndian.PutUint32(data[0x34:], headerSize-0x34)
	binary.LittleEndian.PutUint32(data[0x84:], 1789772)
	data = append(data, body...)
	if gd3 != nil {
		binary.LittleEndian.PutUint32(data[0x14:], uint32(len(data)-0x14))
		data = append(data, gd3...)
	}
	binary.LittleEndian.PutUint32(data[0x04:], uint32(len(data)-0x04))
	return data
}

// buildGD3 encodes GD3 strings as UTF-16LE
func buildGD3(fields ...string) []byte {
	var body []byte
	for _, f := range fields {
		for _, u := range utf16.Encode([]rune(f)) {
			body = binary.LittleEndian.AppendUint16(body, u)
		}
		body = append(body, 0, 0)
	}
	out := []byte("Gd3 ")
	out = binary.LittleEndian.AppendUint32(out, 0x100)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(body)))
	return append(out, body...)
}

// TestParse_Commands tests splitting the data area into commands
func TestParse_Commands(t *testing.T) {
	body := []byte{
		0xB4, 0x00, 0x8F, // NES APU write
		0x61, 0x10, 0x27, // wait 10000
		0x62,
		0x63,
		0x7A,
		0x50, 0x9F, // SN76489 write, skipped by the consumer
		0x67, 0x66, 0xC2, 0x03, 0x00, 0x00, 0x00, 0xAA, 0xBB, 0xCC, // data block
		0xC0, 0x01, 0x02, 0x03,
		0x66,
		0x62, // after end, not parsed
	}
	f, err := Parse(buildVGM(t, body, nil))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	expected := []Command{
		{OpNESAPUWrite, []byte{0x00, 0x8F}},
		{OpWaitSamples, []byte{0x10, 0x27}},
		{OpWaitNTSC, []byte{}},
		{OpWaitPAL, []byte{}},
		{0x7A, []byte{}},
		{0x50, []byte{0x9F}},
		{OpDataBlock, []byte{0x66, 0xC2, 0x03, 0x00, 0x00, 0x00, 0xAA, 0xBB, 0xCC}},
		{0xC0, []byte{0x01, 0x02, 0x03}},
		{OpEnd, []byte{}},
	}
	if len(f.Commands) != len(expected) {
		t.Fatalf("Expected %d commands, got %d: %v", len(expected), len(f.Commands), f.Commands)
	}
	for i, want := range expected {
		got := f.Commands[i]
		if got.Opcode != want.Opcode || !bytes.Equal(got.Payload, want.Payload) {
			t.Errorf("Command %d: expected %v, got %v", i, want, got)
		}
	}
}

// TestParse_Header tests header field decoding
func TestParse_Header(t *testing.T) {
	f, err := Parse(buildVGM(t, []byte{0x66}, nil))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	h := f.Header
	if h.Version != 0x161 || h.VersionString() != "1.61" {
		t.Errorf("Version: expected 1.61, got %s", h.VersionString())
	}
	if h.DataOffset != 0x100 {
		t.Errorf("DataOffset: expected 0x100, got 0x%X", h.DataOffset)
	}
	if h.TotalSamples != 44100 {
		t.Errorf("TotalSamples: expected 44100, got %d", h.TotalSamples)
	}
	if h.NESAPUClock != 1789772 || h.DualNESAPU() {
		t.Errorf("NESAPUClock: expected single chip at 1789772, got 0x%08X", h.NESAPUClock)
	}
	if f.Tag != nil {
		t.Errorf("Expected no tag, got %+v", f.Tag)
	}
}

// TestParse_OldVersionDataOffset tests the fixed 0x40 data start before 1.50
func TestParse_OldVersionDataOffset(t *testing.T) {
	data := make([]byte, 0x40)
	copy(data, "Vgm ")
	binary.LittleEndian.PutUint32(data[0x08:], 0x110)
	binary.LittleEndian.PutUint32(data[0x34:], 0xDEAD) // ignored for old versions
	data = append(data, 0x62, 0x66)

	f, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if f.Header.DataOffset != 0x40 {
		t.Errorf("DataOffset: expected 0x40, got 0x%X", f.Header.DataOffset)
	}
	if len(f.Commands) != 2 {
		t.Errorf("Expected 2 commands, got %d", len(f.Commands))
	}
}

// TestParse_NoEndCommand tests a stream that simply runs out
func TestParse_NoEndCommand(t *testing.T) {
	f, err := Parse(buildVGM(t, []byte{0x62, 0x62}, nil))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(f.Commands) != 2 {
		t.Errorf("Expected 2 commands, got %d", len(f.Commands))
	}
}

// TestParse_Errors tests invalid and truncated input
func TestParse_Errors(t *testing.T) {
	if _, err := Parse([]byte("Vgm ")); !errors.Is(err, ErrInvalidHeader) {
		t.Errorf("Short file: expected ErrInvalidHeader, got %v", err)
	}
	bad := buildVGM(t, []byte{0x66}, nil)
	copy(bad, "Xgm ")
	if _, err := Parse(bad); !errors.Is(err, ErrInvalidHeader) {
		t.Errorf("Bad magic: expected ErrInvalidHeader, got %v", err)
	}

	truncated := [][]byte{
		{0x61, 0x10},
		{0xB4, 0x00},
		{0x67, 0x66, 0x00, 0x10, 0x00, 0x00, 0x00, 0x01},
		{0x67, 0x66},
	}
	for _, body := range truncated {
		if _, err := Parse(buildVGM(t, body, nil)); !errors.Is(err, ErrTruncated) {
			t.Errorf("Body % X: expected ErrTruncated, got %v", body, err)
		}
	}

	if _, err := Parse(buildVGM(t, []byte{0x67, 0x00, 0x00, 0, 0, 0, 0}, nil)); !errors.Is(err, ErrInvalidCommand) {
		t.Errorf("Data block without marker: expected ErrInvalidCommand, got %v", err)
	}
}

// TestParse_GD3 tests tag decoding
func TestParse_GD3(t *testing.T) {
	gd3 := buildGD3("Overworld", "地上", "Some Game", "", "NES", "", "Composer", "", "1987", "ripper", "notes")
	f, err := Parse(buildVGM(t, []byte{0x62, 0x66}, gd3))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if f.Tag == nil {
		t.Fatal("Expected GD3 tag")
	}
	if f.Tag.TrackName != "Overworld" || f.Tag.TrackNameJP != "地上" {
		t.Errorf("Track names: got %q / %q", f.Tag.TrackName, f.Tag.TrackNameJP)
	}
	if f.Tag.Author != "Composer" || f.Tag.ReleaseDate != "1987" || f.Tag.Notes != "notes" {
		t.Errorf("Unexpected tag: %+v", f.Tag)
	}
	if got := f.Tag.Title(); got != "Some Game - Overworld" {
		t.Errorf("Title: expected %q, got %q", "Some Game - Overworld", got)
	}
	if len(f.Commands) != 2 {
		t.Errorf("GD3 must not be parsed as commands, got %d commands", len(f.Commands))
	}
}

// TestParse_DamagedGD3 tests that a bad tag is dropped, not fatal
func TestParse_DamagedGD3(t *testing.T) {
	gd3 := buildGD3("Track")
	copy(gd3, "Gd4 ")
	f, err := Parse(buildVGM(t, []byte{0x66}, gd3))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if f.Tag != nil {
		t.Errorf("Expected damaged tag to be dropped, got %+v", f.Tag)
	}
}

// TestTag_PartialFields tests tags that stop early
func TestTag_PartialFields(t *testing.T) {
	tag, err := ParseGD3(buildGD3("Only Track"))
	if err != nil {
		t.Fatalf("ParseGD3 failed: %v", err)
	}
	if tag.TrackName != "Only Track" || tag.GameName != "" {
		t.Errorf("Unexpected tag: %+v", tag)
	}
	if tag.Title() != "Only Track" {
		t.Errorf("Title: expected %q, got %q", "Only Track", tag.Title())
	}
}
