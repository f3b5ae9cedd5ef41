// Package loader reads VGM logs from disk, including compressed logs (vgz,
// gzip, xz, lz4, zstd, brotli) and logs packed in archives (ZIP, 7z, RAR,
// tar).
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Magic bytes for format detection
var (
	magicVGM    = []byte("Vgm ")
	magicZIP    = []byte{0x50, 0x4B, 0x03, 0x04}
	magicZIPEnd = []byte{0x50, 0x4B, 0x05, 0x06} // empty zip
	magic7z     = []byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}
	magicGzip   = []byte{0x1F, 0x8B}
	magicRAR    = []byte{0x52, 0x61, 0x72, 0x21} // "Rar!"
	magicXZ     = []byte{0xFD, 0x37, 0x7A, 0x58, 0x5A, 0x00}
	magicLZ4    = []byte{0x04, 0x22, 0x4D, 0x18}
	magicZstd   = []byte{0x28, 0xB5, 0x2F, 0xFD}
)

// Maximum log size (32MB safety limit). Logs with large PCM data blocks
// can get big, NES APU logs rarely exceed a few hundred KB.
const maxLogSize = 32 * 1024 * 1024

// ErrNoVGMFile is returned when no .vgm/.vgz file is found in an archive
var ErrNoVGMFile = errors.New("no .vgm file found in archive")

// ErrUnsupportedFormat is returned for unrecognized file formats
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ErrFileTooLarge is returned when extracted content exceeds size limit
var ErrFileTooLarge = errors.New("file exceeds maximum size limit")

// formatType represents the detected file format
type formatType int

const (
	formatUnknown formatType = iota
	formatRawVGM
	formatZIP
	format7z
	formatGzip
	formatRAR
	formatXZ
	formatLZ4
	formatZstd
	formatBrotli
)

// Loader reads logs through an afero filesystem
type Loader struct {
	fs afero.Fs
}

// New creates a Loader on the given filesystem. A nil fs uses the OS filesystem.
func New(fs afero.Fs) *Loader {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Loader{fs: fs}
}

// Load reads a VGM log from a file path. Archives and compressed files are
// unpacked automatically. Returns the uncompressed VGM data, the name of the
// log (useful for display and output naming), and any error encountered.
func (l *Loader) Load(path string) ([]byte, string, error) {
	f, err := l.fs.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	data, err := limitedRead(f)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read file: %w", err)
	}
	return Extract(data, filepath.Base(path))
}

// Extract unpacks VGM data held in memory. name is the file name the data
// came from and is used for extension based detection.
func Extract(data []byte, name string) ([]byte, string, error) {
	header := data[:min(len(data), 16)]

	switch detectFormat(header, name) {
	case formatRawVGM:
		return data, name, nil
	case formatZIP:
		return extractFromZIP(data)
	case format7z:
		return extractFrom7z(data)
	case formatRAR:
		return extractFromRAR(data)
	case formatGzip, formatXZ, formatLZ4, formatZstd, formatBrotli:
		return extractFromStream(data, name)
	default:
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
}

// detectFormat determines the file format based on magic bytes and extension
func detectFormat(header []byte, path string) formatType {
	ext := strings.ToLower(filepath.Ext(path))

	// Check magic bytes first (more reliable)
	switch {
	case bytes.HasPrefix(header, magicVGM):
		return formatRawVGM
	case bytes.HasPrefix(header, magicZIP), bytes.HasPrefix(header, magicZIPEnd):
		return formatZIP
	case bytes.HasPrefix(header, magicRAR):
		return formatRAR
	case bytes.HasPrefix(header, magic7z):
		return format7z
	case bytes.HasPrefix(header, magicXZ):
		return formatXZ
	case bytes.HasPrefix(header, magicLZ4):
		return formatLZ4
	case bytes.HasPrefix(header, magicZstd):
		return formatZstd
	case bytes.HasPrefix(header, magicGzip):
		return formatGzip
	}

	// Fall back to extension
	switch ext {
	case ".vgm":
		return formatRawVGM
	case ".zip":
		return formatZIP
	case ".7z":
		return format7z
	case ".vgz", ".gz", ".tgz":
		return formatGzip
	case ".rar":
		return formatRAR
	case ".xz", ".txz":
		return formatXZ
	case ".lz4":
		return formatLZ4
	case ".zst":
		return formatZstd
	case ".br": // brotli has no magic number
		return formatBrotli
	}

	return formatUnknown
}

// IsVGMFile checks if a filename has a .vgm or .vgz extension (case-insensitive)
func IsVGMFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".vgm" || ext == ".vgz"
}

// IsSupportedFile reports whether Load can be pointed at the file based on
// its name alone. Used when scanning directories.
func IsSupportedFile(name string) bool {
	if IsVGMFile(name) {
		return true
	}
	return detectFormat(nil, name) != formatUnknown
}

// limitedRead reads from r up to maxLogSize bytes, returning an error if exceeded
func limitedRead(r io.Reader) ([]byte, error) {
	lr := io.LimitReader(r, maxLogSize+1)
	data, err := io.ReadAll(lr)
	if err != nil {
		return nil, err
	}
	if len(data) > maxLogSize {
		return nil, ErrFileTooLarge
	}
	return data, nil
}

// unpackMember turns an archive member into VGM data, inflating .vgz members
func unpackMember(data []byte, name string) ([]byte, string, error) {
	if bytes.HasPrefix(data, magicGzip) {
		return extractFromStream(data, name)
	}
	return data, filepath.Base(name), nil
}
