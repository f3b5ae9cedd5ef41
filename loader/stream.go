package loader

import (
	"archive/tar"
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/xz"
)

// Offset and value of the ustar magic in a tar header block
const (
	tarMagicOffset = 257
	tarMagic       = "ustar"
)

// compressedSuffixes are stripped from a stream's name to name its content
var compressedSuffixes = []string{".gz", ".xz", ".lz4", ".zst", ".br"}

// extractFromStream inflates a single compressed stream. The content is
// either a VGM log or a tar archive holding one.
func extractFromStream(data []byte, name string) ([]byte, string, error) {
	r, closeFn, err := newDecompressor(data, name)
	if err != nil {
		return nil, "", err
	}
	defer closeFn()

	content, err := limitedRead(r)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decompress %s: %w", name, err)
	}

	if isTar(content) {
		return extractFromTar(content)
	}
	return content, innerName(name), nil
}

// newDecompressor picks a decoder by magic bytes, falling back to the
// extension for brotli
func newDecompressor(data []byte, name string) (io.Reader, func(), error) {
	src := bytes.NewReader(data)
	noop := func() {}

	switch detectFormat(data[:min(len(data), 16)], name) {
	case formatGzip:
		gz, err := gzip.NewReader(src)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to open gzip: %w", err)
		}
		return gz, func() { gz.Close() }, nil
	case formatXZ:
		xr, err := xz.NewReader(src)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to open xz: %w", err)
		}
		return xr, noop, nil
	case formatLZ4:
		return lz4.NewReader(src), noop, nil
	case formatZstd:
		zr, err := zstd.NewReader(src)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to open zstd: %w", err)
		}
		return zr, zr.Close, nil
	case formatBrotli:
		return brotli.NewReader(src), noop, nil
	}
	return nil, noop, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
}

// isTar checks for the ustar magic in the first header block
func isTar(data []byte) bool {
	return len(data) >= tarMagicOffset+len(tarMagic) &&
		string(data[tarMagicOffset:tarMagicOffset+len(tarMagic)]) == tarMagic
}

// extractFromTar extracts the first .vgm/.vgz file from a tar archive
func extractFromTar(data []byte) ([]byte, string, error) {
	tr := tar.NewReader(bytes.NewReader(data))
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, "", fmt.Errorf("failed to read tar entry: %w", err)
		}
		if header.Typeflag != tar.TypeReg || !IsVGMFile(header.Name) {
			continue
		}

		member, err := limitedRead(tr)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read %s: %w", header.Name, err)
		}
		return unpackMember(member, header.Name)
	}
	return nil, "", ErrNoVGMFile
}

// innerName derives the name of a compressed stream's content,
// e.g. "song.vgz" -> "song.vgm", "song.vgm.xz" -> "song.vgm"
func innerName(name string) string {
	base := filepath.Base(name)
	lower := strings.ToLower(base)
	if strings.HasSuffix(lower, ".vgz") {
		return base[:len(base)-len(".vgz")] + ".vgm"
	}
	for _, suffix := range compressedSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return base[:len(base)-len(suffix)]
		}
	}
	return base
}
