package loader

import (
	"bytes"
	"fmt"

	"github.com/bodgit/sevenzip"
)

// extractFrom7z extracts the first .vgm/.vgz file from a 7z archive
func extractFrom7z(data []byte) ([]byte, string, error) {
	r, err := sevenzip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, "", fmt.Errorf("failed to open 7z: %w", err)
	}

	for _, f := range r.File {
		if f.FileInfo().IsDir() || !IsVGMFile(f.Name) {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, "", fmt.Errorf("failed to open %s: %w", f.Name, err)
		}
		member, err := limitedRead(rc)
		rc.Close()
		if err != nil {
			return nil, "", fmt.Errorf("failed to read %s: %w", f.Name, err)
		}
		return unpackMember(member, f.Name)
	}

	return nil, "", ErrNoVGMFile
}
