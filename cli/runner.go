// Package cli provides the conversion runner shared by the command-line tools.
// It ties loading, decoding, note extraction and listing output together.
package cli

import (
	"fmt"
	"hash/crc32"
	"log"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/user-none/vgmnotes/apu"
	"github.com/user-none/vgmnotes/config"
	"github.com/user-none/vgmnotes/loader"
	"github.com/user-none/vgmnotes/textout"
	"github.com/user-none/vgmnotes/vgm"
)

// Runner converts VGM logs to note listings using one configuration.
// It holds no per-conversion state and may be shared between goroutines.
type Runner struct {
	fs     afero.Fs
	loader *loader.Loader
	cfg    *config.Config
	policy apu.ClockingPolicy
	quiet  bool
}

// Result is the outcome of converting one log
type Result struct {
	Name      string // log name, from inside the archive when packed
	Title     string // GD3 title, empty when the log has no tag
	CRC32     uint32 // checksum of the uncompressed log
	Timelines apu.Timelines
	Warnings  int
	Output    []byte
}

// NewRunner creates a Runner on fs. A nil cfg uses the defaults.
func NewRunner(fs afero.Fs, cfg *config.Config) (*Runner, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	policy, err := cfg.Policy()
	if err != nil {
		return nil, err
	}
	return &Runner{
		fs:     fs,
		loader: loader.New(fs),
		cfg:    cfg,
		policy: policy,
	}, nil
}

// SetQuiet suppresses warning output. Warnings are still counted.
func (r *Runner) SetQuiet(quiet bool) {
	r.quiet = quiet
}

// Config returns the runner's configuration
func (r *Runner) Config() *config.Config {
	return r.cfg
}

// Load reads the log at path, unpacking archives
func (r *Runner) Load(path string) ([]byte, string, error) {
	return r.loader.Load(path)
}

// Convert loads and converts the log at path
func (r *Runner) Convert(path string) (*Result, error) {
	data, name, err := r.Load(path)
	if err != nil {
		return nil, err
	}
	return r.ConvertBytes(data, name)
}

// ConvertBytes converts an uncompressed log held in memory. name prefixes
// warnings.
func (r *Runner) ConvertBytes(data []byte, name string) (*Result, error) {
	f, err := vgm.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	warn := &countingWarner{prefix: name + ": ", quiet: r.quiet}
	tl, err := apu.Convert(f.Commands, r.policy, warn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	title := f.Tag.Title()
	out, err := textout.Format(tl, r.cfg.TextOptions(title))
	if err != nil {
		return nil, err
	}

	return &Result{
		Name:      name,
		Title:     title,
		CRC32:     crc32.ChecksumIEEE(data),
		Timelines: tl,
		Warnings:  warn.count,
		Output:    out,
	}, nil
}

// WriteOutput writes a result's listing to path atomically
func (r *Runner) WriteOutput(path string, res *Result) error {
	if err := config.AtomicWriteFile(r.fs, path, res.Output); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// strippedExts are removed from input names when naming listings
var strippedExts = map[string]bool{
	".vgm": true, ".vgz": true, ".gz": true, ".xz": true, ".lz4": true,
	".zst": true, ".br": true, ".tar": true, ".tgz": true, ".txz": true,
	".zip": true, ".7z": true, ".rar": true,
}

// OutputName returns the listing file name for an input file, replacing
// the archive, compression and .vgm extensions with ext.
func OutputName(input, ext string) string {
	base := filepath.Base(input)
	for {
		e := filepath.Ext(base)
		if !strippedExts[strings.ToLower(e)] || e == base {
			break
		}
		base = strings.TrimSuffix(base, e)
	}
	return base + ext
}

// countingWarner logs warnings with the log name and counts them
type countingWarner struct {
	prefix string
	quiet  bool
	count  int
}

func (w *countingWarner) Warnf(format string, args ...any) {
	w.count++
	if !w.quiet {
		log.Print(w.prefix + fmt.Sprintf(format, args...))
	}
}
