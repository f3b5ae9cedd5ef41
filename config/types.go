package config

import "github.com/user-none/vgmnotes/apu"

// Config represents the converter configuration stored in config.json
type Config struct {
	Version int          `json:"version"`
	Variant string       `json:"variant"` // Clocking policy: "tick" or "frame"
	Output  OutputConfig `json:"output"`
	Batch   BatchConfig  `json:"batch"`
}

// OutputConfig contains listing layout settings
type OutputConfig struct {
	LineWidth    int      `json:"lineWidth"`
	Prefix       string   `json:"prefix"`
	Labels       []string `json:"labels"` // SQR0, SQR1, TRI0, NSE0 order
	IncludeTitle bool     `json:"includeTitle"`
	Extension    string   `json:"extension"` // Appended to the input base name
}

// BatchConfig contains directory conversion settings
type BatchConfig struct {
	Workers      int  `json:"workers"`
	CacheEntries int  `json:"cacheEntries"` // Converted traces kept for duplicate inputs
	Recursive    bool `json:"recursive"`
}

// DefaultConfig returns a new Config with default values
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Variant: apu.TickRate.Name,
		Output: OutputConfig{
			LineWidth:    24,
			Prefix:       "DATA ",
			Labels:       defaultLabels(),
			IncludeTitle: false,
			Extension:    ".txt",
		},
		Batch: BatchConfig{
			Workers:      4,
			CacheEntries: 64,
			Recursive:    false,
		},
	}
}

func defaultLabels() []string {
	labels := make([]string, 0, apu.NumChannels)
	for _, ch := range apu.Channels() {
		labels = append(labels, ch.Label())
	}
	return labels
}
