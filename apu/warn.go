package apu

import (
	"fmt"
	"log"
)

// Warner receives non-fatal diagnostics, such as skipped commands
type Warner interface {
	Warnf(format string, args ...any)
}

// WarnerFunc adapts a function to the Warner interface
type WarnerFunc func(format string, args ...any)

func (f WarnerFunc) Warnf(format string, args ...any) { f(format, args...) }

// LogWarner writes warnings through the standard logger
type LogWarner struct {
	Prefix string
}

func (w LogWarner) Warnf(format string, args ...any) {
	log.Print(w.Prefix + fmt.Sprintf(format, args...))
}

type discardWarner struct{}

func (discardWarner) Warnf(string, ...any) {}
