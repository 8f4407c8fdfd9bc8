// Copyright (c) 2025 Mochi
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"fmt"
	"io"
	"log"
	"os"
)

// VerboseEnv switches development diagnostics on when set to "1".
const VerboseEnv = "MOCHI_VERBOSE"

// Dev writes "[Component] message" diagnostics when enabled. The zero value and a
// nil *Dev are both silent.
type Dev struct {
	logger *log.Logger
}

// NewDev returns a Dev writing to w when enabled is true.
func NewDev(w io.Writer, enabled bool) *Dev {
	if !enabled || w == nil {
		return &Dev{}
	}
	return &Dev{logger: log.New(w, "", log.LstdFlags)}
}

// FromEnv returns a Dev writing to stderr when MOCHI_VERBOSE=1 or dev is true.
func FromEnv(dev bool) *Dev {
	return NewDev(os.Stderr, dev || os.Getenv(VerboseEnv) == "1")
}

// Enabled reports whether lines are written.
func (d *Dev) Enabled() bool {
	return d != nil && d.logger != nil
}

// Printf writes one masked line prefixed with the component name.
func (d *Dev) Printf(component, format string, args ...any) {
	if !d.Enabled() {
		return
	}
	d.logger.Printf("[%s] %s", component, Mask(fmt.Sprintf(format, args...)))
}

// Error writes a masked "[Component] context: err" line.
func (d *Dev) Error(component, context string, err error) {
	if !d.Enabled() || err == nil {
		return
	}
	d.logger.Printf("[%s] %s", component, PresentError(context, err))
}
