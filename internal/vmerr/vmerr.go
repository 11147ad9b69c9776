// Package vmerr defines the error taxonomy the AI5 runtime uses to decide
// whether an anomaly unwinds the process or is logged and ignored.
package vmerr

import (
	"errors"
	"fmt"
	"os"
)

// Fatal is returned for conditions the VM cannot continue past: stack
// underflow/overflow, out-of-range memory offsets, unknown critical
// opcodes, invalid CALL targets or procedure indices, and impossible
// savedata ranges. The caller of the VM loop is expected to unwind the
// process after logging it.
type Fatal struct {
	IP      uint32
	MESName string
	Frames  []string
	Msg     string
}

func (e *Fatal) Error() string {
	return fmt.Sprintf("fatal: %s (mes=%s ip=%#06x, call stack: %v)", e.Msg, e.MESName, e.IP, e.Frames)
}

// NewFatal builds a Fatal error carrying the current IP/MES for diagnostics.
func NewFatal(ip uint32, mesName string, frames []string, format string, args ...any) *Fatal {
	return &Fatal{IP: ip, MESName: mesName, Frames: frames, Msg: fmt.Sprintf(format, args...)}
}

// Warning covers recoverable anomalies: an unregistered sys/util slot, a
// malformed parameter list, a missing asset, an unknown opcode in an
// optional slot. The VM logs it and continues with a safe default.
type Warning struct {
	Msg string
}

func (e *Warning) Error() string { return e.Msg }

// NewWarning builds a Warning.
func NewWarning(format string, args ...any) *Warning {
	return &Warning{Msg: fmt.Sprintf(format, args...)}
}

// UserVisible covers conditions that should surface a modal dialog and
// exit: missing INI, missing font, missing start-MES file.
type UserVisible struct {
	Msg string
}

func (e *UserVisible) Error() string { return e.Msg }

// NewUserVisible builds a UserVisible error.
func NewUserVisible(format string, args ...any) *UserVisible {
	return &UserVisible{Msg: fmt.Sprintf(format, args...)}
}

// IsFatal reports whether err (or something it wraps) is a *Fatal.
func IsFatal(err error) bool {
	var f *Fatal
	return errors.As(err, &f)
}

// Warn prints a one-line warning to stderr, matching the teacher's plain
// fmt.Println-to-console reporting rather than a structured logger.
func Warn(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "warning: "+format+"\n", args...)
}
