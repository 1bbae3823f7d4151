package ibdprep

import (
	"fmt"
	"strings"
)

// SchemaError reports input whose shape does not match what a format
// requires: a missing column, a ragged row, an odd haplotype column count or
// a disagreement between two files that describe the same individuals.
type SchemaError struct {
	Path string
	Line int // 1-based; 0 when the problem is not tied to one line
	Msg  string
}

func NewSchemaError(path string, line int, format string, args ...interface{}) *SchemaError {
	return &SchemaError{Path: path, Line: line, Msg: fmt.Sprintf(format, args...)}
}

func (e *SchemaError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("schema error: %s:%d: %s", e.Path, e.Line, e.Msg)
	}
	return fmt.Sprintf("schema error: %s: %s", e.Path, e.Msg)
}

// RangeError reports a genetic map query that cannot be answered from the
// reference map.
type RangeError struct {
	Position int64
	Msg      string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("range error: position %d: %s", e.Position, e.Msg)
}

// ExternalToolError reports that an external binary could not be started or
// exited with a non-zero code. ExitCode is -1 when the process never ran.
type ExternalToolError struct {
	Tool     string
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ExternalToolError) Error() string {
	b := strings.Builder{}
	fmt.Fprintf(&b, "external tool %s %s", e.Tool, strings.Join(e.Args, " "))
	if e.ExitCode >= 0 {
		fmt.Fprintf(&b, " exited with code %d", e.ExitCode)
	} else if e.Err != nil {
		fmt.Fprintf(&b, " failed to run: %v", e.Err)
	}
	if tail := strings.TrimSpace(e.Stderr); tail != "" {
		fmt.Fprintf(&b, "; stderr: %s", tail)
	}
	return b.String()
}

func (e *ExternalToolError) Unwrap() error {
	return e.Err
}

// IOError reports a path that could not be opened, read, written or renamed.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("io error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
