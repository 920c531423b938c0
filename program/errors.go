package program

import (
	"errors"
	"fmt"
)

// StageProgram attributes link diagnostics.
const StageProgram = "PROGRAM"

var (
	ErrNotInitialized     = errors.New("program manager is not initialized")
	ErrAlreadyInitialized = errors.New("program manager is already initialized")
)

// Diagnostic is the outcome of one compilation unit.
type Diagnostic struct {
	Stage   string
	Success bool
	Log     string
}

func (d Diagnostic) String() string {
	status := "ok"
	if !d.Success {
		status = "failed"
	}
	if d.Log == "" {
		return fmt.Sprintf("%s: %s", d.Stage, status)
	}
	return fmt.Sprintf("%s: %s\n%s", d.Stage, status, d.Log)
}

// CompileError reports a stage that failed to compile (or translate).
type CompileError struct {
	Stage  string
	Origin string
	Log    string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s compilation failed (%s): %s", e.Stage, e.Origin, e.Log)
}

func (e *CompileError) Diagnostic() Diagnostic {
	return Diagnostic{Stage: e.Stage, Log: e.Log}
}

// LinkError reports stages that compiled but could not be linked together.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("%s linking failed: %s", StageProgram, e.Log)
}

func (e *LinkError) Diagnostic() Diagnostic {
	return Diagnostic{Stage: StageProgram, Log: e.Log}
}

// AttributeError reports a linked program that lacks a vertex input the
// geometry layout requires.
type AttributeError struct {
	Name string
}

func (e *AttributeError) Error() string {
	return fmt.Sprintf("program does not expose required attribute %q", e.Name)
}
