package brew

import (
	"fmt"
	"strings"
)

// BootstrapError reports a fatal failure during vendored-brew bootstrap:
// a clone, fetch, tap, or artifact download that did not complete. Source
// identifies the failing URL or path, Dest the intended destination.
type BootstrapError struct {
	Step   string
	Source string
	Dest   string
	Err    error
}

func (e *BootstrapError) Error() string {
	if e.Dest != "" {
		return fmt.Sprintf("bootstrap %s failed (%s -> %s): %v", e.Step, e.Source, e.Dest, e.Err)
	}
	return fmt.Sprintf("bootstrap %s failed (%s): %v", e.Step, e.Source, e.Err)
}

func (e *BootstrapError) Unwrap() error { return e.Err }

// ParseError reports malformed or empty brew JSON output.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse brew output: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("parse brew output: %s", e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// NotFoundError reports a formula unknown to brew or the tap.
type NotFoundError struct {
	Name string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("formula %s not found: %v", e.Name, e.Err)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// NotInstalledError reports a keg-prefix query on a formula with no
// installed versions.
type NotInstalledError struct {
	Name string
}

func (e *NotInstalledError) Error() string {
	return fmt.Sprintf("formula %s is not installed", e.Name)
}

// CommandError wraps a non-zero exit from an external command, preserving
// which command ran and any captured stderr.
type CommandError struct {
	Name   string
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s %s failed: %v", e.Name, strings.Join(e.Args, " "), e.Err)
	if e.Stderr != "" {
		msg += " (stderr: " + strings.TrimSpace(e.Stderr) + ")"
	}
	return msg
}

func (e *CommandError) Unwrap() error { return e.Err }
