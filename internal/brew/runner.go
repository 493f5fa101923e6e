package brew

import (
	"io"
	"os"
	"os/exec"
)

// StdioPolicy selects how an external command's stdio is wired. Bootstrap
// and install commands inherit the caller's terminal; routine maintenance
// commands (unlink, tap, prune) silence their chatter.
type StdioPolicy int

const (
	// StdioInherit passes the process's stdin/stdout/stderr through.
	StdioInherit StdioPolicy = iota
	// StdioSilenceStdout discards stdout but keeps stderr visible.
	StdioSilenceStdout
	// StdioSilenceAll discards both stdout and stderr.
	StdioSilenceAll
)

// Runner executes external commands on behalf of the brew layer. dir is
// the working directory ("" means inherit). Implementations surface
// non-zero exits as *CommandError.
type Runner interface {
	// Run executes name with args under the given stdio policy.
	Run(dir string, policy StdioPolicy, name string, args ...string) error
	// Output executes name with args and returns its raw stdout.
	Output(dir string, name string, args ...string) (string, error)
}

// NewRunner returns the exec-backed Runner used outside tests.
func NewRunner() Runner {
	return execRunner{}
}

type execRunner struct{}

func (execRunner) Run(dir string, policy StdioPolicy, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin

	switch policy {
	case StdioInherit:
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	case StdioSilenceStdout:
		cmd.Stdout = io.Discard
		cmd.Stderr = os.Stderr
	case StdioSilenceAll:
		cmd.Stdout = io.Discard
		cmd.Stderr = io.Discard
	}

	if err := cmd.Run(); err != nil {
		return &CommandError{Name: name, Args: args, Err: err}
	}
	return nil
}

func (execRunner) Output(dir string, name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir

	out, err := cmd.Output()
	if err != nil {
		cmdErr := &CommandError{Name: name, Args: args, Err: err}
		if exitErr, ok := err.(*exec.ExitError); ok {
			cmdErr.Stderr = string(exitErr.Stderr)
		}
		return "", cmdErr
	}
	return string(out), nil
}
