package brew

import (
	"strings"
)

// fakeRunner records every command issued and replays canned outputs and
// errors, keyed by the command's argument list (the executable name is
// prefix-dependent and ignored). No external process ever runs.
type fakeCall struct {
	dir    string
	policy StdioPolicy
	name   string
	args   []string
}

type fakeRunner struct {
	calls   []fakeCall
	outputs map[string]string // Output() results by joined args
	outErrs map[string]error  // Output() failures by joined args
	runErrs map[string]error  // Run() failures by joined args
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		outputs: make(map[string]string),
		outErrs: make(map[string]error),
		runErrs: make(map[string]error),
	}
}

func key(args []string) string {
	return strings.Join(args, " ")
}

func (f *fakeRunner) Run(dir string, policy StdioPolicy, name string, args ...string) error {
	f.calls = append(f.calls, fakeCall{dir: dir, policy: policy, name: name, args: args})
	if err, ok := f.runErrs[key(args)]; ok {
		return err
	}
	return nil
}

func (f *fakeRunner) Output(dir string, name string, args ...string) (string, error) {
	f.calls = append(f.calls, fakeCall{dir: dir, policy: -1, name: name, args: args})
	if err, ok := f.outErrs[key(args)]; ok {
		return "", err
	}
	return f.outputs[key(args)], nil
}

// ranCommand reports whether any recorded call matches the joined args.
func (f *fakeRunner) ranCommand(joinedArgs string) bool {
	for _, c := range f.calls {
		if key(c.args) == joinedArgs {
			return true
		}
	}
	return false
}

// runCalls returns only the Run() calls (Output calls carry policy -1).
func (f *fakeRunner) runCalls() []fakeCall {
	var out []fakeCall
	for _, c := range f.calls {
		if c.policy != -1 {
			out = append(out, c)
		}
	}
	return out
}
