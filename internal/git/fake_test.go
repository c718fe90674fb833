package git

import (
	"context"
	"strings"
)

// runCall records one invocation of fakeRunner
type runCall struct {
	dir  string
	args []string
}

func (c runCall) String() string {
	return strings.Join(c.args, " ")
}

// fakeRunner implements Runner for testing.
// Responses are keyed by the space-joined argument list.
type fakeRunner struct {
	calls     []runCall
	responses map[string]*Result
	err       error
	onRun     func(dir string, args []string)
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{responses: map[string]*Result{}}
}

func (f *fakeRunner) respond(args string, exitCode int, stdout, stderr string) *fakeRunner {
	f.responses[args] = &Result{
		ExitCode: exitCode,
		Stdout:   []byte(stdout),
		Stderr:   []byte(stderr),
	}
	return f
}

func (f *fakeRunner) Run(ctx context.Context, dir string, args ...string) (*Result, error) {
	call := runCall{dir: dir, args: append([]string(nil), args...)}
	f.calls = append(f.calls, call)
	if f.err != nil {
		return nil, f.err
	}
	if f.onRun != nil {
		f.onRun(dir, args)
	}
	if res, ok := f.responses[call.String()]; ok {
		return res, nil
	}
	return &Result{}, nil
}

func (f *fakeRunner) commands() []string {
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, c.String())
	}
	return out
}

// fakeRefs implements RefLister for testing
type fakeRefs struct {
	branches map[string]bool
	err      error
	queried  []string
}

func (f *fakeRefs) HasBranch(dir, branch string) (bool, error) {
	f.queried = append(f.queried, branch)
	if f.err != nil {
		return false, f.err
	}
	return f.branches[branch], nil
}
