package git

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/NicabarNimble/go-gitprovision/internal/errors"
)

// Result holds the outcome of one git invocation
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Runner executes git subcommands.
// Run returns an error only when the command could not be run at all;
// a non-zero exit status is reported through Result.ExitCode.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (*Result, error)
}

// ExecRunner runs git as a child process
type ExecRunner struct {
	Binary string
	Env    []string // Extra environment entries appended to os.Environ()
}

// NewExecRunner creates a runner for the given git executable
func NewExecRunner(binary string) *ExecRunner {
	if binary == "" {
		binary = "git"
	}
	return &ExecRunner{
		Binary: binary,
		Env:    []string{"GIT_TERMINAL_PROMPT=0"},
	}
}

// Run executes the binary with args in dir and waits for it to exit
func (r *ExecRunner) Run(ctx context.Context, dir string, args ...string) (*Result, error) {
	op := r.Binary
	if len(args) > 0 {
		op = args[0]
	}

	cmd := exec.CommandContext(ctx, r.Binary, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), r.Env...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := &Result{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.New(op, fmt.Errorf("command interrupted: %w", ctx.Err()))
		}
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, errors.New(op, fmt.Errorf("failed to run %s: %w", r.Binary, err))
		}
		result.ExitCode = exitErr.ExitCode()
	}
	return result, nil
}
