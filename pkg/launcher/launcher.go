package launcher

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"os/exec"

	"github.com/Qwinci/hzlauncher/pkg/errors"
)

// Runner starts the game runtime and waits for it to exit.
type Runner interface {
	// Run returns the process exit code. err is only set when the process
	// could not be started or waited on.
	Run(ctx context.Context, name string, args []string) (exitCode int, err error)
}

// ExecRunner runs the process with the given standard streams, which default
// to the launcher's own.
type ExecRunner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func NewExecRunner() *ExecRunner {
	return &ExecRunner{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

func (r *ExecRunner) Run(ctx context.Context, name string, args []string) (int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	if err := cmd.Start(); err != nil {
		return -1, errors.Wrapf(err, errors.ErrLaunch, "failed to start %s", name)
	}

	err := cmd.Wait()
	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	if err != nil {
		return -1, errors.Wrapf(err, errors.ErrLaunch, "failed to wait for %s", name)
	}

	return cmd.ProcessState.ExitCode(), nil
}
