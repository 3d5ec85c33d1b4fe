package gitcmd

import (
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes an external command in a working directory and returns
// its captured standard output.
type Runner interface {
	Run(dir, name string, args ...string) (string, error)
}

// CommandError is the typed failure raised when an external command
// exits non-zero. It carries the captured stderr and exit status so the
// caller can classify the failure without re-running the command.
type CommandError struct {
	// Name is the executable that was invoked, e.g. "git".
	Name string

	// Args are the arguments the executable was invoked with.
	Args []string

	// Dir is the working directory the command ran in. Empty means the
	// process working directory.
	Dir string

	// ExitCode is the command's exit status. -1 if the command did not
	// run at all (e.g. executable not found).
	ExitCode int

	// Stderr is the captured standard error output, trimmed.
	Stderr string

	// Err is the underlying exec error.
	Err error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s %s failed (exit %d)", e.Name, strings.Join(e.Args, " "), e.ExitCode)
	if e.Stderr != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Stderr)
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ExecRunner runs commands via os/exec. It is the production Runner.
type ExecRunner struct{}

// Run executes name with args in dir, capturing stdout and stderr
// separately so stderr can travel with the error while stdout is
// returned on success.
func (ExecRunner) Run(dir, name string, args ...string) (string, error) {
	// #nosec G204 — argv is constructed internally, not from user input
	cmd := exec.Command(name, args...)
	cmd.Dir = dir

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		exitCode := -1
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
		return "", &CommandError{
			Name:     name,
			Args:     args,
			Dir:      dir,
			ExitCode: exitCode,
			Stderr:   strings.TrimSpace(stderr.String()),
			Err:      err,
		}
	}

	return stdout.String(), nil
}
