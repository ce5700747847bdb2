package linux_installer

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"
)

// CommandStatus is the outcome of an attempt to run an external tool.
type CommandStatus int

const (
	CommandSucceeded CommandStatus = iota
	CommandFailed
	CommandNotFound
)

func (s CommandStatus) String() string {
	switch s {
	case CommandSucceeded:
		return "succeeded"
	case CommandFailed:
		return "failed"
	case CommandNotFound:
		return "not found"
	default:
		return fmt.Sprintf("CommandStatus(%d)", int(s))
	}
}

// CommandResult describes a finished (or skipped) external command. The installer runs
// all of its tools on a best-effort basis and doesn't fail on a bad result, but results
// are kept so callers can log or inspect them.
type CommandResult struct {
	Name     string
	Path     string
	Args     []string
	Status   CommandStatus
	ExitCode int
	Output   string
	Err      error
}

// Ok reports whether the command ran and exited with status 0.
func (r CommandResult) Ok() bool { return r.Status == CommandSucceeded }

// CommandRunner runs a program to completion. exitCode is the program's exit status;
// err is only set if the program could not be started or waited for.
type CommandRunner interface {
	Run(path string, args ...string) (output []byte, exitCode int, err error)
}

// ExecRunner runs commands with os/exec, capturing stdout and stderr together. There
// is no timeout.
type ExecRunner struct{}

// Run implements CommandRunner.
func (ExecRunner) Run(path string, args ...string) ([]byte, int, error) {
	output, err := exec.Command(path, args...).CombinedOutput()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return output, exitErr.ExitCode(), nil
	}
	if err != nil {
		return output, -1, err
	}
	return output, 0, nil
}

// runCommand runs path with args and turns the outcome into a CommandResult, logging
// the command's output at debug level.
func runCommand(runner CommandRunner, name, path string, args ...string) CommandResult {
	logger := log.With().Str("component", "command").Logger()
	logger.Debug().Str("command", path).Strs("args", args).Msg("Executing command")
	output, exitCode, err := runner.Run(path, args...)
	result := CommandResult{
		Name:     name,
		Path:     path,
		Args:     args,
		ExitCode: exitCode,
		Output:   string(output),
		Err:      err,
	}
	switch {
	case err != nil:
		result.Status = CommandFailed
	case exitCode != 0:
		result.Status = CommandFailed
	default:
		result.Status = CommandSucceeded
	}
	event := logger.Debug()
	if !result.Ok() {
		event = logger.Warn()
	}
	event.
		Str("command", path).
		Str("status", result.Status.String()).
		Int("exitCode", exitCode).
		Err(err).
		Str("output", strings.TrimSpace(result.Output)).
		Msg("Command finished")
	return result
}

// notFound is the result for a tool that isn't installed.
func notFound(name string) CommandResult {
	return CommandResult{Name: name, Status: CommandNotFound, ExitCode: -1}
}
