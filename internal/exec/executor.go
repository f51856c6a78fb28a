// Package exec starts launcher commands as independent processes.
package exec

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/go-logr/logr"

	"github.com/johnconnor-sec/menulauncher/internal/errors"
)

// ExecutionOptions configures process execution behavior.
type ExecutionOptions struct {
	// Timeout for Run (Start never times out)
	Timeout time.Duration

	// Environment variables added to the inherited environment
	Environment map[string]string

	// Working directory (if empty, uses current directory)
	WorkingDir string
}

// ExecutionResult holds the result of a command run to completion.
type ExecutionResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
	TimedOut bool
}

// Executor runs resolved command lines.
type Executor struct {
	defaultOptions ExecutionOptions
	log            logr.Logger
}

// New creates a new Executor with default options.
func New(options ExecutionOptions, log logr.Logger) *Executor {
	if options.Timeout == 0 {
		options.Timeout = 30 * time.Second
	}

	return &Executor{
		defaultOptions: options,
		log:            log,
	}
}

// Start launches command and returns once the process is running. The
// process is not tied to ctx and keeps running after the launcher exits;
// its exit status is only logged.
func (e *Executor) Start(ctx context.Context, command string) (int, error) {
	name, args, err := e.argv(command)
	if err != nil {
		return 0, err
	}

	cmd := exec.Command(name, args...)
	e.prepare(cmd, e.defaultOptions)
	detach(cmd)

	if err := cmd.Start(); err != nil {
		return 0, errors.CommandExecutionError(command, err)
	}

	pid := cmd.Process.Pid
	e.log.V(1).Info("command started", "command", command, "pid", pid)

	go func() {
		err := cmd.Wait()
		if err != nil {
			e.log.Info("command exited", "command", command, "pid", pid, "error", err.Error())
			return
		}
		e.log.V(1).Info("command exited", "command", command, "pid", pid)
	}()

	return pid, nil
}

// Run executes command, waits for it and captures its output.
func (e *Executor) Run(ctx context.Context, command string) (*ExecutionResult, error) {
	name, args, err := e.argv(command)
	if err != nil {
		return nil, err
	}

	execCtx, cancel := context.WithTimeout(ctx, e.defaultOptions.Timeout)
	defer cancel()

	startTime := time.Now()
	cmd := exec.CommandContext(execCtx, name, args...)
	e.prepare(cmd, e.defaultOptions)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	result := &ExecutionResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(startTime),
	}

	return e.handleCommandResult(command, err, result, execCtx)
}

// argv splits command, routing it through the system shell when it uses
// shell syntax.
func (e *Executor) argv(command string) (string, []string, error) {
	if NeedsShell(command) {
		if runtime.GOOS == "windows" {
			return "cmd", []string{"/C", command}, nil
		}
		return "/bin/sh", []string{"-c", command}, nil
	}

	parts, err := SplitCommand(command)
	if err != nil {
		return "", nil, errors.CommandExecutionError(command, err)
	}
	if len(parts) == 0 {
		return "", nil, errors.New(errors.CommandExecution, "Empty command")
	}
	return parts[0], parts[1:], nil
}

func (e *Executor) prepare(cmd *exec.Cmd, options ExecutionOptions) {
	if options.WorkingDir != "" {
		cmd.Dir = options.WorkingDir
	}

	if options.Environment != nil {
		env := os.Environ()
		for key, value := range options.Environment {
			env = append(env, fmt.Sprintf("%s=%s", key, value))
		}
		cmd.Env = env
	}
}

// handleCommandResult processes the result of command execution.
func (e *Executor) handleCommandResult(command string, err error, result *ExecutionResult, ctx context.Context) (*ExecutionResult, error) {
	if ctx.Err() != nil {
		result.TimedOut = ctx.Err() == context.DeadlineExceeded
		if result.TimedOut {
			return result, errors.New(errors.CommandExecution, "Command execution timed out").
				WithDetails(fmt.Sprintf("Timeout: %v", e.defaultOptions.Timeout))
		}
		return result, errors.Wrap(ctx.Err(), errors.CommandExecution, "Command execution cancelled")
	}

	if exitError, ok := err.(*exec.ExitError); ok {
		result.ExitCode = exitError.ExitCode()
	} else if err != nil {
		return result, errors.CommandExecutionError(command, err)
	}

	return result, nil
}

// NeedsShell determines if a command requires shell execution.
func NeedsShell(command string) bool {
	shellFeatures := []string{
		"|", "&", ";", // Pipes and operators
		">", "<", // Redirections
		"$(", "`", // Command substitution
		"*", "?", // Glob patterns
		"~/", // Home expansion
	}

	for _, feature := range shellFeatures {
		if strings.Contains(command, feature) {
			return true
		}
	}

	// Leading variable assignments (VAR=value command)
	parts := strings.Fields(command)
	return len(parts) > 1 && strings.Contains(parts[0], "=") && !strings.HasPrefix(parts[0], "-")
}

// SplitCommand splits a command line into arguments, honoring single and
// double quotes and backslash escapes.
func SplitCommand(command string) ([]string, error) {
	var args []string
	var current strings.Builder
	inQuotes := false
	quoteChar := byte(0)
	escaped := false
	started := false

	for i := 0; i < len(command); i++ {
		char := command[i]

		if escaped {
			current.WriteByte(char)
			escaped = false
			continue
		}

		if char == '\\' && quoteChar != '\'' {
			escaped = true
			started = true
			continue
		}

		if !inQuotes {
			if char == '"' || char == '\'' {
				inQuotes = true
				quoteChar = char
				started = true
				continue
			}
			if char == ' ' || char == '\t' || char == '\n' {
				if started {
					args = append(args, current.String())
					current.Reset()
					started = false
				}
				continue
			}
		} else if char == quoteChar {
			inQuotes = false
			quoteChar = 0
			continue
		}

		current.WriteByte(char)
		started = true
	}

	if inQuotes {
		return nil, fmt.Errorf("unclosed quote in command: %s", command)
	}
	if escaped {
		return nil, fmt.Errorf("trailing backslash in command: %s", command)
	}

	if started {
		args = append(args, current.String())
	}

	return args, nil
}

// Program returns the executable of a command template, the first word that
// is not a placeholder. It is empty when the template starts with one.
func Program(template string) string {
	fields, err := SplitCommand(template)
	if err != nil {
		fields = strings.Fields(template)
	}
	if len(fields) == 0 || strings.HasPrefix(fields[0], "{") {
		return ""
	}
	return fields[0]
}

// Lookup reports where program is found on PATH.
func Lookup(program string) (string, error) {
	return exec.LookPath(program)
}
