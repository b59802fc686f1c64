// Package executor runs launch targets: shell lines in the foreground for the
// CLI, and detached processes that outlive the launcher.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/kballard/go-shellquote"
)

// ErrEmptyCommand is returned when there is nothing to run.
var ErrEmptyCommand = errors.New("empty command")

// Executor runs commands in an OS-aware way.
type Executor struct {
	DryRun  bool
	Verbose bool
	Shell   string // optional override (e.g. "zsh", "pwsh")
	// Out receives dry-run notices from Spawn and Exec. Nil discards them.
	Out io.Writer
}

// Runner is an interface for executing commands. It allows tests to inject
// fake implementations without starting real processes.
type Runner interface {
	// Execute runs command through the shell and waits for it.
	Execute(ctx context.Context, command string, cwd string, stdout io.Writer, stderr io.Writer) error
	// Spawn starts command through the shell, detached, and returns its pid.
	Spawn(command string) (int, error)
	// Exec starts a program directly, detached. The line is split with shell
	// quoting rules but not interpreted by a shell.
	Exec(line string) (int, error)
}

// New returns a Runner backed by the real Executor implementation.
func New(dry, verbose bool, shell string) Runner {
	return &Executor{DryRun: dry, Verbose: verbose, Shell: shell}
}

// sanitizeCommand normalizes common unicode characters that often get
// inserted by editors (e.g., smart quotes, NBSP, zero-width spaces) and
// converts them to their ASCII equivalents where sensible.
func sanitizeCommand(s string) string {
	r := strings.NewReplacer(
		"\u2018", "'", // left single quote
		"\u2019", "'", // right single quote
		"\u201C", "\"", // left double quote
		"\u201D", "\"", // right double quote
		"\u00A0", " ", // NO-BREAK SPACE
		"\u200B", "", // zero width space
		"\u200E", "", // left-to-right mark
		"\u200F", "", // right-to-left mark
	)
	return strings.Map(func(r rune) rune {
		if r == 0 {
			return -1
		}
		return r
	}, r.Replace(s))
}

// Sanitize normalizes a command the same way Execute does. Callers use it to
// clean commands before saving them.
func Sanitize(s string) string {
	return sanitizeCommand(s)
}

func isControl(r rune) bool { return r == 0 || (r < 32 && r != '\t') || r == 0x7f }

// ValidateCommand reports newlines and control characters that would break
// execution.
func ValidateCommand(s string) error {
	if strings.Contains(s, "\n") {
		return fmt.Errorf("invalid command: contains newline characters; each command must be a single line")
	}
	if strings.IndexFunc(s, isControl) != -1 {
		return fmt.Errorf("invalid command: contains control characters; remove non-printable characters")
	}
	return nil
}

func validateAndSanitize(command string) (string, error) {
	command = strings.TrimSpace(sanitizeCommand(command))
	if command == "" {
		return "", ErrEmptyCommand
	}
	if err := ValidateCommand(command); err != nil {
		return "", err
	}
	return command, nil
}

// Execute runs the provided command string using an OS-appropriate shell
// invocation (`bash -c` on Unix, `cmd /C` on Windows) and writes its output
// to stdout and stderr. If cwd is non-empty, the command runs there.
func (e *Executor) Execute(ctx context.Context, command string, cwd string, stdout io.Writer, stderr io.Writer) error {
	command, err := validateAndSanitize(command)
	if err != nil {
		return err
	}
	if e.dryRun(command, stdout) {
		return nil
	}

	shell, args := shellInvocation(command, e.Shell)
	if err := validateShellAndArgs(shell, args); err != nil {
		return err
	}
	bout, berr, err := runShellCommand(ctx, shell, args, cwd)
	_, _ = stdout.Write(bout.Bytes())
	_, _ = stderr.Write(berr.Bytes())
	if err != nil {
		return checkExecutionError(err, bout, berr, shell, args)
	}
	return nil
}

// Spawn starts command through the shell in its own session with standard
// streams on the null device, and does not wait for it.
func (e *Executor) Spawn(command string) (int, error) {
	command, err := validateAndSanitize(command)
	if err != nil {
		return 0, err
	}
	if e.dryRun(command, e.Out) {
		return 0, nil
	}
	shell, args := shellInvocation(command, e.Shell)
	if err := validateShellAndArgs(shell, args); err != nil {
		return 0, err
	}
	return startDetached(shell, args)
}

// Exec starts the program named by the first token of line with the
// remaining tokens as arguments, detached.
func (e *Executor) Exec(line string) (int, error) {
	line, err := validateAndSanitize(line)
	if err != nil {
		return 0, err
	}
	argv := splitArgs(line)
	if len(argv) == 0 {
		return 0, ErrEmptyCommand
	}
	if e.dryRun(line, e.Out) {
		return 0, nil
	}
	path, err := exec.LookPath(argv[0])
	if err != nil {
		return 0, fmt.Errorf("program not found: %w", err)
	}
	return startDetached(path, argv[1:])
}

func (e *Executor) dryRun(command string, out io.Writer) bool {
	if !e.DryRun {
		return false
	}
	if e.Verbose && out != nil {
		_, _ = fmt.Fprintf(out, "dry-run: %s\n", command)
	}
	return true
}

// splitArgs splits a command string into tokens respecting single and double
// quotes.
func splitArgs(s string) []string {
	if toks, err := shellquote.Split(s); err == nil {
		return toks
	}
	return strings.Fields(s)
}

func startDetached(name string, args []string) (int, error) {
	devnull, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", os.DevNull, err)
	}
	defer func() { _ = devnull.Close() }()

	cmd := exec.Command(name, args...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = devnull, devnull, devnull
	cmd.SysProcAttr = detachAttrs()
	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("start %s: %w", name, err)
	}
	pid := cmd.Process.Pid
	if err := cmd.Process.Release(); err != nil {
		return pid, fmt.Errorf("release %s: %w", name, err)
	}
	return pid, nil
}

// runShellCommand executes a command by running the given executable and
// arguments, returning captured stdout/stderr buffers along with any error.
func runShellCommand(ctx context.Context, shell string, args []string, cwd string) (*bytes.Buffer, *bytes.Buffer, error) {
	cmd := exec.CommandContext(ctx, shell, args...)
	if cwd != "" {
		cmd.Dir = cwd
	}
	var bout, berr bytes.Buffer
	cmd.Stdout = &bout
	cmd.Stderr = &berr
	if err := cmd.Run(); err != nil {
		return &bout, &berr, err
	}
	return &bout, &berr, nil
}

func checkExecutionError(err error, bout, berr *bytes.Buffer, shell string, args []string) error {
	outStr := strings.TrimSpace(bout.String())
	errStr := strings.TrimSpace(berr.String())
	if outStr != "" || errStr != "" {
		return fmt.Errorf("command failed: %w (shell=%s args=%q stdout=%q stderr=%q)", err, shell, args, outStr, errStr)
	}
	return fmt.Errorf("command failed: %w (shell=%s args=%q)", err, shell, args)
}

// shellInvocation returns the shell executable and arguments for the
// platform. A non-empty override selects another shell.
func shellInvocation(command string, override string) (string, []string) {
	switch override {
	case "":
	case "pwsh", "powershell":
		return override, []string{"-Command", command}
	case "cmd":
		return "cmd", []string{"/C", command}
	default:
		return override, []string{"-c", command}
	}
	if runtime.GOOS == "windows" {
		return "cmd", []string{"/C", command}
	}
	return "bash", []string{"-c", command}
}

func validateShellAndArgs(shell string, args []string) error {
	if _, err := exec.LookPath(shell); err != nil {
		return fmt.Errorf("shell not found in PATH: %s", shell)
	}
	for i, a := range args {
		if strings.IndexFunc(a, isControl) != -1 {
			return fmt.Errorf("invalid shell arg[%d]: contains control characters", i)
		}
	}
	return nil
}
