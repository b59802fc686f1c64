package executor

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestExecuteEcho(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses bash")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var out, errb bytes.Buffer
	e := &Executor{}
	if err := e.Execute(ctx, "echo hello", "", &out, &errb); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !strings.Contains(out.String(), "hello") {
		t.Fatalf("expected 'hello' in stdout, got: %q", out.String())
	}
}

func TestExecuteFail(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses bash")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	e := &Executor{}
	if err := e.Execute(ctx, "exit 3", "", io.Discard, io.Discard); err == nil {
		t.Fatalf("expected error for failing command")
	}
}

func TestDryRun(t *testing.T) {
	var out bytes.Buffer
	e := &Executor{DryRun: true, Verbose: true}
	if err := e.Execute(context.Background(), "echo \u201CHello\u201D", "", &out, io.Discard); err != nil {
		t.Fatalf("dry-run should not error: %v", err)
	}
	if got := out.String(); got != "dry-run: echo \"Hello\"\n" {
		t.Fatalf("unexpected dry-run output: %q", got)
	}
}

func TestValidation(t *testing.T) {
	e := &Executor{DryRun: true}
	if err := e.Execute(context.Background(), "echo hi\x00bad", "", io.Discard, io.Discard); err != nil {
		t.Fatalf("NUL should be removed, got %v", err)
	}
	if err := e.Execute(context.Background(), "echo hi\nnext", "", io.Discard, io.Discard); err == nil {
		t.Fatalf("expected error for newline")
	}
	if _, err := e.Spawn("   "); !errors.Is(err, ErrEmptyCommand) {
		t.Fatalf("expected ErrEmptyCommand, got %v", err)
	}
	if _, err := e.Exec("echo \x1b[2J"); err == nil {
		t.Fatalf("expected error for control characters")
	}
}

func TestExecDryRunSplitsQuotedArgs(t *testing.T) {
	var out bytes.Buffer
	e := &Executor{DryRun: true, Verbose: true, Out: &out}
	if _, err := e.Exec(`gimp "My File.png"`); err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if !strings.Contains(out.String(), "gimp") {
		t.Fatalf("expected dry-run notice, got %q", out.String())
	}
	if got := splitArgs(`gimp "My File.png" --new`); len(got) != 3 || got[1] != "My File.png" {
		t.Fatalf("splitArgs = %q", got)
	}
}

func TestExecMissingProgram(t *testing.T) {
	e := &Executor{}
	if _, err := e.Exec("definitely-not-a-real-program-launchr"); err == nil {
		t.Fatalf("expected error for a missing program")
	}
}

func TestSpawnDetached(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses bash")
	}
	marker := filepath.Join(t.TempDir(), "spawned")
	e := &Executor{}
	pid, err := e.Spawn("touch " + marker)
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	if pid <= 0 {
		t.Fatalf("expected a pid, got %d", pid)
	}
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(marker); err == nil {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("spawned command did not run")
}

func TestShellInvocation(t *testing.T) {
	sh, args := shellInvocation("ls", "zsh")
	if sh != "zsh" || len(args) != 2 || args[0] != "-c" || args[1] != "ls" {
		t.Fatalf("override: %s %q", sh, args)
	}
	sh, args = shellInvocation("ls", "pwsh")
	if sh != "pwsh" || args[0] != "-Command" {
		t.Fatalf("pwsh: %s %q", sh, args)
	}
}
