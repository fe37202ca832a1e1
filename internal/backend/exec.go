package backend

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"makerbot/internal/domain"
	"makerbot/internal/keys"
)

// CommandRunner runs an external command and returns its combined output
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}

// Exec delivers clicks and key presses through the companion helper
// executable, one process per event:
//
//	<helper> click <x> <y> <durationMs>
//	<helper> keystroke <keyCode> <durationMs>
//
// Window control goes through a platform WindowController.
type Exec struct {
	helper  string
	window  WindowController
	strict  bool
	timeout time.Duration
	run     CommandRunner
}

// NewExec creates an exec backend
func NewExec(helper string, window WindowController, strict bool, timeout time.Duration, run CommandRunner) *Exec {
	if helper == "" {
		helper = "./sim"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if run == nil {
		run = runCommand
	}
	return &Exec{
		helper:  helper,
		window:  window,
		strict:  strict,
		timeout: timeout,
		run:     run,
	}
}

// Focus brings the emulator window to the front
func (e *Exec) Focus(ctx context.Context) error {
	return e.window.Focus(ctx)
}

// ResizeAndMove positions the emulator window
func (e *Exec) ResizeAndMove(ctx context.Context, x, y, w, h int) error {
	return e.window.ResizeAndMove(ctx, x, y, w, h)
}

// Click presses the left button at an absolute screen pixel
func (e *Exec) Click(ctx context.Context, x, y int, hold time.Duration) error {
	return e.invoke(ctx, "click", strconv.Itoa(x), strconv.Itoa(y), millis(hold))
}

// KeyPress holds a key for the given duration
func (e *Exec) KeyPress(ctx context.Context, code keys.Code, hold time.Duration) error {
	return e.invoke(ctx, "keystroke", strconv.Itoa(int(code)), millis(hold))
}

func (e *Exec) invoke(ctx context.Context, op string, args ...string) error {
	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	output, err := e.run(callCtx, e.helper, append([]string{op}, args...)...)
	return checkExit(op, output, err, e.strict)
}

// checkExit applies the strictness policy. A process that could not be
// started is always an error; a non-zero exit only in strict mode.
func checkExit(op string, output []byte, err error, strict bool) error {
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return &domain.BackendIOError{Op: op, Err: err}
	}

	detail := strings.TrimSpace(string(output))
	if strict {
		if detail != "" {
			err = fmt.Errorf("%w: %s", err, detail)
		}
		return &domain.BackendIOError{Op: op, Err: err}
	}

	log.Printf("Backend: %s exited with code %d (ignored): %s", op, exitErr.ExitCode(), detail)
	return nil
}

func millis(d time.Duration) string {
	return strconv.FormatInt(d.Milliseconds(), 10)
}
