// Package backend delivers physical input to the emulator window.
//
// The editor core only sees the Backend capability set; how a click or key
// press reaches the emulator (helper process, remote harness, nothing at all)
// is decided here.
package backend

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"makerbot/internal/keys"
)

// Backend is the capability set consumed by the editor.
// Every call blocks until the input was delivered.
type Backend interface {
	Focus(ctx context.Context) error
	ResizeAndMove(ctx context.Context, x, y, w, h int) error
	Click(ctx context.Context, x, y int, hold time.Duration) error
	KeyPress(ctx context.Context, code keys.Code, hold time.Duration) error
}

// Backend kinds
const (
	KindExec   = "exec"
	KindRemote = "remote"
	KindDryRun = "dry-run"
)

// Options selects and configures a backend
type Options struct {
	Kind        string
	HelperPath  string        // companion click/keystroke executable
	WindowApp   string        // emulator application/window name
	Strict      bool          // surface non-zero exits and harness errors
	RemoteURL   string        // ws:// URL of a remote harness
	CallTimeout time.Duration // per-call limit for helper processes and harness replies
	GOOS        string        // defaults to runtime.GOOS
	Echo        io.Writer     // dry-run output
}

// New builds the backend selected by opts.Kind
func New(ctx context.Context, opts Options) (Backend, error) {
	switch opts.Kind {
	case KindExec, "":
		goos := opts.GOOS
		if goos == "" {
			goos = runtime.GOOS
		}
		window, err := NewWindowController(goos, opts.WindowApp, runCommand)
		if err != nil {
			return nil, err
		}
		return NewExec(opts.HelperPath, window, opts.Strict, opts.CallTimeout, runCommand), nil
	case KindRemote:
		return DialRemote(ctx, opts.RemoteURL, opts.Strict, opts.CallTimeout)
	case KindDryRun:
		return NewRecorder(opts.Echo), nil
	default:
		return nil, fmt.Errorf("unknown backend kind %q", opts.Kind)
	}
}

// Close releases backend resources when the backend holds any
func Close(b Backend) error {
	if c, ok := b.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
