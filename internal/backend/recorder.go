package backend

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"makerbot/internal/keys"
)

// Call is one recorded backend invocation
type Call struct {
	Op   string // focus, resize, click, keystroke
	X, Y int
	W, H int
	Code keys.Code
	Hold time.Duration
}

func (c Call) String() string {
	switch c.Op {
	case "resize":
		return fmt.Sprintf("resize %d %d %dx%d", c.X, c.Y, c.W, c.H)
	case "click":
		return fmt.Sprintf("click %d %d %dms", c.X, c.Y, c.Hold.Milliseconds())
	case "keystroke":
		return fmt.Sprintf("keystroke 0x%02X %dms", uint16(c.Code), c.Hold.Milliseconds())
	default:
		return c.Op
	}
}

// Recorder is a backend that delivers nothing and remembers every call.
// It backs dry runs and tests.
type Recorder struct {
	mu    sync.Mutex
	calls []Call
	echo  io.Writer

	// FailOn makes matching calls fail, for exercising error paths
	FailOn func(Call) error
}

// NewRecorder creates a recorder, echoing each call to echo when non-nil
func NewRecorder(echo io.Writer) *Recorder {
	return &Recorder{echo: echo}
}

func (r *Recorder) Focus(ctx context.Context) error {
	return r.record(Call{Op: "focus"})
}

func (r *Recorder) ResizeAndMove(ctx context.Context, x, y, w, h int) error {
	return r.record(Call{Op: "resize", X: x, Y: y, W: w, H: h})
}

func (r *Recorder) Click(ctx context.Context, x, y int, hold time.Duration) error {
	return r.record(Call{Op: "click", X: x, Y: y, Hold: hold})
}

func (r *Recorder) KeyPress(ctx context.Context, code keys.Code, hold time.Duration) error {
	return r.record(Call{Op: "keystroke", Code: code, Hold: hold})
}

func (r *Recorder) record(c Call) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailOn != nil {
		if err := r.FailOn(c); err != nil {
			return err
		}
	}
	r.calls = append(r.calls, c)
	if r.echo != nil {
		fmt.Fprintln(r.echo, c.String())
	}
	return nil
}

// Calls returns a copy of the recorded calls
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// Keys returns the recorded key codes in order
func (r *Recorder) Keys() []keys.Code {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []keys.Code
	for _, c := range r.calls {
		if c.Op == "keystroke" {
			out = append(out, c.Code)
		}
	}
	return out
}

// Clicks returns the recorded click calls in order
func (r *Recorder) Clicks() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Call
	for _, c := range r.calls {
		if c.Op == "click" {
			out = append(out, c)
		}
	}
	return out
}

// Reset forgets every recorded call
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}
