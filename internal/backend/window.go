package backend

import (
	"context"
	"fmt"

	"makerbot/internal/domain"
)

// WindowController focuses and positions the emulator window
type WindowController interface {
	Focus(ctx context.Context) error
	ResizeAndMove(ctx context.Context, x, y, w, h int) error
}

// NewWindowController returns the controller for goos
func NewWindowController(goos, app string, run CommandRunner) (WindowController, error) {
	if app == "" {
		app = "Ryujinx"
	}
	switch goos {
	case "darwin":
		return &appleScriptWindow{app: app, run: run}, nil
	case "linux":
		return &xdotoolWindow{app: app, run: run}, nil
	default:
		return nil, &domain.UnsupportedPlatformError{Platform: goos}
	}
}

// appleScriptWindow drives the window through System Events
type appleScriptWindow struct {
	app string
	run CommandRunner
}

func (w *appleScriptWindow) Focus(ctx context.Context) error {
	return w.script(ctx, "focus", fmt.Sprintf("activate application %q", w.app))
}

func (w *appleScriptWindow) ResizeAndMove(ctx context.Context, x, y, width, height int) error {
	code := fmt.Sprintf("tell application \"System Events\" to tell process %q\n"+
		"set position of window 1 to {%d, %d}\n"+
		"set size of window 1 to {%d, %d}\n"+
		"end tell", w.app, x, y, width, height)
	return w.script(ctx, "resize", code)
}

func (w *appleScriptWindow) script(ctx context.Context, op, code string) error {
	output, err := w.run(ctx, "osascript", "-e", code)
	if err != nil {
		return &domain.BackendIOError{Op: op, Err: fmt.Errorf("%w: %s", err, output)}
	}
	return nil
}

// xdotoolWindow drives the window on X11
type xdotoolWindow struct {
	app string
	run CommandRunner
}

func (w *xdotoolWindow) Focus(ctx context.Context) error {
	return w.xdotool(ctx, "focus", "search", "--name", w.app, "windowactivate", "--sync")
}

func (w *xdotoolWindow) ResizeAndMove(ctx context.Context, x, y, width, height int) error {
	return w.xdotool(ctx, "resize", "search", "--name", w.app,
		"windowmove", fmt.Sprint(x), fmt.Sprint(y),
		"windowsize", fmt.Sprint(width), fmt.Sprint(height))
}

func (w *xdotoolWindow) xdotool(ctx context.Context, op string, args ...string) error {
	output, err := w.run(ctx, "xdotool", args...)
	if err != nil {
		return &domain.BackendIOError{Op: op, Err: fmt.Errorf("%w: %s", err, output)}
	}
	return nil
}
