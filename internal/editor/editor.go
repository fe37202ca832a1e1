// Package editor drives the level editor through a Backend. It owns the
// selection belief and is the only code that sends inputs, so every plan is
// computed and recorded from a single goroutine.
package editor

import (
	"context"
	"fmt"
	"log"
	"time"

	"makerbot/internal/backend"
	"makerbot/internal/catalog"
	"makerbot/internal/domain"
	"makerbot/internal/eventbus"
	"makerbot/internal/grid"
	"makerbot/internal/keys"
	"makerbot/internal/selection"
)

// Timing holds the fixed delays that stand in for editor feedback
type Timing struct {
	KeyHold       time.Duration
	ClickHold     time.Duration
	InputGap      time.Duration // after every plain input
	MenuSettle    time.Duration // after the object menu opens
	ConfirmSettle time.Duration // after a selection is confirmed
	WindowSettle  time.Duration // after the window was moved
	PlacementGap  time.Duration // between batch records
}

// DefaultTiming mirrors the delays the editor is known to tolerate
func DefaultTiming() Timing {
	return Timing{
		KeyHold:       100 * time.Millisecond,
		ClickHold:     100 * time.Millisecond,
		MenuSettle:    500 * time.Millisecond,
		ConfirmSettle: 200 * time.Millisecond,
		WindowSettle:  100 * time.Millisecond,
	}
}

// Window is the emulator window rectangle in screen pixels
type Window struct {
	X, Y          int
	Width, Height int
}

// MacroStep is one key press or one window-relative click
type MacroStep struct {
	Button keys.Button
	Click  *domain.PixelPoint
	Hold   time.Duration // zero means the default hold
	Wait   time.Duration
}

// Options configures an Editor
type Options struct {
	Registry     *catalog.Registry
	Style        string
	Geometry     grid.Geometry
	Layout       keys.Layout
	Bindings     keys.Bindings
	Timing       Timing
	Window       Window
	ResetButton  domain.PixelPoint // window-relative
	ResetHold    time.Duration
	ShortenTrack []MacroStep
	Strict       bool // a backend I/O error stops a batch

	// Sleep waits for d or until ctx is done. Defaults to a timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Editor is the placement orchestrator
type Editor struct {
	backend  backend.Backend
	bus      eventbus.EventBus
	registry *catalog.Registry
	catalog  *catalog.Catalog
	tracker  *selection.Tracker
	geometry grid.Geometry
	layout   keys.Layout
	bindings keys.Bindings
	timing   Timing
	window   Window
	reset    domain.PixelPoint
	resetFor time.Duration
	shorten  []MacroStep
	sleep    func(ctx context.Context, d time.Duration) error
	strict   bool

	lastPlaced string // empty until an object has been placed
}

// New creates an editor for the given style. bus may be nil.
func New(b backend.Backend, bus eventbus.EventBus, opts Options) (*Editor, error) {
	if opts.Registry == nil {
		opts.Registry = catalog.NewRegistry()
	}
	if opts.Style == "" {
		opts.Style = catalog.DefaultStyle
	}
	if opts.Bindings == nil {
		opts.Bindings = keys.DefaultBindings()
	}
	if opts.Layout.Name == "" {
		layout, err := keys.LayoutByName("qwerty")
		if err != nil {
			return nil, err
		}
		opts.Layout = layout
	}
	if opts.Geometry.Columns == 0 {
		opts.Geometry = grid.Default()
	}
	if opts.Sleep == nil {
		opts.Sleep = sleepContext
	}

	cat, err := opts.Registry.Build(opts.Style)
	if err != nil {
		return nil, err
	}

	// Every binding must resolve before the first input is sent
	for in := range opts.Bindings {
		if _, err := opts.Bindings.Resolve(in, opts.Layout); err != nil {
			return nil, fmt.Errorf("binding %s: %w", in, err)
		}
	}
	for i, step := range opts.ShortenTrack {
		if step.Click == nil {
			if _, err := opts.Layout.Code(step.Button); err != nil {
				return nil, fmt.Errorf("shorten-track step %d: %w", i+1, err)
			}
		}
	}

	return &Editor{
		backend:  b,
		bus:      bus,
		registry: opts.Registry,
		catalog:  cat,
		tracker:  selection.NewTracker(cat.GroupCount()),
		geometry: opts.Geometry,
		layout:   opts.Layout,
		bindings: opts.Bindings,
		timing:   opts.Timing,
		window:   opts.Window,
		reset:    opts.ResetButton,
		resetFor: opts.ResetHold,
		shorten:  opts.ShortenTrack,
		sleep:    opts.Sleep,
		strict:   opts.Strict,
	}, nil
}

// Catalog returns the active catalog
func (e *Editor) Catalog() *catalog.Catalog { return e.catalog }

// Geometry returns the canvas calibration
func (e *Editor) Geometry() grid.Geometry { return e.geometry }

// Snapshot returns the current selection belief
func (e *Editor) Snapshot() selection.State { return e.tracker.Snapshot() }

// LastPlaced returns the name of the object believed to be selected
// after the last successful placement
func (e *Editor) LastPlaced() string { return e.lastPlaced }

// SwitchStyle rebuilds the catalog for another style and forgets the
// selection belief, which only holds for the style it was built against
func (e *Editor) SwitchStyle(style string) error {
	cat, err := e.registry.Build(style)
	if err != nil {
		return err
	}
	e.catalog = cat
	e.tracker = selection.NewTracker(cat.GroupCount())
	e.lastPlaced = ""

	log.Printf("Editor: switched to style %s (%d objects)", style, cat.Len())
	e.publish(eventbus.StyleChangedEvent{Style: style})
	return nil
}

// Prepare focuses the emulator window and moves it into the calibrated
// position. Run once before sending any other input.
func (e *Editor) Prepare(ctx context.Context) error {
	if err := e.backend.Focus(ctx); err != nil {
		return fmt.Errorf("focus window: %w", err)
	}
	w := e.window
	if w.Width > 0 && w.Height > 0 {
		if err := e.backend.ResizeAndMove(ctx, w.X, w.Y, w.Width, w.Height); err != nil {
			return fmt.Errorf("position window: %w", err)
		}
	}
	return e.sleep(ctx, e.timing.WindowSettle)
}

func (e *Editor) press(ctx context.Context, in domain.Input) error {
	code, err := e.bindings.Resolve(in, e.layout)
	if err != nil {
		return err
	}
	return e.backend.KeyPress(ctx, code, e.timing.KeyHold)
}

func (e *Editor) pressButton(ctx context.Context, b keys.Button, hold time.Duration) error {
	code, err := e.layout.Code(b)
	if err != nil {
		return err
	}
	if hold <= 0 {
		hold = e.timing.KeyHold
	}
	return e.backend.KeyPress(ctx, code, hold)
}

// clickWindow clicks at a window-relative pixel
func (e *Editor) clickWindow(ctx context.Context, p domain.PixelPoint, hold time.Duration) (domain.PixelPoint, error) {
	if hold <= 0 {
		hold = e.timing.ClickHold
	}
	abs := domain.PixelPoint{X: e.window.X + p.X, Y: e.window.Y + p.Y}
	return abs, e.backend.Click(ctx, abs.X, abs.Y, hold)
}

func (e *Editor) publish(event eventbus.DomainEvent) {
	if e.bus != nil {
		e.bus.Publish(event)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
