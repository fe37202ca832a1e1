package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"runtime"

	"makerbot/internal/backend"
	"makerbot/internal/catalog"
	"makerbot/internal/config"
	"makerbot/internal/domain"
	"makerbot/internal/editor"
	"makerbot/internal/eventbus"
	"makerbot/internal/keys"
	"makerbot/internal/ui"
)

// app holds what every command shares
type app struct {
	stdout     io.Writer
	stderr     io.Writer
	styles     *ui.Styles
	bus        eventbus.EventBus
	configPath string

	cfg      *config.Config
	registry *catalog.Registry
}

// fail reports a fatal error and returns the matching exit status
func (a *app) fail(err error) int {
	log.Printf("Fatal: %v", err)
	fmt.Fprint(a.stderr, ui.RenderError(err, a.styles))
	return 1
}

// loadConfig reads the config file and registers extra styles
func (a *app) loadConfig() error {
	svc := config.NewConfigServiceWithBus(a.configPath, a.bus)
	cfg, err := svc.Load()
	if err != nil {
		return err
	}

	registry := catalog.NewRegistry()
	for _, path := range cfg.StyleFiles {
		style, err := catalog.LoadStyleFile(path)
		if err != nil {
			return err
		}
		if err := registry.Register(style); err != nil {
			return err
		}
		log.Printf("Loaded style %s from %s", style.Name, path)
	}

	a.cfg = cfg
	a.registry = registry
	return nil
}

// sessionFlags are shared by every command that drives the editor
type sessionFlags struct {
	backend *string
	style   *string
	layout  *string
}

func (a *app) addSessionFlags(fs *flag.FlagSet) sessionFlags {
	return sessionFlags{
		backend: fs.String("backend", a.cfg.Backend.Kind, "input backend: exec, remote or dry-run"),
		style:   fs.String("style", a.cfg.Style, "game style"),
		layout:  fs.String("layout", a.cfg.Layout, "keyboard layout: qwerty or dvorak"),
	}
}

// session is a connected backend and an editor driving it
type session struct {
	backend backend.Backend
	editor  *editor.Editor
}

func (s *session) Close() {
	if err := backend.Close(s.backend); err != nil {
		log.Printf("Backend: close failed: %v", err)
	}
}

// openSession connects the backend, builds the editor and prepares the
// emulator window
func (a *app) openSession(ctx context.Context, sf sessionFlags, echo io.Writer) (*session, error) {
	opts, err := editorOptions(a.cfg, a.registry, *sf.style, *sf.layout)
	if err != nil {
		return nil, err
	}

	b, err := backend.New(ctx, backendOptions(a.cfg, *sf.backend, echo))
	if err != nil {
		return nil, err
	}

	ed, err := editor.New(b, a.bus, opts)
	if err != nil {
		_ = backend.Close(b)
		return nil, err
	}
	if err := ed.Prepare(ctx); err != nil {
		_ = backend.Close(b)
		return nil, err
	}
	return &session{backend: b, editor: ed}, nil
}

func backendOptions(cfg *config.Config, kind string, echo io.Writer) backend.Options {
	return backend.Options{
		Kind:        kind,
		HelperPath:  cfg.Backend.Helper,
		WindowApp:   cfg.Window.App,
		Strict:      cfg.Backend.Strict,
		RemoteURL:   cfg.Backend.RemoteURL,
		CallTimeout: config.Duration(cfg.Backend.CallTimeoutMs),
		GOOS:        runtime.GOOS,
		Echo:        echo,
	}
}

// editorOptions translates the config into editor settings. Non-empty
// style and layout override the configured ones.
func editorOptions(cfg *config.Config, registry *catalog.Registry, style, layout string) (editor.Options, error) {
	if style == "" {
		style = cfg.Style
	}
	if layout != "" {
		copied := *cfg
		copied.Layout = layout
		cfg = &copied
	}

	keyLayout, err := cfg.KeyLayout()
	if err != nil {
		return editor.Options{}, err
	}

	bindings := keys.DefaultBindings()
	overlay, err := keys.ParseButton(cfg.Editor.OverlayToggle)
	if err != nil {
		return editor.Options{}, fmt.Errorf("overlay_toggle: %w", err)
	}
	eraser, err := keys.ParseButton(cfg.Editor.EraserToggle)
	if err != nil {
		return editor.Options{}, fmt.Errorf("eraser_toggle: %w", err)
	}
	bindings[domain.InputToggleOverlay] = overlay
	bindings[domain.InputToggleEraser] = eraser

	steps := make([]editor.MacroStep, 0, len(cfg.Editor.ShortenTrack))
	for i, s := range cfg.Editor.ShortenTrack {
		step := editor.MacroStep{
			Hold: config.Duration(s.HoldMs),
			Wait: config.Duration(s.WaitMs),
		}
		switch {
		case len(s.Click) == 2:
			step.Click = &domain.PixelPoint{X: s.Click[0], Y: s.Click[1]}
		default:
			b, err := keys.ParseButton(s.Key)
			if err != nil {
				return editor.Options{}, fmt.Errorf("shorten_track step %d: %w", i+1, err)
			}
			step.Button = b
		}
		steps = append(steps, step)
	}

	t := cfg.Timing
	return editor.Options{
		Registry: registry,
		Style:    style,
		Geometry: cfg.Geometry(),
		Layout:   keyLayout,
		Bindings: bindings,
		Timing: editor.Timing{
			KeyHold:       config.Duration(t.KeyHoldMs),
			ClickHold:     config.Duration(t.ClickHoldMs),
			InputGap:      config.Duration(t.InputGapMs),
			MenuSettle:    config.Duration(t.MenuSettleMs),
			ConfirmSettle: config.Duration(t.ConfirmSettleMs),
			WindowSettle:  config.Duration(t.WindowSettleMs),
			PlacementGap:  config.Duration(t.PlacementGapMs),
		},
		Window: editor.Window{
			X:      cfg.Window.X,
			Y:      cfg.Window.Y,
			Width:  cfg.Window.Width,
			Height: cfg.Window.Height,
		},
		ResetButton:  domain.PixelPoint{X: cfg.Editor.ResetX, Y: cfg.Editor.ResetY},
		ResetHold:    config.Duration(cfg.Editor.ResetHoldMs),
		ShortenTrack: steps,
		Strict:       cfg.Backend.Strict,
	}, nil
}
