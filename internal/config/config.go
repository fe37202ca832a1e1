package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"makerbot/internal/catalog"
	"makerbot/internal/eventbus"
	"makerbot/internal/grid"
	"makerbot/internal/keys"
)

// Config represents the application configuration
type Config struct {
	Version     int            `toml:"version"`
	Style       string         `toml:"style"`
	Layout      string         `toml:"layout"` // qwerty or dvorak
	StyleFiles  []string       `toml:"style_files,omitempty"`
	Window      Window         `toml:"window"`
	Canvas      Canvas         `toml:"canvas"`
	Obstruction Obstruction    `toml:"obstruction"`
	Timing      Timing         `toml:"timing"`
	Backend     Backend        `toml:"backend"`
	Editor      Editor         `toml:"editor"`
	Keys        map[string]int `toml:"keys"` // button name -> key code override
}

// Window is the emulator window placement applied at startup
type Window struct {
	App    string `toml:"app"`
	X      int    `toml:"x"`
	Y      int    `toml:"y"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

// Canvas is the editor canvas calibration inside the window
type Canvas struct {
	Width     float64 `toml:"width"`
	Height    float64 `toml:"height"`
	TopMargin float64 `toml:"top_margin"`
	Columns   int     `toml:"columns"`
	Rows      int     `toml:"rows"`
}

// Obstruction is the floating menu footprint in grid units
type Obstruction struct {
	ClearMinX int `toml:"clear_min_x"`
	ClearMaxX int `toml:"clear_max_x"`
	ClearMinY int `toml:"clear_min_y"`
}

// Timing holds the settle delays that stand in for editor acknowledgements
type Timing struct {
	KeyHoldMs       int `toml:"key_hold_ms"`
	ClickHoldMs     int `toml:"click_hold_ms"`
	InputGapMs      int `toml:"input_gap_ms"`
	MenuSettleMs    int `toml:"menu_settle_ms"`
	ConfirmSettleMs int `toml:"confirm_settle_ms"`
	WindowSettleMs  int `toml:"window_settle_ms"`
	PlacementGapMs  int `toml:"placement_gap_ms"`
}

// Backend selects how input is delivered
type Backend struct {
	Kind          string `toml:"kind"` // exec, remote or dry-run
	Helper        string `toml:"helper"`
	Strict        bool   `toml:"strict"`
	RemoteURL     string `toml:"remote_url"`
	CallTimeoutMs int    `toml:"call_timeout_ms"`
}

// Editor holds editor-specific buttons, coordinates and macros
type Editor struct {
	OverlayToggle string      `toml:"overlay_toggle"`
	EraserToggle  string      `toml:"eraser_toggle"`
	ResetX        int         `toml:"reset_x"` // window-relative pixel of the reset button
	ResetY        int         `toml:"reset_y"`
	ResetHoldMs   int         `toml:"reset_hold_ms"`
	ShortenTrack  []MacroStep `toml:"shorten_track"`
}

// MacroStep is either a key press (Key) or a click (Click = [x, y],
// window-relative), followed by an optional wait
type MacroStep struct {
	Key    string `toml:"key,omitempty"`
	Click  []int  `toml:"click,omitempty"`
	HoldMs int    `toml:"hold_ms,omitempty"`
	WaitMs int    `toml:"wait_ms,omitempty"`
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// NewConfigService creates a config service for the default location
func NewConfigService() ConfigService {
	return &configService{filePath: DefaultPath()}
}

// NewConfigServiceAt creates a config service for a specific file
func NewConfigServiceAt(path string) ConfigService {
	return &configService{filePath: path}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(path string, bus eventbus.EventBus) ConfigService {
	if path == "" {
		path = DefaultPath()
	}
	return &configService{filePath: path, bus: bus}
}

// DefaultPath returns $XDG_CONFIG_HOME/makerbot/config.toml or its
// platform equivalent
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "makerbot", "config.toml")
}

// Path returns the file this service reads and writes
func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration from file, falling back to defaults when
// the file does not exist
func (cs *configService) Load() (*Config, error) {
	if _, err := os.Stat(cs.filePath); errors.Is(err, os.ErrNotExist) {
		cfg := DefaultConfig()
		cs.publish(eventbus.ConfigLoadedEvent{Path: ""})
		return cfg, nil
	}

	cfg, err := cs.LoadFromPath(cs.filePath)
	if err != nil {
		return nil, err
	}
	cs.publish(eventbus.ConfigLoadedEvent{Path: cs.filePath})
	return cfg, nil
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}
	cs.publish(eventbus.ConfigSavedEvent{Path: cs.filePath})
	return nil
}

// LoadFromPath loads configuration from a specific path. Keys absent from
// the file keep their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	// array tables append to existing slices, so a macro in the file
	// must replace the default rather than extend it
	defaultMacro := cfg.Editor.ShortenTrack
	cfg.Editor.ShortenTrack = nil
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Editor.ShortenTrack == nil {
		cfg.Editor.ShortenTrack = defaultMacro
	}
	if cfg.Keys == nil {
		cfg.Keys = make(map[string]int)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := Encode(config)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Encode renders a config as TOML
func Encode(config *Config) ([]byte, error) {
	data, err := toml.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

func (cs *configService) publish(e eventbus.DomainEvent) {
	if cs.bus != nil {
		cs.bus.Publish(e)
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	g := grid.Default()
	return &Config{
		Version: 1,
		Style:   catalog.DefaultStyle,
		Layout:  "qwerty",
		Window: Window{
			App:    "Ryujinx",
			X:      100,
			Y:      100,
			Width:  915,
			Height: 600,
		},
		Canvas: Canvas{
			Width:     g.CanvasWidth,
			Height:    g.CanvasHeight,
			TopMargin: g.TopMargin,
			Columns:   g.Columns,
			Rows:      g.Rows,
		},
		Obstruction: Obstruction{
			ClearMinX: g.ClearMinX,
			ClearMaxX: g.ClearMaxX,
			ClearMinY: g.ClearMinY,
		},
		Timing: Timing{
			KeyHoldMs:       100,
			ClickHoldMs:     100,
			InputGapMs:      0,
			MenuSettleMs:    500,
			ConfirmSettleMs: 200,
			WindowSettleMs:  100,
			PlacementGapMs:  0,
		},
		Backend: Backend{
			Kind:          "exec",
			Helper:        "./sim",
			Strict:        false,
			CallTimeoutMs: 10000,
		},
		Editor: Editor{
			OverlayToggle: string(keys.Minus),
			EraserToggle:  string(keys.L),
			ResetX:        40,
			ResetY:        560,
			ResetHoldMs:   3000,
			ShortenTrack: []MacroStep{
				{Key: string(keys.Plus), WaitMs: 500},
				{Click: []int{880, 330}, HoldMs: 100, WaitMs: 300},
				{Click: []int{460, 330}, HoldMs: 100, WaitMs: 300},
				{Key: string(keys.B), WaitMs: 300},
			},
		},
		Keys: make(map[string]int),
	}
}

// Validate checks values that would make geometry or macros meaningless
func (c *Config) Validate() error {
	if c.Canvas.Columns <= 0 || c.Canvas.Rows <= 0 {
		return fmt.Errorf("canvas columns and rows must be positive")
	}
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("canvas width and height must be positive")
	}
	if _, err := keys.LayoutByName(c.Layout); err != nil {
		return err
	}
	for _, name := range []string{c.Editor.OverlayToggle, c.Editor.EraserToggle} {
		if _, err := keys.ParseButton(name); err != nil {
			return fmt.Errorf("editor: %w", err)
		}
	}
	for i, step := range c.Editor.ShortenTrack {
		if err := step.validate(); err != nil {
			return fmt.Errorf("shorten_track step %d: %w", i+1, err)
		}
	}
	return nil
}

func (s MacroStep) validate() error {
	hasKey := s.Key != ""
	hasClick := len(s.Click) > 0
	switch {
	case hasKey && hasClick:
		return fmt.Errorf("step has both key and click")
	case hasKey:
		_, err := keys.ParseButton(s.Key)
		return err
	case hasClick:
		if len(s.Click) != 2 {
			return fmt.Errorf("click needs [x, y]")
		}
		return nil
	default:
		return fmt.Errorf("step needs a key or a click")
	}
}

// Geometry returns the grid calibration described by the config
func (c *Config) Geometry() grid.Geometry {
	return grid.Geometry{
		CanvasWidth:  c.Canvas.Width,
		CanvasHeight: c.Canvas.Height,
		TopMargin:    c.Canvas.TopMargin,
		Columns:      c.Canvas.Columns,
		Rows:         c.Canvas.Rows,
		ClearMinX:    c.Obstruction.ClearMinX,
		ClearMaxX:    c.Obstruction.ClearMaxX,
		ClearMinY:    c.Obstruction.ClearMinY,
	}
}

// KeyLayout returns the configured layout with per-button overrides applied
func (c *Config) KeyLayout() (keys.Layout, error) {
	layout, err := keys.LayoutByName(c.Layout)
	if err != nil {
		return keys.Layout{}, err
	}
	return layout.WithOverrides(c.Keys)
}

// Duration converts a millisecond setting
func Duration(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
