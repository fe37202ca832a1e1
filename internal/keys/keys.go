// Package keys maps controller buttons to the host key codes the emulator
// listens for. Codes are macOS virtual key codes (HIToolbox Events.h).
package keys

import (
	"fmt"
	"sort"
	"strings"
)

// Code is a host virtual key code
type Code uint16

// Button is a logical controller button
type Button string

const (
	ZL    Button = "zl"
	L     Button = "l"
	Minus Button = "minus"
	ZR    Button = "zr"
	R     Button = "r"
	Plus  Button = "plus"

	A Button = "a"
	B Button = "b"
	X Button = "x"
	Y Button = "y"

	LStick      Button = "lstick"
	LStickLeft  Button = "lstick-left"
	LStickRight Button = "lstick-right"
	LStickDown  Button = "lstick-down"
	LStickUp    Button = "lstick-up"

	RStick      Button = "rstick"
	RStickLeft  Button = "rstick-left"
	RStickRight Button = "rstick-right"
	RStickDown  Button = "rstick-down"
	RStickUp    Button = "rstick-up"

	DLeft  Button = "dpad-left"
	DRight Button = "dpad-right"
	DDown  Button = "dpad-down"
	DUp    Button = "dpad-up"
)

// Layout maps every button to a key code for one keyboard layout
type Layout struct {
	Name  string
	codes map[Button]Code
}

var qwerty = map[Button]Code{
	// q e - o u =
	ZL: 0x0C, L: 0x0E, Minus: 0x1B,
	ZR: 0x1F, R: 0x20, Plus: 0x18,
	// z x c v
	A: 0x06, B: 0x07, X: 0x08, Y: 0x09,
	LStick: 0x03, LStickLeft: 0x0D, LStickRight: 0x00, LStickDown: 0x01, LStickUp: 0x02,
	RStick: 0x04, RStickLeft: 0x22, RStickRight: 0x28, RStickDown: 0x26, RStickUp: 0x25,
	// arrow keys
	DLeft: 0x7B, DRight: 0x7C, DDown: 0x7D, DUp: 0x7E,
}

var dvorak = map[Button]Code{
	ZL: 0x07, L: 0x02, Minus: 0x1B,
	ZR: 0x01, R: 0x03, Plus: 0x1E,
	A: 0x2C, B: 0x0B, X: 0x22, Y: 0x2F,
	LStick: 0x10, LStickLeft: 0x2B, LStickRight: 0x00, LStickDown: 0x29, LStickUp: 0x04,
	RStick: 0x27, RStickLeft: 0x05, RStickRight: 0x09, RStickDown: 0x08, RStickUp: 0x23,
	DLeft: 0x7B, DRight: 0x7C, DDown: 0x7D, DUp: 0x7E,
}

var layouts = map[string]map[Button]Code{
	"qwerty": qwerty,
	"dvorak": dvorak,
}

// LayoutNames returns the built-in layout names, sorted
func LayoutNames() []string {
	names := make([]string, 0, len(layouts))
	for name := range layouts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LayoutByName returns a built-in layout
func LayoutByName(name string) (Layout, error) {
	codes, ok := layouts[strings.ToLower(name)]
	if !ok {
		return Layout{}, fmt.Errorf("unknown keyboard layout %q (known: %s)", name, strings.Join(LayoutNames(), ", "))
	}
	copied := make(map[Button]Code, len(codes))
	for b, c := range codes {
		copied[b] = c
	}
	return Layout{Name: strings.ToLower(name), codes: copied}, nil
}

// Code returns the key code bound to b
func (l Layout) Code(b Button) (Code, error) {
	c, ok := l.codes[b]
	if !ok {
		return 0, fmt.Errorf("layout %s: no key for button %q", l.Name, b)
	}
	return c, nil
}

// WithOverrides returns a copy of l with per-button key codes replaced.
// Unknown button names are rejected.
func (l Layout) WithOverrides(overrides map[string]int) (Layout, error) {
	out := Layout{Name: l.Name, codes: make(map[Button]Code, len(l.codes))}
	for b, c := range l.codes {
		out.codes[b] = c
	}
	for name, code := range overrides {
		b, err := ParseButton(name)
		if err != nil {
			return Layout{}, err
		}
		if code < 0 || code > 0xFFFF {
			return Layout{}, fmt.Errorf("key code %d for %q out of range", code, name)
		}
		out.codes[b] = Code(code)
	}
	return out, nil
}

// ParseButton resolves a button name as used in config files
func ParseButton(name string) (Button, error) {
	b := Button(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := qwerty[b]; !ok {
		return "", fmt.Errorf("unknown button %q", name)
	}
	return b, nil
}
