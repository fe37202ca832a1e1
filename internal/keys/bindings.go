package keys

import (
	"fmt"

	"makerbot/internal/domain"
)

// Bindings maps logical editor inputs to controller buttons
type Bindings map[domain.Input]Button

// DefaultBindings returns the editor's controller bindings
func DefaultBindings() Bindings {
	return Bindings{
		domain.InputOpenAnchor:    DUp,
		domain.InputOpenMenu:      Y,
		domain.InputNextGroup:     R,
		domain.InputPrevGroup:     L,
		domain.InputNextItem:      DRight,
		domain.InputPrevItem:      DLeft,
		domain.InputConfirm:       A,
		domain.InputToggleOverlay: Minus,
		domain.InputToggleEraser:  L,
	}
}

// Resolve returns the key code that delivers in on layout
func (b Bindings) Resolve(in domain.Input, layout Layout) (Code, error) {
	button, ok := b[in]
	if !ok {
		return 0, fmt.Errorf("no button bound to input %q", in)
	}
	return layout.Code(button)
}
