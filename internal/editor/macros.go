package editor

import (
	"context"
	"fmt"
	"log"

	"makerbot/internal/domain"
	"makerbot/internal/eventbus"
)

const (
	MacroResetLevel   = "reset-level"
	MacroShortenTrack = "shorten-track"
	MacroErase        = "erase"
)

// ResetLevel holds the reset button until the level is cleared. The editor
// returns to its initial menu state, so the selection belief starts over.
func (e *Editor) ResetLevel(ctx context.Context) error {
	if _, err := e.clickWindow(ctx, e.reset, e.resetFor); err != nil {
		return fmt.Errorf("%s: %w", MacroResetLevel, err)
	}
	e.tracker.Reset()
	e.lastPlaced = ""

	log.Printf("Editor: level reset")
	e.publish(eventbus.EditorResetEvent{})
	return nil
}

// ShortenTrack replays the configured course-shortening steps
func (e *Editor) ShortenTrack(ctx context.Context) error {
	if len(e.shorten) == 0 {
		return fmt.Errorf("%s: no steps configured", MacroShortenTrack)
	}
	for i, step := range e.shorten {
		var err error
		if step.Click != nil {
			_, err = e.clickWindow(ctx, *step.Click, step.Hold)
		} else {
			err = e.pressButton(ctx, step.Button, step.Hold)
		}
		if err != nil {
			return fmt.Errorf("%s step %d: %w", MacroShortenTrack, i+1, err)
		}
		if err := e.sleep(ctx, step.Wait); err != nil {
			return err
		}
	}

	e.publish(eventbus.MacroExecutedEvent{Name: MacroShortenTrack, Steps: len(e.shorten)})
	return nil
}

// Erase toggles the eraser, clicks the point and toggles the eraser back.
// The selected object is unchanged.
func (e *Editor) Erase(ctx context.Context, p domain.GridPoint) error {
	if err := e.geometry.Validate(p); err != nil {
		return err
	}
	if err := e.press(ctx, domain.InputToggleEraser); err != nil {
		return fmt.Errorf("%s: %w", MacroErase, err)
	}

	px, py := e.geometry.ToPixel(p)
	_, clickErr := e.clickThroughOverlay(ctx, domain.PixelPoint{X: px, Y: py}, e.geometry.IsObstructed(p))

	if err := e.press(ctx, domain.InputToggleEraser); err != nil && clickErr == nil {
		clickErr = err
	}
	if clickErr != nil {
		return fmt.Errorf("%s at %s: %w", MacroErase, p, clickErr)
	}

	e.publish(eventbus.MacroExecutedEvent{Name: MacroErase, Steps: 3})
	return nil
}
