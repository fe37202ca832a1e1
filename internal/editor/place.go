package editor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"makerbot/internal/domain"
	"makerbot/internal/eventbus"
	"makerbot/internal/planner"
)

// Select navigates the object menu to name and records the new selection.
// Nothing is recorded unless every input was delivered.
func (e *Editor) Select(ctx context.Context, name string) error {
	entry, err := e.catalog.Lookup(name)
	if err != nil {
		return err
	}

	inputs := planner.Plan(entry, e.tracker.Snapshot())
	for _, in := range inputs {
		if err := e.press(ctx, in); err != nil {
			// the editor may be anywhere now; force a fresh selection next time
			e.lastPlaced = ""
			return fmt.Errorf("select %s: %w", name, err)
		}
		if err := e.sleep(ctx, e.settleAfter(in)); err != nil {
			e.lastPlaced = ""
			return err
		}
	}

	e.tracker.RecordSelection(entry.GroupIndex, entry.ItemIndex)
	e.publish(eventbus.ObjectSelectedEvent{Entry: entry, Inputs: len(inputs)})
	return nil
}

func (e *Editor) settleAfter(in domain.Input) time.Duration {
	switch in {
	case domain.InputOpenMenu:
		return e.timing.MenuSettle
	case domain.InputConfirm:
		return e.timing.ConfirmSettle
	default:
		return e.timing.InputGap
	}
}

// Place selects name unless it is still selected, then clicks the grid
// point. Points under the floating menu are reached by hiding the menu
// around the click.
func (e *Editor) Place(ctx context.Context, name string, p domain.GridPoint) error {
	return e.placeAt(ctx, 0, domain.Placement{Name: name, X: p.X, Y: p.Y})
}

func (e *Editor) placeAt(ctx context.Context, index int, rec domain.Placement) error {
	point := rec.Point()
	if err := e.geometry.Validate(point); err != nil {
		return err
	}

	if e.lastPlaced != "" && rec.Name == e.lastPlaced {
		e.publish(eventbus.SelectionSkippedEvent{Name: rec.Name})
	} else if err := e.Select(ctx, rec.Name); err != nil {
		return err
	}

	obstructed := e.geometry.IsObstructed(point)
	px, py := e.geometry.ToPixel(point)
	pixel, err := e.clickThroughOverlay(ctx, domain.PixelPoint{X: px, Y: py}, obstructed)
	if err != nil {
		// the selection may have changed even though the click failed
		e.lastPlaced = ""
		return fmt.Errorf("place %s at %s: %w", rec.Name, point, err)
	}

	e.lastPlaced = rec.Name
	e.publish(eventbus.ObjectPlacedEvent{
		Index:      index,
		Placement:  rec,
		Pixel:      pixel,
		Obstructed: obstructed,
	})
	return nil
}

// clickThroughOverlay clicks a canvas pixel, hiding the floating menu
// first when it covers the point. The menu is restored even if the click
// fails.
func (e *Editor) clickThroughOverlay(ctx context.Context, p domain.PixelPoint, obstructed bool) (domain.PixelPoint, error) {
	if obstructed {
		if err := e.press(ctx, domain.InputToggleOverlay); err != nil {
			return domain.PixelPoint{}, err
		}
	}

	pixel, clickErr := e.clickWindow(ctx, p, e.timing.ClickHold)

	if obstructed {
		if err := e.press(ctx, domain.InputToggleOverlay); err != nil && clickErr == nil {
			clickErr = err
		}
	}
	return pixel, clickErr
}

// RunBatch places records in order. Records that fail are reported and
// skipped. Cancelling ctx stops the batch before the next record; a record
// that has started always runs to completion. In strict mode a backend I/O
// error stops the batch since the editor state is no longer known.
func (e *Editor) RunBatch(ctx context.Context, source string, records []domain.Placement) domain.BatchSummary {
	start := time.Now()
	summary := domain.BatchSummary{Source: source, Total: len(records)}

	log.Printf("Editor: starting batch %s (%d records, style %s)", source, len(records), e.catalog.Style())
	e.publish(eventbus.BatchStartedEvent{Source: source, Total: len(records)})

	recordCtx := context.WithoutCancel(ctx)
	for i, rec := range records {
		if ctx.Err() != nil {
			summary.Cancelled = true
			log.Printf("Editor: batch %s cancelled after %d of %d records", source, i, len(records))
			break
		}
		if i > 0 {
			if err := e.sleep(ctx, e.timing.PlacementGap); err != nil {
				summary.Cancelled = true
				break
			}
		}

		e.publish(eventbus.PlacementStartedEvent{Index: i, Placement: rec})
		err := e.placeAt(recordCtx, i, rec)
		if err == nil {
			summary.Placed++
			continue
		}

		log.Printf("Editor: skipping record %d (%s at %d,%d): %v", i+1, rec.Name, rec.X, rec.Y, err)
		summary.Skipped++
		summary.Failures = append(summary.Failures, domain.PlacementFailure{Index: i, Placement: rec, Err: err})
		e.publish(eventbus.PlacementFailedEvent{Index: i, Placement: rec, Err: err})

		var ioErr *domain.BackendIOError
		if !errors.As(err, &ioErr) {
			continue
		}
		if e.strict {
			summary.Err = err
			e.publish(eventbus.ErrorEvent{Message: "batch stopped", Err: err})
			break
		}
		e.publish(eventbus.ErrorEvent{Message: "backend error, continuing", Err: err})
	}

	summary.Elapsed = time.Since(start)
	log.Printf("Editor: batch %s done: %d placed, %d skipped in %s",
		source, summary.Placed, summary.Skipped, summary.Elapsed.Round(time.Millisecond))
	e.publish(eventbus.BatchCompletedEvent{Summary: summary})
	return summary
}
