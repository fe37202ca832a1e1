// Package planner computes the editor inputs that move the object selector
// from its believed highlight to a target object.
package planner

import (
	"makerbot/internal/domain"
	"makerbot/internal/selection"
)

// openSequence re-opens the selector from a known anchor regardless of the
// current menu nesting
var openSequence = []domain.Input{domain.InputOpenAnchor, domain.InputOpenMenu}

// Plan returns the ordered inputs selecting target, starting from snap.
//
// Group movement is linear: the planner never wraps around even if the
// editor's group list turns out to be cyclic. That adjacency has not been
// verified against the editor.
func Plan(target domain.CatalogEntry, snap selection.State) []domain.Input {
	groupDelta := target.GroupIndex - snap.CurrentGroup
	itemDelta := target.ItemIndex - snap.CurrentItemIndex(target.GroupIndex)

	inputs := make([]domain.Input, 0, Len(target, snap))
	inputs = append(inputs, openSequence...)
	inputs = appendRepeated(inputs, groupDelta, domain.InputNextGroup, domain.InputPrevGroup)
	inputs = appendRepeated(inputs, itemDelta, domain.InputNextItem, domain.InputPrevItem)
	inputs = append(inputs, domain.InputConfirm)

	return inputs
}

// Len returns the number of inputs Plan would emit
func Len(target domain.CatalogEntry, snap selection.State) int {
	groupDelta := abs(target.GroupIndex - snap.CurrentGroup)
	itemDelta := abs(target.ItemIndex - snap.CurrentItemIndex(target.GroupIndex))
	return len(openSequence) + groupDelta + itemDelta + 1
}

// Replay applies inputs to a copy of start the way the editor is believed to
// react, returning the resulting state. Opening the menu keeps the highlight;
// only a confirm is recorded.
func Replay(start selection.State, inputs []domain.Input) selection.State {
	items := make([]int, len(start.ItemIndexPerGroup))
	copy(items, start.ItemIndexPerGroup)
	tracker := selection.State{CurrentGroup: start.CurrentGroup, ItemIndexPerGroup: items}

	group := tracker.CurrentGroup
	item := tracker.CurrentItemIndex(group)
	for _, in := range inputs {
		switch in {
		case domain.InputNextGroup:
			group++
			item = tracker.CurrentItemIndex(group)
		case domain.InputPrevGroup:
			group--
			item = tracker.CurrentItemIndex(group)
		case domain.InputNextItem:
			item++
		case domain.InputPrevItem:
			item--
		case domain.InputConfirm:
			if group < 0 {
				// before the first group; the tracker ignores it too
				continue
			}
			for group >= len(tracker.ItemIndexPerGroup) {
				tracker.ItemIndexPerGroup = append(tracker.ItemIndexPerGroup, 0)
			}
			tracker.CurrentGroup = group
			tracker.ItemIndexPerGroup[group] = item
		}
	}
	return tracker
}

func appendRepeated(inputs []domain.Input, delta int, forward, backward domain.Input) []domain.Input {
	in := forward
	if delta < 0 {
		in = backward
	}
	for i := 0; i < abs(delta); i++ {
		inputs = append(inputs, in)
	}
	return inputs
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
