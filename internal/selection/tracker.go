package selection

// Tracker owns the selection belief model for one run.
//
// It is never read back from the editor: a dropped input desynchronises it
// until Reset. Callers must serialise access; the placement loop is the only
// owner.
type Tracker struct {
	state  State
	groups int
}

// NewTracker creates a tracker for a catalog with the given group count,
// matching the editor's highlight when its menu first opens
func NewTracker(groups int) *Tracker {
	t := &Tracker{groups: groups}
	t.Reset()
	return t
}

// CurrentGroup returns the group the editor is believed to highlight
func (t *Tracker) CurrentGroup() int {
	return t.state.CurrentGroup
}

// CurrentItemIndex returns the remembered item for group, 0 if never visited
func (t *Tracker) CurrentItemIndex(group int) int {
	return t.state.CurrentItemIndex(group)
}

// RecordSelection stores a confirmed selection. Call exactly once per
// confirm, never speculatively.
func (t *Tracker) RecordSelection(group, item int) {
	if group < 0 {
		return
	}
	for group >= len(t.state.ItemIndexPerGroup) {
		t.state.ItemIndexPerGroup = append(t.state.ItemIndexPerGroup, 0)
	}
	t.state.CurrentGroup = group
	t.state.ItemIndexPerGroup[group] = item
}

// Reset restores the initial state, as after an editor level reset
func (t *Tracker) Reset() {
	t.state = State{
		CurrentGroup:      0,
		ItemIndexPerGroup: make([]int, t.groups),
	}
}

// Snapshot returns a copy of the current state
func (t *Tracker) Snapshot() State {
	items := make([]int, len(t.state.ItemIndexPerGroup))
	copy(items, t.state.ItemIndexPerGroup)
	return State{
		CurrentGroup:      t.state.CurrentGroup,
		ItemIndexPerGroup: items,
	}
}
