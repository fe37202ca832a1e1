package selection

// State is the believed highlight of the editor's object selector
type State struct {
	CurrentGroup      int
	ItemIndexPerGroup []int // last highlighted item per group
}

// CurrentItemIndex returns the remembered item for group, 0 if never visited
func (s State) CurrentItemIndex(group int) int {
	if group < 0 || group >= len(s.ItemIndexPerGroup) {
		return 0
	}
	return s.ItemIndexPerGroup[group]
}
