package ui

import (
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"makerbot/internal/catalog"
	"makerbot/internal/domain"
	"makerbot/internal/eventbus"
)

func TestRenderCatalog(t *testing.T) {
	c, err := catalog.NewRegistry().Build("smw")
	require.NoError(t, err)

	out := RenderCatalog(c, NewStyles())
	assert.Contains(t, out, "Style smw")
	assert.Contains(t, out, "Enemies")
	assert.Contains(t, out, "Chain Chomp")
	// Coin opens the third group
	assert.Contains(t, out, "  2.0 ")
}

func TestCompactInputs(t *testing.T) {
	inputs := []domain.Input{
		domain.InputOpenAnchor,
		domain.InputOpenMenu,
		domain.InputNextGroup, domain.InputNextGroup, domain.InputNextGroup,
		domain.InputNextItem,
		domain.InputConfirm,
	}
	assert.Equal(t, "open-anchor, open-menu, next-group x3, next-item, confirm", CompactInputs(inputs))
	assert.Equal(t, "", CompactInputs(nil))
}

func TestRenderPlan(t *testing.T) {
	entry := domain.CatalogEntry{Name: "Block", GroupIndex: 1}
	out := RenderPlan(entry, []domain.Input{domain.InputOpenAnchor, domain.InputOpenMenu, domain.InputNextGroup, domain.InputConfirm}, NewStyles())
	assert.Contains(t, out, "Block  group 1 item 0  (4 inputs)")
	assert.Contains(t, out, "next-group, confirm")
}

func TestRenderSummary(t *testing.T) {
	s := NewStyles()
	sum := domain.BatchSummary{
		Source:  "x.json",
		Total:   4,
		Placed:  2,
		Skipped: 1,
		Failures: []domain.PlacementFailure{{
			Index:     1,
			Placement: domain.Placement{Name: "Waluigi", X: 10, Y: 10},
			Err:       &domain.UnknownObjectError{Name: "Waluigi", Style: "smw"},
		}},
		Elapsed:   1500 * time.Millisecond,
		Cancelled: true,
	}

	out := RenderSummary(sum, s)
	assert.Contains(t, out, "Placed 2 of 4 objects from x.json in 1.5s")
	assert.Contains(t, out, "Skipped 1")
	assert.NotContains(t, out, "Waluigi")
	assert.Contains(t, out, "Cancelled, 1 records not attempted")

	failures := RenderFailures(sum, s)
	assert.Contains(t, failures, "Error: skipped #2 Waluigi (10, 10)")
	assert.NotContains(t, failures, "stopped early")

	sum.Cancelled = false
	sum.Err = &domain.BackendIOError{Op: "click", Err: errors.New("no helper")}
	assert.Contains(t, RenderSummary(sum, s), "Stopped early")
	assert.Contains(t, RenderFailures(sum, s), "stopped early: backend click: no helper")
}

func TestRenderFailuresEmpty(t *testing.T) {
	assert.Empty(t, RenderFailures(domain.BatchSummary{Total: 2, Placed: 2}, NewStyles()))
}

func TestModelTracksProgress(t *testing.T) {
	m := NewModel("", 0, nil)

	m.Update(EventMsg{Event: eventbus.BatchStartedEvent{Source: "x.json", Total: 3}})
	m.Update(EventMsg{Event: eventbus.PlacementStartedEvent{Index: 0, Placement: domain.Placement{Name: "Coin", X: 10, Y: 10}}})
	assert.Contains(t, m.View(), "Coin at (10, 10)")

	m.Update(EventMsg{Event: eventbus.ObjectPlacedEvent{Index: 0, Placement: domain.Placement{Name: "Coin", X: 10, Y: 10}}})
	m.Update(EventMsg{Event: eventbus.PlacementFailedEvent{
		Index:     1,
		Placement: domain.Placement{Name: "Waluigi", X: 1, Y: 1},
		Err:       errors.New("not found"),
	}})

	assert.InDelta(t, 2.0/3.0, m.Percent(), 0.001)
	view := m.View()
	assert.Contains(t, view, "Placing x.json")
	assert.Contains(t, view, "2/3")
	assert.Contains(t, view, "1 skipped")
	assert.Contains(t, view, "skipped Waluigi: not found")
	assert.Nil(t, m.Summary())
}

func TestModelQuitsOnCompletion(t *testing.T) {
	m := NewModel("x.json", 1, nil)

	_, cmd := m.Update(EventMsg{Event: eventbus.BatchCompletedEvent{
		Summary: domain.BatchSummary{Source: "x.json", Total: 1, Placed: 1},
	}})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())

	require.NotNil(t, m.Summary())
	assert.Contains(t, m.View(), "Placed 1 of 1 objects")
}

func TestModelCancelWaitsForSummary(t *testing.T) {
	cancelled := 0
	m := NewModel("x.json", 2, func() { cancelled++ })

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.Nil(t, cmd)
	assert.Equal(t, 1, cancelled)
	assert.Contains(t, m.View(), "Stopping")

	// a second request does not cancel twice
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	assert.Equal(t, 1, cancelled)

	_, cmd = m.Update(EventMsg{Event: eventbus.BatchCompletedEvent{Summary: domain.BatchSummary{Total: 2, Cancelled: true}}})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestModelWindowSize(t *testing.T) {
	m := NewModel("x.json", 1, nil)
	m.Update(tea.WindowSizeMsg{Width: 200, Height: 40})
	assert.Equal(t, 60, m.progress.Width)
	m.Update(tea.WindowSizeMsg{Width: 15, Height: 40})
	assert.Equal(t, 10, m.progress.Width)
}

type fakeSender struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (f *fakeSender) Send(msg tea.Msg) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, msg)
}

func TestBridgeForwardsProgressEvents(t *testing.T) {
	bus := eventbus.New()
	sender := &fakeSender{}
	unsubscribe := Bridge(bus, sender)

	bus.Publish(eventbus.ObjectPlacedEvent{Index: 0})
	bus.Publish(eventbus.ConfigSavedEvent{Path: "ignored"})
	bus.Publish(eventbus.BatchCompletedEvent{})
	bus.Close()
	unsubscribe()

	sender.mu.Lock()
	defer sender.mu.Unlock()
	require.Len(t, sender.msgs, 2)
	assert.Equal(t, eventbus.EventObjectPlaced, sender.msgs[0].(EventMsg).Event.Type())
	assert.Equal(t, eventbus.EventBatchCompleted, sender.msgs[1].(EventMsg).Event.Type())
}
