package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"makerbot/internal/eventbus"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// Sender is the part of *tea.Program the event bridge needs
type Sender interface {
	Send(msg tea.Msg)
}

// progressEvents are the events the progress view consumes
var progressEvents = []eventbus.EventType{
	eventbus.EventBatchStarted,
	eventbus.EventPlacementStarted,
	eventbus.EventObjectPlaced,
	eventbus.EventPlacementFailed,
	eventbus.EventBatchCompleted,
	eventbus.EventError,
}

// Bridge forwards progress events from the bus into a running program.
// The returned function unsubscribes.
func Bridge(bus eventbus.EventBus, p Sender) func() {
	var unsubs []func()
	for _, et := range progressEvents {
		unsubs = append(unsubs, bus.Subscribe(et, func(e eventbus.DomainEvent) {
			p.Send(EventMsg{Event: e})
		}))
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}
