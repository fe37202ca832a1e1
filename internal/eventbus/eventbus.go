package eventbus

import (
	"log"
	"runtime/debug"
	"sync"

	"makerbot/internal/domain"
)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// Event type constants
const (
	EventBatchStarted     = domain.EventBatchStarted
	EventBatchCompleted   = domain.EventBatchCompleted
	EventBatchDiscovered  = domain.EventBatchDiscovered
	EventPlacementStarted = domain.EventPlacementStarted
	EventObjectSelected   = domain.EventObjectSelected
	EventSelectionSkipped = domain.EventSelectionSkipped
	EventObjectPlaced     = domain.EventObjectPlaced
	EventPlacementFailed  = domain.EventPlacementFailed
	EventEditorReset      = domain.EventEditorReset
	EventMacroExecuted    = domain.EventMacroExecuted
	EventStyleChanged     = domain.EventStyleChanged
	EventError            = domain.EventError
	EventConfigLoaded     = domain.EventConfigLoaded
	EventConfigSaved      = domain.EventConfigSaved
)

// Re-export domain event types
type BatchStartedEvent = domain.BatchStartedEvent
type BatchCompletedEvent = domain.BatchCompletedEvent
type BatchDiscoveredEvent = domain.BatchDiscoveredEvent
type PlacementStartedEvent = domain.PlacementStartedEvent
type ObjectSelectedEvent = domain.ObjectSelectedEvent
type SelectionSkippedEvent = domain.SelectionSkippedEvent
type ObjectPlacedEvent = domain.ObjectPlacedEvent
type PlacementFailedEvent = domain.PlacementFailedEvent
type EditorResetEvent = domain.EditorResetEvent
type MacroExecutedEvent = domain.MacroExecutedEvent
type StyleChangedEvent = domain.StyleChangedEvent
type ErrorEvent = domain.ErrorEvent
type ConfigLoadedEvent = domain.ConfigLoadedEvent
type ConfigSavedEvent = domain.ConfigSavedEvent

// EventHandler is a function that handles domain events
type EventHandler func(DomainEvent)

// EventBus is the interface for the event bus
type EventBus interface {
	Publish(event DomainEvent)
	Subscribe(eventType EventType, handler EventHandler) func()
	Close()
}

type subscription struct {
	id      uint64
	handler EventHandler
}

// bus is the concrete implementation of EventBus
type bus struct {
	mu        sync.RWMutex
	handlers  map[EventType][]subscription
	nextID    uint64
	eventChan chan DomainEvent
	wg        sync.WaitGroup
	quit      chan struct{}
	closeOnce sync.Once
}

// New creates a new event bus
func New() EventBus {
	b := &bus{
		handlers:  make(map[EventType][]subscription),
		eventChan: make(chan DomainEvent, 1000),
		quit:      make(chan struct{}),
	}

	// Start the event dispatcher
	b.wg.Add(1)
	go b.dispatch()

	return b
}

// Publish publishes an event to all subscribers
func (b *bus) Publish(event DomainEvent) {
	// Skip logging for high-frequency events
	switch event.Type() {
	case EventPlacementStarted, EventObjectPlaced:
	default:
		log.Printf("EventBus: Publishing event %s", event.Type())
	}

	select {
	case b.eventChan <- event:
	default:
		// Channel full, log and drop
		log.Printf("Event bus channel full, dropping event: %v", event.Type())
	}
}

// Subscribe subscribes to events of a specific type
// Returns an unsubscribe function
func (b *bus) Subscribe(eventType EventType, handler EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		subs := b.handlers[eventType]
		for i, s := range subs {
			if s.id == id {
				b.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
	}
}

// Close delivers every queued event and stops the dispatcher.
// Events published after Close are dropped.
func (b *bus) Close() {
	b.closeOnce.Do(func() {
		close(b.quit)
	})
	b.wg.Wait()
}

// dispatch handles event distribution to subscribers.
// Handlers run on the dispatcher goroutine, one event at a time, so observers
// see events in publish order.
func (b *bus) dispatch() {
	defer b.wg.Done()

	for {
		select {
		case event := <-b.eventChan:
			b.deliver(event)

		case <-b.quit:
			// Drain remaining events
			for {
				select {
				case event := <-b.eventChan:
					b.deliver(event)
				default:
					return
				}
			}
		}
	}
}

func (b *bus) deliver(event DomainEvent) {
	b.mu.RLock()
	subs := b.handlers[event.Type()]
	// Make a copy to avoid holding lock during handler execution
	handlersCopy := make([]EventHandler, len(subs))
	for i, s := range subs {
		handlersCopy[i] = s.handler
	}
	b.mu.RUnlock()

	for _, handler := range handlersCopy {
		func(h EventHandler) {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("Event handler panic for %s: %v\nStack: %s", event.Type(), r, debug.Stack())
				}
			}()
			h(event)
		}(handler)
	}
}
