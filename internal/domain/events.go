package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventBatchStarted     EventType = "BatchStarted"
	EventBatchCompleted   EventType = "BatchCompleted"
	EventBatchDiscovered  EventType = "BatchDiscovered"
	EventPlacementStarted EventType = "PlacementStarted"
	EventObjectSelected   EventType = "ObjectSelected"
	EventSelectionSkipped EventType = "SelectionSkipped"
	EventObjectPlaced     EventType = "ObjectPlaced"
	EventPlacementFailed  EventType = "PlacementFailed"
	EventEditorReset      EventType = "EditorReset"
	EventMacroExecuted    EventType = "MacroExecuted"
	EventStyleChanged     EventType = "StyleChanged"
	EventError            EventType = "Error"
	EventConfigLoaded     EventType = "ConfigLoaded"
	EventConfigSaved      EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// BatchStartedEvent is emitted before the first record of a batch
type BatchStartedEvent struct {
	Source string
	Total  int
}

func (e BatchStartedEvent) Type() EventType { return EventBatchStarted }

// BatchCompletedEvent is emitted after the last record of a batch
type BatchCompletedEvent struct {
	Summary BatchSummary
}

func (e BatchCompletedEvent) Type() EventType { return EventBatchCompleted }

// BatchDiscoveredEvent is emitted when the inbox watcher finds a batch file
type BatchDiscoveredEvent struct {
	Path string
}

func (e BatchDiscoveredEvent) Type() EventType { return EventBatchDiscovered }

// PlacementStartedEvent is emitted when a record is picked up
type PlacementStartedEvent struct {
	Index     int
	Placement Placement
}

func (e PlacementStartedEvent) Type() EventType { return EventPlacementStarted }

// ObjectSelectedEvent is emitted after a selection plan was executed
type ObjectSelectedEvent struct {
	Entry  CatalogEntry
	Inputs int // number of inputs sent, including open and confirm
}

func (e ObjectSelectedEvent) Type() EventType { return EventObjectSelected }

// SelectionSkippedEvent is emitted when the object is still selected
type SelectionSkippedEvent struct {
	Name string
}

func (e SelectionSkippedEvent) Type() EventType { return EventSelectionSkipped }

// ObjectPlacedEvent is emitted after the placement click
type ObjectPlacedEvent struct {
	Index      int
	Placement  Placement
	Pixel      PixelPoint
	Obstructed bool
}

func (e ObjectPlacedEvent) Type() EventType { return EventObjectPlaced }

// PlacementFailedEvent is emitted when a record is skipped
type PlacementFailedEvent struct {
	Index     int
	Placement Placement
	Err       error
}

func (e PlacementFailedEvent) Type() EventType { return EventPlacementFailed }

// EditorResetEvent is emitted after the level was cleared
type EditorResetEvent struct{}

func (e EditorResetEvent) Type() EventType { return EventEditorReset }

// MacroExecutedEvent is emitted after an editor macro ran
type MacroExecutedEvent struct {
	Name  string
	Steps int
}

func (e MacroExecutedEvent) Type() EventType { return EventMacroExecuted }

// StyleChangedEvent is emitted when the active style is switched
type StyleChangedEvent struct {
	Style string
}

func (e StyleChangedEvent) Type() EventType { return EventStyleChanged }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }
