// events.go defines the notifications fired after the run service changes
// the store.
//
// Events are observations, not approvals: a handler error is logged and
// never returned to the caller, and the change it reports has already been
// committed.

package extension

import "github.com/jpl-au/stopwatch/measure"

// EventType identifies the kind of event.
type EventType string

const (
	EventRunRecord  EventType = "run:record"
	EventRunDelete  EventType = "run:delete"
	EventRunRestore EventType = "run:restore"
	EventVacuum     EventType = "run:vacuum"
)

// Event is the base interface for all events.
type Event interface {
	EventType() EventType
	// EventLabel is the label of the affected runs, if any.
	EventLabel() string
}

// RunRecordEvent is fired after a run is stored.
type RunRecordEvent struct {
	ID       string
	Label    string
	Command  string
	Elapsed  measure.Measurement
	ExitCode int
	Author   string
}

func (e RunRecordEvent) EventType() EventType { return EventRunRecord }
func (e RunRecordEvent) EventLabel() string   { return e.Label }

// RunDeleteEvent is fired after runs are soft-deleted. ID is empty when a
// whole label was deleted; Count is the number of runs affected.
type RunDeleteEvent struct {
	ID    string
	Label string
	Count int64
}

func (e RunDeleteEvent) EventType() EventType { return EventRunDelete }
func (e RunDeleteEvent) EventLabel() string   { return e.Label }

// RunRestoreEvent is fired after a run is restored.
type RunRestoreEvent struct {
	ID    string
	Label string
}

func (e RunRestoreEvent) EventType() EventType { return EventRunRestore }
func (e RunRestoreEvent) EventLabel() string   { return e.Label }

// VacuumEvent is fired after soft-deleted runs are purged.
type VacuumEvent struct {
	Label     string
	OlderThan *measure.Measurement
	Count     int64
}

func (e VacuumEvent) EventType() EventType { return EventVacuum }
func (e VacuumEvent) EventLabel() string   { return e.Label }

// EventHandler is implemented by extensions that want to receive events.
type EventHandler interface {
	HandleEvent(ctx Context, e Event) error
}
