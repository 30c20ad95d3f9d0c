package usecase

import "time"

// ChangeEventType is the event bus type for inventory mutations.
const ChangeEventType = "inventory.changed"

// Change operations.
const (
	OpAdded       = "added"
	OpEdited      = "edited"
	OpIncremented = "incremented"
	OpDecremented = "decremented"
	OpRemoved     = "removed"
)

// ChangePayload describes one inventory mutation.
type ChangePayload struct {
	OwnerID string `json:"ownerID"`
	Op      string `json:"op"`
	Name    string `json:"name"`
}

// ChangeEvent implements eventbus.Event for inventory mutations.
type ChangeEvent struct {
	payload ChangePayload
	at      time.Time
}

// NewChangeEvent creates a change event for the given mutation.
func NewChangeEvent(ownerID, op, name string) *ChangeEvent {
	return &ChangeEvent{
		payload: ChangePayload{OwnerID: ownerID, Op: op, Name: name},
		at:      time.Now(),
	}
}

func (e *ChangeEvent) Type() string         { return ChangeEventType }
func (e *ChangeEvent) Data() interface{}    { return e.payload }
func (e *ChangeEvent) Timestamp() time.Time { return e.at }
func (e *ChangeEvent) Source() string       { return "inventory" }

// Payload returns the typed payload.
func (e *ChangeEvent) Payload() ChangePayload { return e.payload }
