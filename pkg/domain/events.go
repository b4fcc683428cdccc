package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventMove   EventType = "move"
	EventReject EventType = "reject"
	EventUndo   EventType = "undo"
	EventSolved EventType = "solved"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	GameID    string    `json:"game_id,omitempty"`
}

// MoveEvent reports an accepted pour or added vial.
type MoveEvent struct {
	EventBase
	Move  Move `json:"move"`
	Depth int  `json:"depth"` // history depth after the move
}

// RejectEvent reports a pour that was refused.
type RejectEvent struct {
	EventBase
	Source int    `json:"source"`
	Dest   int    `json:"dest"`
	Reason string `json:"reason"`
}

// UndoEvent reports an undo request. Undone is false at the bottom of history.
type UndoEvent struct {
	EventBase
	Undone bool `json:"undone"`
	Depth  int  `json:"depth"`
}

// LifecycleHooks defines callbacks for engine observability.
// Nil hooks are skipped.
type LifecycleHooks struct {
	OnMove   func(context.Context, *MoveEvent)
	OnReject func(context.Context, *RejectEvent)
	OnUndo   func(context.Context, *UndoEvent)
	OnSolved func(context.Context, *EventBase)
}

// NewEventBase stamps an event of the given type.
func NewEventBase(t EventType, gameID string) EventBase {
	return EventBase{Timestamp: time.Now(), Type: t, GameID: gameID}
}
