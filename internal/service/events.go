package service

import (
	"fmt"
	"sync"

	"kanban/internal/domain"
)

// EventType defines the type of event
type EventType string

const (
	EventUserCreated     EventType = "user_created"
	EventUserUpdated     EventType = "user_updated"
	EventUserDeleted     EventType = "user_deleted"
	EventTagCreated      EventType = "tag_created"
	EventTagUpdated      EventType = "tag_updated"
	EventTagDeleted      EventType = "tag_deleted"
	EventWorkItemCreated EventType = "work_item_created"
	EventWorkItemUpdated EventType = "work_item_updated"
	EventWorkItemDeleted EventType = "work_item_deleted"
	EventBoardImported   EventType = "board_imported"
)

// Entity names used to build event types
const (
	entityUser     = "user"
	entityTag      = "tag"
	entityWorkItem = "work_item"
)

// eventFor maps a successful result on an entity to its event type
func eventFor(entity string, result domain.Result) (EventType, bool) {
	var verb string
	switch result {
	case domain.ResultCreated:
		verb = "created"
	case domain.ResultUpdated:
		verb = "updated"
	case domain.ResultDeleted:
		verb = "deleted"
	default:
		return "", false
	}
	return EventType(fmt.Sprintf("%s_%s", entity, verb)), true
}

// Event represents an event that occurred in the system
type Event struct {
	Type    EventType   `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// EntityPayload identifies the record an event is about
type EntityPayload struct {
	ID int `json:"id"`
}

// EventBus allows publishing and subscribing to events
type EventBus struct {
	mu          sync.RWMutex
	subscribers []chan<- Event
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make([]chan<- Event, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (eb *EventBus) Subscribe(ch chan<- Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.subscribers = append(eb.subscribers, ch)
}

// Unsubscribe removes a subscriber. The channel is not closed.
func (eb *EventBus) Unsubscribe(ch chan<- Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	for i, sub := range eb.subscribers {
		if sub == ch {
			eb.subscribers = append(eb.subscribers[:i], eb.subscribers[i+1:]...)
			return
		}
	}
}

// Publish sends an event to all subscribers
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	for _, ch := range eb.subscribers {
		select {
		case ch <- event:
		default:
			// Subscriber is slow, skip
		}
	}
}
