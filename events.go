package rigid

import (
	"github.com/akmonengine/rigid/actor"
	"github.com/akmonengine/rigid/constraint"
)

const (
	COLLISION_ENTER EventType = iota
	COLLISION_STAY
	COLLISION_EXIT
)

type pairKey struct {
	bodyA *actor.RigidBody
	bodyB *actor.RigidBody
}

// makePairKey creates a normalized pair key, ordered by body Id
func makePairKey(bodyA, bodyB *actor.RigidBody) pairKey {
	if bodyB.Id < bodyA.Id {
		bodyA, bodyB = bodyB, bodyA
	}

	return pairKey{bodyA: bodyA, bodyB: bodyB}
}

type EventType uint8

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// CollisionEnterEvent is sent on the first tick two bodies touch.
type CollisionEnterEvent struct {
	BodyA   *actor.RigidBody
	BodyB   *actor.RigidBody
	Contact constraint.Contact
}

func (e CollisionEnterEvent) Type() EventType { return COLLISION_ENTER }

type CollisionStayEvent struct {
	BodyA   *actor.RigidBody
	BodyB   *actor.RigidBody
	Contact constraint.Contact
}

func (e CollisionStayEvent) Type() EventType { return COLLISION_STAY }

// CollisionExitEvent is sent on the first tick two bodies stop touching.
type CollisionExitEvent struct {
	BodyA *actor.RigidBody
	BodyB *actor.RigidBody
}

func (e CollisionExitEvent) Type() EventType { return COLLISION_EXIT }

// EventListener - callback for events
type EventListener func(event Event)

// Events manager
type Events struct {
	// Listeners by event type
	listeners map[EventType][]EventListener

	// Event buffer to send at flush
	buffer []Event

	// Collision tracking for Enter/Stay/Exit detection
	previousActivePairs map[pairKey]bool
	currentActivePairs  map[pairKey]constraint.Contact
	// pairs in detection order, so events are sent in a stable order
	previousOrder []pairKey
	currentOrder  []pairKey
}

func NewEvents() Events {
	return Events{
		listeners:           make(map[EventType][]EventListener),
		buffer:              make([]Event, 0, 256),
		previousActivePairs: make(map[pairKey]bool),
		currentActivePairs:  make(map[pairKey]constraint.Contact),
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

// recordCollisions marks the pairs touching during this tick. A pair reported
// twice keeps its first contact.
func (e *Events) recordCollisions(contacts []constraint.Contact) {
	for _, c := range contacts {
		pair := makePairKey(c.BodyA, c.BodyB)
		if _, ok := e.currentActivePairs[pair]; ok {
			continue
		}
		e.currentActivePairs[pair] = c
		e.currentOrder = append(e.currentOrder, pair)
	}
}

// forget drops every tracked pair involving body, without an Exit event.
func (e *Events) forget(body *actor.RigidBody) {
	n := 0
	for _, pair := range e.previousOrder {
		if pair.bodyA == body || pair.bodyB == body {
			delete(e.previousActivePairs, pair)
			continue
		}
		e.previousOrder[n] = pair
		n++
	}
	e.previousOrder = e.previousOrder[:n]
}

// processCollisionEvents compares current and previous pairs to detect
// Enter/Stay/Exit
func (e *Events) processCollisionEvents() {
	for _, pair := range e.currentOrder {
		contact := e.currentActivePairs[pair]
		if e.previousActivePairs[pair] {
			e.buffer = append(e.buffer, CollisionStayEvent{BodyA: pair.bodyA, BodyB: pair.bodyB, Contact: contact})
		} else {
			e.buffer = append(e.buffer, CollisionEnterEvent{BodyA: pair.bodyA, BodyB: pair.bodyB, Contact: contact})
		}
	}

	for _, pair := range e.previousOrder {
		if _, ok := e.currentActivePairs[pair]; !ok {
			// Pair was active but is no longer, Exit
			e.buffer = append(e.buffer, CollisionExitEvent{BodyA: pair.bodyA, BodyB: pair.bodyB})
		}
	}

	// Swap for next tick and clear current
	clear(e.previousActivePairs)
	for _, pair := range e.currentOrder {
		e.previousActivePairs[pair] = true
	}
	e.previousOrder, e.currentOrder = e.currentOrder, e.previousOrder[:0]
	clear(e.currentActivePairs)
}

// flush sends all buffered events and clears the buffer
func (e *Events) flush() {
	e.processCollisionEvents()

	for _, event := range e.buffer {
		for _, listener := range e.listeners[event.Type()] {
			listener(event)
		}
	}
	e.buffer = e.buffer[:0]
}
