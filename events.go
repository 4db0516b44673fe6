package prism

import "sort"

const (
	OVERLAP_ENTER EventType = iota
	OVERLAP_STAY
	OVERLAP_EXIT
)

type pairKey struct {
	idA uint64
	idB uint64
}

// makePairKey creates a normalized pair key with consistent ordering
func makePairKey(idA, idB uint64) pairKey {
	if idB < idA {
		idA, idB = idB, idA
	}

	return pairKey{idA: idA, idB: idB}
}

type EventType uint8

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// OverlapEnterEvent is sent on the first update where the two objects overlap.
type OverlapEnterEvent struct {
	IdA uint64
	IdB uint64
}

func (e OverlapEnterEvent) Type() EventType { return OVERLAP_ENTER }

// OverlapStayEvent is sent on every following update where they still overlap.
type OverlapStayEvent struct {
	IdA uint64
	IdB uint64
}

func (e OverlapStayEvent) Type() EventType { return OVERLAP_STAY }

// OverlapExitEvent is sent once they stop overlapping, or when one of them is removed.
type OverlapExitEvent struct {
	IdA uint64
	IdB uint64
}

func (e OverlapExitEvent) Type() EventType { return OVERLAP_EXIT }

// EventListener - callback for events
type EventListener func(event Event)

// Events manager
type Events struct {
	// Listeners by event type
	listeners map[EventType][]EventListener

	// Event buffer to send at flush
	buffer []Event

	// Overlap tracking for Enter/Stay/Exit detection
	previousActivePairs map[pairKey]bool
	currentActivePairs  map[pairKey]bool
}

func NewEvents() Events {
	return Events{
		listeners:           make(map[EventType][]EventListener),
		buffer:              make([]Event, 0, 256),
		previousActivePairs: make(map[pairKey]bool),
		currentActivePairs:  make(map[pairKey]bool),
	}
}

// init allocates the maps of a zero Events.
func (e *Events) init() {
	if e.listeners == nil {
		*e = NewEvents()
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	e.init()
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

// recordOverlaps marks the pairs overlapping during this update.
func (e *Events) recordOverlaps(pairs []Pair) {
	e.init()
	for _, p := range pairs {
		e.currentActivePairs[makePairKey(p.A.ID, p.B.ID)] = true
	}
}

// forget drops every pair involving id, buffering the exit events of the active ones.
func (e *Events) forget(id uint64) {
	if e.listeners == nil {
		return
	}

	var exits []pairKey
	for pair := range e.previousActivePairs {
		if pair.idA == id || pair.idB == id {
			exits = append(exits, pair)
			delete(e.previousActivePairs, pair)
		}
	}
	for pair := range e.currentActivePairs {
		if pair.idA == id || pair.idB == id {
			delete(e.currentActivePairs, pair)
		}
	}

	sortPairKeys(exits)
	for _, pair := range exits {
		e.buffer = append(e.buffer, OverlapExitEvent{IdA: pair.idA, IdB: pair.idB})
	}
}

// processOverlapEvents compares current and previous pairs to detect Enter/Stay/Exit.
// Events are buffered in pair order so listeners see the same sequence on every run.
func (e *Events) processOverlapEvents() {
	current := make([]pairKey, 0, len(e.currentActivePairs))
	for pair := range e.currentActivePairs {
		current = append(current, pair)
	}
	sortPairKeys(current)

	for _, pair := range current {
		if e.previousActivePairs[pair] {
			// Pair was active before and still is, Stay
			e.buffer = append(e.buffer, OverlapStayEvent{IdA: pair.idA, IdB: pair.idB})
		} else {
			// New pair, Enter
			e.buffer = append(e.buffer, OverlapEnterEvent{IdA: pair.idA, IdB: pair.idB})
		}
	}

	var exits []pairKey
	for pair := range e.previousActivePairs {
		if !e.currentActivePairs[pair] {
			exits = append(exits, pair)
		}
	}
	sortPairKeys(exits)

	for _, pair := range exits {
		e.buffer = append(e.buffer, OverlapExitEvent{IdA: pair.idA, IdB: pair.idB})
	}

	// Swap for next update and clear current
	e.previousActivePairs, e.currentActivePairs = e.currentActivePairs, e.previousActivePairs
	clear(e.currentActivePairs)
}

// flush sends all buffered events and clears the buffer
func (e *Events) flush() {
	e.init()
	e.processOverlapEvents()

	for _, event := range e.buffer {
		if listeners, ok := e.listeners[event.Type()]; ok {
			for _, listener := range listeners {
				listener(event)
			}
		}
	}
	e.buffer = e.buffer[:0]
}

func sortPairKeys(pairs []pairKey) {
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].idA != pairs[j].idA {
			return pairs[i].idA < pairs[j].idA
		}
		return pairs[i].idB < pairs[j].idB
	})
}
