package prism

import (
	"testing"

	"github.com/akmonengine/prism/shape"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

type eventCapture struct {
	events []Event
}

func (ec *eventCapture) capture(event Event) {
	ec.events = append(ec.events, event)
}

func (ec *eventCapture) reset() {
	ec.events = ec.events[:0]
}

func (ec *eventCapture) count() int {
	return len(ec.events)
}

func (ec *eventCapture) hasEventType(eventType EventType) bool {
	for _, e := range ec.events {
		if e.Type() == eventType {
			return true
		}
	}
	return false
}

// testPair builds a Pair between two objects holding the same unit box.
func testPair(idA, idB uint64) Pair {
	box := shape.NewAABB(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 1})
	return Pair{A: Object{ID: idA, Shape: box}, B: Object{ID: idB, Shape: box}}
}

// =============================================================================
// Subscribe and Listeners Tests
// =============================================================================

func TestEvents_Subscribe(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}

	events.Subscribe(OVERLAP_ENTER, capture.capture)

	if len(events.listeners[OVERLAP_ENTER]) != 1 {
		t.Errorf("Expected 1 listener for OVERLAP_ENTER, got %d", len(events.listeners[OVERLAP_ENTER]))
	}
}

func TestEvents_ZeroValue(t *testing.T) {
	var events Events
	capture := &eventCapture{}

	events.Subscribe(OVERLAP_ENTER, capture.capture)
	events.recordOverlaps([]Pair{testPair(1, 2)})
	events.flush()

	assert.Equal(t, []Event{OverlapEnterEvent{IdA: 1, IdB: 2}}, capture.events)
}

func TestEvents_MultipleListeners(t *testing.T) {
	events := NewEvents()
	capture1 := &eventCapture{}
	capture2 := &eventCapture{}
	capture3 := &eventCapture{}

	events.Subscribe(OVERLAP_ENTER, capture1.capture)
	events.Subscribe(OVERLAP_ENTER, capture2.capture)
	events.Subscribe(OVERLAP_ENTER, capture3.capture)

	events.recordOverlaps([]Pair{testPair(1, 2)})
	events.flush()

	assert.Equal(t, 1, capture1.count())
	assert.Equal(t, 1, capture2.count())
	assert.Equal(t, 1, capture3.count())
}

func TestEvents_DifferentEventTypes(t *testing.T) {
	events := NewEvents()
	captureEnter := &eventCapture{}
	captureExit := &eventCapture{}

	events.Subscribe(OVERLAP_ENTER, captureEnter.capture)
	events.Subscribe(OVERLAP_EXIT, captureExit.capture)

	events.recordOverlaps([]Pair{testPair(1, 2)})
	events.flush()

	assert.Equal(t, 1, captureEnter.count())
	assert.Equal(t, 0, captureExit.count())
}

// =============================================================================
// makePairKey Tests
// =============================================================================

func TestMakePairKey_Normalization(t *testing.T) {
	assert.Equal(t, makePairKey(3, 7), makePairKey(7, 3))
	assert.Equal(t, pairKey{idA: 3, idB: 7}, makePairKey(7, 3))
	assert.NotEqual(t, makePairKey(3, 7), makePairKey(3, 8))
}

// =============================================================================
// Enter/Stay/Exit Lifecycle Tests
// =============================================================================

func TestEvents_Lifecycle(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	events.Subscribe(OVERLAP_ENTER, capture.capture)
	events.Subscribe(OVERLAP_STAY, capture.capture)
	events.Subscribe(OVERLAP_EXIT, capture.capture)

	// Update 1: the pair starts overlapping
	events.recordOverlaps([]Pair{testPair(1, 2)})
	events.flush()
	assert.Equal(t, []Event{OverlapEnterEvent{IdA: 1, IdB: 2}}, capture.events)

	// Update 2: still overlapping
	capture.reset()
	events.recordOverlaps([]Pair{testPair(2, 1)})
	events.flush()
	assert.Equal(t, []Event{OverlapStayEvent{IdA: 1, IdB: 2}}, capture.events)

	// Update 3: separated
	capture.reset()
	events.flush()
	assert.Equal(t, []Event{OverlapExitEvent{IdA: 1, IdB: 2}}, capture.events)

	// Update 4: nothing left to report
	capture.reset()
	events.flush()
	assert.Equal(t, 0, capture.count())
}

func TestEvents_DeterministicOrder(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	events.Subscribe(OVERLAP_ENTER, capture.capture)
	events.Subscribe(OVERLAP_STAY, capture.capture)
	events.Subscribe(OVERLAP_EXIT, capture.capture)

	events.recordOverlaps([]Pair{testPair(5, 6), testPair(1, 9), testPair(1, 3)})
	events.flush()
	assert.Equal(t, []Event{
		OverlapEnterEvent{IdA: 1, IdB: 3},
		OverlapEnterEvent{IdA: 1, IdB: 9},
		OverlapEnterEvent{IdA: 5, IdB: 6},
	}, capture.events)

	capture.reset()
	events.recordOverlaps([]Pair{testPair(5, 6), testPair(2, 4)})
	events.flush()

	// Enter and Stay first in pair order, then the exits
	assert.Equal(t, []Event{
		OverlapEnterEvent{IdA: 2, IdB: 4},
		OverlapStayEvent{IdA: 5, IdB: 6},
		OverlapExitEvent{IdA: 1, IdB: 3},
		OverlapExitEvent{IdA: 1, IdB: 9},
	}, capture.events)
}

func TestEvents_Forget(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	events.Subscribe(OVERLAP_EXIT, capture.capture)

	events.recordOverlaps([]Pair{testPair(1, 2), testPair(2, 3), testPair(3, 4)})
	events.flush()

	events.forget(3)
	assert.False(t, events.previousActivePairs[makePairKey(2, 3)])
	assert.False(t, events.previousActivePairs[makePairKey(3, 4)])
	assert.True(t, events.previousActivePairs[makePairKey(1, 2)])

	// The removed object's pairs exit once, the others keep going
	events.recordOverlaps([]Pair{testPair(1, 2)})
	events.flush()
	assert.Equal(t, []Event{
		OverlapExitEvent{IdA: 2, IdB: 3},
		OverlapExitEvent{IdA: 3, IdB: 4},
	}, capture.events)
	assert.False(t, capture.hasEventType(OVERLAP_ENTER))
}
