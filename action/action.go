// Package action implements the driver's player-action queue: ingestion,
// per-step draining, and a bounded execution history. Grounded on
// crates/core/src/action.rs's timestamp/player_id/submission-order drain
// rule, restyled onto Go's sort.Slice over a (Timestamp, PlayerID, seq)
// priority triple.
package action

import (
	"sort"

	"github.com/mineubob/wildfiresim/units"
)

// Type enumerates the player action kinds the driver can apply.
type Type int

const (
	ApplySuppression Type = iota
	IgniteSpot
	ModifyWeather
)

// Action is a single player-submitted command. Param1/Param2 are generic
// payload slots whose meaning depends on Type (e.g. ignite radius, or a
// suppression agent-kind ordinal).
type Action struct {
	Type      Type
	PlayerID  uint32
	Timestamp float64
	Position  units.Vec3
	Param1    float64
	Param2    uint32

	seq uint64 // submission order, breaks ties within identical (timestamp, player_id)
}

// Queue holds pending actions awaiting drain, the actions executed during
// the current frame, and a FIFO-bounded history of everything ever executed.
type Queue struct {
	pending  []Action
	executed []Action
	history  []Action
	capacity int
	nextSeq  uint64
}

const defaultHistoryCapacity = 10_000

// New returns an empty queue with the default 10,000-entry history cap.
func New() *Queue {
	return &Queue{capacity: defaultHistoryCapacity}
}

// NewWithCapacity returns an empty queue with a caller-chosen history cap.
func NewWithCapacity(capacity int) *Queue {
	return &Queue{capacity: capacity}
}

// Submit enqueues an action for the next drain, stamping it with a
// monotonically increasing submission sequence used to break sort ties.
func (q *Queue) Submit(a Action) {
	a.seq = q.nextSeq
	q.nextSeq++
	q.pending = append(q.pending, a)
}

// BeginFrame clears the executed-this-frame list, per the step loop's
// drain-then-apply protocol.
func (q *Queue) BeginFrame() {
	q.executed = q.executed[:0]
}

// TakePending drains all pending actions, sorted by (timestamp, player_id,
// submission sequence), and returns them. The queue's pending list is empty
// after this call.
func (q *Queue) TakePending() []Action {
	drained := q.pending
	q.pending = nil

	sort.Slice(drained, func(i, j int) bool {
		a, b := drained[i], drained[j]
		if a.Timestamp != b.Timestamp {
			return a.Timestamp < b.Timestamp
		}
		if a.PlayerID != b.PlayerID {
			return a.PlayerID < b.PlayerID
		}
		return a.seq < b.seq
	})

	return drained
}

// MarkExecuted records a as executed this frame and appends it to the
// bounded history, evicting the oldest entry FIFO-style once at capacity.
func (q *Queue) MarkExecuted(a Action) {
	q.executed = append(q.executed, a)

	q.history = append(q.history, a)
	if q.capacity > 0 && len(q.history) > q.capacity {
		q.history = q.history[len(q.history)-q.capacity:]
	}
}

// ExecutedThisFrame returns the actions applied during the current frame.
func (q *Queue) ExecutedThisFrame() []Action {
	return q.executed
}

// History returns the bounded execution history, oldest first.
func (q *Queue) History() []Action {
	return q.history
}

// PendingCount reports how many actions are currently queued.
func (q *Queue) PendingCount() int {
	return len(q.pending)
}
