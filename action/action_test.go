package action

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mineubob/wildfiresim/units"
)

func TestTakePendingSortsByTimestampThenPlayerThenSubmission(t *testing.T) {
	q := New()
	q.Submit(Action{Type: IgniteSpot, PlayerID: 2, Timestamp: 1.0})
	q.Submit(Action{Type: IgniteSpot, PlayerID: 1, Timestamp: 1.0})
	q.Submit(Action{Type: IgniteSpot, PlayerID: 1, Timestamp: 0.5})

	drained := q.TakePending()
	assert.Len(t, drained, 3)
	assert.Equal(t, 0.5, drained[0].Timestamp)
	assert.Equal(t, uint32(1), drained[0].PlayerID)
	assert.Equal(t, 1.0, drained[1].Timestamp)
	assert.Equal(t, uint32(1), drained[1].PlayerID)
	assert.Equal(t, uint32(2), drained[2].PlayerID)
}

func TestTakePendingBreaksTiesBySubmissionOrder(t *testing.T) {
	q := New()
	q.Submit(Action{Type: IgniteSpot, PlayerID: 1, Timestamp: 1.0, Param1: 1})
	q.Submit(Action{Type: IgniteSpot, PlayerID: 1, Timestamp: 1.0, Param1: 2})

	drained := q.TakePending()
	assert.Equal(t, 1.0, drained[0].Param1)
	assert.Equal(t, 2.0, drained[1].Param1)
}

func TestTakePendingDrainsQueue(t *testing.T) {
	q := New()
	q.Submit(Action{Type: ModifyWeather})
	assert.Equal(t, 1, q.PendingCount())
	q.TakePending()
	assert.Equal(t, 0, q.PendingCount())
}

func TestBeginFrameClearsExecuted(t *testing.T) {
	q := New()
	q.MarkExecuted(Action{Type: IgniteSpot, Position: units.NewVec3(1, 2, 0)})
	assert.Len(t, q.ExecutedThisFrame(), 1)
	q.BeginFrame()
	assert.Len(t, q.ExecutedThisFrame(), 0)
}

func TestMarkExecutedAppendsToHistory(t *testing.T) {
	q := New()
	q.MarkExecuted(Action{Type: ApplySuppression})
	q.MarkExecuted(Action{Type: IgniteSpot})
	assert.Len(t, q.History(), 2)
}

func TestHistoryFIFOEviction(t *testing.T) {
	q := NewWithCapacity(3)
	for i := 0; i < 5; i++ {
		q.MarkExecuted(Action{Type: IgniteSpot, Param2: uint32(i)})
	}
	hist := q.History()
	assert.Len(t, hist, 3)
	assert.Equal(t, uint32(2), hist[0].Param2)
	assert.Equal(t, uint32(4), hist[2].Param2)
}

func TestHistoryLengthEqualsMinTotalExecutedAndCap(t *testing.T) {
	q := NewWithCapacity(10)
	for i := 0; i < 4; i++ {
		q.MarkExecuted(Action{Type: ModifyWeather})
	}
	assert.Len(t, q.History(), 4)
}
