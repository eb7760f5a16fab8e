package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		raw      string
		expected Status
	}{
		{"WON", StatusWon},
		{"LOST", StatusLost},
		{"CANCELLED", StatusVoid},
		{"VOID", StatusVoid},
		{"PENDING", StatusPending},
		{"", StatusPending},
		{"SOMETHING_ELSE", StatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseStatus(tt.raw))
		})
	}
}

func TestStatusDisplay(t *testing.T) {
	assert.Equal(t, DisplayWin, StatusWon.Display())
	assert.Equal(t, DisplayLoss, StatusLost.Display())
	assert.Equal(t, DisplayCancelled, StatusVoid.Display())
	assert.Equal(t, DisplayPending, StatusPending.Display())
}

func TestStatusIsCompleted(t *testing.T) {
	assert.True(t, StatusWon.IsCompleted())
	assert.True(t, StatusLost.IsCompleted())
	assert.False(t, StatusVoid.IsCompleted())
	assert.False(t, StatusPending.IsCompleted())
}

func TestMatchStartTime(t *testing.T) {
	m := MatchRecord{Date: "2026-08-28", Time: "18:30"}
	start, err := m.StartTime()
	require.NoError(t, err)
	assert.Equal(t, "2026-08-28T18:30:00Z", start.Format("2006-01-02T15:04:05Z07:00"))

	m.Time = "tbd"
	_, err = m.StartTime()
	assert.Error(t, err)
}

func TestNewMatchIDStable(t *testing.T) {
	a := NewMatchID("futbol", "2026-08-28", "18:30", "Real Madrid", "Getafe")
	b := NewMatchID("futbol", "2026-08-28", "18:30", "Real Madrid", "Getafe")
	c := NewMatchID("futbol", "2026-08-28", "20:30", "Real Madrid", "Getafe")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestSportDisplayName(t *testing.T) {
	assert.Equal(t, "⚽ Fútbol", SportDisplayName("futbol"))
	assert.Equal(t, "⚽ Fútbol", SportDisplayName("FUTBOL"))
	// Unknown keys fall through untouched.
	assert.Equal(t, "cricket", SportDisplayName("cricket"))
}
