package scheduling

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateFullGrid(t *testing.T) {
	g := NewGenerator(BusinessWindow{StartHour: 9, EndHour: 17})
	slots := g.Generate(testDay, NewHourSet(10, 14))

	require.Len(t, slots, 8)

	for i, slot := range slots {
		assert.Equal(t, float64(9+i), slot.StartHour)
		assert.Equal(t, float64(10+i), slot.EndHour)
		assert.Equal(t, testDay, slot.Day)
	}

	available := make(map[float64]bool)
	for _, slot := range slots {
		available[slot.StartHour] = slot.IsAvailable
	}
	assert.True(t, available[10])
	assert.True(t, available[14])
	assert.False(t, available[9])
	assert.False(t, available[16])
}

func TestGenerateBlockedHoursAreRendered(t *testing.T) {
	// An empty availability set still yields the full grid, all blocked, so
	// the consumer can show why each hour is unbookable.
	g := NewGenerator(BusinessWindow{StartHour: 9, EndHour: 17})
	slots := g.Generate(testDay, NewHourSet())

	require.Len(t, slots, 8)
	for _, slot := range slots {
		assert.False(t, slot.IsAvailable)
	}
}

func TestGenerateUniqueIDsAcrossCalls(t *testing.T) {
	g := NewGenerator(BusinessWindow{StartHour: 9, EndHour: 17})
	seen := make(map[uuid.UUID]struct{})

	for i := 0; i < 10; i++ {
		for _, slot := range g.Generate(testDay, NewHourSet(9, 10, 11)) {
			_, dup := seen[slot.ID]
			require.False(t, dup, "slot id reused across generations")
			seen[slot.ID] = struct{}{}
		}
	}
}

func TestSlotWindow(t *testing.T) {
	g := NewGenerator(BusinessWindow{StartHour: 9, EndHour: 10})
	slots := g.Generate(testDay, NewHourSet(9))
	require.Len(t, slots, 1)

	start, end := slots[0].Window()
	assert.Equal(t, testDay.Add(9*time.Hour), start)
	assert.Equal(t, testDay.Add(10*time.Hour), end)
}
