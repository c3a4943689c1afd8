package calendar

import (
	"fieldfuze-scheduler/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayoutDaySplitsOverlappingEventsIntoColumns(t *testing.T) {
	events := []models.Event{
		event(3, at(11, 0), at(12, 0)),
		event(1, at(9, 0), at(10, 0)),
		event(2, at(9, 30), at(10, 30)),
	}

	placed := LayoutDay(events, at(0, 0))

	require.Len(t, placed, 3)
	assert.Equal(t, int64(1), placed[0].Event.Resource.AppointmentID)
	assert.Equal(t, 0, placed[0].Column)
	assert.Equal(t, 2, placed[0].Columns)

	assert.Equal(t, int64(2), placed[1].Event.Resource.AppointmentID)
	assert.Equal(t, 1, placed[1].Column)
	assert.Equal(t, 2, placed[1].Columns)

	assert.Equal(t, int64(3), placed[2].Event.Resource.AppointmentID)
	assert.Equal(t, 0, placed[2].Column)
	assert.Equal(t, 1, placed[2].Columns)
	assert.InDelta(t, 256.0, placed[2].Position.Top, 1e-9)
}

func TestLayoutDayReusesFreedColumn(t *testing.T) {
	events := []models.Event{
		event(1, at(9, 0), at(12, 0)),
		event(2, at(9, 0), at(10, 0)),
		event(3, at(10, 0), at(11, 0)),
	}

	placed := LayoutDay(events, at(0, 0))

	require.Len(t, placed, 3)
	assert.Equal(t, 0, placed[0].Column)
	assert.Equal(t, 1, placed[1].Column)
	assert.Equal(t, 1, placed[2].Column)
	for _, p := range placed {
		assert.Equal(t, 2, p.Columns)
	}
}

func TestDaySlots(t *testing.T) {
	events := []models.Event{event(1, at(8, 30), at(9, 30))}

	slots := DaySlots(events, at(0, 0), 7, 10, time.Hour)

	require.Len(t, slots, 3)
	assert.Equal(t, "07:00", slots[0].Label)
	assert.Empty(t, slots[0].Events)
	assert.Len(t, slots[1].Events, 1)
	assert.Len(t, slots[2].Events, 1)
	assert.Equal(t, at(9, 0).Unix(), slots[2].Start)
	assert.Equal(t, at(10, 0).Unix(), slots[2].End)
}

func TestDaySlotsInvalidRange(t *testing.T) {
	assert.Empty(t, DaySlots(nil, at(0, 0), 10, 7, time.Hour))
	assert.Empty(t, DaySlots(nil, at(0, 0), 7, 10, 0))
}
