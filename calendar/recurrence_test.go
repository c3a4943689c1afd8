package calendar

import (
	"fieldfuze-scheduler/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weeklyVisit(rule string) models.Appointment {
	start := time.Date(2026, 10, 5, 9, 0, 0, 0, time.UTC)
	return models.Appointment{
		ID:             11,
		StartDate:      start.Unix(),
		EndDate:        start.Add(time.Hour).Unix(),
		ClientName:     "Acme",
		Technicians:    []models.Technician{technician(1, "Amy")},
		RecurrenceRule: rule,
	}
}

func october() (int64, int64) {
	return time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC).Unix(),
		time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC).Unix()
}

func TestExpandRecurringWeekly(t *testing.T) {
	from, to := october()

	out := ExpandRecurring([]models.Appointment{weeklyVisit("FREQ=WEEKLY;COUNT=4")}, from, to, time.UTC)

	require.Len(t, out, 4)
	for i, occ := range out {
		want := time.Date(2026, 10, 5+7*i, 9, 0, 0, 0, time.UTC)
		assert.Equal(t, int64(11), occ.ID)
		assert.Equal(t, want.Unix(), occ.StartDate)
		assert.Equal(t, want.Add(time.Hour).Unix(), occ.EndDate)
	}

	// occurrences of one appointment never overlap each other
	events := ProjectEvents(out, roster(1))
	assert.False(t, Overlaps(events[0], events[1]))
}

func TestExpandRecurringAcceptsRRulePrefix(t *testing.T) {
	from, to := october()

	out := ExpandRecurring([]models.Appointment{weeklyVisit("RRULE:FREQ=DAILY;COUNT=3")}, from, to, time.UTC)

	assert.Len(t, out, 3)
}

func TestExpandRecurringIncludesOccurrenceRunningAtWindowStart(t *testing.T) {
	from := time.Date(2026, 10, 12, 9, 30, 0, 0, time.UTC).Unix()
	to := time.Date(2026, 10, 13, 0, 0, 0, 0, time.UTC).Unix()

	out := ExpandRecurring([]models.Appointment{weeklyVisit("FREQ=WEEKLY")}, from, to, time.UTC)

	require.Len(t, out, 1)
	assert.Equal(t, time.Date(2026, 10, 12, 9, 0, 0, 0, time.UTC).Unix(), out[0].StartDate)
}

func TestExpandRecurringInvalidRuleKeepsBase(t *testing.T) {
	from, to := october()
	base := weeklyVisit("FREQ=SOMETIMES")

	out := ExpandRecurring([]models.Appointment{base}, from, to, time.UTC)

	require.Len(t, out, 1)
	assert.Equal(t, base, out[0])
}

func TestExpandRecurringWithoutWindowKeepsBase(t *testing.T) {
	base := weeklyVisit("FREQ=WEEKLY;COUNT=4")

	out := ExpandRecurring([]models.Appointment{base}, 0, 0, time.UTC)

	assert.Equal(t, []models.Appointment{base}, out)
}

func TestExpandRecurringLeavesPlainAppointments(t *testing.T) {
	from, to := october()
	plain := weeklyVisit("")

	out := ExpandRecurring([]models.Appointment{plain}, from, to, nil)

	assert.Equal(t, []models.Appointment{plain}, out)
}
