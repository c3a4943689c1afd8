package calendar

import (
	"fieldfuze-scheduler/models"
	"time"
)

const (
	// DayOriginHour is the local hour drawn at the top of the day timeline.
	DayOriginHour = 7
	// PixelsPerHour is the vertical scale of the day timeline.
	PixelsPerHour = 64.0
	// MinEventHeight keeps short appointments visible and clickable.
	MinEventHeight = 56.0
	// EventGutter separates consecutive blocks.
	EventGutter = 8.0
)

// Overlaps reports whether two events intersect at second granularity. Events
// of the same appointment never overlap each other.
func Overlaps(a, b models.Event) bool {
	if a.Resource.AppointmentID == b.Resource.AppointmentID {
		return false
	}
	start1, end1 := a.Start.Unix(), a.End.Unix()
	start2, end2 := b.Start.Unix(), b.End.Unix()
	return start1 < end2 && end1 > start2
}

// EventsInSlot returns the events that start in [slotStart, slotEnd), end in
// (slotStart, slotEnd], or span the whole slot. Bounds are unix seconds.
func EventsInSlot(events []models.Event, slotStart, slotEnd int64) []models.Event {
	in := make([]models.Event, 0)
	for _, ev := range events {
		start, end := ev.Start.Unix(), ev.End.Unix()

		startsInSlot := start >= slotStart && start < slotEnd
		endsInSlot := end > slotStart && end <= slotEnd
		spansSlot := start <= slotStart && end >= slotEnd

		if startsInSlot || endsInSlot || spansSlot {
			in = append(in, ev)
		}
	}
	return in
}

// CalculatePosition maps an event onto the day timeline whose origin is 07:00
// in dayStart's location. Top is negative for events starting before the
// origin; clipping is left to the caller.
func CalculatePosition(event models.Event, dayStart time.Time) models.Position {
	origin := DayOrigin(dayStart)

	minutesFromOrigin := event.Start.Sub(origin).Minutes()
	durationMinutes := event.End.Sub(event.Start).Minutes()

	return models.Position{
		Top:    minutesFromOrigin / 60 * PixelsPerHour,
		Height: max(MinEventHeight, durationMinutes/60*PixelsPerHour-EventGutter),
	}
}

// DayOrigin returns 07:00 on dayStart's calendar day, in dayStart's location.
func DayOrigin(dayStart time.Time) time.Time {
	y, m, d := dayStart.Date()
	return time.Date(y, m, d, DayOriginHour, 0, 0, 0, dayStart.Location())
}
