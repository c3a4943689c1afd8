package calendar

import (
	"fieldfuze-scheduler/models"
	"slices"
	"time"
)

// LayoutDay positions events on the day timeline and splits overlapping
// events into side-by-side columns. Events sharing an appointment id stay in
// the same cluster but never force each other into separate columns.
func LayoutDay(events []models.Event, dayStart time.Time) []models.PositionedEvent {
	ordered := slices.Clone(events)
	slices.SortStableFunc(ordered, func(a, b models.Event) int {
		if c := a.Start.Compare(b.Start); c != 0 {
			return c
		}
		return b.End.Compare(a.End)
	})

	placed := make([]models.PositionedEvent, 0, len(ordered))
	clusterStart := 0
	var clusterEnd time.Time

	for i, ev := range ordered {
		if i > clusterStart && !ev.Start.Before(clusterEnd) {
			finishCluster(placed[clusterStart:])
			clusterStart = i
		}
		if i == clusterStart || ev.End.After(clusterEnd) {
			clusterEnd = ev.End
		}

		column := 0
		for columnTaken(placed[clusterStart:], column, ev) {
			column++
		}

		placed = append(placed, models.PositionedEvent{
			Event:    ev,
			Position: CalculatePosition(ev, dayStart),
			Column:   column,
		})
	}
	finishCluster(placed[clusterStart:])

	return placed
}

func columnTaken(cluster []models.PositionedEvent, column int, ev models.Event) bool {
	for _, p := range cluster {
		if p.Column == column && Overlaps(p.Event, ev) {
			return true
		}
	}
	return false
}

func finishCluster(cluster []models.PositionedEvent) {
	columns := 0
	for _, p := range cluster {
		columns = max(columns, p.Column+1)
	}
	for i := range cluster {
		cluster[i].Columns = columns
	}
}

// DaySlots splits [fromHour, toHour) of dayStart's day into slots of step and
// fills each with the events that touch it.
func DaySlots(events []models.Event, dayStart time.Time, fromHour, toHour int, step time.Duration) []models.TimeSlot {
	if step <= 0 || toHour <= fromHour {
		return []models.TimeSlot{}
	}

	y, m, d := dayStart.Date()
	loc := dayStart.Location()
	from := time.Date(y, m, d, fromHour, 0, 0, 0, loc)
	to := time.Date(y, m, d, toHour, 0, 0, 0, loc)

	slots := make([]models.TimeSlot, 0)
	for start := from; start.Before(to); start = start.Add(step) {
		end := start.Add(step)
		slots = append(slots, models.TimeSlot{
			Start:  start.Unix(),
			End:    end.Unix(),
			Label:  start.Format("15:04"),
			Events: EventsInSlot(events, start.Unix(), end.Unix()),
		})
	}
	return slots
}
