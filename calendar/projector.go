package calendar

import (
	"fieldfuze-scheduler/models"
	"slices"
	"strings"
	"time"
)

// DispatchedPrefix marks the title of a dispatched appointment.
const DispatchedPrefix = "🚚 "

// ProjectEvents converts appointments into calendar events colored by their
// primary technician. The primary technician is the first one by name; an
// appointment without technicians, or whose primary is not on the roster,
// gets the Unassigned color.
func ProjectEvents(appointments []models.Appointment, technicians []models.Technician) []models.Event {
	colors := newColorMap(technicians)
	events := make([]models.Event, 0, len(appointments))

	for _, appt := range appointments {
		assigned := sortedByName(appt.Technicians)

		color := colors.unassigned
		if len(assigned) > 0 {
			color = colors.lookup(assigned[0].ID)
		}

		status := appt.EffectiveStatus()
		title := appt.ClientName
		if status == models.AppointmentStatusDispatched {
			title = DispatchedPrefix + title
		}

		events = append(events, models.Event{
			Title: title,
			Start: time.Unix(appt.StartDate, 0),
			End:   time.Unix(appt.EndDate, 0),
			Resource: models.EventResource{
				AppointmentID: appt.ID,
				Technicians:   assigned,
				Color:         color,
				Status:        status,
				EndDate:       appt.EndDate,
				JobID:         appt.JobID,
			},
		})
	}

	return events
}

func sortedByName(technicians []models.Technician) []models.Technician {
	sorted := make([]models.Technician, len(technicians))
	copy(sorted, technicians)
	slices.SortStableFunc(sorted, func(a, b models.Technician) int {
		return strings.Compare(a.Name, b.Name)
	})
	return sorted
}
