package calendar

import (
	"fieldfuze-scheduler/models"
	"slices"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

// MaxOccurrencesPerAppointment caps the expansion of a single recurring
// appointment inside one window.
const MaxOccurrencesPerAppointment = 500

// ExpandRecurring replaces every appointment carrying a recurrence rule with
// its occurrences inside [windowStart, windowEnd] (unix seconds). Occurrences
// keep the appointment id and duration. Rules are evaluated in loc so a
// weekly 09:00 visit stays at 09:00 across DST changes. An appointment with an
// unparsable rule is kept as a single occurrence.
func ExpandRecurring(appointments []models.Appointment, windowStart, windowEnd int64, loc *time.Location) []models.Appointment {
	if loc == nil {
		loc = time.Local
	}

	expanded := make([]models.Appointment, 0, len(appointments))
	for _, appt := range appointments {
		if strings.TrimSpace(appt.RecurrenceRule) == "" || windowEnd <= windowStart {
			expanded = append(expanded, appt)
			continue
		}

		occurrences, ok := occurrencesOf(appt, windowStart, windowEnd, loc)
		if !ok {
			expanded = append(expanded, appt)
			continue
		}
		expanded = append(expanded, occurrences...)
	}
	return expanded
}

func occurrencesOf(appt models.Appointment, windowStart, windowEnd int64, loc *time.Location) ([]models.Appointment, bool) {
	rule := strings.TrimPrefix(strings.TrimSpace(appt.RecurrenceRule), "RRULE:")
	r, err := rrule.StrToRRule(rule)
	if err != nil {
		return nil, false
	}
	r.DTStart(time.Unix(appt.StartDate, 0).In(loc))

	duration := appt.EndDate - appt.StartDate
	// An occurrence that began before the window but is still running counts.
	after := time.Unix(windowStart-max(duration, 0), 0).In(loc)
	before := time.Unix(windowEnd, 0).In(loc)

	starts := r.Between(after, before, true)
	if len(starts) > MaxOccurrencesPerAppointment {
		starts = starts[:MaxOccurrencesPerAppointment]
	}

	out := make([]models.Appointment, 0, len(starts))
	for _, start := range starts {
		occ := appt
		occ.StartDate = start.Unix()
		occ.EndDate = occ.StartDate + duration
		occ.Technicians = slices.Clone(appt.Technicians)
		out = append(out, occ)
	}
	return out, true
}
