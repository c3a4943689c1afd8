package models

import (
	"strconv"
	"strings"
)

// UnassignedTechnicianKey selects the Unassigned technician in query strings
const UnassignedTechnicianKey = "unassigned"

// CalendarQuery is the query string of the calendar endpoints. Dates are unix
// seconds; zero means unset.
type CalendarQuery struct {
	StartDate          int64    `form:"startDate" validate:"omitempty,gte=0"`
	EndDate            int64    `form:"endDate" validate:"omitempty,gte=0"`
	SelectedDate       int64    `form:"selectedDate" validate:"omitempty,gte=0"`
	ExcludeStatuses    []string `form:"excludeStatus" validate:"omitempty,dive,appointment_status"`
	ExcludeTechnicians []string `form:"excludeTechnician" validate:"omitempty,dive,technician_key"`
}

// IsTechnicianKey reports whether v is a numeric technician id or the Unassigned key
func IsTechnicianKey(v string) bool {
	if strings.EqualFold(v, UnassignedTechnicianKey) {
		return true
	}
	_, err := strconv.ParseInt(v, 10, 64)
	return err == nil
}

// ToFilter converts a validated query into an AppointmentFilter
func (q CalendarQuery) ToFilter() AppointmentFilter {
	filter := AppointmentFilter{
		StartDate:    q.StartDate,
		EndDate:      q.EndDate,
		SelectedDate: q.SelectedDate,
	}

	for _, s := range q.ExcludeStatuses {
		filter.Statuses = append(filter.Statuses, AppointmentStatus(s))
	}

	for _, t := range q.ExcludeTechnicians {
		if strings.EqualFold(t, UnassignedTechnicianKey) {
			filter.TechnicianIDs = append(filter.TechnicianIDs, nil)
			continue
		}
		if id, err := strconv.ParseInt(t, 10, 64); err == nil {
			filter.TechnicianIDs = append(filter.TechnicianIDs, Int64Ptr(id))
		}
	}

	return filter
}
