package calendar

import (
	"fieldfuze-scheduler/models"
	"slices"
)

// ApplyFilter drops every event whose status or any technician appears in the
// filter's exclusion lists. Order is preserved.
func ApplyFilter(events []models.Event, filter models.AppointmentFilter) []models.Event {
	kept := make([]models.Event, 0, len(events))
	for _, ev := range events {
		hasFilteredTechnician := technicianExcluded(ev.Resource.Technicians, filter.TechnicianIDs)
		hasFilteredStatus := slices.Contains(filter.Statuses, ev.Resource.Status)
		if !hasFilteredTechnician && !hasFilteredStatus {
			kept = append(kept, ev)
		}
	}
	return kept
}

// technicianExcluded matches an event with no technicians against a nil
// (Unassigned) entry.
func technicianExcluded(technicians []models.Technician, excluded []*int64) bool {
	if len(excluded) == 0 {
		return false
	}
	if len(technicians) == 0 {
		return containsID(excluded, nil)
	}
	for _, t := range technicians {
		if containsID(excluded, t.ID) {
			return true
		}
	}
	return false
}

func containsID(ids []*int64, id *int64) bool {
	return slices.ContainsFunc(ids, func(candidate *int64) bool {
		return sameID(candidate, id)
	})
}

func sameID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// ToggleStatus flips the visibility of status: an excluded status becomes
// visible, a visible one becomes excluded. The input filter is not modified.
func ToggleStatus(filter models.AppointmentFilter, status models.AppointmentStatus) models.AppointmentFilter {
	statuses := make([]models.AppointmentStatus, 0, len(filter.Statuses)+1)
	found := false
	for _, s := range filter.Statuses {
		if s == status {
			found = true
			continue
		}
		statuses = append(statuses, s)
	}
	if !found {
		statuses = append(statuses, status)
	}
	filter.Statuses = statuses
	filter.TechnicianIDs = slices.Clone(filter.TechnicianIDs)
	return filter
}

// ToggleTechnician flips the visibility of a technician; nil toggles Unassigned.
func ToggleTechnician(filter models.AppointmentFilter, id *int64) models.AppointmentFilter {
	ids := make([]*int64, 0, len(filter.TechnicianIDs)+1)
	found := false
	for _, candidate := range filter.TechnicianIDs {
		if sameID(candidate, id) {
			found = true
			continue
		}
		ids = append(ids, candidate)
	}
	if !found {
		ids = append(ids, id)
	}
	filter.TechnicianIDs = ids
	filter.Statuses = slices.Clone(filter.Statuses)
	return filter
}
