package calendar

import (
	"fieldfuze-scheduler/models"
	"time"
)

// Reposition computes the patch for an appointment dropped at newStart on the
// lane of newTechnicianID. The original duration is kept in whole minutes. A
// nil technician clears the assignment; co-assigned technicians are dropped.
// No conflict or business-hours checks are made here.
func Reposition(appointment models.Appointment, newTechnicianID *int64, newStart time.Time) models.RepositionPatch {
	durationMinutes := (appointment.EndDate - appointment.StartDate) / 60
	newEnd := newStart.Add(time.Duration(durationMinutes) * time.Minute)

	technicianIDs := []int64{}
	if newTechnicianID != nil {
		technicianIDs = append(technicianIDs, *newTechnicianID)
	}

	return models.RepositionPatch{
		ID:            appointment.ID,
		StartDate:     newStart.UnixMilli(),
		EndDate:       newEnd.UnixMilli(),
		TechnicianIDs: technicianIDs,
	}
}

// ApplyPatch returns appointment updated with patch. Technicians are resolved
// against roster; ids missing from the roster keep only their id.
func ApplyPatch(appointment models.Appointment, patch models.RepositionPatch, roster []models.Technician) models.Appointment {
	updated := appointment
	updated.StartDate = time.UnixMilli(patch.StartDate).Unix()
	updated.EndDate = time.UnixMilli(patch.EndDate).Unix()

	updated.Technicians = make([]models.Technician, 0, len(patch.TechnicianIDs))
	for _, id := range patch.TechnicianIDs {
		updated.Technicians = append(updated.Technicians, resolveTechnician(id, roster))
	}
	return updated
}

func resolveTechnician(id int64, roster []models.Technician) models.Technician {
	for _, t := range roster {
		if t.ID != nil && *t.ID == id {
			return models.Technician{ID: models.Int64Ptr(id), Name: t.Name}
		}
	}
	return models.Technician{ID: models.Int64Ptr(id)}
}
