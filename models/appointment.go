package models

import "slices"

// AppointmentStatus is the lifecycle state of an appointment. Transitions are
// owned by the job service; the calendar only reads it.
type AppointmentStatus string

const (
	AppointmentStatusScheduled  AppointmentStatus = "SCHEDULED"
	AppointmentStatusDispatched AppointmentStatus = "DISPATCHED"
	AppointmentStatusInProgress AppointmentStatus = "IN_PROGRESS"
	AppointmentStatusCompleted  AppointmentStatus = "COMPLETED"
	AppointmentStatusCancelled  AppointmentStatus = "CANCELLED"
	AppointmentStatusOnHold     AppointmentStatus = "ON_HOLD"
)

// UnassignedTechnicianName labels the synthetic technician with a nil ID.
const UnassignedTechnicianName = "Unassigned"

// Technician is a member of the field roster. A nil ID is the Unassigned sentinel.
// Color is derived from roster position and never stored.
type Technician struct {
	ID        *int64 `json:"id" dynamodbav:"id"`
	Name      string `json:"name" dynamodbav:"name"`
	Color     string `json:"color,omitempty" dynamodbav:"-"`
	SortOrder int    `json:"-" dynamodbav:"sortOrder"`
}

// Appointment is a scheduled visit. StartDate and EndDate are unix seconds (UTC).
type Appointment struct {
	ID             int64             `json:"id" dynamodbav:"id"`
	StartDate      int64             `json:"startDate" dynamodbav:"startDate"`
	EndDate        int64             `json:"endDate" dynamodbav:"endDate"`
	JobID          int64             `json:"jobId" dynamodbav:"jobId"`
	Phone          string            `json:"phone" dynamodbav:"phone"`
	Address        string            `json:"address" dynamodbav:"address"`
	ClientName     string            `json:"clientName" dynamodbav:"clientName"`
	Technicians    []Technician      `json:"technicians" dynamodbav:"technicians"`
	Status         AppointmentStatus `json:"status" dynamodbav:"status"`
	RecurrenceRule string            `json:"recurrenceRule,omitempty" dynamodbav:"recurrenceRule,omitempty"`
}

// EffectiveStatus reads an empty status as SCHEDULED.
func (a Appointment) EffectiveStatus() AppointmentStatus {
	if a.Status == "" {
		return AppointmentStatusScheduled
	}
	return a.Status
}

// AppointmentFilter scopes a calendar request. Statuses and TechnicianIDs are
// exclusion lists: an appointment matching any entry is hidden. A nil entry in
// TechnicianIDs hides Unassigned appointments.
type AppointmentFilter struct {
	StartDate     int64               `json:"startDate"`
	EndDate       int64               `json:"endDate"`
	SelectedDate  int64               `json:"selectedDate"`
	Statuses      []AppointmentStatus `json:"statuses"`
	TechnicianIDs []*int64            `json:"technicianIds"`
}

// AppointmentStatuses lists every status in display order.
func AppointmentStatuses() []AppointmentStatus {
	return []AppointmentStatus{
		AppointmentStatusScheduled,
		AppointmentStatusDispatched,
		AppointmentStatusInProgress,
		AppointmentStatusCompleted,
		AppointmentStatusCancelled,
		AppointmentStatusOnHold,
	}
}

// IsAppointmentStatus reports whether v names a known status
func IsAppointmentStatus(v string) bool {
	return slices.Contains(AppointmentStatuses(), AppointmentStatus(v))
}

// Int64Ptr returns a pointer to v.
func Int64Ptr(v int64) *int64 {
	return &v
}
