package models

import "time"

// Event is a calendar entry derived from an Appointment. Events are recomputed,
// never mutated.
type Event struct {
	Title    string        `json:"title"`
	Start    time.Time     `json:"start"`
	End      time.Time     `json:"end"`
	Resource EventResource `json:"resource"`
}

// EventResource carries the appointment fields the renderers need.
type EventResource struct {
	AppointmentID int64             `json:"appointmentId"`
	Technicians   []Technician      `json:"technicians"`
	Color         string            `json:"color"`
	Status        AppointmentStatus `json:"status"`
	EndDate       int64             `json:"endDate"`
	JobID         int64             `json:"jobId"`
}

// Position is the pixel placement of an event in the day timeline.
type Position struct {
	Top    float64 `json:"top"`
	Height float64 `json:"height"`
}

// PositionedEvent is an event placed in the day timeline. Overlapping events
// share the row space and are split into Columns.
type PositionedEvent struct {
	Event    Event    `json:"event"`
	Position Position `json:"position"`
	Column   int      `json:"column"`
	Columns  int      `json:"columns"`
}

// TimeSlot is one row of the day timeline, in unix seconds.
type TimeSlot struct {
	Start  int64   `json:"start"`
	End    int64   `json:"end"`
	Label  string  `json:"label"`
	Events []Event `json:"events"`
}

// DaySchedule is the schedule-mode rendering of a single day.
type DaySchedule struct {
	Date   string            `json:"date"`
	Events []PositionedEvent `json:"events"`
	Slots  []TimeSlot        `json:"slots"`
}

// RepositionPatch is the update produced by a drag and drop. StartDate and
// EndDate are epoch milliseconds.
type RepositionPatch struct {
	ID            int64   `json:"id"`
	StartDate     int64   `json:"startDate"`
	EndDate       int64   `json:"endDate"`
	TechnicianIDs []int64 `json:"technicianIds"`
}

// RepositionRequest is the body of a drag and drop request.
type RepositionRequest struct {
	TechnicianID *int64 `json:"technicianId"`
	// NewStartTime is epoch milliseconds of the drop target.
	NewStartTime int64 `json:"newStartTime" validate:"required,gt=0"`
}

// RescheduleMessage is published after a reposition is persisted.
type RescheduleMessage struct {
	Patch         RepositionPatch `json:"patch"`
	ClientName    string          `json:"clientName"`
	JobID         int64           `json:"jobId"`
	RescheduledBy string          `json:"rescheduledBy,omitempty"`
	OccurredAt    time.Time       `json:"occurredAt"`
}

// BoardSnapshot is the shared dispatch board of the current month.
type BoardSnapshot struct {
	Generation  uint64       `json:"generation"`
	Technicians []Technician `json:"technicians"`
	Events      []Event      `json:"events"`
}
