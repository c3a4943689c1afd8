package calendar

import (
	"fieldfuze-scheduler/models"
	"slices"
	"sync"
	"time"
)

// Scheduler holds the appointments, roster and filter of one calendar window
// together with the events derived from them. Every mutation re-runs the
// projector and the filter before the lock is released; readers always get
// copies.
type Scheduler struct {
	mu sync.RWMutex

	loc          *time.Location
	appointments []models.Appointment
	technicians  []models.Technician
	filter       models.AppointmentFilter

	visible []models.Event

	// generation is bumped by BeginFetch; a fetch completing with an older
	// generation is discarded.
	generation uint64
}

// NewScheduler returns an empty scheduler evaluating recurrence rules in loc.
func NewScheduler(loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		loc:     loc,
		visible: []models.Event{},
	}
}

// BeginFetch registers a new appointment fetch and returns its generation.
func (s *Scheduler) BeginFetch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	return s.generation
}

// CompleteFetch stores the appointments of fetch generation and recomputes.
// It returns false and changes nothing when a newer fetch has begun since.
func (s *Scheduler) CompleteFetch(generation uint64, appointments []models.Appointment) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation {
		return false
	}
	s.appointments = slices.Clone(appointments)
	s.recompute()
	return true
}

// Generation returns the generation of the latest fetch.
func (s *Scheduler) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// SetTechnicians replaces the roster and recomputes.
func (s *Scheduler) SetTechnicians(technicians []models.Technician) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.technicians = slices.Clone(technicians)
	s.recompute()
}

// SetFilter replaces the filter and recomputes.
func (s *Scheduler) SetFilter(filter models.AppointmentFilter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = filter
	s.recompute()
}

// Technicians returns the colored roster including the Unassigned entry.
func (s *Scheduler) Technicians() []models.Technician {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return AssignColors(s.technicians)
}

// Events returns the filtered events.
func (s *Scheduler) Events() []models.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.visible)
}

// ApplyPatch applies a drag and drop patch to the held appointment and
// recomputes. It reports false when the appointment is not held.
func (s *Scheduler) ApplyPatch(patch models.RepositionPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(patch.ID)
	if i < 0 {
		return false
	}
	s.applyLocked(i, patch)
	return true
}

func (s *Scheduler) applyLocked(i int, patch models.RepositionPatch) {
	appointments := slices.Clone(s.appointments)
	appointments[i] = ApplyPatch(appointments[i], patch, s.technicians)
	s.appointments = appointments
	s.recompute()
}

func (s *Scheduler) indexOf(id int64) int {
	return slices.IndexFunc(s.appointments, func(a models.Appointment) bool {
		return a.ID == id
	})
}

func (s *Scheduler) recompute() {
	expanded := ExpandRecurring(s.appointments, s.filter.StartDate, s.filter.EndDate, s.loc)
	s.visible = ApplyFilter(ProjectEvents(expanded, s.technicians), s.filter)
}
