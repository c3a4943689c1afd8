package services

import (
	"context"
	"fieldfuze-scheduler/calendar"
	"fieldfuze-scheduler/models"
	"fieldfuze-scheduler/repository"
	"fieldfuze-scheduler/utils/logger"
	"fmt"
	"sync"
	"time"
)

const persistTimeout = 10 * time.Second

type CalendarService struct {
	appointments repository.AppointmentRepositoryInterface
	technicians  repository.TechnicianRepositoryInterface
	cache        CalendarCache
	publisher    ReschedulePublisher
	logger       logger.Logger
	config       *models.Config
	loc          *time.Location

	board     *calendar.Scheduler
	debouncer *Debouncer

	// pending holds repositioned appointments not yet persisted, so a second
	// drag within the debounce window starts from the latest position.
	mu      sync.Mutex
	pending map[int64]pendingReposition
	seq     uint64

	now func() time.Time
}

type pendingReposition struct {
	seq         uint64
	appointment models.Appointment
}

func NewCalendarService(
	appointments repository.AppointmentRepositoryInterface,
	technicians repository.TechnicianRepositoryInterface,
	cache CalendarCache,
	publisher ReschedulePublisher,
	logger logger.Logger,
	config *models.Config,
) *CalendarService {
	if cache == nil {
		cache = NewNoopCalendarCache()
	}
	if publisher == nil {
		publisher = NewNoopReschedulePublisher()
	}
	loc := config.Location()

	return &CalendarService{
		appointments: appointments,
		technicians:  technicians,
		cache:        cache,
		publisher:    publisher,
		logger:       logger,
		config:       config,
		loc:          loc,
		board:        calendar.NewScheduler(loc),
		debouncer:    NewDebouncer(config.RepositionDebounce),
		pending:      make(map[int64]pendingReposition),
		now:          time.Now,
	}
}

// GetEvents returns the projected, filtered events of the filter window
func (s *CalendarService) GetEvents(ctx context.Context, filter models.AppointmentFilter) ([]models.Event, error) {
	start, end, err := s.resolveWindow(filter)
	if err != nil {
		return nil, err
	}
	filter.StartDate, filter.EndDate = start, end

	return s.eventsForWindow(ctx, filter)
}

// GetSchedule lays out the selected day (today when unset)
func (s *CalendarService) GetSchedule(ctx context.Context, filter models.AppointmentFilter) (*models.DaySchedule, error) {
	day := s.now().In(s.loc)
	if filter.SelectedDate != 0 {
		day = time.Unix(filter.SelectedDate, 0).In(s.loc)
	}
	y, m, d := day.Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, s.loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	filter.StartDate, filter.EndDate = dayStart.Unix(), dayEnd.Unix()
	events, err := s.eventsForWindow(ctx, filter)
	if err != nil {
		return nil, err
	}
	events = calendar.EventsInSlot(events, dayStart.Unix(), dayEnd.Unix())

	return &models.DaySchedule{
		Date:   dayStart.Format("2006-01-02"),
		Events: calendar.LayoutDay(events, dayStart),
		Slots:  calendar.DaySlots(events, dayStart, s.config.ScheduleStartHour, s.config.ScheduleEndHour, time.Hour),
	}, nil
}

// GetTechnicians returns the colored roster including the Unassigned entry
func (s *CalendarService) GetTechnicians(ctx context.Context) ([]models.Technician, error) {
	roster, err := s.technicians.ListTechnicians(ctx)
	if err != nil {
		return nil, err
	}
	return calendar.AssignColors(roster), nil
}

// RepositionAppointment computes the drag and drop patch and schedules it to
// be persisted. Repeated moves of one appointment within the debounce window
// are coalesced into a single write and notification.
func (s *CalendarService) RepositionAppointment(ctx context.Context, id int64, req models.RepositionRequest, rescheduledBy string) (*models.RepositionPatch, error) {
	base, err := s.currentAppointment(ctx, id)
	if err != nil {
		return nil, err
	}

	roster, err := s.technicians.ListTechnicians(ctx)
	if err != nil {
		return nil, err
	}

	patch := calendar.Reposition(base, req.TechnicianID, time.UnixMilli(req.NewStartTime))
	updated := calendar.ApplyPatch(base, patch, roster)

	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.pending[id] = pendingReposition{seq: seq, appointment: updated}
	s.mu.Unlock()

	s.board.ApplyPatch(patch)

	s.logger.Infof("Appointment %d repositioned to %d by %s", id, patch.StartDate, rescheduledBy)
	s.debouncer.Schedule(id, func() {
		s.persist(seq, updated, patch, rescheduledBy)
	})

	return &patch, nil
}

// ExportICS renders the filtered events of the window as an iCalendar feed
func (s *CalendarService) ExportICS(ctx context.Context, filter models.AppointmentFilter) (string, error) {
	events, err := s.GetEvents(ctx, filter)
	if err != nil {
		return "", err
	}
	return calendar.BuildICS(events, s.now()), nil
}

// RefreshBoard reloads the current month into the shared board. A refresh
// overtaken by a newer one is dropped. Repositions still waiting to be
// persisted are laid over the stored rows.
func (s *CalendarService) RefreshBoard(ctx context.Context) error {
	start, end := monthWindow(s.now().In(s.loc))
	generation := s.board.BeginFetch()
	version, cacheErr := s.cache.Version(ctx)

	appointments, err := s.appointments.GetAppointmentsInWindow(ctx, start, end)
	if err != nil {
		return fmt.Errorf("failed to refresh board: %w", err)
	}
	roster, err := s.technicians.ListTechnicians(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh board: %w", err)
	}

	s.board.SetTechnicians(roster)
	s.board.SetFilter(models.AppointmentFilter{StartDate: start, EndDate: end})
	if !s.board.CompleteFetch(generation, s.withPending(appointments)) {
		s.logger.Debugf("Board refresh %d superseded", generation)
		return nil
	}

	if cacheErr != nil {
		s.logger.Warnf("Calendar cache unavailable: %v", cacheErr)
	} else if err := s.cache.SetAppointments(ctx, version, start, end, appointments); err != nil {
		s.logger.Warnf("Failed to warm calendar cache: %v", err)
	}

	s.logger.Debugf("Board refreshed: generation %d, %d appointments", generation, len(appointments))
	return nil
}

// GetBoard returns a snapshot of the shared board
func (s *CalendarService) GetBoard() models.BoardSnapshot {
	return models.BoardSnapshot{
		Generation:  s.board.Generation(),
		Technicians: s.board.Technicians(),
		Events:      s.board.Events(),
	}
}

// Flush persists every pending reposition immediately
func (s *CalendarService) Flush() {
	s.debouncer.Flush()
}

func (s *CalendarService) persist(seq uint64, appointment models.Appointment, patch models.RepositionPatch, rescheduledBy string) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	defer func() {
		s.mu.Lock()
		if p, ok := s.pending[appointment.ID]; ok && p.seq == seq {
			delete(s.pending, appointment.ID)
		}
		s.mu.Unlock()
	}()

	if _, err := s.appointments.UpdateSchedule(ctx, appointment); err != nil {
		s.logger.Errorf("Failed to persist reposition of appointment %d: %v", appointment.ID, err)
		if rerr := s.RefreshBoard(ctx); rerr != nil {
			s.logger.Errorf("Failed to resync board: %v", rerr)
		}
		return
	}

	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warnf("Failed to invalidate calendar cache: %v", err)
	}

	msg := models.RescheduleMessage{
		Patch:         patch,
		ClientName:    appointment.ClientName,
		JobID:         appointment.JobID,
		RescheduledBy: rescheduledBy,
		OccurredAt:    s.now().UTC(),
	}
	if err := s.publisher.PublishReschedule(ctx, msg); err != nil {
		s.logger.Errorf("Failed to publish reschedule: %v", err)
	}
}

func (s *CalendarService) currentAppointment(ctx context.Context, id int64) (models.Appointment, error) {
	s.mu.Lock()
	p, ok := s.pending[id]
	s.mu.Unlock()
	if ok {
		return p.appointment, nil
	}

	appointment, err := s.appointments.GetAppointment(ctx, id)
	if err != nil {
		return models.Appointment{}, err
	}
	return *appointment, nil
}

func (s *CalendarService) eventsForWindow(ctx context.Context, filter models.AppointmentFilter) ([]models.Event, error) {
	appointments, err := s.loadAppointments(ctx, filter.StartDate, filter.EndDate)
	if err != nil {
		return nil, err
	}
	roster, err := s.technicians.ListTechnicians(ctx)
	if err != nil {
		return nil, err
	}

	expanded := calendar.ExpandRecurring(s.withPending(appointments), filter.StartDate, filter.EndDate, s.loc)
	events := calendar.ProjectEvents(expanded, roster)
	return calendar.ApplyFilter(events, filter), nil
}

// withPending overlays repositions that are not yet persisted.
func (s *CalendarService) withPending(appointments []models.Appointment) []models.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) == 0 {
		return appointments
	}

	out := make([]models.Appointment, len(appointments))
	for i, a := range appointments {
		if p, ok := s.pending[a.ID]; ok {
			a = p.appointment
		}
		out[i] = a
	}
	return out
}

// loadAppointments reads through the cache. The cache version is taken before
// the store is read so a window loaded across an invalidation is written under
// the stale version and never served.
func (s *CalendarService) loadAppointments(ctx context.Context, start, end int64) ([]models.Appointment, error) {
	version, err := s.cache.Version(ctx)
	if err != nil {
		s.logger.Warnf("Calendar cache unavailable: %v", err)
		return s.appointments.GetAppointmentsInWindow(ctx, start, end)
	}

	cached, ok, err := s.cache.GetAppointments(ctx, version, start, end)
	if err != nil {
		s.logger.Warnf("Calendar cache unavailable: %v", err)
	}
	if ok {
		return cached, nil
	}

	appointments, err := s.appointments.GetAppointmentsInWindow(ctx, start, end)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetAppointments(ctx, version, start, end, appointments); err != nil {
		s.logger.Warnf("Failed to cache calendar window: %v", err)
	}
	return appointments, nil
}

// resolveWindow fills a missing window with the month of the selected date
// (or now), and a missing bound with one month from the other.
func (s *CalendarService) resolveWindow(filter models.AppointmentFilter) (int64, int64, error) {
	start, end := filter.StartDate, filter.EndDate

	switch {
	case start == 0 && end == 0:
		anchor := s.now().In(s.loc)
		if filter.SelectedDate != 0 {
			anchor = time.Unix(filter.SelectedDate, 0).In(s.loc)
		}
		start, end = monthWindow(anchor)
	case end == 0:
		end = time.Unix(start, 0).In(s.loc).AddDate(0, 1, 0).Unix()
	case start == 0:
		start = time.Unix(end, 0).In(s.loc).AddDate(0, -1, 0).Unix()
	}

	if end < start {
		return 0, 0, models.ErrInvalidWindow
	}
	return start, end, nil
}

func monthWindow(t time.Time) (int64, int64) {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return first.Unix(), first.AddDate(0, 1, 0).Unix()
}
