package repository

import (
	"context"
	"errors"
	"fieldfuze-scheduler/dal"
	"fieldfuze-scheduler/models"
	"fieldfuze-scheduler/utils/logger"
	"fmt"
	"strconv"
)

// windowFilterExpression keeps appointments intersecting the window plus every
// recurring appointment that started before the window ends.
const windowFilterExpression = "(#start <= :end AND #end >= :start) OR (attribute_exists(#rule) AND #start <= :end)"

type AppointmentRepository struct {
	db     dal.DatabaseClientInterface
	config *models.Config
	logger logger.Logger
}

func NewAppointmentRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *AppointmentRepository {
	return &AppointmentRepository{
		db:     db,
		config: cfg,
		logger: log,
	}
}

func (r *AppointmentRepository) table() string {
	return tableName(r.config, appointmentsTable)
}

func (r *AppointmentRepository) keyConfig(id int64) models.QueryConfig {
	return models.QueryConfig{
		TableName: r.table(),
		KeyName:   "id",
		KeyValue:  strconv.FormatInt(id, 10),
		KeyType:   models.NumberType,
	}
}

func (r *AppointmentRepository) GetAppointment(ctx context.Context, id int64) (*models.Appointment, error) {
	appointment := models.Appointment{}

	err := r.db.GetItem(ctx, r.keyConfig(id), &appointment)
	if errors.Is(err, dal.ErrItemNotFound) {
		return nil, models.ErrAppointmentNotFound
	}
	if err != nil {
		r.logger.Errorf("Failed to get appointment %d: %v", id, err)
		return nil, fmt.Errorf("failed to get appointment %d: %w", id, err)
	}

	return &appointment, nil
}

// GetAppointmentsInWindow returns the appointments touching [start, end] (unix
// seconds) and the recurring appointments that may occur inside it.
func (r *AppointmentRepository) GetAppointmentsInWindow(ctx context.Context, start, end int64) ([]models.Appointment, error) {
	if end < start {
		return nil, models.ErrInvalidWindow
	}

	filter := &models.ScanFilter{
		Expression: windowFilterExpression,
		Names: map[string]string{
			"#start": "startDate",
			"#end":   "endDate",
			"#rule":  "recurrenceRule",
		},
		Values: map[string]interface{}{
			":start": start,
			":end":   end,
		},
	}

	appointments := []models.Appointment{}
	if err := r.db.ScanWithFilter(ctx, r.table(), filter, &appointments); err != nil {
		r.logger.Errorf("Failed to load appointments between %d and %d: %v", start, end, err)
		return nil, fmt.Errorf("failed to load appointments: %w", err)
	}

	r.logger.Debugf("Loaded %d appointments between %d and %d", len(appointments), start, end)
	return appointments, nil
}

// UpdateSchedule persists the start, end and technicians of an appointment.
func (r *AppointmentRepository) UpdateSchedule(ctx context.Context, appointment models.Appointment) (*models.Appointment, error) {
	technicians := appointment.Technicians
	if technicians == nil {
		technicians = []models.Technician{}
	}

	updates := map[string]interface{}{
		"startDate":   appointment.StartDate,
		"endDate":     appointment.EndDate,
		"technicians": technicians,
	}

	updated := models.Appointment{}
	err := r.db.UpdateItem(ctx, r.keyConfig(appointment.ID), updates, &updated)
	if errors.Is(err, dal.ErrItemNotFound) {
		return nil, models.ErrAppointmentNotFound
	}
	if err != nil {
		r.logger.Errorf("Failed to update appointment %d: %v", appointment.ID, err)
		return nil, fmt.Errorf("failed to update appointment %d: %w", appointment.ID, err)
	}

	r.logger.Infof("Appointment %d rescheduled", appointment.ID)
	return &updated, nil
}
