package models

import "errors"

var (
	// ErrAppointmentNotFound is returned when an appointment id is unknown.
	ErrAppointmentNotFound = errors.New("appointment not found")
	// ErrInvalidWindow is returned when a calendar window ends before it starts.
	ErrInvalidWindow = errors.New("invalid calendar window")
)
