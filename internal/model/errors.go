package model

import "errors"

var (
	// Account related errors
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")

	// Login failures. Unknown email and wrong password both map to
	// ErrInvalidCredentials so the API cannot be used to enumerate emails.
	// Blocked and pending-approval accounts get specific reasons.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountBlocked     = errors.New("account blocked")
	ErrPendingApproval    = errors.New("account pending approval")

	// Session related errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Domain errors
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrProfileNotFound     = errors.New("profile not found")
	ErrDoctorNotFound      = errors.New("doctor not found")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
