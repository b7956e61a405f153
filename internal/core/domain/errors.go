package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an AppError so the HTTP layer can pick a status code
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
)

// AppError is the error type returned by services
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match two AppErrors of the same kind and message,
// so sentinel values below work through wrapping.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == e.Message
}

func NewValidationError(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

func NewAuthenticationError(message string) *AppError {
	return &AppError{Kind: KindAuthentication, Message: message}
}

func NewAuthorizationError(message string) *AppError {
	return &AppError{Kind: KindAuthorization, Message: message}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message}
}

func NewConflictError(message string) *AppError {
	return &AppError{Kind: KindConflict, Message: message}
}

// NewInternalError wraps an unexpected cause; the cause is logged, never sent
func NewInternalError(message string, err error) *AppError {
	return &AppError{Kind: KindInternal, Message: message, Err: err}
}

// KindOf returns the kind of err, or KindInternal for foreign errors
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Auth errors
var (
	ErrInvalidCredentials = NewAuthenticationError("Invalid email or password")
	ErrUserInactive       = NewAuthorizationError("Account has been deactivated")
	ErrEmailTaken         = NewConflictError("User with this email already exists")
	ErrTokenInvalid       = NewAuthenticationError("Invalid token")
	ErrTokenExpired       = NewAuthenticationError("Token expired")
	ErrTokenRevoked       = NewAuthenticationError("Token revoked")
	ErrOldPasswordWrong   = NewValidationError("Current password is incorrect")
)

// User errors
var (
	ErrUserNotFound        = NewNotFoundError("User not found")
	ErrCannotChangeOwnRole = NewValidationError("You cannot change your own role")
	ErrCannotDisableSelf   = NewValidationError("You cannot deactivate your own account")
)

// Member errors
var (
	ErrMemberNotFound      = NewNotFoundError("Member not found")
	ErrMemberProfileExists = NewConflictError("Member profile already exists for this user")
	ErrUserNotMemberRole   = NewValidationError("User must have the Member role")
	ErrRenewalDateNotAfter = NewValidationError("New renewal date must be after the current renewal date")
)

// Zone errors
var (
	ErrZoneNotFound   = NewNotFoundError("Zone not found")
	ErrZoneInactive   = NewConflictError("Zone is not active")
	ErrZoneNameTaken  = NewConflictError("Zone with this name already exists")
	ErrZoneHasMembers = NewConflictError("Cannot delete zone with active members")
)

// Event errors
var (
	ErrEventNotFound          = NewNotFoundError("Event not found")
	ErrEventNotOpen           = NewConflictError("Event is not open for registration")
	ErrAlreadyRegistered      = NewConflictError("Member is already registered for this event")
	ErrEventFull              = NewConflictError("Event has reached maximum capacity")
	ErrAttendeeNotFound       = NewNotFoundError("Member is not registered for this event")
	ErrCapacityBelowAttendees = NewValidationError("Maximum attendees cannot be lower than current registrations")
)

// Payment errors
var (
	ErrPaymentNotFound = NewNotFoundError("Payment not found")
)

// Notification errors
var (
	ErrNotificationNotFound = NewNotFoundError("Notification not found")
	ErrTargetMembersInvalid = NewValidationError("One or more target members not found or inactive")
)
