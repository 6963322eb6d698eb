package ui

import "errors"

// ErrorType decides how a command error reaches the user
type ErrorType int

const (
	ErrorTypeUserCancelled ErrorType = iota // q, ctrl+c: silent exit
	ErrorTypeValidation                     // bad arguments or workspace
	ErrorTypeAPI                            // REST or websocket failure
	ErrorTypeFileSystem                     // workspace file
	ErrorTypeConfiguration                  // config file, token
	ErrorTypeInternal
)

func (t ErrorType) String() string {
	switch t {
	case ErrorTypeUserCancelled:
		return "cancelled"
	case ErrorTypeValidation:
		return "validation"
	case ErrorTypeAPI:
		return "api"
	case ErrorTypeFileSystem:
		return "filesystem"
	case ErrorTypeConfiguration:
		return "configuration"
	default:
		return "internal"
	}
}

// UIError carries an error from a bubbletea model back to cobra along with
// how it should be presented.
type UIError struct {
	Err           error
	Type          ErrorType
	SuppressUsage bool
	// SilentExit means the error was already rendered, or should not be
	SilentExit bool
}

func (e *UIError) Error() string {
	return e.Err.Error()
}

func (e *UIError) Unwrap() error {
	return e.Err
}

func newUIError(t ErrorType, err error) *UIError {
	return &UIError{Err: err, Type: t, SuppressUsage: true}
}

func NewUserCancelledError() *UIError {
	e := newUIError(ErrorTypeUserCancelled, errors.New("cancelled by user"))
	e.SilentExit = true
	return e
}

func NewValidationError(err error) *UIError {
	return newUIError(ErrorTypeValidation, err)
}

func NewAPIError(err error) *UIError {
	return newUIError(ErrorTypeAPI, err)
}

func NewFileSystemError(err error) *UIError {
	return newUIError(ErrorTypeFileSystem, err)
}

func NewConfigurationError(err error) *UIError {
	return newUIError(ErrorTypeConfiguration, err)
}

func NewInternalError(err error) *UIError {
	return newUIError(ErrorTypeInternal, err)
}

// AsUIError unwraps err to a *UIError when there is one
func AsUIError(err error) (*UIError, bool) {
	var uiErr *UIError
	if errors.As(err, &uiErr) {
		return uiErr, true
	}
	return nil, false
}
