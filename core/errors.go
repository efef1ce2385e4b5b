package core

import "github.com/pkg/errors"

var (
	ErrURLRequired  = errors.New("url required")
	ErrFetchFailed  = errors.New("failed to fetch pdf")
	errParseDefault = errors.New("failed to parse pdf")
)

// ValidationError is returned when the caller's input is missing or malformed.
type ValidationError struct {
	Err error
}

func NewValidationError(err error) error {
	return &ValidationError{err}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// FetchError is returned when the remote document cannot be retrieved:
// transport failure, timeout, oversize body or a non-2xx status.
// Its message is always ErrFetchFailed; Err keeps the details for logging.
type FetchError struct {
	URL    string
	Status int // 0 when no response was received
	Err    error
}

func NewFetchError(url string, status int, cause error) error {
	return &FetchError{URL: url, Status: status, Err: cause}
}

func (err FetchError) Error() string {
	return ErrFetchFailed.Error()
}

func (err FetchError) Unwrap() error {
	return err.Err
}

// ParseError is returned when the downloaded bytes are not a readable PDF.
type ParseError struct {
	Err error
}

func NewParseError(err error) error {
	if err == nil {
		err = errParseDefault
	}
	return &ParseError{err}
}

func (err ParseError) Error() string {
	return "parsing pdf: " + err.Err.Error()
}

func (err ParseError) Unwrap() error {
	return err.Err
}

// InternalError wraps unexpected failures (eg. a panic inside the parser).
type InternalError struct {
	Err error
}

func NewInternalError(err error) error {
	return &InternalError{err}
}

func (err InternalError) Error() string {
	return err.Err.Error()
}

func (err InternalError) Unwrap() error {
	return err.Err
}

// IsFetchError reports whether err wraps a *FetchError.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

// IsParseError reports whether err wraps a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
