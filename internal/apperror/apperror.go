package apperror

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrUnauthorized = Error("unauthorized")
	ErrForbidden    = Error("forbidden")
	ErrNotFound     = Error("not found")
	ErrValidation   = Error("invalid request data")
	ErrConflict     = Error("already exists")
	ErrBadRequest   = Error("bad request")
)

// Public attaches a client-safe message to one of the errors above.
type Public struct {
	Err     error
	Message string
}

func (e *Public) Error() string { return e.Message }
func (e *Public) Unwrap() error { return e.Err }

func WithMessage(err error, msg string) error {
	return &Public{Err: err, Message: msg}
}
