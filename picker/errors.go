package picker

import (
	"errors"

	apperrors "github.com/kbukum/corebundle/errors"
)

// Client-facing messages. They must stay distinct.
const (
	MsgInvalidExtras      = "Invalid picker extras"
	MsgUnsupportedContext = "Unsupported picker context"
)

var (
	// ErrInvalidExtras is returned when the extras payload does not decode
	// to a JSON object.
	ErrInvalidExtras = errors.New("picker: invalid extras")
	// ErrUnsupportedContext is returned when no builder handles the context.
	ErrUnsupportedContext = errors.New("picker: unsupported context")
	// ErrInvalidData is returned when serialized picker data cannot be decoded.
	ErrInvalidData = errors.New("picker: invalid data")
)

// ToAppError maps picker errors to client errors.
func ToAppError(err error) *apperrors.AppError {
	switch {
	case errors.Is(err, ErrInvalidExtras):
		return apperrors.BadRequest(MsgInvalidExtras).WithCause(err)
	case errors.Is(err, ErrUnsupportedContext):
		return apperrors.BadRequest(MsgUnsupportedContext).WithCause(err)
	case errors.Is(err, ErrInvalidData):
		return apperrors.BadRequest("Invalid picker data").WithCause(err)
	default:
		return apperrors.Internal(err)
	}
}
