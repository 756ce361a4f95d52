package api

import (
	"errors"
	"net/http"

	"github.com/okian/talentlab/internal/adapters/repository"
	service "github.com/okian/talentlab/internal/app"
	"github.com/okian/talentlab/internal/domain/model"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrNotFound     = errors.New("not found")
	ErrBackpressure = errors.New("backpressure")
	ErrUnavailable  = errors.New("service unavailable")
	ErrInternal     = errors.New("internal error")
)

// Error is an operation failure tagged with one of the kinds above.
// errors.Is matches both the kind and the underlying cause.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	return e.Op + ": " + e.message()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func (e *Error) message() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.Error()
}

// Wrap tags err with op and the kind inferred from the error chain.
func Wrap(op string, err error) error {
	return WrapKind(op, kindOf(err), err)
}

// WrapKind tags err with op and an explicit kind.
func WrapKind(op string, kind, err error) error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// NewKind returns an error of the given kind with no further cause.
func NewKind(op string, kind error) error {
	return &Error{Op: op, Kind: kind}
}

func kindOf(err error) error {
	switch {
	case errors.Is(err, service.ErrNotStarted):
		return ErrUnavailable
	case errors.Is(err, service.ErrQueueFull):
		return ErrBackpressure
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrUnknownTest),
		errors.Is(err, service.ErrNoBenchmark),
		errors.Is(err, model.ErrUnknownQuestionSet):
		return ErrNotFound
	case errors.Is(err, service.ErrInvalidEvaluation),
		errors.Is(err, repository.ErrInvalidLimit),
		errors.Is(err, repository.ErrEmptyPlayerID),
		errors.Is(err, model.ErrUnknownPillar):
		return ErrBadRequest
	default:
		return ErrInternal
	}
}

// statusOf maps an error to its HTTP status and response code.
func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ErrBackpressure):
		return http.StatusTooManyRequests, "backpressure"
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
