package toolbackend

import (
	"errors"
	"fmt"
	"net/http"

	contractx "github.com/tanpawarit/Chative-A2A-Customer-Support/agent/contract"
)

// Error is a backend failure with a kind from agent/contract and a detail
// safe to show callers.
type Error struct {
	Kind   error
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func notFound(detail string) error {
	return &Error{Kind: contractx.ErrNotFound, Detail: detail}
}

func invalidArgument(detail string) error {
	return &Error{Kind: contractx.ErrInvalidArgument, Detail: detail}
}

func internal(op string, err error) error {
	return &Error{Kind: contractx.ErrInternal, Detail: fmt.Sprintf("%s: %v", op, err)}
}

// StatusCode maps an error kind to the HTTP status of the tool endpoint.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, contractx.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, contractx.ErrInvalidArgument):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Detail is the message put in an error response body.
func Detail(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Detail
	}
	return err.Error()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, contractx.ErrNotFound):
		return "not_found"
	case errors.Is(err, contractx.ErrInvalidArgument):
		return "invalid_argument"
	default:
		return "error"
	}
}
