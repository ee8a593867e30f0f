package query

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tobsdb/tdbrel/internal/builder"
)

type QueryError struct {
	msg    string
	status int
	kind   error
}

func NewQueryError(status int, msg string) *QueryError {
	return &QueryError{msg: msg, status: status}
}

func (e QueryError) Error() string { return e.msg }
func (e QueryError) Status() int   { return e.status }
func (e QueryError) Unwrap() error { return e.kind }

func newQueryError(kind error, format string, args ...any) *QueryError {
	return &QueryError{msg: fmt.Sprintf(format, args...), status: StatusOf(kind), kind: kind}
}

// asQueryError turns an error from the builder into a QueryError, keeping
// the sentinel it wraps.
func asQueryError(err error) error {
	if err == nil {
		return nil
	}
	var q_err *QueryError
	if errors.As(err, &q_err) {
		return q_err
	}
	for _, kind := range error_kinds {
		if errors.Is(err, kind) {
			return &QueryError{msg: err.Error(), status: StatusOf(kind), kind: err}
		}
	}
	return &QueryError{msg: err.Error(), status: http.StatusBadRequest, kind: err}
}

var error_kinds = []error{
	builder.ErrUnknownTable, builder.ErrUnknownColumn, builder.ErrTypeMismatch,
	builder.ErrDuplicateTable, builder.ErrDuplicateColumn, builder.ErrDuplicateJoin,
	builder.ErrDuplicateIndex, builder.ErrMissingIndex, builder.ErrMissingJoin,
	builder.ErrKeyConflict, builder.ErrSchemaMismatch, builder.ErrEmptyTable,
	builder.ErrIncompatibleJoinColumn, builder.ErrNoTables,
}

// StatusOf maps an error to the http status reported to clients.
func StatusOf(err error) int {
	var q_err *QueryError
	if errors.As(err, &q_err) && q_err.status != 0 {
		return q_err.status
	}
	switch {
	case errors.Is(err, builder.ErrUnknownTable), errors.Is(err, builder.ErrUnknownColumn),
		errors.Is(err, builder.ErrMissingIndex), errors.Is(err, builder.ErrMissingJoin),
		errors.Is(err, builder.ErrNoTables):
		return http.StatusNotFound
	case errors.Is(err, builder.ErrDuplicateTable), errors.Is(err, builder.ErrDuplicateJoin),
		errors.Is(err, builder.ErrDuplicateIndex), errors.Is(err, builder.ErrKeyConflict):
		return http.StatusConflict
	}
	return http.StatusBadRequest
}
