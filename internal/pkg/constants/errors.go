package constants

import "net/http"

// CodedError is an error that knows which HTTP status it should be reported with.
type CodedError struct {
	msg  string
	code int
}

func NewCodedError(msg string, code int) *CodedError {
	return &CodedError{msg: msg, code: code}
}

func (e *CodedError) Error() string {
	return e.msg
}

func (e *CodedError) Code() int {
	return e.code
}

var (
	ErrDBNotFound        = NewCodedError("not found in db", http.StatusNotFound)
	ErrRegionNotFound    = NewCodedError("region not found", http.StatusNotFound)
	ErrUnknownCategory   = NewCodedError("unknown statistic category", http.StatusBadRequest)
	ErrBadRequest        = NewCodedError("bad request", http.StatusBadRequest)
	ErrUnauthorized      = NewCodedError("unauthorized", http.StatusUnauthorized)
	ErrUpstream          = NewCodedError("population api request failed", http.StatusBadGateway)
	ErrMalformedResponse = NewCodedError("malformed population api response", http.StatusBadGateway)
)
