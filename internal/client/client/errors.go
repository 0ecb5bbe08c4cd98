package client

import (
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/jobkeeper/internal/common"
)

// Class groups HTTP statuses the way the sync engine reacts to them.
type Class int

const (
	ClassOK Class = iota
	ClassUnauthorized
	ClassServerError
	ClassOther
)

func (c Class) String() string {
	switch c {
	case ClassOK:
		return "ok"
	case ClassUnauthorized:
		return "unauthorized"
	case ClassServerError:
		return "server-error"
	default:
		return "other"
	}
}

// ClassOf maps an HTTP status code to its class.
func ClassOf(status int) Class {
	switch {
	case status >= 200 && status < 300:
		return ClassOK
	case status == http.StatusUnauthorized:
		return ClassUnauthorized
	case status >= 500:
		return ClassServerError
	default:
		return ClassOther
	}
}

// Error is a failed remote operation. StatusCode is zero when no response was
// received; Err then holds the transport failure.
type Error struct {
	Op         string
	StatusCode int
	Class      Class
	Message    string
	Err        error
}

func (e *Error) Error() string {
	switch {
	case e.StatusCode == 0 && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %d %s: %s", e.Op, e.StatusCode, e.Class, e.Message)
	default:
		return fmt.Sprintf("%s: %d %s", e.Op, e.StatusCode, e.Class)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the error against the sentinels of package common.
func (e *Error) Is(target error) bool {
	switch target {
	case common.ErrUnauthorized:
		return e.Class == ClassUnauthorized
	case common.ErrRemoteRejected:
		return e.StatusCode != 0 && e.Class != ClassUnauthorized
	}
	return false
}

func transportError(op string, err error) *Error {
	return &Error{Op: op, Class: ClassOther, Err: fmt.Errorf("%w: %v", common.ErrNetworkUnavailable, err)}
}
