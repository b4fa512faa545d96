package calendar

import (
	"errors"
	"fmt"
)

var (
	ErrRemoteUnavailable = errors.New("calendar service unavailable")
	ErrRemoteRejected    = errors.New("calendar service rejected the request")
	ErrEventNotFound     = errors.New("calendar event not found")
)

// RemoteError - ошибка удалённого календаря с классом Kind
type RemoteError struct {
	Op   string
	Kind error
	Err  error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *RemoteError) Is(target error) bool {
	return target == e.Kind
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

func remoteError(op string, kind, err error) error {
	return &RemoteError{Op: op, Kind: kind, Err: err}
}
