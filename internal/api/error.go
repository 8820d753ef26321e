package api

import "errors"

// Error is the single failure type surfaced by the adapter.
//
// Transport marks network-level failures (unreachable host, timeout,
// unreadable body). Those are the only errors worth a retry affordance;
// everything else is a structured server rejection whose Message is shown
// to the user verbatim.
type Error struct {
	Status    int
	Message   string
	Transport bool
}

func (e *Error) Error() string {
	return e.Message
}

// IsTransport reports whether err represents a transport-level failure.
func IsTransport(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Transport
}

// UserMessage returns the message a view should display for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
