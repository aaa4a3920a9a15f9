package client

import "fmt"

// AnalysisError is any failed service call: a non-2xx status, a transport
// failure, or a body that is not the expected JSON.
// StatusCode is 0 when no response was received.
type AnalysisError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *AnalysisError) Error() string {
	return e.Message
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

// statusError builds the error for a non-2xx response; message is the
// service's message field, possibly empty.
func statusError(status int, message string) *AnalysisError {
	if message == "" {
		message = fmt.Sprintf("HTTP error %d", status)
	}
	return &AnalysisError{StatusCode: status, Message: message}
}

func transportError(err error) *AnalysisError {
	return &AnalysisError{Message: err.Error(), Err: err}
}
