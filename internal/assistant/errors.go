package assistant

import "fmt"

// ErrorKind classifies completion-service failures by upstream status and
// response shape.
type ErrorKind string

const (
	KindAuth              ErrorKind = "auth"
	KindRateLimited       ErrorKind = "rate_limited"
	KindServerError       ErrorKind = "server_error"
	KindMalformedResponse ErrorKind = "malformed_response"
	KindNetworkError      ErrorKind = "network_error"
)

// UpstreamError is returned for any completion-service failure. The flow
// treats it as fatal: no reply, no record, no dispatch.
type UpstreamError struct {
	Kind ErrorKind
	Err  error
}

func (e *UpstreamError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("assistant: upstream failure (%s)", e.Kind)
	}
	return fmt.Sprintf("assistant: upstream failure (%s): %v", e.Kind, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
