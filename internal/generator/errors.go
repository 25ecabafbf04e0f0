package generator

import "fmt"

// ConfigurationError signals a deployment defect (e.g. an empty credential
// pool). It is raised at construction time and never retried.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Msg
}

// TransportError is a network-level failure (including timeout) talking to
// the completion or search service.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ServiceError is a non-success response from the completion service.
type ServiceError struct {
	Status  int
	Message string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("completion service error %d: %s", e.Status, e.Message)
}

// ResearchError means the web search produced no usable results. It fails
// the whole workflow; there is no fallback to ungrounded generation.
type ResearchError struct {
	Query string
	Err   error
}

func (e *ResearchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("research failed for query %q: %v", e.Query, e.Err)
	}
	return fmt.Sprintf("no search results for query %q", e.Query)
}

func (e *ResearchError) Unwrap() error { return e.Err }

// ParseError means a completion response could not be decoded into the
// expected draft structure. Retrying the same malformed output would not
// help, so it is never retried.
type ParseError struct {
	Msg string
}

func (e *ParseError) Error() string {
	return "parse error: " + e.Msg
}
