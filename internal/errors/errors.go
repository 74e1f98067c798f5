// Package errors defines the handler-facing error taxonomy. Engine services
// return typed sentinel errors; handlers translate them into DomainError
// codes so clients always receive something they can act on.
package errors

// DomainError is a machine-readable error carried across the API boundary.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *DomainError) Error() string {
	return e.Message
}
