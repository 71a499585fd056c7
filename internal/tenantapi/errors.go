package tenantapi

import (
	"errors"
	"fmt"
	"strings"
)

// CodeError is an application failure reported through a non-zero envelope code.
type CodeError struct {
	Code    int
	Message string
}

func (e *CodeError) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		return fmt.Sprintf("tenant api code %d", e.Code)
	}
	return fmt.Sprintf("tenant api code %d: %s", e.Code, e.Message)
}

// TransportError is a failure to obtain a decodable envelope.
type TransportError struct {
	Operation  string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("tenant api %s: status %d: %v", e.Operation, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("tenant api %s: %v", e.Operation, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ServerMessage returns the trimmed server-supplied message carried by a
// *CodeError anywhere in err's chain.
func ServerMessage(err error) string {
	var codeErr *CodeError
	if errors.As(err, &codeErr) {
		return strings.TrimSpace(codeErr.Message)
	}
	return ""
}

// IsTransport reports whether err is a *TransportError.
func IsTransport(err error) bool {
	var transportErr *TransportError
	return errors.As(err, &transportErr)
}
