package tenantapi

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// CodeOK is the envelope code signalling success.
const CodeOK = 0

// Result is one decoded response envelope.
type Result[T any] struct {
	Code    int
	Message string
	Data    T
}

// OK reports whether the envelope signalled success.
func (r Result[T]) OK() bool {
	return r.Code == CodeOK
}

// Err returns a *CodeError for failed envelopes and nil otherwise.
func (r Result[T]) Err() error {
	if r.OK() {
		return nil
	}
	return &CodeError{Code: r.Code, Message: r.Message}
}

// Empty is the payload type for calls whose data is ignored.
type Empty struct{}

type envelope struct {
	Code    *int            `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope[T any](body []byte) (Result[T], error) {
	var raw envelope
	if err := json.Unmarshal(body, &raw); err != nil {
		return Result[T]{}, fmt.Errorf("decode envelope: %w", err)
	}
	if raw.Code == nil {
		return Result[T]{}, fmt.Errorf("decode envelope: missing code")
	}
	result := Result[T]{Code: *raw.Code, Message: raw.Message}
	if !result.OK() || isNullData(raw.Data) {
		return result, nil
	}
	if _, ignored := any(result.Data).(Empty); ignored {
		return result, nil
	}
	if err := json.Unmarshal(raw.Data, &result.Data); err != nil {
		return Result[T]{}, fmt.Errorf("decode envelope data: %w", err)
	}
	return result, nil
}

func isNullData(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
