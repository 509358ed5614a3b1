package cipher

import (
	"encoding/json"
	"errors"
)

// OperationType defines the category of a codec
type OperationType string

const (
	OperationTypeEncode OperationType = "encode"
	OperationTypeDecode OperationType = "decode"
)

// ErrorKind classifies why a codec rejected its input
type ErrorKind string

const (
	// KindInvalidCharacterSet marks input containing characters outside the codec's alphabet.
	KindInvalidCharacterSet ErrorKind = "invalid_character_set"
	// KindInvalidEncoding marks a structurally malformed encoded payload.
	KindInvalidEncoding ErrorKind = "invalid_encoding"
	// KindUnsupportedCharacterRange marks characters beyond the single-byte range.
	KindUnsupportedCharacterRange ErrorKind = "unsupported_character_range"
)

var (
	// ErrUnknownCodec is returned when a codec ID is not in the registry.
	ErrUnknownCodec = errors.New("unknown codec")
	// ErrNotReversible is returned when a chain step has no inverse codec.
	ErrNotReversible = errors.New("codec is not reversible")
)

// ConversionError is the failure side of a Result.
type ConversionError struct {
	Kind    ErrorKind
	Message string
}

func (e *ConversionError) Error() string {
	return e.Message
}

// Result is the outcome of a codec: exactly one of a value or a failure.
// The zero Result is Ok("").
type Result struct {
	value string
	err   *ConversionError
}

// Ok returns a successful Result carrying value.
func Ok(value string) Result {
	return Result{value: value}
}

// Fail returns a failed Result carrying message.
func Fail(kind ErrorKind, message string) Result {
	return Result{err: &ConversionError{Kind: kind, Message: message}}
}

// OK reports whether the result is a success.
func (r Result) OK() bool {
	return r.err == nil
}

// Value returns the converted text. It is empty for failed results.
func (r Result) Value() string {
	if r.err != nil {
		return ""
	}
	return r.value
}

// Err returns the failure, or nil for successful results.
func (r Result) Err() *ConversionError {
	return r.err
}

// Text returns what a renderer shows: the value on success, the message on failure.
func (r Result) Text() string {
	if r.err != nil {
		return r.err.Message
	}
	return r.value
}

type resultJSON struct {
	OK    bool      `json:"ok"`
	Value *string   `json:"value,omitempty"`
	Error string    `json:"error,omitempty"`
	Kind  ErrorKind `json:"kind,omitempty"`
}

// MarshalJSON renders {"ok":true,"value":...} or {"ok":false,"error":...,"kind":...}.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.err != nil {
		return json.Marshal(resultJSON{Error: r.err.Message, Kind: r.err.Kind})
	}
	value := r.value
	return json.Marshal(resultJSON{OK: true, Value: &value})
}

// UnmarshalJSON accepts the form produced by MarshalJSON.
func (r *Result) UnmarshalJSON(data []byte) error {
	var raw resultJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.OK {
		value := ""
		if raw.Value != nil {
			value = *raw.Value
		}
		*r = Ok(value)
		return nil
	}
	if raw.Error == "" {
		return errors.New("failed result without error message")
	}
	*r = Fail(raw.Kind, raw.Error)
	return nil
}

// TransformFunc converts text. It never panics out and never returns a Go
// error; failures are carried in the Result.
type TransformFunc func(input string) Result

// Codec describes one registry entry.
type Codec struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Type        OperationType `json:"type"`
	// Inverse is the ID of the codec that undoes this one.
	Inverse   string        `json:"inverse,omitempty"`
	Transform TransformFunc `json:"-"`
}

// Apply runs the codec through the line-mode aggregator.
func (c Codec) Apply(text string, lineMode bool) Result {
	return Apply(c.Transform, text, lineMode)
}
