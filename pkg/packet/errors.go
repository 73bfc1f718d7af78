package packet

import (
	"errors"
	"fmt"
)

// Error classes. Every sentinel below unwraps to exactly one of these, so
// callers can branch on the class with errors.Is.
var (
	// ErrValidation indicates a field value violates the protocol grammar.
	ErrValidation = errors.New("validation error")

	// ErrEncoding indicates a value exceeds a wire-format limit.
	ErrEncoding = errors.New("encoding error")

	// ErrDecoding indicates malformed, truncated or inconsistent wire bytes.
	ErrDecoding = errors.New("decoding error")
)

type codecError struct {
	class error
	msg   string
}

func (e *codecError) Error() string { return e.msg }
func (e *codecError) Unwrap() error { return e.class }

func newError(class error, msg string) error {
	return &codecError{class: class, msg: msg}
}

// Validation errors.
var (
	// ErrInvalidTopic indicates a topic name or filter failed grammar checks.
	ErrInvalidTopic = newError(ErrValidation, "invalid topic")

	// ErrInvalidQoS indicates a QoS level outside 0..2.
	ErrInvalidQoS = newError(ErrValidation, "invalid QoS level")

	// ErrInconsistentFlags indicates a CONNECT flag combination that the
	// protocol forbids, such as a password without a user name.
	ErrInconsistentFlags = newError(ErrValidation, "inconsistent connect flags")

	// ErrInvalidUTF8 indicates a string is not well-formed UTF-8 or contains U+0000.
	ErrInvalidUTF8 = newError(ErrValidation, "invalid UTF-8 string")
)

// Encoding errors.
var (
	// ErrValueTooLarge indicates an integer exceeds the variable byte integer range.
	ErrValueTooLarge = newError(ErrEncoding, "value too large for variable byte integer")

	// ErrStringTooLong indicates a string or binary field exceeds 65535 bytes.
	ErrStringTooLong = newError(ErrEncoding, "string exceeds 65535 bytes")
)

// Decoding errors.
var (
	// ErrMalformedVarInt indicates a variable byte integer longer than 4 bytes
	// or cut short by the end of input.
	ErrMalformedVarInt = newError(ErrDecoding, "malformed variable byte integer")

	// ErrUnexpectedEOF indicates the input ended before a field was complete.
	ErrUnexpectedEOF = newError(ErrDecoding, "unexpected end of input")

	// ErrLengthMismatch indicates the body does not fill remaining length exactly.
	ErrLengthMismatch = newError(ErrDecoding, "remaining length mismatch")

	// ErrUnknownPacketType indicates a type nibble outside the 14 known kinds.
	ErrUnknownPacketType = newError(ErrDecoding, "unknown packet type")

	// ErrReservedBits indicates a reserved bit or flag nibble has the wrong value.
	ErrReservedBits = newError(ErrDecoding, "reserved bits violated")

	// ErrInvalidProtocolName indicates an unrecognized CONNECT protocol name.
	ErrInvalidProtocolName = newError(ErrDecoding, "invalid protocol name")

	// ErrInvalidProtocolLevel indicates an unsupported CONNECT protocol level.
	ErrInvalidProtocolLevel = newError(ErrDecoding, "invalid protocol level")

	// ErrPacketTooLarge indicates a packet exceeds the reader's size limit.
	ErrPacketTooLarge = newError(ErrDecoding, "packet too large")

	// ErrMalformedPacket wraps validation failures found in received bytes.
	ErrMalformedPacket = newError(ErrDecoding, "malformed packet")
)

// malformed tags a validation failure found while decoding so that it
// matches both ErrMalformedPacket and the underlying cause.
func malformed(err error) error {
	return fmt.Errorf("%w: %w", ErrMalformedPacket, err)
}

// truncated reports a field cut short inside a remaining-length bounded body.
func truncated() error {
	return fmt.Errorf("%w: %w", ErrLengthMismatch, ErrUnexpectedEOF)
}
