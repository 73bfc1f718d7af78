package packet

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"
)

// MaxRemainingLength is the maximum remaining length value (256MB - 1).
const MaxRemainingLength = 268435455

// MaxStringLength is the longest string or binary field a 2-byte prefix can carry.
const MaxStringLength = 65535

// AppendVarInt appends value as a variable byte integer.
// MQTT 3.1.1 Section 2.2.3
func AppendVarInt(dst []byte, value uint32) ([]byte, error) {
	if value > MaxRemainingLength {
		return dst, fmt.Errorf("%w: %d", ErrValueTooLarge, value)
	}

	for {
		encodedByte := byte(value & 0x7F)
		value >>= 7
		if value > 0 {
			encodedByte |= 0x80
		}
		dst = append(dst, encodedByte)
		if value == 0 {
			return dst, nil
		}
	}
}

// DecodeVarInt decodes a variable byte integer from the start of buf.
// Returns the value and the number of bytes consumed.
// MQTT 3.1.1 Section 2.2.3
func DecodeVarInt(buf []byte) (value uint32, n int, err error) {
	var multiplier uint32 = 1

	for i := 0; i < 4; i++ {
		if i >= len(buf) {
			return 0, 0, fmt.Errorf("%w: %w", ErrMalformedVarInt, ErrUnexpectedEOF)
		}
		encodedByte := buf[i]
		value += uint32(encodedByte&0x7F) * multiplier

		if encodedByte&0x80 == 0 {
			return value, i + 1, nil
		}
		multiplier *= 128
	}

	// The fourth byte still had its continuation bit set.
	return 0, 0, ErrMalformedVarInt
}

// VarIntSize returns the number of bytes needed to encode a value as a variable byte integer.
func VarIntSize(value uint32) int {
	switch {
	case value < 128:
		return 1
	case value < 16384:
		return 2
	case value < 2097152:
		return 3
	default:
		return 4
	}
}

// AppendUint16 appends a 16-bit unsigned integer in big-endian order.
func AppendUint16(dst []byte, value uint16) []byte {
	return binary.BigEndian.AppendUint16(dst, value)
}

// DecodeUint16 decodes a big-endian 16-bit unsigned integer.
// Returns the value and the 2 bytes consumed.
func DecodeUint16(buf []byte) (value uint16, n int, err error) {
	if len(buf) < 2 {
		return 0, 0, ErrUnexpectedEOF
	}
	return binary.BigEndian.Uint16(buf), 2, nil
}

// AppendString appends a UTF-8 string with a 2-byte length prefix.
// MQTT 3.1.1 Section 1.5.3
func AppendString(dst []byte, s string) ([]byte, error) {
	if len(s) > MaxStringLength {
		return dst, fmt.Errorf("%w: %d bytes", ErrStringTooLong, len(s))
	}
	if err := ValidateUTF8String(s); err != nil {
		return dst, err
	}
	dst = binary.BigEndian.AppendUint16(dst, uint16(len(s)))
	return append(dst, s...), nil
}

// DecodeString decodes a length-prefixed UTF-8 string from buf.
// Returns a copied string and the number of bytes consumed.
func DecodeString(buf []byte) (s string, n int, err error) {
	data, n, err := DecodeBytes(buf)
	if err != nil {
		return "", 0, err
	}
	s = string(data)
	if err := ValidateUTF8String(s); err != nil {
		return "", 0, err
	}
	return s, n, nil
}

// AppendBytes appends binary data with a 2-byte length prefix.
func AppendBytes(dst []byte, data []byte) ([]byte, error) {
	if len(data) > MaxStringLength {
		return dst, fmt.Errorf("%w: %d bytes", ErrStringTooLong, len(data))
	}
	dst = binary.BigEndian.AppendUint16(dst, uint16(len(data)))
	return append(dst, data...), nil
}

// DecodeBytes decodes length-prefixed binary data from buf.
// The returned slice references buf (zero-copy); copy it if it must outlive buf.
func DecodeBytes(buf []byte) (data []byte, n int, err error) {
	if len(buf) < 2 {
		return nil, 0, ErrUnexpectedEOF
	}
	dlen := int(binary.BigEndian.Uint16(buf))
	if len(buf) < 2+dlen {
		return nil, 0, ErrUnexpectedEOF
	}
	return buf[2 : 2+dlen], 2 + dlen, nil
}

// ValidateUTF8String validates that s is well-formed UTF-8 without null characters.
// MQTT 3.1.1 Section 1.5.3
func ValidateUTF8String(s string) error {
	if !utf8.ValidString(s) {
		return ErrInvalidUTF8
	}
	for i := 0; i < len(s); i++ {
		if s[i] == 0 {
			return fmt.Errorf("%w: null character at byte %d", ErrInvalidUTF8, i)
		}
	}
	return nil
}
