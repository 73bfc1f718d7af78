package packet

import "fmt"

// FixedHeader is the part present on every control packet.
// MQTT 3.1.1 Section 2.2
type FixedHeader struct {
	Type            Type
	Flags           byte // lower 4 bits; meaning depends on Type
	RemainingLength uint32
}

// Size returns the encoded size of the fixed header.
func (h FixedHeader) Size() int {
	return 1 + VarIntSize(h.RemainingLength)
}

// Append appends the encoded fixed header to dst.
func (h FixedHeader) Append(dst []byte) ([]byte, error) {
	dst = append(dst, byte(h.Type)<<4|h.Flags&0x0F)
	return AppendVarInt(dst, h.RemainingLength)
}

// String returns e.g. "PUBLISH flags=0011 len=12".
func (h FixedHeader) String() string {
	return fmt.Sprintf("%s flags=%04b len=%d", h.Type, h.Flags, h.RemainingLength)
}

// DecodeFixedHeader decodes the fixed header at the start of buf.
// Returns the header and the number of bytes consumed. Flags are returned
// as-is; their interpretation is left to the per-kind decoder.
func DecodeFixedHeader(buf []byte) (FixedHeader, int, error) {
	if len(buf) == 0 {
		return FixedHeader{}, 0, ErrUnexpectedEOF
	}

	h := FixedHeader{
		Type:  Type(buf[0] >> 4),
		Flags: buf[0] & 0x0F,
	}
	if !h.Type.Valid() {
		return FixedHeader{}, 0, fmt.Errorf("%w: %d", ErrUnknownPacketType, byte(h.Type))
	}

	remainingLength, n, err := DecodeVarInt(buf[1:])
	if err != nil {
		return FixedHeader{}, 0, err
	}
	h.RemainingLength = remainingLength

	return h, 1 + n, nil
}

// checkFlags validates the reserved flag nibble for kinds with a fixed value.
func (h FixedHeader) checkFlags() error {
	want, ok := h.Type.requiredFlags()
	if ok && h.Flags != want {
		return fmt.Errorf("%w: %s flags %04b, want %04b", ErrReservedBits, h.Type, h.Flags, want)
	}
	return nil
}
