package packet

import (
	"fmt"
	"io"
	"sync"
)

// Packet is the interface implemented by all MQTT control packets.
// The set of implementations is closed: Connect, Connack, Publish, Puback,
// Pubrec, Pubrel, Pubcomp, Subscribe, Suback, Unsubscribe, Unsuback,
// Pingreq, Pingresp and Disconnect.
type Packet interface {
	// Type returns the packet type.
	Type() Type

	// flags returns the lower nibble of the fixed header.
	flags() byte

	// encodeBody writes the variable header and payload.
	encodeBody(w *bodyWriter) error
}

// Append encodes p and appends the bytes to dst.
func Append(dst []byte, p Packet) ([]byte, error) {
	w := bodyWriter{buf: GetBuffer()[:0]}
	defer func() { PutBuffer(w.buf) }()

	if err := p.encodeBody(&w); err != nil {
		return dst, fmt.Errorf("encode %s: %w", p.Type(), err)
	}
	if len(w.buf) > MaxRemainingLength {
		return dst, fmt.Errorf("encode %s: %w: remaining length %d", p.Type(), ErrValueTooLarge, len(w.buf))
	}

	h := FixedHeader{Type: p.Type(), Flags: p.flags(), RemainingLength: uint32(len(w.buf))}
	dst, err := h.Append(dst)
	if err != nil {
		return dst, err
	}
	return append(dst, w.buf...), nil
}

// Encode returns the wire encoding of p.
func Encode(p Packet) ([]byte, error) {
	return Append(nil, p)
}

// EncodedSize returns the total size of the encoded packet.
func EncodedSize(p Packet) (int, error) {
	b, err := Encode(p)
	if err != nil {
		return 0, err
	}
	return len(b), nil
}

// WritePacket encodes p into a pooled buffer and writes it to w in one call.
func WritePacket(w io.Writer, p Packet) (int, error) {
	buf := GetBuffer()
	defer func() { PutBuffer(buf) }()

	buf, err := Append(buf[:0], p)
	if err != nil {
		return 0, err
	}
	return w.Write(buf)
}

// Decode decodes one packet from the start of buf.
// Returns the packet and the number of bytes consumed.
func Decode(buf []byte) (Packet, int, error) {
	h, n, err := DecodeFixedHeader(buf)
	if err != nil {
		return nil, 0, err
	}

	total := n + int(h.RemainingLength)
	if len(buf) < total {
		return nil, 0, fmt.Errorf("%w: need %d bytes, have %d", ErrUnexpectedEOF, total, len(buf))
	}

	p, err := DecodeBody(h, buf[n:total])
	if err != nil {
		return nil, 0, err
	}
	return p, total, nil
}

// Unmarshal decodes buf, which must hold exactly one packet.
// Bytes after the packet are reported as ErrLengthMismatch.
func Unmarshal(buf []byte) (Packet, error) {
	p, n, err := Decode(buf)
	if err != nil {
		return nil, err
	}
	if n != len(buf) {
		return nil, fmt.Errorf("decode %s: %w: %d bytes after packet", p.Type(), ErrLengthMismatch, len(buf)-n)
	}
	return p, nil
}

type decodeFunc func(r *bodyReader, flags byte) (Packet, error)

var decoders = [...]decodeFunc{
	TypeConnect:     decodeConnect,
	TypeConnack:     decodeConnack,
	TypePublish:     decodePublish,
	TypePuback:      decodePuback,
	TypePubrec:      decodePubrec,
	TypePubrel:      decodePubrel,
	TypePubcomp:     decodePubcomp,
	TypeSubscribe:   decodeSubscribe,
	TypeSuback:      decodeSuback,
	TypeUnsubscribe: decodeUnsubscribe,
	TypeUnsuback:    decodeUnsuback,
	TypePingreq:     decodePingreq,
	TypePingresp:    decodePingresp,
	TypeDisconnect:  decodeDisconnect,
}

// DecodeBody decodes the variable header and payload described by h.
// body must hold exactly h.RemainingLength bytes.
func DecodeBody(h FixedHeader, body []byte) (Packet, error) {
	if !h.Type.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPacketType, byte(h.Type))
	}
	if int(h.RemainingLength) != len(body) {
		return nil, fmt.Errorf("%w: header says %d, body has %d", ErrLengthMismatch, h.RemainingLength, len(body))
	}
	if err := h.checkFlags(); err != nil {
		return nil, err
	}

	r := newBodyReader(body)
	p, err := decoders[h.Type](r, h.Flags)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", h.Type, err)
	}
	if err := r.finish(); err != nil {
		return nil, fmt.Errorf("decode %s: %w", h.Type, err)
	}
	return p, nil
}

// BufferPool provides a pool of reusable buffers for packet encoding.
var BufferPool = sync.Pool{
	New: func() any {
		buf := make([]byte, 4096)
		return &buf
	},
}

// GetBuffer returns a buffer from the pool.
func GetBuffer() []byte {
	return *BufferPool.Get().(*[]byte)
}

// PutBuffer returns a buffer to the pool.
func PutBuffer(buf []byte) {
	// Only return buffers of reasonable size
	if cap(buf) <= 65536 {
		buf = buf[:cap(buf)]
		BufferPool.Put(&buf)
	}
}
