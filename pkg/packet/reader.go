package packet

import (
	"errors"
	"fmt"
	"io"
)

// Reader reads MQTT packets from an io.Reader.
// It reuses one growing buffer across packets.
type Reader struct {
	r       io.Reader
	buf     []byte
	pos     int
	end     int
	maxSize int
}

// NewReader creates a new packet reader. Packets larger than maxSize bytes
// (fixed header included) fail with ErrPacketTooLarge; zero means MaxPacketSize.
func NewReader(r io.Reader, maxSize int) *Reader {
	if maxSize <= 0 || maxSize > MaxPacketSize {
		maxSize = MaxPacketSize
	}
	return &Reader{
		r:       r,
		buf:     make([]byte, 1024),
		maxSize: maxSize,
	}
}

// fill reads more data into the buffer.
func (r *Reader) fill() error {
	// Shift remaining data to the beginning
	if r.pos > 0 {
		copy(r.buf, r.buf[r.pos:r.end])
		r.end -= r.pos
		r.pos = 0
	}

	// Grow buffer if needed
	if r.end == len(r.buf) {
		newBuf := make([]byte, len(r.buf)*2)
		copy(newBuf, r.buf)
		r.buf = newBuf
	}

	n, err := r.r.Read(r.buf[r.end:])
	if n > 0 {
		r.end += n
		return nil
	}
	return err
}

// available returns the number of unread bytes in the buffer.
func (r *Reader) available() int {
	return r.end - r.pos
}

// fillTo reads until at least n bytes are buffered. A stream ending in the
// middle of a packet is ErrUnexpectedEOF; ending between packets is io.EOF.
func (r *Reader) fillTo(n int) error {
	for r.available() < n {
		if err := r.fill(); err != nil {
			if errors.Is(err, io.EOF) && r.available() > 0 {
				return ErrUnexpectedEOF
			}
			return err
		}
	}
	return nil
}

// ReadPacket reads the next packet from the reader.
// It returns io.EOF when the stream ends cleanly between packets.
func (r *Reader) ReadPacket() (Packet, error) {
	if err := r.fillTo(1); err != nil {
		return nil, err
	}

	// The remaining length is 1-4 bytes; widen the window until it parses.
	var (
		h         FixedHeader
		headerLen int
		err       error
	)
	for want := 2; ; want++ {
		if err := r.fillTo(want); err != nil {
			return nil, err
		}
		h, headerLen, err = DecodeFixedHeader(r.buf[r.pos:r.end])
		if err == nil {
			break
		}
		if !errors.Is(err, ErrUnexpectedEOF) || want >= 5 {
			return nil, err
		}
	}

	totalLen := headerLen + int(h.RemainingLength)
	if totalLen > r.maxSize {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrPacketTooLarge, totalLen, r.maxSize)
	}

	if err := r.fillTo(totalLen); err != nil {
		return nil, err
	}

	// Extract packet data (after fixed header)
	body := r.buf[r.pos+headerLen : r.pos+totalLen]
	r.pos += totalLen

	return DecodeBody(h, body)
}
