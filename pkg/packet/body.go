package packet

import "fmt"

// bodyWriter accumulates the variable header and payload of one packet.
type bodyWriter struct {
	buf []byte
}

func (w *bodyWriter) putByte(b byte) {
	w.buf = append(w.buf, b)
}

func (w *bodyWriter) putUint16(v uint16) {
	w.buf = AppendUint16(w.buf, v)
}

func (w *bodyWriter) putString(s string) (err error) {
	w.buf, err = AppendString(w.buf, s)
	return err
}

func (w *bodyWriter) putBytes(data []byte) (err error) {
	w.buf, err = AppendBytes(w.buf, data)
	return err
}

func (w *bodyWriter) putRaw(data []byte) {
	w.buf = append(w.buf, data...)
}

// bodyReader reads fields from exactly remaining-length bytes. Reads past the
// end fail with ErrLengthMismatch; finish rejects unread bytes the same way.
type bodyReader struct {
	buf []byte
	pos int
}

func newBodyReader(buf []byte) *bodyReader {
	return &bodyReader{buf: buf}
}

// Len returns the number of unread bytes.
func (r *bodyReader) Len() int {
	return len(r.buf) - r.pos
}

func (r *bodyReader) readByte() (byte, error) {
	if r.Len() < 1 {
		return 0, truncated()
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

func (r *bodyReader) readUint16() (uint16, error) {
	v, n, err := DecodeUint16(r.buf[r.pos:])
	if err != nil {
		return 0, truncated()
	}
	r.pos += n
	return v, nil
}

func (r *bodyReader) readString() (string, error) {
	data, err := r.readBytes()
	if err != nil {
		return "", err
	}
	s := string(data)
	if err := ValidateUTF8String(s); err != nil {
		return "", malformed(err)
	}
	return s, nil
}

// readBytes returns a length-prefixed field. The slice aliases the input buffer.
func (r *bodyReader) readBytes() ([]byte, error) {
	data, n, err := DecodeBytes(r.buf[r.pos:])
	if err != nil {
		return nil, truncated()
	}
	r.pos += n
	return data, nil
}

// rest consumes and copies every unread byte; nil when none are left.
func (r *bodyReader) rest() []byte {
	if r.Len() == 0 {
		return nil
	}
	out := make([]byte, r.Len())
	copy(out, r.buf[r.pos:])
	r.pos = len(r.buf)
	return out
}

func (r *bodyReader) finish() error {
	if n := r.Len(); n != 0 {
		return fmt.Errorf("%w: %d trailing bytes", ErrLengthMismatch, n)
	}
	return nil
}
