package packet

import "fmt"

// Connack represents an MQTT CONNACK packet.
// MQTT 3.1.1 Section 3.2
type Connack struct {
	SessionPresent bool
	ReturnCode     ConnectReturnCode
}

// NewConnack creates a new CONNACK packet.
func NewConnack(sessionPresent bool, code ConnectReturnCode) *Connack {
	return &Connack{
		SessionPresent: sessionPresent,
		ReturnCode:     code,
	}
}

// Type returns TypeConnack.
func (c *Connack) Type() Type {
	return TypeConnack
}

func (c *Connack) flags() byte { return 0 }

func (c *Connack) encodeBody(w *bodyWriter) error {
	// Acknowledge flags (only bit 0 - session present)
	if c.SessionPresent {
		w.putByte(0x01)
	} else {
		w.putByte(0x00)
	}
	w.putByte(byte(c.ReturnCode))
	return nil
}

func decodeConnack(r *bodyReader, _ byte) (Packet, error) {
	ackFlags, err := r.readByte()
	if err != nil {
		return nil, err
	}
	// Bits 7-1 must be 0
	if ackFlags&0xFE != 0 {
		return nil, fmt.Errorf("%w: acknowledge flags %#02x", ErrReservedBits, ackFlags)
	}

	code, err := r.readByte()
	if err != nil {
		return nil, err
	}

	return &Connack{
		SessionPresent: ackFlags&0x01 != 0,
		ReturnCode:     ConnectReturnCode(code),
	}, nil
}
