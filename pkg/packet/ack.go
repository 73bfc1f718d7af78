package packet

// Puback represents an MQTT PUBACK packet (QoS 1 acknowledgment).
// MQTT 3.1.1 Section 3.4
type Puback struct {
	PacketID uint16
}

// Pubrec represents an MQTT PUBREC packet (QoS 2 step 1).
// MQTT 3.1.1 Section 3.5
type Pubrec struct {
	PacketID uint16
}

// Pubrel represents an MQTT PUBREL packet (QoS 2 step 2).
// Its fixed header flags are always 0010.
// MQTT 3.1.1 Section 3.6
type Pubrel struct {
	PacketID uint16
}

// Pubcomp represents an MQTT PUBCOMP packet (QoS 2 step 3).
// MQTT 3.1.1 Section 3.7
type Pubcomp struct {
	PacketID uint16
}

// Unsuback represents an MQTT UNSUBACK packet.
// MQTT 3.1.1 Section 3.11
type Unsuback struct {
	PacketID uint16
}

// NewPuback creates a new PUBACK packet.
func NewPuback(id uint16) *Puback { return &Puback{PacketID: id} }

// NewPubrec creates a new PUBREC packet.
func NewPubrec(id uint16) *Pubrec { return &Pubrec{PacketID: id} }

// NewPubrel creates a new PUBREL packet.
func NewPubrel(id uint16) *Pubrel { return &Pubrel{PacketID: id} }

// NewPubcomp creates a new PUBCOMP packet.
func NewPubcomp(id uint16) *Pubcomp { return &Pubcomp{PacketID: id} }

// NewUnsuback creates a new UNSUBACK packet.
func NewUnsuback(id uint16) *Unsuback { return &Unsuback{PacketID: id} }

// Type returns TypePuback.
func (p *Puback) Type() Type { return TypePuback }

// Type returns TypePubrec.
func (p *Pubrec) Type() Type { return TypePubrec }

// Type returns TypePubrel.
func (p *Pubrel) Type() Type { return TypePubrel }

// Type returns TypePubcomp.
func (p *Pubcomp) Type() Type { return TypePubcomp }

// Type returns TypeUnsuback.
func (p *Unsuback) Type() Type { return TypeUnsuback }

func (p *Puback) flags() byte   { return 0 }
func (p *Pubrec) flags() byte   { return 0 }
func (p *Pubrel) flags() byte   { return 0x02 }
func (p *Pubcomp) flags() byte  { return 0 }
func (p *Unsuback) flags() byte { return 0 }

func (p *Puback) encodeBody(w *bodyWriter) error   { w.putUint16(p.PacketID); return nil }
func (p *Pubrec) encodeBody(w *bodyWriter) error   { w.putUint16(p.PacketID); return nil }
func (p *Pubrel) encodeBody(w *bodyWriter) error   { w.putUint16(p.PacketID); return nil }
func (p *Pubcomp) encodeBody(w *bodyWriter) error  { w.putUint16(p.PacketID); return nil }
func (p *Unsuback) encodeBody(w *bodyWriter) error { w.putUint16(p.PacketID); return nil }

// The packet identifier is the whole body of every acknowledgment kind.
// Trailing bytes are rejected by the bounded reader.

func decodePuback(r *bodyReader, _ byte) (Packet, error) {
	id, err := r.readUint16()
	if err != nil {
		return nil, err
	}
	return NewPuback(id), nil
}

func decodePubrec(r *bodyReader, _ byte) (Packet, error) {
	id, err := r.readUint16()
	if err != nil {
		return nil, err
	}
	return NewPubrec(id), nil
}

func decodePubrel(r *bodyReader, _ byte) (Packet, error) {
	id, err := r.readUint16()
	if err != nil {
		return nil, err
	}
	return NewPubrel(id), nil
}

func decodePubcomp(r *bodyReader, _ byte) (Packet, error) {
	id, err := r.readUint16()
	if err != nil {
		return nil, err
	}
	return NewPubcomp(id), nil
}

func decodeUnsuback(r *bodyReader, _ byte) (Packet, error) {
	id, err := r.readUint16()
	if err != nil {
		return nil, err
	}
	return NewUnsuback(id), nil
}
