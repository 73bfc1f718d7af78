package packet

// Pingreq represents an MQTT PINGREQ packet.
// MQTT 3.1.1 Section 3.12
type Pingreq struct{}

// Pingresp represents an MQTT PINGRESP packet.
// MQTT 3.1.1 Section 3.13
type Pingresp struct{}

// Disconnect represents an MQTT DISCONNECT packet.
// MQTT 3.1.1 Section 3.14
type Disconnect struct{}

// Type returns TypePingreq.
func (p *Pingreq) Type() Type { return TypePingreq }

// Type returns TypePingresp.
func (p *Pingresp) Type() Type { return TypePingresp }

// Type returns TypeDisconnect.
func (d *Disconnect) Type() Type { return TypeDisconnect }

func (p *Pingreq) flags() byte    { return 0 }
func (p *Pingresp) flags() byte   { return 0 }
func (d *Disconnect) flags() byte { return 0 }

// These kinds have no variable header or payload.
func (p *Pingreq) encodeBody(*bodyWriter) error    { return nil }
func (p *Pingresp) encodeBody(*bodyWriter) error   { return nil }
func (d *Disconnect) encodeBody(*bodyWriter) error { return nil }

// Any body byte is left unread and rejected by the bounded reader.
func decodePingreq(*bodyReader, byte) (Packet, error)    { return &Pingreq{}, nil }
func decodePingresp(*bodyReader, byte) (Packet, error)   { return &Pingresp{}, nil }
func decodeDisconnect(*bodyReader, byte) (Packet, error) { return &Disconnect{}, nil }
