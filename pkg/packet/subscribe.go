package packet

import "fmt"

// Subscription represents a single topic subscription.
type Subscription struct {
	Filter TopicFilter
	QoS    QoS
}

// Subscribe represents an MQTT SUBSCRIBE packet.
// The order of Subscriptions is significant and preserved on the wire.
// MQTT 3.1.1 Section 3.8
type Subscribe struct {
	PacketID uint16
	// Subscriptions is nil when empty; decoding never yields an empty
	// non-nil slice, so literals must use nil to compare equal after a
	// round trip. NewSubscribe normalises this.
	Subscriptions []Subscription
}

// NewSubscribe creates a new SUBSCRIBE packet.
func NewSubscribe(id uint16, subs []Subscription) *Subscribe {
	if len(subs) == 0 {
		subs = nil
	}
	return &Subscribe{PacketID: id, Subscriptions: subs}
}

// Type returns TypeSubscribe.
func (s *Subscribe) Type() Type {
	return TypeSubscribe
}

// SUBSCRIBE has reserved flags 0010.
func (s *Subscribe) flags() byte { return 0x02 }

func (s *Subscribe) encodeBody(w *bodyWriter) error {
	w.putUint16(s.PacketID)

	for i, sub := range s.Subscriptions {
		if !sub.QoS.Valid() {
			return fmt.Errorf("subscription %d: %w: %d", i, ErrInvalidQoS, sub.QoS)
		}
		if err := sub.Filter.check(); err != nil {
			return fmt.Errorf("subscription %d: %w", i, err)
		}
		if err := w.putString(sub.Filter.String()); err != nil {
			return fmt.Errorf("subscription %d: %w", i, err)
		}
		w.putByte(byte(sub.QoS))
	}
	return nil
}

func decodeSubscribe(r *bodyReader, _ byte) (Packet, error) {
	id, err := r.readUint16()
	if err != nil {
		return nil, err
	}
	s := &Subscribe{PacketID: id}

	// Entries run until the remaining length is used up.
	for r.Len() > 0 {
		filter, err := readTopicFilter(r)
		if err != nil {
			return nil, err
		}

		options, err := r.readByte()
		if err != nil {
			return nil, err
		}
		// Bits 7-2 are reserved in 3.1.1
		if options&0xFC != 0 {
			return nil, fmt.Errorf("%w: subscription options %#02x", ErrReservedBits, options)
		}
		q, err := NewQoS(options & 0x03)
		if err != nil {
			return nil, malformed(err)
		}

		s.Subscriptions = append(s.Subscriptions, Subscription{Filter: filter, QoS: q})
	}

	return s, nil
}

// Suback represents an MQTT SUBACK packet. ReturnCodes line up with the
// Subscriptions of the acknowledged SUBSCRIBE.
// MQTT 3.1.1 Section 3.9
type Suback struct {
	PacketID uint16
	// ReturnCodes is nil when empty, as for Subscribe.Subscriptions.
	ReturnCodes []SubscribeReturnCode
}

// NewSuback creates a new SUBACK packet.
func NewSuback(id uint16, codes []SubscribeReturnCode) *Suback {
	if len(codes) == 0 {
		codes = nil
	}
	return &Suback{PacketID: id, ReturnCodes: codes}
}

// Type returns TypeSuback.
func (s *Suback) Type() Type {
	return TypeSuback
}

func (s *Suback) flags() byte { return 0 }

func (s *Suback) encodeBody(w *bodyWriter) error {
	w.putUint16(s.PacketID)
	for _, code := range s.ReturnCodes {
		w.putByte(byte(code))
	}
	return nil
}

func decodeSuback(r *bodyReader, _ byte) (Packet, error) {
	id, err := r.readUint16()
	if err != nil {
		return nil, err
	}
	s := &Suback{PacketID: id}

	// Remaining bytes are return codes; unknown values are kept verbatim.
	for _, b := range r.rest() {
		s.ReturnCodes = append(s.ReturnCodes, SubscribeReturnCode(b))
	}

	return s, nil
}
