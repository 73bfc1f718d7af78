package packet

import "fmt"

// Publish represents an MQTT PUBLISH packet.
// The packet identifier lives inside QoSWithPacketID so that a QoS 0
// message can never carry one.
// MQTT 3.1.1 Section 3.3
type Publish struct {
	topic   TopicName
	qos     QoSWithPacketID
	dup     bool
	retain  bool
	payload []byte // nil when empty
}

// NewPublish creates a new PUBLISH packet.
func NewPublish(topic TopicName, qos QoSWithPacketID, payload []byte) *Publish {
	p := &Publish{topic: topic, qos: qos}
	p.SetPayload(payload)
	return p
}

// Type returns TypePublish.
func (p *Publish) Type() Type {
	return TypePublish
}

// TopicName returns the topic name.
func (p *Publish) TopicName() TopicName { return p.topic }

// SetTopicName sets the topic name.
func (p *Publish) SetTopicName(t TopicName) { p.topic = t }

// QoS returns the delivery level and packet identifier.
func (p *Publish) QoS() QoSWithPacketID { return p.qos }

// SetQoS sets the delivery level and packet identifier.
func (p *Publish) SetQoS(q QoSWithPacketID) { p.qos = q }

// Dup returns the duplicate delivery flag.
func (p *Publish) Dup() bool { return p.dup }

// SetDup sets the duplicate delivery flag. The flag is encoded even for
// QoS 0, which the protocol forbids but fixtures exercise.
func (p *Publish) SetDup(dup bool) { p.dup = dup }

// Retain returns the retain flag.
func (p *Publish) Retain() bool { return p.retain }

// SetRetain sets the retain flag.
func (p *Publish) SetRetain(retain bool) { p.retain = retain }

// Payload returns the application message.
func (p *Publish) Payload() []byte { return p.payload }

// SetPayload sets the application message.
func (p *Publish) SetPayload(payload []byte) {
	if len(payload) == 0 {
		payload = nil
	}
	p.payload = payload
}

// flags returns the fixed header flags for this PUBLISH packet.
func (p *Publish) flags() byte {
	var flags byte
	if p.retain {
		flags |= PublishFlagRetain
	}
	flags |= byte(p.qos.qos) << 1
	if p.dup {
		flags |= PublishFlagDup
	}
	return flags
}

func (p *Publish) encodeBody(w *bodyWriter) error {
	if !p.qos.qos.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidQoS, p.qos.qos)
	}
	if err := p.topic.check(); err != nil {
		return err
	}
	if err := w.putString(p.topic.String()); err != nil {
		return fmt.Errorf("topic name: %w", err)
	}
	if id, ok := p.qos.PacketID(); ok {
		w.putUint16(id)
	}
	w.putRaw(p.payload)
	return nil
}

func decodePublish(r *bodyReader, flags byte) (Packet, error) {
	q := QoS((flags >> 1) & 0x03)
	if !q.Valid() {
		return nil, malformed(fmt.Errorf("%w: %d", ErrInvalidQoS, q))
	}

	p := &Publish{
		dup:    flags&PublishFlagDup != 0,
		retain: flags&PublishFlagRetain != 0,
	}

	var err error
	if p.topic, err = readTopicName(r); err != nil {
		return nil, err
	}

	switch q {
	case QoS0:
		p.qos = Level0()
	case QoS1, QoS2:
		id, err := r.readUint16()
		if err != nil {
			return nil, err
		}
		p.qos = QoSWithPacketID{qos: q, id: id}
	}

	// Payload (remaining bytes)
	p.payload = r.rest()

	return p, nil
}
