// Package packet encodes and decodes MQTT 3.1.1 control packets.
//
// Every packet kind is a distinct struct implementing the sealed Packet
// interface. Encode and Decode are pure functions over caller buffers and
// are safe for concurrent use.
package packet

import (
	"fmt"
	"strconv"
)

// Type represents an MQTT control packet type.
type Type byte

// MQTT Control Packet types as defined in MQTT 3.1.1 Section 2.2.1.
// Values 0 and 15 are reserved.
const (
	TypeConnect Type = iota + 1
	TypeConnack
	TypePublish
	TypePuback
	TypePubrec
	TypePubrel
	TypePubcomp
	TypeSubscribe
	TypeSuback
	TypeUnsubscribe
	TypeUnsuback
	TypePingreq
	TypePingresp
	TypeDisconnect
)

var typeNames = [...]string{
	TypeConnect:     "CONNECT",
	TypeConnack:     "CONNACK",
	TypePublish:     "PUBLISH",
	TypePuback:      "PUBACK",
	TypePubrec:      "PUBREC",
	TypePubrel:      "PUBREL",
	TypePubcomp:     "PUBCOMP",
	TypeSubscribe:   "SUBSCRIBE",
	TypeSuback:      "SUBACK",
	TypeUnsubscribe: "UNSUBSCRIBE",
	TypeUnsuback:    "UNSUBACK",
	TypePingreq:     "PINGREQ",
	TypePingresp:    "PINGRESP",
	TypeDisconnect:  "DISCONNECT",
}

// String returns the upper-case kind name, or "RESERVED(n)" for 0 and 15.
func (t Type) String() string {
	if !t.Valid() {
		return "RESERVED(" + strconv.Itoa(int(t)) + ")"
	}
	return typeNames[t]
}

// Valid returns true if the packet type is one of the 14 known kinds.
func (t Type) Valid() bool {
	return t >= TypeConnect && t <= TypeDisconnect
}

// requiredFlags returns the fixed header flags a kind must carry.
// PUBLISH has no fixed value and reports ok == false.
func (t Type) requiredFlags() (flags byte, ok bool) {
	switch t {
	case TypePublish:
		return 0, false
	case TypePubrel, TypeSubscribe, TypeUnsubscribe:
		return 0x02, true
	default:
		return 0x00, true
	}
}

// Protocol names and levels accepted in CONNECT.
const (
	ProtocolName    = "MQTT"   // MQTT 3.1.1
	ProtocolLevel   = 4        // MQTT 3.1.1
	ProtocolName31  = "MQIsdp" // MQTT 3.1
	ProtocolLevel31 = 3        // MQTT 3.1
)

// QoS represents MQTT Quality of Service level.
type QoS byte

const (
	QoS0 QoS = 0 // At most once delivery
	QoS1 QoS = 1 // At least once delivery
	QoS2 QoS = 2 // Exactly once delivery
)

// NewQoS converts a 2-bit wire value into a QoS level.
func NewQoS(b byte) (QoS, error) {
	q := QoS(b)
	if !q.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidQoS, b)
	}
	return q, nil
}

// Valid returns true if the QoS level is valid.
func (q QoS) Valid() bool {
	return q <= QoS2
}

// String returns the string representation of the QoS level.
func (q QoS) String() string {
	switch q {
	case QoS0:
		return "QoS0"
	case QoS1:
		return "QoS1"
	case QoS2:
		return "QoS2"
	default:
		return "invalid"
	}
}

// QoSWithPacketID is the delivery level of a PUBLISH together with its packet
// identifier. Level 0 carries no identifier; levels 1 and 2 always carry one.
type QoSWithPacketID struct {
	qos QoS
	id  uint16
}

// Level0 is at-most-once delivery without a packet identifier.
func Level0() QoSWithPacketID { return QoSWithPacketID{qos: QoS0} }

// Level1 is at-least-once delivery under packet identifier id.
func Level1(id uint16) QoSWithPacketID { return QoSWithPacketID{qos: QoS1, id: id} }

// Level2 is exactly-once delivery under packet identifier id.
func Level2(id uint16) QoSWithPacketID { return QoSWithPacketID{qos: QoS2, id: id} }

// QoS returns the delivery level.
func (q QoSWithPacketID) QoS() QoS { return q.qos }

// PacketID returns the packet identifier, if the level carries one.
func (q QoSWithPacketID) PacketID() (uint16, bool) {
	return q.id, q.qos > QoS0
}

// String returns e.g. "QoS1(id=7)".
func (q QoSWithPacketID) String() string {
	if q.qos == QoS0 {
		return q.qos.String()
	}
	return fmt.Sprintf("%s(id=%d)", q.qos, q.id)
}

// Fixed header flag bits for PUBLISH (bits 3-0 of first byte).
const (
	PublishFlagRetain = 1 << 0 // Bit 0: RETAIN flag
	PublishFlagQoS1   = 1 << 1 // Bit 1: QoS LSB
	PublishFlagQoS2   = 1 << 2 // Bit 2: QoS MSB
	PublishFlagDup    = 1 << 3 // Bit 3: DUP flag
)

// MaxPacketSize is the maximum total packet size including fixed header.
const MaxPacketSize = MaxRemainingLength + 5 // 5 bytes max for fixed header
