package packet

import "fmt"

// Will is the message the server publishes when the client disconnects
// ungracefully.
type Will struct {
	Topic   TopicName
	Message []byte // nil when empty
	QoS     QoS
	Retain  bool
}

// Connect represents an MQTT CONNECT packet.
// Fields with cross-field rules are unexported and changed through setters,
// so a Connect value always has a consistent flag byte.
// MQTT 3.1.1 Section 3.1
type Connect struct {
	protocolName  string
	protocolLevel byte

	clientID     string
	keepAlive    uint16 // seconds
	cleanSession bool

	will     *Will
	username *string
	password []byte // nil when absent
}

// connectFlagBits defines the bit positions in the connect flags byte.
const (
	connectFlagReserved     = 1 << 0
	connectFlagCleanSession = 1 << 1
	connectFlagWill         = 1 << 2
	connectFlagWillQoSShift = 3
	connectFlagWillQoSMask  = 0x03 << connectFlagWillQoSShift
	connectFlagWillRetain   = 1 << 5
	connectFlagPassword     = 1 << 6
	connectFlagUsername     = 1 << 7
)

// NewConnect creates an MQTT 3.1.1 CONNECT packet for clientID.
func NewConnect(clientID string) *Connect {
	return NewConnectWithProtocol(ProtocolName, ProtocolLevel, clientID)
}

// NewConnectWithProtocol creates a CONNECT packet with an arbitrary protocol
// name and level. Encoding does not check them; decoding does. It exists to
// build interoperability fixtures such as MQTT 3.1 or deliberately
// unsupported levels.
func NewConnectWithProtocol(name string, level byte, clientID string) *Connect {
	return &Connect{
		protocolName:  name,
		protocolLevel: level,
		clientID:      clientID,
	}
}

// Type returns TypeConnect.
func (c *Connect) Type() Type {
	return TypeConnect
}

func (c *Connect) flags() byte { return 0 }

// ProtocolName returns the protocol name, "MQTT" for 3.1.1.
func (c *Connect) ProtocolName() string { return c.protocolName }

// ProtocolLevel returns the protocol level, 4 for 3.1.1.
func (c *Connect) ProtocolLevel() byte { return c.protocolLevel }

// ClientID returns the client identifier.
func (c *Connect) ClientID() string { return c.clientID }

// SetClientID sets the client identifier.
func (c *Connect) SetClientID(id string) { c.clientID = id }

// KeepAlive returns the keep-alive interval in seconds.
func (c *Connect) KeepAlive() uint16 { return c.keepAlive }

// SetKeepAlive sets the keep-alive interval in seconds.
func (c *Connect) SetKeepAlive(seconds uint16) { c.keepAlive = seconds }

// CleanSession returns the clean session flag.
func (c *Connect) CleanSession() bool { return c.cleanSession }

// SetCleanSession sets the clean session flag.
func (c *Connect) SetCleanSession(clean bool) { c.cleanSession = clean }

// Will returns a copy of the will, or nil if none is set.
func (c *Connect) Will() *Will {
	if c.will == nil {
		return nil
	}
	w := *c.will
	return &w
}

// SetWill sets the will topic and message with QoS 0 and no retain, or
// clears the will when topic is nil. A previously set QoS and retain flag
// are kept when replacing an existing will.
func (c *Connect) SetWill(topic *TopicName, message []byte) {
	if topic == nil {
		c.will = nil
		return
	}
	if len(message) == 0 {
		message = nil
	}
	if c.will == nil {
		c.will = &Will{}
	}
	c.will.Topic = *topic
	c.will.Message = message
}

// SetWillQoS sets the will QoS. It fails when no will is set.
func (c *Connect) SetWillQoS(q QoS) error {
	if !q.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidQoS, q)
	}
	if c.will == nil {
		return fmt.Errorf("%w: will QoS without will", ErrInconsistentFlags)
	}
	c.will.QoS = q
	return nil
}

// SetWillRetain sets the will retain flag. It fails when no will is set.
func (c *Connect) SetWillRetain(retain bool) error {
	if c.will == nil {
		return fmt.Errorf("%w: will retain without will", ErrInconsistentFlags)
	}
	c.will.Retain = retain
	return nil
}

// Username returns the user name if present.
func (c *Connect) Username() (string, bool) {
	if c.username == nil {
		return "", false
	}
	return *c.username, true
}

// SetUsername sets the user name.
func (c *Connect) SetUsername(name string) {
	c.username = &name
}

// ClearUsername removes the user name. It fails while a password is set.
func (c *Connect) ClearUsername() error {
	if c.password != nil {
		return fmt.Errorf("%w: password without user name", ErrInconsistentFlags)
	}
	c.username = nil
	return nil
}

// Password returns the password if present.
func (c *Connect) Password() ([]byte, bool) {
	return c.password, c.password != nil
}

// SetPassword sets the password. It fails when no user name is set.
func (c *Connect) SetPassword(password []byte) error {
	if c.username == nil {
		return fmt.Errorf("%w: password without user name", ErrInconsistentFlags)
	}
	if password == nil {
		password = []byte{}
	}
	c.password = password
	return nil
}

// ClearPassword removes the password.
func (c *Connect) ClearPassword() {
	c.password = nil
}

func (c *Connect) connectFlags() byte {
	var flags byte
	if c.cleanSession {
		flags |= connectFlagCleanSession
	}
	if c.will != nil {
		flags |= connectFlagWill
		flags |= byte(c.will.QoS) << connectFlagWillQoSShift
		if c.will.Retain {
			flags |= connectFlagWillRetain
		}
	}
	if c.password != nil {
		flags |= connectFlagPassword
	}
	if c.username != nil {
		flags |= connectFlagUsername
	}
	return flags
}

func (c *Connect) encodeBody(w *bodyWriter) error {
	if c.will != nil && !c.will.QoS.Valid() {
		return fmt.Errorf("will: %w: %d", ErrInvalidQoS, c.will.QoS)
	}

	// Variable header
	if err := w.putString(c.protocolName); err != nil {
		return fmt.Errorf("protocol name: %w", err)
	}
	w.putByte(c.protocolLevel)
	w.putByte(c.connectFlags())
	w.putUint16(c.keepAlive)

	// Payload
	if err := w.putString(c.clientID); err != nil {
		return fmt.Errorf("client identifier: %w", err)
	}
	if c.will != nil {
		if err := c.will.Topic.check(); err != nil {
			return fmt.Errorf("will topic: %w", err)
		}
		if err := w.putString(c.will.Topic.String()); err != nil {
			return fmt.Errorf("will topic: %w", err)
		}
		if err := w.putBytes(c.will.Message); err != nil {
			return fmt.Errorf("will message: %w", err)
		}
	}
	if c.username != nil {
		if err := w.putString(*c.username); err != nil {
			return fmt.Errorf("user name: %w", err)
		}
	}
	if c.password != nil {
		if err := w.putBytes(c.password); err != nil {
			return fmt.Errorf("password: %w", err)
		}
	}
	return nil
}

func decodeConnect(r *bodyReader, _ byte) (Packet, error) {
	c := &Connect{}
	var err error

	if c.protocolName, err = r.readString(); err != nil {
		return nil, err
	}
	if c.protocolLevel, err = r.readByte(); err != nil {
		return nil, err
	}
	switch {
	case c.protocolName == ProtocolName && c.protocolLevel == ProtocolLevel:
	case c.protocolName == ProtocolName31 && c.protocolLevel == ProtocolLevel31:
	case c.protocolName != ProtocolName && c.protocolName != ProtocolName31:
		return nil, fmt.Errorf("%w: %q", ErrInvalidProtocolName, c.protocolName)
	default:
		return nil, fmt.Errorf("%w: %q level %d", ErrInvalidProtocolLevel, c.protocolName, c.protocolLevel)
	}

	flags, err := r.readByte()
	if err != nil {
		return nil, err
	}
	if flags&connectFlagReserved != 0 {
		return nil, fmt.Errorf("%w: connect flags bit 0", ErrReservedBits)
	}

	hasWill := flags&connectFlagWill != 0
	willQoS := QoS((flags & connectFlagWillQoSMask) >> connectFlagWillQoSShift)
	willRetain := flags&connectFlagWillRetain != 0
	hasUsername := flags&connectFlagUsername != 0
	hasPassword := flags&connectFlagPassword != 0

	if !hasWill && (willQoS != QoS0 || willRetain) {
		return nil, malformed(fmt.Errorf("%w: will QoS or retain without will", ErrInconsistentFlags))
	}
	if hasWill && !willQoS.Valid() {
		return nil, malformed(fmt.Errorf("will: %w: %d", ErrInvalidQoS, willQoS))
	}
	if hasPassword && !hasUsername {
		return nil, malformed(fmt.Errorf("%w: password without user name", ErrInconsistentFlags))
	}
	c.cleanSession = flags&connectFlagCleanSession != 0

	if c.keepAlive, err = r.readUint16(); err != nil {
		return nil, err
	}

	if c.clientID, err = r.readString(); err != nil {
		return nil, err
	}

	if hasWill {
		topic, err := readTopicName(r)
		if err != nil {
			return nil, err
		}
		message, err := r.readBytes()
		if err != nil {
			return nil, err
		}
		c.will = &Will{Topic: topic, QoS: willQoS, Retain: willRetain}
		if len(message) > 0 {
			c.will.Message = append([]byte(nil), message...)
		}
	}

	if hasUsername {
		name, err := r.readString()
		if err != nil {
			return nil, err
		}
		c.username = &name
	}

	if hasPassword {
		password, err := r.readBytes()
		if err != nil {
			return nil, err
		}
		c.password = append([]byte{}, password...)
	}

	return c, nil
}
