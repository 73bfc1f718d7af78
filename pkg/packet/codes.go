package packet

import "strconv"

// ConnectReturnCode is the CONNACK return code.
// Values above 5 are reserved; they decode verbatim rather than failing.
// MQTT 3.1.1 Section 3.2.2.3
type ConnectReturnCode byte

const (
	ConnectionAccepted          ConnectReturnCode = 0x00 // Connection Accepted
	UnacceptableProtocolVersion ConnectReturnCode = 0x01 // Connection Refused, unacceptable protocol version
	IdentifierRejected          ConnectReturnCode = 0x02 // Connection Refused, identifier rejected
	ServiceUnavailable          ConnectReturnCode = 0x03 // Connection Refused, Server unavailable
	BadUserNameOrPassword       ConnectReturnCode = 0x04 // Connection Refused, bad user name or password
	NotAuthorized               ConnectReturnCode = 0x05 // Connection Refused, not authorized
)

// IsAccepted returns true if the connection was accepted.
func (c ConnectReturnCode) IsAccepted() bool {
	return c == ConnectionAccepted
}

// IsReserved returns true for codes the protocol does not define.
func (c ConnectReturnCode) IsReserved() bool {
	return c > NotAuthorized
}

// String returns the string representation of the CONNACK return code.
func (c ConnectReturnCode) String() string {
	switch c {
	case ConnectionAccepted:
		return "Connection Accepted"
	case UnacceptableProtocolVersion:
		return "Connection Refused, unacceptable protocol version"
	case IdentifierRejected:
		return "Connection Refused, identifier rejected"
	case ServiceUnavailable:
		return "Connection Refused, Server unavailable"
	case BadUserNameOrPassword:
		return "Connection Refused, bad user name or password"
	case NotAuthorized:
		return "Connection Refused, not authorized"
	default:
		return "reserved(" + strconv.Itoa(int(c)) + ")"
	}
}

// SubscribeReturnCode is one SUBACK entry: the granted QoS or Failure.
// MQTT 3.1.1 Section 3.9.3
type SubscribeReturnCode byte

const (
	MaximumQoSLevel0 SubscribeReturnCode = 0x00 // Success - Maximum QoS 0
	MaximumQoSLevel1 SubscribeReturnCode = 0x01 // Success - Maximum QoS 1
	MaximumQoSLevel2 SubscribeReturnCode = 0x02 // Success - Maximum QoS 2
	SubscribeFailure SubscribeReturnCode = 0x80 // Failure
)

// GrantedQoS converts a QoS into its success return code.
func GrantedQoS(q QoS) SubscribeReturnCode {
	return SubscribeReturnCode(q)
}

// QoS returns the granted level for success codes.
func (c SubscribeReturnCode) QoS() (QoS, bool) {
	if c > MaximumQoSLevel2 {
		return 0, false
	}
	return QoS(c), true
}

// IsReserved returns true for codes the protocol does not define.
func (c SubscribeReturnCode) IsReserved() bool {
	return c > MaximumQoSLevel2 && c != SubscribeFailure
}

// String returns the string representation of the SUBACK return code.
func (c SubscribeReturnCode) String() string {
	switch c {
	case MaximumQoSLevel0:
		return "Maximum QoS 0"
	case MaximumQoSLevel1:
		return "Maximum QoS 1"
	case MaximumQoSLevel2:
		return "Maximum QoS 2"
	case SubscribeFailure:
		return "Failure"
	default:
		return "reserved(" + strconv.Itoa(int(c)) + ")"
	}
}
