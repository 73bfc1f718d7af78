package packet

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullConnect(t *testing.T) *Connect {
	t.Helper()
	c := NewConnect("other client id")
	c.SetKeepAlive(1000)
	c.SetCleanSession(true)
	c.SetUsername("user-name")
	require.NoError(t, c.SetPassword([]byte("secret")))
	willTopic := MustTopicName("client/status")
	c.SetWill(&willTopic, []byte("offline"))
	require.NoError(t, c.SetWillQoS(QoS2))
	require.NoError(t, c.SetWillRetain(true))
	return c
}

func roundTripCases(t *testing.T) []struct {
	name   string
	packet Packet
} {
	t.Helper()

	withEmptyPassword := NewConnect("")
	withEmptyPassword.SetUsername("")
	require.NoError(t, withEmptyPassword.SetPassword([]byte{}))

	dup := NewPublish(MustTopicName("topic"), Level0(), nil)
	dup.SetDup(true)
	retained := NewPublish(MustTopicName("a/b"), Level2(0xFFFF), []byte{0x00, 0x01, 0xFF})
	retained.SetRetain(true)

	return []struct {
		name   string
		packet Packet
	}{
		{"connect minimal", NewConnect("client-id")},
		{"connect full", fullConnect(t)},
		{"connect empty password", withEmptyPassword},
		{"connect 3.1", NewConnectWithProtocol(ProtocolName31, ProtocolLevel31, "legacy")},
		{"connack accepted", NewConnack(true, ConnectionAccepted)},
		{"connack reserved", NewConnack(false, ConnectReturnCode(128))},
		{"publish qos0", NewPublish(MustTopicName("topic"), Level0(), nil)},
		{"publish dup qos0", dup},
		{"publish qos1", NewPublish(MustTopicName("topic"), Level1(1), []byte("hello"))},
		{"publish qos2 retain", retained},
		{"publish large", NewPublish(MustTopicName("big"), Level1(9), bytes.Repeat([]byte{0xAB}, 20000))},
		{"puback", NewPuback(16383)},
		{"pubrec", NewPubrec(32766)},
		{"pubrel", NewPubrel(49149)},
		{"pubcomp", NewPubcomp(0)},
		{"subscribe empty", NewSubscribe(1, nil)},
		{"subscribe", NewSubscribe(4, []Subscription{
			{Filter: MustTopicFilter("#"), QoS: QoS0},
			{Filter: MustTopicFilter("topic/filter"), QoS: QoS1},
			{Filter: MustTopicFilter("topic/+/filter"), QoS: QoS2},
		})},
		{"suback empty", NewSuback(1, nil)},
		{"suback", NewSuback(5, []SubscribeReturnCode{
			MaximumQoSLevel0, MaximumQoSLevel1, MaximumQoSLevel2, SubscribeFailure, SubscribeReturnCode(0x42),
		})},
		{"unsubscribe empty", NewUnsubscribe(1, nil)},
		{"unsubscribe", NewUnsubscribe(3, []TopicFilter{MustTopicFilter("#"), MustTopicFilter("topic/+/filter/#")})},
		{"unsuback", NewUnsuback(65532)},
		{"pingreq", &Pingreq{}},
		{"pingresp", &Pingresp{}},
		{"disconnect", &Disconnect{}},
	}
}

func TestRoundTrip(t *testing.T) {
	for _, tt := range roundTripCases(t) {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := Encode(tt.packet)
			require.NoError(t, err)

			// The remaining length covers exactly the bytes after the fixed header.
			h, n, err := DecodeFixedHeader(encoded)
			require.NoError(t, err)
			assert.Equal(t, tt.packet.Type(), h.Type)
			assert.Equal(t, len(encoded)-n, int(h.RemainingLength))
			assert.Equal(t, h.Size(), n)

			decoded, consumed, err := Decode(encoded)
			require.NoError(t, err)
			assert.Equal(t, len(encoded), consumed)
			assert.Equal(t, tt.packet, decoded)

			size, err := EncodedSize(tt.packet)
			require.NoError(t, err)
			assert.Equal(t, len(encoded), size)
		})
	}
}

func TestGoldenBytes(t *testing.T) {
	clientID := []byte("client-id")
	topic := []byte("topic")

	tests := []struct {
		name   string
		packet Packet
		want   []byte
	}{
		{"pingreq", &Pingreq{}, []byte{0xC0, 0x00}},
		{"pingresp", &Pingresp{}, []byte{0xD0, 0x00}},
		{"disconnect", &Disconnect{}, []byte{0xE0, 0x00}},
		{"puback", NewPuback(16383), []byte{0x40, 0x02, 0x3F, 0xFF}},
		{"pubrec", NewPubrec(1), []byte{0x50, 0x02, 0x00, 0x01}},
		{"pubrel", NewPubrel(1), []byte{0x62, 0x02, 0x00, 0x01}},
		{"pubcomp", NewPubcomp(2), []byte{0x70, 0x02, 0x00, 0x02}},
		{"unsuback", NewUnsuback(0), []byte{0xB0, 0x02, 0x00, 0x00}},
		{"connack session present", NewConnack(true, ConnectionAccepted), []byte{0x20, 0x02, 0x01, 0x00}},
		{"connack reserved", NewConnack(false, ConnectReturnCode(128)), []byte{0x20, 0x02, 0x00, 0x80}},
		{
			"connect",
			NewConnect("client-id"),
			append([]byte{0x10, 0x15, 0x00, 0x04, 'M', 'Q', 'T', 'T', 0x04, 0x00, 0x00, 0x00, 0x00, 0x09}, clientID...),
		},
		{
			"publish qos0",
			NewPublish(MustTopicName("topic"), Level0(), nil),
			append([]byte{0x30, 0x07, 0x00, 0x05}, topic...),
		},
		{
			"publish qos1",
			NewPublish(MustTopicName("topic"), Level1(1), nil),
			append(append([]byte{0x32, 0x09, 0x00, 0x05}, topic...), 0x00, 0x01),
		},
		{
			"subscribe",
			NewSubscribe(3, []Subscription{
				{Filter: MustTopicFilter("#"), QoS: QoS0},
				{Filter: MustTopicFilter("topic/filter"), QoS: QoS1},
			}),
			append(append([]byte{0x82, 0x15, 0x00, 0x03, 0x00, 0x01, '#', 0x00, 0x00, 0x0C}, "topic/filter"...), 0x01),
		},
		{
			"suback",
			NewSuback(5, []SubscribeReturnCode{MaximumQoSLevel0, MaximumQoSLevel1, MaximumQoSLevel2, SubscribeFailure}),
			[]byte{0x90, 0x06, 0x00, 0x05, 0x00, 0x01, 0x02, 0x80},
		},
		{
			"unsubscribe",
			NewUnsubscribe(2, []TopicFilter{MustTopicFilter("#")}),
			[]byte{0xA2, 0x05, 0x00, 0x02, 0x00, 0x01, '#'},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.packet)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConnectFlagsByte(t *testing.T) {
	encoded, err := Encode(fullConnect(t))
	require.NoError(t, err)
	// username, password, will retain, will QoS 2, will, clean session
	assert.Equal(t, byte(0b1111_0110), encoded[9])
	assert.Equal(t, []byte{0x03, 0xE8}, encoded[10:12])
}

func TestSubscribeScenario(t *testing.T) {
	encoded, err := Encode(NewSubscribe(3, []Subscription{
		{Filter: MustTopicFilter("#"), QoS: QoS0},
		{Filter: MustTopicFilter("topic/filter"), QoS: QoS1},
	}))
	require.NoError(t, err)

	p, err := Unmarshal(encoded)
	require.NoError(t, err)
	sub, ok := p.(*Subscribe)
	require.True(t, ok)
	assert.Equal(t, uint16(3), sub.PacketID)
	require.Len(t, sub.Subscriptions, 2)
	assert.Equal(t, "#", sub.Subscriptions[0].Filter.String())
	assert.Equal(t, QoS0, sub.Subscriptions[0].QoS)
	assert.Equal(t, "topic/filter", sub.Subscriptions[1].Filter.String())
	assert.Equal(t, QoS1, sub.Subscriptions[1].QoS)
}

func TestPublishPacketIDCoupling(t *testing.T) {
	level0, err := Encode(NewPublish(MustTopicName("t"), Level0(), []byte{0xAA}))
	require.NoError(t, err)
	// topic (2+1) + payload (1), no identifier
	assert.Equal(t, []byte{0x30, 0x04, 0x00, 0x01, 't', 0xAA}, level0)

	for _, q := range []QoSWithPacketID{Level1(0x0102), Level2(0x0102)} {
		encoded, err := Encode(NewPublish(MustTopicName("t"), q, []byte{0xAA}))
		require.NoError(t, err)
		assert.Equal(t, []byte{0x00, 0x01, 't', 0x01, 0x02, 0xAA}, encoded[2:], q.String())
	}

	t.Run("trailing bytes after level0 packet", func(t *testing.T) {
		_, err := Unmarshal(append(level0, 0x00, 0x07))
		assert.ErrorIs(t, err, ErrLengthMismatch)
	})

	t.Run("body longer than remaining length", func(t *testing.T) {
		h := FixedHeader{Type: TypePublish, RemainingLength: 4}
		_, err := DecodeBody(h, append(level0[2:], 0x00, 0x07))
		assert.ErrorIs(t, err, ErrLengthMismatch)
	})

	t.Run("level1 without identifier", func(t *testing.T) {
		_, _, err := Decode([]byte{0x32, 0x03, 0x00, 0x01, 't'})
		assert.ErrorIs(t, err, ErrLengthMismatch)
		assert.ErrorIs(t, err, ErrUnexpectedEOF)
	})
}

func TestDecodeTruncated(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
	}{
		{"empty", nil},
		{"type byte only", []byte{0x10}},
		{"partial remaining length", []byte{0x30, 0x80}},
		{"short body", []byte{0x30, 0x0A, 0x00, 0x05}},
		{"puback missing id byte", []byte{0x40, 0x02, 0x00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				_, _, err := Decode(tt.buf)
				assert.ErrorIs(t, err, ErrUnexpectedEOF)
				assert.ErrorIs(t, err, ErrDecoding)
			})
		})
	}
}

func TestDecodeMalformed(t *testing.T) {
	connect := func(name string, level, flags byte) []byte {
		body := []byte{0x00, byte(len(name))}
		body = append(body, name...)
		body = append(body, level, flags, 0x00, 0x3C, 0x00, 0x01, 'c')
		return append([]byte{0x10, byte(len(body))}, body...)
	}

	tests := []struct {
		name string
		buf  []byte
		errs []error
	}{
		{"unknown type 0", []byte{0x00, 0x00}, []error{ErrUnknownPacketType}},
		{"unknown type 15", []byte{0xF0, 0x00}, []error{ErrUnknownPacketType}},
		{"five byte remaining length", []byte{0x30, 0xFF, 0xFF, 0xFF, 0xFF, 0x01}, []error{ErrMalformedVarInt}},
		{"puback flags", []byte{0x41, 0x02, 0x00, 0x01}, []error{ErrReservedBits}},
		{"pubrel flags", []byte{0x60, 0x02, 0x00, 0x01}, []error{ErrReservedBits}},
		{"subscribe flags", []byte{0x80, 0x05, 0x00, 0x01, 0x00, 0x01, '#'}, []error{ErrReservedBits}},
		{"puback too long", []byte{0x40, 0x03, 0x00, 0x01, 0x02}, []error{ErrLengthMismatch}},
		{"puback too short", []byte{0x40, 0x01, 0x00}, []error{ErrLengthMismatch}},
		{"pingreq with body", []byte{0xC0, 0x01, 0x00}, []error{ErrLengthMismatch}},
		{"disconnect with body", []byte{0xE0, 0x02, 0x00, 0x00}, []error{ErrLengthMismatch}},
		{"connack reserved bits", []byte{0x20, 0x02, 0x02, 0x00}, []error{ErrReservedBits}},
		{"connack too long", []byte{0x20, 0x03, 0x00, 0x00, 0x00}, []error{ErrLengthMismatch}},
		{"publish qos3", append([]byte{0x36, 0x07, 0x00, 0x05}, "topic"...), []error{ErrInvalidQoS, ErrMalformedPacket}},
		{"publish wildcard topic", []byte{0x30, 0x05, 0x00, 0x03, 'a', '/', '#'}, []error{ErrInvalidTopic, ErrMalformedPacket}},
		{"publish empty topic", []byte{0x30, 0x02, 0x00, 0x00}, []error{ErrInvalidTopic}},
		{"publish bad utf8 topic", []byte{0x30, 0x03, 0x00, 0x01, 0xFF}, []error{ErrInvalidUTF8, ErrMalformedPacket}},
		{"subscribe options reserved", []byte{0x82, 0x06, 0x00, 0x01, 0x00, 0x01, '#', 0x04}, []error{ErrReservedBits}},
		{"subscribe qos3", []byte{0x82, 0x06, 0x00, 0x01, 0x00, 0x01, '#', 0x03}, []error{ErrInvalidQoS}},
		{"subscribe missing options", []byte{0x82, 0x05, 0x00, 0x01, 0x00, 0x01, '#'}, []error{ErrLengthMismatch}},
		{"subscribe bad filter", []byte{0x82, 0x08, 0x00, 0x01, 0x00, 0x03, '#', '/', 'a', 0x00}, []error{ErrInvalidTopic}},
		{"unsubscribe truncated filter", []byte{0xA2, 0x05, 0x00, 0x01, 0x00, 0x05, 'a'}, []error{ErrLengthMismatch}},
		{"connect protocol name", connect("MQTX", 4, 0x02), []error{ErrInvalidProtocolName}},
		{"connect protocol level", connect("MQTT", 5, 0x02), []error{ErrInvalidProtocolLevel}},
		{"connect mismatched 3.1 level", connect("MQIsdp", 4, 0x02), []error{ErrInvalidProtocolLevel}},
		{"connect reserved flag", connect("MQTT", 4, 0x03), []error{ErrReservedBits}},
		{"connect password without username", connect("MQTT", 4, 0x40), []error{ErrInconsistentFlags, ErrMalformedPacket}},
		{"connect will retain without will", connect("MQTT", 4, 0x20), []error{ErrInconsistentFlags}},
		{"connect will qos without will", connect("MQTT", 4, 0x08), []error{ErrInconsistentFlags}},
		{"connect will qos3", connect("MQTT", 4, 0x1C), []error{ErrInvalidQoS}},
		{"connect will missing payload", connect("MQTT", 4, 0x04), []error{ErrLengthMismatch}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Decode(tt.buf)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDecoding)
			for _, want := range tt.errs {
				assert.ErrorIs(t, err, want)
			}
		})
	}
}

func TestEncodeErrors(t *testing.T) {
	_, err := Encode(NewConnect(strings.Repeat("c", MaxStringLength+1)))
	assert.ErrorIs(t, err, ErrStringTooLong)
	assert.ErrorIs(t, err, ErrEncoding)

	_, err = Encode(NewPublish(MustTopicName("t"), QoSWithPacketID{qos: 3}, nil))
	assert.ErrorIs(t, err, ErrInvalidQoS)

	_, err = Encode(NewSubscribe(1, []Subscription{{Filter: MustTopicFilter("#"), QoS: 3}}))
	assert.ErrorIs(t, err, ErrInvalidQoS)

	_, err = Encode(NewPublish(TopicNameUnchecked("bad\x00topic"), Level0(), nil))
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}

func TestEncodeZeroTopics(t *testing.T) {
	_, err := Encode(NewPublish(TopicName{}, Level0(), []byte("x")))
	assert.ErrorIs(t, err, ErrInvalidTopic)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = Encode(NewSubscribe(1, []Subscription{{QoS: QoS1}}))
	assert.ErrorIs(t, err, ErrInvalidTopic)

	_, err = Encode(NewUnsubscribe(1, []TopicFilter{MustTopicFilter("a"), {}}))
	assert.ErrorIs(t, err, ErrInvalidTopic)

	c := NewConnect("client-id")
	c.SetWill(&TopicName{}, []byte("bye"))
	_, err = Encode(c)
	assert.ErrorIs(t, err, ErrInvalidTopic)

	// An explicitly unchecked empty topic still encodes.
	buf, err := Encode(NewPublish(TopicNameUnchecked(""), Level0(), nil))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x30, 0x02, 0x00, 0x00}, buf)

	buf, err = Encode(NewUnsubscribe(1, []TopicFilter{TopicFilterUnchecked("")}))
	require.NoError(t, err)
	assert.Equal(t, []byte{0xA2, 0x04, 0x00, 0x01, 0x00, 0x00}, buf)
}

func TestEmptyListsAreNil(t *testing.T) {
	assert.Nil(t, NewSubscribe(1, []Subscription{}).Subscriptions)
	assert.Nil(t, NewSuback(1, []SubscribeReturnCode{}).ReturnCodes)
	assert.Nil(t, NewUnsubscribe(1, []TopicFilter{}).Filters)

	for _, p := range []Packet{
		NewSuback(1, []SubscribeReturnCode{}),
		NewUnsubscribe(2, []TopicFilter{}),
		NewSubscribe(3, []Subscription{}),
	} {
		buf, err := Encode(p)
		require.NoError(t, err)
		got, err := Unmarshal(buf)
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
}

func TestUncheckedTopicsEncode(t *testing.T) {
	// Wildcards in a topic name encode fine and are rejected on decode.
	encoded, err := Encode(NewPublish(TopicNameUnchecked("a/+"), Level0(), nil))
	require.NoError(t, err)
	_, err = Unmarshal(encoded)
	assert.ErrorIs(t, err, ErrInvalidTopic)

	encoded, err = Encode(NewUnsubscribe(1, []TopicFilter{TopicFilterUnchecked("a/#/b")}))
	require.NoError(t, err)
	_, err = Unmarshal(encoded)
	assert.ErrorIs(t, err, ErrInvalidTopic)

	encoded, err = Encode(NewConnectWithProtocol("MQTT", 5, "future"))
	require.NoError(t, err)
	_, err = Unmarshal(encoded)
	assert.ErrorIs(t, err, ErrInvalidProtocolLevel)
}

func TestAppendKeepsPrefix(t *testing.T) {
	dst := []byte{0xDE, 0xAD}
	out, err := Append(dst, &Pingreq{})
	require.NoError(t, err)
	assert.Equal(t, []byte{0xDE, 0xAD, 0xC0, 0x00}, out)
}

func TestDecodeConsumesOnePacket(t *testing.T) {
	var stream []byte
	stream, err := Append(stream, NewPuback(1))
	require.NoError(t, err)
	stream, err = Append(stream, &Pingresp{})
	require.NoError(t, err)

	p, n, err := Decode(stream)
	require.NoError(t, err)
	assert.Equal(t, NewPuback(1), p)
	assert.Equal(t, 4, n)

	p, n, err = Decode(stream[n:])
	require.NoError(t, err)
	assert.Equal(t, &Pingresp{}, p)
	assert.Equal(t, 2, n)
}

func TestConcurrentCodec(t *testing.T) {
	cases := roundTripCases(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, tt := range cases {
				encoded, err := Encode(tt.packet)
				if !assert.NoError(t, err) {
					return
				}
				decoded, err := Unmarshal(encoded)
				if !assert.NoError(t, err) {
					return
				}
				assert.Equal(t, tt.packet, decoded)
			}
		}()
	}
	wg.Wait()
}
