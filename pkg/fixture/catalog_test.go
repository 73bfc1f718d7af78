package fixture

import (
	"bytes"
	"testing"

	"github.com/bromq-dev/mqttcodec/pkg/packet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogContents(t *testing.T) {
	vs, err := Catalog()
	require.NoError(t, err)

	counts := map[packet.Type]int{}
	names := map[string]bool{}
	for _, v := range vs {
		assert.False(t, names[v.Name], "duplicate name %s", v.Name)
		names[v.Name] = true
		counts[v.Packet.Type()]++
	}

	assert.Len(t, vs, 59)
	assert.Equal(t, 8, counts[packet.TypeConnack])
	assert.Equal(t, 8, counts[packet.TypeConnect])
	assert.Equal(t, 5, counts[packet.TypePublish])
	assert.Equal(t, 4, counts[packet.TypePubrel])
	assert.Equal(t, 5, counts[packet.TypeSubscribe])
	assert.Equal(t, 1, counts[packet.TypeDisconnect])

	for _, name := range []string{"connack-01", "connect-08", "puback-0", "pubrel-3", "publish-05", "suback-01", "unsubscribe-05", "pingresp"} {
		assert.True(t, names[name], name)
	}
}

func TestCatalogRoundTrip(t *testing.T) {
	vs, err := Catalog()
	require.NoError(t, err)

	for _, v := range vs {
		t.Run(v.Name, func(t *testing.T) {
			data, err := packet.Encode(v.Packet)
			require.NoError(t, err)
			require.NoError(t, VerifyBytes(data, v.Packet.Type().String()))

			decoded, err := packet.Unmarshal(data)
			require.NoError(t, err)
			assert.Equal(t, v.Packet, decoded)
		})
	}
}

func encodeVariation(t *testing.T, name string) []byte {
	t.Helper()
	v, ok := Lookup(name)
	require.True(t, ok, name)
	data, err := packet.Encode(v.Packet)
	require.NoError(t, err)
	return data
}

func TestCatalogGoldenBytes(t *testing.T) {
	assert.Equal(t, []byte{0x20, 0x02, 0x01, 0x00}, encodeVariation(t, "connack-01"))
	assert.Equal(t, []byte{0x20, 0x02, 0x00, 0x80}, encodeVariation(t, "connack-08"))
	assert.Equal(t, []byte{0x40, 0x02, 0x00, 0x00}, encodeVariation(t, "puback-0"))
	assert.Equal(t, []byte{0x40, 0x02, 0x3F, 0xFF}, encodeVariation(t, "puback-1"))
	assert.Equal(t, []byte{0x62, 0x02, 0xBF, 0xFD}, encodeVariation(t, "pubrel-3"))
	assert.Equal(t, []byte{0xE0, 0x00}, encodeVariation(t, "disconnect"))
	assert.Equal(t, []byte{0x90, 0x02, 0x00, 0x01}, encodeVariation(t, "suback-01"))
	assert.Equal(t, []byte{0x82, 0x02, 0x00, 0x01}, encodeVariation(t, "subscribe-01"))
	assert.Equal(t, []byte{0xA2, 0x05, 0x00, 0x02, 0x00, 0x01, '#'}, encodeVariation(t, "unsubscribe-02"))

	assert.Equal(t, append([]byte{0x30, 0x07, 0x00, 0x05}, "topic"...), encodeVariation(t, "publish-01"))
	assert.Equal(t, append([]byte{0x38, 0x07, 0x00, 0x05}, "topic"...), encodeVariation(t, "publish-02"))
	assert.Equal(t, append(append([]byte{0x3A, 0x09, 0x00, 0x05}, "topic"...), 0x00, 0x01), encodeVariation(t, "publish-03"))
	assert.Equal(t, append(append([]byte{0x3C, 0x09, 0x00, 0x05}, "topic"...), 0x00, 0x01), encodeVariation(t, "publish-04"))
}

func TestCatalogConnectProgression(t *testing.T) {
	first := encodeVariation(t, "connect-01")
	assert.Equal(t, append([]byte{0x10, 0x15, 0x00, 0x04, 'M', 'Q', 'T', 'T', 0x04, 0x00, 0x00, 0x00, 0x00, 0x09}, "client-id"...), first)

	second := encodeVariation(t, "connect-02")
	assert.Equal(t, []byte{0x03, 0xE8}, second[10:12])

	// user name, will retain, will QoS 2, will, clean session
	last := encodeVariation(t, "connect-08")
	assert.Equal(t, byte(0xB6), last[9])

	v, ok := Lookup("connect-08")
	require.True(t, ok)
	c := v.Packet.(*packet.Connect)
	assert.Equal(t, "other client id", c.ClientID())
	require.NotNil(t, c.Will())
	assert.Equal(t, "topic", c.Will().Topic.String())
	assert.Empty(t, c.Will().Message)
	_, hasPassword := c.Password()
	assert.False(t, hasPassword)
}

func TestCatalogLongPayload(t *testing.T) {
	v, ok := Lookup("publish-05")
	require.True(t, ok)
	p := v.Packet.(*packet.Publish)

	assert.Equal(t, LoremPayload, p.Payload())
	assert.True(t, bytes.Contains(p.Payload(), []byte("sed do\n        eiusmod")))
	assert.Equal(t, packet.Level2(1), p.QoS())
	assert.True(t, p.Dup())

	data := encodeVariation(t, "publish-05")
	h, n, err := packet.DecodeFixedHeader(data)
	require.NoError(t, err)
	assert.Equal(t, 3, n, "payload needs a two byte remaining length")
	assert.Equal(t, len(data)-n, int(h.RemainingLength))
}

func TestLookupMissing(t *testing.T) {
	_, ok := Lookup("connect-99")
	assert.False(t, ok)
}
