// Package fixture builds a catalog of MQTT 3.1.1 packet variations and
// persists their raw encodings for interoperability testing.
//
// Each variation is written as one file (or Redis key) holding exactly the
// bytes of one encoded packet, plus a msgpack manifest describing the set.
package fixture

import (
	"fmt"
	"strings"

	"github.com/bromq-dev/mqttcodec/pkg/packet"
)

// Extension is appended to every variation name to form its file name.
const Extension = ".mqtt"

// idIncrement spaces packet identifiers across the uint16 range.
const idIncrement = 65535 / 4

// LoremPayload is the long publish payload. The embedded newline and
// indentation are part of the fixture bytes.
var LoremPayload = []byte(strings.Repeat("Lorem ipsum dolor sit amet, consectetur adipiscing elit, sed do\n"+
	"        eiusmod tempor incididunt ut labore et dolore magna aliqua.", 10))

// Variation is one named packet in the catalog.
type Variation struct {
	Name   string
	Packet packet.Packet
}

// FileName returns the name the variation is stored under.
func (v Variation) FileName() string {
	return v.Name + Extension
}

// Catalog returns every variation in a stable order, grouped by packet kind.
func Catalog() ([]Variation, error) {
	builders := []func() ([]Variation, error){
		connackVariations,
		connectVariations,
		disconnectVariations,
		pingreqVariations,
		pingrespVariations,
		ackVariations("puback", func(id uint16) packet.Packet { return packet.NewPuback(id) }),
		ackVariations("pubcomp", func(id uint16) packet.Packet { return packet.NewPubcomp(id) }),
		publishVariations,
		ackVariations("pubrec", func(id uint16) packet.Packet { return packet.NewPubrec(id) }),
		ackVariations("pubrel", func(id uint16) packet.Packet { return packet.NewPubrel(id) }),
		subackVariations,
		subscribeVariations,
		ackVariations("unsuback", func(id uint16) packet.Packet { return packet.NewUnsuback(id) }),
		unsubscribeVariations,
	}

	var all []Variation
	for _, build := range builders {
		vs, err := build()
		if err != nil {
			return nil, err
		}
		all = append(all, vs...)
	}
	return all, nil
}

// Lookup returns the variation with the given name.
func Lookup(name string) (Variation, bool) {
	vs, err := Catalog()
	if err != nil {
		return Variation{}, false
	}
	for _, v := range vs {
		if v.Name == name {
			return v, true
		}
	}
	return Variation{}, false
}

func numbered(prefix string, i int) string {
	return fmt.Sprintf("%s-%02d", prefix, i)
}

func connackVariations() ([]Variation, error) {
	acks := []*packet.Connack{
		packet.NewConnack(true, packet.ConnectionAccepted),
		packet.NewConnack(false, packet.ConnectionAccepted),
		packet.NewConnack(false, packet.UnacceptableProtocolVersion),
		packet.NewConnack(false, packet.IdentifierRejected),
		packet.NewConnack(false, packet.ServiceUnavailable),
		packet.NewConnack(false, packet.BadUserNameOrPassword),
		packet.NewConnack(false, packet.NotAuthorized),
		packet.NewConnack(false, packet.ConnectReturnCode(128)),
	}

	vs := make([]Variation, len(acks))
	for i, ack := range acks {
		vs[i] = Variation{Name: numbered("connack", i+1), Packet: ack}
	}
	return vs, nil
}

// connectSteps are applied cumulatively: variation n carries the first n-1 steps.
var connectSteps = []func(c *packet.Connect) error{
	func(c *packet.Connect) error { c.SetKeepAlive(1000); return nil },
	func(c *packet.Connect) error { c.SetUsername("user-name"); return nil },
	func(c *packet.Connect) error {
		t, err := packet.NewTopicName("topic")
		if err != nil {
			return err
		}
		c.SetWill(&t, nil)
		return nil
	},
	func(c *packet.Connect) error { c.SetClientID("other client id"); return nil },
	func(c *packet.Connect) error { return c.SetWillRetain(true) },
	func(c *packet.Connect) error { return c.SetWillQoS(packet.QoS2) },
	func(c *packet.Connect) error { c.SetCleanSession(true); return nil },
}

func connectVariations() ([]Variation, error) {
	vs := make([]Variation, 0, len(connectSteps)+1)
	for n := 0; n <= len(connectSteps); n++ {
		c := packet.NewConnect("client-id")
		for _, step := range connectSteps[:n] {
			if err := step(c); err != nil {
				return nil, fmt.Errorf("connect variation %d: %w", n+1, err)
			}
		}
		vs = append(vs, Variation{Name: numbered("connect", n+1), Packet: c})
	}
	return vs, nil
}

func disconnectVariations() ([]Variation, error) {
	return []Variation{{Name: "disconnect", Packet: &packet.Disconnect{}}}, nil
}

func pingreqVariations() ([]Variation, error) {
	return []Variation{{Name: "pingreq", Packet: &packet.Pingreq{}}}, nil
}

func pingrespVariations() ([]Variation, error) {
	return []Variation{{Name: "pingresp", Packet: &packet.Pingresp{}}}, nil
}

// ackVariations builds prefix-0..prefix-3 with identifiers 0, 16383, 32766, 49149.
func ackVariations(prefix string, build func(id uint16) packet.Packet) func() ([]Variation, error) {
	return func() ([]Variation, error) {
		vs := make([]Variation, 4)
		for i := range vs {
			vs[i] = Variation{
				Name:   fmt.Sprintf("%s-%d", prefix, i),
				Packet: build(uint16(i * idIncrement)),
			}
		}
		return vs, nil
	}
}

var publishSteps = []func(p *packet.Publish){
	func(p *packet.Publish) { p.SetDup(true) },
	func(p *packet.Publish) { p.SetQoS(packet.Level1(1)) },
	func(p *packet.Publish) { p.SetQoS(packet.Level2(1)) },
	func(p *packet.Publish) { p.SetPayload(LoremPayload) },
}

func publishVariations() ([]Variation, error) {
	t, err := packet.NewTopicName("topic")
	if err != nil {
		return nil, err
	}

	vs := make([]Variation, 0, len(publishSteps)+1)
	for n := 0; n <= len(publishSteps); n++ {
		p := packet.NewPublish(t, packet.Level0(), nil)
		for _, step := range publishSteps[:n] {
			step(p)
		}
		vs = append(vs, Variation{Name: numbered("publish", n+1), Packet: p})
	}
	return vs, nil
}

func subackVariations() ([]Variation, error) {
	codes := []packet.SubscribeReturnCode{
		packet.MaximumQoSLevel0,
		packet.MaximumQoSLevel1,
		packet.MaximumQoSLevel2,
		packet.SubscribeFailure,
	}

	vs := make([]Variation, 0, len(codes)+1)
	for n := 0; n <= len(codes); n++ {
		vs = append(vs, Variation{
			Name:   numbered("suback", n+1),
			Packet: packet.NewSuback(uint16(n+1), append([]packet.SubscribeReturnCode(nil), codes[:n]...)),
		})
	}
	return vs, nil
}

type catalogFilter struct {
	filter string
	qos    packet.QoS
}

var catalogFilters = []catalogFilter{
	{"#", packet.QoS0},
	{"topic/filter", packet.QoS1},
	{"topic/+/filter", packet.QoS2},
	{"topic/+/filter/#", packet.QoS2},
}

func subscribeVariations() ([]Variation, error) {
	vs := make([]Variation, 0, len(catalogFilters)+1)
	for n := 0; n <= len(catalogFilters); n++ {
		var subs []packet.Subscription
		for _, f := range catalogFilters[:n] {
			filter, err := packet.NewTopicFilter(f.filter)
			if err != nil {
				return nil, err
			}
			subs = append(subs, packet.Subscription{Filter: filter, QoS: f.qos})
		}
		vs = append(vs, Variation{Name: numbered("subscribe", n+1), Packet: packet.NewSubscribe(uint16(n+1), subs)})
	}
	return vs, nil
}

func unsubscribeVariations() ([]Variation, error) {
	vs := make([]Variation, 0, len(catalogFilters)+1)
	for n := 0; n <= len(catalogFilters); n++ {
		var filters []packet.TopicFilter
		for _, f := range catalogFilters[:n] {
			filter, err := packet.NewTopicFilter(f.filter)
			if err != nil {
				return nil, err
			}
			filters = append(filters, filter)
		}
		vs = append(vs, Variation{Name: numbered("unsubscribe", n+1), Packet: packet.NewUnsubscribe(uint16(n+1), filters)})
	}
	return vs, nil
}
