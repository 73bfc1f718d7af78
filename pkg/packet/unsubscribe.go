package packet

import "fmt"

// Unsubscribe represents an MQTT UNSUBSCRIBE packet.
// MQTT 3.1.1 Section 3.10
type Unsubscribe struct {
	PacketID uint16
	// Filters is nil when empty, as for Subscribe.Subscriptions.
	Filters []TopicFilter
}

// NewUnsubscribe creates a new UNSUBSCRIBE packet.
func NewUnsubscribe(id uint16, filters []TopicFilter) *Unsubscribe {
	if len(filters) == 0 {
		filters = nil
	}
	return &Unsubscribe{PacketID: id, Filters: filters}
}

// Type returns TypeUnsubscribe.
func (u *Unsubscribe) Type() Type {
	return TypeUnsubscribe
}

// UNSUBSCRIBE has reserved flags 0010.
func (u *Unsubscribe) flags() byte { return 0x02 }

func (u *Unsubscribe) encodeBody(w *bodyWriter) error {
	w.putUint16(u.PacketID)
	for i, filter := range u.Filters {
		if err := filter.check(); err != nil {
			return fmt.Errorf("topic filter %d: %w", i, err)
		}
		if err := w.putString(filter.String()); err != nil {
			return fmt.Errorf("topic filter %d: %w", i, err)
		}
	}
	return nil
}

func decodeUnsubscribe(r *bodyReader, _ byte) (Packet, error) {
	id, err := r.readUint16()
	if err != nil {
		return nil, err
	}
	u := &Unsubscribe{PacketID: id}

	for r.Len() > 0 {
		filter, err := readTopicFilter(r)
		if err != nil {
			return nil, err
		}
		u.Filters = append(u.Filters, filter)
	}

	return u, nil
}
