package packet

import (
	"fmt"

	"github.com/bromq-dev/mqttcodec/pkg/topic"
)

// TopicName is a validated PUBLISH destination. It never contains wildcards.
// The zero value is empty and fails to encode.
type TopicName struct {
	name      string
	unchecked bool
}

// NewTopicName validates name and returns it as a TopicName.
func NewTopicName(name string) (TopicName, error) {
	if err := topic.ValidateName(name); err != nil {
		return TopicName{}, fmt.Errorf("%w %q: %w", ErrInvalidTopic, name, err)
	}
	return TopicName{name: name}, nil
}

// MustTopicName is like NewTopicName but panics on invalid input.
// It is meant for literals known to be valid.
func MustTopicName(name string) TopicName {
	t, err := NewTopicName(name)
	if err != nil {
		panic(err)
	}
	return t
}

// TopicNameUnchecked wraps name without validation. It exists to build
// deliberately malformed packets for interoperability testing.
func TopicNameUnchecked(name string) TopicName {
	return TopicName{name: name, unchecked: true}
}

// String returns the topic name.
func (t TopicName) String() string { return t.name }

// IsSys reports whether the name is a $-prefixed system topic.
func (t TopicName) IsSys() bool { return topic.IsSysTopic(t.name) }

// check rejects the zero value, which no validating constructor returns.
func (t TopicName) check() error {
	if t.name == "" && !t.unchecked {
		return fmt.Errorf("%w: empty topic name", ErrInvalidTopic)
	}
	return nil
}

// TopicFilter is a validated subscription pattern which may contain wildcards.
// The zero value is empty and fails to encode.
type TopicFilter struct {
	filter    string
	unchecked bool
}

// NewTopicFilter validates filter and returns it as a TopicFilter.
func NewTopicFilter(filter string) (TopicFilter, error) {
	if err := topic.ValidateFilter(filter); err != nil {
		return TopicFilter{}, fmt.Errorf("%w %q: %w", ErrInvalidTopic, filter, err)
	}
	return TopicFilter{filter: filter}, nil
}

// MustTopicFilter is like NewTopicFilter but panics on invalid input.
func MustTopicFilter(filter string) TopicFilter {
	t, err := NewTopicFilter(filter)
	if err != nil {
		panic(err)
	}
	return t
}

// TopicFilterUnchecked wraps filter without validation.
func TopicFilterUnchecked(filter string) TopicFilter {
	return TopicFilter{filter: filter, unchecked: true}
}

// String returns the topic filter.
func (t TopicFilter) String() string { return t.filter }

// HasWildcard reports whether the filter contains + or #.
func (t TopicFilter) HasWildcard() bool { return topic.HasWildcard(t.filter) }

func (t TopicFilter) check() error {
	if t.filter == "" && !t.unchecked {
		return fmt.Errorf("%w: empty topic filter", ErrInvalidTopic)
	}
	return nil
}

func readTopicName(r *bodyReader) (TopicName, error) {
	s, err := r.readString()
	if err != nil {
		return TopicName{}, err
	}
	t, err := NewTopicName(s)
	if err != nil {
		return TopicName{}, malformed(err)
	}
	return t, nil
}

func readTopicFilter(r *bodyReader) (TopicFilter, error) {
	s, err := r.readString()
	if err != nil {
		return TopicFilter{}, err
	}
	t, err := NewTopicFilter(s)
	if err != nil {
		return TopicFilter{}, malformed(err)
	}
	return t, nil
}
