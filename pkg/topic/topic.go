// Package topic validates MQTT topic names and topic filters according to
// MQTT 3.1.1 Section 4.7. Matching names against filters is left to the
// subscription layer.
package topic

import (
	"strings"
	"unicode/utf8"
)

const (
	Separator      = '/'
	MultiWildcard  = '#'
	SingleWildcard = '+'

	// SysPrefix starts server-internal topics such as $SYS/.
	SysPrefix = '$'

	// MaxLength is the longest topic a 2-byte length prefix can carry.
	MaxLength = 65535
)

// ValidateName checks a topic name as used in PUBLISH and the CONNECT will.
func ValidateName(name string) error {
	return validate(name, false)
}

// ValidateFilter checks a topic filter as used in SUBSCRIBE and UNSUBSCRIBE.
func ValidateFilter(filter string) error {
	return validate(filter, true)
}

// validate walks s once, tracking the start of the current level so that
// wildcards can be checked against their level boundaries.
func validate(s string, wildcards bool) error {
	switch {
	case s == "":
		return ErrEmptyTopic
	case len(s) > MaxLength:
		return ErrTopicTooLong
	case !utf8.ValidString(s):
		return ErrInvalidUTF8
	}

	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 0:
			return ErrNullCharacter
		case Separator:
			start = i + 1
		case MultiWildcard:
			if !wildcards {
				return ErrWildcardInName
			}
			if i != start || i != len(s)-1 {
				return ErrInvalidMultiWildcard
			}
		case SingleWildcard:
			if !wildcards {
				return ErrWildcardInName
			}
			if i != start || (i+1 < len(s) && s[i+1] != Separator) {
				return ErrInvalidSingleWildcard
			}
		}
	}
	return nil
}

// Levels splits a topic into its levels. Empty levels are kept.
func Levels(topic string) []string {
	return strings.Split(topic, string(Separator))
}

// HasWildcard reports whether filter contains '#' or '+'.
func HasWildcard(filter string) bool {
	return strings.ContainsAny(filter, "#+")
}

// IsSysTopic reports whether name starts with '$'.
func IsSysTopic(name string) bool {
	return strings.HasPrefix(name, string(SysPrefix))
}
