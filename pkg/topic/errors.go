package topic

import "errors"

// Grammar violations reported by ValidateName and ValidateFilter.
var (
	ErrEmptyTopic   = errors.New("topic is empty")
	ErrTopicTooLong = errors.New("topic longer than 65535 bytes")
	ErrInvalidUTF8  = errors.New("topic is not valid UTF-8")

	// ErrNullCharacter is returned for U+0000 anywhere in the topic.
	ErrNullCharacter = errors.New("topic contains U+0000")

	// ErrWildcardInName is returned when a topic name contains '#' or '+'.
	// Only filters may carry wildcards.
	ErrWildcardInName = errors.New("wildcard in topic name")

	// ErrInvalidMultiWildcard is returned when '#' shares a level with other
	// characters or is followed by another level.
	ErrInvalidMultiWildcard = errors.New("'#' must be the whole final level")

	// ErrInvalidSingleWildcard is returned when '+' shares a level with
	// other characters.
	ErrInvalidSingleWildcard = errors.New("'+' must be a whole level")
)
