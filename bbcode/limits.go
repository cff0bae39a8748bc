package bbcode

import "fmt"

const (
	DefaultMaxTagLen    = 512  // Default max number of characters between "[" and "]" of a single tag.
	DefaultMaxLookahead = 8192 // Default max number of characters scanned ahead for a closing tag.
	DefaultMaxWarnings  = 256  // Default capacity of the [Warnings] created by [New].
)

// Limits define upper bounds used during parsing to prevent excessive scanning
// on hostile inputs.
type Limits struct {

	// MaxTagLen defines the maximum number of characters a single tag, brackets included, may span.
	//
	// If "]" is not found within this limit, the bracket is treated as plain text and
	// [IssueTagTooLong] is recorded. Zero means no limit.
	MaxTagLen int

	// MaxLookahead defines how many characters after an opening tag are scanned while
	// looking for its closing tag. When the limit is reached, the tag is accepted as
	// implicitly closed. Zero means no limit.
	MaxLookahead int
}

// DefaultLimits returns the Limits used by [New] when none are provided.
func DefaultLimits() Limits {
	return Limits{
		MaxTagLen:    DefaultMaxTagLen,
		MaxLookahead: DefaultMaxLookahead,
	}
}

// Validate checks if the limits are not negative.
// Returns *[Error] if at least one of the values is negative.
func (l Limits) Validate() error {
	values := [2]int{
		l.MaxTagLen,
		l.MaxLookahead,
	}

	names := [2]string{
		"MaxTagLen",
		"MaxLookahead",
	}

	for i := range values {
		if values[i] < 0 {
			err := fmt.Errorf("%s must be >= 0, got %d", names[i], values[i])
			return NewError(IssueNegativeLimit, err)
		}
	}

	return nil
}
