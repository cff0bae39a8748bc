package bbcode

import "strconv"

// Issue defines types of problems we might encounter while registering tags or parsing the markup.
type Issue int

const (
	// IssueOutOfRange means the scanner was asked to read outside of the current pass range.
	// It signals a broken invariant inside the parser, and the current pass is truncated.
	IssueOutOfRange Issue = iota

	// IssueDuplicateRegistration occurs when the tag name is already registered either as a constructor
	// or as a conversion.
	IssueDuplicateRegistration

	// IssueUnknownClass occurs when [Registry.RegisterClass] gets a class name which doesn't match any [Kind].
	IssueUnknownClass

	// IssueMalformedTag means the bracket does not start valid tag syntax, e.g. "[ b]" or "[b x!y]".
	// The bracket is treated as a plain text.
	IssueMalformedTag

	// IssueUnterminatedTag means the tag syntax was cut by the end of the input. The rest of the input
	// is treated as a plain text.
	IssueUnterminatedTag

	// IssueTagTooLong means the closing "]" was not found within [Limits.MaxTagLen].
	IssueTagTooLong

	// IssueUnknownTag means the tag is well-formed, but nothing in the [Registry] resolved it.
	IssueUnknownTag

	// IssueMismatchedCloseTag occurs when the closing tag does not name the currently open item.
	IssueMismatchedCloseTag

	// IssueMisnestedTag occurs when the lookahead finds the closing tag of an enclosing item
	// before the closing tag of the candidate, like the "[b]" in "[i][b]x[/i][/b]".
	IssueMisnestedTag

	// IssueUnclosedGreedyTag occurs when a greedy tag has no closing tag, and is handled as a regular one.
	IssueUnclosedGreedyTag

	// IssueHandlerFailed occurs when a registered [Handler] returns an error. The next handler is tried.
	IssueHandlerFailed

	// IssueResourceNotLoaded occurs when a constructor could not load the font or the texture referenced by the tag.
	IssueResourceNotLoaded

	// IssueEmptyStack occurs when the pop is requested while no item is open.
	IssueEmptyStack

	// IssueReentrantParse occurs when a parse is requested while another parse pass of the same [Parser] is running.
	IssueReentrantParse

	// IssueWarningsTruncated occurs when there are too many Warnings recorded.
	IssueWarningsTruncated

	// IssueNegativeWarningsCap reports an invalid (negative) warnings capacity.
	IssueNegativeWarningsCap

	// IssueNegativeLimit occurs during configuration when any value in [Limits] is negative.
	IssueNegativeLimit

	// IssueInvalidColor occurs when the color tag data cannot be parsed. The default color is used.
	IssueInvalidColor
)

var issueNames = [...]string{
	IssueOutOfRange:            "out_of_range",
	IssueDuplicateRegistration: "duplicate_registration",
	IssueUnknownClass:          "unknown_class",
	IssueMalformedTag:          "malformed_tag",
	IssueUnterminatedTag:       "unterminated_tag",
	IssueTagTooLong:            "tag_too_long",
	IssueUnknownTag:            "unknown_tag",
	IssueMismatchedCloseTag:    "mismatched_close_tag",
	IssueMisnestedTag:          "misnested_tag",
	IssueUnclosedGreedyTag:     "unclosed_greedy_tag",
	IssueHandlerFailed:         "handler_failed",
	IssueResourceNotLoaded:     "resource_not_loaded",
	IssueEmptyStack:            "empty_stack",
	IssueReentrantParse:        "reentrant_parse",
	IssueWarningsTruncated:     "warnings_truncated",
	IssueNegativeWarningsCap:   "negative_warnings_cap",
	IssueNegativeLimit:         "negative_limit",
	IssueInvalidColor:          "invalid_color",
}

func (i Issue) String() string {
	if i >= 0 && int(i) < len(issueNames) {
		return issueNames[i]
	}
	return "issue(" + strconv.Itoa(int(i)) + ")"
}

// MarshalText makes the Issue readable in the serialized warnings.
func (i Issue) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}
