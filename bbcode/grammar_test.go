package bbcode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseTag(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  tagToken
	}{
		{
			name:  "plain",
			input: "[b]",
			want:  tagToken{name: "b", start: 0, end: 3},
		},
		{
			name:  "closing",
			input: "[/b]",
			want:  tagToken{name: "b", closing: true, start: 0, end: 4},
		},
		{
			name:  "data",
			input: "[color=red]text",
			want:  tagToken{name: "color", data: "red", hasData: true, start: 0, end: 11},
		},
		{
			name:  "empty_data",
			input: "[url=]",
			want:  tagToken{name: "url", data: "", hasData: true, start: 0, end: 6},
		},
		{
			name:  "brace_data",
			input: "[x={a:{b:1}}]",
			want:  tagToken{name: "x", data: "{a:{b:1}}", hasData: true, start: 0, end: 13},
		},
		{
			name:  "brace_data_with_spaces_and_brackets",
			input: "[x={ \"a\": \"]\" }]",
			want:  tagToken{name: "x", data: "{ \"a\": \"]\" }", hasData: true, start: 0, end: 16},
		},
		{
			name:  "options",
			input: "[img width=32 height=16]",
			want: tagToken{
				name:    "img",
				options: Options{{Key: "width", Value: "32"}, {Key: "height", Value: "16"}},
				start:   0,
				end:     24,
			},
		},
		{
			name:  "data_and_options",
			input: "[font=res://a.ttf  size=20\tflag]",
			want: tagToken{
				name:    "font",
				data:    "res://a.ttf",
				hasData: true,
				options: Options{{Key: "size", Value: "20"}, {Key: "flag"}},
				start:   0,
				end:     32,
			},
		},
		{
			name:  "brace_option",
			input: "[x meta={k: {v}} y=1]",
			want: tagToken{
				name:    "x",
				options: Options{{Key: "meta", Value: "{k: {v}}"}, {Key: "y", Value: "1"}},
				start:   0,
				end:     21,
			},
		},
		{
			name:  "trailing_space",
			input: "[b ]",
			want:  tagToken{name: "b", start: 0, end: 4},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sc := NewScanner([]rune(tc.input))

			tok, err := parseTag(sc, DefaultLimits())
			require.NoError(t, err)
			require.Equal(t, tc.want, tok)
			require.Equal(t, tc.want.end, sc.Current())
		})
	}
}

func TestParseTag_Failures(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		limits  Limits
		wantErr error
		issue   Issue
	}{
		{name: "empty", input: "[]", wantErr: ErrMalformedTag, issue: IssueMalformedTag},
		{name: "space_before_name", input: "[ b]", wantErr: ErrMalformedTag, issue: IssueMalformedTag},
		{name: "closing_without_name", input: "[/]", wantErr: ErrMalformedTag, issue: IssueMalformedTag},
		{name: "closing_with_option", input: "[/b x]", wantErr: ErrMalformedTag, issue: IssueMalformedTag},
		{name: "bad_option_key", input: "[b !x]", wantErr: ErrMalformedTag, issue: IssueMalformedTag},
		{name: "bad_char_after_key", input: "[b x!]", wantErr: ErrMalformedTag, issue: IssueMalformedTag},
		{name: "junk_after_brace", input: "[x={a}b]", wantErr: ErrMalformedTag, issue: IssueMalformedTag},
		{name: "unterminated_name", input: "[bold", wantErr: ErrUnterminatedTag, issue: IssueUnterminatedTag},
		{name: "unterminated_bracket", input: "[", wantErr: ErrUnterminatedTag, issue: IssueUnterminatedTag},
		{name: "unterminated_options", input: "[img width=3", wantErr: ErrUnterminatedTag, issue: IssueUnterminatedTag},
		{name: "unterminated_brace", input: "[x={a:{b:1}]", wantErr: ErrUnterminatedTag, issue: IssueUnterminatedTag},
		{
			name:    "too_long",
			input:   "[b a=1 b=2 c=3 d=4] tail",
			limits:  Limits{MaxTagLen: 8},
			wantErr: ErrMalformedTag,
			issue:   IssueTagTooLong,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sc := NewScanner([]rune(tc.input))

			_, err := parseTag(sc, tc.limits)
			require.ErrorIs(t, err, tc.wantErr)

			var e *Error
			require.ErrorAs(t, err, &e)
			require.Equal(t, tc.issue, e.Issue)

			// the scanner bound is restored after a length-limited scan
			require.Equal(t, len([]rune(tc.input)), sc.End())
		})
	}
}

func TestParseTag_LimitDoesNotCutShortTags(t *testing.T) {
	sc := NewScanner([]rune("[b] and more text"))

	tok, err := parseTag(sc, Limits{MaxTagLen: 3})
	require.NoError(t, err)
	require.Equal(t, "b", tok.name)
	require.Equal(t, 3, sc.Current())
	require.Equal(t, 17, sc.End())
}
