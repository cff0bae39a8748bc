package bbcode

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustNewWarnings(t *testing.T, policy WarningOverflowPolicy, cap int) Warnings {
	t.Helper()
	w, err := NewWarnings(policy, cap)
	require.NoError(t, err)
	return w
}

func unknownTagAt(pos int) Warning {
	return Warning{
		Issue: IssueUnknownTag,
		Pos:   pos,
	}
}

func TestNewWarnings_NegativeCap(t *testing.T) {
	_, err := NewWarnings(WarnOverflowDrop, -1)
	require.Error(t, err)

	var e *Error
	require.True(t, errors.As(err, &e), "expected *Error, got %T (%v)", err, err)
	require.Equal(t, IssueNegativeWarningsCap, e.Issue)
}

func TestWarnings_Policies(t *testing.T) {
	testCases := []struct {
		name         string
		policy       WarningOverflowPolicy
		cap          int
		adds         []int
		wantPos      []int
		wantOverflow bool
		wantDropped  int
		wantFirst    int
		wantMarker   bool
	}{
		{
			name:    "no_rec_records_nothing",
			policy:  WarnOverflowNoRec,
			cap:     3,
			adds:    []int{0, 1},
			wantPos: nil,
		},
		{
			name:    "no_cap_ignores_cap",
			policy:  WarnOverflowNoCap,
			cap:     1,
			adds:    []int{0, 1, 2, 3},
			wantPos: []int{0, 1, 2, 3},
		},
		{
			name:         "drop_keeps_first_n",
			policy:       WarnOverflowDrop,
			cap:          2,
			adds:         []int{0, 1, 2, 3},
			wantPos:      []int{0, 1},
			wantOverflow: true,
			wantFirst:    2,
		},
		{
			name:         "trunc_reserves_marker_slot",
			policy:       WarnOverflowTrunc,
			cap:          3,
			adds:         []int{0, 1, 2, 3, 4},
			wantPos:      []int{0, 1, 2},
			wantOverflow: true,
			wantDropped:  3,
			wantFirst:    2,
			wantMarker:   true,
		},
		{
			name:         "trunc_cap_zero_stores_nothing",
			policy:       WarnOverflowTrunc,
			cap:          0,
			adds:         []int{7, 8},
			wantPos:      nil,
			wantOverflow: true,
			wantDropped:  2,
			wantFirst:    7,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := mustNewWarnings(t, tc.policy, tc.cap)
			for _, pos := range tc.adds {
				w.Add(unknownTagAt(pos))
			}

			var got []int
			for _, item := range w.List() {
				got = append(got, item.Pos)
			}

			require.Equal(t, tc.wantPos, got)
			require.Equal(t, tc.wantOverflow, w.IsOverflow())
			require.Equal(t, tc.wantDropped, w.DroppedCount())
			require.Equal(t, tc.wantFirst, w.FirstDropPos())

			if tc.wantMarker {
				last := w.List()[len(w.List())-1]
				require.Equal(t, IssueWarningsTruncated, last.Issue)
			}
		})
	}
}

func TestWarnings_Reset(t *testing.T) {
	w := mustNewWarnings(t, WarnOverflowTrunc, 2)
	w.Add(unknownTagAt(0))
	w.Add(unknownTagAt(1))
	w.Add(unknownTagAt(2))
	require.True(t, w.IsOverflow())

	w.Reset()
	require.False(t, w.IsOverflow())
	require.Equal(t, 0, w.DroppedCount())
	require.Empty(t, w.List())

	// the policy survives the reset
	w.Add(unknownTagAt(5))
	w.Add(unknownTagAt(6))
	require.Len(t, w.List(), 2)
	require.Equal(t, IssueWarningsTruncated, w.List()[1].Issue)
}

func TestWarning_JSON(t *testing.T) {
	b, err := json.Marshal(Warning{Issue: IssueMisnestedTag, Pos: 4, Description: "d"})
	require.NoError(t, err)
	require.JSONEq(t, `{"issue":"misnested_tag","pos":4,"description":"d"}`, string(b))
}

func TestLimits_Validate(t *testing.T) {
	require.NoError(t, DefaultLimits().Validate())
	require.NoError(t, Limits{}.Validate())

	err := Limits{MaxTagLen: 1, MaxLookahead: -3}.Validate()

	var e *Error
	require.ErrorAs(t, err, &e)
	require.Equal(t, IssueNegativeLimit, e.Issue)
	require.Contains(t, err.Error(), "MaxLookahead")
}

func TestIssue_String(t *testing.T) {
	require.Equal(t, "out_of_range", IssueOutOfRange.String())
	require.Equal(t, "invalid_color", IssueInvalidColor.String())
	require.Equal(t, "issue(999)", Issue(999).String())
}
