package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolveDate_Formats(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"2023-09-24", date(2023, time.September, 24)},
		{"2023-9-4", date(2023, time.September, 4)},
		{"2023-09-24 00:00:00", date(2023, time.September, 24)},
		{"9/24/2023", date(2023, time.September, 24)},
		{"24/9/2023", date(2023, time.September, 24)},
		{"24-09-2023", date(2023, time.September, 24)},
		{"2023/09/24", date(2023, time.September, 24)},
		{"September 24, 2023", date(2023, time.September, 24)},
		{"Sep 24, 2023", date(2023, time.September, 24)},
		{"24 September 2023", date(2023, time.September, 24)},
		{"24 Sep 2023", date(2023, time.September, 24)},
		{"  2023-09-24  ", date(2023, time.September, 24)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ResolveDate(tt.input)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestResolveDate_SeptAbbreviation(t *testing.T) {
	for _, input := range []string{"Sept 24, 2023", "SEPT 24, 2023", "sept 24, 2023", "24 Sept 2023"} {
		got, err := ResolveDate(input)
		require.NoError(t, err, input)
		require.Equal(t, date(2023, time.September, 24), got, input)
	}

	want, err := ResolveDate("SEP 24, 2023")
	require.NoError(t, err)
	got, err := ResolveDate("Sept 24, 2023")
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestNormalizeMonthAbbrev(t *testing.T) {
	require.Equal(t, "SEP 24, 2023", NormalizeMonthAbbrev("Sept 24, 2023"))
	require.Equal(t, "September 24, 2023", NormalizeMonthAbbrev("September 24, 2023"))
	require.Equal(t, "24 SEP 2023", NormalizeMonthAbbrev("24 sept 2023"))
}

// Inputs valid under more than one layout resolve to the first layout that
// accepts them.
func TestResolveDate_AmbiguousUsesLayoutOrder(t *testing.T) {
	got, err := ResolveDate("01/02/2024")
	require.NoError(t, err)
	require.Equal(t, date(2024, time.January, 2), got)

	got, err = ResolveDate("01-02-2024")
	require.NoError(t, err)
	require.Equal(t, date(2024, time.February, 1), got)

	// Only the day-first reading is valid here.
	got, err = ResolveDate("13/02/2024")
	require.NoError(t, err)
	require.Equal(t, date(2024, time.February, 13), got)
}

func TestResolveDate_TimeValue(t *testing.T) {
	in := time.Date(2023, time.September, 24, 15, 30, 0, 0, time.UTC)
	got, err := ResolveDate(in)
	require.NoError(t, err)
	require.Equal(t, date(2023, time.September, 24), got)

	got, err = ResolveDate(&in)
	require.NoError(t, err)
	require.Equal(t, date(2023, time.September, 24), got)
}

func TestResolveDate_Invalid(t *testing.T) {
	for _, input := range []any{"not-a-date", "", "2023-13-45", 45193.0, nil, (*time.Time)(nil)} {
		_, err := ResolveDate(input)
		var dateErr *DateFormatError
		require.ErrorAs(t, err, &dateErr, "input %v", input)
	}
}
