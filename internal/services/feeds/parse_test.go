package feeds

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{input: "125", want: 125},
		{input: "  42  ", want: 42},
		{input: "+7", want: 7},
		{input: "12:34", want: 12},
		{input: "01:02:03", want: 1},
		{input: "3600.5", want: 3600},
		{input: "60s", want: 60},
		{input: "0x1A", want: 26},
		{input: "-0", want: 0},
		{input: "-5", want: 0, wantErr: true},
		{input: "abc", want: 0, wantErr: true},
		{input: "", want: 0, wantErr: true},
		{input: ":30", want: 0, wantErr: true},
		{input: "99999999999999999999999", want: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDuration(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePubDate(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{input: "Mon, 01 Jan 2024 00:00:00 GMT", want: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{input: "Mon, 01 Jan 2024 00:00:00 UT", want: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{input: "Mon, 01 Jan 2024 00:00:00 pst", want: time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)},
		{input: "Mon, 01 Jan 2024 10:15 +0100", want: time.Date(2024, 1, 1, 9, 15, 0, 0, time.UTC)},
		{input: "01 Jan 2024 00:00:00 +0000", want: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{input: "Monday, 01 Jan 2024 00:00:00 +0000", want: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{input: "Mon, 01 Jan 2024 00:00:00", want: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{input: "2024-06-01T12:30:00.250+02:00", want: time.Date(2024, 6, 1, 10, 30, 0, 250e6, time.UTC)},
		{input: "2024-06-01", want: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
		{input: "Mon, 01 Jul 2024 10:00:00 BST", want: time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)},
		{input: "Mon, 01 Jan 2024 10:00:00 CET", want: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)},
		{input: "Tue, 02 Jul 2024 08:00:00 AEST", want: time.Date(2024, 7, 1, 22, 0, 0, 0, time.UTC)},
		{input: "Mon, 01 Jan 2024 10:00:00 NZDT", want: time.Date(2023, 12, 31, 21, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePubDate(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}

	for _, bad := range []string{"", "   ", "not a date", "yesterday", "Mon, 01 Jul 2024 10:00:00 XYZT", "2024-07-01 10:00:00 QQT"} {
		_, err := ParsePubDate(bad)
		assert.Error(t, err, bad)
	}
}

func TestFormatReleasedAt(t *testing.T) {
	local := time.FixedZone("CET", 3600)
	assert.Equal(t, "2024-01-01T00:00:00.000Z", FormatReleasedAt(time.Date(2024, 1, 1, 1, 0, 0, 0, local)))
	assert.Equal(t, "2024-01-01T00:00:00.123Z", FormatReleasedAt(time.Date(2024, 1, 1, 0, 0, 0, 123456789, time.UTC)))
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "0m 0s"},
		{59, "0m 59s"},
		{125, "2m 5s"},
		{3600, "1h 0m 0s"},
		{3725, "1h 2m 5s"},
		{-10, "0m 0s"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.seconds))
	}
}
