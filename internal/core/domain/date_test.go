package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate_Layouts(t *testing.T) {
	for _, in := range []string{"2025-03-09", "2025-03-09T00:00:00", "2025-03-09 14:22:01", "09/03/2025", " 2025-03-09 "} {
		got, err := ParseDate(in)
		require.NoError(t, err, in)
		assert.Equal(t, "2025-03-09", got.String(), in)
	}

	_, err := ParseDate("")
	assert.Error(t, err)
	_, err = ParseDate("not a date")
	assert.Error(t, err)
}

func TestDate_AddMonthsClampsToMonthEnd(t *testing.T) {
	tests := []struct {
		from   string
		months int
		want   string
	}{
		{"2025-01-31", 1, "2025-02-28"},
		{"2024-01-31", 1, "2024-02-29"},
		{"2025-01-15", 2, "2025-03-15"},
		{"2025-11-30", 3, "2026-02-28"},
		{"2025-03-31", -1, "2025-02-28"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, MustParseDate(tc.from).AddMonths(tc.months).String(), "%s %+d", tc.from, tc.months)
	}
}

func TestDate_Compare(t *testing.T) {
	a, b := MustParseDate("2025-03-01"), MustParseDate("2025-03-02")
	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.True(t, a.Equal(NewDate(2025, time.March, 1)))
	assert.Equal(t, 0, a.Compare(a))
}

func TestDate_JSON(t *testing.T) {
	type wrapper struct {
		Due  Date  `json:"due"`
		Opt  *Date `json:"opt"`
		Zero Date  `json:"zero"`
	}

	out, err := json.Marshal(wrapper{Due: MustParseDate("2025-03-09")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"due":"2025-03-09","opt":null,"zero":null}`, string(out))

	var w wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"due":"2025-03-09T00:00:00","opt":"garbage","zero":17}`), &w))
	assert.Equal(t, "2025-03-09", w.Due.String())
	require.NotNil(t, w.Opt)
	assert.False(t, w.Opt.Valid(), "unparseable values decode to the zero date")
	assert.False(t, w.Zero.Valid())
}

func TestTimestamp_JSON(t *testing.T) {
	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`"2025-03-09 14:22:01"`), &ts))
	assert.Equal(t, 14, ts.Hour())

	at := time.Date(2025, 3, 9, 14, 22, 1, 0, time.UTC)
	out, err := json.Marshal(NewTimestamp(at))
	require.NoError(t, err)
	assert.Equal(t, `"2025-03-09T14:22:01Z"`, string(out))

	out, err = json.Marshal(Timestamp{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}
