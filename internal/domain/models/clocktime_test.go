package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClockTime(t *testing.T) {
	tests := []struct {
		in      string
		want    ClockTime
		wantErr bool
	}{
		{in: "07:30", want: NewClockTime(7, 30)},
		{in: " 23:59 ", want: NewClockTime(23, 59)},
		{in: "08:15:45", want: NewClockTime(8, 15)},
		{in: "00:00", want: 0},
		{in: "24:00", wantErr: true},
		{in: "7.30", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClockTime(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClockTime_MinutesUntil(t *testing.T) {
	assert.Equal(t, 60, NewClockTime(7, 0).MinutesUntil(NewClockTime(8, 0)))
	assert.Equal(t, 0, NewClockTime(7, 0).MinutesUntil(NewClockTime(7, 0)))
	// 23:00 -> 01:00 crosses midnight
	assert.Equal(t, 120, NewClockTime(23, 0).MinutesUntil(NewClockTime(1, 0)))
}

func TestClockTime_JSON(t *testing.T) {
	data, err := json.Marshal(NewClockTime(9, 5))
	require.NoError(t, err)
	assert.Equal(t, `"09:05"`, string(data))

	var c ClockTime
	require.NoError(t, json.Unmarshal([]byte(`"18:45:00"`), &c))
	assert.Equal(t, NewClockTime(18, 45), c)

	assert.Error(t, json.Unmarshal([]byte(`1845`), &c))
	assert.Error(t, json.Unmarshal([]byte(`"later"`), &c))
}

func TestClockTime_Microseconds(t *testing.T) {
	c := NewClockTime(13, 20)
	assert.Equal(t, c, ClockTimeFromMicroseconds(c.Microseconds()))
	assert.Equal(t, int64(13*3600+20*60)*1_000_000, c.Microseconds())
	assert.True(t, c.Valid())
	assert.False(t, ClockTime(24*60).Valid())
}
