package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		input   string
		want    TimeString
		wantErr error
	}{
		{input: "09:30", want: "09:30"},
		{input: "09:30:00", want: "09:30"},
		{input: "24:00", want: "24:00"},
		{input: "9:30", wantErr: ErrInvalidTimeString},
		{input: "09:60", wantErr: ErrInvalidTimeString},
		{input: "ab:cd", wantErr: ErrInvalidTimeString},
		{input: "25:00", wantErr: ErrTimeOutOfDay},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeStringArithmetic(t *testing.T) {
	start := TimeString("10:45")

	end, err := start.AddMinutes(90)
	require.NoError(t, err)
	assert.Equal(t, TimeString("12:15"), end)
	assert.True(t, start.IsBefore(end))
	assert.True(t, end.IsAfter(start))

	_, err = TimeString("23:30").AddMinutes(60)
	assert.ErrorIs(t, err, ErrTimeOutOfDay)

	minutes, err := end.Minutes()
	require.NoError(t, err)
	assert.Equal(t, 735, minutes)

	assert.Equal(t, TimeString("08:05"), NewTimeString(time.Date(2026, 1, 1, 8, 5, 59, 0, time.UTC)))
}

func TestTimeStringScan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan([]byte("14:00:00")))
	assert.Equal(t, TimeString("14:00"), ts)

	require.NoError(t, ts.Scan("07:15:00"))
	assert.Equal(t, TimeString("07:15"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(42))

	value, err := TimeString("10:00").Value()
	require.NoError(t, err)
	assert.Equal(t, "10:00", value)
}
