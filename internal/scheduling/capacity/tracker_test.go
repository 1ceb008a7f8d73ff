package capacity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/pkg/types"
)

const (
	chairs = int64(1)
	sinks  = int64(2)
)

func iv(start, end int) types.Interval {
	return types.MustInterval(start, end)
}

func TestAvailableCapacity(t *testing.T) {
	tracker := NewTracker(
		map[int64]int{chairs: 3, sinks: 1},
		[]Usage{
			{StationTypeID: chairs, Qty: 1, Interval: iv(600, 660)},
			{StationTypeID: chairs, Qty: 1, Interval: iv(630, 690)},
			{StationTypeID: chairs, Qty: 1, Interval: iv(660, 720)},
			{StationTypeID: sinks, Qty: 1, Interval: iv(600, 630)},
		},
	)

	tests := []struct {
		name     string
		typeID   int64
		interval types.Interval
		want     int
	}{
		{"before any booking", chairs, iv(540, 600), 3},
		{"two overlap at 10:30", chairs, iv(600, 720), 1},
		{"touching ends are not double counted", chairs, iv(660, 690), 1},
		{"single booking window", chairs, iv(690, 720), 2},
		{"sink busy", sinks, iv(615, 645), 0},
		{"sink free right after", sinks, iv(630, 660), 1},
		{"unknown type has no capacity", int64(99), iv(600, 660), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tracker.AvailableCapacity(tt.typeID, tt.interval))
		})
	}
}

func TestAvailableCapacityNeverNegative(t *testing.T) {
	// Станцию деактивировали после записи: занятость больше инвентаря
	tracker := NewTracker(map[int64]int{chairs: 1}, []Usage{
		{StationTypeID: chairs, Qty: 2, Interval: iv(600, 660)},
	})
	assert.Equal(t, 0, tracker.AvailableCapacity(chairs, iv(600, 660)))
}

func TestFits(t *testing.T) {
	tracker := NewTracker(map[int64]int{chairs: 2, sinks: 1}, []Usage{
		{StationTypeID: chairs, Qty: 1, Interval: iv(600, 660)},
	})

	assert.True(t, tracker.Fits(nil))
	assert.True(t, tracker.Fits([]Usage{{StationTypeID: chairs, Qty: 1, Interval: iv(600, 660)}}))
	assert.False(t, tracker.Fits([]Usage{
		{StationTypeID: chairs, Qty: 1, Interval: iv(600, 630)},
		{StationTypeID: chairs, Qty: 1, Interval: iv(620, 650)},
	}), "two demands of the same slot plus the booked chair exceed inventory")
	assert.True(t, tracker.Fits([]Usage{
		{StationTypeID: chairs, Qty: 1, Interval: iv(600, 630)},
		{StationTypeID: chairs, Qty: 1, Interval: iv(630, 660)},
	}), "sequential demands reuse the chair")
	assert.False(t, tracker.Fits([]Usage{{StationTypeID: sinks, Qty: 2, Interval: iv(700, 730)}}))
	assert.True(t, tracker.Fits([]Usage{{StationTypeID: sinks, Qty: 0, Interval: iv(700, 730)}}))
}

func TestFromStationUsage(t *testing.T) {
	usage, err := FromStationUsage([]domain.StationUsage{
		{AppointmentID: 1, StationTypeID: sinks, Qty: 1, StartTime: "10:00", EndTime: "10:30"},
	})
	require.NoError(t, err)
	assert.Equal(t, []Usage{{StationTypeID: sinks, Qty: 1, Interval: iv(600, 630)}}, usage)

	_, err = FromStationUsage([]domain.StationUsage{
		{AppointmentID: 2, StationTypeID: sinks, Qty: 1, StartTime: "11:00", EndTime: "10:00"},
	})
	assert.ErrorIs(t, err, types.ErrInvalidInterval)
}
