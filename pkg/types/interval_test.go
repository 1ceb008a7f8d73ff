package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hm(h, m int) int {
	return h*60 + m
}

func TestNewInterval(t *testing.T) {
	tests := []struct {
		name    string
		start   int
		end     int
		wantErr bool
	}{
		{name: "regular", start: hm(9, 0), end: hm(12, 0)},
		{name: "whole day", start: 0, end: MinutesPerDay},
		{name: "empty", start: hm(9, 0), end: hm(9, 0), wantErr: true},
		{name: "reversed", start: hm(12, 0), end: hm(9, 0), wantErr: true},
		{name: "cross midnight", start: hm(23, 0), end: MinutesPerDay + 60, wantErr: true},
		{name: "negative start", start: -10, end: hm(1, 0), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			interval, err := NewInterval(tt.start, tt.end)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInterval)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.start, interval.Start())
			assert.Equal(t, tt.end, interval.End())
			assert.Equal(t, tt.end-tt.start, interval.Minutes())
		})
	}
}

func TestNewIntervalFromTimes(t *testing.T) {
	interval, err := NewIntervalFromTimes("09:30", "24:00")
	require.NoError(t, err)
	assert.Equal(t, "[09:30, 24:00)", interval.String())

	_, err = NewIntervalFromTimes("22:00", "01:00")
	assert.ErrorIs(t, err, ErrInvalidInterval)

	_, err = NewIntervalFromTimes("9:00", "10:00")
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestOverlaps(t *testing.T) {
	a := MustInterval(hm(9, 0), hm(10, 0))

	assert.True(t, Overlaps(a, MustInterval(hm(9, 30), hm(10, 30))))
	assert.True(t, Overlaps(a, MustInterval(hm(8, 0), hm(11, 0))))
	assert.False(t, Overlaps(a, MustInterval(hm(10, 0), hm(11, 0))), "touching intervals do not overlap")
	assert.False(t, Overlaps(a, MustInterval(hm(8, 0), hm(9, 0))))
}

func TestIntersect(t *testing.T) {
	got, ok := Intersect(MustInterval(hm(9, 0), hm(11, 0)), MustInterval(hm(10, 0), hm(12, 0)))
	require.True(t, ok)
	assert.Equal(t, MustInterval(hm(10, 0), hm(11, 0)), got)

	_, ok = Intersect(MustInterval(hm(9, 0), hm(10, 0)), MustInterval(hm(10, 0), hm(11, 0)))
	assert.False(t, ok)
}

func TestSubtract(t *testing.T) {
	base := MustInterval(hm(9, 0), hm(18, 0))

	tests := []struct {
		name string
		cuts []Interval
		want []Interval
	}{
		{
			name: "no cuts",
			want: []Interval{base},
		},
		{
			name: "lunch in the middle",
			cuts: []Interval{MustInterval(hm(13, 0), hm(14, 0))},
			want: []Interval{MustInterval(hm(9, 0), hm(13, 0)), MustInterval(hm(14, 0), hm(18, 0))},
		},
		{
			name: "overlapping and unsorted cuts",
			cuts: []Interval{
				MustInterval(hm(15, 0), hm(16, 0)),
				MustInterval(hm(10, 0), hm(11, 0)),
				MustInterval(hm(10, 30), hm(12, 0)),
			},
			want: []Interval{
				MustInterval(hm(9, 0), hm(10, 0)),
				MustInterval(hm(12, 0), hm(15, 0)),
				MustInterval(hm(16, 0), hm(18, 0)),
			},
		},
		{
			name: "cut outside base",
			cuts: []Interval{MustInterval(hm(6, 0), hm(8, 0))},
			want: []Interval{base},
		},
		{
			name: "cut covers base",
			cuts: []Interval{MustInterval(hm(8, 0), hm(19, 0))},
			want: []Interval{},
		},
		{
			name: "cut at the edges",
			cuts: []Interval{MustInterval(hm(9, 0), hm(10, 0)), MustInterval(hm(17, 0), hm(18, 0))},
			want: []Interval{MustInterval(hm(10, 0), hm(17, 0))},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Subtract(base, tt.cuts))
		})
	}
}

func TestMerge(t *testing.T) {
	got := Merge([]Interval{
		MustInterval(hm(14, 0), hm(16, 0)),
		MustInterval(hm(9, 0), hm(12, 0)),
		MustInterval(hm(12, 0), hm(13, 0)),
		MustInterval(hm(15, 0), hm(15, 30)),
	})

	assert.Equal(t, []Interval{
		MustInterval(hm(9, 0), hm(13, 0)),
		MustInterval(hm(14, 0), hm(16, 0)),
	}, got)
	assert.Empty(t, Merge(nil))
}

func TestSubtractAllResultIsSortedAndDisjoint(t *testing.T) {
	set := []Interval{MustInterval(hm(9, 0), hm(12, 0)), MustInterval(hm(13, 0), hm(19, 0))}
	cuts := []Interval{
		MustInterval(hm(9, 15), hm(9, 45)),
		MustInterval(hm(11, 50), hm(13, 30)),
		MustInterval(hm(16, 0), hm(16, 5)),
	}

	got := SubtractAll(set, cuts)
	require.NotEmpty(t, got)
	for i := 1; i < len(got); i++ {
		assert.Less(t, got[i-1].End(), got[i].Start())
	}
	for _, piece := range got {
		for _, cut := range cuts {
			assert.False(t, Overlaps(piece, cut), "%s overlaps cut %s", piece, cut)
		}
	}
}

func TestShiftAndContains(t *testing.T) {
	interval := MustInterval(hm(9, 0), hm(10, 0))

	shifted, err := interval.Shift(30)
	require.NoError(t, err)
	assert.Equal(t, MustInterval(hm(9, 30), hm(10, 30)), shifted)

	_, err = interval.Shift(hm(15, 0))
	assert.ErrorIs(t, err, ErrInvalidInterval)

	assert.True(t, MustInterval(hm(8, 0), hm(12, 0)).Contains(interval))
	assert.False(t, interval.Contains(shifted))
	assert.Equal(t, 60, Longest([]Interval{interval, MustInterval(0, 15)}))
}
