package requirements

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/internal/scheduling/capacity"
	"github.com/m04kA/SMC-SalonBookingService/pkg/types"
)

func service(id int64, minutes int, parallel bool, maxPros int) domain.Service {
	return domain.Service{
		ID:              id,
		Name:            "service",
		DurationMinutes: minutes,
		Price:           decimal.NewFromInt(id * 10),
		Parallelable:    parallel,
		MaxParallelPros: maxPros,
		Active:          true,
	}
}

func ids(services []domain.Service) []int64 {
	out := make([]int64, len(services))
	for i, s := range services {
		out[i] = s.ID
	}
	return out
}

func TestNormalizeSequentialTotals(t *testing.T) {
	set, err := Normalize([]domain.Service{service(1, 60, false, 1), service(2, 30, false, 1)}, nil)
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2}, set.ServiceIDs())
	assert.Equal(t, 90, set.SequentialMinutes)
	assert.Equal(t, 90, set.ParallelMinutes)
	assert.Equal(t, 2, set.MaxProfessionals)
	assert.Equal(t, "30", set.TotalPrice.String())
}

func TestNormalizeOrdersByConstraintGraph(t *testing.T) {
	services := []domain.Service{service(1, 30, false, 1), service(2, 30, false, 1), service(3, 30, false, 1)}
	rules := []domain.ServiceCompatibility{
		{ServiceAID: 3, ServiceBID: 1, Compatible: true, OrderConstraint: domain.OrderBefore},
		{ServiceAID: 2, ServiceBID: 3, Compatible: true, OrderConstraint: domain.OrderAfter},
		{ServiceAID: 1, ServiceBID: 99, Compatible: false, OrderConstraint: domain.OrderBefore},
	}

	set, err := Normalize(services, rules)
	require.NoError(t, err)

	assert.Equal(t, []int64{3, 1, 2}, set.ServiceIDs())
	assert.True(t, set.MustPrecede(3, 1))
	assert.True(t, set.MustPrecede(3, 2))
	assert.False(t, set.MustPrecede(1, 2))
	assert.False(t, set.Ordered(1, 2))
}

func TestNormalizeTransitiveOrder(t *testing.T) {
	services := []domain.Service{service(1, 10, true, 3), service(2, 10, true, 3), service(3, 10, true, 3)}
	rules := []domain.ServiceCompatibility{
		{ServiceAID: 1, ServiceBID: 2, Compatible: true, OrderConstraint: domain.OrderBefore},
		{ServiceAID: 2, ServiceBID: 3, Compatible: true, OrderConstraint: domain.OrderBefore},
	}

	set, err := Normalize(services, rules)
	require.NoError(t, err)
	assert.True(t, set.MustPrecede(1, 3))

	plan := set.Parallel(3)
	assert.Len(t, plan.Stages, 3, "ordered services never share a stage")
	assert.Equal(t, 30, plan.Minutes)
}

func TestNormalizeRejectsIncompatibleSets(t *testing.T) {
	tests := []struct {
		name     string
		services []domain.Service
		rules    []domain.ServiceCompatibility
		is       error
	}{
		{
			name:     "mutual before is a cycle",
			services: []domain.Service{service(1, 30, false, 1), service(2, 30, false, 1)},
			rules: []domain.ServiceCompatibility{
				{ServiceAID: 1, ServiceBID: 2, Compatible: false, OrderConstraint: domain.OrderBefore},
				{ServiceAID: 2, ServiceBID: 1, Compatible: false, OrderConstraint: domain.OrderBefore},
			},
			is: ErrIncompatibleServiceSet,
		},
		{
			name:     "before and after on the same pair",
			services: []domain.Service{service(1, 30, false, 1), service(2, 30, false, 1)},
			rules: []domain.ServiceCompatibility{
				{ServiceAID: 1, ServiceBID: 2, Compatible: true, OrderConstraint: domain.OrderBefore},
				{ServiceAID: 1, ServiceBID: 2, Compatible: true, OrderConstraint: domain.OrderAfter},
			},
			is: ErrIncompatibleServiceSet,
		},
		{
			name:     "contradicting compatibility flags",
			services: []domain.Service{service(1, 30, true, 2), service(2, 30, true, 2)},
			rules: []domain.ServiceCompatibility{
				{ServiceAID: 1, ServiceBID: 2, Compatible: true, OrderConstraint: domain.OrderNone},
				{ServiceAID: 2, ServiceBID: 1, Compatible: false, OrderConstraint: domain.OrderNone},
			},
			is: ErrIncompatibleServiceSet,
		},
		{
			name:     "three service cycle",
			services: []domain.Service{service(1, 30, false, 1), service(2, 30, false, 1), service(3, 30, false, 1)},
			rules: []domain.ServiceCompatibility{
				{ServiceAID: 1, ServiceBID: 2, Compatible: true, OrderConstraint: domain.OrderBefore},
				{ServiceAID: 2, ServiceBID: 3, Compatible: true, OrderConstraint: domain.OrderBefore},
				{ServiceAID: 3, ServiceBID: 1, Compatible: true, OrderConstraint: domain.OrderBefore},
			},
			is: ErrIncompatibleServiceSet,
		},
		{
			name: "empty set",
			is:   ErrEmptyServiceSet,
		},
		{
			name:     "duplicate service",
			services: []domain.Service{service(1, 30, false, 1), service(1, 30, false, 1)},
			is:       ErrDuplicateService,
		},
		{
			name:     "zero duration",
			services: []domain.Service{service(1, 0, false, 1)},
			is:       ErrInvalidService,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := Normalize(tt.services, tt.rules)
			assert.Nil(t, set)
			assert.ErrorIs(t, err, tt.is)
		})
	}
}

func TestParallelPlan(t *testing.T) {
	// Маникюр и педикюр параллелятся, окрашивание нет
	manicure := service(1, 45, true, 2)
	pedicure := service(2, 60, true, 2)
	coloring := service(3, 90, false, 1)

	set, err := Normalize([]domain.Service{manicure, pedicure, coloring}, nil)
	require.NoError(t, err)

	plan := set.Parallel(2)
	require.Len(t, plan.Stages, 2)
	assert.Equal(t, []int64{1, 2}, ids(plan.Stages[0].Services))
	assert.Equal(t, 60, plan.Stages[0].Minutes)
	assert.Equal(t, 60, plan.Stages[1].Offset)
	assert.Equal(t, 150, plan.Minutes)
	assert.Equal(t, 2, plan.Width)
	assert.Equal(t, 150, set.ParallelMinutes)
	assert.Equal(t, 195, set.SequentialMinutes)

	sequential := set.PlanFor(1)
	assert.Len(t, sequential.Stages, 3)
	assert.Equal(t, 195, sequential.Minutes)
	assert.Equal(t, 1, sequential.Width)
}

func TestParallelPlanRespectsLimits(t *testing.T) {
	a := service(1, 30, true, 3)
	b := service(2, 30, true, 2)
	c := service(3, 30, true, 3)

	set, err := Normalize([]domain.Service{a, b, c}, nil)
	require.NoError(t, err)
	plan := set.Parallel(3)
	assert.Equal(t, 2, plan.Width, "service 2 allows only two professionals at once")

	set, err = Normalize([]domain.Service{a, c}, []domain.ServiceCompatibility{
		{ServiceAID: 1, ServiceBID: 3, Compatible: false, OrderConstraint: domain.OrderNone},
	})
	require.NoError(t, err)
	assert.False(t, set.Compatible(3, 1))
	assert.Len(t, set.Parallel(2).Stages, 2, "incompatible services run one after another")
}

func TestPlanPlaceAndDemands(t *testing.T) {
	wash := service(1, 30, false, 1)
	wash.StationRequirements = []domain.StationRequirement{{StationTypeID: 5, Qty: 1}}
	cut := service(2, 45, false, 1)
	cut.StationRequirements = []domain.StationRequirement{{StationTypeID: 6, Qty: 1}}

	set, err := Normalize([]domain.Service{wash, cut}, nil)
	require.NoError(t, err)

	placements, err := set.Sequential().Place(600)
	require.NoError(t, err)
	require.Len(t, placements, 2)
	assert.Equal(t, types.MustInterval(600, 630), placements[0].Interval)
	assert.Equal(t, types.MustInterval(630, 675), placements[1].Interval)

	assert.Equal(t, []capacity.Usage{
		{StationTypeID: 5, Qty: 1, Interval: types.MustInterval(600, 630)},
		{StationTypeID: 6, Qty: 1, Interval: types.MustInterval(630, 675)},
	}, Demands(placements))

	_, err = set.Sequential().Place(1400)
	assert.ErrorIs(t, err, types.ErrInvalidInterval)
}
