package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

type countingSource struct {
	services  map[int64]domain.Service
	rules     []domain.ServiceCompatibility
	requested [][]int64
	ruleCalls int
	err       error
}

func (s *countingSource) GetServicesByIDs(_ context.Context, ids []int64) ([]domain.Service, error) {
	s.requested = append(s.requested, append([]int64(nil), ids...))
	if s.err != nil {
		return nil, s.err
	}
	out := make([]domain.Service, 0, len(ids))
	for _, id := range ids {
		if svc, ok := s.services[id]; ok {
			out = append(out, svc)
		}
	}
	return out, nil
}

func (s *countingSource) GetCompatibilityRules(_ context.Context, _ []int64) ([]domain.ServiceCompatibility, error) {
	s.ruleCalls++
	return s.rules, s.err
}

func newSource() *countingSource {
	return &countingSource{
		services: map[int64]domain.Service{
			1: {ID: 1, Name: "Стрижка", DurationMinutes: 60},
			2: {ID: 2, Name: "Маникюр", DurationMinutes: 45},
			3: {ID: 3, Name: "Педикюр", DurationMinutes: 60},
		},
		rules: []domain.ServiceCompatibility{{ServiceAID: 2, ServiceBID: 3, Compatible: true}},
	}
}

func TestGetServicesByIDsLoadsOnlyMisses(t *testing.T) {
	src := newSource()
	c := New(src, Config{TTL: time.Minute, CleanupInterval: time.Minute})
	ctx := context.Background()

	first, err := c.GetServicesByIDs(ctx, []int64{2, 1})
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, int64(2), first[0].ID)

	second, err := c.GetServicesByIDs(ctx, []int64{1, 3, 2, 99})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3, 2}, []int64{second[0].ID, second[1].ID, second[2].ID})

	assert.Equal(t, [][]int64{{2, 1}, {3, 99}}, src.requested)
}

func TestGetCompatibilityRulesKeyIgnoresOrder(t *testing.T) {
	src := newSource()
	c := New(src, DefaultConfig())
	ctx := context.Background()

	_, err := c.GetCompatibilityRules(ctx, []int64{3, 2})
	require.NoError(t, err)
	rules, err := c.GetCompatibilityRules(ctx, []int64{2, 3})
	require.NoError(t, err)

	assert.Len(t, rules, 1)
	assert.Equal(t, 1, src.ruleCalls)

	c.Flush()
	_, err = c.GetCompatibilityRules(ctx, []int64{2, 3})
	require.NoError(t, err)
	assert.Equal(t, 2, src.ruleCalls)
}

func TestSourceErrorsAreNotCached(t *testing.T) {
	src := newSource()
	src.err = errors.New("db down")
	c := New(src, DefaultConfig())

	_, err := c.GetServicesByIDs(context.Background(), []int64{1})
	assert.ErrorIs(t, err, src.err)

	src.err = nil
	services, err := c.GetServicesByIDs(context.Background(), []int64{1})
	require.NoError(t, err)
	assert.Len(t, services, 1)
}
