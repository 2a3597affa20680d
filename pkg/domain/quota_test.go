package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestQuotaUsage_Buckets(t *testing.T) {
	now := time.Date(2025, 6, 30, 23, 40, 0, 0, time.UTC)
	u := QuotaUsage{}
	u.Roll(now)
	u.HourCount, u.DayCount, u.DayCost, u.MonthCost = 2, 4, 0.5, 3.5

	assert.Equal(t, 2, u.HourCountAt(now))
	assert.Equal(t, 4, u.DayCountAt(now))
	assert.InDelta(t, 0.5, u.DayCostAt(now), 1e-9)
	assert.InDelta(t, 3.5, u.MonthCostAt(now), 1e-9)

	// next hour, same day
	later := now.Add(15 * time.Minute) // 23:55
	assert.Equal(t, 2, u.HourCountAt(later))
	nextDay := now.Add(30 * time.Minute) // 2025-07-01 00:10
	assert.Equal(t, 0, u.HourCountAt(nextDay))
	assert.Equal(t, 0, u.DayCountAt(nextDay))
	assert.InDelta(t, 0.0, u.DayCostAt(nextDay), 1e-9)
	assert.InDelta(t, 0.0, u.MonthCostAt(nextDay), 1e-9)

	u.Roll(nextDay)
	assert.Equal(t, 0, u.DayCount)
	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), u.DayStart)
	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), u.MonthStart)
}

func TestQuotaState_Clone(t *testing.T) {
	rate := 0.5
	ts := time.Now()
	s := &QuotaState{Config: QuotaConfig{FeedID: 1, AutoDisableOnErrorRate: &rate, LastViolationAt: &ts}, Usage: QuotaUsage{LastAdmittedAt: &ts}}
	c := s.Clone()
	*c.Config.AutoDisableOnErrorRate = 0.9
	c.Config.MaxPerDay = 10
	assert.InDelta(t, 0.5, *s.Config.AutoDisableOnErrorRate, 1e-9)
	assert.Equal(t, 0, s.Config.MaxPerDay)
	assert.NotSame(t, s.Usage.LastAdmittedAt, c.Usage.LastAdmittedAt)
}
