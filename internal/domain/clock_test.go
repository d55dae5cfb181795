package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Ometeor-Zheero-OMZ/Ataria/internal/domain"
	"github.com/Ometeor-Zheero-OMZ/Ataria/internal/domain/domaintest"
)

func TestFakeClock(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var clock domain.Clock = domaintest.NewFakeClock(start)
	assert.Equal(t, start, clock.Now())

	fake := clock.(*domaintest.FakeClock)
	fake.Advance(time.Hour)
	assert.Equal(t, start.Add(time.Hour), clock.Now())

	fake.Set(start)
	assert.Equal(t, start, clock.Now())
}

func TestRealClock(t *testing.T) {
	assert.WithinDuration(t, time.Now(), domain.RealClock{}.Now(), time.Second)
}
