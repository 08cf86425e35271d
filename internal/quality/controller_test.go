package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveHoldsInsideBand(t *testing.T) {
	c, err := New(DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 70, c.Level())

	for _, size := range []int{50001, 100000, 149999, 150000} {
		assert.Equal(t, 70, c.Observe(size), "size %d", size)
	}
}

func TestObserveStaysClampedForAnySequence(t *testing.T) {
	cfg := DefaultConfig()
	c, err := New(cfg)
	require.NoError(t, err)

	sizes := []int{0, 1 << 30, 0, 0, 0, 0, 0, 0, 1 << 30, 75000, 200000, 200000, 200000, 200000, 200000, 200000, 200000, 200000, 200000}
	for _, size := range sizes {
		lvl := c.Observe(size)
		assert.GreaterOrEqual(t, lvl, cfg.Min)
		assert.LessOrEqual(t, lvl, cfg.Max)
	}
}

func TestRepeatedOversizeDecreasesUntilFloor(t *testing.T) {
	c, err := New(DefaultConfig())
	require.NoError(t, err)

	prev := c.Level()
	for i := 0; i < 30; i++ {
		lvl := c.Observe(1 << 20)
		if prev > 20 {
			assert.Equal(t, prev-5, lvl)
		} else {
			assert.Equal(t, 20, lvl)
		}
		prev = lvl
	}
	assert.Equal(t, 20, c.Level())
}

func TestRepeatedUndersizeIncreasesUntilCeiling(t *testing.T) {
	c, err := New(DefaultConfig())
	require.NoError(t, err)

	prev := c.Level()
	for i := 0; i < 30; i++ {
		lvl := c.Observe(100)
		if prev < 90 {
			assert.Equal(t, prev+5, lvl)
		} else {
			assert.Equal(t, 90, lvl)
		}
		prev = lvl
	}
	assert.Equal(t, 90, c.Level())
}

// Ten frames growing past a 65 KB high-water mark: quality holds until the
// size first exceeds the mark, then steps down once per oversized frame.
func TestGrowingFramesAgainstHighWaterMark(t *testing.T) {
	c, err := New(Config{
		Initial:   80,
		Min:       20,
		Max:       90,
		Step:      5,
		LowWater:  10000,
		HighWater: 65000,
	})
	require.NoError(t, err)

	var got []int
	for i := 0; i < 10; i++ {
		got = append(got, c.Observe(50000+i*10000))
	}
	assert.Equal(t, []int{80, 80, 75, 70, 65, 60, 55, 50, 45, 40}, got)
}

func TestConfigValidate(t *testing.T) {
	bad := []Config{
		{Initial: 50, Min: 60, Max: 40, Step: 5, LowWater: 1, HighWater: 2},
		{Initial: 95, Min: 20, Max: 90, Step: 5, LowWater: 1, HighWater: 2},
		{Initial: 50, Min: 20, Max: 90, Step: 0, LowWater: 1, HighWater: 2},
		{Initial: 50, Min: 20, Max: 90, Step: 5, LowWater: 2, HighWater: 2},
	}
	for i, cfg := range bad {
		_, err := New(cfg)
		assert.Error(t, err, "config %d", i)
	}
}
