// Package quality implements the feedback loop that trades image fidelity
// for per-frame transmission latency: oversized encodes push the quality
// level down one step, undersized encodes pull it back up, always clamped
// to a fixed range. Only the most recent frame's size is consulted.
package quality

import "github.com/pkg/errors"

// Config bounds the controller. The defaults match the long-standing
// tuning: start at 70, move in steps of 5 within [20, 90], and aim for
// encoded frames between 50 KB and 150 KB.
type Config struct {
	Initial   int
	Min       int
	Max       int
	Step      int
	LowWater  int
	HighWater int
}

// DefaultConfig returns the standard tuning.
func DefaultConfig() Config {
	return Config{
		Initial:   70,
		Min:       20,
		Max:       90,
		Step:      5,
		LowWater:  50000,
		HighWater: 150000,
	}
}

func (c Config) validate() error {
	if c.Min > c.Max {
		return errors.Errorf("quality: min %d above max %d", c.Min, c.Max)
	}
	if c.Initial < c.Min || c.Initial > c.Max {
		return errors.Errorf("quality: initial %d outside [%d, %d]", c.Initial, c.Min, c.Max)
	}
	if c.Step <= 0 {
		return errors.Errorf("quality: step must be positive, got %d", c.Step)
	}
	if c.LowWater >= c.HighWater {
		return errors.Errorf("quality: low water %d not below high water %d", c.LowWater, c.HighWater)
	}
	return nil
}

// Controller is owned by the capture loop and is not safe for concurrent
// use.
type Controller struct {
	cfg   Config
	level int
}

func New(cfg Config) (*Controller, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Controller{cfg: cfg, level: cfg.Initial}, nil
}

// Level returns the quality to encode the next frame at.
func (c *Controller) Level() int {
	return c.level
}

// Observe feeds back the byte size of the most recently encoded frame and
// returns the adjusted level: one step down when above the high-water mark,
// one step up when below the low-water mark, unchanged in between.
func (c *Controller) Observe(size int) int {
	switch {
	case size > c.cfg.HighWater:
		c.level -= c.cfg.Step
		if c.level < c.cfg.Min {
			c.level = c.cfg.Min
		}
	case size < c.cfg.LowWater:
		c.level += c.cfg.Step
		if c.level > c.cfg.Max {
			c.level = c.cfg.Max
		}
	}
	return c.level
}
