package backtester

import "time"

// Clock drives the simulation through discrete time steps.
type Clock struct {
	CurrentTime time.Time
	EndTime     time.Time
	Step        time.Duration
}

func (c *Clock) Add() {
	c.CurrentTime = c.CurrentTime.Add(c.Step)
}

func (c *Clock) IsExpired() bool {
	return c.CurrentTime.Equal(c.EndTime) || c.CurrentTime.After(c.EndTime)
}

func NewClock(startTime time.Time, endTime time.Time, step time.Duration) *Clock {
	return &Clock{
		CurrentTime: startTime,
		EndTime:     endTime,
		Step:        step,
	}
}
