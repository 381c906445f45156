package pacing

import "time"

// Rate limits in words per minute.
const (
	MinRate     = 50
	MaxRate     = 1500
	RateStep    = 50
	DefaultRate = 500
)

// ClampRate limits a rate to [MinRate, MaxRate] and rounds it to the nearest RateStep.
// Halfway values round up.
func ClampRate(rate int) int {
	if rate < MinRate {
		return MinRate
	}
	if rate > MaxRate {
		return MaxRate
	}
	return (rate + RateStep/2) / RateStep * RateStep
}

// BaseDelay returns the hold time of a plain word at the given rate.
func BaseDelay(rate int) time.Duration {
	return time.Minute / time.Duration(ClampRate(rate))
}
