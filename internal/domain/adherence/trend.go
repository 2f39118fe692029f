// Package adherence derives week-over-week adherence trends from daily
// adherence ratios. Everything here is pure arithmetic; reading and
// gap-filling the daily series is the caller's job.
package adherence

import (
	"math"
	"time"
)

type Direction string

const (
	DirectionUp      Direction = "up"
	DirectionDown    Direction = "down"
	DirectionNeutral Direction = "neutral"
)

// A ±5-point dead zone keeps near-flat adherence from flipping direction on
// noise.
const deadZonePercent = 5.0

type Trend struct {
	Percentage int       `json:"percentage"` // magnitude capped at 100
	Direction  Direction `json:"direction"`
	Magnitude  int       `json:"magnitude"` // uncapped rounded |change|
}

// TrendReport is a Trend plus whether any previous-week data existed at all.
type TrendReport struct {
	Trend
	HasPreviousWeek bool `json:"has_previous_week"`
}

// DailyAdherence is one calendar day's adherence ratio in percent.
type DailyAdherence struct {
	Date    time.Time `json:"date"`
	Percent float64   `json:"percent"`
}

// WeeklyTrend compares two windows of daily adherence percentages. Either
// window being empty yields the neutral zero trend.
func WeeklyTrend(current, previous []float64) Trend {
	if len(current) == 0 || len(previous) == 0 {
		return Trend{Direction: DirectionNeutral}
	}

	curAvg := mean(current)
	prevAvg := mean(previous)

	var change float64
	if prevAvg > 0 {
		change = (curAvg - prevAvg) / prevAvg * 100
	}

	direction := DirectionNeutral
	switch {
	case change > deadZonePercent:
		direction = DirectionUp
	case change < -deadZonePercent:
		direction = DirectionDown
	}

	magnitude := int(math.Round(math.Abs(change)))
	percentage := magnitude
	if percentage > 100 {
		percentage = 100
	}

	return Trend{Percentage: percentage, Direction: direction, Magnitude: magnitude}
}

// TrendFromDaily slices an oldest→newest daily series into the most recent
// week and the week before it, then delegates to WeeklyTrend. Fewer than 7
// days of data yields the neutral zero report with HasPreviousWeek false.
func TrendFromDaily(daily []DailyAdherence) TrendReport {
	if len(daily) < 7 {
		return TrendReport{Trend: Trend{Direction: DirectionNeutral}}
	}

	values := make([]float64, len(daily))
	for i, d := range daily {
		values[i] = d.Percent
	}

	current := values[len(values)-7:]
	prevStart := len(values) - 14
	if prevStart < 0 {
		prevStart = 0
	}
	previous := values[prevStart : len(values)-7]

	return TrendReport{
		Trend:           WeeklyTrend(current, previous),
		HasPreviousWeek: len(previous) > 0,
	}
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
