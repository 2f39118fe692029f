package adherence

import (
	"testing"
	"time"
)

func week(percent float64) []float64 {
	w := make([]float64, 7)
	for i := range w {
		w[i] = percent
	}
	return w
}

func TestWeeklyTrend(t *testing.T) {
	tests := []struct {
		name          string
		current       []float64
		previous      []float64
		wantDir       Direction
		wantPercent   int
		wantMagnitude int
	}{
		{
			name:    "identical weeks are neutral",
			current: week(80), previous: week(80),
			wantDir: DirectionNeutral, wantPercent: 0, wantMagnitude: 0,
		},
		{
			name:    "doubling caps percentage at 100",
			current: week(80), previous: week(40),
			wantDir: DirectionUp, wantPercent: 100, wantMagnitude: 100,
		},
		{
			name:    "collapse keeps uncapped magnitude",
			current: week(10), previous: week(80),
			wantDir: DirectionDown, wantPercent: 88, wantMagnitude: 88,
		},
		{
			name:    "small improvement stays inside dead zone",
			current: week(82), previous: week(80),
			wantDir: DirectionNeutral, wantPercent: 3, wantMagnitude: 3,
		},
		{
			name:    "small drop stays inside dead zone",
			current: week(77), previous: week(80),
			wantDir: DirectionNeutral, wantPercent: 4, wantMagnitude: 4,
		},
		{
			name:    "just past the dead zone flips up",
			current: week(86), previous: week(80),
			wantDir: DirectionUp, wantPercent: 8, wantMagnitude: 8,
		},
		{
			name:    "zero previous average is neutral",
			current: week(50), previous: week(0),
			wantDir: DirectionNeutral, wantPercent: 0, wantMagnitude: 0,
		},
		{
			name:    "empty current window",
			current: nil, previous: week(80),
			wantDir: DirectionNeutral, wantPercent: 0, wantMagnitude: 0,
		},
		{
			name:    "empty previous window",
			current: week(80), previous: nil,
			wantDir: DirectionNeutral, wantPercent: 0, wantMagnitude: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WeeklyTrend(tt.current, tt.previous)
			if got.Direction != tt.wantDir {
				t.Errorf("Direction = %q, want %q", got.Direction, tt.wantDir)
			}
			if got.Percentage != tt.wantPercent {
				t.Errorf("Percentage = %d, want %d", got.Percentage, tt.wantPercent)
			}
			if got.Magnitude != tt.wantMagnitude {
				t.Errorf("Magnitude = %d, want %d", got.Magnitude, tt.wantMagnitude)
			}
		})
	}
}

func TestTrendFromDaily(t *testing.T) {
	day := func(offset int, percent float64) DailyAdherence {
		return DailyAdherence{
			Date:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset),
			Percent: percent,
		}
	}
	series := func(percents ...float64) []DailyAdherence {
		out := make([]DailyAdherence, len(percents))
		for i, p := range percents {
			out[i] = day(i, p)
		}
		return out
	}

	t.Run("under a week of data", func(t *testing.T) {
		got := TrendFromDaily(series(100, 100, 50))
		if got.Direction != DirectionNeutral || got.Percentage != 0 {
			t.Errorf("trend = %+v, want neutral zero", got.Trend)
		}
		if got.HasPreviousWeek {
			t.Error("HasPreviousWeek = true, want false")
		}
	})

	t.Run("exactly one week has no previous window", func(t *testing.T) {
		got := TrendFromDaily(series(80, 80, 80, 80, 80, 80, 80))
		if got.Direction != DirectionNeutral {
			t.Errorf("Direction = %q, want neutral", got.Direction)
		}
		if got.HasPreviousWeek {
			t.Error("HasPreviousWeek = true, want false")
		}
	})

	t.Run("partial previous week still compares", func(t *testing.T) {
		// 3 previous days at 40, then a full current week at 80.
		got := TrendFromDaily(series(40, 40, 40, 80, 80, 80, 80, 80, 80, 80))
		if !got.HasPreviousWeek {
			t.Fatal("HasPreviousWeek = false, want true")
		}
		if got.Direction != DirectionUp {
			t.Errorf("Direction = %q, want up", got.Direction)
		}
		if got.Percentage != 100 {
			t.Errorf("Percentage = %d, want 100", got.Percentage)
		}
	})

	t.Run("two full weeks", func(t *testing.T) {
		data := append(series(80, 80, 80, 80, 80, 80, 80),
			series(60, 60, 60, 60, 60, 60, 60)...)
		got := TrendFromDaily(data)
		if got.Direction != DirectionDown {
			t.Errorf("Direction = %q, want down", got.Direction)
		}
		if got.Magnitude != 25 {
			t.Errorf("Magnitude = %d, want 25", got.Magnitude)
		}
		if !got.HasPreviousWeek {
			t.Error("HasPreviousWeek = false, want true")
		}
	})
}
