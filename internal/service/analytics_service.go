package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dosewise/dosewise/internal/domain/adherence"
	"github.com/dosewise/dosewise/internal/domain/doselog"
	"github.com/dosewise/dosewise/internal/domain/protocol"
	"go.uber.org/zap"
)

// AnalyticsService aggregates dose logs into per-day adherence ratios and
// week-over-week trends. All reads; "no data" comes back as neutral defaults,
// never as an error.
type AnalyticsService struct {
	doses     doselog.Repository
	protocols protocol.Repository
	log       *zap.Logger
	now       func() time.Time
}

func NewAnalyticsService(doses doselog.Repository, protocols protocol.Repository, log *zap.Logger) *AnalyticsService {
	return &AnalyticsService{doses: doses, protocols: protocols, log: log, now: time.Now}
}

// DailySeries builds the oldest→newest daily adherence series for the last
// `days` calendar days. A day's adherence is doses taken over doses scheduled
// (sum of schedule slots of active protocols), capped at 100. Days without
// any dose are gap-filled with 0; days before the first recorded dose are
// dropped so sparse history does not read as weeks of zero adherence.
func (s *AnalyticsService) DailySeries(ctx context.Context, days int) ([]adherence.DailyAdherence, error) {
	if days <= 0 {
		return nil, nil
	}

	today := startOfDay(s.now())
	since := today.AddDate(0, 0, -(days - 1))

	counts, err := s.doses.CountPerDay(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("counting doses per day: %w", err)
	}
	if len(counts) == 0 {
		return nil, nil
	}

	scheduled, err := s.scheduledPerDay(ctx)
	if err != nil {
		return nil, err
	}

	byDay := make(map[time.Time]int, len(counts))
	for _, c := range counts {
		byDay[startOfDay(c.Date)] = c.Count
	}

	start := startOfDay(counts[0].Date)
	if start.Before(since) {
		start = since
	}

	var series []adherence.DailyAdherence
	for day := start; !day.After(today); day = day.AddDate(0, 0, 1) {
		var percent float64
		if scheduled > 0 {
			percent = float64(byDay[day]) / float64(scheduled) * 100
			if percent > 100 {
				percent = 100
			}
		}
		series = append(series, adherence.DailyAdherence{Date: day, Percent: percent})
	}
	return series, nil
}

// GetTrend reports the week-over-week adherence trend over the last `weeks`
// weeks (minimum 2).
func (s *AnalyticsService) GetTrend(ctx context.Context, weeks int) (adherence.TrendReport, error) {
	if weeks < 2 {
		weeks = 2
	}

	series, err := s.DailySeries(ctx, weeks*7)
	if err != nil {
		return adherence.TrendReport{}, err
	}
	return adherence.TrendFromDaily(series), nil
}

// scheduledPerDay is the number of dose slots per day across active protocols.
func (s *AnalyticsService) scheduledPerDay(ctx context.Context) (int, error) {
	protocols, err := s.protocols.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing active protocols: %w", err)
	}

	var slots int
	for _, p := range protocols {
		slots += len(p.TimeSchedule)
	}
	return slots, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
