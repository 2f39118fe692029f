package v1

import (
	"time"

	"github.com/dosewise/dosewise/internal/service"
	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analytics *service.AnalyticsService
	reminders *service.ReminderService
}

func NewAnalyticsHandler(analytics *service.AnalyticsService, reminders *service.ReminderService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, reminders: reminders}
}

// Trend reports the week-over-week adherence trend; ?weeks= widens the
// window (minimum and default 2).
func (h *AnalyticsHandler) Trend(c *gin.Context) {
	weeks := parseQueryInt(c, "weeks", 2)

	report, err := h.analytics.GetTrend(c.Request.Context(), weeks)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, report)
}

// Daily returns the gap-filled daily adherence series for ?days= days
// (default 14).
func (h *AnalyticsHandler) Daily(c *gin.Context) {
	days := parseQueryInt(c, "days", 14)

	series, err := h.analytics.DailySeries(c.Request.Context(), days)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, series)
}

// RemindersDue lists the schedule slots due in the configured look-ahead
// window. This is the feed a notifier polls.
func (h *AnalyticsHandler) RemindersDue(c *gin.Context) {
	due, err := h.reminders.DueSchedules(c.Request.Context(), time.Now())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, due)
}
