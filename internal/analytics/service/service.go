// Package service computes the analytics reports. Reports are derived in Go
// from leads read through a narrow port; nothing here writes to the store.
package service

import (
	"context"
	"math"
	"time"

	"buyer_leads_backend/internal/leads/domain"
)

// LeadSource is the read port the reports run over.
type LeadSource interface {
	ListAll(ctx context.Context) ([]domain.Lead, error)
	ListCreatedBetween(ctx context.Context, from, to time.Time) ([]domain.Lead, error)
}

// Default report windows.
const (
	RecentWindowDays = 7
	DefaultRangeDays = 30
	WeeklyTrendWeeks = 8
)

type Service struct {
	src LeadSource
	now func() time.Time
}

func New(src LeadSource) *Service {
	return &Service{src: src, now: time.Now}
}

// NewWithClock pins the clock, for tests.
func NewWithClock(src LeadSource, now func() time.Time) *Service {
	return &Service{src: src, now: now}
}

// GroupCount is one bucket of a grouped count, labeled with the enum's
// display name.
type GroupCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// converted reports whether the lead counts toward conversion metrics.
// Only the converted status counts; qualified or lost leads never do.
func converted(lead domain.Lead) bool {
	return lead.Status == domain.StatusConverted
}

// roundHalfAway rounds half away from zero at the given number of decimals.
func roundHalfAway(value float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(value*scale) / scale
}

// wholePercent is the 0-decimal percentage of part over total.
func wholePercent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return roundHalfAway(float64(part)/float64(total)*100, 0)
}

func percent(part, total int, decimals int) float64 {
	if total == 0 {
		return 0
	}
	return roundHalfAway(float64(part)/float64(total)*100, decimals)
}

// startOfDay truncates to midnight UTC.
func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// rangeWindow is the half-open [from, to) window covering the last `days`
// days plus today.
func (s *Service) rangeWindow(days int) (time.Time, time.Time) {
	today := startOfDay(s.now())
	return today.AddDate(0, 0, -days), today.AddDate(0, 0, 1)
}
