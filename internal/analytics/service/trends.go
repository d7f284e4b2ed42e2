package service

import (
	"context"
	"fmt"
	"sort"

	"buyer_leads_backend/internal/leads/domain"
)

// MonthlyTrend is one month of the full-history series, broken down by the
// leads' current status.
type MonthlyTrend struct {
	Month    string         `json:"month"`
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"by_status"`
}

// WeeklyTrend is one ISO week of the recent series.
type WeeklyTrend struct {
	Week           string  `json:"week"`
	Total          int     `json:"total"`
	Converted      int     `json:"converted"`
	ConversionRate float64 `json:"conversion_rate"`
}

// TrendsReport pairs the monthly full-history view with the last eight ISO
// weeks.
type TrendsReport struct {
	Monthly []MonthlyTrend `json:"monthly"`
	Weekly  []WeeklyTrend  `json:"weekly"`
}

// Trends computes creation trends. Monthly covers every month that has at
// least one lead; weekly always has exactly eight entries, current week last.
func (s *Service) Trends(ctx context.Context) (TrendsReport, error) {
	leads, err := s.src.ListAll(ctx)
	if err != nil {
		return TrendsReport{}, err
	}

	return TrendsReport{
		Monthly: monthlyTrends(leads),
		Weekly:  s.weeklyTrends(leads),
	}, nil
}

func monthlyTrends(leads []domain.Lead) []MonthlyTrend {
	byMonth := make(map[string]*MonthlyTrend)
	for _, lead := range leads {
		month := lead.CreatedAt.UTC().Format("2006-01")
		trend, ok := byMonth[month]
		if !ok {
			trend = &MonthlyTrend{Month: month, ByStatus: make(map[string]int)}
			byMonth[month] = trend
		}
		trend.Total++
		trend.ByStatus[string(lead.Status)]++
	}

	out := make([]MonthlyTrend, 0, len(byMonth))
	for _, trend := range byMonth {
		out = append(out, *trend)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

func isoWeekLabel(year, week int) string {
	return fmt.Sprintf("%d-W%02d", year, week)
}

func (s *Service) weeklyTrends(leads []domain.Lead) []WeeklyTrend {
	totals := make(map[string]int)
	convertedCounts := make(map[string]int)
	for _, lead := range leads {
		year, week := lead.CreatedAt.UTC().ISOWeek()
		label := isoWeekLabel(year, week)
		totals[label]++
		if converted(lead) {
			convertedCounts[label]++
		}
	}

	now := s.now().UTC()
	out := make([]WeeklyTrend, 0, WeeklyTrendWeeks)
	for i := WeeklyTrendWeeks - 1; i >= 0; i-- {
		year, week := now.AddDate(0, 0, -7*i).ISOWeek()
		label := isoWeekLabel(year, week)
		out = append(out, WeeklyTrend{
			Week:           label,
			Total:          totals[label],
			Converted:      convertedCounts[label],
			ConversionRate: percent(convertedCounts[label], totals[label], 1),
		})
	}
	return out
}
