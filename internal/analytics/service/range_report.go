package service

import (
	"context"
	"sort"
	"time"

	"buyer_leads_backend/internal/leads/domain"
)

// DailyCount is one day of the creation series.
type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// SourcePerformance scores one lead source within the range.
type SourcePerformance struct {
	Source         string  `json:"source"`
	Name           string  `json:"name"`
	Total          int     `json:"total"`
	Converted      int     `json:"converted"`
	ConversionRate float64 `json:"conversion_rate"`
}

// CityPerformance summarizes one city within the range.
type CityPerformance struct {
	City         string  `json:"city"`
	Name         string  `json:"name"`
	Count        int     `json:"count"`
	AvgBudgetMax float64 `json:"avg_budget_max"`
	Share        float64 `json:"share"`
}

// PropertyAnalysis breaks down one property type; residential types also
// carry their BHK distribution.
type PropertyAnalysis struct {
	PropertyType string       `json:"property_type"`
	Name         string       `json:"name"`
	Count        int          `json:"count"`
	Share        float64      `json:"share"`
	BHKBreakdown []GroupCount `json:"bhk_breakdown,omitempty"`
}

// BudgetBucket is one band of the budget distribution, keyed on budget_min.
type BudgetBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// TimelineUrgency ranks one timeline bucket by urgency.
type TimelineUrgency struct {
	Timeline     string  `json:"timeline"`
	Name         string  `json:"name"`
	Count        int     `json:"count"`
	Share        float64 `json:"share"`
	UrgencyScore int     `json:"urgency_score"`
}

// RangeReport is the detailed analytics view over the last N days.
type RangeReport struct {
	Days              int                 `json:"days"`
	TotalLeads        int                 `json:"total_leads"`
	DailySeries       []DailyCount        `json:"daily_series"`
	SourcePerformance []SourcePerformance `json:"source_performance"`
	CityPerformance   []CityPerformance   `json:"city_performance"`
	PropertyAnalysis  []PropertyAnalysis  `json:"property_analysis"`
	BudgetBuckets     []BudgetBucket      `json:"budget_distribution"`
	TimelineUrgency   []TimelineUrgency   `json:"timeline_urgency"`
}

var budgetBands = []struct {
	label string
	below int64
}{
	{"under_25L", 2_500_000},
	{"25L_50L", 5_000_000},
	{"50L_75L", 7_500_000},
	{"75L_1Cr", 10_000_000},
	{"1Cr_2Cr", 20_000_000},
	{"above_2Cr", 0},
}

// Range computes the detailed report over leads created in the last `days`
// days plus today, so the daily series always has days+1 points.
func (s *Service) Range(ctx context.Context, days int) (RangeReport, error) {
	if days < 1 {
		days = DefaultRangeDays
	}

	from, to := s.rangeWindow(days)
	leads, err := s.src.ListCreatedBetween(ctx, from, to)
	if err != nil {
		return RangeReport{}, err
	}

	report := RangeReport{Days: days, TotalLeads: len(leads)}
	report.DailySeries = dailySeries(leads, from, days+1)
	report.SourcePerformance = sourcePerformance(leads)
	report.CityPerformance = cityPerformance(leads)
	report.PropertyAnalysis = propertyAnalysis(leads)
	report.BudgetBuckets = budgetDistribution(leads)
	report.TimelineUrgency = timelineUrgency(leads)
	return report, nil
}

func dailySeries(leads []domain.Lead, from time.Time, points int) []DailyCount {
	counts := make(map[string]int)
	for _, lead := range leads {
		counts[lead.CreatedAt.UTC().Format("2006-01-02")]++
	}

	series := make([]DailyCount, points)
	for i := 0; i < points; i++ {
		date := from.AddDate(0, 0, i).Format("2006-01-02")
		series[i] = DailyCount{Date: date, Count: counts[date]}
	}
	return series
}

func sourcePerformance(leads []domain.Lead) []SourcePerformance {
	totals := make(map[domain.Source]int)
	convertedCounts := make(map[domain.Source]int)
	for _, lead := range leads {
		totals[lead.Source]++
		if converted(lead) {
			convertedCounts[lead.Source]++
		}
	}

	out := make([]SourcePerformance, 0, len(domain.Sources))
	for _, choice := range domain.Sources {
		source := domain.Source(choice.Code)
		out = append(out, SourcePerformance{
			Source:         choice.Code,
			Name:           choice.Name,
			Total:          totals[source],
			Converted:      convertedCounts[source],
			ConversionRate: percent(convertedCounts[source], totals[source], 2),
		})
	}
	return out
}

func cityPerformance(leads []domain.Lead) []CityPerformance {
	counts := make(map[domain.City]int)
	budgetMaxSums := make(map[domain.City]int64)
	for _, lead := range leads {
		counts[lead.City]++
		budgetMaxSums[lead.City] += lead.BudgetMax
	}

	out := make([]CityPerformance, 0, len(domain.Cities))
	for _, choice := range domain.Cities {
		city := domain.City(choice.Code)
		perf := CityPerformance{
			City:  choice.Code,
			Name:  choice.Name,
			Count: counts[city],
			Share: wholePercent(counts[city], len(leads)),
		}
		if counts[city] > 0 {
			perf.AvgBudgetMax = roundHalfAway(float64(budgetMaxSums[city])/float64(counts[city]), 0)
		}
		out = append(out, perf)
	}
	return out
}

func propertyAnalysis(leads []domain.Lead) []PropertyAnalysis {
	counts := make(map[domain.PropertyType]int)
	bhkCounts := make(map[domain.PropertyType]map[domain.BHK]int)
	for _, lead := range leads {
		propertyType := lead.Intent.PropertyType()
		counts[propertyType]++
		if bhk, ok := lead.Intent.BHK(); ok {
			if bhkCounts[propertyType] == nil {
				bhkCounts[propertyType] = make(map[domain.BHK]int)
			}
			bhkCounts[propertyType][bhk]++
		}
	}

	out := make([]PropertyAnalysis, 0, len(domain.PropertyTypes))
	for _, choice := range domain.PropertyTypes {
		propertyType := domain.PropertyType(choice.Code)
		analysis := PropertyAnalysis{
			PropertyType: choice.Code,
			Name:         choice.Name,
			Count:        counts[propertyType],
			Share:        percent(counts[propertyType], len(leads), 1),
		}
		if propertyType.RequiresBHK() {
			for _, bhkChoice := range domain.BHKs {
				analysis.BHKBreakdown = append(analysis.BHKBreakdown, GroupCount{
					Name:  bhkChoice.Name,
					Count: bhkCounts[propertyType][domain.BHK(bhkChoice.Code)],
				})
			}
		}
		out = append(out, analysis)
	}
	return out
}

func budgetDistribution(leads []domain.Lead) []BudgetBucket {
	buckets := make([]BudgetBucket, len(budgetBands))
	for i, band := range budgetBands {
		buckets[i].Label = band.label
	}

	for _, lead := range leads {
		placed := false
		for i, band := range budgetBands {
			if band.below > 0 && lead.BudgetMin < band.below {
				buckets[i].Count++
				placed = true
				break
			}
		}
		if !placed {
			buckets[len(buckets)-1].Count++
		}
	}
	return buckets
}

func timelineUrgency(leads []domain.Lead) []TimelineUrgency {
	counts := make(map[domain.Timeline]int)
	for _, lead := range leads {
		counts[lead.Timeline]++
	}

	out := make([]TimelineUrgency, 0, len(domain.Timelines))
	for _, choice := range domain.Timelines {
		timeline := domain.Timeline(choice.Code)
		out = append(out, TimelineUrgency{
			Timeline:     choice.Code,
			Name:         choice.Name,
			Count:        counts[timeline],
			Share:        percent(counts[timeline], len(leads), 1),
			UrgencyScore: timeline.UrgencyScore(),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UrgencyScore > out[j].UrgencyScore
	})
	return out
}
