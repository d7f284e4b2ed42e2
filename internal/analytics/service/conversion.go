package service

import (
	"context"

	"buyer_leads_backend/internal/leads/domain"
)

// FunnelStage is one cumulative stage of the pipeline funnel. Count covers
// every lead at or beyond the stage; lost leads drop out after "total".
type FunnelStage struct {
	Stage string  `json:"stage"`
	Count int     `json:"count"`
	Rate  float64 `json:"rate"`
}

// SourceConversion scores one source in the conversion report.
type SourceConversion struct {
	Source         string  `json:"source"`
	Name           string  `json:"name"`
	Total          int     `json:"total"`
	Converted      int     `json:"converted"`
	ConversionRate float64 `json:"conversion_rate"`
}

// TimelineConversionDays is the average time-to-convert for converted leads
// in one timeline bucket.
type TimelineConversionDays struct {
	Timeline  string  `json:"timeline"`
	Name      string  `json:"name"`
	Converted int     `json:"converted"`
	AvgDays   float64 `json:"avg_days"`
}

// ConversionReport is the funnel view over the last N days.
type ConversionReport struct {
	Days              int                      `json:"days"`
	TotalLeads        int                      `json:"total_leads"`
	Funnel            []FunnelStage            `json:"funnel"`
	BySource          []SourceConversion       `json:"by_source"`
	AvgDaysByTimeline []TimelineConversionDays `json:"avg_days_by_timeline"`
}

// Conversion computes the funnel over leads created in the last `days` days
// plus today. Stage counts are cumulative, so each stage never exceeds the
// one before it.
func (s *Service) Conversion(ctx context.Context, days int) (ConversionReport, error) {
	if days < 1 {
		days = DefaultRangeDays
	}

	from, to := s.rangeWindow(days)
	leads, err := s.src.ListCreatedBetween(ctx, from, to)
	if err != nil {
		return ConversionReport{}, err
	}

	report := ConversionReport{Days: days, TotalLeads: len(leads)}
	report.Funnel = funnel(leads)
	report.BySource = sourceConversion(leads)
	report.AvgDaysByTimeline = timelineConversionDays(leads)
	return report, nil
}

func funnel(leads []domain.Lead) []FunnelStage {
	total := len(leads)
	contactedPlus := 0
	qualifiedPlus := 0
	convertedCount := 0
	for _, lead := range leads {
		switch lead.Status {
		case domain.StatusContacted:
			contactedPlus++
		case domain.StatusQualified:
			contactedPlus++
			qualifiedPlus++
		case domain.StatusConverted:
			contactedPlus++
			qualifiedPlus++
			convertedCount++
		}
	}

	stage := func(name string, count int) FunnelStage {
		return FunnelStage{Stage: name, Count: count, Rate: percent(count, total, 1)}
	}
	return []FunnelStage{
		stage("total", total),
		stage("contacted", contactedPlus),
		stage("qualified", qualifiedPlus),
		stage("converted", convertedCount),
	}
}

func sourceConversion(leads []domain.Lead) []SourceConversion {
	totals := make(map[domain.Source]int)
	convertedCounts := make(map[domain.Source]int)
	for _, lead := range leads {
		totals[lead.Source]++
		if converted(lead) {
			convertedCounts[lead.Source]++
		}
	}

	out := make([]SourceConversion, 0, len(domain.Sources))
	for _, choice := range domain.Sources {
		source := domain.Source(choice.Code)
		out = append(out, SourceConversion{
			Source:         choice.Code,
			Name:           choice.Name,
			Total:          totals[source],
			Converted:      convertedCounts[source],
			ConversionRate: percent(convertedCounts[source], totals[source], 2),
		})
	}
	return out
}

// timelineConversionDays averages updated_at minus created_at for converted
// leads. The update timestamp stands in for the conversion moment, since the
// status change is the last write in the common case.
func timelineConversionDays(leads []domain.Lead) []TimelineConversionDays {
	counts := make(map[domain.Timeline]int)
	daySums := make(map[domain.Timeline]float64)
	for _, lead := range leads {
		if !converted(lead) {
			continue
		}
		counts[lead.Timeline]++
		daySums[lead.Timeline] += lead.UpdatedAt.Sub(lead.CreatedAt).Hours() / 24
	}

	out := make([]TimelineConversionDays, 0, len(domain.Timelines))
	for _, choice := range domain.Timelines {
		timeline := domain.Timeline(choice.Code)
		entry := TimelineConversionDays{
			Timeline:  choice.Code,
			Name:      choice.Name,
			Converted: counts[timeline],
		}
		if counts[timeline] > 0 {
			entry.AvgDays = roundHalfAway(daySums[timeline]/float64(counts[timeline]), 1)
		}
		out = append(out, entry)
	}
	return out
}
