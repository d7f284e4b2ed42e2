package service

import (
	"context"

	"buyer_leads_backend/internal/leads/domain"
)

// DashboardStats is the landing-page summary.
type DashboardStats struct {
	TotalLeads     int          `json:"total_leads"`
	RecentLeads    int          `json:"recent_leads"`
	ConversionRate float64      `json:"conversion_rate"`
	AvgBudgetMin   float64      `json:"avg_budget_min"`
	AvgBudgetMax   float64      `json:"avg_budget_max"`
	ByStatus       []GroupCount `json:"by_status"`
	ByCity         []GroupCount `json:"by_city"`
	ByPropertyType []GroupCount `json:"by_property_type"`
	ByTimeline     []GroupCount `json:"by_timeline"`
}

// Dashboard computes the summary over the whole lead base. Recent means
// created within the last seven days. All buckets are present even at zero,
// in their canonical enum order.
func (s *Service) Dashboard(ctx context.Context) (DashboardStats, error) {
	leads, err := s.src.ListAll(ctx)
	if err != nil {
		return DashboardStats{}, err
	}

	stats := DashboardStats{TotalLeads: len(leads)}

	recentCutoff := s.now().UTC().AddDate(0, 0, -RecentWindowDays)
	convertedCount := 0
	var budgetMinSum, budgetMaxSum int64

	statusCounts := make(map[domain.Status]int)
	cityCounts := make(map[domain.City]int)
	propertyCounts := make(map[domain.PropertyType]int)
	timelineCounts := make(map[domain.Timeline]int)

	for _, lead := range leads {
		if lead.CreatedAt.After(recentCutoff) {
			stats.RecentLeads++
		}
		if converted(lead) {
			convertedCount++
		}
		budgetMinSum += lead.BudgetMin
		budgetMaxSum += lead.BudgetMax

		statusCounts[lead.Status]++
		cityCounts[lead.City]++
		propertyCounts[lead.Intent.PropertyType()]++
		timelineCounts[lead.Timeline]++
	}

	stats.ConversionRate = wholePercent(convertedCount, len(leads))
	if len(leads) > 0 {
		stats.AvgBudgetMin = roundHalfAway(float64(budgetMinSum)/float64(len(leads)), 0)
		stats.AvgBudgetMax = roundHalfAway(float64(budgetMaxSum)/float64(len(leads)), 0)
	}

	for _, choice := range domain.Statuses {
		stats.ByStatus = append(stats.ByStatus, GroupCount{choice.Name, statusCounts[domain.Status(choice.Code)]})
	}
	for _, choice := range domain.Cities {
		stats.ByCity = append(stats.ByCity, GroupCount{choice.Name, cityCounts[domain.City(choice.Code)]})
	}
	for _, choice := range domain.PropertyTypes {
		stats.ByPropertyType = append(stats.ByPropertyType, GroupCount{choice.Name, propertyCounts[domain.PropertyType(choice.Code)]})
	}
	for _, choice := range domain.Timelines {
		stats.ByTimeline = append(stats.ByTimeline, GroupCount{choice.Name, timelineCounts[domain.Timeline(choice.Code)]})
	}

	return stats, nil
}
