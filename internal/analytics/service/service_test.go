package service

import (
	"context"
	"testing"
	"time"

	"buyer_leads_backend/internal/leads/domain"

	"github.com/google/uuid"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

type fakeSource struct {
	leads []domain.Lead
}

func (f fakeSource) ListAll(_ context.Context) ([]domain.Lead, error) {
	return f.leads, nil
}

func (f fakeSource) ListCreatedBetween(_ context.Context, from, to time.Time) ([]domain.Lead, error) {
	var out []domain.Lead
	for _, lead := range f.leads {
		if !lead.CreatedAt.Before(from) && lead.CreatedAt.Before(to) {
			out = append(out, lead)
		}
	}
	return out, nil
}

type leadSpec struct {
	status    domain.Status
	city      domain.City
	property  domain.PropertyType
	bhk       domain.BHK
	timeline  domain.Timeline
	source    domain.Source
	budgetMin int64
	budgetMax int64
	createdAt time.Time
	updatedAt time.Time
}

func makeLead(spec leadSpec) domain.Lead {
	var intent domain.PropertyIntent
	if spec.property.RequiresBHK() {
		intent, _ = domain.NewResidentialIntent(spec.property, spec.bhk)
	} else {
		intent, _ = domain.NewNonResidentialIntent(spec.property)
	}
	if spec.updatedAt.IsZero() {
		spec.updatedAt = spec.createdAt
	}
	return domain.Lead{
		ID:        uuid.New(),
		FullName:  "Lead",
		Email:     "lead@example.com",
		Phone:     "+919876543210",
		City:      spec.city,
		Intent:    intent,
		Purpose:   domain.PurposeBuy,
		BudgetMin: spec.budgetMin,
		BudgetMax: spec.budgetMax,
		Timeline:  spec.timeline,
		Source:    spec.source,
		Status:    spec.status,
		CreatedAt: spec.createdAt,
		UpdatedAt: spec.updatedAt,
	}
}

func newService(leads ...domain.Lead) *Service {
	return NewWithClock(fakeSource{leads: leads}, func() time.Time { return testNow })
}

func baseSpec(daysAgo int) leadSpec {
	return leadSpec{
		status:    domain.StatusNew,
		city:      domain.CityPune,
		property:  domain.PropertyPlot,
		timeline:  domain.TimelineThreeMo,
		source:    domain.SourceWebsite,
		budgetMin: 3_000_000,
		budgetMax: 4_000_000,
		createdAt: testNow.AddDate(0, 0, -daysAgo),
	}
}

func TestDashboardEmpty(t *testing.T) {
	stats, err := newService().Dashboard(context.Background())
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if stats.TotalLeads != 0 || stats.ConversionRate != 0 || stats.AvgBudgetMin != 0 {
		t.Fatalf("stats = %+v", stats)
	}
	if len(stats.ByStatus) != 5 || len(stats.ByCity) != 5 || len(stats.ByPropertyType) != 4 || len(stats.ByTimeline) != 5 {
		t.Fatalf("empty dashboard must still list every bucket: %+v", stats)
	}
}

func TestDashboardCounts(t *testing.T) {
	converted := baseSpec(2)
	converted.status = domain.StatusConverted
	old := baseSpec(30)
	old.city = domain.CityMumbai

	svc := newService(makeLead(baseSpec(1)), makeLead(converted), makeLead(old))
	stats, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if stats.TotalLeads != 3 {
		t.Fatalf("total = %d", stats.TotalLeads)
	}
	if stats.RecentLeads != 2 {
		t.Fatalf("recent = %d, want leads from the last 7 days only", stats.RecentLeads)
	}
	// 1 of 3 converted, rounded to a whole percent.
	if stats.ConversionRate != 33 {
		t.Fatalf("conversion = %v", stats.ConversionRate)
	}
	for _, group := range stats.ByCity {
		switch group.Name {
		case "Pune":
			if group.Count != 2 {
				t.Fatalf("Pune = %d", group.Count)
			}
		case "Mumbai":
			if group.Count != 1 {
				t.Fatalf("Mumbai = %d", group.Count)
			}
		default:
			if group.Count != 0 {
				t.Fatalf("%s = %d", group.Name, group.Count)
			}
		}
	}
}

func TestDashboardOnlyConvertedStatusCounts(t *testing.T) {
	qualified := baseSpec(1)
	qualified.status = domain.StatusQualified
	lost := baseSpec(1)
	lost.status = domain.StatusLost

	stats, err := newService(makeLead(qualified), makeLead(lost)).Dashboard(context.Background())
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if stats.ConversionRate != 0 {
		t.Fatalf("conversion = %v, only converted status counts", stats.ConversionRate)
	}
}

func TestDashboardAvgBudgets(t *testing.T) {
	a := baseSpec(1)
	a.budgetMin, a.budgetMax = 1_000_000, 2_000_000
	b := baseSpec(2)
	b.budgetMin, b.budgetMax = 2_000_000, 5_000_000

	stats, err := newService(makeLead(a), makeLead(b)).Dashboard(context.Background())
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if stats.AvgBudgetMin != 1_500_000 || stats.AvgBudgetMax != 3_500_000 {
		t.Fatalf("avg budgets = %v/%v", stats.AvgBudgetMin, stats.AvgBudgetMax)
	}
}

func TestRangeDailySeriesShape(t *testing.T) {
	svc := newService(makeLead(baseSpec(0)), makeLead(baseSpec(3)), makeLead(baseSpec(3)))
	report, err := svc.Range(context.Background(), 7)
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if len(report.DailySeries) != 8 {
		t.Fatalf("series has %d points, want days+1", len(report.DailySeries))
	}
	if report.DailySeries[0].Date != "2025-06-08" {
		t.Fatalf("first date = %s", report.DailySeries[0].Date)
	}
	last := report.DailySeries[len(report.DailySeries)-1]
	if last.Date != "2025-06-15" || last.Count != 1 {
		t.Fatalf("last point = %+v", last)
	}
	for _, point := range report.DailySeries {
		if point.Date == "2025-06-12" && point.Count != 2 {
			t.Fatalf("2025-06-12 = %d", point.Count)
		}
	}
}

func TestRangeExcludesLeadsOutsideWindow(t *testing.T) {
	svc := newService(makeLead(baseSpec(1)), makeLead(baseSpec(40)))
	report, err := svc.Range(context.Background(), 7)
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if report.TotalLeads != 1 {
		t.Fatalf("total = %d", report.TotalLeads)
	}
}

func TestRangeSourcePerformanceTwoDecimals(t *testing.T) {
	specs := make([]domain.Lead, 0, 3)
	for i := 0; i < 3; i++ {
		spec := baseSpec(1)
		spec.source = domain.SourceReferral
		if i == 0 {
			spec.status = domain.StatusConverted
		}
		specs = append(specs, makeLead(spec))
	}

	report, err := newService(specs...).Range(context.Background(), 7)
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	for _, perf := range report.SourcePerformance {
		if perf.Source == "referral" {
			if perf.Total != 3 || perf.Converted != 1 {
				t.Fatalf("referral = %+v", perf)
			}
			if perf.ConversionRate != 33.33 {
				t.Fatalf("rate = %v, want 33.33", perf.ConversionRate)
			}
		}
	}
}

func TestRangeCityShareAndAvgBudget(t *testing.T) {
	pune := baseSpec(1)
	pune.budgetMax = 6_000_000
	puneB := baseSpec(2)
	puneB.budgetMax = 8_000_000
	delhi := baseSpec(1)
	delhi.city = domain.CityDelhi

	report, err := newService(makeLead(pune), makeLead(puneB), makeLead(delhi)).Range(context.Background(), 7)
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	for _, perf := range report.CityPerformance {
		switch perf.City {
		case "pune":
			if perf.Count != 2 || perf.AvgBudgetMax != 7_000_000 || perf.Share != 67 {
				t.Fatalf("pune = %+v", perf)
			}
		case "delhi":
			if perf.Count != 1 || perf.Share != 33 {
				t.Fatalf("delhi = %+v", perf)
			}
		}
	}
}

func TestRangePropertyAnalysisBHKBreakdown(t *testing.T) {
	apartment := baseSpec(1)
	apartment.property = domain.PropertyApartment
	apartment.bhk = domain.BHK2
	apartmentB := baseSpec(2)
	apartmentB.property = domain.PropertyApartment
	apartmentB.bhk = domain.BHK2

	report, err := newService(makeLead(apartment), makeLead(apartmentB), makeLead(baseSpec(1))).Range(context.Background(), 7)
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	for _, analysis := range report.PropertyAnalysis {
		switch analysis.PropertyType {
		case "apartment":
			if analysis.Count != 2 || len(analysis.BHKBreakdown) != 5 {
				t.Fatalf("apartment = %+v", analysis)
			}
			if analysis.Share != 66.7 {
				t.Fatalf("apartment share = %v, want 66.7", analysis.Share)
			}
			for _, bucket := range analysis.BHKBreakdown {
				if bucket.Name == "2 BHK" && bucket.Count != 2 {
					t.Fatalf("2 BHK = %d", bucket.Count)
				}
			}
		case "plot":
			if analysis.Count != 1 || analysis.BHKBreakdown != nil {
				t.Fatalf("plot = %+v", analysis)
			}
			if analysis.Share != 33.3 {
				t.Fatalf("plot share = %v, want 33.3", analysis.Share)
			}
		}
	}
}

func TestRangeBudgetBuckets(t *testing.T) {
	budgets := []int64{1_000_000, 2_499_999, 2_500_000, 6_000_000, 9_999_999, 15_000_000, 20_000_000}
	leads := make([]domain.Lead, 0, len(budgets))
	for i, budget := range budgets {
		spec := baseSpec(i%3 + 1)
		spec.budgetMin = budget
		leads = append(leads, makeLead(spec))
	}

	report, err := newService(leads...).Range(context.Background(), 7)
	if err != nil {
		t.Fatalf("range: %v", err)
	}

	want := map[string]int{
		"under_25L": 2,
		"25L_50L":   1,
		"50L_75L":   1,
		"75L_1Cr":   1,
		"1Cr_2Cr":   1,
		"above_2Cr": 1,
	}
	sum := 0
	for _, bucket := range report.BudgetBuckets {
		if bucket.Count != want[bucket.Label] {
			t.Fatalf("%s = %d, want %d", bucket.Label, bucket.Count, want[bucket.Label])
		}
		sum += bucket.Count
	}
	if sum != len(budgets) {
		t.Fatalf("buckets sum to %d, want %d", sum, len(budgets))
	}
}

func TestRangeTimelineUrgencySorted(t *testing.T) {
	report, err := newService(makeLead(baseSpec(1))).Range(context.Background(), 7)
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if len(report.TimelineUrgency) != 5 {
		t.Fatalf("urgency rows = %d", len(report.TimelineUrgency))
	}
	for i := 1; i < len(report.TimelineUrgency); i++ {
		if report.TimelineUrgency[i].UrgencyScore > report.TimelineUrgency[i-1].UrgencyScore {
			t.Fatalf("urgency not sorted: %+v", report.TimelineUrgency)
		}
	}
	if report.TimelineUrgency[0].Timeline != "immediate" || report.TimelineUrgency[0].UrgencyScore != 5 {
		t.Fatalf("top row = %+v", report.TimelineUrgency[0])
	}
	for _, row := range report.TimelineUrgency {
		want := 0.0
		if row.Timeline == "3months" {
			want = 100
		}
		if row.Share != want {
			t.Fatalf("%s share = %v, want %v", row.Timeline, row.Share, want)
		}
	}
}

func TestTrendsMonthly(t *testing.T) {
	may := baseSpec(0)
	may.createdAt = time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)
	mayConverted := baseSpec(0)
	mayConverted.createdAt = time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC)
	mayConverted.status = domain.StatusConverted
	june := baseSpec(1)

	report, err := newService(makeLead(may), makeLead(mayConverted), makeLead(june)).Trends(context.Background())
	if err != nil {
		t.Fatalf("trends: %v", err)
	}
	if len(report.Monthly) != 2 {
		t.Fatalf("months = %d", len(report.Monthly))
	}
	if report.Monthly[0].Month != "2025-05" || report.Monthly[1].Month != "2025-06" {
		t.Fatalf("months out of order: %+v", report.Monthly)
	}
	mayTrend := report.Monthly[0]
	if mayTrend.Total != 2 || mayTrend.ByStatus["converted"] != 1 || mayTrend.ByStatus["new"] != 1 {
		t.Fatalf("may = %+v", mayTrend)
	}
}

func TestTrendsWeeklyShape(t *testing.T) {
	thisWeek := baseSpec(0)
	thisWeekConverted := baseSpec(1)
	thisWeekConverted.status = domain.StatusConverted

	report, err := newService(makeLead(thisWeek), makeLead(thisWeekConverted)).Trends(context.Background())
	if err != nil {
		t.Fatalf("trends: %v", err)
	}
	if len(report.Weekly) != 8 {
		t.Fatalf("weeks = %d, want 8", len(report.Weekly))
	}
	// 2025-06-15 is a Sunday in ISO week 24.
	current := report.Weekly[7]
	if current.Week != "2025-W24" {
		t.Fatalf("current week = %s", current.Week)
	}
	if current.Total != 2 || current.Converted != 1 || current.ConversionRate != 50.0 {
		t.Fatalf("current week = %+v", current)
	}
	if report.Weekly[0].Week != "2025-W17" {
		t.Fatalf("oldest week = %s", report.Weekly[0].Week)
	}
}

func TestConversionFunnelCumulative(t *testing.T) {
	statuses := []domain.Status{
		domain.StatusNew, domain.StatusNew,
		domain.StatusContacted,
		domain.StatusQualified,
		domain.StatusConverted,
		domain.StatusLost,
	}
	leads := make([]domain.Lead, 0, len(statuses))
	for _, status := range statuses {
		spec := baseSpec(1)
		spec.status = status
		leads = append(leads, makeLead(spec))
	}

	report, err := newService(leads...).Conversion(context.Background(), 7)
	if err != nil {
		t.Fatalf("conversion: %v", err)
	}
	counts := map[string]int{}
	for _, stage := range report.Funnel {
		counts[stage.Stage] = stage.Count
	}
	if counts["total"] != 6 || counts["contacted"] != 3 || counts["qualified"] != 2 || counts["converted"] != 1 {
		t.Fatalf("funnel = %+v", report.Funnel)
	}
	for i := 1; i < len(report.Funnel); i++ {
		if report.Funnel[i].Count > report.Funnel[i-1].Count {
			t.Fatalf("funnel not monotonic: %+v", report.Funnel)
		}
	}
	for _, stage := range report.Funnel {
		if stage.Stage == "converted" && stage.Rate != 16.7 {
			t.Fatalf("converted rate = %v, want 16.7", stage.Rate)
		}
	}
}

func TestConversionBySourceTwoDecimals(t *testing.T) {
	specs := make([]domain.Lead, 0, 3)
	for i := 0; i < 3; i++ {
		spec := baseSpec(1)
		spec.source = domain.SourceReferral
		if i == 0 {
			spec.status = domain.StatusConverted
		}
		specs = append(specs, makeLead(spec))
	}

	report, err := newService(specs...).Conversion(context.Background(), 7)
	if err != nil {
		t.Fatalf("conversion: %v", err)
	}
	for _, entry := range report.BySource {
		if entry.Source == "referral" {
			if entry.Total != 3 || entry.Converted != 1 {
				t.Fatalf("referral = %+v", entry)
			}
			if entry.ConversionRate != 33.33 {
				t.Fatalf("rate = %v, want 33.33", entry.ConversionRate)
			}
		}
	}
}

func TestConversionEmptyWindow(t *testing.T) {
	report, err := newService().Conversion(context.Background(), 7)
	if err != nil {
		t.Fatalf("conversion: %v", err)
	}
	for _, stage := range report.Funnel {
		if stage.Count != 0 || stage.Rate != 0 {
			t.Fatalf("empty funnel stage = %+v", stage)
		}
	}
}

func TestConversionAvgDaysByTimeline(t *testing.T) {
	spec := baseSpec(6)
	spec.status = domain.StatusConverted
	spec.timeline = domain.TimelineImmediate
	spec.updatedAt = spec.createdAt.AddDate(0, 0, 3)

	specB := baseSpec(5)
	specB.status = domain.StatusConverted
	specB.timeline = domain.TimelineImmediate
	specB.updatedAt = specB.createdAt.AddDate(0, 0, 4)

	report, err := newService(makeLead(spec), makeLead(specB)).Conversion(context.Background(), 7)
	if err != nil {
		t.Fatalf("conversion: %v", err)
	}
	for _, entry := range report.AvgDaysByTimeline {
		if entry.Timeline == "immediate" {
			if entry.Converted != 2 || entry.AvgDays != 3.5 {
				t.Fatalf("immediate = %+v", entry)
			}
		} else if entry.Converted != 0 || entry.AvgDays != 0 {
			t.Fatalf("%s = %+v", entry.Timeline, entry)
		}
	}
}

func TestConversionDefaultsDays(t *testing.T) {
	report, err := newService(makeLead(baseSpec(20))).Conversion(context.Background(), 0)
	if err != nil {
		t.Fatalf("conversion: %v", err)
	}
	if report.Days != DefaultRangeDays {
		t.Fatalf("days = %d", report.Days)
	}
	if report.TotalLeads != 1 {
		t.Fatalf("total = %d", report.TotalLeads)
	}
}
