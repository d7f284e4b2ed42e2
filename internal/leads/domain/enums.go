// Package domain holds the buyer-lead entity vocabulary: the fixed enum sets,
// their display names, and the property-intent invariant.
package domain

// City is the metro a buyer is looking in.
type City string

const (
	CityMumbai    City = "mumbai"
	CityDelhi     City = "delhi"
	CityBangalore City = "bangalore"
	CityPune      City = "pune"
	CityHyderabad City = "hyderabad"
)

// PropertyType is the kind of property the buyer wants.
type PropertyType string

const (
	PropertyApartment  PropertyType = "apartment"
	PropertyVilla      PropertyType = "villa"
	PropertyPlot       PropertyType = "plot"
	PropertyCommercial PropertyType = "commercial"
)

// BHK is the bedroom configuration, meaningful only for apartments and villas.
type BHK string

const (
	BHK1 BHK = "1bhk"
	BHK2 BHK = "2bhk"
	BHK3 BHK = "3bhk"
	BHK4 BHK = "4bhk"
	BHK5 BHK = "5bhk"
)

// Purpose is why the buyer is in the market.
type Purpose string

const (
	PurposeBuy        Purpose = "buy"
	PurposeRent       Purpose = "rent"
	PurposeInvestment Purpose = "investment"
)

// Timeline is how soon the buyer intends to transact, ordered by urgency.
type Timeline string

const (
	TimelineImmediate Timeline = "immediate"
	TimelineOneMonth  Timeline = "1month"
	TimelineThreeMo   Timeline = "3months"
	TimelineSixMo     Timeline = "6months"
	TimelineOneYear   Timeline = "1year"
)

// Source is where the lead came from.
type Source string

const (
	SourceWebsite       Source = "website"
	SourceReferral      Source = "referral"
	SourceSocialMedia   Source = "social_media"
	SourceAdvertisement Source = "advertisement"
	SourceWalkIn        Source = "walk_in"
)

// Status is the lead's pipeline state. Any status may move to any other;
// progression is not enforced by the entity.
type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusQualified Status = "qualified"
	StatusConverted Status = "converted"
	StatusLost      Status = "lost"
)

// Choice pairs an enum code with its human display name.
type Choice struct {
	Code string
	Name string
}

// The fixed choice sets, in their canonical order. Codes and display names
// are part of the external contract (CSV columns, report group names).
var (
	Cities = []Choice{
		{"mumbai", "Mumbai"},
		{"delhi", "Delhi"},
		{"bangalore", "Bangalore"},
		{"pune", "Pune"},
		{"hyderabad", "Hyderabad"},
	}
	PropertyTypes = []Choice{
		{"apartment", "Apartment"},
		{"villa", "Villa"},
		{"plot", "Plot"},
		{"commercial", "Commercial"},
	}
	BHKs = []Choice{
		{"1bhk", "1 BHK"},
		{"2bhk", "2 BHK"},
		{"3bhk", "3 BHK"},
		{"4bhk", "4 BHK"},
		{"5bhk", "5+ BHK"},
	}
	Purposes = []Choice{
		{"buy", "Buy"},
		{"rent", "Rent"},
		{"investment", "Investment"},
	}
	Timelines = []Choice{
		{"immediate", "Immediate"},
		{"1month", "Within 1 Month"},
		{"3months", "Within 3 Months"},
		{"6months", "Within 6 Months"},
		{"1year", "Within 1 Year"},
	}
	Sources = []Choice{
		{"website", "Website"},
		{"referral", "Referral"},
		{"social_media", "Social Media"},
		{"advertisement", "Advertisement"},
		{"walk_in", "Walk In"},
	}
	Statuses = []Choice{
		{"new", "New"},
		{"contacted", "Contacted"},
		{"qualified", "Qualified"},
		{"converted", "Converted"},
		{"lost", "Lost"},
	}
)

func codes(choices []Choice) map[string]string {
	out := make(map[string]string, len(choices))
	for _, choice := range choices {
		out[choice.Code] = choice.Name
	}
	return out
}

var (
	cityNames     = codes(Cities)
	propertyNames = codes(PropertyTypes)
	bhkNames      = codes(BHKs)
	purposeNames  = codes(Purposes)
	timelineNames = codes(Timelines)
	sourceNames   = codes(Sources)
	statusNames   = codes(Statuses)
)

func (c City) Valid() bool         { _, ok := cityNames[string(c)]; return ok }
func (p PropertyType) Valid() bool { _, ok := propertyNames[string(p)]; return ok }
func (b BHK) Valid() bool          { _, ok := bhkNames[string(b)]; return ok }
func (p Purpose) Valid() bool      { _, ok := purposeNames[string(p)]; return ok }
func (t Timeline) Valid() bool     { _, ok := timelineNames[string(t)]; return ok }
func (s Source) Valid() bool       { _, ok := sourceNames[string(s)]; return ok }
func (s Status) Valid() bool       { _, ok := statusNames[string(s)]; return ok }

func (c City) DisplayName() string         { return cityNames[string(c)] }
func (p PropertyType) DisplayName() string { return propertyNames[string(p)] }
func (b BHK) DisplayName() string          { return bhkNames[string(b)] }
func (p Purpose) DisplayName() string      { return purposeNames[string(p)] }
func (t Timeline) DisplayName() string     { return timelineNames[string(t)] }
func (s Source) DisplayName() string       { return sourceNames[string(s)] }
func (s Status) DisplayName() string       { return statusNames[string(s)] }

// UrgencyScore is the fixed ordinal weight of a timeline bucket, used for
// ranking in analytics. It is never stored on the lead.
func (t Timeline) UrgencyScore() int {
	switch t {
	case TimelineImmediate:
		return 5
	case TimelineOneMonth:
		return 4
	case TimelineThreeMo:
		return 3
	case TimelineSixMo:
		return 2
	case TimelineOneYear:
		return 1
	default:
		return 0
	}
}
