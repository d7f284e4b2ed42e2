package schema

import (
	"strings"
	"testing"

	"buyer_leads_backend/internal/leads/domain"
)

func validRecord() Record {
	return Record{
		"full_name":     "Asha Verma",
		"email":         "asha@example.com",
		"phone":         "9876543210",
		"city":          "pune",
		"property_type": "apartment",
		"bhk":           "2bhk",
		"purpose":       "buy",
		"budget_min":    "4500000",
		"budget_max":    "6000000",
		"timeline":      "3months",
		"source":        "website",
	}
}

func findError(errs []FieldError, field string) (FieldError, bool) {
	for _, e := range errs {
		if e.Field == field {
			return e, true
		}
	}
	return FieldError{}, false
}

func TestValidateAcceptsCompleteRecord(t *testing.T) {
	candidate, errs := Validate(validRecord())
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
	if candidate.FullName != "Asha Verma" {
		t.Fatalf("full_name = %q", candidate.FullName)
	}
	if candidate.City != domain.CityPune {
		t.Fatalf("city = %q", candidate.City)
	}
	bhk, ok := candidate.Intent.BHK()
	if !ok || bhk != domain.BHK2 {
		t.Fatalf("intent bhk = %q ok=%v", bhk, ok)
	}
	if candidate.BudgetMin != 4500000 || candidate.BudgetMax != 6000000 {
		t.Fatalf("budgets = %d/%d", candidate.BudgetMin, candidate.BudgetMax)
	}
	if candidate.Status != domain.StatusNew {
		t.Fatalf("status should default to new, got %q", candidate.Status)
	}
}

func TestValidateCollectsAllMissingRequired(t *testing.T) {
	_, errs := Validate(Record{})
	if len(errs) != len(RequiredFields) {
		t.Fatalf("expected %d errors, got %d: %v", len(RequiredFields), len(errs), errs)
	}
	for i, field := range RequiredFields {
		if errs[i].Field != field || errs[i].Rule != RuleRequired {
			t.Fatalf("error %d = %+v, want Required on %s", i, errs[i], field)
		}
	}
}

func TestValidateTrimsWhitespace(t *testing.T) {
	record := validRecord()
	record["full_name"] = "  Asha Verma  "
	record["city"] = " pune "
	candidate, errs := Validate(record)
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
	if candidate.FullName != "Asha Verma" || candidate.City != domain.CityPune {
		t.Fatalf("values not trimmed: %q %q", candidate.FullName, candidate.City)
	}
}

func TestValidateWhitespaceOnlyIsMissing(t *testing.T) {
	record := validRecord()
	record["email"] = "   "
	_, errs := Validate(record)
	fieldErr, ok := findError(errs, "email")
	if !ok || fieldErr.Rule != RuleRequired {
		t.Fatalf("expected Required on email, got %v", errs)
	}
}

func TestValidateEmailFormat(t *testing.T) {
	record := validRecord()
	record["email"] = "not-an-email"
	_, errs := Validate(record)
	fieldErr, ok := findError(errs, "email")
	if !ok || fieldErr.Rule != RuleInvalidFormat {
		t.Fatalf("expected InvalidFormat on email, got %v", errs)
	}
}

func TestValidateLengthLimits(t *testing.T) {
	record := validRecord()
	record["full_name"] = strings.Repeat("a", 101)
	record["phone"] = strings.Repeat("1", 16)
	_, errs := Validate(record)
	if fieldErr, ok := findError(errs, "full_name"); !ok || fieldErr.Rule != RuleTooLong {
		t.Fatalf("expected TooLong on full_name, got %v", errs)
	}
	if fieldErr, ok := findError(errs, "phone"); !ok || fieldErr.Rule != RuleTooLong {
		t.Fatalf("expected TooLong on phone, got %v", errs)
	}
}

func TestValidateEnumMembership(t *testing.T) {
	record := validRecord()
	record["city"] = "chennai"
	record["source"] = "billboard"
	_, errs := Validate(record)
	if fieldErr, ok := findError(errs, "city"); !ok || fieldErr.Rule != RuleInvalidEnumValue {
		t.Fatalf("expected InvalidEnumValue on city, got %v", errs)
	}
	if fieldErr, ok := findError(errs, "source"); !ok || fieldErr.Rule != RuleInvalidEnumValue {
		t.Fatalf("expected InvalidEnumValue on source, got %v", errs)
	}
}

func TestValidateBHKRequiredForResidential(t *testing.T) {
	for _, propertyType := range []string{"apartment", "villa"} {
		record := validRecord()
		record["property_type"] = propertyType
		delete(record, "bhk")
		_, errs := Validate(record)
		fieldErr, ok := findError(errs, "bhk")
		if !ok || fieldErr.Rule != RuleMissingConditionalField {
			t.Fatalf("%s: expected MissingConditionalField on bhk, got %v", propertyType, errs)
		}
	}
}

func TestValidateBHKIgnoredForNonResidential(t *testing.T) {
	record := validRecord()
	record["property_type"] = "plot"
	record["bhk"] = "mansion"
	candidate, errs := Validate(record)
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
	if _, ok := candidate.Intent.BHK(); ok {
		t.Fatalf("plot intent should carry no bhk")
	}
}

func TestValidateBHKEnumForResidential(t *testing.T) {
	record := validRecord()
	record["bhk"] = "6bhk"
	_, errs := Validate(record)
	fieldErr, ok := findError(errs, "bhk")
	if !ok || fieldErr.Rule != RuleInvalidEnumValue {
		t.Fatalf("expected InvalidEnumValue on bhk, got %v", errs)
	}
}

func TestValidateBudgetNumbers(t *testing.T) {
	record := validRecord()
	record["budget_min"] = "abc"
	record["budget_max"] = "-5"
	_, errs := Validate(record)
	if fieldErr, ok := findError(errs, "budget_min"); !ok || fieldErr.Rule != RuleInvalidNumber {
		t.Fatalf("expected InvalidNumber on budget_min, got %v", errs)
	}
	if fieldErr, ok := findError(errs, "budget_max"); !ok || fieldErr.Rule != RuleNegativeValue {
		t.Fatalf("expected NegativeValue on budget_max, got %v", errs)
	}
	for _, e := range errs {
		if e.Rule == RuleBudgetRangeInvalid {
			t.Fatalf("range rule must not fire when budgets do not parse: %v", errs)
		}
	}
}

func TestValidateBudgetOrdering(t *testing.T) {
	record := validRecord()
	record["budget_min"] = "6000000"
	record["budget_max"] = "4500000"
	_, errs := Validate(record)
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %v", errs)
	}
	if errs[0].Field != "budget_max" || errs[0].Rule != RuleBudgetRangeInvalid {
		t.Fatalf("expected BudgetRangeInvalid on budget_max, got %+v", errs[0])
	}
}

func TestValidateBudgetEqualIsValid(t *testing.T) {
	record := validRecord()
	record["budget_min"] = "5000000"
	record["budget_max"] = "5000000"
	if _, errs := Validate(record); len(errs) != 0 {
		t.Fatalf("equal budgets should validate, got %v", errs)
	}
}

func TestValidateBudgetScientificNotation(t *testing.T) {
	record := validRecord()
	record["budget_min"] = "45e5"
	candidate, errs := Validate(record)
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
	if candidate.BudgetMin != 4500000 {
		t.Fatalf("budget_min = %d, want 4500000", candidate.BudgetMin)
	}
}

func TestValidateBudgetDecimalTruncates(t *testing.T) {
	record := validRecord()
	record["budget_max"] = "6000000.75"
	candidate, errs := Validate(record)
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
	if candidate.BudgetMax != 6000000 {
		t.Fatalf("budget_max = %d, want 6000000", candidate.BudgetMax)
	}
}

func TestValidateStatusEnum(t *testing.T) {
	record := validRecord()
	record["status"] = "reopened"
	_, errs := Validate(record)
	fieldErr, ok := findError(errs, "status")
	if !ok || fieldErr.Rule != RuleInvalidEnumValue {
		t.Fatalf("expected InvalidEnumValue on status, got %v", errs)
	}

	record["status"] = "qualified"
	candidate, errs := Validate(record)
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
	if candidate.Status != domain.StatusQualified {
		t.Fatalf("status = %q", candidate.Status)
	}
}

func TestValidateTags(t *testing.T) {
	record := validRecord()
	record["tags"] = " vip , hot,vip, , nri "
	candidate, errs := Validate(record)
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
	want := []string{"vip", "hot", "nri"}
	if len(candidate.Tags) != len(want) {
		t.Fatalf("tags = %v, want %v", candidate.Tags, want)
	}
	for i := range want {
		if candidate.Tags[i] != want[i] {
			t.Fatalf("tags = %v, want %v", candidate.Tags, want)
		}
	}
}

func TestValidateTagTooLong(t *testing.T) {
	record := validRecord()
	record["tags"] = strings.Repeat("x", 51)
	_, errs := Validate(record)
	fieldErr, ok := findError(errs, "tags")
	if !ok || fieldErr.Rule != RuleTooLong {
		t.Fatalf("expected TooLong on tags, got %v", errs)
	}
}

func TestValidateUnknownFieldsIgnored(t *testing.T) {
	record := validRecord()
	record["favourite_colour"] = "teal"
	if _, errs := Validate(record); len(errs) != 0 {
		t.Fatalf("unknown field must be ignored, got %v", errs)
	}
}
