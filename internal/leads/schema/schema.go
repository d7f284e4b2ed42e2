// Package schema is the lead validation engine. It turns a raw candidate
// record into a normalized lead candidate or a full, ordered list of field
// errors. Validation is a pure function of its input: no I/O, no clock.
//
// Rules live in a static per-field table evaluated by a fixed driver, with an
// explicit cross-field pass afterwards. Cross-field rules only run once the
// fields they reference parse structurally, so a record never gets a
// "budget_max < budget_min" error on top of "budget_max is not a number".
package schema

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"buyer_leads_backend/internal/leads/domain"
)

// Record is a raw candidate: field name to raw string value. CSV rows map
// onto it directly; API payloads are flattened into it by the transport layer.
type Record map[string]string

// Rule identifies which validation rule a field violated.
type Rule string

const (
	RuleRequired                Rule = "Required"
	RuleInvalidEnumValue        Rule = "InvalidEnumValue"
	RuleInvalidFormat           Rule = "InvalidFormat"
	RuleTooLong                 Rule = "TooLong"
	RuleMissingConditionalField Rule = "MissingConditionalField"
	RuleInvalidNumber           Rule = "InvalidNumber"
	RuleNegativeValue           Rule = "NegativeValue"
	RuleBudgetRangeInvalid      Rule = "BudgetRangeInvalid"
)

// FieldError is one rule violation on one field.
type FieldError struct {
	Field   string `json:"field"`
	Rule    Rule   `json:"rule"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Candidate is a normalized, fully validated lead ready for persistence.
// Identity and timestamps are assigned by the store, not here.
type Candidate struct {
	FullName  string
	Email     string
	Phone     string
	City      domain.City
	Intent    domain.PropertyIntent
	Purpose   domain.Purpose
	BudgetMin int64
	BudgetMax int64
	Timeline  domain.Timeline
	Source    domain.Source
	Status    domain.Status
	Notes     string
	Tags      []string
}

const (
	maxNameLen  = 100
	maxEmailLen = 100
	maxPhoneLen = 15
	maxTagLen   = 50
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// RequiredFields is the canonical list of fields a record must supply,
// in schema order. bhk is conditionally required and listed separately.
var RequiredFields = []string{
	"full_name", "email", "phone", "city", "property_type", "purpose",
	"budget_min", "budget_max", "timeline", "source",
}

// Fields is the full column set in schema order, including optional fields.
var Fields = []string{
	"full_name", "email", "phone", "city", "property_type", "bhk", "purpose",
	"budget_min", "budget_max", "timeline", "source", "status", "notes", "tags",
}

// fieldRule validates one field's raw value, which is non-empty by the time
// check runs. The driver handles required/empty handling uniformly.
type fieldRule struct {
	field    string
	required bool
	check    func(value string) *FieldError
}

var fieldRules = []fieldRule{
	{"full_name", true, maxLenRule("full_name", maxNameLen)},
	{"email", true, emailRule},
	{"phone", true, maxLenRule("phone", maxPhoneLen)},
	{"city", true, enumRule("city", domain.Cities)},
	{"property_type", true, enumRule("property_type", domain.PropertyTypes)},
	// bhk is validated in the conditional pass; its enum membership depends
	// on property_type parsing first.
	{"purpose", true, enumRule("purpose", domain.Purposes)},
	{"budget_min", true, budgetRule("budget_min")},
	{"budget_max", true, budgetRule("budget_max")},
	{"timeline", true, enumRule("timeline", domain.Timelines)},
	{"source", true, enumRule("source", domain.Sources)},
	{"status", false, enumRule("status", domain.Statuses)},
}

// Validate runs every rule against the record and either returns the
// normalized candidate or the complete ordered list of violations.
// Violations on one field never mask violations on another.
func Validate(record Record) (Candidate, []FieldError) {
	var errs []FieldError

	get := func(field string) string {
		return strings.TrimSpace(record[field])
	}

	for _, rule := range fieldRules {
		value := get(rule.field)
		if value == "" {
			if rule.required {
				errs = append(errs, FieldError{
					Field:   rule.field,
					Rule:    RuleRequired,
					Message: fmt.Sprintf("%s is required", rule.field),
				})
			}
			continue
		}
		if fieldErr := rule.check(value); fieldErr != nil {
			errs = append(errs, *fieldErr)
		}
	}

	for _, tag := range splitTags(get("tags")) {
		if len(tag) > maxTagLen {
			errs = append(errs, FieldError{
				Field:   "tags",
				Rule:    RuleTooLong,
				Message: fmt.Sprintf("tag %q exceeds %d characters", tag, maxTagLen),
			})
			break
		}
	}

	errs = append(errs, crossFieldErrors(get)...)
	if len(errs) > 0 {
		return Candidate{}, errs
	}

	return buildCandidate(get), nil
}

// crossFieldErrors evaluates the bhk-requirement and budget-ordering rules.
// Each only fires once the fields it references parse structurally.
func crossFieldErrors(get func(string) string) []FieldError {
	var errs []FieldError

	propertyType := domain.PropertyType(get("property_type"))
	bhkValue := get("bhk")
	switch {
	case propertyType.Valid() && propertyType.RequiresBHK():
		if bhkValue == "" {
			errs = append(errs, FieldError{
				Field:   "bhk",
				Rule:    RuleMissingConditionalField,
				Message: "bhk is required for apartments and villas",
			})
		} else if !domain.BHK(bhkValue).Valid() {
			errs = append(errs, *enumError("bhk", domain.BHKs, bhkValue))
		}
	case propertyType.Valid():
		// Non-residential: a supplied bhk is accepted and ignored, never an error.
	case bhkValue != "" && !domain.BHK(bhkValue).Valid():
		// property_type did not parse, so the conditional rule cannot run;
		// plain enum membership still applies.
		errs = append(errs, *enumError("bhk", domain.BHKs, bhkValue))
	}

	budgetMin, minOK := parseBudget(get("budget_min"))
	budgetMax, maxOK := parseBudget(get("budget_max"))
	if minOK && maxOK && budgetMax < budgetMin {
		errs = append(errs, FieldError{
			Field:   "budget_max",
			Rule:    RuleBudgetRangeInvalid,
			Message: "budget_max must be greater than or equal to budget_min",
		})
	}

	return errs
}

func buildCandidate(get func(string) string) Candidate {
	propertyType := domain.PropertyType(get("property_type"))
	var intent domain.PropertyIntent
	if propertyType.RequiresBHK() {
		intent, _ = domain.NewResidentialIntent(propertyType, domain.BHK(get("bhk")))
	} else {
		intent, _ = domain.NewNonResidentialIntent(propertyType)
	}

	budgetMin, _ := parseBudget(get("budget_min"))
	budgetMax, _ := parseBudget(get("budget_max"))

	status := domain.Status(get("status"))
	if status == "" {
		status = domain.StatusNew
	}

	return Candidate{
		FullName:  get("full_name"),
		Email:     get("email"),
		Phone:     get("phone"),
		City:      domain.City(get("city")),
		Intent:    intent,
		Purpose:   domain.Purpose(get("purpose")),
		BudgetMin: budgetMin,
		BudgetMax: budgetMax,
		Timeline:  domain.Timeline(get("timeline")),
		Source:    domain.Source(get("source")),
		Status:    status,
		Notes:     get("notes"),
		Tags:      splitTags(get("tags")),
	}
}

// parseBudget accepts any non-negative number ParseFloat does, including
// decimal and scientific notation, and truncates to whole currency units.
func parseBudget(raw string) (int64, bool) {
	if raw == "" {
		return 0, false
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil || parsed < 0 {
		return 0, false
	}
	return int64(parsed), true
}

func budgetRule(field string) func(string) *FieldError {
	return func(value string) *FieldError {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return &FieldError{
				Field:   field,
				Rule:    RuleInvalidNumber,
				Message: fmt.Sprintf("%s must be a number", field),
			}
		}
		if parsed < 0 {
			return &FieldError{
				Field:   field,
				Rule:    RuleNegativeValue,
				Message: fmt.Sprintf("%s must not be negative", field),
			}
		}
		return nil
	}
}

func maxLenRule(field string, max int) func(string) *FieldError {
	return func(value string) *FieldError {
		if len(value) > max {
			return &FieldError{
				Field:   field,
				Rule:    RuleTooLong,
				Message: fmt.Sprintf("%s exceeds %d characters", field, max),
			}
		}
		return nil
	}
}

func emailRule(value string) *FieldError {
	if len(value) > maxEmailLen {
		return &FieldError{
			Field:   "email",
			Rule:    RuleTooLong,
			Message: fmt.Sprintf("email exceeds %d characters", maxEmailLen),
		}
	}
	if !emailPattern.MatchString(value) {
		return &FieldError{
			Field:   "email",
			Rule:    RuleInvalidFormat,
			Message: "invalid email format",
		}
	}
	return nil
}

func enumRule(field string, choices []domain.Choice) func(string) *FieldError {
	allowed := make(map[string]struct{}, len(choices))
	for _, choice := range choices {
		allowed[choice.Code] = struct{}{}
	}
	return func(value string) *FieldError {
		if _, ok := allowed[value]; !ok {
			return enumError(field, choices, value)
		}
		return nil
	}
}

func enumError(field string, choices []domain.Choice, value string) *FieldError {
	codes := make([]string, len(choices))
	for i, choice := range choices {
		codes[i] = choice.Code
	}
	return &FieldError{
		Field:   field,
		Rule:    RuleInvalidEnumValue,
		Message: fmt.Sprintf("invalid %s %q, must be one of: %s", field, value, strings.Join(codes, ", ")),
	}
}

// splitTags parses the comma-separated tags column into a duplicate-free,
// order-preserving list.
func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	seen := make(map[string]struct{})
	var tags []string
	for _, part := range strings.Split(raw, ",") {
		tag := strings.TrimSpace(part)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}
