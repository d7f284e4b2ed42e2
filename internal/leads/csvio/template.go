package csvio

import (
	"bytes"
	"encoding/csv"

	"buyer_leads_backend/internal/leads/schema"
)

// templateExample is the single sample row shipped with the import template.
// It passes validation as-is so users can round-trip it.
var templateExample = map[string]string{
	"full_name":     "Rahul Sharma",
	"email":         "rahul.sharma@example.com",
	"phone":         "9876543210",
	"city":          "mumbai",
	"property_type": "apartment",
	"bhk":           "2bhk",
	"purpose":       "buy",
	"budget_min":    "5000000",
	"budget_max":    "7500000",
	"timeline":      "3months",
	"source":        "website",
	"status":        "new",
	"notes":         "Prefers sea-facing units",
	"tags":          "premium,verified",
}

// Template renders the import template: the full column header plus exactly
// one example row.
func Template() []byte {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	_ = writer.Write(schema.Fields)

	example := make([]string, len(schema.Fields))
	for i, field := range schema.Fields {
		example[i] = templateExample[field]
	}
	_ = writer.Write(example)

	writer.Flush()
	return buf.Bytes()
}
