package csvio

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"buyer_leads_backend/internal/leads/domain"
)

// ExportHeaders is the fixed export column set: every import column plus the
// store-assigned fields. Headers are machine field names, same as import.
var ExportHeaders = []string{
	"id", "full_name", "email", "phone", "city", "property_type", "bhk",
	"purpose", "budget_min", "budget_max", "timeline", "source", "status",
	"notes", "tags", "created_at", "updated_at",
}

// Export writes the leads as CSV in the order given. A lead with no BHK gets
// an empty bhk cell; tags are comma-joined.
func Export(w io.Writer, leads []domain.Lead) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(ExportHeaders); err != nil {
		return err
	}

	for _, lead := range leads {
		propertyType, bhk := lead.Intent.Columns()
		bhkCell := ""
		if bhk != nil {
			bhkCell = string(*bhk)
		}

		row := []string{
			lead.ID.String(),
			lead.FullName,
			lead.Email,
			lead.Phone,
			string(lead.City),
			string(propertyType),
			bhkCell,
			string(lead.Purpose),
			strconv.FormatInt(lead.BudgetMin, 10),
			strconv.FormatInt(lead.BudgetMax, 10),
			string(lead.Timeline),
			string(lead.Source),
			string(lead.Status),
			lead.Notes,
			strings.Join(lead.Tags, ","),
			lead.CreatedAt.UTC().Format(time.RFC3339),
			lead.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
