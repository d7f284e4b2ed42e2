// Package importer orchestrates bulk CSV imports: validate rows in parallel,
// persist the valid ones one at a time in file order.
package importer

import (
	"context"

	"buyer_leads_backend/internal/leads/domain"
	"buyer_leads_backend/internal/leads/schema"
	"buyer_leads_backend/platform/logger"

	"golang.org/x/sync/errgroup"
)

// Creator persists one validated candidate. The importer never touches the
// store directly.
type Creator interface {
	Create(ctx context.Context, candidate schema.Candidate) (domain.Lead, error)
}

// RowError reports why one data row was not imported. Row numbers are
// 1-based over data rows; the header row is not counted.
type RowError struct {
	Row    int           `json:"row"`
	Errors []string      `json:"errors"`
	Data   schema.Record `json:"data"`
}

// Result summarizes one import run. ValidRows counts leads actually created,
// so ValidRows+InvalidRows always equals TotalRows.
type Result struct {
	TotalRows   int        `json:"total_rows"`
	ValidRows   int        `json:"valid_rows"`
	InvalidRows int        `json:"invalid_rows"`
	Errors      []RowError `json:"errors"`
	Created     []domain.Lead
}

type Importer struct {
	creator Creator
	workers int
	log     *logger.Logger
}

func New(creator Creator, workers int, log *logger.Logger) *Importer {
	if workers < 1 {
		workers = 1
	}
	return &Importer{creator: creator, workers: workers, log: log}
}

type rowOutcome struct {
	candidate schema.Candidate
	errs      []schema.FieldError
}

// Run validates every record and persists the valid ones in row order. A row
// that fails persistence joins the error list like a validation failure; the
// rest of the file still imports. Only a dead context stops the run early.
func (im *Importer) Run(ctx context.Context, records []schema.Record) Result {
	result := Result{TotalRows: len(records)}
	if len(records) == 0 {
		return result
	}

	outcomes := make([]rowOutcome, len(records))

	group, _ := errgroup.WithContext(ctx)
	group.SetLimit(im.workers)
	for idx := range records {
		group.Go(func() error {
			candidate, errs := schema.Validate(records[idx])
			outcomes[idx] = rowOutcome{candidate: candidate, errs: errs}
			return nil
		})
	}
	_ = group.Wait()

	for idx, outcome := range outcomes {
		rowNum := idx + 1

		if len(outcome.errs) > 0 {
			messages := make([]string, len(outcome.errs))
			for i, fieldErr := range outcome.errs {
				messages[i] = fieldErr.Error()
			}
			result.Errors = append(result.Errors, RowError{
				Row:    rowNum,
				Errors: messages,
				Data:   records[idx],
			})
			continue
		}

		if err := ctx.Err(); err != nil {
			result.Errors = append(result.Errors, RowError{
				Row:    rowNum,
				Errors: []string{"import cancelled"},
				Data:   records[idx],
			})
			continue
		}

		lead, err := im.creator.Create(ctx, outcome.candidate)
		if err != nil {
			im.log.Error("import row failed to persist", "row", rowNum, "error", err)
			result.Errors = append(result.Errors, RowError{
				Row:    rowNum,
				Errors: []string{"could not save lead"},
				Data:   records[idx],
			})
			continue
		}
		result.Created = append(result.Created, lead)
	}

	result.ValidRows = len(result.Created)
	result.InvalidRows = result.TotalRows - result.ValidRows
	im.log.ImportSummary(result.TotalRows, result.ValidRows, result.InvalidRows)
	return result
}
