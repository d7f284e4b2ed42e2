// Package csvio handles the CSV side of bulk import and export: parsing an
// uploaded file into raw records, generating the import template, and writing
// lead exports.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"buyer_leads_backend/internal/leads/schema"
)

// FileErrorCode classifies a file-level rejection. File-level errors abort the
// whole import before any row is validated.
type FileErrorCode string

const (
	FileTooLarge     FileErrorCode = "FileTooLarge"
	RowLimitExceeded FileErrorCode = "RowLimitExceeded"
	NotCSV           FileErrorCode = "NotCSV"
	MalformedCSV     FileErrorCode = "MalformedCSV"
)

// FileError rejects an uploaded file as a whole.
type FileError struct {
	Code    FileErrorCode `json:"code"`
	Message string        `json:"message"`
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Limits bounds an uploaded import file.
type Limits struct {
	MaxFileBytes int64
	MaxRows      int
}

var knownFields = func() map[string]struct{} {
	out := make(map[string]struct{}, len(schema.Fields))
	for _, field := range schema.Fields {
		out[field] = struct{}{}
	}
	return out
}()

// Parse reads an uploaded CSV into raw records, one per data row in file
// order. Headers are matched case-insensitively and unknown columns are
// dropped. Any file-level problem returns a FileError and no records.
func Parse(r io.Reader, filename string, limits Limits) ([]schema.Record, *FileError) {
	if !strings.HasSuffix(strings.ToLower(strings.TrimSpace(filename)), ".csv") {
		return nil, &FileError{Code: NotCSV, Message: "file must be a .csv"}
	}

	body, readErr := io.ReadAll(io.LimitReader(r, limits.MaxFileBytes+1))
	if readErr != nil {
		return nil, &FileError{Code: MalformedCSV, Message: "could not read file"}
	}
	if int64(len(body)) > limits.MaxFileBytes {
		return nil, &FileError{
			Code:    FileTooLarge,
			Message: fmt.Sprintf("file exceeds %d bytes", limits.MaxFileBytes),
		}
	}

	reader := csv.NewReader(strings.NewReader(string(body)))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &FileError{Code: MalformedCSV, Message: "file has no header row"}
	}
	if err != nil {
		return nil, &FileError{Code: MalformedCSV, Message: "header row is not valid CSV"}
	}

	columns := make([]string, len(header))
	for i, name := range header {
		normalized := strings.ToLower(strings.TrimSpace(name))
		if _, ok := knownFields[normalized]; ok {
			columns[i] = normalized
		}
	}

	var records []schema.Record
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &FileError{
				Code:    MalformedCSV,
				Message: fmt.Sprintf("row %d is not valid CSV", len(records)+1),
			}
		}

		record := make(schema.Record, len(columns))
		for i, column := range columns {
			if column == "" || i >= len(row) {
				continue
			}
			record[column] = row[i]
		}
		records = append(records, record)

		if len(records) > limits.MaxRows {
			return nil, &FileError{
				Code:    RowLimitExceeded,
				Message: fmt.Sprintf("file exceeds %d data rows", limits.MaxRows),
			}
		}
	}

	return records, nil
}
