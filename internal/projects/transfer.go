package projects

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// ExportFileName is the conventional name for export artifacts.
const ExportFileName = "showrunner_database_export.json"

// ExportJSON writes the entire table as a pretty-printed JSON array of raw
// (serialized-field) records.
func (s *Store) ExportJSON(ctx context.Context, w io.Writer) error {
	records, err := s.allRecords(ctx)
	if err != nil {
		return err
	}
	if records == nil {
		records = []*Record{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal export: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

// ImportJSON replaces the entire table with the records in data. The payload
// is validated before any write: it must be a JSON array and every element
// must carry an id. The clear and the bulk insert run in one transaction, so
// a failure partway rolls back to the pre-import contents.
func (s *Store) ImportJSON(ctx context.Context, data []byte) (int, error) {
	records, err := parseImport(data)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM projects`); err != nil {
		return 0, fmt.Errorf("clear projects: %w", err)
	}
	for _, rec := range records {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO projects (`+recordColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			insertArgs(rec)...,
		); err != nil {
			return 0, fmt.Errorf("import project %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}

	if err := s.Sync(ctx); err != nil {
		return len(records), err
	}
	return len(records), nil
}

func parseImport(data []byte) ([]*Record, error) {
	trimmed := strings.TrimSpace(string(data))
	if !strings.HasPrefix(trimmed, "[") {
		return nil, fmt.Errorf("%w: expected a JSON array", ErrValidation)
	}

	var records []*Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	seen := make(map[string]struct{}, len(records))
	for i, rec := range records {
		if rec == nil || strings.TrimSpace(rec.ID) == "" {
			return nil, fmt.Errorf("%w: element %d is missing an id", ErrValidation, i)
		}
		if _, dup := seen[rec.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %s", ErrValidation, rec.ID)
		}
		seen[rec.ID] = struct{}{}
	}
	return records, nil
}
