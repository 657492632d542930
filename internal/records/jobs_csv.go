package records

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/asha-ai/asha/internal/models"
)

// jobsHeader is the CSV column layout of the job listing file. The layout is
// shared with the admin dashboard export.
var jobsHeader = []string{"id", "title", "company", "location", "type", "deadline", "description", "applyUrl", "category", "source"}

func readJobsCSV(path string) ([]models.Job, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}

	// First row is the header; map columns by name so extra or reordered
	// columns in hand-edited files still parse.
	col := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		col[name] = i
	}
	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	jobs := make([]models.Job, 0, len(rows)-1)
	for _, row := range rows[1:] {
		jobs = append(jobs, models.Job{
			ID:          field(row, "id"),
			Title:       field(row, "title"),
			Company:     field(row, "company"),
			Location:    field(row, "location"),
			Type:        field(row, "type"),
			Deadline:    field(row, "deadline"),
			Description: field(row, "description"),
			ApplyURL:    field(row, "applyUrl"),
			Category:    field(row, "category"),
			Source:      field(row, "source"),
		})
	}
	return jobs, nil
}

func writeJobsCSV(path string, jobs []models.Job) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(jobsHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, j := range jobs {
		row := []string{j.ID, j.Title, j.Company, j.Location, j.Type, j.Deadline, j.Description, j.ApplyURL, j.Category, j.Source}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}
