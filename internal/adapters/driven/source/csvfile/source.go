// Package csvfile reads review records from a delimited file with a header row.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/domain"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/ports/driven"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/logger"
)

// Ensure Source implements the interface.
var _ driven.RecordSource = (*Source)(nil)

// utf8BOM is stripped from the first header cell.
const utf8BOM = "\ufeff"

// Source reads one review per row. The review column holds the text and
// every other column becomes metadata.
type Source struct {
	path         string
	reviewColumn string
}

// New creates a source for the file at path.
func New(path, reviewColumn string) *Source {
	if reviewColumn == "" {
		reviewColumn = domain.DefaultReviewColumn
	}
	return &Source{path: path, reviewColumn: reviewColumn}
}

// Path returns the file path.
func (s *Source) Path() string {
	return s.path
}

// Load returns one record per row with non-blank review text.
// Record IDs are 0-based data row numbers, so skipped rows leave gaps
// rather than shifting later records.
func (s *Source) Load(ctx context.Context) ([]domain.ReviewRecord, error) {
	header, rows, err := s.read(ctx)
	if err != nil {
		return nil, err
	}

	col := indexOf(header, s.reviewColumn)
	if col < 0 {
		return nil, fmt.Errorf("%w: column %q not found in %s (columns: %s)",
			domain.ErrInvalidInput, s.reviewColumn, s.path, strings.Join(header, ", "))
	}

	records := make([]domain.ReviewRecord, 0, len(rows))
	for i, row := range rows {
		text := strings.TrimSpace(cell(row, col))
		if text == "" {
			continue
		}

		var metadata map[string]string
		for j, name := range header {
			if j == col {
				continue
			}
			if v := strings.TrimSpace(cell(row, j)); v != "" {
				if metadata == nil {
					metadata = make(map[string]string, len(header)-1)
				}
				metadata[name] = v
			}
		}

		records = append(records, domain.ReviewRecord{
			ID:       i,
			Text:     text,
			Metadata: metadata,
		})
	}
	if skipped := len(rows) - len(records); skipped > 0 {
		logger.Info("Skipped %d of %d rows with a blank %q value", skipped, len(rows), s.reviewColumn)
	}
	return records, nil
}

// Inspect reports the shape of the file and the first sampleSize reviews.
func (s *Source) Inspect(ctx context.Context, sampleSize int) (*domain.DataReport, error) {
	header, rows, err := s.read(ctx)
	if err != nil {
		return nil, err
	}

	report := &domain.DataReport{
		Path:    s.path,
		Rows:    len(rows),
		Columns: header,
		Stats:   make([]domain.ColumnStats, len(header)),
	}

	for j, name := range header {
		stats := domain.ColumnStats{Name: name}
		for _, row := range rows {
			if strings.TrimSpace(cell(row, j)) == "" {
				stats.Missing++
			} else {
				stats.NonNull++
			}
		}
		report.Stats[j] = stats
	}

	if col := indexOf(header, s.reviewColumn); col >= 0 {
		for _, row := range rows {
			if len(report.SampleReviews) >= sampleSize {
				break
			}
			if text := strings.TrimSpace(cell(row, col)); text != "" {
				report.SampleReviews = append(report.SampleReviews, text)
			}
		}
	}
	return report, nil
}

// read returns the header and data rows.
func (s *Source) read(ctx context.Context) ([]string, [][]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: %s", domain.ErrSourceNotFound, s.path)
		}
		return nil, nil, fmt.Errorf("csv: opening %s: %w", s.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("%w: %s has no header row", domain.ErrInvalidInput, s.path)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("csv: reading header of %s: %w", s.path, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], utf8BOM))
	}

	var rows [][]string
	for {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("csv: reading %s: %w", s.path, err)
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}

func indexOf(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
