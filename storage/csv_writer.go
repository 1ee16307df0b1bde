package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"loan-dashboard/models"
)

// CSVHeader is the column order of exported predictions. The first six
// columns match the upload format, so an export can be uploaded again.
var CSVHeader = []string{
	"income", "loan_amount", "loan_int_rate", "age", "previous_defaults", "home_ownership",
	"credit_score", "result", "approval_probability",
}

// CSVWriter writes scored predictions as CSV.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	closer io.Closer
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("csv: create output dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	cw, err := NewCSVStreamWriter(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	cw.closer = f
	return cw, nil
}

// OpenCSVWriter appends to the CSV file at path, creating it with a header
// row when it does not exist or is empty. Used as a history sink that
// survives restarts.
func OpenCSVWriter(path string) (*CSVWriter, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("csv: create output dir: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("csv: open file %q: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: stat %q: %w", path, err)
	}

	cw := &CSVWriter{writer: csv.NewWriter(f), closer: f}
	if info.Size() == 0 {
		if err := cw.writer.Write(CSVHeader); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("csv: write header: %w", err)
		}
		cw.writer.Flush()
		if err := cw.writer.Error(); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("csv: write header: %w", err)
		}
	}
	return cw, nil
}

// NewCSVStreamWriter writes to w, e.g. an HTTP response. Close flushes but
// does not close w.
func NewCSVStreamWriter(w io.Writer) (*CSVWriter, error) {
	cw := &CSVWriter{writer: csv.NewWriter(w)}
	if err := cw.writer.Write(CSVHeader); err != nil {
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	cw.writer.Flush()
	return cw, cw.writer.Error()
}

// Write appends one row per record; session and source are not kept.
func (c *CSVWriter) Write(records []models.StoredPrediction) error {
	preds := make([]models.LoanPrediction, len(records))
	for i, r := range records {
		preds[i] = r.LoanPrediction
	}
	return c.WritePredictions(preds)
}

// WritePredictions appends rows straight from a service response.
func (c *CSVWriter) WritePredictions(preds []models.LoanPrediction) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, p := range preds {
		if err := c.writer.Write(predictionRow(p)); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file, if any.
func (c *CSVWriter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.writer.Flush()
	if err := c.writer.Error(); err != nil {
		return fmt.Errorf("csv: flush: %w", err)
	}
	if c.closer != nil {
		return c.closer.Close()
	}
	return nil
}

func predictionRow(p models.LoanPrediction) []string {
	score := ""
	if p.CreditScore != 0 {
		score = num(p.CreditScore)
	}
	return []string{
		num(p.Income),
		num(p.LoanAmount),
		num(p.LoanIntRate),
		strconv.Itoa(p.Age),
		p.PreviousDefaults,
		p.HomeOwnership,
		score,
		p.Result,
		num(p.ApprovalProbability),
	}
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
