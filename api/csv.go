package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"loan-dashboard/models"
)

// SingleCSVHeader is the column order the /predict/csv endpoint expects.
var SingleCSVHeader = []string{
	"income", "loan_amount", "loan_int_rate", "age", "previous_defaults", "home_ownership",
}

// EncodeSingleCSV renders one application as a header line and one data
// line, without a trailing newline.
func EncodeSingleCSV(app models.LoanApplication) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	row := []string{
		formatNumber(app.Income),
		formatNumber(app.LoanAmount),
		formatNumber(app.LoanIntRate),
		strconv.Itoa(app.Age),
		app.PreviousDefaults,
		app.HomeOwnership,
	}
	if err := w.WriteAll([][]string{SingleCSVHeader, row}); err != nil {
		return nil, fmt.Errorf("api: encode csv: %w", err)
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// formatNumber uses the shortest representation: 75000, 10, 12.5.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
