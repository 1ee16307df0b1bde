// Package results renders one page of prediction rows: client-side column
// sorting and page-number navigation. It never fetches data; page requests
// are delegated to the caller.
package results

import (
	"fmt"
	"strings"

	"loan-dashboard/locale"
	"loan-dashboard/models"
)

// PageFunc is called with the page the user asked for.
type PageFunc func(page int)

// Table holds one page of rows and the current sort.
type Table struct {
	rows       []models.LoanPrediction
	pagination models.PaginationInfo

	sortCol string
	sortDir Direction

	OnPageChange PageFunc
}

// NewTable wraps a prediction response. A nil response yields an empty table.
func NewTable(resp *models.PredictionResponse, onPageChange PageFunc) *Table {
	t := &Table{OnPageChange: onPageChange}
	if resp != nil {
		t.rows = resp.Results
		t.pagination = resp.Pagination
	}
	return t
}

// SortBy sorts on col: ascending on first use, then toggling on repeated
// calls for the same column. Unknown columns are ignored.
func (t *Table) SortBy(col string) {
	if !IsColumn(col) {
		return
	}
	t.sortCol, t.sortDir = col, t.NextDirection(col)
}

// NextDirection is the direction SortBy(col) would apply.
func (t *Table) NextDirection(col string) Direction {
	if t.sortCol == col && t.sortDir == Ascending {
		return Descending
	}
	return Ascending
}

// SetSort applies an explicit sort, as restored from a URL.
func (t *Table) SetSort(col string, dir Direction) {
	if !IsColumn(col) {
		t.sortCol, t.sortDir = "", Unsorted
		return
	}
	t.sortCol, t.sortDir = col, dir
}

// Sort returns the active column and direction.
func (t *Table) Sort() (string, Direction) { return t.sortCol, t.sortDir }

// Rows returns the page rows in display order. The result is always derived
// from the page as received, so sorting is idempotent.
func (t *Table) Rows() []models.LoanPrediction {
	return sortRows(t.rows, t.sortCol, t.sortDir)
}

// Pagination returns the service's pagination for this page.
func (t *Table) Pagination() models.PaginationInfo { return t.pagination }

// ShowPagination is false when everything fits on one page.
func (t *Table) ShowPagination() bool { return t.pagination.TotalPages > 1 }

// PageNumbers lists the links for the current page.
func (t *Table) PageNumbers() []int {
	return PageNumbers(t.pagination.Page, t.pagination.TotalPages)
}

// Prev is the previous page, clamped to 1.
func (t *Table) Prev() int { return max(1, t.pagination.Page-1) }

// Next is the next page, clamped to the last page.
func (t *Table) Next() int {
	return max(1, min(t.pagination.TotalPages, t.pagination.Page+1))
}

// RequestPage delegates a page click. Out-of-range and current pages are
// ignored.
func (t *Table) RequestPage(page int) {
	if page < 1 || page > t.pagination.TotalPages || page == t.pagination.Page {
		return
	}
	if t.OnPageChange != nil {
		t.OnPageChange(page)
	}
}

// Row is a prediction formatted for display.
type Row struct {
	Age                 string
	Income              string
	LoanAmount          string
	CreditScore         string
	HomeOwnership       string
	PreviousDefaults    string
	Result              string
	Approved            bool
	ApprovalProbability string
}

// Format renders the page rows with the locale's number and label settings.
func (t *Table) Format(loc locale.Config) []Row {
	rows := t.Rows()
	out := make([]Row, 0, len(rows))
	for _, p := range rows {
		out = append(out, Row{
			Age:                 fmt.Sprintf("%d", p.Age),
			Income:              loc.Money(p.Income),
			LoanAmount:          loc.Money(p.LoanAmount),
			CreditScore:         loc.Number(p.RateOrScore()),
			HomeOwnership:       capitalise(p.HomeOwnership),
			PreviousDefaults:    p.PreviousDefaults,
			Result:              loc.Outcome(p.Result),
			Approved:            p.Approved(),
			ApprovalProbability: loc.Percent(p.ApprovalProbability),
		})
	}
	return out
}

func capitalise(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
