package services

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"loan-dashboard/analytics"
	"loan-dashboard/locale"
	"loan-dashboard/models"
	"loan-dashboard/results"
	"loan-dashboard/utils"
)

const (
	barWidth  = 24
	labelCols = 18
)

// InsightService prints analysis results and prediction tables to a terminal.
type InsightService struct {
	logger *utils.Logger
	loc    locale.Config
	color  bool
}

func NewInsightService(logger *utils.Logger, loc locale.Config, color bool) *InsightService {
	return &InsightService{logger: logger, loc: loc, color: color}
}

func (s *InsightService) paint(code, text string) string {
	if !s.color {
		return text
	}
	return "\033[" + code + "m" + text + "\033[0m"
}

// Print writes the analytics dashboard as text.
func (s *InsightService) Print(w io.Writer, res models.AnalysisResult) {
	d := analytics.Build(res, s.loc)
	l := s.loc.Labels
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n%s\n", s.paint("1;35", sep))
	fmt.Fprintf(w, "%s\n", s.paint("1;35", "  📊 "+strings.ToUpper(l.Title)))
	fmt.Fprintf(w, "%s\n\n", s.paint("1;35", sep))

	fmt.Fprintf(w, "%s\n", s.paint("1;33", "  "+l.ApprovalRateTitle))
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Total applications : %s\n", s.paint("1", fmt.Sprintf("%d", d.TotalApplications)))
	fmt.Fprintf(w, "  Approval rate      : %s\n", s.paint("1;32", d.ApprovalRateText))
	for _, p := range d.Outcome {
		fmt.Fprintf(w, "  %-18s : %.0f\n", p.Name, p.Value)
	}
	fmt.Fprintln(w)

	for _, c := range d.BarCharts() {
		s.printBars(w, c, thin)
	}

	fmt.Fprintf(w, "%s\n\n", s.paint("1;35", sep))
}

func (s *InsightService) printBars(w io.Writer, c analytics.BarChart, thin string) {
	fmt.Fprintf(w, "%s\n", s.paint("1;33", "  "+c.Title))
	fmt.Fprintf(w, "  %s\n", thin)
	if c.Empty() {
		fmt.Fprintf(w, "  %s\n\n", s.loc.Labels.NoAnalysis)
		return
	}

	scale := 100.0
	if c.Unit == analytics.UnitCount {
		scale = 0
		for _, b := range c.Bars {
			scale = max(scale, b.Approved, b.Declined)
		}
	}

	for _, b := range c.Bars {
		fmt.Fprintf(w, "  %s %s %s\n", pad(truncate(b.Name, labelCols), labelCols),
			s.paint("34", bar(b.Approved, scale)), s.value(c.Unit, b.Approved))
		fmt.Fprintf(w, "  %s %s %s\n", pad("", labelCols),
			s.paint("33", bar(b.Declined, scale)), s.value(c.Unit, b.Declined))
	}
	fmt.Fprintf(w, "  %s %s  %s %s\n\n", s.paint("34", "█"), s.loc.Labels.Approved,
		s.paint("33", "█"), s.loc.Labels.Declined)
}

func (s *InsightService) value(u analytics.Unit, v float64) string {
	if u == analytics.UnitPercent {
		return s.loc.Percent(v)
	}
	return s.loc.Number(v)
}

// PrintPredictions writes one page of results as an aligned table. Each
// entry of sortBy acts like a click on that column header, so naming a
// column twice sorts it descending.
func (s *InsightService) PrintPredictions(w io.Writer, resp *models.PredictionResponse, sortBy ...string) error {
	table := results.NewTable(resp, nil)
	for _, col := range sortBy {
		if !results.IsColumn(col) {
			s.logger.Warn("unknown sort column %q ignored", col)
			continue
		}
		table.SortBy(col)
	}
	rows := table.Format(s.loc)
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, s.loc.Labels.NoResults)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "AGE\tINCOME\tLOAN\tRATE/SCORE\tHOME\tDEFAULTS\tRESULT\tPROBABILITY")
	for _, r := range rows {
		result := r.Result
		if r.Approved {
			result = s.paint("32", result)
		} else {
			result = s.paint("31", result)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Age, r.Income, r.LoanAmount, r.CreditScore, r.HomeOwnership,
			r.PreviousDefaults, result, r.ApprovalProbability)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("services: print predictions: %w", err)
	}

	if table.ShowPagination() {
		p := table.Pagination()
		_, err := fmt.Fprintf(w, "page %d of %d (%d applications)\n", p.Page, p.TotalPages, p.TotalItems)
		return err
	}
	return nil
}

// PrintHistory writes stored predictions, newest first.
func (s *InsightService) PrintHistory(w io.Writer, records []models.StoredPrediction) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No stored predictions")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tWHEN\tSOURCE\tINCOME\tLOAN\tHOME\tRESULT\tPROBABILITY")
	for _, r := range records {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04"), r.Source,
			s.loc.Money(r.Income), s.loc.Money(r.LoanAmount), s.loc.OwnershipName(r.HomeOwnership),
			s.loc.Outcome(r.Result), s.loc.Percent(r.ApprovalProbability))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("services: print history: %w", err)
	}
	return nil
}

func bar(v, scale float64) string {
	if scale <= 0 || v <= 0 {
		return strings.Repeat("·", barWidth)
	}
	n := int(v/scale*barWidth + 0.5)
	n = min(max(n, 0), barWidth)
	return strings.Repeat("█", n) + strings.Repeat("·", barWidth-n)
}

func pad(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max-3]) + "..."
}
