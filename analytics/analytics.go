// Package analytics reshapes the service's pre-aggregated analysis payload
// into chart series. No statistics are computed here; the only arithmetic is
// turning the overall approval rate into approved/declined counts for the pie.
package analytics

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"loan-dashboard/locale"
	"loan-dashboard/models"
)

// Chart keys, also used as PNG names under /charts/.
const (
	ChartApproval    = "approval"
	ChartOwnership   = "ownership"
	ChartDefaults    = "defaults"
	ChartCreditScore = "credit_score"
	ChartIncome      = "income"
	ChartLoanAmount  = "loan_amount"
	ChartAge         = "age"
)

// Unit describes what the bar values mean.
type Unit string

const (
	UnitPercent Unit = "percent"
	UnitCount   Unit = "count"
)

// BarDatum is one category of a grouped bar chart.
type BarDatum struct {
	Name     string
	Approved float64
	Declined float64
}

// PieDatum is one slice of a pie chart.
type PieDatum struct {
	Name  string
	Value float64
}

// BarChart is a titled series of bar data.
type BarChart struct {
	Key   string
	Title string
	Unit  Unit
	Bars  []BarDatum
}

// Empty reports whether there is nothing to draw.
func (c BarChart) Empty() bool {
	for _, b := range c.Bars {
		if b.Approved != 0 || b.Declined != 0 {
			return false
		}
	}
	return true
}

// Dashboard is everything the analytics view renders.
type Dashboard struct {
	TotalApplications int
	ApprovalRate      float64
	ApprovalRateText  string

	ApprovalTitle string
	Outcome       []PieDatum

	Ownership   BarChart
	Defaults    BarChart
	CreditScore BarChart
	Income      BarChart
	LoanAmount  BarChart
	Age         BarChart
}

// Build maps an analysis result into chart series using loc for labels.
func Build(res models.AnalysisResult, loc locale.Config) Dashboard {
	l := loc.Labels
	total := float64(res.TotalApplications)

	return Dashboard{
		TotalApplications: res.TotalApplications,
		ApprovalRate:      res.ApprovalRate,
		ApprovalRateText:  loc.Percent(res.ApprovalRate),

		ApprovalTitle: l.ApprovalRateTitle,
		Outcome: []PieDatum{
			{Name: l.Approved, Value: res.ApprovalRate / 100 * total},
			{Name: l.Declined, Value: (100 - res.ApprovalRate) / 100 * total},
		},

		Ownership: BarChart{
			Key: ChartOwnership, Title: l.OwnershipChartTitle, Unit: UnitPercent,
			Bars: outcomeBars(res.ApprovalByOwnership, models.HomeOwnershipValues, loc.OwnershipName),
		},
		Defaults: BarChart{
			Key: ChartDefaults, Title: l.DefaultsChartTitle, Unit: UnitPercent,
			Bars: outcomeBars(res.ApprovalByDefaults, models.PreviousDefaultsValues, loc.DefaultsName),
		},
		CreditScore: BarChart{
			Key: ChartCreditScore, Title: l.CreditScoreTitle, Unit: UnitCount,
			Bars: binBars(res.CreditScoreBins),
		},
		Income: BarChart{
			Key: ChartIncome, Title: l.IncomeChartTitle, Unit: UnitCount,
			Bars: distributionBars(res.IncomeDistribution),
		},
		LoanAmount: BarChart{
			Key: ChartLoanAmount, Title: l.LoanAmountChartTitle, Unit: UnitCount,
			Bars: distributionBars(res.LoanAmountDistribution),
		},
		Age: BarChart{
			Key: ChartAge, Title: l.AgeChartTitle, Unit: UnitCount,
			Bars: distributionBars(res.AgeDistribution),
		},
	}
}

// BarCharts lists the bar charts in display order.
func (d Dashboard) BarCharts() []BarChart {
	return []BarChart{d.Ownership, d.Defaults, d.CreditScore, d.Income, d.LoanAmount, d.Age}
}

// Bar returns the bar chart with the given key.
func (d Dashboard) Bar(key string) (BarChart, bool) {
	for _, c := range d.BarCharts() {
		if c.Key == key {
			return c, true
		}
	}
	return BarChart{}, false
}

// outcomeBars orders known keys canonically, then any others lexically.
func outcomeBars(m map[string]models.Outcomes, canonical []string, name func(string) string) []BarDatum {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	rank := make(map[string]int, len(canonical))
	for i, k := range canonical {
		rank[k] = i
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, iok := rank[keys[i]]
		rj, jok := rank[keys[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		}
		return keys[i] < keys[j]
	})

	bars := make([]BarDatum, 0, len(keys))
	for _, k := range keys {
		bars = append(bars, BarDatum{
			Name:     name(k),
			Approved: m[k][models.ResultApproved],
			Declined: m[k][models.ResultDeclined],
		})
	}
	return bars
}

func binBars(b models.CreditScoreBins) []BarDatum {
	bars := make([]BarDatum, 0, len(b.Labels))
	for i, label := range b.Labels {
		d := BarDatum{Name: label}
		if i < len(b.Approved) {
			d.Approved = b.Approved[i]
		}
		if i < len(b.Declined) {
			d.Declined = b.Declined[i]
		}
		bars = append(bars, d)
	}
	return bars
}

func distributionBars(d models.Distribution) []BarDatum {
	seen := make(map[string]bool)
	var labels []string
	for _, m := range []map[string]float64{d.Approved, d.Declined} {
		for k := range m {
			if !seen[k] {
				seen[k] = true
				labels = append(labels, k)
			}
		}
	}
	sortBuckets(labels)

	bars := make([]BarDatum, 0, len(labels))
	for _, k := range labels {
		bars = append(bars, BarDatum{Name: k, Approved: d.Approved[k], Declined: d.Declined[k]})
	}
	return bars
}

var leadingNumber = regexp.MustCompile(`\d+(?:[.,]\d+)*`)

// sortBuckets puts labels such as "<25", "25-35", "35-45", "65+" in numeric
// order of their first number. Labels without a number go last.
func sortBuckets(labels []string) {
	sort.SliceStable(labels, func(i, j int) bool {
		ni, iok := bucketStart(labels[i])
		nj, jok := bucketStart(labels[j])
		switch {
		case iok && jok && ni != nj:
			return ni < nj
		case iok != jok:
			return iok
		}
		return labels[i] < labels[j]
	})
}

func bucketStart(label string) (float64, bool) {
	m := leadingNumber.FindString(label)
	if m == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	if strings.HasPrefix(strings.TrimSpace(label), "<") {
		n -= 0.5
	}
	if strings.ContainsAny(label, "kK") {
		n *= 1000
	}
	return n, true
}
