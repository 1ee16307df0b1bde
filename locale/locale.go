// Package locale carries the display configuration shared by the results
// table, the analytics dashboard and the HTML views. One Config replaces
// per-language copies of those views.
package locale

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Labels holds every user-visible string that differs between locales.
type Labels struct {
	Title        string
	Subtitle     string
	TabSingle    string
	TabBatch     string
	TabAnalytics string

	Approved string
	Declined string

	// Ownership and Defaults translate the service's category keys.
	Ownership map[string]string
	Defaults  map[string]string

	ApprovalRateTitle    string
	OwnershipChartTitle  string
	DefaultsChartTitle   string
	CreditScoreTitle     string
	IncomeChartTitle     string
	LoanAmountChartTitle string
	AgeChartTitle        string

	// Columns and Fields are keyed by the JSON field name.
	Columns           map[string]string
	Fields            map[string]string
	ResultsTitle      string
	TotalApplications string
	Submit            string
	Processing        string
	SelectFile        string
	DropHint          string
	SelectedFile      string
	ExportCSV         string
	ResetAnalysis     string
	Previous          string
	Next              string

	NoResults  string
	NoAnalysis string
	UploadHint string
}

// NumberFormat controls grouping and fraction digits.
type NumberFormat struct {
	Tag               language.Tag
	MaxFractionDigits int32
	MoneyDigits       int32
}

// Config is the {labels, numberFormat, currency} formatting object.
type Config struct {
	Code           string
	Labels         Labels
	NumberFormat   NumberFormat
	Currency       currency.Unit
	CurrencySymbol string
}

// Lookup returns the built-in locale for code, falling back to English.
func Lookup(code string) Config {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case "th", "th-th":
		return Thai()
	default:
		return English()
	}
}

// Money renders an amount with the currency symbol and grouped digits.
func (c Config) Money(v float64) string {
	s := c.format(v, c.NumberFormat.MoneyDigits)
	if strings.HasPrefix(s, "-") {
		return "-" + c.CurrencySymbol + s[1:]
	}
	return c.CurrencySymbol + s
}

// Number renders v with locale grouping.
func (c Config) Number(v float64) string {
	return c.format(v, c.NumberFormat.MaxFractionDigits)
}

// Percent renders a 0..100 value with one decimal, e.g. "87.5%".
func (c Config) Percent(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(1) + "%"
}

// Outcome translates "Approved"/"Declined".
func (c Config) Outcome(result string) string {
	switch result {
	case "Approved":
		return c.Labels.Approved
	case "Declined":
		return c.Labels.Declined
	}
	return result
}

// OwnershipName translates a home_ownership key; unknown keys map to "other".
func (c Config) OwnershipName(key string) string {
	if name, ok := c.Labels.Ownership[key]; ok {
		return name
	}
	return c.Labels.Ownership["other"]
}

// DefaultsName translates a previous_defaults key.
func (c Config) DefaultsName(key string) string {
	if name, ok := c.Labels.Defaults[key]; ok {
		return name
	}
	return key
}

func (c Config) format(v float64, digits int32) string {
	d := decimal.NewFromFloat(v).Round(digits)
	neg := d.IsNegative()
	d = d.Abs()

	whole := d.IntPart()
	p := message.NewPrinter(c.NumberFormat.Tag)
	out := p.Sprintf("%d", whole)

	if frac := d.Sub(decimal.NewFromInt(whole)); digits > 0 && !frac.IsZero() {
		fixed := strings.TrimRight(frac.StringFixed(digits), "0")
		out += strings.TrimPrefix(fixed, "0")
	}
	if neg && out != "0" {
		out = "-" + out
	}
	return out
}

// String identifies the locale in logs.
func (c Config) String() string {
	return fmt.Sprintf("%s (%s, %s)", c.Code, c.NumberFormat.Tag, c.Currency)
}
