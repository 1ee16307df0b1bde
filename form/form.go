// Package form parses and validates a single loan application before it is
// handed to the caller's submit handler. A record that fails validation
// never reaches the handler, so it never reaches the network.
package form

import (
	"context"
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"loan-dashboard/models"
	"loan-dashboard/utils"
)

// Field names, in display order.
const (
	FieldIncome           = "income"
	FieldLoanAmount       = "loan_amount"
	FieldLoanIntRate      = "loan_int_rate"
	FieldAge              = "age"
	FieldPreviousDefaults = "previous_defaults"
	FieldHomeOwnership    = "home_ownership"
)

var Fields = []string{
	FieldIncome, FieldLoanAmount, FieldLoanIntRate,
	FieldAge, FieldPreviousDefaults, FieldHomeOwnership,
}

// messages maps field and failed rule to the text shown under the input.
var messages = map[string]map[string]string{
	FieldIncome: {
		"required": "Income is required",
		"number":   "Income must be a number",
		"gt":       "Income must be greater than 0",
		"gte":      "Income seems too low",
	},
	FieldLoanAmount: {
		"required": "Loan amount is required",
		"number":   "Loan amount must be a number",
		"gt":       "Loan amount must be greater than 0",
		"lte":      "Loan amount must be less than 1,000,000",
	},
	FieldLoanIntRate: {
		"required": "Loan interest rate is required",
		"number":   "Loan interest rate must be a number",
		"gte":      "Loan interest rate must be at least 5",
		"lte":      "Loan interest rate must be at most 20",
	},
	FieldAge: {
		"required": "Age is required",
		"number":   "Age must be a number",
		"int":      "Age must be a whole number",
		"gte":      "Applicant must be at least 18 years old",
		"lte":      "Please enter a valid age",
	},
	FieldPreviousDefaults: {
		"required": "Please select if you have previous defaults",
		"oneof":    "Please select if you have previous defaults",
	},
	FieldHomeOwnership: {
		"required": "Please select your home ownership status",
		"oneof":    "Please select your home ownership status",
	},
}

// FieldErrors maps a field name to its message. It implements error.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fe[k])
	}
	return "invalid application: " + strings.Join(parts, "; ")
}

// Values is the read side of url.Values; any key/value source will do.
type Values interface {
	Get(key string) string
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Parse converts raw form values into an application and validates it.
func Parse(values Values) (models.LoanApplication, FieldErrors) {
	errs := FieldErrors{}
	var app models.LoanApplication

	app.Income = parseFloat(values, FieldIncome, errs)
	app.LoanAmount = parseFloat(values, FieldLoanAmount, errs)
	app.LoanIntRate = parseFloat(values, FieldLoanIntRate, errs)
	app.Age = parseInt(values, FieldAge, errs)
	app.PreviousDefaults = normaliseEnum(values.Get(FieldPreviousDefaults))
	app.HomeOwnership = normaliseEnum(values.Get(FieldHomeOwnership))

	for field, msg := range Validate(app) {
		// A parse failure is more specific than the range check on the zero value.
		if _, seen := errs[field]; !seen {
			errs[field] = msg
		}
	}
	if len(errs) == 0 {
		return app, nil
	}
	return app, errs
}

// Validate checks an already-typed application against the schema.
func Validate(app models.LoanApplication) FieldErrors {
	err := validate.Struct(app)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"_": err.Error()}
	}

	errs := FieldErrors{}
	for _, fe := range verrs {
		errs[fe.Field()] = message(fe.Field(), fe.Tag())
	}
	return errs
}

func message(field, rule string) string {
	if m, ok := messages[field][rule]; ok {
		return m
	}
	return fmt.Sprintf("%s is invalid", field)
}

func parseFloat(values Values, field string, errs FieldErrors) float64 {
	raw := normaliseNumber(values.Get(field))
	if raw == "" {
		errs[field] = message(field, "required")
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		errs[field] = message(field, "number")
		return 0
	}
	return v
}

func parseInt(values Values, field string, errs FieldErrors) int {
	v := parseFloat(values, field, errs)
	if _, failed := errs[field]; failed {
		return 0
	}
	if v != math.Trunc(v) {
		errs[field] = message(field, "int")
		return 0
	}
	// Keep the conversion in range; the bound rules report the message.
	switch {
	case v > math.MaxInt32:
		errs[field] = message(field, "lte")
		return 0
	case v < math.MinInt32:
		errs[field] = message(field, "gte")
		return 0
	}
	return int(v)
}

// SubmitFunc receives a validated application.
type SubmitFunc func(ctx context.Context, app models.LoanApplication) error

// Form delegates validated submissions to OnSubmit.
type Form struct {
	OnSubmit SubmitFunc
	logger   *utils.Logger
}

// New creates a Form that hands valid applications to onSubmit.
func New(onSubmit SubmitFunc, logger *utils.Logger) *Form {
	return &Form{OnSubmit: onSubmit, logger: logger.With("form")}
}

// Submit validates values and, only if they are valid, calls OnSubmit once.
// Field errors are returned separately from the handler's error.
func (f *Form) Submit(ctx context.Context, values Values) (FieldErrors, error) {
	app, errs := Parse(values)
	if errs != nil {
		f.logger.Debug("Rejected application: %v", errs)
		return errs, nil
	}
	return nil, f.OnSubmit(ctx, app)
}
