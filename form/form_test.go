package form

import (
	"context"
	"net/url"
	"testing"

	"loan-dashboard/models"
	"loan-dashboard/utils"
)

func validValues() url.Values {
	return url.Values{
		FieldIncome:           {"75000"},
		FieldLoanAmount:       {"25000"},
		FieldLoanIntRate:      {"10"},
		FieldAge:              {"35"},
		FieldPreviousDefaults: {"no"},
		FieldHomeOwnership:    {"rent"},
	}
}

func with(key, value string) url.Values {
	v := validValues()
	v.Set(key, value)
	return v
}

func TestParseValid(t *testing.T) {
	app, errs := Parse(validValues())
	if errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
	want := models.LoanApplication{
		Income: 75000, LoanAmount: 25000, LoanIntRate: 10, Age: 35,
		PreviousDefaults: "no", HomeOwnership: "rent",
	}
	if app != want {
		t.Errorf("Parse: got %+v, want %+v", app, want)
	}
}

func TestParseNormalisesInput(t *testing.T) {
	v := with(FieldHomeOwnership, "  Mortgage ")
	v.Set(FieldIncome, "$75,000")
	v.Set(FieldAge, "３５") // full-width digits

	app, errs := Parse(v)
	if errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if app.HomeOwnership != "mortgage" {
		t.Errorf("HomeOwnership: got %q, want mortgage", app.HomeOwnership)
	}
	if app.Income != 75000 {
		t.Errorf("Income: got %v, want 75000", app.Income)
	}
	if app.Age != 35 {
		t.Errorf("Age: got %d, want 35", app.Age)
	}
}

func TestParseFieldErrors(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value string
		want  string
	}{
		{"negative income", FieldIncome, "-5", "Income must be greater than 0"},
		{"low income", FieldIncome, "9999", "Income seems too low"},
		{"missing income", FieldIncome, "", "Income is required"},
		{"non-numeric income", FieldIncome, "lots", "Income must be a number"},
		{"zero loan", FieldLoanAmount, "0", "Loan amount must be greater than 0"},
		{"huge loan", FieldLoanAmount, "1000001", "Loan amount must be less than 1,000,000"},
		{"rate too low", FieldLoanIntRate, "4.99", "Loan interest rate must be at least 5"},
		{"rate too high", FieldLoanIntRate, "20.5", "Loan interest rate must be at most 20"},
		{"minor", FieldAge, "17", "Applicant must be at least 18 years old"},
		{"too old", FieldAge, "121", "Please enter a valid age"},
		{"fractional age", FieldAge, "35.5", "Age must be a whole number"},
		{"overflowing age", FieldAge, "1e300", "Please enter a valid age"},
		{"overflowing negative age", FieldAge, "-1e300", "Applicant must be at least 18 years old"},
		{"bad defaults", FieldPreviousDefaults, "maybe", "Please select if you have previous defaults"},
		{"missing ownership", FieldHomeOwnership, "", "Please select your home ownership status"},
		{"bad ownership", FieldHomeOwnership, "castle", "Please select your home ownership status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := Parse(with(tt.field, tt.value))
			if errs == nil {
				t.Fatalf("expected an error for %s=%q", tt.field, tt.value)
			}
			if got := errs[tt.field]; got != tt.want {
				t.Errorf("%s: got %q, want %q", tt.field, got, tt.want)
			}
			if len(errs) != 1 {
				t.Errorf("expected only %s to fail, got %v", tt.field, errs)
			}
		})
	}
}

func TestParseBoundariesAccepted(t *testing.T) {
	v := validValues()
	v.Set(FieldIncome, "10000")
	v.Set(FieldLoanAmount, "1000000")
	v.Set(FieldLoanIntRate, "5")
	v.Set(FieldAge, "120")
	if _, errs := Parse(v); errs != nil {
		t.Errorf("lower/upper bounds should be accepted, got %v", errs)
	}
}

func TestSubmitCallsHandlerOnlyWhenValid(t *testing.T) {
	calls := 0
	var got models.LoanApplication
	f := New(func(_ context.Context, app models.LoanApplication) error {
		calls++
		got = app
		return nil
	}, utils.Discard())

	errs, err := f.Submit(context.Background(), with(FieldAge, "12"))
	if err != nil || errs == nil {
		t.Fatalf("expected field errors only, got errs=%v err=%v", errs, err)
	}
	if calls != 0 {
		t.Fatalf("handler must not be called for invalid input, calls=%d", calls)
	}

	errs, err = f.Submit(context.Background(), validValues())
	if err != nil || errs != nil {
		t.Fatalf("unexpected result: errs=%v err=%v", errs, err)
	}
	if calls != 1 {
		t.Errorf("handler calls: got %d, want 1", calls)
	}
	if got.Age != 35 {
		t.Errorf("handler received %+v", got)
	}
}

func TestFieldErrorsMessage(t *testing.T) {
	fe := FieldErrors{FieldAge: "b", FieldIncome: "a"}
	want := "invalid application: age: b; income: a"
	if fe.Error() != want {
		t.Errorf("Error(): got %q, want %q", fe.Error(), want)
	}
}
