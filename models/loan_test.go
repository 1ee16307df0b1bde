package models

import (
	"encoding/json"
	"testing"
)

func TestLoanPredictionAgeDecoding(t *testing.T) {
	tests := []struct {
		name string
		json string
		want int
	}{
		{"integer", `{"age":35}`, 35},
		{"whole float", `{"age":35.0}`, 35},
		{"fractional", `{"age":35.6}`, 36},
		{"missing", `{}`, 0},
		{"null", `{"age":null}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p LoanPrediction
			if err := json.Unmarshal([]byte(tt.json), &p); err != nil {
				t.Fatalf("unmarshal %s: %v", tt.json, err)
			}
			if p.Age != tt.want {
				t.Errorf("Age: got %d, want %d", p.Age, tt.want)
			}
		})
	}
}

func TestLoanPredictionKeepsOtherFields(t *testing.T) {
	raw := `{"income":48000.0,"loan_amount":9000,"loan_int_rate":12.5,"age":29.0,
		"previous_defaults":"yes","home_ownership":"mortgage","credit_score":640,
		"result":"Declined","approval_probability":22.5}`

	var p LoanPrediction
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := LoanPrediction{
		LoanApplication: LoanApplication{
			Income: 48000, LoanAmount: 9000, LoanIntRate: 12.5, Age: 29,
			PreviousDefaults: "yes", HomeOwnership: "mortgage",
		},
		CreditScore:         640,
		Result:              ResultDeclined,
		ApprovalProbability: 22.5,
	}
	if p != want {
		t.Errorf("got %+v, want %+v", p, want)
	}
}

func TestLoanPredictionRejectsBadAge(t *testing.T) {
	for _, raw := range []string{`{"age":1e300}`, `{"age":"old"}`} {
		var p LoanPrediction
		if err := json.Unmarshal([]byte(raw), &p); err == nil {
			t.Errorf("%s: expected an error", raw)
		}
	}
}
