package models

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Enumerations accepted by the prediction service.
const (
	ResultApproved = "Approved"
	ResultDeclined = "Declined"
)

var (
	PreviousDefaultsValues = []string{"yes", "no"}
	HomeOwnershipValues    = []string{"rent", "own", "mortgage", "other"}
)

// LoanApplication is a single applicant record as entered in the form. The
// validate tags are the client-side schema; see package form.
type LoanApplication struct {
	Income           float64 `json:"income" validate:"gt=0,gte=10000"`
	LoanAmount       float64 `json:"loan_amount" validate:"gt=0,lte=1000000"`
	LoanIntRate      float64 `json:"loan_int_rate" validate:"gte=5,lte=20"`
	Age              int     `json:"age" validate:"gte=18,lte=120"`
	PreviousDefaults string  `json:"previous_defaults" validate:"required,oneof=yes no"`
	HomeOwnership    string  `json:"home_ownership" validate:"required,oneof=rent own mortgage other"`
}

// LoanPrediction is one scored row returned by the service. It is read-only
// on the client.
type LoanPrediction struct {
	LoanApplication
	// CreditScore is reported by some service versions in place of the rate.
	CreditScore         float64 `json:"credit_score,omitempty"`
	Result              string  `json:"result"`
	ApprovalProbability float64 `json:"approval_probability"`
}

// UnmarshalJSON accepts age as any JSON number. Services that keep the
// dataset in floating point send 35.0; the value is rounded to whole years.
func (p *LoanPrediction) UnmarshalJSON(data []byte) error {
	type row LoanPrediction
	aux := struct {
		*row
		Age *float64 `json:"age"`
	}{row: (*row)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Age == nil {
		return nil
	}
	age := math.Round(*aux.Age)
	if age > math.MaxInt32 || age < math.MinInt32 {
		return fmt.Errorf("models: age %v out of range", *aux.Age)
	}
	p.Age = int(age)
	return nil
}

// RateOrScore returns credit_score when the service sent one, loan_int_rate otherwise.
func (p LoanPrediction) RateOrScore() float64 {
	if p.CreditScore != 0 {
		return p.CreditScore
	}
	return p.LoanIntRate
}

// Approved reports whether the model approved the application.
func (p LoanPrediction) Approved() bool {
	return p.Result == ResultApproved
}

// PaginationInfo is produced by the service; the client never recomputes it.
type PaginationInfo struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// PredictionResponse is the body of POST /predict/csv.
type PredictionResponse struct {
	Results    []LoanPrediction `json:"results"`
	Pagination PaginationInfo   `json:"pagination"`
}

// Upload is a user-selected file kept in memory so a page change can
// re-send it.
type Upload struct {
	Name       string
	Size       int64
	Data       []byte
	SelectedAt time.Time
}

// StoredPrediction is a prediction persisted in the history table.
type StoredPrediction struct {
	ID        int64
	SessionID string
	Source    string
	LoanPrediction
	CreatedAt time.Time
}
