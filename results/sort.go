package results

import (
	"sort"
	"strings"

	"loan-dashboard/models"
)

// Column names accepted by SortBy.
const (
	ColAge                 = "age"
	ColIncome              = "income"
	ColLoanAmount          = "loan_amount"
	ColCreditScore         = "credit_score"
	ColHomeOwnership       = "home_ownership"
	ColPreviousDefaults    = "previous_defaults"
	ColResult              = "result"
	ColApprovalProbability = "approval_probability"
)

// Columns is the display order of the table.
var Columns = []string{
	ColAge, ColIncome, ColLoanAmount, ColCreditScore,
	ColHomeOwnership, ColPreviousDefaults, ColResult, ColApprovalProbability,
}

// Direction of a column sort.
type Direction int

const (
	Unsorted Direction = iota
	Ascending
	Descending
)

func (d Direction) String() string {
	switch d {
	case Ascending:
		return "asc"
	case Descending:
		return "desc"
	}
	return ""
}

var less = map[string]func(a, b models.LoanPrediction) bool{
	ColAge:        func(a, b models.LoanPrediction) bool { return a.Age < b.Age },
	ColIncome:     func(a, b models.LoanPrediction) bool { return a.Income < b.Income },
	ColLoanAmount: func(a, b models.LoanPrediction) bool { return a.LoanAmount < b.LoanAmount },
	ColCreditScore: func(a, b models.LoanPrediction) bool {
		return a.RateOrScore() < b.RateOrScore()
	},
	ColHomeOwnership: func(a, b models.LoanPrediction) bool {
		return strings.ToLower(a.HomeOwnership) < strings.ToLower(b.HomeOwnership)
	},
	ColPreviousDefaults: func(a, b models.LoanPrediction) bool {
		return strings.ToLower(a.PreviousDefaults) < strings.ToLower(b.PreviousDefaults)
	},
	ColResult: func(a, b models.LoanPrediction) bool { return a.Result < b.Result },
	ColApprovalProbability: func(a, b models.LoanPrediction) bool {
		return a.ApprovalProbability < b.ApprovalProbability
	},
}

// IsColumn reports whether col can be sorted on.
func IsColumn(col string) bool {
	_, ok := less[col]
	return ok
}

// sortRows returns a stably sorted copy of rows; the input is not modified.
func sortRows(rows []models.LoanPrediction, col string, dir Direction) []models.LoanPrediction {
	out := make([]models.LoanPrediction, len(rows))
	copy(out, rows)

	cmp, ok := less[col]
	if !ok || dir == Unsorted {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		if dir == Descending {
			return cmp(out[j], out[i])
		}
		return cmp(out[i], out[j])
	})
	return out
}
