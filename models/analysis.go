package models

// Outcome counts or rates keyed by "Approved" / "Declined".
type Outcomes map[string]float64

// Distribution splits bucketed counts by outcome.
type Distribution struct {
	Approved map[string]float64 `json:"approved"`
	Declined map[string]float64 `json:"declined"`
}

// CreditScoreBins is a pre-binned histogram; the three slices are parallel.
type CreditScoreBins struct {
	Labels   []string  `json:"labels"`
	Approved []float64 `json:"approved"`
	Declined []float64 `json:"declined"`
}

// AnalysisResult is the body of POST /analyze/csv. Every number is computed
// by the service.
type AnalysisResult struct {
	TotalApplications      int                 `json:"total_applications"`
	ApprovalRate           float64             `json:"approval_rate"`
	ApprovalByOwnership    map[string]Outcomes `json:"approval_by_ownership"`
	CountsByOwnership      map[string]Outcomes `json:"counts_by_ownership"`
	ApprovalByDefaults     map[string]Outcomes `json:"approval_by_defaults"`
	CountsByDefaults       map[string]Outcomes `json:"counts_by_defaults"`
	AgeDistribution        Distribution        `json:"age_distribution"`
	IncomeDistribution     Distribution        `json:"income_distribution"`
	CreditScoreBins        CreditScoreBins     `json:"credit_score_bins"`
	LoanAmountDistribution Distribution        `json:"loan_amount_distribution"`
}
