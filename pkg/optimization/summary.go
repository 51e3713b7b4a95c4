// Package optimization provides shared data structures for optimization results.
package optimization

// Summary captures the result of a single affordability search.
type Summary struct {
	TargetName string  `json:"targetName,omitempty"`
	Field      string  `json:"field"`
	Original   float64 `json:"original"`
	Value      float64 `json:"value"`
	Budget     float64 `json:"budget"`
	// OriginalPayable is the amount due for the original weight.
	OriginalPayable float64  `json:"originalPayable"`
	Payable         float64  `json:"payable"`
	Headroom        float64  `json:"headroom"`
	Affordable      bool     `json:"affordable"`
	Iterations      int      `json:"iterations"`
	Converged       bool     `json:"converged"`
	Notes           []string `json:"notes,omitempty"`
	OriginalDisplay string   `json:"originalDisplay,omitempty"`
	ValueDisplay    string   `json:"valueDisplay,omitempty"`
}

// Shortfall is how much the budget misses the original weight by.
func (s Summary) Shortfall() float64 {
	if s.Affordable {
		return 0
	}
	return s.OriginalPayable - s.Budget
}
