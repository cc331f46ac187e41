package decision

import "github.com/fotoproof/fotoproof/internal/domain/analysis"

// Policy holds the tunable decision parameters. The thresholds are
// empirically chosen claims-handling policy, not physics, so they are
// injected rather than hardcoded; the defaults are the values the rule set
// was calibrated with.
type Policy struct {
	// AIConfidenceThreshold: at or above this AI confidence the verdict is
	// immediately NON_AUTHENTIC.
	AIConfidenceThreshold float64

	// AuthenticScore / SuspiciousScore: weighted-score classification cuts.
	AuthenticScore  float64
	SuspiciousScore float64

	// Weights per analyzer; they sum to 1.0. AI detection carries the most
	// weight in the claims context, provenance and histogram the least.
	Weights map[analysis.Kind]float64

	RuleVersion string
}

// DefaultPolicy returns the calibrated insurance-claims rule parameters.
func DefaultPolicy() Policy {
	return Policy{
		AIConfidenceThreshold: 40,
		AuthenticScore:        75,
		SuspiciousScore:       50,
		Weights: map[analysis.Kind]float64{
			analysis.KindAI:          0.35,
			analysis.KindMetadata:    0.20,
			analysis.KindCompression: 0.15,
			analysis.KindCopyMove:    0.10,
			analysis.KindNoise:       0.10,
			analysis.KindHistogram:   0.05,
			analysis.KindProvenance:  0.05,
		},
		RuleVersion: "1.0_dutch_insurance",
	}
}

// TotalWeight sums the configured weights.
func (p Policy) TotalWeight() float64 {
	var t float64
	for _, w := range p.Weights {
		t += w
	}
	return t
}
