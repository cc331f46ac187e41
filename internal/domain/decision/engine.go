package decision

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/fotoproof/fotoproof/internal/domain/analysis"
)

// Engine turns one Aggregate into one Verdict by walking an ordered rule
// chain: AI override, fraud override, then weighted-threshold
// classification with a cumulative-suspicion review escalation. The first
// matching override terminates the chain. The engine is stateless between
// submissions except for the injected append-only audit trail.
type Engine struct {
	policy Policy
	trail  *Trail
	now    func() time.Time
	rules  []rule
}

// rule returns a terminal verdict, or nil to pass evaluation down the chain.
type rule func(e *Engine, ev *evaluation) *Verdict

// evaluation is the per-decision working state shared along the rule chain.
type evaluation struct {
	agg      *analysis.Aggregate
	ai       analysis.Record
	weighted float64
	ts       time.Time

	suspiciousAI bool
	aiReason     string

	fraudCritical   []string
	fraudSuspicious []string
}

func NewEngine(policy Policy, trail *Trail) *Engine {
	e := &Engine{policy: policy, trail: trail, now: time.Now}
	e.rules = []rule{ruleAIOverride, ruleFraudOverride, ruleWeightedThreshold}
	return e
}

// Trail exposes the audit trail for read operations and export.
func (e *Engine) Trail() *Trail { return e.trail }

// Decide evaluates one aggregate and appends exactly one audit entry.
func (e *Engine) Decide(agg *analysis.Aggregate) (Verdict, AuditEntry) {
	ev := &evaluation{
		agg:      agg,
		ai:       agg.Record(analysis.KindAI),
		weighted: e.weightedScore(agg),
		ts:       e.now(),
	}
	e.evaluateFraudIndicators(ev)

	var v Verdict
	for _, r := range e.rules {
		if out := r(e, ev); out != nil {
			v = *out
			break
		}
	}

	v.WeightedScore = ev.weighted
	v.RuleVersion = e.policy.RuleVersion
	v.Timestamp = ev.ts
	v.Compliance = complianceFor(v)

	entry := AuditEntry{
		Timestamp:           ev.ts,
		Decision:            v.Result,
		Confidence:          v.Confidence,
		CriticalFlags:       v.CriticalFlags,
		HumanReviewRequired: v.RequiresHumanReview,
		AIConfidence:        ev.ai.Confidence,
		WeightedScore:       ev.weighted,
	}
	e.trail.Append(entry)
	return v, entry
}

// ruleAIOverride: a clear AI-generation signal is immediately
// NON_AUTHENTIC and needs no human arbitration. A weaker signal only marks
// the evaluation suspicious for the later rules.
func ruleAIOverride(e *Engine, ev *evaluation) *Verdict {
	if ev.ai.Confidence >= e.policy.AIConfidenceThreshold {
		return &Verdict{
			Result:     ResultNonAuthentic,
			Confidence: 95,
			Reasoning: []string{
				fmt.Sprintf("AI-generated content detected with %.0f%% confidence", ev.ai.Confidence),
				"AI-generated images are not acceptable for insurance claims per DNB guidelines",
			},
			CriticalFlags:       []string{FlagAIGenerated},
			RequiresHumanReview: false,
		}
	}
	if ev.ai.Detected || len(ev.ai.Indicators) >= 2 {
		ev.suspiciousAI = true
		ev.aiReason = fmt.Sprintf("Multiple AI indicators detected: %s",
			strings.Join(ev.ai.Indicators, ", "))
	}
	return nil
}

// ruleFraudOverride: critical fraud indicators force NON_AUTHENTIC with
// mandatory human review, regardless of the weighted score.
func ruleFraudOverride(e *Engine, ev *evaluation) *Verdict {
	if len(ev.fraudCritical) == 0 {
		return nil
	}
	reasoning := append([]string{"Critical fraud indicators detected"}, ev.fraudCritical...)
	return &Verdict{
		Result:              ResultNonAuthentic,
		Confidence:          90,
		Reasoning:           reasoning,
		CriticalFlags:       ev.fraudCritical,
		RequiresHumanReview: true,
	}
}

// ruleWeightedThreshold classifies on the weighted score, then applies the
// cumulative-suspicion escalation: enough weak signals together still
// require an expert even when no single rule fired.
func ruleWeightedThreshold(e *Engine, ev *evaluation) *Verdict {
	var (
		reasoning []string
		review    bool
	)
	// empty, not nil: the wire shape for critical_flags is always an array
	flags := []string{}
	if ev.suspiciousAI {
		review = true
		reasoning = append(reasoning, ev.aiReason)
		flags = append(flags, FlagSuspiciousAI)
	}

	score := ev.weighted
	var result Result
	var confidence float64
	switch {
	case score >= e.policy.AuthenticScore && len(flags) == 0:
		result = ResultAuthentic
		confidence = math.Min(95, score)
		reasoning = append(reasoning, fmt.Sprintf("Weighted authenticity score: %.1f%%", score))
	case score >= e.policy.SuspiciousScore:
		result = ResultSuspicious
		confidence = score
		review = true
		reasoning = append(reasoning, fmt.Sprintf("Weighted score %.1f%% indicates suspicious content", score))
	default:
		result = ResultNonAuthentic
		confidence = math.Max(10, 100-score)
		reasoning = append(reasoning, fmt.Sprintf("Low weighted score %.1f%% indicates manipulation", score))
	}

	total := len(ev.fraudSuspicious) + len(ev.ai.Indicators)
	if total >= 3 {
		review = true
		reasoning = append(reasoning, fmt.Sprintf("Multiple suspicious indicators (%d) require expert review", total))
	}

	return &Verdict{
		Result:              result,
		Confidence:          confidence,
		Reasoning:           reasoning,
		CriticalFlags:       flags,
		RequiresHumanReview: review,
	}
}

// evaluateFraudIndicators gathers the cross-analyzer fraud signals: the
// engine is the only component with cross-analyzer knowledge.
func (e *Engine) evaluateFraudIndicators(ev *evaluation) {
	meta := ev.agg.Record(analysis.KindMetadata)
	for _, ind := range meta.Indicators {
		if strings.Contains(strings.ToLower(ind), "editing software") {
			ev.fraudCritical = append(ev.fraudCritical, "Professional editing software detected in metadata")
			break
		}
	}

	if ev.agg.Record(analysis.KindCopyMove).Detected {
		ev.fraudCritical = append(ev.fraudCritical, "Copy-move manipulation detected")
	}

	comp := ev.agg.Record(analysis.KindCompression)
	if q, ok := comp.Metrics["estimated_quality"]; ok && q < 60 {
		ev.fraudSuspicious = append(ev.fraudSuspicious, "Low quality compression suggests multiple edits")
	}

	noise := ev.agg.Record(analysis.KindNoise)
	if len(noise.Indicators) >= 2 {
		ev.fraudSuspicious = append(ev.fraudSuspicious, "Multiple artificial noise patterns detected")
	}
}

// weightedScore computes the fixed linear combination of analyzer scores.
// Missing records simply drop out of the normalization, so the result stays
// in [0,100] no matter which analyzers reported.
func (e *Engine) weightedScore(agg *analysis.Aggregate) float64 {
	var sum, total float64
	for kind, w := range e.policy.Weights {
		rec, ok := agg.Records[kind]
		if !ok {
			continue
		}
		sum += rec.Score * w
		total += w
	}
	if total == 0 {
		return 0
	}
	return sum / total
}

// ComplianceReport snapshots the full audit trail into the export payload.
func (e *Engine) ComplianceReport() ComplianceReport {
	entries := e.trail.Entries()
	return ComplianceReport{
		ReportType:          "Dutch Insurance Authenticity Compliance",
		GeneratedAt:         e.now(),
		RuleVersion:         e.policy.RuleVersion,
		TotalDecisions:      len(entries),
		Decisions:           entries,
		ComplianceStandards: ComplianceStandards,
	}
}

func complianceFor(v Verdict) ComplianceStatus {
	return ComplianceStatus{
		DNBCompliant:           true,
		EUAIActCompliant:       true,
		GDPRCompliant:          true,
		AuditTrailComplete:     true,
		HumanOversightRequired: v.RequiresHumanReview,
		TransparencyLevel:      "FULL",
		DecisionExplainable:    true,
		BiasAssessment:         "PASSED",
		DataProtectionStatus:   "COMPLIANT",
	}
}
