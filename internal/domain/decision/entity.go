package decision

import "time"

// Result enum
type Result string

const (
	ResultAuthentic    Result = "AUTHENTIC"
	ResultSuspicious   Result = "SUSPICIOUS"
	ResultNonAuthentic Result = "NON_AUTHENTIC"
)

// Critical flag names forced by override rules.
const (
	FlagAIGenerated  = "AI_GENERATED_CONTENT"
	FlagSuspiciousAI = "SUSPICIOUS_AI_CONTENT"
)

// Verdict is the final, immutable decision for one submission.
type Verdict struct {
	Result              Result           `json:"authenticity_result"`
	Confidence          float64          `json:"confidence_score"`
	WeightedScore       float64          `json:"weighted_score"`
	Reasoning           []string         `json:"decision_reasoning"`
	CriticalFlags       []string         `json:"critical_flags"`
	Compliance          ComplianceStatus `json:"compliance_status"`
	RequiresHumanReview bool             `json:"requires_human_review"`
	RuleVersion         string           `json:"rule_version"`
	Timestamp           time.Time        `json:"timestamp"`
}

// ComplianceStatus is the fixed set of compliance booleans exposed for
// display alongside each verdict.
type ComplianceStatus struct {
	DNBCompliant           bool   `json:"dnb_compliant"`
	EUAIActCompliant       bool   `json:"eu_ai_act_compliant"`
	GDPRCompliant          bool   `json:"gdpr_compliant"`
	AuditTrailComplete     bool   `json:"audit_trail_complete"`
	HumanOversightRequired bool   `json:"human_oversight_required"`
	TransparencyLevel      string `json:"transparency_level"`
	DecisionExplainable    bool   `json:"decision_explainable"`
	BiasAssessment         string `json:"bias_assessment"`
	DataProtectionStatus   string `json:"data_protection_status"`
}

// AuditEntry is the redacted summary of one verdict appended to the audit
// trail. Entries are never mutated or reordered once appended.
type AuditEntry struct {
	Timestamp           time.Time `json:"timestamp"`
	Decision            Result    `json:"decision"`
	Confidence          float64   `json:"confidence"`
	CriticalFlags       []string  `json:"critical_flags"`
	HumanReviewRequired bool      `json:"human_review_required"`
	AIConfidence        float64   `json:"ai_confidence"`
	WeightedScore       float64   `json:"weighted_score"`
}

// ComplianceReport is the export artifact handed to regulators: the whole
// audit trail plus the standards the decision rules implement.
type ComplianceReport struct {
	ReportType          string       `json:"report_type"`
	GeneratedAt         time.Time    `json:"generated_at"`
	RuleVersion         string       `json:"rule_version"`
	TotalDecisions      int          `json:"total_decisions"`
	Decisions           []AuditEntry `json:"decisions"`
	ComplianceStandards []string     `json:"compliance_standards"`
}

// ComplianceStandards lists the regulatory frameworks the rule set encodes.
var ComplianceStandards = []string{
	"DNB AI Guidelines",
	"EU AI Act",
	"GDPR",
	"Dutch Insurance Fraud Prevention Standards",
}
