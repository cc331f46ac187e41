package prompt

import "fmt"

// GetSystemPrompt provides strict directions and schema for JSON output.
func GetSystemPrompt() string {
	return `You are a senior insurance-claims photo reviewer. You receive the forensic verdict of an automated image-authenticity pipeline and must produce one valid JSON object only (no markdown, no commentary) that follows the schema below. Do not include code fences.

Requirements:
- Output must be a single JSON object.
- assessment must be one of: agree, disagree, needs_more_evidence.
- key_findings is an array of short strings, each naming one concrete signal from the verdict that supports your assessment.
- recommended_action must be one of: approve_claim, reject_claim, escalate_to_investigator, request_original_file.
- explanation is 2-4 sentences written for a claims handler, not an engineer. Never speculate beyond the signals present in the verdict.

Schema (example with empty values):
{
  "assessment": "<agree|disagree|needs_more_evidence>",
  "key_findings": ["<string>"],
  "recommended_action": "<approve_claim|reject_claim|escalate_to_investigator|request_original_file>",
  "explanation": "<string>"
}`
}

// GetUserPrompt wraps the verdict JSON in a compact user message.
func GetUserPrompt(verdictJSON string) string {
	return fmt.Sprintf("Review this automated authenticity verdict and respond with the JSON per schema. Verdict: %s", verdictJSON)
}

// ReviewResult matches the schema used by the system prompt.
type ReviewResult struct {
	Assessment        string   `json:"assessment"`
	KeyFindings       []string `json:"key_findings"`
	RecommendedAction string   `json:"recommended_action"`
	Explanation       string   `json:"explanation"`
}
