// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// VerificationStage identifies one of the five fixed checkpoints in the
// research pipeline.
type VerificationStage string

const (
	StagePreSearch     VerificationStage = "pre_search"
	StageDuringSearch  VerificationStage = "during_search"
	StagePostSearch    VerificationStage = "post_search"
	StagePreSynthesis  VerificationStage = "pre_synthesis"
	StagePostSynthesis VerificationStage = "post_synthesis"
)

// Stages lists the checkpoints in execution order.
var Stages = []VerificationStage{
	StagePreSearch,
	StageDuringSearch,
	StagePostSearch,
	StagePreSynthesis,
	StagePostSynthesis,
}

// VerificationResult is the typed outcome of one checkpoint evaluation.
// Exactly one result exists per stage per invocation. When Error is set,
// Confidence is 0 and IsValid is false; the two never contradict.
type VerificationResult struct {
	// Stage is the checkpoint that produced this result.
	Stage VerificationStage `json:"stage" yaml:"stage"`

	// IsValid reports whether the checkpoint passed. For post_search this
	// doubles as the sufficiency verdict.
	IsValid bool `json:"is_valid" yaml:"is_valid"`

	// Confidence is the evaluator's 0-1 confidence in the verdict.
	Confidence float64 `json:"confidence" yaml:"confidence"`

	// SubScores carries the stage-specific 0-1 metrics (legal_relevance,
	// quality, completeness, source_alignment, clarity, ...).
	SubScores map[string]float64 `json:"sub_scores,omitempty" yaml:"sub_scores,omitempty"`

	// Issues lists problems the evaluator found.
	Issues []string `json:"issues,omitempty" yaml:"issues,omitempty"`

	// Recommendations lists suggested follow-up actions.
	Recommendations []string `json:"recommendations,omitempty" yaml:"recommendations,omitempty"`

	// Timestamp is when the checkpoint ran. Within a session, timestamps are
	// non-decreasing across the fixed stage order.
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`

	// QueryHash is a deterministic hash of the input query, kept for audit
	// traceability.
	QueryHash string `json:"query_hash" yaml:"query_hash"`

	// Error describes an upstream or parse failure. A set Error always comes
	// with IsValid=false and Confidence=0.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Failed reports whether the checkpoint ran into an upstream or parse error
// rather than producing a genuine verdict.
func (r VerificationResult) Failed() bool {
	return r.Error != ""
}
