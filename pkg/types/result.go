// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Complexity estimates how much investigation a query needs.
type Complexity string

const (
	ComplexitySimple      Complexity = "simple"
	ComplexityModerate    Complexity = "moderate"
	ComplexityComplex     Complexity = "complex"
	ComplexityVeryComplex Complexity = "very_complex"
)

// ResearchMode selects which orchestration strategy drives the session.
type ResearchMode string

const (
	ModeReactive  ResearchMode = "reactive"
	ModeIterative ResearchMode = "iterative"
	ModeHybrid    ResearchMode = "hybrid"
)

// Valid reports whether m is one of the known modes.
func (m ResearchMode) Valid() bool {
	switch m {
	case ModeReactive, ModeIterative, ModeHybrid:
		return true
	}
	return false
}

// Analysis summarizes how the research session went.
type Analysis struct {
	Mode               ResearchMode `json:"mode" yaml:"mode"`
	Complexity         Complexity   `json:"complexity" yaml:"complexity"`
	Reasoning          string       `json:"reasoning,omitempty" yaml:"reasoning,omitempty"`
	QualityScore       float64      `json:"quality_score" yaml:"quality_score"`
	Confidence         float64      `json:"confidence" yaml:"confidence"`
	VerificationPassed bool         `json:"verification_passed" yaml:"verification_passed"`
	ProcessingTimeMs   int64        `json:"processing_time_ms" yaml:"processing_time_ms"`
}

// ResultMetadata carries session counters and traceability data.
type ResultMetadata struct {
	TotalRounds   int      `json:"total_rounds" yaml:"total_rounds"`
	TotalSearches int      `json:"total_searches" yaml:"total_searches"`
	TotalSources  int      `json:"total_sources" yaml:"total_sources"`
	ToolsUsed     []string `json:"tools_used" yaml:"tools_used"`

	// StabilityClampApplied is set when the named round clamp, not natural
	// sufficiency, ended the research loop.
	StabilityClampApplied bool `json:"stability_clamp_applied,omitempty" yaml:"stability_clamp_applied,omitempty"`

	// ReactSteps holds the thought/action/observation trace for reactive and
	// hybrid sessions.
	ReactSteps []ReactStep `json:"react_steps,omitempty" yaml:"react_steps,omitempty"`

	// IterPlan holds the round plan for iterative and hybrid sessions.
	IterPlan []RoundPlan `json:"iter_plan,omitempty" yaml:"iter_plan,omitempty"`
}

// ReactStep is one thought-action-observation cycle of the reactive mode.
type ReactStep struct {
	Thought     string `json:"thought" yaml:"thought"`
	Action      string `json:"action,omitempty" yaml:"action,omitempty"`
	Observation string `json:"observation,omitempty" yaml:"observation,omitempty"`
}

// RoundPlan is one planned round of the iterative mode.
type RoundPlan struct {
	Round     int    `json:"round" yaml:"round"`
	Objective string `json:"objective" yaml:"objective"`
	Query     string `json:"query" yaml:"query"`
}

// ResearchResult is the terminal artifact of one orchestration call. It is
// created once, returned to the caller, and never mutated afterwards. All
// failure states are encoded here; Orchestrate never raises past its boundary.
type ResearchResult struct {
	FinalAnswer     string         `json:"final_answer" yaml:"final_answer"`
	Sources         []Source       `json:"sources" yaml:"sources"`
	Analysis        Analysis       `json:"analysis" yaml:"analysis"`
	Recommendations []string       `json:"recommendations,omitempty" yaml:"recommendations,omitempty"`
	Warnings        []string       `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Metadata        ResultMetadata `json:"metadata" yaml:"metadata"`
}
