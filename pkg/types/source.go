// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the lexengine research
// pipeline: sources, research rounds, verification results, and the terminal
// ResearchResult artifact, plus the per-stage configuration structs.
package types

// SourceType categorizes where a legal source comes from.
type SourceType string

const (
	SourceOfficial SourceType = "official"
	SourceAcademic SourceType = "academic"
	SourceGeneral  SourceType = "general"
)

// Priority returns the ranking weight of the source type. Official sources
// outrank academic ones, which outrank the general web.
func (t SourceType) Priority() int {
	switch t {
	case SourceOfficial:
		return 3
	case SourceAcademic:
		return 2
	default:
		return 1
	}
}

// Authority is the five-tier ranking of how binding a legal source is
// within the Colombian hierarchy of norms.
type Authority string

const (
	AuthorityMaxima Authority = "maxima"
	AuthorityAlta   Authority = "alta"
	AuthorityMedia  Authority = "media"
	AuthorityBaja   Authority = "baja"
	AuthorityMinima Authority = "minima"
)

// Rank returns a comparable weight for the authority tier (higher is more
// authoritative).
func (a Authority) Rank() int {
	switch a {
	case AuthorityMaxima:
		return 5
	case AuthorityAlta:
		return 4
	case AuthorityMedia:
		return 3
	case AuthorityBaja:
		return 2
	default:
		return 1
	}
}

// Currency records whether a source is known to reflect current law.
type Currency string

const (
	CurrencyCurrent  Currency = "actualizada"
	CurrencyOutdated Currency = "desactualizada"
	CurrencyUnknown  Currency = "desconocida"
)

// RecommendedUse advises the synthesis stage how to employ a source.
type RecommendedUse string

const (
	UsePrimaryCitation RecommendedUse = "cita_principal"
	UseSecondary       RecommendedUse = "secundaria"
	UseContextual      RecommendedUse = "contextual"
	UseNone            RecommendedUse = "no_usar"
)

// Source is one candidate legal source accumulated during a session. Sources
// are unique by normalized URL across the session; Content only ever grows in
// richness once enrichment runs.
type Source struct {
	// Title is the result title as returned by the search provider.
	Title string `json:"title" yaml:"title"`

	// URL is the unique key for the source within a session.
	URL string `json:"url" yaml:"url"`

	// Snippet is the short search-result excerpt.
	Snippet string `json:"snippet" yaml:"snippet"`

	// Content is the full extracted text, filled by the enrichment pipeline.
	// Empty until enrichment; falls back to Snippet when all extractors fail.
	Content string `json:"content,omitempty" yaml:"content,omitempty"`

	// Type is the source category: official, academic, or general.
	Type SourceType `json:"type" yaml:"type"`

	// Quality is a 0-10 usefulness score derived from relevance and type.
	Quality int `json:"quality" yaml:"quality"`

	// Authority is the five-tier binding-force ranking.
	Authority Authority `json:"authority" yaml:"authority"`

	// Relevance is the 0-20 keyword-overlap score against the query.
	Relevance int `json:"relevance" yaml:"relevance"`

	// Currency records vigencia when known.
	Currency Currency `json:"currency,omitempty" yaml:"currency,omitempty"`

	// RecommendedUse advises how synthesis should cite this source.
	RecommendedUse RecommendedUse `json:"recommended_use,omitempty" yaml:"recommended_use,omitempty"`

	// Degraded is set when every extraction tier failed and Content is just
	// the search snippet.
	Degraded bool `json:"degraded,omitempty" yaml:"degraded,omitempty"`
}

// Enriched reports whether the source carries more than its search snippet.
func (s Source) Enriched() bool {
	return s.Content != "" && s.Content != s.Snippet
}

// SufficiencyEvaluation is the per-round decision of whether accumulated
// sources meet the bar needed to stop iterating.
type SufficiencyEvaluation struct {
	IsSufficient   bool     `json:"is_sufficient" yaml:"is_sufficient"`
	Confidence     float64  `json:"confidence" yaml:"confidence"`
	OfficialCount  int      `json:"official_count" yaml:"official_count"`
	AverageQuality float64  `json:"average_quality" yaml:"average_quality"`
	MissingInfo    []string `json:"missing_info,omitempty" yaml:"missing_info,omitempty"`
}

// ResearchRound records one completed search+enrich+verify iteration.
// Rounds are immutable once appended to the session history.
type ResearchRound struct {
	RoundNumber           int                    `json:"round_number" yaml:"round_number"`
	QueriesIssued         []string               `json:"queries_issued" yaml:"queries_issued"`
	Sources               []Source               `json:"sources" yaml:"sources"`
	DurationMs            int64                  `json:"duration_ms" yaml:"duration_ms"`
	SufficiencyEvaluation *SufficiencyEvaluation `json:"sufficiency_evaluation,omitempty" yaml:"sufficiency_evaluation,omitempty"`
}

// OfficialCount returns the number of official-type sources in s.
func OfficialCount(sources []Source) int {
	n := 0
	for _, s := range sources {
		if s.Type == SourceOfficial {
			n++
		}
	}
	return n
}

// AverageQuality returns the mean quality of sources, or 0 for an empty set.
func AverageQuality(sources []Source) float64 {
	if len(sources) == 0 {
		return 0
	}
	sum := 0
	for _, s := range sources {
		sum += s.Quality
	}
	return float64(sum) / float64(len(sources))
}
