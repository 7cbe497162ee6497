// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package quality computes the deterministic 0-10 quality score for a
// finished research session. The score is arithmetic over the collected
// sources and the drafted answer, with no model call, so the same session
// always scores the same.
package quality

import (
	"strings"

	"github.com/pdiddy/lexengine/pkg/types"
)

// Score is the four-dimension quality breakdown. Each dimension and the
// overall value sit on a 0-10 scale.
type Score struct {
	Completeness float64 `json:"completeness" yaml:"completeness"`
	Accuracy     float64 `json:"accuracy" yaml:"accuracy"`
	Relevance    float64 `json:"relevance" yaml:"relevance"`
	Authority    float64 `json:"authority" yaml:"authority"`
	Overall      float64 `json:"overall" yaml:"overall"`
}

const (
	targetSourceCount   = 5
	targetOfficialCount = 3
	substantialAnswer   = 1500
)

// Evaluate scores the session from its sources and final answer.
func Evaluate(sources []types.Source, answer string) Score {
	s := Score{
		Completeness: completeness(sources, answer),
		Accuracy:     accuracy(sources),
		Relevance:    relevance(sources),
		Authority:    authority(sources),
	}
	s.Overall = round1((s.Completeness + s.Accuracy + s.Relevance + s.Authority) / 4)
	return s
}

// completeness rewards source volume and answer length up to their targets.
func completeness(sources []types.Source, answer string) float64 {
	volume := float64(len(sources)) / targetSourceCount
	if volume > 1 {
		volume = 1
	}
	depth := float64(len(answer)) / substantialAnswer
	if depth > 1 {
		depth = 1
	}
	return round1((volume*6 + depth*4))
}

// accuracy proxies factual reliability with enrichment coverage: a session
// whose cited sources carry real extracted text is more checkable than one
// running on snippets.
func accuracy(sources []types.Source) float64 {
	if len(sources) == 0 {
		return 0
	}
	enriched, degraded := 0, 0
	for _, s := range sources {
		if s.Enriched() {
			enriched++
		}
		if s.Degraded {
			degraded++
		}
	}
	score := 5 + 5*float64(enriched)/float64(len(sources))
	score -= 2 * float64(degraded) / float64(len(sources))
	return round1(clamp(score))
}

// relevance averages the per-source relevance scores, rescaled from the
// 0-20 search scale.
func relevance(sources []types.Source) float64 {
	if len(sources) == 0 {
		return 0
	}
	sum := 0
	for _, s := range sources {
		sum += s.Relevance
	}
	return round1(float64(sum) / float64(len(sources)) / 2)
}

// authority rewards official coverage against the three-official target and
// folds in the per-source authority tiers.
func authority(sources []types.Source) float64 {
	if len(sources) == 0 {
		return 0
	}
	official := float64(types.OfficialCount(sources)) / targetOfficialCount
	if official > 1 {
		official = 1
	}
	rankSum := 0
	for _, s := range sources {
		rankSum += s.Authority.Rank()
	}
	tiers := float64(rankSum) / float64(len(sources)) / 5
	return round1((official*6 + tiers*4))
}

// Warnings derives the standard quality warnings for the result envelope.
func Warnings(score Score, sources []types.Source) []string {
	var out []string
	if types.OfficialCount(sources) < targetOfficialCount {
		out = append(out, "pocas fuentes oficiales: se recomienda verificar la información en fuentes estatales")
	}
	if score.Overall < 5 {
		out = append(out, "calidad general baja: la respuesta puede estar incompleta")
	}
	outdated := 0
	for _, s := range sources {
		if s.Currency == types.CurrencyOutdated {
			outdated++
		}
	}
	if outdated > 0 {
		out = append(out, "algunas fuentes pueden estar desactualizadas; confirme la vigencia de las normas citadas")
	}
	return out
}

// Recommendations derives follow-up suggestions for the user.
func Recommendations(score Score, sources []types.Source) []string {
	var out []string
	if score.Authority < 6 {
		out = append(out, "Consultar directamente las sentencias y normas en las páginas oficiales citadas")
	}
	if score.Completeness < 6 {
		out = append(out, "Ampliar la investigación con doctrina y jurisprudencia adicional")
	}
	for _, s := range sources {
		if s.RecommendedUse == types.UsePrimaryCitation && s.Type == types.SourceOfficial {
			out = append(out, "Citar como fuente principal: "+strings.TrimSpace(s.Title))
			break
		}
	}
	return out
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
