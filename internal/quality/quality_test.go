// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package quality

import (
	"strings"
	"testing"

	"github.com/pdiddy/lexengine/pkg/types"
)

func richSource(url string) types.Source {
	return types.Source{
		Title:     "Sentencia C-123 de 2023",
		URL:       url,
		Snippet:   "resumen",
		Content:   strings.Repeat("texto de la sentencia ", 50),
		Type:      types.SourceOfficial,
		Quality:   9,
		Authority: types.AuthorityMaxima,
		Relevance: 18,
	}
}

func TestEvaluateEmptySession(t *testing.T) {
	got := Evaluate(nil, "")
	if got.Overall != 0 {
		t.Errorf("Overall = %v for empty session, want 0", got.Overall)
	}
}

func TestEvaluateStrongSession(t *testing.T) {
	sources := []types.Source{
		richSource("https://corteconstitucional.gov.co/a"),
		richSource("https://secretariasenado.gov.co/b"),
		richSource("https://suin-juriscol.gov.co/c"),
		richSource("https://dian.gov.co/d"),
		richSource("https://consejodeestado.gov.co/e"),
	}
	answer := strings.Repeat("análisis jurídico detallado ", 80)

	got := Evaluate(sources, answer)

	if got.Overall < 8 {
		t.Errorf("Overall = %v for a strong session, want >= 8", got.Overall)
	}
	for name, v := range map[string]float64{
		"completeness": got.Completeness,
		"accuracy":     got.Accuracy,
		"relevance":    got.Relevance,
		"authority":    got.Authority,
	} {
		if v < 0 || v > 10 {
			t.Errorf("%s = %v, out of 0-10 range", name, v)
		}
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	sources := []types.Source{richSource("https://corteconstitucional.gov.co/a")}
	answer := "respuesta"
	if Evaluate(sources, answer) != Evaluate(sources, answer) {
		t.Error("Evaluate not deterministic for identical input")
	}
}

func TestDegradedSourcesLowerAccuracy(t *testing.T) {
	full := []types.Source{richSource("https://corteconstitucional.gov.co/a")}
	degraded := []types.Source{{
		Title: "Fuente", URL: "https://example.com/a", Snippet: "s", Content: "s",
		Type: types.SourceGeneral, Quality: 5, Authority: types.AuthorityMedia,
		Relevance: 10, Degraded: true,
	}}

	if Evaluate(full, "x").Accuracy <= Evaluate(degraded, "x").Accuracy {
		t.Error("degraded-only session did not score lower on accuracy")
	}
}

func TestWarningsFewOfficialSources(t *testing.T) {
	sources := []types.Source{{URL: "https://example.com/a", Type: types.SourceGeneral, Quality: 6, Relevance: 10, Authority: types.AuthorityMedia}}
	score := Evaluate(sources, "respuesta corta")

	warnings := Warnings(score, sources)
	found := false
	for _, w := range warnings {
		if strings.Contains(w, "fuentes oficiales") {
			found = true
		}
	}
	if !found {
		t.Errorf("Warnings() = %v, want a few-official-sources warning", warnings)
	}
}

func TestWarningsOutdatedCurrency(t *testing.T) {
	sources := []types.Source{{
		URL: "https://corteconstitucional.gov.co/a", Type: types.SourceOfficial,
		Quality: 9, Relevance: 15, Authority: types.AuthorityMaxima,
		Currency: types.CurrencyOutdated,
	}}
	warnings := Warnings(Evaluate(sources, "x"), sources)
	found := false
	for _, w := range warnings {
		if strings.Contains(w, "desactualizadas") {
			found = true
		}
	}
	if !found {
		t.Errorf("Warnings() = %v, want an outdated-currency warning", warnings)
	}
}

func TestRecommendationsNamePrimaryCitation(t *testing.T) {
	src := richSource("https://corteconstitucional.gov.co/a")
	src.RecommendedUse = types.UsePrimaryCitation
	recs := Recommendations(Evaluate([]types.Source{src}, "x"), []types.Source{src})

	found := false
	for _, r := range recs {
		if strings.Contains(r, src.Title) {
			found = true
		}
	}
	if !found {
		t.Errorf("Recommendations() = %v, want the primary citation named", recs)
	}
}
