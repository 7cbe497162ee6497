// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"regexp"
	"strings"

	"github.com/pdiddy/lexengine/pkg/types"
)

// officialDomains are the Colombian government and judicial sites that make
// a source "official": high courts, the official gazette, ministries, and
// the superintendencies.
var officialDomains = []string{
	"corteconstitucional.gov.co",
	"consejodeestado.gov.co",
	"cortesuprema.gov.co",
	"secretariasenado.gov.co",
	"suin-juriscol.gov.co",
	"imprenta.gov.co",
	"funcionpublica.gov.co",
	"ramajudicial.gov.co",
	"procuraduria.gov.co",
	"contraloria.gov.co",
	"fiscalia.gov.co",
	"defensoria.gov.co",
	"minjusticia.gov.co",
	"minhacienda.gov.co",
	"supersociedades.gov.co",
	"superfinanciera.gov.co",
	"dian.gov.co",
	"mincomercio.gov.co",
	"sic.gov.co",
}

// academicDomains cover law faculties and scholarly indexes.
var academicDomains = []string{
	"uexternado.edu.co",
	"unal.edu.co",
	"javeriana.edu.co",
	"uniandes.edu.co",
	"icesi.edu.co",
	"scholar.google.com",
	"scielo.org",
	"researchgate.net",
	"academia.edu",
}

// excludedDomains are generic encyclopedic sources that every strategy
// excludes explicitly.
var excludedDomains = []string{
	"wikipedia.org",
	"wikimedia.org",
	"wikidata.org",
}

// legalTerms boost relevance when they appear in a result's title or snippet.
var legalTerms = []string{
	"artículo", "ley", "decreto", "sentencia", "jurisprudencia",
	"código", "norma", "reglamento", "resolución", "fallo", "tutela", "acción",
}

const (
	officialBonus = 5
	maxRelevance  = 20
)

var digitRe = regexp.MustCompile(`\d`)

// Classify returns the source type for a URL based on the domain allow-lists.
func Classify(rawURL string) types.SourceType {
	u := strings.ToLower(rawURL)
	for _, d := range officialDomains {
		if strings.Contains(u, d) {
			return types.SourceOfficial
		}
	}
	for _, d := range academicDomains {
		if strings.Contains(u, d) {
			return types.SourceAcademic
		}
	}
	return types.SourceGeneral
}

// Excluded reports whether the URL belongs to an encyclopedic source that is
// never accepted as legal evidence.
func Excluded(rawURL string) bool {
	u := strings.ToLower(rawURL)
	for _, d := range excludedDomains {
		if strings.Contains(u, d) {
			return true
		}
	}
	return false
}

// Relevance scores a result 0-20 against the query: keyword overlap in the
// title counts triple, overlap in the snippet counts single, official-domain
// matches earn a fixed bonus, and legal vocabulary adds on top.
func Relevance(query, title, snippet, rawURL string) int {
	keywords := queryKeywords(query)
	titleLower := strings.ToLower(title)
	snippetLower := strings.ToLower(snippet)

	score := 0
	for _, kw := range keywords {
		if strings.Contains(titleLower, kw) {
			score += 3
		}
		if strings.Contains(snippetLower, kw) {
			score++
		}
	}

	if Classify(rawURL) == types.SourceOfficial {
		score += officialBonus
	}

	content := titleLower + " " + snippetLower
	for _, term := range legalTerms {
		if strings.Contains(content, term) {
			score += 2
		}
	}
	// Statute and article numbers are a weak but real signal.
	if digitRe.MatchString(content) {
		score++
	}

	if score > maxRelevance {
		score = maxRelevance
	}
	return score
}

// QualityFor derives the 0-10 quality figure from relevance, the scale the
// sufficiency rule and the quality scorer both consume.
func QualityFor(relevance int) int {
	switch {
	case relevance >= 15:
		return 9
	case relevance >= 10:
		return 7
	default:
		return 5
	}
}

// AuthorityFor maps a source type and quality onto the five-tier hierarchy.
func AuthorityFor(t types.SourceType, quality int) types.Authority {
	switch t {
	case types.SourceOfficial:
		return types.AuthorityMaxima
	case types.SourceAcademic:
		return types.AuthorityAlta
	default:
		if quality <= 3 {
			return types.AuthorityBaja
		}
		return types.AuthorityMedia
	}
}

// queryKeywords lowercases the query and keeps terms long enough to carry
// meaning, dropping short connectives.
func queryKeywords(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	var out []string
	for _, f := range fields {
		f = strings.Trim(f, "¿?¡!.,;:\"'()")
		if len([]rune(f)) >= 4 {
			out = append(out, f)
		}
	}
	return out
}
