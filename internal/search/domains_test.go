package search

import (
	"testing"

	"github.com/pdiddy/lexengine/pkg/types"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want types.SourceType
	}{
		{"constitutional court", "https://www.corteconstitucional.gov.co/relatoria/2021/C-055-21.htm", types.SourceOfficial},
		{"senate secretariat", "http://www.secretariasenado.gov.co/senado/basedoc/ley_1258_2008.html", types.SourceOfficial},
		{"dian", "https://www.dian.gov.co/normatividad", types.SourceOfficial},
		{"externado", "https://www.uexternado.edu.co/derecho/articulo", types.SourceAcademic},
		{"scielo", "https://scielo.org/article/123", types.SourceAcademic},
		{"newspaper", "https://www.eltiempo.com/justicia/nota", types.SourceGeneral},
		{"random blog", "https://blog-legal.example.com/post", types.SourceGeneral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.url); got != tt.want {
				t.Errorf("Classify(%q) = %s, want %s", tt.url, got, tt.want)
			}
		})
	}
}

func TestExcluded(t *testing.T) {
	if !Excluded("https://es.wikipedia.org/wiki/Tutela") {
		t.Error("wikipedia must be excluded")
	}
	if Excluded("https://www.corteconstitucional.gov.co") {
		t.Error("official domain must not be excluded")
	}
}

func TestRelevanceWeighting(t *testing.T) {
	query := "requisitos constituir SAS"

	// Keyword in title counts triple; same keyword only in snippet counts once.
	inTitle := Relevance(query, "Requisitos para constituir una SAS", "", "https://example.com/a")
	inSnippet := Relevance(query, "Documento", "requisitos para constituir una SAS", "https://example.com/a")
	if inTitle <= inSnippet {
		t.Errorf("title match (%d) must outweigh snippet match (%d)", inTitle, inSnippet)
	}
}

func TestRelevanceOfficialBonus(t *testing.T) {
	query := "requisitos constituir SAS"
	official := Relevance(query, "Requisitos SAS", "texto", "https://www.supersociedades.gov.co/doc")
	general := Relevance(query, "Requisitos SAS", "texto", "https://example.com/doc")
	if official <= general {
		t.Errorf("official (%d) must outscore general (%d) for identical text", official, general)
	}
}

func TestRelevanceCap(t *testing.T) {
	query := "ley decreto sentencia jurisprudencia código artículo norma reglamento"
	title := "ley decreto sentencia jurisprudencia código artículo norma reglamento 1258"
	if got := Relevance(query, title, title, "https://www.dian.gov.co/x"); got != 20 {
		t.Errorf("relevance = %d, want capped at 20", got)
	}
}

func TestQualityFor(t *testing.T) {
	tests := []struct {
		relevance int
		want      int
	}{
		{20, 9},
		{15, 9},
		{12, 7},
		{10, 7},
		{9, 5},
		{0, 5},
	}
	for _, tt := range tests {
		if got := QualityFor(tt.relevance); got != tt.want {
			t.Errorf("QualityFor(%d) = %d, want %d", tt.relevance, got, tt.want)
		}
	}
}

func TestAuthorityFor(t *testing.T) {
	if got := AuthorityFor(types.SourceOfficial, 9); got != types.AuthorityMaxima {
		t.Errorf("official authority = %s, want maxima", got)
	}
	if got := AuthorityFor(types.SourceAcademic, 7); got != types.AuthorityAlta {
		t.Errorf("academic authority = %s, want alta", got)
	}
	if got := AuthorityFor(types.SourceGeneral, 5); got != types.AuthorityMedia {
		t.Errorf("general authority = %s, want media", got)
	}
	if got := AuthorityFor(types.SourceGeneral, 2); got != types.AuthorityBaja {
		t.Errorf("weak general authority = %s, want baja", got)
	}
}
