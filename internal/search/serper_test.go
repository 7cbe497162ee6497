package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pdiddy/lexengine/pkg/types"
)

func serperFixture() string {
	return `{"organic":[
		{"title":"Ley 1258 de 2008","link":"http://www.secretariasenado.gov.co/senado/basedoc/ley_1258_2008.html","snippet":"Por medio de la cual se crea la sociedad por acciones simplificada"},
		{"title":"SAS - Wikipedia","link":"https://es.wikipedia.org/wiki/SAS","snippet":"enciclopedia libre"},
		{"title":"Guía constitución SAS","link":"https://example.com/guia-sas","snippet":"pasos para constituir una SAS"}
	]}`
}

func TestSerperSearchOfficialStrategy(t *testing.T) {
	var gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if key := r.Header.Get("X-API-KEY"); key != "test-key" {
			t.Errorf("X-API-KEY = %q", key)
		}
		var req serperRequest
		json.NewDecoder(r.Body).Decode(&req)
		gotQuery = req.Query
		w.Write([]byte(serperFixture()))
	}))
	defer ts.Close()

	s := NewSerperWithEndpoint(ts.URL)
	sources, err := s.Search(context.Background(), "constituir SAS", StrategyOfficial, testCfg())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if !strings.Contains(gotQuery, "site:secretariasenado.gov.co") {
		t.Errorf("official query missing site filter: %q", gotQuery)
	}
	if !strings.Contains(gotQuery, "-site:wikipedia.org") {
		t.Errorf("query missing wikipedia exclusion: %q", gotQuery)
	}

	// Only the official result survives: wikipedia is excluded and the
	// general guide is out of the official strategy's scope.
	if len(sources) != 1 {
		t.Fatalf("len(sources) = %d, want 1", len(sources))
	}
	if sources[0].Type != types.SourceOfficial {
		t.Errorf("type = %s, want official", sources[0].Type)
	}
	if sources[0].Authority != types.AuthorityMaxima {
		t.Errorf("authority = %s, want maxima", sources[0].Authority)
	}
	if sources[0].RecommendedUse != types.UsePrimaryCitation {
		t.Errorf("recommended use = %s, want cita_principal", sources[0].RecommendedUse)
	}
}

func TestSerperSearchGeneralAcceptsNonOfficial(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(serperFixture()))
	}))
	defer ts.Close()

	s := NewSerperWithEndpoint(ts.URL)
	sources, err := s.Search(context.Background(), "constituir SAS", StrategyGeneral, testCfg())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	// Wikipedia stays excluded even for the unrestricted strategy.
	if len(sources) != 2 {
		t.Fatalf("len(sources) = %d, want 2", len(sources))
	}
	for _, src := range sources {
		if strings.Contains(src.URL, "wikipedia") {
			t.Errorf("wikipedia leaked into results: %s", src.URL)
		}
	}
}

func TestSerperSearchRequiresAPIKey(t *testing.T) {
	s := NewSerper()
	cfg := testCfg()
	cfg.APIKey = ""
	if _, err := s.Search(context.Background(), "q", StrategyGeneral, cfg); err == nil {
		t.Fatal("expected error for missing API key")
	}
}

func TestSerperSearchHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	s := NewSerperWithEndpoint(ts.URL)
	if _, err := s.Search(context.Background(), "q", StrategyGeneral, testCfg()); err == nil {
		t.Fatal("expected error on http 500")
	}
}
