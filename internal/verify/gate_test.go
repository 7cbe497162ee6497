// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package verify

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/lexengine/internal/llm"
	"github.com/pdiddy/lexengine/pkg/types"
)

type mockLLM struct {
	content string
	err     error
	lastReq llm.Request
}

func (m *mockLLM) Complete(ctx context.Context, req llm.Request) (llm.Response, error) {
	m.lastReq = req
	if m.err != nil {
		return llm.Response{}, m.err
	}
	return llm.Response{Content: m.content}, nil
}

type memRecorder struct {
	results []types.VerificationResult
}

func (r *memRecorder) Record(ctx context.Context, result types.VerificationResult) error {
	r.results = append(r.results, result)
	return nil
}

const validVerdict = `{"is_valid":true,"confidence":0.85,` +
	`"sub_scores":{"legal_relevance":0.9,"clarity":0.8,"scope":0.85},` +
	`"issues":[],"recommendations":["ampliar jurisprudencia reciente"]}`

func TestVerifyPreSearchValid(t *testing.T) {
	rec := &memRecorder{}
	g := NewGate(&mockLLM{content: validVerdict}, "test-model", rec, nil)

	got := g.VerifyPreSearch(context.Background(), "¿Qué es la acción de tutela?")

	if got.Stage != types.StagePreSearch {
		t.Errorf("Stage = %q, want pre_search", got.Stage)
	}
	if !got.IsValid || got.Confidence != 0.85 {
		t.Errorf("verdict = valid:%v confidence:%v, want valid:true confidence:0.85", got.IsValid, got.Confidence)
	}
	if got.SubScores["legal_relevance"] != 0.9 {
		t.Errorf("SubScores[legal_relevance] = %v, want 0.9", got.SubScores["legal_relevance"])
	}
	if got.QueryHash == "" || len(got.QueryHash) != 12 {
		t.Errorf("QueryHash = %q, want 12 hex chars", got.QueryHash)
	}
	if got.Timestamp.IsZero() {
		t.Error("Timestamp not stamped")
	}
	if len(rec.results) != 1 {
		t.Fatalf("recorder received %d results, want 1", len(rec.results))
	}
}

func TestVerifyUpstreamErrorZeroesVerdict(t *testing.T) {
	rec := &memRecorder{}
	g := NewGate(&mockLLM{err: fmt.Errorf("API timeout")}, "test-model", rec, nil)

	got := g.VerifyPreSearch(context.Background(), "consulta")

	if got.IsValid {
		t.Error("IsValid = true on upstream error")
	}
	if got.Confidence != 0 {
		t.Errorf("Confidence = %v on upstream error, want 0", got.Confidence)
	}
	if !strings.Contains(got.Error, "API timeout") {
		t.Errorf("Error = %q, want it to carry the upstream message", got.Error)
	}
	if got.QueryHash == "" || got.Timestamp.IsZero() {
		t.Error("error result missing timestamp or query hash")
	}
	if len(rec.results) != 1 || !rec.results[0].Failed() {
		t.Error("error result not recorded")
	}
}

func TestVerifyMalformedResponse(t *testing.T) {
	g := NewGate(&mockLLM{content: "no puedo evaluar esto"}, "test-model", nil, nil)

	got := g.VerifyPostSearch(context.Background(), "consulta", nil)

	if !strings.Contains(got.Error, "parsing verification response") {
		t.Errorf("Error = %q, want a parse error", got.Error)
	}
	if got.IsValid || got.Confidence != 0 {
		t.Error("parse failure must yield invalid, zero-confidence result")
	}
}

func TestVerifyMissingVerdictField(t *testing.T) {
	g := NewGate(&mockLLM{content: `{"confidence":0.5}`}, "test-model", nil, nil)

	got := g.VerifyPreSynthesis(context.Background(), "consulta", nil)
	if !strings.Contains(got.Error, "parsing verification response") {
		t.Errorf("Error = %q, want a parse error for missing is_valid", got.Error)
	}
}

func TestVerifyConfidenceClamped(t *testing.T) {
	g := NewGate(&mockLLM{content: `{"is_valid":true,"confidence":1.7,"sub_scores":{"accuracy":-0.2}}`}, "test-model", nil, nil)

	got := g.VerifyPostSynthesis(context.Background(), "consulta", "respuesta", nil)
	if got.Confidence != 1 {
		t.Errorf("Confidence = %v, want clamped to 1", got.Confidence)
	}
	if got.SubScores["accuracy"] != 0 {
		t.Errorf("SubScores[accuracy] = %v, want clamped to 0", got.SubScores["accuracy"])
	}
}

func TestVerifyTimestampsNonDecreasing(t *testing.T) {
	rec := &memRecorder{}
	g := NewGate(&mockLLM{content: validVerdict}, "test-model", rec, nil)

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	tick := 0
	g.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	query := "¿Cuál es el término de caducidad de la acción de nulidad?"
	sources := []types.Source{{Title: "Consejo de Estado", URL: "https://consejodeestado.gov.co/x", Type: types.SourceOfficial, Quality: 9}}

	g.VerifyPreSearch(context.Background(), query)
	g.VerifyDuringSearch(context.Background(), query, sources)
	g.VerifyPostSearch(context.Background(), query, sources)
	g.VerifyPreSynthesis(context.Background(), query, sources)
	g.VerifyPostSynthesis(context.Background(), query, "respuesta", sources)

	if len(rec.results) != len(types.Stages) {
		t.Fatalf("recorded %d results, want %d", len(rec.results), len(types.Stages))
	}
	for i, r := range rec.results {
		if r.Stage != types.Stages[i] {
			t.Errorf("result %d stage = %q, want %q", i, r.Stage, types.Stages[i])
		}
		if i > 0 && r.Timestamp.Before(rec.results[i-1].Timestamp) {
			t.Errorf("timestamp at stage %q decreased", r.Stage)
		}
	}
}

func TestQueryHashDeterministic(t *testing.T) {
	a := QueryHash("¿Qué es el Habeas Data?")
	b := QueryHash("  ¿qué es el habeas data?  ")
	if a != b {
		t.Errorf("QueryHash not normalizing: %q vs %q", a, b)
	}
	if c := QueryHash("otra consulta"); c == a {
		t.Error("distinct queries produced the same hash")
	}
}

func TestPostSearchPromptCarriesOfficialCount(t *testing.T) {
	mock := &mockLLM{content: validVerdict}
	g := NewGate(mock, "test-model", nil, nil)

	sources := []types.Source{
		{Title: "Corte Constitucional", URL: "https://corteconstitucional.gov.co/a", Type: types.SourceOfficial},
		{Title: "Blog jurídico", URL: "https://example.com/b", Type: types.SourceGeneral},
	}
	g.VerifyPostSearch(context.Background(), "consulta", sources)

	user := mock.lastReq.Messages[len(mock.lastReq.Messages)-1].Content
	if !strings.Contains(user, "Fuentes oficiales: 1 de 2") {
		t.Errorf("user prompt missing official count: %q", user)
	}
}
