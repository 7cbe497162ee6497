// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"context"
	"fmt"
	"strings"
	"testing"

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

func TestClassifyParsesResponse(t *testing.T) {
	mock := &mockLLM{content: `{"complexity":"complex","mode":"iterative","reasoning":"requiere contrastar jurisprudencia"}`}
	c := New(mock, "test-model", nil)

	got, err := c.Classify(context.Background(), "¿Es constitucional la reforma tributaria de 2024?", nil)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if got.Complexity != types.ComplexityComplex {
		t.Errorf("Complexity = %q, want complex", got.Complexity)
	}
	if got.Mode != types.ModeIterative {
		t.Errorf("Mode = %q, want iterative", got.Mode)
	}
	if got.Reasoning == "" {
		t.Error("Reasoning empty")
	}
	if !mock.lastReq.JSONOnly {
		t.Error("request not marked JSON-only")
	}
}

func TestClassifyFencedResponse(t *testing.T) {
	mock := &mockLLM{content: "```json\n{\"complexity\":\"simple\",\"mode\":\"reactive\",\"reasoning\":\"definición puntual\"}\n```"}
	c := New(mock, "test-model", nil)

	got, err := c.Classify(context.Background(), "¿Qué es el habeas data?", nil)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if got.Complexity != types.ComplexitySimple || got.Mode != types.ModeReactive {
		t.Errorf("got %q/%q, want simple/reactive", got.Complexity, got.Mode)
	}
}

func TestClassifySASRequirementsQuery(t *testing.T) {
	mock := &mockLLM{content: `{"complexity":"medium","mode":"iterative","reasoning":"requisitos societarios con varios trámites"}`}
	c := New(mock, "test-model", nil)

	got, err := c.Classify(context.Background(), "¿Cuáles son los requisitos para constituir una SAS en Colombia?", nil)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if got.Complexity != types.ComplexityModerate {
		t.Errorf("Complexity = %q, want moderate (folded from medium)", got.Complexity)
	}
	if got.Mode != types.ModeIterative {
		t.Errorf("Mode = %q, want iterative", got.Mode)
	}
}

func TestClassifyFallbackOnRequestError(t *testing.T) {
	mock := &mockLLM{err: fmt.Errorf("API timeout")}
	c := New(mock, "test-model", nil)

	got, err := c.Classify(context.Background(), "consulta", nil)
	if err == nil {
		t.Fatal("Classify() error = nil, want wrapped request error")
	}
	if got.Complexity != types.ComplexityModerate || got.Mode != types.ModeIterative {
		t.Errorf("fallback = %q/%q, want moderate/iterative", got.Complexity, got.Mode)
	}
}

func TestClassifyFallbackOnMalformedJSON(t *testing.T) {
	mock := &mockLLM{content: "lo siento, no puedo clasificar esta consulta"}
	c := New(mock, "test-model", nil)

	got, err := c.Classify(context.Background(), "consulta", nil)
	if err == nil || !strings.Contains(err.Error(), "parsing classification response") {
		t.Fatalf("Classify() error = %v, want parse error", err)
	}
	if got.Complexity != types.ComplexityModerate || got.Mode != types.ModeIterative {
		t.Errorf("fallback = %q/%q, want moderate/iterative", got.Complexity, got.Mode)
	}
}

func TestClassifyInvalidModeDerivedFromComplexity(t *testing.T) {
	mock := &mockLLM{content: `{"complexity":"very_complex","mode":"turbo","reasoning":"x"}`}
	c := New(mock, "test-model", nil)

	got, err := c.Classify(context.Background(), "consulta multirrama", nil)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if got.Mode != types.ModeHybrid {
		t.Errorf("Mode = %q, want hybrid derived from very_complex", got.Mode)
	}
}

func TestClassifyHistoryInPrompt(t *testing.T) {
	mock := &mockLLM{content: `{"complexity":"moderate","mode":"iterative","reasoning":"x"}`}
	c := New(mock, "test-model", nil)

	if _, err := c.Classify(context.Background(), "¿y la sanción?", []string{"régimen de protección de datos"}); err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	user := mock.lastReq.Messages[len(mock.lastReq.Messages)-1].Content
	if !strings.Contains(user, "régimen de protección de datos") || !strings.Contains(user, "¿y la sanción?") {
		t.Errorf("user prompt missing history or query: %q", user)
	}
}

func TestCanonicalComplexity(t *testing.T) {
	tests := []struct {
		in   string
		want types.Complexity
	}{
		{"simple", types.ComplexitySimple},
		{"low", types.ComplexitySimple},
		{"Medium", types.ComplexityModerate},
		{"alta", types.ComplexityComplex},
		{"high", types.ComplexityComplex},
		{"very_complex", types.ComplexityVeryComplex},
		{"???", types.ComplexityModerate},
	}
	for _, tt := range tests {
		if got := canonicalComplexity(tt.in); got != tt.want {
			t.Errorf("canonicalComplexity(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
