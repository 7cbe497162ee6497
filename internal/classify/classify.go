// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify decides how hard a legal question is and which research
// mode should answer it. The decision comes from the language model; any
// failure falls back to a conservative default so the pipeline always has a
// plan.
package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/lexengine/internal/llm"
	"github.com/pdiddy/lexengine/pkg/types"
)

// Classifier asks the model for a complexity estimate and mode choice.
type Classifier struct {
	client llm.Client
	model  string
	logger *zap.Logger
}

// New builds a classifier over the given LLM client.
func New(client llm.Client, model string, logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{client: client, model: model, logger: logger}
}

const systemPrompt = `Eres un clasificador de consultas jurídicas colombianas.
Evalúa la complejidad de la consulta y elige el modo de investigación.

Responde SOLO con JSON:
{
  "complexity": "simple" | "moderate" | "complex" | "very_complex",
  "mode": "reactive" | "iterative" | "hybrid",
  "reasoning": "una frase"
}

Guía: consultas puntuales de definición → simple/reactive; consultas que
requieren contrastar normas y jurisprudencia → moderate o complex/iterative;
consultas que mezclan varias ramas del derecho → very_complex/hybrid.`

type rawAnalysis struct {
	Complexity string `json:"complexity"`
	Mode       string `json:"mode"`
	Reasoning  string `json:"reasoning"`
}

// Classify returns the analysis for a query. History carries prior queries in
// the session so follow-ups inherit context. On any model or parse failure a
// moderate/iterative default is returned together with the error; callers
// treat the error as a warning, not a stop.
func (c *Classifier) Classify(ctx context.Context, query string, history []string) (types.Analysis, error) {
	fallback := types.Analysis{
		Complexity: types.ComplexityModerate,
		Mode:       types.ModeIterative,
		Reasoning:  "clasificación no disponible, se asume complejidad moderada",
	}

	user := query
	if len(history) > 0 {
		user = fmt.Sprintf("Consultas previas de la sesión:\n- %s\n\nConsulta actual: %s",
			strings.Join(history, "\n- "), query)
	}

	resp, err := c.client.Complete(ctx, llm.Request{
		Model: c.model,
		Messages: []llm.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: user},
		},
		Temperature: 0.1,
		MaxTokens:   300,
		JSONOnly:    true,
	})
	if err != nil {
		c.logger.Warn("classification request failed", zap.Error(err))
		return fallback, fmt.Errorf("classifying query: %w", err)
	}

	var raw rawAnalysis
	if err := json.Unmarshal([]byte(llm.StripFences(resp.Content)), &raw); err != nil {
		c.logger.Warn("classification response unparseable", zap.Error(err))
		return fallback, fmt.Errorf("parsing classification response: %w", err)
	}

	analysis := types.Analysis{
		Complexity: canonicalComplexity(raw.Complexity),
		Mode:       types.ResearchMode(strings.ToLower(strings.TrimSpace(raw.Mode))),
		Reasoning:  strings.TrimSpace(raw.Reasoning),
	}
	if !analysis.Mode.Valid() {
		analysis.Mode = modeFor(analysis.Complexity)
	}
	if analysis.Reasoning == "" {
		analysis.Reasoning = fallback.Reasoning
	}
	return analysis, nil
}

// canonicalComplexity folds the synonyms older prompts produced into the
// four-level vocabulary.
func canonicalComplexity(s string) types.Complexity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "simple", "low", "baja":
		return types.ComplexitySimple
	case "moderate", "medium", "media":
		return types.ComplexityModerate
	case "complex", "high", "alta":
		return types.ComplexityComplex
	case "very_complex", "very high", "muy_alta":
		return types.ComplexityVeryComplex
	default:
		return types.ComplexityModerate
	}
}

func modeFor(c types.Complexity) types.ResearchMode {
	switch c {
	case types.ComplexitySimple:
		return types.ModeReactive
	case types.ComplexityVeryComplex:
		return types.ModeHybrid
	default:
		return types.ModeIterative
	}
}
