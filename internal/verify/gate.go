// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package verify runs the five-checkpoint verification gate around the
// research pipeline. Every checkpoint produces exactly one typed result,
// stamped and handed to the audit recorder; a checkpoint failure is recorded
// as an invalid result with zero confidence, never as a panic or a lost
// entry.
package verify

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/lexengine/internal/llm"
	"github.com/pdiddy/lexengine/pkg/types"
)

// Recorder receives every verification result for audit. The SQLite store
// and the JSONL writer both satisfy it.
type Recorder interface {
	Record(ctx context.Context, result types.VerificationResult) error
}

// Gate evaluates the pipeline at its five fixed checkpoints.
type Gate struct {
	client   llm.Client
	model    string
	recorder Recorder
	logger   *zap.Logger
	now      func() time.Time
}

// NewGate builds a gate. A nil recorder disables audit recording; a nil
// logger is replaced with a no-op.
func NewGate(client llm.Client, model string, recorder Recorder, logger *zap.Logger) *Gate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{
		client:   client,
		model:    model,
		recorder: recorder,
		logger:   logger,
		now:      time.Now,
	}
}

// VerifyPreSearch checks that the query is a researchable Colombian legal
// question before any search spend.
func (g *Gate) VerifyPreSearch(ctx context.Context, query string) types.VerificationResult {
	user := fmt.Sprintf("Consulta a evaluar:\n%s", query)
	return g.evaluate(ctx, types.StagePreSearch, preSearchPrompt, user, query)
}

// VerifyDuringSearch checks the quality of sources accumulated mid-round.
func (g *Gate) VerifyDuringSearch(ctx context.Context, query string, sources []types.Source) types.VerificationResult {
	user := fmt.Sprintf("Consulta:\n%s\n\nFuentes encontradas hasta ahora:\n%s", query, describeSources(sources))
	return g.evaluate(ctx, types.StageDuringSearch, duringSearchPrompt, user, query)
}

// VerifyPostSearch delivers the sufficiency verdict for the collected
// evidence; IsValid doubles as "stop searching".
func (g *Gate) VerifyPostSearch(ctx context.Context, query string, sources []types.Source) types.VerificationResult {
	user := fmt.Sprintf(
		"Consulta:\n%s\n\nFuentes oficiales: %d de %d totales.\n\nFuentes:\n%s",
		query, types.OfficialCount(sources), len(sources), describeSources(sources))
	return g.evaluate(ctx, types.StagePostSearch, postSearchPrompt, user, query)
}

// VerifyPreSynthesis checks that the evidence actually supports answering
// before the synthesis call is made.
func (g *Gate) VerifyPreSynthesis(ctx context.Context, query string, sources []types.Source) types.VerificationResult {
	user := fmt.Sprintf("Consulta:\n%s\n\nFuentes seleccionadas para la síntesis:\n%s", query, describeSources(sources))
	return g.evaluate(ctx, types.StagePreSynthesis, preSynthesisPrompt, user, query)
}

// VerifyPostSynthesis checks the drafted answer against the sources it
// cites.
func (g *Gate) VerifyPostSynthesis(ctx context.Context, query, answer string, sources []types.Source) types.VerificationResult {
	user := fmt.Sprintf(
		"Consulta:\n%s\n\nRespuesta redactada:\n%s\n\nFuentes disponibles:\n%s",
		query, answer, describeSources(sources))
	return g.evaluate(ctx, types.StagePostSynthesis, postSynthesisPrompt, user, query)
}

type rawVerdict struct {
	IsValid         *bool              `json:"is_valid"`
	Confidence      float64            `json:"confidence"`
	SubScores       map[string]float64 `json:"sub_scores"`
	Issues          []string           `json:"issues"`
	Recommendations []string           `json:"recommendations"`
}

func (g *Gate) evaluate(ctx context.Context, stage types.VerificationStage, system, user, query string) types.VerificationResult {
	result := types.VerificationResult{
		Stage:     stage,
		Timestamp: g.now(),
		QueryHash: QueryHash(query),
	}

	resp, err := g.client.Complete(ctx, llm.Request{
		Model: g.model,
		Messages: []llm.Message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0.0,
		MaxTokens:   600,
		JSONOnly:    true,
	})
	if err != nil {
		result.Error = err.Error()
		g.logger.Warn("verification request failed",
			zap.String("stage", string(stage)), zap.Error(err))
		return g.record(ctx, result)
	}

	var raw rawVerdict
	if err := json.Unmarshal([]byte(llm.StripFences(resp.Content)), &raw); err != nil {
		result.Error = fmt.Sprintf("parsing verification response: %v", err)
		g.logger.Warn("verification response unparseable",
			zap.String("stage", string(stage)), zap.Error(err))
		return g.record(ctx, result)
	}
	if raw.IsValid == nil {
		result.Error = "parsing verification response: missing is_valid field"
		return g.record(ctx, result)
	}

	result.IsValid = *raw.IsValid
	result.Confidence = clamp01(raw.Confidence)
	result.SubScores = clampScores(raw.SubScores)
	result.Issues = raw.Issues
	result.Recommendations = raw.Recommendations
	return g.record(ctx, result)
}

func (g *Gate) record(ctx context.Context, result types.VerificationResult) types.VerificationResult {
	// Error results never carry a verdict.
	if result.Error != "" {
		result.IsValid = false
		result.Confidence = 0
	}
	if g.recorder != nil {
		if err := g.recorder.Record(ctx, result); err != nil {
			g.logger.Warn("recording verification result failed",
				zap.String("stage", string(result.Stage)), zap.Error(err))
		}
	}
	return result
}

// QueryHash returns a short deterministic identifier for a query, stable
// across runs so audit rows for the same question correlate.
func QueryHash(query string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(strings.ToLower(query))))
	return hex.EncodeToString(sum[:])[:12]
}

func describeSources(sources []types.Source) string {
	if len(sources) == 0 {
		return "(ninguna)"
	}
	var b strings.Builder
	for i, s := range sources {
		fmt.Fprintf(&b, "%d. [%s] %s — %s (calidad %d/10)\n", i+1, s.Type, s.Title, s.URL, s.Quality)
	}
	return b.String()
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampScores(scores map[string]float64) map[string]float64 {
	for k, v := range scores {
		scores[k] = clamp01(v)
	}
	return scores
}
