// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package orchestrate drives a research session end to end: classification,
// bounded search rounds with enrichment and verification checkpoints,
// synthesis, and deterministic quality scoring. Orchestrate always returns a
// usable result; every failure is folded into the result as degraded content
// or a warning.
package orchestrate

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/lexengine/internal/quality"
	"github.com/pdiddy/lexengine/internal/search"
	"github.com/pdiddy/lexengine/internal/synthesize"
	"github.com/pdiddy/lexengine/pkg/types"
)

// Classifier decides complexity and mode for a query.
type Classifier interface {
	Classify(ctx context.Context, query string, history []string) (types.Analysis, error)
}

// Gate runs the five verification checkpoints.
type Gate interface {
	VerifyPreSearch(ctx context.Context, query string) types.VerificationResult
	VerifyDuringSearch(ctx context.Context, query string, sources []types.Source) types.VerificationResult
	VerifyPostSearch(ctx context.Context, query string, sources []types.Source) types.VerificationResult
	VerifyPreSynthesis(ctx context.Context, query string, sources []types.Source) types.VerificationResult
	VerifyPostSynthesis(ctx context.Context, query, answer string, sources []types.Source) types.VerificationResult
}

// Enricher resolves full text for the top-ranked sources.
type Enricher interface {
	EnrichTop(ctx context.Context, sources []types.Source, w io.Writer) ([]types.Source, error)
}

// Synthesizer writes the final answer.
type Synthesizer interface {
	Synthesize(ctx context.Context, query string, sources []types.Source, style synthesize.Style) synthesize.Output
}

// SessionSaver persists the finished session summary. The audit store
// satisfies it.
type SessionSaver interface {
	SaveSession(ctx context.Context, sessionID, userID, query string, result types.ResearchResult) error
}

// Deps collects the stage implementations the orchestrator drives.
type Deps struct {
	Classifier Classifier
	Provider   search.Provider
	Enricher   Enricher
	Gate       Gate
	Synth      Synthesizer
	Saver      SessionSaver
	Logger     *zap.Logger

	// Out receives stage progress and warnings; defaults to io.Discard.
	Out io.Writer
}

// Orchestrator runs research sessions.
type Orchestrator struct {
	deps Deps
	cfg  types.PipelineConfig
}

// New builds an orchestrator. Classifier, Provider, Enricher, Gate and Synth
// are required; Saver and Logger are optional.
func New(cfg types.PipelineConfig, deps Deps) *Orchestrator {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Out == nil {
		deps.Out = io.Discard
	}
	cfg.Orchestrator = cfg.Orchestrator.WithDefaults()
	return &Orchestrator{deps: deps, cfg: cfg}
}

// Opts tunes one orchestration call.
type Opts struct {
	// Mode overrides the classifier's mode choice when set to a valid mode.
	Mode types.ResearchMode

	// MaxRounds overrides the configured round budget; it is still clamped.
	MaxRounds int

	// Style selects the synthesis template; empty picks by complexity.
	Style synthesize.Style

	// History carries prior session queries for classification context.
	History []string

	// UserID attributes the session in the audit trail; empty is allowed.
	UserID string
}

// Orchestrate runs a full research session and always returns a result: any
// panic or stage failure degrades into warnings and fallback content rather
// than escaping to the caller.
func (o *Orchestrator) Orchestrate(ctx context.Context, query, sessionID string, opts Opts) (result types.ResearchResult) {
	start := time.Now()
	log := o.deps.Logger.With(zap.String("session", sessionID))

	defer func() {
		if r := recover(); r != nil {
			log.Error("orchestration panicked", zap.Any("panic", r))
			result = panicResult(query)
		}
		result.Analysis.ProcessingTimeMs = time.Since(start).Milliseconds()
		if o.deps.Saver != nil {
			// Persist with a fresh context so a cancelled session still audits.
			saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := o.deps.Saver.SaveSession(saveCtx, sessionID, opts.UserID, query, result); err != nil {
				log.Warn("saving session summary failed", zap.Error(err))
			}
		}
	}()

	sess := newSession(query, sessionID)
	cfg := o.cfg.Orchestrator

	// Classification. Failure degrades to the moderate/iterative default.
	sess.usedTool("classify")
	analysis, err := o.deps.Classifier.Classify(ctx, query, opts.History)
	if err != nil {
		sess.warn("clasificación degradada: " + err.Error())
	}
	if opts.Mode.Valid() {
		analysis.Mode = opts.Mode
	}
	m := modeFor(analysis.Mode)
	analysis.Mode = m.name()
	log.Info("query classified",
		zap.String("complexity", string(analysis.Complexity)),
		zap.String("mode", string(analysis.Mode)))

	// Pre-search checkpoint. A genuine rejection stops the session before any
	// search spend; an unavailable verifier only warns.
	sess.usedTool("verify")
	pre := o.deps.Gate.VerifyPreSearch(ctx, query)
	sess.recordVerification(pre)
	if !pre.Failed() && !pre.IsValid {
		return o.finish(sess, analysis, rejectionAnswer(query, pre))
	}

	// Round budget, clamped for stability.
	requested := cfg.MaxRounds
	if opts.MaxRounds > 0 {
		requested = opts.MaxRounds
	}
	budget := requested
	if budget > cfg.StabilityClamp {
		budget = cfg.StabilityClamp
	}

	var (
		reactSteps []types.ReactStep
		iterPlan   []types.RoundPlan
		sufficient bool
	)
	tracksReact := analysis.Mode == types.ModeReactive || analysis.Mode == types.ModeHybrid
	tracksPlan := analysis.Mode == types.ModeIterative || analysis.Mode == types.ModeHybrid

	for round := 1; round <= budget; round++ {
		if ctx.Err() != nil {
			sess.warn("tiempo de investigación agotado; se sintetiza con la evidencia disponible")
			break
		}

		plan := m.plan(round, query)
		if tracksPlan {
			iterPlan = append(iterPlan, plan)
		}
		roundStart := time.Now()

		// Strategy fan-out, capped by the per-round search budget.
		strategies := search.AllStrategies
		if len(strategies) > cfg.MaxSearchesPerRound {
			strategies = strategies[:cfg.MaxSearchesPerRound]
		}
		sess.usedTool("search")
		out, err := search.Run(ctx, o.deps.Provider, plan.Query, strategies, o.cfg.Search, o.deps.Out)
		if err != nil {
			sess.warn(fmt.Sprintf("búsqueda de la ronda %d falló: %v", round, err))
		}
		sess.searches += len(strategies)
		for _, se := range out.StrategyErrors {
			sess.warn("estrategia de búsqueda degradada: " + se)
		}
		added := sess.absorb(out.Sources)
		log.Info("round searched",
			zap.Int("round", round),
			zap.Int("new_sources", added),
			zap.Int("total_sources", len(sess.order)))

		sess.recordVerification(o.deps.Gate.VerifyDuringSearch(ctx, query, sess.sources()))

		// Enrichment. Failure leaves snippets in place.
		sess.usedTool("enrich")
		ranked := sess.sources()
		enriched, err := o.deps.Enricher.EnrichTop(ctx, ranked, o.deps.Out)
		if err != nil {
			sess.warn("enriquecimiento de contenido incompleto: " + err.Error())
		} else {
			sess.absorb(enriched)
		}

		// Sufficiency verdict.
		current := sess.sources()
		post := o.deps.Gate.VerifyPostSearch(ctx, query, current)
		sess.recordVerification(post)

		eval := types.SufficiencyEvaluation{
			OfficialCount:  types.OfficialCount(current),
			AverageQuality: types.AverageQuality(current),
			Confidence:     post.Confidence,
			MissingInfo:    post.Recommendations,
		}
		eval.IsSufficient = eval.OfficialCount >= cfg.MinOfficialSources &&
			eval.AverageQuality >= cfg.QualityThreshold
		if !post.Failed() && !post.IsValid {
			eval.IsSufficient = false
		}

		sess.rounds = append(sess.rounds, types.ResearchRound{
			RoundNumber:           round,
			QueriesIssued:         []string{plan.Query},
			Sources:               out.Sources,
			DurationMs:            time.Since(roundStart).Milliseconds(),
			SufficiencyEvaluation: &eval,
		})
		if tracksReact {
			reactSteps = append(reactSteps, reactStep(plan, added, len(sess.order)))
		}

		if eval.IsSufficient && round >= m.minSufficiencyRound(cfg) {
			sufficient = true
			log.Info("evidence sufficient", zap.Int("round", round))
			break
		}
	}

	clamped := requested > cfg.StabilityClamp
	if clamped && !sufficient {
		sess.warn(fmt.Sprintf("presupuesto de rondas recortado de %d a %d por el límite de estabilidad", requested, cfg.StabilityClamp))
	}

	finalSources := sess.sources()

	// Pre-synthesis checkpoint; advisory only.
	preSynth := o.deps.Gate.VerifyPreSynthesis(ctx, query, finalSources)
	sess.recordVerification(preSynth)
	if !preSynth.Failed() && !preSynth.IsValid {
		sess.warn("las fuentes disponibles soportan la consulta solo parcialmente")
	}

	// Synthesis never errors; fallback text carries the session anyway.
	sess.usedTool("synthesize")
	style := opts.Style
	if style == "" {
		style = synthesize.StyleComprehensive
		if analysis.Complexity == types.ComplexitySimple {
			style = synthesize.StyleBrief
		}
	}
	synthOut := o.deps.Synth.Synthesize(ctx, query, finalSources, style)
	if synthOut.Fallback {
		sess.warn("síntesis degradada: el modelo no estuvo disponible")
	}
	for _, ref := range synthOut.UnsupportedCitations {
		sess.warn("cita sin fuente de respaldo: " + ref)
	}

	sess.recordVerification(o.deps.Gate.VerifyPostSynthesis(ctx, query, synthOut.Answer, finalSources))

	result = o.finish(sess, analysis, synthOut.Answer)
	result.Metadata.StabilityClampApplied = clamped && !sufficient
	result.Metadata.ReactSteps = reactSteps
	result.Metadata.IterPlan = iterPlan
	return result
}

// finish assembles the terminal result from session state.
func (o *Orchestrator) finish(sess *session, analysis types.Analysis, answer string) types.ResearchResult {
	sources := sess.sources()

	sess.usedTool("quality")
	score := quality.Evaluate(sources, answer)
	analysis.QualityScore = score.Overall
	analysis.VerificationPassed = sess.verificationPassed()
	for _, r := range sess.verifications {
		if r.Stage == types.StagePostSynthesis && !r.Failed() {
			analysis.Confidence = r.Confidence
		}
	}

	warnings := append(sess.warnings, quality.Warnings(score, sources)...)

	return types.ResearchResult{
		FinalAnswer:     answer,
		Sources:         sources,
		Analysis:        analysis,
		Recommendations: quality.Recommendations(score, sources),
		Warnings:        warnings,
		Metadata: types.ResultMetadata{
			TotalRounds:   len(sess.rounds),
			TotalSearches: sess.searches,
			TotalSources:  len(sources),
			ToolsUsed:     sess.tools(),
		},
	}
}

// rejectionAnswer explains a pre-search rejection to the user.
func rejectionAnswer(query string, pre types.VerificationResult) string {
	msg := "La consulta no parece ser una pregunta jurídica investigable.\n\n" +
		"Consulta recibida: " + query + "\n\n"
	if len(pre.Issues) > 0 {
		msg += "Observaciones:\n"
		for _, issue := range pre.Issues {
			msg += "- " + issue + "\n"
		}
	}
	msg += "\nReformule la consulta indicando la materia, la norma o la situación jurídica concreta."
	return msg
}

// panicResult is the last-resort answer when orchestration itself fails.
func panicResult(query string) types.ResearchResult {
	return types.ResearchResult{
		FinalAnswer: "Lo sentimos: ocurrió un error interno durante la investigación y no fue posible " +
			"completar el análisis de la consulta «" + query + "». Intente nuevamente en unos minutos.",
		Analysis: types.Analysis{
			Mode:       types.ModeIterative,
			Complexity: types.ComplexityModerate,
		},
		Warnings: []string{"la sesión terminó por un error interno; el resultado es un resguardo mínimo"},
	}
}
