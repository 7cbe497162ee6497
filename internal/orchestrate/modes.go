// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package orchestrate

import (
	"fmt"

	"github.com/pdiddy/lexengine/pkg/types"
)

// mode parameterizes the research loop: when sufficiency is first evaluated
// and how the query is refined round over round.
type mode interface {
	name() types.ResearchMode

	// minSufficiencyRound is the first round whose sufficiency verdict can
	// end the loop.
	minSufficiencyRound(cfg types.OrchestratorConfig) int

	// plan produces the round's query and objective from the base query.
	// Rounds are 1-based.
	plan(round int, base string) types.RoundPlan
}

func modeFor(m types.ResearchMode) mode {
	switch m {
	case types.ModeReactive:
		return reactiveMode{}
	case types.ModeHybrid:
		return hybridMode{}
	default:
		return iterativeMode{}
	}
}

// reactiveMode answers fast: the base query as-is, sufficiency checked from
// round one.
type reactiveMode struct{}

func (reactiveMode) name() types.ResearchMode { return types.ModeReactive }

func (reactiveMode) minSufficiencyRound(cfg types.OrchestratorConfig) int {
	return cfg.SufficiencyMinRoundReactive
}

func (reactiveMode) plan(round int, base string) types.RoundPlan {
	return types.RoundPlan{
		Round:     round,
		Objective: "responder la consulta con la evidencia mínima suficiente",
		Query:     base,
	}
}

// iterativeMode digs deep: later rounds pivot toward doctrine and case law,
// and the loop cannot stop before its minimum round.
type iterativeMode struct{}

func (iterativeMode) name() types.ResearchMode { return types.ModeIterative }

func (iterativeMode) minSufficiencyRound(cfg types.OrchestratorConfig) int {
	return cfg.SufficiencyMinRoundIterative
}

func (iterativeMode) plan(round int, base string) types.RoundPlan {
	p := types.RoundPlan{Round: round, Query: base}
	switch round {
	case 1:
		p.Objective = "identificar el marco normativo aplicable"
	case 2:
		p.Objective = "profundizar en la doctrina"
		p.Query = base + " doctrina"
	default:
		p.Objective = "contrastar con la jurisprudencia"
		p.Query = base + " jurisprudencia"
	}
	return p
}

// hybridMode opens with a reactive pass and continues iteratively when the
// first pass is not enough.
type hybridMode struct{}

func (hybridMode) name() types.ResearchMode { return types.ModeHybrid }

func (hybridMode) minSufficiencyRound(cfg types.OrchestratorConfig) int {
	return cfg.SufficiencyMinRoundHybrid
}

func (hybridMode) plan(round int, base string) types.RoundPlan {
	if round == 1 {
		p := reactiveMode{}.plan(round, base)
		p.Objective = "exploración rápida inicial"
		return p
	}
	return iterativeMode{}.plan(round, base)
}

// reactStep builds the trace entry for one round of a reactive or hybrid
// session.
func reactStep(plan types.RoundPlan, added, total int) types.ReactStep {
	return types.ReactStep{
		Thought:     plan.Objective,
		Action:      fmt.Sprintf("buscar: %s", plan.Query),
		Observation: fmt.Sprintf("%d fuentes nuevas, %d acumuladas", added, total),
	}
}
