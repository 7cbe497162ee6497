// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package synthesize turns accumulated sources into the final written answer.
// It drives the language model with Spanish legal-writing templates and
// always produces text: when the model is unreachable it falls back to a
// structured summary naming the consulted sources.
package synthesize

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/pdiddy/lexengine/internal/llm"
	"github.com/pdiddy/lexengine/pkg/types"
)

// Style selects the answer template.
type Style string

const (
	StyleComprehensive Style = "comprehensive"
	StyleBrief         Style = "brief"
)

const sourceContentCap = 500

// Engine writes the final answer from sources.
type Engine struct {
	client llm.Client
	model  string
	logger *zap.Logger
}

// New builds a synthesis engine.
func New(client llm.Client, model string, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{client: client, model: model, logger: logger}
}

// Output is the synthesis product.
type Output struct {
	Answer string

	// Fallback is set when the model call failed and Answer is the templated
	// degradation text.
	Fallback bool

	// UnsupportedCitations lists norm/sentencia references in the answer that
	// match none of the provided sources.
	UnsupportedCitations []string
}

// Synthesize writes the answer for a query from ranked sources. It never
// returns an error: model failures degrade to the fallback text and are
// reported through Output.Fallback.
func (e *Engine) Synthesize(ctx context.Context, query string, sources []types.Source, style Style) Output {
	ranked := Citations(sources)

	system := comprehensivePrompt
	if style == StyleBrief {
		system = briefPrompt
	}
	user := fmt.Sprintf("Consulta:\n%s\n\nFuentes (en orden de autoridad):\n%s", query, formatSources(ranked))

	resp, err := e.client.Complete(ctx, llm.Request{
		Model: e.model,
		Messages: []llm.Message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0.2,
		MaxTokens:   3000,
	})
	if err != nil {
		e.logger.Warn("synthesis request failed, using fallback answer", zap.Error(err))
		return Output{Answer: fallbackAnswer(query, ranked), Fallback: true}
	}

	answer := strings.TrimSpace(resp.Content)
	if answer == "" {
		return Output{Answer: fallbackAnswer(query, ranked), Fallback: true}
	}
	return Output{
		Answer:               answer,
		UnsupportedCitations: unsupportedCitations(answer, ranked),
	}
}

// Citations orders sources for citation: binding authority first, quality as
// the tiebreaker. The input is not modified.
func Citations(sources []types.Source) []types.Source {
	out := make([]types.Source, len(sources))
	copy(out, sources)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Authority.Rank() != out[j].Authority.Rank() {
			return out[i].Authority.Rank() > out[j].Authority.Rank()
		}
		return out[i].Quality > out[j].Quality
	})
	return out
}

func formatSources(sources []types.Source) string {
	if len(sources) == 0 {
		return "(sin fuentes)"
	}
	var b strings.Builder
	for i, s := range sources {
		content := s.Content
		if content == "" {
			content = s.Snippet
		}
		if len(content) > sourceContentCap {
			cut := sourceContentCap
			for cut > 0 && !utf8.RuneStart(content[cut]) {
				cut--
			}
			content = content[:cut] + "..."
		}
		fmt.Fprintf(&b, "[%d] %s\nURL: %s\nTipo: %s | Autoridad: %s | Calidad: %d/10\n%s\n\n",
			i+1, s.Title, s.URL, s.Type, s.Authority, s.Quality, content)
	}
	return b.String()
}

// fallbackAnswer is used when the model is unreachable. It names what was
// consulted so the session still has value.
func fallbackAnswer(query string, sources []types.Source) string {
	var b strings.Builder
	b.WriteString("No fue posible generar el análisis jurídico completo en este momento.\n\n")
	fmt.Fprintf(&b, "Consulta investigada: %s\n\n", query)
	if len(sources) == 0 {
		b.WriteString("No se encontraron fuentes relevantes. Se recomienda reformular la consulta con términos jurídicos más específicos.")
		return b.String()
	}
	b.WriteString("Fuentes consultadas durante la investigación:\n")
	for i, s := range sources {
		fmt.Fprintf(&b, "%d. %s (%s) — %s\n", i+1, s.Title, s.Type, s.URL)
	}
	b.WriteString("\nSe recomienda revisar directamente las fuentes citadas, en especial las de carácter oficial.")
	return b.String()
}

// unsupportedCitations extracts norm and case references from the answer and
// flags the ones no source title or snippet mentions.
func unsupportedCitations(answer string, sources []types.Source) []string {
	refs := citationRefs(answer)
	if len(refs) == 0 {
		return nil
	}

	var corpus strings.Builder
	for _, s := range sources {
		corpus.WriteString(strings.ToLower(s.Title))
		corpus.WriteByte(' ')
		corpus.WriteString(strings.ToLower(s.Snippet))
		corpus.WriteByte(' ')
		corpus.WriteString(strings.ToLower(s.Content))
		corpus.WriteByte(' ')
	}
	haystack := corpus.String()

	var unmatched []string
	for _, ref := range refs {
		if !strings.Contains(haystack, strings.ToLower(ref)) {
			unmatched = append(unmatched, ref)
		}
	}
	return unmatched
}
