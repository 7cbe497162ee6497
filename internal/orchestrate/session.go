// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package orchestrate

import (
	"github.com/pdiddy/lexengine/internal/search"
	"github.com/pdiddy/lexengine/pkg/types"
)

// session accumulates state across research rounds. Sources are unique by
// normalized URL for the life of the session; merging never shrinks content.
type session struct {
	query     string
	sessionID string

	byURL map[string]int // normalized URL → index in sources
	order []types.Source

	rounds        []types.ResearchRound
	verifications []types.VerificationResult
	warnings      []string
	toolsUsed     map[string]bool
	searches      int
}

func newSession(query, sessionID string) *session {
	return &session{
		query:     query,
		sessionID: sessionID,
		byURL:     make(map[string]int),
		toolsUsed: make(map[string]bool),
	}
}

// absorb merges new sources into the session, returning how many were new.
func (s *session) absorb(sources []types.Source) int {
	added := 0
	for _, src := range sources {
		key := search.NormalizeURL(src.URL)
		if key == "" {
			continue
		}
		if idx, ok := s.byURL[key]; ok {
			mergeSource(&s.order[idx], src)
			continue
		}
		s.byURL[key] = len(s.order)
		s.order = append(s.order, src)
		added++
	}
	return added
}

// mergeSource keeps the richer of the two records. Content only grows.
func mergeSource(dst *types.Source, src types.Source) {
	if dst.Title == "" {
		dst.Title = src.Title
	}
	if len(src.Snippet) > len(dst.Snippet) {
		dst.Snippet = src.Snippet
	}
	if len(src.Content) > len(dst.Content) {
		dst.Content = src.Content
		dst.Degraded = src.Degraded
	}
	if src.Type.Priority() > dst.Type.Priority() {
		dst.Type = src.Type
	}
	if src.Quality > dst.Quality {
		dst.Quality = src.Quality
	}
	if src.Authority.Rank() > dst.Authority.Rank() {
		dst.Authority = src.Authority
	}
	if src.Relevance > dst.Relevance {
		dst.Relevance = src.Relevance
	}
}

func (s *session) sources() []types.Source {
	out := make([]types.Source, len(s.order))
	copy(out, s.order)
	search.Rank(out)
	return out
}

func (s *session) warn(msg string) {
	s.warnings = append(s.warnings, msg)
}

func (s *session) usedTool(name string) {
	s.toolsUsed[name] = true
}

func (s *session) tools() []string {
	// Fixed order keeps result metadata stable across runs.
	known := []string{"classify", "search", "enrich", "verify", "synthesize", "quality"}
	var out []string
	for _, t := range known {
		if s.toolsUsed[t] {
			out = append(out, t)
		}
	}
	return out
}

func (s *session) recordVerification(r types.VerificationResult) {
	s.verifications = append(s.verifications, r)
	if r.Failed() {
		s.warn("verificación " + string(r.Stage) + " no disponible: " + r.Error)
	}
}

// verificationPassed reports whether every checkpoint that produced a
// genuine verdict passed. post_search verdicts are sufficiency decisions,
// not failures, so they are skipped.
func (s *session) verificationPassed() bool {
	for _, r := range s.verifications {
		if r.Stage == types.StagePostSearch {
			continue
		}
		if !r.Failed() && !r.IsValid {
			return false
		}
	}
	return true
}
