// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/lexengine/internal/audit"
	"github.com/pdiddy/lexengine/internal/classify"
	"github.com/pdiddy/lexengine/internal/enrich"
	"github.com/pdiddy/lexengine/internal/llm"
	"github.com/pdiddy/lexengine/internal/orchestrate"
	"github.com/pdiddy/lexengine/internal/search"
	"github.com/pdiddy/lexengine/internal/synthesize"
	"github.com/pdiddy/lexengine/internal/verify"
	"github.com/pdiddy/lexengine/pkg/types"
)

var researchCmd = &cobra.Command{
	Use:   "research [query]",
	Short: "Run a full legal research session",
	Long: `Research runs the complete pipeline for one legal question: query
classification, domain-scoped search across official, academic, and general
strategies, content enrichment, five verification checkpoints, and synthesis
into a cited analysis in Spanish.

Sessions are bounded: at most three rounds regardless of the requested
budget. Every session is recorded in the audit database.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResearch,
}

func init() {
	researchCmd.Flags().String("mode", "", "research mode: reactive, iterative, or hybrid (default: classifier's choice)")
	researchCmd.Flags().Int("max-rounds", 0, "requested round budget (clamped to 3)")
	researchCmd.Flags().Int("max-searches", 0, "search strategies issued per round (max 3)")
	researchCmd.Flags().String("session", "", "session ID (default: generated)")
	researchCmd.Flags().String("user", "", "user ID recorded in the audit trail")
	researchCmd.Flags().Duration("timeout", 5*time.Minute, "overall session deadline")
	researchCmd.Flags().Bool("brief", false, "produce a brief answer instead of the full analysis")
	researchCmd.Flags().Bool("json", false, "output the result as JSON")
	researchCmd.Flags().Bool("yaml", false, "output the result as YAML")

	rootCmd.AddCommand(researchCmd)
}

func runResearch(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return fmt.Errorf("query is empty")
	}

	cfg := pipelineConfig()
	if maxSearches, _ := cmd.Flags().GetInt("max-searches"); maxSearches > 0 {
		cfg.Orchestrator.MaxSearchesPerRound = maxSearches
	}
	if cfg.AI.APIKey == "" {
		return fmt.Errorf("no OpenRouter API key: set LEXENGINE_AI_API_KEY or .secrets/openrouter-api-key")
	}
	if cfg.Search.APIKey == "" {
		return fmt.Errorf("no Serper API key: set LEXENGINE_SEARCH_API_KEY or .secrets/serper-api-key")
	}

	sessionID, _ := cmd.Flags().GetString("session")
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	client, err := llm.New(cfg.AI)
	if err != nil {
		return err
	}

	store, err := audit.NewStore(cfg.Audit)
	if err != nil {
		return err
	}
	defer store.Close()

	extractors := []enrich.Extractor{enrich.NewJina(), enrich.NewFetch()}
	if cfg.Enrich.FirecrawlAPIKey != "" {
		extractors = append(extractors, enrich.NewFirecrawl(cfg.Enrich.FirecrawlAPIKey))
	}

	o := orchestrate.New(cfg, orchestrate.Deps{
		Classifier: classify.New(client, cfg.AI.Model, logger),
		Provider:   search.NewSerper(),
		Enricher:   enrich.NewPipeline(cfg.Enrich, extractors...),
		Gate:       verify.NewGate(client, cfg.AI.Model, store.ForSession(sessionID), logger),
		Synth:      synthesize.New(client, cfg.AI.Model, logger),
		Saver:      store,
		Logger:     logger,
		Out:        os.Stderr,
	})

	timeout, _ := cmd.Flags().GetDuration("timeout")
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	opts := orchestrate.Opts{}
	if mode, _ := cmd.Flags().GetString("mode"); mode != "" {
		m := types.ResearchMode(mode)
		if !m.Valid() {
			return fmt.Errorf("unknown mode %q: use reactive, iterative, or hybrid", mode)
		}
		opts.Mode = m
	}
	opts.MaxRounds, _ = cmd.Flags().GetInt("max-rounds")
	opts.UserID, _ = cmd.Flags().GetString("user")
	if brief, _ := cmd.Flags().GetBool("brief"); brief {
		opts.Style = synthesize.StyleBrief
	}

	result := o.Orchestrate(ctx, query, sessionID, opts)
	return formatResult(cmd, sessionID, result)
}

// pipelineConfig assembles stage configuration from viper and the secrets
// directory.
func pipelineConfig() types.PipelineConfig {
	viper.SetDefault("ai.model", "alibaba/tongyi-deepresearch-30b-a3b")
	viper.SetDefault("audit.dir", "audit")

	return types.PipelineConfig{
		Search: types.SearchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("search.timeout"),
				UserAgent: viper.GetString("search.user_agent"),
			},
			APIKey:     secretDefault("serper-api-key", viper.GetString("search.api_key")),
			MaxResults: viper.GetInt("search.max_results"),
			Locale:     viper.GetString("search.locale"),
		},
		Enrich: types.EnrichConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("enrich.timeout"),
				UserAgent: viper.GetString("enrich.user_agent"),
			},
			FirecrawlAPIKey: secretDefault("firecrawl-api-key", viper.GetString("enrich.firecrawl_api_key")),
			TopK:            viper.GetInt("enrich.top_k"),
			Workers:         viper.GetInt("enrich.workers"),
			ByteCap:         viper.GetInt("enrich.byte_cap"),
			MinUsefulLen:    viper.GetInt("enrich.min_useful_len"),
		},
		AI: types.AIConfig{
			Model:      viper.GetString("ai.model"),
			APIKey:     secretDefault("openrouter-api-key", viper.GetString("ai.api_key")),
			BaseURL:    viper.GetString("ai.base_url"),
			MaxRetries: viper.GetInt("ai.max_retries"),
		},
		Orchestrator: types.OrchestratorConfig{
			MaxRounds:                    viper.GetInt("orchestrator.max_rounds"),
			StabilityClamp:               viper.GetInt("orchestrator.stability_clamp"),
			MaxSearchesPerRound:          viper.GetInt("orchestrator.max_searches_per_round"),
			MinOfficialSources:           viper.GetInt("orchestrator.min_official_sources"),
			QualityThreshold:             viper.GetFloat64("orchestrator.quality_threshold"),
			SufficiencyMinRoundReactive:  viper.GetInt("orchestrator.sufficiency_min_round_reactive"),
			SufficiencyMinRoundIterative: viper.GetInt("orchestrator.sufficiency_min_round_iterative"),
			SufficiencyMinRoundHybrid:    viper.GetInt("orchestrator.sufficiency_min_round_hybrid"),
		}.WithDefaults(),
		Audit: types.AuditConfig{
			Dir: viper.GetString("audit.dir"),
		},
	}
}

func formatResult(cmd *cobra.Command, sessionID string, result types.ResearchResult) error {
	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	if yamlOut, _ := cmd.Flags().GetBool("yaml"); yamlOut {
		data, err := yaml.Marshal(result)
		if err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
		_, err = os.Stdout.Write(data)
		return err
	}

	fmt.Println(result.FinalAnswer)
	fmt.Println()
	if len(result.Sources) > 0 {
		fmt.Println("Fuentes:")
		for i, s := range result.Sources {
			fmt.Printf("%2d. [%s] %s\n    %s\n", i+1, s.Type, s.Title, s.URL)
		}
		fmt.Println()
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	fmt.Fprintf(os.Stderr,
		"session %s: mode=%s complexity=%s quality=%.1f rounds=%d sources=%d (%d ms)\n",
		sessionID, result.Analysis.Mode, result.Analysis.Complexity,
		result.Analysis.QualityScore, result.Metadata.TotalRounds,
		result.Metadata.TotalSources, result.Analysis.ProcessingTimeMs)
	return nil
}
