// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/lexengine/internal/audit"
	"github.com/pdiddy/lexengine/pkg/types"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect past research sessions and their verification trails",
}

var auditListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent research sessions",
	RunE:  runAuditList,
}

var auditTrailCmd = &cobra.Command{
	Use:   "trail [session-id]",
	Short: "Show the verification checkpoint trail for a session",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuditTrail,
}

func init() {
	auditListCmd.Flags().Int("limit", 20, "maximum sessions to list")
	auditListCmd.Flags().Bool("json", false, "output as JSON")
	auditTrailCmd.Flags().Bool("json", false, "output as JSON")

	auditCmd.AddCommand(auditListCmd)
	auditCmd.AddCommand(auditTrailCmd)
	rootCmd.AddCommand(auditCmd)
}

func openAuditStore() (*audit.Store, error) {
	viper.SetDefault("audit.dir", "audit")
	return audit.NewStore(types.AuditConfig{Dir: viper.GetString("audit.dir")})
}

func runAuditList(cmd *cobra.Command, args []string) error {
	store, err := openAuditStore()
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	sessions, err := store.ListSessions(context.Background(), limit)
	if err != nil {
		return err
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sessions)
	}

	if len(sessions) == 0 {
		fmt.Println("No sessions recorded.")
		return nil
	}

	fmt.Printf("%-36s  %-9s  %-12s  %-7s  %-6s  %s\n",
		"Session", "Mode", "Complexity", "Quality", "Rounds", "Query")
	fmt.Println(strings.Repeat("-", 100))
	for _, s := range sessions {
		query := s.Query
		if len(query) > 40 {
			query = query[:40] + "..."
		}
		fmt.Printf("%-36s  %-9s  %-12s  %7.1f  %6d  %s\n",
			s.ID, s.Mode, s.Complexity, s.Quality, s.TotalRounds, query)
	}
	return nil
}

func runAuditTrail(cmd *cobra.Command, args []string) error {
	store, err := openAuditStore()
	if err != nil {
		return err
	}
	defer store.Close()

	trail, err := store.Verifications(context.Background(), args[0])
	if err != nil {
		return err
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(trail)
	}

	if len(trail) == 0 {
		fmt.Println("No verification records for this session.")
		return nil
	}

	for _, r := range trail {
		status := "FAIL"
		if r.IsValid {
			status = "PASS"
		}
		if r.Failed() {
			status = "ERROR"
		}
		fmt.Printf("%-14s  %-5s  conf=%.2f  %s\n", r.Stage, status, r.Confidence,
			r.Timestamp.Format("2006-01-02 15:04:05"))
		for _, issue := range r.Issues {
			fmt.Printf("    issue: %s\n", issue)
		}
		if r.Error != "" {
			fmt.Printf("    error: %s\n", r.Error)
		}
	}
	return nil
}
