/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect the translation history log",
	Long:  `List, summarise, and clear the SQLite log of translations served by "lingoform serve --db".`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent translations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := requireHistory()
		if err != nil {
			return err
		}
		defer db.Close()

		entries, err := db.ListHistory(cmd.Context(), historyLimit)
		if err != nil {
			return fmt.Errorf("failed to list history: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(out, "No translations in history.")
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TIME\tSOURCE\tTARGET\tSERVICE\tSTATUS\tLATENCY\tTEXT")
		for _, e := range entries {
			source := e.SourceLang
			if e.ResolvedSource != "" && e.ResolvedSource != e.SourceLang {
				source += "→" + e.ResolvedSource
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%dms\t%s\n",
				e.CreatedAt.Format("2006-01-02 15:04"),
				source, e.TargetLang, e.ServiceName,
				e.StatusCode, e.LatencyMs, snippet(e.SourceText, 40))
		}
		return w.Flush()
	},
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show history statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := requireHistory()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.Stats(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get stats: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Total requests: %d\n", stats.TotalRequests)
		fmt.Fprintf(out, "Succeeded:      %d\n", stats.Succeeded)
		fmt.Fprintf(out, "Failed:         %d\n", stats.Failed)
		fmt.Fprintf(out, "Avg latency:    %.0fms\n", stats.AvgLatencyMs)
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all entries from the history log",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := requireHistory()
		if err != nil {
			return err
		}
		defer db.Close()

		n, err := db.Clear(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d requests from history.\n", n)
		return nil
	},
}

// snippet shortens s to at most n runes.
func snippet(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of entries to show")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyStatsCmd)
	historyCmd.AddCommand(historyClearCmd)
}
