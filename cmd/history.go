package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/zibao/internal/screens/history"
	"github.com/abhisek/zibao/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent learning activity",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		kind, _ := cmd.Flags().GetString("kind")

		s, err := openEventStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryActivity(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		if len(events) == 0 {
			fmt.Println("No activity yet.")
			return nil
		}

		fmt.Printf("%-6s  %-19s  %-20s  %s\n", "Seq", "Timestamp", "Kind", "What")
		fmt.Println(strings.Repeat("─", 72))
		for _, e := range events {
			if kind != "" && string(e.Kind) != kind {
				continue
			}
			fmt.Printf("%-6d  %-19s  %-20s  %s\n",
				e.Sequence,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.Kind,
				history.Describe(e.ActivityEventData),
			)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 30, "Number of events to show")
	historyCmd.Flags().StringP("kind", "k", "", "Filter by kind (e.g. level_unlocked, story_saved)")
}
