package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/zibao/internal/store"
	"github.com/abhisek/zibao/internal/treasure"
)

var treasuresCmd = &cobra.Command{
	Use:   "treasures",
	Short: "List collected characters and achievements",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		if wipe, _ := cmd.Flags().GetBool("clear"); wipe {
			if err := e.treasures.Reset(cmd.Context()); err != nil {
				return fmt.Errorf("clear treasures: %w", err)
			}
			_ = e.events.AppendActivity(cmd.Context(), store.ActivityEventData{
				Kind:   store.ActivityProgressReset,
				Detail: "treasures",
			})
			fmt.Println("Treasure box emptied.")
			return nil
		}

		all := e.treasures.Treasures()
		if len(all) == 0 {
			fmt.Println("No treasures yet. Learn some characters first!")
		} else {
			fmt.Printf("%d treasures\n", len(all))
			fmt.Println(strings.Repeat("─", 40))
			for _, c := range all {
				fmt.Printf("%s  %-8s %s\n", c.Char, c.Pinyin, strings.Join(c.Words, "、"))
			}
		}

		st := treasure.StandingFor(e.cur, len(all))
		fmt.Println()
		fmt.Println("Achievements")
		fmt.Println(strings.Repeat("─", 40))
		for _, a := range e.cur.Achievements() {
			mark := "  "
			if len(all) >= a.Threshold {
				mark = "✓ "
			}
			fmt.Printf("%s%s %-8s %2d  %s\n", mark, a.Icon, a.Name, a.Threshold, a.Description)
		}
		if st.Next != nil {
			fmt.Printf("\n%d more for %s %s\n", st.Remaining, st.Next.Icon, st.Next.Name)
		}
		return nil
	},
}

func init() {
	treasuresCmd.Flags().Bool("clear", false, "Empty the treasure box")
}
