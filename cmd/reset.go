package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/zibao/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset unlocked levels, treasures and saved stories",
	RunE: func(cmd *cobra.Command, args []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			fmt.Print("This erases all progress. Type \"yes\" to continue: ")
			line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
			if strings.TrimSpace(line) != "yes" {
				fmt.Println("Cancelled.")
				return nil
			}
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		if err := e.progress.Reset(ctx); err != nil {
			return fmt.Errorf("reset levels: %w", err)
		}
		if err := e.treasures.Reset(ctx); err != nil {
			return fmt.Errorf("reset treasures: %w", err)
		}
		if err := e.library.Reset(ctx); err != nil {
			return fmt.Errorf("reset stories: %w", err)
		}
		_ = e.events.AppendActivity(ctx, store.ActivityEventData{Kind: store.ActivityProgressReset})
		fmt.Println("Progress reset. Level 1 is waiting!")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}
