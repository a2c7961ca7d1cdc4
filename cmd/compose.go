package cmd

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/abhisek/zibao/internal/session"
	"github.com/abhisek/zibao/internal/store"
	"github.com/abhisek/zibao/internal/storygen"
	"github.com/abhisek/zibao/internal/treasure"
)

const maxStoryPages = 8

var composeCmd = &cobra.Command{
	Use:   "compose <char> <char> [char...]",
	Short: "Write a story from 2 to 4 treasures and save it",
	Args:  cobra.RangeArgs(session.MinComposeChars, session.MaxComposeChars),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		chars, err := composeChars(e.treasures, args)
		if err != nil {
			return err
		}

		pages, _ := cmd.Flags().GetInt("pages")
		if pages < 1 || pages > maxStoryPages {
			return fmt.Errorf("--pages must be between 1 and %d", maxStoryPages)
		}
		cfg := storygen.DefaultConfig()
		cfg.Pages = pages

		ctx := cmd.Context()
		svc := e.storyService(ctx, storygen.WithConfig(cfg))
		if !svc.Available() {
			fmt.Println("No LLM provider configured; saving the fallback story.")
		}
		story := svc.Generate(ctx, chars)

		saved, err := e.library.Add(ctx, story, chars)
		if err != nil {
			return fmt.Errorf("save story: %w", err)
		}
		_ = e.events.AppendActivity(ctx, store.ActivityEventData{
			Kind:   store.ActivityStorySaved,
			Detail: saved.Title,
		})

		fmt.Printf("Saved 《%s》 as %d\n", saved.Title, saved.ID)
		printStory(saved.Story)
		return nil
	},
}

// composeChars checks that every argument is a distinct treasure.
func composeChars(m *treasure.Manager, args []string) ([]string, error) {
	var chars []string
	for _, a := range args {
		if _, ok := m.Find(a); !ok {
			return nil, fmt.Errorf("%q is not in the treasure box", a)
		}
		if slices.Contains(chars, a) {
			return nil, fmt.Errorf("%q picked twice", a)
		}
		chars = append(chars, a)
	}
	return chars, nil
}

func init() {
	composeCmd.Flags().Int("pages", storygen.DefaultConfig().Pages, "Number of story pages")
}
