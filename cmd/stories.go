package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/zibao/internal/curriculum"
	"github.com/abhisek/zibao/internal/store"
)

var storiesCmd = &cobra.Command{
	Use:   "stories",
	Short: "Manage saved stories",
}

var storiesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved stories, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		stories := e.library.Stories()
		if len(stories) == 0 {
			fmt.Println("No saved stories.")
			return nil
		}
		fmt.Printf("%-14s  %-10s  %-12s  %s\n", "ID", "Date", "Characters", "Title")
		fmt.Println(strings.Repeat("─", 64))
		for _, s := range stories {
			fmt.Printf("%-14d  %-10s  %s  %s\n",
				s.ID, s.Date, padRight(strings.Join(s.Characters, ""), 12), s.Title)
		}
		return nil
	},
}

var storiesViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Print a saved story",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseStoryID(args[0])
		if err != nil {
			return err
		}
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		s, ok := e.library.Get(id)
		if !ok {
			return fmt.Errorf("story %d not found", id)
		}
		fmt.Printf("《%s》  %s  %s\n", s.Title, s.Date, strings.Join(s.Characters, "、"))
		printStory(s.Story)
		return nil
	},
}

var storiesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved story",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseStoryID(args[0])
		if err != nil {
			return err
		}
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		removed, err := e.library.Delete(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("delete story: %w", err)
		}
		if !removed {
			return fmt.Errorf("story %d not found", id)
		}
		_ = e.events.AppendActivity(cmd.Context(), store.ActivityEventData{
			Kind:   store.ActivityStoryDeleted,
			Detail: args[0],
		})
		fmt.Printf("Deleted story %d.\n", id)
		return nil
	},
}

func parseStoryID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid ID %q: %w", s, err)
	}
	return id, nil
}

func printStory(story curriculum.Story) {
	sep := strings.Repeat("─", 40)
	for i, p := range story.Pages {
		fmt.Println(sep)
		fmt.Printf("Page %d  %s\n\n", i+1, p.Image)
		fmt.Println(p.Text)
	}
	fmt.Println(sep)
}

func init() {
	storiesCmd.AddCommand(storiesListCmd)
	storiesCmd.AddCommand(storiesViewCmd)
	storiesCmd.AddCommand(storiesDeleteCmd)
}
