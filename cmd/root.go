package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/zibao/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "zibao",
	Short: "Chinese character adventure for kids",
	Long:  "字宝 Zibao: a terminal adventure where children learn Chinese characters, collect them as treasures and turn them into stories.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides ZIBAO_DB env var)")
	rootCmd.PersistentFlags().String("backend", "", "Progress storage: sqlite or gdata (overrides ZIBAO_BACKEND env var)")
	rootCmd.PersistentFlags().String("curriculum", "", "Load levels from a YAML file instead of the bundled ones")
	rootCmd.Flags().Bool("no-intro", false, "Skip the welcome animation")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(treasuresCmd)
	rootCmd.AddCommand(storiesCmd)
	rootCmd.AddCommand(composeCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then ZIBAO_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// resolveBackend returns the progress storage backend from --backend, then
// ZIBAO_BACKEND, defaulting to sqlite.
func resolveBackend(cmd *cobra.Command) string {
	if b, _ := cmd.Flags().GetString("backend"); b != "" {
		return b
	}
	if b := os.Getenv("ZIBAO_BACKEND"); b != "" {
		return b
	}
	return backendSQLite
}
