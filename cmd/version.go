package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is set via -ldflags at build time.
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current version",
	RunE: func(cmd *cobra.Command, args []string) error {
		cur, err := loadCurriculum(cmd)
		if err != nil {
			return err
		}
		fmt.Printf("zibao %s (curriculum %s, %d levels)\n", version, cur.Version(), cur.Len())
		return nil
	},
}
