package cmd

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/abhisek/zibao/internal/curriculum"
	"github.com/abhisek/zibao/internal/progression"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "Show levels and which are unlocked",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		fmt.Printf("%-4s  %-16s  %-10s  %s\n", "ID", "Level", "Status", "Characters")
		fmt.Println(strings.Repeat("─", 60))
		for _, l := range e.cur.Levels() {
			fmt.Printf("%-4d  %s  %-10s  %s\n",
				l.ID, padRight(l.Icon+" "+l.Title, 16), levelStatus(e.progress, l.ID), glyphs(l.Characters))
		}
		fmt.Println(strings.Repeat("─", 60))
		fmt.Printf("当前进度：第 %d 关\n", e.progress.Count())
		return nil
	},
}

func levelStatus(p *progression.Store, id int) string {
	switch {
	case p.IsCompleted(id):
		return "completed"
	case p.IsUnlocked(id):
		return "current"
	default:
		return "locked"
	}
}

func glyphs(chars []curriculum.Character) string {
	out := make([]string, len(chars))
	for i, c := range chars {
		out[i] = c.Char
	}
	return strings.Join(out, " ")
}

// padRight pads s to width terminal columns, counting CJK runes as two.
func padRight(s string, width int) string {
	w := 0
	for _, r := range s {
		if utf8.RuneLen(r) >= 3 {
			w += 2
		} else {
			w++
		}
	}
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
