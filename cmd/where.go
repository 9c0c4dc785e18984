package cmd

import (
	"os"

	"github.com/clipreel/clipreel/color"
	"github.com/clipreel/clipreel/style"
	"github.com/clipreel/clipreel/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

// whereTarget pairs an application path with the flag that prints it.
type whereTarget struct {
	name     string
	where    func() string
	argLong  string
	argShort mo.Option[string]
	hidden   bool
}

var wherePaths = []*whereTarget{
	{"Config", where.Config, "config", mo.Some("c"), false},
	{"Config file", where.ConfigFile, "config-file", mo.None[string](), false},
	{"Logs", where.Logs, "logs", mo.Some("l"), false},
	{"History", where.History, "history", mo.None[string](), false},
	{"Temp", where.Temp, "temp", mo.None[string](), true},
}

func init() {
	rootCmd.AddCommand(whereCmd)

	for _, n := range wherePaths {
		if short, ok := n.argShort.Get(); ok {
			whereCmd.Flags().BoolP(n.argLong, short, false, n.name+" path")
		} else {
			whereCmd.Flags().Bool(n.argLong, false, n.name+" path")
		}

		if n.hidden {
			lo.Must0(whereCmd.Flags().MarkHidden(n.argLong))
		}
	}

	whereCmd.MarkFlagsMutuallyExclusive(lo.Map(wherePaths, func(t *whereTarget, _ int) string {
		return t.argLong
	})...)

	whereCmd.SetOut(os.Stdout)
}

var whereCmd = &cobra.Command{
	Use:   "where",
	Short: "Display the filesystem paths clipreel uses",
	Run: func(cmd *cobra.Command, args []string) {
		for _, n := range wherePaths {
			if lo.Must(cmd.Flags().GetBool(n.argLong)) {
				cmd.Println(n.where())
				return
			}
		}

		visible := lo.Filter(wherePaths, func(t *whereTarget, _ int) bool {
			return !t.hidden
		})
		width := lo.Max(lo.Map(visible, func(t *whereTarget, _ int) int { return len(t.name) }))

		nameStyle := style.New().Bold(true).Foreground(color.HiPurple).Width(width + 2).Render
		for _, n := range visible {
			cmd.Printf("%s%s  %s\n", nameStyle(n.name), n.where(), style.Fg(color.Yellow)("--"+n.argLong))
		}
	},
}
