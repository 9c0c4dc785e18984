package cmd

import (
	"fmt"

	"github.com/clipreel/clipreel/filesystem"
	"github.com/clipreel/clipreel/icon"
	"github.com/clipreel/clipreel/util"
	"github.com/clipreel/clipreel/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

// clearTarget defines a filesystem resource eligible for cleanup.
type clearTarget struct {
	name     string
	argLong  string
	argShort mo.Option[string]
	location func() string
}

var clearTargets = []clearTarget{
	{"log files", "logs", mo.Some("l"), where.Logs},
	{"player sockets", "temp", mo.Some("t"), where.Temp},
	{"resume history", "history", mo.Some("r"), where.History},
}

func init() {
	rootCmd.AddCommand(clearCmd)

	for _, target := range clearTargets {
		help := fmt.Sprintf("clear %s", target.name)
		if short, ok := target.argShort.Get(); ok {
			clearCmd.Flags().BoolP(target.argLong, short, false, help)
		} else {
			clearCmd.Flags().Bool(target.argLong, false, help)
		}
	}
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove log files, leftover player sockets or saved reel positions",
	Run: func(cmd *cobra.Command, args []string) {
		var anyCleared bool

		for _, target := range clearTargets {
			if !lo.Must(cmd.Flags().GetBool(target.argLong)) {
				continue
			}

			anyCleared = true
			handleErr(filesystem.API().RemoveAll(target.location()))
			cmd.Printf("%s %s cleared\n", icon.Get(icon.Success), util.Capitalize(target.name))
		}

		if !anyCleared {
			handleErr(cmd.Help())
		}
	},
}
