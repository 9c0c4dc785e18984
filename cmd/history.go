package cmd

import (
	"encoding/json"

	"github.com/clipreel/clipreel/color"
	"github.com/clipreel/clipreel/history"
	"github.com/clipreel/clipreel/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().BoolP("json", "j", false, "Print saved positions as JSON")
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List reels that can be resumed with play --resume",
	Run: func(cmd *cobra.Command, args []string) {
		saved, err := history.Get()
		handleErr(err)

		reels := lo.Values(saved)
		slices.SortFunc(reels, func(a, b *history.SavedReel) int {
			return b.SavedAt.Compare(a.SavedAt)
		})

		if lo.Must(cmd.Flags().GetBool("json")) {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(reels))
			return
		}

		if len(reels) == 0 {
			cmd.Println(style.Faint("Nothing to resume."))
			return
		}

		for _, reel := range reels {
			cmd.Printf("%s\n  %s\n", reel, style.Fg(color.Secondary)(reel.ClipsFile))
		}
	},
}
