package cmd

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/clipreel/clipreel/color"
	"github.com/clipreel/clipreel/style"
	"github.com/clipreel/clipreel/timeline"
	"github.com/clipreel/clipreel/util"
	"github.com/muesli/reflow/padding"
	"github.com/muesli/reflow/truncate"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(timelineCmd)

	timelineCmd.AddCommand(timelineShowCmd)
	timelineShowCmd.Flags().BoolP("json", "j", false, "Print the timeline as JSON")

	timelineCmd.AddCommand(timelineMapCmd)
	timelineMapCmd.Flags().Float64P("actual", "a", 0, "Source media time in seconds")
	timelineMapCmd.Flags().Float64P("virtual", "r", 0, "Reel time in seconds")
	timelineMapCmd.MarkFlagsMutuallyExclusive("actual", "virtual")
	timelineMapCmd.MarkFlagsOneRequired("actual", "virtual")
}

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Inspect the reel built from a clip file",
}

// rangeJSON is the printed form of a timeline.Range.
type rangeJSON struct {
	Index        int     `json:"index"`
	Label        string  `json:"label,omitempty"`
	ActualStart  float64 `json:"actual_start"`
	ActualEnd    float64 `json:"actual_end"`
	VirtualStart float64 `json:"virtual_start"`
	VirtualEnd   float64 `json:"virtual_end"`
	Duration     float64 `json:"duration"`
}

var timelineShowCmd = &cobra.Command{
	Use:   "show <clips-file>",
	Short: "List the clips in reel order",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		file := loadClips(cmd, args[0])
		tl := timeline.Build(file.Clips)

		if lo.Must(cmd.Flags().GetBool("json")) {
			out := struct {
				Total  float64     `json:"total"`
				Ranges []rangeJSON `json:"ranges"`
			}{
				Total: tl.TotalVirtualDuration,
				Ranges: lo.Map(tl.Ranges, func(r timeline.Range, i int) rangeJSON {
					return rangeJSON{
						Index:        i,
						Label:        r.Clip.Label,
						ActualStart:  r.ActualStart,
						ActualEnd:    r.ActualEnd,
						VirtualStart: r.VirtualStart,
						VirtualEnd:   r.VirtualEnd,
						Duration:     r.Duration,
					}
				}),
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(out))
			return
		}

		if tl.Empty() {
			cmd.Println(style.Faint("No clips."))
			return
		}

		width := util.TerminalWidth(80)
		cmd.Println(reelBar(tl, width))
		cmd.Println()

		labelWidth := uint(util.Clamp(width-48, 8, 40))
		for i, r := range tl.Ranges {
			label := truncate.StringWithTail(clipTitle(r.Clip, i), labelWidth, "…")
			cmd.Printf(
				"%s %s %s → %s  %s  %s\n",
				style.Fg(color.Accent)(fmt.Sprintf("%3d", i+1)),
				padding.String(label, labelWidth),
				util.FormatSeconds(r.ActualStart),
				util.FormatSeconds(r.ActualEnd),
				style.Faint(util.FormatSeconds(r.Duration)),
				style.Fg(color.Secondary)("@"+util.FormatSeconds(r.VirtualStart)),
			)
		}

		cmd.Println()
		cmd.Printf(
			"%s in %s\n",
			style.Bold(util.FormatSeconds(tl.TotalVirtualDuration)),
			util.Quantify(tl.Len(), "clip", "clips"),
		)
	},
}

// reelBar draws each clip as a block whose width is proportional to its duration.
func reelBar(tl timeline.Timeline, width int) string {
	if tl.TotalVirtualDuration <= 0 || width <= 0 {
		return ""
	}

	shades := []func(string) string{style.Fg(color.Played), style.Fg(color.Secondary)}

	var b strings.Builder
	used := 0
	for i, r := range tl.Ranges {
		end := int(math.Round(r.VirtualEnd / tl.TotalVirtualDuration * float64(width)))
		if i == tl.Len()-1 {
			end = width
		}

		if n := end - used; n > 0 {
			b.WriteString(shades[i%len(shades)](strings.Repeat("█", n)))
			used = end
		}
	}

	return b.String()
}

var timelineMapCmd = &cobra.Command{
	Use:   "map <clips-file>",
	Short: "Convert a time between the source media and the reel",
	Example: "  clipreel timeline map --actual 62.5 holiday.yaml\n" +
		"  clipreel timeline map --virtual 20 holiday.yaml",
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		file := loadClips(cmd, args[0])
		tl := timeline.Build(file.Clips)

		if cmd.Flags().Changed("actual") {
			t := lo.Must(cmd.Flags().GetFloat64("actual"))
			v := timeline.ActualToVirtual(tl, t)

			loc := "outside every clip"
			if idx := tl.IndexAt(t); idx >= 0 {
				loc = "in " + clipTitle(tl.Ranges[idx].Clip, idx)
			}

			cmd.Printf("%s actual → %s reel (%s)\n", util.FormatSeconds(t), util.FormatSeconds(v), loc)
			return
		}

		v := lo.Must(cmd.Flags().GetFloat64("virtual"))
		pos := timeline.VirtualToActual(tl, v)

		loc := "no clips"
		if pos.ClipIndex >= 0 {
			loc = "in " + clipTitle(tl.Ranges[pos.ClipIndex].Clip, pos.ClipIndex)
		}

		cmd.Printf("%s reel → %s actual (%s)\n", util.FormatSeconds(v), util.FormatSeconds(pos.ActualTime), loc)
	},
}
