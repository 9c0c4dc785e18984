package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/clipreel/clipreel/clip"
	"github.com/clipreel/clipreel/color"
	"github.com/clipreel/clipreel/filesystem"
	"github.com/clipreel/clipreel/icon"
	"github.com/clipreel/clipreel/log"
	"github.com/clipreel/clipreel/style"
	"github.com/clipreel/clipreel/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// loadClips reads a clip file and warns when the clips are not in chronological order.
func loadClips(cmd *cobra.Command, path string) *clip.File {
	file, err := clip.Load(path)
	handleErr(err)

	if !clip.Chronological(file.Clips) {
		log.WithFields(log.Fields{"file": path}).Warn("clips are not in chronological order")
		cmd.PrintErrf(
			"%s %s\n",
			style.Fg(color.Yellow)(icon.Get(icon.Warn)),
			"clips overlap or are out of order; playback follows the file order and may stop early",
		)
	}

	return file
}

// resolveMedia prefers an explicit media argument, then the file's own media
// entry, which is taken relative to the clip file.
func resolveMedia(explicit, clipsPath string, file *clip.File) (string, error) {
	media := explicit
	if media == "" {
		if file.Media == "" {
			return "", fmt.Errorf("%s names no media; pass it as the first argument", filepath.Base(clipsPath))
		}

		media = file.Media
		if !isURL(media) && !filepath.IsAbs(media) {
			media = filepath.Join(filepath.Dir(clipsPath), media)
		}
	}

	if !isURL(media) && !filesystem.IsFile(media) {
		return "", fmt.Errorf("media %s not found", media)
	}

	return media, nil
}

func isURL(s string) bool {
	return strings.Contains(s, "://")
}

func clipTitle(c clip.Clip, i int) string {
	if c.Label != "" {
		return c.Label
	}
	return fmt.Sprintf("Clip %d", i+1)
}

// clipOptions renders one line per clip for interactive pickers.
func clipOptions(clips []clip.Clip) []string {
	return lo.Map(clips, func(c clip.Clip, i int) string {
		return fmt.Sprintf("%d. %s (%s → %s)", i+1, clipTitle(c, i), util.FormatSeconds(c.Start), util.FormatSeconds(c.End))
	})
}
