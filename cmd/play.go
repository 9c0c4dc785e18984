package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/clipreel/clipreel/clip"
	"github.com/clipreel/clipreel/config"
	"github.com/clipreel/clipreel/history"
	"github.com/clipreel/clipreel/icon"
	"github.com/clipreel/clipreel/key"
	"github.com/clipreel/clipreel/log"
	"github.com/clipreel/clipreel/playback"
	"github.com/clipreel/clipreel/player"
	"github.com/clipreel/clipreel/timeline"
	"github.com/clipreel/clipreel/tui"
	"github.com/clipreel/clipreel/util"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

// errReelDone ends the headless run group once playback is over.
var errReelDone = errors.New("reel finished")

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().Bool("headless", false, "Play without the terminal interface and exit when the reel ends")
	playCmd.Flags().StringP("from", "f", "", "Start from the clip whose label best matches")
	playCmd.Flags().BoolP("pick", "p", false, "Choose the starting clip interactively")
	playCmd.Flags().BoolP("resume", "c", false, "Continue from where this reel was left last time")
	playCmd.Flags().Float64("step", 5, "Seconds of reel time the arrow keys seek by")
	playCmd.MarkFlagsMutuallyExclusive("from", "pick", "resume")

	playCmd.Flags().String("player", "", "Media player to drive")
	lo.Must0(playCmd.RegisterFlagCompletionFunc("player", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return player.Available(), cobra.ShellCompDirectiveNoFileComp
	}))
	lo.Must0(viper.BindPFlag(key.Player, playCmd.Flags().Lookup("player")))
}

var playCmd = &cobra.Command{
	Use:   "play [media] <clips-file>",
	Short: "Play the clips of a video back to back",
	Long: `Open the media in mpv and play only the listed clips, skipping the gaps between them.
The media may be omitted when the clip file names it.`,
	Example: "  clipreel play holiday.mkv holiday.yaml\n  clipreel play --from speech holiday.yaml",
	Args:    cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		var media, clipsPath string
		if len(args) == 2 {
			media, clipsPath = args[0], args[1]
		} else {
			clipsPath = args[0]
		}

		file := loadClips(cmd, clipsPath)
		if len(file.Clips) == 0 {
			handleErr(fmt.Errorf("%s has no clips", clipsPath))
		}

		media, err := resolveMedia(media, clipsPath, file)
		handleErr(err)

		store, err := clip.NewStore(file.Clips)
		handleErr(err)

		start, err := startClip(cmd, store)
		handleErr(err)

		CheckDependencies()
		handleErr(play(cmd, reelSource{clipsPath, media, store}, start, resumePoint(cmd, clipsPath, store)))
	},
}

// reelSource is what a play session was started from.
type reelSource struct {
	clipsPath string
	media     string
	store     *clip.Store
}

// reloadClips reads the clip file again and, if it still holds a valid clip list,
// swaps it into the store and rebuilds the controller's timeline from it. A file
// caught halfway through a save fails to load and leaves the reel unchanged.
func reloadClips(path string, store *clip.Store, ctrl *playback.Controller, publish func(timeline.Timeline)) error {
	file, err := clip.Load(path)
	if err != nil {
		return err
	}

	if err := store.Replace(file.Clips); err != nil {
		return err
	}

	clips, revision := store.Snapshot()
	ctrl.SetClips(clips)
	publish(ctrl.Timeline())

	log.WithFields(log.Fields{"file": path, "clips": len(clips), "revision": revision}).Info("clip file reloaded")
	return nil
}

// resumePoint returns the saved reel time for --resume. A saved position is
// ignored once the clip file holds a different number of clips.
func resumePoint(cmd *cobra.Command, clipsPath string, store *clip.Store) mo.Option[float64] {
	if !lo.Must(cmd.Flags().GetBool("resume")) {
		return mo.None[float64]()
	}

	saved, ok := history.Find(clipsPath).Get()
	if !ok {
		cmd.PrintErrf("%s nothing to resume, starting from the first clip\n", icon.Get(icon.Warn))
		return mo.None[float64]()
	}

	if saved.ClipCount != store.Len() {
		log.WithFields(log.Fields{"saved": saved.ClipCount, "now": store.Len()}).Warn("clip file changed since last play")
		cmd.PrintErrf("%s clips changed since last time, starting from the first clip\n", icon.Get(icon.Warn))
		return mo.None[float64]()
	}

	cmd.PrintErrf("%s resuming %s\n", icon.Get(icon.Play), saved)
	return mo.Some(saved.VirtualTime)
}

// startClip resolves --from and --pick into a clip index.
func startClip(cmd *cobra.Command, store *clip.Store) (int, error) {
	if from := lo.Must(cmd.Flags().GetString("from")); from != "" {
		idx, ok := store.Find(from).Get()
		if !ok {
			return 0, fmt.Errorf("no clip matches %q", from)
		}
		return idx, nil
	}

	if lo.Must(cmd.Flags().GetBool("pick")) {
		clips, _ := store.Snapshot()

		var idx int
		err := survey.AskOne(&survey.Select{
			Message: "Start from",
			Options: clipOptions(clips),
		}, &idx)
		if err != nil {
			return 0, fmt.Errorf("pick clip: %w", err)
		}
		return idx, nil
	}

	return 0, nil
}

func play(cmd *cobra.Command, src reelSource, start int, resumeAt mo.Option[float64]) error {
	media := src.media

	p, err := player.New(viper.GetString(key.Player))
	if err != nil {
		return err
	}

	if err := p.Open(media, util.FileStem(media)); err != nil {
		return err
	}
	defer util.Ignore(p.Close)

	interval := time.Duration(viper.GetInt(key.PlayerTickIntervalMs)) * time.Millisecond
	adapter := player.NewAdapter(p, interval)
	defer adapter.Close()

	clips, _ := src.store.Snapshot()
	ctrl := playback.New(adapter, clips, config.Playback())

	if _, err := p.Listen(adapter.HandleEvent); err != nil {
		return fmt.Errorf("listen to player events: %w", err)
	}

	publishChapters := func(tl timeline.Timeline) {
		if !viper.GetBool(key.PlayerChapters) {
			return
		}
		if err := p.SetChapters(player.ClipChapters(tl)); err != nil {
			log.Warnf("publish chapters: %v", err)
		}
	}
	publishChapters(ctrl.Timeline())

	if viper.GetBool(key.ClipsWatch) {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		go func() {
			err := clip.Watch(ctx, src.clipsPath, func() {
				if err := reloadClips(src.clipsPath, src.store, ctrl, publishChapters); err != nil {
					log.Warnf("reload %s: %v", src.clipsPath, err)
				}
			})
			if err != nil {
				log.Warn(err)
			}
		}()
	}

	defer func() {
		if err := history.Save(src.clipsPath, media, ctrl.State()); err != nil {
			log.Warnf("save reel position: %v", err)
		}
	}()

	if lo.Must(cmd.Flags().GetBool("headless")) {
		return runHeadless(cmd, ctrl, p, start, resumeAt)
	}

	return tui.Run(ctrl, &tui.Options{
		Title:     util.FileStem(media),
		SeekStep:  lo.Must(cmd.Flags().GetFloat64("step")),
		StartClip: start,
		ResumeAt:  resumeAt,
		Exited:    p.Wait(),
	})
}

// runHeadless plays the reel once with a status line instead of the interface.
// It returns when the reel finishes or playback is interrupted.
func runHeadless(cmd *cobra.Command, ctrl *playback.Controller, p player.Player, start int, resumeAt mo.Option[float64]) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	finished := make(chan struct{})
	var once sync.Once
	ctrl.Watch(func(s playback.State) {
		if s.PlaybackFinished {
			once.Do(func() { close(finished) })
		}
	})

	tui.Start(ctrl, start, resumeAt)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		select {
		case <-finished:
			return errReelDone
		case <-p.Wait():
			return errReelDone
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	g.Go(func() error {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				cmd.Println()
				return nil
			case <-ticker.C:
				cmd.Print("\r" + statusLine(ctrl.State()))
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errReelDone) && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func statusLine(s playback.State) string {
	clipInfo := "-"
	if s.HasClip() {
		clipInfo = fmt.Sprintf("%d/%d", s.CurrentClipIndex+1, s.ClipCount)
	}

	return fmt.Sprintf(
		"%s / %s  clip %s  %s",
		util.FormatSeconds(s.CurrentVirtualTime),
		util.FormatSeconds(s.TotalVirtualDuration),
		clipInfo,
		s.Mode,
	)
}
