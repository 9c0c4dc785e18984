// Package cmd implements the command-line interface for clipreel.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/clipreel/clipreel/color"
	"github.com/clipreel/clipreel/constant"
	"github.com/clipreel/clipreel/icon"
	"github.com/clipreel/clipreel/key"
	"github.com/clipreel/clipreel/log"
	"github.com/clipreel/clipreel/style"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().String("log-level", "", "Write logs at this level (e.g., debug, info, warn)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("log-level", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return lo.Map(logrus.AllLevels, func(l logrus.Level, _ int) string { return l.String() }), cobra.ShellCompDirectiveNoFileComp
	}))
}

// rootCmd defines the entry point for the clipreel application.
var rootCmd = &cobra.Command{
	Use:   constant.Clipreel,
	Short: "Play the interesting parts of a video as one continuous reel",
	Long: constant.Banner + "\n\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - Play the interesting parts of a video as one continuous reel"),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if level := lo.Must(cmd.Flags().GetString("log-level")); level != "" {
			viper.Set(key.LogsWrite, true)
			viper.Set(key.LogsLevel, level)
		}

		return log.Setup()
	},
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		handleErr(cmd.Help())
	},
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
