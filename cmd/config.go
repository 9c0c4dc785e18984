package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/clipreel/clipreel/color"
	"github.com/clipreel/clipreel/config"
	"github.com/clipreel/clipreel/filesystem"
	"github.com/clipreel/clipreel/icon"
	"github.com/clipreel/clipreel/style"
	"github.com/clipreel/clipreel/where"
	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func errUnknownKey(key string) error {
	closest := lo.MinBy(lo.Keys(config.Default), func(a string, b string) bool {
		return levenshtein.Distance(key, a) < levenshtein.Distance(key, b)
	})
	msg := fmt.Sprintf(
		"unknown key %s, did you mean %s?",
		style.Fg(color.Red)(key),
		style.Fg(color.Yellow)(closest),
	)

	return errors.New(msg)
}

func completionConfigKeys(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return lo.Keys(config.Default), cobra.ShellCompDirectiveNoFileComp
}

// keyArg picks the key from the first argument or the --key flag.
func keyArg(cmd *cobra.Command, args []string) string {
	if len(args) >= 1 {
		return args[0]
	}

	if flagKey, _ := cmd.Flags().GetString("key"); flagKey != "" {
		return flagKey
	}

	handleErr(errors.New("key is required as an argument or --key flag"))
	return ""
}

// persist writes the in-memory settings, creating the config file when missing.
func persist() {
	switch err := viper.WriteConfig(); err.(type) {
	case viper.ConfigFileNotFoundError:
		handleErr(viper.SafeWriteConfig())
	default:
		handleErr(err)
	}
}

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage playback tolerances, player and display settings",
}

func init() {
	configCmd.AddCommand(configInfoCmd)
	configInfoCmd.Flags().StringSliceP("key", "k", []string{}, "Specify the configuration keys to retrieve information for")
	configInfoCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON string")
	_ = configInfoCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)

	configInfoCmd.SetOut(os.Stdout)
}

var configInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Display descriptions, defaults and current values of configuration fields",
	Run: func(cmd *cobra.Command, args []string) {
		var (
			keys   = lo.Must(cmd.Flags().GetStringSlice("key"))
			asJson = lo.Must(cmd.Flags().GetBool("json"))
			fields = lo.Values(config.Default)
		)

		if len(keys) > 0 {
			fields = make([]config.Field, 0, len(keys))

			for _, key := range keys {
				if _, ok := config.Default[key]; !ok {
					handleErr(errUnknownKey(key))
				}

				fields = append(fields, config.Default[key])
			}
		}

		sort.Slice(fields, func(i, j int) bool {
			return fields[i].Key < fields[j].Key
		})

		if asJson {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			lo.Must0(encoder.Encode(lo.ToSlicePtr(fields)))
			return
		}

		for i, field := range fields {
			cmd.Print(field.Pretty())

			if i < len(fields)-1 {
				cmd.Println()
				cmd.Println()
			}
		}
		cmd.Println()
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
	configSetCmd.Flags().StringP("key", "k", "", "The configuration key to update")
	configSetCmd.Flags().StringP("value", "v", "", "The new value to assign to the configuration key")
	_ = configSetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)
}

var configSetCmd = &cobra.Command{
	Use:               "set [key] [value]",
	Short:             "Update the value of a configuration key",
	Args:              cobra.MaximumNArgs(2),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		key := keyArg(cmd, args)

		raw := lo.Must(cmd.Flags().GetString("value"))
		if len(args) >= 2 {
			raw = args[1]
		} else if !cmd.Flags().Changed("value") {
			handleErr(errors.New("value is required as an argument or --value flag"))
		}

		field, ok := config.Default[key]
		if !ok {
			handleErr(errUnknownKey(key))
		}

		v, err := field.Parse(raw)
		handleErr(err)

		viper.Set(key, v)
		persist()

		cmd.Printf(
			"%s set %s to %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Purple)(key),
			style.Fg(color.Yellow)(fmt.Sprintf("%v", v)),
		)
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configGetCmd.Flags().StringP("key", "k", "", "The configuration key to retrieve")
	_ = configGetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)
}

var configGetCmd = &cobra.Command{
	Use:               "get [key]",
	Short:             "Print the current value of a configuration key",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		key := keyArg(cmd, args)

		if _, ok := config.Default[key]; !ok {
			handleErr(errUnknownKey(key))
		}

		cmd.Println(viper.Get(key))
	},
}

func init() {
	configCmd.AddCommand(configWriteCmd)
	configWriteCmd.Flags().BoolP("force", "f", false, "Overwrite the existing configuration file")
}

var configWriteCmd = &cobra.Command{
	Use:   "write",
	Short: "Write the current settings to the config file",
	Run: func(cmd *cobra.Command, args []string) {
		path := where.ConfigFile()

		if lo.Must(cmd.Flags().GetBool("force")) {
			if err := filesystem.API().Remove(path); err != nil && !os.IsNotExist(err) {
				handleErr(err)
			}
		}

		handleErr(viper.SafeWriteConfig())
		cmd.Printf(
			"%s wrote config to %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			path,
		)
	},
}

func init() {
	configCmd.AddCommand(configDeleteCmd)
}

var configDeleteCmd = &cobra.Command{
	Use:     "delete",
	Short:   "Remove the config file",
	Aliases: []string{"remove"},
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(filesystem.API().Remove(where.ConfigFile()))
		cmd.Printf(
			"%s deleted config\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
		)
	},
}

func init() {
	configCmd.AddCommand(configResetCmd)

	configResetCmd.Flags().StringP("key", "k", "", "The configuration key to restore to its default value")
	configResetCmd.Flags().BoolP("all", "a", false, "Restore every setting to its default")
	configResetCmd.MarkFlagsMutuallyExclusive("key", "all")
	_ = configResetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore configuration keys to their default values",
	PreRun: func(cmd *cobra.Command, args []string) {
		if !cmd.Flags().Changed("key") && !cmd.Flags().Changed("all") {
			handleErr(fmt.Errorf("either --key or --all must be set"))
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		var (
			key = lo.Must(cmd.Flags().GetString("key"))
			all = lo.Must(cmd.Flags().GetBool("all"))
		)

		if all {
			for key, field := range config.Default {
				viper.Set(key, field.Value)
			}
		} else if _, ok := config.Default[key]; !ok {
			handleErr(errUnknownKey(key))
		} else {
			viper.Set(key, config.Default[key].Value)
		}

		persist()

		if all {
			cmd.Printf(
				"%s reset all config values\n",
				style.Fg(color.Green)(icon.Get(icon.Success)),
			)
			return
		}

		cmd.Printf(
			"%s reset %s to default value %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Purple)(key),
			style.Fg(color.Yellow)(fmt.Sprintf("%v", config.Default[key].Value)),
		)
	},
}
