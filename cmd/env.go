package cmd

import (
	"os"

	"github.com/clipreel/clipreel/color"
	"github.com/clipreel/clipreel/config"
	"github.com/clipreel/clipreel/style"
	"github.com/clipreel/clipreel/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
)

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.Flags().BoolP("set-only", "s", false, "Display only environment variables that are currently defined")
	envCmd.Flags().BoolP("unset-only", "u", false, "Display only environment variables that are currently undefined")

	envCmd.MarkFlagsMutuallyExclusive("set-only", "unset-only")
}

// envVars lists every environment variable clipreel reads, sorted.
func envVars() []string {
	vars := lo.Map(config.EnvExposed, func(k string, _ int) string {
		field := config.Default[k]
		return field.Env()
	})
	vars = append(vars, where.EnvConfigPath)
	slices.Sort(vars)
	return vars
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Display the collection of supported environment variables",
	Long:  `Display the collection of supported environment variables and their current process values.`,
	Run: func(cmd *cobra.Command, args []string) {
		setOnly := lo.Must(cmd.Flags().GetBool("set-only"))
		unsetOnly := lo.Must(cmd.Flags().GetBool("unset-only"))

		for _, env := range envVars() {
			value := os.Getenv(env)
			present := value != ""

			if (!present && setOnly) || (present && unsetOnly) {
				continue
			}

			cmd.Print(style.New().Bold(true).Foreground(color.Purple).Render(env))
			cmd.Print("=")

			if present {
				cmd.Println(style.Fg(color.Green)(value))
			} else {
				cmd.Println(style.Fg(color.Red)("unset"))
			}
		}
	},
}
