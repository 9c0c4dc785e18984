package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/clipreel/clipreel/color"
	"github.com/clipreel/clipreel/constant"
	"github.com/clipreel/clipreel/icon"
	"github.com/clipreel/clipreel/log"
	"github.com/clipreel/clipreel/style"
	"github.com/clipreel/clipreel/version"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that the media player clipreel drives is installed",
	Run: func(cmd *cobra.Command, args []string) {
		path := CheckDependencies()
		cmd.Printf("%s mpv found at %s\n", style.Fg(color.Success)(icon.Get(icon.Success)), path)

		v, err := mpvVersion(path)
		switch {
		case err != nil:
			cmd.Printf("%s %v\n", style.Fg(color.Warning)(icon.Get(icon.Warn)), err)
		case !version.SupportedMPV(v):
			cmd.Printf("%s mpv %s is older than %s; seeks and chapters may misbehave\n", style.Fg(color.Warning)(icon.Get(icon.Warn)), v, version.MinMPV)
		default:
			cmd.Printf("%s mpv %s\n", style.Fg(color.Success)(icon.Get(icon.Success)), v)
		}
	},
}

// CheckDependencies exits with installation hints when mpv is not in PATH,
// and logs a warning when it is too old.
func CheckDependencies() string {
	path, err := exec.LookPath("mpv")
	if err != nil {
		printMissingDependencyError("mpv")
		os.Exit(1)
	}

	if v, err := mpvVersion(path); err == nil && !version.SupportedMPV(v) {
		log.Warnf("mpv %s is older than the supported minimum %s", v, version.MinMPV)
	}

	return path
}

func mpvVersion(path string) (string, error) {
	out, err := exec.Command(path, "--version").Output()
	if err != nil {
		return "", fmt.Errorf("run mpv --version: %w", err)
	}
	return version.ParseMPV(string(out))
}

func printMissingDependencyError(dep string) {
	var installCmd string
	switch runtime.GOOS {
	case constant.Darwin:
		installCmd = "brew install mpv"
	case constant.Linux:
		installCmd = "sudo apt install mpv"
	case constant.Android:
		installCmd = "pkg install mpv"
	case constant.Windows:
		installCmd = "scoop install mpv"
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color.Error).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(color.Error).Render(fmt.Sprintf("%s Error: Missing Dependency", icon.Get(icon.Fail)))
	body := style.New().Foreground(color.Text).Render(fmt.Sprintf("The required dependency '%s' was not found in your PATH.", dep))

	suggestion := ""
	if installCmd != "" {
		suggestion = fmt.Sprintf("\n\nTo install it, try running:\n  %s", style.New().Foreground(color.Accent).Bold(true).Render(installCmd))
	}

	fmt.Println(box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"\n",
			body,
			suggestion,
		),
	))
}
