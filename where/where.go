// Package where implements a cross-platform resolver for application-specific filesystem paths.
package where

import (
	"os"
	"path/filepath"

	"github.com/clipreel/clipreel/constant"
	"github.com/clipreel/clipreel/filesystem"
	"github.com/samber/lo"
)

// EnvConfigPath is the environment variable identifier used to override the default configuration directory.
const EnvConfigPath = "CLIPREEL_CONFIG_PATH"

// ensureDir guarantees the existence of a directory at the specified path, creating it if necessary.
func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config resolves the absolute path to the primary application configuration directory.
// The path can be overridden via the CLIPREEL_CONFIG_PATH environment variable.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.Clipreel))
}

// ConfigFile resolves the path of the TOML configuration file written by "config write".
func ConfigFile() string {
	return filepath.Join(Config(), constant.Clipreel+".toml")
}

// History resolves the file holding saved reel positions.
func History() string {
	return filepath.Join(Config(), "history.json")
}

// Logs resolves the absolute path to the directory used for application diagnostic logs.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// Temp resolves a volatile filesystem path for transient artifacts such as player IPC sockets.
func Temp() string {
	return ensureDir(filepath.Join(os.TempDir(), constant.Clipreel))
}
