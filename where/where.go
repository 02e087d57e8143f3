// Package where implements a cross-platform resolver for application-specific filesystem paths.
package where

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/CinkadeusBG/LCARSTV/constant"
	"github.com/CinkadeusBG/LCARSTV/filesystem"
	"github.com/samber/lo"
)

// EnvConfigPath is the environment variable identifier used to override the default configuration directory.
const EnvConfigPath = "LCARSTV_CONFIG_PATH"

// ensureDir guarantees the existence of a directory at the specified path, creating it if necessary.
func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config resolves the absolute path to the primary application configuration directory.
// Direct override: the path resolution can be explicitly specified via the LCARSTV_CONFIG_PATH environment variable.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.Lcarstv))
}

// Cache resolves the absolute path to the application's persistent cache directory.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		// Fallback: revert to a localized cache directory if the system-provided path is inaccessible.
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.Lcarstv))
}

// Logs resolves the absolute path to the directory used for application diagnostic and audit logs.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// Channels resolves the default path to the channel lineup definition file.
func Channels() string {
	return filepath.Join(Config(), "channels.json")
}

// State resolves the absolute path to the persisted per-channel playback state file.
func State() string {
	return filepath.Join(Config(), "state.json")
}

// Catalogs resolves the directory holding per-channel media catalog cache files.
func Catalogs() string {
	return ensureDir(filepath.Join(Cache(), "catalogs"))
}

// Socket resolves the platform endpoint for the mpv JSON-IPC control channel.
// Windows uses a named pipe; everything else a Unix domain socket in the temp directory.
func Socket() string {
	if runtime.GOOS == constant.Windows {
		return `\\.\pipe\` + constant.Lcarstv + `-mpv`
	}
	return filepath.Join(os.TempDir(), constant.Lcarstv+"-mpv.sock")
}
