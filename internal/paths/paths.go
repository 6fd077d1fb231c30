// Package paths supplies the per-user platform locations mala falls back
// to when neither a flag, an environment variable nor config.yaml names a
// directory. Precedence between those sources is the CLI's business.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// AppName is the directory created under the platform roots.
const AppName = "mala"

// Dirs are the default configuration and data locations.
type Dirs struct {
	Config string
	Data   string
}

// host describes the running platform. Tests substitute their own.
type host struct {
	goos       string
	getenv     func(string) string
	home       func() (string, error)
	userConfig func() (string, error)
}

var current = host{
	goos:       runtime.GOOS,
	getenv:     os.Getenv,
	home:       os.UserHomeDir,
	userConfig: os.UserConfigDir,
}

// Default returns the platform defaults.
//
// Linux:   $XDG_CONFIG_HOME/mala and $XDG_DATA_HOME/mala
// (falling back to ~/.config/mala and ~/.local/share/mala)
// Others:  <user config dir>/mala and <user config dir>/mala/data
func Default() (Dirs, error) {
	return current.dirs()
}

func (h host) dirs() (Dirs, error) {
	if h.goos != "linux" {
		base, err := h.userConfig()
		if err != nil {
			return Dirs{}, fmt.Errorf("user config dir: %w", err)
		}
		root := filepath.Join(base, AppName)
		return Dirs{Config: root, Data: filepath.Join(root, "data")}, nil
	}

	cfg, err := h.xdg("XDG_CONFIG_HOME", ".config")
	if err != nil {
		return Dirs{}, err
	}
	data, err := h.xdg("XDG_DATA_HOME", ".local", "share")
	if err != nil {
		return Dirs{}, err
	}
	return Dirs{Config: cfg, Data: data}, nil
}

// xdg returns $env/mala, or ~/<fallback...>/mala when env is unset.
// Relative XDG values are ignored, as the base directory spec requires.
func (h host) xdg(env string, fallback ...string) (string, error) {
	if dir := h.getenv(env); filepath.IsAbs(dir) {
		return filepath.Join(dir, AppName), nil
	}
	home, err := h.home()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	parts := append([]string{home}, fallback...)
	return filepath.Join(append(parts, AppName)...), nil
}
