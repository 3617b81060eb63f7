package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (
	appDir      = "blurpatch"
	configName  = "config.rc"
	altName     = "blurpatch.rc"
	devFileName = ".blurpatchrc"
)

// Loader finds and reads the configuration file.
type Loader struct {
	Version      string // "dev" enables the working directory rc file
	OverridePath string // set at compile time if needed
}

// NewLoader creates a new Loader.
func NewLoader(version string, overridePath string) *Loader {
	return &Loader{Version: version, OverridePath: overridePath}
}

// Load reads the resolved configuration file, or returns defaults when
// none exists.
func (l *Loader) Load() (*Config, error) {
	path := l.Path()
	if path == "" {
		return New(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Path returns the configuration file in use, or "" if there is none.
// The override path wins, then ./.blurpatchrc in dev builds, then the XDG
// config search path.
func (l *Loader) Path() string {
	if l.OverridePath != "" {
		if _, err := os.Stat(l.OverridePath); err == nil {
			return l.OverridePath
		}
	}
	if l.Version == "dev" {
		if wd, err := os.Getwd(); err == nil {
			local := filepath.Join(wd, devFileName)
			if _, err := os.Stat(local); err == nil {
				return local
			}
		}
	}
	for _, name := range []string{configName, altName} {
		if path, err := xdg.SearchConfigFile(filepath.Join(appDir, name)); err == nil {
			return path
		}
	}
	return ""
}

// Save writes cfg to the file in use, or to the default XDG location when
// there is none, and returns the path written.
func (l *Loader) Save(cfg *Config) (string, error) {
	path := l.Path()
	if path == "" {
		var err error
		path, err = xdg.ConfigFile(filepath.Join(appDir, configName))
		if err != nil {
			return "", fmt.Errorf("config path: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(cfg.String()), 0o644); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}
	return path, nil
}
