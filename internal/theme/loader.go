package theme

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/adrg/xdg"
)

//go:embed defaults/*.theme
var embeddedThemes embed.FS

// Loader finds themes by name or path.
type Loader struct {
	ConfigDir  string
	SystemDirs []string
}

// NewLoader returns a Loader searching the XDG config and data directories.
func NewLoader() *Loader {
	dirs := make([]string, 0, len(xdg.DataDirs)+1)
	for _, d := range xdg.DataDirs {
		dirs = append(dirs, filepath.Join(d, "blurpatch", "themes"))
	}
	if !slices.Contains(dirs, "/usr/share/blurpatch/themes") {
		dirs = append(dirs, "/usr/share/blurpatch/themes")
	}
	return &Loader{
		ConfigDir:  filepath.Join(xdg.ConfigHome, "blurpatch", "themes"),
		SystemDirs: dirs,
	}
}

// Load resolves name in order: an existing file path, the embedded
// defaults, the config dir, then the system dirs. An empty name returns
// Default.
func (l *Loader) Load(name string) (*Theme, error) {
	if name == "" {
		return Default(), nil
	}
	if st, err := os.Stat(name); err == nil && !st.IsDir() {
		return parseFile(name)
	}
	filename := name
	if !strings.HasSuffix(filename, ".theme") {
		filename += ".theme"
	}
	if f, err := embeddedThemes.Open("defaults/" + strings.ToLower(filename)); err == nil {
		defer f.Close()
		return Parse(f)
	}
	for _, dir := range append([]string{l.ConfigDir}, l.SystemDirs...) {
		if dir == "" {
			continue
		}
		path := filepath.Join(dir, filename)
		if _, err := os.Stat(path); err == nil {
			return parseFile(path)
		}
	}
	return nil, fmt.Errorf("theme %q not found", name)
}

// Embedded lists the names of the built-in themes.
func Embedded() []string {
	entries, err := fs.ReadDir(embeddedThemes, "defaults")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".theme"))
	}
	return names
}

func parseFile(path string) (*Theme, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
