// Package config reads and writes the blurpatch rc file.
package config

import (
	"fmt"
	"image/color"
	"slices"
	"strconv"
	"strings"

	"github.com/example/blurpatch/internal/blur"
	"github.com/example/blurpatch/internal/region"
	"github.com/example/blurpatch/internal/scaler"
	"github.com/example/blurpatch/internal/theme"
)

// Notify holds notification settings.
type Notify struct {
	Capture bool
	Save    bool
	Copy    bool
}

// Blur holds the compositor settings.
type Blur struct {
	ScaleFactor     float64
	Radius          float64
	Overlay         color.NRGBA
	Noise           bool
	AutoUpdate      bool
	StrideAlignment bool
}

// Regions holds region sizes in density-independent units. Slop is in
// pixels.
type Regions struct {
	Density     float64
	MinSize     float64
	DefaultSize float64
	CopyOffset  float64
	Slop        float64
	FrameMargin float64
}

// Config holds the application configuration.
type Config struct {
	Theme   string
	SaveDir string
	Kernel  string
	Blur    Blur
	Regions Regions
	Notify  Notify
	Themes  map[string]*theme.Theme
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		Kernel: "box",
		Blur: Blur{
			ScaleFactor:     scaler.DefaultFactor,
			Radius:          blur.DefaultRadius,
			Noise:           true,
			AutoUpdate:      true,
			StrideAlignment: true,
		},
		Regions: Regions{
			Density:     1,
			MinSize:     18,
			DefaultSize: 88,
			CopyOffset:  16,
			Slop:        10,
			FrameMargin: 6,
		},
		Themes: make(map[string]*theme.Theme),
	}
}

// Metrics returns region metrics for the configured density with the
// configured sizes applied.
func (c *Config) Metrics() region.Metrics {
	d := c.Regions.Density
	if d <= 0 {
		d = 1
	}
	m := region.DefaultMetrics(d)
	m.RectMin = c.Regions.MinSize * d
	m.DefaultSize = c.Regions.DefaultSize * d
	m.CopyOffset = c.Regions.CopyOffset * d
	m.FrameMargin = c.Regions.FrameMargin * d
	m.Slop = c.Regions.Slop
	return m
}

// String returns the configuration in rc format.
func (c *Config) String() string {
	var sb strings.Builder

	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	fmt.Fprintf(&sb, "kernel = %s\n\n", c.Kernel)

	sb.WriteString("[blur]\n")
	fmt.Fprintf(&sb, "scale_factor = %s\n", formatFloat(c.Blur.ScaleFactor))
	fmt.Fprintf(&sb, "radius = %s\n", formatFloat(c.Blur.Radius))
	fmt.Fprintf(&sb, "overlay = %s\n", theme.FormatColor(c.Blur.Overlay))
	fmt.Fprintf(&sb, "noise = %v\n", c.Blur.Noise)
	fmt.Fprintf(&sb, "auto_update = %v\n", c.Blur.AutoUpdate)
	fmt.Fprintf(&sb, "stride_alignment = %v\n\n", c.Blur.StrideAlignment)

	sb.WriteString("[regions]\n")
	fmt.Fprintf(&sb, "density = %s\n", formatFloat(c.Regions.Density))
	fmt.Fprintf(&sb, "min_size = %s\n", formatFloat(c.Regions.MinSize))
	fmt.Fprintf(&sb, "default_size = %s\n", formatFloat(c.Regions.DefaultSize))
	fmt.Fprintf(&sb, "copy_offset = %s\n", formatFloat(c.Regions.CopyOffset))
	fmt.Fprintf(&sb, "slop = %s\n", formatFloat(c.Regions.Slop))
	fmt.Fprintf(&sb, "frame_margin = %s\n\n", formatFloat(c.Regions.FrameMargin))

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "capture = %v\n", c.Notify.Capture)
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)

	names := make([]string, 0, len(c.Themes))
	for name := range c.Themes {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "\n[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		for _, kv := range t.Fields() {
			fmt.Fprintf(&sb, "%s: %s\n", kv[0], kv[1])
		}
	}
	return sb.String()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
