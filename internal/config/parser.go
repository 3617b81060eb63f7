package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/example/blurpatch/internal/theme"
)

// Parse reads configuration from r. Lines are "key = value" or
// "Key: value"; "#" and "//" start comments; "[section]" switches
// section. Unknown keys and sections are ignored.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var section string
	var current *theme.Theme
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") || strings.HasPrefix(text, "//") {
			continue
		}
		if strings.HasPrefix(text, "[") && strings.HasSuffix(text, "]") {
			section = strings.ToLower(strings.TrimSpace(text[1 : len(text)-1]))
			current = nil
			if name, ok := strings.CutPrefix(section, "theme."); ok {
				current = theme.Default()
				current.Name = name
				cfg.Themes[name] = current
			}
			continue
		}

		key, value, ok := splitPair(text)
		if !ok {
			continue
		}
		var err error
		switch {
		case current != nil:
			err = current.Set(key, value)
		case section == "":
			err = setRoot(cfg, key, value)
		case section == "blur":
			err = setBlur(&cfg.Blur, key, value)
		case section == "regions":
			err = setRegions(&cfg.Regions, key, value)
		case section == "notify":
			err = setNotify(&cfg.Notify, key, value)
		}
		if err != nil {
			where := "root section"
			if section != "" {
				where = "[" + section + "]"
			}
			return nil, fmt.Errorf("line %d in %s: %w", line, where, err)
		}
	}
	return cfg, scanner.Err()
}

// splitPair splits at the first "=" or, failing that, the first ":" and
// strips surrounding quotes from the value.
func splitPair(line string) (string, string, bool) {
	sep := "="
	if !strings.Contains(line, "=") {
		sep = ":"
	}
	key, value, ok := strings.Cut(line, sep)
	if !ok {
		return "", "", false
	}
	value = strings.TrimSpace(value)
	if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
		value = value[1 : len(value)-1]
	}
	return strings.TrimSpace(key), value, true
}

func setRoot(cfg *Config, key, value string) error {
	switch strings.ToLower(key) {
	case "theme":
		cfg.Theme = value
	case "save_dir":
		cfg.SaveDir = value
	case "kernel":
		cfg.Kernel = strings.ToLower(value)
	}
	return nil
}

func setBlur(b *Blur, key, value string) error {
	var err error
	switch strings.ToLower(key) {
	case "scale_factor":
		b.ScaleFactor, err = parsePositive(key, value)
	case "radius":
		b.Radius, err = parseFloat(key, value)
	case "overlay", "tint":
		b.Overlay, err = theme.ParseColor(value)
		if err != nil {
			err = fmt.Errorf("invalid color for key %s: %w", key, err)
		}
	case "noise":
		b.Noise, err = parseBool(key, value)
	case "auto_update":
		b.AutoUpdate, err = parseBool(key, value)
	case "stride_alignment":
		b.StrideAlignment, err = parseBool(key, value)
	}
	return err
}

func setRegions(r *Regions, key, value string) error {
	var dst *float64
	switch strings.ToLower(key) {
	case "density":
		dst = &r.Density
	case "min_size":
		dst = &r.MinSize
	case "default_size":
		dst = &r.DefaultSize
	case "copy_offset":
		dst = &r.CopyOffset
	case "slop":
		dst = &r.Slop
	case "frame_margin":
		dst = &r.FrameMargin
	default:
		return nil
	}
	v, err := parseFloat(key, value)
	if err != nil {
		return err
	}
	if v < 0 {
		return fmt.Errorf("%s must not be negative", key)
	}
	*dst = v
	return nil
}

func setNotify(n *Notify, key, value string) error {
	var dst *bool
	switch strings.ToLower(key) {
	case "capture":
		dst = &n.Capture
	case "save":
		dst = &n.Save
	case "copy":
		dst = &n.Copy
	default:
		return nil
	}
	b, err := parseBool(key, value)
	if err != nil {
		return err
	}
	*dst = b
	return nil
}

func parseBool(key, value string) (bool, error) {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	return b, nil
}

func parseFloat(key, value string) (float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number for key %s: %w", key, err)
	}
	return v, nil
}

func parsePositive(key, value string) (float64, error) {
	v, err := parseFloat(key, value)
	if err == nil && v <= 0 {
		err = fmt.Errorf("%s must be positive", key)
	}
	return v, err
}
