package config

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
)

// broadcastShortcuts maps human-facing rate names to exact rate literals.
// The literals are handed to the timing parser unchanged; this layer never
// interprets rationals itself.
var broadcastShortcuts = map[string]string{
	// NTSC family (1001 denominator)
	"ntsc-film": "24000/1001",
	"ntsc":      "30000/1001",
	"ntsc-hd":   "60000/1001",
	"ntsc-4k":   "120000/1001",

	// PAL/SECAM family
	"pal":    "25",
	"pal-hd": "50",
	"pal-4k": "100",

	// Cinema standards
	"film":         "24",
	"film-hfr-48":  "48",
	"film-hfr-60":  "60",
	"film-hfr-120": "120",
}

// resolutionPresets maps named professional formats to pixel dimensions.
var resolutionPresets = map[string][2]int{
	// TV/broadcast
	"sd-ntsc": {720, 480},
	"sd-pal":  {720, 576},
	"hd-720":  {1280, 720},
	"hd-1080": {1920, 1080},
	"uhd-4k":  {3840, 2160},
	"uhd-8k":  {7680, 4320},

	// Cinema
	"2k-flat":      {1998, 1080},
	"2k-scope":     {2048, 858},
	"2k-full":      {2048, 1080},
	"4k-flat":      {3996, 2160},
	"4k-scope":     {4096, 1716},
	"4k-full":      {4096, 2160},
	"imax-digital": {5120, 2700},
}

// formatPreset is a complete format: rate literal plus resolution.
type formatPreset struct {
	fps  string
	size [2]int
}

var formatPresets = map[string]formatPreset{
	// TV broadcast
	"ntsc-sd":     {"30000/1001", [2]int{720, 480}},
	"pal-sd":      {"25", [2]int{720, 576}},
	"1080i50":     {"25", [2]int{1920, 1080}},
	"1080i59.94":  {"30000/1001", [2]int{1920, 1080}},
	"1080p25":     {"25", [2]int{1920, 1080}},
	"1080p30":     {"30", [2]int{1920, 1080}},
	"1080p50":     {"50", [2]int{1920, 1080}},
	"1080p60":     {"60", [2]int{1920, 1080}},
	"1080p59.94":  {"60000/1001", [2]int{1920, 1080}},
	"720p50":      {"50", [2]int{1280, 720}},
	"720p60":      {"60", [2]int{1280, 720}},
	"4k50":        {"50", [2]int{3840, 2160}},
	"4k60":        {"60", [2]int{3840, 2160}},
	"4k59.94":     {"60000/1001", [2]int{3840, 2160}},

	// Cinema
	"cinema-2k":        {"24", [2]int{2048, 1080}},
	"cinema-4k":        {"24", [2]int{4096, 2160}},
	"cinema-4k-scope":  {"24", [2]int{4096, 1716}},
	"cinema-4k-hfr":    {"48", [2]int{4096, 2160}},
	"cinema-4k-hfr-60": {"60", [2]int{4096, 2160}},
	"imax-digital":     {"24", [2]int{5120, 2700}},
}

var sizeLiteral = regexp.MustCompile(`^(\d+)x(\d+)$`)

// ResolveRate returns the rate literal for the configured generation
// section: the format preset's rate if a preset is set, a broadcast
// shortcut's exact literal, or the raw FPS string for the core parser.
func (g *GenerationConfig) ResolveRate() (string, error) {
	if g.Preset != "" {
		p, ok := formatPresets[g.Preset]
		if !ok {
			return "", fmt.Errorf("unknown format preset %q (available: %s)",
				g.Preset, knownFormatPresets())
		}
		return p.fps, nil
	}

	if literal, ok := broadcastShortcuts[g.FPS]; ok {
		return literal, nil
	}
	return g.FPS, nil
}

// ResolveSize returns the frame dimensions: the format preset's size if a
// preset is set, a named resolution preset, or a "WxH" literal.
func (g *GenerationConfig) ResolveSize() (int, int, error) {
	if g.Preset != "" {
		p, ok := formatPresets[g.Preset]
		if !ok {
			return 0, 0, fmt.Errorf("unknown format preset %q (available: %s)",
				g.Preset, knownFormatPresets())
		}
		return p.size[0], p.size[1], nil
	}

	if size, ok := resolutionPresets[g.Size]; ok {
		return size[0], size[1], nil
	}

	m := sizeLiteral.FindStringSubmatch(g.Size)
	if m == nil {
		return 0, 0, fmt.Errorf("invalid size %q: use WIDTHxHEIGHT or a resolution preset", g.Size)
	}
	w, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid width in %q", g.Size)
	}
	h, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid height in %q", g.Size)
	}
	return w, h, nil
}

func knownFormatPresets() string {
	names := make([]string, 0, len(formatPresets))
	for name := range formatPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ", "
		}
		out += n
	}
	return out
}
