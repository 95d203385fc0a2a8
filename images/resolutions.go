package images

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Resolution is a named output size preset, used to bound the size of
// filtered images (e.g. "720p" for previews).
type Resolution struct {
	Name   string `json:"name" yaml:"name"`
	Width  int    `json:"width" yaml:"width"`
	Height int    `json:"height" yaml:"height"`
}

// MegaPixels returns Width*Height in megapixels rounded to two decimals
// (e.g. 2.07 for 1080p).
func (r Resolution) MegaPixels() float64 {
	if r.Width <= 0 || r.Height <= 0 {
		return 0.0
	}
	mp := float64(r.Width*r.Height) / 1_000_000.0
	return math.Round(mp*100) / 100
}

// String returns a human-readable summary of the resolution.
func (r Resolution) String() string {
	return fmt.Sprintf("%s (%dx%d, %.2fMP)", r.Name, r.Width, r.Height, r.MegaPixels())
}

// resolutions holds the presets keyed by lower-case name.
var resolutions = map[string]Resolution{
	"360p":  {Name: "360p", Width: 640, Height: 360},
	"480p":  {Name: "480p", Width: 854, Height: 480},
	"540p":  {Name: "540p", Width: 960, Height: 540},
	"720p":  {Name: "720p", Width: 1280, Height: 720},
	"900p":  {Name: "900p", Width: 1600, Height: 900},
	"1080p": {Name: "1080p", Width: 1920, Height: 1080},
	"1440p": {Name: "1440p", Width: 2560, Height: 1440},
	"4k":    {Name: "4k", Width: 3840, Height: 2160},
	"5k":    {Name: "5k", Width: 5120, Height: 2880},
	"8k":    {Name: "8k", Width: 7680, Height: 4320},
}

// LookupResolution returns the preset with the given name (case-insensitive).
//
// Arguments:
//   - name: The preset name, e.g. "1080p" or "4K".
//
// Returns:
//   - Resolution: The preset.
//   - error: An error naming the known presets if name is unknown.
func LookupResolution(name string) (Resolution, error) {
	res, ok := resolutions[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Resolution{}, errors.Errorf("unknown resolution %q (known: %s)", name, strings.Join(ResolutionNames(), ", "))
	}
	return res, nil
}

// ResolutionNames returns the preset names ordered by pixel count.
func ResolutionNames() []string {
	all := make([]Resolution, 0, len(resolutions))
	for _, res := range resolutions {
		all = append(all, res)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Width*all[i].Height < all[j].Width*all[j].Height
	})
	names := make([]string, len(all))
	for i, res := range all {
		names[i] = res.Name
	}
	return names
}
