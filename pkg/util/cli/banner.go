package cli

import (
	"strings"

	"github.com/aybabtme/rgbterm"
)

const (
	startColor = 0x51c8ff
	endColor   = 0x3d5cf6
)

// GradientBanner colors each line of banner along a vertical gradient.
// With colored unset the banner is returned as is.
func GradientBanner(banner string, colored bool) string {
	banner = strings.TrimRight(banner, "\n")
	if !colored {
		return banner + "\n"
	}

	var sb strings.Builder
	arr := strings.Split(banner, "\n")
	l := len(arr)
	for i, line := range arr {
		progress := 0.0
		if l > 1 {
			progress = float64(i) / float64(l-1)
		}
		r := gradient(startColor, endColor, 16, progress)
		g := gradient(startColor, endColor, 8, progress)
		b := gradient(startColor, endColor, 0, progress)
		sb.WriteString(rgbterm.FgString(line, r, g, b))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func gradient(start, end, offset int, progress float64) uint8 {
	start = (start >> offset) & 0xff
	end = (end >> offset) & 0xff
	return uint8(start + int(float64(end-start)*progress))
}
