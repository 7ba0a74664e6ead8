package formatter

import (
	"fmt"
	"strings"
)

// RenderProgress renders a horizontal completion bar like "▰▰▰▱▱ 60%".
func RenderProgress(pct float64, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}
	if width <= 0 {
		width = 10
	}

	filled := int(pct*float64(width) + 0.5)
	bar := StyleGreen.Render(strings.Repeat("▰", filled)) +
		StyleDim.Render(strings.Repeat("▱", width-filled))
	return bar + " " + StyleFg.Render(fmt.Sprintf("%d%%", int(pct*100+0.5)))
}
