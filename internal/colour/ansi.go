package colour

import (
	"fmt"
	"strings"
)

// ANSI escape codes for terminal colours.
const (
	ansiReset    = "\033[0m"
	ansiBgPrefix = "\033[48;2;"
	ansiSuffix   = "m"
	defaultWidth = 8
)

// Preview returns an ANSI-coloured preview block for a pixel.
// Width specifies how many characters wide the colour block should be.
// Uses background colour with spaces for a solid block.
func Preview(p Pixel, width int) string {
	if width <= 0 {
		width = defaultWidth
	}

	bg := fmt.Sprintf("%s%d;%d;%d%s", ansiBgPrefix, p.R, p.G, p.B, ansiSuffix)
	block := strings.Repeat(" ", width)

	return bg + block + ansiReset
}

// FormatWithPreview formats a pixel as a preview block followed by its
// hex code.
func FormatWithPreview(p Pixel, width int) string {
	return fmt.Sprintf("%s %s", Preview(p, width), p.Hex())
}
