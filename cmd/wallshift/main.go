// Wallshift - a wallpaper cycler with image-derived colours
//
// Wallshift picks wallpapers from a managed library, estimates matching
// background and border colours from each image, composes the image
// onto the monitor canvas and applies it as the desktop background.
package main

import (
	"github.com/wallshift/wallshift/internal/cli"
)

func main() {
	cli.Execute()
}
