package utils

import (
	"fmt"
	"regexp"

	"github.com/go-gl/mathgl/mgl32"
)

var colourRegexp = regexp.MustCompile(`^#[0-9A-Fa-f]{8}$`)

// ColourValidate checks for an RGBA hex colour like #ff8000ff.
func ColourValidate(c string) bool {
	return colourRegexp.MatchString(c)
}

// ColourParse turns an RGBA hex colour into normalised GL components.
func ColourParse(s string) (mgl32.Vec4, error) {
	if !ColourValidate(s) {
		return mgl32.Vec4{}, fmt.Errorf("%s is not a valid RGBA hex colour", s)
	}
	var r, g, b, a uint8
	_, err := fmt.Sscanf(s, "#%02x%02x%02x%02x", &r, &g, &b, &a)
	if err != nil {
		return mgl32.Vec4{}, fmt.Errorf("could not parse colour %s: %w", s, err)
	}
	return mgl32.Vec4{
		float32(r) / 255,
		float32(g) / 255,
		float32(b) / 255,
		float32(a) / 255,
	}, nil
}
