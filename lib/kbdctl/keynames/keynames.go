// Package keynames maps the key names accepted in the config to GLFW key
// codes. It does not import GLFW, so config validation builds without cgo.
package keynames

import (
	"fmt"
	"slices"
	"strings"
)

// GLFW key codes, from glfw3.h.
var codes = map[string]int{
	"escape": 256,
	"q":      81,
	"space":  32,
	"enter":  257,
	"f10":    299,
}

// Code resolves a case-insensitive key name.
func Code(name string) (int, error) {
	c, ok := codes[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("unsupported quit key %q", name)
	}
	return c, nil
}

// Names lists the accepted key names in sorted order.
func Names() []string {
	names := make([]string, 0, len(codes))
	for n := range codes {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
