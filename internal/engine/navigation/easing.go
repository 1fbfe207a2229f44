package navigation

import (
	"sort"

	"github.com/tanema/gween/ease"
)

// Smoothstep eases with p*p*(3-2p), the default node-to-node curve.
func Smoothstep(t, b, c, d float32) float32 {
	if d <= 0 {
		return b + c
	}
	p := t / d
	return b + c*p*p*(3-2*p)
}

var easings = map[string]ease.TweenFunc{
	"smoothstep":   Smoothstep,
	"linear":       ease.Linear,
	"in-out-quad":  ease.InOutQuad,
	"in-out-cubic": ease.InOutCubic,
	"in-out-sine":  ease.InOutSine,
	"out-cubic":    ease.OutCubic,
}

// EasingByName resolves a configured easing curve. Empty selects smoothstep.
func EasingByName(name string) (ease.TweenFunc, bool) {
	if name == "" {
		return Smoothstep, true
	}
	fn, ok := easings[name]
	return fn, ok
}

// EasingNames lists the accepted easing names.
func EasingNames() []string {
	names := make([]string, 0, len(easings))
	for n := range easings {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
