package category

import "strings"

// Option applies a configuration option to the Resolver.
type Option func(*Resolver)

// WithMode sets the resolution mode. Unknown modes are ignored.
func WithMode(m Mode) Option {
	return func(r *Resolver) {
		if m == ModePriority || m == ModeSentinel {
			r.mode = m
		}
	}
}

// WithSentinel sets the "enter manually" preset value.
func WithSentinel(v string) Option {
	return func(r *Resolver) {
		if v = strings.TrimSpace(v); v != "" {
			r.sentinel = v
		}
	}
}

// WithPresets replaces the preset list. Blank entries are dropped and the
// slice is copied.
func WithPresets(presets []string) Option {
	return func(r *Resolver) {
		if len(presets) == 0 {
			return
		}
		out := make([]string, 0, len(presets))
		for _, p := range presets {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		r.presets = out
	}
}
