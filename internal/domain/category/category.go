// Package category resolves the effective maintenance category from a preset
// selection and a free-text override.
package category

import (
	"fmt"
	"strings"

	"github.com/okian/bikelog/internal/domain/faults"
)

// Mode selects how the free-text field competes with the preset.
type Mode string

const (
	// ModePriority uses the free text whenever it is non-empty.
	ModePriority Mode = "priority"
	// ModeSentinel uses the free text only when the sentinel preset is selected.
	ModeSentinel Mode = "sentinel"
)

// DefaultSentinel is the preset value meaning "enter manually".
const DefaultSentinel = "직접 입력"

// DefaultPresets is the preset list offered by the entry form.
var DefaultPresets = []string{"엔진오일", "오일필터", "타이어", "브레이크 패드", "구동계", "배터리", "전기장치", "주유"}

// ParseMode validates a configured mode string.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModePriority, ModeSentinel:
		return m, nil
	case "":
		return ModePriority, nil
	default:
		return "", faults.Newf("category.parse_mode", faults.ErrConfiguration, fmt.Sprintf("unknown category mode %q", s))
	}
}

// Resolver computes the effective category of a submission.
type Resolver struct {
	mode     Mode
	sentinel string
	presets  []string
}

// New creates a Resolver. Defaults: priority mode, DefaultSentinel, DefaultPresets.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		mode:     ModePriority,
		sentinel: DefaultSentinel,
		presets:  DefaultPresets,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Mode returns the active resolution mode.
func (r *Resolver) Mode() Mode { return r.mode }

// Sentinel returns the configured sentinel value.
func (r *Resolver) Sentinel() string { return r.sentinel }

// Presets returns the preset list as shown to the user. In sentinel mode the
// sentinel is appended when the configured list lacks it.
func (r *Resolver) Presets() []string {
	out := make([]string, 0, len(r.presets)+1)
	out = append(out, r.presets...)
	if r.mode == ModeSentinel && !r.isPreset(r.sentinel) {
		out = append(out, r.sentinel)
	}
	return out
}

// Default returns the fallback preset, or "" when no presets are configured.
func (r *Resolver) Default() string {
	for _, p := range r.presets {
		if p != r.sentinel {
			return p
		}
	}
	return ""
}

// Resolve returns the effective category for preset and manual.
// A non-empty preset must be one of Presets. The result is never empty; when
// it would be, a validation error is returned.
func (r *Resolver) Resolve(preset, manual string) (string, error) {
	const op = "category.resolve"
	preset = strings.TrimSpace(preset)
	manual = strings.TrimSpace(manual)

	if preset != "" && !r.offers(preset) {
		return "", faults.Newf(op, faults.ErrValidation, fmt.Sprintf("unknown preset %q", preset))
	}

	var c string
	switch r.mode {
	case ModeSentinel:
		if preset == r.sentinel {
			if manual == "" {
				return "", faults.Newf(op, faults.ErrValidation, "직접 입력을 선택했으면 항목을 입력해야 합니다")
			}
			return manual, nil
		}
		c = preset
	default:
		if manual != "" {
			return manual, nil
		}
		c = preset
	}

	if c == "" {
		c = r.Default()
	}
	if c == "" {
		return "", faults.Newf(op, faults.ErrValidation, "category is empty and no default preset is configured")
	}
	return c, nil
}

// offers reports whether v is selectable on the form.
func (r *Resolver) offers(v string) bool {
	return r.isPreset(v) || (r.mode == ModeSentinel && v == r.sentinel)
}

func (r *Resolver) isPreset(v string) bool {
	for _, p := range r.presets {
		if p == v {
			return true
		}
	}
	return false
}
