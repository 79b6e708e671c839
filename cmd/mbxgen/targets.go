package main

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// Arch describes one CPU-specific implementation tag of the library.
type Arch struct {
	Tag         string // symbol prefix: "k1" -> k1_mbx_x25519_mb8
	Name        string // "AVX-512 IFMA"
	Description string
}

// knownArchs lists the tags the crypto_mb build produces, best first.
var knownArchs = []Arch{
	{Tag: "k1", Name: "AVX-512 IFMA", Description: "Ice Lake and later: AVX-512F/BW/DQ/VL with IFMA52 and VBMI"},
	{Tag: "l9", Name: "AVX2", Description: "Haswell and later: AVX2 with BMI2 and ADX"},
}

// DefaultVariants are the single-target builds that get renamed headers:
// every known architecture.
var DefaultVariants = AvailableArchs()

var tagRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// AvailableArchs returns the tags of all known architectures, best first.
func AvailableArchs() []string {
	return lo.Map(knownArchs, func(a Arch, _ int) string { return a.Tag })
}

// GetArch returns the known architecture for tag.
func GetArch(tag string) (Arch, error) {
	for _, a := range knownArchs {
		if a.Tag == tag {
			return a, nil
		}
	}
	return Arch{}, fmt.Errorf("unknown architecture: %s (known: %s)", tag, strings.Join(AvailableArchs(), ", "))
}

// ParseCPUList parses a semicolon separated tag list such as "k1;l9".
// Order is kept; blanks are skipped. Tags must be C identifiers and may
// appear only once since each one names a dispatch table slot.
func ParseCPUList(s string) ([]string, error) {
	tags := lo.Compact(lo.Map(strings.Split(s, ";"), func(p string, _ int) string {
		return strings.TrimSpace(p)
	}))
	if len(tags) == 0 {
		return nil, fmt.Errorf("empty architecture list %q", s)
	}

	for i, tag := range tags {
		if !tagRe.MatchString(tag) {
			return nil, fmt.Errorf("invalid architecture tag %q: must be a C identifier", tag)
		}
		if slices.Contains(tags[:i], tag) {
			return nil, fmt.Errorf("duplicate architecture tag %q in %q", tag, s)
		}
	}
	return tags, nil
}
