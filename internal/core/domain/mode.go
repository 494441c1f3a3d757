package domain

import (
	"regexp"
	"strings"
	"sync"
)

// ModeDepth controls how much technical detail an answer carries.
type ModeDepth string

const (
	// DepthLow keeps answers non-technical.
	DepthLow ModeDepth = "low"
	// DepthMedium balances prose and code.
	DepthMedium ModeDepth = "medium"
	// DepthHigh keeps full technical detail.
	DepthHigh ModeDepth = "high"
)

// IsValid returns true if the depth is a known value.
func (d ModeDepth) IsValid() bool {
	switch d {
	case DepthLow, DepthMedium, DepthHigh:
		return true
	}
	return false
}

// Built-in mode keys.
const (
	// ModeEndUser answers for non-technical readers: no test/internal
	// files, no code blocks.
	ModeEndUser = "enduser"
	// ModeDeveloper is the default profile: everything visible.
	ModeDeveloper = "developer"
	// ModeCopilot answers for coding assistants: code-first, no prose docs.
	ModeCopilot = "copilot"
)

// Mode is an audience profile that shapes result filtering and answer
// formatting.
type Mode struct {
	// Key is the registry identifier.
	Key string

	// Description is a short human-readable summary.
	Description string

	// ExcludePatterns are regular expressions (compiled
	// case-insensitively) that drop results whose document path matches.
	ExcludePatterns []string

	// PriorityTypes are tokens that move matching results ahead of the
	// rest: a result matches when its lowercased path contains the
	// token or its language equals it.
	PriorityTypes []string

	// Depth controls answer verbosity.
	Depth ModeDepth
}

var builtinModes = map[string]Mode{
	ModeEndUser: {
		Key:         ModeEndUser,
		Description: "Plain-language answers for product users",
		ExcludePatterns: []string{
			`test\.`, `\.spec\.`, `internal`, `debug`, `mock`, `stub`, `\.d\.ts$`,
		},
		PriorityTypes: []string{"documentation", "api", "interface", "public"},
		Depth:         DepthLow,
	},
	ModeDeveloper: {
		Key:             ModeDeveloper,
		Description:     "Full technical detail for engineers",
		ExcludePatterns: nil,
		PriorityTypes:   []string{"code", "test", "config", "architecture", "internal"},
		Depth:           DepthHigh,
	},
	ModeCopilot: {
		Key:         ModeCopilot,
		Description: "Code-first answers for coding assistants",
		ExcludePatterns: []string{
			`readme`, `changelog`, `license`, `\.md$`,
		},
		PriorityTypes: []string{"code", "test", "example", "snippet"},
		Depth:         DepthMedium,
	},
}

// ModeFromKey resolves a mode key to its registered Mode. Unknown or
// empty keys fall back to the developer mode; resolution never fails.
func ModeFromKey(key string) Mode {
	k := strings.ToLower(strings.TrimSpace(key))
	if m, ok := builtinModes[k]; ok {
		return m
	}
	return builtinModes[ModeDeveloper]
}

// ModeKeys lists the registered mode keys in display order.
func ModeKeys() []string {
	return []string{ModeEndUser, ModeDeveloper, ModeCopilot}
}

// patternCache holds compiled exclude patterns. Mode values are static
// policy, so the cache only ever grows by a handful of entries.
var patternCache sync.Map // pattern string -> *regexp.Regexp

func compiledPattern(pattern string) *regexp.Regexp {
	if v, ok := patternCache.Load(pattern); ok {
		re, _ := v.(*regexp.Regexp)
		return re
	}
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		// Malformed patterns never match rather than failing the query.
		patternCache.Store(pattern, (*regexp.Regexp)(nil))
		return nil
	}
	patternCache.Store(pattern, re)
	return re
}

// Excludes reports whether a document path is dropped by this mode.
func (m Mode) Excludes(path string) bool {
	for _, p := range m.ExcludePatterns {
		if re := compiledPattern(p); re != nil && re.MatchString(path) {
			return true
		}
	}
	return false
}

// Prioritizes reports whether a result with the given path and language
// belongs to the mode's priority group.
func (m Mode) Prioritizes(path, language string) bool {
	lower := strings.ToLower(path)
	for _, t := range m.PriorityTypes {
		if strings.Contains(lower, t) || strings.EqualFold(language, t) {
			return true
		}
	}
	return false
}
