package build

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// PlanPolicy decides whether an instruction should be decomposed into phases
// before building. Returning false runs a flat single-phase build. The policy
// is a heuristic, not load-bearing correctness logic, so it is pluggable.
type PlanPolicy func(instruction string) bool

const shortInstructionMaxLen = 80

// modificationRegexp matches instructions that tweak an existing app rather
// than build new functionality.
var modificationRegexp = regexp.MustCompile(`(?i)\b(change|update|fix|move|resize|color|font|text|remove|delete|add)\b`)

// complexKeywords mark instructions that describe a full application even when
// the prompt is short.
var complexKeywords = []string{
	"full app", "platform", "clone", "dashboard", "system", "database",
	"auth", "social", "commerce", "store", "complex",
}

// DefaultPlanPolicy skips planning for modification-style instructions and for
// short instructions that don't mention a complex project; everything else
// gets a phase plan.
func DefaultPlanPolicy(instruction string) bool {
	if modificationRegexp.MatchString(instruction) {
		return false
	}

	if utf8.RuneCountInString(instruction) < shortInstructionMaxLen && !mentionsComplexProject(instruction) {
		return false
	}

	return true
}

func mentionsComplexProject(instruction string) bool {
	lower := strings.ToLower(instruction)
	for _, kw := range complexKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
