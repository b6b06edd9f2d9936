package analysis

import (
	"strings"
)

// ModUsage compares how often the original mod and its fixes appear.
type ModUsage struct {
	OriginalName string
	ModName      string
	// OriginalCalls and ModCalls count texts mentioning either mod. A text
	// naming both is counted for the original only.
	OriginalCalls int
	ModCalls      int
	// MethodCalls counts every method reference, ModMethodCalls those
	// inside the mod's package.
	MethodCalls    int
	ModMethodCalls int
}

func CompareMods(texts []string, rules Rules) ModUsage {
	u := ModUsage{OriginalName: rules.OriginalModName, ModName: rules.ModName}
	original := strings.ToLower(rules.OriginalModName)
	mod := strings.ToLower(rules.ModName)
	for _, s := range texts {
		lower := strings.ToLower(s)
		switch {
		case original != "" && strings.Contains(lower, original):
			u.OriginalCalls++
		case strings.Contains(lower, mod):
			u.ModCalls++
		}
		u.MethodCalls += len(MethodNames(s))
	}
	u.ModMethodCalls = ModMethods(texts, rules.ModName).Total()
	return u
}

// CallRatio is ModCalls per OriginalCalls. It is false when the original
// mod never appears.
func (u ModUsage) CallRatio() (float64, bool) {
	if u.OriginalCalls == 0 {
		return 0, false
	}
	return float64(u.ModCalls) / float64(u.OriginalCalls), true
}

// ImpactRatio is the percentage of method references that belong to the
// mod, 0 without any method reference.
func (u ModUsage) ImpactRatio() float64 {
	if u.MethodCalls == 0 {
		return 0
	}
	return float64(u.ModMethodCalls) / float64(u.MethodCalls) * 100
}
