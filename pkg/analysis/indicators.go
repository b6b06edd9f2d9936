package analysis

import "strings"

// Indicators are raw occurrence counts of strings that hint at where a
// server spends its tick time.
type Indicators struct {
	ScheduledTicks  int
	LevelChunkTicks int
	ModEvents       int
	FlowingFluids   int
	Lambdas         int
	MethodHandles   int
}

// ComputeIndicators counts, per indicator, the texts mentioning it. modName
// is matched case-insensitively.
func ComputeIndicators(texts []string, modName string) Indicators {
	var ind Indicators
	mod := strings.ToLower(modName)
	for _, s := range texts {
		lower := strings.ToLower(s)
		if strings.Contains(s, "ScheduledTick") {
			ind.ScheduledTicks++
		}
		if strings.Contains(s, "LevelChunkTicks") {
			ind.LevelChunkTicks++
		}
		if mod != "" && strings.Contains(lower, mod) {
			ind.ModEvents++
		}
		if strings.Contains(lower, "flowing_fluids") {
			ind.FlowingFluids++
		}
		if strings.Contains(s, "Lambda") {
			ind.Lambdas++
		}
		if strings.Contains(s, "MethodHandle") {
			ind.MethodHandles++
		}
	}
	return ind
}
