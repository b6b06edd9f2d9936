package analysis

import (
	"fmt"
	"math"
)

type Level int

const (
	LevelNormal Level = iota
	LevelModerate
	LevelHigh
)

func (l Level) String() string {
	switch l {
	case LevelNormal:
		return "NORMAL"
	case LevelModerate:
		return "MODERATE"
	case LevelHigh:
		return "HIGH"
	}
	return fmt.Sprintf("level(%d)", int(l))
}

type Severity int

const (
	SeverityOK Severity = iota
	SeverityWarning
	SeverityCritical
)

type Finding struct {
	Severity Severity
	Message  string
}

type Verdict struct {
	TickActivity  Level
	ChunkActivity Level
	FluidActivity Level
	ModActive     bool
	ModName       string
}

func Assess(ind Indicators, rules Rules) Verdict {
	th := rules.Thresholds
	v := Verdict{ModActive: ind.ModEvents > 0, ModName: rules.ModName}
	switch {
	case ind.ScheduledTicks > th.HighTickActivity:
		v.TickActivity = LevelHigh
	case ind.ScheduledTicks > th.ModerateTickActivity:
		v.TickActivity = LevelModerate
	}
	if ind.LevelChunkTicks > th.HighChunkActivity {
		v.ChunkActivity = LevelHigh
	}
	if ind.FlowingFluids > th.HighFlowingFluids {
		v.FluidActivity = LevelHigh
	}
	return v
}

// EstimatedMSPT is the tick duration range implied by the tick activity.
func (v Verdict) EstimatedMSPT() string {
	switch v.TickActivity {
	case LevelHigh:
		return "> 50ms"
	case LevelModerate:
		return "20-50ms"
	}
	return "< 20ms"
}

func (v Verdict) Findings() []Finding {
	var res []Finding
	tick := Finding{Message: fmt.Sprintf("%s TICK ACTIVITY - MSPT likely %s", v.TickActivity, v.EstimatedMSPT())}
	if v.TickActivity != LevelNormal {
		tick.Severity = SeverityWarning
	}
	res = append(res, tick)

	if v.ChunkActivity == LevelHigh {
		res = append(res, Finding{Severity: SeverityWarning, Message: "HIGH CHUNK ACTIVITY - significant chunk processing detected"})
	} else {
		res = append(res, Finding{Message: "NORMAL CHUNK ACTIVITY"})
	}

	if v.FluidActivity == LevelHigh {
		res = append(res, Finding{Severity: SeverityWarning, Message: "HIGH FLOWING FLUIDS ACTIVITY - contributing to MSPT"})
	} else {
		res = append(res, Finding{Message: "NORMAL FLOWING FLUIDS ACTIVITY"})
	}

	if v.ModActive {
		res = append(res, Finding{Message: fmt.Sprintf("MOD ACTIVE - %s events detected", v.ModName)})
	} else {
		res = append(res, Finding{Severity: SeverityCritical, Message: fmt.Sprintf("MOD INACTIVE - no %s events detected", v.ModName)})
	}
	return res
}

type Rating struct {
	Name string
	// MaxMSPT is the exclusive upper bound of the rating; the last rating
	// is unbounded.
	MaxMSPT float64
}

// RatingScale lists MSPT ratings from best to worst.
var RatingScale = []Rating{
	{Name: "Excellent", MaxMSPT: 20},
	{Name: "Good", MaxMSPT: 30},
	{Name: "Fair", MaxMSPT: 50},
	{Name: "Poor", MaxMSPT: 100},
	{Name: "Critical", MaxMSPT: math.Inf(1)},
}

// Rate classifies a tick duration in milliseconds.
func Rate(mspt float64) Rating {
	for _, r := range RatingScale {
		if mspt < r.MaxMSPT {
			return r
		}
	}
	return RatingScale[len(RatingScale)-1]
}

// TPS is the achievable ticks per second at the given tick duration,
// capped at the nominal 20.
func TPS(mspt float64) float64 {
	if mspt <= 50 {
		return 20
	}
	return 1000 / mspt
}

type Recommendation struct {
	Category string
	Priority Priority
	Issue    string
	Solution string
	Targets  []string
}

const recommendationTargets = 5

func Recommend(cats []CategoryCount, rules []RecommendationRule) []Recommendation {
	var res []Recommendation
	for _, rule := range rules {
		c, ok := Lookup(cats, rule.Category)
		if !ok {
			continue
		}
		total := c.Total()
		if total <= rule.MinCount {
			continue
		}
		rec := Recommendation{
			Category: rule.Category,
			Priority: rule.Priority,
			Issue:    fmt.Sprintf("Found %d %s operations", total, rule.Category),
			Solution: rule.Solution,
		}
		for _, e := range c.Counter.Top(recommendationTargets) {
			rec.Targets = append(rec.Targets, e.Text)
		}
		res = append(res, rec)
	}
	return res
}
