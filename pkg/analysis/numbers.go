package analysis

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/grafana/regexp"
	"github.com/samber/lo"
)

var (
	timingRe = regexp.MustCompile(`(?i)\d+\.?\d*\s*(ms|millisecond|tick|second)`)
	numberRe = regexp.MustCompile(`\b\d+\.?\d*\b`)
	anyNumRe = regexp.MustCompile(`\d+\.?\d*`)
)

// TimingStrings returns the texts that contain a number followed by a
// time unit.
func TimingStrings(texts []string) []string {
	return lo.Filter(texts, func(s string, _ int) bool {
		return timingRe.MatchString(s)
	})
}

type MSPTCandidate struct {
	Value  float64
	Source string
}

const (
	minMSPTCandidate = 0.1
	maxMSPTCandidate = 1000
)

// PotentialMSPT returns every standalone number in the texts that could be
// a tick duration in milliseconds, in ascending order.
func PotentialMSPT(texts []string) []MSPTCandidate {
	var res []MSPTCandidate
	for _, s := range texts {
		for _, m := range numberRe.FindAllString(s, -1) {
			v, err := strconv.ParseFloat(m, 64)
			if err != nil {
				continue
			}
			if v >= minMSPTCandidate && v <= maxMSPTCandidate {
				res = append(res, MSPTCandidate{Value: v, Source: s})
			}
		}
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].Value < res[j].Value })
	return res
}

type Bucket struct {
	Label string
	Count int
}

// NumberHistogram buckets every number appearing in the texts by order of
// magnitude.
func NumberHistogram(texts []string) []Bucket {
	buckets := []Bucket{
		{Label: "< 1"},
		{Label: "1-99"},
		{Label: "100-9999"},
		{Label: "10k-999k"},
		{Label: ">= 1M"},
	}
	for _, s := range texts {
		parseNumbers(s, func(v float64) {
			switch {
			case v < 1:
				buckets[0].Count++
			case v < 100:
				buckets[1].Count++
			case v < 10000:
				buckets[2].Count++
			case v < 1000000:
				buckets[3].Count++
			default:
				buckets[4].Count++
			}
		})
	}
	return buckets
}

func parseNumbers(s string, fn func(float64)) {
	for _, m := range anyNumRe.FindAllString(s, -1) {
		if v, err := strconv.ParseFloat(m, 64); err == nil {
			fn(v)
		}
	}
}

// minOperationCount is the smallest number treated as an operation count.
const minOperationCount = 1000

// LargestNumbers returns up to n numbers above 1000 found in the texts,
// largest first. A non-positive n returns all of them.
func LargestNumbers(texts []string, n int) []float64 {
	var res []float64
	for _, s := range texts {
		parseNumbers(s, func(v float64) {
			if v > minOperationCount {
				res = append(res, v)
			}
		})
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(res)))
	if n > 0 && len(res) > n {
		res = res[:n]
	}
	return res
}

type OperationTier struct {
	// Above is the exclusive lower bound of the tier.
	Above    float64
	Severity Severity
	Label    string
}

// OperationTiers grade the largest operation count, worst first.
var OperationTiers = []OperationTier{
	{Above: 1e9, Severity: SeverityCritical, Label: "CRITICAL: billion+ operations detected"},
	{Above: 1e8, Severity: SeverityCritical, Label: "SEVERE: 100M+ operations detected"},
	{Above: 1e7, Severity: SeverityWarning, Label: "HIGH: 10M+ operations detected"},
}

// OperationVerdict grades the largest operation count seen in a profile.
func OperationVerdict(maxOps float64) Finding {
	for _, tier := range OperationTiers {
		if maxOps > tier.Above {
			return Finding{Severity: tier.Severity, Message: tier.Label}
		}
	}
	return Finding{Message: "MODERATE: under 10M operations"}
}

var msptPatternKeywords = []string{"mspt", "tick"}

// MSPTPatterns returns the texts that mention ticks or MSPT and carry at
// least one digit.
func MSPTPatterns(texts []string) []string {
	return lo.Filter(texts, func(s string, _ int) bool {
		lower := strings.ToLower(s)
		return strings.ContainsAny(s, "0123456789") && lo.SomeBy(msptPatternKeywords, func(kw string) bool {
			return strings.Contains(lower, kw)
		})
	})
}

type MSPTRange struct {
	Min, Max, Avg float64
	Samples       int
}

// EstimateMSPT collects every number in (0, 1000) from the given MSPT
// patterns. It reports false when there are none.
func EstimateMSPT(patterns []string) (MSPTRange, bool) {
	var (
		r   MSPTRange
		sum float64
	)
	for _, s := range patterns {
		parseNumbers(s, func(v float64) {
			if v <= 0 || v >= maxMSPTCandidate {
				return
			}
			if r.Samples == 0 || v < r.Min {
				r.Min = v
			}
			if v > r.Max {
				r.Max = v
			}
			sum += v
			r.Samples++
		})
	}
	if r.Samples == 0 {
		return MSPTRange{}, false
	}
	r.Avg = sum / float64(r.Samples)
	return r, true
}

// Finding grades the worst tick duration of the range.
func (r MSPTRange) Finding() Finding {
	switch {
	case r.Max > 100:
		return Finding{Severity: SeverityCritical, Message: fmt.Sprintf("CRITICAL: MSPT reaching %.1fms, above 100ms", r.Max)}
	case r.Max > 50:
		return Finding{Severity: SeverityWarning, Message: fmt.Sprintf("WARNING: MSPT reaching %.1fms, above 50ms", r.Max)}
	case r.Max > 20:
		return Finding{Message: fmt.Sprintf("MODERATE: MSPT up to %.1fms, under 50ms but above 20ms", r.Max)}
	}
	return Finding{Message: fmt.Sprintf("GOOD: MSPT up to %.1fms, under 20ms", r.Max)}
}
