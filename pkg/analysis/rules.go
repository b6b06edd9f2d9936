package analysis

import (
	"io"
	"reflect"

	"github.com/hashicorp/go-multierror"
	"github.com/iancoleman/strcase"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

type Thresholds struct {
	HighTickActivity     int `yaml:"high_tick_activity"`
	ModerateTickActivity int `yaml:"moderate_tick_activity"`
	HighChunkActivity    int `yaml:"high_chunk_activity"`
	HighFlowingFluids    int `yaml:"high_flowing_fluids"`
}

type namedThreshold struct {
	name  string
	value int
}

// named lists every threshold under its YAML key, in field order.
func (t Thresholds) named() []namedThreshold {
	v := reflect.ValueOf(t)
	res := make([]namedThreshold, v.NumField())
	for i := range res {
		res[i] = namedThreshold{name: strcase.ToSnake(v.Type().Field(i).Name), value: int(v.Field(i).Int())}
	}
	return res
}

// RecommendationRule fires when a category holds more than MinCount
// strings.
type RecommendationRule struct {
	Category string   `yaml:"category"`
	Priority Priority `yaml:"priority"`
	MinCount int      `yaml:"min_count"`
	Solution string   `yaml:"solution"`
}

// Rules drive every heuristic of the analysis. The zero value is not
// useful; start from DefaultRules.
type Rules struct {
	ModName         string               `yaml:"mod_name"`
	OriginalModName string               `yaml:"original_mod_name"`
	Categories      []Category           `yaml:"categories"`
	Keywords        []string             `yaml:"keywords"`
	MSPTKeywords    []string             `yaml:"mspt_keywords"`
	Operations      []string             `yaml:"operations"`
	Thresholds      Thresholds           `yaml:"thresholds"`
	Recommendations []RecommendationRule `yaml:"recommendations"`
}

func DefaultRules() Rules {
	return Rules{
		ModName:         "flowingfluidsfixes",
		OriginalModName: "traben.flowing_fluids",
		Categories: []Category{
			{Name: "fluid", Keywords: []string{"flowingfluid", "fluid", "traben", "fffluid"}},
			{Name: "block", Keywords: []string{"block", "blockstate", "blockpos"}},
			{Name: "entity", Keywords: []string{"entity", "livingentity", "monster"}},
			{Name: "chunk", Keywords: []string{"chunk", "chunkmap", "chunkstatus"}},
			{Name: "neighbor", Keywords: []string{"neighbor", "redstone", "collectingneighbor"}},
			{Name: "lighting", Keywords: []string{"light", "threadedlevelightengine"}},
		},
		Keywords: []string{
			"mspt", "tick", "method", "time", "duration", "average", "worst", "tps", "self",
			"flowing_fluids", "fluid", "block", "entity", "chunk",
		},
		MSPTKeywords: []string{"mspt", "millisecond", "tick", "duration"},
		Operations: []string{
			"ConcurrentHashMap", "put", "get", "compute", "removeIf",
			"BlockPos", "Level", "Chunk", "neighbor", "update",
			"tick", "process", "handle", "event",
		},
		Thresholds: Thresholds{
			HighTickActivity:     50,
			ModerateTickActivity: 30,
			HighChunkActivity:    500,
			HighFlowingFluids:    100,
		},
		Recommendations: []RecommendationRule{
			{Category: "fluid", Priority: PriorityHigh, MinCount: 0, Solution: "Implement fluid tick throttling and location-based optimization"},
			{Category: "block", Priority: PriorityHigh, MinCount: 50, Solution: "Implement block update batching and spatial partitioning"},
			{Category: "neighbor", Priority: PriorityMedium, MinCount: 20, Solution: "Implement neighbor update throttling and redstone optimization"},
			{Category: "entity", Priority: PriorityMedium, MinCount: 30, Solution: "Implement entity processing throttling and distance-based culling"},
		},
	}
}

// LoadRules reads YAML overrides on top of DefaultRules. Fields absent
// from the document keep their defaults; unknown fields are rejected.
func LoadRules(r io.Reader) (Rules, error) {
	rules := DefaultRules()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&rules); err != nil && !errors.Is(err, io.EOF) {
		return Rules{}, errors.Wrap(err, "decoding rules")
	}
	if err := rules.Validate(); err != nil {
		return Rules{}, err
	}
	return rules, nil
}

func (r Rules) Validate() error {
	var result error
	if r.ModName == "" {
		result = multierror.Append(result, errors.New("mod name must not be empty"))
	}
	th := r.Thresholds
	for _, n := range th.named() {
		if n.value < 0 {
			result = multierror.Append(result, errors.Errorf("threshold %s must not be negative, got %d", n.name, n.value))
		}
	}
	if th.ModerateTickActivity > th.HighTickActivity {
		result = multierror.Append(result, errors.Errorf(
			"moderate tick activity threshold (%d) exceeds high threshold (%d)",
			th.ModerateTickActivity, th.HighTickActivity))
	}
	names := make(map[string]struct{}, len(r.Categories))
	for i, c := range r.Categories {
		if c.Name == "" {
			result = multierror.Append(result, errors.Errorf("category %d has no name", i))
			continue
		}
		if _, ok := names[c.Name]; ok {
			result = multierror.Append(result, errors.Errorf("duplicate category %q", c.Name))
		}
		names[c.Name] = struct{}{}
		if len(c.Keywords) == 0 {
			result = multierror.Append(result, errors.Errorf("category %q has no keywords", c.Name))
		}
	}
	for _, rec := range r.Recommendations {
		if _, ok := names[rec.Category]; !ok {
			result = multierror.Append(result, errors.Errorf("recommendation refers to unknown category %q", rec.Category))
		}
		switch rec.Priority {
		case PriorityHigh, PriorityMedium, PriorityLow:
		default:
			result = multierror.Append(result, errors.Errorf("recommendation for %q has invalid priority %q", rec.Category, rec.Priority))
		}
	}
	return result
}
