package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultRulesAreValid(t *testing.T) {
	require.NoError(t, DefaultRules().Validate())
}

func TestLoadRules(t *testing.T) {
	rules, err := LoadRules(strings.NewReader(`
mod_name: mymod
thresholds:
  high_tick_activity: 80
  moderate_tick_activity: 40
categories:
  - name: water
    keywords: [water, fluid]
recommendations:
  - category: water
    priority: LOW
    min_count: 1
    solution: drink it
`))
	require.NoError(t, err)
	require.Equal(t, "mymod", rules.ModName)
	require.Equal(t, 80, rules.Thresholds.HighTickActivity)
	require.Equal(t, 40, rules.Thresholds.ModerateTickActivity)
	// untouched fields keep their defaults
	require.Equal(t, 500, rules.Thresholds.HighChunkActivity)
	require.Equal(t, DefaultRules().Keywords, rules.Keywords)
	require.Equal(t, []Category{{Name: "water", Keywords: []string{"water", "fluid"}}}, rules.Categories)
}

func TestLoadRulesEmpty(t *testing.T) {
	rules, err := LoadRules(strings.NewReader(""))
	require.NoError(t, err)
	require.Equal(t, DefaultRules(), rules)
}

func TestLoadRulesRejectsUnknownFields(t *testing.T) {
	_, err := LoadRules(strings.NewReader("no_such_field: 1\n"))
	require.Error(t, err)
}

func TestLoadRulesValidation(t *testing.T) {
	_, err := LoadRules(strings.NewReader(`
thresholds:
  high_tick_activity: 10
  moderate_tick_activity: 20
categories:
  - name: a
    keywords: []
  - name: a
    keywords: [x]
recommendations:
  - category: b
    priority: URGENT
`))
	require.Error(t, err)
	msg := err.Error()
	require.Contains(t, msg, "exceeds high threshold")
	require.Contains(t, msg, `category "a" has no keywords`)
	require.Contains(t, msg, `duplicate category "a"`)
	require.Contains(t, msg, `unknown category "b"`)
	require.Contains(t, msg, `invalid priority "URGENT"`)
}

func TestThresholdNamesMatchYAMLKeys(t *testing.T) {
	var names []string
	for _, n := range DefaultRules().Thresholds.named() {
		names = append(names, n.name)
	}
	require.Equal(t, []string{"high_tick_activity", "moderate_tick_activity", "high_chunk_activity", "high_flowing_fluids"}, names)

	_, err := LoadRules(strings.NewReader("thresholds:\n  high_flowing_fluids: -1\n"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "threshold high_flowing_fluids must not be negative, got -1")
}
