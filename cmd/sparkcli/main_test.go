package main

import (
	"bytes"
	"context"
	"slices"
	"strings"
	"testing"

	"github.com/go-kit/log"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/flowingfluidsfixes/sparkcli/pkg/clicontext"
	"github.com/flowingfluidsfixes/sparkcli/pkg/profile"
	"github.com/flowingfluidsfixes/sparkcli/pkg/scanner"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const testProfile = "test.sparkprofile"

func appendString(buf []byte, field uint64, s string) []byte {
	buf = scanner.AppendUvarint(buf, field<<3|2)
	buf = scanner.AppendUvarint(buf, uint64(len(s)))
	return append(buf, s...)
}

func fixtureProfile() []byte {
	var buf []byte
	for i := 0; i < 60; i++ {
		buf = appendString(buf, 1, "net.minecraft.world.ticks.ScheduledTick")
	}
	buf = appendString(buf, 2, "traben.flowing_fluids.FFFluidUtils")
	buf = appendString(buf, 2, "flowingfluidsfixes.FluidProcessingMixin tick")
	buf = appendString(buf, 3, "avg 45.5 ms")
	// a varint field, then a bad wire type the tagged decoder cannot pass
	buf = append(buf, 0x20, 0x96, 0x01, 0x0b)
	buf = appendString(buf, 4, "net.minecraft.server.level.ChunkMap")
	buf = appendString(buf, 5, "processed 25000000 operations")
	return buf
}

func setup(t *testing.T) (context.Context, *bytes.Buffer, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, testProfile, fixtureProfile(), 0o644))

	prev := cfg
	t.Cleanup(func() { cfg = prev })
	cfg.noColor = true
	cfg.rules = ""
	cfg.maxSize = 0

	var out bytes.Buffer
	ctx := clicontext.WithLogger(context.Background(), log.NewNopLogger())
	ctx = clicontext.WithFs(ctx, fs)
	ctx = withOutput(ctx, &out)
	return ctx, &out, fs
}

func newScanParams(strategy string, minLength int, files ...string) *scanParams {
	return &scanParams{
		profileParams:  &profileParams{files: files},
		strategy:       strategy,
		minLength:      minLength,
		maxFieldLength: scanner.DefaultMaxFieldLength,
		resync:         string(scanner.ResyncAbort),
	}
}

func TestStrings(t *testing.T) {
	ctx, out, _ := setup(t)
	require.NoError(t, runStrings(ctx, &stringsParams{
		scanParams: newScanParams("printable", 4, testProfile),
		limit:      5,
	}))
	s := out.String()
	require.Contains(t, s, "PROFILE STRINGS")
	require.Contains(t, s, "net.minecraft.world.ticks.ScheduledTick")
	require.Contains(t, s, "Profile-related strings")
	require.Contains(t, s, "more\n")
}

func TestDecode(t *testing.T) {
	ctx, out, _ := setup(t)
	require.NoError(t, runDecode(ctx, &decodeParams{
		scanParams: newScanParams("tagged", 4, testProfile),
		limit:      0,
	}))
	s := out.String()
	require.Contains(t, s, "DECODED PROFILE")
	require.Contains(t, s, "Tokens: 63 (4 unique)")
	require.Contains(t, s, "avg 45.5 ms")
	// stopped at the bad wire type
	require.NotContains(t, s, "ChunkMap")
}

func TestDecodeSkipByte(t *testing.T) {
	ctx, out, _ := setup(t)
	params := newScanParams("tagged", 4, testProfile)
	params.resync = string(scanner.ResyncSkipByte)
	require.NoError(t, runDecode(ctx, &decodeParams{scanParams: params}))
	s := out.String()
	require.Contains(t, s, "Tokens: 65 (6 unique)")
	require.Contains(t, s, "net.minecraft.server.level.ChunkMap")
}

func TestDecodeSkipMalformed(t *testing.T) {
	ctx, out, _ := setup(t)
	params := newScanParams("tagged", 4, testProfile)
	params.resync = string(scanner.ResyncSkipMalformed)
	require.NoError(t, runDecode(ctx, &decodeParams{scanParams: params}))
	// the unknown wire type still ends the pass
	require.Contains(t, out.String(), "Tokens: 63 (4 unique)")
}

func TestMethods(t *testing.T) {
	ctx, out, _ := setup(t)
	require.NoError(t, runMethods(ctx, &methodsParams{
		scanParams:      newScanParams("tagged", 4, testProfile),
		top:             5,
		minMethodLength: 10,
	}))
	s := out.String()
	require.Contains(t, s, "PROFILE METHODS")
	require.Contains(t, s, "60")
	require.Contains(t, s, "net.minecraft.world.ticks.ScheduledTick")
	require.Contains(t, s, "flowingfluidsfixes.FluidProcessingMixin")
}

func TestAnalyze(t *testing.T) {
	ctx, out, _ := setup(t)
	require.NoError(t, runAnalyze(ctx, &analyzeParams{
		scanParams:      newScanParams(strategyAll, 4, testProfile),
		top:             10,
		samples:         5,
		minMethodLength: 10,
	}))
	s := out.String()
	for _, want := range []string{
		"SPARK PROFILE ANALYSIS",
		"FLUID operations",
		"HIGH TICK ACTIVITY - MSPT likely > 50ms",
		"MOD ACTIVE - flowingfluidsfixes events detected",
		"── fluid [HIGH]",
		"traben.flowing_fluids (original)",
		"Mod impact:",
		"Maximum operations: 25,000,000",
		"[WARN] HIGH: 10M+ operations detected",
		"Sample strings",
	} {
		require.Contains(t, s, want)
	}
}

func TestMSPT(t *testing.T) {
	ctx, out, _ := setup(t)
	require.NoError(t, runMSPT(ctx, &msptParams{
		scanParams: newScanParams("printable", 3, testProfile),
		limit:      20,
	}))
	s := out.String()
	for _, want := range []string{
		"MSPT ANALYSIS",
		"45.50ms",
		"Estimated MSPT: > 50ms",
		"Excellent",
		"Mod MSPT handling (flowingfluidsfixes)",
		"MSPT patterns (1)",
		"Estimated MSPT range: 45.5ms - 45.5ms (1 samples)",
		"[ OK ] MODERATE: MSPT up to 45.5ms",
		"Maximum operations: 25,000,000",
	} {
		require.Contains(t, s, want)
	}
}

func TestRulesOverride(t *testing.T) {
	ctx, out, fs := setup(t)
	require.NoError(t, afero.WriteFile(fs, "rules.yaml", []byte("mod_name: traben\n"), 0o644))
	cfg.rules = "rules.yaml"

	require.NoError(t, runMethods(ctx, &methodsParams{
		scanParams:      newScanParams("tagged", 4, testProfile),
		top:             5,
		minMethodLength: 10,
	}))
	require.Contains(t, out.String(), "Mod methods (traben)")
	require.Contains(t, out.String(), "traben.flowing_fluids")
}

func TestInvalidRules(t *testing.T) {
	ctx, _, fs := setup(t)
	require.NoError(t, afero.WriteFile(fs, "rules.yaml", []byte("bogus: true\n"), 0o644))
	cfg.rules = "rules.yaml"

	err := runAnalyze(ctx, &analyzeParams{scanParams: newScanParams(strategyAll, 4, testProfile)})
	require.Error(t, err)
	require.Contains(t, err.Error(), "loading rules from rules.yaml")
}

func TestMissingProfile(t *testing.T) {
	ctx, out, _ := setup(t)
	err := runStrings(ctx, &stringsParams{
		scanParams: newScanParams("printable", 4, "missing.sparkprofile", testProfile),
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "reading profile missing.sparkprofile")
	// the readable profile is still reported
	require.Equal(t, 1, strings.Count(out.String(), "PROFILE STRINGS"))
}

func TestMaxSize(t *testing.T) {
	ctx, _, _ := setup(t)
	cfg.maxSize = 16
	err := runStrings(ctx, &stringsParams{scanParams: newScanParams("printable", 4, testProfile)})
	require.Error(t, err)
	require.Contains(t, err.Error(), "limit is 16")
}

func TestCombinedScanKeepsStrategyOrder(t *testing.T) {
	ctx, _, fs := setup(t)
	prof, err := profile.NewLoader(fs).Load(testProfile)
	require.NoError(t, err)

	tokens, err := scanProfile(ctx, prof, newScanParams(strategyAll, 4, testProfile))
	require.NoError(t, err)
	last := -1
	for _, tok := range tokens {
		i := slices.Index(scanner.Combined, tok.Strategy)
		require.GreaterOrEqual(t, i, last, "token %q", tok.Text)
		last = i
	}
	require.Equal(t, len(scanner.Combined)-1, last)
}

func TestCheckError(t *testing.T) {
	require.Equal(t, 0, checkError(nil))
}
