package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/flowingfluidsfixes/sparkcli/pkg/analysis"
	"github.com/flowingfluidsfixes/sparkcli/pkg/profile"
	"github.com/flowingfluidsfixes/sparkcli/pkg/scanner"
)

var (
	tickKeywords        = []string{"tick", "server", "tps"}
	performanceKeywords = []string{"performance", "time", "average", "worst", "best"}
	methodTimeKeywords  = []string{"method", "self", "total"}
	modTimingKeywords   = []string{"mspt", "tick", "time"}
	jvmKeywords         = []string{"Xmx", "Xms", "java", "minecraft"}
)

const minJVMStringLength = 10

type msptParams struct {
	*scanParams
	limit int
}

func addMSPTParams(cmd *kingpin.CmdClause) *msptParams {
	var (
		params = &msptParams{}
	)
	params.scanParams = addScanParams(cmd, string(scanner.StrategyPrintable), 3)
	cmd.Flag("limit", "Maximum number of strings per section, 0 for all.").Default("20").IntVar(&params.limit)
	return params
}

func runMSPT(ctx context.Context, params *msptParams) error {
	rules, err := loadRules(ctx)
	if err != nil {
		return err
	}
	p := printer(ctx)
	out := output(ctx)
	return forEachProfile(ctx, params.files, func(prof *profile.Profile) error {
		tokens, err := scanProfile(ctx, prof, params.scanParams)
		if err != nil {
			return err
		}
		texts := scanner.Texts(tokens)

		p.Banner("MSPT ANALYSIS")
		p.Profile(prof)

		p.Strings("MSPT-related strings", analysis.Filter(texts, rules.MSPTKeywords, true), params.limit)
		p.Strings("Numeric timing patterns", analysis.TimingStrings(texts), params.limit)
		p.Strings("Server tick information", analysis.Filter(texts, tickKeywords, true), params.limit)
		p.Strings("Performance metrics", analysis.Filter(texts, performanceKeywords, true), params.limit)
		p.Strings("Method timing information", analysis.Filter(texts, methodTimeKeywords, true), params.limit)
		p.MSPTCandidates(analysis.PotentialMSPT(texts), params.limit)

		modName := strings.ToLower(rules.ModName)
		modTiming := lo.Filter(analysis.Filter(texts, modTimingKeywords, false), func(s string, _ int) bool {
			return strings.Contains(strings.ToLower(s), modName)
		})
		p.Strings("Mod MSPT handling ("+rules.ModName+")", modTiming, params.limit)

		jvm := lo.Filter(analysis.Filter(texts, jvmKeywords, true), func(s string, _ int) bool {
			return len(s) > minJVMStringLength
		})
		p.Strings("JVM/system strings", jvm, params.limit)

		p.Section("Tick processing indicators")
		ind := analysis.ComputeIndicators(texts, rules.ModName)
		p.Indicators(ind)

		p.Section("MSPT estimation")
		verdict := analysis.Assess(ind, rules)
		p.Findings(verdict.Findings())
		fmt.Fprintf(out, "\nEstimated MSPT: %s\n", verdict.EstimatedMSPT())

		lines, err := scanLines(prof, params.minLength)
		if err != nil {
			return err
		}
		patterns := analysis.MSPTPatterns(lines)
		p.Strings("MSPT patterns", patterns, params.limit)
		p.Section("MSPT from patterns")
		p.MSPTRange(analysis.EstimateMSPT(patterns))

		p.Section("Operation counts")
		p.Operations(analysis.LargestNumbers(lo.Uniq(texts), params.limit))

		p.Section("MSPT rating scale")
		p.RatingScale()
		return nil
	})
}
