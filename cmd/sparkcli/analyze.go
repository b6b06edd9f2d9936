package main

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/flowingfluidsfixes/sparkcli/pkg/analysis"
	"github.com/flowingfluidsfixes/sparkcli/pkg/profile"
	"github.com/flowingfluidsfixes/sparkcli/pkg/scanner"
)

type analyzeParams struct {
	*scanParams
	top             int
	samples         int
	minMethodLength int
}

func addAnalyzeParams(cmd *kingpin.CmdClause) *analyzeParams {
	var (
		params = &analyzeParams{}
	)
	params.scanParams = addScanParams(cmd, strategyAll, scanner.DefaultMinLength)
	cmd.Flag("top", "Number of entries per frequency table.").Default("10").IntVar(&params.top)
	cmd.Flag("samples", "Number of sample strings to print, 0 to skip.").Default("20").IntVar(&params.samples)
	cmd.Flag("min-method-length", "Ignore method references shorter than this.").Default("10").IntVar(&params.minMethodLength)
	return params
}

func runAnalyze(ctx context.Context, params *analyzeParams) error {
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
		unique := lo.Uniq(texts)

		p.Banner("SPARK PROFILE ANALYSIS")
		p.Profile(prof)
		fmt.Fprintf(out, "Strings:     %s extracted, %s unique\n", humanize.Comma(int64(len(texts))), humanize.Comma(int64(len(unique))))

		p.Section("Bottlenecks by category")
		cats := analysis.Categorize(texts, rules.Categories)
		p.Categories(cats, params.top)

		p.Section("Keyword frequency")
		p.Counts("Keywords", analysis.Keywords(texts, rules.Keywords, true))
		p.Counts("Operations", analysis.Keywords(texts, rules.Operations, false))

		p.Section("Methods")
		p.Counts("Top methods by frequency", analysis.Methods(texts, params.minMethodLength).Top(params.top))
		p.Counts("Mod methods ("+rules.ModName+")", analysis.ModMethods(texts, rules.ModName).Top(params.top))

		p.Section("Indicators")
		ind := analysis.ComputeIndicators(texts, rules.ModName)
		p.Indicators(ind)

		p.Section("Performance assessment")
		p.Findings(analysis.Assess(ind, rules).Findings())

		p.Section("Optimization recommendations")
		p.Recommendations(analysis.Recommend(cats, rules.Recommendations))

		p.Section("Mod comparison")
		p.ModUsage(analysis.CompareMods(texts, rules))

		p.Section("Numbers by magnitude")
		p.Histogram(analysis.NumberHistogram(texts))

		p.Section("Largest operation counts")
		p.Operations(analysis.LargestNumbers(unique, params.top))

		if params.samples > 0 {
			p.Strings("Sample strings", unique, params.samples)
		}
		return nil
	})
}
