package main

import (
	"context"

	"github.com/samber/lo"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/flowingfluidsfixes/sparkcli/pkg/analysis"
	"github.com/flowingfluidsfixes/sparkcli/pkg/profile"
	"github.com/flowingfluidsfixes/sparkcli/pkg/scanner"
)

type stringsParams struct {
	*scanParams
	limit int
}

func addStringsParams(cmd *kingpin.CmdClause) *stringsParams {
	var (
		params = &stringsParams{}
	)
	params.scanParams = addScanParams(cmd, string(scanner.StrategyPrintable), scanner.DefaultMinLength)
	cmd.Flag("limit", "Maximum number of strings to print, 0 for all.").Default("50").IntVar(&params.limit)
	return params
}

func runStrings(ctx context.Context, params *stringsParams) error {
	rules, err := loadRules(ctx)
	if err != nil {
		return err
	}
	p := printer(ctx)
	return forEachProfile(ctx, params.files, func(prof *profile.Profile) error {
		tokens, err := scanProfile(ctx, prof, params.scanParams)
		if err != nil {
			return err
		}
		texts := scanner.Texts(tokens)

		p.Banner("PROFILE STRINGS")
		p.Profile(prof)
		p.Strings("Readable strings", texts, params.limit)
		p.Strings("Profile-related strings", lo.Uniq(analysis.Filter(texts, rules.Keywords, true)), params.limit)
		return nil
	})
}
