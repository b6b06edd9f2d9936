package main

import (
	"context"

	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/flowingfluidsfixes/sparkcli/pkg/analysis"
	"github.com/flowingfluidsfixes/sparkcli/pkg/profile"
	"github.com/flowingfluidsfixes/sparkcli/pkg/scanner"
)

type methodsParams struct {
	*scanParams
	top             int
	minMethodLength int
}

func addMethodsParams(cmd *kingpin.CmdClause) *methodsParams {
	var (
		params = &methodsParams{}
	)
	params.scanParams = addScanParams(cmd, strategyAll, scanner.DefaultMinLength)
	cmd.Flag("top", "Number of methods to list.").Default("30").IntVar(&params.top)
	cmd.Flag("min-method-length", "Ignore method references shorter than this.").Default("10").IntVar(&params.minMethodLength)
	return params
}

func runMethods(ctx context.Context, params *methodsParams) error {
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

		p.Banner("PROFILE METHODS")
		p.Profile(prof)
		p.Counts("Top methods by frequency", analysis.Methods(texts, params.minMethodLength).Top(params.top))
		p.Counts("Mod methods ("+rules.ModName+")", analysis.ModMethods(texts, rules.ModName).Top(params.top))
		return nil
	})
}
