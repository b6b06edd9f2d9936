package main

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/flowingfluidsfixes/sparkcli/pkg/profile"
	"github.com/flowingfluidsfixes/sparkcli/pkg/scanner"
)

type decodeParams struct {
	*scanParams
	limit int
}

func addDecodeParams(cmd *kingpin.CmdClause) *decodeParams {
	var (
		params = &decodeParams{}
	)
	params.scanParams = addScanParams(cmd, string(scanner.StrategyTagged), scanner.DefaultMinLength)
	cmd.Flag("limit", "Maximum number of tokens to print, 0 for all.").Default("100").IntVar(&params.limit)
	return params
}

func runDecode(ctx context.Context, params *decodeParams) error {
	p := printer(ctx)
	return forEachProfile(ctx, params.files, func(prof *profile.Profile) error {
		tokens, err := scanProfile(ctx, prof, params.scanParams)
		if err != nil {
			return err
		}
		unique := lo.UniqBy(tokens, func(t scanner.Token) string { return t.Text })

		p.Banner("DECODED PROFILE")
		p.Profile(prof)
		p.Section("Tokens")
		p.Tokens(tokens, params.limit)
		p.Section("Summary")
		out := output(ctx)
		fmt.Fprintf(out, "Tokens: %s (%s unique)\n", humanize.Comma(int64(len(tokens))), humanize.Comma(int64(len(unique))))
		for _, st := range lo.Uniq(lo.Map(tokens, func(t scanner.Token, _ int) scanner.Strategy { return t.Strategy })) {
			n := lo.CountBy(tokens, func(t scanner.Token) bool { return t.Strategy == st })
			fmt.Fprintf(out, "  %-12s %s\n", st, humanize.Comma(int64(n)))
		}
		return nil
	})
}
