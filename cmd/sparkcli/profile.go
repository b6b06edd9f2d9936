package main

import (
	"context"
	"strconv"

	"github.com/go-kit/log/level"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/flowingfluidsfixes/sparkcli/pkg/analysis"
	"github.com/flowingfluidsfixes/sparkcli/pkg/clicontext"
	"github.com/flowingfluidsfixes/sparkcli/pkg/profile"
	"github.com/flowingfluidsfixes/sparkcli/pkg/scanner"
)

const (
	defaultProfilePath = "./profile.sparkprofile"
	strategyAll        = "all"
)

type profileParams struct {
	files []string
}

func addProfileParams(cmd *kingpin.CmdClause) *profileParams {
	var (
		params = &profileParams{}
	)
	cmd.Arg("file", "Profile file(s) to inspect.").Envar("SPARKCLI_PROFILE").Default(defaultProfilePath).StringsVar(&params.files)
	return params
}

type scanParams struct {
	*profileParams
	strategy       string
	minLength      int
	maxFieldLength int
	resync         string
}

func addScanParams(cmd *kingpin.CmdClause, defaultStrategy string, defaultMinLength int) *scanParams {
	var (
		params = &scanParams{}
	)
	params.profileParams = addProfileParams(cmd)
	cmd.Flag("strategy", "String extraction strategy, or 'all' to combine every strategy but lines.").
		Default(defaultStrategy).EnumVar(&params.strategy, append(scanner.StrategyNames(), strategyAll)...)
	cmd.Flag("min-length", "Shortest string to extract.").Default(strconv.Itoa(defaultMinLength)).IntVar(&params.minLength)
	cmd.Flag("max-field-length", "Largest payload accepted by the length-prefixed sweeps.").Default(strconv.Itoa(scanner.DefaultMaxFieldLength)).IntVar(&params.maxFieldLength)
	cmd.Flag("resync", "What the tagged decoder does after a decode error.").
		Default(string(scanner.ResyncAbort)).EnumVar(&params.resync, lo.Map(scanner.ResyncPolicies, func(p scanner.ResyncPolicy, _ int) string { return string(p) })...)
	return params
}

func (p *scanParams) options() scanner.Options {
	return scanner.Options{
		MinLength:      p.minLength,
		MaxFieldLength: p.maxFieldLength,
		Resync:         scanner.ResyncPolicy(p.resync),
	}
}

func (p *scanParams) strategies() ([]scanner.Strategy, error) {
	if p.strategy == strategyAll {
		return scanner.Combined, nil
	}
	st, err := scanner.ParseStrategy(p.strategy)
	if err != nil {
		return nil, err
	}
	return []scanner.Strategy{st}, nil
}

// scanProfile extracts tokens from prof with the configured strategies.
// Strategies run concurrently over the shared buffer; tokens are returned
// in strategy order. Early stops of a tagged pass are logged.
func scanProfile(ctx context.Context, prof *profile.Profile, params *scanParams) ([]scanner.Token, error) {
	strategies, err := params.strategies()
	if err != nil {
		return nil, err
	}
	scanners := make([]*scanner.Scanner, len(strategies))
	for i, st := range strategies {
		if scanners[i], err = scanner.New(prof.Data, st, params.options()); err != nil {
			return nil, err
		}
	}
	results := make([][]scanner.Token, len(scanners))
	g, _ := errgroup.WithContext(ctx)
	for i, s := range scanners {
		g.Go(func() error {
			res, err := s.All()
			if err != nil {
				return errors.Wrapf(err, "scanning %s with %s", prof.Path, s.Strategy())
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger := clicontext.Logger(ctx)
	var tokens []scanner.Token
	for i, s := range scanners {
		level.Debug(logger).Log("msg", "scanned profile", "path", prof.Path, "strategy", s.Strategy(), "tokens", len(results[i]))
		if stop := s.Stopped(); stop != nil {
			level.Warn(logger).Log("msg", "tagged decode stopped early", "path", prof.Path, "offset", stop.Offset, "remaining", len(prof.Data)-stop.Offset, "err", stop.Err)
		}
		if n := s.Resynced(); n > 0 {
			level.Debug(logger).Log("msg", "tagged decode skipped malformed bytes", "path", prof.Path, "count", n)
		}
		tokens = append(tokens, results[i]...)
	}
	return tokens, nil
}

// scanLines splits prof into lossily decoded lines.
func scanLines(prof *profile.Profile, minLength int) ([]string, error) {
	opts := scanner.DefaultOptions()
	opts.MinLength = minLength
	s, err := scanner.New(prof.Data, scanner.StrategyLines, opts)
	if err != nil {
		return nil, err
	}
	tokens, err := s.All()
	if err != nil {
		return nil, errors.Wrapf(err, "splitting %s into lines", prof.Path)
	}
	return scanner.Texts(tokens), nil
}

// forEachProfile loads every file in turn and calls fn with it. A failing
// file does not stop the others; all errors are returned together.
func forEachProfile(ctx context.Context, files []string, fn func(*profile.Profile) error) error {
	loader := profile.NewLoader(clicontext.Fs(ctx))
	if cfg.maxSize > 0 {
		loader.WithMaxSize(int64(cfg.maxSize))
	}
	logger := clicontext.Logger(ctx)
	var result error
	for _, path := range files {
		prof, err := loader.Load(path)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		level.Debug(logger).Log("msg", "loaded profile", "path", path, "size", prof.FileSize, "compression", prof.Compression)
		if err := fn(prof); err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "analyzing %s", path))
		}
	}
	return result
}

func loadRules(ctx context.Context) (analysis.Rules, error) {
	if cfg.rules == "" {
		return analysis.DefaultRules(), nil
	}
	f, err := clicontext.Fs(ctx).Open(cfg.rules)
	if err != nil {
		return analysis.Rules{}, errors.Wrap(err, "opening rules")
	}
	defer f.Close()
	rules, err := analysis.LoadRules(f)
	if err != nil {
		return analysis.Rules{}, errors.Wrapf(err, "loading rules from %s", cfg.rules)
	}
	level.Debug(clicontext.Logger(ctx)).Log("msg", "loaded rules", "path", cfg.rules, "categories", len(rules.Categories))
	return rules, nil
}
