package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alecthomas/units"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/common/version"
	"github.com/spf13/afero"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/flowingfluidsfixes/sparkcli/pkg/clicontext"
	"github.com/flowingfluidsfixes/sparkcli/pkg/report"
)

var cfg struct {
	verbose bool
	noColor bool
	rules   string
	maxSize units.Base2Bytes
}

var (
	consoleOutput = os.Stderr
	logger        = log.NewLogfmtLogger(consoleOutput)
)

func main() {
	app := kingpin.New(filepath.Base(os.Args[0]), "Diagnostics for binary spark profiler dumps.").UsageWriter(os.Stdout)
	app.Version(version.Print("sparkcli"))
	app.HelpFlag.Short('h')
	app.Flag("verbose", "Enable verbose logging.").Short('v').Default("false").BoolVar(&cfg.verbose)
	app.Flag("no-color", "Disable colored output.").Default("false").BoolVar(&cfg.noColor)
	app.Flag("rules", "YAML file overriding the built-in analysis rules.").Envar("SPARKCLI_RULES").StringVar(&cfg.rules)
	app.Flag("max-size", "Largest profile accepted, on disk and after decompression.").Default("1GiB").BytesVar(&cfg.maxSize)

	stringsCmd := app.Command("strings", "Print runs of printable ASCII found in a profile.")
	stringsParams := addStringsParams(stringsCmd)

	decodeCmd := app.Command("decode", "Decode a profile as tagged protobuf-style fields and list the extracted strings.")
	decodeParams := addDecodeParams(decodeCmd)

	methodsCmd := app.Command("methods", "Rank method references found in a profile by frequency.")
	methodsParams := addMethodsParams(methodsCmd)

	analyzeCmd := app.Command("analyze", "Categorise profile strings and report performance bottlenecks.")
	analyzeParams := addAnalyzeParams(analyzeCmd)

	msptCmd := app.Command("mspt", "Estimate tick duration (MSPT) from profile strings.")
	msptParams := addMSPTParams(msptCmd)

	// parse command line arguments
	parsedCmd := kingpin.MustParse(app.Parse(os.Args[1:]))

	// enable verbose logging if requested
	if !cfg.verbose {
		logger = level.NewFilter(logger, level.AllowInfo())
	}
	if fd := os.Stdout.Fd(); !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		cfg.noColor = true
	}

	ctx := clicontext.WithLogger(context.Background(), logger)
	ctx = clicontext.WithFs(ctx, afero.NewOsFs())
	ctx = withOutput(ctx, os.Stdout)

	switch parsedCmd {
	case stringsCmd.FullCommand():
		os.Exit(checkError(runStrings(ctx, stringsParams)))
	case decodeCmd.FullCommand():
		os.Exit(checkError(runDecode(ctx, decodeParams)))
	case methodsCmd.FullCommand():
		os.Exit(checkError(runMethods(ctx, methodsParams)))
	case analyzeCmd.FullCommand():
		os.Exit(checkError(runAnalyze(ctx, analyzeParams)))
	case msptCmd.FullCommand():
		os.Exit(checkError(runMSPT(ctx, msptParams)))
	default:
		level.Error(logger).Log("msg", "unknown command", "cmd", parsedCmd)
		os.Exit(1)
	}
}

func checkError(err error) int {
	if err == nil {
		return 0
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	return 1
}

type contextKey uint8

const (
	contextKeyOutput contextKey = iota
)

func withOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, contextKeyOutput, w)
}

func output(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(contextKeyOutput).(io.Writer); ok {
		return w
	}
	return os.Stdout
}

func printer(ctx context.Context) *report.Printer {
	return report.NewPrinter(output(ctx), !cfg.noColor)
}
