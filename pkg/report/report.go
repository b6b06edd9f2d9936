// Package report renders analysis results for humans.
package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/xlab/treeprint"

	"github.com/flowingfluidsfixes/sparkcli/pkg/analysis"
	"github.com/flowingfluidsfixes/sparkcli/pkg/profile"
	"github.com/flowingfluidsfixes/sparkcli/pkg/scanner"
	"github.com/flowingfluidsfixes/sparkcli/pkg/util/cli"
)

const ruleWidth = 80

type Printer struct {
	w       io.Writer
	colored bool

	title *color.Color
	ok    *color.Color
	warn  *color.Color
	crit  *color.Color
}

func NewPrinter(w io.Writer, colored bool) *Printer {
	p := &Printer{
		w:       w,
		colored: colored,
		title:   color.New(color.Bold),
		ok:      color.New(color.FgGreen),
		warn:    color.New(color.FgYellow),
		crit:    color.New(color.FgRed, color.Bold),
	}
	if !colored {
		for _, c := range []*color.Color{p.title, p.ok, p.warn, p.crit} {
			c.DisableColor()
		}
	}
	return p
}

func (p *Printer) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.w, format, args...)
}

func (p *Printer) Banner(title string) {
	rule := strings.Repeat("=", ruleWidth)
	p.printf("%s", cli.GradientBanner(rule+"\n"+title+"\n"+rule, p.colored))
}

func (p *Printer) Section(title string) {
	p.printf("\n%s\n%s\n", p.title.Sprint(title), strings.Repeat("-", min(len(title), ruleWidth)))
}

func (p *Printer) Profile(prof *profile.Profile) {
	p.printf("Profile:     %s\n", prof.Path)
	p.printf("File size:   %s (%s bytes)\n", humanize.Bytes(uint64(prof.FileSize)), humanize.Comma(prof.FileSize))
	if prof.Compression != profile.CompressionNone {
		p.printf("Compression: %s, %s decompressed\n", prof.Compression, humanize.Bytes(uint64(len(prof.Data))))
	}
	p.printf("Checksum:    %016x\n", prof.Checksum)
	p.printf("Header:      %q\n", prof.Header(20))
}

// Strings prints a numbered list of at most limit texts.
func (p *Printer) Strings(title string, texts []string, limit int) {
	p.printf("\n%s (%d):\n", title, len(texts))
	for i, s := range texts {
		if limit > 0 && i >= limit {
			p.printf("  ... %d more\n", len(texts)-limit)
			break
		}
		p.printf("  %3d. %s\n", i+1, s)
	}
}

func (p *Printer) newTable(header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(p.w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	return table
}

func (p *Printer) Counts(title string, entries []analysis.Entry) {
	p.printf("\n%s:\n", title)
	if len(entries) == 0 {
		p.printf("  (none)\n")
		return
	}
	table := p.newTable("COUNT", "VALUE")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT})
	for _, e := range entries {
		table.Append([]string{strconv.Itoa(e.Count), e.Text})
	}
	table.Render()
}

func (p *Printer) Tokens(tokens []scanner.Token, limit int) {
	table := p.newTable("#", "OFFSET", "STRATEGY", "TEXT")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT})
	for i, t := range tokens {
		if limit > 0 && i >= limit {
			break
		}
		table.Append([]string{strconv.Itoa(i + 1), fmt.Sprintf("0x%x", t.Offset), string(t.Strategy), t.Text})
	}
	table.Render()
	if limit > 0 && len(tokens) > limit {
		p.printf("... %d more tokens\n", len(tokens)-limit)
	}
}

func (p *Printer) Categories(cats []analysis.CategoryCount, top int) {
	for _, c := range cats {
		p.Counts(fmt.Sprintf("%s operations (%d)", strings.ToUpper(c.Name), c.Total()), c.Counter.Top(top))
	}
}

func (p *Printer) Indicators(ind analysis.Indicators) {
	table := p.newTable("INDICATOR", "COUNT")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})
	for _, row := range []struct {
		name  string
		count int
	}{
		{"ScheduledTick", ind.ScheduledTicks},
		{"LevelChunkTicks", ind.LevelChunkTicks},
		{"Mod events", ind.ModEvents},
		{"Flowing Fluids", ind.FlowingFluids},
		{"Lambda", ind.Lambdas},
		{"MethodHandle", ind.MethodHandles},
	} {
		table.Append([]string{row.name, humanize.Comma(int64(row.count))})
	}
	table.Render()
}

func (p *Printer) Findings(findings []analysis.Finding) {
	for _, f := range findings {
		switch f.Severity {
		case analysis.SeverityCritical:
			p.printf("  %s %s\n", p.crit.Sprint("[CRIT]"), f.Message)
		case analysis.SeverityWarning:
			p.printf("  %s %s\n", p.warn.Sprint("[WARN]"), f.Message)
		default:
			p.printf("  %s %s\n", p.ok.Sprint("[ OK ]"), f.Message)
		}
	}
}

// Recommendations prints one branch per recommendation, with its target
// methods as leaves.
func (p *Printer) Recommendations(recs []analysis.Recommendation) {
	if len(recs) == 0 {
		p.printf("  No recommendations.\n")
		return
	}
	tree := treeprint.New()
	for _, r := range recs {
		prio := p.warn
		if r.Priority == analysis.PriorityHigh {
			prio = p.crit
		}
		b := tree.AddBranch(fmt.Sprintf("%s [%s]", r.Category, prio.Sprint(r.Priority)))
		b.AddNode("Issue: " + r.Issue)
		b.AddNode("Solution: " + r.Solution)
		if len(r.Targets) > 0 {
			targets := b.AddBranch("Target methods")
			for _, m := range r.Targets {
				targets.AddNode(m)
			}
		}
	}
	p.printf("%s", tree.String())
}

func (p *Printer) Histogram(buckets []analysis.Bucket) {
	table := p.newTable("RANGE", "COUNT")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})
	for _, b := range buckets {
		table.Append([]string{b.Label, humanize.Comma(int64(b.Count))})
	}
	table.Render()
}

func (p *Printer) MSPTCandidates(cands []analysis.MSPTCandidate, limit int) {
	p.printf("\nPotential MSPT values (%d):\n", len(cands))
	for i, c := range cands {
		if limit > 0 && i >= limit {
			break
		}
		p.printf("  %3d. %7.2fms %-9s - %s\n", i+1, c.Value, analysis.Rate(c.Value).Name, c.Source)
	}
}

// Operations lists the largest operation counts and grades the maximum.
func (p *Printer) Operations(largest []float64) {
	if len(largest) == 0 {
		p.printf("  No operation counts above 1,000 found.\n")
		return
	}
	table := p.newTable("#", "OPERATIONS")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT})
	for i, v := range largest {
		table.Append([]string{strconv.Itoa(i + 1), humanize.Commaf(math.Round(v))})
	}
	table.Render()
	p.printf("\nMaximum operations: %s\n", humanize.Commaf(math.Round(largest[0])))
	p.Findings([]analysis.Finding{analysis.OperationVerdict(largest[0])})
}

func (p *Printer) MSPTRange(r analysis.MSPTRange, ok bool) {
	if !ok {
		p.printf("  Unable to determine MSPT from profile data.\n")
		return
	}
	p.printf("Estimated MSPT range: %.1fms - %.1fms (%d samples)\n", r.Min, r.Max, r.Samples)
	p.printf("Average MSPT:         %.1fms (%s, %.1f TPS)\n", r.Avg, analysis.Rate(r.Avg).Name, analysis.TPS(r.Avg))
	p.Findings([]analysis.Finding{r.Finding()})
}

func (p *Printer) ModUsage(u analysis.ModUsage) {
	table := p.newTable("MOD", "MENTIONS")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})
	table.Append([]string{u.OriginalName + " (original)", humanize.Comma(int64(u.OriginalCalls))})
	table.Append([]string{u.ModName, humanize.Comma(int64(u.ModCalls))})
	table.Render()
	if ratio, ok := u.CallRatio(); ok {
		p.printf("Call ratio:   %.2f (%s / original)\n", ratio, u.ModName)
	}
	p.printf("Method calls: %s total, %s in %s\n", humanize.Comma(int64(u.MethodCalls)), humanize.Comma(int64(u.ModMethodCalls)), u.ModName)
	p.printf("Mod impact:   %.2f%%\n", u.ImpactRatio())
}

func (p *Printer) RatingScale() {
	table := p.newTable("RATING", "MSPT", "MIN TPS")
	lower := 0.0
	for _, r := range analysis.RatingScale {
		var mspt, tps string
		switch {
		case lower == 0:
			mspt = fmt.Sprintf("< %gms", r.MaxMSPT)
			tps = fmt.Sprintf("%g", analysis.TPS(r.MaxMSPT))
		case math.IsInf(r.MaxMSPT, 1):
			mspt = fmt.Sprintf("> %gms", lower)
			tps = fmt.Sprintf("< %g", analysis.TPS(lower))
		default:
			mspt = fmt.Sprintf("%g-%gms", lower, r.MaxMSPT)
			tps = fmt.Sprintf("%g", analysis.TPS(r.MaxMSPT))
		}
		table.Append([]string{r.Name, mspt, tps})
		lower = r.MaxMSPT
	}
	table.Render()
}
