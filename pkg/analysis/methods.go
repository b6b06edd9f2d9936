package analysis

import (
	"github.com/grafana/regexp"
)

// methodRe matches dotted Java-style references such as
// net.minecraft.world.level.Level or FlowingFluid$lambda.
var methodRe = regexp.MustCompile(`[a-zA-Z_$][a-zA-Z0-9_$]*(?:\.[a-zA-Z_$][a-zA-Z0-9_$]*)+`)

// MethodNames returns every method-name token found in s.
func MethodNames(s string) []string {
	return methodRe.FindAllString(s, -1)
}

// Methods counts method-name tokens across all texts, ignoring those
// shorter than minLength.
func Methods(texts []string, minLength int) Counter {
	c := make(Counter)
	for _, s := range texts {
		for _, m := range MethodNames(s) {
			if len(m) >= minLength {
				c[m]++
			}
		}
	}
	return c
}

// ModMethods counts references to members of the given package prefix,
// e.g. "flowingfluidsfixes." followed by an identifier.
func ModMethods(texts []string, pkg string) Counter {
	re := regexp.MustCompile(regexp.QuoteMeta(pkg) + `\.[A-Za-z_][A-Za-z0-9_]*`)
	c := make(Counter)
	for _, s := range texts {
		for _, m := range re.FindAllString(s, -1) {
			c[m]++
		}
	}
	return c
}
