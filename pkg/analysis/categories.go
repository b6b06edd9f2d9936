package analysis

import (
	"strings"

	"github.com/samber/lo"
)

type Category struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

func (c Category) matches(lower string) bool {
	return lo.SomeBy(c.Keywords, func(k string) bool {
		return strings.Contains(lower, strings.ToLower(k))
	})
}

// CategoryCount holds the strings that fell into one category.
type CategoryCount struct {
	Name    string
	Counter Counter
}

func (c CategoryCount) Total() int { return c.Counter.Total() }

// Categorize assigns every text to the first category with a matching
// keyword. Keywords are case-insensitive substrings. Texts matching no
// category are dropped. The result follows the order of categories.
func Categorize(texts []string, categories []Category) []CategoryCount {
	res := make([]CategoryCount, len(categories))
	for i, c := range categories {
		res[i] = CategoryCount{Name: c.Name, Counter: make(Counter)}
	}
	for _, s := range texts {
		lower := strings.ToLower(s)
		for i, c := range categories {
			if c.matches(lower) {
				res[i].Counter.Add(s)
				break
			}
		}
	}
	return res
}

// Lookup returns the category with the given name.
func Lookup(cats []CategoryCount, name string) (CategoryCount, bool) {
	return lo.Find(cats, func(c CategoryCount) bool { return c.Name == name })
}

// Keywords counts, per keyword, the texts containing it. Matching is case
// sensitive unless fold is set. Keywords with no hits are omitted.
func Keywords(texts []string, keywords []string, fold bool) []Entry {
	res := make([]Entry, 0, len(keywords))
	for _, k := range lo.Uniq(keywords) {
		needle := k
		if fold {
			needle = strings.ToLower(k)
		}
		n := lo.CountBy(texts, func(s string) bool {
			if fold {
				s = strings.ToLower(s)
			}
			return strings.Contains(s, needle)
		})
		if n > 0 {
			res = append(res, Entry{Text: k, Count: n})
		}
	}
	sortEntries(res)
	return res
}

// Filter returns the texts containing any of the keywords.
func Filter(texts []string, keywords []string, fold bool) []string {
	return lo.Filter(texts, func(s string, _ int) bool {
		if fold {
			s = strings.ToLower(s)
		}
		return lo.SomeBy(keywords, func(k string) bool {
			if fold {
				k = strings.ToLower(k)
			}
			return strings.Contains(s, k)
		})
	})
}
