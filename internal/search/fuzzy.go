package search

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/egoavara/plughub/internal/catalog"
)

// Result is a matched descriptor
type Result struct {
	Descriptor catalog.Descriptor
	Score      int // Higher is better
}

// descriptorSource adapts descriptors for fuzzy matching
type descriptorSource []catalog.Descriptor

// String returns the searchable string for a descriptor: its name followed by its variants
func (s descriptorSource) String(i int) string {
	d := s[i]
	parts := append([]string{d.Name}, d.VariantNames()...)
	return strings.ToLower(strings.Join(parts, " "))
}

func (s descriptorSource) Len() int {
	return len(s)
}

// FuzzySearch performs a fuzzy search across indexes. Results are ordered
// by score; equal scores keep index order.
func FuzzySearch(indexes []*catalog.Index, query string) []Result {
	var results []Result
	query = strings.ToLower(query)

	for _, index := range indexes {
		source := descriptorSource(index.Descriptors())
		if len(source) == 0 {
			continue
		}

		for _, match := range fuzzy.FindFrom(query, source) {
			results = append(results, Result{
				Descriptor: source[match.Index],
				Score:      match.Score,
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return results
}

// SimpleSearch performs a case-insensitive substring search over names and variants
func SimpleSearch(indexes []*catalog.Index, query string) []Result {
	var results []Result
	query = strings.ToLower(query)

	for _, index := range indexes {
		for _, d := range index.Descriptors() {
			if matchesQuery(d, query) {
				results = append(results, Result{Descriptor: d, Score: 100})
			}
		}
	}

	return results
}

func matchesQuery(d catalog.Descriptor, query string) bool {
	if strings.Contains(strings.ToLower(d.Name), query) {
		return true
	}
	for _, v := range d.VariantNames() {
		if strings.Contains(strings.ToLower(v), query) {
			return true
		}
	}
	return false
}

// Search tries FuzzySearch and falls back to SimpleSearch when nothing matched
func Search(indexes []*catalog.Index, query string) []Result {
	if results := FuzzySearch(indexes, query); len(results) > 0 {
		return results
	}
	return SimpleSearch(indexes, query)
}
