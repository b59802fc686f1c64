// Package scorer ranks candidates against a query with fuzzy subsequence
// matching.
package scorer

import (
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"
)

// DefaultThreshold is the minimum score a candidate needs to be listed. Every
// subsequence match scores at least 1, so the default lists any match.
const DefaultThreshold int64 = 1

// Candidate is something that can be matched: a primary label and optional
// secondary tags (categories, keywords, descriptions).
type Candidate[T any] struct {
	Label string
	Tags  []string
	Value T
}

// Ranked is a candidate that met the threshold, with its score.
type Ranked[T any] struct {
	Score int64
	Candidate[T]
}

// Match returns the fuzzy score of query against target. Targets that do not
// contain the query as a subsequence score 0. A match scores at least 1 even
// when fuzzy's penalties for unmatched characters push it lower, so short
// queries against long labels still count.
func Match(target, query string) int64 {
	if strings.TrimSpace(target) == "" || query == "" {
		return 0
	}
	matches := fuzzy.Find(query, []string{target})
	if len(matches) == 0 {
		return 0
	}
	return max(int64(matches[0].Score), 1)
}

// Score returns the best score of query over the label and every tag.
func Score(label string, tags []string, query string) int64 {
	best := Match(label, query)
	for _, tg := range tags {
		if s := Match(tg, query); s > best {
			best = s
		}
	}
	return best
}

// Rank scores every candidate, drops those below threshold and returns the
// rest sorted by score descending. Candidates with equal scores keep their
// input order.
func Rank[T any](cands []Candidate[T], query string, threshold int64) []Ranked[T] {
	out := make([]Ranked[T], 0, len(cands))
	for _, c := range cands {
		s := Score(c.Label, c.Tags, query)
		if s < threshold {
			continue
		}
		out = append(out, Ranked[T]{Score: s, Candidate: c})
	}
	slices.SortStableFunc(out, func(a, b Ranked[T]) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return 0
	})
	return out
}
