package nlq

import (
	"regexp"
	"sort"
	"strings"

	"github.com/jinzhu/inflection"

	"github.com/neelkamal0666/dremio-mcp/pkg/catalog"
)

// Filler words stripped from questions before keyword matching.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "is": true, "are": true, "was": true,
	"were": true, "be": true, "been": true, "have": true, "has": true,
	"had": true, "do": true, "does": true, "did": true, "will": true,
	"would": true, "could": true, "should": true, "may": true,
	"might": true, "can": true, "must": true, "show": true, "me": true,
	"all": true, "get": true, "find": true, "what": true, "how": true,
	"many": true, "count": true, "list": true, "display": true,
	"table": true, "tables": true, "records": true, "record": true,
	"rows": true, "row": true, "data": true,
}

var wordPattern = regexp.MustCompile(`[a-z0-9_]+`)

// Keywords tokenizes a question into lowercased keywords with stop words
// and short tokens removed.
func Keywords(question string) []string {
	words := wordPattern.FindAllString(strings.ToLower(question), -1)
	out := make([]string, 0, len(words))
	for _, w := range words {
		if len(w) <= 2 || stopWords[w] {
			continue
		}
		out = append(out, w)
	}
	return out
}

// Score weights: a keyword hitting the table's leaf name counts more than a
// column-name hit, which counts more than a wiki-text hit. Full-path mention
// dominates everything.
const (
	scoreFullPath = 10
	scoreLeaf     = 4
	scoreColumn   = 2
	scoreWiki     = 1
)

// Resolver scores catalog tables against question keywords.
type Resolver struct {
	// MinScore is the lowest score a table may have and still be
	// considered a match.
	MinScore int
	// PreferShortestPath breaks score ties with the shorter (then
	// lexicographically smaller) path; when false, ties go to the
	// lexicographically smaller path only.
	PreferShortestPath bool
}

// ResolveTable picks the best-matching table for a question, or nil when no
// table reaches MinScore.
func (r *Resolver) ResolveTable(question string, snap *catalog.Snapshot) *catalog.TableDescriptor {
	keywords := Keywords(question)
	if len(keywords) == 0 {
		return nil
	}
	qLower := strings.ToLower(question)

	var (
		best      *catalog.TableDescriptor
		bestScore int
	)
	tables := snap.Tables()
	for i := range tables {
		t := &tables[i]
		score := r.scoreTable(qLower, keywords, t)
		if score < r.MinScore || score < bestScore {
			continue
		}
		if score > bestScore || best == nil {
			best, bestScore = t, score
			continue
		}
		// score == bestScore
		if r.betterTie(t, best) {
			best = t
		}
	}
	return best
}

func (r *Resolver) betterTie(candidate, current *catalog.TableDescriptor) bool {
	if r.PreferShortestPath {
		candDepth := strings.Count(candidate.Path, ".")
		curDepth := strings.Count(current.Path, ".")
		if candDepth != curDepth {
			return candDepth < curDepth
		}
	}
	return candidate.Path < current.Path
}

func (r *Resolver) scoreTable(qLower string, keywords []string, t *catalog.TableDescriptor) int {
	fullPath := strings.ToLower(t.Path)
	leaf := strings.ToLower(t.Leaf())

	score := 0
	if strings.Contains(qLower, fullPath) {
		score += scoreFullPath
	}
	for _, kw := range keywords {
		if wordsEqual(kw, leaf) || strings.Contains(leaf, kw) {
			score += scoreLeaf
		}
		for _, c := range t.Columns {
			cn := strings.ToLower(c.Name)
			if wordsEqual(kw, cn) || strings.Contains(cn, kw) {
				score += scoreColumn
				break
			}
		}
		if t.Wiki != "" && strings.Contains(strings.ToLower(t.Wiki), kw) {
			score += scoreWiki
		}
	}
	return score
}

// wordsEqual folds singular and plural forms so "account" matches "accounts".
func wordsEqual(a, b string) bool {
	return a == b || inflection.Singular(a) == inflection.Singular(b)
}

// fieldSynonyms maps question words to column-name fragments they commonly
// stand for, e.g. "phones" to a column named mobile_number.
var fieldSynonyms = []struct {
	pattern    *regexp.Regexp
	candidates []string
}{
	{regexp.MustCompile(`\bnames?\b`), []string{"name"}},
	{regexp.MustCompile(`\bemails?\b`), []string{"email"}},
	{regexp.MustCompile(`\bids?\b`), []string{"id"}},
	{regexp.MustCompile(`\bages?\b`), []string{"age"}},
	{regexp.MustCompile(`\baddress(es)?\b`), []string{"address"}},
	{regexp.MustCompile(`\b(phones?|mobile)\b`), []string{"phone", "mobile"}},
	{regexp.MustCompile(`\b(dates?|created|updated)\b`), []string{"date", "created", "updated"}},
	{regexp.MustCompile(`\b(amounts?|value|price)\b`), []string{"amount", "value", "price"}},
}

// ResolveColumns matches the fields a question mentions to actual columns
// of the table, preserving the order of first mention in the question.
// Returns nil when nothing matches.
func ResolveColumns(question string, t *catalog.TableDescriptor) []string {
	qLower := strings.ToLower(question)

	type mention struct {
		pos        int
		candidates []string
	}
	var mentions []mention
	for _, syn := range fieldSynonyms {
		if loc := syn.pattern.FindStringIndex(qLower); loc != nil {
			mentions = append(mentions, mention{pos: loc[0], candidates: syn.candidates})
		}
	}
	// Column names mentioned verbatim also count, even without a synonym.
	for _, c := range t.Columns {
		cn := strings.ToLower(c.Name)
		if idx := indexOfWord(qLower, cn); idx >= 0 {
			mentions = append(mentions, mention{pos: idx, candidates: []string{cn}})
		}
	}
	sort.SliceStable(mentions, func(i, j int) bool { return mentions[i].pos < mentions[j].pos })

	var (
		matched []string
		seen    = map[string]bool{}
	)
	for _, m := range mentions {
		col := matchColumn(m.candidates, t)
		if col == "" || seen[col] {
			continue
		}
		seen[col] = true
		matched = append(matched, col)
	}
	return matched
}

func matchColumn(candidates []string, t *catalog.TableDescriptor) string {
	for _, cand := range candidates {
		for _, c := range t.Columns {
			if strings.EqualFold(c.Name, cand) {
				return c.Name
			}
		}
	}
	for _, cand := range candidates {
		for _, c := range t.Columns {
			cn := strings.ToLower(c.Name)
			if strings.Contains(cn, cand) || strings.Contains(cand, cn) {
				return c.Name
			}
		}
	}
	return ""
}

// aggregationFieldPatterns are common numeric field names questions refer to.
var aggregationFieldPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(amount|value|price|cost|revenue|sales|income)\b`),
	regexp.MustCompile(`\b(age|score|rating|balance|quantity|salary)\b`),
}

// ResolveAggregationColumn finds the numeric column an aggregation question
// targets. Columns named verbatim win over pattern-derived guesses.
func ResolveAggregationColumn(question string, t *catalog.TableDescriptor) string {
	qLower := strings.ToLower(question)

	type hit struct {
		pos  int
		name string
	}
	var hits []hit
	for _, c := range t.Columns {
		if !c.IsNumeric() {
			continue
		}
		if idx := indexOfWord(qLower, strings.ToLower(c.Name)); idx >= 0 {
			hits = append(hits, hit{pos: idx, name: c.Name})
		}
	}
	if len(hits) > 0 {
		sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })
		return hits[0].name
	}

	for _, p := range aggregationFieldPatterns {
		m := p.FindStringSubmatch(qLower)
		if m == nil {
			continue
		}
		for _, c := range t.Columns {
			if !c.IsNumeric() {
				continue
			}
			cn := strings.ToLower(c.Name)
			if strings.Contains(cn, m[1]) || wordsEqual(cn, m[1]) {
				return c.Name
			}
		}
	}
	return ""
}

// indexOfWord finds needle in haystack at a word boundary, or -1.
func indexOfWord(haystack, needle string) int {
	if needle == "" {
		return -1
	}
	for start := 0; ; {
		idx := strings.Index(haystack[start:], needle)
		if idx < 0 {
			return -1
		}
		idx += start
		end := idx + len(needle)
		beforeOK := idx == 0 || !isWordChar(haystack[idx-1])
		afterOK := end == len(haystack) || !isWordChar(haystack[end])
		if beforeOK && afterOK {
			return idx
		}
		start = idx + 1
	}
}

func isWordChar(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9') || (b >= 'A' && b <= 'Z')
}
