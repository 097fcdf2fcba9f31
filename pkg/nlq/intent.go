// Package nlq implements the natural-language query pipeline: intent
// classification, table and column resolution against a catalog snapshot,
// heuristic SQL synthesis, and shaping of executed results into the
// intent-specific response payloads.
package nlq

import (
	"regexp"
	"strconv"
	"strings"
)

// Intent is the classified purpose of a question.
type Intent string

const (
	IntentCount            Intent = "count_query"
	IntentAggregation      Intent = "aggregation_query"
	IntentFieldSelection   Intent = "field_selection_query"
	IntentTableExploration Intent = "table_exploration"
	IntentMetadataRequest  Intent = "metadata_request"
	IntentDataQuery        Intent = "data_query"
)

// AggregationKind selects the aggregate function for aggregation intents.
type AggregationKind string

const (
	AggSum   AggregationKind = "SUM"
	AggAvg   AggregationKind = "AVG"
	AggMin   AggregationKind = "MIN"
	AggMax   AggregationKind = "MAX"
	AggStats AggregationKind = "STATS"
)

// Categories overlap lexically ("average number of" contains both an
// aggregation verb and a count phrase), so evaluation order matters:
// field selection, aggregation, count, table exploration, metadata,
// then the data-query default. First category with any match wins.
var (
	fieldSelectionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(show\s+me\s+only|just\s+the|only\s+the)\b`),
		regexp.MustCompile(`\b(select|get|fetch|retrieve)\s+(specific|particular|certain)\b`),
		regexp.MustCompile(`\bspecific\s+(fields?|columns?)\b`),
		regexp.MustCompile(`\b(columns?|fields?)\s+(only|just|specifically)\b`),
		regexp.MustCompile(`\b(what\s+are\s+the)\s+(names?|emails?|ids?)\b`),
	}

	aggSumPattern   = regexp.MustCompile(`\b(sum|add\s+up)\b`)
	aggTotalPattern = regexp.MustCompile(`\btotal\s+([a-z_]+)`)
	aggAvgPattern   = regexp.MustCompile(`\b(average|mean|avg)\b`)
	aggMinPattern   = regexp.MustCompile(`\b(minimum|min|lowest|smallest)\b`)
	aggMaxPattern   = regexp.MustCompile(`\b(maximum|max|highest|largest)\b`)
	aggStatsPattern = regexp.MustCompile(`\b(statistics|stats|summary)\b`)

	countPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(how\s+many|count|number\s+of)\b`),
		regexp.MustCompile(`\b(total\s+count|record\s+count|total\s+number)\b`),
	}

	tableExplorationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(show|list|display|get)\s+(me\s+)?(all\s+)?(tables?|data)\b`),
		regexp.MustCompile(`\bwhat\s+(tables?|data)\s+(are\s+)?(available|there)\b`),
		regexp.MustCompile(`\b(available|existing)\s+(tables?|data)\b`),
	}

	metadataPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(describe|structure|metadata|schema)\b`),
		regexp.MustCompile(`\b(explain|tell\s+me\s+about)\b`),
		regexp.MustCompile(`\b(columns?|fields?)\s+(of|in)\b`),
		regexp.MustCompile(`\b(information|details)\s+(about|for)\b`),
	}

	topNPattern = regexp.MustCompile(`\btop\s+(\d+)\b`)
)

// "total number/count/records" is a count phrase, not a SUM request.
var totalCountWords = map[string]bool{
	"number": true, "count": true, "counts": true,
	"record": true, "records": true, "row": true, "rows": true,
	"entries": true,
}

// Classify maps a question to exactly one intent. Classification is total;
// anything unmatched falls back to a generic data query.
func Classify(question string) Intent {
	q := strings.ToLower(question)

	for _, p := range fieldSelectionPatterns {
		if p.MatchString(q) {
			return IntentFieldSelection
		}
	}

	if _, ok := DetectAggregation(q); ok {
		return IntentAggregation
	}

	for _, p := range countPatterns {
		if p.MatchString(q) {
			return IntentCount
		}
	}

	for _, p := range tableExplorationPatterns {
		if p.MatchString(q) {
			return IntentTableExploration
		}
	}

	for _, p := range metadataPatterns {
		if p.MatchString(q) {
			return IntentMetadataRequest
		}
	}

	return IntentDataQuery
}

// DetectAggregation reports which aggregate function the question asks for.
func DetectAggregation(question string) (AggregationKind, bool) {
	q := strings.ToLower(question)

	if aggSumPattern.MatchString(q) {
		return AggSum, true
	}
	if m := aggTotalPattern.FindStringSubmatch(q); m != nil && !totalCountWords[m[1]] {
		return AggSum, true
	}
	if aggAvgPattern.MatchString(q) {
		return AggAvg, true
	}
	if aggMinPattern.MatchString(q) {
		return AggMin, true
	}
	if aggMaxPattern.MatchString(q) {
		return AggMax, true
	}
	if aggStatsPattern.MatchString(q) {
		return AggStats, true
	}
	return "", false
}

// DetectTopN extracts an explicit "top N" row limit from the question.
func DetectTopN(question string) (int, bool) {
	m := topNPattern.FindStringSubmatch(strings.ToLower(question))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
