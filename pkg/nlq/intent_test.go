package nlq

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		question string
		want     Intent
	}{
		{"how many accounts are there", IntentCount},
		{"count the orders", IntentCount},
		{"what is the total number of records", IntentCount},
		{"show me only the names and emails", IntentFieldSelection},
		{"just the ids please", IntentFieldSelection},
		{"what are the emails of our users", IntentFieldSelection},
		{"show me specific fields from accounts", IntentFieldSelection},
		{"specific columns of the orders table", IntentFieldSelection},
		{"what is the average age of users", IntentAggregation},
		{"sum of all balances", IntentAggregation},
		{"highest salary in the company", IntentAggregation},
		{"statistics for account balance", IntentAggregation},
		{"show me all tables", IntentTableExploration},
		{"what tables are available", IntentTableExploration},
		{"list data", IntentTableExploration},
		{"describe the accounts table", IntentMetadataRequest},
		{"what is the structure of orders", IntentMetadataRequest},
		{"tell me about the users", IntentMetadataRequest},
		{"give me recent transactions", IntentDataQuery},
		{"accounts created last week", IntentDataQuery},
		{"", IntentDataQuery},
	}

	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			if got := Classify(tt.question); got != tt.want {
				t.Errorf("Classify(%q) = %s, want %s", tt.question, got, tt.want)
			}
		})
	}
}

func TestClassify_OverlappingPhrases(t *testing.T) {
	// "average number of" contains both an aggregation verb and a count
	// phrase; aggregation is checked first.
	if got := Classify("average number of logins per user"); got != IntentAggregation {
		t.Errorf("got %s, want %s", got, IntentAggregation)
	}
	// Field selection outranks aggregation.
	if got := Classify("show me only the names with the highest scores"); got != IntentFieldSelection {
		t.Errorf("got %s, want %s", got, IntentFieldSelection)
	}
}

func TestDetectAggregation(t *testing.T) {
	tests := []struct {
		question string
		want     AggregationKind
		ok       bool
	}{
		{"sum of balances", AggSum, true},
		{"total revenue this year", AggSum, true},
		{"average age", AggAvg, true},
		{"the mean score", AggAvg, true},
		{"lowest price", AggMin, true},
		{"maximum balance", AggMax, true},
		{"summary of the amounts", AggStats, true},
		{"total number of records", "", false},
		{"total count of users", "", false},
		{"list all users", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			got, ok := DetectAggregation(tt.question)
			if ok != tt.ok || got != tt.want {
				t.Errorf("DetectAggregation(%q) = (%q, %v), want (%q, %v)",
					tt.question, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestDetectTopN(t *testing.T) {
	if n, ok := DetectTopN("show me the top 7 accounts"); !ok || n != 7 {
		t.Errorf("got (%d, %v), want (7, true)", n, ok)
	}
	if _, ok := DetectTopN("show me accounts"); ok {
		t.Error("expected no top-N match")
	}
	if _, ok := DetectTopN("top 0 accounts"); ok {
		t.Error("expected zero to be rejected")
	}
}
