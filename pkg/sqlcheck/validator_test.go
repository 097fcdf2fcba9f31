package sqlcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "SELECT 1", "SELECT 1"},
		{"whitespace", "  SELECT 1\n", "SELECT 1"},
		{"trailing semicolon", "SELECT 1;", "SELECT 1"},
		{"semicolon with trailing newline", "SELECT 1;\n", "SELECT 1"},
		{"sql fence", "```sql\nSELECT 1\n```", "SELECT 1"},
		{"bare fence", "```\nSELECT 1\n```", "SELECT 1"},
		{"fence with semicolon", "```sql\nSELECT 1;\n```", "SELECT 1"},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestValidateSelect(t *testing.T) {
	known := []string{"DataMesh.application.accounts", "warehouse.orders"}

	t.Run("valid select", func(t *testing.T) {
		res := ValidateSelect(`SELECT * FROM "DataMesh"."application"."accounts" LIMIT 10;`, known)
		require.NoError(t, res.Error)
		assert.Equal(t, `SELECT * FROM "DataMesh"."application"."accounts" LIMIT 10`, res.NormalizedSQL)
	})

	t.Run("valid with cte", func(t *testing.T) {
		res := ValidateSelect(`WITH c AS (SELECT * FROM accounts) SELECT * FROM c`, known)
		require.NoError(t, res.Error)
	})

	t.Run("bare leaf reference accepted", func(t *testing.T) {
		res := ValidateSelect(`SELECT name FROM accounts`, known)
		require.NoError(t, res.Error)
	})

	t.Run("leaf must be a whole word", func(t *testing.T) {
		res := ValidateSelect(`SELECT * FROM subaccounts`, known)
		assert.ErrorIs(t, res.Error, ErrUnknownTable)
	})

	t.Run("multiple statements rejected", func(t *testing.T) {
		res := ValidateSelect(`SELECT * FROM accounts; DROP TABLE accounts`, known)
		assert.ErrorIs(t, res.Error, ErrMultipleStatements)
	})

	t.Run("semicolon inside string literal allowed", func(t *testing.T) {
		res := ValidateSelect(`SELECT * FROM accounts WHERE name = 'a;b'`, known)
		assert.NoError(t, res.Error)
	})

	t.Run("non select rejected", func(t *testing.T) {
		res := ValidateSelect(`DELETE FROM accounts`, known)
		assert.ErrorIs(t, res.Error, ErrNotSelect)
	})

	t.Run("unknown table rejected", func(t *testing.T) {
		res := ValidateSelect(`SELECT * FROM secrets`, known)
		assert.ErrorIs(t, res.Error, ErrUnknownTable)
	})

	t.Run("empty rejected", func(t *testing.T) {
		res := ValidateSelect("```sql\n```", known)
		assert.ErrorIs(t, res.Error, ErrEmptyStatement)
	})

	t.Run("no known tables rejects everything", func(t *testing.T) {
		res := ValidateSelect(`SELECT 1`, nil)
		assert.ErrorIs(t, res.Error, ErrUnknownTable)
	})
}

func TestCheckInjection(t *testing.T) {
	flagged, fingerprint := CheckInjection("1' OR '1'='1")
	assert.True(t, flagged)
	assert.NotEmpty(t, fingerprint)

	flagged, _ = CheckInjection("how many accounts are there")
	assert.False(t, flagged)
}

func TestCleanReservedAliases(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			"count alias",
			`SELECT COUNT(*) as count FROM t`,
			`SELECT COUNT(*) as total_count FROM t`,
		},
		{
			"uppercase alias",
			`SELECT COUNT(*) AS COUNT FROM t`,
			`SELECT COUNT(*) as total_count FROM t`,
		},
		{
			"avg alias",
			`SELECT AVG(x) as avg FROM t`,
			`SELECT AVG(x) as average_value FROM t`,
		},
		{
			"whole word only",
			`SELECT c as counter FROM t`,
			`SELECT c as counter FROM t`,
		},
		{
			"untouched",
			`SELECT COUNT(*) as total FROM t`,
			`SELECT COUNT(*) as total FROM t`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanReservedAliases(tt.input))
		})
	}
}
