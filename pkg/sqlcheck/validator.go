// Package sqlcheck provides SQL validation for model-generated statements.
//
// The AI SQL providers are allowed to be wrong; nothing they produce is
// executed until it passes these gates: single statement, SELECT only,
// no injection fingerprint, and a reference to a known table.
package sqlcheck

import (
	"errors"
	"strings"

	libinjection "github.com/corazawaf/libinjection-go"
)

var (
	// ErrMultipleStatements indicates the query contains multiple SQL statements.
	ErrMultipleStatements = errors.New("multiple SQL statements not allowed; only single statements are permitted")

	// ErrNotSelect indicates the statement is not a SELECT.
	ErrNotSelect = errors.New("only SELECT statements are permitted")

	// ErrEmptyStatement indicates the statement is empty after normalization.
	ErrEmptyStatement = errors.New("empty SQL statement")

	// ErrInjectionDetected indicates libinjection flagged the statement.
	ErrInjectionDetected = errors.New("SQL injection pattern detected")

	// ErrUnknownTable indicates the statement references no known table.
	ErrUnknownTable = errors.New("statement does not reference a known table")
)

// ValidationResult contains the normalized SQL and any validation error.
type ValidationResult struct {
	NormalizedSQL string
	Error         error
}

// ValidateSelect normalizes sqlQuery and verifies it is a single SELECT
// statement referencing one of knownTables (case-insensitive substring
// match on the fully qualified path or its leaf name).
//
// The validation order is:
// 1. Strip markdown fences and trailing semicolon (normalize)
// 2. Check for multiple statements (remaining semicolons outside strings)
// 3. Require a SELECT or WITH prefix
// 4. Require a known table reference
func ValidateSelect(sqlQuery string, knownTables []string) ValidationResult {
	normalized := Normalize(sqlQuery)
	if normalized == "" {
		return ValidationResult{Error: ErrEmptyStatement}
	}

	if hasSemicolonOutsideStrings(normalized) {
		return ValidationResult{Error: ErrMultipleStatements}
	}

	upper := strings.ToUpper(normalized)
	if !strings.HasPrefix(upper, "SELECT") && !strings.HasPrefix(upper, "WITH") {
		return ValidationResult{Error: ErrNotSelect}
	}

	if !referencesKnownTable(normalized, knownTables) {
		return ValidationResult{Error: ErrUnknownTable}
	}

	return ValidationResult{NormalizedSQL: normalized}
}

// CheckInjection runs libinjection against a raw value (question text or a
// literal destined for a statement). Returns the fingerprint when flagged.
func CheckInjection(value string) (bool, string) {
	isSQLi, fingerprint := libinjection.IsSQLi(value)
	return isSQLi, string(fingerprint)
}

// Normalize strips markdown code fences, surrounding whitespace and a
// trailing semicolon from a generated statement.
func Normalize(sqlQuery string) string {
	s := strings.TrimSpace(sqlQuery)

	// Model output frequently arrives wrapped in ```sql fences.
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```sql")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.Index(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	s = strings.TrimRight(s, " \t\n\r")
	if strings.HasSuffix(s, ";") {
		s = strings.TrimSuffix(s, ";")
		s = strings.TrimRight(s, " \t\n\r")
	}

	return s
}

// CleanReservedAliases rewrites reserved words used as column aliases,
// which Dremio rejects (e.g. "as count" becomes "as total_count").
func CleanReservedAliases(sqlQuery string) string {
	replacements := []struct{ old, new string }{
		{"as count", "as total_count"},
		{"as sum", "as total_sum"},
		{"as avg", "as average_value"},
		{"as min", "as minimum_value"},
		{"as max", "as maximum_value"},
	}

	cleaned := sqlQuery
	for _, r := range replacements {
		cleaned = replaceWordCaseInsensitive(cleaned, r.old, r.new)
	}
	return cleaned
}

func replaceWordCaseInsensitive(s, old, new string) string {
	lower := strings.ToLower(s)
	var b strings.Builder
	for {
		idx := strings.Index(lower, old)
		if idx < 0 {
			b.WriteString(s)
			return b.String()
		}
		// Only replace whole-word occurrences: next char must end the alias.
		end := idx + len(old)
		if end < len(s) && isIdentChar(s[end]) {
			b.WriteString(s[:end])
			s = s[end:]
			lower = lower[end:]
			continue
		}
		b.WriteString(s[:idx])
		b.WriteString(new)
		s = s[end:]
		lower = lower[end:]
	}
}

func isIdentChar(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func referencesKnownTable(sqlQuery string, knownTables []string) bool {
	if len(knownTables) == 0 {
		return false
	}
	lower := strings.ToLower(sqlQuery)
	for _, table := range knownTables {
		t := strings.ToLower(table)
		if strings.Contains(lower, t) {
			return true
		}
		// Also accept the bare leaf name, with or without quoting.
		if idx := strings.LastIndex(t, "."); idx >= 0 {
			leaf := t[idx+1:]
			if leaf != "" && containsWord(lower, leaf) {
				return true
			}
		}
	}
	return false
}

func containsWord(s, word string) bool {
	idx := 0
	for {
		i := strings.Index(s[idx:], word)
		if i < 0 {
			return false
		}
		i += idx
		before := i == 0 || !isIdentChar(s[i-1])
		afterIdx := i + len(word)
		after := afterIdx >= len(s) || !isIdentChar(s[afterIdx])
		if before && after {
			return true
		}
		idx = i + len(word)
	}
}

// hasSemicolonOutsideStrings returns true if the SQL contains any semicolon
// outside of string literals.
func hasSemicolonOutsideStrings(sqlQuery string) bool {
	const (
		stateNormal = iota
		stateSingleQuote
		stateDoubleQuote
	)

	state := stateNormal
	prevChar := rune(0)

	for _, char := range sqlQuery {
		switch state {
		case stateNormal:
			switch char {
			case ';':
				return true
			case '\'':
				state = stateSingleQuote
			case '"':
				state = stateDoubleQuote
			}
		case stateSingleQuote:
			// Handle both backslash escape (\') and SQL standard escape ('')
			if char == '\'' && prevChar != '\\' {
				state = stateNormal
			}
		case stateDoubleQuote:
			if char == '"' && prevChar != '\\' {
				state = stateNormal
			}
		}
		prevChar = char
	}

	return false
}
