package dremio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleWiki = `# Customer Accounts

## Purpose
Tracks every registered customer account.
Used for billing and support lookups.

## Data Source
Replicated nightly from the accounts service.

## Update Frequency
Daily at 02:00 UTC.

## Owner
data-platform team

## Columns
- id: surrogate key
- name: customer display name
- email: primary contact address

## Usage Notes
Join on id, never on email.

## Data Quality
Emails are not validated before 2020.

## Tags
- #billing
- #customer
`

func TestParseWikiMetadata(t *testing.T) {
	meta := ParseWikiMetadata(sampleWiki)

	assert.Equal(t, sampleWiki, meta.RawText)
	assert.Equal(t, "Customer Accounts", meta.Description)
	assert.Equal(t, "Tracks every registered customer account. Used for billing and support lookups.", meta.BusinessPurpose)
	assert.Equal(t, "Replicated nightly from the accounts service.", meta.DataSource)
	assert.Equal(t, "Daily at 02:00 UTC.", meta.UpdateFrequency)
	assert.Equal(t, "data-platform team", meta.Owner)
	assert.Equal(t, "Join on id, never on email.", meta.UsageNotes)
	assert.Equal(t, "Emails are not validated before 2020.", meta.DataQualityNotes)

	assert.Equal(t, map[string]string{
		"id":    "surrogate key",
		"name":  "customer display name",
		"email": "primary contact address",
	}, meta.ColumnDescriptions)

	assert.Equal(t, []string{"billing", "customer"}, meta.Tags)
}

func TestParseWikiMetadata_BoldKeyValueLines(t *testing.T) {
	meta := ParseWikiMetadata("**Description:** order facts\n**Owner:** finance\n**Update Frequency:** hourly\n")

	assert.Equal(t, "order facts", meta.Description)
	assert.Equal(t, "finance", meta.Owner)
	assert.Equal(t, "hourly", meta.UpdateFrequency)
}

func TestParseWikiMetadata_Empty(t *testing.T) {
	meta := ParseWikiMetadata("")

	assert.Empty(t, meta.Description)
	assert.NotNil(t, meta.Tags)
	assert.NotNil(t, meta.ColumnDescriptions)
}

func TestExtractSnippet(t *testing.T) {
	text := "The accounts table holds one row per registered customer and is refreshed nightly."

	t.Run("term found", func(t *testing.T) {
		snippet := ExtractSnippet(text, "registered", 20)
		assert.Contains(t, snippet, "registered")
		assert.Contains(t, snippet, "...")
	})

	t.Run("term at start keeps prefix", func(t *testing.T) {
		snippet := ExtractSnippet(text, "The accounts", 20)
		assert.True(t, len(snippet) > 0)
		assert.Equal(t, "The accounts", snippet[:12])
	})

	t.Run("term missing truncates", func(t *testing.T) {
		snippet := ExtractSnippet(text, "zzz", 10)
		assert.Equal(t, text[:10]+"...", snippet)
	})

	t.Run("short text returned whole", func(t *testing.T) {
		assert.Equal(t, "short", ExtractSnippet("short", "zzz", 100))
	})
}
