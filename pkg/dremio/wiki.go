package dremio

import (
	"context"
	"strings"
)

// WikiMetadata is the structured view of a wiki attachment, extracted from
// its markdown sections.
type WikiMetadata struct {
	RawText            string            `json:"raw_text"`
	Description        string            `json:"description"`
	BusinessPurpose    string            `json:"business_purpose"`
	DataSource         string            `json:"data_source"`
	UpdateFrequency    string            `json:"update_frequency"`
	Owner              string            `json:"owner"`
	Tags               []string          `json:"tags"`
	ColumnDescriptions map[string]string `json:"column_descriptions"`
	UsageNotes         string            `json:"usage_notes"`
	DataQualityNotes   string            `json:"data_quality_notes"`
	LastModified       string            `json:"last_modified,omitempty"`
	Author             string            `json:"author,omitempty"`
}

// WikiSearchResult is one hit of a wiki content search.
type WikiSearchResult struct {
	Path        string        `json:"path"`
	Name        string        `json:"name"`
	Type        string        `json:"type"`
	WikiSnippet string        `json:"wiki_snippet"`
	Metadata    *WikiMetadata `json:"wiki_metadata"`
}

// GetWikiMetadata fetches and parses the wiki attachment of an entity.
// Returns an empty metadata struct when the entity has no wiki.
func (c *Client) GetWikiMetadata(ctx context.Context, entityPath string) (*WikiMetadata, error) {
	wiki, err := c.GetWiki(ctx, entityPath)
	if err != nil {
		return nil, err
	}
	if wiki == nil {
		return &WikiMetadata{ColumnDescriptions: map[string]string{}, Tags: []string{}}, nil
	}

	meta := ParseWikiMetadata(wiki.Text)
	meta.LastModified = wiki.Version.CreatedAt
	meta.Author = wiki.Version.Author
	return meta, nil
}

// SearchWikiContent scans catalog entities for wiki text containing the
// search term and returns matches with a context snippet.
func (c *Client) SearchWikiContent(ctx context.Context, term string) ([]WikiSearchResult, error) {
	items, err := c.GetCatalogItems(ctx)
	if err != nil {
		return nil, err
	}

	termLower := strings.ToLower(term)
	var results []WikiSearchResult

	for _, item := range items {
		if len(item.Path) == 0 {
			continue
		}
		fullPath := strings.Join(item.Path, ".")

		meta, err := c.GetWikiMetadata(ctx, fullPath)
		if err != nil || meta.RawText == "" {
			continue
		}

		if strings.Contains(strings.ToLower(meta.RawText), termLower) {
			results = append(results, WikiSearchResult{
				Path:        fullPath,
				Name:        item.Path[len(item.Path)-1],
				Type:        item.Type,
				WikiSnippet: ExtractSnippet(meta.RawText, term, 100),
				Metadata:    meta,
			})
		}
	}
	return results, nil
}

// ParseWikiMetadata extracts structured fields from wiki markdown. Section
// headers ("## Purpose", "## Owner", ...), bold "**Key:** value" lines, list
// items under a Columns section and #tags feed the corresponding fields;
// remaining text accumulates into the active section.
func ParseWikiMetadata(wikiText string) *WikiMetadata {
	meta := &WikiMetadata{
		RawText:            wikiText,
		Tags:               []string{},
		ColumnDescriptions: map[string]string{},
	}
	if wikiText == "" {
		return meta
	}

	currentSection := ""
	appendSection := func(section, text string) {
		var target *string
		switch section {
		case "description":
			target = &meta.Description
		case "business_purpose":
			target = &meta.BusinessPurpose
		case "data_source":
			target = &meta.DataSource
		case "update_frequency":
			target = &meta.UpdateFrequency
		case "owner":
			target = &meta.Owner
		case "usage_notes":
			target = &meta.UsageNotes
		case "data_quality_notes":
			target = &meta.DataQualityNotes
		default:
			return
		}
		if *target != "" {
			*target += " " + text
		} else {
			*target = text
		}
	}

	for _, line := range strings.Split(wikiText, "\n") {
		line = strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(line, "# "):
			currentSection = "description"
			meta.Description = strings.TrimSpace(line[2:])
		case strings.HasPrefix(line, "## "):
			sectionName := strings.ToLower(strings.TrimSpace(line[3:]))
			switch {
			case strings.Contains(sectionName, "purpose"):
				currentSection = "business_purpose"
			case strings.Contains(sectionName, "source"):
				currentSection = "data_source"
			case strings.Contains(sectionName, "frequency"), strings.Contains(sectionName, "update"):
				currentSection = "update_frequency"
			case strings.Contains(sectionName, "owner"):
				currentSection = "owner"
			case strings.Contains(sectionName, "usage"):
				currentSection = "usage_notes"
			case strings.Contains(sectionName, "quality"):
				currentSection = "data_quality_notes"
			case strings.Contains(sectionName, "columns"):
				currentSection = "column_descriptions"
			default:
				currentSection = ""
			}
		case strings.HasPrefix(line, "**") && strings.Contains(line, ":"):
			key, value, _ := strings.Cut(line, ":")
			key = strings.ToLower(strings.TrimSpace(strings.ReplaceAll(key, "**", "")))
			value = strings.TrimSpace(strings.ReplaceAll(value, "**", ""))
			switch {
			case strings.Contains(key, "description"):
				meta.Description = value
			case strings.Contains(key, "purpose"):
				meta.BusinessPurpose = value
			case strings.Contains(key, "source"):
				meta.DataSource = value
			case strings.Contains(key, "frequency"), strings.Contains(key, "update"):
				meta.UpdateFrequency = value
			case strings.Contains(key, "owner"):
				meta.Owner = value
			}
		case strings.HasPrefix(line, "- "), strings.HasPrefix(line, "* "):
			item := strings.TrimSpace(line[2:])
			if currentSection == "column_descriptions" {
				if name, desc, ok := strings.Cut(item, ":"); ok {
					meta.ColumnDescriptions[strings.TrimSpace(name)] = strings.TrimSpace(desc)
				}
			} else if strings.HasPrefix(item, "#") || strings.Contains(strings.ToLower(item), "tag") {
				tag := strings.TrimSpace(strings.ReplaceAll(item, "#", ""))
				if tag != "" {
					meta.Tags = append(meta.Tags, tag)
				}
			}
		case line != "" && currentSection != "" && currentSection != "column_descriptions":
			appendSection(currentSection, line)
		}
	}

	return meta
}

// ExtractSnippet returns contextLength characters of text centered on the
// first occurrence of term, with ellipses marking truncation.
func ExtractSnippet(text, term string, contextLength int) string {
	idx := strings.Index(strings.ToLower(text), strings.ToLower(term))
	if idx < 0 {
		if len(text) > contextLength {
			return text[:contextLength] + "..."
		}
		return text
	}

	start := idx - contextLength/2
	if start < 0 {
		start = 0
	}
	end := idx + len(term) + contextLength/2
	if end > len(text) {
		end = len(text)
	}

	snippet := text[start:end]
	if start > 0 {
		snippet = "..." + snippet
	}
	if end < len(text) {
		snippet = snippet + "..."
	}
	return snippet
}
