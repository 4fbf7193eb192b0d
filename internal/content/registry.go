// Package content holds the fixed registry of help documents the indexer
// publishes: canonical markdown where it has been written, page-source
// fallbacks where it has not.
package content

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed registry.yaml docs/*.md
var contentFS embed.FS

// Entry identifies one document in the registry. Exactly one of Doc
// (canonical markdown path) or Page (fallback markup key) is set.
type Entry struct {
	Slug     string   `yaml:"slug"`
	Category string   `yaml:"category"`
	Audience []string `yaml:"audience"`
	Doc      string   `yaml:"doc,omitempty"`
	Page     string   `yaml:"page,omitempty"`
}

// SourceRef names where the entry's content came from, for provenance on the
// stored article.
func (e Entry) SourceRef() string {
	if e.Doc != "" {
		return e.Doc
	}
	return "pages/" + e.Page
}

type manifest struct {
	Documents []Entry `yaml:"documents"`
}

// LoadRegistry parses the embedded manifest. Order is significant and
// preserved: it is the upsert order of reindex and the tie-break order of
// search.
func LoadRegistry() ([]Entry, error) {
	raw, err := contentFS.ReadFile("registry.yaml")
	if err != nil {
		return nil, fmt.Errorf("read registry manifest: %w", err)
	}
	var m manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parse registry manifest: %w", err)
	}
	for i, e := range m.Documents {
		if e.Slug == "" {
			return nil, fmt.Errorf("registry entry %d has no slug", i)
		}
		if e.Doc == "" && e.Page == "" {
			return nil, fmt.Errorf("registry entry %q names no source", e.Slug)
		}
	}
	return m.Documents, nil
}

// CanonicalMarkdown reads the embedded markdown for an entry.
func CanonicalMarkdown(e Entry) (string, error) {
	raw, err := contentFS.ReadFile(e.Doc)
	if err != nil {
		return "", fmt.Errorf("read canonical doc %q: %w", e.Doc, err)
	}
	return string(raw), nil
}
