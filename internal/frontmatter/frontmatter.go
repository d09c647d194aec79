// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package frontmatter extracts page metadata from database properties and
// encodes it ahead of the page body.
package frontmatter

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/notion-export/pkg/types"
)

// Properties holds the database columns the exporter reads. Columns that
// are absent decode to their zero values.
type Properties struct {
	Categories MultiSelect `json:"Categories"`
	Date       DateProp    `json:"Date"`
	Tags       MultiSelect `json:"Tags"`
	Title      TextProp    `json:"Title"`
	URL        URLProp     `json:"URL"`
	Summary    TextProp    `json:"Summary"`
	Published  Checkbox    `json:"Published"`
}

// MultiSelect is a multi_select property.
type MultiSelect struct {
	MultiSelect []struct {
		Name string `json:"name"`
	} `json:"multi_select"`
}

// Names returns the selected option names in order, never nil.
func (m MultiSelect) Names() []string {
	names := make([]string, 0, len(m.MultiSelect))
	for _, o := range m.MultiSelect {
		names = append(names, o.Name)
	}
	return names
}

// DateProp is a date property; Date is nil when the cell is empty.
type DateProp struct {
	Date *struct {
		Start string `json:"start"`
	} `json:"date"`
}

// TextProp covers both title and rich_text properties.
type TextProp struct {
	Title    []types.RichText `json:"title"`
	RichText []types.RichText `json:"rich_text"`
}

// Text concatenates the plain text of whichever span list is set.
func (t TextProp) Text() string {
	if len(t.Title) > 0 {
		return types.PlainText(t.Title)
	}
	return types.PlainText(t.RichText)
}

// URLProp is a url property.
type URLProp struct {
	URL string `json:"url"`
}

// Checkbox is a checkbox property.
type Checkbox struct {
	Checkbox bool `json:"checkbox"`
}

// FromProperties builds the frontmatter for a page. The summary key is
// emitted only when caps.Summary is set.
func FromProperties(p Properties, caps types.Capabilities) *types.Frontmatter {
	fm := &types.Frontmatter{
		Categories: p.Categories.Names(),
		Tags:       p.Tags.Names(),
		Title:      p.Title.Text(),
		URL:        p.URL.URL,
	}
	if p.Date.Date != nil {
		fm.Date = p.Date.Date.Start
	}
	if caps.Summary {
		summary := p.Summary.Text()
		fm.Summary = &summary
	}
	return fm
}

// Encode renders fm in the given format. A nil fm encodes to "", which
// leaves the body as the whole file.
func Encode(fm *types.Frontmatter, format types.FrontmatterFormat) (string, error) {
	if fm == nil {
		return "", nil
	}
	switch format {
	case types.FrontmatterJSON, "":
		data, err := json.Marshal(fm)
		if err != nil {
			return "", fmt.Errorf("marshaling JSON frontmatter: %w", err)
		}
		return string(data), nil
	case types.FrontmatterYAML:
		data, err := yaml.Marshal(fm)
		if err != nil {
			return "", fmt.Errorf("marshaling YAML frontmatter: %w", err)
		}
		var b strings.Builder
		b.WriteString("---\n")
		b.Write(data)
		b.WriteString("---")
		return b.String(), nil
	default:
		return "", fmt.Errorf("unsupported frontmatter format %q", format)
	}
}
