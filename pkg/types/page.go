// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Page is one top-level document enumerated from a database. Its blocks are
// fetched lazily by the exporter and are not stored here.
type Page struct {
	// ID is the page identifier; it names the output file.
	ID string `json:"id" yaml:"id"`

	// Title is the plain-text title, when the database exposes one.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Published reflects the Published checkbox property.
	Published bool `json:"published" yaml:"published"`

	// Frontmatter is set only when frontmatter export is enabled and the
	// page is published.
	Frontmatter *Frontmatter `json:"frontmatter,omitempty" yaml:"frontmatter,omitempty"`
}

// Frontmatter is the page metadata emitted ahead of the body text. Field
// order matches the emitted key order.
type Frontmatter struct {
	Categories []string `json:"categories" yaml:"categories"`
	Date       string   `json:"date" yaml:"date"`
	Tags       []string `json:"tags" yaml:"tags"`
	Title      string   `json:"title" yaml:"title"`
	URL        string   `json:"url" yaml:"url"`

	// Summary is nil when summaries are disabled, so the key is omitted.
	Summary *string `json:"summary,omitempty" yaml:"summary,omitempty"`
}
