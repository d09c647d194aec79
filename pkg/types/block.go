// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// BlockType is the tag naming what kind of content a block holds.
type BlockType string

const (
	BlockParagraph        BlockType = "paragraph"
	BlockHeading1         BlockType = "heading_1"
	BlockHeading2         BlockType = "heading_2"
	BlockHeading3         BlockType = "heading_3"
	BlockBulletedListItem BlockType = "bulleted_list_item"
	BlockNumberedListItem BlockType = "numbered_list_item"
	BlockToDo             BlockType = "to_do"
	BlockQuote            BlockType = "quote"
	BlockCode             BlockType = "code"
	BlockDivider          BlockType = "divider"
	BlockImage            BlockType = "image"
	BlockVideo            BlockType = "video"
	BlockEmbed            BlockType = "embed"
)

// Block is one content unit of a page. Children is populated only when the
// remote source reported HasChildren; an empty Children never implies an
// empty Content.
type Block struct {
	ID          string       `json:"id" yaml:"id"`
	Type        BlockType    `json:"type" yaml:"type"`
	HasChildren bool         `json:"has_children" yaml:"has_children"`
	Content     BlockContent `json:"content" yaml:"content"`
	Children    []Block      `json:"children,omitempty" yaml:"children,omitempty"`
}

// BlockContent is the type-dependent payload of a block. Only the fields
// relevant to the block's type are set.
type BlockContent struct {
	// RichText holds the inline spans of text-bearing blocks.
	RichText []RichText `json:"rich_text,omitempty" yaml:"rich_text,omitempty"`

	// Language is the declared language of a code block.
	Language string `json:"language,omitempty" yaml:"language,omitempty"`

	// Checked is the state of a to_do block.
	Checked bool `json:"checked,omitempty" yaml:"checked,omitempty"`

	// URL is the target of an embed block.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// File references a remote-hosted upload (image, video).
	File *FileRef `json:"file,omitempty" yaml:"file,omitempty"`

	// External references a file hosted outside the remote source.
	External *FileRef `json:"external,omitempty" yaml:"external,omitempty"`
}

// FileRef points to a downloadable file.
type FileRef struct {
	URL string `json:"url" yaml:"url"`
}

// FileURL returns the hosted file URL, or "" when the payload has none.
func (c BlockContent) FileURL() string {
	if c.File == nil {
		return ""
	}
	return c.File.URL
}

// ExternalURL returns the external file URL, or "" when the payload has none.
func (c BlockContent) ExternalURL() string {
	if c.External == nil {
		return ""
	}
	return c.External.URL
}

// RichText is a run of text with uniform annotations.
type RichText struct {
	PlainText   string      `json:"plain_text" yaml:"plain_text"`
	Href        string      `json:"href,omitempty" yaml:"href,omitempty"`
	Annotations Annotations `json:"annotations" yaml:"annotations"`
}

// Annotations are the inline decorations applied to a RichText span.
type Annotations struct {
	Bold          bool   `json:"bold" yaml:"bold"`
	Italic        bool   `json:"italic" yaml:"italic"`
	Strikethrough bool   `json:"strikethrough" yaml:"strikethrough"`
	Underline     bool   `json:"underline" yaml:"underline"`
	Code          bool   `json:"code" yaml:"code"`
	Color         string `json:"color" yaml:"color"`
}

// Highlighted reports whether the color is a background color
// (e.g. "yellow_background") rather than a text color.
func (a Annotations) Highlighted() bool {
	return strings.Contains(a.Color, "background")
}

// PlainText concatenates the plain text of spans without decoration.
func PlainText(spans []RichText) string {
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(s.PlainText)
	}
	return b.String()
}

// CountBlocks returns the number of blocks in the tree rooted at blocks.
func CountBlocks(blocks []Block) int {
	n := 0
	for _, b := range blocks {
		n += 1 + CountBlocks(b.Children)
	}
	return n
}
