// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render converts a block tree into Markdown.
//
// A Renderer turns one block into one Markdown construct (RenderBlock) and
// walks sibling sequences and their subtrees in document order
// (RenderBlocks). Numbered-list positions and indentation depth live on the
// call stack, so one Renderer may serve concurrent walks as long as its
// Assets implementation is safe for concurrent use.
package render

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/notion-export/internal/asset"
	"github.com/pdiddy/notion-export/pkg/types"
)

// Indent is one level of nesting.
const Indent = "\t"

// blockSeparator precedes every non-empty rendered block.
const blockSeparator = "\n\n"

// ErrMissingFile reports an image block without any file reference.
var ErrMissingFile = errors.New("image block has no file reference")

// Assets materializes media referenced by blocks. *asset.Materializer
// implements it.
type Assets interface {
	Materialize(ctx context.Context, blockID, fileURL string, kind asset.Kind, policy asset.Policy) (asset.Asset, error)
}

// Renderer renders blocks with a fixed capability set.
type Renderer struct {
	assets Assets
	caps   types.Capabilities
}

// New returns a Renderer that downloads media through assets.
func New(assets Assets, caps types.Capabilities) *Renderer {
	return &Renderer{assets: assets, caps: caps}
}

// RenderBlocks renders a sibling sequence at depth and, after each block,
// that block's children at depth+1. Every non-empty block is preceded by a
// blank line. The numbered-list index counts consecutive numbered items and
// restarts at 1 after any other block type.
func (r *Renderer) RenderBlocks(ctx context.Context, blocks []types.Block, depth int) (string, error) {
	var b strings.Builder
	index := 0
	for _, block := range blocks {
		if block.Type == types.BlockNumberedListItem {
			index++
		} else {
			index = 0
		}

		text, err := r.RenderBlock(ctx, block, index, depth)
		if err != nil {
			return "", fmt.Errorf("rendering block %s: %w", block.ID, err)
		}
		if text != "" {
			b.WriteString(blockSeparator)
			b.WriteString(text)
		}

		if len(block.Children) > 0 {
			children, err := r.RenderBlocks(ctx, block.Children, depth+1)
			if err != nil {
				return "", err
			}
			b.WriteString(children)
		}
	}
	return b.String(), nil
}

// RenderBlock renders one block without its children. index is the block's
// position in the current numbered list (ignored for other types) and depth
// the number of Indent units prefixed to non-empty output.
func (r *Renderer) RenderBlock(ctx context.Context, block types.Block, index, depth int) (string, error) {
	text, err := r.renderContent(ctx, block, index)
	if err != nil || text == "" {
		return "", err
	}
	return strings.Repeat(Indent, depth) + text, nil
}

func (r *Renderer) renderContent(ctx context.Context, block types.Block, index int) (string, error) {
	switch block.Type {
	case types.BlockDivider:
		return "---", nil
	case types.BlockImage:
		return r.image(ctx, block)
	case types.BlockVideo:
		if r.caps.Media {
			return r.video(ctx, block)
		}
	case types.BlockEmbed:
		if r.caps.Media {
			return ResolveEmbed(block.Content.URL), nil
		}
	}

	text := FormatRichText(block.Content.RichText)
	if text == "" {
		return "", nil
	}

	switch block.Type {
	case types.BlockHeading1:
		return "# " + text, nil
	case types.BlockHeading2:
		return "## " + text, nil
	case types.BlockHeading3:
		return "### " + text, nil
	case types.BlockCode:
		return "```" + block.Content.Language + "\n" + text + "\n```", nil
	case types.BlockBulletedListItem:
		return "- " + text, nil
	case types.BlockNumberedListItem:
		return fmt.Sprintf("%d. %s", index, text), nil
	case types.BlockToDo:
		if block.Content.Checked {
			return "- [x] " + text, nil
		}
		return "- [ ] " + text, nil
	case types.BlockQuote:
		return "> " + text, nil
	default:
		return text, nil
	}
}

// image downloads a hosted image on every call and renders a centered
// image reference. Externally hosted images are referenced in place.
func (r *Renderer) image(ctx context.Context, block types.Block) (string, error) {
	if fileURL := block.Content.FileURL(); fileURL != "" {
		a, err := r.assets.Materialize(ctx, block.ID, fileURL, asset.KindImage, asset.AlwaysFetch)
		if err != nil {
			return "", err
		}
		return centeredImage(a.PublicPath), nil
	}
	if external := block.Content.ExternalURL(); external != "" {
		return centeredImage(external), nil
	}
	return "", ErrMissingFile
}

func centeredImage(src string) string {
	if strings.Contains(src, "#") {
		return "![](" + src + ")"
	}
	return "![](" + src + "#center)"
}

// video downloads a hosted video once and renders an HTML player. A video
// without a hosted file renders nothing.
func (r *Renderer) video(ctx context.Context, block types.Block) (string, error) {
	fileURL := block.Content.FileURL()
	if fileURL == "" {
		return "", nil
	}
	a, err := r.assets.Materialize(ctx, block.ID, fileURL, asset.KindVideo, asset.FetchOnce)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`<video controls width="100%%"><source src="%s"></video>`, a.PublicPath), nil
}
