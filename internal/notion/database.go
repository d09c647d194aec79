// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notion

import (
	"context"
	"fmt"
	"net/url"

	"github.com/pdiddy/notion-export/internal/frontmatter"
	"github.com/pdiddy/notion-export/pkg/types"
)

type queryRequest struct {
	StartCursor string `json:"start_cursor,omitempty"`
	PageSize    int    `json:"page_size,omitempty"`
}

type queryResponse struct {
	Results []struct {
		ID         string                 `json:"id"`
		Properties frontmatter.Properties `json:"properties"`
	} `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor"`
}

// QueryDatabase lists the pages of a database in API order. With
// caps.Frontmatter set, only published pages are returned and each carries
// its frontmatter; otherwise every page is returned without frontmatter.
// A page ID seen twice across result pages is kept once.
func (c *Client) QueryDatabase(ctx context.Context, databaseID string, caps types.Capabilities) ([]types.Page, error) {
	path := "/databases/" + url.PathEscape(databaseID) + "/query"

	pages := []types.Page{}
	seen := make(map[string]bool)
	req := queryRequest{PageSize: pageSize}
	for {
		var resp queryResponse
		if err := c.do(ctx, "POST", path, req, &resp); err != nil {
			return nil, fmt.Errorf("querying database %s: %w", databaseID, err)
		}

		for _, item := range resp.Results {
			if seen[item.ID] {
				continue
			}
			page := types.Page{
				ID:        item.ID,
				Title:     item.Properties.Title.Text(),
				Published: item.Properties.Published.Checkbox,
			}
			if caps.Frontmatter {
				if !page.Published {
					continue
				}
				page.Frontmatter = frontmatter.FromProperties(item.Properties, caps)
			}
			seen[item.ID] = true
			pages = append(pages, page)
		}

		if !resp.HasMore || resp.NextCursor == nil || *resp.NextCursor == "" {
			return pages, nil
		}
		req.StartCursor = *resp.NextCursor
	}
}
