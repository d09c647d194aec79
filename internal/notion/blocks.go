// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notion

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/pdiddy/notion-export/pkg/types"
)

// childrenResponse is one page of GET /blocks/{id}/children.
type childrenResponse struct {
	Results    []apiBlock `json:"results"`
	HasMore    bool       `json:"has_more"`
	NextCursor *string    `json:"next_cursor"`
}

// apiBlock is a block as the API returns it: the payload sits under a key
// named after the block type.
type apiBlock struct {
	ID          string
	Type        string
	HasChildren bool
	Payload     json.RawMessage
}

func (b *apiBlock) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	var head struct {
		ID          string `json:"id"`
		Type        string `json:"type"`
		HasChildren bool   `json:"has_children"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	b.ID = head.ID
	b.Type = head.Type
	b.HasChildren = head.HasChildren
	b.Payload = fields[head.Type]
	return nil
}

// toBlock decodes the type payload into a Block without children.
func (b apiBlock) toBlock() (types.Block, error) {
	block := types.Block{
		ID:          b.ID,
		Type:        types.BlockType(b.Type),
		HasChildren: b.HasChildren,
	}
	if len(b.Payload) > 0 && string(b.Payload) != "null" {
		if err := json.Unmarshal(b.Payload, &block.Content); err != nil {
			return types.Block{}, fmt.Errorf("decoding %s payload of block %s: %w", b.Type, b.ID, err)
		}
	}
	return block, nil
}

// FetchChildren returns the ordered child blocks of blockID. It follows the
// pagination cursor until the API reports no more results and, for every
// block flagged as having children, fetches that subtree before moving on
// to the block's next sibling. Failures are not retried here beyond the
// transport's 429 handling; they abort the whole fetch.
func (c *Client) FetchChildren(ctx context.Context, blockID string) ([]types.Block, error) {
	blocks := []types.Block{}
	cursor := ""
	for {
		page, err := c.childrenPage(ctx, blockID, cursor)
		if err != nil {
			return nil, err
		}

		for _, item := range page.Results {
			block, err := item.toBlock()
			if err != nil {
				return nil, err
			}
			if item.HasChildren {
				children, err := c.FetchChildren(ctx, item.ID)
				if err != nil {
					return nil, fmt.Errorf("fetching children of %s: %w", item.ID, err)
				}
				block.Children = children
			}
			blocks = append(blocks, block)
		}

		if !page.HasMore || page.NextCursor == nil || *page.NextCursor == "" {
			return blocks, nil
		}
		cursor = *page.NextCursor
	}
}

func (c *Client) childrenPage(ctx context.Context, blockID, cursor string) (childrenResponse, error) {
	params := url.Values{"page_size": {fmt.Sprintf("%d", pageSize)}}
	if cursor != "" {
		params.Set("start_cursor", cursor)
	}
	path := "/blocks/" + url.PathEscape(blockID) + "/children?" + params.Encode()

	var resp childrenResponse
	if err := c.do(ctx, "GET", path, nil, &resp); err != nil {
		return childrenResponse{}, err
	}
	return resp, nil
}
