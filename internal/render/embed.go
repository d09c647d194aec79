// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"
	"net/url"
	"strings"
)

// ResolveEmbed renders an embed URL. YouTube links become a youtube
// shortcode; anything else, including a YouTube link without a usable
// video ID, becomes a generic iframe.
func ResolveEmbed(rawURL string) string {
	if id, ok := youtubeID(rawURL); ok {
		return fmt.Sprintf("{{< youtube %s >}}", id)
	}
	return fmt.Sprintf(`<iframe src="%s" width="100%%" height="480" frameborder="0" allowfullscreen></iframe>`, rawURL)
}

// youtubeID extracts the video ID from a youtu.be short link path or the
// "v" query parameter of a youtube.com URL.
func youtubeID(rawURL string) (string, bool) {
	if !strings.Contains(rawURL, "youtube.com") && !strings.Contains(rawURL, "youtu.be") {
		return "", false
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}

	var id string
	if u.Hostname() == "youtu.be" {
		id = strings.TrimPrefix(u.Path, "/")
	} else {
		id = u.Query().Get("v")
	}
	if id == "" {
		return "", false
	}
	return id, true
}
