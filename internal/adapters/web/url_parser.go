package web

import (
	"regexp"

	"github.com/Sibuxiangx/tweet-crawler/internal/domain"
)

// statusURLRegex matches Twitter/X status URLs and extracts the username
// and tweet ID. Accepts twitter.com, x.com, and mobile.twitter.com.
// Query parameters and trailing path segments are ignored.
var statusURLRegex = regexp.MustCompile(
	`^https?://(twitter\.com|x\.com|mobile\.twitter\.com)/(\w+)/status/(\d+)`,
)

// ParseStatusURL extracts the username and tweet ID from a Twitter/X
// status URL. Returns domain.ErrInvalidURL if the URL format is invalid.
func ParseStatusURL(url string) (username string, tweetID string, err error) {
	matches := statusURLRegex.FindStringSubmatch(url)
	if matches == nil || len(matches) < 4 {
		return "", "", domain.ErrInvalidURL
	}
	return matches[2], matches[3], nil
}
