// Package domain contains the core crawl entities and rules.
package domain

import "time"

// Tweet represents a single Twitter/X post reconstructed from the
// platform's internal GraphQL payloads.
type Tweet struct {
	ID                int64             `json:"id"`
	CreatedAt         time.Time         `json:"created_at"`
	FullText          string            `json:"full_text"`
	DisplayTextRange  [2]int            `json:"display_text_range"`
	Lang              string            `json:"lang"`
	PossiblySensitive bool              `json:"possibly_sensitive"`
	Statistics        TweetStatistics   `json:"statistics"`
	ViewerStatus      *TweetViewerState `json:"viewer_status,omitempty"`
	Entities          TweetEntities     `json:"entities"`
	Author            *TwitterUser      `json:"author"`

	// ConversationThreads holds the reply/quote forest below this tweet.
	// The outer slice is one element per distinct thread, the inner slice
	// keeps the server's ordering within a thread.
	ConversationThreads [][]ThreadItem `json:"conversation_threads"`
}

// Text returns the user-facing text: FullText sliced to DisplayTextRange.
// The range is expressed in code points, so trailing media/card URLs the
// platform appends past the range are excluded.
func (t *Tweet) Text() string {
	runes := []rune(t.FullText)
	start, end := t.DisplayTextRange[0], t.DisplayTextRange[1]
	if start < 0 || end > len(runes) || start > end {
		return t.FullText
	}
	return string(runes[start:end])
}

func (t *Tweet) threadItem() {}

// TweetStatistics bundles engagement counts. Counts absent from the
// payload default to zero.
type TweetStatistics struct {
	Views      int `json:"views"`
	Bookmarks  int `json:"bookmarks"`
	Favourites int `json:"favourites"`
	Quotes     int `json:"quotes"`
	Replies    int `json:"replies"`
	Retweets   int `json:"retweets"`
}

// TweetViewerState bundles the viewer-relative flags. It is nil on
// unauthenticated crawls.
type TweetViewerState struct {
	Bookmarked bool `json:"bookmarked"`
	Favourited bool `json:"favourited"`
	Retweeted  bool `json:"retweeted"`
}

// TweetTombstone stands in for content the platform withheld from the
// viewer (deleted, age-restricted, rule-violating). It occupies a regular
// slot in a conversation thread.
type TweetTombstone struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Tombstone bool   `json:"tombstone"`

	ConversationThreads [][]ThreadItem `json:"conversation_threads,omitempty"`
}

func (t *TweetTombstone) threadItem() {}

// ThreadItem is one slot in a conversation thread: either a *Tweet or a
// *TweetTombstone.
type ThreadItem interface {
	threadItem()
}
