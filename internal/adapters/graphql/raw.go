// Package graphql decodes the web app's internal GraphQL payloads into
// domain entities. The platform ships several schema generations at once,
// so the raw shapes here keep everything optional and the construction
// rules decide what is required.
package graphql

import (
	"encoding/json"
	"strconv"

	"github.com/Sibuxiangx/tweet-crawler/internal/domain"
)

// createdAtLayout is the platform's fixed textual timestamp format,
// e.g. "Wed Oct 10 20:19:24 +0000 2018".
const createdAtLayout = "Mon Jan 02 15:04:05 -0700 2006"

// Timeline instruction kinds and entry types observed across schema
// generations.
const (
	instructionAddEntries = "TimelineAddEntries"
	instructionTerminate  = "TimelineTerminateTimeline"

	entryTypeItem   = "TimelineTimelineItem"
	entryTypeModule = "TimelineTimelineModule"
	entryTypeCursor = "TimelineTimelineCursor"
)

type instruction struct {
	Type      string  `json:"type"`
	Direction string  `json:"direction"`
	Entries   []entry `json:"entries"`
}

type entry struct {
	EntryID string       `json:"entryId"`
	Content entryContent `json:"content"`
}

type entryContent struct {
	EntryType   string       `json:"entryType"`
	TypeName    string       `json:"__typename"`
	ItemContent *itemContent `json:"itemContent"`
	Items       []moduleItem `json:"items"`
	CursorType  string       `json:"cursorType"`
}

type moduleItem struct {
	EntryID string `json:"entryId"`
	Item    struct {
		ItemContent *itemContent `json:"itemContent"`
	} `json:"item"`
}

type itemContent struct {
	ItemType     string `json:"itemType"`
	TypeName     string `json:"__typename"`
	TweetResults *struct {
		Result json.RawMessage `json:"result"`
	} `json:"tweet_results"`
	UserResults *struct {
		Result json.RawMessage `json:"result"`
	} `json:"user_results"`
	CursorType string `json:"cursorType"`
}

// isCursor reports whether a module item is a pagination cursor rather
// than a tweet.
func (ic *itemContent) isCursor() bool {
	return ic.ItemType == entryTypeCursor || ic.CursorType != ""
}

// tweetResult is the polymorphic tweet node. The __typename tag selects
// between a plain tweet, a visibility-gated wrapper, and a tombstone.
type tweetResult struct {
	TypeName  string          `json:"__typename"`
	RestID    string          `json:"rest_id"`
	Tweet     json.RawMessage `json:"tweet"`
	Tombstone *struct {
		Text struct {
			Text string `json:"text"`
		} `json:"text"`
	} `json:"tombstone"`
	Core struct {
		UserResults struct {
			Result json.RawMessage `json:"result"`
		} `json:"user_results"`
	} `json:"core"`
	Legacy *tweetLegacy `json:"legacy"`
	Views  struct {
		Count string `json:"count"`
	} `json:"views"`
}

type tweetLegacy struct {
	IDStr             string      `json:"id_str"`
	CreatedAt         string      `json:"created_at"`
	FullText          *string     `json:"full_text"`
	DisplayTextRange  []int       `json:"display_text_range"`
	Lang              string      `json:"lang"`
	PossiblySensitive bool        `json:"possibly_sensitive"`
	BookmarkCount     int         `json:"bookmark_count"`
	FavoriteCount     int         `json:"favorite_count"`
	QuoteCount        int         `json:"quote_count"`
	ReplyCount        int         `json:"reply_count"`
	RetweetCount      int         `json:"retweet_count"`
	Bookmarked        *bool       `json:"bookmarked"`
	Favorited         *bool       `json:"favorited"`
	Retweeted         *bool       `json:"retweeted"`
	Entities          rawEntities `json:"entities"`
	ExtendedEntities  rawEntities `json:"extended_entities"`
}

type rawEntities struct {
	Hashtags []struct {
		Indices []int  `json:"indices"`
		Text    string `json:"text"`
	} `json:"hashtags"`
	Media   []rawMedia `json:"media"`
	Symbols []struct {
		Indices []int  `json:"indices"`
		Text    string `json:"text"`
	} `json:"symbols"`
	Timestamps []struct {
		Indices []int `json:"indices"`
	} `json:"timestamps"`
	URLs []rawURL `json:"urls"`
	UserMentions []struct {
		IDStr      string `json:"id_str"`
		Name       string `json:"name"`
		ScreenName string `json:"screen_name"`
		Indices    []int  `json:"indices"`
	} `json:"user_mentions"`
}

type rawURL struct {
	Indices     []int  `json:"indices"`
	URL         string `json:"url"`
	DisplayURL  string `json:"display_url"`
	ExpandedURL string `json:"expanded_url"`
}

type rawMedia struct {
	Type          string `json:"type"`
	Indices       []int  `json:"indices"`
	URL           string `json:"url"`
	MediaURLHTTPS string `json:"media_url_https"`
	DisplayURL    string `json:"display_url"`
	ExpandedURL   string `json:"expanded_url"`
	OriginalInfo  struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	} `json:"original_info"`
	VideoInfo *struct {
		DurationMillis int `json:"duration_millis"`
		Variants       []struct {
			Bitrate     int    `json:"bitrate"`
			ContentType string `json:"content_type"`
			URL         string `json:"url"`
		} `json:"variants"`
	} `json:"video_info"`
}

// parseID parses one of the platform's decimal-string identifiers.
// Identifiers exceed float64 precision, so they must never round-trip
// through a float.
func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 0 {
		return 0, domain.NewStructuralParseError("ID", "invalid identifier %q", s)
	}
	return id, nil
}

func toIndices(v []int) domain.Indices {
	var idx domain.Indices
	if len(v) >= 2 {
		idx[0], idx[1] = v[0], v[1]
	}
	return idx
}
