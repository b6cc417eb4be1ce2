package domain

import "time"

// TweetEntities groups the inline entities of a tweet. Every slice is
// optional and ordered by appearance.
type TweetEntities struct {
	Hashtags     []EntityHashtag     `json:"hashtags,omitempty"`
	Media        []EntityMedia       `json:"media,omitempty"`
	Symbols      []EntitySymbol      `json:"symbols,omitempty"`
	Timestamps   []EntityTimestamp   `json:"timestamps,omitempty"`
	URLs         []EntityURL         `json:"urls,omitempty"`
	UserMentions []EntityUserMention `json:"user_mentions,omitempty"`
}

// Indices is a half-open [start, end) code-point offset pair into the
// tweet's FullText.
type Indices [2]int

// MediaType discriminates the media union.
type MediaType string

const (
	MediaPhoto       MediaType = "photo"
	MediaVideo       MediaType = "video"
	MediaAnimatedGIF MediaType = "animated_gif"
)

// EntityMedia is one attached photo, video or animated GIF. For videos and
// GIFs, URL points at the highest-quality variant; Width/Height/Duration
// are populated when the payload carries them.
type EntityMedia struct {
	Type        MediaType     `json:"type"`
	Indices     Indices       `json:"indices"`
	URL         string        `json:"url"`
	DisplayURL  string        `json:"display_url"`
	ExpandedURL string        `json:"expanded_url"`
	Width       int           `json:"width,omitempty"`
	Height      int           `json:"height,omitempty"`
	Duration    time.Duration `json:"duration,omitempty"`
}

// EntityHashtag is one #tag occurrence.
type EntityHashtag struct {
	Indices Indices `json:"indices"`
	Text    string  `json:"text"`
}

// EntitySymbol is one $cashtag occurrence.
type EntitySymbol struct {
	Indices Indices `json:"indices"`
	Text    string  `json:"text"`
}

// EntityTimestamp is an inline timestamp reference (video chapters etc.).
type EntityTimestamp struct {
	Indices Indices `json:"indices"`
}

// EntityURL is one shortened link with its display/expanded pair.
type EntityURL struct {
	Indices     Indices `json:"indices"`
	URL         string  `json:"url"`
	DisplayURL  string  `json:"display_url"`
	ExpandedURL string  `json:"expanded_url"`
}

// EntityUserMention is one @mention occurrence.
type EntityUserMention struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	ScreenName string  `json:"screen_name"`
	Indices    Indices `json:"indices"`
}
