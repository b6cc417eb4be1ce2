package graphql

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Sibuxiangx/tweet-crawler/internal/domain"
)

const tombstoneFallbackText = "This Tweet is unavailable"

// ParseTweetResult builds a Tweet or TweetTombstone from a raw tweet
// node. entryID supplies the numeric identifier for tombstones, whose
// payload carries no id of its own.
func ParseTweetResult(raw json.RawMessage, entryID string) (domain.ThreadItem, error) {
	var r tweetResult
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, domain.NewStructuralParseError("Tweet", "decode tweet node: %w", err)
	}

	switch r.TypeName {
	case "TweetTombstone", "TweetUnavailable":
		text := tombstoneFallbackText
		if r.Tombstone != nil && r.Tombstone.Text.Text != "" {
			text = r.Tombstone.Text.Text
		}
		return &domain.TweetTombstone{
			ID:        entryIDSuffix(entryID),
			Text:      text,
			Tombstone: true,
		}, nil
	case "TweetWithVisibilityResults":
		// Age/sensitivity gate: the real tweet sits one level deeper.
		if len(r.Tweet) == 0 {
			return nil, domain.NewStructuralParseError("Tweet", "visibility wrapper without inner tweet")
		}
		return ParseTweetResult(r.Tweet, entryID)
	}

	if r.Legacy == nil {
		return nil, domain.NewStructuralParseError("Tweet", "tweet node %q without legacy fields", r.TypeName)
	}
	return buildTweet(r)
}

func buildTweet(r tweetResult) (*domain.Tweet, error) {
	idStr := firstNonEmpty(r.RestID, r.Legacy.IDStr)
	id, err := parseID(idStr)
	if err != nil {
		return nil, domain.NewStructuralParseError("Tweet", "missing rest_id")
	}
	if r.Legacy.CreatedAt == "" || r.Legacy.FullText == nil {
		return nil, domain.NewStructuralParseError("Tweet", "tweet %d missing created_at or full_text", id)
	}
	createdAt, err := time.Parse(createdAtLayout, r.Legacy.CreatedAt)
	if err != nil {
		return nil, domain.NewStructuralParseError("Tweet", "created_at %q: %w", r.Legacy.CreatedAt, err)
	}

	fullText := *r.Legacy.FullText
	textRange := [2]int{0, utf8.RuneCountInString(fullText)}
	if len(r.Legacy.DisplayTextRange) >= 2 {
		textRange[0], textRange[1] = r.Legacy.DisplayTextRange[0], r.Legacy.DisplayTextRange[1]
	}

	tweet := &domain.Tweet{
		ID:                id,
		CreatedAt:         createdAt,
		FullText:          fullText,
		DisplayTextRange:  textRange,
		Lang:              r.Legacy.Lang,
		PossiblySensitive: r.Legacy.PossiblySensitive,
		Statistics: domain.TweetStatistics{
			Views:      parseViews(r.Views.Count),
			Bookmarks:  r.Legacy.BookmarkCount,
			Favourites: r.Legacy.FavoriteCount,
			Quotes:     r.Legacy.QuoteCount,
			Replies:    r.Legacy.ReplyCount,
			Retweets:   r.Legacy.RetweetCount,
		},
		ViewerStatus: parseViewerState(r.Legacy),
		Entities:     parseTweetEntities(r.Legacy),
	}

	if len(r.Core.UserResults.Result) > 0 {
		author, err := ParseUserResult(r.Core.UserResults.Result)
		if err != nil {
			return nil, err
		}
		tweet.Author = author
	}
	return tweet, nil
}

// parseViews parses the views counter, a decimal string living outside
// legacy. Absent or malformed counts default to zero.
func parseViews(count string) int {
	if count == "" {
		return 0
	}
	n, err := strconv.Atoi(count)
	if err != nil {
		return 0
	}
	return n
}

func parseViewerState(legacy *tweetLegacy) *domain.TweetViewerState {
	if legacy.Bookmarked == nil && legacy.Favorited == nil && legacy.Retweeted == nil {
		return nil
	}
	state := &domain.TweetViewerState{}
	if legacy.Bookmarked != nil {
		state.Bookmarked = *legacy.Bookmarked
	}
	if legacy.Favorited != nil {
		state.Favourited = *legacy.Favorited
	}
	if legacy.Retweeted != nil {
		state.Retweeted = *legacy.Retweeted
	}
	return state
}

func parseTweetEntities(legacy *tweetLegacy) domain.TweetEntities {
	var ents domain.TweetEntities

	for _, h := range legacy.Entities.Hashtags {
		ents.Hashtags = append(ents.Hashtags, domain.EntityHashtag{
			Indices: toIndices(h.Indices),
			Text:    h.Text,
		})
	}
	for _, s := range legacy.Entities.Symbols {
		ents.Symbols = append(ents.Symbols, domain.EntitySymbol{
			Indices: toIndices(s.Indices),
			Text:    s.Text,
		})
	}
	for _, ts := range legacy.Entities.Timestamps {
		ents.Timestamps = append(ents.Timestamps, domain.EntityTimestamp{
			Indices: toIndices(ts.Indices),
		})
	}
	for _, u := range legacy.Entities.URLs {
		ents.URLs = append(ents.URLs, domain.EntityURL{
			Indices:     toIndices(u.Indices),
			URL:         u.URL,
			DisplayURL:  u.DisplayURL,
			ExpandedURL: u.ExpandedURL,
		})
	}
	for _, m := range legacy.Entities.UserMentions {
		mentionID, err := parseID(m.IDStr)
		if err != nil {
			continue
		}
		ents.UserMentions = append(ents.UserMentions, domain.EntityUserMention{
			ID:         mentionID,
			Name:       m.Name,
			ScreenName: m.ScreenName,
			Indices:    toIndices(m.Indices),
		})
	}

	// Videos and GIFs only carry video_info under extended_entities.
	media := legacy.ExtendedEntities.Media
	if len(media) == 0 {
		media = legacy.Entities.Media
	}
	for _, m := range media {
		ents.Media = append(ents.Media, parseMedia(m))
	}
	return ents
}

// parseMedia dispatches on the media type discriminant. For videos and
// GIFs the URL is the last variants entry, which the platform orders by
// ascending bitrate.
func parseMedia(m rawMedia) domain.EntityMedia {
	media := domain.EntityMedia{
		Type:        domain.MediaType(m.Type),
		Indices:     toIndices(m.Indices),
		URL:         m.MediaURLHTTPS,
		DisplayURL:  m.DisplayURL,
		ExpandedURL: m.ExpandedURL,
		Width:       m.OriginalInfo.Width,
		Height:      m.OriginalInfo.Height,
	}
	switch media.Type {
	case domain.MediaVideo, domain.MediaAnimatedGIF:
		if m.VideoInfo != nil {
			if n := len(m.VideoInfo.Variants); n > 0 {
				media.URL = m.VideoInfo.Variants[n-1].URL
			}
			media.Duration = time.Duration(m.VideoInfo.DurationMillis) * time.Millisecond
		}
	}
	return media
}

// entryIDSuffix extracts the trailing numeric token from an entry id such
// as "tweet-100" or "conversationthread-5-tombstone-42".
func entryIDSuffix(entryID string) int64 {
	if entryID == "" {
		return 0
	}
	parts := strings.Split(entryID, "-")
	for i := len(parts) - 1; i >= 0; i-- {
		if id, err := strconv.ParseInt(parts[i], 10, 64); err == nil {
			return id
		}
	}
	return 0
}
