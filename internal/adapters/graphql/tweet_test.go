package graphql

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Sibuxiangx/tweet-crawler/internal/domain"
	"github.com/Sibuxiangx/tweet-crawler/test/fixtures"
)

func TestParseTweetResult_PreservesLargeIDs(t *testing.T) {
	// IDs exceed float64 precision; a float round-trip would corrupt
	// the low digits.
	node := fixtures.TweetNode(1846309399425557093, "big id", fixtures.UserNode(1, "alice", "Alice"))

	item, err := ParseTweetResult([]byte(node), "")
	require.NoError(t, err)
	require.EqualValues(t, 1846309399425557093, item.(*domain.Tweet).ID)
}

func TestParseTweetResult_VisibilityWrapper(t *testing.T) {
	node := fixtures.VisibilityWrappedNode(
		fixtures.TweetNode(300, "gated but visible", fixtures.UserNode(1, "alice", "Alice")),
	)

	item, err := ParseTweetResult([]byte(node), "")
	require.NoError(t, err)

	tweet := item.(*domain.Tweet)
	require.EqualValues(t, 300, tweet.ID)
	require.Equal(t, "gated but visible", tweet.FullText)
}

func TestParseTweetResult_TombstoneFallbackText(t *testing.T) {
	node := `{"__typename": "TweetUnavailable"}`

	item, err := ParseTweetResult([]byte(node), "conversationthread-5-tombstone-42")
	require.NoError(t, err)

	stone := item.(*domain.TweetTombstone)
	require.True(t, stone.Tombstone)
	require.EqualValues(t, 42, stone.ID)
	require.NotEmpty(t, stone.Text)
}

func TestParseTweetResult_MissingLegacy(t *testing.T) {
	node := `{"__typename": "Tweet", "rest_id": "100"}`

	_, err := ParseTweetResult([]byte(node), "")
	var structural *domain.StructuralParseError
	require.ErrorAs(t, err, &structural)
}

func TestParseTweetResult_MissingCreatedAt(t *testing.T) {
	node := `{
		"__typename": "Tweet",
		"rest_id": "100",
		"legacy": {"full_text": "no timestamp"}
	}`

	_, err := ParseTweetResult([]byte(node), "")
	var structural *domain.StructuralParseError
	require.ErrorAs(t, err, &structural)
}

func TestBuildTweet_DisplayRangeInCodePoints(t *testing.T) {
	// Four emoji plus a trailing media URL. The range is expressed in
	// code points, not bytes, and excludes the appended URL.
	node := fmt.Sprintf(`{
		"__typename": "Tweet",
		"rest_id": "100",
		"legacy": {
			"created_at": %q,
			"full_text": "🎉🎉🎉🎉 https://t.co/abc",
			"display_text_range": [0, 4]
		}
	}`, fixtures.CreatedAt)

	item, err := ParseTweetResult([]byte(node), "")
	require.NoError(t, err)
	require.Equal(t, "🎉🎉🎉🎉", item.(*domain.Tweet).Text())
}

func TestBuildTweet_DefaultRangeSpansWholeText(t *testing.T) {
	node := fmt.Sprintf(`{
		"__typename": "Tweet",
		"rest_id": "100",
		"legacy": {
			"created_at": %q,
			"full_text": "no range 🎉"
		}
	}`, fixtures.CreatedAt)

	item, err := ParseTweetResult([]byte(node), "")
	require.NoError(t, err)
	require.Equal(t, "no range 🎉", item.(*domain.Tweet).Text())
}

func TestBuildTweet_ViewsAndViewerState(t *testing.T) {
	node := fmt.Sprintf(`{
		"__typename": "Tweet",
		"rest_id": "100",
		"views": {"count": "12345"},
		"legacy": {
			"created_at": %q,
			"full_text": "counted",
			"favorite_count": 9,
			"bookmarked": true,
			"favorited": false,
			"retweeted": false
		}
	}`, fixtures.CreatedAt)

	item, err := ParseTweetResult([]byte(node), "")
	require.NoError(t, err)

	tweet := item.(*domain.Tweet)
	require.Equal(t, 12345, tweet.Statistics.Views)
	require.Equal(t, 9, tweet.Statistics.Favourites)
	require.NotNil(t, tweet.ViewerStatus)
	require.True(t, tweet.ViewerStatus.Bookmarked)
}

func TestBuildTweet_ViewsAbsentDefaultsToZero(t *testing.T) {
	node := fmt.Sprintf(`{
		"__typename": "Tweet",
		"rest_id": "100",
		"legacy": {"created_at": %q, "full_text": "x"}
	}`, fixtures.CreatedAt)

	item, err := ParseTweetResult([]byte(node), "")
	require.NoError(t, err)

	tweet := item.(*domain.Tweet)
	require.Zero(t, tweet.Statistics.Views)
	require.Nil(t, tweet.ViewerStatus, "no viewer flags means nil state")
}

func TestParseTweetEntities_InlineEntities(t *testing.T) {
	node := fmt.Sprintf(`{
		"__typename": "Tweet",
		"rest_id": "100",
		"legacy": {
			"created_at": %q,
			"full_text": "#go $TWTR @alice https://t.co/abc",
			"entities": {
				"hashtags": [{"indices": [0, 3], "text": "go"}],
				"symbols": [{"indices": [4, 9], "text": "TWTR"}],
				"user_mentions": [{"id_str": "1", "name": "Alice", "screen_name": "alice", "indices": [10, 16]}],
				"urls": [{"indices": [17, 33], "url": "https://t.co/abc", "display_url": "example.com", "expanded_url": "https://example.com"}]
			}
		}
	}`, fixtures.CreatedAt)

	item, err := ParseTweetResult([]byte(node), "")
	require.NoError(t, err)

	ents := item.(*domain.Tweet).Entities
	require.Len(t, ents.Hashtags, 1)
	require.Equal(t, "go", ents.Hashtags[0].Text)
	require.Equal(t, domain.Indices{0, 3}, ents.Hashtags[0].Indices)
	require.Len(t, ents.Symbols, 1)
	require.Len(t, ents.UserMentions, 1)
	require.EqualValues(t, 1, ents.UserMentions[0].ID)
	require.Len(t, ents.URLs, 1)
	require.Equal(t, "https://example.com", ents.URLs[0].ExpandedURL)
}

func TestParseMedia_VideoTakesLastVariant(t *testing.T) {
	// Variants arrive ordered by ascending bitrate; the last one is the
	// highest quality.
	node := fmt.Sprintf(`{
		"__typename": "Tweet",
		"rest_id": "100",
		"legacy": {
			"created_at": %q,
			"full_text": "watch https://t.co/vid",
			"extended_entities": {
				"media": [{
					"type": "video",
					"indices": [6, 22],
					"media_url_https": "https://pbs.example/thumb.jpg",
					"display_url": "pic.x.com/vid",
					"expanded_url": "https://x.com/alice/status/100/video/1",
					"original_info": {"width": 1280, "height": 720},
					"video_info": {
						"duration_millis": 30500,
						"variants": [
							{"bitrate": 256000, "content_type": "video/mp4", "url": "https://video.example/low.mp4"},
							{"bitrate": 832000, "content_type": "video/mp4", "url": "https://video.example/mid.mp4"},
							{"bitrate": 2176000, "content_type": "video/mp4", "url": "https://video.example/high.mp4"}
						]
					}
				}]
			}
		}
	}`, fixtures.CreatedAt)

	item, err := ParseTweetResult([]byte(node), "")
	require.NoError(t, err)

	media := item.(*domain.Tweet).Entities.Media
	require.Len(t, media, 1)
	require.Equal(t, domain.MediaVideo, media[0].Type)
	require.Equal(t, "https://video.example/high.mp4", media[0].URL)
	require.Equal(t, 30500*time.Millisecond, media[0].Duration)
	require.Equal(t, 1280, media[0].Width)
	require.Equal(t, 720, media[0].Height)
}

func TestParseMedia_PhotoUsesMediaURL(t *testing.T) {
	node := fmt.Sprintf(`{
		"__typename": "Tweet",
		"rest_id": "100",
		"legacy": {
			"created_at": %q,
			"full_text": "pic https://t.co/p",
			"entities": {
				"media": [{
					"type": "photo",
					"indices": [4, 18],
					"media_url_https": "https://pbs.example/full.jpg",
					"original_info": {"width": 640, "height": 480}
				}]
			}
		}
	}`, fixtures.CreatedAt)

	item, err := ParseTweetResult([]byte(node), "")
	require.NoError(t, err)

	media := item.(*domain.Tweet).Entities.Media
	require.Len(t, media, 1)
	require.Equal(t, domain.MediaPhoto, media[0].Type)
	require.Equal(t, "https://pbs.example/full.jpg", media[0].URL)
	require.Zero(t, media[0].Duration)
}

func TestEntryIDSuffix(t *testing.T) {
	cases := map[string]int64{
		"tweet-100":                        100,
		"conversationthread-5":             5,
		"conversationthread-5-tombstone-7": 7,
		"":                                 0,
		"promoted":                         0,
	}
	for entryID, want := range cases {
		require.Equal(t, want, entryIDSuffix(entryID), "entryID %q", entryID)
	}
}
