// Package fixtures builds GraphQL response bodies shaped like the web
// app's TweetDetail, TweetResultByRestId and Followers payloads.
package fixtures

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// CreatedAt is the fixed timestamp used across fixtures, in the
// platform's textual layout.
const CreatedAt = "Wed Oct 10 20:19:24 +0000 2018"

// UserNode builds a legacy-schema user node.
func UserNode(id int64, screenName, name string) string {
	return fmt.Sprintf(`{
		"__typename": "User",
		"rest_id": "%d",
		"is_blue_verified": false,
		"legacy": {
			"name": %q,
			"screen_name": %q,
			"created_at": %q,
			"description": "test account",
			"followers_count": 10,
			"friends_count": 5,
			"listed_count": 1,
			"favourites_count": 7,
			"statuses_count": 42,
			"profile_image_url_https": "https://pbs.example/%d.jpg"
		}
	}`, id, name, screenName, CreatedAt, id)
}

// NewSchemaUserNode builds a user node in the newer schema generation,
// with the legacy fields relocated to sibling maps.
func NewSchemaUserNode(id int64, screenName, name string) string {
	return fmt.Sprintf(`{
		"__typename": "User",
		"rest_id": "%d",
		"core": {
			"created_at": %q,
			"name": %q,
			"screen_name": %q
		},
		"avatar": {"image_url": "https://pbs.example/%d.jpg"},
		"verification": {"verified": true},
		"privacy": {"protected": false},
		"location": {"location": "Berlin"},
		"relationship_perspectives": {"followed_by": true, "following": false},
		"dm_permissions": {"can_dm": true},
		"is_blue_verified": false,
		"legacy": {
			"description": "new schema account",
			"followers_count": 99,
			"friends_count": 3,
			"statuses_count": 5
		}
	}`, id, CreatedAt, name, screenName, id)
}

// TweetNode builds a plain tweet node authored by the given user node.
// The display text range spans the whole text in code points.
func TweetNode(id int64, text, userNode string) string {
	return fmt.Sprintf(`{
		"__typename": "Tweet",
		"rest_id": "%d",
		"core": {"user_results": {"result": %s}},
		"views": {"count": "250"},
		"legacy": {
			"created_at": %q,
			"full_text": %q,
			"display_text_range": [0, %d],
			"lang": "en",
			"bookmark_count": 1,
			"favorite_count": 3,
			"quote_count": 0,
			"reply_count": 1,
			"retweet_count": 2
		}
	}`, id, userNode, CreatedAt, text, utf8.RuneCountInString(text))
}

// TombstoneNode builds a withheld-content node with the given notice.
func TombstoneNode(text string) string {
	return fmt.Sprintf(`{
		"__typename": "TweetTombstone",
		"tombstone": {"text": {"text": %q}}
	}`, text)
}

// VisibilityWrappedNode wraps a tweet node in the interstitial the
// platform adds for age/sensitivity gated content.
func VisibilityWrappedNode(inner string) string {
	return fmt.Sprintf(`{
		"__typename": "TweetWithVisibilityResults",
		"tweet": %s
	}`, inner)
}

// TweetEntry wraps a tweet node as a top-level "tweet-<id>" entry.
func TweetEntry(id int64, node string) string {
	return fmt.Sprintf(`{
		"entryId": "tweet-%d",
		"content": {
			"entryType": "TimelineTimelineItem",
			"itemContent": {
				"itemType": "TimelineTweet",
				"tweet_results": {"result": %s}
			}
		}
	}`, id, node)
}

// ThreadEntry wraps tweet nodes in a "conversationthread-<id>" module,
// one stacked item per node.
func ThreadEntry(threadID int64, nodes ...string) string {
	items := make([]string, 0, len(nodes))
	for i, node := range nodes {
		items = append(items, fmt.Sprintf(`{
			"entryId": "conversationthread-%d-tweet-%d",
			"item": {
				"itemContent": {
					"itemType": "TimelineTweet",
					"tweet_results": {"result": %s}
				}
			}
		}`, threadID, i+1, node))
	}
	return fmt.Sprintf(`{
		"entryId": "conversationthread-%d",
		"content": {
			"entryType": "TimelineTimelineModule",
			"items": [%s]
		}
	}`, threadID, strings.Join(items, ","))
}

// ThreadCursorItem is a "show more replies" cursor stacked inside a
// thread module.
func ThreadCursorItem(threadID int64) string {
	return fmt.Sprintf(`{
		"entryId": "conversationthread-%d-cursor-showmore",
		"item": {
			"itemContent": {
				"itemType": "TimelineTimelineCursor",
				"cursorType": "ShowMore",
				"value": "opaque"
			}
		}
	}`, threadID)
}

// CursorEntry is a top-level pagination cursor entry.
func CursorEntry(direction string) string {
	return fmt.Sprintf(`{
		"entryId": "cursor-%s-1",
		"content": {
			"entryType": "TimelineTimelineCursor",
			"cursorType": %q,
			"value": "opaque"
		}
	}`, strings.ToLower(direction), direction)
}

// TweetDetailResponse assembles a TweetDetail body from pre-built
// entries.
func TweetDetailResponse(entries ...string) string {
	return fmt.Sprintf(`{
		"data": {
			"threaded_conversation_with_injections_v2": {
				"instructions": [
					{"type": "TimelineAddEntries", "entries": [%s]}
				]
			}
		}
	}`, strings.Join(entries, ","))
}

// GuestTweetResponse assembles a TweetResultByRestId body carrying one
// bare tweet node.
func GuestTweetResponse(node string) string {
	return fmt.Sprintf(`{
		"data": {"tweetResult": {"result": %s}}
	}`, node)
}

// UserEntry wraps a user node as a "user-<id>" timeline entry.
func UserEntry(id int64, node string) string {
	return fmt.Sprintf(`{
		"entryId": "user-%d",
		"content": {
			"entryType": "TimelineTimelineItem",
			"itemContent": {
				"itemType": "TimelineUser",
				"user_results": {"result": %s}
			}
		}
	}`, id, node)
}

// UserListResponse assembles a Followers/Following body. When terminal
// is set, a bottom TimelineTerminateTimeline instruction is appended.
func UserListResponse(terminal bool, entries ...string) string {
	instructions := []string{
		fmt.Sprintf(`{"type": "TimelineAddEntries", "entries": [%s]}`, strings.Join(entries, ",")),
	}
	if terminal {
		instructions = append(instructions, `{"type": "TimelineTerminateTimeline", "direction": "Bottom"}`)
	}
	return fmt.Sprintf(`{
		"data": {
			"user": {
				"result": {
					"timeline": {
						"timeline": {
							"instructions": [%s]
						}
					}
				}
			}
		}
	}`, strings.Join(instructions, ","))
}
