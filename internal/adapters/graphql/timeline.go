package graphql

import (
	"encoding/json"
	"strings"

	"github.com/Sibuxiangx/tweet-crawler/internal/domain"
)

// conversationPayload covers both TweetDetail responses (instruction
// stream) and guest TweetResultByRestId responses (bare result).
type conversationPayload struct {
	Data struct {
		ThreadedConversation struct {
			Instructions []instruction `json:"instructions"`
		} `json:"threaded_conversation_with_injections_v2"`
		TweetResult *struct {
			Result json.RawMessage `json:"result"`
		} `json:"tweetResult"`
	} `json:"data"`
}

// ParseConversation converts one TweetDetail (or guest TweetResultByRestId)
// response body into the root tweet/tombstone plus its thread forest.
func ParseConversation(body []byte) (domain.ThreadItem, error) {
	var payload conversationPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, domain.NewStructuralParseError("TweetDetail", "decode response: %w", err)
	}

	// Guest lookups return a bare tweet node with no thread instructions.
	if payload.Data.TweetResult != nil {
		if len(payload.Data.TweetResult.Result) == 0 {
			return nil, domain.NewStructuralParseError("TweetResultByRestId", "empty tweet result")
		}
		return ParseTweetResult(payload.Data.TweetResult.Result, "")
	}

	add, ok := findAddEntries(payload.Data.ThreadedConversation.Instructions)
	if !ok {
		return nil, domain.NewStructuralParseError("TweetDetail", "no %s instruction", instructionAddEntries)
	}
	if len(add.Entries) == 0 {
		return nil, domain.NewStructuralParseError("TweetDetail", "%s instruction carries no entries", instructionAddEntries)
	}

	root, err := parseRootEntry(add.Entries[0])
	if err != nil {
		return nil, err
	}

	threads, err := parseThreads(add.Entries[1:])
	if err != nil {
		return nil, err
	}

	switch node := root.(type) {
	case *domain.Tweet:
		node.ConversationThreads = threads
	case *domain.TweetTombstone:
		node.ConversationThreads = threads
	}
	return root, nil
}

func findAddEntries(instructions []instruction) (instruction, bool) {
	for _, ins := range instructions {
		if ins.Type == instructionAddEntries {
			return ins, true
		}
	}
	return instruction{}, false
}

// parseRootEntry classifies the first entry, which is always the looked-up
// tweet itself.
func parseRootEntry(e entry) (domain.ThreadItem, error) {
	ic := e.Content.ItemContent
	if ic == nil || ic.TweetResults == nil || len(ic.TweetResults.Result) == 0 {
		return nil, domain.NewStructuralParseError("TweetDetail", "first entry %q is not a tweet node", e.EntryID)
	}
	return ParseTweetResult(ic.TweetResults.Result, e.EntryID)
}

// parseThreads assembles the conversation forest from the remaining
// entries. "tweet-" entries extend the main thread; each
// "conversationthread-" entry opens a distinct thread; anything else
// (cursors, prompts, ads) is skipped.
func parseThreads(entries []entry) ([][]domain.ThreadItem, error) {
	var main []domain.ThreadItem
	var rest [][]domain.ThreadItem

	for _, e := range entries {
		switch {
		case strings.HasPrefix(e.EntryID, "tweet-"):
			segment, err := entrySegment(e)
			if err != nil {
				return nil, err
			}
			main = append(main, segment...)
		case strings.HasPrefix(e.EntryID, "conversationthread-"):
			segment, err := entrySegment(e)
			if err != nil {
				return nil, err
			}
			if len(segment) > 0 {
				rest = append(rest, segment)
			}
		}
	}

	var threads [][]domain.ThreadItem
	if len(main) > 0 {
		threads = append(threads, main)
	}
	return append(threads, rest...), nil
}

// entrySegment extracts the ordered tweet/tombstone items of one entry.
// A plain item yields a one-element segment; a module yields its stacked
// items with pagination cursors filtered out.
func entrySegment(e entry) ([]domain.ThreadItem, error) {
	if ic := e.Content.ItemContent; ic != nil {
		if ic.TweetResults == nil || len(ic.TweetResults.Result) == 0 {
			return nil, nil
		}
		item, err := ParseTweetResult(ic.TweetResults.Result, e.EntryID)
		if err != nil {
			return nil, err
		}
		return []domain.ThreadItem{item}, nil
	}

	var segment []domain.ThreadItem
	for _, mi := range e.Content.Items {
		ic := mi.Item.ItemContent
		if ic == nil || ic.isCursor() {
			continue
		}
		if ic.TweetResults == nil || len(ic.TweetResults.Result) == 0 {
			continue
		}
		item, err := ParseTweetResult(ic.TweetResults.Result, mi.EntryID)
		if err != nil {
			return nil, err
		}
		segment = append(segment, item)
	}
	return segment, nil
}
