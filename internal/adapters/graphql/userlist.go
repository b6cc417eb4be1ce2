package graphql

import (
	"encoding/json"

	"github.com/Sibuxiangx/tweet-crawler/internal/domain"
)

// UserPage is one scroll increment of a Followers/Following timeline.
type UserPage struct {
	Users []*domain.TwitterUser

	// Terminal is set when the page carries a TimelineTerminateTimeline
	// instruction for the bottom direction — the server's signal that no
	// further scrolling will load more entries.
	Terminal bool
}

type userListPayload struct {
	Data struct {
		User struct {
			Result struct {
				Timeline struct {
					Timeline struct {
						Instructions []instruction `json:"instructions"`
					} `json:"timeline"`
				} `json:"timeline"`
			} `json:"result"`
		} `json:"user"`
	} `json:"data"`
}

// ParseUserPage converts one Followers/Following response body into a
// batch of users plus the termination marker. operation labels parse
// failures with the GraphQL operation being crawled.
func ParseUserPage(body []byte, operation string) (*UserPage, error) {
	var payload userListPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, domain.NewStructuralParseError(operation, "decode response: %w", err)
	}

	instructions := payload.Data.User.Result.Timeline.Timeline.Instructions
	if len(instructions) == 0 {
		return nil, domain.NewStructuralParseError(operation, "response carries no timeline instructions")
	}

	page := &UserPage{}
	for _, ins := range instructions {
		if ins.Type == instructionTerminate && ins.Direction == "Bottom" {
			page.Terminal = true
		}
		if ins.Type != instructionAddEntries {
			continue
		}
		for _, e := range ins.Entries {
			if e.Content.EntryType != entryTypeItem {
				continue
			}
			ic := e.Content.ItemContent
			if ic == nil || ic.UserResults == nil || len(ic.UserResults.Result) == 0 {
				continue
			}
			user, err := ParseUserResult(ic.UserResults.Result)
			if err != nil {
				return nil, err
			}
			page.Users = append(page.Users, user)
		}
	}
	return page, nil
}
