package events

import (
	"fmt"
	"strconv"
	"strings"
)

func ConversationChannel(conversationID int64) string {
	return fmt.Sprintf("%s%d", ChannelPrefixConversation, conversationID)
}

func UserChannel(userID int64) string {
	return fmt.Sprintf("%s%d", ChannelPrefixUser, userID)
}

// ChannelKind identifies which channel family a name belongs to.
type ChannelKind int

const (
	ChannelUnknown ChannelKind = iota
	ChannelConversation
	ChannelUser
)

// ParseChannel splits a channel name into its family and numeric id.
func ParseChannel(name string) (ChannelKind, int64, bool) {
	switch {
	case strings.HasPrefix(name, ChannelPrefixConversation):
		id, err := strconv.ParseInt(strings.TrimPrefix(name, ChannelPrefixConversation), 10, 64)
		if err != nil {
			return ChannelUnknown, 0, false
		}
		return ChannelConversation, id, true
	case strings.HasPrefix(name, ChannelPrefixUser):
		id, err := strconv.ParseInt(strings.TrimPrefix(name, ChannelPrefixUser), 10, 64)
		if err != nil {
			return ChannelUnknown, 0, false
		}
		return ChannelUser, id, true
	}
	return ChannelUnknown, 0, false
}
