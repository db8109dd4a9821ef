package events

// Event names as delivered to clients.
const (
	EventNewMessage     = "new-message"
	EventMessageRead    = "message-read"
	EventMessageDeleted = "message-deleted"
	EventIncomingCall   = "incoming.call"
)

// Channel name prefixes. Conversation channels are private to the two
// participants; user channels are private to the named user.
const (
	ChannelPrefixConversation = "conversation."
	ChannelPrefixUser         = "user."
)
