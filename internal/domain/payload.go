package domain

// WebSocketMessage is the standard envelope for every frame exchanged
// between client and server.
type WebSocketMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// Client -> server event types.
const (
	EventSendMessage = "send-message"
	EventJoinGroup   = "join-group"
	EventLeaveGroup  = "leave-group"
	EventTypingStart = "typing-start"
	EventTypingStop  = "typing-stop"
)

// Server -> client event types.
const (
	EventNewMessage  = "new-message"
	EventOnlineUsers = "online-users"
	EventUserTyping  = "user-typing"
	EventAck         = "ack"
)

// SendMessagePayload is the payload of a 'send-message' request. Exactly one
// of ReceiverID and GroupID must be set.
type SendMessagePayload struct {
	Content    string `json:"content"`
	ReceiverID string `json:"receiverId,omitempty"`
	GroupID    string `json:"groupId,omitempty"`
}

// GroupPayload is the payload of 'join-group' and 'leave-group' requests.
type GroupPayload struct {
	GroupID string `json:"groupId"`
}

// TypingPayload is the payload of 'typing-start' and 'typing-stop' requests.
type TypingPayload struct {
	ReceiverID string `json:"receiverId,omitempty"`
	GroupID    string `json:"groupId,omitempty"`
}

// UserTypingPayload is the payload of a 'user-typing' event.
type UserTypingPayload struct {
	UserID   string `json:"userId"`
	IsTyping bool   `json:"isTyping"`
}

// Ack statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// AckPayload is the direct response to a client request, delivered only to
// the originating connection.
type AckPayload struct {
	Event     string `json:"event"`
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	MessageID string `json:"messageId,omitempty"`
}
