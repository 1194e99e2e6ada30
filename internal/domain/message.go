package domain

import "time"

// Destination is the tagged choice of a single user or a single group as a
// message's recipient. Exactly one of the two fields is set.
type Destination struct {
	UserID  string
	GroupID string
}

// ToUser addresses a single user. Every live connection resolved to that
// user receives the event.
func ToUser(userID string) Destination {
	return Destination{UserID: userID}
}

// ToGroup addresses every connection currently joined to the group.
func ToGroup(groupID string) Destination {
	return Destination{GroupID: groupID}
}

// Valid reports whether exactly one destination kind is set.
func (d Destination) Valid() bool {
	return (d.UserID != "") != (d.GroupID != "")
}

// Message is a chat message as constructed by the router, before the store
// has assigned an id and timestamp.
type Message struct {
	Content     string
	SenderID    string
	Destination Destination
}

// StoredMessage is the canonical persisted form of a Message. The router
// fans out this record, never the locally constructed Message, so recipients
// see the store-assigned id and timestamp.
type StoredMessage struct {
	ID         string    `json:"id"`
	Content    string    `json:"content"`
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId,omitempty"`
	GroupID    string    `json:"groupId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
