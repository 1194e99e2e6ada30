package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"chat-relay/internal/domain"
)

const messageCollection = "messages"

// messageDoc is the MongoDB representation of a stored chat message.
type messageDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Content    string             `bson:"content"`
	SenderID   string             `bson:"sender_id"`
	ReceiverID string             `bson:"receiver_id,omitempty"`
	GroupID    string             `bson:"group_id,omitempty"`
	CreatedAt  time.Time          `bson:"created_at"`
}

// MessageRepository persists chat messages in MongoDB.
type MessageRepository struct {
	DB *mongo.Database
}

// NewMessageRepository creates a new MessageRepository.
func NewMessageRepository(db *mongo.Database) *MessageRepository {
	return &MessageRepository{DB: db}
}

// Persist inserts the message and returns the canonical stored record with
// the assigned id and timestamp.
func (r *MessageRepository) Persist(ctx context.Context, msg *domain.Message) (*domain.StoredMessage, error) {
	doc := messageDoc{
		Content:    msg.Content,
		SenderID:   msg.SenderID,
		ReceiverID: msg.Destination.UserID,
		GroupID:    msg.Destination.GroupID,
		CreatedAt:  time.Now().UTC(),
	}

	collection := r.DB.Collection(messageCollection)
	res, err := collection.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to insert message: %w", err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}

	return &domain.StoredMessage{
		ID:         id.Hex(),
		Content:    doc.Content,
		SenderID:   doc.SenderID,
		ReceiverID: doc.ReceiverID,
		GroupID:    doc.GroupID,
		CreatedAt:  doc.CreatedAt,
	}, nil
}

// History retrieves the most recent messages addressed to a user or group,
// oldest first.
func (r *MessageRepository) History(ctx context.Context, dest domain.Destination, limit int64) ([]*domain.StoredMessage, error) {
	filter := bson.M{}
	switch {
	case dest.GroupID != "":
		filter["group_id"] = dest.GroupID
	case dest.UserID != "":
		filter["receiver_id"] = dest.UserID
	default:
		return nil, domain.ErrBadDestination
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)
	cursor, err := r.DB.Collection(messageCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []messageDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %w", err)
	}

	// Newest-first from the query; flip to chronological order for display.
	out := make([]*domain.StoredMessage, len(docs))
	for i, d := range docs {
		out[len(docs)-1-i] = &domain.StoredMessage{
			ID:         d.ID.Hex(),
			Content:    d.Content,
			SenderID:   d.SenderID,
			ReceiverID: d.ReceiverID,
			GroupID:    d.GroupID,
			CreatedAt:  d.CreatedAt,
		}
	}
	return out, nil
}
