package comms

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aegiscyber/portal-services/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound    = errors.New("record not found")
	ErrUnknownKind = errors.New("unknown notification kind")
)

// Collection names used in the document store.
const (
	CollectionMessages            = "messages"
	CollectionEmailNotifications  = "email-notifications"
	CollectionSMSNotifications    = "sms-notifications"
	CollectionSystemNotifications = "system-notifications"
)

// Repository defines persistence operations for messages and notifications
type Repository interface {
	InsertMessage(ctx context.Context, m *Message) (*Message, error)
	MessagesByClient(ctx context.Context, clientID string) ([]Message, error)
	MarkMessageRead(ctx context.Context, id string) error
	UnreadMessageCount(ctx context.Context, clientID string) (int64, error)
	WatchMessages(ctx context.Context, clientID string) (*Subscription, error)

	InsertNotification(ctx context.Context, n *Notification) (*Notification, error)
	SystemNotificationsByClient(ctx context.Context, clientID string) ([]Notification, error)
	MarkSystemNotificationRead(ctx context.Context, id string) error
}

// MongoRepository implements Repository over one collection per entity kind.
// The real-time subscription is backed by a change stream on the messages
// collection.
type MongoRepository struct {
	messages *mongo.Collection
	byKind   map[NotificationKind]*mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{
		messages: db.Collection(CollectionMessages),
		byKind: map[NotificationKind]*mongo.Collection{
			KindEmail:  db.Collection(CollectionEmailNotifications),
			KindSMS:    db.Collection(CollectionSMSNotifications),
			KindSystem: db.Collection(CollectionSystemNotifications),
		},
	}
}

func (r *MongoRepository) InsertMessage(ctx context.Context, m *Message) (*Message, error) {
	if m.ID == "" {
		m.ID = primitive.NewObjectID().Hex()
	}
	m.Timestamp = time.Now().UTC()
	m.Read = false
	m.ReadAt = nil
	m.Type = MessageTypeInApp
	if _, err := r.messages.InsertOne(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (r *MongoRepository) MessagesByClient(ctx context.Context, clientID string) ([]Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cur, err := r.messages.Find(ctx, bson.M{"clientId": clientID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []Message{}
	for cur.Next(ctx) {
		var m Message
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkMessageRead flips read once and records readAt; repeating the call is a
// no-op so readAt is never overwritten.
func (r *MongoRepository) MarkMessageRead(ctx context.Context, id string) error {
	now := time.Now().UTC()
	res, err := r.messages.UpdateOne(ctx,
		bson.M{"_id": id, "read": false},
		bson.M{"$set": bson.M{"read": true, "readAt": now}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// already read, or genuinely missing. The separate existence probe
		// would race a concurrent delete, but messages are never deleted.
		n, err := r.messages.CountDocuments(ctx, bson.M{"_id": id})
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
	}
	return nil
}

func (r *MongoRepository) UnreadMessageCount(ctx context.Context, clientID string) (int64, error) {
	return r.messages.CountDocuments(ctx, bson.M{"clientId": clientID, "read": false})
}

// watchPipeline scopes a change stream to one client's messages. Updates
// only carry clientId when the stream runs with a full-document lookup, so
// WatchMessages must pair this with options.UpdateLookup.
func watchPipeline(clientID string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"fullDocument.clientId": clientID}}},
	}
}

// WatchMessages opens a change stream scoped to the client's messages and
// delivers the full, re-sorted message set on every change. The initial
// result set is delivered immediately after subscribing.
func (r *MongoRepository) WatchMessages(ctx context.Context, clientID string) (*Subscription, error) {
	wctx, cancel := context.WithCancel(ctx)
	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
	stream, err := r.messages.Watch(wctx, watchPipeline(clientID), opts)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("watch messages: %w", err)
	}

	initial, err := r.MessagesByClient(wctx, clientID)
	if err != nil {
		cancel()
		stream.Close(context.Background())
		return nil, err
	}

	sub := newSubscription()
	sub.stop = cancel

	go func() {
		defer close(sub.snapshots)
		defer stream.Close(context.Background())

		sub.publish(initial)
		for stream.Next(wctx) {
			snap, err := r.MessagesByClient(wctx, clientID)
			if err != nil {
				logger.Errorf("message snapshot query failed for client %s: %v", clientID, err)
				continue
			}
			if !sub.publish(snap) {
				return
			}
		}
		if err := stream.Err(); err != nil && wctx.Err() == nil {
			logger.Errorf("message change stream for client %s ended: %v", clientID, err)
		}
	}()
	return sub, nil
}

func (r *MongoRepository) InsertNotification(ctx context.Context, n *Notification) (*Notification, error) {
	col, ok := r.byKind[n.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, n.Kind)
	}
	if n.ID == "" {
		n.ID = primitive.NewObjectID().Hex()
	}
	n.CreatedAt = time.Now().UTC()
	if _, err := col.InsertOne(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (r *MongoRepository) SystemNotificationsByClient(ctx context.Context, clientID string) ([]Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.byKind[KindSystem].Find(ctx, bson.M{"clientId": clientID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []Notification{}
	for cur.Next(ctx) {
		var n Notification
		if err := cur.Decode(&n); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MongoRepository) MarkSystemNotificationRead(ctx context.Context, id string) error {
	col := r.byKind[KindSystem]
	res, err := col.UpdateOne(ctx,
		bson.M{"_id": id, "read": false},
		bson.M{"$set": bson.M{"read": true, "readAt": time.Now().UTC()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// same already-read-vs-missing probe as MarkMessageRead; safe for the
		// same reason, notifications are never deleted either
		n, err := col.CountDocuments(ctx, bson.M{"_id": id})
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
	}
	return nil
}
