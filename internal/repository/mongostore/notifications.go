package mongostore

import (
	"context"
	"fmt"

	"github.com/baharkarakas/finance-tracker/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type notificationsRepo struct{ coll *mongo.Collection }

func (r *notificationsRepo) Create(ctx context.Context, n models.Notification) (models.Notification, error) {
	t := now()
	if n.Date.IsZero() {
		n.Date = t
	}
	doc := notificationDoc{
		ID: primitive.NewObjectID(), UserID: n.UserID, Message: n.Message,
		Date: n.Date, IsRead: n.IsRead, CreatedAt: t,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return models.Notification{}, fmt.Errorf("failed to create notification: %w", err)
	}
	return doc.model(), nil
}

func (r *notificationsRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Notification, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(offset))
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []notificationDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}
	out := make([]models.Notification, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.model())
	}
	return out, nil
}

// MarkRead only touches the caller's own notifications.
func (r *notificationsRepo) MarkRead(ctx context.Context, userID string, ids []string) (int64, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return 0, nil
	}
	filter := bson.M{"_id": bson.M{"$in": oids}, "user_id": userID, "is_read": false}
	res, err := r.coll.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"is_read": true}})
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return res.ModifiedCount, nil
}

func (r *notificationsRepo) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	res, err := r.coll.UpdateMany(ctx, bson.M{"user_id": userID, "is_read": false}, bson.M{"$set": bson.M{"is_read": true}})
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return res.ModifiedCount, nil
}

func (r *notificationsRepo) CountUnread(ctx context.Context, userID string) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"user_id": userID, "is_read": false})
}
