// Package mongostore implements the Ledger Store on MongoDB.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	repo "github.com/baharkarakas/finance-tracker/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection         = "users"
	budgetsCollection       = "budgets"
	expensesCollection      = "expenses"
	alertsCollection        = "alerts"
	notificationsCollection = "notifications"
)

func NewLedger(db *mongo.Database) repo.Ledger {
	return repo.Ledger{
		Users:         &usersRepo{coll: db.Collection(usersCollection)},
		Budgets:       &budgetsRepo{coll: db.Collection(budgetsCollection)},
		Expenses:      &expensesRepo{coll: db.Collection(expensesCollection)},
		Alerts:        &alertsRepo{coll: db.Collection(alertsCollection)},
		Notifications: &notificationsRepo{coll: db.Collection(notificationsCollection)},
	}
}

// EnsureIndexes creates the lookup indexes every collection relies on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		budgetsCollection: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		expensesCollection: {
			{Keys: bson.D{{Key: "budget_id", Value: 1}}},
		},
		alertsCollection: {
			{Keys: bson.D{{Key: "budget_id", Value: 1}}},
		},
		notificationsCollection: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: -1}}},
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "is_read", Value: 1}}},
		},
	}
	for name, idx := range specs {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", name, err)
		}
	}
	return nil
}

// objectID parses a hex id; malformed ids cannot exist, so they map to ErrNotFound.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, repo.ErrNotFound
	}
	return oid, nil
}

func objectIDs(ids []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			out = append(out, oid)
		}
	}
	return out
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repo.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return repo.ErrDuplicate
	}
	return err
}

func now() time.Time { return time.Now().UTC() }

func afterUpdate() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}
