package mongostore

import (
	"context"
	"fmt"
	"regexp"

	"github.com/baharkarakas/finance-tracker/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type usersRepo struct{ coll *mongo.Collection }

func (r *usersRepo) Create(ctx context.Context, u models.User) (models.User, error) {
	t := now()
	doc := userDoc{
		ID: primitive.NewObjectID(), Name: u.Name, Email: u.Email, PasswordHash: u.PasswordHash,
		CreatedAt: t, UpdatedAt: t,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return models.User{}, fmt.Errorf("failed to create user: %w", mapErr(err))
	}
	return doc.model(), nil
}

func (r *usersRepo) GetByID(ctx context.Context, id string) (models.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return models.User{}, err
	}
	var doc userDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return models.User{}, mapErr(err)
	}
	return doc.model(), nil
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	filter := bson.M{"email": primitive.Regex{Pattern: "^" + regexp.QuoteMeta(email) + "$", Options: "i"}}
	var doc userDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return models.User{}, mapErr(err)
	}
	return doc.model(), nil
}
