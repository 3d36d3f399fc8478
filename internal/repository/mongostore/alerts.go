package mongostore

import (
	"context"
	"fmt"

	"github.com/baharkarakas/finance-tracker/internal/models"
	repo "github.com/baharkarakas/finance-tracker/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type alertsRepo struct{ coll *mongo.Collection }

func (r *alertsRepo) Create(ctx context.Context, a models.Alert) (models.Alert, error) {
	target, err := toDec128(a.TargetAmount)
	if err != nil {
		return models.Alert{}, err
	}
	t := now()
	doc := alertDoc{
		ID: primitive.NewObjectID(), BudgetID: a.BudgetID, Description: a.Description,
		TargetAmount: target, Status: string(a.Status), CreatedAt: t, UpdatedAt: t,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return models.Alert{}, fmt.Errorf("failed to create alert: %w", mapErr(err))
	}
	return doc.model(), nil
}

func (r *alertsRepo) GetByID(ctx context.Context, id string) (models.Alert, error) {
	oid, err := objectID(id)
	if err != nil {
		return models.Alert{}, err
	}
	var doc alertDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return models.Alert{}, mapErr(err)
	}
	return doc.model(), nil
}

func (r *alertsRepo) ListByBudgets(ctx context.Context, budgetIDs []string) ([]models.Alert, error) {
	if len(budgetIDs) == 0 {
		return nil, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"budget_id": bson.M{"$in": budgetIDs}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []alertDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode alerts: %w", err)
	}
	out := make([]models.Alert, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.model())
	}
	return out, nil
}

func (r *alertsRepo) Update(ctx context.Context, a models.Alert) (models.Alert, error) {
	oid, err := objectID(a.ID)
	if err != nil {
		return models.Alert{}, err
	}
	target, err := toDec128(a.TargetAmount)
	if err != nil {
		return models.Alert{}, err
	}
	update := bson.M{"$set": bson.M{
		"description":   a.Description,
		"target_amount": target,
		"status":        string(a.Status),
		"updated_at":    now(),
	}}
	var doc alertDoc
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, afterUpdate()).Decode(&doc); err != nil {
		return models.Alert{}, mapErr(err)
	}
	return doc.model(), nil
}

func (r *alertsRepo) UpdateStatus(ctx context.Context, id string, status models.AlertStatus) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"status":     string(status),
		"updated_at": now(),
	}})
	if err != nil {
		return fmt.Errorf("failed to update alert status: %w", err)
	}
	if res.MatchedCount == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *alertsRepo) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete alert: %w", err)
	}
	if res.DeletedCount == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *alertsRepo) CountByBudget(ctx context.Context, budgetID string) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"budget_id": budgetID})
}
