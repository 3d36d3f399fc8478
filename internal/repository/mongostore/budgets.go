package mongostore

import (
	"context"
	"fmt"

	"github.com/baharkarakas/finance-tracker/internal/models"
	repo "github.com/baharkarakas/finance-tracker/internal/repository"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type budgetsRepo struct{ coll *mongo.Collection }

func (r *budgetsRepo) Create(ctx context.Context, b models.Budget) (models.Budget, error) {
	amount, err := toDec128(b.Amount)
	if err != nil {
		return models.Budget{}, err
	}
	expenditure, err := toDec128(b.Expenditure)
	if err != nil {
		return models.Budget{}, err
	}
	t := now()
	doc := budgetDoc{
		ID: primitive.NewObjectID(), UserID: b.UserID, Name: b.Name,
		Amount: amount, Expenditure: expenditure,
		Month: b.Month, Year: b.Year, CreatedAt: t, UpdatedAt: t,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return models.Budget{}, fmt.Errorf("failed to create budget: %w", mapErr(err))
	}
	return doc.model(), nil
}

func (r *budgetsRepo) GetByID(ctx context.Context, id string) (models.Budget, error) {
	oid, err := objectID(id)
	if err != nil {
		return models.Budget{}, err
	}
	var doc budgetDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return models.Budget{}, mapErr(err)
	}
	return doc.model(), nil
}

func (r *budgetsRepo) ListByUser(ctx context.Context, userID string) ([]models.Budget, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []budgetDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode budgets: %w", err)
	}
	out := make([]models.Budget, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.model())
	}
	return out, nil
}

func (r *budgetsRepo) Update(ctx context.Context, b models.Budget) (models.Budget, error) {
	amount, err := toDec128(b.Amount)
	if err != nil {
		return models.Budget{}, err
	}
	return r.findAndUpdate(ctx, b.ID, bson.M{"$set": bson.M{
		"name":       b.Name,
		"amount":     amount,
		"month":      b.Month,
		"year":       b.Year,
		"updated_at": now(),
	}})
}

// AddExpenditure uses $inc so concurrent deltas are all applied.
func (r *budgetsRepo) AddExpenditure(ctx context.Context, id string, delta decimal.Decimal) (models.Budget, error) {
	inc, err := toDec128(delta)
	if err != nil {
		return models.Budget{}, err
	}
	return r.findAndUpdate(ctx, id, bson.M{
		"$inc": bson.M{"expenditure": inc},
		"$set": bson.M{"updated_at": now()},
	})
}

func (r *budgetsRepo) SetExpenditure(ctx context.Context, id string, v decimal.Decimal) (models.Budget, error) {
	exp, err := toDec128(v)
	if err != nil {
		return models.Budget{}, err
	}
	return r.findAndUpdate(ctx, id, bson.M{"$set": bson.M{
		"expenditure": exp,
		"updated_at":  now(),
	}})
}

func (r *budgetsRepo) findAndUpdate(ctx context.Context, id string, update bson.M) (models.Budget, error) {
	oid, err := objectID(id)
	if err != nil {
		return models.Budget{}, err
	}
	var doc budgetDoc
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, afterUpdate()).Decode(&doc); err != nil {
		return models.Budget{}, mapErr(err)
	}
	return doc.model(), nil
}

func (r *budgetsRepo) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	if res.DeletedCount == 0 {
		return repo.ErrNotFound
	}
	return nil
}
