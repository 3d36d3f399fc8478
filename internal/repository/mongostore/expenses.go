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

type expensesRepo struct{ coll *mongo.Collection }

func (r *expensesRepo) Create(ctx context.Context, e models.Expense) (models.Expense, error) {
	amount, err := toDec128(e.Amount)
	if err != nil {
		return models.Expense{}, err
	}
	t := now()
	doc := expenseDoc{
		ID: primitive.NewObjectID(), BudgetID: e.BudgetID, Description: e.Description,
		Amount: amount, CreatedAt: t, UpdatedAt: t,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return models.Expense{}, fmt.Errorf("failed to create expense: %w", mapErr(err))
	}
	return doc.model(), nil
}

func (r *expensesRepo) GetByID(ctx context.Context, id string) (models.Expense, error) {
	oid, err := objectID(id)
	if err != nil {
		return models.Expense{}, err
	}
	var doc expenseDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return models.Expense{}, mapErr(err)
	}
	return doc.model(), nil
}

func (r *expensesRepo) ListByBudgets(ctx context.Context, budgetIDs []string) ([]models.Expense, error) {
	if len(budgetIDs) == 0 {
		return nil, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"budget_id": bson.M{"$in": budgetIDs}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []expenseDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode expenses: %w", err)
	}
	out := make([]models.Expense, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.model())
	}
	return out, nil
}

func (r *expensesRepo) Update(ctx context.Context, e models.Expense) (models.Expense, error) {
	oid, err := objectID(e.ID)
	if err != nil {
		return models.Expense{}, err
	}
	amount, err := toDec128(e.Amount)
	if err != nil {
		return models.Expense{}, err
	}
	update := bson.M{"$set": bson.M{
		"description": e.Description,
		"amount":      amount,
		"updated_at":  now(),
	}}
	var doc expenseDoc
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, afterUpdate()).Decode(&doc); err != nil {
		return models.Expense{}, mapErr(err)
	}
	return doc.model(), nil
}

func (r *expensesRepo) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if res.DeletedCount == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *expensesRepo) SumByBudget(ctx context.Context, budgetID string) (decimal.Decimal, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"budget_id": budgetID}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$amount"}}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum expenses: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Total primitive.Decimal128 `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return decimal.Zero, fmt.Errorf("failed to decode expense sum: %w", err)
	}
	if len(rows) == 0 {
		return decimal.Zero, nil
	}
	return fromDec128(rows[0].Total), nil
}

func (r *expensesRepo) CountByBudget(ctx context.Context, budgetID string) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"budget_id": budgetID})
}
