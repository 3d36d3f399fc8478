package mongostore

import (
	"fmt"
	"time"

	"github.com/baharkarakas/finance-tracker/internal/models"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Amounts are stored as Decimal128 so $inc stays exact.

// toDec128 fails for values Decimal128 cannot hold exactly (over 34 significant digits).
func toDec128(d decimal.Decimal) (primitive.Decimal128, error) {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("amount %s not representable as decimal128: %w", d, err)
	}
	return v, nil
}

func fromDec128(v primitive.Decimal128) decimal.Decimal {
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}

type userDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password_hash"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func (d userDoc) model() models.User {
	return models.User{
		ID: d.ID.Hex(), Name: d.Name, Email: d.Email, PasswordHash: d.PasswordHash,
		CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}
}

type budgetDoc struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty"`
	UserID      string               `bson:"user_id"`
	Name        string               `bson:"name"`
	Amount      primitive.Decimal128 `bson:"amount"`
	Expenditure primitive.Decimal128 `bson:"expenditure"`
	Month       string               `bson:"month"`
	Year        int                  `bson:"year"`
	CreatedAt   time.Time            `bson:"created_at"`
	UpdatedAt   time.Time            `bson:"updated_at"`
}

func (d budgetDoc) model() models.Budget {
	return models.Budget{
		ID: d.ID.Hex(), UserID: d.UserID, Name: d.Name,
		Amount: fromDec128(d.Amount), Expenditure: fromDec128(d.Expenditure),
		Month: d.Month, Year: d.Year, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}
}

type expenseDoc struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty"`
	BudgetID    string               `bson:"budget_id"`
	Description string               `bson:"description"`
	Amount      primitive.Decimal128 `bson:"amount"`
	CreatedAt   time.Time            `bson:"created_at"`
	UpdatedAt   time.Time            `bson:"updated_at"`
}

func (d expenseDoc) model() models.Expense {
	return models.Expense{
		ID: d.ID.Hex(), BudgetID: d.BudgetID, Description: d.Description,
		Amount: fromDec128(d.Amount), CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}
}

type alertDoc struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty"`
	BudgetID     string               `bson:"budget_id"`
	Description  string               `bson:"description"`
	TargetAmount primitive.Decimal128 `bson:"target_amount"`
	Status       string               `bson:"status"`
	CreatedAt    time.Time            `bson:"created_at"`
	UpdatedAt    time.Time            `bson:"updated_at"`
}

func (d alertDoc) model() models.Alert {
	return models.Alert{
		ID: d.ID.Hex(), BudgetID: d.BudgetID, Description: d.Description,
		TargetAmount: fromDec128(d.TargetAmount), Status: models.AlertStatus(d.Status),
		CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}
}

type notificationDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	Message   string             `bson:"message"`
	Date      time.Time          `bson:"date"`
	IsRead    bool               `bson:"is_read"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (d notificationDoc) model() models.Notification {
	return models.Notification{
		ID: d.ID.Hex(), UserID: d.UserID, Message: d.Message,
		Date: d.Date, IsRead: d.IsRead, CreatedAt: d.CreatedAt,
	}
}
