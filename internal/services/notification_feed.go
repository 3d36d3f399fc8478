package services

import (
	"context"
	"fmt"
	"time"

	"github.com/baharkarakas/finance-tracker/internal/apperr"
	"github.com/baharkarakas/finance-tracker/internal/models"
	repo "github.com/baharkarakas/finance-tracker/internal/repository"
)

const defaultFeedLimit = 50

// NotificationFeed is an append-only per-user list. Only the read flag changes after append.
type NotificationFeed struct {
	r repo.Notifications
}

func NewNotificationFeed(r repo.Notifications) *NotificationFeed { return &NotificationFeed{r: r} }

func (f *NotificationFeed) Append(ctx context.Context, userID, message string, at time.Time) error {
	_, err := f.r.Create(ctx, models.Notification{
		UserID:  userID,
		Message: message,
		Date:    at,
	})
	if err != nil {
		return fmt.Errorf("append notification: %w", err)
	}
	return nil
}

func (f *NotificationFeed) List(ctx context.Context, userID string, limit, offset int) ([]models.Notification, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultFeedLimit
	}
	if offset < 0 {
		offset = 0
	}
	return f.r.ListByUser(ctx, userID, limit, offset)
}

// ReadSelector picks either every notification of the user or the listed ids.
type ReadSelector struct {
	All bool
	IDs []string
}

func (f *NotificationFeed) MarkRead(ctx context.Context, userID string, sel ReadSelector) (int64, error) {
	if err := requireUser(userID); err != nil {
		return 0, err
	}
	if sel.All {
		return f.r.MarkAllRead(ctx, userID)
	}
	if sel.IDs == nil {
		return 0, apperr.Invalid("Invalid request format")
	}
	return f.r.MarkRead(ctx, userID, sel.IDs)
}

func (f *NotificationFeed) UnreadCount(ctx context.Context, userID string) (int64, error) {
	if err := requireUser(userID); err != nil {
		return 0, err
	}
	return f.r.CountUnread(ctx, userID)
}
