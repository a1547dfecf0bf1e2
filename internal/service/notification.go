package service

import (
	"context"

	"socialgraph/internal/model"
	"socialgraph/internal/repository"
)

const defaultNotificationLimit = 50

// NotificationService reads the notification rows the event workers write.
type NotificationService struct {
	notifications repository.NotificationStore
}

func NewNotificationService(notifications repository.NotificationStore) *NotificationService {
	return &NotificationService{notifications: notifications}
}

func (s *NotificationService) List(ctx context.Context, userID int64, limit int) (*model.NotificationListResponse, error) {
	if limit <= 0 || limit > defaultNotificationLimit {
		limit = defaultNotificationLimit
	}

	rows, err := s.notifications.List(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	unread, err := s.notifications.UnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &model.NotificationListResponse{
		Notifications: rows,
		UnreadCount:   unread,
	}, nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID int64) error {
	return s.notifications.MarkAllRead(ctx, userID)
}
