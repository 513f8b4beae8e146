package service

import (
	"context"
	"fmt"

	"audicob/internal/domain"
)

type NotificationStore interface {
	Insert(ctx context.Context, n *domain.Notification) error
	ListByUser(ctx context.Context, userID int64) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id, userID int64) error
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
}

type UserNotifier interface {
	NotifyUser(ctx context.Context, userID int64, title, body string) error
}

type NotificationService struct {
	store NotificationStore
	ws    UserNotifier
}

func NewNotificationService(store NotificationStore, ws UserNotifier) *NotificationService {
	return &NotificationService{
		store: store,
		ws:    ws,
	}
}

// Dispatch persists a notification and pushes it to the user's open
// websocket connections. The push is best-effort; the stored row is the
// source of truth.
func (s *NotificationService) Dispatch(ctx context.Context, userID int64, title, body string) error {
	n := &domain.Notification{
		UserID: userID,
		Title:  title,
		Body:   body,
	}

	if err := s.store.Insert(ctx, n); err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}

	if s.ws != nil {
		_ = s.ws.NotifyUser(ctx, userID, title, body)
	}

	return nil
}

func (s *NotificationService) List(ctx context.Context, userID int64) ([]domain.Notification, error) {
	return s.store.ListByUser(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, id, userID int64) error {
	return s.store.MarkRead(ctx, id, userID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	return s.store.MarkAllRead(ctx, userID)
}
