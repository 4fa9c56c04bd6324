package service

import (
	"context"

	"gearup-backend/internal/domain"
	"gearup-backend/internal/logger"
	"gearup-backend/internal/repository"
)

type notificationService struct {
	noteRepo repository.NotificationRepository
}

func NewNotificationService(noteRepo repository.NotificationRepository) NotificationService {
	return &notificationService{noteRepo: noteRepo}
}

func (s *notificationService) GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error) {
	offset := (page - 1) * pageSize
	return s.noteRepo.List(ctx, userID, pageSize, offset)
}

func (s *notificationService) CountUnread(ctx context.Context, userID int32) (int32, error) {
	return s.noteRepo.CountUnread(ctx, userID)
}

func (s *notificationService) MarkAsRead(ctx context.Context, userID, notificationID int32) error {
	return s.noteRepo.MarkAsRead(ctx, notificationID, userID)
}

type notifier struct {
	noteRepo repository.NotificationRepository
}

// NewNotifier returns the emitter the lifecycle engine uses to record
// notifications as transition side effects.
func NewNotifier(noteRepo repository.NotificationRepository) Notifier {
	return &notifier{noteRepo: noteRepo}
}

func (n *notifier) Emit(ctx context.Context, recipientID int32, message, link string) {
	note := &domain.Notification{
		UserID:  recipientID,
		Message: message,
		Link:    link,
	}
	if err := n.noteRepo.Create(ctx, note); err != nil {
		// Best-effort: the transition that triggered this is already
		// committed and must not be rolled back.
		logger.Warn("Failed to record notification", "recipientID", recipientID, "error", err)
	}
}
