package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tutorlink/tutorlink-api/internal/models"
	"github.com/tutorlink/tutorlink-api/pkg/jobs"
)

type notificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	ListForRecipient(ctx context.Context, recipientID string, limit int) ([]models.Notification, error)
	MarkRead(ctx context.Context, recipientID, id string) error
}

// NotificationService records lifecycle events for in-app delivery. Writes
// go through a background queue so a slow notification insert never delays
// a booking response; when no queue is attached writes happen inline.
type NotificationService struct {
	store  notificationStore
	queue  *jobs.Queue
	logger *zap.Logger
}

// NewNotificationService constructs the service without a queue attached.
func NewNotificationService(store notificationStore, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{store: store, logger: logger}
}

// AttachQueue builds and returns the dispatch queue. The caller owns its
// lifecycle (Start/Stop).
func (s *NotificationService) AttachQueue(workers, buffer int) *jobs.Queue {
	s.queue = jobs.NewQueue("notifications", s.handleJob, jobs.QueueConfig{
		Workers:    workers,
		BufferSize: buffer,
		Logger:     s.logger,
	})
	return s.queue
}

func (s *NotificationService) handleJob(ctx context.Context, job jobs.Job) error {
	n, ok := job.Payload.(models.Notification)
	if !ok {
		return fmt.Errorf("unexpected payload type %T", job.Payload)
	}
	return s.store.Create(ctx, &n)
}

// Notify records one event for a recipient. Enqueue failures fall back to a
// synchronous insert so lifecycle events are not silently dropped.
func (s *NotificationService) Notify(ctx context.Context, recipientID, eventType string, bookingID *string, message string) {
	n := models.Notification{
		ID:          uuid.NewString(),
		RecipientID: recipientID,
		Type:        eventType,
		BookingID:   bookingID,
		Message:     message,
		CreatedAt:   time.Now().UTC(),
	}

	if s.queue != nil {
		err := s.queue.Enqueue(jobs.Job{ID: n.ID, Type: eventType, Payload: n})
		if err == nil {
			return
		}
		s.logger.Warn("notification enqueue failed, writing inline", zap.String("type", eventType), zap.Error(err))
	}

	if err := s.store.Create(ctx, &n); err != nil {
		s.logger.Error("failed to record notification",
			zap.String("recipient_id", recipientID),
			zap.String("type", eventType),
			zap.Error(err),
		)
	}
}

// List returns the recipient's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, recipientID string, limit int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.store.ListForRecipient(ctx, recipientID, limit)
}

// MarkRead flags one notification as read, scoped to the recipient.
func (s *NotificationService) MarkRead(ctx context.Context, recipientID, id string) error {
	return s.store.MarkRead(ctx, recipientID, id)
}
