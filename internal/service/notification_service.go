package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/events"
)

// NotificationService logs domain events as they go through the change
// channel. Connected dashboards refresh from the same channel.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to both topics and returns a function that
// removes the subscriptions.
func (n *NotificationService) RegisterHandlers() func() {
	if n.dispatcher == nil {
		return func() {}
	}
	unsubTickets := n.dispatcher.SubscribeTopic(events.TopicTickets, n.handleTicketEvent)
	unsubUsers := n.dispatcher.SubscribeTopic(events.TopicUsers, n.handleUserEvent)
	return func() {
		unsubTickets()
		unsubUsers()
	}
}

func (n *NotificationService) handleTicketEvent(_ context.Context, event events.Event) error {
	n.logger.Info(string(event.Type),
		zap.String("ticket_id", event.SubjectID),
		zap.String("actor_id", event.Actor.UserID),
		zap.Any("payload", event.Payload),
	)
	return nil
}

func (n *NotificationService) handleUserEvent(_ context.Context, event events.Event) error {
	n.logger.Info(string(event.Type),
		zap.String("user_id", event.SubjectID),
		zap.String("actor_id", event.Actor.UserID),
	)
	return nil
}
