package worker

import (
	"context"
	"log"

	"marketplace-service/internal/broker"
	"marketplace-service/internal/models"
	"marketplace-service/internal/util"

	"go.uber.org/zap"
)

// Notifier delivers outbound notifications for request events. The real
// email transport lives outside this service; delivery is fire-and-forget
// and a failure never affects the request that triggered it.
type Notifier interface {
	RequestCreated(ctx context.Context, event *models.RequestCreatedEvent) error
	RequestStatusChanged(ctx context.Context, event *models.RequestStatusChangedEvent) error
}

// LogNotifier is the in-tree Notifier that records notifications instead of
// sending them.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a logging notifier
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{logger: util.GetLogger()}
}

func (n *LogNotifier) RequestCreated(ctx context.Context, event *models.RequestCreatedEvent) error {
	n.logger.Info("Notification: request created",
		zap.String("request_code", event.RequestCode),
		zap.String("buyer_email", event.BuyerEmail))
	return nil
}

func (n *LogNotifier) RequestStatusChanged(ctx context.Context, event *models.RequestStatusChangedEvent) error {
	n.logger.Info("Notification: request status changed",
		zap.String("request_code", event.RequestCode),
		zap.String("from", string(event.FromStatus)),
		zap.String("to", string(event.ToStatus)))
	return nil
}

// NotificationWorker consumes request events and hands them to the Notifier.
type NotificationWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
}

// NewNotificationWorker creates a new notification worker
func NewNotificationWorker(consumer *broker.Consumer, notifier Notifier) *NotificationWorker {
	eventHandler := broker.NewEventHandler()
	eventHandler.OnRequestCreated(notifier.RequestCreated)
	eventHandler.OnRequestStatusChanged(notifier.RequestStatusChanged)

	return &NotificationWorker{
		consumer:     consumer,
		eventHandler: eventHandler,
	}
}

// Start starts the worker
func (w *NotificationWorker) Start(ctx context.Context) error {
	log.Println("Starting notification worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *NotificationWorker) Stop() error {
	log.Println("Stopping notification worker...")
	return w.consumer.Close()
}
