package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/GuruprasadLokhande/Vastrashahi-Project/models"
	awspkg "github.com/GuruprasadLokhande/Vastrashahi-Project/pkg/aws"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/sender"
	"go.uber.org/zap"
)

// EventPublisher announces order lifecycle changes on SNS. Publishing is best-effort.
type EventPublisher struct {
	sns      awspkg.SNSPublisher
	topicArn string
	logger   *zap.Logger
}

func NewEventPublisher(sns awspkg.SNSPublisher, topicArn string, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{sns: sns, topicArn: topicArn, logger: logger}
}

func newOrderEvent(eventType string, o *models.Order) models.OrderEvent {
	return models.OrderEvent{
		EventType:   eventType,
		OrderID:     o.ID.Hex(),
		Invoice:     o.Invoice,
		Status:      o.Status,
		Email:       o.Email,
		Name:        o.Name,
		TotalAmount: o.TotalAmount,
		Timestamp:   time.Now().UTC(),
	}
}

// Publish sends the event for o. Failures are logged, never returned.
func (p *EventPublisher) Publish(ctx context.Context, eventType string, o *models.Order) {
	if p == nil || p.sns == nil || p.topicArn == "" {
		return
	}
	body, err := json.Marshal(newOrderEvent(eventType, o))
	if err != nil {
		p.logger.Error("Failed to marshal order event", zap.Error(err))
		return
	}
	if err := p.sns.Publish(ctx, p.topicArn, body); err != nil {
		p.logger.Warn("SNS publish failed", zap.String("event_type", eventType), zap.String("order_id", o.ID.Hex()), zap.Error(err))
		return
	}
	p.logger.Debug("Order event published", zap.String("event_type", eventType), zap.Int64("invoice", o.Invoice))
}

// Poller is the queue side of the event flow; *awspkg.SQSConsumer satisfies it.
type Poller interface {
	StartPolling(ctx context.Context, handler awspkg.MessageHandler) error
}

// OrderMailWorker turns order events from the queue into customer emails.
type OrderMailWorker struct {
	poller Poller
	mailer sender.Mailer
	logger *zap.Logger
}

func NewOrderMailWorker(poller Poller, mailer sender.Mailer, logger *zap.Logger) *OrderMailWorker {
	return &OrderMailWorker{poller: poller, mailer: mailer, logger: logger}
}

// Start blocks until ctx is cancelled.
func (w *OrderMailWorker) Start(ctx context.Context) {
	w.logger.Info("Starting order mail worker")
	err := w.poller.StartPolling(ctx, w.handleMessage)
	if err != nil && !errors.Is(err, context.Canceled) {
		w.logger.Error("Order mail worker stopped", zap.Error(err))
		return
	}
	w.logger.Info("Order mail worker stopped")
}

func (w *OrderMailWorker) handleMessage(ctx context.Context, body string) error {
	// Messages delivered through an SNS subscription arrive wrapped in an envelope.
	var envelope struct {
		Message string `json:"Message"`
	}
	if err := json.Unmarshal([]byte(body), &envelope); err == nil && envelope.Message != "" {
		body = envelope.Message
	}

	var evt models.OrderEvent
	if err := json.Unmarshal([]byte(body), &evt); err != nil {
		w.logger.Warn("Dropping invalid order event", zap.Error(err))
		return nil
	}
	if evt.OrderID == "" || evt.Email == "" {
		w.logger.Warn("Dropping order event with missing fields", zap.String("order_id", evt.OrderID))
		return nil
	}
	switch evt.EventType {
	case models.EventOrderCreated, models.EventOrderStatusChanged:
	default:
		w.logger.Warn("Unknown order event type", zap.String("event_type", evt.EventType))
		return nil
	}

	msg, err := sender.OrderMail(evt)
	if err != nil {
		w.logger.Error("Failed to render order mail", zap.Error(err))
		return nil
	}
	return w.mailer.Send(ctx, msg)
}
