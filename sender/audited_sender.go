package sender

import (
	"context"
	"time"

	"github.com/GuruprasadLokhande/Vastrashahi-Project/models"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/repository"
	"go.uber.org/zap"
)

// AuditedSender sends through an EmailSender with retries and records every outcome.
// The log repository is optional.
type AuditedSender struct {
	sender   EmailSender
	repo     repository.NotificationLogRepository
	logger   *zap.Logger
	attempts int
	backoff  time.Duration
}

func NewAuditedSender(sender EmailSender, repo repository.NotificationLogRepository, logger *zap.Logger) *AuditedSender {
	return &AuditedSender{sender: sender, repo: repo, logger: logger, attempts: 3, backoff: time.Second}
}

func (a *AuditedSender) Send(ctx context.Context, msg Message) error {
	var (
		lastErr error
		result  SendResult
	)
	for attempt := 0; attempt < a.attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				lastErr = ctx.Err()
			case <-time.After(time.Duration(attempt) * a.backoff):
			}
			if ctx.Err() != nil {
				break
			}
		}
		result, lastErr = a.sender.SendEmail(ctx, msg.To, msg.Subject, msg.Body)
		if lastErr == nil {
			break
		}
		a.logger.Warn("send attempt failed",
			zap.String("type", msg.Type),
			zap.Int("attempt", attempt+1),
			zap.Error(lastErr),
		)
	}

	status := models.NotificationSent
	errMsg := ""
	if lastErr != nil {
		status = models.NotificationFailed
		errMsg = lastErr.Error()
	}
	a.logger.Info("notification sent",
		zap.String("type", msg.Type),
		zap.String("status", status),
		zap.String("message_id", result.MessageID),
	)

	if a.repo != nil {
		entry := &models.NotificationLog{
			Recipient: msg.To,
			Type:      msg.Type,
			Channel:   models.ChannelEmail,
			Status:    status,
			Error:     errMsg,
		}
		if err := a.repo.SaveLog(ctx, entry); err != nil {
			a.logger.Error("failed to save notification log", zap.Error(err))
		}
	}
	return lastErr
}
