package sender

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// LogSender stands in for SMTP in development and only logs what would be sent.
type LogSender struct {
	logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) SendEmail(_ context.Context, to, subject, body string) (SendResult, error) {
	s.logger.Info("email not sent, SMTP not configured",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.Int("body_len", len(body)),
	)
	return SendResult{MessageID: fmt.Sprintf("log-%d", time.Now().UnixNano()), SentAt: time.Now()}, nil
}
