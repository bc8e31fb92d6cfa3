package sender

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/GuruprasadLokhande/Vastrashahi-Project/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type flakySender struct {
	failures int
	calls    int
}

func (f *flakySender) SendEmail(_ context.Context, to, subject, body string) (SendResult, error) {
	f.calls++
	if f.calls <= f.failures {
		return SendResult{}, errors.New("smtp down")
	}
	return SendResult{MessageID: "m-1", SentAt: time.Now()}, nil
}

type memLogRepo struct {
	logs []models.NotificationLog
}

func (r *memLogRepo) SaveLog(_ context.Context, log *models.NotificationLog) error {
	r.logs = append(r.logs, *log)
	return nil
}

func newAudited(s EmailSender, repo *memLogRepo) *AuditedSender {
	a := NewAuditedSender(s, repo, zap.NewNop())
	a.backoff = time.Millisecond
	return a
}

func TestAuditedSender_RetriesThenRecordsSent(t *testing.T) {
	s := &flakySender{failures: 2}
	repo := &memLogRepo{}

	err := newAudited(s, repo).Send(context.Background(), Message{Type: models.MailEmailVerify, To: "a@b.com", Subject: "x", Body: "y"})

	require.NoError(t, err)
	assert.Equal(t, 3, s.calls)
	require.Len(t, repo.logs, 1)
	assert.Equal(t, models.NotificationSent, repo.logs[0].Status)
	assert.Equal(t, models.ChannelEmail, repo.logs[0].Channel)
	assert.Equal(t, "a@b.com", repo.logs[0].Recipient)
}

func TestAuditedSender_RecordsFailure(t *testing.T) {
	s := &flakySender{failures: 10}
	repo := &memLogRepo{}

	err := newAudited(s, repo).Send(context.Background(), Message{Type: models.MailUserReset, To: "a@b.com"})

	require.Error(t, err)
	assert.Equal(t, 3, s.calls)
	require.Len(t, repo.logs, 1)
	assert.Equal(t, models.NotificationFailed, repo.logs[0].Status)
	assert.Equal(t, "smtp down", repo.logs[0].Error)
}

func TestAuditedSender_WithoutRepo(t *testing.T) {
	a := NewAuditedSender(NewLogSender(zap.NewNop()), nil, zap.NewNop())
	assert.NoError(t, a.Send(context.Background(), Message{To: "a@b.com"}))
}

func TestSMTPSender_BuildsHTMLMessage(t *testing.T) {
	s, err := NewSMTPSender(SMTPConfig{Host: "smtp.example.com", Username: "shop@example.com", Password: "pw"})
	require.NoError(t, err)

	var gotAddr string
	var gotMsg []byte
	s.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr = addr
		gotMsg = msg
		assert.Equal(t, "shop@example.com", from)
		assert.Equal(t, []string{"c@d.com"}, to)
		return nil
	}

	res, err := s.SendEmail(context.Background(), "c@d.com", "Hello", "<p>hi</p>")
	require.NoError(t, err)
	assert.NotEmpty(t, res.MessageID)
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Contains(t, string(gotMsg), "Content-Type: text/html")
	assert.Contains(t, string(gotMsg), "From: Vastrashahi <shop@example.com>")
	assert.True(t, strings.HasSuffix(string(gotMsg), "<p>hi</p>"))
}

func TestNewSMTPSender_RequiresSettings(t *testing.T) {
	_, err := NewSMTPSender(SMTPConfig{Host: "smtp.example.com"})
	assert.Error(t, err)
}

func TestTemplates(t *testing.T) {
	msg, err := VerifyEmail("Asha", "asha@example.com", "http://shop/email-verify/tok")
	require.NoError(t, err)
	assert.Equal(t, models.MailEmailVerify, msg.Type)
	assert.Contains(t, msg.Body, "http://shop/email-verify/tok")
	assert.Contains(t, msg.Body, "Hello Asha")

	msg, err = OrderMail(models.OrderEvent{EventType: models.EventOrderCreated, Invoice: 1001, Name: "Asha", Email: "asha@example.com", TotalAmount: 499.5})
	require.NoError(t, err)
	assert.Equal(t, models.MailOrderConfirmed, msg.Type)
	assert.Contains(t, msg.Body, "#1001")
	assert.Contains(t, msg.Body, "499.50")

	msg, err = OrderMail(models.OrderEvent{EventType: models.EventOrderStatusChanged, Invoice: 1001, Status: models.OrderStatusShipped, Email: "asha@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Order #1001 is shipped", msg.Subject)
}
