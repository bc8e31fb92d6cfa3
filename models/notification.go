package models

import "time"

const (
	ChannelEmail = "email"

	NotificationSent   = "sent"
	NotificationFailed = "failed"

	MailEmailVerify      = "email_verify"
	MailAdminReset       = "admin_password_reset"
	MailUserReset        = "user_password_reset"
	MailOrderConfirmed   = "order_confirmed"
	MailOrderStatusEvent = "order_status_changed"
)

// NotificationLog is one audited mail delivery attempt, stored in Postgres.
type NotificationLog struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Recipient string    `json:"recipient" gorm:"index"`
	Type      string    `json:"type"`
	Channel   string    `json:"channel"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// Counter backs monotonic sequences such as order invoices.
type Counter struct {
	ID  string `bson:"_id"`
	Seq int64  `bson:"seq"`
}
