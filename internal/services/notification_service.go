package services

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"dormdesk/internal/chat"
	"dormdesk/internal/logger"
	"dormdesk/internal/metrics"
	"dormdesk/internal/models"

	"go.uber.org/zap"
)

// Notification kinds, also used as the metrics label
const (
	NotifyNewBill          = "new_bill"
	NotifyPaymentReceived  = "payment_received"
	NotifyPaymentConfirmed = "payment_confirmed"
	NotifyPaymentRejected  = "payment_rejected"
	NotifyReminder         = "reminder"
	NotifyChatLinked       = "chat_linked"
	NotifyBroadcast        = "broadcast"
)

var messageTemplates = map[string]string{
	NotifyNewBill: `Hello {{.ResidentName}}, your bill for {{.Month}}{{if .RoomNumber}} (room {{.RoomNumber}}){{end}} is {{.Total}} THB.
Please pay by {{.DueDate}}.{{if .BankAccount}}
Transfer to: {{.BankAccount}}{{end}}`,
	NotifyPaymentReceived:  `Payment slip received from {{.ResidentName}} for {{.Month}}: {{.Total}} THB. Please review.`,
	NotifyPaymentConfirmed: `Thank you {{.ResidentName}}, your payment of {{.Total}} THB for {{.Month}} has been confirmed.`,
	NotifyPaymentRejected: `Your payment for {{.Month}} was rejected: {{.Reason}}
Please submit a new slip.`,
	NotifyReminder: `Reminder: your bill for {{.Month}} of {{.Total}} THB is due on {{.DueDate}}.{{if .BankAccount}}
Transfer to: {{.BankAccount}}{{end}}`,
	NotifyChatLinked: `Your chat account is now linked to {{.ResidentName}}. Bills and receipts will be sent here.`,
}

// MessageData feeds the message templates
type MessageData struct {
	ResidentName string
	RoomNumber   string
	Month        string
	Total        string
	DueDate      string
	Reason       string
	BankAccount  string
}

// NewMessageData fills the template fields from a bill and its resident
func NewMessageData(resident *models.Resident, billing *models.Billing) MessageData {
	data := MessageData{}
	if resident != nil {
		data.ResidentName = resident.FullName
	}
	if billing != nil {
		data.Month = billing.BillingMonth
		data.Total = billing.TotalAmount.StringFixed(2)
		data.DueDate = billing.DueDate.Format(models.DateLayout)
		data.Reason = billing.RejectReason
	}
	return data
}

// NotificationService renders and pushes chat messages. Sending is best effort:
// failures are logged and counted, never returned.
type NotificationService interface {
	Notify(ctx context.Context, kind, to string, data MessageData) bool
	// Send pushes a preformatted text
	Send(ctx context.Context, kind, to, text string) bool
	Reply(ctx context.Context, kind, replyToken string, data MessageData) bool
	Render(kind string, data MessageData) (string, error)
}

type notificationService struct {
	notifier  chat.Notifier
	templates map[string]*template.Template
}

func NewNotificationService(notifier chat.Notifier) NotificationService {
	templates := make(map[string]*template.Template, len(messageTemplates))
	for kind, text := range messageTemplates {
		templates[kind] = template.Must(template.New(kind).Parse(text))
	}
	return &notificationService{notifier: notifier, templates: templates}
}

func (s *notificationService) Render(kind string, data MessageData) (string, error) {
	tmpl, ok := s.templates[kind]
	if !ok {
		return "", fmt.Errorf("no message template for %q", kind)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (s *notificationService) Notify(ctx context.Context, kind, to string, data MessageData) bool {
	if to == "" {
		metrics.RecordNotification(kind, "skipped")
		return false
	}
	text, err := s.Render(kind, data)
	if err != nil {
		logger.FromContext(ctx).Error("failed to render message", zap.String("kind", kind), zap.Error(err))
		metrics.RecordNotification(kind, "failed")
		return false
	}
	return s.Send(ctx, kind, to, text)
}

func (s *notificationService) Send(ctx context.Context, kind, to, text string) bool {
	if to == "" {
		metrics.RecordNotification(kind, "skipped")
		return false
	}
	if err := s.notifier.Push(ctx, to, text); err != nil {
		logger.FromContext(ctx).Warn("chat push failed", zap.String("kind", kind), zap.Error(err))
		metrics.RecordNotification(kind, "failed")
		return false
	}
	metrics.RecordNotification(kind, "sent")
	return true
}

func (s *notificationService) Reply(ctx context.Context, kind, replyToken string, data MessageData) bool {
	text, err := s.Render(kind, data)
	if err != nil {
		metrics.RecordNotification(kind, "failed")
		return false
	}
	if err := s.notifier.Reply(ctx, replyToken, text); err != nil {
		logger.FromContext(ctx).Warn("chat reply failed", zap.String("kind", kind), zap.Error(err))
		metrics.RecordNotification(kind, "failed")
		return false
	}
	metrics.RecordNotification(kind, "sent")
	return true
}
