package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"dormdesk/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNotificationService_RenderNewBill(t *testing.T) {
	svc := NewNotificationService(&MockNotifier{})
	data := NewMessageData(&models.Resident{FullName: "Somchai"}, &models.Billing{
		BillingMonth: "2024-05",
		TotalAmount:  decimal.RequireFromString("4580"),
		DueDate:      time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC),
	})
	data.RoomNumber = "A101"
	data.BankAccount = "KBank 123"

	text, err := svc.Render(NotifyNewBill, data)
	require.NoError(t, err)
	assert.Contains(t, text, "Hello Somchai")
	assert.Contains(t, text, "(room A101)")
	assert.Contains(t, text, "4580.00 THB")
	assert.Contains(t, text, "2024-06-05")
	assert.Contains(t, text, "Transfer to: KBank 123")
}

func TestNotificationService_RenderUnknownKind(t *testing.T) {
	svc := NewNotificationService(&MockNotifier{})
	_, err := svc.Render("fax", MessageData{})
	assert.Error(t, err)
}

func TestNotificationService_Notify(t *testing.T) {
	ctx := context.Background()

	t.Run("no recipient is skipped", func(t *testing.T) {
		notifier := &MockNotifier{}
		svc := NewNotificationService(notifier)
		assert.False(t, svc.Notify(ctx, NotifyReminder, "", MessageData{}))
		notifier.AssertNotCalled(t, "Push", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("push failure is swallowed", func(t *testing.T) {
		notifier := &MockNotifier{}
		notifier.On("Push", mock.Anything, "U1", mock.AnythingOfType("string")).Return(errors.New("boom"))
		svc := NewNotificationService(notifier)
		assert.False(t, svc.Notify(ctx, NotifyReminder, "U1", MessageData{Month: "2024-05"}))
	})

	t.Run("sent", func(t *testing.T) {
		notifier := &MockNotifier{}
		notifier.On("Push", mock.Anything, "U1", mock.MatchedBy(func(text string) bool {
			return assert.ObjectsAreEqual("Your payment for 2024-05 was rejected: blurry slip\nPlease submit a new slip.", text)
		})).Return(nil)
		svc := NewNotificationService(notifier)
		assert.True(t, svc.Notify(ctx, NotifyPaymentRejected, "U1", MessageData{Month: "2024-05", Reason: "blurry slip"}))
		notifier.AssertExpectations(t)
	})
}
