package services

import (
	"context"
	"errors"
	"testing"

	"dormdesk/internal/chat"
	"dormdesk/internal/common"
	"dormdesk/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBroadcast_CountsSentAndFailed(t *testing.T) {
	orgID := uuid.New()
	recipients := make([]*models.Resident, 0, 5)
	for i := 0; i < 5; i++ {
		recipients = append(recipients, fakeResident(orgID, nil, true))
	}

	residentRepo := &MockResidentRepository{}
	residentRepo.On("ListChatRecipients", mock.Anything, orgID, []uuid.UUID{}).Return(recipients, nil)

	notifier := &MockNotifier{}
	for i, r := range recipients {
		var err error
		if i%2 == 0 {
			err = &chat.APIError{StatusCode: 429, Message: "rate limited"}
		}
		notifier.On("Push", mock.Anything, *r.ChatUserID, "Water shut off at 10:00").Return(err).Once()
	}

	svc := NewBroadcastService(residentRepo, NewNotificationService(notifier), newMockAudit(), 2)
	result, err := svc.Broadcast(context.Background(), orgID, &models.BroadcastRequest{Message: " Water shut off at 10:00 "})

	require.NoError(t, err)
	assert.Equal(t, 5, result.Recipients)
	assert.Equal(t, 2, result.Sent)
	assert.Equal(t, 3, result.Failed)
	notifier.AssertExpectations(t)
}

func TestBroadcast_LimitsToRooms(t *testing.T) {
	orgID := uuid.New()
	roomID := uuid.New()

	residentRepo := &MockResidentRepository{}
	residentRepo.On("ListChatRecipients", mock.Anything, orgID, []uuid.UUID{roomID}).Return([]*models.Resident{}, nil)

	svc := NewBroadcastService(residentRepo, NewNotificationService(&MockNotifier{}), newMockAudit(), 0)
	result, err := svc.Broadcast(context.Background(), orgID, &models.BroadcastRequest{Message: "hi", RoomIDs: []string{roomID.String()}})

	require.NoError(t, err)
	assert.Equal(t, &models.BroadcastResult{}, result)
	residentRepo.AssertExpectations(t)
}

func TestBroadcast_InvalidInput(t *testing.T) {
	svc := NewBroadcastService(&MockResidentRepository{}, NewNotificationService(&MockNotifier{}), newMockAudit(), 4)

	_, err := svc.Broadcast(context.Background(), uuid.New(), &models.BroadcastRequest{Message: "  "})
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	_, err = svc.Broadcast(context.Background(), uuid.New(), &models.BroadcastRequest{Message: "hi", RoomIDs: []string{"nope"}})
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestBroadcast_RecipientLookupFails(t *testing.T) {
	orgID := uuid.New()
	residentRepo := &MockResidentRepository{}
	residentRepo.On("ListChatRecipients", mock.Anything, orgID, []uuid.UUID{}).Return([]*models.Resident(nil), errors.New("db down"))

	svc := NewBroadcastService(residentRepo, NewNotificationService(&MockNotifier{}), newMockAudit(), 4)
	_, err := svc.Broadcast(context.Background(), orgID, &models.BroadcastRequest{Message: "hi"})
	assert.Error(t, err)
}
