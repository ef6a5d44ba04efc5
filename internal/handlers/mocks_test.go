package handlers

import (
	"context"

	"dormdesk/internal/jobs/background"
	"dormdesk/internal/models"
	"dormdesk/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockBillingService struct {
	mock.Mock
}

func (m *MockBillingService) GenerateMonthly(ctx context.Context, orgID uuid.UUID, req *models.GenerateBillingsRequest) (*models.GenerateBillingsResult, error) {
	args := m.Called(ctx, orgID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GenerateBillingsResult), args.Error(1)
}

func (m *MockBillingService) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Billing, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Billing), args.Error(1)
}

func (m *MockBillingService) List(ctx context.Context, orgID uuid.UUID, filters models.BillingFilters) ([]*models.Billing, int, error) {
	args := m.Called(ctx, orgID, filters)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.Billing), args.Int(1), args.Error(2)
}

func (m *MockBillingService) Update(ctx context.Context, orgID, id uuid.UUID, req *models.UpdateBillingRequest) (*models.Billing, error) {
	args := m.Called(ctx, orgID, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Billing), args.Error(1)
}

func (m *MockBillingService) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	return m.Called(ctx, orgID, id).Error(0)
}

func (m *MockBillingService) SubmitPayment(ctx context.Context, orgID, id, slipDocumentID uuid.UUID) (*models.Billing, error) {
	args := m.Called(ctx, orgID, id, slipDocumentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Billing), args.Error(1)
}

func (m *MockBillingService) ConfirmPayment(ctx context.Context, orgID, id uuid.UUID) (*models.Billing, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Billing), args.Error(1)
}

func (m *MockBillingService) RejectPayment(ctx context.Context, orgID, id uuid.UUID, reason string) (*models.Billing, error) {
	args := m.Called(ctx, orgID, id, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Billing), args.Error(1)
}

func (m *MockBillingService) SendReminder(ctx context.Context, orgID, id uuid.UUID) (*services.ReminderResult, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ReminderResult), args.Error(1)
}

func (m *MockBillingService) Receipt(ctx context.Context, orgID, id uuid.UUID) ([]byte, string, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Upload(ctx context.Context, orgID uuid.UUID, in services.UploadInput) (*models.Document, error) {
	args := m.Called(ctx, orgID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Document), args.Error(1)
}

func (m *MockDocumentService) Get(ctx context.Context, orgID, id uuid.UUID) (*models.Document, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Document), args.Error(1)
}

func (m *MockDocumentService) List(ctx context.Context, orgID uuid.UUID, ownerType string, ownerID *uuid.UUID, page models.Pagination) ([]*models.Document, int, error) {
	args := m.Called(ctx, orgID, ownerType, ownerID, page)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.Document), args.Int(1), args.Error(2)
}

func (m *MockDocumentService) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	return m.Called(ctx, orgID, id).Error(0)
}

type MockRoomService struct {
	mock.Mock
}

func (m *MockRoomService) Create(ctx context.Context, orgID uuid.UUID, req *models.CreateRoomRequest) (*models.Room, error) {
	args := m.Called(ctx, orgID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}

func (m *MockRoomService) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Room, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}

func (m *MockRoomService) List(ctx context.Context, orgID uuid.UUID, filters models.RoomFilters) ([]*models.Room, int, error) {
	args := m.Called(ctx, orgID, filters)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.Room), args.Int(1), args.Error(2)
}

func (m *MockRoomService) Update(ctx context.Context, orgID, id uuid.UUID, req *models.UpdateRoomRequest) (*models.Room, error) {
	args := m.Called(ctx, orgID, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}

func (m *MockRoomService) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	return m.Called(ctx, orgID, id).Error(0)
}

func (m *MockRoomService) SetStatus(ctx context.Context, orgID, id uuid.UUID, status string) (*models.Room, error) {
	args := m.Called(ctx, orgID, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}

type MockOrganizationService struct {
	mock.Mock
}

func (m *MockOrganizationService) Create(ctx context.Context, req *models.CreateOrganizationRequest) (*models.Organization, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Organization), args.Error(1)
}

func (m *MockOrganizationService) GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Organization), args.Error(1)
}

func (m *MockOrganizationService) Update(ctx context.Context, id uuid.UUID, req *models.UpdateOrganizationRequest) (*models.Organization, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Organization), args.Error(1)
}

func (m *MockOrganizationService) SetStatus(ctx context.Context, id uuid.UUID, status string) (*models.Organization, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Organization), args.Error(1)
}

func (m *MockOrganizationService) List(ctx context.Context, status string, page models.Pagination) ([]*models.Organization, int, error) {
	args := m.Called(ctx, status, page)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.Organization), args.Int(1), args.Error(2)
}

type MockChatBinder struct {
	mock.Mock
}

func (m *MockChatBinder) BindChat(ctx context.Context, code, chatUserID string) (*models.Resident, error) {
	args := m.Called(ctx, code, chatUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Resident), args.Error(1)
}

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) Notify(ctx context.Context, kind, to string, data services.MessageData) bool {
	return m.Called(ctx, kind, to, data).Bool(0)
}

func (m *MockNotificationService) Send(ctx context.Context, kind, to, text string) bool {
	return m.Called(ctx, kind, to, text).Bool(0)
}

func (m *MockNotificationService) Reply(ctx context.Context, kind, replyToken string, data services.MessageData) bool {
	return m.Called(ctx, kind, replyToken, data).Bool(0)
}

func (m *MockNotificationService) Render(kind string, data services.MessageData) (string, error) {
	args := m.Called(kind, data)
	return args.String(0), args.Error(1)
}

type MockJobScheduler struct {
	mock.Mock
}

func (m *MockJobScheduler) Jobs() []background.JobInfo {
	return m.Called().Get(0).([]background.JobInfo)
}

func (m *MockJobScheduler) RunNow(name string) error {
	return m.Called(name).Error(0)
}

type fakePinger struct {
	err error
}

func (p fakePinger) Ping(context.Context) error {
	return p.err
}
