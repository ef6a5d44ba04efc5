package services

import (
	"context"
	"io"
	"time"

	"dormdesk/internal/models"
	"dormdesk/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, orgID *uuid.UUID, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return m.Called(ctx, id, passwordHash).Error(0)
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	return m.Called(ctx, orgID, id).Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, orgID uuid.UUID, filters models.UserFilters) ([]*models.User, int, error) {
	args := m.Called(ctx, orgID, filters)
	return args.Get(0).([]*models.User), args.Int(1), args.Error(2)
}

type MockOrganizationRepository struct {
	mock.Mock
}

func (m *MockOrganizationRepository) CreateWithDefaults(ctx context.Context, org *models.Organization, configs map[string]string, admin *models.User) error {
	return m.Called(ctx, org, configs, admin).Error(0)
}

func (m *MockOrganizationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) GetBySlug(ctx context.Context, slug string) (*models.Organization, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) Update(ctx context.Context, org *models.Organization) error {
	return m.Called(ctx, org).Error(0)
}

func (m *MockOrganizationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockOrganizationRepository) List(ctx context.Context, status string, page models.Pagination) ([]*models.Organization, int, error) {
	args := m.Called(ctx, status, page)
	return args.Get(0).([]*models.Organization), args.Int(1), args.Error(2)
}

func (m *MockOrganizationRepository) ListActiveIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Create(ctx context.Context, session *models.UserSession) error {
	return m.Called(ctx, session).Error(0)
}

func (m *MockSessionRepository) GetPrincipal(ctx context.Context, sessionID uuid.UUID, tokenHash string) (*models.SessionPrincipal, error) {
	args := m.Called(ctx, sessionID, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SessionPrincipal), args.Error(1)
}

func (m *MockSessionRepository) Revoke(ctx context.Context, sessionID uuid.UUID) error {
	return m.Called(ctx, sessionID).Error(0)
}

func (m *MockSessionRepository) RevokeAllForUser(ctx context.Context, userID uuid.UUID, keep *uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, userID, keep)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockSessionRepository) OpenIDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockSessionRepository) OpenIDsForOrganization(ctx context.Context, orgID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, orgID)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockSessionRepository) DeleteStale(ctx context.Context, olderThan time.Time) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

type MockRoomRepository struct {
	mock.Mock
}

func (m *MockRoomRepository) Create(ctx context.Context, room *models.Room) error {
	return m.Called(ctx, room).Error(0)
}

func (m *MockRoomRepository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Room, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}

func (m *MockRoomRepository) List(ctx context.Context, orgID uuid.UUID, filters models.RoomFilters) ([]*models.Room, int, error) {
	args := m.Called(ctx, orgID, filters)
	return args.Get(0).([]*models.Room), args.Int(1), args.Error(2)
}

func (m *MockRoomRepository) Update(ctx context.Context, room *models.Room) error {
	return m.Called(ctx, room).Error(0)
}

func (m *MockRoomRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	return m.Called(ctx, orgID, id).Error(0)
}

func (m *MockRoomRepository) SetStatus(ctx context.Context, orgID, id uuid.UUID, status string) error {
	return m.Called(ctx, orgID, id, status).Error(0)
}

func (m *MockRoomRepository) CountActiveResidents(ctx context.Context, orgID, id uuid.UUID) (int, error) {
	args := m.Called(ctx, orgID, id)
	return args.Int(0), args.Error(1)
}

func (m *MockRoomRepository) CountByStatus(ctx context.Context, orgID uuid.UUID) (map[string]int, error) {
	args := m.Called(ctx, orgID)
	return args.Get(0).(map[string]int), args.Error(1)
}

type MockResidentRepository struct {
	mock.Mock
}

func (m *MockResidentRepository) Create(ctx context.Context, resident *models.Resident) error {
	return m.Called(ctx, resident).Error(0)
}

func (m *MockResidentRepository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Resident, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Resident), args.Error(1)
}

func (m *MockResidentRepository) List(ctx context.Context, orgID uuid.UUID, filters models.ResidentFilters) ([]*models.Resident, int, error) {
	args := m.Called(ctx, orgID, filters)
	return args.Get(0).([]*models.Resident), args.Int(1), args.Error(2)
}

func (m *MockResidentRepository) Update(ctx context.Context, resident *models.Resident) error {
	return m.Called(ctx, resident).Error(0)
}

func (m *MockResidentRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	return m.Called(ctx, orgID, id).Error(0)
}

func (m *MockResidentRepository) AssignRoom(ctx context.Context, orgID, id, roomID uuid.UUID) (*models.Resident, error) {
	args := m.Called(ctx, orgID, id, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Resident), args.Error(1)
}

func (m *MockResidentRepository) MoveOut(ctx context.Context, orgID, id uuid.UUID, date time.Time) (*models.Resident, error) {
	args := m.Called(ctx, orgID, id, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Resident), args.Error(1)
}

func (m *MockResidentRepository) SetLinkCode(ctx context.Context, orgID, id uuid.UUID, code string) error {
	return m.Called(ctx, orgID, id, code).Error(0)
}

func (m *MockResidentRepository) BindChatByLinkCode(ctx context.Context, code, chatUserID string) (*models.Resident, error) {
	args := m.Called(ctx, code, chatUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Resident), args.Error(1)
}

func (m *MockResidentRepository) UnlinkChat(ctx context.Context, orgID, id uuid.UUID) error {
	return m.Called(ctx, orgID, id).Error(0)
}

func (m *MockResidentRepository) ListChatRecipients(ctx context.Context, orgID uuid.UUID, roomIDs []uuid.UUID) ([]*models.Resident, error) {
	args := m.Called(ctx, orgID, roomIDs)
	return args.Get(0).([]*models.Resident), args.Error(1)
}

func (m *MockResidentRepository) ListBillable(ctx context.Context, orgID uuid.UUID) ([]repositories.BillableResident, error) {
	args := m.Called(ctx, orgID)
	return args.Get(0).([]repositories.BillableResident), args.Error(1)
}

func (m *MockResidentRepository) CountActive(ctx context.Context, orgID uuid.UUID) (int, error) {
	args := m.Called(ctx, orgID)
	return args.Int(0), args.Error(1)
}

type MockBillingRepository struct {
	mock.Mock
}

func (m *MockBillingRepository) CreateMany(ctx context.Context, billings []*models.Billing) ([]*models.Billing, int, error) {
	args := m.Called(ctx, billings)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.Billing), args.Int(1), args.Error(2)
}

func (m *MockBillingRepository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Billing, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Billing), args.Error(1)
}

func (m *MockBillingRepository) List(ctx context.Context, orgID uuid.UUID, filters models.BillingFilters) ([]*models.Billing, int, error) {
	args := m.Called(ctx, orgID, filters)
	return args.Get(0).([]*models.Billing), args.Int(1), args.Error(2)
}

func (m *MockBillingRepository) Update(ctx context.Context, billing *models.Billing) error {
	return m.Called(ctx, billing).Error(0)
}

func (m *MockBillingRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	return m.Called(ctx, orgID, id).Error(0)
}

func (m *MockBillingRepository) Transition(ctx context.Context, orgID, id uuid.UUID, t repositories.BillingTransition) (*models.Billing, string, error) {
	args := m.Called(ctx, orgID, id, t)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*models.Billing), args.String(1), args.Error(2)
}

func (m *MockBillingRepository) TotalsByStatus(ctx context.Context, orgID uuid.UUID, month string) ([]models.BillingStatusTotal, error) {
	args := m.Called(ctx, orgID, month)
	return args.Get(0).([]models.BillingStatusTotal), args.Error(1)
}

func (m *MockBillingRepository) PaidIncome(ctx context.Context, orgID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, orgID, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) Create(ctx context.Context, expense *models.Expense) error {
	return m.Called(ctx, expense).Error(0)
}

func (m *MockExpenseRepository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Expense, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Expense), args.Error(1)
}

func (m *MockExpenseRepository) List(ctx context.Context, orgID uuid.UUID, filters models.ExpenseFilters) ([]*models.Expense, int, error) {
	args := m.Called(ctx, orgID, filters)
	return args.Get(0).([]*models.Expense), args.Int(1), args.Error(2)
}

func (m *MockExpenseRepository) Update(ctx context.Context, expense *models.Expense) error {
	return m.Called(ctx, expense).Error(0)
}

func (m *MockExpenseRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	return m.Called(ctx, orgID, id).Error(0)
}

func (m *MockExpenseRepository) TotalsByCategory(ctx context.Context, orgID uuid.UUID, from, to time.Time) ([]models.ExpenseCategoryTotal, decimal.Decimal, error) {
	args := m.Called(ctx, orgID, from, to)
	return args.Get(0).([]models.ExpenseCategoryTotal), args.Get(1).(decimal.Decimal), args.Error(2)
}

type MockRecurringExpenseRepository struct {
	mock.Mock
}

func (m *MockRecurringExpenseRepository) Create(ctx context.Context, re *models.RecurringExpense) error {
	return m.Called(ctx, re).Error(0)
}

func (m *MockRecurringExpenseRepository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.RecurringExpense, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RecurringExpense), args.Error(1)
}

func (m *MockRecurringExpenseRepository) List(ctx context.Context, orgID uuid.UUID, activeOnly bool) ([]*models.RecurringExpense, error) {
	args := m.Called(ctx, orgID, activeOnly)
	return args.Get(0).([]*models.RecurringExpense), args.Error(1)
}

func (m *MockRecurringExpenseRepository) Update(ctx context.Context, re *models.RecurringExpense) error {
	return m.Called(ctx, re).Error(0)
}

func (m *MockRecurringExpenseRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	return m.Called(ctx, orgID, id).Error(0)
}

func (m *MockRecurringExpenseRepository) GenerateForMonth(ctx context.Context, re *models.RecurringExpense, month string, expenseDate time.Time) (*models.Expense, error) {
	args := m.Called(ctx, re, month, expenseDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Expense), args.Error(1)
}

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	return m.Called(ctx, doc).Error(0)
}

func (m *MockDocumentRepository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Document, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Document), args.Error(1)
}

func (m *MockDocumentRepository) ListByOwner(ctx context.Context, orgID uuid.UUID, ownerType string, ownerID *uuid.UUID, page models.Pagination) ([]*models.Document, int, error) {
	args := m.Called(ctx, orgID, ownerType, ownerID, page)
	return args.Get(0).([]*models.Document), args.Int(1), args.Error(2)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	return m.Called(ctx, orgID, id).Error(0)
}

func (m *MockDocumentRepository) OwnerExists(ctx context.Context, orgID uuid.UUID, ownerType string, ownerID uuid.UUID) (bool, error) {
	args := m.Called(ctx, orgID, ownerType, ownerID)
	return args.Bool(0), args.Error(1)
}

type MockSystemConfigRepository struct {
	mock.Mock
}

func (m *MockSystemConfigRepository) GetAll(ctx context.Context, orgID uuid.UUID) (map[string]string, error) {
	args := m.Called(ctx, orgID)
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *MockSystemConfigRepository) Upsert(ctx context.Context, orgID uuid.UUID, values map[string]string, updatedBy *uuid.UUID) error {
	return m.Called(ctx, orgID, values, updatedBy).Error(0)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetPrincipal(ctx context.Context, sessionID uuid.UUID) (*models.SessionPrincipal, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SessionPrincipal), args.Error(1)
}

func (m *MockCacheService) SetPrincipal(ctx context.Context, principal *models.SessionPrincipal, ttl time.Duration) error {
	return m.Called(ctx, principal, ttl).Error(0)
}

func (m *MockCacheService) DeleteSession(ctx context.Context, sessionIDs ...uuid.UUID) error {
	return m.Called(ctx, sessionIDs).Error(0)
}

func (m *MockCacheService) GetDashboard(ctx context.Context, orgID uuid.UUID, month string) (*models.DashboardSummary, error) {
	args := m.Called(ctx, orgID, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DashboardSummary), args.Error(1)
}

func (m *MockCacheService) SetDashboard(ctx context.Context, orgID uuid.UUID, summary *models.DashboardSummary, ttl time.Duration) error {
	return m.Called(ctx, orgID, summary, ttl).Error(0)
}

func (m *MockCacheService) InvalidateDashboard(ctx context.Context, orgID uuid.UUID) error {
	return m.Called(ctx, orgID).Error(0)
}

func (m *MockCacheService) IsRateLimited(ctx context.Context, key string, limit int) (bool, error) {
	args := m.Called(ctx, key, limit)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheService) IncrementRateLimit(ctx context.Context, key string, window time.Duration) error {
	return m.Called(ctx, key, window).Error(0)
}

func (m *MockCacheService) ResetRateLimit(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Push(ctx context.Context, to, text string) error {
	return m.Called(ctx, to, text).Error(0)
}

func (m *MockNotifier) Reply(ctx context.Context, replyToken, text string) error {
	return m.Called(ctx, replyToken, text).Error(0)
}

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) Notify(ctx context.Context, kind, to string, data MessageData) bool {
	return m.Called(ctx, kind, to, data).Bool(0)
}

func (m *MockNotificationService) Send(ctx context.Context, kind, to, text string) bool {
	return m.Called(ctx, kind, to, text).Bool(0)
}

func (m *MockNotificationService) Reply(ctx context.Context, kind, replyToken string, data MessageData) bool {
	return m.Called(ctx, kind, replyToken, data).Bool(0)
}

func (m *MockNotificationService) Render(kind string, data MessageData) (string, error) {
	args := m.Called(kind, data)
	return args.String(0), args.Error(1)
}

type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) GetAll(ctx context.Context, orgID uuid.UUID) (map[string]string, error) {
	args := m.Called(ctx, orgID)
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *MockSettingsService) Update(ctx context.Context, orgID uuid.UUID, values map[string]string) (map[string]string, error) {
	args := m.Called(ctx, orgID, values)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *MockSettingsService) BillingSettings(ctx context.Context, orgID uuid.UUID) (*BillingSettings, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*BillingSettings), args.Error(1)
}

type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) PutObject(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	return m.Called(ctx, key, reader, size, contentType).Error(0)
}

func (m *MockObjectStorage) PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, key, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStorage) RemoveObject(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockObjectStorage) EnsureBucket(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockObjectStorage) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// MockAuditLogsService accepts any Record call; tests assert on it only when they care
type MockAuditLogsService struct {
	mock.Mock
}

func newMockAudit() *MockAuditLogsService {
	m := &MockAuditLogsService{}
	m.On("Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Maybe()
	return m
}

func (m *MockAuditLogsService) LogActivity(ctx context.Context, orgID *uuid.UUID, tableName, recordID, action string, changedBy *uuid.UUID, oldValues, newValues models.JSONB) error {
	return m.Called(ctx, orgID, tableName, recordID, action, changedBy, oldValues, newValues).Error(0)
}

func (m *MockAuditLogsService) Record(ctx context.Context, orgID *uuid.UUID, tableName, recordID, action string, oldValues, newValues any) {
	m.Called(ctx, orgID, tableName, recordID, action, oldValues, newValues)
}

func (m *MockAuditLogsService) ListAuditLogs(ctx context.Context, orgID uuid.UUID, filters *models.AuditLogFilters) ([]*models.AuditLog, int, error) {
	args := m.Called(ctx, orgID, filters)
	return args.Get(0).([]*models.AuditLog), args.Int(1), args.Error(2)
}

func (m *MockAuditLogsService) GetEntityHistory(ctx context.Context, orgID uuid.UUID, tableName, recordID string, page models.Pagination) ([]*models.AuditLog, int, error) {
	args := m.Called(ctx, orgID, tableName, recordID, page)
	return args.Get(0).([]*models.AuditLog), args.Int(1), args.Error(2)
}

func (m *MockAuditLogsService) GetAuditSummary(ctx context.Context, orgID uuid.UUID, startDate, endDate time.Time) (*models.AuditLogSummary, error) {
	args := m.Called(ctx, orgID, startDate, endDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuditLogSummary), args.Error(1)
}

type MockAuditLogsRepository struct {
	mock.Mock
}

func (m *MockAuditLogsRepository) Create(ctx context.Context, auditLog *models.AuditLog) error {
	return m.Called(ctx, auditLog).Error(0)
}

func (m *MockAuditLogsRepository) List(ctx context.Context, orgID uuid.UUID, filters *models.AuditLogFilters) ([]*models.AuditLog, int, error) {
	args := m.Called(ctx, orgID, filters)
	return args.Get(0).([]*models.AuditLog), args.Int(1), args.Error(2)
}

func (m *MockAuditLogsRepository) GetByTableAndRecord(ctx context.Context, orgID uuid.UUID, tableName, recordID string, page models.Pagination) ([]*models.AuditLog, int, error) {
	args := m.Called(ctx, orgID, tableName, recordID, page)
	return args.Get(0).([]*models.AuditLog), args.Int(1), args.Error(2)
}

func (m *MockAuditLogsRepository) GetSummary(ctx context.Context, orgID uuid.UUID, startDate, endDate time.Time) (*models.AuditLogSummary, error) {
	args := m.Called(ctx, orgID, startDate, endDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuditLogSummary), args.Error(1)
}
