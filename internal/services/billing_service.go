package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dormdesk/internal/common"
	"dormdesk/internal/logger"
	"dormdesk/internal/metrics"
	"dormdesk/internal/models"
	"dormdesk/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReminderResult reports whether the reminder reached the chat API
type ReminderResult struct {
	BillingID uuid.UUID `json:"billing_id"`
	Sent      bool      `json:"sent"`
}

type BillingService interface {
	GenerateMonthly(ctx context.Context, orgID uuid.UUID, req *models.GenerateBillingsRequest) (*models.GenerateBillingsResult, error)
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Billing, error)
	List(ctx context.Context, orgID uuid.UUID, filters models.BillingFilters) ([]*models.Billing, int, error)
	Update(ctx context.Context, orgID, id uuid.UUID, req *models.UpdateBillingRequest) (*models.Billing, error)
	Delete(ctx context.Context, orgID, id uuid.UUID) error
	SubmitPayment(ctx context.Context, orgID, id, slipDocumentID uuid.UUID) (*models.Billing, error)
	ConfirmPayment(ctx context.Context, orgID, id uuid.UUID) (*models.Billing, error)
	RejectPayment(ctx context.Context, orgID, id uuid.UUID, reason string) (*models.Billing, error)
	SendReminder(ctx context.Context, orgID, id uuid.UUID) (*ReminderResult, error)
	// Receipt renders the PDF receipt of a paid billing and a file name for it
	Receipt(ctx context.Context, orgID, id uuid.UUID) ([]byte, string, error)
}

type billingService struct {
	billingRepo   repositories.BillingRepository
	residentRepo  repositories.ResidentRepository
	roomRepo      repositories.RoomRepository
	orgRepo       repositories.OrganizationRepository
	documentRepo  repositories.DocumentRepository
	settings      SettingsService
	notifications NotificationService
	cache         DashboardInvalidator
	audit         AuditLogsService
}

func NewBillingService(
	billingRepo repositories.BillingRepository,
	residentRepo repositories.ResidentRepository,
	roomRepo repositories.RoomRepository,
	orgRepo repositories.OrganizationRepository,
	documentRepo repositories.DocumentRepository,
	settings SettingsService,
	notifications NotificationService,
	cache DashboardInvalidator,
	audit AuditLogsService,
) BillingService {
	return &billingService{
		billingRepo:   billingRepo,
		residentRepo:  residentRepo,
		roomRepo:      roomRepo,
		orgRepo:       orgRepo,
		documentRepo:  documentRepo,
		settings:      settings,
		notifications: notifications,
		cache:         cache,
		audit:         audit,
	}
}

// dueDate is day dueDay of the month after month
func dueDate(month string, dueDay int) (time.Time, error) {
	start, _, err := common.MonthRange(month)
	if err != nil {
		return time.Time{}, err
	}
	next := start.AddDate(0, 1, 0)
	return time.Date(next.Year(), next.Month(), dueDay, 0, 0, 0, 0, time.UTC), nil
}

func (s *billingService) GenerateMonthly(ctx context.Context, orgID uuid.UUID, req *models.GenerateBillingsRequest) (*models.GenerateBillingsResult, error) {
	if err := common.ValidateBillingMonth(req.BillingMonth); err != nil {
		return nil, err
	}
	readings := make(map[uuid.UUID]models.MeterReading, len(req.Readings))
	for _, r := range req.Readings {
		if r.WaterUnits.IsNegative() || r.ElectricUnits.IsNegative() {
			return nil, fmt.Errorf("%w: meter units cannot be negative", common.ErrInvalidInput)
		}
		if _, dup := readings[r.RoomID]; dup {
			return nil, fmt.Errorf("%w: duplicate reading for room %s", common.ErrInvalidInput, r.RoomID)
		}
		readings[r.RoomID] = r
	}

	settings, err := s.settings.BillingSettings(ctx, orgID)
	if err != nil {
		return nil, err
	}
	due, err := dueDate(req.BillingMonth, settings.DueDay)
	if err != nil {
		return nil, err
	}

	billable, err := s.residentRepo.ListBillable(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list billable residents: %w", err)
	}

	residents := make(map[uuid.UUID]*models.Resident, len(billable))
	rooms := make(map[uuid.UUID]*models.Room, len(billable))
	drafts := make([]*models.Billing, 0, len(billable))
	for _, br := range billable {
		reading := readings[br.Room.ID]
		roomID := br.Room.ID
		b := &models.Billing{
			OrganizationID: orgID,
			ResidentID:     br.Resident.ID,
			RoomID:         &roomID,
			BillingMonth:   req.BillingMonth,
			RentAmount:     br.Room.MonthlyRent.Round(2),
			WaterUnits:     reading.WaterUnits,
			WaterAmount:    reading.WaterUnits.Mul(settings.WaterRate).Round(2),
			ElectricUnits:  reading.ElectricUnits,
			ElectricAmount: reading.ElectricUnits.Mul(settings.ElectricRate).Round(2),
			OtherAmount:    settings.CommonFee.Round(2),
			DueDate:        due,
			Status:         models.BillingPending,
		}
		b.Recalculate()
		drafts = append(drafts, b)
		residents[br.Resident.ID] = br.Resident
		rooms[br.Resident.ID] = br.Room
	}

	created, skipped, err := s.billingRepo.CreateMany(ctx, drafts)
	if err != nil {
		return nil, fmt.Errorf("failed to create billings: %w", err)
	}
	for range created {
		metrics.RecordBillingTransition("none", models.BillingPending)
	}

	invalidateDashboard(ctx, s.cache, orgID)
	s.audit.Record(ctx, &orgID, "billings", req.BillingMonth, models.ActionInsert, nil,
		models.JSONB{"billing_month": req.BillingMonth, "created": len(created), "skipped": skipped})

	for _, b := range created {
		resident := residents[b.ResidentID]
		if !resident.ChatLinked() {
			continue
		}
		data := NewMessageData(resident, b)
		data.RoomNumber = rooms[b.ResidentID].Number
		data.BankAccount = settings.BankAccount
		s.notifications.Notify(ctx, NotifyNewBill, *resident.ChatUserID, data)
	}

	logger.FromContext(ctx).Info("billings generated",
		zap.String("billing_month", req.BillingMonth),
		zap.Int("created", len(created)),
		zap.Int("skipped", skipped),
	)
	return &models.GenerateBillingsResult{Created: len(created), Skipped: skipped, Billings: created}, nil
}

func (s *billingService) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Billing, error) {
	return s.billingRepo.GetByID(ctx, orgID, id)
}

func (s *billingService) List(ctx context.Context, orgID uuid.UUID, filters models.BillingFilters) ([]*models.Billing, int, error) {
	if filters.BillingMonth != "" {
		if err := common.ValidateBillingMonth(filters.BillingMonth); err != nil {
			return nil, 0, err
		}
	}
	filters.Limit, filters.Offset = common.ValidatePaginationParams(filters.Limit, filters.Offset)
	return s.billingRepo.List(ctx, orgID, filters)
}

func (s *billingService) Update(ctx context.Context, orgID, id uuid.UUID, req *models.UpdateBillingRequest) (*models.Billing, error) {
	b, err := s.billingRepo.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if !b.Editable() {
		return nil, fmt.Errorf("billing is %s: %w", b.Status, common.ErrInvalidTransition)
	}
	before := *b

	// units without an explicit amount are priced with the current rates
	if (req.WaterUnits != nil && req.WaterAmount == nil) || (req.ElectricUnits != nil && req.ElectricAmount == nil) {
		settings, err := s.settings.BillingSettings(ctx, orgID)
		if err != nil {
			return nil, err
		}
		if req.WaterUnits != nil && req.WaterAmount == nil {
			amount := req.WaterUnits.Mul(settings.WaterRate)
			req.WaterAmount = &amount
		}
		if req.ElectricUnits != nil && req.ElectricAmount == nil {
			amount := req.ElectricUnits.Mul(settings.ElectricRate)
			req.ElectricAmount = &amount
		}
	}

	for _, field := range []struct {
		value *decimal.Decimal
		dest  *decimal.Decimal
	}{
		{req.RentAmount, &b.RentAmount},
		{req.WaterUnits, &b.WaterUnits},
		{req.WaterAmount, &b.WaterAmount},
		{req.ElectricUnits, &b.ElectricUnits},
		{req.ElectricAmount, &b.ElectricAmount},
		{req.OtherAmount, &b.OtherAmount},
	} {
		if field.value == nil {
			continue
		}
		if field.value.IsNegative() {
			return nil, fmt.Errorf("%w: amounts cannot be negative", common.ErrInvalidInput)
		}
		*field.dest = field.value.Round(2)
	}
	if req.DueDate != nil {
		if b.DueDate, err = common.ParseDate(*req.DueDate, "due_date"); err != nil {
			return nil, err
		}
	}
	if req.Note != nil {
		b.Note = strings.TrimSpace(*req.Note)
	}
	b.Recalculate()

	if err := s.billingRepo.Update(ctx, b); err != nil {
		return nil, err
	}
	invalidateDashboard(ctx, s.cache, orgID)
	s.audit.Record(ctx, &orgID, "billings", id.String(), models.ActionUpdate, before, b)
	return b, nil
}

func (s *billingService) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	b, err := s.billingRepo.GetByID(ctx, orgID, id)
	if err != nil {
		return err
	}
	if err := s.billingRepo.Delete(ctx, orgID, id); err != nil {
		return err
	}
	invalidateDashboard(ctx, s.cache, orgID)
	s.audit.Record(ctx, &orgID, "billings", id.String(), models.ActionDelete, b, nil)
	return nil
}

// transitioned records the side effects every successful status change shares
func (s *billingService) transitioned(ctx context.Context, orgID uuid.UUID, b *models.Billing, previous string, extra models.JSONB) {
	metrics.RecordBillingTransition(previous, b.Status)
	invalidateDashboard(ctx, s.cache, orgID)

	newValues := models.JSONB{"status": b.Status}
	for k, v := range extra {
		newValues[k] = v
	}
	s.audit.Record(ctx, &orgID, "billings", b.ID.String(), models.ActionStatusChange, models.JSONB{"status": previous}, newValues)
}

// residentFor loads the resident of a bill for messaging. A failure only costs the notification.
func (s *billingService) residentFor(ctx context.Context, b *models.Billing) *models.Resident {
	resident, err := s.residentRepo.GetByID(ctx, b.OrganizationID, b.ResidentID)
	if err != nil {
		logger.FromContext(ctx).Warn("failed to load resident for notification",
			zap.String("billing_id", b.ID.String()), zap.Error(err))
		return nil
	}
	return resident
}

func (s *billingService) notifyResident(ctx context.Context, kind string, b *models.Billing) {
	resident := s.residentFor(ctx, b)
	if resident == nil || !resident.ChatLinked() {
		metrics.RecordNotification(kind, "skipped")
		return
	}
	s.notifications.Notify(ctx, kind, *resident.ChatUserID, NewMessageData(resident, b))
}

func (s *billingService) SubmitPayment(ctx context.Context, orgID, id, slipDocumentID uuid.UUID) (*models.Billing, error) {
	if _, err := s.documentRepo.GetByID(ctx, orgID, slipDocumentID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("%w: slip document does not exist", common.ErrInvalidInput)
		}
		return nil, err
	}

	b, previous, err := s.billingRepo.Transition(ctx, orgID, id, repositories.BillingTransition{
		From:           []string{models.BillingPending, models.BillingRejected, models.BillingReview},
		To:             models.BillingReview,
		SlipDocumentID: &slipDocumentID,
		Submitted:      true,
	})
	if err != nil {
		return nil, err
	}

	if previous == models.BillingReview {
		// resubmission while under review only swaps the slip
		s.audit.Record(ctx, &orgID, "billings", id.String(), models.ActionUpdate, nil,
			models.JSONB{"slip_document_id": slipDocumentID.String()})
		return b, nil
	}

	s.transitioned(ctx, orgID, b, previous, models.JSONB{"slip_document_id": slipDocumentID.String()})

	settings, err := s.settings.BillingSettings(ctx, orgID)
	if err != nil {
		logger.FromContext(ctx).Warn("failed to load settings for admin notification", zap.Error(err))
		return b, nil
	}
	s.notifications.Notify(ctx, NotifyPaymentReceived, settings.ChatAdminTarget, NewMessageData(s.residentFor(ctx, b), b))
	return b, nil
}

func (s *billingService) ConfirmPayment(ctx context.Context, orgID, id uuid.UUID) (*models.Billing, error) {
	b, previous, err := s.billingRepo.Transition(ctx, orgID, id, repositories.BillingTransition{
		From:       []string{models.BillingReview, models.BillingPending},
		To:         models.BillingPaid,
		ReviewedBy: common.ActorPtr(ctx),
		Paid:       true,
	})
	if errors.Is(err, common.ErrInvalidTransition) && b != nil && b.Status == models.BillingPaid {
		return b, nil
	}
	if err != nil {
		return nil, err
	}

	s.transitioned(ctx, orgID, b, previous, nil)
	s.notifyResident(ctx, NotifyPaymentConfirmed, b)
	return b, nil
}

func (s *billingService) RejectPayment(ctx context.Context, orgID, id uuid.UUID, reason string) (*models.Billing, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: reason is required", common.ErrInvalidInput)
	}

	b, previous, err := s.billingRepo.Transition(ctx, orgID, id, repositories.BillingTransition{
		From:         []string{models.BillingReview},
		To:           models.BillingRejected,
		ReviewedBy:   common.ActorPtr(ctx),
		RejectReason: &reason,
	})
	if err != nil {
		return nil, err
	}

	s.transitioned(ctx, orgID, b, previous, models.JSONB{"reject_reason": reason})
	s.notifyResident(ctx, NotifyPaymentRejected, b)
	return b, nil
}

func (s *billingService) SendReminder(ctx context.Context, orgID, id uuid.UUID) (*ReminderResult, error) {
	b, err := s.billingRepo.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if b.Status != models.BillingPending && b.Status != models.BillingRejected {
		return nil, fmt.Errorf("billing is %s: %w", b.Status, common.ErrInvalidTransition)
	}
	resident, err := s.residentRepo.GetByID(ctx, orgID, b.ResidentID)
	if err != nil {
		return nil, err
	}
	if !resident.ChatLinked() {
		return nil, fmt.Errorf("%w: resident has no linked chat account", common.ErrInvalidInput)
	}

	data := NewMessageData(resident, b)
	if settings, err := s.settings.BillingSettings(ctx, orgID); err == nil {
		data.BankAccount = settings.BankAccount
	}
	sent := s.notifications.Notify(ctx, NotifyReminder, *resident.ChatUserID, data)
	return &ReminderResult{BillingID: id, Sent: sent}, nil
}

func (s *billingService) Receipt(ctx context.Context, orgID, id uuid.UUID) ([]byte, string, error) {
	b, err := s.billingRepo.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, "", err
	}
	if b.Status != models.BillingPaid {
		return nil, "", fmt.Errorf("receipt requires a paid billing, billing is %s: %w", b.Status, common.ErrInvalidTransition)
	}

	org, err := s.orgRepo.GetByID(ctx, orgID)
	if err != nil {
		return nil, "", err
	}
	resident, err := s.residentRepo.GetByID(ctx, orgID, b.ResidentID)
	if err != nil {
		return nil, "", err
	}
	var room *models.Room
	if b.RoomID != nil {
		// the room may have been deleted since payment
		if room, err = s.roomRepo.GetByID(ctx, orgID, *b.RoomID); err != nil && !errors.Is(err, common.ErrNotFound) {
			return nil, "", err
		}
	}

	pdf, err := renderReceipt(org, resident, room, b)
	if err != nil {
		return nil, "", err
	}
	return pdf, fmt.Sprintf("receipt-%s-%s.pdf", b.BillingMonth, b.ID.String()[:8]), nil
}
