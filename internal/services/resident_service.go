package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"dormdesk/internal/common"
	"dormdesk/internal/logger"
	"dormdesk/internal/models"
	"dormdesk/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	linkCodeLength   = 6
	linkCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	linkCodeAttempts = 5
)

type ResidentService interface {
	Create(ctx context.Context, orgID uuid.UUID, req *models.CreateResidentRequest) (*models.Resident, error)
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Resident, error)
	List(ctx context.Context, orgID uuid.UUID, filters models.ResidentFilters) ([]*models.Resident, int, error)
	Update(ctx context.Context, orgID, id uuid.UUID, req *models.UpdateResidentRequest) (*models.Resident, error)
	Delete(ctx context.Context, orgID, id uuid.UUID) error
	AssignRoom(ctx context.Context, orgID, id, roomID uuid.UUID) (*models.Resident, error)
	// MoveOut defaults the date to today when empty
	MoveOut(ctx context.Context, orgID, id uuid.UUID, date string) (*models.Resident, error)
	IssueLinkCode(ctx context.Context, orgID, id uuid.UUID) (*models.LinkCodeResponse, error)
	UnlinkChat(ctx context.Context, orgID, id uuid.UUID) error
	// BindChat consumes a link code sent to the chat bot
	BindChat(ctx context.Context, code, chatUserID string) (*models.Resident, error)
}

type residentService struct {
	residentRepo repositories.ResidentRepository
	cache        DashboardInvalidator
	audit        AuditLogsService
	now          func() time.Time
}

// DashboardInvalidator drops cached dashboard summaries of an organization
type DashboardInvalidator interface {
	InvalidateDashboard(ctx context.Context, orgID uuid.UUID) error
}

func NewResidentService(residentRepo repositories.ResidentRepository, cache DashboardInvalidator, audit AuditLogsService) ResidentService {
	return &residentService{residentRepo: residentRepo, cache: cache, audit: audit, now: time.Now}
}

func parseOptionalDate(value, field string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, err := common.ParseDate(value, field)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func invalidateDashboard(ctx context.Context, cache DashboardInvalidator, orgID uuid.UUID) {
	if cache == nil {
		return
	}
	if err := cache.InvalidateDashboard(ctx, orgID); err != nil {
		logger.FromContext(ctx).Warn("failed to invalidate dashboard cache", zap.String("organization_id", orgID.String()), zap.Error(err))
	}
}

func (s *residentService) Create(ctx context.Context, orgID uuid.UUID, req *models.CreateResidentRequest) (*models.Resident, error) {
	name := strings.TrimSpace(req.FullName)
	if name == "" {
		return nil, fmt.Errorf("%w: full_name is required", common.ErrInvalidInput)
	}
	moveIn, err := parseOptionalDate(req.MoveInDate, "move_in_date")
	if err != nil {
		return nil, err
	}
	if moveIn == nil {
		today := s.today()
		moveIn = &today
	}

	resident := &models.Resident{
		OrganizationID: orgID,
		RoomID:         req.RoomID,
		FullName:       name,
		Phone:          strings.TrimSpace(req.Phone),
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		NationalID:     strings.TrimSpace(req.NationalID),
		MoveInDate:     moveIn,
		Deposit:        req.Deposit.Round(2),
		Status:         models.ResidentActive,
	}
	if err := s.residentRepo.Create(ctx, resident); err != nil {
		return nil, err
	}
	invalidateDashboard(ctx, s.cache, orgID)
	s.audit.Record(ctx, &orgID, "residents", resident.ID.String(), models.ActionInsert, nil, resident)
	return resident, nil
}

func (s *residentService) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Resident, error) {
	return s.residentRepo.GetByID(ctx, orgID, id)
}

func (s *residentService) List(ctx context.Context, orgID uuid.UUID, filters models.ResidentFilters) ([]*models.Resident, int, error) {
	filters.Limit, filters.Offset = common.ValidatePaginationParams(filters.Limit, filters.Offset)
	filters.Search = common.SanitizeSearchQuery(filters.Search)
	return s.residentRepo.List(ctx, orgID, filters)
}

func (s *residentService) Update(ctx context.Context, orgID, id uuid.UUID, req *models.UpdateResidentRequest) (*models.Resident, error) {
	resident, err := s.residentRepo.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	before := *resident

	if req.FullName != nil {
		name := strings.TrimSpace(*req.FullName)
		if name == "" {
			return nil, fmt.Errorf("%w: full_name cannot be empty", common.ErrInvalidInput)
		}
		resident.FullName = name
	}
	if req.Phone != nil {
		resident.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Email != nil {
		resident.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.NationalID != nil {
		resident.NationalID = strings.TrimSpace(*req.NationalID)
	}
	if req.MoveInDate != nil {
		if resident.MoveInDate, err = parseOptionalDate(*req.MoveInDate, "move_in_date"); err != nil {
			return nil, err
		}
	}
	if req.Deposit != nil {
		resident.Deposit = req.Deposit.Round(2)
	}

	if err := s.residentRepo.Update(ctx, resident); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, &orgID, "residents", id.String(), models.ActionUpdate, before, resident)
	return resident, nil
}

func (s *residentService) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	resident, err := s.residentRepo.GetByID(ctx, orgID, id)
	if err != nil {
		return err
	}
	if err := s.residentRepo.Delete(ctx, orgID, id); err != nil {
		return err
	}
	invalidateDashboard(ctx, s.cache, orgID)
	s.audit.Record(ctx, &orgID, "residents", id.String(), models.ActionDelete, resident, nil)
	return nil
}

func (s *residentService) AssignRoom(ctx context.Context, orgID, id, roomID uuid.UUID) (*models.Resident, error) {
	before, err := s.residentRepo.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	resident, err := s.residentRepo.AssignRoom(ctx, orgID, id, roomID)
	if err != nil {
		return nil, err
	}
	invalidateDashboard(ctx, s.cache, orgID)
	s.audit.Record(ctx, &orgID, "residents", id.String(), models.ActionUpdate,
		models.JSONB{"room_id": before.RoomID}, models.JSONB{"room_id": resident.RoomID})
	return resident, nil
}

func (s *residentService) MoveOut(ctx context.Context, orgID, id uuid.UUID, date string) (*models.Resident, error) {
	moveOut, err := parseOptionalDate(date, "move_out_date")
	if err != nil {
		return nil, err
	}
	if moveOut == nil {
		today := s.today()
		moveOut = &today
	}

	resident, err := s.residentRepo.MoveOut(ctx, orgID, id, *moveOut)
	if err != nil {
		return nil, err
	}
	invalidateDashboard(ctx, s.cache, orgID)
	s.audit.Record(ctx, &orgID, "residents", id.String(), models.ActionStatusChange,
		models.JSONB{"status": models.ResidentActive},
		models.JSONB{"status": resident.Status, "move_out_date": moveOut.Format(models.DateLayout)})
	return resident, nil
}

func (s *residentService) IssueLinkCode(ctx context.Context, orgID, id uuid.UUID) (*models.LinkCodeResponse, error) {
	for attempt := 0; attempt < linkCodeAttempts; attempt++ {
		code, err := newLinkCode()
		if err != nil {
			return nil, err
		}
		err = s.residentRepo.SetLinkCode(ctx, orgID, id, code)
		if errors.Is(err, common.ErrConflict) {
			continue
		}
		if errors.Is(err, common.ErrNotFound) {
			// the update also misses moved-out residents
			if _, getErr := s.residentRepo.GetByID(ctx, orgID, id); getErr != nil {
				return nil, getErr
			}
			return nil, fmt.Errorf("resident has moved out: %w", common.ErrConflict)
		}
		if err != nil {
			return nil, err
		}
		s.audit.Record(ctx, &orgID, "residents", id.String(), models.ActionUpdate, nil, models.JSONB{"link_code": "issued"})
		return &models.LinkCodeResponse{ResidentID: id, LinkCode: code}, nil
	}
	return nil, fmt.Errorf("could not allocate a unique link code: %w", common.ErrConflict)
}

func (s *residentService) UnlinkChat(ctx context.Context, orgID, id uuid.UUID) error {
	if err := s.residentRepo.UnlinkChat(ctx, orgID, id); err != nil {
		return err
	}
	s.audit.Record(ctx, &orgID, "residents", id.String(), models.ActionUpdate, nil, models.JSONB{"chat_user_id": nil})
	return nil
}

func (s *residentService) BindChat(ctx context.Context, code, chatUserID string) (*models.Resident, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != linkCodeLength || chatUserID == "" {
		return nil, fmt.Errorf("%w: malformed link request", common.ErrInvalidInput)
	}
	resident, err := s.residentRepo.BindChatByLinkCode(ctx, code, chatUserID)
	if err != nil {
		return nil, err
	}
	orgID := resident.OrganizationID
	s.audit.Record(ctx, &orgID, "residents", resident.ID.String(), models.ActionUpdate, nil, models.JSONB{"chat_user_id": chatUserID})
	return resident, nil
}

func (s *residentService) today() time.Time {
	n := s.now()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
}

func newLinkCode() (string, error) {
	buf := make([]byte, linkCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = linkCodeAlphabet[int(b)%len(linkCodeAlphabet)]
	}
	return string(buf), nil
}
